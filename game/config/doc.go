// Package config provides configuration management for Neutreeko games.
//
// The config package handles:
//   - Loading game configurations from JSON files
//   - Configuration validation through engine.ValidateGameConfig
//   - Default configuration management
//   - Configuration discovery and listing
//
// Configuration Format:
//
// Game configurations are stored as JSON files in the configs directory.
// Each configuration defines:
//   - The variant: "full" (two players, eight directions) or "easy"
//   - The starting layout as five rows of '.', '1' and '2'
//   - The first player, the turn limit and the reward table
//   - Whether the easy variant draws a random starting position
//
// Built-in Configurations:
//
// "classic" and "easy" are always available. A JSON file with the same name
// in the config directory overrides the built-in version.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("easy")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
package config
