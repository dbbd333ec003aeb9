// Command validate checks Neutreeko game configuration JSON files. It reads
// every *.json file in the directory given as the first argument (default
// ../configs) and reports:
//   - JSON structure and the rules enforced by engine.ValidateGameConfig
//   - Reward table sanity (a win must pay more than an ordinary move)
//   - Mobility: every active player has at least one legal opening move
//
// It exits with a non-zero status if any file is invalid.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/mcp-training/neutreeko/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...interface{}) {
	r.Errors = append(r.Errors, "✓ "+fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single configuration JSON file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var config engine.GameConfig
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if err := engine.ValidateGameConfig(&config); err != nil {
		result.fail("%s", strings.TrimPrefix(err.Error(), "config validation: "))
		return result
	}

	rewards := config.RewardTable()
	if rewards.Win <= rewards.Default {
		result.fail("rewards.win (%g) must exceed rewards.default (%g)", rewards.Win, rewards.Default)
	}

	if result.Valid && !config.RandomStart {
		board, _ := engine.ParseBoard(config.Layout)
		mobility := validateMobility(board, config.Variant)
		if !mobility.Valid {
			result.Valid = false
		}
		result.Errors = append(result.Errors, mobility.Errors...)
	}

	if result.Valid {
		result.info("Name: %s", config.Name)
		result.info("Variant: %s", config.Variant)
		if config.RandomStart {
			result.info("Start: random")
		} else {
			result.info("Start: fixed layout")
		}
		result.info("First player: %s", config.StartingPlayer().Name())
		result.info("Max turns: %d", config.TurnLimit())
		result.info("Rewards: win %g, default %g, illegal %g", rewards.Win, rewards.Default, rewards.Illegal)
	}

	return result
}

// validateMobility ensures every active player can make at least one move
// from the starting board.
func validateMobility(board engine.Board, variant engine.Variant) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	for _, player := range variant.Markers() {
		moves, err := engine.Enumerate(board, player, variant.Directions(), engine.LegalOnly)
		if err != nil {
			result.fail("Cannot enumerate moves for %s: %v", player.Name(), err)
			continue
		}
		if len(moves) == 0 {
			result.fail("Mobility failure: %s has no legal opening move", player.Name())
			continue
		}
		result.info("Mobility: %s has %d legal opening moves", player.Name(), len(moves))
	}

	return result
}

// main validates every config in the target directory and prints a report
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No config files found in %s\n", configDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
