// Package engine provides the core game logic for Neutreeko.
//
// The engine package implements the game mechanics including:
//   - The fixed 5x5 board and out-of-bounds safe cell addressing
//   - Slide resolution: pieces travel until blocked by an edge or a piece
//   - Move enumeration in deterministic (row, col, direction) order
//   - Three-in-a-row detection over rows, columns and both diagonal families
//   - Game state management, stable piece slots and repetition counting
//   - Configuration loading and validation
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameState represents the current game state,
// while GameConfig defines the variant and starting layout loaded from JSON
// files. Board is a value type, so snapshots are plain copies.
//
// Usage:
//
//	config, err := engine.LoadConfigByName("configs", "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	outcome, err := gameEngine.ApplyMove(engine.Position{Row: 0, Col: 1}, engine.Down)
//	if errors.Is(err, engine.ErrIllegalMove) {
//		// the piece could not advance
//	}
//
// Game Rules:
//
// Each player owns three pieces. A move slides one piece in one of eight
// directions as far as it can go. The first player to line up three pieces
// contiguously wins. The easy variant has a single player with three white
// pieces restricted to orthogonal slides and no turn alternation.
package engine
