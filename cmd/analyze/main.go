// Command analyze prints quick, human-readable heuristics about configuration
// files in the project's configs directory. For each starting position it
// summarizes mobility per player, counts pieces with no legal slide, lists
// immediately winning moves and, for the easy variant, the observation index
// an agent would see on the first step.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/mcp-training/neutreeko/game/engine"
	"github.com/wricardo/mcp-training/neutreeko/game/env"
)

// analysisSeed fixes the sampled board for random-start configs
const analysisSeed = 1

// PlayerAnalysis holds opening statistics for one side
type PlayerAnalysis struct {
	Player        engine.Marker
	Pieces        []engine.Position
	LegalMoves    int
	BlockedPieces int
	WinningMoves  []engine.Move
}

// Analysis is the summary of a configuration's starting position
type Analysis struct {
	Name        string
	Variant     engine.Variant
	RandomStart bool
	FirstPlayer engine.Marker
	MaxTurns    int
	Board       engine.Board
	StateIndex  int
	Players     []PlayerAnalysis
}

func main() {
	configDir := "configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil || len(files) == 0 {
		fmt.Printf("No config files found in %s\n", configDir)
		os.Exit(1)
	}

	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))
		if err := analyzeConfig(file, os.Stdout); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}
}

// analyzeConfig loads the config at path and writes its report to w
func analyzeConfig(path string, w io.Writer) error {
	config, err := engine.LoadGameConfig(path)
	if err != nil {
		return fmt.Errorf("loading %s: %w", filepath.Base(path), err)
	}

	analysis, err := analyze(config)
	if err != nil {
		return err
	}
	writeReport(w, analysis)
	return nil
}

// analyze inspects the board a fresh game would start from
func analyze(config *engine.GameConfig) (*Analysis, error) {
	eng, err := engine.NewEngine(config, engine.WithSeed(analysisSeed))
	if err != nil {
		return nil, err
	}

	board := eng.Board()
	analysis := &Analysis{
		Name:        config.Name,
		Variant:     config.Variant,
		RandomStart: config.RandomStart,
		FirstPlayer: config.StartingPlayer(),
		MaxTurns:    config.TurnLimit(),
		Board:       board,
		StateIndex:  -1,
	}
	if config.Variant == engine.VariantEasy {
		analysis.StateIndex = env.StateIndex(board)
	}

	dirs := config.Variant.Directions()
	for _, player := range config.Variant.Markers() {
		pa := PlayerAnalysis{
			Player: player,
			Pieces: board.Positions(player),
		}
		for _, pos := range pa.Pieces {
			mobile := false
			for _, d := range dirs {
				dest, ok := engine.Resolve(board, pos, d)
				if !ok {
					continue
				}
				mobile = true
				pa.LegalMoves++

				after := board
				after.Set(pos, engine.Empty)
				after.Set(dest, player)
				if engine.HasThreeInARow(after, player) {
					pa.WinningMoves = append(pa.WinningMoves, engine.Move{Position: pos, Direction: d})
				}
			}
			if !mobile {
				pa.BlockedPieces++
			}
		}
		analysis.Players = append(analysis.Players, pa)
	}

	return analysis, nil
}

func writeReport(w io.Writer, a *Analysis) {
	fmt.Fprintf(w, "Name: %s\n", a.Name)
	fmt.Fprintf(w, "Variant: %s (%d directions)\n", a.Variant, len(a.Variant.Directions()))
	if a.RandomStart {
		fmt.Fprintf(w, "Start: random (sample with seed %d)\n", analysisSeed)
	}
	fmt.Fprintf(w, "First Player: %s\n", a.FirstPlayer.Name())
	fmt.Fprintf(w, "Max Turns: %d\n", a.MaxTurns)
	fmt.Fprint(w, a.Board.String())
	if a.StateIndex >= 0 {
		fmt.Fprintf(w, "Observation Index: %d of %d\n", a.StateIndex, env.EasyObservationSpace)
	}

	for _, p := range a.Players {
		positions := make([]string, len(p.Pieces))
		for i, pos := range p.Pieces {
			positions[i] = pos.String()
		}
		fmt.Fprintf(w, "%s pieces: %s\n", p.Player.Name(), strings.Join(positions, " "))
		fmt.Fprintf(w, "  Legal moves: %d\n", p.LegalMoves)

		if p.BlockedPieces > 0 {
			fmt.Fprintf(w, "  ⚠️  %d piece(s) cannot move\n", p.BlockedPieces)
		}
		if p.LegalMoves == 0 {
			fmt.Fprintf(w, "  ⚠️  CRITICAL: %s has no legal move\n", p.Player.Name())
		}

		if len(p.WinningMoves) > 0 {
			fmt.Fprintf(w, "  ⚠️  %d immediate winning move(s)\n", len(p.WinningMoves))
			for i, m := range p.WinningMoves {
				if i < 5 {
					fmt.Fprintf(w, "     Win: %s\n", m)
				}
			}
			if len(p.WinningMoves) > 5 {
				fmt.Fprintf(w, "     ... and %d more\n", len(p.WinningMoves)-5)
			}
		} else {
			fmt.Fprintf(w, "  ✅ No immediate winning move\n")
		}
	}
}
