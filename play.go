package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/neutreeko/game/agent"
	"github.com/wricardo/mcp-training/neutreeko/game/config"
	"github.com/wricardo/mcp-training/neutreeko/game/engine"
	"github.com/wricardo/mcp-training/neutreeko/game/env"
	"github.com/wricardo/mcp-training/neutreeko/settings"
)

func playCommand(cfg func() *settings.Settings) *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "Run agent episodes locally and print the boards",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "config id (classic, easy, easy_random or a file in CONFIG_DIR)", Value: "classic"},
			&cli.StringFlag{Name: "agent", Usage: "agent: random or greedy", Value: "greedy"},
			&cli.IntFlag{Name: "episodes", Usage: "number of episodes", Value: 1},
			&cli.IntFlag{Name: "seed", Usage: "random seed, 0 for time based"},
			&cli.BoolFlag{Name: "quiet", Usage: "only print the summary"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts := playOptions{
				ConfigID: cmd.String("config"),
				Agent:    cmd.String("agent"),
				Episodes: int(cmd.Int("episodes")),
				Seed:     uint64(cmd.Int("seed")),
				Quiet:    cmd.Bool("quiet"),
			}
			return runPlay(ctx, cfg(), opts, os.Stdout)
		},
	}
}

type playOptions struct {
	ConfigID string
	Agent    string
	Episodes int
	Seed     uint64
	Quiet    bool
}

// playSummary aggregates episode results
type playSummary struct {
	Episodes    int
	Wins        map[engine.Marker]int
	Unfinished  int
	TotalSteps  int
	TotalReward float64
}

func runPlay(ctx context.Context, cfg *settings.Settings, opts playOptions, w io.Writer) error {
	if opts.Episodes <= 0 {
		return fmt.Errorf("episodes must be positive, got %d", opts.Episodes)
	}

	configs, err := config.NewManager(cfg.ConfigDir)
	if err != nil {
		return err
	}
	gameConfig, err := configs.LoadConfig(opts.ConfigID)
	if err != nil {
		return err
	}

	var engineOpts []engine.Option
	if opts.Seed != 0 {
		engineOpts = append(engineOpts, engine.WithSeed(opts.Seed))
	}
	e, err := env.New(gameConfig, engineOpts...)
	if err != nil {
		return err
	}
	a, err := agent.New(opts.Agent, opts.Seed)
	if err != nil {
		return err
	}

	out := termenv.NewOutput(w)
	summary := playSummary{Wins: map[engine.Marker]int{}}

	for i := 0; i < opts.Episodes; i++ {
		e.Reset()
		if !opts.Quiet {
			fmt.Fprintf(w, "Episode %d (%s, %s agent)\n", i+1, gameConfig.Name, a.Name())
			fmt.Fprint(w, renderBoard(out, e.Engine().Board()))
		}

		result, err := agent.RunEpisode(ctx, e, a, func(step *env.StepResult) {
			if opts.Quiet || step.Info.Illegal {
				return
			}
			fmt.Fprintf(w, "\n%s %s -> %s, reward %g\n",
				step.Info.PlayerName, step.Info.Direction, step.Info.NewPosition, step.Reward)
			fmt.Fprint(w, renderBoard(out, step.Observation.Board))
		})
		if err != nil {
			return err
		}

		summary.Episodes++
		summary.TotalSteps += result.Steps
		summary.TotalReward += result.TotalReward
		if result.Winner == engine.Empty {
			summary.Unfinished++
		} else {
			summary.Wins[result.Winner]++
		}

		log.Debug().
			Int("episode", i+1).
			Int("steps", result.Steps).
			Str("winner", result.Winner.Name()).
			Float64("reward", result.TotalReward).
			Msg("episode finished")

		if !opts.Quiet {
			fmt.Fprintf(w, "\n%s\n\n", episodeLine(result))
		}
	}

	fmt.Fprint(w, summary.String())
	return nil
}

func episodeLine(result *agent.EpisodeResult) string {
	if result.Winner == engine.Empty {
		return fmt.Sprintf("No winner after %d turns", result.Turns)
	}
	return fmt.Sprintf("%s wins after %d turns (reward %g)", result.Winner.Name(), result.Turns, result.TotalReward)
}

func (s playSummary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Episodes: %d\n", s.Episodes)
	fmt.Fprintf(&b, "White wins: %d\n", s.Wins[engine.White])
	fmt.Fprintf(&b, "Black wins: %d\n", s.Wins[engine.Black])
	fmt.Fprintf(&b, "Unfinished: %d\n", s.Unfinished)
	if s.Episodes > 0 {
		fmt.Fprintf(&b, "Avg steps: %.1f\n", float64(s.TotalSteps)/float64(s.Episodes))
		fmt.Fprintf(&b, "Avg reward: %.2f\n", s.TotalReward/float64(s.Episodes))
	}
	return b.String()
}

// renderBoard draws the board with colored pieces. Without a color-capable
// terminal termenv degrades to plain text in the Board.String layout.
func renderBoard(out *termenv.Output, board engine.Board) string {
	var b strings.Builder
	b.WriteString("   0 1 2 3 4\n")
	for r := 0; r < engine.BoardSize; r++ {
		fmt.Fprintf(&b, "%d ", r)
		for c := 0; c < engine.BoardSize; c++ {
			b.WriteString(" ")
			switch board[r][c] {
			case engine.White:
				b.WriteString(out.String("W").Foreground(termenv.ANSIBrightYellow).Bold().String())
			case engine.Black:
				b.WriteString(out.String("B").Foreground(termenv.ANSIBrightBlue).Bold().String())
			default:
				b.WriteString(out.String(".").Faint().String())
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
