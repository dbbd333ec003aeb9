package agent

import (
	"context"
	"errors"
	"time"

	"golang.org/x/exp/rand"

	"github.com/wricardo/mcp-training/neutreeko/game/engine"
	"github.com/wricardo/mcp-training/neutreeko/game/env"
)

// ErrNoLegalAction is returned when the acting player cannot move
var ErrNoLegalAction = errors.New("no legal action available")

// Agent picks the next action for an environment
type Agent interface {
	Name() string
	Choose(e *env.Env) (int, error)
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewSource(seed))
}

// RandomAgent picks uniformly among legal actions
type RandomAgent struct {
	rng *rand.Rand
}

// NewRandomAgent creates a random agent. A zero seed uses the clock.
func NewRandomAgent(seed uint64) *RandomAgent {
	return &RandomAgent{rng: newRand(seed)}
}

// Name returns the agent name
func (a *RandomAgent) Name() string {
	return "random"
}

// Choose returns a uniformly drawn legal action
func (a *RandomAgent) Choose(e *env.Env) (int, error) {
	actions := e.LegalActions()
	if len(actions) == 0 {
		return 0, ErrNoLegalAction
	}
	return actions[a.rng.Intn(len(actions))], nil
}

// GreedyAgent plays an immediately winning action when one exists and
// otherwise falls back to random play
type GreedyAgent struct {
	fallback *RandomAgent
}

// NewGreedyAgent creates a greedy agent. A zero seed uses the clock.
func NewGreedyAgent(seed uint64) *GreedyAgent {
	return &GreedyAgent{fallback: NewRandomAgent(seed)}
}

// Name returns the agent name
func (a *GreedyAgent) Name() string {
	return "greedy"
}

// Choose returns the first winning action, or a random legal one
func (a *GreedyAgent) Choose(e *env.Env) (int, error) {
	eng := e.Engine()
	board := eng.Board()
	player := eng.CurrentPlayer()

	for _, action := range e.LegalActions() {
		move, err := eng.DecodeAction(action)
		if err != nil {
			continue
		}
		if wins(board, player, move) {
			return action, nil
		}
	}
	return a.fallback.Choose(e)
}

// wins reports whether applying move on a copy of board completes a line
func wins(board engine.Board, player engine.Marker, move engine.Move) bool {
	dest, ok := engine.Resolve(board, move.Position, move.Direction)
	if !ok {
		return false
	}
	board.Set(move.Position, engine.Empty)
	board.Set(dest, player)
	return engine.HasThreeInARow(board, player)
}

// New returns the agent registered under name
func New(name string, seed uint64) (Agent, error) {
	switch name {
	case "random":
		return NewRandomAgent(seed), nil
	case "greedy":
		return NewGreedyAgent(seed), nil
	default:
		return nil, errors.New("unknown agent: " + name)
	}
}

// EpisodeResult summarizes a finished episode
type EpisodeResult struct {
	Steps       int           `json:"steps"`
	TotalReward float64       `json:"total_reward"`
	Winner      engine.Marker `json:"winner"`
	Turns       int           `json:"turns"`
}

// RunEpisode drives e until done, asking agent for every action. onStep,
// when set, is called after each step.
func RunEpisode(ctx context.Context, e *env.Env, agent Agent, onStep func(*env.StepResult)) (*EpisodeResult, error) {
	result := &EpisodeResult{}
	for !e.Done() {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		action, err := agent.Choose(e)
		if err != nil {
			return result, err
		}
		step, err := e.Step(action)
		if err != nil {
			return result, err
		}

		result.Steps++
		result.TotalReward += step.Reward
		if onStep != nil {
			onStep(step)
		}
	}

	eng := e.Engine()
	result.Winner = eng.Winner()
	result.Turns = eng.TurnsCount()
	return result, nil
}
