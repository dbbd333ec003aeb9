package env

import (
	"errors"
	"fmt"

	"github.com/wricardo/mcp-training/neutreeko/game/engine"
)

// ErrEpisodeDone is returned by Step once the episode has finished
var ErrEpisodeDone = errors.New("episode is done, call reset")

// RepetitionLimit ends full-variant episodes when a position recurs this often
const RepetitionLimit = 3

// EasyObservationSpace is the number of distinct easy boards: C(25, 3)
const EasyObservationSpace = 2300

// Observation is what an agent sees after reset or a step
type Observation struct {
	Board engine.Board `json:"board"`
	// State is the easy-variant board index, -1 for the full game
	State int `json:"state"`
}

// Info carries diagnostics about a step
type Info struct {
	Turn           int              `json:"turn"`
	Action         int              `json:"action"`
	Player         engine.Marker    `json:"player"`
	PlayerName     string           `json:"player_name"`
	Direction      string           `json:"direction,omitempty"`
	NewPosition    *engine.Position `json:"new_position,omitempty"`
	OldObservation Observation      `json:"old_observation"`
	Kind           engine.MoveKind  `json:"kind,omitempty"`
	Illegal        bool             `json:"illegal,omitempty"`
	Reason         string           `json:"reason,omitempty"`
}

// StepResult is returned by Step
type StepResult struct {
	Observation Observation `json:"observation"`
	Reward      float64     `json:"reward"`
	Done        bool        `json:"done"`
	Info        Info        `json:"info"`
}

// Env wraps a game engine with an action-index interface and a reward table
type Env struct {
	engine   *engine.GameEngine
	config   *engine.GameConfig
	rewards  engine.Rewards
	maxTurns int
}

// New builds an environment for config and resets it
func New(config *engine.GameConfig, opts ...engine.Option) (*Env, error) {
	eng, err := engine.NewEngine(config, opts...)
	if err != nil {
		return nil, err
	}
	return &Env{
		engine:   eng,
		config:   config,
		rewards:  config.RewardTable(),
		maxTurns: config.TurnLimit(),
	}, nil
}

// Reset starts a new episode
func (e *Env) Reset() Observation {
	e.engine.Reset()
	return e.Observation()
}

// Step applies the action of the acting player. Actions naming a move that
// cannot advance are penalized with the illegal reward and change nothing.
func (e *Env) Step(action int) (*StepResult, error) {
	if e.Done() {
		return nil, ErrEpisodeDone
	}

	before := e.Observation()
	player := e.engine.CurrentPlayer()
	info := Info{
		Turn:           e.engine.TurnsCount(),
		Action:         action,
		Player:         player,
		PlayerName:     player.Name(),
		OldObservation: before,
	}

	move, err := e.engine.DecodeAction(action)
	if err != nil {
		return nil, err
	}

	outcome, err := e.engine.ApplyMove(move.Position, move.Direction)
	if err != nil {
		if !errors.Is(err, engine.ErrIllegalMove) {
			return nil, fmt.Errorf("step %d: %w", action, err)
		}
		info.Illegal = true
		info.Reason = err.Error()
		return &StepResult{
			Observation: before,
			Reward:      e.rewards.Illegal,
			Done:        e.Done(),
			Info:        info,
		}, nil
	}

	to := outcome.To
	info.Direction = outcome.Direction.String()
	info.NewPosition = &to
	info.Kind = outcome.Kind

	reward := e.rewards.Default
	if outcome.Kind == engine.MoveWin {
		reward = e.rewards.Win
	}

	return &StepResult{
		Observation: e.Observation(),
		Reward:      reward,
		Done:        e.Done(),
		Info:        info,
	}, nil
}

// Done reports whether the episode has ended
func (e *Env) Done() bool {
	if e.engine.IsGameOver() {
		return true
	}
	if e.engine.TurnsCount() > e.maxTurns {
		return true
	}
	state := e.engine.GetState()
	return state.Variant == engine.VariantFull && e.engine.RepetitionCount() >= RepetitionLimit
}

// Observation returns the current observation
func (e *Env) Observation() Observation {
	board := e.engine.Board()
	obs := Observation{Board: board, State: -1}
	if e.engine.GetState().Variant == engine.VariantEasy {
		obs.State = StateIndex(board)
	}
	return obs
}

// LegalActions lists the action indices whose moves can advance
func (e *Env) LegalActions() []int {
	var actions []int
	board := e.engine.Board()
	for a := 0; a < e.ActionSpace(); a++ {
		move, err := e.engine.DecodeAction(a)
		if err != nil {
			continue
		}
		if _, ok := engine.Resolve(board, move.Position, move.Direction); ok {
			actions = append(actions, a)
		}
	}
	return actions
}

// ActionSpace returns the number of action indices
func (e *Env) ActionSpace() int {
	return e.engine.ActionCount()
}

// ObservationSpace returns the number of distinct observations, 0 when the
// space is not enumerated
func (e *Env) ObservationSpace() int {
	if e.engine.GetState().Variant == engine.VariantEasy {
		return EasyObservationSpace
	}
	return 0
}

// Render returns the textual board
func (e *Env) Render() string {
	return e.engine.Render()
}

// Engine exposes the underlying engine for read access
func (e *Env) Engine() *engine.GameEngine {
	return e.engine
}

// Config returns the configuration the environment was built from
func (e *Env) Config() *engine.GameConfig {
	return e.config
}

// MaxTurns returns the turn limit of an episode
func (e *Env) MaxTurns() int {
	return e.maxTurns
}

// Rewards returns the reward table
func (e *Env) Rewards() engine.Rewards {
	return e.rewards
}
