package service

import (
	"time"

	"github.com/wricardo/mcp-training/neutreeko/game/engine"
	"github.com/wricardo/mcp-training/neutreeko/game/env"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID               string             `json:"id"`
	ConfigName       string             `json:"config_name"`
	CreatedAt        time.Time          `json:"created_at"`
	LastAccessedAt   time.Time          `json:"last_accessed_at"`
	Done             bool               `json:"done"`
	ActionSpace      int                `json:"action_space"`
	ObservationSpace int                `json:"observation_space"`
	GameState        *engine.GameState  `json:"game_state"`
	GameConfig       *engine.GameConfig `json:"game_config"`
}

// MoveRequest addresses a piece by cell and names a slide direction
type MoveRequest struct {
	Row       int    `json:"row"`
	Col       int    `json:"col"`
	Direction string `json:"direction"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success   bool                `json:"success"`
	Outcome   *engine.MoveOutcome `json:"outcome"`
	Reward    float64             `json:"reward"`
	Done      bool                `json:"done"`
	GameState *engine.GameState   `json:"game_state"`
	Message   string              `json:"message"`
	Events    []GameEvent         `json:"events,omitempty"`
}

// StepResult contains the result of an environment step
type StepResult struct {
	env.StepResult
	Move      engine.Move       `json:"move"`
	GameState *engine.GameState `json:"game_state"`
	Events    []GameEvent       `json:"events,omitempty"`
}

// GameStateView is the game state with environment status
type GameStateView struct {
	State           *engine.GameState `json:"state"`
	Done            bool              `json:"done"`
	Observation     env.Observation   `json:"observation"`
	LegalActions    []int             `json:"legal_actions"`
	RepetitionCount int               `json:"repetition_count"`
	MaxTurns        int               `json:"max_turns"`
}

// PossibleMovesResult lists moves for a player
type PossibleMovesResult struct {
	Player engine.Marker `json:"player"`
	Mode   string        `json:"mode"`
	Moves  []engine.Move `json:"moves"`
	Count  int           `json:"count"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string           `json:"type"` // "move", "win", "illegal", "episode_done", "reset"
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Position  *engine.Position `json:"position,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename    string         `json:"filename"`
	ConfigID    string         `json:"config_id"` // The identifier to use for session creation
	Name        string         `json:"name"`      // Display name
	Description string         `json:"description"`
	Variant     engine.Variant `json:"variant"`
	RandomStart bool           `json:"random_start"`
	MaxTurns    int            `json:"max_turns"`
}
