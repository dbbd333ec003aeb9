package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/neutreeko/game/engine"
	"github.com/wricardo/mcp-training/neutreeko/game/env"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrConfigNotFound       = errors.New("configuration not found")
	ErrInvalidConfig        = errors.New("invalid configuration")
	ErrInvalidRequest       = errors.New("invalid request")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Step(ctx context.Context, sessionID string, action int) (*StepResult, error)
	Move(ctx context.Context, sessionID string, req MoveRequest) (*MoveResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*GameStateView, error)
	PossibleMoves(ctx context.Context, sessionID string, player engine.Marker, mode string) (*PossibleMovesResult, error)
	Render(ctx context.Context, sessionID string) (string, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, config *engine.GameConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// Session represents an active game session. Game operations on a session
// are serialized with Lock and Unlock.
type Session struct {
	ID        string
	Env       *env.Env
	Config    *engine.GameConfig
	CreatedAt time.Time

	mu           sync.Mutex
	accessMu     sync.RWMutex
	lastAccessed time.Time
}

// NewSession wraps an environment into a session
func NewSession(id string, e *env.Env, config *engine.GameConfig, now time.Time) *Session {
	return &Session{
		ID:           id,
		Env:          e,
		Config:       config,
		CreatedAt:    now,
		lastAccessed: now,
	}
}

// Lock acquires exclusive access to the session's game
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session's game
func (s *Session) Unlock() { s.mu.Unlock() }

// Touch records an access at t
func (s *Session) Touch(t time.Time) {
	s.accessMu.Lock()
	s.lastAccessed = t
	s.accessMu.Unlock()
}

// LastAccessedAt returns the time of the most recent access
func (s *Session) LastAccessedAt() time.Time {
	s.accessMu.RLock()
	defer s.accessMu.RUnlock()
	return s.lastAccessed
}

// Engine returns the session's game engine
func (s *Session) Engine() *engine.GameEngine {
	return s.Env.Engine()
}
