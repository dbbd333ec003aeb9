package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/wricardo/mcp-training/neutreeko/game/engine"
	"github.com/wricardo/mcp-training/neutreeko/game/env"
	"github.com/wricardo/mcp-training/neutreeko/game/service"
)

var (
	ErrSessionNotFound      = service.ErrSessionNotFound
	ErrSessionAlreadyExists = service.ErrSessionAlreadyExists
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

// maxIDAttempts bounds retries when a generated ID collides
const maxIDAttempts = 10

// Manager handles game session lifecycle
type Manager struct {
	sessions map[string]*service.Session
	options  []engine.Option
	now      func() time.Time
	mu       sync.RWMutex
}

// NewManager creates a new session manager. The engine options are applied
// to every session's environment.
func NewManager(opts ...engine.Option) *Manager {
	return &Manager{
		sessions: make(map[string]*service.Session),
		options:  opts,
		now:      time.Now,
	}
}

// Create creates a new session with the given ID and configuration. An
// empty ID is replaced by a generated one.
func (m *Manager) Create(id string, config *engine.GameConfig) (*service.Session, error) {
	if strings.ContainsAny(id, " /\\?#") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}

	e, err := env.New(config, m.options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create environment: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id, err = m.generateSessionID()
		if err != nil {
			return nil, err
		}
	} else if m.sessionExists(id) {
		return nil, ErrSessionAlreadyExists
	}

	session := service.NewSession(id, e, config, m.now())
	m.sessions[strings.ToLower(id)] = session

	log.Debug().Str("session", id).Int("active", len(m.sessions)).Msg("session stored")
	return session, nil
}

// Get retrieves a session by ID (case-insensitive)
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if session, exists := m.sessions[strings.ToLower(id)]; exists {
		return session, nil
	}
	return nil, ErrSessionNotFound
}

// GetOrCreate gets an existing session or creates a new one
func (m *Manager) GetOrCreate(id string, config *engine.GameConfig) (*service.Session, error) {
	session, err := m.Get(id)
	if err == nil {
		return session, nil
	}

	if errors.Is(err, ErrSessionNotFound) {
		return m.Create(id, config)
	}

	return nil, err
}

// List returns all active sessions
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}

	return result
}

// Delete removes a session
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lowerID := strings.ToLower(id)
	if _, exists := m.sessions[lowerID]; !exists {
		return ErrSessionNotFound
	}
	delete(m.sessions, lowerID)
	return nil
}

// UpdateLastAccessed updates the last accessed time for a session
func (m *Manager) UpdateLastAccessed(id string) error {
	session, err := m.Get(id)
	if err != nil {
		return err
	}
	session.Touch(m.now())
	return nil
}

// CleanupExpiredSessions removes sessions that haven't been accessed in the given duration
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-maxAge)
	removed := 0

	for id, session := range m.sessions {
		if session.LastAccessedAt().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}

	if removed > 0 {
		log.Info().Int("removed", removed).Int("active", len(m.sessions)).Msg("expired sessions cleaned up")
	}
	return removed
}

// Count returns the number of active sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// generateSessionID returns the first group of a random UUID, retrying on
// collision. Callers hold the write lock.
func (m *Manager) generateSessionID() (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := strings.SplitN(uuid.NewString(), "-", 2)[0]
		if !m.sessionExists(id) {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: could not generate a unique id", ErrInvalidSessionID)
}

// sessionExists checks if a session exists (case-insensitive)
func (m *Manager) sessionExists(id string) bool {
	_, exists := m.sessions[strings.ToLower(id)]
	return exists
}
