package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/mcp-training/neutreeko/game/engine"
	"github.com/wricardo/mcp-training/neutreeko/game/env"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	now      func() time.Time
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		now:      time.Now,
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// acquire looks up a session, locks it and records the access. Callers must
// call the returned release func.
func (s *gameServiceImpl) acquire(ctx context.Context, sessionID string) (*Session, func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	sess.Lock()
	sess.Touch(s.now())
	return sess, sess.Unlock, nil
}

func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	return &SessionInfo{
		ID:               sess.ID,
		ConfigName:       configID,
		CreatedAt:        sess.CreatedAt,
		LastAccessedAt:   sess.LastAccessedAt(),
		Done:             sess.Env.Done(),
		ActionSpace:      sess.Env.ActionSpace(),
		ObservationSpace: sess.Env.ObservationSpace(),
		GameState:        sess.Engine().GetState().Clone(),
		GameConfig:       sess.Config,
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' (available: %v): %w", configName, configIDs, err)
				}
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	log.Info().Str("session", sess.ID).Str("config", configID).Str("variant", string(config.Variant)).Msg("session created")

	sess.Lock()
	defer sess.Unlock()
	return s.sessionInfo(sess, configID), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, release, err := s.acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	return s.sessionInfo(sess, s.getConfigID(sess.Config.Name)), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		sess.Lock()
		result = append(result, s.sessionInfo(sess, s.getConfigID(sess.Config.Name)))
		sess.Unlock()
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("session %s: %w", sessionID, err)
	}
	log.Info().Str("session", sessionID).Msg("session deleted")
	return nil
}

// Step applies an action index through the agent environment
func (s *gameServiceImpl) Step(ctx context.Context, sessionID string, action int) (*StepResult, error) {
	sess, release, err := s.acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	move, err := sess.Engine().DecodeAction(action)
	if err != nil && !sess.Env.Done() {
		return nil, err
	}

	res, err := sess.Env.Step(action)
	if err != nil {
		return nil, err
	}

	result := &StepResult{
		StepResult: *res,
		Move:       move,
		GameState:  sess.Engine().GetState().Clone(),
		Events:     s.stepEvents(res.Info, res.Done),
	}

	log.Debug().
		Str("session", sessionID).
		Int("action", action).
		Str("kind", string(res.Info.Kind)).
		Bool("illegal", res.Info.Illegal).
		Float64("reward", res.Reward).
		Bool("done", res.Done).
		Msg("step")

	return result, nil
}

func (s *gameServiceImpl) stepEvents(info env.Info, done bool) []GameEvent {
	now := s.now()
	var events []GameEvent
	switch {
	case info.Illegal:
		events = append(events, GameEvent{Type: "illegal", Message: info.Reason, Timestamp: now})
	case info.Kind == engine.MoveWin:
		events = append(events, GameEvent{
			Type:      "win",
			Message:   fmt.Sprintf("%s wins", info.PlayerName),
			Timestamp: now,
			Position:  info.NewPosition,
		})
	default:
		events = append(events, GameEvent{
			Type:      "move",
			Message:   fmt.Sprintf("%s moved %s", info.PlayerName, info.Direction),
			Timestamp: now,
			Position:  info.NewPosition,
		})
	}
	if done && info.Kind != engine.MoveWin {
		events = append(events, GameEvent{Type: "episode_done", Message: "episode finished", Timestamp: now})
	}
	return events
}

// Move slides the piece at the requested cell
func (s *gameServiceImpl) Move(ctx context.Context, sessionID string, req MoveRequest) (*MoveResult, error) {
	dir, err := engine.ParseDirection(req.Direction)
	if err != nil {
		return nil, err
	}

	sess, release, err := s.acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	eng := sess.Engine()
	if !eng.IsGameOver() && sess.Env.Done() {
		return nil, env.ErrEpisodeDone
	}

	pos := engine.Position{Row: req.Row, Col: req.Col}
	outcome, err := eng.ApplyMove(pos, dir)
	if err != nil {
		log.Debug().Str("session", sessionID).Str("from", pos.String()).Str("direction", dir.String()).Err(err).Msg("move rejected")
		return nil, err
	}

	rewards := sess.Env.Rewards()
	result := &MoveResult{
		Success:   true,
		Outcome:   outcome,
		Reward:    rewards.Default,
		Done:      sess.Env.Done(),
		GameState: eng.GetState().Clone(),
		Message:   fmt.Sprintf("%s moved %s to %s", outcome.Player.Name(), outcome.Direction, outcome.To),
	}

	to := outcome.To
	event := GameEvent{Type: "move", Message: result.Message, Timestamp: s.now(), Position: &to}
	if outcome.Kind == engine.MoveWin {
		result.Reward = rewards.Win
		result.Message = fmt.Sprintf("%s wins", outcome.Player.Name())
		event.Type = "win"
		event.Message = result.Message
	}
	result.Events = append(result.Events, event)

	log.Info().
		Str("session", sessionID).
		Str("player", outcome.Player.Name()).
		Str("from", outcome.From.String()).
		Str("to", outcome.To.String()).
		Str("kind", string(outcome.Kind)).
		Msg("move")

	return result, nil
}

// Reset resets a game session to initial state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	sess, release, err := s.acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	sess.Env.Reset()
	log.Info().Str("session", sessionID).Msg("session reset")
	return sess.Engine().GetState().Clone(), nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*GameStateView, error) {
	sess, release, err := s.acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	legal := sess.Env.LegalActions()
	if legal == nil {
		legal = []int{}
	}
	return &GameStateView{
		State:           sess.Engine().GetState().Clone(),
		Done:            sess.Env.Done(),
		Observation:     sess.Env.Observation(),
		LegalActions:    legal,
		RepetitionCount: sess.Engine().RepetitionCount(),
		MaxTurns:        sess.Env.MaxTurns(),
	}, nil
}

// PossibleMoves enumerates moves for player. An Empty player means the
// player to move. mode is "valid" (default) or "all".
func (s *gameServiceImpl) PossibleMoves(ctx context.Context, sessionID string, player engine.Marker, mode string) (*PossibleMovesResult, error) {
	legality, err := engine.ParseLegality(mode)
	if err != nil {
		return nil, err
	}

	sess, release, err := s.acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	if player == engine.Empty {
		player = sess.Engine().CurrentPlayer()
	}
	moves, err := sess.Engine().PossibleMoves(player, legality)
	if err != nil {
		return nil, err
	}

	modeName := "valid"
	if legality == engine.AllMoves {
		modeName = "all"
	}
	return &PossibleMovesResult{
		Player: player,
		Mode:   modeName,
		Moves:  moves,
		Count:  len(moves),
	}, nil
}

// Render returns the textual board of a session
func (s *gameServiceImpl) Render(ctx context.Context, sessionID string) (string, error) {
	sess, release, err := s.acquire(ctx, sessionID)
	if err != nil {
		return "", err
	}
	defer release()

	return sess.Env.Render(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	sess, release, err := s.acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	history := append([]engine.MoveHistoryEntry(nil), sess.Engine().GetMoveHistory()...)
	release()

	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var moves []engine.MoveHistoryEntry
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = history[start:end]
	}

	if moves == nil {
		moves = []engine.MoveHistoryEntry{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if err := s.configs.SaveConfig(configName, config); err != nil {
		return err
	}
	log.Info().Str("config", configName).Msg("config saved")
	return nil
}
