// Package service provides the business logic layer for Neutreeko sessions.
//
// The service package implements:
//   - Multi-session game management
//   - Configuration management and loading
//   - Environment steps by action index and direct piece moves
//   - Move enumeration with "valid" and "all" modes
//   - Move history tracking with pagination
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages game configuration loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the agent environment, providing session isolation, configuration
// management, and orchestration. Each session owns its own environment and
// engine. Operations on one session are serialized by the session's lock, so
// different sessions proceed in parallel.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Slide white's piece at (0,1) down
//	result, err := gameService.Move(ctx, info.ID, service.MoveRequest{Row: 0, Col: 1, Direction: "down"})
//
//	// Or act through the environment with an action index
//	step, err := gameService.Step(ctx, info.ID, 9)
//
// Errors:
//
// Lookups fail with ErrSessionNotFound or ErrConfigNotFound. Engine errors
// (engine.ErrIllegalMove, engine.ErrNotYourTurn, engine.ErrGameOver, ...) and
// env.ErrEpisodeDone are passed through unchanged so callers can map them
// with errors.Is.
package service
