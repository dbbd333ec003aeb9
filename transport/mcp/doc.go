// Package mcp exposes Neutreeko to language-model agents through the Model
// Context Protocol.
//
// The Client is a thin proxy: every tool call is translated into a request
// against the REST API (package api) and the JSON response is formatted as
// readable text. The same Client serves both transports:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())           // stdio
//	client.GetMCPServer().HandleMessage(ctx, rawJSON)   // HTTP /mcp endpoint
//
// Tools: create_session, list_sessions, get_session, game_state,
// possible_moves, move, step, reset_game, render_board, move_history,
// list_configs and game_instructions.
//
// REST errors are returned as tool errors (IsError set) rather than Go
// errors, so the calling agent sees the message and can retry.
package mcp
