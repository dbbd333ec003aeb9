package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
	"github.com/wricardo/mcp-training/neutreeko/game/engine"
	"github.com/wricardo/mcp-training/neutreeko/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Neutreeko",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Neutreeko - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Line up three of your pieces in a row, column or diagonal on a 5x5 board.
Pieces slide in a straight line until they hit the edge or another piece.

AVAILABLE TOOLS:
- create_session: Create a new game session (config "classic" or "easy")
- list_sessions / get_session: Inspect sessions
- game_state: Board, player to move, legal action indices
- possible_moves: Moves for a player
- move: Slide the piece at (row, col) in a direction
- step: Apply an action index (agent interface) and receive a reward
- reset_game: Restart the episode
- render_board: Text board
- move_history: Past moves
- list_configs: Available configurations
- game_instructions: Full rules and action encoding`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Config to use, e.g. classic, easy, easy_random (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the board, the player to move, the done flag and legal action indices",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "possible_moves",
		Description: "List moves for a player. Defaults to the player to move and legal moves only",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"player": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"white", "black"},
					"description": "Player whose moves to list (optional)",
				},
				"mode": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"valid", "all"},
					"description": "valid: only moves that slide somewhere; all: every piece and direction",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handlePossibleMoves)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Slide the piece at (row, col) in a direction until it is blocked",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"row": map[string]interface{}{
					"type":        "integer",
					"description": "Row of the piece (0-4, top to bottom)",
				},
				"col": map[string]interface{}{
					"type":        "integer",
					"description": "Column of the piece (0-4, left to right)",
				},
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right", "up_left", "up_right", "down_left", "down_right"},
					"description": "Slide direction. The easy variant only allows up, down, left and right",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move",
				},
			},
			Required: []string{"session_id", "row", "col", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "step",
		Description: "Apply an action index (piece_slot * directions + direction_index) and receive the reward",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"action": map[string]interface{}{
					"type":        "integer",
					"description": "Action index in [0, action_space)",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this action",
				},
			},
			Required: []string{"session_id", "action"},
		},
	}, c.handleStep)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the game to its starting position",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "render_board",
		Description: "Render the board as text",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleRender)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get move history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Oldest first (asc) or newest first (desc)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the rules, the action encoding and the reward table",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// apiError carries the status and message of a failed REST call
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error: %d", e.Status)
	}
	return e.Message
}

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&errResp)
		log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("mcp proxy call failed")
		return &apiError{Status: resp.StatusCode, Message: errResp.Error}
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

// intArg reads a JSON number argument
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	default:
		return 0, false
	}
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	body := map[string]string{}
	if configID := stringArg(args, "config_id"); configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Created session: " + session.ID + "\n" + formatSessionInfo(&session)), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := "in progress"
		if s.Done {
			status = "done"
		}
		fmt.Fprintf(&b, "- %s (Config: %s, %s, Created: %s)\n",
			s.ID, s.ConfigName, status, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(request.GetArguments(), "session_id")

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(request.GetArguments(), "session_id")

	var view service.GameStateView
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &view); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameStateView(&view)), nil
}

func (c *Client) handlePossibleMoves(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID := stringArg(args, "session_id")

	query := url.Values{}
	if player := stringArg(args, "player"); player != "" {
		query.Set("player", player)
	}
	if mode := stringArg(args, "mode"); mode != "" {
		query.Set("mode", mode)
	}
	path := sessionPath(sessionID, "/moves")
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var result service.PossibleMovesResult
	if err := c.apiCall(ctx, "GET", path, nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatPossibleMoves(&result)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID := stringArg(args, "session_id")
	row, okRow := intArg(args, "row")
	col, okCol := intArg(args, "col")
	if !okRow || !okCol {
		return mcp.NewToolResultError("row and col are required integers"), nil
	}

	body := service.MoveRequest{Row: row, Col: col, Direction: stringArg(args, "direction")}

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleStep(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID := stringArg(args, "session_id")
	action, ok := intArg(args, "action")
	if !ok {
		return mcp.NewToolResultError("action is a required integer"), nil
	}

	var result service.StepResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/step"), map[string]int{"action": action}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatStepResult(action, &result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(request.GetArguments(), "session_id")

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(response.Message + "\n\n" + formatGameState(response.State)), nil
}

func (c *Client) handleRender(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(request.GetArguments(), "session_id")

	var response struct {
		Board string `json:"board"`
	}
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/render"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(response.Board), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID := stringArg(args, "session_id")

	query := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		query.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		query.Set("limit", fmt.Sprint(limit))
	}
	if order := stringArg(args, "order"); order != "" {
		query.Set("order", order)
	}
	path := sessionPath(sessionID, "/history")
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		fmt.Fprintf(&b, "• %s (config_id: %s)\n  %s\n  Variant: %s, Max turns: %d",
			config.Name, config.ConfigID, config.Description, config.Variant, config.MaxTurns)
		if config.RandomStart {
			b.WriteString(", random start")
		}
		b.WriteString("\n\n")
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `Neutreeko - Complete Instructions

GAME OBJECTIVE:
Get three of your pieces in a contiguous line: a row, a column or a diagonal.

BOARD:
5x5 grid. Rows are numbered 0-4 top to bottom, columns 0-4 left to right.
Cells print as "." (empty), "W" (white, marker 1) and "B" (black, marker 2).
Classic opening:
   0 1 2 3 4
0  . W . W .
1  . . B . .
2  . . . . .
3  . . W . .
4  . B . B .

MOVEMENT:
• A piece slides in one of eight directions (up, down, left, right and the diagonals)
• It keeps sliding until the next cell is off the board or occupied
• A move must travel at least one cell; a blocked piece cannot move that way
• Pieces are never captured

VARIANTS:
• classic (full): white and black alternate turns, white moves first, eight directions
• easy: white only, four orthogonal directions, no opponent

AGENT INTERFACE (step tool):
• Each player owns three piece slots 0-2, fixed at reset in board scan order
• action = slot * D + direction_index, D = 4 (easy) or 8 (full)
• Direction order: up, down, left, right, up_left, up_right, down_left, down_right
• Rewards: win +20, ordinary move -1, illegal action 0 (the board is unchanged)
• The episode ends on a win, after more than max_turns moves, or (classic) when
  a position repeats three times

STRATEGY TIPS:
• Use possible_moves before moving; a direction that is blocked wastes a step
• Stoppers matter: a piece can only land next to something or on the edge
• In the classic game, check whether your move lets the opponent complete a line

MOVEMENT COMMANDS:
• move: {"session_id", "row", "col", "direction"}
• step: {"session_id", "action"}
• reset_game restarts the episode in the same session

Good luck!`

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\nConfig: %s\nAction space: %d\n", session.ID, session.ConfigName, session.ActionSpace)
	if session.ObservationSpace > 0 {
		fmt.Fprintf(&b, "Observation space: %d\n", session.ObservationSpace)
	}
	if session.GameState != nil {
		b.WriteString("\n" + formatGameState(session.GameState))
	}
	return b.String()
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state\n"
	}

	var b strings.Builder
	b.WriteString(state.Board.String())
	fmt.Fprintf(&b, "\nVariant: %s\nTurns: %d\n", state.Variant, state.TurnsCount)
	switch {
	case state.GameOver:
		fmt.Fprintf(&b, "🏆 GAME OVER: %s wins\n", state.Winner.Name())
	case state.Variant == engine.VariantFull:
		fmt.Fprintf(&b, "To move: %s\n", state.CurrentPlayer.Name())
	}

	if len(state.Pieces) > 0 {
		b.WriteString("Pieces:\n")
		for _, p := range state.Pieces {
			fmt.Fprintf(&b, "  %s slot %d at %s\n", p.Marker.Name(), p.Slot, p.Position)
		}
	}
	return b.String()
}

func formatGameStateView(view *service.GameStateView) string {
	var b strings.Builder
	b.WriteString(formatGameState(view.State))
	if view.Done {
		b.WriteString("Episode: done\n")
	} else {
		fmt.Fprintf(&b, "Episode: in progress (max turns %d)\n", view.MaxTurns)
	}
	if view.RepetitionCount > 1 {
		fmt.Fprintf(&b, "Position repeated %d times\n", view.RepetitionCount)
	}
	fmt.Fprintf(&b, "Legal actions: %v\n", view.LegalActions)
	return b.String()
}

func formatPossibleMoves(result *service.PossibleMovesResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d %s moves for %s:\n", result.Count, result.Mode, result.Player.Name())
	for _, m := range result.Moves {
		fmt.Fprintf(&b, "  (%d,%d) %s\n", m.Position.Row, m.Position.Col, m.Direction)
	}
	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	if result.Success {
		b.WriteString("✓ Move successful\n")
	} else {
		b.WriteString("✗ Move failed\n")
	}
	if result.Message != "" {
		b.WriteString(result.Message + "\n")
	}
	if o := result.Outcome; o != nil {
		fmt.Fprintf(&b, "%s %s -> %s (%s)\n", o.Direction, o.From, o.To, o.Kind)
	}
	fmt.Fprintf(&b, "Reward: %g\n", result.Reward)
	if result.Done {
		b.WriteString("Episode done\n")
	}
	b.WriteString("\n" + formatGameState(result.GameState))
	return b.String()
}

func formatStepResult(action int, result *service.StepResult) string {
	var b strings.Builder
	info := result.Info
	if info.Illegal {
		fmt.Fprintf(&b, "✗ Action %d is illegal: %s\n", action, info.Reason)
	} else {
		fmt.Fprintf(&b, "✓ Action %d: %s moved %s", action, info.PlayerName, info.Direction)
		if info.NewPosition != nil {
			fmt.Fprintf(&b, " to %s", *info.NewPosition)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Reward: %g\nDone: %t\n", result.Reward, result.Done)
	if result.Observation.State >= 0 {
		fmt.Fprintf(&b, "Observation index: %d\n", result.Observation.State)
	}
	b.WriteString("\n" + formatGameState(result.GameState))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (Page %d/%d, Total: %d moves)\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for _, entry := range history.Moves {
		o := entry.Outcome
		fmt.Fprintf(&b, "#%d: %s %s %s -> %s", entry.MoveNumber, o.Player.Name(), o.Direction, o.From, o.To)
		if o.Kind == engine.MoveWin {
			b.WriteString(" (win)")
		}
		b.WriteString("\n")
	}

	if history.HasNext {
		b.WriteString("\n(more moves on next page)\n")
	}
	return b.String()
}
