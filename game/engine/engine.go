package engine

import (
	"fmt"
	"time"

	"golang.org/x/exp/rand"
)

// maxRandomStartAttempts bounds rejection sampling of easy random starts
const maxRandomStartAttempts = 1000

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	SetState(state *GameState) error
	Reset() *GameState
	IsGameOver() bool
	Winner() Marker
	Board() Board
	CurrentPlayer() Marker
	TurnsCount() int

	// Movement operations
	PossibleMoves(player Marker, legality Legality) ([]Move, error)
	ApplyMove(pos Position, direction Direction) (*MoveOutcome, error)
	DecodeAction(action int) (Move, error)
	EncodeAction(move Move) (int, error)
	ActionCount() int

	// Pieces
	Pieces() []Piece
	PieceBySlot(player Marker, slot int) (Piece, bool)

	// Configuration
	GetConfig() *GameConfig
	SetConfig(config *GameConfig) error

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry
	RepetitionCount() int

	Render() string
}

// Option customizes a GameEngine
type Option func(*GameEngine)

// WithSeed makes random starts reproducible
func WithSeed(seed uint64) Option {
	return func(e *GameEngine) {
		e.rng = rand.New(rand.NewSource(seed))
	}
}

// WithClock overrides the time source used for history timestamps
func WithClock(now func() time.Time) Option {
	return func(e *GameEngine) {
		e.now = now
	}
}

// GameEngine implements the Engine interface
type GameEngine struct {
	state  *GameState
	config *GameConfig
	rng    *rand.Rand
	now    func() time.Time
}

// NewEngine creates a new game engine with the provided configuration
func NewEngine(config *GameConfig, opts ...Option) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	engine := newEngine(config, opts)
	engine.Reset()
	return engine, nil
}

// NewEngineWithDefaults creates a new game engine with the classic configuration
func NewEngineWithDefaults(opts ...Option) *GameEngine {
	engine := newEngine(ClassicConfig(), opts)
	engine.Reset()
	return engine
}

func newEngine(config *GameConfig, opts []Option) *GameEngine {
	e := &GameEngine{
		config: config,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return e
}

// GetState returns the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// SetState replaces the game state. The state must hold a valid variant and
// conserve pieces for every active marker.
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if !state.Variant.Valid() {
		return fmt.Errorf("state has unknown variant %q", state.Variant)
	}
	for _, m := range state.Variant.Markers() {
		if got := state.Board.Count(m); got != PiecesPerPlayer {
			return fmt.Errorf("state must hold %d pieces of marker %d, got %d", PiecesPerPlayer, m, got)
		}
	}
	if len(state.Pieces) == 0 {
		state.assignPieces()
	}
	if state.repetitions == nil {
		state.repetitions = map[string]int{state.positionKey(): 1}
	}
	e.state = state
	return nil
}

// Reset installs the starting position and zeroes counters
func (e *GameEngine) Reset() *GameState {
	state := InitGameStateFromConfig(e.config)
	if e.config != nil && e.config.RandomStart {
		state.Board = e.randomEasyBoard()
		state.assignPieces()
		state.repetitions = map[string]int{state.positionKey(): 1}
	}
	e.state = state
	return e.state
}

// randomEasyBoard draws three distinct cells for White, rejecting boards
// that are already a win.
func (e *GameEngine) randomEasyBoard() Board {
	for attempt := 0; attempt < maxRandomStartAttempts; attempt++ {
		var b Board
		for _, idx := range e.rng.Perm(BoardSize * BoardSize)[:PiecesPerPlayer] {
			b[idx/BoardSize][idx%BoardSize] = White
		}
		if !HasThreeInARow(b, White) {
			return b
		}
	}
	return Board{
		{0, 1, 0, 1, 0},
		{0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0},
		{0, 0, 1, 0, 0},
		{0, 0, 0, 0, 0},
	}
}

// IsGameOver returns whether the game is over
func (e *GameEngine) IsGameOver() bool {
	return e.state.GameOver
}

// Winner returns the winning marker, or Empty while in progress
func (e *GameEngine) Winner() Marker {
	return e.state.Winner
}

// Board returns a copy of the current board
func (e *GameEngine) Board() Board {
	return e.state.Board
}

// CurrentPlayer returns the marker to move
func (e *GameEngine) CurrentPlayer() Marker {
	return e.state.CurrentPlayer
}

// TurnsCount returns the number of applied moves
func (e *GameEngine) TurnsCount() int {
	return e.state.TurnsCount
}

// PossibleMoves enumerates moves for player on the current board
func (e *GameEngine) PossibleMoves(player Marker, legality Legality) ([]Move, error) {
	if !e.state.Variant.HasMarker(player) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPlayer, player)
	}
	return Enumerate(e.state.Board, player, e.state.Variant.Directions(), legality)
}

// ApplyMove slides the piece at pos in direction. On error the state is
// left untouched.
func (e *GameEngine) ApplyMove(pos Position, direction Direction) (*MoveOutcome, error) {
	s := e.state
	if s.GameOver {
		return nil, ErrGameOver
	}
	if !direction.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDirection, int(direction))
	}
	if s.Variant == VariantEasy && !direction.Orthogonal() {
		return nil, fmt.Errorf("%w: %s is not available in the easy variant", ErrIllegalMove, direction)
	}

	marker, ok := s.Board.Get(pos)
	if !ok {
		return nil, fmt.Errorf("%w: %s is off the board", ErrIllegalMove, pos)
	}
	if marker == Empty {
		return nil, fmt.Errorf("%w: no piece at %s", ErrIllegalMove, pos)
	}
	if s.Variant == VariantFull && marker != s.CurrentPlayer {
		return nil, fmt.Errorf("%w: piece at %s belongs to %s", ErrNotYourTurn, pos, marker.Name())
	}

	dest, ok := Resolve(s.Board, pos, direction)
	if !ok {
		return nil, fmt.Errorf("%w: piece at %s cannot move %s", ErrIllegalMove, pos, direction)
	}

	applySlide(&s.Board, pos, dest)
	pieceID := -1
	if piece := s.pieceAt(pos); piece != nil {
		piece.Position = dest
		pieceID = piece.ID
	}

	if s.Variant == VariantFull {
		s.CurrentPlayer = opponent(s.CurrentPlayer)
	}
	s.TurnsCount++

	kind := MoveDefault
	if winner := Winner(s.Board, s.Variant); winner != Empty {
		s.GameOver = true
		s.Winner = winner
		kind = MoveWin
	}

	outcome := MoveOutcome{
		Player:    marker,
		PieceID:   pieceID,
		From:      pos,
		Direction: direction,
		To:        dest,
		Kind:      kind,
		Turn:      s.TurnsCount,
	}
	s.MoveHistory = append(s.MoveHistory, MoveHistoryEntry{
		MoveNumber: len(s.MoveHistory) + 1,
		Outcome:    outcome,
		Timestamp:  e.now().Unix(),
	})
	s.recordPosition()

	return &outcome, nil
}

// ActionCount returns the size of the action space for the variant
func (e *GameEngine) ActionCount() int {
	return PiecesPerPlayer * len(e.state.Variant.Directions())
}

// actingPlayer is the marker whose pieces actions address
func (e *GameEngine) actingPlayer() Marker {
	if e.state.Variant == VariantEasy {
		return White
	}
	return e.state.CurrentPlayer
}

// DecodeAction maps an action index onto a move of the acting player. The
// piece part of the index addresses a stable slot, so the same index keeps
// naming the same piece for the whole episode.
func (e *GameEngine) DecodeAction(action int) (Move, error) {
	dirs := e.state.Variant.Directions()
	if action < 0 || action >= e.ActionCount() {
		return Move{}, fmt.Errorf("%w: %d outside [0, %d)", ErrInvalidAction, action, e.ActionCount())
	}

	slot := action / len(dirs)
	piece, ok := e.PieceBySlot(e.actingPlayer(), slot)
	if !ok {
		return Move{}, fmt.Errorf("%w: no piece in slot %d", ErrInvalidAction, slot)
	}
	return Move{Position: piece.Position, Direction: dirs[action%len(dirs)]}, nil
}

// EncodeAction is the inverse of DecodeAction for the acting player
func (e *GameEngine) EncodeAction(move Move) (int, error) {
	dirs := e.state.Variant.Directions()
	dirIndex := -1
	for i, d := range dirs {
		if d == move.Direction {
			dirIndex = i
			break
		}
	}
	if dirIndex < 0 {
		return 0, fmt.Errorf("%w: direction %s", ErrInvalidAction, move.Direction)
	}

	piece := e.state.pieceAt(move.Position)
	if piece == nil || piece.Marker != e.actingPlayer() {
		return 0, fmt.Errorf("%w: no piece of %s at %s", ErrInvalidAction, e.actingPlayer().Name(), move.Position)
	}
	return piece.Slot*len(dirs) + dirIndex, nil
}

// Pieces returns a copy of all pieces with their current positions
func (e *GameEngine) Pieces() []Piece {
	return append([]Piece(nil), e.state.Pieces...)
}

// PieceBySlot returns the player's piece in the given slot
func (e *GameEngine) PieceBySlot(player Marker, slot int) (Piece, bool) {
	for _, p := range e.state.Pieces {
		if p.Marker == player && p.Slot == slot {
			return p, true
		}
	}
	return Piece{}, false
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// SetConfig sets a new game configuration and resets the game
func (e *GameEngine) SetConfig(config *GameConfig) error {
	if err := ValidateGameConfig(config); err != nil {
		return err
	}

	e.config = config
	e.Reset()
	return nil
}

// GetMoveHistory returns the moves applied since the last reset
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.state.MoveHistory
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.state.MoveHistory) == 0 {
		return nil
	}
	return &e.state.MoveHistory[len(e.state.MoveHistory)-1]
}

// RepetitionCount returns how often the current position has occurred
func (e *GameEngine) RepetitionCount() int {
	return e.state.repetitions[e.state.positionKey()]
}

// Render returns a textual dump of the board and status line
func (e *GameEngine) Render() string {
	s := e.state
	status := fmt.Sprintf("%s to move", s.CurrentPlayer.Name())
	if s.GameOver {
		status = fmt.Sprintf("%s wins", s.Winner.Name())
	}
	return fmt.Sprintf("%sturn %d, %s\n", s.Board.String(), s.TurnsCount, status)
}

func opponent(m Marker) Marker {
	if m == White {
		return Black
	}
	return White
}
