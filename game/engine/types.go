package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Marker identifies what occupies a board cell
type Marker int

const (
	Empty Marker = 0
	White Marker = 1
	Black Marker = 2

	// BoardSize is the fixed edge length of the Neutreeko grid
	BoardSize = 5

	// PiecesPerPlayer is conserved for every active marker
	PiecesPerPlayer = 3

	// WinLength is the number of contiguous markers that ends the game
	WinLength = 3

	DefaultMaxTurns = 200
)

// Name returns the player name used in environment info
func (m Marker) Name() string {
	switch m {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		return "empty"
	}
}

// ParseMarker accepts "1", "2", "white" and "black". An empty string parses
// to Empty, which callers read as "the player to move".
func ParseMarker(s string) (Marker, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return Empty, nil
	case "1", "white":
		return White, nil
	case "2", "black":
		return Black, nil
	default:
		return Empty, fmt.Errorf("%w: %q", ErrUnknownPlayer, s)
	}
}

// Variant selects the rule set
type Variant string

const (
	// VariantFull is the two-player game with eight directions
	VariantFull Variant = "full"
	// VariantEasy is the single-player game with orthogonal moves only
	VariantEasy Variant = "easy"
)

// Directions returns the variant's direction set in enumeration order
func (v Variant) Directions() []Direction {
	if v == VariantEasy {
		return orthogonalDirections[:]
	}
	return allDirections[:]
}

// Markers returns the player markers active in the variant
func (v Variant) Markers() []Marker {
	if v == VariantEasy {
		return []Marker{White}
	}
	return []Marker{White, Black}
}

// HasMarker reports whether the marker plays in this variant
func (v Variant) HasMarker(m Marker) bool {
	for _, active := range v.Markers() {
		if active == m {
			return true
		}
	}
	return false
}

// Valid reports whether v names a known variant
func (v Variant) Valid() bool {
	return v == VariantFull || v == VariantEasy
}

// Position is a (row, column) board coordinate
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Add returns the position shifted by the direction's delta
func (p Position) Add(d Direction) Position {
	delta := d.Delta()
	return Position{Row: p.Row + delta.Row, Col: p.Col + delta.Col}
}

// Index returns the row-major cell index in [0, 25)
func (p Position) Index() int {
	return p.Row*BoardSize + p.Col
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Direction is one of the eight sliding directions
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
	UpLeft
	UpRight
	DownLeft
	DownRight
)

var (
	allDirections        = [...]Direction{Up, Down, Left, Right, UpLeft, UpRight, DownLeft, DownRight}
	orthogonalDirections = [...]Direction{Up, Down, Left, Right}

	directionDeltas = [...]Position{
		Up:        {Row: -1, Col: 0},
		Down:      {Row: +1, Col: 0},
		Left:      {Row: 0, Col: -1},
		Right:     {Row: 0, Col: +1},
		UpLeft:    {Row: -1, Col: -1},
		UpRight:   {Row: -1, Col: +1},
		DownLeft:  {Row: +1, Col: -1},
		DownRight: {Row: +1, Col: +1},
	}

	directionNames = [...]string{
		Up:        "UP",
		Down:      "DOWN",
		Left:      "LEFT",
		Right:     "RIGHT",
		UpLeft:    "UP_LEFT",
		UpRight:   "UP_RIGHT",
		DownLeft:  "DOWN_LEFT",
		DownRight: "DOWN_RIGHT",
	}
)

// Delta returns the (Δrow, Δcol) step of the direction
func (d Direction) Delta() Position {
	if !d.Valid() {
		return Position{}
	}
	return directionDeltas[d]
}

// Valid reports whether d is one of the eight named directions
func (d Direction) Valid() bool {
	return d >= Up && d <= DownRight
}

// Orthogonal reports whether d is allowed in the easy variant
func (d Direction) Orthogonal() bool {
	return d >= Up && d <= Right
}

func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// MarshalText encodes the direction by name
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDirection, int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText decodes a direction name
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDirection accepts "up", "UP", "up_left", "up-left" and "upleft" forms
func ParseDirection(s string) (Direction, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	for i, name := range directionNames {
		if normalized == name || normalized == strings.ReplaceAll(name, "_", "") {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// Move identifies which piece to slide and which way
type Move struct {
	Position  Position  `json:"position"`
	Direction Direction `json:"direction"`
}

func (m Move) String() string {
	return fmt.Sprintf("%s %s", m.Position, m.Direction)
}

// MoveKind classifies an applied move
type MoveKind string

const (
	MoveDefault MoveKind = "default"
	MoveWin     MoveKind = "win"
)

// MoveOutcome describes a successfully applied move
type MoveOutcome struct {
	Player    Marker    `json:"player"`
	PieceID   int       `json:"piece_id"`
	From      Position  `json:"from"`
	Direction Direction `json:"direction"`
	To        Position  `json:"to"`
	Kind      MoveKind  `json:"kind"`
	Turn      int       `json:"turn"`
}

// Piece is a marker with an identity that survives moves
type Piece struct {
	ID       int      `json:"id"`
	Slot     int      `json:"slot"` // index among the owner's pieces, fixed at reset
	Marker   Marker   `json:"marker"`
	Position Position `json:"position"`
}

// Legality selects which moves the enumerator returns
type Legality int

const (
	// LegalOnly keeps directions that resolve to a destination
	LegalOnly Legality = iota
	// AllMoves returns every piece and direction pair
	AllMoves
)

// LegalityFromBool maps the only_valid flag onto a Legality
func LegalityFromBool(onlyValid bool) Legality {
	if onlyValid {
		return LegalOnly
	}
	return AllMoves
}

// ParseLegality maps "valid"/"all" query values onto a Legality
func ParseLegality(s string) (Legality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "valid", "legal", "true":
		return LegalOnly, nil
	case "all", "false":
		return AllMoves, nil
	default:
		return 0, fmt.Errorf("%w: legality mode %q", ErrNotImplemented, s)
	}
}

var (
	ErrIllegalMove      = errors.New("illegal move")
	ErrGameOver         = errors.New("game already over")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrNotImplemented   = errors.New("not implemented")
	ErrUnknownPlayer    = errors.New("unknown player")
	ErrUnknownDirection = errors.New("unknown direction")
	ErrInvalidAction    = errors.New("invalid action")
)

// MoveHistoryEntry records one applied move
type MoveHistoryEntry struct {
	MoveNumber int         `json:"move_number"`
	Outcome    MoveOutcome `json:"outcome"`
	Timestamp  int64       `json:"timestamp"`
}

// GameState is the complete engine state
type GameState struct {
	Board         Board              `json:"board"`
	Variant       Variant            `json:"variant"`
	CurrentPlayer Marker             `json:"current_player"`
	TurnsCount    int                `json:"turns_count"`
	GameOver      bool               `json:"game_over"`
	Winner        Marker             `json:"winner"`
	Pieces        []Piece            `json:"pieces"`
	ConfigName    string             `json:"config_name"`
	MoveHistory   []MoveHistoryEntry `json:"move_history"`

	// repetitions counts how often each (board, player to move) pair occurred
	repetitions map[string]int
}
