package engine

import (
	"fmt"
	"strings"
)

// Board is the 5x5 grid, indexed [row][col]. It is a value type: assigning
// a Board copies it.
type Board [BoardSize][BoardSize]Marker

// InBounds reports whether both coordinates lie in [0, BoardSize)
func InBounds(pos Position) bool {
	return pos.Row >= 0 && pos.Row < BoardSize && pos.Col >= 0 && pos.Col < BoardSize
}

// Get returns the marker at pos. ok is false when pos is off the board.
func (b Board) Get(pos Position) (m Marker, ok bool) {
	if !InBounds(pos) {
		return Empty, false
	}
	return b[pos.Row][pos.Col], true
}

// Set writes value at pos and reports whether pos was on the board
func (b *Board) Set(pos Position, value Marker) bool {
	if !InBounds(pos) {
		return false
	}
	b[pos.Row][pos.Col] = value
	return true
}

// IsFree reports whether pos is on the board and empty. Off-board cells are
// never free.
func (b Board) IsFree(pos Position) bool {
	m, ok := b.Get(pos)
	return ok && m == Empty
}

// Count returns how many cells hold the marker
func (b Board) Count(m Marker) int {
	count := 0
	for _, row := range b {
		for _, cell := range row {
			if cell == m {
				count++
			}
		}
	}
	return count
}

// Positions returns the cells holding the marker in ascending (row, col) order
func (b Board) Positions(m Marker) []Position {
	var positions []Position
	for r := 0; r < BoardSize; r++ {
		for c := 0; c < BoardSize; c++ {
			if b[r][c] == m {
				positions = append(positions, Position{Row: r, Col: c})
			}
		}
	}
	return positions
}

// Key returns a compact 25-character encoding usable as a map key
func (b Board) Key() string {
	var sb strings.Builder
	sb.Grow(BoardSize * BoardSize)
	for _, row := range b {
		for _, cell := range row {
			sb.WriteByte(byte('0' + cell))
		}
	}
	return sb.String()
}

// Layout returns the board as config layout rows ('.' for empty)
func (b Board) Layout() []string {
	rows := make([]string, BoardSize)
	for r, row := range b {
		var sb strings.Builder
		for _, cell := range row {
			if cell == Empty {
				sb.WriteByte('.')
			} else {
				sb.WriteByte(byte('0' + cell))
			}
		}
		rows[r] = sb.String()
	}
	return rows
}

// String renders the board with row and column headers
func (b Board) String() string {
	var sb strings.Builder
	sb.WriteString("  ")
	for c := 0; c < BoardSize; c++ {
		fmt.Fprintf(&sb, " %d", c)
	}
	sb.WriteByte('\n')
	for r, row := range b {
		fmt.Fprintf(&sb, "%d ", r)
		for _, cell := range row {
			sb.WriteByte(' ')
			sb.WriteString(cellSymbol(cell))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func cellSymbol(m Marker) string {
	switch m {
	case Empty:
		return "."
	case White:
		return "W"
	case Black:
		return "B"
	default:
		return "?"
	}
}

// ParseBoard builds a board from layout rows. '.' and '0' are empty, '1'
// and '2' are markers.
func ParseBoard(layout []string) (Board, error) {
	var b Board
	if len(layout) != BoardSize {
		return b, fmt.Errorf("layout must have %d rows, got %d", BoardSize, len(layout))
	}
	for r, row := range layout {
		if len(row) != BoardSize {
			return b, fmt.Errorf("row %d must have %d characters, got %d", r+1, BoardSize, len(row))
		}
		for c, ch := range row {
			switch ch {
			case '.', '0':
				b[r][c] = Empty
			case '1':
				b[r][c] = White
			case '2':
				b[r][c] = Black
			default:
				return b, fmt.Errorf("invalid character '%c' at row %d, col %d", ch, r+1, c+1)
			}
		}
	}
	return b, nil
}

// OpeningBoard returns the standard Neutreeko starting position
func OpeningBoard() Board {
	return Board{
		{0, 1, 0, 1, 0},
		{0, 0, 2, 0, 0},
		{0, 0, 0, 0, 0},
		{0, 0, 1, 0, 0},
		{0, 2, 0, 2, 0},
	}
}
