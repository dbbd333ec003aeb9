package engine

import "fmt"

// Resolve returns the cell a piece at pos reaches when slid in direction d.
// The piece travels until the next cell is off the board or occupied; ok is
// false when it cannot advance at all. The board is not modified.
func Resolve(board Board, pos Position, d Direction) (dest Position, ok bool) {
	if !d.Valid() || !InBounds(pos) {
		return Position{}, false
	}

	current := pos
	for {
		next := current.Add(d)
		if !board.IsFree(next) {
			break
		}
		current = next
	}

	if current == pos {
		return Position{}, false
	}
	return current, true
}

// Enumerate lists moves for the player's pieces in ascending (row, col)
// order, then in the order of dirs. With LegalOnly only directions that
// resolve are kept; AllMoves returns the full product regardless of legality.
func Enumerate(board Board, player Marker, dirs []Direction, legality Legality) ([]Move, error) {
	switch legality {
	case LegalOnly, AllMoves:
	default:
		return nil, fmt.Errorf("%w: legality %d", ErrNotImplemented, int(legality))
	}

	pieces := board.Positions(player)
	moves := make([]Move, 0, len(pieces)*len(dirs))
	for _, pos := range pieces {
		for _, d := range dirs {
			if legality == LegalOnly {
				if _, ok := Resolve(board, pos, d); !ok {
					continue
				}
			}
			moves = append(moves, Move{Position: pos, Direction: d})
		}
	}
	return moves, nil
}

// CanMove reports whether any piece of the player has a legal slide
func CanMove(board Board, player Marker, dirs []Direction) bool {
	for _, pos := range board.Positions(player) {
		for _, d := range dirs {
			if _, ok := Resolve(board, pos, d); ok {
				return true
			}
		}
	}
	return false
}

// applySlide relocates the piece at from to to. Callers resolve first.
func applySlide(board *Board, from, to Position) Marker {
	marker, _ := board.Get(from)
	board.Set(to, marker)
	board.Set(from, Empty)
	return marker
}
