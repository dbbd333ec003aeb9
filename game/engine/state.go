package engine

import "strconv"

// assignPieces gives every marker on the board a stable identity. Slots are
// handed out per player in ascending (row, col) order.
func (s *GameState) assignPieces() {
	s.Pieces = s.Pieces[:0]
	id := 0
	for _, m := range s.Variant.Markers() {
		for slot, pos := range s.Board.Positions(m) {
			s.Pieces = append(s.Pieces, Piece{ID: id, Slot: slot, Marker: m, Position: pos})
			id++
		}
	}
}

// pieceAt returns the piece standing on pos, or nil
func (s *GameState) pieceAt(pos Position) *Piece {
	for i := range s.Pieces {
		if s.Pieces[i].Position == pos {
			return &s.Pieces[i]
		}
	}
	return nil
}

// positionKey identifies a board together with the player to move
func (s *GameState) positionKey() string {
	return s.Board.Key() + "/" + strconv.Itoa(int(s.CurrentPlayer))
}

// recordPosition bumps the repetition counter for the current position
func (s *GameState) recordPosition() int {
	if s.repetitions == nil {
		s.repetitions = make(map[string]int)
	}
	key := s.positionKey()
	s.repetitions[key]++
	return s.repetitions[key]
}

// Clone returns a deep copy of the state
func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}
	c := *s
	c.Pieces = append([]Piece(nil), s.Pieces...)
	c.MoveHistory = append([]MoveHistoryEntry(nil), s.MoveHistory...)
	c.repetitions = make(map[string]int, len(s.repetitions))
	for k, v := range s.repetitions {
		c.repetitions[k] = v
	}
	return &c
}
