package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBoard(t *testing.T, rows ...string) Board {
	t.Helper()
	b, err := ParseBoard(rows)
	require.NoError(t, err)
	return b
}

func TestBoardAddressing(t *testing.T) {
	b := OpeningBoard()

	m, ok := b.Get(Position{Row: 0, Col: 1})
	assert.True(t, ok)
	assert.Equal(t, White, m)

	for _, pos := range []Position{{-1, 0}, {0, -1}, {5, 0}, {0, 5}, {7, 7}} {
		_, ok := b.Get(pos)
		assert.False(t, ok, pos.String())
		assert.False(t, b.IsFree(pos), pos.String())
		assert.False(t, InBounds(pos), pos.String())
		assert.False(t, b.Set(pos, White), pos.String())
	}

	assert.True(t, b.IsFree(Position{Row: 2, Col: 2}))
	assert.False(t, b.IsFree(Position{Row: 1, Col: 2}))
	assert.Equal(t, 3, b.Count(White))
	assert.Equal(t, 3, b.Count(Black))
	assert.Equal(t, []Position{{0, 1}, {0, 3}, {3, 2}}, b.Positions(White))
}

func TestParseBoard(t *testing.T) {
	b := mustBoard(t, ".1.1.", "..2..", ".....", "..1..", ".2.2.")
	assert.Equal(t, OpeningBoard(), b)
	assert.Equal(t, []string{".1.1.", "..2..", ".....", "..1..", ".2.2."}, b.Layout())
	assert.Equal(t, "0101000200000000010002020", b.Key())

	tests := []struct {
		name   string
		layout []string
	}{
		{"too few rows", []string{".....", "....."}},
		{"short row", []string{".....", "....", ".....", ".....", "....."}},
		{"bad character", []string{"..x..", ".....", ".....", ".....", "....."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBoard(tt.layout)
			assert.Error(t, err)
		})
	}
}

func TestBoardString(t *testing.T) {
	out := OpeningBoard().String()
	assert.Contains(t, out, "   0 1 2 3 4")
	assert.Contains(t, out, "0  . W . W .")
	assert.Contains(t, out, "4  . B . B .")
}

func TestResolveOpening(t *testing.T) {
	b := OpeningBoard()

	tests := []struct {
		name string
		from Position
		dir  Direction
		want Position
		ok   bool
	}{
		// the black piece at (4,1) stops the slide one cell short of the edge
		{"white down blocked by black", Position{0, 1}, Down, Position{3, 1}, true},
		{"white left to edge", Position{0, 1}, Left, Position{0, 0}, true},
		{"white right blocked by white", Position{0, 1}, Right, Position{0, 2}, true},
		{"white up off board", Position{0, 1}, Up, Position{}, false},
		{"black diagonal", Position{1, 2}, DownLeft, Position{3, 0}, true},
		{"black up-left", Position{1, 2}, UpLeft, Position{0, 1}, false},
		{"center piece up stops under black", Position{3, 2}, Up, Position{2, 2}, true},
		{"center piece down-right", Position{3, 2}, DownRight, Position{4, 3}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(b, tt.from, tt.dir)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestResolveSlidesToEdge(t *testing.T) {
	b := mustBoard(t, ".1.1.", "..2..", ".....", "..1..", "...2.")
	got, ok := Resolve(b, Position{0, 1}, Down)
	require.True(t, ok)
	assert.Equal(t, Position{4, 1}, got)
}

func TestResolveIsPureAndDeterministic(t *testing.T) {
	b := OpeningBoard()
	before := b
	for _, pos := range b.Positions(White) {
		for _, d := range VariantFull.Directions() {
			first, ok1 := Resolve(b, pos, d)
			second, ok2 := Resolve(b, pos, d)
			assert.Equal(t, ok1, ok2)
			assert.Equal(t, first, second)
		}
	}
	assert.Equal(t, before, b)
}

func TestResolveMaxSlide(t *testing.T) {
	b := OpeningBoard()
	for _, m := range []Marker{White, Black} {
		for _, pos := range b.Positions(m) {
			for _, d := range VariantFull.Directions() {
				dest, ok := Resolve(b, pos, d)
				if !ok {
					assert.False(t, b.IsFree(pos.Add(d)))
					continue
				}
				assert.True(t, b.IsFree(dest), "destination must be empty")
				assert.False(t, b.IsFree(dest.Add(d)), "cell beyond destination must be blocked")
			}
		}
	}
}

func TestResolveRejectsBadInput(t *testing.T) {
	b := OpeningBoard()
	_, ok := Resolve(b, Position{0, 1}, Direction(42))
	assert.False(t, ok)
	_, ok = Resolve(b, Position{9, 9}, Down)
	assert.False(t, ok)
}

func TestEnumerate(t *testing.T) {
	t.Run("easy all moves", func(t *testing.T) {
		b := mustBoard(t, "111..", ".....", ".....", ".....", ".....")
		moves, err := Enumerate(b, White, VariantEasy.Directions(), AllMoves)
		require.NoError(t, err)
		assert.Len(t, moves, 12)
		assert.Equal(t, Move{Position: Position{0, 0}, Direction: Up}, moves[0])
		assert.Equal(t, Move{Position: Position{0, 2}, Direction: Right}, moves[11])
	})

	t.Run("easy legal moves", func(t *testing.T) {
		b := mustBoard(t, "1.1..", ".....", ".....", "..1..", ".....")
		moves, err := Enumerate(b, White, VariantEasy.Directions(), LegalOnly)
		require.NoError(t, err)
		for _, m := range moves {
			_, ok := Resolve(b, m.Position, m.Direction)
			assert.True(t, ok, m.String())
		}
		assert.NotContains(t, moves, Move{Position: Position{0, 0}, Direction: Up})
		assert.NotContains(t, moves, Move{Position: Position{0, 0}, Direction: Left})
		assert.Contains(t, moves, Move{Position: Position{0, 0}, Direction: Right})
	})

	t.Run("full opening order", func(t *testing.T) {
		moves, err := Enumerate(OpeningBoard(), White, VariantFull.Directions(), LegalOnly)
		require.NoError(t, err)
		require.NotEmpty(t, moves)
		for i := 1; i < len(moves); i++ {
			prev, cur := moves[i-1], moves[i]
			if prev.Position == cur.Position {
				assert.Less(t, prev.Direction, cur.Direction)
			} else {
				assert.Less(t, prev.Position.Index(), cur.Position.Index())
			}
		}

		all, err := Enumerate(OpeningBoard(), White, VariantFull.Directions(), AllMoves)
		require.NoError(t, err)
		assert.Len(t, all, 24)
	})

	t.Run("unsupported legality", func(t *testing.T) {
		_, err := Enumerate(OpeningBoard(), White, VariantFull.Directions(), Legality(7))
		assert.True(t, errors.Is(err, ErrNotImplemented))
	})
}

func TestCanMove(t *testing.T) {
	assert.True(t, CanMove(OpeningBoard(), White, VariantFull.Directions()))

	// three pieces boxed into a corner by walls and each other
	b := mustBoard(t, "11...", "12...", ".....", ".....", ".....")
	assert.False(t, CanMove(b, White, []Direction{Up, Left}))
}
