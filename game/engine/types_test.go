package engine

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectionDeltas(t *testing.T) {
	tests := []struct {
		dir  Direction
		want Position
		name string
	}{
		{Up, Position{-1, 0}, "UP"},
		{Down, Position{1, 0}, "DOWN"},
		{Left, Position{0, -1}, "LEFT"},
		{Right, Position{0, 1}, "RIGHT"},
		{UpLeft, Position{-1, -1}, "UP_LEFT"},
		{UpRight, Position{-1, 1}, "UP_RIGHT"},
		{DownLeft, Position{1, -1}, "DOWN_LEFT"},
		{DownRight, Position{1, 1}, "DOWN_RIGHT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.dir.Delta())
			assert.Equal(t, tt.name, tt.dir.String())
			assert.True(t, tt.dir.Valid())
		})
	}

	assert.False(t, Direction(8).Valid())
	assert.Equal(t, Position{}, Direction(-1).Delta())
}

func TestVariantDirections(t *testing.T) {
	assert.Equal(t, []Direction{Up, Down, Left, Right}, VariantEasy.Directions())
	assert.Len(t, VariantFull.Directions(), 8)
	assert.Equal(t, []Marker{White}, VariantEasy.Markers())
	assert.Equal(t, []Marker{White, Black}, VariantFull.Markers())
	assert.False(t, VariantEasy.HasMarker(Black))
	assert.False(t, Variant("huge").Valid())
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input string
		want  Direction
	}{
		{"up", Up},
		{"DOWN", Down},
		{" left ", Left},
		{"up_left", UpLeft},
		{"up-right", UpRight},
		{"downleft", DownLeft},
		{"DOWN_RIGHT", DownRight},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDirection(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseDirection("sideways")
	assert.True(t, errors.Is(err, ErrUnknownDirection))
}

func TestDirectionJSON(t *testing.T) {
	data, err := json.Marshal(Move{Position: Position{Row: 1, Col: 2}, Direction: DownLeft})
	require.NoError(t, err)
	assert.JSONEq(t, `{"position":{"row":1,"col":2},"direction":"DOWN_LEFT"}`, string(data))

	var m Move
	require.NoError(t, json.Unmarshal([]byte(`{"position":{"row":3,"col":0},"direction":"up-right"}`), &m))
	assert.Equal(t, Move{Position: Position{Row: 3, Col: 0}, Direction: UpRight}, m)

	err = json.Unmarshal([]byte(`{"direction":"nowhere"}`), &m)
	assert.ErrorIs(t, err, ErrUnknownDirection)
}

func TestPositionHelpers(t *testing.T) {
	p := Position{Row: 2, Col: 3}
	assert.Equal(t, Position{Row: 1, Col: 4}, p.Add(UpRight))
	assert.Equal(t, 13, p.Index())
	assert.Equal(t, "(2,3)", p.String())
}

func TestParseLegality(t *testing.T) {
	for _, s := range []string{"", "valid", "LEGAL", "true"} {
		l, err := ParseLegality(s)
		require.NoError(t, err, s)
		assert.Equal(t, LegalOnly, l)
	}
	for _, s := range []string{"all", "false"} {
		l, err := ParseLegality(s)
		require.NoError(t, err, s)
		assert.Equal(t, AllMoves, l)
	}

	_, err := ParseLegality("winning")
	assert.ErrorIs(t, err, ErrNotImplemented)

	assert.Equal(t, LegalOnly, LegalityFromBool(true))
	assert.Equal(t, AllMoves, LegalityFromBool(false))
}

func TestMarkerName(t *testing.T) {
	assert.Equal(t, "white", White.Name())
	assert.Equal(t, "black", Black.Name())
	assert.Equal(t, "empty", Empty.Name())
}

func TestParseMarker(t *testing.T) {
	for in, want := range map[string]Marker{"": Empty, "1": White, "White": White, "2": Black, " black ": Black} {
		got, err := ParseMarker(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseMarker("3")
	assert.True(t, errors.Is(err, ErrUnknownPlayer))
}
