package engine

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateGameConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *GameConfig)
		wantErr string
	}{
		{"valid classic", func(c *GameConfig) {}, ""},
		{"missing name", func(c *GameConfig) { c.Name = "" }, "name is required"},
		{"missing description", func(c *GameConfig) { c.Description = "" }, "description is required"},
		{"unknown variant", func(c *GameConfig) { c.Variant = "hex" }, "variant must be"},
		{"negative max turns", func(c *GameConfig) { c.MaxTurns = -1 }, "max_turns"},
		{"short layout", func(c *GameConfig) { c.Layout = c.Layout[:4] }, "layout must have 5 rows"},
		{"bad character", func(c *GameConfig) { c.Layout[2] = "..x.." }, "invalid character"},
		{"missing piece", func(c *GameConfig) { c.Layout[3] = "....." }, "must contain 3 pieces of marker 1"},
		{"already won", func(c *GameConfig) {
			c.Layout = []string{"111..", ".....", ".....", ".....", "2.2.2"}
		}, "already a win"},
		{"first player inactive", func(c *GameConfig) { c.FirstPlayer = Marker(3) }, "first_player"},
		{"random start on full", func(c *GameConfig) { c.RandomStart = true }, "random_start"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ClassicConfig()
			tt.mutate(c)
			err := ValidateGameConfig(c)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateEasyConfig(t *testing.T) {
	c := EasyConfig()
	require.NoError(t, ValidateGameConfig(c))

	c.Layout = []string{".1.1.", "..2..", ".....", "..1..", "....."}
	assert.ErrorContains(t, ValidateGameConfig(c), "marker 2")

	c = EasyConfig()
	c.FirstPlayer = Black
	assert.ErrorContains(t, ValidateGameConfig(c), "first_player")

	c = EasyConfig()
	c.RandomStart = true
	c.Layout = nil
	assert.NoError(t, ValidateGameConfig(c))

	assert.Error(t, ValidateGameConfig(nil))
}

func TestConfigDefaults(t *testing.T) {
	c := &GameConfig{}
	assert.Equal(t, White, c.StartingPlayer())
	assert.Equal(t, DefaultMaxTurns, c.TurnLimit())
	assert.Equal(t, DefaultRewards(), c.RewardTable())

	c.FirstPlayer = Black
	c.MaxTurns = 10
	c.Rewards = &Rewards{Win: 1, Default: 0, Illegal: -5}
	assert.Equal(t, Black, c.StartingPlayer())
	assert.Equal(t, 10, c.TurnLimit())
	assert.Equal(t, -5.0, c.RewardTable().Illegal)
}

func TestLoadGameConfig(t *testing.T) {
	dir := t.TempDir()

	data, err := json.Marshal(ClassicConfig())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "classic.json"), data, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644))

	loaded, err := LoadGameConfig(filepath.Join(dir, "classic.json"))
	require.NoError(t, err)
	assert.Equal(t, "Classic Neutreeko", loaded.Name)
	assert.Equal(t, VariantFull, loaded.Variant)

	byName, err := LoadConfigByName(dir, "classic")
	require.NoError(t, err)
	assert.Equal(t, loaded, byName)

	_, err = LoadConfigByName(dir, "missing")
	assert.ErrorContains(t, err, "not found")

	_, err = LoadConfigByName(dir, "broken")
	assert.Error(t, err)
}

func TestInitGameStateFromConfig(t *testing.T) {
	state := InitGameStateFromConfig(nil)
	assert.Equal(t, OpeningBoard(), state.Board)
	assert.Equal(t, White, state.CurrentPlayer)
	assert.Len(t, state.Pieces, 6)

	easy := InitGameStateFromConfig(EasyConfig())
	assert.Equal(t, VariantEasy, easy.Variant)
	require.Len(t, easy.Pieces, 3)
	for slot, p := range easy.Pieces {
		assert.Equal(t, slot, p.Slot)
		assert.Equal(t, White, p.Marker)
	}
}
