package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Rewards is the reward table used by the agent environment
type Rewards struct {
	Win     float64 `json:"win"`
	Default float64 `json:"default"`
	Illegal float64 `json:"illegal"`
}

// DefaultRewards returns the standard reward table
func DefaultRewards() Rewards {
	return Rewards{Win: 20, Default: -1, Illegal: 0}
}

// GameConfig defines a playable Neutreeko setup
type GameConfig struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Variant     Variant  `json:"variant"`
	Layout      []string `json:"layout,omitempty"`
	FirstPlayer Marker   `json:"first_player,omitempty"`
	RandomStart bool     `json:"random_start,omitempty"`
	MaxTurns    int      `json:"max_turns,omitempty"`
	Rewards     *Rewards `json:"rewards,omitempty"`
}

// StartingPlayer returns the configured first player, White when unset
func (c *GameConfig) StartingPlayer() Marker {
	if c == nil || c.FirstPlayer == Empty {
		return White
	}
	return c.FirstPlayer
}

// TurnLimit returns the configured max turns, DefaultMaxTurns when unset
func (c *GameConfig) TurnLimit() int {
	if c == nil || c.MaxTurns == 0 {
		return DefaultMaxTurns
	}
	return c.MaxTurns
}

// RewardTable returns the configured rewards, DefaultRewards when unset
func (c *GameConfig) RewardTable() Rewards {
	if c == nil || c.Rewards == nil {
		return DefaultRewards()
	}
	return *c.Rewards
}

// ClassicConfig returns the standard two-player setup
func ClassicConfig() *GameConfig {
	return &GameConfig{
		Name:        "Classic Neutreeko",
		Description: "Standard two-player Neutreeko with the fixed opening position",
		Variant:     VariantFull,
		Layout:      OpeningBoard().Layout(),
		FirstPlayer: White,
		MaxTurns:    DefaultMaxTurns,
	}
}

// EasyConfig returns the single-player setup with the fixed easy opening
func EasyConfig() *GameConfig {
	return &GameConfig{
		Name:        "Easy Neutreeko",
		Description: "Single-player Neutreeko: align three white pieces using orthogonal slides",
		Variant:     VariantEasy,
		Layout:      []string{".1.1.", ".....", ".....", "..1..", "....."},
		FirstPlayer: White,
		MaxTurns:    DefaultMaxTurns,
	}
}

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}
	if !config.Variant.Valid() {
		return fmt.Errorf("config validation: variant must be %q or %q, got %q", VariantFull, VariantEasy, config.Variant)
	}
	if config.MaxTurns < 0 {
		return fmt.Errorf("config validation: max_turns must not be negative, got %d", config.MaxTurns)
	}
	if config.FirstPlayer != Empty && !config.Variant.HasMarker(config.FirstPlayer) {
		return fmt.Errorf("config validation: first_player %d is not active in the %s variant", config.FirstPlayer, config.Variant)
	}

	if config.RandomStart {
		if config.Variant != VariantEasy {
			return fmt.Errorf("config validation: random_start is only supported by the easy variant")
		}
		if len(config.Layout) == 0 {
			return nil
		}
	}

	board, err := ParseBoard(config.Layout)
	if err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	for _, m := range []Marker{White, Black} {
		want := 0
		if config.Variant.HasMarker(m) {
			want = PiecesPerPlayer
		}
		if got := board.Count(m); got != want {
			return fmt.Errorf("config validation: layout must contain %d pieces of marker %d for the %s variant, got %d",
				want, m, config.Variant, got)
		}
	}

	if winner := Winner(board, config.Variant); winner != Empty {
		return fmt.Errorf("config validation: starting layout is already a win for %s", winner.Name())
	}

	return nil
}

// LoadGameConfig loads a game configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadConfigByName loads a game configuration by name from dir
func LoadConfigByName(dir, configName string) (*GameConfig, error) {
	if !strings.HasSuffix(configName, ".json") {
		configName = configName + ".json"
	}

	configPath := filepath.Join(dir, configName)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file '%s' not found", configName)
	}

	config, err := LoadGameConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("invalid config '%s': %w", configName, err)
	}
	return config, nil
}

// InitGameStateFromConfig creates a new game state using the provided
// configuration. A nil config yields the classic opening. Random starts are
// drawn by the engine, so the layout is used as given here.
func InitGameStateFromConfig(config *GameConfig) *GameState {
	if config == nil {
		config = ClassicConfig()
	}

	board, err := ParseBoard(config.Layout)
	if err != nil {
		board = OpeningBoard()
	}

	state := &GameState{
		Board:         board,
		Variant:       config.Variant,
		CurrentPlayer: config.StartingPlayer(),
		ConfigName:    config.Name,
		MoveHistory:   []MoveHistoryEntry{},
	}
	if !state.Variant.Valid() {
		state.Variant = VariantFull
	}
	state.assignPieces()
	state.repetitions = map[string]int{state.positionKey(): 1}
	return state
}
