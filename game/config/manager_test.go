package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/wricardo/mcp-training/neutreeko/game/engine"
)

func createValidConfig() *engine.GameConfig {
	return &engine.GameConfig{
		Name:        "Test Config",
		Description: "Test configuration",
		Variant:     engine.VariantEasy,
		Layout:      []string{"1...1", ".....", "..1..", ".....", "....."},
		MaxTurns:    50,
	}
}

func writeConfigFile(t *testing.T, dir, name string, config interface{}) {
	t.Helper()
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}

	filename := name
	if filepath.Ext(filename) == "" {
		filename = name + ".json"
	}

	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := NewManager(filepath.Join(t.TempDir(), "absent"))
		if err == nil {
			t.Error("Expected error for missing directory")
		}
	})

	t.Run("empty directory falls back to builtin classic", func(t *testing.T) {
		m, err := NewManager(t.TempDir())
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if m.GetDefault().Name != engine.ClassicConfig().Name {
			t.Errorf("Expected builtin classic default, got %q", m.GetDefault().Name)
		}
	})

	t.Run("classic file becomes default", func(t *testing.T) {
		dir := t.TempDir()
		classic := engine.ClassicConfig()
		classic.Name = "House Classic"
		writeConfigFile(t, dir, "classic", classic)

		m, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if m.GetDefault().Name != "House Classic" {
			t.Errorf("Expected file classic as default, got %q", m.GetDefault().Name)
		}
	})
}

func TestManager_LoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "custom", createValidConfig())
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	invalid := createValidConfig()
	invalid.Variant = "hex"
	writeConfigFile(t, dir, "invalid", invalid)

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	tests := []struct {
		name     string
		config   string
		wantName string
		wantErr  error
	}{
		{"file config", "custom", "Test Config", nil},
		{"file config with extension", "custom.json", "Test Config", nil},
		{"builtin easy", "easy", "Easy Neutreeko", nil},
		{"missing", "missing", "", ErrConfigNotFound},
		{"path traversal", "../etc", "", ErrConfigNotFound},
		{"broken json", "broken", "", ErrInvalidConfig},
		{"invalid variant", "invalid", "", ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := m.LoadConfig(tt.config)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if config.Name != tt.wantName {
				t.Errorf("Expected name %q, got %q", tt.wantName, config.Name)
			}
		})
	}

	first, _ := m.LoadConfig("custom")
	second, _ := m.LoadConfig("custom")
	if first != second {
		t.Error("Expected cached config to be returned")
	}
}

func TestManager_ListConfigs(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "custom", createValidConfig())
	writeConfigFile(t, dir, "easy", engine.EasyConfig())
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	configs, err := m.ListConfigs()
	if err != nil {
		t.Fatalf("Failed to list configs: %v", err)
	}

	want := []string{"classic", "custom", "easy"}
	if len(configs) != len(want) {
		t.Fatalf("Expected %d configs, got %d", len(want), len(configs))
	}
	for i, id := range want {
		if configs[i].ConfigID != id {
			t.Errorf("Expected config %d to be %q, got %q", i, id, configs[i].ConfigID)
		}
	}

	if configs[0].Filename != "" {
		t.Errorf("Expected builtin classic to have no filename, got %q", configs[0].Filename)
	}
	if configs[1].Filename != "custom.json" || configs[1].MaxTurns != 50 {
		t.Errorf("Unexpected custom info: %+v", configs[1])
	}
	if configs[2].Variant != engine.VariantEasy {
		t.Errorf("Expected easy variant, got %q", configs[2].Variant)
	}
}

func TestManager_SaveConfig(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if err := m.SaveConfig("saved", createValidConfig()); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "saved.json")); err != nil {
		t.Errorf("Expected saved.json on disk: %v", err)
	}

	invalid := createValidConfig()
	invalid.Layout[0] = "11111"
	if err := m.SaveConfig("invalid", invalid); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
	if err := m.SaveConfig("../escape", createValidConfig()); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for path name, got %v", err)
	}

	// a fresh manager reads the file back
	fresh, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	loaded, err := fresh.LoadConfig("saved")
	if err != nil {
		t.Fatalf("Failed to load saved config: %v", err)
	}
	if loaded.MaxTurns != 50 || loaded.Variant != engine.VariantEasy {
		t.Errorf("Saved config did not round trip: %+v", loaded)
	}
}

func TestManager_SetDefaultAndRefresh(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "custom", createValidConfig())

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	if err := m.SetDefault("custom"); err != nil {
		t.Fatalf("Failed to set default: %v", err)
	}
	if m.GetDefault().Name != "Test Config" {
		t.Errorf("Expected custom default, got %q", m.GetDefault().Name)
	}
	if err := m.SetDefault("missing"); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Expected ErrConfigNotFound, got %v", err)
	}

	updated := createValidConfig()
	updated.Name = "Updated Config"
	writeConfigFile(t, dir, "custom", updated)

	if err := m.RefreshCache(); err != nil {
		t.Fatalf("Failed to refresh: %v", err)
	}
	config, err := m.LoadConfig("custom")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if config.Name != "Updated Config" {
		t.Errorf("Expected refreshed config, got %q", config.Name)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "custom", createValidConfig())

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.LoadConfig("custom"); err != nil {
				t.Errorf("Concurrent load failed: %v", err)
			}
			if _, err := m.ListConfigs(); err != nil {
				t.Errorf("Concurrent list failed: %v", err)
			}
			m.GetDefault()
		}()
	}
	wg.Wait()
}
