package settings

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/rs/zerolog"
)

// Settings holds process-level configuration for the server binaries
type Settings struct {
	Addr            string        `yaml:"addr" env:"ADDR" env-default:":8080" env-description:"HTTP listen address"`
	ConfigDir       string        `yaml:"config-dir" env:"CONFIG_DIR" env-default:"configs" env-description:"Directory of game config JSON files"`
	DefaultConfig   string        `yaml:"default-config" env:"DEFAULT_CONFIG" env-default:"classic" env-description:"Config used when a session names none"`
	LogLevel        string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"info" env-description:"trace, debug, info, warn or error"`
	LogFormat       string        `yaml:"log-format" env:"LOG_FORMAT" env-default:"console" env-description:"console or json"`
	SessionTTL      time.Duration `yaml:"session-ttl" env:"SESSION_TTL" env-default:"1h" env-description:"Idle time after which sessions are dropped"`
	CleanupInterval time.Duration `yaml:"cleanup-interval" env:"CLEANUP_INTERVAL" env-default:"5m" env-description:"How often expired sessions are swept"`
	Ngrok           Ngrok         `yaml:"ngrok"`
}

// Ngrok configures the optional public tunnel
type Ngrok struct {
	Enabled   bool   `yaml:"enabled" env:"NGROK_ENABLED" env-default:"false"`
	AuthToken string `yaml:"authtoken" env:"NGROK_AUTHTOKEN"`
	Domain    string `yaml:"domain" env:"NGROK_DOMAIN"`
}

// Load reads settings from path when given, then from the environment.
// Environment variables override file values.
func Load(path string) (*Settings, error) {
	s := &Settings{}

	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, s)
	} else {
		err = cleanenv.ReadEnv(s)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load settings: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// MustLoad is Load that panics on error
func MustLoad(path string) *Settings {
	s, err := Load(path)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks values cleanenv cannot check on its own
func (s *Settings) Validate() error {
	if _, err := zerolog.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", s.LogLevel, err)
	}
	if s.LogFormat != "console" && s.LogFormat != "json" {
		return fmt.Errorf("invalid LOG_FORMAT %q: must be console or json", s.LogFormat)
	}
	if s.SessionTTL < 0 || s.CleanupInterval < 0 {
		return fmt.Errorf("SESSION_TTL and CLEANUP_INTERVAL must not be negative")
	}
	if s.Ngrok.Enabled && s.Ngrok.AuthToken == "" {
		return fmt.Errorf("NGROK_AUTHTOKEN is required when NGROK_ENABLED is set")
	}
	return nil
}

// Level returns the parsed log level
func (s *Settings) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(s.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// Usage describes the supported environment variables
func Usage() string {
	desc, err := cleanenv.GetDescription(&Settings{}, nil)
	if err != nil {
		return ""
	}
	return desc
}
