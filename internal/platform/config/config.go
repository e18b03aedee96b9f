// Package config loads process configuration from environment variables and
// provides the fatal-exit helper shared by CLI entry points.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Settings holds the process-wide configuration shared by every command.
type Settings struct {
	// StorageBackend selects the key-value store: memory, bbolt, or sqlite.
	StorageBackend string `env:"VALUECHAIN_STORAGE" envDefault:"memory"`
	// StoragePath is the database file for the bbolt and sqlite backends.
	StoragePath string `env:"VALUECHAIN_STORAGE_PATH" envDefault:"valuechain.db"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"VALUECHAIN_LOG_LEVEL" envDefault:"info"`
	// LogFormat selects text or json log output.
	LogFormat string `env:"VALUECHAIN_LOG_FORMAT" envDefault:"text"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the shared settings from the environment.
func Load() (Settings, error) {
	var s Settings
	if err := ParseEnv(&s); err != nil {
		return Settings{}, err
	}
	return s, nil
}
