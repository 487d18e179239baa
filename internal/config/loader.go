package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultPath is read when neither a path nor CEFR_CONFIG is given.
const DefaultPath = "./cefr.yaml"

// Resolve returns the config path to use and whether it was chosen explicitly
// (flag or CEFR_CONFIG) rather than defaulted.
func Resolve(path string) (string, bool) {
	if path != "" {
		return path, true
	}
	if env := os.Getenv("CEFR_CONFIG"); env != "" {
		return env, true
	}
	return DefaultPath, false
}

// Load reads configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
// If the file does not exist and no path was given explicitly, configuration
// is loaded from ENV + defaults only.
func Load(path string) (*Config, error) {
	var cfg Config

	path, explicit := Resolve(path)

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		// No file, load from ENV + defaults only.
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}
