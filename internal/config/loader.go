package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix = "HBELO_"
	envFile   = envPrefix + "CONFIG"

	// Player and club names used as map keys contain dots and slashes.
	keyDelim = "::"
)

// listKeys are read from the environment as comma-separated values.
var listKeys = map[string]bool{
	"leagues":             true,
	"same_team_types":     true,
	"opposite_team_types": true,
}

// Load builds a Config by layering defaults, an optional YAML file named by
// HBELO_CONFIG, and HBELO_ environment variables, in that order.
func Load() (*Config, error) {
	k := koanf.New(keyDelim)

	if path := os.Getenv(envFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// HBELO_WORKER_COUNT -> worker_count; keys stay flat to match the tags.
	envProvider := env.ProviderWithValue(envPrefix, keyDelim, func(key, value string) (string, any) {
		key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
		if listKeys[key] {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	k.Delete("config")

	cfg := New()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// splitList turns "a, b,,c" into [a b c].
func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
