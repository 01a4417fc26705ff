package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every environment variable name read by
// ParseEnv, so struct tags carry only the short name (LOG_LEVEL, not
// FREECIV_NOSTR_LOG_LEVEL).
const EnvPrefix = "FREECIV_NOSTR_"

// ParseEnv loads configuration from prefixed environment variables.
func ParseEnv(target any) error {
	return ParseEnvWithPrefix(target, EnvPrefix)
}

// ParseEnvWithPrefix loads configuration using an explicit prefix. An empty
// prefix reads tag names verbatim.
func ParseEnvWithPrefix(target any, prefix string) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: prefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
