package helpers

import (
	"time"

	"github.com/campuskit/placement/internal/pkg/logger"
)

// ParseDuration reads a duration from a config value such as a token
// lifetime. Empty or malformed values fall back to the given default.
func ParseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		logger.Warn().Err(err).
			Str("value", value).
			Dur("fallback", fallback).
			Msg("Unparseable duration in config, using fallback")
		return fallback
	}
	return d
}
