package module

import (
	"time"

	"reviewpulse/internal/platform/config"
	"reviewpulse/internal/platform/retry"
)

// Options holds configuration for classification runs
type Options struct {
	ThemesPath string
	Retry      retry.Policy
}

// FromConfig reads CORE_THEMES_PATH and the CORE_MODEL_RETRY_* policy.
// CORE_MODEL_RETRIES counts attempts including the first and defaults to one
func FromConfig(cfg config.Conf) Options {
	m := cfg.Prefix("CORE_MODEL_")
	return Options{
		ThemesPath: cfg.Prefix("CORE_THEMES_").MayString("PATH", ""),
		Retry: retry.Policy{
			MaxAttempts:     m.MayPositiveInt("RETRIES", 1),
			InitialInterval: m.MayDuration("RETRY_INITIAL", time.Second),
			MaxInterval:     m.MayDuration("RETRY_MAX", 20*time.Second),
			Multiplier:      m.MayFloat64("RETRY_MULTIPLIER", 2),
		},
	}
}
