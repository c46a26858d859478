// internal/config/normalize.go
package config

import "time"

// Normalize applies post-validation normalization.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	cfg.Poll.Interval = time.Duration(cfg.Poll.IntervalMs) * time.Millisecond
	cfg.Poll.Timeout = time.Duration(cfg.Poll.TimeoutMs) * time.Millisecond

	// History only applies to an enabled sink.
	if !cfg.Redis.Enabled {
		cfg.Redis.History = 0
	}
}
