// internal/config/validate.go
package config

import (
	"fmt"

	"github.com/Station-Manager/spe"
)

// Validate checks configuration correctness.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	serial := cfg.Serial
	if err := spe.ValidateConfig(&serial); err != nil {
		return fmt.Errorf("serial: %w", err)
	}

	if cfg.Poll.IntervalMs <= 0 {
		return fmt.Errorf("poll: interval_ms must be > 0, got %d", cfg.Poll.IntervalMs)
	}
	if cfg.Poll.TimeoutMs <= 0 {
		return fmt.Errorf("poll: timeout_ms must be > 0, got %d", cfg.Poll.TimeoutMs)
	}

	if cfg.Redis.Enabled {
		if cfg.Redis.Addr == "" {
			return fmt.Errorf("redis: addr is required when enabled")
		}
		if cfg.Redis.Channel == "" {
			return fmt.Errorf("redis: channel is required when enabled")
		}
		if cfg.Redis.History < 0 {
			return fmt.Errorf("redis: history cannot be negative: %d", cfg.Redis.History)
		}
	}

	if cfg.Monitor.Enabled && cfg.Monitor.Addr == "" {
		return fmt.Errorf("monitor: addr is required when enabled")
	}

	return nil
}
