// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Station-Manager/spe"
)

type Config struct {
	Serial  spe.SerialConfig `yaml:"serial"`
	Poll    PollConfig       `yaml:"poll"`
	Redis   RedisConfig      `yaml:"redis"`
	Log     spe.LogConfig    `yaml:"log"`
	Monitor MonitorConfig    `yaml:"monitor"`
}

// ---- POLL ----

type PollConfig struct {
	IntervalMs int `yaml:"interval_ms"`
	TimeoutMs  int `yaml:"timeout_ms"` // per call

	// Filled by Normalize.
	Interval time.Duration `yaml:"-"`
	Timeout  time.Duration `yaml:"-"`
}

// ---- REDIS (optional sample sink) ----

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
	Channel  string `yaml:"channel"`
	History  int    `yaml:"history"` // samples kept in the list, 0 disables the list
}

// ---- MONITOR ----

type MonitorConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Default returns a complete configuration. The serial port name is left
// empty and must be set by the file.
func Default() *Config {
	return &Config{
		Serial: spe.DefaultSerialConfig(""),
		Poll: PollConfig{
			IntervalMs: 30,
			TimeoutMs:  1000,
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			PoolSize: 10,
			Channel:  "spe:samples",
			History:  1000,
		},
		Log: spe.LogConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Monitor: MonitorConfig{
			Enabled: true,
			Addr:    ":9090",
		},
	}
}

// Load reads the YAML file at path over Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}
