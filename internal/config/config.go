// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	Env        string `env:"SKINPATCH_ENV" envDefault:"development"`
	LogLevel   string `env:"SKINPATCH_LOG_LEVEL" envDefault:"info"`
	SkinsDir   string `env:"SKINPATCH_SKINS_DIR" envDefault:"./skins"`
	ListenAddr string `env:"SKINPATCH_LISTEN_ADDR" envDefault:"localhost:8090"`

	// Startup payload source: a file, or a Redis key when RedisURL is set
	PayloadPath string `env:"SKINPATCH_PAYLOAD_PATH" envDefault:"./payload.json"`
	RedisURL    string `env:"SKINPATCH_REDIS_URL"`
	PayloadKey  string `env:"SKINPATCH_PAYLOAD_KEY" envDefault:"skinpatch:payload"`

	DiagnosticsSize int `env:"SKINPATCH_DIAGNOSTICS_SIZE" envDefault:"200"` // retained WARN+ records
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// UseRedisPayload returns true if the startup payload is read from Redis.
func (c Config) UseRedisPayload() bool {
	return c.RedisURL != ""
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if strings.TrimSpace(cfg.SkinsDir) == "" {
		return nil, fmt.Errorf("SKINPATCH_SKINS_DIR must not be empty")
	}
	if !cfg.UseRedisPayload() && strings.TrimSpace(cfg.PayloadPath) == "" {
		return nil, fmt.Errorf("SKINPATCH_PAYLOAD_PATH is required when SKINPATCH_REDIS_URL is not set")
	}
	if cfg.UseRedisPayload() && strings.TrimSpace(cfg.PayloadKey) == "" {
		return nil, fmt.Errorf("SKINPATCH_PAYLOAD_KEY must not be empty when SKINPATCH_REDIS_URL is set")
	}
	if cfg.DiagnosticsSize <= 0 {
		return nil, fmt.Errorf("SKINPATCH_DIAGNOSTICS_SIZE must be positive, got %d", cfg.DiagnosticsSize)
	}

	return cfg, nil
}
