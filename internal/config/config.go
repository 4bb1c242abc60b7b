// Package config reads the settings of the simplehttp command from
// an optional .env file and the environment.
package config

import (
	"log/slog"
	"time"
)

type Config interface {
	// Zero means no timeout.
	Timeout() time.Duration
	// Sent as X-Forwarded-For unless the request sets it.
	RemoteAddr() string
	// Zero means no limit.
	MaxResponseSize() uint
	LogLevel() slog.Level
	LogJSON() bool
}

// Load reads .env from the working directory, if present, and parses the environment.
func Load() (Config, error) {
	if err := loadEnvFile(".env"); err != nil {
		return nil, err
	}

	cfg, err := parse()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *config) Timeout() time.Duration { return c.timeout }
func (c *config) RemoteAddr() string     { return c.remoteAddr }
func (c *config) MaxResponseSize() uint  { return c.maxResponseSize }
func (c *config) LogLevel() slog.Level   { return c.logLevel }
func (c *config) LogJSON() bool         { return c.logJSON }
