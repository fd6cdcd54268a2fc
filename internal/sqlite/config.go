package sqlite

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Path         string
	MaxOpenConns int
	MaxIdleConns int
	BusyTimeout  time.Duration
}

// LoadConfig reads the SQLite settings from the environment and applies
// defaults for anything unset.
func LoadConfig() (Config, error) {
	cfg := Config{}
	cfg.Path = strings.TrimSpace(os.Getenv("TECHDESK_DB"))
	if v := strings.TrimSpace(os.Getenv("TECHDESK_DB_MAX_OPEN")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse TECHDESK_DB_MAX_OPEN: %w", err)
		}
		cfg.MaxOpenConns = n
	}
	if v := strings.TrimSpace(os.Getenv("TECHDESK_DB_MAX_IDLE")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse TECHDESK_DB_MAX_IDLE: %w", err)
		}
		cfg.MaxIdleConns = n
	}
	if v := strings.TrimSpace(os.Getenv("TECHDESK_DB_BUSY_TIMEOUT")); v != "" {
		dur, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse TECHDESK_DB_BUSY_TIMEOUT: %w", err)
		}
		cfg.BusyTimeout = dur
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Path) == "" {
		c.Path = "data/techdesk.db"
	}
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = 4
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = 2
	}
	if c.BusyTimeout <= 0 {
		c.BusyTimeout = 5 * time.Second
	}
}
