package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries the service settings. Every field has a working default so
// the binary runs with no environment at all.
type Config struct {
	Addr         string
	DatabasePath string
	WorkbookPath string
	BackupDir    string
	SessionTTL   time.Duration
	LogLevel     string
}

func Load() Config {
	return Config{
		Addr:         envStr("TECHDESK_ADDR", ":8080"),
		DatabasePath: envStr("TECHDESK_DB", "data/techdesk.db"),
		WorkbookPath: envStr("TECHDESK_KB_FILE", "knowledge_base_file.xlsx"),
		BackupDir:    envStr("TECHDESK_BACKUP_DIR", "kb_backups"),
		SessionTTL:   envDur("TECHDESK_SESSION_TTL", 12*time.Hour),
		LogLevel:     envStr("LOG_LEVEL", "info"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDur(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
	}
	return fallback
}
