package logger

import (
	"os"
	"strconv"
)

// LogConfig holds the logging system configuration.
type LogConfig struct {
	Level      string // debug | info | warn | error
	Format     string // text | json
	Output     string // stdout | file | both
	LogPath    string // Directory for log files (relative to project root unless absolute)
	AppFile    string // App log file name
	AuditFile  string // Audit log file name
	ErrorFile  string // Error log file name
	MaxSize    int    // Max size per file in MB before rotation
	MaxBackups int    // Rotated files to keep
	MaxAge     int    // Days to keep rotated files
	Compress   bool   // Compress rotated files
}

// DefaultConfig builds a LogConfig from environment variables with sane defaults.
func DefaultConfig() *LogConfig {
	return &LogConfig{
		Level:      envOr("LOG_LEVEL", "info"),
		Format:     envOr("LOG_FORMAT", "text"),
		Output:     envOr("LOG_OUTPUT", "both"),
		LogPath:    envOr("LOG_PATH", "logs"),
		AppFile:    envOr("LOG_APP_FILE", "app.log"),
		AuditFile:  envOr("LOG_AUDIT_FILE", "audit.log"),
		ErrorFile:  envOr("LOG_ERROR_FILE", "error.log"),
		MaxSize:    envIntOr("LOG_MAX_SIZE", 100),
		MaxBackups: envIntOr("LOG_MAX_BACKUPS", 5),
		MaxAge:     envIntOr("LOG_MAX_AGE", 30),
		Compress:   envOr("LOG_COMPRESS", "true") == "true",
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
