// Package logging provides JSON-lines structured logging for notepadcc.
//
// Every record is one JSON object:
//
//	{"ts":"2026-01-15T10:30:00Z","level":"INFO","msg":"editor started","version":"0.3.0"}
//
// Log levels:
//   - debug: Verbose (enabled via NOTEPADCC_DEBUG=1)
//   - info: Startup, shutdown, config reload, autosave
//   - warn: Non-fatal issues (search timeouts, unreadable autosave)
//   - error: Storage failures
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config configures the structured logger.
type Config struct {
	// Output is the writer for log output (default: os.Stderr)
	Output io.Writer

	// Level is the minimum log level (default: LevelInfo)
	Level slog.Level

	// Debug enables debug level logging (overrides Level)
	Debug bool
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() *Config {
	return &Config{
		Output: os.Stderr,
		Level:  slog.LevelInfo,
	}
}

// New creates a new JSON-lines structured logger.
func New(cfg *Config) *slog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	level := cfg.Level
	if cfg.Debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				a.Key = "ts"
			}
			return a
		},
	}

	return slog.New(slog.NewJSONHandler(output, opts))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return New(&Config{Output: io.Discard, Level: slog.LevelError + 1})
}

// ParseLevel maps a config log level name to a slog level. Unknown names
// map to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DebugFromEnv reports whether NOTEPADCC_DEBUG asks for debug logging.
func DebugFromEnv() bool {
	v, err := strconv.ParseBool(os.Getenv("NOTEPADCC_DEBUG"))
	return err == nil && v
}

// NewFromEnv creates a stderr logger at the given level, switched to debug
// when NOTEPADCC_DEBUG is set.
func NewFromEnv(level string) *slog.Logger {
	cfg := DefaultConfig()
	cfg.Level = ParseLevel(level)
	cfg.Debug = DebugFromEnv()
	return New(cfg)
}

// OpenFile opens path for appending log records, creating its directory.
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// StartupInfo holds information to log when the editor starts.
type StartupInfo struct {
	Version      string
	GitCommit    string
	ConfigPath   string
	DatabasePath string
	PID          int
}

// LogStartup logs editor startup information.
func LogStartup(logger *slog.Logger, info StartupInfo) {
	logger.Info("editor started",
		"version", info.Version,
		"git_commit", info.GitCommit,
		"config_path", info.ConfigPath,
		"database_path", info.DatabasePath,
		"pid", info.PID,
	)
}

// LogShutdown logs editor shutdown.
func LogShutdown(logger *slog.Logger, reason string) {
	logger.Info("editor shutting down", "reason", reason)
}

// LogConfigReload logs configuration reload.
func LogConfigReload(logger *slog.Logger, configPath string) {
	logger.Info("configuration reloaded", "config_path", configPath)
}

// LogConfigReloadFailed logs a configuration file that could not be applied.
func LogConfigReloadFailed(logger *slog.Logger, configPath string, err error) {
	logger.Warn("configuration reload failed", "config_path", configPath, "error", err)
}

// LogAutosave logs a successful autosave snapshot.
func LogAutosave(logger *slog.Logger, fileName string, bytes int) {
	logger.Debug("autosave written", "file_name", fileName, "bytes", bytes)
}

// LogSearchTimeout logs a pattern whose evaluation exceeded the match timeout.
func LogSearchTimeout(logger *slog.Logger, pattern string) {
	logger.Warn("search timed out", "pattern", pattern)
}

// LogSQLiteError logs SQLite errors.
func LogSQLiteError(logger *slog.Logger, operation string, err error) {
	logger.Error("sqlite error", "operation", operation, "error", err)
}
