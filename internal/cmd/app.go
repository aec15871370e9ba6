package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/runger/notepadcc/internal/config"
	"github.com/runger/notepadcc/internal/history"
	"github.com/runger/notepadcc/internal/logging"
	"github.com/runger/notepadcc/internal/storage"
)

// configStore returns the settings file named by --config, or the default
// one.
func configStore() *config.FileStore {
	return config.NewFileStore(configPath)
}

// databaseFile returns the --db path or the default database file.
func databaseFile() string {
	if dbPath != "" {
		return dbPath
	}
	return config.DefaultPaths().DatabaseFile()
}

func loadConfig() (*config.Config, error) {
	cfg, err := configStore().Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newLogger returns a JSON logger writing to w at the configured level.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	return logging.New(&logging.Config{
		Output: w,
		Level:  logging.ParseLevel(cfg.Advanced.LogLevel),
		Debug:  logging.DebugFromEnv(),
	})
}

// openLogFile opens the configured log file, falling back to the default
// location.
func openLogFile(cfg *config.Config) (*os.File, error) {
	path := cfg.Advanced.LogFile
	if path == "" {
		path = config.DefaultPaths().LogFile()
	}
	return logging.OpenFile(path)
}

// openStore opens the database, creating it on first use.
func openStore(logger *slog.Logger) (*storage.SQLiteStore, error) {
	path := databaseFile()
	store, err := storage.NewSQLiteStoreWithLogger(path, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	return store, nil
}

// env is what a one-shot command needs: settings, the database and a
// logger writing to the log file.
type env struct {
	cfg     *config.Config
	store   *storage.SQLiteStore
	logger  *slog.Logger
	logFile *os.File
}

// openEnv loads the config and opens the database. Logs go to the log file,
// or are discarded when it cannot be opened.
func openEnv() (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, logger: logging.Discard()}
	if f, err := openLogFile(cfg); err == nil {
		e.logFile = f
		e.logger = newLogger(cfg, f)
	}

	e.store, err = openStore(e.logger)
	if err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

// Close releases the database and the log file.
func (e *env) Close() {
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.logger.Warn("failed to close database", "error", err)
		}
	}
	if e.logFile != nil {
		_ = e.logFile.Close()
	}
}

func newHistoryService(store history.Store, cfg *config.Config, logger *slog.Logger) *history.Service {
	return history.NewService(store, cfg.Search.HistorySize, logger)
}

// errInvalidArgs is returned for flag combinations cobra cannot check.
var errInvalidArgs = errors.New("invalid arguments")
