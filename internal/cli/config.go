package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/turing/internal/logging"
)

// Store backends accepted by --store.
const (
	StoreNone   = "none"
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Loader backends accepted by --loader.
const (
	LoaderLoam = "loam"
	LoaderFile = "file"
)

// Config carries the persistent flags shared by every command.
type Config struct {
	Dir       string
	Loader    string
	Verbose   bool
	LogFile   string
	MaxSteps  int
	Store     string
	RedisAddr string
	DB        string

	// Redact lists patterns masked in stored tapes.
	Redact []string
	// EncryptionKey is a base64 AES-256 key; stored tapes are encrypted
	// when set. Read from EnvEncryptionKey, never from a flag.
	EncryptionKey string
}

// EnvEncryptionKey names the variable holding the run store encryption key.
const EnvEncryptionKey = "TURING_ENCRYPTION_KEY"

// Validate rejects unknown backends before anything is opened.
func (c Config) Validate() error {
	switch c.Store {
	case "", StoreNone, StoreFile, StoreSQLite, StoreRedis:
	default:
		return fmt.Errorf("unknown store %q (want none, file, sqlite or redis)", c.Store)
	}
	switch c.Loader {
	case "", LoaderLoam, LoaderFile:
	default:
		return fmt.Errorf("unknown loader %q (want loam or file)", c.Loader)
	}
	return nil
}

// Persistent reports whether runs outlive the process.
func (c Config) Persistent() bool {
	return c.Store != "" && c.Store != StoreNone
}

// dbPath returns --db or the default location for the selected store.
func (c Config) dbPath() string {
	if c.DB != "" {
		return c.DB
	}
	if c.Store == StoreSQLite {
		return filepath.Join(".turing", "runs.db")
	}
	return filepath.Join(".turing", "runs")
}

// createLogger configures the application logger.
// Verbose mode logs debug records to Stderr; otherwise only warnings are
// shown. A --log-file receives the same records as JSON lines.
// The returned closer releases the log file.
func createLogger(cfg Config) (*slog.Logger, func() error, error) {
	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}

	if cfg.LogFile == "" {
		return logging.New(level), func() error { return nil }, nil
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return logging.New(level, io.Writer(f)), f.Close, nil
}
