package cli

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/adapters/file"
	"github.com/aretw0/turing/pkg/adapters/redis"
	"github.com/aretw0/turing/pkg/adapters/sqlite"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/aretw0/turing/pkg/persistence/middleware"
	"github.com/aretw0/turing/pkg/ports"
)

// Env is what a command needs to do its work.
type Env struct {
	Engine *turing.Engine
	Logger *slog.Logger

	closers []func() error
}

// Close releases stores and log files in reverse order of creation.
func (e *Env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	e.closers = nil
	return errors.Join(errs...)
}

// Setup initializes a Turing engine with standard CLI conventions.
// hooks are merged with the debug log hooks enabled by --verbose.
func Setup(cfg Config, hooks domain.LifecycleHooks) (*Env, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, closeLog, err := createLogger(cfg)
	if err != nil {
		return nil, err
	}
	env := &Env{Logger: logger, closers: []func() error{closeLog}}

	opts := []turing.Option{
		turing.WithLogger(logger),
		turing.WithMaxSteps(cfg.MaxSteps),
	}
	if cfg.Verbose {
		hooks = hooks.Merge(observability.LogHooks(logger))
	}
	opts = append(opts, turing.WithLifecycleHooks(hooks))

	store, locker, err := env.openStore(cfg)
	if err == nil && store != nil {
		store, err = wrapStore(cfg, store)
	}
	if err != nil {
		_ = env.Close()
		return nil, err
	}
	if store != nil {
		opts = append(opts, turing.WithStore(store))
	}
	if locker != nil {
		opts = append(opts, turing.WithLocker(locker))
	}

	if hasLibrary(cfg.Dir) {
		if cfg.Loader == LoaderFile {
			opts = append(opts, turing.WithLoader(file.NewLoader(cfg.Dir)))
		} else {
			opts = append(opts, turing.WithLibrary(cfg.Dir))
		}
	}

	eng, err := turing.New(opts...)
	if err != nil {
		_ = env.Close()
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	env.Engine = eng
	return env, nil
}

// openStore opens the --store backend. A nil store keeps runs in memory.
func (e *Env) openStore(cfg Config) (ports.RunStore, ports.DistributedLocker, error) {
	switch cfg.Store {
	case StoreFile:
		return file.New(cfg.dbPath()), nil, nil

	case StoreSQLite:
		path := cfg.dbPath()
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to ensure database directory: %w", err)
		}
		store, err := sqlite.Open(path)
		if err != nil {
			return nil, nil, err
		}
		e.closers = append(e.closers, store.Close)
		return store, nil, nil

	case StoreRedis:
		store := redis.New(cfg.RedisAddr, os.Getenv("TURING_REDIS_PASSWORD"), 0, redis.WithTTL(7*24*time.Hour))
		e.closers = append(e.closers, store.Close)
		return store, redis.NewLocker(store.Client(), redis.DefaultPrefix), nil
	}
	return nil, nil, nil
}

// wrapStore applies redaction and then encryption to stored runs.
func wrapStore(cfg Config, store ports.RunStore) (ports.RunStore, error) {
	var mws []middleware.Middleware
	if len(cfg.Redact) > 0 {
		mw, err := middleware.NewRedactionMiddleware(cfg.Redact)
		if err != nil {
			return nil, err
		}
		mws = append(mws, mw)
	}
	if cfg.EncryptionKey != "" {
		key, err := base64.StdEncoding.DecodeString(cfg.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("%s must be base64: %w", EnvEncryptionKey, err)
		}
		mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
		if err != nil {
			return nil, err
		}
		mws = append(mws, mw)
	}
	return middleware.Chain(store, mws...), nil
}

// hasLibrary reports whether dir is an existing directory.
func hasLibrary(dir string) bool {
	if dir == "" {
		return false
	}
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}
