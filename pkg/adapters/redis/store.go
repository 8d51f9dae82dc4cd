package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/turing/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by this package.
const DefaultPrefix = "turing:run:"

// farFuture is the index score of records that never expire (2100-01-01).
const farFuture = 4102444800

// Store implements ports.RunStore using Redis.
// Records are JSON strings; a sorted set scored by expiry indexes them.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for run records.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for run records.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Client exposes the underlying client so a Locker can share it.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) key(runID string) string {
	return s.prefix + runID
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the run to Redis.
func (s *Store) Save(ctx context.Context, run *domain.Run) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = farFuture
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(run.ID), data, s.ttl) // 0 means no expiration
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: run.ID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the run from Redis.
func (s *Store) Load(ctx context.Context, runID string) (*domain.Run, error) {
	val, err := s.client.Get(ctx, s.key(runID)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var run domain.Run
	if err := json.Unmarshal([]byte(val), &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}
	return &run, nil
}

// Delete removes the run and its index entry.
func (s *Store) Delete(ctx context.Context, runID string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(runID))
	pipe.ZRem(ctx, s.indexKey(), runID)

	_, err := pipe.Exec(ctx)
	return err
}

// List returns stored run IDs, oldest expiry first.
// Expired entries are pruned from the index lazily.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired runs: %w", err)
	}

	runs, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
