package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/turing/pkg/adapters/redis"
	"github.com/aretw0/turing/pkg/domain"
	contract "github.com/aretw0/turing/pkg/ports/tests"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err, "Failed to start miniredis")
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	contract.RunStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	run := &domain.Run{ID: "run-ttl", Output: "1", Status: domain.StatusHaltedAccept, Acceptance: 1}

	require.NoError(t, store.Save(ctx, run))

	runs, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, runs, run.ID)

	// Key expiration is driven by miniredis time.
	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, run.ID)
	assert.ErrorIs(t, err, domain.ErrRunNotFound)

	// Index pruning compares against the wall clock.
	time.Sleep(1200 * time.Millisecond)

	runs, err = store.List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, runs)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Run{ID: "my-run"}))

	assert.True(t, mr.Exists("custom:app:my-run"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")

	list, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, list, "my-run")
}

func TestRedisStore_DefaultPrefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client)
	require.NoError(t, store.Save(context.Background(), &domain.Run{ID: "r"}))
	assert.True(t, mr.Exists(redis.DefaultPrefix+"r"))
}

func TestRedisStore_New(t *testing.T) {
	mr, _ := newClient(t)

	store := redis.New(mr.Addr(), "", 0)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &domain.Run{ID: "via-addr", Output: "_"}))

	run, err := store.Load(ctx, "via-addr")
	require.NoError(t, err)
	assert.Equal(t, "_", run.Output)
}
