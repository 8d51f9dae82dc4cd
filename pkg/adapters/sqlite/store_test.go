package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/turing/pkg/adapters/sqlite"
	"github.com/aretw0/turing/pkg/domain"
	contract "github.com/aretw0/turing/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) (*sqlite.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "runs.db")
	store, err := sqlite.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, path
}

func TestSQLiteStore_Contract(t *testing.T) {
	store, _ := openStore(t)
	contract.RunStoreContract(t, store)
}

func TestSQLiteStore_ReopenKeepsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	ctx := context.Background()

	store, err := sqlite.Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, &domain.Run{
		ID:        "persisted",
		Output:    "1",
		Status:    domain.StatusHaltedReject,
		StartedAt: time.Now(),
	}))
	require.NoError(t, store.Close())

	store, err = sqlite.Open(path)
	require.NoError(t, err)
	defer store.Close()

	run, err := store.Load(ctx, "persisted")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusHaltedReject, run.Status)
}

func TestSQLiteStore_ListOrderedByStart(t *testing.T) {
	store, _ := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, &domain.Run{ID: "late", StartedAt: base.Add(time.Hour)}))
	require.NoError(t, store.Save(ctx, &domain.Run{ID: "early", StartedAt: base}))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"early", "late"}, ids)
}

func TestSQLiteStore_RejectsEmptyID(t *testing.T) {
	store, _ := openStore(t)
	assert.Error(t, store.Save(context.Background(), &domain.Run{}))
}
