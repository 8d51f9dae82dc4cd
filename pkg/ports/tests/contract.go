package tests

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreContract runs a suite of tests to verify that a RunStore
// implementation adheres to the defined interface contract.
func RunStoreContract(t *testing.T, store ports.RunStore) {
	t.Helper()
	ctx := context.Background()
	prefix := fmt.Sprintf("contract-%d", time.Now().UnixNano())

	newRun := func(id string) *domain.Run {
		started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		return &domain.Run{
			ID:         id,
			MachineID:  "inc",
			Input:      "11",
			Output:     "111",
			Acceptance: 1,
			Status:     domain.StatusHaltedAccept,
			Steps:      3,
			MaxSteps:   10,
			StartedAt:  started,
			FinishedAt: started.Add(time.Millisecond),
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		run := newRun(prefix + "-a")
		require.NoError(t, store.Save(ctx, run), "Save should not return error")

		loaded, err := store.Load(ctx, run.ID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, run.ID, loaded.ID)
		assert.Equal(t, run.MachineID, loaded.MachineID)
		assert.Equal(t, run.Input, loaded.Input)
		assert.Equal(t, run.Output, loaded.Output)
		assert.Equal(t, run.Acceptance, loaded.Acceptance)
		assert.Equal(t, run.Status, loaded.Status)
		assert.Equal(t, run.Steps, loaded.Steps)
		assert.Equal(t, run.MaxSteps, loaded.MaxSteps)
		assert.True(t, run.StartedAt.Equal(loaded.StartedAt), "StartedAt should round-trip")
		assert.True(t, run.FinishedAt.Equal(loaded.FinishedAt), "FinishedAt should round-trip")
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		run := newRun(prefix + "-b")
		require.NoError(t, store.Save(ctx, run))
		run.Output = "1111"
		require.NoError(t, store.Save(ctx, run))

		loaded, err := store.Load(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, "1111", loaded.Output)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+prefix)
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		run := newRun(prefix + "-c")
		require.NoError(t, store.Save(ctx, run))

		require.NoError(t, store.Delete(ctx, run.ID), "Delete should not return error")

		_, err := store.Load(ctx, run.ID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound, "Load after Delete should return ErrRunNotFound")

		assert.NoError(t, store.Delete(ctx, run.ID), "Deleting twice should not fail")
	})

	t.Run("List", func(t *testing.T) {
		id1 := prefix + "-list-1"
		id2 := prefix + "-list-2"
		require.NoError(t, store.Save(ctx, newRun(id1)))
		require.NoError(t, store.Save(ctx, newRun(id2)))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}

// MachineLoaderContract verifies a MachineLoader against the machines it was
// seeded with (ID -> expected machine).
func MachineLoaderContract(t *testing.T, loader ports.MachineLoader, seeded map[string]*domain.Machine) {
	t.Helper()
	ctx := context.Background()

	t.Run("LoadMachine_Success", func(t *testing.T) {
		for id, want := range seeded {
			got, err := loader.LoadMachine(ctx, id)
			require.NoError(t, err, "loading %s", id)
			assert.Equal(t, want.Blank, got.Blank, id)
			assert.Equal(t, want.Initial, got.Initial, id)
			assert.ElementsMatch(t, want.Final, got.Final, id)
			if len(want.Rules) > 0 || len(got.Rules) > 0 {
				assert.Equal(t, want.Rules, got.Rules, id)
			}
		}
	})

	t.Run("LoadMachine_NotFound", func(t *testing.T) {
		_, err := loader.LoadMachine(ctx, "non-existent-machine")
		assert.ErrorIs(t, err, domain.ErrMachineNotFound)
	})

	t.Run("ListMachines", func(t *testing.T) {
		ids, err := loader.ListMachines(ctx)
		require.NoError(t, err)

		want := make([]string, 0, len(seeded))
		for id := range seeded {
			want = append(want, id)
		}
		sort.Strings(want)
		assert.Equal(t, want, ids)
	})
}
