package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kranwerk/timesheet-engine/store/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestEntryCRUD(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	id, err := store.SaveEntry(ctx, sqlite.Entry{
		Date: "2025-06-10", Start: "0730", End: "1500", Meal: "0100", Comment: "site A",
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := store.GetEntry(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "0730", got.Start)
	assert.Equal(t, "site A", got.Comment)
	assert.False(t, got.CreatedAt.IsZero())

	got.End = "1600"
	require.NoError(t, store.UpdateEntry(ctx, *got))

	entries, err := store.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "1600", entries[0].End)

	require.NoError(t, store.DeleteEntry(ctx, id))
	entries, err = store.ListEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRawTextIsPreservedVerbatim(t *testing.T) {
	// The store must not normalize: "7,30" and garbage both survive a
	// round trip so the engine's leniency policy applies at evaluation.
	ctx := context.Background()
	store := newStore(t)

	id, err := store.SaveEntry(ctx, sqlite.Entry{Date: "10.06.2025", Start: "7,30", Meal: "lunsj"})
	require.NoError(t, err)

	got, err := store.GetEntry(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "7,30", got.Start)
	assert.Equal(t, "lunsj", got.Meal)
	assert.Equal(t, "", got.End)
}

func TestMissingIDs(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	got, err := store.GetEntry(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.True(t, errors.Is(store.UpdateEntry(ctx, sqlite.Entry{ID: 42}), sql.ErrNoRows))
	assert.True(t, errors.Is(store.DeleteEntry(ctx, 42), sql.ErrNoRows))
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	for i := 0; i < 3; i++ {
		_, err := store.SaveEntry(ctx, sqlite.Entry{Date: "2025-06-10"})
		require.NoError(t, err)
	}
	require.NoError(t, store.Reset(ctx))

	entries, err := store.ListEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
