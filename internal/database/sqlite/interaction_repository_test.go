/**
 * CONTEXT:   Test suite for interaction history persistence round-trips
 * INPUT:     Synthetic interaction.Snapshot values and a temporary database
 * OUTPUT:    Validation of save/load fidelity and tolerant-reset on empty state
 * BUSINESS:  Interaction history must survive a daemon restart without manual repair
 * CHANGE:    Initial test suite covering save, load, and empty-table semantics
 * RISK:      Low - Test coverage for the interaction persistence path
 */
package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskpet/core/internal/interaction"
)

func newTestRepo(t *testing.T) *InteractionRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "interaction.db")
	db, err := Open(DefaultConnectionConfig(dbPath), nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewInteractionRepository(db, nil)
}

func TestInteractionRepository_SaveAndLoad(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	now := time.Date(2026, 7, 31, 10, 0, 0, 0, time.UTC)
	snap := interaction.Snapshot{
		Entries: []interaction.SnapshotEntry{
			{Kind: "Click", ZoneID: "head", Timestamps: []time.Time{now.Add(-time.Hour), now}},
			{Kind: "Pet", ZoneID: "back", Timestamps: []time.Time{now}},
		},
		LastUpdated: now,
	}

	require.NoError(t, repo.Save(ctx, snap))

	loaded := repo.Load(ctx)
	require.Len(t, loaded.Entries, 2)
	assert.Equal(t, "Click", loaded.Entries[0].Kind)
	assert.Equal(t, "head", loaded.Entries[0].ZoneID)
	assert.Len(t, loaded.Entries[0].Timestamps, 2)
	assert.WithinDuration(t, now, loaded.LastUpdated, time.Second)
}

func TestInteractionRepository_LoadEmpty(t *testing.T) {
	repo := newTestRepo(t)
	snap := repo.Load(context.Background())
	assert.Empty(t, snap.Entries)
	assert.True(t, snap.LastUpdated.IsZero())
}

func TestInteractionRepository_SaveReplacesPriorContents(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Save(ctx, interaction.Snapshot{
		Entries:     []interaction.SnapshotEntry{{Kind: "Click", ZoneID: "head", Timestamps: []time.Time{now}}},
		LastUpdated: now,
	}))
	require.NoError(t, repo.Save(ctx, interaction.Snapshot{
		Entries:     []interaction.SnapshotEntry{{Kind: "Hover", ZoneID: "tail", Timestamps: []time.Time{now}}},
		LastUpdated: now,
	}))

	loaded := repo.Load(ctx)
	require.Len(t, loaded.Entries, 1)
	assert.Equal(t, "Hover", loaded.Entries[0].Kind)
}
