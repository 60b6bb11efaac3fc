package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/deskpet/core/internal/interaction"
	"github.com/deskpet/core/pkg/logger"
)

// InteractionRepository persists and restores an interaction.Tracker's
// Snapshot. Load returns no error: on a query failure or an empty table
// it returns a zero-value Snapshot, so callers start fresh without aborting
// (spec.md §6, §7: PersistenceIoError is logged, not propagated).
type InteractionRepository struct {
	db  *DB
	log *logger.Logger
}

// NewInteractionRepository wraps db for interaction-history persistence.
func NewInteractionRepository(db *DB, log *logger.Logger) *InteractionRepository {
	return &InteractionRepository{db: db, log: log}
}

// Save replaces the persisted interaction history with snap's
// contents, inside a single transaction.
func (r *InteractionRepository) Save(ctx context.Context, snap interaction.Snapshot) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	tx, err := r.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin save tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM interaction_history"); err != nil {
		return fmt.Errorf("sqlite: clear interaction_history: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO interaction_history (kind, zone_id, occurred_at) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, entry := range snap.Entries {
		for _, ts := range entry.Timestamps {
			if _, err := stmt.ExecContext(ctx, entry.Kind, entry.ZoneID, ts.UTC()); err != nil {
				return fmt.Errorf("sqlite: insert interaction row: %w", err)
			}
		}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO interaction_meta (key, value) VALUES ('last_updated', ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		snap.LastUpdated.UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("sqlite: write last_updated: %w", err)
	}

	return tx.Commit()
}

// Load reads the persisted interaction history back into a Snapshot.
// A query or iteration error is logged at warning and a zero-value
// Snapshot is returned, so the caller resets to empty without failing
// startup; a row that fails to scan is logged and skipped.
func (r *InteractionRepository) Load(ctx context.Context) interaction.Snapshot {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	rows, err := r.db.conn.QueryContext(ctx, "SELECT kind, zone_id, occurred_at FROM interaction_history ORDER BY kind, zone_id, occurred_at")
	if err != nil {
		r.logWarn("query interaction_history", err)
		return interaction.Snapshot{}
	}
	defer rows.Close()

	byCell := make(map[string]*interaction.SnapshotEntry)
	order := make([]string, 0)
	for rows.Next() {
		var kind, zoneID string
		var occurredAt time.Time
		if err := rows.Scan(&kind, &zoneID, &occurredAt); err != nil {
			r.logWarn("scan interaction row", err)
			continue
		}
		key := kind + "\x00" + zoneID
		entry, ok := byCell[key]
		if !ok {
			entry = &interaction.SnapshotEntry{Kind: kind, ZoneID: zoneID}
			byCell[key] = entry
			order = append(order, key)
		}
		entry.Timestamps = append(entry.Timestamps, occurredAt)
	}
	if err := rows.Err(); err != nil {
		r.logWarn("iterate interaction rows", err)
		return interaction.Snapshot{}
	}

	entries := make([]interaction.SnapshotEntry, 0, len(order))
	for _, key := range order {
		entries = append(entries, *byCell[key])
	}

	lastUpdated := r.loadLastUpdated(ctx)
	return interaction.Snapshot{Entries: entries, LastUpdated: lastUpdated}
}

func (r *InteractionRepository) loadLastUpdated(ctx context.Context) time.Time {
	var raw string
	err := r.db.conn.QueryRowContext(ctx, "SELECT value FROM interaction_meta WHERE key = 'last_updated'").Scan(&raw)
	if err != nil {
		if err != sql.ErrNoRows {
			r.logWarn("read last_updated", err)
		}
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		r.logWarn("parse last_updated", err)
		return time.Time{}
	}
	return ts
}

func (r *InteractionRepository) logWarn(action string, err error) {
	if r.log != nil {
		r.log.Warn("persistence io error, defaulting to empty", "action", action, "error", err.Error())
	}
}
