// Package sqlite is the persistence backend for interaction history
// (spec.md §4.3, §6): the "named byte-stream sink" the spec describes,
// realized as a small embedded-schema SQLite database rather than a
// bespoke binary blob, in the style of the teacher's own SQLite layer.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/deskpet/core/pkg/logger"
)

//go:embed schema.sql
var schemaFS embed.FS

// DB wraps a SQLite connection configured for a single desktop-pet
// daemon process: WAL journaling, a short busy timeout, and a small
// embedded schema.
type DB struct {
	conn *sql.DB
	mu   sync.RWMutex
	log  *logger.Logger
}

// ConnectionConfig controls pool sizing. Defaults are intentionally
// small — this is a single-process daemon, not a multi-tenant server.
type ConnectionConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConnectionConfig returns sane defaults for path.
func DefaultConnectionConfig(path string) *ConnectionConfig {
	return &ConnectionConfig{
		Path:            path,
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Hour,
	}
}

// Open opens (creating if necessary) the SQLite database at cfg.Path,
// applying the embedded schema. On failure a plain error wrapping the
// underlying cause is returned; callers are expected to log-and-default per
// spec.md §7 rather than propagate further.
func Open(cfg *ConnectionConfig, log *logger.Logger) (*DB, error) {
	if cfg == nil || cfg.Path == "" {
		return nil, fmt.Errorf("sqlite: database path cannot be empty")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: create db directory: %w", err)
		}
	}

	dsn := cfg.Path +
		"?_journal_mode=WAL" +
		"&_synchronous=NORMAL" +
		"&_busy_timeout=5000"

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", cfg.Path, err)
	}
	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	db := &DB{conn: conn, log: log}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

func (db *DB) initSchema() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite: ping: %w", err)
	}

	schema, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("sqlite: read embedded schema: %w", err)
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin schema tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(schema)); err != nil {
		return fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return tx.Commit()
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
