package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"finanzas/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the aggregate document in a single-row snapshot table.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save serializes the full aggregate and upserts it under the fixed key.
func (s *SQLiteStore) Save(ctx context.Context, state core.State) error {
	doc, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, doc, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			doc = excluded.doc,
			updated_at = CURRENT_TIMESTAMP`,
		SnapshotKey, string(doc))
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}

	slog.DebugContext(ctx, "Snapshot saved",
		"key", SnapshotKey,
		"accounts", len(state.Accounts),
		"transactions", len(state.Transactions))
	return nil
}

// Load returns the last saved document decoded as generic JSON, ok=false on
// first run.
func (s *SQLiteStore) Load(ctx context.Context) (any, bool, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM snapshots WHERE key = ?`, SnapshotKey).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select snapshot: %w", err)
	}

	var raw any
	if err := json.Unmarshal([]byte(doc), &raw); err != nil {
		return nil, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return raw, true, nil
}
