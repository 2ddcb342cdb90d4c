package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"finanzas/internal/core"
)

// FileStore keeps the aggregate document in a single JSON file. Writes go
// through a temp file and rename so a crash mid-save leaves the previous
// document intact.
type FileStore struct {
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) Save(ctx context.Context, state core.State) error {
	doc, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, doc, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}

	slog.DebugContext(ctx, "Snapshot saved",
		"path", s.path,
		"accounts", len(state.Accounts),
		"transactions", len(state.Transactions))
	return nil
}

func (s *FileStore) Load(ctx context.Context) (any, bool, error) {
	doc, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read snapshot: %w", err)
	}

	var raw any
	if err := json.Unmarshal(doc, &raw); err != nil {
		return nil, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return raw, true, nil
}
