package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"finanzas/internal/core"
)

// MemoryStore holds the document in memory. It round-trips through JSON on
// Save so Load observes exactly what a durable backend would return.
type MemoryStore struct {
	mu  sync.Mutex
	doc []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) Save(_ context.Context, state core.State) error {
	doc, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Load(_ context.Context) (any, bool, error) {
	s.mu.Lock()
	doc := s.doc
	s.mu.Unlock()

	if doc == nil {
		return nil, false, nil
	}
	var raw any
	if err := json.Unmarshal(doc, &raw); err != nil {
		return nil, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return raw, true, nil
}

// SeedRaw primes the store with an arbitrary document, bypassing the typed
// Save path. Used to exercise legacy-shape loading.
func (s *MemoryStore) SeedRaw(doc []byte) {
	s.mu.Lock()
	s.doc = append([]byte(nil), doc...)
	s.mu.Unlock()
}
