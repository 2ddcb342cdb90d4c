package storage

import (
	"context"

	"finanzas/internal/core"
)

// SnapshotKey is the single fixed key the aggregate document lives under.
// It matches the key historic clients persisted their data with, so an old
// document restored from a device backup loads as-is.
const SnapshotKey = "finanzas_v1"

// Store is the persistence port: one serialized aggregate document under one
// fixed key. Save is best-effort; callers log failures and move on. Load
// returns the document decoded as generic JSON (possibly a legacy shape —
// normalization happens in core, not here), with ok=false on first run.
type Store interface {
	Save(ctx context.Context, state core.State) error
	Load(ctx context.Context) (raw any, ok bool, err error)
	Close() error
}
