package leaderboard

import (
	"context"
	"time"
)

// Snapshot is a persisted copy of one window's top entries.
type Snapshot struct {
	Window      string
	GeneratedAt time.Time
	Entries     []Entry
	SourceHash  string
}

// SnapshotStore persists snapshots. LatestSnapshot reports false when none exist.
type SnapshotStore interface {
	InsertSnapshot(ctx context.Context, snap Snapshot) error
	LatestSnapshot(ctx context.Context, window string) (Snapshot, bool, error)
}
