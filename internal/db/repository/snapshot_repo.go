package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	sqlcgen "github.com/levibo0306/mentora/internal/db/sqlc"
	"github.com/levibo0306/mentora/internal/leaderboard"
)

type snapshotStore interface {
	InsertLeaderboardSnapshot(ctx context.Context, arg sqlcgen.InsertLeaderboardSnapshotParams) (sqlcgen.LeaderboardSnapshot, error)
	ListRecentSnapshots(ctx context.Context, arg sqlcgen.ListRecentSnapshotsParams) ([]sqlcgen.LeaderboardSnapshot, error)
}

// SnapshotRepository implements leaderboard.SnapshotStore.
type SnapshotRepository struct {
	store snapshotStore
}

func NewSnapshotRepository(store snapshotStore) *SnapshotRepository {
	return &SnapshotRepository{store: store}
}

func (r *SnapshotRepository) InsertSnapshot(ctx context.Context, snap leaderboard.Snapshot) error {
	data, err := json.Marshal(snap.Entries)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = r.store.InsertLeaderboardSnapshot(ctx, sqlcgen.InsertLeaderboardSnapshotParams{
		TimeWindow:  snap.Window,
		GeneratedAt: pgtype.Timestamptz{Time: snap.GeneratedAt, Valid: true},
		Entries:     data,
		SourceHash:  snap.SourceHash,
	})
	return err
}

func (r *SnapshotRepository) LatestSnapshot(ctx context.Context, window string) (leaderboard.Snapshot, bool, error) {
	rows, err := r.store.ListRecentSnapshots(ctx, sqlcgen.ListRecentSnapshotsParams{
		TimeWindow: window,
		Limit:      1,
	})
	if err != nil {
		return leaderboard.Snapshot{}, false, err
	}
	if len(rows) == 0 {
		return leaderboard.Snapshot{}, false, nil
	}

	var entries []leaderboard.Entry
	if err := json.Unmarshal(rows[0].Entries, &entries); err != nil {
		return leaderboard.Snapshot{}, false, fmt.Errorf("decode snapshot %d: %w", rows[0].ID, err)
	}
	return leaderboard.Snapshot{
		Window:      rows[0].TimeWindow,
		GeneratedAt: fromPgTime(rows[0].GeneratedAt),
		Entries:     entries,
		SourceHash:  rows[0].SourceHash,
	}, true, nil
}
