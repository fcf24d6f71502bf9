package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	sqlcgen "github.com/levibo0306/mentora/internal/db/sqlc"
	"github.com/levibo0306/mentora/internal/leaderboard"
)

type mockSnapshotStore struct {
	mock.Mock
}

func (m *mockSnapshotStore) InsertLeaderboardSnapshot(ctx context.Context, arg sqlcgen.InsertLeaderboardSnapshotParams) (sqlcgen.LeaderboardSnapshot, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(sqlcgen.LeaderboardSnapshot), args.Error(1)
}

func (m *mockSnapshotStore) ListRecentSnapshots(ctx context.Context, arg sqlcgen.ListRecentSnapshotsParams) ([]sqlcgen.LeaderboardSnapshot, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]sqlcgen.LeaderboardSnapshot), args.Error(1)
}

func TestSnapshotRepository_RoundTrip(t *testing.T) {
	store := new(mockSnapshotStore)
	repo := NewSnapshotRepository(store)
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	entries := []leaderboard.Entry{{Rank: 1, UserID: uuid.New(), Email: "a@b.hu", XP: 90}}

	var saved sqlcgen.InsertLeaderboardSnapshotParams
	store.On("InsertLeaderboardSnapshot", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(1).(sqlcgen.InsertLeaderboardSnapshotParams) }).
		Return(sqlcgen.LeaderboardSnapshot{}, nil)

	require.NoError(t, repo.InsertSnapshot(context.Background(), leaderboard.Snapshot{
		Window:      leaderboard.WindowWeekly,
		GeneratedAt: now,
		Entries:     entries,
		SourceHash:  "abc",
	}))
	assert.Equal(t, "weekly", saved.TimeWindow)
	assert.True(t, saved.GeneratedAt.Valid)

	store.On("ListRecentSnapshots", mock.Anything, sqlcgen.ListRecentSnapshotsParams{TimeWindow: "weekly", Limit: 1}).
		Return([]sqlcgen.LeaderboardSnapshot{{
			ID:          3,
			TimeWindow:  "weekly",
			GeneratedAt: saved.GeneratedAt,
			Entries:     saved.Entries,
			SourceHash:  saved.SourceHash,
		}}, nil)

	snap, ok, err := repo.LatestSnapshot(context.Background(), "weekly")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entries, snap.Entries)
	assert.Equal(t, now, snap.GeneratedAt)
}

func TestSnapshotRepository_LatestSnapshotMissing(t *testing.T) {
	store := new(mockSnapshotStore)
	repo := NewSnapshotRepository(store)
	store.On("ListRecentSnapshots", mock.Anything, mock.Anything).Return([]sqlcgen.LeaderboardSnapshot{}, nil)

	_, ok, err := repo.LatestSnapshot(context.Background(), "daily")
	require.NoError(t, err)
	assert.False(t, ok)
}
