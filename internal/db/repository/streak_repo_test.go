package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	sqlcgen "github.com/levibo0306/mentora/internal/db/sqlc"
	"github.com/levibo0306/mentora/internal/gamification"
)

type mockStreakStore struct {
	mock.Mock
}

func (m *mockStreakStore) GetStreak(ctx context.Context, userID pgtype.UUID) (sqlcgen.UserStreak, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(sqlcgen.UserStreak), args.Error(1)
}

func (m *mockStreakStore) AdvanceStreak(ctx context.Context, arg sqlcgen.AdvanceStreakParams) (sqlcgen.UserStreak, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(sqlcgen.UserStreak), args.Error(1)
}

func TestStreakRepository_GetStreakMissing(t *testing.T) {
	store := new(mockStreakStore)
	repo := NewStreakRepository(store)
	store.On("GetStreak", mock.Anything, mock.Anything).Return(sqlcgen.UserStreak{}, pgx.ErrNoRows)

	s, err := repo.GetStreak(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, gamification.Streak{}, s)
}

func TestStreakRepository_AdvanceStreak(t *testing.T) {
	store := new(mockStreakStore)
	repo := NewStreakRepository(store)
	userID := uuidFromByte(7)
	today := testDate(t, "2026-03-02")

	store.On("AdvanceStreak", mock.Anything, sqlcgen.AdvanceStreakParams{
		UserID:    userID,
		Today:     today,
		Yesterday: testDate(t, "2026-03-01"),
	}).Return(sqlcgen.UserStreak{UserID: userID, CurrentStreak: 4, LastActiveDate: today}, nil)

	s, err := repo.AdvanceStreak(context.Background(), uuid.UUID(userID.Bytes), "2026-03-02", "2026-03-01")
	require.NoError(t, err)
	assert.Equal(t, gamification.Streak{Current: 4, LastActive: "2026-03-02"}, s)
}

func TestStreakRepository_AdvanceStreakRejectsBadDay(t *testing.T) {
	repo := NewStreakRepository(new(mockStreakStore))
	_, err := repo.AdvanceStreak(context.Background(), uuid.New(), "2026-03-02", "")
	assert.Error(t, err)
}
