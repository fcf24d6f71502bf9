package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	sqlcgen "github.com/levibo0306/mentora/internal/db/sqlc"
	"github.com/levibo0306/mentora/internal/gamification"
)

type streakStore interface {
	GetStreak(ctx context.Context, userID pgtype.UUID) (sqlcgen.UserStreak, error)
	AdvanceStreak(ctx context.Context, arg sqlcgen.AdvanceStreakParams) (sqlcgen.UserStreak, error)
}

// StreakRepository implements gamification.StreakStore.
type StreakRepository struct {
	store streakStore
}

func NewStreakRepository(store streakStore) *StreakRepository {
	return &StreakRepository{store: store}
}

func toStreak(s sqlcgen.UserStreak) gamification.Streak {
	return gamification.Streak{
		Current:    int(s.CurrentStreak),
		LastActive: fromPgDate(s.LastActiveDate),
	}
}

// GetStreak returns the zero Streak for users without activity.
func (r *StreakRepository) GetStreak(ctx context.Context, userID uuid.UUID) (gamification.Streak, error) {
	row, err := r.store.GetStreak(ctx, pgUUID(userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return gamification.Streak{}, nil
	}
	if err != nil {
		return gamification.Streak{}, err
	}
	return toStreak(row), nil
}

func (r *StreakRepository) AdvanceStreak(ctx context.Context, userID uuid.UUID, today, yesterday string) (gamification.Streak, error) {
	todayDate, err := pgDate(today)
	if err != nil {
		return gamification.Streak{}, err
	}
	yesterdayDate, err := pgDate(yesterday)
	if err != nil {
		return gamification.Streak{}, err
	}

	row, err := r.store.AdvanceStreak(ctx, sqlcgen.AdvanceStreakParams{
		UserID:    pgUUID(userID),
		Today:     todayDate,
		Yesterday: yesterdayDate,
	})
	if err != nil {
		return gamification.Streak{}, err
	}
	return toStreak(row), nil
}
