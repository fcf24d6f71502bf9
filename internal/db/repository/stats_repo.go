package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/levibo0306/mentora/internal/dashboard"
	sqlcgen "github.com/levibo0306/mentora/internal/db/sqlc"
)

type statsStore interface {
	GetUserAttemptStats(ctx context.Context, userID pgtype.UUID) (sqlcgen.GetUserAttemptStatsRow, error)
	GetTeacherStats(ctx context.Context, ownerID pgtype.UUID) (sqlcgen.GetTeacherStatsRow, error)
	GetUserXP(ctx context.Context, id pgtype.UUID) (int32, error)
}

// StatsRepository implements dashboard.Store.
type StatsRepository struct {
	store statsStore
}

func NewStatsRepository(store statsStore) *StatsRepository {
	return &StatsRepository{store: store}
}

func (r *StatsRepository) UserAttemptStats(ctx context.Context, userID uuid.UUID) (dashboard.AttemptStats, error) {
	row, err := r.store.GetUserAttemptStats(ctx, pgUUID(userID))
	if err != nil {
		return dashboard.AttemptStats{}, err
	}
	return dashboard.AttemptStats{
		QuizzesCompleted: int(row.QuizzesCompleted),
		TotalAttempts:    int(row.TotalAttempts),
		AvgScore:         int(row.AvgScore),
		PerfectCount:     int(row.PerfectCount),
	}, nil
}

func (r *StatsRepository) TeacherStats(ctx context.Context, ownerID uuid.UUID) (dashboard.TeacherStats, error) {
	row, err := r.store.GetTeacherStats(ctx, pgUUID(ownerID))
	if err != nil {
		return dashboard.TeacherStats{}, err
	}
	return dashboard.TeacherStats{
		ActiveQuizzes: int(row.ActiveQuizzes),
		TotalStudents: int(row.TotalStudents),
		TotalAttempts: int(row.TotalAttempts),
		AvgScore:      int(row.AvgScore),
	}, nil
}

func (r *StatsRepository) GetUserXP(ctx context.Context, userID uuid.UUID) (int, error) {
	xp, err := r.store.GetUserXP(ctx, pgUUID(userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return int(xp), nil
}
