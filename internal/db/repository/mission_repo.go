package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	sqlcgen "github.com/levibo0306/mentora/internal/db/sqlc"
	"github.com/levibo0306/mentora/internal/gamification"
)

type missionStore interface {
	GetUserXP(ctx context.Context, id pgtype.UUID) (int32, error)
	ListMissionsForDay(ctx context.Context, arg sqlcgen.ListMissionsForDayParams) ([]sqlcgen.DailyMission, error)
	ListRecentMissions(ctx context.Context, arg sqlcgen.ListRecentMissionsParams) ([]sqlcgen.DailyMission, error)
	ApplyMissionProgress(ctx context.Context, arg sqlcgen.ApplyMissionProgressParams) (sqlcgen.DailyMission, error)
	ClaimMissionSet(ctx context.Context, arg sqlcgen.ClaimMissionSetParams) (pgtype.UUID, error)
	CreateDailyMission(ctx context.Context, arg sqlcgen.CreateDailyMissionParams) (sqlcgen.DailyMission, error)
}

// TxBeginner starts transactions; satisfied by *pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// MissionRepository implements gamification.MissionStore.
type MissionRepository struct {
	store missionStore
	inTx  func(ctx context.Context, fn func(missionStore) error) error
}

// NewMissionRepository runs mission-set creation inside a pool transaction.
func NewMissionRepository(q *sqlcgen.Queries, pool TxBeginner) *MissionRepository {
	return &MissionRepository{
		store: q,
		inTx: func(ctx context.Context, fn func(missionStore) error) error {
			return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
				return fn(q.WithTx(tx))
			})
		},
	}
}

func newMissionRepositoryWithStore(store missionStore) *MissionRepository {
	return &MissionRepository{
		store: store,
		inTx: func(_ context.Context, fn func(missionStore) error) error {
			return fn(store)
		},
	}
}

func toMission(m sqlcgen.DailyMission) gamification.Mission {
	return gamification.Mission{
		ID:          fromPgUUID(m.ID),
		UserID:      fromPgUUID(m.UserID),
		Date:        fromPgDate(m.Date),
		Slot:        int(m.Slot),
		TemplateID:  m.MissionID,
		Title:       m.Title,
		Description: m.Description,
		Type:        gamification.MissionType(m.Type),
		Target:      int(m.Target),
		Threshold:   fromPgInt4Ptr(m.Threshold),
		Tier:        gamification.Tier(m.Difficulty),
		XPReward:    int(m.XpReward),
		Progress:    int(m.Progress),
		CompletedAt: fromPgTimePtr(m.CompletedAt),
		CreatedAt:   fromPgTime(m.CreatedAt),
	}
}

func toMissions(rows []sqlcgen.DailyMission) []gamification.Mission {
	out := make([]gamification.Mission, 0, len(rows))
	for _, row := range rows {
		out = append(out, toMission(row))
	}
	return out
}

func (r *MissionRepository) GetUserXP(ctx context.Context, userID uuid.UUID) (int, error) {
	xp, err := r.store.GetUserXP(ctx, pgUUID(userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return int(xp), nil
}

func (r *MissionRepository) ListMissionsForDay(ctx context.Context, userID uuid.UUID, day string) ([]gamification.Mission, error) {
	date, err := pgDate(day)
	if err != nil {
		return nil, err
	}
	rows, err := r.store.ListMissionsForDay(ctx, sqlcgen.ListMissionsForDayParams{
		UserID: pgUUID(userID),
		Date:   date,
	})
	if err != nil {
		return nil, err
	}
	return toMissions(rows), nil
}

// CreateMissionSet claims (user, day) and inserts missions in one transaction.
// It returns false without inserting when another request already claimed the day.
func (r *MissionRepository) CreateMissionSet(ctx context.Context, userID uuid.UUID, day string, missions []gamification.Mission) (bool, error) {
	date, err := pgDate(day)
	if err != nil {
		return false, err
	}

	created := false
	err = r.inTx(ctx, func(store missionStore) error {
		_, err := store.ClaimMissionSet(ctx, sqlcgen.ClaimMissionSetParams{
			UserID: pgUUID(userID),
			Date:   date,
		})
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("claim mission set: %w", err)
		}

		for _, m := range missions {
			if _, err := store.CreateDailyMission(ctx, sqlcgen.CreateDailyMissionParams{
				UserID:      pgUUID(userID),
				Date:        date,
				Slot:        int16(m.Slot),
				MissionID:   m.TemplateID,
				Title:       m.Title,
				Description: m.Description,
				Type:        string(m.Type),
				Target:      int32(m.Target),
				Threshold:   pgInt4Ptr(m.Threshold),
				Difficulty:  string(m.Tier),
				XpReward:    int32(m.XPReward),
			}); err != nil {
				return fmt.Errorf("insert mission slot %d: %w", m.Slot, err)
			}
		}
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

// ApplyMissionProgress reports changed=false when the conditional update matched no row.
func (r *MissionRepository) ApplyMissionProgress(ctx context.Context, missionID uuid.UUID, update gamification.ProgressUpdate) (gamification.Mission, bool, error) {
	row, err := r.store.ApplyMissionProgress(ctx, sqlcgen.ApplyMissionProgressParams{
		ID:    pgUUID(missionID),
		Delta: int32(update.Delta),
		Floor: int32(update.Floor),
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return gamification.Mission{}, false, nil
	}
	if err != nil {
		return gamification.Mission{}, false, err
	}
	return toMission(row), true, nil
}

func (r *MissionRepository) ListRecentMissions(ctx context.Context, userID uuid.UUID, limit int) ([]gamification.Mission, error) {
	rows, err := r.store.ListRecentMissions(ctx, sqlcgen.ListRecentMissionsParams{
		UserID: pgUUID(userID),
		Limit:  int32(limit),
	})
	if err != nil {
		return nil, err
	}
	return toMissions(rows), nil
}
