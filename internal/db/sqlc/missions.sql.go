package sqlcgen

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const applyMissionProgress = `-- name: ApplyMissionProgress :one
UPDATE daily_missions
SET progress = LEAST(target, GREATEST(progress + $2::int, $3::int)),
    completed_at = CASE
        WHEN LEAST(target, GREATEST(progress + $2::int, $3::int)) >= target THEN now()
        ELSE NULL
    END
WHERE id = $1
  AND completed_at IS NULL
  AND LEAST(target, GREATEST(progress + $2::int, $3::int)) > progress
RETURNING id, user_id, date, slot, mission_id, title, description, type, target, threshold, difficulty, xp_reward, progress, completed_at, created_at
`

type ApplyMissionProgressParams struct {
	ID    pgtype.UUID `json:"id"`
	Delta int32       `json:"delta"`
	Floor int32       `json:"floor"`
}

func (q *Queries) ApplyMissionProgress(ctx context.Context, arg ApplyMissionProgressParams) (DailyMission, error) {
	row := q.db.QueryRow(ctx, applyMissionProgress, arg.ID, arg.Delta, arg.Floor)
	var i DailyMission
	err := scanDailyMission(row, &i)
	return i, err
}

const claimMissionSet = `-- name: ClaimMissionSet :one
INSERT INTO daily_mission_sets (user_id, date)
VALUES ($1, $2)
ON CONFLICT (user_id, date) DO NOTHING
RETURNING user_id
`

type ClaimMissionSetParams struct {
	UserID pgtype.UUID `json:"user_id"`
	Date   pgtype.Date `json:"date"`
}

func (q *Queries) ClaimMissionSet(ctx context.Context, arg ClaimMissionSetParams) (pgtype.UUID, error) {
	row := q.db.QueryRow(ctx, claimMissionSet, arg.UserID, arg.Date)
	var userID pgtype.UUID
	err := row.Scan(&userID)
	return userID, err
}

const createDailyMission = `-- name: CreateDailyMission :one
INSERT INTO daily_missions (user_id, date, slot, mission_id, title, description, type, target, threshold, difficulty, xp_reward)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING id, user_id, date, slot, mission_id, title, description, type, target, threshold, difficulty, xp_reward, progress, completed_at, created_at
`

type CreateDailyMissionParams struct {
	UserID      pgtype.UUID `json:"user_id"`
	Date        pgtype.Date `json:"date"`
	Slot        int16       `json:"slot"`
	MissionID   string      `json:"mission_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Type        string      `json:"type"`
	Target      int32       `json:"target"`
	Threshold   pgtype.Int4 `json:"threshold"`
	Difficulty  string      `json:"difficulty"`
	XpReward    int32       `json:"xp_reward"`
}

func (q *Queries) CreateDailyMission(ctx context.Context, arg CreateDailyMissionParams) (DailyMission, error) {
	row := q.db.QueryRow(ctx, createDailyMission,
		arg.UserID,
		arg.Date,
		arg.Slot,
		arg.MissionID,
		arg.Title,
		arg.Description,
		arg.Type,
		arg.Target,
		arg.Threshold,
		arg.Difficulty,
		arg.XpReward,
	)
	var i DailyMission
	err := scanDailyMission(row, &i)
	return i, err
}

const listMissionsForDay = `-- name: ListMissionsForDay :many
SELECT id, user_id, date, slot, mission_id, title, description, type, target, threshold, difficulty, xp_reward, progress, completed_at, created_at
FROM daily_missions
WHERE user_id = $1 AND date = $2
ORDER BY slot
`

type ListMissionsForDayParams struct {
	UserID pgtype.UUID `json:"user_id"`
	Date   pgtype.Date `json:"date"`
}

func (q *Queries) ListMissionsForDay(ctx context.Context, arg ListMissionsForDayParams) ([]DailyMission, error) {
	rows, err := q.db.Query(ctx, listMissionsForDay, arg.UserID, arg.Date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DailyMission
	for rows.Next() {
		var i DailyMission
		if err := scanDailyMission(rows, &i); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listRecentMissions = `-- name: ListRecentMissions :many
SELECT id, user_id, date, slot, mission_id, title, description, type, target, threshold, difficulty, xp_reward, progress, completed_at, created_at
FROM daily_missions
WHERE user_id = $1
ORDER BY date DESC, slot ASC
LIMIT $2
`

type ListRecentMissionsParams struct {
	UserID pgtype.UUID `json:"user_id"`
	Limit  int32       `json:"limit"`
}

func (q *Queries) ListRecentMissions(ctx context.Context, arg ListRecentMissionsParams) ([]DailyMission, error) {
	rows, err := q.db.Query(ctx, listRecentMissions, arg.UserID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DailyMission
	for rows.Next() {
		var i DailyMission
		if err := scanDailyMission(rows, &i); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanDailyMission(row scanner, i *DailyMission) error {
	return row.Scan(
		&i.ID,
		&i.UserID,
		&i.Date,
		&i.Slot,
		&i.MissionID,
		&i.Title,
		&i.Description,
		&i.Type,
		&i.Target,
		&i.Threshold,
		&i.Difficulty,
		&i.XpReward,
		&i.Progress,
		&i.CompletedAt,
		&i.CreatedAt,
	)
}
