package sqlcgen

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const advanceStreak = `-- name: AdvanceStreak :one
INSERT INTO user_streaks (user_id, current_streak, last_active_date)
VALUES ($1, 1, $2)
ON CONFLICT (user_id) DO UPDATE
SET current_streak = CASE
        WHEN user_streaks.last_active_date = EXCLUDED.last_active_date THEN user_streaks.current_streak
        WHEN user_streaks.last_active_date = $3::date THEN user_streaks.current_streak + 1
        ELSE 1
    END,
    last_active_date = EXCLUDED.last_active_date
RETURNING user_id, current_streak, last_active_date
`

type AdvanceStreakParams struct {
	UserID    pgtype.UUID `json:"user_id"`
	Today     pgtype.Date `json:"today"`
	Yesterday pgtype.Date `json:"yesterday"`
}

func (q *Queries) AdvanceStreak(ctx context.Context, arg AdvanceStreakParams) (UserStreak, error) {
	row := q.db.QueryRow(ctx, advanceStreak, arg.UserID, arg.Today, arg.Yesterday)
	var i UserStreak
	err := row.Scan(&i.UserID, &i.CurrentStreak, &i.LastActiveDate)
	return i, err
}

const getStreak = `-- name: GetStreak :one
SELECT user_id, current_streak, last_active_date
FROM user_streaks
WHERE user_id = $1
`

func (q *Queries) GetStreak(ctx context.Context, userID pgtype.UUID) (UserStreak, error) {
	row := q.db.QueryRow(ctx, getStreak, userID)
	var i UserStreak
	err := row.Scan(&i.UserID, &i.CurrentStreak, &i.LastActiveDate)
	return i, err
}
