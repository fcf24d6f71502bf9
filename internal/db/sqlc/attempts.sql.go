package sqlcgen

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createAttempt = `-- name: CreateAttempt :one
INSERT INTO attempts (quiz_id, user_id, answers, score)
VALUES ($1, $2, $3, $4)
RETURNING id, quiz_id, user_id, answers, score, created_at
`

type CreateAttemptParams struct {
	QuizID  pgtype.UUID `json:"quiz_id"`
	UserID  pgtype.UUID `json:"user_id"`
	Answers []byte      `json:"answers"`
	Score   int32       `json:"score"`
}

func (q *Queries) CreateAttempt(ctx context.Context, arg CreateAttemptParams) (Attempt, error) {
	row := q.db.QueryRow(ctx, createAttempt,
		arg.QuizID,
		arg.UserID,
		arg.Answers,
		arg.Score,
	)
	var i Attempt
	err := row.Scan(
		&i.ID,
		&i.QuizID,
		&i.UserID,
		&i.Answers,
		&i.Score,
		&i.CreatedAt,
	)
	return i, err
}

const getQuizAttemptSummary = `-- name: GetQuizAttemptSummary :one
SELECT COALESCE(ROUND(AVG(score)), 0)::int AS avg_score, COUNT(*)::bigint AS total_attempts
FROM attempts
WHERE quiz_id = $1
`

type GetQuizAttemptSummaryRow struct {
	AvgScore      int32 `json:"avg_score"`
	TotalAttempts int64 `json:"total_attempts"`
}

func (q *Queries) GetQuizAttemptSummary(ctx context.Context, quizID pgtype.UUID) (GetQuizAttemptSummaryRow, error) {
	row := q.db.QueryRow(ctx, getQuizAttemptSummary, quizID)
	var i GetQuizAttemptSummaryRow
	err := row.Scan(&i.AvgScore, &i.TotalAttempts)
	return i, err
}

const getUserAttemptStats = `-- name: GetUserAttemptStats :one
SELECT
    COUNT(DISTINCT quiz_id)::bigint AS quizzes_completed,
    COUNT(*)::bigint AS total_attempts,
    COALESCE(ROUND(AVG(score)), 0)::int AS avg_score,
    COUNT(*) FILTER (WHERE score = 100)::bigint AS perfect_count
FROM attempts
WHERE user_id = $1
`

type GetUserAttemptStatsRow struct {
	QuizzesCompleted int64 `json:"quizzes_completed"`
	TotalAttempts    int64 `json:"total_attempts"`
	AvgScore         int32 `json:"avg_score"`
	PerfectCount     int64 `json:"perfect_count"`
}

func (q *Queries) GetUserAttemptStats(ctx context.Context, userID pgtype.UUID) (GetUserAttemptStatsRow, error) {
	row := q.db.QueryRow(ctx, getUserAttemptStats, userID)
	var i GetUserAttemptStatsRow
	err := row.Scan(
		&i.QuizzesCompleted,
		&i.TotalAttempts,
		&i.AvgScore,
		&i.PerfectCount,
	)
	return i, err
}

const listQuizAttempts = `-- name: ListQuizAttempts :many
SELECT a.id, a.score, a.created_at, u.email AS student_email
FROM attempts a
LEFT JOIN users u ON a.user_id = u.id
WHERE a.quiz_id = $1
ORDER BY a.created_at DESC
`

type ListQuizAttemptsRow struct {
	ID           pgtype.UUID        `json:"id"`
	Score        int32              `json:"score"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
	StudentEmail pgtype.Text        `json:"student_email"`
}

func (q *Queries) ListQuizAttempts(ctx context.Context, quizID pgtype.UUID) ([]ListQuizAttemptsRow, error) {
	rows, err := q.db.Query(ctx, listQuizAttempts, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListQuizAttemptsRow
	for rows.Next() {
		var i ListQuizAttemptsRow
		if err := rows.Scan(
			&i.ID,
			&i.Score,
			&i.CreatedAt,
			&i.StudentEmail,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
