package sqlcgen

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createQuiz = `-- name: CreateQuiz :one
INSERT INTO quizzes (owner_id, title, description, mode)
VALUES ($1, $2, $3, COALESCE($4::text, 'practice'))
RETURNING id, owner_id, title, description, mode, created_at, updated_at
`

type CreateQuizParams struct {
	OwnerID     pgtype.UUID `json:"owner_id"`
	Title       string      `json:"title"`
	Description pgtype.Text `json:"description"`
	Mode        pgtype.Text `json:"mode"`
}

func (q *Queries) CreateQuiz(ctx context.Context, arg CreateQuizParams) (Quiz, error) {
	row := q.db.QueryRow(ctx, createQuiz,
		arg.OwnerID,
		arg.Title,
		arg.Description,
		arg.Mode,
	)
	var i Quiz
	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.Title,
		&i.Description,
		&i.Mode,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const deleteQuiz = `-- name: DeleteQuiz :execrows
DELETE FROM quizzes WHERE id = $1 AND owner_id = $2
`

type DeleteQuizParams struct {
	ID      pgtype.UUID `json:"id"`
	OwnerID pgtype.UUID `json:"owner_id"`
}

func (q *Queries) DeleteQuiz(ctx context.Context, arg DeleteQuizParams) (int64, error) {
	result, err := q.db.Exec(ctx, deleteQuiz, arg.ID, arg.OwnerID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getQuiz = `-- name: GetQuiz :one
SELECT id, owner_id, title, description, mode, created_at, updated_at
FROM quizzes
WHERE id = $1
`

func (q *Queries) GetQuiz(ctx context.Context, id pgtype.UUID) (Quiz, error) {
	row := q.db.QueryRow(ctx, getQuiz, id)
	var i Quiz
	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.Title,
		&i.Description,
		&i.Mode,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getTeacherStats = `-- name: GetTeacherStats :one
SELECT
    COUNT(DISTINCT q.id)::bigint AS active_quizzes,
    COUNT(DISTINCT a.user_id)::bigint AS total_students,
    COUNT(a.id)::bigint AS total_attempts,
    COALESCE(ROUND(AVG(a.score)), 0)::int AS avg_score
FROM quizzes q
LEFT JOIN attempts a ON a.quiz_id = q.id
WHERE q.owner_id = $1
`

type GetTeacherStatsRow struct {
	ActiveQuizzes int64 `json:"active_quizzes"`
	TotalStudents int64 `json:"total_students"`
	TotalAttempts int64 `json:"total_attempts"`
	AvgScore      int32 `json:"avg_score"`
}

func (q *Queries) GetTeacherStats(ctx context.Context, ownerID pgtype.UUID) (GetTeacherStatsRow, error) {
	row := q.db.QueryRow(ctx, getTeacherStats, ownerID)
	var i GetTeacherStatsRow
	err := row.Scan(
		&i.ActiveQuizzes,
		&i.TotalStudents,
		&i.TotalAttempts,
		&i.AvgScore,
	)
	return i, err
}

const listQuizzesForUser = `-- name: ListQuizzesForUser :many
SELECT
    q.id, q.owner_id, q.title, q.description, q.mode, q.created_at, q.updated_at,
    (SELECT COUNT(*) FROM questions WHERE quiz_id = q.id)::bigint AS question_count,
    (SELECT COUNT(*) FROM attempts WHERE quiz_id = q.id)::bigint AS total_attempts,
    (SELECT AVG(difficulty) FROM questions WHERE quiz_id = q.id)::float8 AS avg_difficulty
FROM quizzes q
WHERE q.owner_id = $1 OR q.owner_id IS NULL
ORDER BY q.created_at DESC
`

type ListQuizzesForUserRow struct {
	ID            pgtype.UUID        `json:"id"`
	OwnerID       pgtype.UUID        `json:"owner_id"`
	Title         string             `json:"title"`
	Description   pgtype.Text        `json:"description"`
	Mode          string             `json:"mode"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
	QuestionCount int64              `json:"question_count"`
	TotalAttempts int64              `json:"total_attempts"`
	AvgDifficulty pgtype.Float8      `json:"avg_difficulty"`
}

func (q *Queries) ListQuizzesForUser(ctx context.Context, userID pgtype.UUID) ([]ListQuizzesForUserRow, error) {
	rows, err := q.db.Query(ctx, listQuizzesForUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListQuizzesForUserRow
	for rows.Next() {
		var i ListQuizzesForUserRow
		if err := rows.Scan(
			&i.ID,
			&i.OwnerID,
			&i.Title,
			&i.Description,
			&i.Mode,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.QuestionCount,
			&i.TotalAttempts,
			&i.AvgDifficulty,
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

const updateQuiz = `-- name: UpdateQuiz :one
UPDATE quizzes
SET title = COALESCE($3, title),
    description = COALESCE($4, description),
    mode = COALESCE($5, mode),
    updated_at = now()
WHERE id = $1 AND owner_id = $2
RETURNING id, owner_id, title, description, mode, created_at, updated_at
`

type UpdateQuizParams struct {
	ID          pgtype.UUID `json:"id"`
	OwnerID     pgtype.UUID `json:"owner_id"`
	Title       pgtype.Text `json:"title"`
	Description pgtype.Text `json:"description"`
	Mode        pgtype.Text `json:"mode"`
}

func (q *Queries) UpdateQuiz(ctx context.Context, arg UpdateQuizParams) (Quiz, error) {
	row := q.db.QueryRow(ctx, updateQuiz,
		arg.ID,
		arg.OwnerID,
		arg.Title,
		arg.Description,
		arg.Mode,
	)
	var i Quiz
	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.Title,
		&i.Description,
		&i.Mode,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
