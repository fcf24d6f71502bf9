package sqlcgen

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createQuestion = `-- name: CreateQuestion :one
INSERT INTO questions (quiz_id, prompt, options, correct_index, explanation, difficulty)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, quiz_id, prompt, options, correct_index, explanation, difficulty, total_attempts, correct_attempts, created_at
`

type CreateQuestionParams struct {
	QuizID       pgtype.UUID `json:"quiz_id"`
	Prompt       string      `json:"prompt"`
	Options      []byte      `json:"options"`
	CorrectIndex int32       `json:"correct_index"`
	Explanation  pgtype.Text `json:"explanation"`
	Difficulty   int16       `json:"difficulty"`
}

func (q *Queries) CreateQuestion(ctx context.Context, arg CreateQuestionParams) (Question, error) {
	row := q.db.QueryRow(ctx, createQuestion,
		arg.QuizID,
		arg.Prompt,
		arg.Options,
		arg.CorrectIndex,
		arg.Explanation,
		arg.Difficulty,
	)
	var i Question
	err := row.Scan(
		&i.ID,
		&i.QuizID,
		&i.Prompt,
		&i.Options,
		&i.CorrectIndex,
		&i.Explanation,
		&i.Difficulty,
		&i.TotalAttempts,
		&i.CorrectAttempts,
		&i.CreatedAt,
	)
	return i, err
}

const listAnswerKey = `-- name: ListAnswerKey :many
SELECT id, correct_index, jsonb_array_length(options)::int AS option_count
FROM questions
WHERE quiz_id = $1
ORDER BY created_at, id
`

type ListAnswerKeyRow struct {
	ID           pgtype.UUID `json:"id"`
	CorrectIndex int32       `json:"correct_index"`
	OptionCount  int32       `json:"option_count"`
}

func (q *Queries) ListAnswerKey(ctx context.Context, quizID pgtype.UUID) ([]ListAnswerKeyRow, error) {
	rows, err := q.db.Query(ctx, listAnswerKey, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListAnswerKeyRow
	for rows.Next() {
		var i ListAnswerKeyRow
		if err := rows.Scan(&i.ID, &i.CorrectIndex, &i.OptionCount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listQuestionsByQuiz = `-- name: ListQuestionsByQuiz :many
SELECT id, quiz_id, prompt, options, correct_index, explanation, difficulty, total_attempts, correct_attempts, created_at
FROM questions
WHERE quiz_id = $1
ORDER BY created_at, id
`

func (q *Queries) ListQuestionsByQuiz(ctx context.Context, quizID pgtype.UUID) ([]Question, error) {
	rows, err := q.db.Query(ctx, listQuestionsByQuiz, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Question
	for rows.Next() {
		var i Question
		if err := rows.Scan(
			&i.ID,
			&i.QuizID,
			&i.Prompt,
			&i.Options,
			&i.CorrectIndex,
			&i.Explanation,
			&i.Difficulty,
			&i.TotalAttempts,
			&i.CorrectAttempts,
			&i.CreatedAt,
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

const recordQuestionOutcome = `-- name: RecordQuestionOutcome :one
WITH prev AS (
    SELECT id, difficulty FROM questions
    WHERE id = $1 AND quiz_id = $2
    FOR UPDATE
)
UPDATE questions q
SET total_attempts = q.total_attempts + 1,
    correct_attempts = q.correct_attempts + $3::int,
    difficulty = CASE
        WHEN q.total_attempts + 1 >= 5
             AND (q.correct_attempts + $3::int)::float8 / (q.total_attempts + 1) > 0.8
            THEN GREATEST(1, q.difficulty - 1)
        WHEN q.total_attempts + 1 >= 5
             AND (q.correct_attempts + $3::int)::float8 / (q.total_attempts + 1) < 0.2
            THEN LEAST(5, q.difficulty + 1)
        ELSE q.difficulty
    END
FROM prev
WHERE q.id = prev.id
RETURNING q.id, prev.difficulty AS previous_difficulty, q.difficulty, q.total_attempts, q.correct_attempts
`

type RecordQuestionOutcomeParams struct {
	ID      pgtype.UUID `json:"id"`
	QuizID  pgtype.UUID `json:"quiz_id"`
	Correct int32       `json:"correct"`
}

type RecordQuestionOutcomeRow struct {
	ID                 pgtype.UUID `json:"id"`
	PreviousDifficulty int16       `json:"previous_difficulty"`
	Difficulty         int16       `json:"difficulty"`
	TotalAttempts      int32       `json:"total_attempts"`
	CorrectAttempts    int32       `json:"correct_attempts"`
}

func (q *Queries) RecordQuestionOutcome(ctx context.Context, arg RecordQuestionOutcomeParams) (RecordQuestionOutcomeRow, error) {
	row := q.db.QueryRow(ctx, recordQuestionOutcome, arg.ID, arg.QuizID, arg.Correct)
	var i RecordQuestionOutcomeRow
	err := row.Scan(
		&i.ID,
		&i.PreviousDifficulty,
		&i.Difficulty,
		&i.TotalAttempts,
		&i.CorrectAttempts,
	)
	return i, err
}
