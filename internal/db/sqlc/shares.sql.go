package sqlcgen

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createQuizShare = `-- name: CreateQuizShare :one
INSERT INTO quiz_shares (quiz_id, token, recipient_id, shared_by, allow_reshare, parent_share_id)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, quiz_id, token, recipient_id, shared_by, allow_reshare, parent_share_id, created_at
`

type CreateQuizShareParams struct {
	QuizID        pgtype.UUID `json:"quiz_id"`
	Token         string      `json:"token"`
	RecipientID   pgtype.UUID `json:"recipient_id"`
	SharedBy      pgtype.UUID `json:"shared_by"`
	AllowReshare  bool        `json:"allow_reshare"`
	ParentShareID pgtype.UUID `json:"parent_share_id"`
}

func (q *Queries) CreateQuizShare(ctx context.Context, arg CreateQuizShareParams) (QuizShare, error) {
	row := q.db.QueryRow(ctx, createQuizShare,
		arg.QuizID,
		arg.Token,
		arg.RecipientID,
		arg.SharedBy,
		arg.AllowReshare,
		arg.ParentShareID,
	)
	var i QuizShare
	err := row.Scan(
		&i.ID,
		&i.QuizID,
		&i.Token,
		&i.RecipientID,
		&i.SharedBy,
		&i.AllowReshare,
		&i.ParentShareID,
		&i.CreatedAt,
	)
	return i, err
}

const getQuizShareByToken = `-- name: GetQuizShareByToken :one
SELECT id, quiz_id, token, recipient_id, shared_by, allow_reshare, parent_share_id, created_at
FROM quiz_shares
WHERE token = $1
`

func (q *Queries) GetQuizShareByToken(ctx context.Context, token string) (QuizShare, error) {
	row := q.db.QueryRow(ctx, getQuizShareByToken, token)
	var i QuizShare
	err := row.Scan(
		&i.ID,
		&i.QuizID,
		&i.Token,
		&i.RecipientID,
		&i.SharedBy,
		&i.AllowReshare,
		&i.ParentShareID,
		&i.CreatedAt,
	)
	return i, err
}
