package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/levibo0306/mentora/internal/attempt"
	sqlcgen "github.com/levibo0306/mentora/internal/db/sqlc"
)

type attemptStore interface {
	CreateAttempt(ctx context.Context, arg sqlcgen.CreateAttemptParams) (sqlcgen.Attempt, error)
}

// AttemptRepository persists scored attempts.
type AttemptRepository struct {
	store attemptStore
}

func NewAttemptRepository(store attemptStore) *AttemptRepository {
	return &AttemptRepository{store: store}
}

// CreateAttempt stores rec; answers are kept as a question-id keyed JSON object.
func (r *AttemptRepository) CreateAttempt(ctx context.Context, rec attempt.Record) (attempt.Record, error) {
	answers := make(map[string]int, len(rec.Answers))
	for id, idx := range rec.Answers {
		answers[id.String()] = idx
	}
	payload, err := json.Marshal(answers)
	if err != nil {
		return attempt.Record{}, fmt.Errorf("encode answers: %w", err)
	}

	row, err := r.store.CreateAttempt(ctx, sqlcgen.CreateAttemptParams{
		QuizID:  pgUUID(rec.QuizID),
		UserID:  pgUUIDPtr(rec.UserID),
		Answers: payload,
		Score:   int32(rec.Score),
	})
	if err != nil {
		return attempt.Record{}, err
	}

	rec.ID = fromPgUUID(row.ID)
	rec.CreatedAt = fromPgTime(row.CreatedAt)
	return rec, nil
}
