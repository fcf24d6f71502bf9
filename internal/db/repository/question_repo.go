package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	sqlcgen "github.com/levibo0306/mentora/internal/db/sqlc"
	"github.com/levibo0306/mentora/internal/question"
	"github.com/levibo0306/mentora/internal/quiz"
	"github.com/levibo0306/mentora/internal/scoring"
)

type questionStore interface {
	CreateQuestion(ctx context.Context, arg sqlcgen.CreateQuestionParams) (sqlcgen.Question, error)
	ListQuestionsByQuiz(ctx context.Context, quizID pgtype.UUID) ([]sqlcgen.Question, error)
	ListAnswerKey(ctx context.Context, quizID pgtype.UUID) ([]sqlcgen.ListAnswerKeyRow, error)
	RecordQuestionOutcome(ctx context.Context, arg sqlcgen.RecordQuestionOutcomeParams) (sqlcgen.RecordQuestionOutcomeRow, error)
}

// QuestionRepository persists questions, answer keys and per-question statistics.
type QuestionRepository struct {
	store questionStore
}

func NewQuestionRepository(store questionStore) *QuestionRepository {
	return &QuestionRepository{store: store}
}

func toQuestion(q sqlcgen.Question) (question.Question, error) {
	var options []string
	if err := json.Unmarshal(q.Options, &options); err != nil {
		return question.Question{}, fmt.Errorf("decode options: %w", err)
	}
	return question.Question{
		ID:              fromPgUUID(q.ID),
		QuizID:          fromPgUUID(q.QuizID),
		Prompt:          q.Prompt,
		Options:         options,
		CorrectIndex:    int(q.CorrectIndex),
		Explanation:     fromPgText(q.Explanation),
		Difficulty:      int(q.Difficulty),
		TotalAttempts:   int(q.TotalAttempts),
		CorrectAttempts: int(q.CorrectAttempts),
		CreatedAt:       fromPgTime(q.CreatedAt),
	}, nil
}

func (r *QuestionRepository) CreateQuestion(ctx context.Context, quizID uuid.UUID, in quiz.QuestionInput) (question.Question, error) {
	options, err := json.Marshal(in.Options)
	if err != nil {
		return question.Question{}, fmt.Errorf("encode options: %w", err)
	}
	difficulty := question.DefaultDifficulty
	if in.Difficulty != nil {
		difficulty = *in.Difficulty
	}

	q, err := r.store.CreateQuestion(ctx, sqlcgen.CreateQuestionParams{
		QuizID:       pgUUID(quizID),
		Prompt:       in.Prompt,
		Options:      options,
		CorrectIndex: int32(in.CorrectIndex),
		Explanation:  pgText(in.Explanation),
		Difficulty:   int16(difficulty),
	})
	if err != nil {
		return question.Question{}, err
	}
	return toQuestion(q)
}

func (r *QuestionRepository) ListQuestions(ctx context.Context, quizID uuid.UUID) ([]question.Question, error) {
	rows, err := r.store.ListQuestionsByQuiz(ctx, pgUUID(quizID))
	if err != nil {
		return nil, err
	}
	out := make([]question.Question, 0, len(rows))
	for _, row := range rows {
		q, err := toQuestion(row)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

// ListAnswerKey returns the authoritative key used for scoring.
func (r *QuestionRepository) ListAnswerKey(ctx context.Context, quizID uuid.UUID) ([]scoring.Key, error) {
	rows, err := r.store.ListAnswerKey(ctx, pgUUID(quizID))
	if err != nil {
		return nil, err
	}
	keys := make([]scoring.Key, 0, len(rows))
	for _, row := range rows {
		keys = append(keys, scoring.Key{
			QuestionID:   fromPgUUID(row.ID),
			CorrectIndex: int(row.CorrectIndex),
			OptionCount:  int(row.OptionCount),
		})
	}
	return keys, nil
}

// RecordQuestionOutcome applies one outcome in a single conditional UPDATE.
func (r *QuestionRepository) RecordQuestionOutcome(ctx context.Context, quizID, questionID uuid.UUID, correct bool) (question.Transition, error) {
	var c int32
	if correct {
		c = 1
	}
	row, err := r.store.RecordQuestionOutcome(ctx, sqlcgen.RecordQuestionOutcomeParams{
		ID:      pgUUID(questionID),
		QuizID:  pgUUID(quizID),
		Correct: c,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return question.Transition{}, question.ErrNotFound
	}
	if err != nil {
		return question.Transition{}, err
	}
	return question.Transition{
		QuestionID:         fromPgUUID(row.ID),
		PreviousDifficulty: int(row.PreviousDifficulty),
		Stats: question.Stats{
			Difficulty:      int(row.Difficulty),
			TotalAttempts:   int(row.TotalAttempts),
			CorrectAttempts: int(row.CorrectAttempts),
		},
	}, nil
}
