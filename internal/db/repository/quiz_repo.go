package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	sqlcgen "github.com/levibo0306/mentora/internal/db/sqlc"
	"github.com/levibo0306/mentora/internal/quiz"
)

type quizStore interface {
	ListQuizzesForUser(ctx context.Context, userID pgtype.UUID) ([]sqlcgen.ListQuizzesForUserRow, error)
	GetQuiz(ctx context.Context, id pgtype.UUID) (sqlcgen.Quiz, error)
	CreateQuiz(ctx context.Context, arg sqlcgen.CreateQuizParams) (sqlcgen.Quiz, error)
	UpdateQuiz(ctx context.Context, arg sqlcgen.UpdateQuizParams) (sqlcgen.Quiz, error)
	DeleteQuiz(ctx context.Context, arg sqlcgen.DeleteQuizParams) (int64, error)
	ListQuizAttempts(ctx context.Context, quizID pgtype.UUID) ([]sqlcgen.ListQuizAttemptsRow, error)
	GetQuizAttemptSummary(ctx context.Context, quizID pgtype.UUID) (sqlcgen.GetQuizAttemptSummaryRow, error)
	CreateQuizShare(ctx context.Context, arg sqlcgen.CreateQuizShareParams) (sqlcgen.QuizShare, error)
	GetQuizShareByToken(ctx context.Context, token string) (sqlcgen.QuizShare, error)
	ListUsersByEmails(ctx context.Context, emails []string) ([]sqlcgen.User, error)
}

// QuizRepository persists quizzes and their share tokens.
type QuizRepository struct {
	store quizStore
}

func NewQuizRepository(store quizStore) *QuizRepository {
	return &QuizRepository{store: store}
}

func toQuiz(q sqlcgen.Quiz) quiz.Quiz {
	return quiz.Quiz{
		ID:          fromPgUUID(q.ID),
		OwnerID:     fromPgUUIDPtr(q.OwnerID),
		Title:       q.Title,
		Description: fromPgText(q.Description),
		Mode:        q.Mode,
		CreatedAt:   fromPgTime(q.CreatedAt),
		UpdatedAt:   fromPgTime(q.UpdatedAt),
	}
}

func (r *QuizRepository) ListQuizzes(ctx context.Context, userID uuid.UUID) ([]quiz.Summary, error) {
	rows, err := r.store.ListQuizzesForUser(ctx, pgUUID(userID))
	if err != nil {
		return nil, err
	}
	out := make([]quiz.Summary, 0, len(rows))
	for _, row := range rows {
		s := quiz.Summary{
			Quiz: toQuiz(sqlcgen.Quiz{
				ID:          row.ID,
				OwnerID:     row.OwnerID,
				Title:       row.Title,
				Description: row.Description,
				Mode:        row.Mode,
				CreatedAt:   row.CreatedAt,
				UpdatedAt:   row.UpdatedAt,
			}),
			QuestionCount: int(row.QuestionCount),
			TotalAttempts: int(row.TotalAttempts),
		}
		if row.AvgDifficulty.Valid {
			avg := row.AvgDifficulty.Float64
			s.AvgDifficulty = &avg
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *QuizRepository) GetQuiz(ctx context.Context, id uuid.UUID) (quiz.Quiz, error) {
	q, err := r.store.GetQuiz(ctx, pgUUID(id))
	if errors.Is(err, pgx.ErrNoRows) {
		return quiz.Quiz{}, quiz.ErrNotFound
	}
	if err != nil {
		return quiz.Quiz{}, err
	}
	return toQuiz(q), nil
}

func (r *QuizRepository) CreateQuiz(ctx context.Context, ownerID uuid.UUID, in quiz.CreateInput) (quiz.Quiz, error) {
	q, err := r.store.CreateQuiz(ctx, sqlcgen.CreateQuizParams{
		OwnerID:     pgUUID(ownerID),
		Title:       in.Title,
		Description: pgText(in.Description),
		Mode:        pgText(in.Mode),
	})
	if err != nil {
		return quiz.Quiz{}, err
	}
	return toQuiz(q), nil
}

// UpdateQuiz applies a partial update; quizzes owned by someone else look missing.
func (r *QuizRepository) UpdateQuiz(ctx context.Context, id, ownerID uuid.UUID, in quiz.UpdateInput) (quiz.Quiz, error) {
	q, err := r.store.UpdateQuiz(ctx, sqlcgen.UpdateQuizParams{
		ID:          pgUUID(id),
		OwnerID:     pgUUID(ownerID),
		Title:       pgText(in.Title),
		Description: pgText(in.Description),
		Mode:        pgText(in.Mode),
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return quiz.Quiz{}, quiz.ErrNotFound
	}
	if err != nil {
		return quiz.Quiz{}, err
	}
	return toQuiz(q), nil
}

func (r *QuizRepository) DeleteQuiz(ctx context.Context, id, ownerID uuid.UUID) (bool, error) {
	n, err := r.store.DeleteQuiz(ctx, sqlcgen.DeleteQuizParams{ID: pgUUID(id), OwnerID: pgUUID(ownerID)})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *QuizRepository) ListQuizAttempts(ctx context.Context, quizID uuid.UUID) ([]quiz.AttemptEntry, error) {
	rows, err := r.store.ListQuizAttempts(ctx, pgUUID(quizID))
	if err != nil {
		return nil, err
	}
	out := make([]quiz.AttemptEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, quiz.AttemptEntry{
			ID:           fromPgUUID(row.ID),
			Score:        int(row.Score),
			CreatedAt:    fromPgTime(row.CreatedAt),
			StudentEmail: fromPgText(row.StudentEmail),
		})
	}
	return out, nil
}

func (r *QuizRepository) QuizAttemptSummary(ctx context.Context, quizID uuid.UUID) (quiz.StatsSummary, error) {
	row, err := r.store.GetQuizAttemptSummary(ctx, pgUUID(quizID))
	if err != nil {
		return quiz.StatsSummary{}, err
	}
	return quiz.StatsSummary{AvgScore: int(row.AvgScore), TotalAttempts: int(row.TotalAttempts)}, nil
}

func toShare(s sqlcgen.QuizShare) quiz.Share {
	return quiz.Share{
		ID:            fromPgUUID(s.ID),
		QuizID:        fromPgUUID(s.QuizID),
		Token:         s.Token,
		RecipientID:   fromPgUUIDPtr(s.RecipientID),
		SharedBy:      fromPgUUIDPtr(s.SharedBy),
		AllowReshare:  s.AllowReshare,
		ParentShareID: fromPgUUIDPtr(s.ParentShareID),
		CreatedAt:     fromPgTime(s.CreatedAt),
	}
}

func (r *QuizRepository) CreateShare(ctx context.Context, share quiz.Share) (quiz.Share, error) {
	s, err := r.store.CreateQuizShare(ctx, sqlcgen.CreateQuizShareParams{
		QuizID:        pgUUID(share.QuizID),
		Token:         share.Token,
		RecipientID:   pgUUIDPtr(share.RecipientID),
		SharedBy:      pgUUIDPtr(share.SharedBy),
		AllowReshare:  share.AllowReshare,
		ParentShareID: pgUUIDPtr(share.ParentShareID),
	})
	if err != nil {
		return quiz.Share{}, err
	}
	return toShare(s), nil
}

func (r *QuizRepository) GetShareByToken(ctx context.Context, token string) (quiz.Share, error) {
	s, err := r.store.GetQuizShareByToken(ctx, token)
	if errors.Is(err, pgx.ErrNoRows) {
		return quiz.Share{}, quiz.ErrShareNotFound
	}
	if err != nil {
		return quiz.Share{}, err
	}
	return toShare(s), nil
}

// FindUsersByEmail resolves share recipients; unknown emails are simply absent.
func (r *QuizRepository) FindUsersByEmail(ctx context.Context, emails []string) ([]quiz.Recipient, error) {
	if len(emails) == 0 {
		return nil, nil
	}
	users, err := r.store.ListUsersByEmails(ctx, emails)
	if err != nil {
		return nil, err
	}
	out := make([]quiz.Recipient, 0, len(users))
	for _, u := range users {
		out = append(out, quiz.Recipient{ID: fromPgUUID(u.ID), Email: u.Email})
	}
	return out, nil
}
