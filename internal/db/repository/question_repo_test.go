package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	sqlcgen "github.com/levibo0306/mentora/internal/db/sqlc"
	"github.com/levibo0306/mentora/internal/question"
	"github.com/levibo0306/mentora/internal/quiz"
	"github.com/levibo0306/mentora/internal/scoring"
)

type mockQuestionStore struct {
	mock.Mock
}

func (m *mockQuestionStore) CreateQuestion(ctx context.Context, arg sqlcgen.CreateQuestionParams) (sqlcgen.Question, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(sqlcgen.Question), args.Error(1)
}

func (m *mockQuestionStore) ListQuestionsByQuiz(ctx context.Context, quizID pgtype.UUID) ([]sqlcgen.Question, error) {
	args := m.Called(ctx, quizID)
	return args.Get(0).([]sqlcgen.Question), args.Error(1)
}

func (m *mockQuestionStore) ListAnswerKey(ctx context.Context, quizID pgtype.UUID) ([]sqlcgen.ListAnswerKeyRow, error) {
	args := m.Called(ctx, quizID)
	return args.Get(0).([]sqlcgen.ListAnswerKeyRow), args.Error(1)
}

func (m *mockQuestionStore) RecordQuestionOutcome(ctx context.Context, arg sqlcgen.RecordQuestionOutcomeParams) (sqlcgen.RecordQuestionOutcomeRow, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(sqlcgen.RecordQuestionOutcomeRow), args.Error(1)
}

func TestQuestionRepository_CreateQuestionDefaultsDifficulty(t *testing.T) {
	store := new(mockQuestionStore)
	repo := NewQuestionRepository(store)
	quizID := uuidFromByte(1)

	store.On("CreateQuestion", mock.Anything, mock.MatchedBy(func(p sqlcgen.CreateQuestionParams) bool {
		return p.Difficulty == int16(question.DefaultDifficulty) && string(p.Options) == `["a","b"]` && p.CorrectIndex == 1
	})).Return(sqlcgen.Question{ID: uuidFromByte(2), QuizID: quizID, Prompt: "2+2?", Options: []byte(`["a","b"]`), CorrectIndex: 1, Difficulty: 3}, nil)

	q, err := repo.CreateQuestion(context.Background(), uuid.UUID(quizID.Bytes), quiz.QuestionInput{
		Prompt:       "2+2?",
		Options:      []string{"a", "b"},
		CorrectIndex: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, q.Options)
	assert.Equal(t, 3, q.Difficulty)
}

func TestQuestionRepository_ListAnswerKey(t *testing.T) {
	store := new(mockQuestionStore)
	repo := NewQuestionRepository(store)
	quizID := uuidFromByte(1)
	store.On("ListAnswerKey", mock.Anything, quizID).Return([]sqlcgen.ListAnswerKeyRow{
		{ID: uuidFromByte(2), CorrectIndex: 0, OptionCount: 4},
	}, nil)

	keys, err := repo.ListAnswerKey(context.Background(), uuid.UUID(quizID.Bytes))
	require.NoError(t, err)
	assert.Equal(t, []scoring.Key{{QuestionID: uuid.UUID(uuidFromByte(2).Bytes), CorrectIndex: 0, OptionCount: 4}}, keys)
}

func TestQuestionRepository_RecordQuestionOutcome(t *testing.T) {
	store := new(mockQuestionStore)
	repo := NewQuestionRepository(store)
	quizID, questionID := uuidFromByte(1), uuidFromByte(2)

	store.On("RecordQuestionOutcome", mock.Anything, sqlcgen.RecordQuestionOutcomeParams{ID: questionID, QuizID: quizID, Correct: 1}).
		Return(sqlcgen.RecordQuestionOutcomeRow{ID: questionID, PreviousDifficulty: 3, Difficulty: 2, TotalAttempts: 5, CorrectAttempts: 5}, nil)

	tr, err := repo.RecordQuestionOutcome(context.Background(), uuid.UUID(quizID.Bytes), uuid.UUID(questionID.Bytes), true)
	require.NoError(t, err)
	assert.Equal(t, 3, tr.PreviousDifficulty)
	assert.Equal(t, 2, tr.Stats.Difficulty)
	assert.Equal(t, 5, tr.Stats.TotalAttempts)
}

func TestQuestionRepository_RecordQuestionOutcomeMissing(t *testing.T) {
	store := new(mockQuestionStore)
	repo := NewQuestionRepository(store)
	store.On("RecordQuestionOutcome", mock.Anything, mock.Anything).Return(sqlcgen.RecordQuestionOutcomeRow{}, pgx.ErrNoRows)

	_, err := repo.RecordQuestionOutcome(context.Background(), uuid.New(), uuid.New(), false)
	assert.ErrorIs(t, err, question.ErrNotFound)
}
