package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/levibo0306/mentora/internal/question"
	"github.com/levibo0306/mentora/internal/validation"
)

// Store persists quizzes. GetQuiz returns ErrNotFound for unknown ids; UpdateQuiz
// returns ErrNotFound when the quiz is missing or owned by someone else.
type Store interface {
	ListQuizzes(ctx context.Context, userID uuid.UUID) ([]Summary, error)
	GetQuiz(ctx context.Context, id uuid.UUID) (Quiz, error)
	CreateQuiz(ctx context.Context, ownerID uuid.UUID, in CreateInput) (Quiz, error)
	UpdateQuiz(ctx context.Context, id, ownerID uuid.UUID, in UpdateInput) (Quiz, error)
	DeleteQuiz(ctx context.Context, id, ownerID uuid.UUID) (bool, error)
	ListQuizAttempts(ctx context.Context, quizID uuid.UUID) ([]AttemptEntry, error)
	QuizAttemptSummary(ctx context.Context, quizID uuid.UUID) (StatsSummary, error)
}

type QuestionStore interface {
	CreateQuestion(ctx context.Context, quizID uuid.UUID, in QuestionInput) (question.Question, error)
	ListQuestions(ctx context.Context, quizID uuid.UUID) ([]question.Question, error)
}

// KeyInvalidator drops cached answer keys after a quiz's questions change.
type KeyInvalidator interface {
	Invalidate(ctx context.Context, quizID uuid.UUID)
}

// DraftGenerator suggests questions for a topic.
type DraftGenerator interface {
	Generate(ctx context.Context, req question.GenerateRequest) ([]question.Draft, error)
}

// Service implements quiz authoring.
type Service struct {
	store     Store
	questions QuestionStore
	shares    ShareStore
	keys      KeyInvalidator
	generator DraftGenerator
	notifier  Notifier
	validator *validation.Validator
	tokenFn   func() (string, error)
	logger    zerolog.Logger
}

// ServiceOptions wires the optional collaborators.
type ServiceOptions struct {
	Keys      KeyInvalidator
	Generator DraftGenerator
	Notifier  Notifier
	Validator *validation.Validator
	TokenFunc func() (string, error)
}

func NewService(store Store, questions QuestionStore, shares ShareStore, opts ServiceOptions, logger zerolog.Logger) *Service {
	if opts.Validator == nil {
		opts.Validator = validation.New()
	}
	if opts.TokenFunc == nil {
		opts.TokenFunc = NewShareToken
	}
	return &Service{
		store:     store,
		questions: questions,
		shares:    shares,
		keys:      opts.Keys,
		generator: opts.Generator,
		notifier:  opts.Notifier,
		validator: opts.Validator,
		tokenFn:   opts.TokenFunc,
		logger:    logger.With().Str("component", "quiz_service").Logger(),
	}
}

// List returns the user's quizzes plus global templates, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]Summary, error) {
	quizzes, err := s.store.ListQuizzes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	if quizzes == nil {
		quizzes = []Summary{}
	}
	return quizzes, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Quiz, error) {
	q, err := s.store.GetQuiz(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Quiz{}, err
		}
		return Quiz{}, fmt.Errorf("get quiz: %w", err)
	}
	return q, nil
}

func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, in CreateInput) (Quiz, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := s.validator.Struct(in); err != nil {
		return Quiz{}, err
	}
	q, err := s.store.CreateQuiz(ctx, ownerID, in)
	if err != nil {
		return Quiz{}, fmt.Errorf("create quiz: %w", err)
	}
	s.logger.Info().Str("quiz_id", q.ID.String()).Str("owner_id", ownerID.String()).Msg("quiz created")
	return q, nil
}

func (s *Service) Update(ctx context.Context, id, ownerID uuid.UUID, in UpdateInput) (Quiz, error) {
	if in.Title != nil {
		trimmed := strings.TrimSpace(*in.Title)
		in.Title = &trimmed
	}
	if err := s.validator.Struct(in); err != nil {
		return Quiz{}, err
	}
	q, err := s.store.UpdateQuiz(ctx, id, ownerID, in)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Quiz{}, ErrNotOwner
		}
		return Quiz{}, fmt.Errorf("update quiz: %w", err)
	}
	return q, nil
}

func (s *Service) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	deleted, err := s.store.DeleteQuiz(ctx, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	if !deleted {
		return ErrNotOwner
	}
	if s.keys != nil {
		s.keys.Invalidate(ctx, id)
	}
	s.logger.Info().Str("quiz_id", id.String()).Msg("quiz deleted")
	return nil
}

// AddQuestion appends a question to a quiz the caller owns.
func (s *Service) AddQuestion(ctx context.Context, quizID, ownerID uuid.UUID, in QuestionInput) (question.Question, error) {
	in.Prompt = strings.TrimSpace(in.Prompt)
	if err := s.validator.Struct(in); err != nil {
		return question.Question{}, err
	}
	if in.CorrectIndex >= len(in.Options) {
		return question.Question{}, validation.Field("correct_index", "must point at one of the options")
	}

	q, err := s.store.GetQuiz(ctx, quizID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return question.Question{}, ErrNotOwner
		}
		return question.Question{}, fmt.Errorf("get quiz: %w", err)
	}
	if !q.OwnedBy(ownerID) {
		return question.Question{}, ErrNotOwner
	}

	created, err := s.questions.CreateQuestion(ctx, quizID, in)
	if err != nil {
		return question.Question{}, fmt.Errorf("create question: %w", err)
	}
	if s.keys != nil {
		s.keys.Invalidate(ctx, quizID)
	}
	return created, nil
}

// Questions lists a quiz's questions and reports whether viewerID owns the quiz.
func (s *Service) Questions(ctx context.Context, quizID, viewerID uuid.UUID) ([]question.Question, bool, error) {
	q, err := s.Get(ctx, quizID)
	if err != nil {
		return nil, false, err
	}
	questions, err := s.questions.ListQuestions(ctx, quizID)
	if err != nil {
		return nil, false, fmt.Errorf("list questions: %w", err)
	}
	return questions, q.OwnedBy(viewerID), nil
}

// Stats returns per-attempt results for the quiz owner.
func (s *Service) Stats(ctx context.Context, quizID, ownerID uuid.UUID) (Stats, error) {
	q, err := s.store.GetQuiz(ctx, quizID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Stats{}, ErrForbidden
		}
		return Stats{}, fmt.Errorf("get quiz: %w", err)
	}
	if !q.OwnedBy(ownerID) {
		return Stats{}, ErrForbidden
	}

	attempts, err := s.store.ListQuizAttempts(ctx, quizID)
	if err != nil {
		return Stats{}, fmt.Errorf("list attempts: %w", err)
	}
	if attempts == nil {
		attempts = []AttemptEntry{}
	}
	summary, err := s.store.QuizAttemptSummary(ctx, quizID)
	if err != nil {
		return Stats{}, fmt.Errorf("attempt summary: %w", err)
	}
	return Stats{Attempts: attempts, Summary: summary}, nil
}

// Generate suggests question drafts for a topic. Drafts are not stored.
func (s *Service) Generate(ctx context.Context, req question.GenerateRequest) ([]question.Draft, error) {
	req.Topic = strings.TrimSpace(req.Topic)
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if len([]rune(req.Topic)) < 3 {
		return nil, validation.Field("topic", "must have at least 3 characters")
	}
	if s.generator == nil {
		return nil, question.ErrGenerationUnavailable
	}
	return s.generator.Generate(ctx, req)
}
