package attempt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/levibo0306/mentora/internal/gamification"
	"github.com/levibo0306/mentora/internal/metrics"
	"github.com/levibo0306/mentora/internal/question"
	"github.com/levibo0306/mentora/internal/quiz"
	"github.com/levibo0306/mentora/internal/scoring"
	"github.com/levibo0306/mentora/internal/validation"
)

// Store appends attempts.
type Store interface {
	CreateAttempt(ctx context.Context, rec Record) (Record, error)
}

type QuizLookup interface {
	Get(ctx context.Context, id uuid.UUID) (quiz.Quiz, error)
}

type ShareResolver interface {
	ResolveShare(ctx context.Context, token string) (quiz.Share, error)
}

type KeyLoader interface {
	Load(ctx context.Context, quizID uuid.UUID) ([]scoring.Key, error)
}

type DifficultyUpdater interface {
	Apply(ctx context.Context, quizID uuid.UUID, outcomes []scoring.Outcome) ([]question.Transition, error)
}

type StreakToucher interface {
	Touch(ctx context.Context, userID uuid.UUID, today string) (gamification.Streak, error)
}

type MissionProgress interface {
	OnAttempt(ctx context.Context, sig gamification.AttemptSignal) (gamification.ProgressReport, error)
}

// Deps wires the attempt pipeline.
type Deps struct {
	Store      Store
	Quizzes    QuizLookup
	Shares     ShareResolver
	Keys       KeyLoader
	Difficulty DifficultyUpdater
	XP         gamification.XPGranter
	Streaks    StreakToucher
	Missions   MissionProgress
	Metrics    *metrics.Metrics
	Now        func() time.Time
}

// Service scores attempts and drives the difficulty and gamification pipeline.
type Service struct {
	store      Store
	quizzes    QuizLookup
	shares     ShareResolver
	keys       KeyLoader
	engine     *scoring.Engine
	difficulty DifficultyUpdater
	xp         gamification.XPGranter
	streaks    StreakToucher
	missions   MissionProgress
	metrics    *metrics.Metrics
	now        func() time.Time
	logger     zerolog.Logger
}

func NewService(deps Deps, logger zerolog.Logger) *Service {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Service{
		store:      deps.Store,
		quizzes:    deps.Quizzes,
		shares:     deps.Shares,
		keys:       deps.Keys,
		engine:     scoring.NewEngine(),
		difficulty: deps.Difficulty,
		xp:         deps.XP,
		streaks:    deps.Streaks,
		missions:   deps.Missions,
		metrics:    deps.Metrics,
		now:        deps.Now,
		logger:     logger.With().Str("component", "attempt_service").Logger(),
	}
}

// ScoreAttempt grades a signed-in user's answers for a quiz and applies every
// side effect: difficulty updates, the attempt row, xp, streak and missions.
func (s *Service) ScoreAttempt(ctx context.Context, quizID, userID uuid.UUID, answers map[uuid.UUID]int, tzOffset int) (Result, error) {
	if _, err := s.quizzes.Get(ctx, quizID); err != nil {
		return Result{}, err
	}

	graded, rec, err := s.grade(ctx, quizID, &userID, answers)
	if err != nil {
		return Result{}, err
	}
	s.metrics.AttemptScored("quiz")

	rewards, err := s.reward(ctx, userID, graded.Score, tzOffset)
	if err != nil {
		return Result{}, err
	}

	completed := rewards.MissionsCompleted
	if completed == nil {
		completed = []gamification.Mission{}
	}
	return Result{
		ID:                rec.ID,
		Score:             graded.Score,
		Correct:           graded.Correct,
		Total:             graded.Total,
		XPGained:          rewards.XPGained,
		MissionXP:         rewards.MissionXP,
		StreakDays:        rewards.StreakDays,
		MissionsCompleted: completed,
	}, nil
}

// SubmitShared grades answers submitted through a share link. userID is
// uuid.Nil for anonymous submissions, which skip xp, streak and missions.
func (s *Service) SubmitShared(ctx context.Context, token string, userID uuid.UUID, answers map[uuid.UUID]int, tzOffset int) (SharedResult, error) {
	share, err := s.shares.ResolveShare(ctx, token)
	if err != nil {
		return SharedResult{}, err
	}

	var owner *uuid.UUID
	if userID != uuid.Nil {
		owner = &userID
	}

	graded, _, err := s.grade(ctx, share.QuizID, owner, answers)
	if err != nil {
		return SharedResult{}, err
	}
	s.metrics.AttemptScored("share")

	if owner != nil {
		if _, err := s.reward(ctx, userID, graded.Score, tzOffset); err != nil {
			return SharedResult{}, err
		}
	}
	return SharedResult{Score: graded.Correct, Max: graded.Total}, nil
}

// grade validates and scores answers, applies per-question difficulty updates
// and stores the attempt. Nothing is written when validation fails.
func (s *Service) grade(ctx context.Context, quizID uuid.UUID, userID *uuid.UUID, answers map[uuid.UUID]int) (scoring.Result, Record, error) {
	// An empty map is a valid all-skipped submission; a missing one is not.
	if answers == nil {
		return scoring.Result{}, Record{}, validation.Field("answers", "is required")
	}
	keys, err := s.keys.Load(ctx, quizID)
	if err != nil {
		return scoring.Result{}, Record{}, fmt.Errorf("load answer key: %w", err)
	}
	if err := s.engine.Validate(answers, keys); err != nil {
		return scoring.Result{}, Record{}, answerError(err)
	}

	res := s.engine.Score(answers, keys)

	if _, err := s.difficulty.Apply(ctx, quizID, res.Outcomes); err != nil {
		return scoring.Result{}, Record{}, fmt.Errorf("update difficulty: %w", err)
	}

	rec, err := s.store.CreateAttempt(ctx, Record{
		QuizID:  quizID,
		UserID:  userID,
		Answers: answers,
		Score:   res.Score,
	})
	if err != nil {
		return scoring.Result{}, Record{}, fmt.Errorf("store attempt: %w", err)
	}

	evt := s.logger.Info().
		Str("attempt_id", rec.ID.String()).
		Str("quiz_id", quizID.String()).
		Int("score", res.Score).
		Int("correct", res.Correct).
		Int("total", res.Total)
	if userID != nil {
		evt = evt.Str("user_id", userID.String())
	}
	evt.Msg("attempt scored")

	return res, rec, nil
}

// reward grants attempt xp, advances the streak and then evaluates missions so
// streak missions see the streak that includes this attempt.
func (s *Service) reward(ctx context.Context, userID uuid.UUID, score, tzOffset int) (Rewards, error) {
	day := gamification.DayKey(s.now(), tzOffset)

	xp := gamification.AttemptReward(score)
	if _, err := s.xp.Grant(ctx, userID, xp, gamification.ReasonAttempt); err != nil {
		return Rewards{}, fmt.Errorf("grant attempt xp: %w", err)
	}

	streak, err := s.streaks.Touch(ctx, userID, day)
	if err != nil {
		return Rewards{}, err
	}

	report, err := s.missions.OnAttempt(ctx, gamification.AttemptSignal{
		UserID: userID,
		Day:    day,
		Score:  score,
		Streak: streak.Current,
	})
	if err != nil {
		return Rewards{}, fmt.Errorf("mission progress: %w", err)
	}

	return Rewards{
		XPGained:          xp,
		MissionXP:         report.XPAwarded,
		StreakDays:        streak.Current,
		MissionsCompleted: report.Completed,
	}, nil
}

func answerError(err error) error {
	switch {
	case errors.Is(err, scoring.ErrUnknownQuestion):
		return &validation.Error{Field: "answers", Message: "unknown question in answers"}
	case errors.Is(err, scoring.ErrOptionOutOfRange):
		return &validation.Error{Field: "answers", Message: "selected option is out of range"}
	}
	return err
}
