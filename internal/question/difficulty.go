package question

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/levibo0306/mentora/internal/metrics"
	"github.com/levibo0306/mentora/internal/scoring"
)

const (
	// minAttemptsForRelabel keeps small samples from moving a question.
	minAttemptsForRelabel = 5
	easyRatio             = 0.8
	hardRatio             = 0.2
)

// Stats are a question's adaptive counters.
type Stats struct {
	Difficulty      int `json:"difficulty"`
	TotalAttempts   int `json:"total_attempts"`
	CorrectAttempts int `json:"correct_attempts"`
}

// NextStats applies one outcome. The ratio is evaluated on the post-increment counters.
// A zero Difficulty is treated as DefaultDifficulty.
func NextStats(prev Stats, correct bool) Stats {
	next := Stats{
		Difficulty:      prev.Difficulty,
		TotalAttempts:   prev.TotalAttempts + 1,
		CorrectAttempts: prev.CorrectAttempts,
	}
	if next.Difficulty == 0 {
		next.Difficulty = DefaultDifficulty
	}
	if correct {
		next.CorrectAttempts++
	}
	if next.TotalAttempts < minAttemptsForRelabel {
		return next
	}

	ratio := float64(next.CorrectAttempts) / float64(next.TotalAttempts)
	switch {
	case ratio > easyRatio:
		next.Difficulty = max(MinDifficulty, next.Difficulty-1)
	case ratio < hardRatio:
		next.Difficulty = min(MaxDifficulty, next.Difficulty+1)
	}
	return next
}

// Transition is the result of one stored outcome.
type Transition struct {
	QuestionID         uuid.UUID `json:"question_id"`
	PreviousDifficulty int       `json:"previous_difficulty"`
	Stats
}

// Direction reports "easier", "harder" or "" when the tier did not move.
func (t Transition) Direction() string {
	switch {
	case t.Difficulty < t.PreviousDifficulty:
		return "easier"
	case t.Difficulty > t.PreviousDifficulty:
		return "harder"
	default:
		return ""
	}
}

// OutcomeStore applies NextStats to one question row in a single atomic statement.
type OutcomeStore interface {
	RecordQuestionOutcome(ctx context.Context, quizID, questionID uuid.UUID, correct bool) (Transition, error)
}

// Updater feeds attempt outcomes into question statistics.
type Updater struct {
	store   OutcomeStore
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

func NewUpdater(store OutcomeStore, m *metrics.Metrics, logger zerolog.Logger) *Updater {
	return &Updater{
		store:   store,
		metrics: m,
		logger:  logger.With().Str("component", "difficulty_updater").Logger(),
	}
}

// Apply records every outcome. Updates that succeeded before a failure stay applied;
// the returned error names the question that failed.
func (u *Updater) Apply(ctx context.Context, quizID uuid.UUID, outcomes []scoring.Outcome) ([]Transition, error) {
	transitions := make([]Transition, 0, len(outcomes))
	for _, o := range outcomes {
		tr, err := u.store.RecordQuestionOutcome(ctx, quizID, o.QuestionID, o.Correct)
		if err != nil {
			u.logger.Error().Err(err).
				Str("quiz_id", quizID.String()).
				Str("question_id", o.QuestionID.String()).
				Int("applied", len(transitions)).
				Int("total", len(outcomes)).
				Msg("question outcome update failed")
			return transitions, fmt.Errorf("record outcome for question %s: %w", o.QuestionID, err)
		}
		if dir := tr.Direction(); dir != "" {
			u.metrics.DifficultyChanged(dir)
			u.logger.Info().
				Str("question_id", tr.QuestionID.String()).
				Int("from", tr.PreviousDifficulty).
				Int("to", tr.Difficulty).
				Msg("question difficulty relabelled")
		}
		transitions = append(transitions, tr)
	}
	return transitions, nil
}
