package gamification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Streak is a user's consecutive-day activity record. LastActive is "" before any activity.
type Streak struct {
	Current    int    `json:"current_streak"`
	LastActive string `json:"last_active_date,omitempty"`
}

// Advance applies one scored attempt on day today.
func Advance(prev Streak, today string) Streak {
	switch {
	case prev.LastActive == "":
		return Streak{Current: 1, LastActive: today}
	case prev.LastActive == today:
		return prev
	case prev.LastActive == PreviousDay(today):
		return Streak{Current: prev.Current + 1, LastActive: today}
	default:
		return Streak{Current: 1, LastActive: today}
	}
}

// Effective is the streak as of today: a streak whose last activity is older than yesterday has lapsed.
func (s Streak) Effective(today string) int {
	if s.LastActive == today || s.LastActive == PreviousDay(today) {
		return s.Current
	}
	return 0
}

// StreakStore persists streaks. AdvanceStreak must apply Advance in a single atomic statement.
type StreakStore interface {
	GetStreak(ctx context.Context, userID uuid.UUID) (Streak, error)
	AdvanceStreak(ctx context.Context, userID uuid.UUID, today, yesterday string) (Streak, error)
}

// StreakTracker advances and reads per-user streaks.
type StreakTracker struct {
	store  StreakStore
	logger zerolog.Logger
}

func NewStreakTracker(store StreakStore, logger zerolog.Logger) *StreakTracker {
	return &StreakTracker{
		store:  store,
		logger: logger.With().Str("component", "streak_tracker").Logger(),
	}
}

// Touch records activity for today and returns the resulting streak.
func (t *StreakTracker) Touch(ctx context.Context, userID uuid.UUID, today string) (Streak, error) {
	streak, err := t.store.AdvanceStreak(ctx, userID, today, PreviousDay(today))
	if err != nil {
		return Streak{}, fmt.Errorf("advance streak: %w", err)
	}
	t.logger.Debug().
		Str("user_id", userID.String()).
		Int("streak", streak.Current).
		Str("day", today).
		Msg("streak touched")
	return streak, nil
}

// Current returns the effective streak for display.
func (t *StreakTracker) Current(ctx context.Context, userID uuid.UUID, today string) (int, error) {
	streak, err := t.store.GetStreak(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("get streak: %w", err)
	}
	return streak.Effective(today), nil
}
