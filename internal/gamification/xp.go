package gamification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/levibo0306/mentora/internal/metrics"
)

// XP grant reasons.
const (
	ReasonAttempt = "attempt"
	ReasonMission = "mission"
)

// Balance is a user's xp and the level derived from it.
type Balance struct {
	XP    int `json:"xp"`
	Level int `json:"level"`
}

// XPStore applies an atomic increment to the user's xp and returns the new balance.
type XPStore interface {
	AddUserXP(ctx context.Context, userID uuid.UUID, amount int) (Balance, error)
}

// XPRecorder mirrors granted xp elsewhere (leaderboards).
type XPRecorder interface {
	RecordXP(ctx context.Context, userID uuid.UUID, amount int) error
}

// Ledger grants xp.
type Ledger struct {
	store    XPStore
	recorder XPRecorder
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

func NewLedger(store XPStore, recorder XPRecorder, m *metrics.Metrics, logger zerolog.Logger) *Ledger {
	return &Ledger{
		store:    store,
		recorder: recorder,
		metrics:  m,
		logger:   logger.With().Str("component", "xp_ledger").Logger(),
	}
}

// Grant adds amount xp to the user. Non-positive amounts are ignored.
func (l *Ledger) Grant(ctx context.Context, userID uuid.UUID, amount int, reason string) (Balance, error) {
	if amount <= 0 {
		return Balance{}, nil
	}
	bal, err := l.store.AddUserXP(ctx, userID, amount)
	if err != nil {
		return Balance{}, fmt.Errorf("add xp: %w", err)
	}
	l.metrics.XPGranted(reason, amount)

	if l.recorder != nil {
		if err := l.recorder.RecordXP(ctx, userID, amount); err != nil {
			l.logger.Warn().Err(err).Str("user_id", userID.String()).Msg("leaderboard update failed")
		}
	}

	l.logger.Info().
		Str("user_id", userID.String()).
		Str("reason", reason).
		Int("amount", amount).
		Int("xp", bal.XP).
		Int("level", bal.Level).
		Msg("xp granted")
	return bal, nil
}
