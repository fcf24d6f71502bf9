package gamification

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/levibo0306/mentora/internal/metrics"
)

const (
	defaultDailyMissions = 2

	DefaultMissionHistory = 14
	MaxMissionHistory     = 60
)

// Mission is one user's daily mission instance.
type Mission struct {
	ID          uuid.UUID   `json:"id"`
	UserID      uuid.UUID   `json:"user_id"`
	Date        string      `json:"date"`
	Slot        int         `json:"slot"`
	TemplateID  string      `json:"mission_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Type        MissionType `json:"type"`
	Target      int         `json:"target"`
	Threshold   *int        `json:"threshold"`
	Tier        Tier        `json:"difficulty"`
	XPReward    int         `json:"xp_reward"`
	Progress    int         `json:"progress"`
	CompletedAt *time.Time  `json:"completed_at"`
	CreatedAt   time.Time   `json:"created_at"`
}

func (m Mission) Completed() bool { return m.CompletedAt != nil }

// ProgressUpdate moves progress to min(target, max(progress+Delta, Floor)).
type ProgressUpdate struct {
	Delta int
	Floor int
}

// Apply computes the new progress value. It never returns less than progress.
func (u ProgressUpdate) Apply(progress, target int) int {
	next := progress + u.Delta
	if next < u.Floor {
		next = u.Floor
	}
	if next > target {
		next = target
	}
	if next < progress {
		return progress
	}
	return next
}

// MissionStore persists daily missions.
//
// CreateMissionSet must claim (user, day) and insert the missions atomically; it
// reports false without writing when the set already exists.
// ApplyMissionProgress must apply the update in one conditional statement that
// skips completed missions and no-op changes, stamping completed_at when progress
// reaches the target. changed is false when nothing was written.
type MissionStore interface {
	GetUserXP(ctx context.Context, userID uuid.UUID) (int, error)
	ListMissionsForDay(ctx context.Context, userID uuid.UUID, day string) ([]Mission, error)
	CreateMissionSet(ctx context.Context, userID uuid.UUID, day string, missions []Mission) (bool, error)
	ApplyMissionProgress(ctx context.Context, missionID uuid.UUID, update ProgressUpdate) (Mission, bool, error)
	ListRecentMissions(ctx context.Context, userID uuid.UUID, limit int) ([]Mission, error)
}

// XPGranter is the part of Ledger the manager depends on.
type XPGranter interface {
	Grant(ctx context.Context, userID uuid.UUID, amount int, reason string) (Balance, error)
}

// ManagerOptions configures a mission Manager.
type ManagerOptions struct {
	Catalog    *Catalog
	DailyCount int
	Intn       func(int) int
}

// Manager generates daily mission sets and advances them on attempts.
type Manager struct {
	store      MissionStore
	xp         XPGranter
	catalog    *Catalog
	dailyCount int
	intn       func(int) int
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

func NewManager(store MissionStore, xp XPGranter, opts ManagerOptions, m *metrics.Metrics, logger zerolog.Logger) *Manager {
	if opts.Catalog == nil {
		opts.Catalog = DefaultCatalog()
	}
	if opts.DailyCount <= 0 {
		opts.DailyCount = defaultDailyMissions
	}
	if opts.Intn == nil {
		opts.Intn = rand.IntN
	}
	return &Manager{
		store:      store,
		xp:         xp,
		catalog:    opts.Catalog,
		dailyCount: opts.DailyCount,
		intn:       opts.Intn,
		metrics:    m,
		logger:     logger.With().Str("component", "mission_manager").Logger(),
	}
}

// Ensure returns the user's missions for day, generating the set on first access.
func (m *Manager) Ensure(ctx context.Context, userID uuid.UUID, day string) ([]Mission, error) {
	existing, err := m.store.ListMissionsForDay(ctx, userID, day)
	if err != nil {
		return nil, fmt.Errorf("list missions: %w", err)
	}
	if len(existing) > 0 {
		return existing, nil
	}

	xp, err := m.store.GetUserXP(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get xp: %w", err)
	}
	tier := TierForLevel(LevelForXP(xp))
	picks := m.catalog.Draw(tier, m.dailyCount, m.intn)

	missions := make([]Mission, 0, len(picks))
	for i, t := range picks {
		missions = append(missions, Mission{
			UserID:      userID,
			Date:        day,
			Slot:        i,
			TemplateID:  t.ID,
			Title:       t.Title,
			Description: t.Description,
			Type:        t.Type,
			Target:      t.Target,
			Threshold:   t.Threshold,
			Tier:        tier,
			XPReward:    t.XPReward,
		})
	}

	created, err := m.store.CreateMissionSet(ctx, userID, day, missions)
	if err != nil {
		return nil, fmt.Errorf("create mission set: %w", err)
	}
	if created {
		m.metrics.MissionSetGenerated(string(tier))
		m.logger.Info().
			Str("user_id", userID.String()).
			Str("day", day).
			Str("tier", string(tier)).
			Int("count", len(missions)).
			Msg("daily missions generated")
	}

	// Re-read so callers always see stored rows, including when another request won the race.
	stored, err := m.store.ListMissionsForDay(ctx, userID, day)
	if err != nil {
		return nil, fmt.Errorf("list missions: %w", err)
	}
	return stored, nil
}

// AttemptSignal describes a scored attempt for mission evaluation. Streak must
// already include this attempt.
type AttemptSignal struct {
	UserID uuid.UUID
	Day    string
	Score  int
	Streak int
}

// ProgressReport summarizes what an attempt did to the day's missions.
type ProgressReport struct {
	Missions  []Mission
	Completed []Mission
	XPAwarded int
}

// OnAttempt advances today's missions and grants rewards for those completed by this call.
func (m *Manager) OnAttempt(ctx context.Context, sig AttemptSignal) (ProgressReport, error) {
	missions, err := m.Ensure(ctx, sig.UserID, sig.Day)
	if err != nil {
		return ProgressReport{}, err
	}

	report := ProgressReport{Missions: missions}
	for i, mission := range missions {
		if mission.Completed() {
			continue
		}
		update, ok := progressFor(mission, sig)
		if !ok || update.Apply(mission.Progress, mission.Target) == mission.Progress {
			continue
		}

		updated, changed, err := m.store.ApplyMissionProgress(ctx, mission.ID, update)
		if err != nil {
			return report, fmt.Errorf("update mission %s: %w", mission.ID, err)
		}
		if !changed {
			continue
		}
		report.Missions[i] = updated

		if !updated.Completed() {
			continue
		}
		if _, err := m.xp.Grant(ctx, sig.UserID, updated.XPReward, ReasonMission); err != nil {
			return report, fmt.Errorf("grant mission reward %s: %w", updated.TemplateID, err)
		}
		report.Completed = append(report.Completed, updated)
		report.XPAwarded += updated.XPReward
		m.metrics.MissionCompleted(string(updated.Type))
		m.logger.Info().
			Str("user_id", sig.UserID.String()).
			Str("mission_id", updated.TemplateID).
			Int("xp_reward", updated.XPReward).
			Msg("mission completed")
	}
	return report, nil
}

func progressFor(mission Mission, sig AttemptSignal) (ProgressUpdate, bool) {
	switch mission.Type {
	case MissionCompleteQuizzes:
		return ProgressUpdate{Delta: 1}, true
	case MissionScoreAtLeast:
		if mission.Threshold != nil && sig.Score >= *mission.Threshold {
			return ProgressUpdate{Floor: mission.Target}, true
		}
	case MissionStreakDays:
		return ProgressUpdate{Floor: min(mission.Target, sig.Streak)}, true
	}
	return ProgressUpdate{}, false
}

// Recent lists the user's missions, newest day first.
func (m *Manager) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]Mission, error) {
	missions, err := m.store.ListRecentMissions(ctx, userID, ClampHistoryLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list recent missions: %w", err)
	}
	return missions, nil
}

// ClampHistoryLimit bounds a history size to 1..MaxMissionHistory.
func ClampHistoryLimit(limit int) int {
	return max(1, min(MaxMissionHistory, limit))
}

// ParseHistoryLimit reads a ?limit= value. Missing or malformed values give DefaultMissionHistory.
func ParseHistoryLimit(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultMissionHistory
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) {
		return DefaultMissionHistory
	}
	if math.IsInf(v, 1) || v > MaxMissionHistory {
		return MaxMissionHistory
	}
	if v < 1 {
		return 1
	}
	return int(v)
}
