package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/levibo0306/mentora/internal/auth"
	"github.com/levibo0306/mentora/internal/gamification"
)

// Store reads dashboard aggregates.
type Store interface {
	UserAttemptStats(ctx context.Context, userID uuid.UUID) (AttemptStats, error)
	TeacherStats(ctx context.Context, ownerID uuid.UUID) (TeacherStats, error)
	GetUserXP(ctx context.Context, userID uuid.UUID) (int, error)
}

type MissionSource interface {
	Ensure(ctx context.Context, userID uuid.UUID, day string) ([]gamification.Mission, error)
	Recent(ctx context.Context, userID uuid.UUID, limit int) ([]gamification.Mission, error)
}

type StreakReader interface {
	Current(ctx context.Context, userID uuid.UUID, today string) (int, error)
}

// Service assembles the per-user dashboard.
type Service struct {
	store    Store
	missions MissionSource
	streaks  StreakReader
	now      func() time.Time
	logger   zerolog.Logger
}

func NewService(store Store, missions MissionSource, streaks StreakReader, logger zerolog.Logger) *Service {
	return &Service{
		store:    store,
		missions: missions,
		streaks:  streaks,
		now:      time.Now,
		logger:   logger.With().Str("component", "dashboard").Logger(),
	}
}

// Overview returns the dashboard for role. Teachers get their quiz statistics
// and no gamification state.
func (s *Service) Overview(ctx context.Context, userID uuid.UUID, role string, tzOffset int) (Overview, error) {
	if role == auth.RoleTeacher {
		return s.teacherOverview(ctx, userID)
	}

	stats, err := s.store.UserAttemptStats(ctx, userID)
	if err != nil {
		return Overview{}, fmt.Errorf("attempt stats: %w", err)
	}
	badges := Badges(stats)

	xp, err := s.store.GetUserXP(ctx, userID)
	if err != nil {
		return Overview{}, fmt.Errorf("get xp: %w", err)
	}
	level := gamification.LevelForXP(xp)
	next := gamification.NextLevelXP(level)

	today := gamification.DayKey(s.now(), tzOffset)
	missions, err := s.missions.Ensure(ctx, userID, today)
	if err != nil {
		return Overview{}, err
	}
	if missions == nil {
		missions = []gamification.Mission{}
	}

	streak, err := s.streaks.Current(ctx, userID, today)
	if err != nil {
		return Overview{}, err
	}

	return Overview{
		Role: role,
		Stats: StudentStats{
			QuizzesCompleted: stats.QuizzesCompleted,
			TotalAttempts:    stats.TotalAttempts,
			AvgScore:         stats.AvgScore,
			BadgesEarned:     countEarned(badges),
		},
		Badges:        badges,
		XP:            xp,
		Level:         level,
		Rank:          gamification.RankForLevel(level),
		NextLevelXP:   &next,
		DailyMissions: missions,
		StreakDays:    &streak,
	}, nil
}

func (s *Service) teacherOverview(ctx context.Context, userID uuid.UUID) (Overview, error) {
	stats, err := s.store.TeacherStats(ctx, userID)
	if err != nil {
		return Overview{}, fmt.Errorf("teacher stats: %w", err)
	}
	return Overview{
		Role:          auth.RoleTeacher,
		Stats:         stats,
		Badges:        []Badge{},
		Rank:          gamification.RankTeacher,
		DailyMissions: []gamification.Mission{},
	}, nil
}

// Missions returns mission history, newest day first.
func (s *Service) Missions(ctx context.Context, userID uuid.UUID, limit int) ([]gamification.Mission, error) {
	missions, err := s.missions.Recent(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if missions == nil {
		missions = []gamification.Mission{}
	}
	return missions, nil
}
