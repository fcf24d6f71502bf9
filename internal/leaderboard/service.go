package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Supported leaderboard windows.
const (
	WindowDaily   = "daily"
	WindowWeekly  = "weekly"
	WindowAllTime = "all_time"
)

var defaultWindows = []string{WindowDaily, WindowWeekly, WindowAllTime}

var ErrUnknownWindow = errors.New("unknown leaderboard window")

// Entry is one ranked row of an xp leaderboard.
type Entry struct {
	Rank   int       `json:"rank"`
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email,omitempty"`
	XP     int       `json:"xp"`
}

// Directory resolves display data for ranked users.
type Directory interface {
	EmailsByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

// ServiceOptions configures leaderboard service behavior.
type ServiceOptions struct {
	TopN           int
	Windows        []string
	RedisKeyPrefix string
	Now            func() time.Time
}

// Service keeps per-window xp totals in Redis sorted sets.
type Service struct {
	redis     *redis.Client
	directory Directory
	logger    zerolog.Logger
	topN      int
	windows   []string
	prefix    string
	now       func() time.Time
}

// NewService constructs a leaderboard service instance.
func NewService(redis *redis.Client, directory Directory, logger zerolog.Logger, opts ServiceOptions) *Service {
	topN := opts.TopN
	if topN <= 0 {
		topN = 50
	}
	windows := opts.Windows
	if len(windows) == 0 {
		windows = defaultWindows
	}
	prefix := opts.RedisKeyPrefix
	if prefix == "" {
		prefix = "lb"
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		redis:     redis,
		directory: directory,
		logger:    logger.With().Str("component", "leaderboard").Logger(),
		topN:      topN,
		windows:   windows,
		prefix:    prefix,
		now:       now,
	}
}

// Windows lists the windows this service maintains.
func (s *Service) Windows() []string {
	return s.windows
}

// RecordXP adds amount to the user's score in every window.
func (s *Service) RecordXP(ctx context.Context, userID uuid.UUID, amount int) error {
	if s == nil || s.redis == nil || amount <= 0 {
		return nil
	}

	now := s.now().UTC()
	member := userID.String()

	pipe := s.redis.TxPipeline()
	for _, window := range s.windows {
		key := s.leaderboardKey(window, now)
		pipe.ZIncrBy(ctx, key, float64(amount), member)
		if ttl := windowTTL(window); ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record leaderboard xp: %w", err)
	}
	return nil
}

// Top retrieves the top entries for the current period of window.
func (s *Service) Top(ctx context.Context, window string, limit int) ([]Entry, error) {
	if !IsValidWindow(window) {
		return nil, ErrUnknownWindow
	}
	if limit <= 0 || limit > s.topN {
		limit = s.topN
	}

	zKey := s.leaderboardKey(window, s.now().UTC())
	results, err := s.redis.ZRevRangeWithScores(ctx, zKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("fetch leaderboard: %w", err)
	}

	entries := make([]Entry, 0, len(results))
	ids := make([]uuid.UUID, 0, len(results))
	for _, z := range results {
		member, _ := z.Member.(string)
		id, err := uuid.Parse(member)
		if err != nil {
			s.logger.Warn().Str("member", member).Msg("skipping malformed leaderboard member")
			continue
		}
		ids = append(ids, id)
		entries = append(entries, Entry{UserID: id, XP: int(z.Score)})
	}

	s.decorate(ctx, entries, ids)
	return entries, nil
}

func (s *Service) decorate(ctx context.Context, entries []Entry, ids []uuid.UUID) {
	for i := range entries {
		entries[i].Rank = i + 1
	}
	if s.directory == nil || len(ids) == 0 {
		return
	}
	emails, err := s.directory.EmailsByID(ctx, ids)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to resolve leaderboard emails")
		return
	}
	for i := range entries {
		entries[i].Email = emails[entries[i].UserID]
	}
}

// leaderboardKey buckets daily and weekly windows by UTC period so each period
// starts from zero.
func (s *Service) leaderboardKey(window string, now time.Time) string {
	switch window {
	case WindowDaily:
		return fmt.Sprintf("%s:%s:%s", s.prefix, window, now.Format("2006-01-02"))
	case WindowWeekly:
		year, week := now.ISOWeek()
		return fmt.Sprintf("%s:%s:%d-W%02d", s.prefix, window, year, week)
	default:
		return fmt.Sprintf("%s:%s", s.prefix, window)
	}
}

func windowTTL(window string) time.Duration {
	switch window {
	case WindowDaily:
		return 48 * time.Hour
	case WindowWeekly:
		return 14 * 24 * time.Hour
	default:
		return 0
	}
}

func IsValidWindow(window string) bool {
	switch window {
	case WindowDaily, WindowWeekly, WindowAllTime:
		return true
	default:
		return false
	}
}
