package gamification

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memStore is an in-memory MissionStore, StreakStore and XPStore.
type memStore struct {
	mu       sync.Mutex
	xp       map[uuid.UUID]int
	sets     map[string]bool
	missions map[uuid.UUID]*Mission
	streaks  map[uuid.UUID]Streak

	createCalls int
	applyCalls  int
}

func newMemStore() *memStore {
	return &memStore{
		xp:       map[uuid.UUID]int{},
		sets:     map[string]bool{},
		missions: map[uuid.UUID]*Mission{},
		streaks:  map[uuid.UUID]Streak{},
	}
}

func setKey(userID uuid.UUID, day string) string { return userID.String() + "/" + day }

func (s *memStore) GetUserXP(_ context.Context, userID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.xp[userID], nil
}

func (s *memStore) AddUserXP(_ context.Context, userID uuid.UUID, amount int) (Balance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.xp[userID] += amount
	return Balance{XP: s.xp[userID], Level: LevelForXP(s.xp[userID])}, nil
}

func (s *memStore) ListMissionsForDay(_ context.Context, userID uuid.UUID, day string) ([]Mission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Mission
	for _, m := range s.missions {
		if m.UserID == userID && m.Date == day {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out, nil
}

func (s *memStore) CreateMissionSet(_ context.Context, userID uuid.UUID, day string, missions []Mission) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls++
	key := setKey(userID, day)
	if s.sets[key] {
		return false, nil
	}
	s.sets[key] = true
	for _, m := range missions {
		m.ID = uuid.New()
		m.CreatedAt = time.Now()
		s.missions[m.ID] = &m
	}
	return true, nil
}

func (s *memStore) ApplyMissionProgress(_ context.Context, missionID uuid.UUID, update ProgressUpdate) (Mission, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyCalls++
	m, ok := s.missions[missionID]
	if !ok || m.Completed() {
		return Mission{}, false, nil
	}
	next := update.Apply(m.Progress, m.Target)
	if next == m.Progress {
		return Mission{}, false, nil
	}
	m.Progress = next
	if next >= m.Target {
		now := time.Now()
		m.CompletedAt = &now
	}
	return *m, true, nil
}

func (s *memStore) ListRecentMissions(_ context.Context, userID uuid.UUID, limit int) ([]Mission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Mission
	for _, m := range s.missions {
		if m.UserID == userID {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].Slot < out[j].Slot
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memStore) GetStreak(_ context.Context, userID uuid.UUID) (Streak, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streaks[userID], nil
}

func (s *memStore) AdvanceStreak(_ context.Context, userID uuid.UUID, today, _ string) (Streak, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := Advance(s.streaks[userID], today)
	s.streaks[userID] = next
	return next, nil
}

// firstPicks makes Draw deterministic: always take the next template in pool order.
func firstPicks(int) int { return 0 }
