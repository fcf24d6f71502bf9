package attempt

import (
	"time"

	"github.com/google/uuid"

	"github.com/levibo0306/mentora/internal/gamification"
)

// Record is one stored attempt. Attempts are append-only.
type Record struct {
	ID        uuid.UUID
	QuizID    uuid.UUID
	UserID    *uuid.UUID
	Answers   map[uuid.UUID]int
	Score     int
	CreatedAt time.Time
}

// Submission is the request body for both attempt endpoints.
type Submission struct {
	Answers  map[uuid.UUID]int `json:"answers"`
	TZOffset *string           `json:"tz_offset,omitempty"`
}

// Result is returned to a signed-in quiz taker.
type Result struct {
	ID                uuid.UUID              `json:"id"`
	Score             int                    `json:"score"`
	Correct           int                    `json:"correct"`
	Total             int                    `json:"total"`
	XPGained          int                    `json:"xp_gained"`
	MissionXP         int                    `json:"mission_xp"`
	StreakDays        int                    `json:"streak_days"`
	MissionsCompleted []gamification.Mission `json:"missions_completed"`
}

// SharedResult is returned for submissions through a share link: the number of
// correct answers out of the number of questions.
type SharedResult struct {
	Score int `json:"score"`
	Max   int `json:"max"`
}

// Rewards summarizes the gamification side effects of one attempt.
type Rewards struct {
	XPGained          int
	MissionXP         int
	StreakDays        int
	MissionsCompleted []gamification.Mission
}
