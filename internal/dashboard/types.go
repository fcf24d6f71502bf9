package dashboard

import "github.com/levibo0306/mentora/internal/gamification"

// AttemptStats aggregates a student's attempts.
type AttemptStats struct {
	QuizzesCompleted int
	TotalAttempts    int
	AvgScore         int
	PerfectCount     int
}

type StudentStats struct {
	QuizzesCompleted int `json:"quizzes_completed"`
	TotalAttempts    int `json:"total_attempts"`
	AvgScore         int `json:"avg_score"`
	BadgesEarned     int `json:"badges_earned"`
}

// TeacherStats aggregates attempts across the quizzes a teacher owns.
type TeacherStats struct {
	ActiveQuizzes int `json:"active_quizzes"`
	TotalStudents int `json:"total_students"`
	TotalAttempts int `json:"total_attempts"`
	AvgScore      int `json:"avg_score"`
}

type Badge struct {
	ID          string `json:"id"`
	Icon        string `json:"icon"`
	Name        string `json:"name"`
	Requirement string `json:"requirement"`
	Earned      bool   `json:"earned"`
}

// Overview is the dashboard payload. Stats holds StudentStats or TeacherStats.
type Overview struct {
	Role          string                 `json:"role"`
	Stats         interface{}            `json:"stats"`
	Badges        []Badge                `json:"badges"`
	XP            int                    `json:"xp"`
	Level         int                    `json:"level"`
	Rank          string                 `json:"rank"`
	NextLevelXP   *int                   `json:"next_level_xp,omitempty"`
	DailyMissions []gamification.Mission `json:"daily_missions"`
	StreakDays    *int                   `json:"streak_days,omitempty"`
}
