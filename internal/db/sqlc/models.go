package sqlcgen

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Attempt struct {
	ID        pgtype.UUID        `json:"id"`
	QuizID    pgtype.UUID        `json:"quiz_id"`
	UserID    pgtype.UUID        `json:"user_id"`
	Answers   []byte             `json:"answers"`
	Score     int32              `json:"score"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

type DailyMission struct {
	ID          pgtype.UUID        `json:"id"`
	UserID      pgtype.UUID        `json:"user_id"`
	Date        pgtype.Date        `json:"date"`
	Slot        int16              `json:"slot"`
	MissionID   string             `json:"mission_id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Type        string             `json:"type"`
	Target      int32              `json:"target"`
	Threshold   pgtype.Int4        `json:"threshold"`
	Difficulty  string             `json:"difficulty"`
	XpReward    int32              `json:"xp_reward"`
	Progress    int32              `json:"progress"`
	CompletedAt pgtype.Timestamptz `json:"completed_at"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
}

type LeaderboardSnapshot struct {
	ID          int64              `json:"id"`
	TimeWindow  string             `json:"time_window"`
	GeneratedAt pgtype.Timestamptz `json:"generated_at"`
	Entries     []byte             `json:"entries"`
	SourceHash  string             `json:"source_hash"`
}

type Question struct {
	ID              pgtype.UUID        `json:"id"`
	QuizID          pgtype.UUID        `json:"quiz_id"`
	Prompt          string             `json:"prompt"`
	Options         []byte             `json:"options"`
	CorrectIndex    int32              `json:"correct_index"`
	Explanation     pgtype.Text        `json:"explanation"`
	Difficulty      int16              `json:"difficulty"`
	TotalAttempts   int32              `json:"total_attempts"`
	CorrectAttempts int32              `json:"correct_attempts"`
	CreatedAt       pgtype.Timestamptz `json:"created_at"`
}

type Quiz struct {
	ID          pgtype.UUID        `json:"id"`
	OwnerID     pgtype.UUID        `json:"owner_id"`
	Title       string             `json:"title"`
	Description pgtype.Text        `json:"description"`
	Mode        string             `json:"mode"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
	UpdatedAt   pgtype.Timestamptz `json:"updated_at"`
}

type QuizShare struct {
	ID            pgtype.UUID        `json:"id"`
	QuizID        pgtype.UUID        `json:"quiz_id"`
	Token         string             `json:"token"`
	RecipientID   pgtype.UUID        `json:"recipient_id"`
	SharedBy      pgtype.UUID        `json:"shared_by"`
	AllowReshare  bool               `json:"allow_reshare"`
	ParentShareID pgtype.UUID        `json:"parent_share_id"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
}

type User struct {
	ID           pgtype.UUID        `json:"id"`
	Email        string             `json:"email"`
	PasswordHash pgtype.Text        `json:"password_hash"`
	Role         string             `json:"role"`
	Xp           int32              `json:"xp"`
	Level        int32              `json:"level"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
}

type UserStreak struct {
	UserID         pgtype.UUID `json:"user_id"`
	CurrentStreak  int32       `json:"current_streak"`
	LastActiveDate pgtype.Date `json:"last_active_date"`
}
