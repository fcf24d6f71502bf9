package quiz

import (
	"time"

	"github.com/google/uuid"

	"github.com/levibo0306/mentora/internal/question"
)

// Quiz modes.
const (
	ModePractice   = "practice"
	ModeAssessment = "assessment"
)

// Quiz is a titled collection of questions. A nil OwnerID marks a global template.
type Quiz struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     *uuid.UUID `json:"owner_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Mode        string     `json:"mode"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (q Quiz) OwnedBy(userID uuid.UUID) bool {
	return q.OwnerID != nil && *q.OwnerID == userID
}

// Summary is a quiz list row with aggregate counters.
type Summary struct {
	Quiz
	QuestionCount int      `json:"question_count"`
	TotalAttempts int      `json:"total_attempts"`
	AvgDifficulty *float64 `json:"avg_difficulty"`
}

type CreateInput struct {
	Title       string  `json:"title" validate:"required,max=120"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Mode        *string `json:"mode" validate:"omitempty,oneof=practice assessment"`
}

// UpdateInput is a partial update; nil fields keep their stored value.
type UpdateInput struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=120"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Mode        *string `json:"mode" validate:"omitempty,oneof=practice assessment"`
}

type QuestionInput struct {
	Prompt       string   `json:"prompt" validate:"required"`
	Options      []string `json:"options" validate:"min=2,dive,required"`
	CorrectIndex int      `json:"correct_index" validate:"gte=0"`
	Explanation  *string  `json:"explanation"`
	Difficulty   *int     `json:"difficulty" validate:"omitempty,min=1,max=5"`
}

// AttemptEntry is one attempt as shown to the quiz owner.
type AttemptEntry struct {
	ID           uuid.UUID `json:"id"`
	Score        int       `json:"score"`
	CreatedAt    time.Time `json:"created_at"`
	StudentEmail *string   `json:"student_email"`
}

type StatsSummary struct {
	AvgScore      int `json:"avg_score"`
	TotalAttempts int `json:"total_attempts"`
}

type Stats struct {
	Attempts []AttemptEntry `json:"attempts"`
	Summary  StatsSummary   `json:"summary"`
}

// Share is an opaque access token for one quiz, optionally bound to a recipient.
type Share struct {
	ID            uuid.UUID  `json:"id"`
	QuizID        uuid.UUID  `json:"quiz_id"`
	Token         string     `json:"token"`
	RecipientID   *uuid.UUID `json:"recipient_id"`
	SharedBy      *uuid.UUID `json:"shared_by"`
	AllowReshare  bool       `json:"allow_reshare"`
	ParentShareID *uuid.UUID `json:"parent_share_id"`
	CreatedAt     time.Time  `json:"created_at"`
}

type ShareRequest struct {
	Recipients   []string `json:"recipients" validate:"omitempty,max=50,dive,email"`
	AllowReshare bool     `json:"allow_reshare"`
	SourceToken  string   `json:"source_token" validate:"omitempty,min=8"`
}

type ShareToken struct {
	Token          string `json:"token"`
	RecipientEmail string `json:"recipient_email,omitempty"`
}

// Recipient is a registered user a quiz can be shared with.
type Recipient struct {
	ID    uuid.UUID
	Email string
}

type SharedQuizInfo struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
}

// SharedQuiz is the public view behind a share token.
type SharedQuiz struct {
	Quiz      SharedQuizInfo            `json:"quiz"`
	Questions []question.PublicQuestion `json:"questions"`
}
