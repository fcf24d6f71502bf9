package question

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Difficulty tier bounds.
const (
	MinDifficulty     = 1
	MaxDifficulty     = 5
	DefaultDifficulty = 3
)

// ErrNotFound is returned when a question is not part of the quiz.
var ErrNotFound = errors.New("question not found")

// Question is a stored multiple-choice question.
type Question struct {
	ID              uuid.UUID `json:"id"`
	QuizID          uuid.UUID `json:"quiz_id"`
	Prompt          string    `json:"prompt"`
	Options         []string  `json:"options"`
	CorrectIndex    int       `json:"correct_index"`
	Explanation     *string   `json:"explanation"`
	Difficulty      int       `json:"difficulty"`
	TotalAttempts   int       `json:"total_attempts"`
	CorrectAttempts int       `json:"correct_attempts"`
	CreatedAt       time.Time `json:"created_at"`
}

// PublicQuestion is what quiz takers see: no answer, no statistics.
type PublicQuestion struct {
	ID      uuid.UUID `json:"id"`
	Prompt  string    `json:"prompt"`
	Options []string  `json:"options"`
}

func (q Question) Public() PublicQuestion {
	return PublicQuestion{ID: q.ID, Prompt: q.Prompt, Options: q.Options}
}

// Draft is a generated question suggestion that has not been stored.
type Draft struct {
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation,omitempty"`
	Difficulty   int      `json:"difficulty"`
	Source       string   `json:"source"`
}

// GenerateRequest asks for Count question drafts about Topic.
type GenerateRequest struct {
	Topic string `json:"topic" validate:"required,max=200"`
	Count int    `json:"count" validate:"gte=0,lte=20"`
}
