package scoring

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

var (
	ErrUnknownQuestion  = errors.New("answer references a question outside the quiz")
	ErrOptionOutOfRange = errors.New("selected option is out of range")
)

// Key is the authoritative answer for a single question.
type Key struct {
	QuestionID   uuid.UUID `json:"question_id"`
	CorrectIndex int       `json:"correct_index"`
	OptionCount  int       `json:"option_count"`
}

// Outcome records whether one question was answered correctly.
type Outcome struct {
	QuestionID uuid.UUID
	Correct    bool
}

// Result is the graded form of a submission.
type Result struct {
	Correct  int
	Total    int
	Score    int
	Outcomes []Outcome
}

// Engine grades submitted answer maps against a quiz answer key.
type Engine struct{}

// NewEngine creates a scoring engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Validate rejects answers that point at unknown questions or options that do not exist.
func (e *Engine) Validate(answers map[uuid.UUID]int, key []Key) error {
	byID := make(map[uuid.UUID]Key, len(key))
	for _, k := range key {
		byID[k.QuestionID] = k
	}
	for questionID, selected := range answers {
		k, ok := byID[questionID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownQuestion, questionID)
		}
		if selected < 0 || (k.OptionCount > 0 && selected >= k.OptionCount) {
			return fmt.Errorf("%w: question %s option %d", ErrOptionOutOfRange, questionID, selected)
		}
	}
	return nil
}

// Score compares answers with the key. Questions missing from answers count as incorrect.
func (e *Engine) Score(answers map[uuid.UUID]int, key []Key) Result {
	res := Result{
		Total:    len(key),
		Outcomes: make([]Outcome, 0, len(key)),
	}
	for _, k := range key {
		selected, ok := answers[k.QuestionID]
		correct := ok && selected == k.CorrectIndex
		if correct {
			res.Correct++
		}
		res.Outcomes = append(res.Outcomes, Outcome{QuestionID: k.QuestionID, Correct: correct})
	}
	res.Score = Percent(res.Correct, res.Total)
	return res
}

// Percent returns round(correct/total*100), or 0 for an empty quiz.
func Percent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}
