package question

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levibo0306/mentora/internal/question/external"
)

type stubAI struct {
	drafts []Draft
	err    error
	got    GenerateRequest
}

func (s *stubAI) Generate(_ context.Context, req GenerateRequest) ([]Draft, error) {
	s.got = req
	return s.drafts, s.err
}

type stubOpentdb struct {
	questions []external.OpenTDBQuestion
	err       error
	topic     string
}

func (s *stubOpentdb) Fetch(_ context.Context, amount int, topic, _ string) ([]external.OpenTDBQuestion, error) {
	s.topic = topic
	if s.err != nil {
		return nil, s.err
	}
	return s.questions[:min(amount, len(s.questions))], nil
}

type stubTrivia struct {
	questions []external.TriviaAPIQuestion
	topic     string
}

func (s *stubTrivia) Fetch(_ context.Context, amount int, topic, _ string) ([]external.TriviaAPIQuestion, error) {
	s.topic = topic
	return s.questions[:min(amount, len(s.questions))], nil
}

func firstSlot(int) int { return 0 }

func TestService_GenerateUsesAIFirst(t *testing.T) {
	ai := &stubAI{drafts: []Draft{
		{Prompt: "a", Options: []string{"x", "y"}, Source: "ai"},
		{Prompt: "b", Options: []string{"x", "y"}, Source: "ai"},
	}}
	svc := NewService(ai, &stubOpentdb{}, &stubTrivia{}, ServiceOptions{Intn: firstSlot}, zerolog.New(io.Discard))

	got, err := svc.Generate(context.Background(), GenerateRequest{Topic: "history", Count: 1})

	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Prompt)
	assert.Equal(t, "history", ai.got.Topic)
}

func TestService_GenerateDefaultsAndCapsCount(t *testing.T) {
	ai := &stubAI{drafts: []Draft{{Prompt: "a", Options: []string{"x", "y"}}}}
	svc := NewService(ai, nil, nil, ServiceOptions{}, zerolog.New(io.Discard))

	_, err := svc.Generate(context.Background(), GenerateRequest{Topic: "x"})
	require.NoError(t, err)
	assert.Equal(t, defaultDraftCount, ai.got.Count)

	_, err = svc.Generate(context.Background(), GenerateRequest{Topic: "x", Count: 500})
	require.NoError(t, err)
	assert.Equal(t, maxDraftCount, ai.got.Count)
}

func TestService_GenerateFallsBackToOpenTDB(t *testing.T) {
	ai := &stubAI{err: errors.New("timeout")}
	otdb := &stubOpentdb{questions: []external.OpenTDBQuestion{{
		Difficulty:      "hard",
		Question:        "What is 2+2?",
		CorrectAnswer:   "4",
		IncorrectAnswer: []string{"3", "5", "22"},
	}}}
	svc := NewService(ai, otdb, &stubTrivia{}, ServiceOptions{Intn: func(n int) int { return n - 1 }}, zerolog.New(io.Discard))

	got, err := svc.Generate(context.Background(), GenerateRequest{Topic: "math", Count: 1})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "What is 2+2?", got[0].Prompt)
	assert.Equal(t, []string{"3", "5", "22", "4"}, got[0].Options)
	assert.Equal(t, 3, got[0].CorrectIndex)
	assert.Equal(t, 4, got[0].Difficulty)
	assert.Equal(t, "opentdb", got[0].Source)
	assert.Equal(t, "math", otdb.topic)
}

func TestService_GenerateTopsUpFromTriviaAPI(t *testing.T) {
	otdb := &stubOpentdb{questions: []external.OpenTDBQuestion{{
		Difficulty: "easy", Question: "Q1", CorrectAnswer: "A", IncorrectAnswer: []string{"B"},
	}}}
	trivia := &stubTrivia{questions: []external.TriviaAPIQuestion{
		{Question: "Q2", Correct: "C", Incorrect: []string{"D", "E"}, Difficulty: "medium"},
		{Question: "Q3", Correct: "F", Incorrect: []string{"G"}, Difficulty: "easy"},
	}}
	svc := NewService(nil, otdb, trivia, ServiceOptions{Intn: firstSlot}, zerolog.New(io.Discard))

	got, err := svc.Generate(context.Background(), GenerateRequest{Topic: "Art History", Count: 3})

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 2, got[0].Difficulty)
	assert.Equal(t, []string{"C", "D", "E"}, got[1].Options)
	assert.Equal(t, 0, got[1].CorrectIndex)
	assert.Equal(t, DefaultDifficulty, got[1].Difficulty)
	assert.Equal(t, "triviaapi", got[2].Source)
	assert.Equal(t, "Art History", trivia.topic)
}

func TestService_GenerateUnavailable(t *testing.T) {
	svc := NewService(&stubAI{err: errors.New("down")}, &stubOpentdb{err: errors.New("down")}, &stubTrivia{}, ServiceOptions{}, zerolog.New(io.Discard))

	_, err := svc.Generate(context.Background(), GenerateRequest{Topic: "x", Count: 2})

	assert.ErrorIs(t, err, ErrGenerationUnavailable)
}
