package question

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"

	"github.com/rs/zerolog"

	"github.com/levibo0306/mentora/internal/question/external"
)

const (
	defaultDraftCount = 5
	maxDraftCount     = 20
)

var ErrGenerationUnavailable = errors.New("no question source produced drafts")

// AIGenerator produces question drafts from a topic (requires AI_GENERATOR_URL).
type AIGenerator interface {
	Generate(ctx context.Context, req GenerateRequest) ([]Draft, error)
}

type opentdbProvider interface {
	Fetch(ctx context.Context, amount int, topic, difficulty string) ([]external.OpenTDBQuestion, error)
}

type triviaProvider interface {
	Fetch(ctx context.Context, amount int, category, difficulty string) ([]external.TriviaAPIQuestion, error)
}

// ServiceOptions configures draft generation.
type ServiceOptions struct {
	Intn func(int) int
}

// Service produces question drafts, trying the AI generator first and falling back to public trivia APIs.
type Service struct {
	ai        AIGenerator
	opentdb   opentdbProvider
	triviaAPI triviaProvider
	intn      func(int) int
	logger    zerolog.Logger
}

func NewService(ai AIGenerator, opentdb opentdbProvider, trivia triviaProvider, opts ServiceOptions, logger zerolog.Logger) *Service {
	if opts.Intn == nil {
		opts.Intn = rand.IntN
	}
	return &Service{
		ai:        ai,
		opentdb:   opentdb,
		triviaAPI: trivia,
		intn:      opts.Intn,
		logger:    logger.With().Str("component", "question_generator").Logger(),
	}
}

// Generate returns up to req.Count drafts about req.Topic.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) ([]Draft, error) {
	switch {
	case req.Count <= 0:
		req.Count = defaultDraftCount
	case req.Count > maxDraftCount:
		req.Count = maxDraftCount
	}

	if s.ai != nil {
		drafts, err := s.ai.Generate(ctx, req)
		if err == nil && len(drafts) > 0 {
			return truncate(drafts, req.Count), nil
		}
		s.logger.Warn().Err(err).Str("topic", req.Topic).Msg("ai generation failed, falling back to trivia sources")
	}

	drafts := s.fetchExternal(ctx, req)
	if len(drafts) == 0 {
		return nil, ErrGenerationUnavailable
	}
	return drafts, nil
}

func (s *Service) fetchExternal(ctx context.Context, req GenerateRequest) []Draft {
	var combined []Draft
	if s.opentdb != nil {
		ot, err := s.opentdb.Fetch(ctx, req.Count, req.Topic, "")
		if err != nil {
			s.logger.Warn().Err(err).Str("topic", req.Topic).Msg("opentdb fetch failed")
		}
		for _, q := range ot {
			combined = append(combined, s.draftFrom(q.Question, q.CorrectAnswer, q.IncorrectAnswer, q.Difficulty, "opentdb"))
		}
	}
	if s.triviaAPI != nil && len(combined) < req.Count {
		tv, err := s.triviaAPI.Fetch(ctx, req.Count-len(combined), req.Topic, "")
		if err != nil {
			s.logger.Warn().Err(err).Msg("triviaapi fetch failed")
		}
		for _, q := range tv {
			combined = append(combined, s.draftFrom(q.Question, q.Correct, q.Incorrect, q.Difficulty, "triviaapi"))
		}
	}
	return truncate(combined, req.Count)
}

// draftFrom places the correct answer at a random position among the distractors.
func (s *Service) draftFrom(prompt, correct string, incorrect []string, difficulty, source string) Draft {
	options := make([]string, 0, len(incorrect)+1)
	options = append(options, incorrect...)
	pos := s.intn(len(options) + 1)
	options = append(options, "")
	copy(options[pos+1:], options[pos:])
	options[pos] = correct

	return Draft{
		Prompt:       strings.TrimSpace(prompt),
		Options:      options,
		CorrectIndex: pos,
		Difficulty:   difficultyFromLabel(difficulty),
		Source:       source,
	}
}

func difficultyFromLabel(label string) int {
	switch strings.ToLower(label) {
	case "easy":
		return 2
	case "hard":
		return 4
	default:
		return DefaultDifficulty
	}
}

func truncate(drafts []Draft, n int) []Draft {
	if len(drafts) > n {
		return drafts[:n]
	}
	return drafts
}
