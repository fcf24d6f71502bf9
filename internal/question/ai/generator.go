package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/xeipuuv/gojsonschema"

	"github.com/levibo0306/mentora/internal/question"
)

// Config holds connection details for the AI generator service.
type Config struct {
	GeneratorURL string
	GeneratorKey string
	Timeout      time.Duration
}

// Generator implements question.AIGenerator.
type Generator struct {
	httpClient  *http.Client
	config      Config
	logger      zerolog.Logger
	generateURL string
}

func NewGenerator(cfg Config, logger zerolog.Logger) *Generator {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 6 * time.Second
	}
	base := strings.TrimSuffix(cfg.GeneratorURL, "/")

	return &Generator{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		config:      cfg,
		logger:      logger.With().Str("component", "ai_generator").Logger(),
		generateURL: base + "/generate",
	}
}

// Generate synchronously requests question drafts for a topic.
func (g *Generator) Generate(ctx context.Context, req question.GenerateRequest) ([]question.Draft, error) {
	if g.config.GeneratorURL == "" {
		return nil, fmt.Errorf("generator endpoint not configured")
	}

	body, err := json.Marshal(generatorRequest{Topic: req.Topic, Count: req.Count})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.generateURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if g.config.GeneratorKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+g.config.GeneratorKey)
	}

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("generator returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("read generator payload: %w", err)
	}
	if err := validatePayload(raw); err != nil {
		return nil, err
	}

	var genResp generatorResponse
	if err := json.Unmarshal(raw, &genResp); err != nil {
		return nil, fmt.Errorf("decode generator payload: %w", err)
	}

	drafts := make([]question.Draft, 0, len(genResp.Questions))
	for _, q := range genResp.Questions {
		d, ok := normalizeAIQuestion(q)
		if !ok {
			g.logger.Debug().Str("prompt", q.Prompt).Msg("dropping malformed generated question")
			continue
		}
		drafts = append(drafts, d)
	}

	if len(drafts) == 0 {
		return nil, fmt.Errorf("generator returned empty question set")
	}
	return drafts, nil
}

// normalizeAIQuestion resolves the answer text to an option index, appending it when missing.
func normalizeAIQuestion(q aiQuestion) (question.Draft, bool) {
	prompt := strings.TrimSpace(q.Prompt)
	if prompt == "" || q.Answer == "" {
		return question.Draft{}, false
	}
	options := append([]string(nil), q.Options...)
	correct := -1
	for i, opt := range options {
		if strings.EqualFold(strings.TrimSpace(opt), strings.TrimSpace(q.Answer)) {
			correct = i
			break
		}
	}
	if correct < 0 {
		options = append(options, q.Answer)
		correct = len(options) - 1
	}
	if len(options) < 2 {
		return question.Draft{}, false
	}

	difficulty := q.Difficulty
	if difficulty < question.MinDifficulty || difficulty > question.MaxDifficulty {
		difficulty = question.DefaultDifficulty
	}

	return question.Draft{
		Prompt:       prompt,
		Options:      options,
		CorrectIndex: correct,
		Explanation:  q.Explanation,
		Difficulty:   difficulty,
		Source:       "ai",
	}, true
}

const maxPayloadBytes = 1 << 20

// responseSchema pins the envelope and field types. Item content is checked by
// normalizeAIQuestion, which drops unusable questions one by one.
const responseSchema = `{
  "type": "object",
  "required": ["questions"],
  "properties": {
    "questions": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "prompt": {"type": "string"},
          "options": {"type": ["array", "null"], "items": {"type": "string"}},
          "answer": {"type": "string"},
          "explanation": {"type": "string"},
          "difficulty": {"type": "integer"}
        }
      }
    }
  }
}`

var responseSchemaLoader = gojsonschema.NewStringLoader(responseSchema)

func validatePayload(raw []byte) error {
	result, err := gojsonschema.Validate(responseSchemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("validate generator payload: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("generator payload failed schema validation: %s", strings.Join(msgs, "; "))
	}
	return nil
}

type generatorRequest struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

type aiQuestion struct {
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
	Difficulty  int      `json:"difficulty"`
}

type generatorResponse struct {
	Questions []aiQuestion `json:"questions"`
}
