package external

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// TriviaAPIClient reads text-choice questions from the-trivia-api.com v2.
type TriviaAPIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewTriviaAPIClient(baseURL, apiKey string, httpClient *http.Client) *TriviaAPIClient {
	if baseURL == "" {
		baseURL = "https://the-trivia-api.com/v2"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &TriviaAPIClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// TriviaAPIQuestion is one question with its prompt flattened into Question.
type TriviaAPIQuestion struct {
	ID         string   `json:"id"`
	Category   string   `json:"category"`
	Question   string   `json:"-"`
	Difficulty string   `json:"difficulty"`
	Type       string   `json:"type"`
	Correct    string   `json:"correctAnswer"`
	Incorrect  []string `json:"incorrectAnswers"`
	Prompt     struct {
		Text string `json:"text"`
	} `json:"question"`
}

// Fetch returns up to amount questions. Known topics filter by category,
// anything else is sent as a tag.
func (c *TriviaAPIClient) Fetch(ctx context.Context, amount int, topic, difficulty string) ([]TriviaAPIQuestion, error) {
	values := url.Values{}
	values.Set("limit", strconv.Itoa(amount))
	values.Set("types", "text_choice")
	if category := lookupTopic(topic).trivia; category != "" {
		values.Set("categories", category)
	} else if tag := strings.TrimSpace(strings.ToLower(topic)); tag != "" {
		values.Set("tags", strings.ReplaceAll(tag, " ", "_"))
	}
	if difficulty != "" {
		values.Set("difficulties", difficulty)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/questions?"+values.Encode(), nil)
	if err != nil {
		return nil, err
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode >= 300:
		return nil, fmt.Errorf("triviaapi non-200: %d", resp.StatusCode)
	}

	var payload []TriviaAPIQuestion
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode triviaapi payload: %w", err)
	}
	out := payload[:0]
	for _, q := range payload {
		if q.Prompt.Text == "" || q.Correct == "" || len(q.Incorrect) == 0 {
			continue
		}
		q.Question = q.Prompt.Text
		out = append(out, q)
	}
	return out, nil
}
