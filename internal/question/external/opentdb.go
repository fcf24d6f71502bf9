package external

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	ErrNoResults   = errors.New("opentdb: not enough questions for the query")
	ErrRateLimited = errors.New("trivia provider rate limited")
)

// OpenTDBClient fetches multiple-choice questions from the Open Trivia DB (no API key).
// Returned text is already decoded.
type OpenTDBClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewOpenTDBClient(baseURL string, httpClient *http.Client) *OpenTDBClient {
	if baseURL == "" {
		baseURL = "https://opentdb.com"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &OpenTDBClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

type OpenTDBQuestion struct {
	Category        string   `json:"category"`
	Difficulty      string   `json:"difficulty"`
	Question        string   `json:"question"`
	CorrectAnswer   string   `json:"correct_answer"`
	IncorrectAnswer []string `json:"incorrect_answers"`
}

type openTDBResponse struct {
	ResponseCode int               `json:"response_code"`
	Results      []OpenTDBQuestion `json:"results"`
}

// Fetch returns up to amount questions about topic. When the topic's category
// cannot fill the request, it retries once across all categories.
func (c *OpenTDBClient) Fetch(ctx context.Context, amount int, topic, difficulty string) ([]OpenTDBQuestion, error) {
	category := lookupTopic(topic).openTDB
	qs, err := c.fetch(ctx, amount, category, difficulty)
	if errors.Is(err, ErrNoResults) && category != 0 {
		qs, err = c.fetch(ctx, amount, 0, difficulty)
	}
	if err != nil {
		return nil, err
	}
	for i := range qs {
		decodeQuestion(&qs[i])
	}
	return qs, nil
}

func (c *OpenTDBClient) fetch(ctx context.Context, amount, category int, difficulty string) ([]OpenTDBQuestion, error) {
	values := url.Values{}
	values.Set("amount", strconv.Itoa(amount))
	values.Set("type", "multiple")
	values.Set("encode", "url3986")
	if category > 0 {
		values.Set("category", strconv.Itoa(category))
	}
	if difficulty != "" {
		values.Set("difficulty", difficulty)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api.php?"+values.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("opentdb non-200: %d", resp.StatusCode)
	}

	var payload openTDBResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode opentdb payload: %w", err)
	}
	switch payload.ResponseCode {
	case 0:
		return payload.Results, nil
	case 1:
		return nil, ErrNoResults
	case 5:
		return nil, ErrRateLimited
	default:
		return nil, fmt.Errorf("opentdb response code %d", payload.ResponseCode)
	}
}

func decodeQuestion(q *OpenTDBQuestion) {
	q.Category = unescape(q.Category)
	q.Question = unescape(q.Question)
	q.CorrectAnswer = unescape(q.CorrectAnswer)
	for i, a := range q.IncorrectAnswer {
		q.IncorrectAnswer[i] = unescape(a)
	}
}

func unescape(s string) string {
	out, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return out
}
