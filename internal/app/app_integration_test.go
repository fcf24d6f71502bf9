//go:build integration

package app_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests drive a running API at INTEGRATION_BASE_URL with migrations applied.

type session struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
}

func baseURL(t *testing.T) string {
	t.Helper()
	url := os.Getenv("INTEGRATION_BASE_URL")
	if url == "" {
		t.Skip("INTEGRATION_BASE_URL not set")
	}
	return url
}

func call(t *testing.T, method, url, token string, body interface{}, out interface{}) int {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func register(t *testing.T, base, role string) session {
	t.Helper()
	var s session
	status := call(t, http.MethodPost, base+"/v1/auth/register", "", map[string]string{
		"email":    fmt.Sprintf("%s-%d@example.com", role, time.Now().UnixNano()),
		"password": "secret123",
		"role":     role,
	}, &s)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, s.Token)
	return s
}

func TestHealthz(t *testing.T) {
	base := baseURL(t)
	assert.Equal(t, http.StatusOK, call(t, http.MethodGet, base+"/healthz", "", nil, nil))
	assert.Equal(t, http.StatusOK, call(t, http.MethodGet, base+"/v1/ping", "", nil, nil))
}

func TestQuizAttemptJourney(t *testing.T) {
	base := baseURL(t)
	teacher := register(t, base, "teacher")
	student := register(t, base, "student")

	var quiz struct {
		ID string `json:"id"`
	}
	require.Equal(t, http.StatusCreated, call(t, http.MethodPost, base+"/v1/quizzes", teacher.Token,
		map[string]string{"title": "Fővárosok"}, &quiz))

	var q1, q2 struct {
		ID string `json:"id"`
	}
	require.Equal(t, http.StatusCreated, call(t, http.MethodPost, base+"/v1/quizzes/"+quiz.ID+"/questions", teacher.Token,
		map[string]interface{}{"prompt": "Magyarország fővárosa?", "options": []string{"Budapest", "Debrecen"}, "correct_index": 0}, &q1))
	require.Equal(t, http.StatusCreated, call(t, http.MethodPost, base+"/v1/quizzes/"+quiz.ID+"/questions", teacher.Token,
		map[string]interface{}{"prompt": "Ausztria fővárosa?", "options": []string{"Graz", "Bécs"}, "correct_index": 1}, &q2))

	var result struct {
		Score    int `json:"score"`
		Correct  int `json:"correct"`
		Total    int `json:"total"`
		XPGained int `json:"xp_gained"`
	}
	require.Equal(t, http.StatusOK, call(t, http.MethodPost, base+"/v1/quizzes/"+quiz.ID+"/attempt", student.Token,
		map[string]interface{}{"answers": map[string]int{q1.ID: 0, q2.ID: 0}}, &result))
	assert.Equal(t, 50, result.Score)
	assert.Equal(t, 1, result.Correct)
	assert.Equal(t, 2, result.Total)
	assert.Positive(t, result.XPGained)

	var overview struct {
		Role  string `json:"role"`
		XP    int    `json:"xp"`
		Level int    `json:"level"`
	}
	require.Equal(t, http.StatusOK, call(t, http.MethodGet, base+"/v1/users/me/overview", student.Token, nil, &overview))
	assert.Equal(t, "student", overview.Role)
	assert.GreaterOrEqual(t, overview.XP, result.XPGained)

	var board struct {
		Top []struct {
			UserID string `json:"user_id"`
		} `json:"top"`
	}
	require.Equal(t, http.StatusOK, call(t, http.MethodGet, base+"/v1/leaderboards/daily?limit=100", "", nil, &board))
	var found bool
	for _, e := range board.Top {
		found = found || e.UserID == student.User.ID
	}
	assert.True(t, found)

	var stats struct {
		Summary struct {
			TotalAttempts int `json:"total_attempts"`
		} `json:"summary"`
	}
	require.Equal(t, http.StatusOK, call(t, http.MethodGet, base+"/v1/quizzes/"+quiz.ID+"/stats", teacher.Token, nil, &stats))
	assert.Equal(t, 1, stats.Summary.TotalAttempts)
	assert.Equal(t, http.StatusForbidden, call(t, http.MethodGet, base+"/v1/quizzes/"+quiz.ID+"/stats", student.Token, nil, nil))

	var shared struct {
		Tokens []struct {
			Token string `json:"token"`
		} `json:"tokens"`
	}
	require.Equal(t, http.StatusOK, call(t, http.MethodPost, base+"/v1/quizzes/"+quiz.ID+"/share", teacher.Token, nil, &shared))
	require.Len(t, shared.Tokens, 1)

	var anon struct {
		Score int `json:"score"`
		Max   int `json:"max"`
	}
	require.Equal(t, http.StatusOK, call(t, http.MethodPost, base+"/v1/share/"+shared.Tokens[0].Token+"/submit", "",
		map[string]interface{}{"answers": map[string]int{q1.ID: 0, q2.ID: 1}}, &anon))
	assert.Equal(t, 2, anon.Score)
	assert.Equal(t, 2, anon.Max)
}

func TestLogoutRevokesToken(t *testing.T) {
	base := baseURL(t)
	s := register(t, base, "student")

	require.Equal(t, http.StatusOK, call(t, http.MethodGet, base+"/v1/auth/me", s.Token, nil, nil))
	require.Equal(t, http.StatusNoContent, call(t, http.MethodPost, base+"/v1/auth/logout", s.Token, nil, nil))
	assert.Equal(t, http.StatusUnauthorized, call(t, http.MethodGet, base+"/v1/auth/me", s.Token, nil, nil))
}
