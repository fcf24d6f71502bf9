package attempt

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/levibo0306/mentora/internal/auth"
	"github.com/levibo0306/mentora/internal/auth/jwt"
	httperrors "github.com/levibo0306/mentora/pkg/http/errors"
)

func newMux(h *HTTPHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/quizzes/{id}/attempt", h.Submit)
	mux.HandleFunc("POST /v1/share/{token}/submit", h.SubmitShared)
	return mux
}

func TestSubmit_RequiresAuth(t *testing.T) {
	f := newFixture(t)
	mux := newMux(NewHTTPHandler(f.svc, zerolog.Nop()))

	req := httptest.NewRequest(http.MethodPost, "/v1/quizzes/"+f.quizID.String()+"/attempt", strings.NewReader(`{"answers":{}}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSubmit_ScoresForSignedInUser(t *testing.T) {
	f := newFixture(t)
	mux := newMux(NewHTTPHandler(f.svc, zerolog.Nop()))
	f.store.On("CreateAttempt", mock.Anything, mock.Anything).Return(Record{ID: uuid.New()}, nil)

	body := `{"answers":{"` + f.q1.String() + `":1,"` + f.q2.String() + `":0}}`
	req := httptest.NewRequest(http.MethodPost, "/v1/quizzes/"+f.quizID.String()+"/attempt", strings.NewReader(body))
	req = req.WithContext(auth.WithClaims(req.Context(), &jwt.Claims{UserID: uuid.New(), Role: auth.RoleStudent}))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var res Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 100, res.Score)
	assert.Equal(t, 10, res.XPGained)
	assert.NotNil(t, res.MissionsCompleted)
}

func TestSubmit_BadPayloads(t *testing.T) {
	f := newFixture(t)
	mux := newMux(NewHTTPHandler(f.svc, zerolog.Nop()))
	claims := &jwt.Claims{UserID: uuid.New(), Role: auth.RoleStudent}

	cases := []struct {
		name string
		path string
		body string
		want int
	}{
		{"bad quiz id", "/v1/quizzes/nope/attempt", `{"answers":{}}`, http.StatusBadRequest},
		{"non uuid answer key", "/v1/quizzes/" + f.quizID.String() + "/attempt", `{"answers":{"x":1}}`, http.StatusBadRequest},
		{"unknown question", "/v1/quizzes/" + f.quizID.String() + "/attempt", `{"answers":{"` + uuid.NewString() + `":1}}`, http.StatusBadRequest},
		{"unknown quiz", "/v1/quizzes/" + uuid.NewString() + "/attempt", `{"answers":{}}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tc.path, strings.NewReader(tc.body))
			req = req.WithContext(auth.WithClaims(req.Context(), claims))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestSubmitShared_Responses(t *testing.T) {
	f := newFixture(t)
	mux := newMux(NewHTTPHandler(f.svc, zerolog.Nop()))
	f.store.On("CreateAttempt", mock.Anything, mock.Anything).Return(Record{ID: uuid.New()}, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/share/unknown-token/submit", strings.NewReader(`{"answers":{}}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	body := `{"answers":{"` + f.q1.String() + `":1}}`
	req = httptest.NewRequest(http.MethodPost, "/v1/share/tok-abcdefgh/submit", strings.NewReader(body))
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"score":1,"max":2}`, rec.Body.String())
}

func TestSubmit_BodyErrors(t *testing.T) {
	f := newFixture(t)
	mux := newMux(NewHTTPHandler(f.svc, zerolog.Nop()))
	claims := &jwt.Claims{UserID: uuid.New(), Role: auth.RoleStudent}
	oversized := `{"answers":{},"tz_offset":"` + strings.Repeat("0", 2<<20) + `"}`

	cases := []struct {
		name   string
		body   string
		status int
		code   string
		field  string
	}{
		{"missing answers", `{}`, http.StatusBadRequest, httperrors.ErrCodeValidationFailed, "answers"},
		{"null answers", `{"answers":null}`, http.StatusBadRequest, httperrors.ErrCodeValidationFailed, "answers"},
		{"empty body", ``, http.StatusBadRequest, httperrors.ErrCodeInvalidRequest, ""},
		{"malformed", `{"answers":`, http.StatusBadRequest, httperrors.ErrCodeInvalidRequest, ""},
		{"oversized", oversized, http.StatusRequestEntityTooLarge, httperrors.ErrCodePayloadTooLarge, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/quizzes/"+f.quizID.String()+"/attempt", strings.NewReader(tc.body))
			req = req.WithContext(auth.WithClaims(req.Context(), claims))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			require.Equal(t, tc.status, rec.Code)
			var body httperrors.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body.Error)
			assert.Equal(t, tc.field, body.Field)
		})
	}
	assert.Empty(t, f.updater.applied)
	assert.Empty(t, f.xp.grants)
	assert.Empty(t, f.streaks.days)
	f.store.AssertNotCalled(t, "CreateAttempt", mock.Anything, mock.Anything)
}

func TestSubmitShared_MissingAnswers(t *testing.T) {
	f := newFixture(t)
	mux := newMux(NewHTTPHandler(f.svc, zerolog.Nop()))

	req := httptest.NewRequest(http.MethodPost, "/v1/share/tok-abcdefgh/submit", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, f.updater.applied)
	f.store.AssertNotCalled(t, "CreateAttempt", mock.Anything, mock.Anything)
}
