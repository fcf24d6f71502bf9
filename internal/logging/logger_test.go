package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContextWithoutLogger(t *testing.T) {
	logger := FromContext(context.Background())
	assert.Equal(t, zerolog.Disabled, logger.GetLevel())
}

func TestMiddlewareLogsRequest(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	var sawLogger bool
	h := Middleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawLogger = FromContext(r.Context()).GetLevel() != zerolog.Disabled
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("tea"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.True(t, sawLogger)
	assert.Equal(t, "req-1", rec.Header().Get(RequestIDHeader))

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "/v1/ping", line["path"])
	assert.Equal(t, float64(http.StatusTeapot), line["status"])
	assert.Equal(t, float64(3), line["bytes"])
	assert.Equal(t, "info", line["level"])
}

func TestMiddlewareAssignsRequestID(t *testing.T) {
	h := Middleware(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
}
