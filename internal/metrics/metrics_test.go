package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
	}
	return total
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.AttemptScored("quiz")
		m.XPGranted("attempt", 5)
		m.MissionCompleted("streak_days")
		m.DifficultyChanged("easier")
	})
}

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.XPGranted("mission", 40)
	m.XPGranted("mission", 0)
	m.DifficultyChanged("harder")
	m.DifficultyChanged("harder")

	assert.Equal(t, 40.0, counterValue(t, reg, "mentora_xp_granted_total"))
	assert.Equal(t, 2.0, counterValue(t, reg, "mentora_question_difficulty_changes_total"))
}

func TestMiddlewareRecordsStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	h := m.Middleware("/v1/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/ping", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, 1.0, counterValue(t, reg, "http_requests_total"))
}
