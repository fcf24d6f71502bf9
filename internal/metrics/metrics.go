package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the application's Prometheus collectors. A nil *Metrics is a no-op.
type Metrics struct {
	attempts          *prometheus.CounterVec
	xpGranted         *prometheus.CounterVec
	missionsGenerated *prometheus.CounterVec
	missionsCompleted *prometheus.CounterVec
	difficultyChanges *prometheus.CounterVec
	requestCounter    *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mentora_attempts_total",
			Help: "Scored quiz attempts by source",
		}, []string{"source"}),
		xpGranted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mentora_xp_granted_total",
			Help: "Experience points granted by reason",
		}, []string{"reason"}),
		missionsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mentora_mission_sets_generated_total",
			Help: "Daily mission sets generated by tier",
		}, []string{"tier"}),
		missionsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mentora_missions_completed_total",
			Help: "Daily missions completed by type",
		}, []string{"type"}),
		difficultyChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mentora_question_difficulty_changes_total",
			Help: "Adaptive difficulty relabels by direction",
		}, []string{"direction"}),
		requestCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		}, []string{"method", "endpoint"}),
	}
	if reg != nil {
		reg.MustRegister(
			m.attempts,
			m.xpGranted,
			m.missionsGenerated,
			m.missionsCompleted,
			m.difficultyChanges,
			m.requestCounter,
			m.requestDuration,
		)
	}
	return m
}

func (m *Metrics) AttemptScored(source string) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(source).Inc()
}

func (m *Metrics) XPGranted(reason string, amount int) {
	if m == nil || amount <= 0 {
		return
	}
	m.xpGranted.WithLabelValues(reason).Add(float64(amount))
}

func (m *Metrics) MissionSetGenerated(tier string) {
	if m == nil {
		return
	}
	m.missionsGenerated.WithLabelValues(tier).Inc()
}

func (m *Metrics) MissionCompleted(missionType string) {
	if m == nil {
		return
	}
	m.missionsCompleted.WithLabelValues(missionType).Inc()
}

// DifficultyChanged records a relabel; direction is "easier" or "harder".
func (m *Metrics) DifficultyChanged(direction string) {
	if m == nil {
		return
	}
	m.difficultyChanges.WithLabelValues(direction).Inc()
}

// Middleware records request counts and latency. endpoint should be the route pattern, not the raw path.
func (m *Metrics) Middleware(endpoint string, next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		m.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rec.status)).Inc()
		m.requestDuration.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
