package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/levibo0306/mentora/internal/attempt"
	"github.com/levibo0306/mentora/internal/auth"
	"github.com/levibo0306/mentora/internal/config"
	"github.com/levibo0306/mentora/internal/dashboard"
	"github.com/levibo0306/mentora/internal/leaderboard"
	"github.com/levibo0306/mentora/internal/logging"
	"github.com/levibo0306/mentora/internal/metrics"
	"github.com/levibo0306/mentora/internal/quiz"
	httperrors "github.com/levibo0306/mentora/pkg/http/errors"
)

// HealthCheck probes one upstream dependency.
type HealthCheck func(ctx context.Context) error

// Handlers groups the feature handlers mounted on the API mux. Nil groups are skipped.
type Handlers struct {
	Auth        *auth.HTTPHandlers
	Quiz        *quiz.HTTPHandler
	Attempt     *attempt.HTTPHandler
	Dashboard   *dashboard.HTTPHandler
	Leaderboard *leaderboard.HTTPHandler
}

// Deps carries the cross-cutting pieces of the HTTP stack.
type Deps struct {
	AuthService *auth.Service
	Metrics     *metrics.Metrics
	Checks      map[string]HealthCheck
}

type router struct {
	mux     *http.ServeMux
	metrics *metrics.Metrics
}

func (rt *router) handle(pattern string, h http.HandlerFunc) {
	rt.mux.Handle(pattern, rt.metrics.Middleware(pattern, h))
}

func (rt *router) handleAuthed(pattern string, h http.HandlerFunc) {
	rt.mux.Handle(pattern, rt.metrics.Middleware(pattern, auth.RequireAuth(h)))
}

// NewHandler builds the API mux wrapped in CORS, access logging and token parsing.
func NewHandler(cfg *config.App, logger zerolog.Logger, deps Deps, h Handlers) http.Handler {
	rt := &router{mux: http.NewServeMux(), metrics: deps.Metrics}

	rt.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		httperrors.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	rt.mux.Handle("GET /metrics", promhttp.Handler())
	rt.handle("GET /v1/ping", func(w http.ResponseWriter, r *http.Request) {
		if err := pingDependencies(r.Context(), deps.Checks); err != nil {
			logger := logging.FromContext(r.Context())
			logger.Error().Err(err).Msg("dependency ping failed")
			httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeUpstreamError, "Upstream unavailable")
			return
		}
		httperrors.RespondJSON(w, http.StatusOK, map[string]bool{"pong": true})
	})

	if a := h.Auth; a != nil {
		rt.handle("POST /v1/auth/register", a.Register)
		rt.handle("POST /v1/auth/login", a.Login)
		rt.handle("POST /v1/auth/refresh", a.RefreshToken)
		rt.handleAuthed("POST /v1/auth/logout", a.Logout)
		rt.handleAuthed("GET /v1/auth/me", a.Me)
		rt.handle("GET /v1/oauth/{provider}/start", a.OAuthStart)
		rt.handle("GET /v1/oauth/{provider}/callback", a.OAuthCallback)
	}

	if q := h.Quiz; q != nil {
		rt.handleAuthed("GET /v1/quizzes", q.List)
		rt.handleAuthed("POST /v1/quizzes", q.Create)
		rt.handleAuthed("POST /v1/quizzes/generate-ai", q.Generate)
		rt.handleAuthed("GET /v1/quizzes/{id}", q.Get)
		rt.handleAuthed("PUT /v1/quizzes/{id}", q.Update)
		rt.handleAuthed("DELETE /v1/quizzes/{id}", q.Delete)
		rt.handleAuthed("GET /v1/quizzes/{id}/questions", q.Questions)
		rt.handleAuthed("POST /v1/quizzes/{id}/questions", q.AddQuestion)
		rt.handleAuthed("GET /v1/quizzes/{id}/stats", q.Stats)
		rt.handleAuthed("POST /v1/quizzes/{id}/share", q.Share)
		rt.handle("GET /v1/share/{token}", q.Shared)
	}

	if at := h.Attempt; at != nil {
		rt.handleAuthed("POST /v1/quizzes/{id}/attempt", at.Submit)
		rt.handle("POST /v1/share/{token}/submit", at.SubmitShared)
	}

	if d := h.Dashboard; d != nil {
		rt.handleAuthed("GET /v1/users/me/overview", d.Overview)
		rt.handleAuthed("GET /v1/users/me/missions", d.Missions)
	}

	if lb := h.Leaderboard; lb != nil {
		rt.handle("GET /v1/leaderboards/{window}", lb.HandleGet)
	}

	var handler http.Handler = rt.mux
	if deps.AuthService != nil {
		handler = auth.AuthMiddleware(deps.AuthService, logger)(handler)
	}
	handler = logging.Middleware(logger)(handler)
	return CORS(cfg.CORS)(handler)
}

// NewHTTPServer wires every API route behind the shared middleware chain.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, deps Deps, h Handlers) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewHandler(cfg, logger, deps, h),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func pingDependencies(ctx context.Context, checks map[string]HealthCheck) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	for name, check := range checks {
		if err := check(ctx); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}
