package dashboard

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/levibo0306/mentora/internal/auth"
	"github.com/levibo0306/mentora/internal/gamification"
	httperrors "github.com/levibo0306/mentora/pkg/http/errors"
)

// HTTPHandler serves the dashboard endpoints.
type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:    svc,
		logger: logger.With().Str("component", "dashboard_http").Logger(),
	}
}

// Overview handles GET /v1/users/me/overview
func (h *HTTPHandler) Overview(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	overview, err := h.svc.Overview(r.Context(), claims.UserID, claims.Role, gamification.RequestOffset(r, nil))
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", claims.UserID.String()).Msg("overview failed")
		httperrors.RespondInternalError(w, "Failed to load overview")
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, overview)
}

// Missions handles GET /v1/users/me/missions?limit=14
func (h *HTTPHandler) Missions(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	limit := gamification.ParseHistoryLimit(r.URL.Query().Get("limit"))
	missions, err := h.svc.Missions(r.Context(), claims.UserID, limit)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", claims.UserID.String()).Msg("mission history failed")
		httperrors.RespondInternalError(w, "Failed to load missions")
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, missions)
}
