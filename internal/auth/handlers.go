package auth

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/levibo0306/mentora/internal/validation"
	httperrors "github.com/levibo0306/mentora/pkg/http/errors"
)

const oauthStateCookie = "oauth_state"

// HTTPHandlers provides REST endpoints for authentication.
type HTTPHandlers struct {
	authSvc  *Service
	oauthSvc *OAuthService
	logger   zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for auth endpoints.
func NewHTTPHandlers(authSvc *Service, oauthSvc *OAuthService, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		authSvc:  authSvc,
		oauthSvc: oauthSvc,
		logger:   logger.With().Str("component", "auth_http").Logger(),
	}
}

type userView struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

func sessionBody(user *User, tokens *TokenPair) map[string]interface{} {
	return map[string]interface{}{
		"token":         tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_in":    tokens.ExpiresIn,
		"user":          userView{ID: user.ID, Email: user.Email, Role: user.Role},
	}
}

// Register handles POST /v1/auth/register
func (h *HTTPHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httperrors.DecodeJSON(w, r, &req); err != nil {
		httperrors.RespondDecodeError(w, err)
		return
	}

	user, tokens, err := h.authSvc.Register(r.Context(), req)
	if err != nil {
		var verr *validation.Error
		switch {
		case errors.As(err, &verr):
			httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, verr.Message, verr.Field)
		case errors.Is(err, ErrEmailTaken):
			httperrors.RespondConflict(w, httperrors.ErrCodeEmailTaken, "Email already registered")
		default:
			h.logger.Error().Err(err).Msg("register failed")
			httperrors.RespondInternalError(w, "Registration failed")
		}
		return
	}

	httperrors.RespondJSON(w, http.StatusCreated, sessionBody(user, tokens))
}

// Login handles POST /v1/auth/login
func (h *HTTPHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httperrors.DecodeJSON(w, r, &req); err != nil {
		httperrors.RespondDecodeError(w, err)
		return
	}

	user, tokens, err := h.authSvc.Login(r.Context(), req)
	if err != nil {
		var verr *validation.Error
		switch {
		case errors.As(err, &verr):
			httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, verr.Message, verr.Field)
		case errors.Is(err, ErrInvalidCredentials):
			httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidCredentials, "Invalid credentials")
		default:
			h.logger.Error().Err(err).Msg("login failed")
			httperrors.RespondInternalError(w, "Login failed")
		}
		return
	}

	httperrors.RespondJSON(w, http.StatusOK, sessionBody(user, tokens))
}

// RefreshToken handles POST /v1/auth/refresh
func (h *HTTPHandlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := httperrors.DecodeJSON(w, r, &req); err != nil {
		httperrors.RespondDecodeError(w, err)
		return
	}
	if req.RefreshToken == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "Refresh token required", "refresh_token")
		return
	}

	tokens, err := h.authSvc.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeRefreshFailed, "Invalid refresh token")
		return
	}

	httperrors.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"token":      tokens.AccessToken,
		"expires_in": tokens.ExpiresIn,
	})
}

// Logout handles POST /v1/auth/logout (requires auth middleware)
func (h *HTTPHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeUnauthorized, "Invalid or missing token")
		return
	}

	if err := h.authSvc.Logout(r.Context(), claims, tokenFromContext(r.Context())); err != nil {
		h.logger.Error().Err(err).Msg("logout failed")
		httperrors.RespondInternalError(w, "Logout failed")
		return
	}
	httperrors.RespondNoContent(w)
}

// Me handles GET /v1/auth/me (requires auth middleware)
func (h *HTTPHandlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeUnauthorized, "Invalid or missing token")
		return
	}

	user, err := h.authSvc.Me(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, "User not found")
			return
		}
		h.logger.Error().Err(err).Msg("load current user failed")
		httperrors.RespondInternalError(w, "Failed to load user")
		return
	}

	httperrors.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"user": user,
	})
}

// OAuthStart handles GET /v1/oauth/{provider}/start
func (h *HTTPHandlers) OAuthStart(w http.ResponseWriter, r *http.Request) {
	if !h.oauthSvc.Configured() {
		httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeOAuthNotConfigured, "OAuth is not configured")
		return
	}

	state := uuid.New().String()
	authURL, err := h.oauthSvc.StartOAuthFlow(r.PathValue("provider"), state)
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeOAuthStartFailed, err.Error())
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600,
	})

	httperrors.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"auth_url": authURL,
		"state":    state,
	})
}

// OAuthCallback handles GET /v1/oauth/{provider}/callback
func (h *HTTPHandlers) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	if !h.oauthSvc.Configured() {
		httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeOAuthNotConfigured, "OAuth is not configured")
		return
	}

	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeOAuthMissingCode, "Authorization code required")
		return
	}

	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || state == "" || cookie.Value != state {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeOAuthInvalidState, "Invalid or missing state parameter")
		return
	}

	info, err := h.oauthSvc.HandleOAuthCallback(r.Context(), r.PathValue("provider"), code)
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeOAuthCallbackFailed, err.Error())
		return
	}

	user, tokens, err := h.oauthSvc.SignIn(r.Context(), h.authSvc, info)
	if err != nil {
		h.logger.Error().Err(err).Msg("oauth sign-in failed")
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeUserCreationFailed, "OAuth sign-in failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	httperrors.RespondJSON(w, http.StatusOK, sessionBody(user, tokens))
}
