package attempt

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/levibo0306/mentora/internal/auth"
	"github.com/levibo0306/mentora/internal/gamification"
	"github.com/levibo0306/mentora/internal/quiz"
	"github.com/levibo0306/mentora/internal/validation"
	httperrors "github.com/levibo0306/mentora/pkg/http/errors"
)

// HTTPHandler exposes the attempt endpoints.
type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:    svc,
		logger: logger.With().Str("component", "attempt_http").Logger(),
	}
}

func decodeSubmission(w http.ResponseWriter, r *http.Request) (Submission, bool) {
	var sub Submission
	if err := httperrors.DecodeJSON(w, r, &sub); err != nil {
		httperrors.RespondDecodeError(w, err)
		return Submission{}, false
	}
	return sub, true
}

// Submit handles POST /v1/quizzes/{id}/attempt
func (h *HTTPHandler) Submit(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	quizID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidID, "Invalid quiz id")
		return
	}

	sub, ok := decodeSubmission(w, r)
	if !ok {
		return
	}

	result, err := h.svc.ScoreAttempt(r.Context(), quizID, claims.UserID, sub.Answers, gamification.RequestOffset(r, sub.TZOffset))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, result)
}

// SubmitShared handles POST /v1/share/{token}/submit. Authentication is optional.
func (h *HTTPHandler) SubmitShared(w http.ResponseWriter, r *http.Request) {
	sub, ok := decodeSubmission(w, r)
	if !ok {
		return
	}

	result, err := h.svc.SubmitShared(r.Context(), r.PathValue("token"), auth.UserIDFromContext(r.Context()), sub.Answers, gamification.RequestOffset(r, sub.TZOffset))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, result)
}

func (h *HTTPHandler) respondError(w http.ResponseWriter, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, verr.Message, verr.Field)
	case errors.Is(err, quiz.ErrNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeQuizNotFound, "Quiz not found")
	case errors.Is(err, quiz.ErrShareNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeShareNotFound, "Invalid link")
	default:
		h.logger.Error().Err(err).Msg("attempt submission failed")
		httperrors.RespondInternalError(w, "Failed to submit attempt")
	}
}
