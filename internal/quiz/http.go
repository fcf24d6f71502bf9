package quiz

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/levibo0306/mentora/internal/auth"
	"github.com/levibo0306/mentora/internal/question"
	"github.com/levibo0306/mentora/internal/validation"
	httperrors "github.com/levibo0306/mentora/pkg/http/errors"
)

// HTTPHandler exposes quiz authoring and sharing endpoints.
type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:    svc,
		logger: logger.With().Str("component", "quiz_http").Logger(),
	}
}

func (h *HTTPHandler) caller(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return uuid.Nil, false
	}
	return claims.UserID, true
}

func quizID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidID, "Invalid quiz id")
		return uuid.Nil, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := httperrors.DecodeJSON(w, r, dst); err != nil {
		httperrors.RespondDecodeError(w, err)
		return false
	}
	return true
}

func (h *HTTPHandler) respondError(w http.ResponseWriter, err error, op string) {
	var (
		verr    *validation.Error
		missing *MissingRecipientsError
	)
	switch {
	case errors.As(err, &verr):
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, verr.Message, verr.Field)
	case errors.As(err, &missing):
		httperrors.RespondErrorWithDetails(w, http.StatusBadRequest, httperrors.ErrCodeMissingRecipients,
			"Some recipients not found", map[string]interface{}{"missing": missing.Emails})
	case errors.Is(err, ErrNotOwner):
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotOwner, "Not found or not yours")
	case errors.Is(err, ErrNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeQuizNotFound, "Not found")
	case errors.Is(err, ErrShareNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeShareNotFound, "Invalid link")
	case errors.Is(err, ErrForbidden):
		httperrors.RespondForbidden(w, httperrors.ErrCodeForbidden, "No permission for this quiz")
	case errors.Is(err, question.ErrGenerationUnavailable):
		httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeGenerationFailed, "Question generation failed")
	default:
		h.logger.Error().Err(err).Str("op", op).Msg("quiz request failed")
		httperrors.RespondInternalError(w, "Database error")
	}
}

// List handles GET /v1/quizzes
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}
	quizzes, err := h.svc.List(r.Context(), userID)
	if err != nil {
		h.respondError(w, err, "list")
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, quizzes)
}

// Get handles GET /v1/quizzes/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := quizID(w, r)
	if !ok {
		return
	}
	q, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err, "get")
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, q)
}

// Create handles POST /v1/quizzes
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}
	var in CreateInput
	if !decode(w, r, &in) {
		return
	}
	q, err := h.svc.Create(r.Context(), userID, in)
	if err != nil {
		h.respondError(w, err, "create")
		return
	}
	httperrors.RespondJSON(w, http.StatusCreated, q)
}

// Update handles PUT /v1/quizzes/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := quizID(w, r)
	if !ok {
		return
	}
	var in UpdateInput
	if !decode(w, r, &in) {
		return
	}
	q, err := h.svc.Update(r.Context(), id, userID, in)
	if err != nil {
		h.respondError(w, err, "update")
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, q)
}

// Delete handles DELETE /v1/quizzes/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := quizID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id, userID); err != nil {
		h.respondError(w, err, "delete")
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// AddQuestion handles POST /v1/quizzes/{id}/questions
func (h *HTTPHandler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := quizID(w, r)
	if !ok {
		return
	}
	var in QuestionInput
	if !decode(w, r, &in) {
		return
	}
	q, err := h.svc.AddQuestion(r.Context(), id, userID, in)
	if err != nil {
		h.respondError(w, err, "add_question")
		return
	}
	httperrors.RespondJSON(w, http.StatusCreated, q)
}

// Questions handles GET /v1/quizzes/{id}/questions. Only the owner sees
// answers and statistics.
func (h *HTTPHandler) Questions(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := quizID(w, r)
	if !ok {
		return
	}
	questions, owner, err := h.svc.Questions(r.Context(), id, userID)
	if err != nil {
		h.respondError(w, err, "questions")
		return
	}
	if owner {
		if questions == nil {
			questions = []question.Question{}
		}
		httperrors.RespondJSON(w, http.StatusOK, questions)
		return
	}
	public := make([]question.PublicQuestion, 0, len(questions))
	for _, q := range questions {
		public = append(public, q.Public())
	}
	httperrors.RespondJSON(w, http.StatusOK, public)
}

// Stats handles GET /v1/quizzes/{id}/stats
func (h *HTTPHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := quizID(w, r)
	if !ok {
		return
	}
	stats, err := h.svc.Stats(r.Context(), id, userID)
	if err != nil {
		h.respondError(w, err, "stats")
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, stats)
}

// Share handles POST /v1/quizzes/{id}/share
func (h *HTTPHandler) Share(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, ok := quizID(w, r)
	if !ok {
		return
	}
	var req ShareRequest
	// The body is optional: an empty one shares with no recipients.
	if err := httperrors.DecodeJSON(w, r, &req); err != nil && !errors.Is(err, httperrors.ErrEmptyBody) {
		httperrors.RespondDecodeError(w, err)
		return
	}
	tokens, err := h.svc.Share(r.Context(), id, userID, req)
	if err != nil {
		h.respondError(w, err, "share")
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, map[string]interface{}{"tokens": tokens})
}

// Generate handles POST /v1/quizzes/generate-ai
func (h *HTTPHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.caller(w, r); !ok {
		return
	}
	var req question.GenerateRequest
	if !decode(w, r, &req) {
		return
	}
	drafts, err := h.svc.Generate(r.Context(), req)
	if err != nil {
		h.respondError(w, err, "generate")
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, drafts)
}

// Shared handles GET /v1/share/{token}
func (h *HTTPHandler) Shared(w http.ResponseWriter, r *http.Request) {
	shared, err := h.svc.SharedQuiz(r.Context(), r.PathValue("token"))
	if err != nil {
		h.respondError(w, err, "shared")
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, shared)
}
