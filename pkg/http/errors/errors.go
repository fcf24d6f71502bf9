package errors

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// MaxBodyBytes caps request bodies read through DecodeJSON.
const MaxBodyBytes = 1 << 20

// requestIDHeader matches the header the logging middleware sets on every response.
const requestIDHeader = "X-Request-ID"

var ErrEmptyBody = errors.New("request body is empty")

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error     string                 `json:"error"`
	Message   string                 `json:"message"`
	Field     string                 `json:"field,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respond(w http.ResponseWriter, status int, body ErrorResponse) {
	body.RequestID = w.Header().Get(requestIDHeader)
	writeJSON(w, status, body)
}

func RespondError(w http.ResponseWriter, status int, code, message string) {
	respond(w, status, ErrorResponse{Error: code, Message: message})
}

// RespondValidationError answers 400 naming the offending field.
func RespondValidationError(w http.ResponseWriter, code, message, field string) {
	respond(w, http.StatusBadRequest, ErrorResponse{Error: code, Message: message, Field: field})
}

func RespondErrorWithDetails(w http.ResponseWriter, status int, code, message string, details map[string]interface{}) {
	respond(w, status, ErrorResponse{Error: code, Message: message, Details: details})
}

func RespondInternalError(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusInternalServerError, ErrCodeInternalError, message)
}

func RespondNotFound(w http.ResponseWriter, code, message string) {
	RespondError(w, http.StatusNotFound, code, message)
}

func RespondUnauthorized(w http.ResponseWriter, code, message string) {
	RespondError(w, http.StatusUnauthorized, code, message)
}

func RespondForbidden(w http.ResponseWriter, code, message string) {
	RespondError(w, http.StatusForbidden, code, message)
}

func RespondBadRequest(w http.ResponseWriter, code, message string) {
	RespondError(w, http.StatusBadRequest, code, message)
}

func RespondServiceUnavailable(w http.ResponseWriter, code, message string) {
	RespondError(w, http.StatusServiceUnavailable, code, message)
}

func RespondConflict(w http.ResponseWriter, code, message string) {
	RespondError(w, http.StatusConflict, code, message)
}

// RespondJSON writes a successful JSON response.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, data)
}

func RespondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// DecodeJSON reads at most MaxBodyBytes of r's body into dst.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(dst)
	if errors.Is(err, io.EOF) {
		return ErrEmptyBody
	}
	return err
}

// RespondDecodeError maps a DecodeJSON failure to 413 or 400.
func RespondDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		RespondError(w, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, "Request body too large")
	case errors.Is(err, ErrEmptyBody):
		RespondBadRequest(w, ErrCodeInvalidRequest, "Request body required")
	default:
		RespondBadRequest(w, ErrCodeInvalidRequest, "Invalid JSON payload")
	}
}
