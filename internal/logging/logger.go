package logging

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestIDHeader carries the id assigned to each request.
const RequestIDHeader = "X-Request-ID"

// FromContext returns the logger stored in context, or a no-op logger.
func FromContext(ctx context.Context) zerolog.Logger {
	if ctx == nil {
		return zerolog.Nop()
	}
	if logger, ok := ctx.Value(loggerKey{}).(zerolog.Logger); ok {
		return logger
	}
	return zerolog.Nop()
}

type loggerKey struct{}

// New builds the process logger. Production gets JSON lines; other environments
// get the console writer.
func New(appName, env string) zerolog.Logger {
	var logger zerolog.Logger
	if env == "production" {
		logger = zerolog.New(os.Stdout)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339Nano,
		})
	}
	return logger.With().
		Timestamp().
		Str("app", appName).
		Str("env", env).
		Logger()
}

// IntoContext injects a logger into context for downstream use.
func IntoContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Middleware tags each request with an id, stores a request-scoped logger in
// the context and writes one access log line when the handler returns.
func Middleware(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := r.Header.Get(RequestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, reqID)

			reqLogger := logger.With().Str("request_id", reqID).Logger()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r.WithContext(IntoContext(r.Context(), reqLogger)))

			event := reqLogger.Info()
			if sw.status >= http.StatusInternalServerError {
				event = reqLogger.Error()
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", sw.status).
				Int("bytes", sw.bytes).
				Dur("duration", time.Since(start)).
				Msg("http request")
		})
	}
}
