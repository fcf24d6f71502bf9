package leaderboard

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	httperrors "github.com/levibo0306/mentora/pkg/http/errors"
)

// HTTPHandler exposes REST endpoints for leaderboard queries.
type HTTPHandler struct {
	svc       topSource
	snapshots SnapshotStore
	logger    zerolog.Logger
}

// NewHTTPHandler constructs a leaderboard HTTP handler.
func NewHTTPHandler(svc *Service, snapshots SnapshotStore, logger zerolog.Logger) *HTTPHandler {
	h := &HTTPHandler{
		snapshots: snapshots,
		logger:    logger.With().Str("component", "leaderboard_http").Logger(),
	}
	if svc != nil {
		h.svc = svc
	}
	return h
}

// HandleGet responds with the current leaderboard for a given window.
// Route: GET /v1/leaderboards/{window}?limit=10
func (h *HTTPHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	window := r.PathValue("window")
	if !IsValidWindow(window) {
		httperrors.RespondNotFound(w, httperrors.ErrCodeUnknownWindow, "Unknown leaderboard window")
		return
	}

	limit := parseLimit(r.URL.Query().Get("limit"), 10, 100)

	ctx := r.Context()
	var (
		top    []Entry
		source = "redis"
	)

	if h.svc != nil {
		if entries, err := h.svc.Top(ctx, window, limit); err == nil {
			top = entries
		} else {
			h.logger.Warn().Err(err).Str("window", window).Msg("redis leaderboard fetch failed")
		}
	}

	if len(top) == 0 {
		source = "snapshot"
		top = h.snapshotFallback(ctx, window, limit)
	}
	if top == nil {
		top = []Entry{}
	}

	httperrors.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"window":      window,
		"top":         top,
		"source":      source,
		"retrievedAt": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *HTTPHandler) snapshotFallback(ctx context.Context, window string, limit int) []Entry {
	if h.snapshots == nil {
		return nil
	}
	snap, ok, err := h.snapshots.LatestSnapshot(ctx, window)
	if err != nil {
		h.logger.Warn().Err(err).Str("window", window).Msg("snapshot fetch failed")
		return nil
	}
	if !ok {
		return nil
	}
	entries := snap.Entries
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
