package leaderboard

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

type topSource interface {
	Top(ctx context.Context, window string, limit int) ([]Entry, error)
}

// SnapshotWorker periodically persists Redis leaderboards into Postgres.
type SnapshotWorker struct {
	svc      topSource
	store    SnapshotStore
	windows  []string
	logger   zerolog.Logger
	interval time.Duration
	topN     int
	lastHash map[string]string
}

func NewSnapshotWorker(svc *Service, store SnapshotStore, interval time.Duration, topN int, logger zerolog.Logger) *SnapshotWorker {
	var src topSource
	windows := defaultWindows
	if svc != nil {
		src = svc
		windows = svc.Windows()
	}
	return newSnapshotWorker(src, store, windows, interval, topN, logger)
}

func newSnapshotWorker(src topSource, store SnapshotStore, windows []string, interval time.Duration, topN int, logger zerolog.Logger) *SnapshotWorker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if topN <= 0 {
		topN = 50
	}
	return &SnapshotWorker{
		svc:      src,
		store:    store,
		windows:  windows,
		logger:   logger.With().Str("component", "leaderboard_snapshot_worker").Logger(),
		interval: interval,
		topN:     topN,
		lastHash: make(map[string]string),
	}
}

// Run blocks until context cancellation.
func (w *SnapshotWorker) Run(ctx context.Context) error {
	if w.svc == nil || w.store == nil {
		return nil
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// run immediately
	w.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *SnapshotWorker) tick(ctx context.Context) {
	for _, window := range w.windows {
		if err := w.snapshotWindow(ctx, window); err != nil {
			w.logger.Warn().Err(err).Str("window", window).Msg("snapshot failed")
		}
	}
}

func (w *SnapshotWorker) snapshotWindow(ctx context.Context, window string) error {
	entries, err := w.svc.Top(ctx, window, w.topN)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	_, hash, err := encodeEntries(entries)
	if err != nil {
		return err
	}
	if w.lastHash[window] == hash {
		return nil
	}

	now := time.Now().UTC()
	if err := w.store.InsertSnapshot(ctx, Snapshot{
		Window:      window,
		GeneratedAt: now,
		Entries:     entries,
		SourceHash:  hash,
	}); err != nil {
		return err
	}
	w.lastHash[window] = hash

	w.logger.Info().
		Str("window", window).
		Int("entries", len(entries)).
		Time("generated_at", now).
		Msg("leaderboard snapshot persisted")

	return nil
}
