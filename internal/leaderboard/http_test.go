package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTop struct {
	entries []Entry
	err     error
	calls   int
}

func (s *stubTop) Top(_ context.Context, _ string, limit int) ([]Entry, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if len(s.entries) > limit {
		return s.entries[:limit], nil
	}
	return s.entries, nil
}

type memorySnapshots struct {
	saved []Snapshot
	err   error
}

func (m *memorySnapshots) InsertSnapshot(_ context.Context, snap Snapshot) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, snap)
	return nil
}

func (m *memorySnapshots) LatestSnapshot(_ context.Context, window string) (Snapshot, bool, error) {
	for i := len(m.saved) - 1; i >= 0; i-- {
		if m.saved[i].Window == window {
			return m.saved[i], true, nil
		}
	}
	return Snapshot{}, false, m.err
}

type leaderboardResponse struct {
	Window string  `json:"window"`
	Top    []Entry `json:"top"`
	Source string  `json:"source"`
}

func serveLeaderboard(t *testing.T, h *HTTPHandler, target string) (*httptest.ResponseRecorder, leaderboardResponse) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/leaderboards/{window}", h.HandleGet)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var body leaderboardResponse
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHandleGet_FromRedis(t *testing.T) {
	top := &stubTop{entries: []Entry{
		{Rank: 1, UserID: uuid.New(), Email: "a@b.hu", XP: 120},
		{Rank: 2, UserID: uuid.New(), Email: "c@d.hu", XP: 80},
	}}
	h := &HTTPHandler{svc: top, snapshots: &memorySnapshots{}, logger: zerolog.Nop()}

	rec, body := serveLeaderboard(t, h, "/v1/leaderboards/weekly?limit=1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "weekly", body.Window)
	assert.Equal(t, "redis", body.Source)
	require.Len(t, body.Top, 1)
	assert.Equal(t, 120, body.Top[0].XP)
}

func TestHandleGet_FallsBackToSnapshot(t *testing.T) {
	snaps := &memorySnapshots{saved: []Snapshot{{
		Window:  WindowDaily,
		Entries: []Entry{{Rank: 1, XP: 30}, {Rank: 2, XP: 20}, {Rank: 3, XP: 10}},
	}}}
	h := &HTTPHandler{svc: &stubTop{err: errors.New("redis down")}, snapshots: snaps, logger: zerolog.Nop()}

	rec, body := serveLeaderboard(t, h, "/v1/leaderboards/daily?limit=2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "snapshot", body.Source)
	assert.Len(t, body.Top, 2)
}

func TestHandleGet_EmptyEverywhere(t *testing.T) {
	h := &HTTPHandler{svc: &stubTop{}, snapshots: &memorySnapshots{}, logger: zerolog.Nop()}

	rec, body := serveLeaderboard(t, h, "/v1/leaderboards/all_time")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, body.Top)
	assert.Empty(t, body.Top)
}

func TestHandleGet_UnknownWindow(t *testing.T) {
	h := &HTTPHandler{svc: &stubTop{}, logger: zerolog.Nop()}

	rec, _ := serveLeaderboard(t, h, "/v1/leaderboards/monthly")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSnapshotWorker_SkipsUnchangedBoards(t *testing.T) {
	top := &stubTop{entries: []Entry{{Rank: 1, XP: 50}}}
	snaps := &memorySnapshots{}
	w := newSnapshotWorker(top, snaps, []string{WindowDaily, WindowAllTime}, time.Minute, 10, zerolog.Nop())

	w.tick(context.Background())
	assert.Len(t, snaps.saved, 2)

	w.tick(context.Background())
	assert.Len(t, snaps.saved, 2)

	top.entries = []Entry{{Rank: 1, XP: 70}}
	w.tick(context.Background())
	assert.Len(t, snaps.saved, 4)
}

func TestSnapshotWorker_EmptyBoardWritesNothing(t *testing.T) {
	snaps := &memorySnapshots{}
	w := newSnapshotWorker(&stubTop{}, snaps, []string{WindowDaily}, 0, 0, zerolog.Nop())

	require.NoError(t, w.snapshotWindow(context.Background(), WindowDaily))
	assert.Empty(t, snaps.saved)
}

func TestSnapshotWorker_RunWithoutDepsReturns(t *testing.T) {
	w := NewSnapshotWorker(nil, nil, time.Minute, 10, zerolog.Nop())
	assert.NoError(t, w.Run(context.Background()))
}
