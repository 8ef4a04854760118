package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/mutker/droidscout/internal/session"
	"codeberg.org/mutker/droidscout/internal/snapshot"
	"codeberg.org/mutker/droidscout/internal/store"
)

type fakeBuilder struct{}

func (fakeBuilder) Build(_ context.Context, _ string) snapshot.Snapshot {
	return snapshot.Snapshot{
		MemoryHealth: snapshot.MemoryHealthGood,
		FreeMemMb:    2048,
		TotalMemMb:   4096,
		CapturedAt:   time.Now(),
	}
}

type recordingRunner struct {
	mu    sync.Mutex
	calls [][]string
}

func (r *recordingRunner) Invoke(_ context.Context, _ string, args []string, _ time.Duration) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, args)

	return ""
}

func (r *recordingRunner) lastCall() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return nil
	}

	return r.calls[len(r.calls)-1]
}

func newTestServer(t *testing.T, runner *recordingRunner) *Server {
	t.Helper()

	agg, err := session.NewAggregator(fakeBuilder{}, "emulator-5554", 10*time.Millisecond)
	require.NoError(t, err)

	srv, err := New(fakeBuilder{}, agg, runner, store.Disabled(), Config{
		Listen:    "localhost:0",
		Device:    "emulator-5554",
		OutputDir: t.TempDir(),
	})
	require.NoError(t, err)
	srv.Routes()

	return srv
}

func TestNewRequiresDependencies(t *testing.T) {
	_, err := New(nil, nil, nil, nil, Config{})
	assert.Error(t, err)
}

func TestStats(t *testing.T) {
	srv := newTestServer(t, &recordingRunner{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var snap snapshot.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, snapshot.MemoryHealthGood, snap.MemoryHealth)
}

func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t, &recordingRunner{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/session/start", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/session/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var status struct {
		State string `json:"state"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, string(session.StateRunning), status.State)

	time.Sleep(50 * time.Millisecond)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/session/stop", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var stopped struct {
		Status    string `json:"status"`
		Snapshots int    `json:"snapshots"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stopped))
	assert.Equal(t, "stopped", stopped.Status)
	assert.GreaterOrEqual(t, stopped.Snapshots, 1)
}

func TestSessionStartRejectsGet(t *testing.T) {
	srv := newTestServer(t, &recordingRunner{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/session/start", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestClearCache(t *testing.T) {
	runner := &recordingRunner{}
	srv := newTestServer(t, runner)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/clear_cache", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"shell", "pm", "trim-caches", "1K"}, runner.lastCall())
}

func TestKill(t *testing.T) {
	runner := &recordingRunner{}
	srv := newTestServer(t, runner)

	body := strings.NewReader(`{"pid": 4242}`)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/kill", body))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"shell", "kill", "4242"}, runner.lastCall())
}

func TestKillRequiresPID(t *testing.T) {
	runner := &recordingRunner{}
	srv := newTestServer(t, runner)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/kill", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, runner.lastCall())
}

func TestIndexPage(t *testing.T) {
	srv := newTestServer(t, &recordingRunner{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "emulator-5554")
	assert.Contains(t, rec.Body.String(), "idle")
}
