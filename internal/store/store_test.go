package store_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/droidscout/internal/dump"
	"codeberg.org/mutker/droidscout/internal/logger"
	"codeberg.org/mutker/droidscout/internal/snapshot"
	"codeberg.org/mutker/droidscout/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/mattn/go-sqlite3"
)

func testSnapshot(capturedAt time.Time, frame *dump.FrameProfile) snapshot.Snapshot {
	return snapshot.Snapshot{
		Processes: []dump.ProcessSample{
			{PID: 1203, User: "system", CPUPercent: 12.5, MemPercent: 6.8, CPUTime: "0:01.00", Name: "system_server"},
		},
		Memory: []dump.MemoryEntry{
			{Name: "system_server", PID: 1203, RAMMb: 400},
		},
		Thermal:      map[string]float64{"AP": 38.1},
		Frame:        frame,
		MemoryHealth: snapshot.MemoryHealthGood,
		FreeMemMb:    3000,
		TotalMemMb:   4096,
		CapturedAt:   capturedAt,
	}
}

func TestSaveSession(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "session.db")

	repo, err := store.NewRepository(store.Config{DBPath: dbPath, Enabled: true}, logger.Default())
	require.NoError(t, err)
	defer repo.Close()

	now := time.Now()
	snapshots := []snapshot.Snapshot{
		testSnapshot(now, nil),
		testSnapshot(now.Add(5*time.Second), &dump.FrameProfile{AvgFrameTimeMs: 13.5, JankFrameCount: 1, TotalFrameCount: 2}),
	}

	require.NoError(t, repo.SaveSession(context.Background(), "serial", snapshots))

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var count, sessionCount int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&count))
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&sessionCount))
	assert.Equal(t, 2, count)
	assert.Equal(t, 1, sessionCount)

	// Absent frame data is stored as NULL, not a zero-filled profile
	var nullFrames int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM snapshots WHERE frame IS NULL").Scan(&nullFrames))
	assert.Equal(t, 1, nullFrames)
}

func TestSaveSessionEmpty(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "session.db")

	repo, err := store.NewRepository(store.Config{DBPath: dbPath, Enabled: true}, logger.Default())
	require.NoError(t, err)
	defer repo.Close()

	assert.Error(t, repo.SaveSession(context.Background(), "serial", nil))
}

func TestDisabledRepositoryIsNoop(t *testing.T) {
	repo, err := store.NewRepository(store.Config{Enabled: false}, logger.Default())
	require.NoError(t, err)

	assert.NoError(t, repo.SaveSession(context.Background(), "serial", nil))
	assert.NoError(t, repo.Close())
}

func TestValidate(t *testing.T) {
	assert.Error(t, store.Config{Enabled: true, DBPath: ""}.Validate())
	assert.NoError(t, store.Config{Enabled: false}.Validate())
	assert.NoError(t, store.DefaultConfig().Validate())
}
