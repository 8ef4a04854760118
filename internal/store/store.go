// Package store persists finished monitoring sessions to sqlite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"codeberg.org/mutker/droidscout/internal/errors"
	"codeberg.org/mutker/droidscout/internal/logger"
	"codeberg.org/mutker/droidscout/internal/snapshot"

	_ "github.com/mattn/go-sqlite3"
)

// Repository stores finished sessions.
type Repository interface {
	SaveSession(ctx context.Context, device string, snapshots []snapshot.Snapshot) error
	Close() error
}

type sqliteRepository struct {
	db  *sql.DB
	log logger.Logger
	mu  sync.Mutex
}

// Disabled storage is served by a no-op repository
type noopRepository struct{}

// Disabled returns a repository that drops every session.
func Disabled() Repository {
	return &noopRepository{}
}

// NewRepository opens (or creates) the session database. When storage is
// disabled it returns a no-op repository.
func NewRepository(cfg Config, log logger.Logger) (Repository, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	if !cfg.Enabled {
		log.Debug().Msg("Session storage disabled, using no-op repository")
		return &noopRepository{}, nil
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, defaultDirPerm); err != nil {
			return nil, errFactory.Wrap(ErrStorageInit, err)
		}
	}

	dsn := cfg.DBPath + "?_journal=WAL&_auto_vacuum=2"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	log.Info().
		Str("path", cfg.DBPath).
		Int("schema_version", SchemaVersion).
		Msg("Session repository initialized")

	return &sqliteRepository{
		db:  db,
		log: log,
	}, nil
}

func (r *sqliteRepository) SaveSession(ctx context.Context, device string, snapshots []snapshot.Snapshot) error {
	errFactory := errors.New()

	if len(snapshots) == 0 {
		return errFactory.New(ErrEmptySession)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errFactory.Wrap(ErrTransactionFailed, err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, insertSessionSQL,
		device,
		snapshots[0].CapturedAt.Unix(),
		snapshots[len(snapshots)-1].CapturedAt.Unix(),
		len(snapshots),
	)
	if err != nil {
		return errFactory.Wrap(ErrTransactionFailed, err)
	}

	sessionID, err := res.LastInsertId()
	if err != nil {
		return errFactory.Wrap(ErrTransactionFailed, err)
	}

	stmt, err := tx.PrepareContext(ctx, insertSnapshotSQL)
	if err != nil {
		return errFactory.Wrap(ErrTransactionFailed, err)
	}
	defer stmt.Close()

	for i := range snapshots {
		values, err := snapshotValues(sessionID, &snapshots[i])
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, values...); err != nil {
			return errFactory.Wrap(ErrTransactionFailed, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errFactory.Wrap(ErrTransactionFailed, err)
	}
	committed = true

	r.log.Debug().
		Int64("session_id", sessionID).
		Int("snapshots", len(snapshots)).
		Msg("Session persisted")

	return nil
}

func (r *sqliteRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	errFactory := errors.New()

	if _, err := r.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return errFactory.Wrap(ErrStorageClose, err)
	}

	if err := r.db.Close(); err != nil {
		return errFactory.Wrap(ErrStorageClose, err)
	}

	return nil
}

// snapshotValues flattens a snapshot into insert parameters; the collection
// fields are stored as JSON so the stable typed shape round-trips.
func snapshotValues(sessionID int64, snap *snapshot.Snapshot) ([]any, error) {
	errFactory := errors.New()

	processes, err := json.Marshal(snap.Processes)
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageAccess, err)
	}
	memory, err := json.Marshal(snap.Memory)
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageAccess, err)
	}
	thermal, err := json.Marshal(snap.Thermal)
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageAccess, err)
	}
	services, err := json.Marshal(snap.Services)
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageAccess, err)
	}

	// NULL frame keeps "no data" distinct from a zero-filled profile
	var frame any
	if snap.Frame != nil {
		encoded, err := json.Marshal(snap.Frame)
		if err != nil {
			return nil, errFactory.Wrap(ErrStorageAccess, err)
		}
		frame = string(encoded)
	}

	return []any{
		sessionID,
		snap.CapturedAt.Unix(),
		snap.FreeMemMb,
		snap.TotalMemMb,
		string(snap.MemoryHealth),
		string(processes),
		string(memory),
		string(thermal),
		frame,
		string(services),
	}, nil
}

func (*noopRepository) SaveSession(_ context.Context, _ string, _ []snapshot.Snapshot) error {
	return nil
}

func (*noopRepository) Close() error {
	return nil
}
