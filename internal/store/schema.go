package store

import (
	"database/sql"

	"codeberg.org/mutker/droidscout/internal/errors"
)

const (
	SchemaVersion = 1

	createTablesSQL = `
	   CREATE TABLE IF NOT EXISTS schema_versions (
	       version     INTEGER PRIMARY KEY,
	       applied_at  TEXT NOT NULL
	   );
	   CREATE TABLE IF NOT EXISTS sessions (
	       id             INTEGER PRIMARY KEY AUTOINCREMENT,
	       device         TEXT NOT NULL,
	       started_at     INTEGER NOT NULL,
	       ended_at       INTEGER NOT NULL,
	       snapshot_count INTEGER NOT NULL
	   );
	   CREATE TABLE IF NOT EXISTS snapshots (
	       session_id     INTEGER NOT NULL REFERENCES sessions(id),
	       captured_at    INTEGER NOT NULL,
	       free_mem_mb    REAL NOT NULL,
	       total_mem_mb   REAL NOT NULL,
	       memory_health  TEXT NOT NULL CHECK (memory_health IN ('good', 'medium', 'low')),
	       processes      TEXT NOT NULL,
	       memory         TEXT NOT NULL,
	       thermal        TEXT NOT NULL,
	       frame          TEXT,
	       services       TEXT NOT NULL
	   );`

	insertSessionSQL = `
    INSERT INTO sessions (device, started_at, ended_at, snapshot_count)
    VALUES (?, ?, ?, ?)`

	insertSnapshotSQL = `
    INSERT INTO snapshots (
        session_id, captured_at,
        free_mem_mb, total_mem_mb, memory_health,
        processes, memory, thermal, frame, services
    ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
)

// initSchema creates the schema and records its version
func initSchema(db *sql.DB) error {
	errFactory := errors.New()

	tx, err := db.Begin()
	if err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.Exec(createTablesSQL); err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}

	if _, err := tx.Exec(`
        INSERT OR IGNORE INTO schema_versions (version, applied_at)
        VALUES (?, datetime('now'))
    `, SchemaVersion); err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}

	if err := tx.Commit(); err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}
	committed = true

	return nil
}
