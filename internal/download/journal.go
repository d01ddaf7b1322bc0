package download

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Journal persists per-scene download outcomes so interrupted runs can
// resume without refetching completed scenes.
type Journal struct {
	db *sql.DB
}

const journalSchema = `
CREATE TABLE IF NOT EXISTS downloads (
    scene_id    TEXT PRIMARY KEY,
    run_id      TEXT NOT NULL,
    success     INTEGER NOT NULL,
    skipped     INTEGER NOT NULL DEFAULT 0,
    file_path   TEXT NOT NULL DEFAULT '',
    file_size   INTEGER NOT NULL DEFAULT 0,
    attempts    INTEGER NOT NULL DEFAULT 0,
    error       TEXT NOT NULL DEFAULT '',
    finished_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_downloads_run ON downloads(run_id);
`

// OpenJournal opens (creating if necessary) the journal database at path.
func OpenJournal(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", strings.TrimSpace(pragma), err)
		}
	}

	if _, err := db.Exec(journalSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate journal schema: %w", err)
	}

	return &Journal{db: db}, nil
}

// Close releases the underlying database handle.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record upserts the outcome for a scene. The latest outcome wins, so a
// retried scene replaces its earlier failure.
func (j *Journal) Record(ctx context.Context, runID string, res Result) error {
	_, err := j.db.ExecContext(ctx, `
INSERT INTO downloads (scene_id, run_id, success, skipped, file_path, file_size, attempts, error, finished_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(scene_id) DO UPDATE SET
    run_id      = excluded.run_id,
    success     = excluded.success,
    skipped     = excluded.skipped,
    file_path   = excluded.file_path,
    file_size   = excluded.file_size,
    attempts    = excluded.attempts,
    error       = excluded.error,
    finished_at = excluded.finished_at`,
		res.SceneID, runID, boolToInt(res.Success), boolToInt(res.Skipped),
		res.FilePath, res.FileSize, res.Attempts, res.Error,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record outcome for %s: %w", res.SceneID, err)
	}
	return nil
}

// Completed reports whether the scene has a successful outcome on
// record, returning the file path it was stored at.
func (j *Journal) Completed(ctx context.Context, sceneID string) (bool, string, error) {
	var success int
	var path string
	err := j.db.QueryRowContext(ctx,
		`SELECT success, file_path FROM downloads WHERE scene_id = ?`, sceneID,
	).Scan(&success, &path)
	if err == sql.ErrNoRows {
		return false, "", nil
	}
	if err != nil {
		return false, "", fmt.Errorf("query outcome for %s: %w", sceneID, err)
	}
	return success == 1, path, nil
}

// JournalEntry is one persisted outcome row.
type JournalEntry struct {
	SceneID    string
	RunID      string
	Success    bool
	Skipped    bool
	FilePath   string
	FileSize   int64
	Attempts   int
	Error      string
	FinishedAt time.Time
}

// Outcomes returns all persisted outcomes ordered by scene ID.
func (j *Journal) Outcomes(ctx context.Context) ([]JournalEntry, error) {
	rows, err := j.db.QueryContext(ctx, `
SELECT scene_id, run_id, success, skipped, file_path, file_size, attempts, error, finished_at
FROM downloads ORDER BY scene_id`)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var entries []JournalEntry
	for rows.Next() {
		var e JournalEntry
		var success, skipped int
		var finishedAt string
		if err := rows.Scan(&e.SceneID, &e.RunID, &success, &skipped,
			&e.FilePath, &e.FileSize, &e.Attempts, &e.Error, &finishedAt); err != nil {
			return nil, fmt.Errorf("scan outcome row: %w", err)
		}
		e.Success = success == 1
		e.Skipped = skipped == 1
		if t, perr := time.Parse(time.RFC3339, finishedAt); perr == nil {
			e.FinishedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
