// Package history keeps an audit log of README generations and commits.
//
// It uses SQLite (pure-Go modernc driver) under the user's data directory.
// Only the outcome of each pipeline run is stored; repository facts are
// never persisted.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Actions recorded by the tools.
const (
	ActionGenerated = "generated"
	ActionCreated   = "created"
	ActionUpdated   = "updated"
)

// DefaultLimit and MaxLimit bound Recent queries.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Entry is a single pipeline run.
type Entry struct {
	ID         int64    `json:"id"`
	Repository string   `json:"repository"`
	Action     string   `json:"action"`
	CommitSHA  string   `json:"commit_sha,omitempty"`
	CommitURL  string   `json:"commit_url,omitempty"`
	Bytes      int      `json:"bytes"`
	Sections   []string `json:"sections"`
	CreatedAt  string   `json:"created_at"`
}

// Config holds history store configuration.
type Config struct {
	DataDir string
}

// Store is the SQLite-backed history log.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New opens (creating if needed) the history database in cfg.DataDir and
// runs migrations.
func New(cfg Config) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("history: create data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "history.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("history: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			repository TEXT    NOT NULL,
			action     TEXT    NOT NULL,
			commit_sha TEXT    NOT NULL DEFAULT '',
			commit_url TEXT    NOT NULL DEFAULT '',
			bytes      INTEGER NOT NULL DEFAULT 0,
			sections   TEXT    NOT NULL DEFAULT '',
			created_at TEXT    NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_runs_repository ON runs(repository);
		CREATE INDEX IF NOT EXISTS idx_runs_created    ON runs(created_at DESC);
	`)
	return err
}

// Record appends an entry and returns its ID. CreatedAt is assigned by
// the store.
func (s *Store) Record(ctx context.Context, e Entry) (int64, error) {
	if e.Repository == "" || e.Action == "" {
		return 0, fmt.Errorf("history: repository and action are required")
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (repository, action, commit_sha, commit_url, bytes, sections, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Repository, e.Action, e.CommitSHA, e.CommitURL, e.Bytes,
		strings.Join(e.Sections, "\n"),
		s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("history: insert: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns the newest entries first. An empty repository matches
// every repository; limit is clamped to [1, MaxLimit].
func (s *Store) Recent(ctx context.Context, repository string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	query := `SELECT id, repository, action, commit_sha, commit_url, bytes, sections, created_at FROM runs`
	args := []any{}
	if repository != "" {
		query += ` WHERE repository = ?`
		args = append(args, repository)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := []Entry{}
	for rows.Next() {
		var (
			e        Entry
			sections string
		)
		if err := rows.Scan(&e.ID, &e.Repository, &e.Action, &e.CommitSHA, &e.CommitURL, &e.Bytes, &sections, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		e.Sections = []string{}
		if sections != "" {
			e.Sections = strings.Split(sections, "\n")
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
