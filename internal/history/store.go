package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"payloadvault/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; users clear the history database after schema changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Capture is one recorded payload save.
type Capture struct {
	ID             int64
	RunID          string
	Mode           string
	Tag            string
	Filename       string
	Draft          bool
	Prompt         string
	NegativePrompt string
	CreatedAt      time.Time
}

// Store manages capture history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database.
func Open(cfg *config.Config) (*Store, error) {
	dbPath := cfg.History.Path
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		return nil
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

// Record inserts one capture row.
func (s *Store) Record(ctx context.Context, capture *Capture) error {
	if capture.CreatedAt.IsZero() {
		capture.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO captures (
            run_id, mode, tag, filename, draft, prompt, negative_prompt, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		capture.RunID,
		capture.Mode,
		capture.Tag,
		capture.Filename,
		boolToInt(capture.Draft),
		capture.Prompt,
		capture.NegativePrompt,
		capture.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert capture: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	capture.ID = id
	return nil
}

// Recent returns the newest captures, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Capture, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, mode, tag, filename, draft, prompt, negative_prompt, created_at
         FROM captures ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query captures: %w", err)
	}
	defer rows.Close()

	var captures []Capture
	for rows.Next() {
		var c Capture
		var draft int
		var createdAt string
		if err := rows.Scan(&c.ID, &c.RunID, &c.Mode, &c.Tag, &c.Filename, &draft, &c.Prompt, &c.NegativePrompt, &createdAt); err != nil {
			return nil, fmt.Errorf("scan capture: %w", err)
		}
		c.Draft = draft != 0
		if parsed, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
			c.CreatedAt = parsed
		}
		captures = append(captures, c)
	}
	return captures, rows.Err()
}

// RemoveByFilename deletes every row recorded for the given payload file.
func (s *Store) RemoveByFilename(ctx context.Context, filename string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM captures WHERE filename = ?", filename); err != nil {
		return fmt.Errorf("delete capture rows: %w", err)
	}
	return nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
