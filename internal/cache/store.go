// Package cache keeps extraction results in a local SQLite file so unchanged
// documents are not rasterized and recognized twice.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/slm/internal/extract"
)

const schema = `
CREATE TABLE IF NOT EXISTS extraction_cache (
	key        TEXT PRIMARY KEY,
	result     TEXT NOT NULL,
	pages      INTEGER NOT NULL,
	created_at TEXT NOT NULL
)`

// Store implements extract.Cache on SQLite.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ extract.Cache = (*Store)(nil)

// Open creates (if needed) and opens the cache database at path.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("opening extraction cache", "path", path)
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("cache dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		logger.Error("failed to open extraction cache", "path", path, "error", err)
		return nil, err
	}
	// one writer at a time keeps SQLite away from SQLITE_BUSY
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		logger.Error("failed to migrate extraction cache", "path", path, "error", err)
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, key string) (extract.Result, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT result FROM extraction_cache WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return extract.Result{}, false, nil
	}
	if err != nil {
		return extract.Result{}, false, fmt.Errorf("cache get: %w", err)
	}
	var r extract.Result
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return extract.Result{}, false, fmt.Errorf("cache decode: %w", err)
	}
	if r.Pages == nil {
		r.Pages = []extract.Page{}
	}
	return r, true, nil
}

func (s *Store) Put(ctx context.Context, key string, r extract.Result) error {
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO extraction_cache (key, result, pages, created_at) VALUES (?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET result = excluded.result, pages = excluded.pages, created_at = excluded.created_at`,
		key, string(b), len(r.Pages), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	s.logger.Debug("extraction cached", "pages", len(r.Pages))
	return nil
}

// Len returns the number of cached results.
func (s *Store) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM extraction_cache`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
