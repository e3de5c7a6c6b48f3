// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package storage keeps raw search payloads in a SQLite database under the
// configured data directory. The database is opened on first use, so a
// FileStorage that is constructed but never read or written leaves the data
// directory untouched.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const dbFile = "kanoon-match.db"

// Entry is one cached search payload.
type Entry struct {
	Key       string    `json:"key" yaml:"key"`
	Query     string    `json:"query" yaml:"query"`
	Payload   string    `json:"payload" yaml:"payload"`
	FetchedAt time.Time `json:"fetched_at" yaml:"fetched_at"`
}

// FileStorage is a handle on the response database in a data directory.
// It is safe for concurrent use.
type FileStorage struct {
	dataDir string

	once    sync.Once
	db      *sql.DB
	openErr error
}

// NewFileStorage returns a storage handle rooted at dataDir. An empty dataDir
// means the working directory.
func NewFileStorage(dataDir string) (*FileStorage, error) {
	if dataDir == "" {
		dataDir = "."
	}
	info, err := os.Stat(dataDir)
	if err == nil && !info.IsDir() {
		return nil, fmt.Errorf("data directory %s is not a directory", dataDir)
	}
	return &FileStorage{dataDir: dataDir}, nil
}

// Path returns the database file location.
func (s *FileStorage) Path() string {
	return filepath.Join(s.dataDir, dbFile)
}

func (s *FileStorage) open() (*sql.DB, error) {
	s.once.Do(func() {
		if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
			s.openErr = fmt.Errorf("creating data directory: %w", err)
			return
		}
		db, err := sql.Open("sqlite3", s.Path()+"?_journal_mode=WAL&_busy_timeout=5000")
		if err != nil {
			s.openErr = fmt.Errorf("opening database: %w", err)
			return
		}
		if err := createSchema(db); err != nil {
			db.Close()
			s.openErr = fmt.Errorf("creating schema: %w", err)
			return
		}
		s.db = db
	})
	return s.db, s.openErr
}

func createSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS responses (
			key TEXT PRIMARY KEY,
			query TEXT NOT NULL,
			payload TEXT NOT NULL,
			fetched_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_responses_fetched_at ON responses(fetched_at)`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Key identifies a search request in the cache.
func Key(query string, pageNum, maxPages int) string {
	return fmt.Sprintf("%d:%d:%s", pageNum, maxPages, query)
}

// Get returns the cached payload for key. ok is false on a miss.
func (s *FileStorage) Get(ctx context.Context, key string) (payload string, ok bool, err error) {
	db, err := s.open()
	if err != nil {
		return "", false, err
	}
	err = db.QueryRowContext(ctx,
		`SELECT payload FROM responses WHERE key = ?`, key,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading cached response: %w", err)
	}
	return payload, true, nil
}

// Put stores payload under key, replacing any earlier entry.
func (s *FileStorage) Put(ctx context.Context, key, query, payload string) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO responses (key, query, payload, fetched_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
			query=excluded.query, payload=excluded.payload, fetched_at=excluded.fetched_at`,
		key, query, payload, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("writing cached response: %w", err)
	}
	return nil
}

// List returns all cached entries, newest first.
func (s *FileStorage) List(ctx context.Context) ([]Entry, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		`SELECT key, query, payload, fetched_at FROM responses ORDER BY fetched_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing cached responses: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var fetched string
		if err := rows.Scan(&e.Key, &e.Query, &e.Payload, &fetched); err != nil {
			return nil, fmt.Errorf("scanning cached response: %w", err)
		}
		e.FetchedAt, _ = time.Parse(time.RFC3339Nano, fetched)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Purge deletes every cached entry and returns how many were removed.
func (s *FileStorage) Purge(ctx context.Context) (int64, error) {
	db, err := s.open()
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, `DELETE FROM responses`)
	if err != nil {
		return 0, fmt.Errorf("purging cached responses: %w", err)
	}
	return res.RowsAffected()
}

// ErrClosed is returned by operations on a FileStorage closed before first use.
var ErrClosed = errors.New("storage closed")

// Close releases the database connection if one was opened. It waits for a
// concurrent first open to finish, and a handle closed before first use
// never opens the database afterwards.
func (s *FileStorage) Close() error {
	s.once.Do(func() { s.openErr = ErrClosed })
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
