// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache persists the results of expensive idempotent calls (web
// searches, page fetches) in a local SQLite database so repeated calls with
// the same arguments skip the network, across process restarts.
//
// Entries never expire; invalidation is manual through Clear.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/namesty/evo.predict/pkg/types"
)

// Store is a durable key-value store for cached call results. The database
// is opened lazily on first use. A nil *Store is valid and caches nothing.
type Store struct {
	path     string
	disabled bool

	once    sync.Once
	db      *sql.DB
	openErr error
}

// New returns a Store for cfg without touching the filesystem.
func New(cfg types.CacheConfig) *Store {
	return &Store{path: cfg.Path, disabled: cfg.Disabled}
}

// Enabled reports whether calls through s are cached.
func (s *Store) Enabled() bool {
	return s != nil && !s.disabled
}

func (s *Store) open() (*sql.DB, error) {
	s.once.Do(func() {
		if s.path == "" {
			s.openErr = errors.New("cache path is empty")
			return
		}
		if dir := filepath.Dir(s.path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				s.openErr = fmt.Errorf("creating cache directory: %w", err)
				return
			}
		}
		db, err := sql.Open("sqlite3", s.path+"?_journal_mode=WAL&_busy_timeout=5000")
		if err != nil {
			s.openErr = fmt.Errorf("opening cache database: %w", err)
			return
		}
		// One connection serializes access from concurrent scrape workers.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS entries (
			key TEXT PRIMARY KEY,
			function TEXT NOT NULL,
			value BLOB NOT NULL,
			created_at TEXT NOT NULL
		)`); err != nil {
			db.Close()
			s.openErr = fmt.Errorf("creating cache schema: %w", err)
			return
		}
		if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_entries_function ON entries(function)`); err != nil {
			db.Close()
			s.openErr = fmt.Errorf("creating cache schema: %w", err)
			return
		}
		s.db = db
	})
	return s.db, s.openErr
}

// Close releases the database connection if it was opened.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Key derives the cache key for a call to fn with args. The key is the
// SHA-256 of the function name and the JSON encoding of the argument tuple,
// so it is order-sensitive and compares arguments by value.
func Key(fn string, args ...any) (string, error) {
	encoded, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("encoding cache key arguments for %s: %w", fn, err)
	}
	h := sha256.New()
	h.Write([]byte(fn))
	h.Write([]byte{0})
	h.Write(encoded)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Get returns the stored value for key. The boolean is false on a miss.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	db, err := s.open()
	if err != nil {
		return nil, false, err
	}
	var value []byte
	err = db.QueryRowContext(ctx, `SELECT value FROM entries WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry: %w", err)
	}
	return value, true, nil
}

// Put stores value under key. Concurrent writers of the same key overwrite
// each other; the last write wins.
func (s *Store) Put(ctx context.Context, key, fn string, value []byte) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT OR REPLACE INTO entries (key, function, value, created_at) VALUES (?, ?, ?, ?)`,
		key, fn, value, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// GetOrCompute returns the cached result of fn(args...) when present and
// otherwise runs compute, stores its result, and returns it. compute is not
// invoked on a hit. Errors from compute are returned and never cached.
//
// When the store is nil or disabled, compute runs on every call.
func GetOrCompute[T any](ctx context.Context, s *Store, fn string, args []any, compute func(context.Context) (T, error)) (T, error) {
	if !s.Enabled() {
		return compute(ctx)
	}

	var zero T
	key, err := Key(fn, args...)
	if err != nil {
		return zero, err
	}

	data, ok, err := s.Get(ctx, key)
	if err != nil {
		return zero, err
	}
	if ok {
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			return v, nil
		}
		// An undecodable entry is treated as a miss and overwritten below.
	}

	v, err := compute(ctx)
	if err != nil {
		return zero, err
	}

	encoded, err := json.Marshal(v)
	if err != nil {
		return zero, fmt.Errorf("encoding cache value for %s: %w", fn, err)
	}
	if err := s.Put(ctx, key, fn, encoded); err != nil {
		return zero, err
	}
	return v, nil
}
