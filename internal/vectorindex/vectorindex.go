// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vectorindex stores embedded text chunks and retrieves the ones
// most similar to a query. The SQLite implementation keeps chunks, their
// metadata and their embeddings in one table partitioned by collection and
// ranks by cosine similarity in Go.
package vectorindex

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/namesty/evo.predict/internal/embedding"
)

// Document is a stored chunk. Score is set by Query.
type Document struct {
	ID       string         `json:"id"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Score    float64        `json:"score"`
}

// Index adds texts and answers similarity queries.
type Index interface {
	Add(ctx context.Context, texts []string, metadatas []map[string]any) error
	Query(ctx context.Context, text string, k int) ([]Document, error)
}

// SQLiteIndex is an Index over a SQLite database. Each SQLiteIndex owns a
// fresh collection, so several research runs can share one database file.
type SQLiteIndex struct {
	db         *sql.DB
	embedder   embedding.Embedder
	collection string
}

// NewSQLite opens an index at path. An empty path keeps the index in memory.
func NewSQLite(path string, embedder embedding.Embedder) (*SQLiteIndex, error) {
	dsn := ":memory:"
	if path != "" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating index directory: %w", err)
			}
		}
		dsn = path + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening vector index: %w", err)
	}
	// A single connection keeps an in-memory database alive and shared.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS chunks (
		id TEXT PRIMARY KEY,
		collection TEXT NOT NULL,
		seq INTEGER NOT NULL,
		text TEXT NOT NULL,
		metadata TEXT NOT NULL,
		embedding TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating vector index schema: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_chunks_collection ON chunks(collection)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating vector index schema: %w", err)
	}

	return &SQLiteIndex{db: db, embedder: embedder, collection: uuid.NewString()}, nil
}

// Collection returns the identifier of this index's collection.
func (x *SQLiteIndex) Collection() string {
	return x.collection
}

// Add embeds texts and stores them with the matching metadata. metadatas
// may be nil; otherwise it must have one entry per text.
func (x *SQLiteIndex) Add(ctx context.Context, texts []string, metadatas []map[string]any) error {
	if len(texts) == 0 {
		return nil
	}
	if metadatas != nil && len(metadatas) != len(texts) {
		return fmt.Errorf("got %d metadatas for %d texts", len(metadatas), len(texts))
	}

	vectors, err := x.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding chunks: %w", err)
	}
	if len(vectors) != len(texts) {
		return fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(texts))
	}

	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var next int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq) + 1, 0) FROM chunks WHERE collection = ?`, x.collection).Scan(&next); err != nil {
		return fmt.Errorf("reading sequence: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO chunks (id, collection, seq, text, metadata, embedding) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, text := range texts {
		var md map[string]any
		if metadatas != nil {
			md = metadatas[i]
		}
		mdJSON, err := json.Marshal(md)
		if err != nil {
			return fmt.Errorf("encoding metadata for chunk %d: %w", i, err)
		}
		vecJSON, err := json.Marshal(vectors[i])
		if err != nil {
			return fmt.Errorf("encoding embedding for chunk %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, uuid.NewString(), x.collection, next+i, text, string(mdJSON), string(vecJSON)); err != nil {
			return fmt.Errorf("inserting chunk %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// Query returns up to k documents ordered by decreasing similarity to text.
// Ties keep insertion order.
func (x *SQLiteIndex) Query(ctx context.Context, text string, k int) ([]Document, error) {
	if k <= 0 {
		return []Document{}, nil
	}
	query, err := embedding.EmbedQuery(ctx, x.embedder, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	rows, err := x.db.QueryContext(ctx,
		`SELECT id, text, metadata, embedding FROM chunks WHERE collection = ? ORDER BY seq`, x.collection)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var (
			d              Document
			mdJSON, vecRaw string
			vec            []float32
		)
		if err := rows.Scan(&d.ID, &d.Text, &mdJSON, &vecRaw); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		if err := json.Unmarshal([]byte(mdJSON), &d.Metadata); err != nil {
			return nil, fmt.Errorf("decoding metadata of %s: %w", d.ID, err)
		}
		if err := json.Unmarshal([]byte(vecRaw), &vec); err != nil {
			return nil, fmt.Errorf("decoding embedding of %s: %w", d.ID, err)
		}
		d.Score = embedding.CosineSimilarity(query, vec)
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	sort.SliceStable(docs, func(i, j int) bool { return docs[i].Score > docs[j].Score })
	if len(docs) > k {
		docs = docs[:k]
	}
	if docs == nil {
		docs = []Document{}
	}
	return docs, nil
}

// Len returns the number of chunks in the collection.
func (x *SQLiteIndex) Len(ctx context.Context) (int, error) {
	var n int
	err := x.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks WHERE collection = ?`, x.collection).Scan(&n)
	return n, err
}

// Close drops the collection and closes the database.
func (x *SQLiteIndex) Close() error {
	if _, err := x.db.Exec(`DELETE FROM chunks WHERE collection = ?`, x.collection); err != nil {
		x.db.Close()
		return fmt.Errorf("dropping collection: %w", err)
	}
	return x.db.Close()
}
