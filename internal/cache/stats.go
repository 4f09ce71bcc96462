// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"fmt"
)

// Stats summarizes the cache contents.
type Stats struct {
	Path       string         `json:"path" yaml:"path"`
	Entries    int            `json:"entries" yaml:"entries"`
	ByFunction map[string]int `json:"by_function" yaml:"by_function"`
}

// Stats counts cached entries per function.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	db, err := s.open()
	if err != nil {
		return Stats{}, err
	}

	rows, err := db.QueryContext(ctx, `SELECT function, count(*) FROM entries GROUP BY function ORDER BY function`)
	if err != nil {
		return Stats{}, fmt.Errorf("querying cache stats: %w", err)
	}
	defer rows.Close()

	st := Stats{Path: s.path, ByFunction: make(map[string]int)}
	for rows.Next() {
		var (
			fn string
			n  int
		)
		if err := rows.Scan(&fn, &n); err != nil {
			return Stats{}, fmt.Errorf("scanning cache stats: %w", err)
		}
		st.ByFunction[fn] = n
		st.Entries += n
	}
	return st, rows.Err()
}

// Clear deletes cached entries for fn, or every entry when fn is empty.
// It returns the number of entries removed.
func (s *Store) Clear(ctx context.Context, fn string) (int64, error) {
	db, err := s.open()
	if err != nil {
		return 0, err
	}

	query, args := `DELETE FROM entries`, []any{}
	if fn != "" {
		query += ` WHERE function = ?`
		args = append(args, fn)
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("clearing cache: %w", err)
	}
	return res.RowsAffected()
}
