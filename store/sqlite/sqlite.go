// Package sqlite stores page titles in a sqlite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/dustin/go-wikilinks"
)

const schemaSQL = `CREATE TABLE IF NOT EXISTS pages (
	id    INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL UNIQUE
)`

// Store writes batches of titles with one multi-row insert each.
type Store struct {
	db *sql.DB
}

var _ wikilinks.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path and makes sure
// the pages table exists.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %v: %w", path, err)
	}
	// One writer at a time is all sqlite does anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// StorePages inserts the titles of pages, ignoring ones already there.
func (s *Store) StorePages(ctx context.Context, pages []wikilinks.PageRecord) error {
	if len(pages) == 0 {
		return nil
	}
	args := make([]any, len(pages))
	for i := range pages {
		args[i] = pages[i].Title
	}
	q := "INSERT INTO pages (title) VALUES " +
		strings.Repeat("(?),", len(pages)-1) + "(?) ON CONFLICT DO NOTHING"
	_, err := s.db.ExecContext(ctx, q, args...)
	return err
}

// Titles lists the stored titles in insertion order.
func (s *Store) Titles(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT title FROM pages ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rv []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		rv = append(rv, t)
	}
	return rv, rows.Err()
}
