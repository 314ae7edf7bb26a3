// Package postgres stores page titles in a postgres table.
package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dustin/go-wikilinks"
)

var (
	//go:embed schema.sql
	schemaSQL string
	//go:embed reset.sql
	resetSQL string
)

// DefaultMaxConns bounds the pool when the caller doesn't.
const DefaultMaxConns = 4

// Store writes batches of titles with one multi-row insert each.
type Store struct {
	pool *pgxpool.Pool
}

var _ wikilinks.Store = (*Store)(nil)

// Open connects a pool of at most maxConns connections to dsn.
func Open(ctx context.Context, dsn string, maxConns int) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if maxConns <= 0 {
		maxConns = DefaultMaxConns
	}
	cfg.MaxConns = int32(maxConns)

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

// New wraps a pool the caller owns.  Close will close it.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// EnsureSchema creates the pages table if it isn't there.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Reset drops the pages table and creates it again, empty.
func (s *Store) Reset(ctx context.Context) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, resetSQL); err != nil {
			return fmt.Errorf("drop schema: %w", err)
		}
		if _, err := tx.Exec(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		return nil
	})
}

// MaxRowsPerInsert is the most titles one statement carries.  Postgres
// takes at most 65535 bind parameters and each row uses one.
const MaxRowsPerInsert = 65535

// StorePages inserts the titles of pages, ignoring ones already there.
// Batches past MaxRowsPerInsert go out as several statements.
func (s *Store) StorePages(ctx context.Context, pages []wikilinks.PageRecord) error {
	for _, c := range chunk(pages, MaxRowsPerInsert) {
		args := make([]any, len(c))
		for i := range c {
			args[i] = c[i].Title
		}
		if _, err := s.pool.Exec(ctx, insertSQL(len(c)), args...); err != nil {
			return err
		}
	}
	return nil
}

func chunk(pages []wikilinks.PageRecord, size int) [][]wikilinks.PageRecord {
	var rv [][]wikilinks.PageRecord
	for len(pages) > 0 {
		n := min(len(pages), size)
		rv = append(rv, pages[:n])
		pages = pages[n:]
	}
	return rv
}

// Count is the number of stored titles.
func (s *Store) Count(ctx context.Context) (n int64, err error) {
	err = s.pool.QueryRow(ctx, `SELECT count(*) FROM pages`).Scan(&n)
	return n, err
}

// Full batches are always the same size, so their statements are kept.
var insertCache sync.Map // map[int]string

func insertSQL(n int) string {
	if v, ok := insertCache.Load(n); ok {
		return v.(string)
	}

	var b strings.Builder
	b.Grow(len("INSERT INTO pages (title) VALUES  ON CONFLICT DO NOTHING") + n*8)
	b.WriteString("INSERT INTO pages (title) VALUES ")
	for i := 1; i <= n; i++ {
		if i > 1 {
			b.WriteByte(',')
		}
		b.WriteString("($")
		b.WriteString(strconv.Itoa(i))
		b.WriteByte(')')
	}
	b.WriteString(" ON CONFLICT DO NOTHING")
	s := b.String()

	if n == wikilinks.DefaultBatchSize {
		insertCache.Store(n, s)
	}
	return s
}
