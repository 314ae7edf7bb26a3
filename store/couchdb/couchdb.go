// Package couchdb stores pages as documents in a couchdb database,
// keyed by title.
package couchdb

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dustin/go-couch"
	"github.com/dustin/httputil"

	"github.com/dustin/go-wikilinks"
)

// Article is the document stored for each page.
type Article struct {
	ID    string   `json:"_id"`
	Title string   `json:"title"`
	Links []string `json:"links,omitempty"`
}

// Store inserts pages into a database.  Conflicts with an existing
// document are dropped.
type Store struct {
	db couch.Database
}

var _ wikilinks.Store = (*Store)(nil)

// Open connects to the database at dburl.
func Open(dburl string) (*Store, error) {
	db, err := couch.Connect(dburl)
	if err != nil {
		return nil, fmt.Errorf("connecting to couchdb: %w", err)
	}
	return &Store{db: db}, nil
}

// StorePages inserts each page, skipping ones that already exist.
func (s *Store) StorePages(ctx context.Context, pages []wikilinks.PageRecord) error {
	for _, p := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		a := NewArticle(p)
		_, _, err := s.db.Insert(&a)
		if err != nil && !httputil.IsHTTPStatus(err, http.StatusConflict) {
			return fmt.Errorf("inserting %q: %w", p.Title, err)
		}
	}
	return nil
}

// NewArticle gets the document for a page.
func NewArticle(p wikilinks.PageRecord) Article {
	return Article{ID: EscapeTitle(p.Title), Title: p.Title, Links: p.Links}
}

// EscapeTitle makes a title usable as a document id in a URL path.
func EscapeTitle(in string) string {
	return strings.NewReplacer("/", "%2f", "+", "%2b").Replace(in)
}
