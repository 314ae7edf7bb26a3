// Package couchbase stores pages as documents in a couchbase bucket,
// keyed by title.
package couchbase

import (
	"context"
	"fmt"

	"github.com/couchbase/go-couchbase"

	"github.com/dustin/go-wikilinks"
)

// Article is the document stored for each page.
type Article struct {
	Title string   `json:"title"`
	Links []string `json:"links,omitempty"`
}

// Store adds pages to a bucket.  A title that's already a key is left
// alone.
type Store struct {
	b *couchbase.Bucket
}

var _ wikilinks.Store = (*Store)(nil)

// Open connects to the named bucket in the default pool at url.
func Open(url, bucket string) (*Store, error) {
	b, err := couchbase.GetBucket(url, "default", bucket)
	if err != nil {
		return nil, fmt.Errorf("connecting to couchbase: %w", err)
	}
	return &Store{b: b}, nil
}

func (s *Store) Close() {
	s.b.Close()
}

// StorePages adds each page that isn't stored yet.
func (s *Store) StorePages(ctx context.Context, pages []wikilinks.PageRecord) error {
	for _, p := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := s.b.Add(p.Title, 0, NewArticle(p)); err != nil {
			return fmt.Errorf("adding %q: %w", p.Title, err)
		}
	}
	return nil
}

// NewArticle gets the document for a page.
func NewArticle(p wikilinks.PageRecord) Article {
	return Article{Title: p.Title, Links: p.Links}
}
