// Package elastic bulk loads pages into an elasticsearch index, one
// document per title.
package elastic

import (
	"context"
	"fmt"
	"sync"

	"github.com/dustin/go-elasticsearch"

	"github.com/dustin/go-wikilinks"
)

// DocType is the mapping type pages are stored under.
const DocType = "article"

type batch struct {
	docs []elasticsearch.UpdateInstruction
	done chan error
}

// Store sends every flush as one bulk request.  The title is the
// document id, so a repeated title rewrites that one document instead
// of adding another.
type Store struct {
	index string

	batches chan batch
	stopped chan struct{}
	once    sync.Once
}

var _ wikilinks.Store = (*Store)(nil)

// Open starts a bulk loader against the server at url.
func Open(url, index string) *Store {
	s := &Store{
		index:   index,
		batches: make(chan batch),
		stopped: make(chan struct{}),
	}
	go s.loader(url)
	return s
}

func (s *Store) loader(u string) {
	defer close(s.stopped)
	es := elasticsearch.ElasticSearch{URL: u}
	bulkLoader := es.Bulk()

	for b := range s.batches {
		for i := range b.docs {
			bulkLoader.Update(&b.docs[i])
		}
		b.done <- bulkLoader.SendBatch()
	}
	bulkLoader.Quit()
}

// Close flushes the loader and waits for it to stop.
func (s *Store) Close() {
	s.once.Do(func() { close(s.batches) })
	<-s.stopped
}

// StorePages sends pages as one bulk batch.
func (s *Store) StorePages(ctx context.Context, pages []wikilinks.PageRecord) error {
	b := batch{docs: Instructions(s.index, pages), done: make(chan error, 1)}
	select {
	case s.batches <- b:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-b.done:
		if err != nil {
			return fmt.Errorf("bulk indexing %d pages: %w", len(pages), err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Instructions gets the bulk update for each page.
func Instructions(index string, pages []wikilinks.PageRecord) []elasticsearch.UpdateInstruction {
	rv := make([]elasticsearch.UpdateInstruction, 0, len(pages))
	for _, p := range pages {
		links := p.Links
		if links == nil {
			links = []string{}
		}
		rv = append(rv, elasticsearch.UpdateInstruction{
			Id:    p.Title,
			Index: index,
			Type:  DocType,
			Body: map[string]interface{}{
				"title": p.Title,
				"links": links,
			},
		})
	}
	return rv
}
