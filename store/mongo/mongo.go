// Package mongo stores pages in a mongodb collection with a unique
// index on title.
package mongo

import (
	"context"
	"fmt"

	"gopkg.in/mgo.v2"

	"github.com/dustin/go-wikilinks"
)

// Titles are the identity of a page here.  A second insert of a title
// fails on this index and gets dropped.
var titleIndex = mgo.Index{
	Key:        []string{"title"},
	Unique:     true,
	DropDups:   true,
	Background: true,
	Sparse:     true,
}

type article struct {
	Title string   `bson:"title"`
	Links []string `bson:"links,omitempty"`
}

// Store inserts each batch with one unordered bulk insert.  Duplicate
// key errors are ignored.
type Store struct {
	session *mgo.Session
	c       *mgo.Collection
}

var _ wikilinks.Store = (*Store)(nil)

// Open dials url and makes sure the title index exists on the
// collection.
func Open(url, dbname, collection string) (*Store, error) {
	session, err := mgo.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dialing mongo: %w", err)
	}
	c := session.DB(dbname).C(collection)
	if err := c.EnsureIndex(titleIndex); err != nil {
		session.Close()
		return nil, fmt.Errorf("creating title index: %w", err)
	}
	return &Store{session: session, c: c}, nil
}

func (s *Store) Close() {
	s.session.Close()
}

// StorePages inserts pages, skipping titles already in the collection.
func (s *Store) StorePages(ctx context.Context, pages []wikilinks.PageRecord) error {
	if len(pages) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	b := s.c.Bulk()
	b.Unordered()
	b.Insert(documents(pages)...)
	_, err := b.Run()
	if err != nil && !mgo.IsDup(err) {
		return err
	}
	return nil
}

func documents(pages []wikilinks.PageRecord) []interface{} {
	rv := make([]interface{}, len(pages))
	for i, p := range pages {
		rv[i] = article{Title: p.Title, Links: p.Links}
	}
	return rv
}
