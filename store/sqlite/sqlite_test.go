package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dustin/go-wikilinks"
)

func openTestStore(t *testing.T) *Store {
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "pages.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStorePagesIgnoresDuplicates(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.StorePages(ctx, []wikilinks.PageRecord{
		{Title: "Alpha", Links: []string{"Beta"}},
		{Title: "Beta"},
		{Title: "Alpha"},
	}))
	require.NoError(t, s.StorePages(ctx, []wikilinks.PageRecord{
		{Title: "Beta"},
		{Title: "Gamma"},
	}))

	titles, err := s.Titles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, titles)
}

func TestStorePagesEmpty(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.StorePages(context.Background(), nil))
	titles, err := s.Titles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, titles)
}

func TestIngestIntoSqlite(t *testing.T) {
	var b strings.Builder
	b.WriteString("<mediawiki>\n")
	for i := 0; i < 2500; i++ {
		fmt.Fprintf(&b, "  <page>\n    <title>Page %d</title>\n    <revision><text>see [[Page %d]]</text></revision>\n  </page>\n", i, i+1)
	}
	b.WriteString("</mediawiki>\n")
	doc := b.String()

	s := openTestStore(t)
	ctx := context.Background()
	st, err := wikilinks.Ingest(ctx, strings.NewReader(doc), int64(len(doc)), s,
		wikilinks.Config{Partitions: 4, ReportEvery: -1})
	require.NoError(t, err)
	assert.EqualValues(t, 2500, st.Pages)
	assert.EqualValues(t, 2500, st.Written)

	titles, err := s.Titles(ctx)
	require.NoError(t, err)
	assert.Len(t, titles, 2500)

	// Running it again stores nothing new.
	_, err = wikilinks.Ingest(ctx, strings.NewReader(doc), int64(len(doc)), s,
		wikilinks.Config{Partitions: 3, ReportEvery: -1})
	require.NoError(t, err)
	titles, err = s.Titles(ctx)
	require.NoError(t, err)
	assert.Len(t, titles, 2500)
}
