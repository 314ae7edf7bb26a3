package elastic

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dustin/go-wikilinks"
)

func TestInstructions(t *testing.T) {
	ins := Instructions("wikipedia", []wikilinks.PageRecord{
		{Title: "Sponge", Links: []string{"animal"}},
		{Title: "Empty"},
	})
	require.Len(t, ins, 2)

	assert.Equal(t, "Sponge", ins[0].Id)
	assert.Equal(t, "wikipedia", ins[0].Index)
	assert.Equal(t, DocType, ins[0].Type)
	assert.Equal(t, map[string]interface{}{
		"title": "Sponge",
		"links": []string{"animal"},
	}, ins[0].Body)

	assert.Equal(t, map[string]interface{}{
		"title": "Empty",
		"links": []string{},
	}, ins[1].Body)
}

func TestStorePagesBulkFailure(t *testing.T) {
	var mu sync.Mutex
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"cluster unavailable"}`))
	}))
	defer srv.Close()

	s := Open(srv.URL, "wikipedia")
	defer s.Close()

	err := s.StorePages(context.Background(), []wikilinks.PageRecord{
		{Title: "Sponge", Links: []string{"animal"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bulk indexing 1 pages")

	mu.Lock()
	defer mu.Unlock()
	assert.NotEmpty(t, paths)
}
