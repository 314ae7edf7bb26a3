package couchdb

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dustin/go-wikilinks"
)

func TestEscapeTitle(t *testing.T) {
	tests := []struct {
		in, exp string
	}{
		{"Sponge", "Sponge"},
		{"AC/DC", "AC%2fDC"},
		{"C++", "C%2b%2b"},
		{"a/b+c", "a%2fb%2bc"},
	}
	for _, test := range tests {
		assert.Equal(t, test.exp, EscapeTitle(test.in), "escaping %q", test.in)
	}
}

func TestNewArticle(t *testing.T) {
	a := NewArticle(wikilinks.PageRecord{Title: "AC/DC", Links: []string{"Rock"}})
	assert.Equal(t, Article{ID: "AC%2fDC", Title: "AC/DC", Links: []string{"Rock"}}, a)
}

// fakeCouch answers like a couchdb holding one database.  Inserting
// "Dup" conflicts and inserting "Boom" fails.
type fakeCouch struct {
	mu       sync.Mutex
	inserted []string
}

func (f *fakeCouch) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == "GET" && r.URL.Path == "/":
		w.Write([]byte(`{"couchdb":"Welcome","version":"1.6.1"}`))
	case r.Method == "GET" && r.URL.Path == "/_all_dbs":
		w.Write([]byte(`["wikipedia"]`))
	case r.Method == "POST" || r.Method == "PUT":
		var a Article
		if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		switch a.Title {
		case "Dup":
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"error":"conflict","reason":"Document update conflict."}`))
		case "Boom":
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"unknown","reason":"boom"}`))
		default:
			f.mu.Lock()
			f.inserted = append(f.inserted, a.Title)
			f.mu.Unlock()
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]any{"ok": true, "id": a.ID, "rev": "1-abc"})
		}
	default:
		w.Write([]byte(`{"db_name":"wikipedia","doc_count":0}`))
	}
}

func TestStorePagesConflict(t *testing.T) {
	fc := &fakeCouch{}
	srv := httptest.NewServer(fc)
	defer srv.Close()

	s, err := Open(srv.URL + "/wikipedia")
	require.NoError(t, err)

	err = s.StorePages(t.Context(), []wikilinks.PageRecord{
		{Title: "First"}, {Title: "Dup"}, {Title: "Second"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"First", "Second"}, fc.inserted)

	err = s.StorePages(t.Context(), []wikilinks.PageRecord{{Title: "Boom"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Boom"`)
}
