package couchbase

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dustin/go-wikilinks"
)

func TestArticleJSON(t *testing.T) {
	a := NewArticle(wikilinks.PageRecord{Title: "Sponge", Links: []string{"animal", "Cell (biology)|cell"}})
	b, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Sponge","links":["animal","Cell (biology)|cell"]}`, string(b))

	b, err = json.Marshal(NewArticle(wikilinks.PageRecord{Title: "Empty"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Empty"}`, string(b))
}
