package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/das2/catalog"
)

func TestDiskCache_PutGetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	dc := catalog.NewDiskCache(dir)

	doc := []byte(`{"TYPE":"Catalog","NAME":"root"}`)
	require.NoError(t, dc.Put("cassini/survey", doc))

	got, ok := dc.Get("cassini/survey")
	require.True(t, ok)
	assert.Equal(t, doc, got)
}

func TestDiskCache_MissingKey(t *testing.T) {
	dc := catalog.NewDiskCache(t.TempDir())
	_, ok := dc.Get("nonexistent")
	assert.False(t, ok)
}

func TestParseNode(t *testing.T) {
	doc := []byte(`{
		"TYPE": "Catalog",
		"NAME": "root",
		"SUB_PATHS": {
			"cassini": {"TYPE": "Collection", "NAME": "cassini"}
		}
	}`)

	n, err := catalog.ParseNode(doc)
	require.NoError(t, err)
	assert.Equal(t, catalog.TypeCatalog, n.Type)

	child, ok := n.Children()["cassini"]
	require.True(t, ok)
	assert.Equal(t, catalog.TypeCollection, child.Type)
}

func TestParseNode_BadJSON(t *testing.T) {
	_, err := catalog.ParseNode([]byte("not json"))
	assert.Error(t, err)
}
