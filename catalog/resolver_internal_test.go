package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWalk_BacktracksAmbiguousPrefix reproduces spec.md §8 scenario 6: a
// root with child "cassini" and grandchildren "survey" and
// "survey_keyparams", where the exact-name match ("survey") cannot
// complete the remaining path and the resolver must back out and try the
// other prefix-sharing candidate.
func TestWalk_BacktracksAmbiguousPrefix(t *testing.T) {
	terminal := Node{Type: TypeHttpStreamSrc, Name: "das2", Urls: []string{"https://example.org/das2"}}

	surveyKeyparams := Node{
		Type: TypeCatalog,
		Name: "survey_keyparams",
		SubPaths: map[string]Node{
			"das2": terminal,
		},
	}
	survey := Node{
		Type: TypeCatalog,
		Name: "survey",
		SubPaths: map[string]Node{
			// deliberately does not have a "das2" child, forcing
			// the walk to back out of this exact-name match.
			"other": {Type: TypeHttpStreamSrc, Name: "other"},
		},
	}
	cassini := Node{
		Type: TypeCatalog,
		Name: "cassini",
		SubPaths: map[string]Node{
			"survey":           survey,
			"survey_keyparams": surveyKeyparams,
		},
	}
	root := Node{
		Type: TypeCatalog,
		SubPaths: map[string]Node{
			"cassini": cassini,
		},
	}

	r := &Resolver{memo: make(map[string]*Node), memoDocs: make(map[string][]byte)}

	got, _, err := r.walk(context.Background(), &root, "", []string{"cassini", "survey", "das2"})
	require.NoError(t, err)
	assert.Equal(t, TypeHttpStreamSrc, got.Type)
	assert.Equal(t, []string{"https://example.org/das2"}, got.Urls)
}

func TestWalk_NotFoundWhenNoCandidateMatches(t *testing.T) {
	root := Node{Type: TypeCatalog, SubPaths: map[string]Node{
		"alpha": {Type: TypeHttpStreamSrc},
	}}

	r := &Resolver{memo: make(map[string]*Node), memoDocs: make(map[string][]byte)}

	_, _, err := r.walk(context.Background(), &root, "", []string{"zzz"})
	assert.Error(t, err)
}

func TestNode_SeparatorDefault(t *testing.T) {
	n := Node{}
	assert.Equal(t, "/", n.Separator())

	n.PathSeparator = ":"
	assert.Equal(t, ":", n.Separator())
}

func TestNode_ChildrenPrefersSubPaths(t *testing.T) {
	n := Node{
		SubPaths: map[string]Node{"a": {}},
		Sources:  map[string]Node{"b": {}},
	}
	children := n.Children()
	_, ok := children["a"]
	assert.True(t, ok)
}
