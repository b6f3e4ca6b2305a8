// Package catalog implements das2's federated catalog tree: JSON node
// documents fetched over HTTP, resolved by slash-separated path with
// ambiguous-prefix backtracking, memoised once fetched, and optionally
// cached to disk.
package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/arloliu/das2/errs"
)

// NodeType is the das2 catalog node discriminator (§6 "Catalog JSON").
type NodeType string

const (
	TypeCatalog         NodeType = "Catalog"
	TypeCollection      NodeType = "Collection"
	TypeHttpStreamSrc   NodeType = "HttpStreamSrc"
	TypeFileAggregation NodeType = "FileAggregation"
	TypeSpaseCatalog    NodeType = "SpaseCatalog"
	TypeSpdfCatalog     NodeType = "SpdfCatalog"
)

const defaultPathSeparator = "/"

// Node is one parsed catalog document. SubPaths holds Catalog children,
// Sources holds Collection children; a node is expected to populate at
// most one of the two depending on Type. Urls is populated on terminal
// child stubs (leaf datasets) rather than containers.
type Node struct {
	Type           NodeType          `json:"TYPE"`
	Name           string            `json:"NAME,omitempty"`
	Title          string            `json:"TITLE,omitempty"`
	Urls           []string          `json:"URLS,omitempty"`
	SubPaths       map[string]Node   `json:"SUB_PATHS,omitempty"`
	Sources        map[string]Node   `json:"SOURCES,omitempty"`
	PathSeparator  string            `json:"PATH_SEPARATOR,omitempty"`
}

// Separator returns the node's declared path separator, defaulting to "/".
func (n Node) Separator() string {
	if n.PathSeparator == "" {
		return defaultPathSeparator
	}

	return n.PathSeparator
}

// Children returns the node's container map regardless of whether it is
// a Catalog (SUB_PATHS) or Collection (SOURCES), nil for terminal types.
func (n Node) Children() map[string]Node {
	if n.SubPaths != nil {
		return n.SubPaths
	}

	return n.Sources
}

// ParseNode decodes a catalog node document.
func ParseNode(data []byte) (*Node, error) {
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("catalog: %w: %v", errs.ErrCatalogBadNode, err)
	}

	return &n, nil
}
