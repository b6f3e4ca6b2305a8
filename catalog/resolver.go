package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/arloliu/das2/errs"
	"github.com/arloliu/das2/internal/pool"
	"github.com/arloliu/das2/transport"
)

// BuiltinRoots are the two built-in root catalog URLs tried, in order,
// with an exponentially increasing connection timeout, when a caller does
// not supply its own (§4.6 "two built-in root URLs").
var BuiltinRoots = []string{
	"https://das2.org/catalog/das2.json",
	"https://das2.org/catalog/das2ServerCatalog.json",
}

const (
	initialRootTimeout = 2 * time.Second
	maxRootAttempts     = 4
)

// Resolver fetches and walks the catalog tree rooted at one or more root
// URLs, memoising every node it has resolved by its full path.
type Resolver struct {
	client *transport.Client
	auth   transport.AuthProvider
	roots  []string
	disk   *DiskCache

	mu       sync.Mutex
	memo     map[string]*Node
	memoDocs map[string][]byte
}

// NewResolver builds a Resolver. roots defaults to BuiltinRoots if empty.
// disk may be nil to disable on-disk persistence.
func NewResolver(client *transport.Client, auth transport.AuthProvider, roots []string, disk *DiskCache) *Resolver {
	if len(roots) == 0 {
		roots = BuiltinRoots
	}

	return &Resolver{
		client:   client,
		auth:     auth,
		roots:    roots,
		disk:     disk,
		memo:     make(map[string]*Node),
		memoDocs: make(map[string][]byte),
	}
}

// fetchRoot tries each configured root URL with an exponentially
// increasing per-attempt timeout until one succeeds.
func (r *Resolver) fetchRoot(ctx context.Context) (*Node, error) {
	if n, ok := r.lookupMemo(""); ok {
		return n, nil
	}

	timeout := initialRootTimeout
	var lastErr error
	for _, root := range r.roots {
		for attempt := 0; attempt < maxRootAttempts; attempt++ {
			rctx, cancel := context.WithTimeout(ctx, timeout)
			doc, err := r.fetch(rctx, root)
			cancel()
			if err == nil {
				node, perr := ParseNode(doc)
				if perr != nil {
					lastErr = perr

					break
				}
				r.storeMemo("", node, doc)

				return node, nil
			}
			lastErr = err
			timeout *= 2
		}
	}

	return nil, fmt.Errorf("catalog: %w: %v", errs.ErrCatalogNotFound, lastErr)
}

func (r *Resolver) fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := r.client.Get(ctx, url, r.auth)
	if err != nil {
		return nil, err
	}
	defer resp.Close()

	bb := pool.GetDocBuffer()
	defer pool.PutDocBuffer(bb)

	chunk := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(chunk)
		if n > 0 {
			bb.MustWrite(chunk[:n])
		}
		if err != nil {
			break
		}
	}

	// Copy out of the pooled buffer before it is returned to the pool.
	doc := make([]byte, bb.Len())
	copy(doc, bb.Bytes())

	return doc, nil
}

func (r *Resolver) lookupMemo(path string) (*Node, bool) {
	r.mu.Lock()
	n, ok := r.memo[path]
	r.mu.Unlock()
	if ok {
		return n, true
	}

	if r.disk != nil {
		if doc, ok := r.disk.Get(path); ok {
			if n, err := ParseNode(doc); err == nil {
				r.mu.Lock()
				r.memo[path] = n
				r.mu.Unlock()

				return n, true
			}
		}
	}

	return nil, false
}

func (r *Resolver) storeMemo(path string, n *Node, doc []byte) {
	r.mu.Lock()
	r.memo[path] = n
	r.memoDocs[path] = doc
	r.mu.Unlock()

	if r.disk != nil {
		r.disk.Put(path, doc)
	}
}

// fetchChild resolves a container node's child named name, fetching its
// document over HTTP if the child is a stub (URLS-only reference) rather
// than an inline node.
func (r *Resolver) fetchChild(ctx context.Context, parentPath string, child Node, name string) (*Node, error) {
	fullPath := name
	if parentPath != "" {
		fullPath = parentPath + "/" + name
	}

	if child.Children() != nil || child.Type == TypeHttpStreamSrc || child.Type == TypeFileAggregation {
		return &child, nil
	}

	if n, ok := r.lookupMemo(fullPath); ok {
		return n, nil
	}

	if len(child.Urls) == 0 {
		return &child, nil
	}

	doc, err := r.fetch(ctx, child.Urls[0])
	if err != nil {
		return nil, err
	}
	node, err := ParseNode(doc)
	if err != nil {
		return nil, err
	}
	r.storeMemo(fullPath, node, doc)

	return node, nil
}

// Resolve walks path (e.g. "cassini/survey/das2") down the catalog tree
// starting at the configured roots, handling ambiguous child-name
// prefixes by recursing into each candidate and backing out if it cannot
// complete the remaining path (§8 scenario 6).
func (r *Resolver) Resolve(ctx context.Context, path string) (*Node, error) {
	root, err := r.fetchRoot(ctx)
	if err != nil {
		return nil, err
	}

	segments := splitPath(path)
	if len(segments) == 0 {
		return root, nil
	}

	node, _, err := r.walk(ctx, root, "", segments)

	return node, err
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}

	return strings.Split(path, "/")
}

// walk consumes segments one at a time against node's children, trying
// every child whose name shares a prefix with the next segment and
// backtracking to the next candidate whenever a choice fails to resolve
// the remaining path. Candidates come from a map, so the order in which
// they are tried (and which one wins when several succeed) is not defined.
func (r *Resolver) walk(ctx context.Context, node *Node, curPath string, segments []string) (*Node, string, error) {
	if len(segments) == 0 {
		return node, curPath, nil
	}

	children := node.Children()
	if children == nil {
		return nil, curPath, fmt.Errorf("catalog: %w: %q is not a container", errs.ErrCatalogNotFound, curPath)
	}

	head := segments[0]

	// Exact match first; if it cannot complete the remaining path, fall
	// through to the prefix candidates below.
	if child, ok := children[head]; ok {
		if n, p, err := r.descend(ctx, node, curPath, head, child, segments); err == nil {
			return n, p, nil
		}
	}

	// Ambiguous-prefix candidates: every child name that is a prefix of
	// head, or for which head is a prefix (handles both "survey" under
	// "survey_keyparams" and the reverse), tried in map iteration order.
	for name, child := range children {
		if name == head {
			continue
		}
		if !strings.HasPrefix(name, head) && !strings.HasPrefix(head, name) {
			continue
		}

		if n, p, err := r.descend(ctx, node, curPath, name, child, segments); err == nil {
			return n, p, nil
		}
	}

	return nil, curPath, fmt.Errorf("catalog: %w: %q", errs.ErrCatalogNotFound, strings.Join(segments, "/"))
}

func (r *Resolver) descend(ctx context.Context, parent *Node, curPath, name string, child Node, segments []string) (*Node, string, error) {
	resolved, err := r.fetchChild(ctx, curPath, child, name)
	if err != nil {
		return nil, curPath, err
	}

	nextPath := name
	if curPath != "" {
		nextPath = curPath + "/" + name
	}

	return r.walk(ctx, resolved, nextPath, segments[1:])
}
