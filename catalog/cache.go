package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/arloliu/das2/internal/hash"
)

// DiskCache persists resolved catalog node documents under a directory,
// compressed with a pluggable Codec, and keeps a hot in-process memo of
// already-decompressed documents so repeated resolution of the same path
// within a process never touches disk twice.
//
// The default in-process/disk split mirrors the teacher's compression
// dependency set: S2Codec (fast) backs the hot memo spill, LZ4Codec
// (denser) backs the long-lived on-disk cache, selected via
// WithDiskCodec. Callers archiving a cache directory long-term can swap
// in ZstdCodec via WithDiskCodec for a smaller footprint at the cost of
// slower Compress/Decompress.
type DiskCache struct {
	dir       string
	diskCodec Codec
	memoCodec Codec

	mu   sync.Mutex
	memo map[uint64][]byte // key -> memoCodec-compressed document
}

// DiskCacheOption configures a DiskCache at construction time.
type DiskCacheOption func(*DiskCache)

// WithDiskCodec overrides the on-disk codec (default LZ4Codec).
func WithDiskCodec(c Codec) DiskCacheOption {
	return func(dc *DiskCache) { dc.diskCodec = c }
}

// WithMemoCodec overrides the in-process memo codec (default S2Codec).
func WithMemoCodec(c Codec) DiskCacheOption {
	return func(dc *DiskCache) { dc.memoCodec = c }
}

// NewDiskCache creates a cache rooted at dir, which must already exist.
func NewDiskCache(dir string, opts ...DiskCacheOption) *DiskCache {
	dc := &DiskCache{
		dir:       dir,
		diskCodec: LZ4Codec{},
		memoCodec: S2Codec{},
		memo:      make(map[uint64][]byte),
	}
	for _, opt := range opts {
		opt(dc)
	}

	return dc
}

func cacheKey(path string) uint64 {
	return hash.ID(path)
}

func (dc *DiskCache) diskPath(key uint64) string {
	return filepath.Join(dc.dir, fmt.Sprintf("%016x.cat", key))
}

// Get returns the raw document bytes previously stored for path, checking
// the in-process memo before falling back to disk.
func (dc *DiskCache) Get(path string) ([]byte, bool) {
	key := cacheKey(path)

	dc.mu.Lock()
	compressed, ok := dc.memo[key]
	dc.mu.Unlock()
	if ok {
		data, err := dc.memoCodec.Decompress(compressed)
		if err == nil {
			return data, true
		}
	}

	raw, err := os.ReadFile(dc.diskPath(key))
	if err != nil {
		return nil, false
	}
	data, err := dc.diskCodec.Decompress(raw)
	if err != nil {
		return nil, false
	}

	dc.storeMemo(key, data)

	return data, true
}

// Put stores data for path in both the in-process memo and on disk.
func (dc *DiskCache) Put(path string, data []byte) error {
	key := cacheKey(path)
	dc.storeMemo(key, data)

	compressed, err := dc.diskCodec.Compress(data)
	if err != nil {
		return err
	}

	return os.WriteFile(dc.diskPath(key), compressed, 0o644)
}

func (dc *DiskCache) storeMemo(key uint64, data []byte) {
	compressed, err := dc.memoCodec.Compress(data)
	if err != nil {
		return
	}

	dc.mu.Lock()
	dc.memo[key] = compressed
	dc.mu.Unlock()
}
