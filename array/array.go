package array

import (
	"github.com/arloliu/das2/dasvalue"
	"github.com/arloliu/das2/errs"
)

// UsageFlag tags how an Array's element buffer should be interpreted,
// per §3 "Array": plain / subsequence / fill-terminated subsequence /
// UTF-8 string.
type UsageFlag uint8

const (
	UsagePlain UsageFlag = iota
	UsageSubSeq
	UsageFillTermSubSeq
	UsageUTF8String
)

// IndexCell is one (offset, count) record in an index-info buffer: offset
// indexes into the next-lower buffer (either another index-info buffer, or
// the element buffer at the deepest level), and count is the number of
// contiguous entries/elements belonging to this cell.
type IndexCell struct {
	Offset int32
	Count  int32
}

// Array is a dynamic, ragged, multi-rank container of one dasvalue.Type,
// per §3/§4.1.
type Array struct {
	id        string
	vt        dasvalue.Type
	elemSize  int
	rank      int
	shapeHint [MaxRank]int // 0 == ragged, >0 == qube length, indexed by dimension 0..rank-1
	usage     UsageFlag
	units     string

	elements []byte
	valid    int // valid element count (not byte length)

	// bufs[d] holds the index-info buffer for dimension d, for d in
	// [1, rank-1]. bufs[0] is always nil: dimension 0 (the root) has no
	// buffer of its own, its length is simply len(bufs[1]) (or valid,
	// for a rank-1 array with no index-info buffers at all).
	bufs    [MaxRank][]IndexCell
	pending [MaxRank]bool // pending[d]: next growth at depth d must start a new cell

	refcount int32
	owner    bool // false for a Subset view: shares buffers, never frees them
}

// New creates an Array with the given id, value type, rank and initial
// per-dimension shape hints (0 == ragged). The new array is always empty:
// no cells are pre-filled, even when every dimension has a positive hint.
func New(id string, vt dasvalue.Type, rank int, shapeHints []int) (*Array, error) {
	if rank < 1 || rank > MaxRank {
		return nil, errs.ErrInvalidRank
	}
	if len(shapeHints) != rank {
		return nil, errs.ErrInvalidRank
	}

	a := &Array{
		id:       id,
		vt:       vt,
		elemSize: vt.Size(),
		rank:     rank,
		refcount: 1,
		owner:    true,
	}
	copy(a.shapeHint[:rank], shapeHints)

	return a, nil
}

// ID returns the array's text id.
func (a *Array) ID() string { return a.id }

// ValueType returns the element value type.
func (a *Array) ValueType() dasvalue.Type { return a.vt }

// Rank returns the array's rank (1..8).
func (a *Array) Rank() int { return a.rank }

// Units returns the array's unit string.
func (a *Array) Units() string { return a.units }

// SetUnits sets the array's unit string.
func (a *Array) SetUnits(u string) { a.units = u }

// Usage returns the array's usage flag.
func (a *Array) Usage() UsageFlag { return a.usage }

// SetUsage sets the array's usage flag.
func (a *Array) SetUsage(u UsageFlag) { a.usage = u }

// IsOwner reports whether this Array owns its top-level index-info (as
// opposed to being a Subset view). Only an owner may Append, MarkEnd,
// Clear, or QubeIn (§3 Array invariants).
func (a *Array) IsOwner() bool { return a.owner }

// Incref increments the reference count and returns the array itself for
// chaining.
func (a *Array) Incref() *Array {
	a.refcount++
	return a
}

// Decref decrements the reference count. When it reaches zero and a owns
// its buffers, the buffers are released (set to nil so the GC can reclaim
// them; Go has no explicit free, but this keeps the "drop to zero frees
// storage" contract observable via Valid()==0 afterward, §5).
func (a *Array) Decref() {
	a.refcount--
	if a.refcount <= 0 && a.owner {
		a.elements = nil
		a.valid = 0
		for d := range a.bufs {
			a.bufs[d] = nil
		}
	}
}

// RefCount returns the current reference count.
func (a *Array) RefCount() int32 { return a.refcount }

// Valid returns the number of valid elements in the element buffer.
func (a *Array) Valid() int { return a.valid }
