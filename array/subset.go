package array

import "github.com/arloliu/das2/errs"

// Subset returns a non-owning view onto the cellIndex-th top-level group of
// a, with rank-1 fewer dimensions: exactly what a dimension's variable
// needs when it walks one external index down into a sub-array (§4.1
// "subset", §4.2.3). The view shares the parent's element buffer and
// deeper index-info buffers; only the outermost level is windowed.
func (a *Array) Subset(cellIndex int) (*Array, error) {
	if a.rank < 2 {
		return nil, errs.ErrInvalidRank
	}
	if cellIndex < 0 || cellIndex >= len(a.bufs[1]) {
		return nil, errs.ErrIndexOutOfRange
	}

	cell := a.bufs[1][cellIndex]
	off, cnt := int(cell.Offset), int(cell.Count)

	sub := &Array{
		id:       a.id,
		vt:       a.vt,
		elemSize: a.elemSize,
		rank:     a.rank - 1,
		usage:    a.usage,
		units:    a.units,
		refcount: 1,
		owner:    false,
	}
	copy(sub.shapeHint[:sub.rank], a.shapeHint[1:a.rank])

	if a.rank == 2 {
		sub.elements = a.elements[off*a.elemSize : (off+cnt)*a.elemSize]
		sub.valid = cnt
		return sub, nil
	}

	sub.elements = a.elements
	sub.valid = a.valid
	for d := 3; d < a.rank; d++ {
		sub.bufs[d-1] = a.bufs[d]
	}
	sub.bufs[1] = a.bufs[2][off : off+cnt]

	return sub, nil
}

// Clear resets an owner array back to empty, keeping its underlying
// buffers allocated for reuse by subsequent Append calls, mirroring the
// teacher's pooled-buffer reuse pattern rather than releasing to the
// garbage collector on every reset.
func (a *Array) Clear() error {
	if !a.owner {
		return errs.ErrNotOwner
	}

	a.valid = 0
	a.elements = a.elements[:0]
	for d := range a.bufs {
		a.bufs[d] = a.bufs[d][:0]
		a.pending[d] = false
	}

	return nil
}

// DisownElements transfers ownership of the element buffer to the caller:
// a stops treating itself as the owner (Decref becomes a no-op on its
// buffers) and the raw bytes are returned for the caller to repurpose
// directly, avoiding a copy.
func (a *Array) DisownElements() []byte {
	a.owner = false
	return a.elements
}
