package array

import "github.com/arloliu/das2/errs"

// Shape returns the array's index-merge-ready shape vector: dimension 0 is
// always the current count of top-level cells (or, for a rank-1 array, the
// valid element count); every deeper dimension is its declared shape hint,
// or Ragged if none was declared (§4.1 "shape(out)").
func (a *Array) Shape() Shape {
	var s Shape
	for d := 0; d < MaxRank; d++ {
		s[d] = Unused
	}

	if a.rank == 1 {
		s[0] = int64(a.valid)
		return s
	}

	s[0] = int64(len(a.bufs[1]))
	for d := 1; d < a.rank; d++ {
		if a.shapeHint[d] > 0 {
			s[d] = int64(a.shapeHint[d])
		} else {
			s[d] = Ragged
		}
	}

	return s
}

// Stride returns the number of elements spanned by one increment of
// dimension d, assuming every dimension deeper than d is non-ragged. It
// errors with errs.ErrRagged if that does not hold, since a ragged
// dimension has no fixed stride (§4.1).
func (a *Array) Stride(d int) (int, error) {
	if d < 0 || d >= a.rank {
		return 0, errs.ErrInvalidRank
	}

	stride := 1
	for depth := d + 1; depth < a.rank; depth++ {
		if a.shapeHint[depth] <= 0 {
			return 0, errs.ErrRagged
		}
		stride *= a.shapeHint[depth]
	}

	return stride, nil
}

// locate walks idx (one index per dimension, 0..rank-1) down the index-info
// chain and returns the resulting element offset (in elements, not bytes).
func (a *Array) locate(idx []int) (int, error) {
	if len(idx) != a.rank {
		return 0, errs.ErrBadExternalRank
	}

	if a.rank == 1 {
		if idx[0] < 0 || idx[0] >= a.valid {
			return 0, errs.ErrIndexOutOfRange
		}
		return idx[0], nil
	}

	cur := idx[0]
	for d := 1; d < a.rank; d++ {
		buf := a.bufs[d]
		if cur < 0 || cur >= len(buf) {
			return 0, errs.ErrIndexOutOfRange
		}
		cell := buf[cur]
		next := idx[d]
		if next < 0 || next >= int(cell.Count) {
			return 0, errs.ErrIndexOutOfRange
		}
		cur = int(cell.Offset) + next
	}

	return cur, nil
}

// GetAt returns the raw, native-byte-order encoding of the element at idx
// (one coordinate per dimension). The returned slice aliases the array's
// internal buffer and must not be retained past the next Append/Clear.
func (a *Array) GetAt(idx ...int) ([]byte, error) {
	elem, err := a.locate(idx)
	if err != nil {
		return nil, err
	}

	off := elem * a.elemSize
	return a.elements[off : off+a.elemSize], nil
}

// PutAt overwrites the element at idx with raw (already encoded) bytes. The
// coordinate must already reference a valid (previously appended) element;
// PutAt never extends the array (§4.1 "put_at" only corrects in place).
func (a *Array) PutAt(value []byte, idx ...int) error {
	elem, err := a.locate(idx)
	if err != nil {
		return err
	}
	if elem >= a.valid {
		return errs.ErrPutAtInvalidRange
	}

	off := elem * a.elemSize
	copy(a.elements[off:off+a.elemSize], value[:a.elemSize])

	return nil
}
