package array

import (
	"github.com/arloliu/das2/dasvalue"
	"github.com/arloliu/das2/errs"
)

// Append appends count raw elements (count*elemSize bytes, already encoded
// in the array's native byte order) to the element buffer. It then
// cascades the growth up through the index-info chain: a non-ragged
// dimension whose last cell just filled rolls over to a new cell
// automatically; a dimension whose end was explicitly marked (MarkEnd)
// always starts a new cell regardless of fullness (§4.1 "append").
func (a *Array) Append(values []byte, count int) error {
	if !a.owner {
		return errs.ErrNotOwner
	}
	if count <= 0 {
		return nil
	}

	a.growElements(count)
	start := a.valid
	needBytes := (start + count) * a.elemSize
	if needBytes > cap(a.elements) {
		// growElements should have prevented this, but stay defensive
		// rather than silently truncating.
		return errs.ErrShapeExceeded
	}
	a.elements = a.elements[:needBytes]
	copy(a.elements[start*a.elemSize:needBytes], values[:count*a.elemSize])
	a.valid += count

	if a.rank == 1 {
		return nil
	}

	a.growCascade(a.rank-1, start, count)

	return nil
}

// growCascade registers that `childCount` new leaf elements (or, in a
// recursive call, `childCount` new child cells) were appended starting at
// `childOffset`, at the given depth, and propagates the effect upward
// through shallower depths as needed.
func (a *Array) growCascade(depth, childOffset, childCount int) {
	for depth >= 1 {
		a.growCells(depth)
		buf := a.bufs[depth]

		createNew := a.pending[depth] || len(buf) == 0
		if !createNew && a.shapeHint[depth] > 0 {
			last := buf[len(buf)-1]
			if int(last.Count) >= a.shapeHint[depth] {
				createNew = true
			}
		}

		if createNew {
			a.bufs[depth] = append(buf, IndexCell{Offset: int32(childOffset), Count: int32(childCount)})
			a.pending[depth] = false

			if depth == 1 {
				return
			}
			// One new cell appeared at `depth`; its parent (depth-1)
			// must account for it as a single new child.
			childOffset = len(a.bufs[depth]) - 1
			childCount = 1
			depth--

			continue
		}

		// Extend the last existing cell in place: the number of cells
		// at `depth` did not change, so no further propagation is
		// needed.
		buf[len(buf)-1].Count += int32(childCount)

		return
	}
}

// MarkEnd forces the next Append to start a new index-info cell at depth d
// and every depth below it (closer to the element buffer), per §4.1.
// Invalid on depth 0, since the root always grows implicitly.
func (a *Array) MarkEnd(d int) error {
	if d <= 0 || d >= a.rank {
		return errs.ErrMarkEndDepthZero
	}
	for depth := d; depth < a.rank; depth++ {
		a.pending[depth] = true
	}

	return nil
}

// QubeIn makes the most-recently-appended sub-tree at depth d rectangular,
// padding every dimension at d and below with the array's value-type fill
// up to its declared shape hint. Fails if any dimension being padded is
// ragged (shape hint 0).
func (a *Array) QubeIn(d int, engine dasvalue.ByteOrder) error {
	if d < 0 || d >= a.rank {
		return errs.ErrInvalidRank
	}
	for depth := d; depth < a.rank; depth++ {
		if a.shapeHint[depth] <= 0 {
			return errs.ErrQubeOnRagged
		}
	}

	return a.qubeDepth(d, engine)
}

// qubeDepth pads the last cell at `depth` (or, for depth==0, the implicit
// root cell spanning all of bufs[1]) up to its declared shape hint,
// recursing into newly-created child cells so the whole sub-tree below
// becomes rectangular.
func (a *Array) qubeDepth(depth int, engine dasvalue.ByteOrder) error {
	if depth == a.rank-1 {
		return a.padLeaf(depth, engine)
	}

	target := a.shapeHint[depth]
	var curCount int
	var setCount func(int)

	if depth == 0 {
		curCount = len(a.bufs[1])
		setCount = func(int) {} // root has no explicit cell to update
	} else {
		if len(a.bufs[depth]) == 0 {
			return nil // nothing appended yet at this depth; nothing to pad
		}
		last := &a.bufs[depth][len(a.bufs[depth])-1]
		curCount = int(last.Count)
		setCount = func(n int) { last.Count = int32(n) }
	}

	childDepth := depth + 1
	if curCount > 0 {
		// The existing last child may itself be short of its hint; pad it
		// before adding new children after it.
		if err := a.qubeDepth(childDepth, engine); err != nil {
			return err
		}
	}
	for curCount < target {
		// Append one new, empty child cell at childDepth and
		// recursively qube it to be fully rectangular.
		a.growCells(childDepth)
		childOffset := len(a.bufs[childDepth])
		a.bufs[childDepth] = append(a.bufs[childDepth], IndexCell{Offset: int32(a.leafCursor(childDepth)), Count: 0})

		if err := a.qubeDepth(childDepth, engine); err != nil {
			return err
		}

		curCount++
		setCount(curCount)
		_ = childOffset
	}

	return nil
}

// leafCursor returns the offset a freshly-created cell at `depth` should
// start at: for the deepest index-info depth this is the current valid
// element count; for shallower depths it's the current length of the
// child buffer.
func (a *Array) leafCursor(depth int) int {
	if depth == a.rank-1 {
		return a.valid
	}

	return len(a.bufs[depth+1])
}

// padLeaf pads the last leaf cell at `depth` (bufs[depth], whose entries
// reference the element buffer) up to its shape hint by appending fill
// elements.
func (a *Array) padLeaf(depth int, engine dasvalue.ByteOrder) error {
	target := a.shapeHint[depth]

	var cur int
	var grow func(n int)

	if depth == 0 {
		// rank-1 array: the element buffer itself is the only level.
		cur = a.valid
		grow = func(n int) {
			fill := make([]byte, n*a.elemSize)
			for i := 0; i < n; i++ {
				dasvalue.FillBytes(a.vt, engine, fill[i*a.elemSize:(i+1)*a.elemSize])
			}
			_ = a.Append(fill, n)
		}
	} else {
		if len(a.bufs[depth]) == 0 {
			return nil
		}
		last := &a.bufs[depth][len(a.bufs[depth])-1]
		cur = int(last.Count)
		grow = func(n int) {
			fill := make([]byte, n*a.elemSize)
			for i := 0; i < n; i++ {
				dasvalue.FillBytes(a.vt, engine, fill[i*a.elemSize:(i+1)*a.elemSize])
			}
			a.growElements(n)
			start := a.valid
			needBytes := (start + n) * a.elemSize
			a.elements = a.elements[:needBytes]
			copy(a.elements[start*a.elemSize:needBytes], fill)
			a.valid += n
			last.Count += int32(n)
		}
	}

	if cur < target {
		grow(target - cur)
	}

	return nil
}
