package variable

import (
	"strconv"
	"strings"

	"github.com/arloliu/das2/array"
	"github.com/arloliu/das2/dasvalue"
	"github.com/arloliu/das2/errs"
)

// VectorOverlay tags an ArrayVariable as producing dasvalue.TypeGeoVec
// datums, assembled from NumComponent contiguous elements along the
// array's innermost axis (§4.2.3).
type VectorOverlay struct {
	FrameID      uint8
	System       dasvalue.CoordSystem
	NumComponent uint8
	Dirs         [4]byte
}

// ArrayVariable wraps a backing array.Array with an external-to-array
// index map (§4.2 "Array" variant): extIdx[e] either feeds array axis
// IndexMap[e] (a broadcast-free mapping) or is ignored entirely when
// IndexMap[e] == array.Unused.
type ArrayVariable struct {
	vt       dasvalue.Type
	u        string
	semantic string
	extRank  int
	indexMap []int // len == extRank; array.Unused or target array axis (0-based, in array-axis order)
	arr      *array.Array
	vector   *VectorOverlay
}

// NewArrayVariable builds an ArrayVariable. indexMap must have length
// extRank; its non-Unused entries, sorted, must be exactly 0..k-1 where k
// is the number of array axes this variable addresses (arr.Rank()-1 when
// vector != nil, since the vector overlay claims the innermost axis for
// its components; arr.Rank() otherwise).
func NewArrayVariable(extRank int, indexMap []int, arr *array.Array, semantic string, vector *VectorOverlay) (*ArrayVariable, error) {
	if len(indexMap) != extRank {
		return nil, errs.ErrBadIndexMap
	}

	wantAxes := arr.Rank()
	if vector != nil {
		wantAxes--
		if vector.NumComponent == 0 || vector.NumComponent > 4 {
			return nil, errs.ErrTooManyComponents
		}
	}

	seen := make([]bool, wantAxes)
	for _, m := range indexMap {
		if m == array.Unused {
			continue
		}
		if m < 0 || m >= wantAxes || seen[m] {
			return nil, errs.ErrBadIndexMap
		}
		seen[m] = true
	}

	return &ArrayVariable{
		vt:       arr.ValueType(),
		u:        arr.Units(),
		semantic: semantic,
		extRank:  extRank,
		indexMap: append([]int(nil), indexMap...),
		arr:      arr,
		vector:   vector,
	}, nil
}

func (v *ArrayVariable) ValueType() dasvalue.Type {
	if v.vector != nil {
		return dasvalue.TypeGeoVec
	}

	return v.vt
}
func (v *ArrayVariable) Units() string     { return v.u }
func (v *ArrayVariable) ExternalRank() int { return v.extRank }
func (v *ArrayVariable) Semantic() string  { return v.semantic }

// arrAxes returns the number of array axes addressed directly by extIdx
// (excluding the vector overlay's component axis, if any).
func (v *ArrayVariable) arrAxes() int {
	if v.vector != nil {
		return v.arr.Rank() - 1
	}

	return v.arr.Rank()
}

func (v *ArrayVariable) buildInternal(extIdx []int64) ([]int, bool) {
	if len(extIdx) != v.extRank {
		return nil, false
	}

	internal := make([]int, v.arrAxes())
	for e, m := range v.indexMap {
		if m == array.Unused {
			continue
		}
		internal[m] = int(extIdx[e])
	}

	return internal, true
}

func (v *ArrayVariable) Get(extIdx []int64, out *dasvalue.Datum) bool {
	internal, ok := v.buildInternal(extIdx)
	if !ok {
		return false
	}

	if v.vector == nil {
		raw, err := v.arr.GetAt(internal...)
		if err != nil {
			return false
		}
		*out = dasvalue.DecodeDatum(v.vt, v.u, defaultEngine, raw)

		return true
	}

	n := int(v.vector.NumComponent)
	var gv dasvalue.GeoVec
	gv.FrameID = v.vector.FrameID
	gv.System = v.vector.System
	gv.NumComponent = v.vector.NumComponent
	gv.Dirs = v.vector.Dirs

	idx := append(internal, 0)
	for c := 0; c < n; c++ {
		idx[len(idx)-1] = c
		raw, err := v.arr.GetAt(idx...)
		if err != nil {
			return false
		}
		d := dasvalue.DecodeDatum(v.vt, v.u, defaultEngine, raw)
		gv.Components[c] = float32(d.Float64())
	}
	*out = dasvalue.NewGeoVec(gv, v.u)

	return true
}

func (v *ArrayVariable) Shape() array.Shape {
	var shp array.Shape
	for i := range shp {
		shp[i] = array.Unused
	}

	arrShape := v.arr.Shape()
	for e, m := range v.indexMap {
		if m == array.Unused {
			continue
		}
		shp[e] = arrShape[m]
	}

	return shp
}

// LengthIn maps the partial external index down into the backing array by
// walking its axes in order and subsetting at each already-known
// position, then reads the resulting length off the reduced array's own
// dimension 0 (§4.2 "length_in").
func (v *ArrayVariable) LengthIn(nIdx int, partialLoc []int64) int64 {
	target, ok := -1, false
	for e, m := range v.indexMap {
		if e == nIdx && m != array.Unused {
			target, ok = m, true

			break
		}
	}
	if !ok {
		return array.Unused
	}

	cur := v.arr
	for aa := 0; aa < target; aa++ {
		ext := v.extAxisFor(aa)
		if ext < 0 || ext >= len(partialLoc) {
			return array.Ragged
		}
		sub, err := cur.Subset(int(partialLoc[ext]))
		if err != nil {
			return array.Ragged
		}
		cur = sub
	}

	return cur.Shape()[0]
}

func (v *ArrayVariable) extAxisFor(arrAxis int) int {
	for e, m := range v.indexMap {
		if m == arrAxis {
			return e
		}
	}

	return -1
}

// Subset returns a new, densely-packed array.Array covering [min,max) by
// walking the requested external range cell by cell. A striding fast path
// (valid when the array itself is non-ragged across the requested range)
// is not attempted here; the index-walk path below is always correct,
// including for ragged backing arrays, at the cost of the striding
// fast-path's extra speed (§4.2 "Subset").
func (v *ArrayVariable) Subset(min, max []int64) (*array.Array, error) {
	rank := len(min)
	shapeHints := make([]int, rank)
	for d := 1; d < rank; d++ {
		shapeHints[d] = int(max[d] - min[d])
	}
	out, err := array.New(v.semanticOrDefault(), v.ValueType(), rank, shapeHints)
	if err != nil {
		return nil, err
	}
	out.SetUnits(v.u)

	idx := make([]int64, rank)
	copy(idx, min)

	var walk func(depth int) error
	var d dasvalue.Datum

	walk = func(depth int) error {
		if depth == rank {
			var raw []byte
			if v.Get(idx, &d) {
				raw = make([]byte, d.Type.Size())
				d.Encode(defaultEngine, raw)
			} else {
				raw = make([]byte, v.ValueType().Size())
				fillDatum := dasvalue.NewFill(v.ValueType(), v.u)
				fillDatum.Encode(defaultEngine, raw)
			}

			return out.Append(raw, 1)
		}

		for i := min[depth]; i < max[depth]; i++ {
			idx[depth] = i
			if err := walk(depth + 1); err != nil {
				return err
			}
		}

		return nil
	}

	if err := walk(0); err != nil {
		return nil, err
	}

	return out, nil
}

func (v *ArrayVariable) semanticOrDefault() string {
	if v.semantic != "" {
		return v.semantic + "-subset"
	}

	return "array-subset"
}

func (v *ArrayVariable) IsFill(d dasvalue.Datum) bool { return d.IsFill() }

func (v *ArrayVariable) Expression() string {
	parts := make([]string, 0, len(v.indexMap))
	for e, m := range v.indexMap {
		if m == array.Unused {
			continue
		}
		parts = append(parts, strconv.Itoa(e)+"->"+strconv.Itoa(m))
	}

	return v.arr.ID() + "[" + strings.Join(parts, ",") + "]"
}
