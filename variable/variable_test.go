package variable_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/das2/array"
	"github.com/arloliu/das2/dasvalue"
	"github.com/arloliu/das2/units"
	"github.com/arloliu/das2/variable"
)

func TestConst_IgnoresIndex(t *testing.T) {
	c := variable.NewConst(dasvalue.NewFloat64(42, "m"))

	var out dasvalue.Datum
	ok := c.Get([]int64{0}, &out)
	require.True(t, ok)
	assert.Equal(t, 42.0, out.Float64())

	ok = c.Get([]int64{999}, &out)
	require.True(t, ok)
	assert.Equal(t, 42.0, out.Float64())
}

// TestSequence_TimeAffine reproduces spec.md §8.2: b=1000 us2000, m=1
// second, dependent on axis 0; Get((5, anything)) yields a time 5 seconds
// after the base.
func TestSequence_TimeAffine(t *testing.T) {
	// 1000 us2000 is 2000-01-01T00:00:00.001.
	base := dasvalue.NewTime(dasvalue.Time{Year: 2000, Month: 1, DayOfMonth: 1, Second: 0.001}, units.US2000.String())

	seq, err := variable.NewSequence(2, 0, base, 1.0)
	require.NoError(t, err)

	var out dasvalue.Datum
	ok := seq.Get([]int64{5, 123}, &out)
	require.True(t, ok)

	// Compare broken-down fields: a float64 Julian day near 2.45e6 only
	// resolves about 40us, too coarse for a 1e-6 s check.
	got := out.Time()
	assert.Equal(t, base.Time().Minute, got.Minute)
	assert.InDelta(t, 5.001, got.Second, 1e-6)
}

func TestSequence_ShapeMarksDependentAxisFunc(t *testing.T) {
	seq, err := variable.NewSequence(2, 1, dasvalue.NewFloat64(0, "s"), 1)
	require.NoError(t, err)

	shp := seq.Shape()
	assert.EqualValues(t, array.Unused, shp[0])
	assert.EqualValues(t, array.Func, shp[1])
}

// TestBinaryOp_UnitScaling reproduces spec.md §8.3: L has units km, R has
// units m; V = L - R; L[0]=10, R[0]=500 => V.Get(0) == 9.5 km.
func TestBinaryOp_UnitScaling(t *testing.T) {
	l := variable.NewConst(dasvalue.NewFloat64(10, "km"))
	r := variable.NewConst(dasvalue.NewFloat64(500, "m"))

	v, err := variable.NewBinaryOp(variable.OpSub, l, r)
	require.NoError(t, err)
	assert.Equal(t, "km", v.Units())

	var out dasvalue.Datum
	ok := v.Get([]int64{0}, &out)
	require.True(t, ok)
	assert.InDelta(t, 9.5, out.Float64(), 1e-9)
}

func TestBinaryOp_FillPropagates(t *testing.T) {
	l := variable.NewConst(dasvalue.NewFill(dasvalue.TypeFloat64, "km"))
	r := variable.NewConst(dasvalue.NewFloat64(500, "m"))

	v, err := variable.NewBinaryOp(variable.OpSub, l, r)
	require.NoError(t, err)

	var out dasvalue.Datum
	ok := v.Get([]int64{0}, &out)
	require.True(t, ok)
	assert.True(t, out.IsFill())
}

func TestBinaryOp_IncompatibleUnitsRejected(t *testing.T) {
	l := variable.NewConst(dasvalue.NewFloat64(10, "km"))
	r := variable.NewConst(dasvalue.NewFloat64(500, "kg"))

	_, err := variable.NewBinaryOp(variable.OpSub, l, r)
	assert.Error(t, err)
}

// TestBinaryOp_ShapeMerge checks §4.2.2's Shape() == merge(L.Shape(),
// R.Shape()) invariant from §8's quantified properties, using two
// sequences with different dependent axes so the merge is non-trivial.
func TestBinaryOp_ShapeMerge(t *testing.T) {
	l, err := variable.NewSequence(2, 0, dasvalue.NewFloat64(0, "s"), 1)
	require.NoError(t, err)
	r, err := variable.NewSequence(2, 1, dasvalue.NewFloat64(0, "s"), 1)
	require.NoError(t, err)

	v, err := variable.NewBinaryOp(variable.OpAdd, l, r)
	require.NoError(t, err)

	shp := v.Shape()
	assert.EqualValues(t, array.Func, shp[0])
	assert.EqualValues(t, array.Func, shp[1])
}

func TestArrayVariable_BroadcastAxis(t *testing.T) {
	arr, err := array.New("amp", dasvalue.TypeFloat32, 1, []int{0})
	require.NoError(t, err)
	require.NoError(t, arr.Append(f32(1, 2, 3), 3))

	// extRank 2, axis 0 is unused (broadcast), axis 1 maps to array axis 0.
	av, err := variable.NewArrayVariable(2, []int{array.Unused, 0}, arr, "amp", nil)
	require.NoError(t, err)

	var out dasvalue.Datum
	ok := av.Get([]int64{42, 1}, &out)
	require.True(t, ok)
	assert.InDelta(t, 2.0, out.Float64(), 1e-6)

	ok = av.Get([]int64{999, 1}, &out)
	require.True(t, ok)
	assert.InDelta(t, 2.0, out.Float64(), 1e-6)
}

// TestVariable_SubsetSize checks §8's "subset(min,max) on any Variable
// returns an Array whose size equals the product of (max-min) for
// non-collapsed axes" property.
func TestVariable_SubsetSize(t *testing.T) {
	arr, err := array.New("amp", dasvalue.TypeFloat32, 1, []int{0})
	require.NoError(t, err)
	require.NoError(t, arr.Append(f32(1, 2, 3, 4, 5), 5))

	av, err := variable.NewArrayVariable(1, []int{0}, arr, "amp", nil)
	require.NoError(t, err)

	sub, err := av.Subset([]int64{1}, []int64{4})
	require.NoError(t, err)
	assert.Equal(t, 3, sub.Valid())
}

func f32(vals ...float32) []byte {
	buf := make([]byte, 0, 4*len(vals))
	for _, v := range vals {
		d := dasvalue.NewFloat32(v, "")
		raw := make([]byte, 4)
		d.Encode(binary.LittleEndian, raw)
		buf = append(buf, raw...)
	}
	return buf
}
