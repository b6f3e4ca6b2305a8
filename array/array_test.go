package array_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/das2/array"
	"github.com/arloliu/das2/dasvalue"
	"github.com/arloliu/das2/endian"
)

func f32(vals ...float32) []byte {
	engine := endian.GetLittleEndianEngine()
	buf := make([]byte, 0, 4*len(vals))
	for _, v := range vals {
		buf = engine.AppendUint32(buf, math.Float32bits(v))
	}
	return buf
}

// TestArray_RaggedAppend reproduces the scenario in spec.md §8.1: a rank-3 array
// with shape (0,0,0), appended with marks so dimension 0 ends up with
// 2 cells, dimension 1 ragged with lengths 2 and 1, dimension 2 ragged
// with lengths 3, 1, 2.
func TestArray_RaggedAppend(t *testing.T) {
	a, err := array.New("amp", dasvalue.TypeFloat32, 3, []int{0, 0, 0})
	require.NoError(t, err)

	require.NoError(t, a.Append(f32(1, 2, 3), 3))
	require.NoError(t, a.MarkEnd(2))
	require.NoError(t, a.Append(f32(4), 1))
	require.NoError(t, a.MarkEnd(2))
	require.NoError(t, a.MarkEnd(1))
	require.NoError(t, a.Append(f32(5, 6), 2))
	require.NoError(t, a.MarkEnd(2))
	require.NoError(t, a.MarkEnd(1))

	shape := a.Shape()
	assert.EqualValues(t, 2, shape[0])
	assert.EqualValues(t, array.Ragged, shape[1])
	assert.EqualValues(t, array.Ragged, shape[2])

	sub0, err := a.Subset(0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, sub0.Shape()[0])

	sub1, err := a.Subset(1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, sub1.Shape()[0])

	cell00, err := sub0.Subset(0)
	require.NoError(t, err)
	assert.Equal(t, 3, cell00.Valid())

	cell01, err := sub0.Subset(1)
	require.NoError(t, err)
	assert.Equal(t, 1, cell01.Valid())

	cell10, err := sub1.Subset(0)
	require.NoError(t, err)
	assert.Equal(t, 2, cell10.Valid())
}

func TestArray_AppendNeverDecreasesValid(t *testing.T) {
	a, err := array.New("x", dasvalue.TypeFloat32, 1, []int{0})
	require.NoError(t, err)

	prev := 0
	for i := 0; i < 10; i++ {
		require.NoError(t, a.Append(f32(float32(i)), 1))
		assert.GreaterOrEqual(t, a.Valid(), prev)
		prev = a.Valid()
	}
	assert.Equal(t, 10, a.Valid())
}

func TestArray_QubeInPadsRaggedToShapeHint(t *testing.T) {
	a, err := array.New("x", dasvalue.TypeFloat32, 2, []int{0, 4})
	require.NoError(t, err)

	require.NoError(t, a.Append(f32(1, 2), 2))
	require.NoError(t, a.MarkEnd(1))

	engine := endian.GetLittleEndianEngine()
	require.NoError(t, a.QubeIn(1, engine))

	sub, err := a.Subset(0)
	require.NoError(t, err)
	assert.Equal(t, 4, sub.Valid())
}

func TestArray_QubeInFailsOnRaggedDimension(t *testing.T) {
	a, err := array.New("x", dasvalue.TypeFloat32, 2, []int{0, 0})
	require.NoError(t, err)
	engine := endian.GetLittleEndianEngine()
	err = a.QubeIn(1, engine)
	assert.Error(t, err)
}

func TestArray_PutAtRefusesUnallocatedRange(t *testing.T) {
	a, err := array.New("x", dasvalue.TypeFloat32, 1, []int{0})
	require.NoError(t, err)
	require.NoError(t, a.Append(f32(1, 2), 2))

	err = a.PutAt(f32(9)[:4], 5)
	assert.Error(t, err)

	require.NoError(t, a.PutAt(f32(9)[:4], 0))
	got, err := a.GetAt(0)
	require.NoError(t, err)
	assert.Equal(t, f32(9), got)
}

func TestArray_SubsetSharesBuffersNotOwner(t *testing.T) {
	a, err := array.New("x", dasvalue.TypeFloat32, 2, []int{0, 0})
	require.NoError(t, err)
	require.NoError(t, a.Append(f32(1, 2, 3), 3))
	require.NoError(t, a.MarkEnd(1))

	sub, err := a.Subset(0)
	require.NoError(t, err)
	assert.False(t, sub.IsOwner())

	err = sub.Append(f32(4), 1)
	assert.Error(t, err)
}

func TestArray_StrideRaggedErrors(t *testing.T) {
	a, err := array.New("x", dasvalue.TypeFloat32, 2, []int{0, 0})
	require.NoError(t, err)
	_, err = a.Stride(0)
	assert.Error(t, err)
}

func TestArray_StrideUniform(t *testing.T) {
	a, err := array.New("x", dasvalue.TypeFloat32, 2, []int{0, 4})
	require.NoError(t, err)
	s, err := a.Stride(0)
	require.NoError(t, err)
	assert.Equal(t, 4, s)
}

func TestArray_SnapshotLoadRoundTrip(t *testing.T) {
	a, err := array.New("amp", dasvalue.TypeFloat32, 3, []int{0, 0, 0})
	require.NoError(t, err)
	require.NoError(t, a.Append(f32(1, 2, 3), 3))
	require.NoError(t, a.MarkEnd(2))
	require.NoError(t, a.Append(f32(4), 1))
	require.NoError(t, a.MarkEnd(2))
	require.NoError(t, a.MarkEnd(1))

	snap := a.Snapshot()
	loaded, err := array.Load(snap)
	require.NoError(t, err)

	assert.Equal(t, a.ID(), loaded.ID())
	assert.Equal(t, a.ValueType(), loaded.ValueType())
	assert.Equal(t, a.Valid(), loaded.Valid())
	assert.Equal(t, a.Shape(), loaded.Shape())

	want, err := a.GetAt(0, 0, 1)
	require.NoError(t, err)
	got, err := loaded.GetAt(0, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestArray_DisownElementsStopsFreeingOnDecref(t *testing.T) {
	a, err := array.New("x", dasvalue.TypeFloat32, 1, []int{0})
	require.NoError(t, err)
	require.NoError(t, a.Append(f32(1, 2), 2))

	raw := a.DisownElements()
	assert.Len(t, raw, 8)
	assert.False(t, a.IsOwner())

	a.Decref()
	assert.Equal(t, 2, a.Valid())
}

func TestArray_RefCounting(t *testing.T) {
	a, err := array.New("x", dasvalue.TypeFloat32, 1, []int{0})
	require.NoError(t, err)
	assert.EqualValues(t, 1, a.RefCount())
	a.Incref()
	assert.EqualValues(t, 2, a.RefCount())
	a.Decref()
	assert.EqualValues(t, 1, a.RefCount())
}
