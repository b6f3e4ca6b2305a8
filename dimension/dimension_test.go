package dimension_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/das2/array"
	"github.com/arloliu/das2/dasvalue"
	"github.com/arloliu/das2/dimension"
	"github.com/arloliu/das2/variable"
)

func TestDimension_GetPointVarPriority(t *testing.T) {
	d := dimension.New("time", "time")

	mean := variable.NewRef(variable.NewConst(dasvalue.NewFloat64(1, "s")))
	require.NoError(t, d.Put(dimension.RoleMean, mean))

	got, err := d.GetPointVar()
	require.NoError(t, err)
	assert.Same(t, mean, got)

	center := variable.NewRef(variable.NewConst(dasvalue.NewFloat64(2, "s")))
	require.NoError(t, d.Put(dimension.RoleCenter, center))

	got, err = d.GetPointVar()
	require.NoError(t, err)
	assert.Same(t, center, got)
}

func TestDimension_GetPointVarNoneErrors(t *testing.T) {
	d := dimension.New("time", "time")
	require.NoError(t, d.Put(dimension.RoleWeight, variable.NewRef(variable.NewConst(dasvalue.NewFloat64(1, "")))))

	_, err := d.GetPointVar()
	assert.Error(t, err)
}

func TestDimension_DuplicateRoleRejected(t *testing.T) {
	d := dimension.New("time", "time")
	v := variable.NewRef(variable.NewConst(dasvalue.NewFloat64(1, "s")))
	require.NoError(t, d.Put(dimension.RoleCenter, v))

	err := d.Put(dimension.RoleCenter, v)
	assert.Error(t, err)
}

func TestDimension_ShapeMerge(t *testing.T) {
	d := dimension.New("amp", "amplitude")

	seqA, err := variable.NewSequence(1, 0, dasvalue.NewFloat64(0, "nT"), 1)
	require.NoError(t, err)
	seqB, err := variable.NewSequence(1, 0, dasvalue.NewFloat64(0, "nT"), 1)
	require.NoError(t, err)

	require.NoError(t, d.Put(dimension.RoleCenter, variable.NewRef(seqA)))
	require.NoError(t, d.Put(dimension.RoleWidth, variable.NewRef(seqB)))

	shp := d.Shape()
	assert.EqualValues(t, array.Func, shp[0])
}

func TestDimension_PlotAxesLimit(t *testing.T) {
	d := dimension.New("time", "time")
	for i := 0; i < 4; i++ {
		require.NoError(t, d.AddPlotAxis("x"))
	}
	assert.Error(t, d.AddPlotAxis("x"))
}
