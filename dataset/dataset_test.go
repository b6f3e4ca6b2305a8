package dataset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/das2/dasvalue"
	"github.com/arloliu/das2/dataset"
	"github.com/arloliu/das2/dimension"
	"github.com/arloliu/das2/variable"
)

func TestDataset_AddAndFetchDimension(t *testing.T) {
	ds, err := dataset.New("amplitude", 1)
	require.NoError(t, err)

	d := dimension.New("time", "time")
	seq, err := variable.NewSequence(1, 0, dasvalue.NewFloat64(0, "us2000"), 1)
	require.NoError(t, err)
	require.NoError(t, d.Put(dimension.RoleCenter, variable.NewRef(seq)))

	require.NoError(t, ds.AddDimension(d))

	got, ok := ds.Dimension("time")
	require.True(t, ok)
	assert.Same(t, d, got)
	assert.Len(t, ds.Dimensions(), 1)
}

func TestDataset_RankMismatchRejected(t *testing.T) {
	ds, err := dataset.New("amplitude", 1)
	require.NoError(t, err)

	d := dimension.New("time", "time")
	seq, err := variable.NewSequence(2, 1, dasvalue.NewFloat64(0, "us2000"), 1)
	require.NoError(t, err)
	require.NoError(t, d.Put(dimension.RoleCenter, variable.NewRef(seq)))

	err = ds.AddDimension(d)
	assert.Error(t, err)
}

func TestDataset_InvalidRankRejected(t *testing.T) {
	_, err := dataset.New("x", 0)
	assert.Error(t, err)
	_, err = dataset.New("x", 9)
	assert.Error(t, err)
}
