// Package dataset implements the das2 dataset layer: a named set of
// dimensions sharing one external index space of rank 1..8 (§3).
package dataset

import (
	"github.com/arloliu/das2/array"
	"github.com/arloliu/das2/dimension"
	"github.com/arloliu/das2/errs"
)

// Dataset aggregates named dimensions that share a common external index
// space.
type Dataset struct {
	name string
	rank int
	dims map[string]*dimension.Dimension
	// order preserves insertion order for deterministic iteration/encoding.
	order []string
}

// New creates an empty Dataset named name with the given external rank
// (1..8).
func New(name string, rank int) (*Dataset, error) {
	if rank < 1 || rank > array.MaxRank {
		return nil, errs.ErrInvalidRank
	}

	return &Dataset{name: name, rank: rank, dims: make(map[string]*dimension.Dimension)}, nil
}

func (ds *Dataset) Name() string { return ds.name }
func (ds *Dataset) Rank() int    { return ds.rank }

// AddDimension registers d under its own name. errs.ErrRankMismatch if any
// of d's variables claims an external rank larger than the dataset's.
func (ds *Dataset) AddDimension(d *dimension.Dimension) error {
	for _, role := range d.Roles() {
		v, _ := d.Get(role)
		if v.ExternalRank() > ds.rank {
			return errs.ErrRankMismatch
		}
	}

	if _, exists := ds.dims[d.Name()]; !exists {
		ds.order = append(ds.order, d.Name())
	}
	ds.dims[d.Name()] = d

	return nil
}

// Dimension returns the named dimension, or (nil, false) if absent.
func (ds *Dataset) Dimension(name string) (*dimension.Dimension, bool) {
	d, ok := ds.dims[name]

	return d, ok
}

// Dimensions returns every dimension in insertion order.
func (ds *Dataset) Dimensions() []*dimension.Dimension {
	out := make([]*dimension.Dimension, 0, len(ds.order))
	for _, name := range ds.order {
		out = append(out, ds.dims[name])
	}

	return out
}

// Shape merges the shapes of every dimension in the dataset.
func (ds *Dataset) Shape() array.Shape {
	var shp array.Shape
	for i := range shp {
		shp[i] = array.Unused
	}
	for _, d := range ds.dims {
		dshp := d.Shape()
		for i := range shp {
			shp[i] = array.MergeIndex(shp[i], dshp[i])
		}
	}

	return shp
}

// Close releases every dimension's variable references.
func (ds *Dataset) Close() {
	for _, d := range ds.dims {
		d.Close()
	}
	ds.dims = nil
	ds.order = nil
}
