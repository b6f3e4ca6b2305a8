// Package dimension implements the das2 dimension layer: a named grouping
// of variables by role within a dataset (§3/§4.3). A dimension does not
// own its variables exclusively — it holds variable.Ref handles, the same
// reference-counted pattern the variable layer itself uses for its
// children (DESIGN NOTES §9).
package dimension

import (
	"sort"

	"github.com/arloliu/das2/array"
	"github.com/arloliu/das2/errs"
	"github.com/arloliu/das2/variable"
)

// MaxRoles is the largest number of role entries a single Dimension may
// hold (§4.3).
const MaxRoles = 16

// Recognised role names (§4.3). Others are accepted but not standardised.
const (
	RoleCenter      = "center"
	RoleMin         = "min"
	RoleMax         = "max"
	RoleWidth       = "width"
	RoleMean        = "mean"
	RoleMedian      = "median"
	RoleMode        = "mode"
	RoleReference   = "reference"
	RoleOffset      = "offset"
	RoleStdDev      = "std_dev"
	RoleMaxError    = "max_error"
	RoleMinError    = "min_error"
	RoleUncertainty = "uncertainty"
	RolePointSpread = "point_spread"
	RoleWeight      = "weight"
)

// pointVarPriority is the order get_point_var tries roles in (§4.3).
var pointVarPriority = []string{RoleCenter, RoleMean, RoleMedian, RoleMode}

type entry struct {
	role string
	v    *variable.Ref
}

// Dimension is an insertion-ordered table of role -> variable entries plus
// a category, plot-axis affinity tags, and an optional vector-frame name.
type Dimension struct {
	name       string
	category   string
	vectorFrame string
	plotAxes   []string // up to 4 plot-axis affinity tags
	entries    []entry
}

// New creates an empty Dimension named name in the given category (e.g.
// "time", "frequency").
func New(name, category string) *Dimension {
	return &Dimension{name: name, category: category}
}

func (d *Dimension) Name() string     { return d.name }
func (d *Dimension) Category() string { return d.category }

// SetVectorFrame records the optional vector-frame name associated with
// this dimension's variables (§4.3).
func (d *Dimension) SetVectorFrame(frame string) { d.vectorFrame = frame }
func (d *Dimension) VectorFrame() string         { return d.vectorFrame }

// AddPlotAxis appends a plot-axis affinity tag, up to 4 (§4.3).
func (d *Dimension) AddPlotAxis(axis string) error {
	if len(d.plotAxes) >= 4 {
		return errs.ErrTooManyRoles
	}
	d.plotAxes = append(d.plotAxes, axis)

	return nil
}

func (d *Dimension) PlotAxes() []string { return append([]string(nil), d.plotAxes...) }

// Put inserts v under role, taking a new reference. It is an error to add
// a 17th role, or to reuse a role name already present (§4.3).
func (d *Dimension) Put(role string, v *variable.Ref) error {
	if len(d.entries) >= MaxRoles {
		return errs.ErrTooManyRoles
	}
	for _, e := range d.entries {
		if e.role == role {
			return errs.ErrDuplicateRole
		}
	}
	d.entries = append(d.entries, entry{role: role, v: v})

	return nil
}

// Get returns the variable under role, or (nil, false) if absent.
func (d *Dimension) Get(role string) (*variable.Ref, bool) {
	for _, e := range d.entries {
		if e.role == role {
			return e.v, true
		}
	}

	return nil, false
}

// Roles returns the role names present, in insertion order.
func (d *Dimension) Roles() []string {
	out := make([]string, len(d.entries))
	for i, e := range d.entries {
		out[i] = e.role
	}

	return out
}

// SortedRoles returns the role names present, sorted alphabetically
// (useful for deterministic descriptor serialization).
func (d *Dimension) SortedRoles() []string {
	out := d.Roles()
	sort.Strings(out)

	return out
}

// GetPointVar picks center, then mean, then median, then mode, returning
// the first present (§4.3 "get_point_var"). errs.ErrNoPointVar if none of
// those roles are present.
func (d *Dimension) GetPointVar() (*variable.Ref, error) {
	for _, role := range pointVarPriority {
		if v, ok := d.Get(role); ok {
			return v, nil
		}
	}

	return nil, errs.ErrNoPointVar
}

// Shape merges the shapes of every variable in the dimension using the
// index-merge rules of §4.2.2.
func (d *Dimension) Shape() array.Shape {
	var shp array.Shape
	for i := range shp {
		shp[i] = array.Unused
	}
	for _, e := range d.entries {
		vs := e.v.Shape()
		for i := range shp {
			shp[i] = array.MergeIndex(shp[i], vs[i])
		}
	}

	return shp
}

// LengthIn merges LengthIn across every variable in the dimension, the
// same way Shape merges Shape (§4.3).
func (d *Dimension) LengthIn(nIdx int, partialLoc []int64) int64 {
	result := int64(array.Unused)
	for _, e := range d.entries {
		result = array.MergeIndex(result, e.v.LengthIn(nIdx, partialLoc))
	}

	return result
}

// Close releases this dimension's references to every variable it holds.
func (d *Dimension) Close() {
	for _, e := range d.entries {
		e.v.Close()
	}
	d.entries = nil
}
