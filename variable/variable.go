// Package variable implements the das2 variable layer: a small family of
// value-producing views over an array.Array (or over a constant, a linear
// sequence, or another pair of variables combined by an operator), unified
// behind one interface so a dimension can hold any mix of them (§4.2).
//
// Go has no tagged unions, so the five kinds from the specification
// (Const, Sequence, Array, UnaryOp, BinaryOp) are five concrete types
// implementing Variable, the same way the teacher module expresses its
// Codec/Compressor family as an interface with multiple backends rather
// than a single struct with a discriminant field.
package variable

import (
	"sync/atomic"

	"github.com/arloliu/das2/array"
	"github.com/arloliu/das2/dasvalue"
)

// Variable is the uniform contract every variable kind implements (§4.2
// "Uniform contract").
type Variable interface {
	// ValueType is the type of value Get produces.
	ValueType() dasvalue.Type
	// Units is the variable's unit string.
	Units() string
	// ExternalRank is the number of external index positions this
	// variable is aware of (it may ignore some of them).
	ExternalRank() int
	// Get looks up the value at extIdx, writing it into out and
	// reporting whether a value was found (false for an out-of-range
	// index).
	Get(extIdx []int64, out *dasvalue.Datum) bool
	// Shape merges the shapes of this variable's constituents into a
	// single external-axis shape vector (§4.2.2).
	Shape() array.Shape
	// LengthIn reports the valid length along external axis nIdx, given
	// the other positions of a partial external index (§4.2 "length_in").
	LengthIn(nIdx int, partialLoc []int64) int64
	// Subset returns a newly allocated, densely-packed array.Array
	// covering the external range [min, max).
	Subset(min, max []int64) (*array.Array, error)
	// IsFill reports whether d (of this variable's ValueType) is this
	// variable's fill value.
	IsFill(d dasvalue.Datum) bool
	// Expression renders the variable as a short human-readable formula,
	// e.g. "a + b" or "2000-01-01T00:00Z + 0.1*i2".
	Expression() string
}

// Ref is an Arc-style reference-counted handle to a Variable: cloning it
// bumps a shared counter instead of copying the underlying variable, and
// Close releases one reference, closing the backing array once the count
// reaches zero. Used wherever a dimension or dataset holds onto a child
// variable it does not exclusively own (§4 EXPANSION).
type Ref struct {
	Variable
	rc *int32
}

// NewRef wraps v in a Ref starting at one reference.
func NewRef(v Variable) *Ref {
	rc := int32(1)
	return &Ref{Variable: v, rc: &rc}
}

// Clone returns a new Ref to the same underlying Variable, incrementing
// the shared reference count.
func (r *Ref) Clone() *Ref {
	atomic.AddInt32(r.rc, 1)
	return &Ref{Variable: r.Variable, rc: r.rc}
}

// Close releases this reference. When the count reaches zero and the
// underlying Variable holds an owned array.Array, that array is
// decref'd.
func (r *Ref) Close() {
	if atomic.AddInt32(r.rc, -1) > 0 {
		return
	}
	if av, ok := r.Variable.(*ArrayVariable); ok {
		av.arr.Decref()
	}
}
