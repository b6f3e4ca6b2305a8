package variable

import (
	"fmt"
	"math"

	"github.com/arloliu/das2/array"
	"github.com/arloliu/das2/dasvalue"
	"github.com/arloliu/das2/errs"
	"github.com/arloliu/das2/units"
)

// UnaryOp applies a single operator token to one child variable (§4.2
// "UnaryOp").
type UnaryOp struct {
	op    Op
	child Variable
	vt    dasvalue.Type
	u     string
}

// NewUnaryOp builds a UnaryOp. Neg and Abs preserve the child's value type
// and units; Sqrt halves the exponent of every unit term and produces a
// float64 from any numeric child; Ln/Log10 produce a dimensionless float64.
func NewUnaryOp(op Op, child Variable) (*UnaryOp, error) {
	if !child.ValueType().IsNumeric() {
		return nil, fmt.Errorf("variable: %w: unary op on non-numeric child", errs.ErrIllegalUnaryOp)
	}

	vt := child.ValueType()
	u := child.Units()

	switch op {
	case OpNeg, OpAbs:
		// vt/u unchanged
	case OpSqrt:
		vt = dasvalue.TypeFloat64
		root, err := units.Root(units.FromString(child.Units()), 2)
		if err != nil {
			return nil, err
		}
		u = root.String()
	case OpLn, OpLog10:
		vt = dasvalue.TypeFloat64
		u = ""
	default:
		return nil, fmt.Errorf("variable: %w: op %s", errs.ErrIllegalUnaryOp, op)
	}

	return &UnaryOp{op: op, child: child, vt: vt, u: u}, nil
}

func (o *UnaryOp) ValueType() dasvalue.Type { return o.vt }
func (o *UnaryOp) Units() string            { return o.u }
func (o *UnaryOp) ExternalRank() int        { return o.child.ExternalRank() }

func (o *UnaryOp) Get(extIdx []int64, out *dasvalue.Datum) bool {
	var c dasvalue.Datum
	if !o.child.Get(extIdx, &c) {
		return false
	}

	if c.IsFill() {
		*out = dasvalue.NewFill(o.vt, o.u)
		return true
	}

	v := c.Float64()
	switch o.op {
	case OpNeg:
		*out = encodeNumeric(o.vt, -v, o.u)
	case OpAbs:
		*out = encodeNumeric(o.vt, math.Abs(v), o.u)
	case OpSqrt:
		*out = encodeNumeric(o.vt, math.Sqrt(v), o.u)
	case OpLn:
		*out = encodeNumeric(o.vt, math.Log(v), o.u)
	case OpLog10:
		*out = encodeNumeric(o.vt, math.Log10(v), o.u)
	default:
		return false
	}

	return true
}

func (o *UnaryOp) Shape() array.Shape          { return o.child.Shape() }
func (o *UnaryOp) LengthIn(nIdx int, partialLoc []int64) int64 {
	return o.child.LengthIn(nIdx, partialLoc)
}

func (o *UnaryOp) Subset(min, max []int64) (*array.Array, error) {
	childArr, err := o.child.Subset(min, max)
	if err != nil {
		return nil, err
	}
	defer childArr.Decref()

	return applyUnaryToArray(o, childArr)
}

// applyUnaryToArray materializes the unary op over every element of a
// densely-packed child array, producing a new owned array of the same
// shape (used by Subset, which must return a concrete array.Array rather
// than a lazy view).
func applyUnaryToArray(o *UnaryOp, childArr *array.Array) (*array.Array, error) {
	shapeHints := make([]int, childArr.Rank())
	a := childArr.Shape()
	for d := 1; d < childArr.Rank(); d++ {
		if a[d] >= 0 {
			shapeHints[d] = int(a[d])
		}
	}

	out, err := array.New("unary-subset", o.vt, childArr.Rank(), shapeHints)
	if err != nil {
		return nil, err
	}
	out.SetUnits(o.u)

	n := childArr.Valid()
	for i := 0; i < n; i++ {
		raw, err := childArr.GetAt(flatIndex(childArr, i)...)
		if err != nil {
			continue
		}
		d := dasvalue.DecodeDatum(childArr.ValueType(), childArr.Units(), defaultEngine, raw)
		v := d.Float64()

		var res dasvalue.Datum
		switch o.op {
		case OpNeg:
			res = encodeNumeric(o.vt, -v, o.u)
		case OpAbs:
			res = encodeNumeric(o.vt, math.Abs(v), o.u)
		case OpSqrt:
			res = encodeNumeric(o.vt, math.Sqrt(v), o.u)
		case OpLn:
			res = encodeNumeric(o.vt, math.Log(v), o.u)
		case OpLog10:
			res = encodeNumeric(o.vt, math.Log10(v), o.u)
		}
		raw2 := make([]byte, o.vt.Size())
		res.Encode(defaultEngine, raw2)
		if err := out.Append(raw2, 1); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// flatIndex decomposes a flat element-buffer offset i into a per-dimension
// coordinate for a dense (fully-qubed) array, as produced by
// Variable.Subset: every dimension below 0 has a fixed, known extent, so
// the usual row-major division/modulo recovers the coordinate without
// walking the index-info chain.
func flatIndex(a *array.Array, i int) []int {
	rank := a.Rank()
	shp := a.Shape()
	idx := make([]int, rank)
	for d := rank - 1; d >= 1; d-- {
		n := int(shp[d])
		if n <= 0 {
			n = 1
		}
		idx[d] = i % n
		i /= n
	}
	idx[0] = i

	return idx
}

func (o *UnaryOp) IsFill(d dasvalue.Datum) bool { return d.IsFill() }

func (o *UnaryOp) Expression() string {
	return fmt.Sprintf("%s(%s)", o.op, o.child.Expression())
}
