package variable

import (
	"fmt"

	"github.com/arloliu/das2/array"
	"github.com/arloliu/das2/dasvalue"
)

// BinaryOp combines two variables pointwise with an operator token, per
// §4.2 "BinaryOp" and the promotion/unit-merge table of §4.2.1. The
// promotion (output type, output units, right-hand scale factor) is
// resolved once at construction time, not on every Get.
type BinaryOp struct {
	op        Op
	left      Variable
	right     Variable
	promotion promotion
	extRank   int
}

// NewBinaryOp builds a BinaryOp combining left op right. left and right
// must agree on external rank.
func NewBinaryOp(op Op, left, right Variable) (*BinaryOp, error) {
	p, err := resolvePromotion(op, left.ValueType(), right.ValueType(), left.Units(), right.Units())
	if err != nil {
		return nil, err
	}

	extRank := left.ExternalRank()
	if right.ExternalRank() > extRank {
		extRank = right.ExternalRank()
	}

	return &BinaryOp{op: op, left: left, right: right, promotion: p, extRank: extRank}, nil
}

func (b *BinaryOp) ValueType() dasvalue.Type { return b.promotion.resultVT }
func (b *BinaryOp) Units() string            { return b.promotion.resultU.String() }
func (b *BinaryOp) ExternalRank() int        { return b.extRank }

func (b *BinaryOp) Get(extIdx []int64, out *dasvalue.Datum) bool {
	var ld, rd dasvalue.Datum
	if !b.left.Get(extIdx, &ld) || !b.right.Get(extIdx, &rd) {
		return false
	}

	if ld.IsFill() || rd.IsFill() {
		*out = dasvalue.NewFill(b.ValueType(), b.Units())
		return true
	}

	if b.promotion.timeOp {
		return b.getTime(ld, rd, out)
	}

	lv := ld.Float64()
	rv := rd.Float64() * b.promotion.rhsScale

	var v float64
	switch b.op {
	case OpAdd:
		v = lv + rv
	case OpSub:
		v = lv - rv
	case OpMul:
		v = lv * rv
	case OpDiv:
		v = lv / rv
	default:
		return false
	}

	*out = encodeNumeric(b.promotion.vt, v, b.Units())

	return true
}

// getTime handles the time ± duration and time - time cases, which operate
// on dasvalue.Time rather than a plain float64 (§4.2.1).
func (b *BinaryOp) getTime(ld, rd dasvalue.Datum, out *dasvalue.Datum) bool {
	switch {
	case ld.Type == dasvalue.TypeTime && rd.Type == dasvalue.TypeTime:
		// time - time -> duration seconds, via Julian-day difference.
		diffDays := timeToJD(ld.Time()) - timeToJD(rd.Time())
		*out = dasvalue.NewFloat64(diffDays*86400.0, b.Units())

		return true

	case ld.Type == dasvalue.TypeTime:
		deltaSeconds := rd.Float64() * b.promotion.rhsScale
		if b.op == OpSub {
			deltaSeconds = -deltaSeconds
		}
		base := ld.Time()
		jd := timeToJD(base) + deltaSeconds/86400.0
		*out = dasvalue.NewTime(jdToTime(jd), b.Units())

		return true

	default:
		return false
	}
}

func (b *BinaryOp) Shape() array.Shape {
	return mergeShapes(b.left.Shape(), b.right.Shape())
}

func (b *BinaryOp) LengthIn(nIdx int, partialLoc []int64) int64 {
	return array.MergeIndex(b.left.LengthIn(nIdx, partialLoc), b.right.LengthIn(nIdx, partialLoc))
}

func (b *BinaryOp) Subset(min, max []int64) (*array.Array, error) {
	la, err := b.left.Subset(min, max)
	if err != nil {
		return nil, err
	}
	defer la.Decref()

	ra, err := b.right.Subset(min, max)
	if err != nil {
		return nil, err
	}
	defer ra.Decref()

	shapeHints := make([]int, la.Rank())
	shp := la.Shape()
	for d := 1; d < la.Rank(); d++ {
		if shp[d] >= 0 {
			shapeHints[d] = int(shp[d])
		}
	}

	out, err := array.New("binary-subset", b.ValueType(), la.Rank(), shapeHints)
	if err != nil {
		return nil, err
	}
	out.SetUnits(b.Units())

	n := la.Valid()
	for i := 0; i < n; i++ {
		idx := flatIndex(la, i)
		lraw, err1 := la.GetAt(idx...)
		rraw, err2 := ra.GetAt(idx...)
		if err1 != nil || err2 != nil {
			continue
		}

		ld := dasvalue.DecodeDatum(la.ValueType(), la.Units(), defaultEngine, lraw)
		rd := dasvalue.DecodeDatum(ra.ValueType(), ra.Units(), defaultEngine, rraw)

		var res dasvalue.Datum
		if !b.combine(ld, rd, &res) {
			res = dasvalue.NewFill(b.ValueType(), b.Units())
		}

		raw := make([]byte, b.ValueType().Size())
		res.Encode(defaultEngine, raw)
		if err := out.Append(raw, 1); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// combine applies the already-resolved operator/promotion to two Datums,
// the Subset path's equivalent of Get's per-index logic.
func (b *BinaryOp) combine(ld, rd dasvalue.Datum, out *dasvalue.Datum) bool {
	if ld.IsFill() || rd.IsFill() {
		*out = dasvalue.NewFill(b.ValueType(), b.Units())
		return true
	}
	if b.promotion.timeOp {
		return b.getTime(ld, rd, out)
	}

	lv := ld.Float64()
	rv := rd.Float64() * b.promotion.rhsScale

	var v float64
	switch b.op {
	case OpAdd:
		v = lv + rv
	case OpSub:
		v = lv - rv
	case OpMul:
		v = lv * rv
	case OpDiv:
		v = lv / rv
	default:
		return false
	}

	*out = encodeNumeric(b.promotion.vt, v, b.Units())

	return true
}

func (b *BinaryOp) IsFill(d dasvalue.Datum) bool { return d.IsFill() }

func (b *BinaryOp) Expression() string {
	return fmt.Sprintf("(%s %s %s)", b.left.Expression(), b.op, b.right.Expression())
}
