package variable

import (
	"fmt"

	"github.com/arloliu/das2/dasvalue"
	"github.com/arloliu/das2/errs"
	"github.com/arloliu/das2/units"
)

// promotion is the result of resolving a BinaryOp's output type and units
// once, at construction time (§4.2.1): the value type both sides are
// promoted to before combining, the result's units, and the multiplicative
// scale applied to the right-hand side's float64 value at every Get.
type promotion struct {
	vt        dasvalue.Type
	resultVT  dasvalue.Type // the variable's own ValueType (may be Time for +/-)
	resultU   units.Unit
	rhsScale  float64
	leftConv  func(float64) float64 // not set by resolvePromotion and not applied by Get
	rightConv func(float64) float64 // not set by resolvePromotion and not applied by Get
	timeOp    bool // true when either side is TypeTime: Get must special-case through dasvalue.Time
}

// resolvePromotion implements the merge table of §4.2.1: value-type
// promotion plus unit merging, computed once so Get never has to branch on
// it per call.
func resolvePromotion(op Op, leftVT, rightVT dasvalue.Type, leftU, rightU string) (promotion, error) {
	lu, ru := units.FromString(leftU), units.FromString(rightU)

	leftIsTime := leftVT == dasvalue.TypeTime
	rightIsTime := rightVT == dasvalue.TypeTime

	switch {
	case leftIsTime && rightIsTime:
		if op != OpSub {
			return promotion{}, fmt.Errorf("variable: %w: time op time only supports subtraction", errs.ErrIllegalBinaryOp)
		}
		// time - time -> duration (float64 seconds).
		return promotion{
			vt:       dasvalue.TypeFloat64,
			resultVT: dasvalue.TypeFloat64,
			resultU:  units.Seconds,
			rhsScale: 1,
			timeOp:   true,
		}, nil

	case leftIsTime && !rightIsTime:
		if op != OpAdd && op != OpSub {
			return promotion{}, fmt.Errorf("variable: %w: time only supports +/- a duration", errs.ErrIllegalBinaryOp)
		}
		scale, err := units.ConvertTo(units.Seconds, 1, ru)
		if err != nil {
			return promotion{}, fmt.Errorf("variable: %w", errs.ErrUnitsIncompatible)
		}

		return promotion{
			vt:       dasvalue.TypeFloat64,
			resultVT: dasvalue.TypeTime,
			resultU:  lu,
			rhsScale: scale,
			timeOp:   true,
		}, nil

	case rightIsTime && !leftIsTime:
		return promotion{}, fmt.Errorf("variable: %w: a duration cannot be the left operand of time arithmetic", errs.ErrIllegalBinaryOp)
	}

	// Neither side is time: plain numeric promotion.
	vt := dasvalue.TypeFloat64
	if leftVT.IsShort() && rightVT.IsShort() {
		vt = dasvalue.TypeFloat32
	}

	resultU, rhsScale, err := mergeUnits(op, lu, ru)
	if err != nil {
		return promotion{}, err
	}

	return promotion{vt: vt, resultVT: vt, resultU: resultU, rhsScale: rhsScale}, nil
}

// mergeUnits implements §4.2.1's unit-merge rules for +/- and */÷.
func mergeUnits(op Op, left, right units.Unit) (units.Unit, float64, error) {
	switch op {
	case OpAdd, OpSub:
		if units.BothCalendarEpochs(left, right) {
			interval := units.Interval(left)
			scale, err := units.ConvertTo(interval, 1, right)
			if err != nil {
				return units.Unit{}, 0, fmt.Errorf("variable: %w", errs.ErrUnitsIncompatible)
			}

			return interval, scale, nil
		}
		if !units.CanConvert(right, left) {
			return units.Unit{}, 0, fmt.Errorf("variable: %w: %s vs %s", errs.ErrUnitsIncompatible, left, right)
		}
		scale, err := units.ConvertTo(left, 1, right)
		if err != nil {
			return units.Unit{}, 0, fmt.Errorf("variable: %w", errs.ErrUnitsIncompatible)
		}

		return left, scale, nil

	case OpMul:
		return units.Multiply(left, right), 1, nil

	case OpDiv:
		return units.Divide(left, right), 1, nil

	default:
		return units.Unit{}, 0, fmt.Errorf("variable: %w: op %s", errs.ErrIllegalBinaryOp, op)
	}
}
