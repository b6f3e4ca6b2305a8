package units

import (
	"fmt"

	"github.com/arloliu/das2/errs"
)

// siPrefixes maps the SI prefixes recognized when reducing finite (non
// -epoch) units to a common base for conversion-factor lookup (§4.4 "an SI
// prefix reducer").
var siPrefixes = map[byte]float64{
	'p': 1e-12,
	'n': 1e-9,
	'u': 1e-6,
	'm': 1e-3,
	'c': 1e-2,
	'd': 1e-1,
	'k': 1e3,
	'M': 1e6,
	'G': 1e9,
	'T': 1e12,
}

// finiteFactors is the built-in conversion table for non-epoch units that
// don't reduce cleanly via a single SI prefix + base (e.g. hours/days vs
// seconds, km vs m). Each entry is "how many of the base unit does one of
// this unit equal".
var finiteFactors = map[Unit]float64{
	Seconds:      1,
	Milliseconds: 1e-3,
	Microseconds: 1e-6,
	Hours:        3600,
	Days:         86400,
	Meters:       1,
	Kilometers:   1000,
	Hertz:        1,
	KiloHertz:    1e3,
	MegaHertz:    1e6,
}

// reduce returns the multiplicative factor from u to a normalized SI base
// value, along with the base's dimension string (so incompatible
// dimensions, e.g. seconds vs meters, are caught). ok is always true: a
// unit with no table entry and no SI prefix falls back to its own string
// as the dimension, with factor 1.
func reduce(u Unit) (factor float64, dim string, ok bool) {
	if f, present := finiteFactors[u]; present {
		dim = baseDimension(u)

		return f, dim, true
	}

	s := u.String()
	if len(s) > 1 {
		if mult, present := siPrefixes[s[0]]; present {
			base := FromString(s[1:])
			if baseFactor, baseDim, baseOK := reduce(base); baseOK {
				return mult * baseFactor, baseDim, true
			}
		}
	}

	// Fall back: treat the unit's decomposed dimension string itself as
	// the comparability key, with factor 1 (e.g. compound units like
	// "nT**2 Hz**-1" compare equal only to themselves).
	return 1, s, true
}

// baseDimension returns the canonical dimension name a unit belongs to for
// the finite-unit table (time, length, frequency).
func baseDimension(u Unit) string {
	switch u {
	case Seconds, Milliseconds, Microseconds, Hours, Days:
		return "time"
	case Meters, Kilometers:
		return "length"
	case Hertz, KiloHertz, MegaHertz:
		return "frequency"
	default:
		return u.String()
	}
}

// CanConvert reports whether a value of unit a can be converted to unit b:
// true if both are epochs, both reduce to the same SI dimension, or a
// built-in conversion factor is available (§4.4).
func CanConvert(a, b Unit) bool {
	if a == b {
		return true
	}

	if HaveCalRep(a) && HaveCalRep(b) {
		return true
	}
	if HaveCalRep(a) != HaveCalRep(b) {
		return false
	}

	_, dimA, okA := reduce(a)
	_, dimB, okB := reduce(b)

	return okA && okB && dimA == dimB
}

// ConvertTo converts value x, expressed in unit source, into unit target.
// For epoch units it returns the offset of x relative to the target epoch
// (§4.4); for finite units it returns the scaled value.
func ConvertTo(target Unit, x float64, source Unit) (float64, error) {
	if target == source {
		return x, nil
	}

	if !CanConvert(source, target) {
		return 0, fmt.Errorf("units: %w: %s -> %s", errs.ErrUnitsIncompatible, source, target)
	}

	if HaveCalRep(source) && HaveCalRep(target) {
		return convertEpoch(target, x, source)
	}

	fa, _, _ := reduce(source)
	fb, _, _ := reduce(target)

	return x * fa / fb, nil
}

// convertEpoch converts an epoch-relative numeric value from source's
// epoch to target's epoch, both expressed in seconds via their Julian-day
// offsets. UTC (a calendar representation, not a numeric offset) is not
// supported by this numeric path; callers holding UTC data should convert
// through dasvalue.Time and units.ToJulian/FromJulian instead.
func convertEpoch(target Unit, x float64, source Unit) (float64, error) {
	srcInfo, ok := epochs[source]
	if !ok {
		return 0, fmt.Errorf("units: %w: %s has no numeric epoch representation", errs.ErrNotAnEpoch, source)
	}
	dstInfo, ok := epochs[target]
	if !ok {
		return 0, fmt.Errorf("units: %w: %s has no numeric epoch representation", errs.ErrNotAnEpoch, target)
	}

	srcSeconds := x * srcInfo.secondsPerLSB
	srcJD := srcInfo.julianOffset + srcSeconds/86400.0

	dstSeconds := (srcJD - dstInfo.julianOffset) * 86400.0

	return dstSeconds / dstInfo.secondsPerLSB, nil
}

// Interval returns the unit of differences between two values of an epoch
// unit: us2000 -> microseconds, t2000/t1970 -> seconds, mj1958 -> days. For
// a non-epoch unit, Interval returns the unit itself (it is already its own
// interval type, §4.4).
func Interval(u Unit) Unit {
	if info, ok := epochs[u]; ok {
		return info.interval
	}
	if u == UTC {
		return Seconds
	}

	return u
}

// BothCalendarEpochs is a small helper used by the variable layer's
// BinaryOp promotion (§4.2.1) to decide whether both sides of a time
// arithmetic expression are calendar epochs and should be normalized to a
// shared Interval before combining.
func BothCalendarEpochs(a, b Unit) bool {
	return HaveCalRep(a) && HaveCalRep(b)
}
