package units

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/arloliu/das2/errs"
)

// term is one "base**exponent" factor of a compound unit expression.
type term struct {
	base string
	exp  float64
}

// decompose parses a canonical unit string ("V**2 m**-2 Hz**-1") into its
// base/exponent terms. A bare token (no "**") has exponent 1.
func decompose(s string) []term {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	fields := strings.Fields(s)
	terms := make([]term, 0, len(fields))
	for _, f := range fields {
		base, expStr, hasExp := strings.Cut(f, "**")
		exp := 1.0
		if hasExp {
			if v, err := strconv.ParseFloat(expStr, 64); err == nil {
				exp = v
			} else if strings.Contains(expStr, "/") {
				num, den, ok := strings.Cut(expStr, "/")
				n, errN := strconv.ParseFloat(num, 64)
				d, errD := strconv.ParseFloat(den, 64)
				if ok && errN == nil && errD == nil && d != 0 {
					exp = n / d
				}
			}
		}
		terms = append(terms, term{base: base, exp: exp})
	}

	return terms
}

// compose formats terms back into canonical form: bases sorted
// alphabetically, unit exponent 1 omitted, zero-exponent terms dropped.
func compose(terms []term) string {
	merged := map[string]float64{}
	order := make([]string, 0, len(terms))
	for _, t := range terms {
		if _, ok := merged[t.base]; !ok {
			order = append(order, t.base)
		}
		merged[t.base] += t.exp
	}

	sort.Strings(order)

	parts := make([]string, 0, len(order))
	for _, base := range order {
		exp := merged[base]
		if exp == 0 {
			continue
		}
		if exp == 1 {
			parts = append(parts, base)
		} else if exp == math.Trunc(exp) {
			parts = append(parts, fmt.Sprintf("%s**%d", base, int64(exp)))
		} else {
			parts = append(parts, fmt.Sprintf("%s**%g", base, exp))
		}
	}

	return strings.Join(parts, " ")
}

// Multiply combines two units via multiplication, e.g. "kg m**2 s**-1",
// "kg**-1" -> "m**2 s**-1" (§4.4).
func Multiply(a, b Unit) Unit {
	if HaveCalRep(a) || HaveCalRep(b) {
		// Multiplying an epoch unit is not physically meaningful; the
		// source library leaves this undefined behavior, we treat it
		// as producing Dimensionless to stay total.
		return Dimensionless
	}

	terms := append(decompose(a.String()), decompose(b.String())...)

	return FromString(compose(terms))
}

// Divide combines two units via division: Divide(a,b) == Multiply(a,
// Power(b,-1)) (§4.4).
func Divide(a, b Unit) Unit {
	return Multiply(a, Power(b, -1))
}

// Power raises a unit to an integer (or fractional) power.
func Power(u Unit, power float64) Unit {
	terms := decompose(u.String())
	out := make([]term, len(terms))
	for i, t := range terms {
		out[i] = term{base: t.base, exp: t.exp * power}
	}

	return FromString(compose(out))
}

// Root reduces a unit to an integer root, e.g. Root("m**2", 2) -> "m".
func Root(u Unit, root int) (Unit, error) {
	if root <= 0 {
		return Unit{}, fmt.Errorf("units: %w: root must be positive", errs.ErrUnitsIncompatible)
	}

	return Power(u, 1/float64(root)), nil
}

// Invert returns the reciprocal of u (Power(u, -1)), with a special case
// for the common s**-1 <-> Hz idiom (§4.4 "Units_invert").
func Invert(u Unit) Unit {
	switch u {
	case Seconds:
		return Hertz
	case Hertz:
		return Seconds
	default:
		return Power(u, -1)
	}
}
