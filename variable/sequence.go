package variable

import (
	"fmt"

	"github.com/arloliu/das2/array"
	"github.com/arloliu/das2/dasvalue"
)

// Sequence is a variable affine in exactly one external index: Get(idx) ==
// b + m*idx[dependIdx] (§4.2 "Sequence"). For a time-valued sequence, m is
// pre-scaled to seconds and added to b's broken-down second field; the
// result is renormalized through a Julian-day round trip only when the
// second field leaves [0, 60).
type Sequence struct {
	vt        dasvalue.Type
	u         string
	extRank   int
	dependIdx int
	b         dasvalue.Datum
	m         float64 // slope, in b's units per unit step of the dependent index
}

// NewSequence builds a Sequence variable of extRank external dimensions,
// affine on dependIdx, with intercept b and slope m (expressed in b's
// units per index step).
func NewSequence(extRank, dependIdx int, b dasvalue.Datum, m float64) (*Sequence, error) {
	if dependIdx < 0 || dependIdx >= extRank {
		return nil, fmt.Errorf("variable: dependent index %d outside external rank %d", dependIdx, extRank)
	}

	return &Sequence{vt: b.Type, u: b.Units(), extRank: extRank, dependIdx: dependIdx, b: b, m: m}, nil
}

func (s *Sequence) ValueType() dasvalue.Type { return s.vt }
func (s *Sequence) Units() string            { return s.u }
func (s *Sequence) ExternalRank() int        { return s.extRank }

func (s *Sequence) Get(extIdx []int64, out *dasvalue.Datum) bool {
	if len(extIdx) != s.extRank {
		return false
	}

	i := float64(extIdx[s.dependIdx])

	if s.vt == dasvalue.TypeTime {
		t := s.b.Time()
		t.Second += s.m * i
		if t.Second < 0 || t.Second >= 60 {
			t = jdToTime(timeToJD(t))
		}
		*out = dasvalue.NewTime(t, s.u)

		return true
	}

	v := s.b.Float64() + s.m*i
	*out = encodeNumeric(s.vt, v, s.u)

	return true
}

func (s *Sequence) Shape() array.Shape {
	var shp array.Shape
	for d := range shp {
		if d == s.dependIdx {
			shp[d] = array.Func
		} else {
			shp[d] = array.Unused
		}
	}

	return shp
}

func (s *Sequence) LengthIn(nIdx int, _ []int64) int64 {
	if nIdx == s.dependIdx {
		return array.Func
	}

	return array.Unused
}

func (s *Sequence) Subset(min, max []int64) (*array.Array, error) {
	n := int(max[s.dependIdx] - min[s.dependIdx])
	if n < 0 {
		n = 0
	}

	a, err := array.New("sequence-subset", s.vt, 1, []int{0})
	if err != nil {
		return nil, err
	}
	a.SetUnits(s.u)

	idx := make([]int64, s.extRank)
	copy(idx, min)

	var d dasvalue.Datum
	raw := make([]byte, s.vt.Size())
	for i := 0; i < n; i++ {
		idx[s.dependIdx] = min[s.dependIdx] + int64(i)
		s.Get(idx, &d)
		d.Encode(defaultEngine, raw)
		if err := a.Append(raw, 1); err != nil {
			return nil, err
		}
	}

	return a, nil
}

func (s *Sequence) IsFill(d dasvalue.Datum) bool { return d.IsFill() }

func (s *Sequence) Expression() string {
	return fmt.Sprintf("%s + %g*i%d", s.b.String(), s.m, s.dependIdx)
}
