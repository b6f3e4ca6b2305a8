package variable

import (
	"github.com/arloliu/das2/array"
	"github.com/arloliu/das2/dasvalue"
	"github.com/arloliu/das2/endian"
)

// Const is a variable whose value does not depend on the external index at
// all (§4.2 "For Const, the index is ignored").
type Const struct {
	value dasvalue.Datum
}

// NewConst builds a Const variable holding value everywhere.
func NewConst(value dasvalue.Datum) *Const {
	return &Const{value: value}
}

func (c *Const) ValueType() dasvalue.Type { return c.value.Type }
func (c *Const) Units() string            { return c.value.Units() }
func (c *Const) ExternalRank() int        { return 0 }

func (c *Const) Get(_ []int64, out *dasvalue.Datum) bool {
	*out = c.value
	return true
}

func (c *Const) Shape() array.Shape {
	var s array.Shape
	for i := range s {
		s[i] = array.Unused
	}
	return s
}

func (c *Const) LengthIn(_ int, _ []int64) int64 { return array.Unused }

func (c *Const) Subset(min, max []int64) (*array.Array, error) {
	n := 1
	for i := range min {
		if d := int(max[i] - min[i]); d > n {
			n = d
		}
	}
	shapeHints := make([]int, 1)
	shapeHints[0] = 0
	a, err := array.New("const-subset", c.value.Type, 1, shapeHints)
	if err != nil {
		return nil, err
	}
	a.SetUnits(c.value.Units())

	raw := make([]byte, c.value.Type.Size())
	// Const values are small and fixed; encode once and repeat.
	c.value.Encode(endian.GetLittleEndianEngine(), raw)
	rep := make([]byte, len(raw)*n)
	for i := 0; i < n; i++ {
		copy(rep[i*len(raw):(i+1)*len(raw)], raw)
	}
	if err := a.Append(rep, n); err != nil {
		return nil, err
	}

	return a, nil
}

func (c *Const) IsFill(d dasvalue.Datum) bool { return d.IsFill() }

func (c *Const) Expression() string { return c.value.String() }
