package dasvalue

import (
	"encoding/binary"
	"math"
)

// CoordSystem names the coordinate system a GeoVec's components are
// expressed in, per §4.2.3's vector variable overlay.
type CoordSystem uint8

const (
	CoordUnknown CoordSystem = iota
	CoordCartesian
	CoordCylindrical
	CoordSphericalSurface
	CoordSpherical
	CoordPlanetocentric
	CoordPlanetodetic
	CoordPlanetographic
)

// geoVecSize is the packed size of a GeoVec: 4 float32 components (16
// bytes) + 1 frame-id byte + 1 coordinate-system byte + 1 component-count
// byte + 4 direction-map bytes, rounded up to 24 bytes for alignment within
// Datum's 32-byte inline buffer.
const geoVecSize = 24

// GeoVec is a geometric vector of up to 4 components, tagged with a
// reference-frame id and a component-ordering map, per §3/§4.2.3.
type GeoVec struct {
	Components   [4]float32
	FrameID      uint8
	System       CoordSystem
	NumComponent uint8   // 1..4
	Dirs         [4]byte // component index -> direction (0..3)
}

func (v GeoVec) bytes() []byte {
	var b [geoVecSize]byte
	for i, c := range v.Components {
		binary.LittleEndian.PutUint32(b[i*4:i*4+4], math.Float32bits(c))
	}
	b[16] = v.FrameID
	b[17] = byte(v.System)
	b[18] = v.NumComponent
	copy(b[19:23], v.Dirs[:])

	return b[:]
}

func geoVecFromBytes(b []byte) GeoVec {
	var v GeoVec
	for i := range v.Components {
		v.Components[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4 : i*4+4]))
	}
	v.FrameID = b[16]
	v.System = CoordSystem(b[17])
	v.NumComponent = b[18]
	copy(v.Dirs[:], b[19:23])

	return v
}

// IsFill reports whether every active component of v is NaN.
func (v GeoVec) IsFill() bool {
	n := int(v.NumComponent)
	if n == 0 || n > 4 {
		n = 4
	}
	for i := 0; i < n; i++ {
		if !math.IsNaN(float64(v.Components[i])) {
			return false
		}
	}

	return true
}
