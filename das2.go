// Package das2 provides a self-describing binary streaming format for
// scientific time-series data, built for space-physics pipelines: ragged
// multi-dimensional arrays, a physical-units algebra, a variable/
// dimension/dataset data model, and stream I/O with optional deflate
// compression and HTTP-plus-credentials-plus-catalog resolution.
//
// # Core Features
//
//   - Ragged arrays: one element buffer plus a per-dimension index-info
//     chain, growth by doubling, reference-counted subset views
//   - A tagged-union variable model (Const/Sequence/Array/UnaryOp/
//     BinaryOp) with type-promotion and shape-merge rules
//   - A self-describing stream wire format: XML descriptors, binary data
//     packets, out-of-band comments/exceptions, optional zlib wrapping
//   - HTTP transport with an address cache, TLS, and a credentials-aware
//     redirect/auth state machine
//   - A federated JSON catalog tree with ambiguous-prefix path resolution
//
// # Basic Usage
//
// Reading a das2 stream:
//
//	r, _ := stream.NewReader(conn, stream.WithHandlers(stream.Handlers{
//	    OnData: func(id int, desc *stream.PacketDesc, record []byte) error {
//	        // decode record using desc's planes
//	        return nil
//	    },
//	}))
//	err := r.ReadLoop()
//
// Resolving a catalog path:
//
//	client, _ := transport.NewClient()
//	resolver := catalog.NewResolver(client, nil, nil, nil)
//	node, err := resolver.Resolve(ctx, "cassini/survey/das2")
//
// This package re-exports the small set of constructors callers reach for
// most often; for anything else, use the subpackages (dasvalue, units,
// array, variable, dimension, dataset, stream, transport, credentials,
// catalog) directly.
package das2

import (
	"github.com/arloliu/das2/array"
	"github.com/arloliu/das2/dasvalue"
	"github.com/arloliu/das2/units"
)

// NewArray creates a ragged array of the given value type, rank, and
// per-dimension shape hints (0 == ragged dimension). It is a thin
// convenience wrapper over array.New for callers who only need the
// default id/usage.
func NewArray(id string, vt dasvalue.Type, rank int, shapeHints []int) (*array.Array, error) {
	return array.New(id, vt, rank, shapeHints)
}

// Unit interns s and returns its handle; repeat calls with the same
// string always compare equal (units.FromString).
func Unit(s string) units.Unit {
	return units.FromString(s)
}

// Float64 builds a scalar float64 Datum with the given units string.
func Float64(v float64, unitStr string) dasvalue.Datum {
	return dasvalue.NewFloat64(v, unitStr)
}
