package stream

import (
	"encoding/xml"
	"strings"
)

// StreamDesc is the root `<stream>` descriptor: stream-wide properties plus
// an optional compression mode (§6 "Descriptor XML").
type StreamDesc struct {
	XMLName     xml.Name   `xml:"stream"`
	Compression string     `xml:"compression,attr,omitempty"`
	Properties  Properties `xml:"properties"`
}

// IsDeflate reports whether this stream descriptor declares deflate
// compression for everything that follows it (§4.5 "Compression").
func (s *StreamDesc) IsDeflate() bool {
	return strings.EqualFold(s.Compression, "deflate")
}

// Plane is one `<x>`, `<y>`, `<yscan>`, or `<z>` field group inside a
// packet descriptor (§6 "plane"). Name disambiguates multiple planes of
// the same kind in one packet.
type Plane struct {
	Name   string `xml:"name,attr,omitempty"`
	Units  string `xml:"units,attr,omitempty"`
	Type   string `xml:"type,attr,omitempty"` // ascii, float, double, time, ...
	Length int    `xml:"length,attr,omitempty"`
}

// PacketDesc is one `<packet>` descriptor, registered under a packet id
// (01..99) by the read loop (§4.5, §6).
type PacketDesc struct {
	XMLName    xml.Name   `xml:"packet"`
	X          Plane      `xml:"x"`
	Y          []Plane    `xml:"y"`
	YScan      []Plane    `xml:"yscan"`
	Z          []Plane    `xml:"z"`
	Properties Properties `xml:"properties"`
}

// RecordSize returns the packet's declared per-record byte count, summing
// every plane's Length * its value type's byte size. fieldSize maps a
// Plane.Type string to its encoded byte width.
func (p *PacketDesc) RecordSize(fieldSize func(string) int) int {
	total := fieldSize(p.X.Type) * max1(p.X.Length)
	for _, pl := range p.Y {
		total += fieldSize(pl.Type) * max1(pl.Length)
	}
	for _, pl := range p.YScan {
		total += fieldSize(pl.Type) * max1(pl.Length)
	}
	for _, pl := range p.Z {
		total += fieldSize(pl.Type) * max1(pl.Length)
	}

	return total
}

func max1(n int) int {
	if n <= 0 {
		return 1
	}

	return n
}

// Property is one das2 descriptor property: a typed name/value pair
// carried as a single "type:key"-named XML attribute on the `<properties>`
// element (§6 "Properties appear as <properties> child with
// name=\"type:key\" value-style attributes").
//
// Recognised Type values: String, boolean, int, double, Datum, DatumRange,
// Time, TimeRange, and their "Array" (space-separated list) variants.
type Property struct {
	Type  string
	Key   string
	Value string
}

// Properties holds every property attached to a stream or packet
// descriptor, preserving attribute order. It implements
// xml.Unmarshaler/xml.Marshaler directly since das2's "type:key" attribute
// naming convention has no natural struct-tag representation.
type Properties struct {
	Items []Property
}

// Get returns the raw string value of the named property, if present,
// regardless of its declared Type.
func (p Properties) Get(key string) (string, bool) {
	for _, it := range p.Items {
		if it.Key == key {
			return it.Value, true
		}
	}

	return "", false
}

// Datumrange properties sometimes carry UTC units, in which case the
// source reinterprets the pair as a time range at parse time rather than a
// numeric range (§9 "Open questions"); IsTimeRange reports whether a
// DatumRange-typed property should receive that promotion.
func (p Property) IsTimeRange() bool {
	return p.Type == "DatumRange" && strings.Contains(p.Value, "UTC")
}

func (p *Properties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, a := range start.Attr {
		// encoding/xml splits a "type:key" attribute name into
		// Name.Space ("type") and Name.Local ("key").
		typ, key := a.Name.Space, a.Name.Local
		if typ == "" {
			var ok bool
			typ, key, ok = strings.Cut(a.Name.Local, ":")
			if !ok {
				typ, key = "String", a.Name.Local
			}
		}
		p.Items = append(p.Items, Property{Type: typ, Key: key, Value: a.Value})
	}

	return d.Skip()
}

func (p Properties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = start.Attr[:0]
	for _, it := range p.Items {
		name := it.Key
		if it.Type != "" && it.Type != "String" {
			name = it.Type + ":" + it.Key
		}
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: name}, Value: it.Value})
	}

	if err := e.EncodeToken(start); err != nil {
		return err
	}

	return e.EncodeToken(start.End())
}
