package sosi

import (
	"github.com/BiteMyBucket/sosi/internal/parser"
	"github.com/paulmach/orb"
)

// Feature represents one SOSI object group such as a .PUNKT, .KURVE or .FLATE.
//
// Access data via ID(), ObjectType(), Attribute() and Geometry().
// All fields are private to maintain encapsulation.
type Feature struct {
	id              int64
	hasID           bool
	keyword         string
	kind            Kind
	attributes      *parser.Attributes
	geometry        Geometry
	coordinateCount int
	warnings        []error
}

// ID returns the group's local identifier (".FLATE 12:" has ID 12) and
// whether the group declared one.
func (f *Feature) ID() (int64, bool) {
	return f.id, f.hasID
}

// Keyword returns the group keyword as written, e.g. "PUNKT" or "BUEP".
func (f *Feature) Keyword() string {
	return f.keyword
}

// Kind returns the declared geometry kind of the group.
func (f *Feature) Kind() Kind {
	return f.kind
}

// ObjectType returns the OBJTYPE attribute, e.g. "Bygning" or "Innsjø".
// It is empty when the group has none.
func (f *Feature) ObjectType() string {
	v, _ := f.attributes.Get("OBJTYPE")
	return v
}

// Attribute returns a specific attribute value by name.
//
// Sub-attributes are flattened to their own key, so
//
//	..KVALITET
//	...DATAFANGSTMETODE sat
//
// is read with Attribute("DATAFANGSTMETODE").
func (f *Feature) Attribute(name string) (string, bool) {
	return f.attributes.Get(name)
}

// Attributes returns a copy of all attributes as a map.
func (f *Feature) Attributes() map[string]string {
	return f.attributes.Map()
}

// AttributeKeys returns attribute names in file order.
func (f *Feature) AttributeKeys() []string {
	return f.attributes.Keys()
}

// Geometry returns the assembled geometry. Features without coordinates
// return an empty geometry of their declared type.
func (f *Feature) Geometry() Geometry {
	return f.geometry
}

// CoordinateCount returns the number of vertices in the geometry.
func (f *Feature) CoordinateCount() int {
	return f.coordinateCount
}

// Warnings returns the recoverable problems met while building the
// feature: skipped lines, dangling curve references, overflow and, with
// ReadOptions.ValidateGeometry, validation failures.
func (f *Feature) Warnings() []error {
	return f.warnings
}

// Kind is the declared geometry kind of an object group.
type Kind int

const (
	KindUnknown Kind = iota
	KindPoint        // .PUNKT, .SYMBOL
	KindCurve        // .KURVE, .LINJE, .BUEP and other line primitives
	KindSurface      // .FLATE
	KindText         // .TEKST
)

// String returns the SOSI keyword of the kind.
func (k Kind) String() string {
	return parser.Kind(k).String()
}

// Coordinate is a decoded vertex in the file's CRS. X is east, Y is north.
type Coordinate = parser.Coordinate

// Geometry represents the spatial representation of a feature.
type Geometry struct {
	// Type indicates the geometry type (Point, LineString, or Polygon).
	Type GeometryType

	// Coordinates holds the vertex of a point or the vertices of a line.
	Coordinates []Coordinate

	// Rings holds the closed rings of a polygon, outer boundary first.
	Rings [][]Coordinate
}

// GeometryType represents the type of geometry.
type GeometryType int

const (
	// GeometryTypePoint represents a single point location.
	GeometryTypePoint GeometryType = iota

	// GeometryTypeLineString represents a line composed of connected points.
	GeometryTypeLineString

	// GeometryTypePolygon represents a polygon with optional holes.
	GeometryTypePolygon
)

// String returns the string representation of the geometry type.
func (g GeometryType) String() string {
	return parser.GeometryType(g).String()
}

// IsEmpty reports whether the geometry has no vertices.
func (g Geometry) IsEmpty() bool {
	return g.internal().IsEmpty()
}

// VertexCount returns the number of vertices including ring closures.
func (g Geometry) VertexCount() int {
	return g.internal().VertexCount()
}

// HasZ reports whether any vertex carries a height.
func (g Geometry) HasZ() bool {
	return g.internal().HasZ()
}

// Valid reports whether the geometry passes structural validation.
func (g Geometry) Valid() bool {
	return g.internal().Valid()
}

// Validate returns the first structural problem found, or nil.
func (g Geometry) Validate() error {
	internal := g.internal()
	return parser.ValidateGeometry(&internal)
}

// Orb returns the geometry as an orb.Point, orb.LineString or orb.Polygon.
// An empty point becomes an empty orb.MultiPoint.
func (g Geometry) Orb() orb.Geometry {
	return g.internal().Orb()
}

// Bound returns the planar extent. Empty geometries return the zero bound.
func (g Geometry) Bound() orb.Bound {
	return g.internal().Bound()
}

func (g Geometry) internal() parser.Geometry {
	return parser.Geometry{
		Type:        parser.GeometryType(g.Type),
		Coordinates: g.Coordinates,
		Rings:       g.Rings,
	}
}

// convertFeature converts an internal feature to the public API type
func convertFeature(f *parser.Feature) *Feature {
	return &Feature{
		id:         f.ID,
		hasID:      f.HasID,
		keyword:    f.Keyword,
		kind:       Kind(f.Kind),
		attributes: f.Attributes,
		geometry: Geometry{
			Type:        GeometryType(f.Geometry.Type),
			Coordinates: f.Geometry.Coordinates,
			Rings:       f.Geometry.Rings,
		},
		coordinateCount: f.CoordinateCount,
		warnings:        f.Warnings,
	}
}
