package parser

import (
	"github.com/paulmach/orb"
)

// GeometryType represents the type of geometry
type GeometryType int

const (
	GeometryTypePoint GeometryType = iota
	GeometryTypeLineString
	GeometryTypePolygon
)

// String returns the string representation of the geometry type.
func (g GeometryType) String() string {
	switch g {
	case GeometryTypePoint:
		return "Point"
	case GeometryTypeLineString:
		return "LineString"
	case GeometryTypePolygon:
		return "Polygon"
	default:
		return "Unknown"
	}
}

// Geometry is the assembled geometry of a feature. Exactly one of
// Coordinates (points, lines) or Rings (polygons) is used, selected by Type.
// An empty geometry keeps the type its group declared.
type Geometry struct {
	Type GeometryType
	// Coordinates holds the single vertex of a point or the vertices of a line
	Coordinates []Coordinate
	// Rings holds closed polygon rings, outer boundary first, then holes
	Rings [][]Coordinate
}

// IsEmpty reports whether the geometry has no vertices.
func (g Geometry) IsEmpty() bool {
	return g.VertexCount() == 0
}

// VertexCount returns the number of vertices, counting ring closing vertices.
func (g Geometry) VertexCount() int {
	if g.Type != GeometryTypePolygon {
		return len(g.Coordinates)
	}
	n := 0
	for _, r := range g.Rings {
		n += len(r)
	}
	return n
}

// HasZ reports whether any vertex carries a height
func (g Geometry) HasZ() bool {
	for _, c := range g.Coordinates {
		if c.HasZ {
			return true
		}
	}
	for _, r := range g.Rings {
		for _, c := range r {
			if c.HasZ {
				return true
			}
		}
	}
	return false
}

// Orb converts the geometry to its orb value: orb.Point, orb.LineString or
// orb.Polygon. An empty point is returned as an empty orb.MultiPoint since
// orb.Point cannot be empty.
func (g Geometry) Orb() orb.Geometry {
	switch g.Type {
	case GeometryTypePoint:
		if len(g.Coordinates) == 0 {
			return orb.MultiPoint{}
		}
		return g.Coordinates[0].Point()
	case GeometryTypeLineString:
		return toLineString(g.Coordinates)
	default:
		poly := make(orb.Polygon, 0, len(g.Rings))
		for _, r := range g.Rings {
			poly = append(poly, orb.Ring(toLineString(r)))
		}
		return poly
	}
}

// Bound returns the planar extent. Empty geometries return the zero bound.
func (g Geometry) Bound() orb.Bound {
	if g.IsEmpty() {
		return orb.Bound{}
	}
	return g.Orb().Bound()
}

func toLineString(coords []Coordinate) orb.LineString {
	ls := make(orb.LineString, len(coords))
	for i, c := range coords {
		ls[i] = c.Point()
	}
	return ls
}

// emptyGeometry returns an empty geometry of the kind a class declares
func emptyGeometry(class groupClass) Geometry {
	switch class {
	case classCurve, classReferenceOnly:
		return Geometry{Type: GeometryTypeLineString}
	case classPolygon:
		return Geometry{Type: GeometryTypePolygon}
	default:
		return Geometry{Type: GeometryTypePoint}
	}
}

// assembleGeometry builds the geometry of a group from its decoded
// coordinates. Curves are stored in the cache before returning so a polygon
// that follows can reference them. Errors are per-feature warnings; the
// returned geometry is always usable, possibly empty.
func assembleGeometry(g *rawGroup, coords []Coordinate, cache *curveCache) (Geometry, []error) {
	switch g.class {
	case classPoint, classText:
		if len(coords) == 0 {
			return emptyGeometry(g.class), nil
		}
		return Geometry{Type: GeometryTypePoint, Coordinates: coords[:1]}, nil

	case classCurve, classReferenceOnly:
		if g.hasID {
			cache.store(g.localID, coords)
		}
		return Geometry{Type: GeometryTypeLineString, Coordinates: coords}, nil

	case classPolygon:
		return constructPolygonGeometry(g, cache)

	default:
		switch {
		case len(coords) == 1:
			return Geometry{Type: GeometryTypePoint, Coordinates: coords}, nil
		case len(coords) > 1:
			return Geometry{Type: GeometryTypeLineString, Coordinates: coords}, nil
		case len(g.rings) > 0:
			return constructPolygonGeometry(g, cache)
		}
		return emptyGeometry(g.class), nil
	}
}

// constructPolygonGeometry resolves the group's ring references. A polygon
// with any dangling reference is returned empty.
func constructPolygonGeometry(g *rawGroup, cache *curveCache) (Geometry, []error) {
	if len(g.rings) == 0 {
		return Geometry{Type: GeometryTypePolygon}, nil
	}
	rings, errs := cache.resolveRings(g.localID, g.rings)
	if len(errs) > 0 {
		return Geometry{Type: GeometryTypePolygon}, errs
	}
	return Geometry{Type: GeometryTypePolygon, Rings: rings}, nil
}
