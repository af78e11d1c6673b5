package parser

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Valid reports whether the geometry passes ValidateGeometry.
func (g Geometry) Valid() bool {
	return ValidateGeometry(&g) == nil
}

// ValidateCoordinate rejects non-finite values
func ValidateCoordinate(c Coordinate) error {
	if math.IsNaN(c.X) || math.IsInf(c.X, 0) || math.IsNaN(c.Y) || math.IsInf(c.Y, 0) {
		return fmt.Errorf("coordinate (%v, %v) is not finite", c.X, c.Y)
	}
	return nil
}

// ValidateGeometry checks structural validity:
//   - points need one finite vertex
//   - lines need at least two distinct vertices
//   - polygon rings must be closed with at least four vertices, enclose a
//     non-zero area and not self-intersect; holes must lie inside the outer ring
func ValidateGeometry(geometry *Geometry) error {
	if geometry == nil {
		return &ErrInvalidGeometry{Reason: "geometry is nil"}
	}
	if geometry.IsEmpty() {
		return &ErrInvalidGeometry{Type: geometry.Type, Reason: "geometry is empty"}
	}

	for i, c := range geometry.Coordinates {
		if err := ValidateCoordinate(c); err != nil {
			return &ErrInvalidGeometry{Type: geometry.Type, Reason: fmt.Sprintf("coordinate %d invalid: %v", i, err)}
		}
	}

	switch geometry.Type {
	case GeometryTypePoint:
		return nil

	case GeometryTypeLineString:
		for _, c := range geometry.Coordinates[1:] {
			if !samePoint(c, geometry.Coordinates[0]) {
				return nil
			}
		}
		return &ErrInvalidGeometry{Type: geometry.Type, Reason: "line needs at least two distinct vertices"}

	case GeometryTypePolygon:
		return validatePolygon(geometry)
	}
	return &ErrInvalidGeometry{Type: geometry.Type, Reason: "unknown geometry type"}
}

func validatePolygon(geometry *Geometry) error {
	poly, _ := geometry.Orb().(orb.Polygon)

	for i, ring := range poly {
		for j, c := range geometry.Rings[i] {
			if err := ValidateCoordinate(c); err != nil {
				return &ErrInvalidGeometry{Type: geometry.Type, Reason: fmt.Sprintf("ring %d coordinate %d invalid: %v", i, j, err)}
			}
		}
		if len(ring) < 4 {
			return &ErrInvalidGeometry{Type: geometry.Type, Reason: fmt.Sprintf("ring %d has %d vertices, need at least 4", i, len(ring))}
		}
		if !ring.Closed() {
			return &ErrInvalidGeometry{Type: geometry.Type, Reason: fmt.Sprintf("ring %d is not closed", i)}
		}
		if planar.Area(ring) == 0 {
			return &ErrInvalidGeometry{Type: geometry.Type, Reason: fmt.Sprintf("ring %d has zero area", i)}
		}
		if selfIntersects(ring) {
			return &ErrInvalidGeometry{Type: geometry.Type, Reason: fmt.Sprintf("ring %d self-intersects", i)}
		}
	}

	for i, hole := range poly[1:] {
		if !planar.RingContains(poly[0], hole[0]) {
			return &ErrInvalidGeometry{Type: geometry.Type, Reason: fmt.Sprintf("hole %d lies outside the outer ring", i+1)}
		}
	}
	return nil
}

// selfIntersects tests every pair of non-adjacent ring edges.
func selfIntersects(ring orb.Ring) bool {
	n := len(ring) - 1 // edges; the last vertex repeats the first
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if j == i+1 || (i == 0 && j == n-1) {
				continue
			}
			if segmentsIntersect(ring[i], ring[i+1], ring[j], ring[j+1]) {
				return true
			}
		}
	}
	return false
}

func segmentsIntersect(p1, p2, p3, p4 orb.Point) bool {
	d1 := orientation(p3, p4, p1)
	d2 := orientation(p3, p4, p2)
	d3 := orientation(p1, p2, p3)
	d4 := orientation(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) && ((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	switch {
	case d1 == 0 && onSegment(p3, p4, p1):
		return true
	case d2 == 0 && onSegment(p3, p4, p2):
		return true
	case d3 == 0 && onSegment(p1, p2, p3):
		return true
	case d4 == 0 && onSegment(p1, p2, p4):
		return true
	}
	return false
}

// orientation returns the sign of the cross product (b-a) x (c-a)
func orientation(a, b, c orb.Point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

func onSegment(a, b, p orb.Point) bool {
	return math.Min(a[0], b[0]) <= p[0] && p[0] <= math.Max(a[0], b[0]) &&
		math.Min(a[1], b[1]) <= p[1] && p[1] <= math.Max(a[1], b[1])
}
