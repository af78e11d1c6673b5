package parser

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGeometryTypes tests geometry type enumeration
func TestGeometryTypes(t *testing.T) {
	tests := []struct {
		geomType GeometryType
		expected string
	}{
		{GeometryTypePoint, "Point"},
		{GeometryTypeLineString, "LineString"},
		{GeometryTypePolygon, "Polygon"},
		{GeometryType(9), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if tt.geomType.String() != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, tt.geomType.String())
			}
		})
	}
}

func TestAssembleGeometry(t *testing.T) {
	coords := []Coordinate{xy(1, 2), xy(3, 4), xy(5, 6)}

	tests := []struct {
		name   string
		class  groupClass
		coords []Coordinate
		typ    GeometryType
		count  int
	}{
		{"point uses first vertex", classPoint, coords, GeometryTypePoint, 1},
		{"empty point", classPoint, nil, GeometryTypePoint, 0},
		{"text", classText, coords[:1], GeometryTypePoint, 1},
		{"text without position", classText, nil, GeometryTypePoint, 0},
		{"curve", classCurve, coords, GeometryTypeLineString, 3},
		{"empty curve", classCurve, nil, GeometryTypeLineString, 0},
		{"unclassified single", classUnclassified, coords[:1], GeometryTypePoint, 1},
		{"unclassified many", classUnclassified, coords, GeometryTypeLineString, 3},
		{"unclassified none", classUnclassified, nil, GeometryTypePoint, 0},
		{"polygon without refs", classPolygon, coords[:1], GeometryTypePolygon, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &rawGroup{class: tt.class, localID: 1, hasID: true}
			geom, errs := assembleGeometry(g, tt.coords, newCurveCache())
			assert.Empty(t, errs)
			assert.Equal(t, tt.typ, geom.Type)
			assert.Equal(t, tt.count, geom.VertexCount())
			assert.Equal(t, tt.count == 0, geom.IsEmpty())
		})
	}
}

func TestAssembleCachesCurveBeforePolygon(t *testing.T) {
	cache := newCurveCache()
	square := []Coordinate{xy(0, 0), xy(10, 0), xy(10, 10), xy(0, 10), xy(0, 0)}

	_, errs := assembleGeometry(&rawGroup{class: classReferenceOnly, localID: 3, hasID: true}, square, cache)
	require.Empty(t, errs)

	poly := &rawGroup{class: classPolygon, localID: 4, hasID: true, rings: [][]ringRef{{{id: 3}}}}
	geom, errs := assembleGeometry(poly, nil, cache)
	require.Empty(t, errs)
	assert.Equal(t, GeometryTypePolygon, geom.Type)
	assert.Equal(t, 5, geom.VertexCount())
	assert.True(t, geom.Valid())
}

func TestAssembleDanglingReference(t *testing.T) {
	poly := &rawGroup{class: classPolygon, localID: 4, hasID: true, rings: [][]ringRef{{{id: 3}}}}
	geom, errs := assembleGeometry(poly, nil, newCurveCache())

	require.Len(t, errs, 1)
	assert.Equal(t, GeometryTypePolygon, geom.Type)
	assert.True(t, geom.IsEmpty())
}

func TestGeometryOrb(t *testing.T) {
	pt := Geometry{Type: GeometryTypePoint, Coordinates: []Coordinate{xy(1, 2)}}
	assert.Equal(t, orb.Point{1, 2}, pt.Orb())

	empty := Geometry{Type: GeometryTypePoint}
	assert.Equal(t, orb.MultiPoint{}, empty.Orb())
	assert.Equal(t, orb.Bound{}, empty.Bound())

	line := Geometry{Type: GeometryTypeLineString, Coordinates: []Coordinate{xy(0, 0), xy(2, 3)}}
	assert.Equal(t, orb.LineString{{0, 0}, {2, 3}}, line.Orb())
	assert.Equal(t, orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{2, 3}}, line.Bound())

	poly := Geometry{Type: GeometryTypePolygon, Rings: [][]Coordinate{{xy(0, 0), xy(1, 0), xy(1, 1), xy(0, 0)}}}
	p, ok := poly.Orb().(orb.Polygon)
	require.True(t, ok)
	assert.Len(t, p, 1)
	assert.True(t, p[0].Closed())
}

func TestGeometryHasZ(t *testing.T) {
	g := Geometry{Type: GeometryTypePoint, Coordinates: []Coordinate{{X: 1, Y: 2, Z: 3, HasZ: true}}}
	assert.True(t, g.HasZ())
	assert.False(t, Geometry{Type: GeometryTypePoint, Coordinates: []Coordinate{xy(1, 2)}}.HasZ())
}
