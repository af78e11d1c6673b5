package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func xy(x, y float64) Coordinate { return Coordinate{X: x, Y: y} }

func TestResolveRingsSignedReferences(t *testing.T) {
	a, b, c, d := xy(0, 0), xy(10, 0), xy(10, 10), xy(0, 10)

	cache := newCurveCache()
	cache.store(12, []Coordinate{a, b, c})
	cache.store(45, []Coordinate{c, d, a})

	rings, errs := cache.resolveRings(1, [][]ringRef{{{id: 12}, {id: 45, reversed: true}}})
	require.Empty(t, errs)
	require.Len(t, rings, 1)
	assert.Equal(t, []Coordinate{a, b, c, a, d, c, a}, rings[0])

	// The cached curve must not be reversed in place.
	got, _ := cache.lookup(45)
	assert.Equal(t, []Coordinate{c, d, a}, got)
}

func TestResolveRingsJoinsSharedVertices(t *testing.T) {
	a, b, c, d := xy(0, 0), xy(10, 0), xy(10, 10), xy(0, 10)

	cache := newCurveCache()
	cache.store(1, []Coordinate{a, b, c})
	cache.store(2, []Coordinate{c, d, a})

	rings, errs := cache.resolveRings(5, [][]ringRef{{{id: 1}, {id: 2}}})
	require.Empty(t, errs)
	assert.Equal(t, []Coordinate{a, b, c, d, a}, rings[0])
}

func TestResolveRingsClosesOpenRing(t *testing.T) {
	a, b, c := xy(0, 0), xy(10, 0), xy(10, 10)

	cache := newCurveCache()
	cache.store(1, []Coordinate{a, b, c})

	rings, errs := cache.resolveRings(5, [][]ringRef{{{id: 1}}})
	require.Empty(t, errs)
	assert.Equal(t, []Coordinate{a, b, c, a}, rings[0])
	assert.True(t, isRingClosed(rings[0]))
}

func TestResolveRingsHoles(t *testing.T) {
	cache := newCurveCache()
	cache.store(1, []Coordinate{xy(0, 0), xy(100, 0), xy(100, 100), xy(0, 100), xy(0, 0)})
	cache.store(2, []Coordinate{xy(40, 40), xy(60, 40), xy(60, 60), xy(40, 60), xy(40, 40)})

	rings, errs := cache.resolveRings(5, [][]ringRef{{{id: 1}}, {{id: 2}}})
	require.Empty(t, errs)
	require.Len(t, rings, 2)
	assert.Len(t, rings[1], 5)
}

func TestResolveRingsMissingCurve(t *testing.T) {
	cache := newCurveCache()
	cache.store(1, []Coordinate{xy(0, 0), xy(1, 0), xy(1, 1)})

	rings, errs := cache.resolveRings(7, [][]ringRef{{{id: 1}, {id: 99}}, {{id: 98}}})
	assert.Nil(t, rings)
	require.Len(t, errs, 2)

	var missing *ErrMissingCurve
	require.ErrorAs(t, errs[0], &missing)
	assert.Equal(t, int64(7), missing.FeatureID)
	assert.Equal(t, int64(99), missing.CurveID)
}

func TestResolveRingsWithoutOuterRing(t *testing.T) {
	cache := newCurveCache()
	rings, errs := cache.resolveRings(1, [][]ringRef{nil, {{id: 1}}})
	assert.Nil(t, rings)
	assert.Nil(t, errs)
}

func TestCurveCacheReplace(t *testing.T) {
	cache := newCurveCache()
	cache.store(1, []Coordinate{xy(0, 0)})
	cache.store(1, []Coordinate{xy(1, 1)})

	got, ok := cache.lookup(1)
	assert.True(t, ok)
	assert.Equal(t, []Coordinate{xy(1, 1)}, got)
	assert.Equal(t, 1, cache.len())
}

func TestCurveCacheStoresCopy(t *testing.T) {
	coords := []Coordinate{xy(0, 0), xy(100, 0), xy(100, 100)}

	cache := newCurveCache()
	cache.store(1, coords)
	coords[1].X = 9999

	got, ok := cache.lookup(1)
	require.True(t, ok)
	assert.Equal(t, xy(100, 0), got[1])
}
