package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAddressPoint(t *testing.T) {
	dec := newCoordinateDecoder(HeaderInfo{XYFactor: 0.01, ZFactor: 0.01})

	c, err := dec.decode(rawTuple{north: 664591976, east: 25367399})
	require.NoError(t, err)
	assert.InDelta(t, 253673.99, c.X, 1e-6)
	assert.InDelta(t, 6645919.76, c.Y, 1e-6)
	assert.False(t, c.HasZ)
}

func TestDecodeOriginAndHeight(t *testing.T) {
	dec := newCoordinateDecoder(HeaderInfo{XYFactor: 1, ZFactor: 0.1, OriginNorth: 6600000, OriginEast: 200000})

	c, err := dec.decode(rawTuple{north: 45, east: 55, height: 1234, hasHeight: true})
	require.NoError(t, err)
	assert.Equal(t, 200055.0, c.X)
	assert.Equal(t, 6600045.0, c.Y)
	assert.InDelta(t, 123.4, c.Z, 1e-9)
	assert.True(t, c.HasZ)
}

func TestDecodeOverflow(t *testing.T) {
	dec := newCoordinateDecoder(HeaderInfo{XYFactor: 1, ZFactor: 1})

	_, err := dec.decode(rawTuple{north: 1<<53 + 1, east: 0, line: 7})
	var overflow *ErrCoordinateOverflow
	require.ErrorAs(t, err, &overflow)
	assert.Equal(t, 7, overflow.Line)

	_, err = dec.decode(rawTuple{north: 1 << 53, east: -(1 << 53)})
	assert.NoError(t, err, "the bound itself is representable")
}

func TestDecodeAllSkipsFailures(t *testing.T) {
	dec := newCoordinateDecoder(HeaderInfo{XYFactor: 1, ZFactor: 1})
	coords, errs := dec.decodeAll([]rawTuple{{north: 1, east: 2}, {north: 1 << 60}, {north: 3, east: 4}})

	require.Len(t, coords, 2)
	assert.Len(t, errs, 1)
	assert.Equal(t, Coordinate{X: 4, Y: 3}, coords[1])
}

func TestDecoderGroupOverride(t *testing.T) {
	base := newCoordinateDecoder(HeaderInfo{XYFactor: 0.01, ZFactor: 0.01})

	g := &rawGroup{xyUnit: "0.001"}
	d := base.forGroup(g)
	assert.Equal(t, 0.001, d.xyFactor)
	assert.Equal(t, 0.001, d.zFactor)
	assert.Empty(t, g.warnings)

	g = &rawGroup{zUnit: "0.1"}
	d = base.forGroup(g)
	assert.Equal(t, 0.01, d.xyFactor)
	assert.Equal(t, 0.1, d.zFactor)

	g = &rawGroup{xyUnit: "abc"}
	d = base.forGroup(g)
	assert.Equal(t, 0.01, d.xyFactor)
	assert.Len(t, g.warnings, 1)
}
