package parser

import (
	"strconv"

	"github.com/paulmach/orb"
)

// maxRawCoordinate is the largest raw magnitude that converts to float64
// without losing integer precision (2^53).
const maxRawCoordinate = 1 << 53

// Coordinate is a decoded real-world vertex. X is east, Y is north.
type Coordinate struct {
	X, Y float64
	Z    float64
	HasZ bool
}

// Point returns the planar part of the coordinate.
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.X, c.Y}
}

// coordinateDecoder converts raw tuples to real-world coordinates
type coordinateDecoder struct {
	xyFactor    float64
	zFactor     float64
	originNorth float64
	originEast  float64
}

func newCoordinateDecoder(h HeaderInfo) coordinateDecoder {
	return coordinateDecoder{
		xyFactor:    h.XYFactor,
		zFactor:     h.ZFactor,
		originNorth: h.OriginNorth,
		originEast:  h.OriginEast,
	}
}

// forGroup applies a group-level ENHET / ENHET-H override. Unparseable
// overrides are reported and the header factors kept.
func (d coordinateDecoder) forGroup(g *rawGroup) coordinateDecoder {
	if g.xyUnit != "" {
		if f, err := parseFactor(keyUnit, g.xyUnit); err == nil {
			d.xyFactor = f
			if g.zUnit == "" {
				d.zFactor = f
			}
		} else {
			g.warnings = append(g.warnings, &ErrMalformedLine{Line: g.line, Text: g.xyUnit, Reason: "invalid ENHET"})
		}
	}
	if g.zUnit != "" {
		if f, err := parseFactor(keyUnitHeight, g.zUnit); err == nil {
			d.zFactor = f
		} else {
			g.warnings = append(g.warnings, &ErrMalformedLine{Line: g.line, Text: g.zUnit, Reason: "invalid ENHET-H"})
		}
	}
	return d
}

// decode converts one raw tuple.
func (d coordinateDecoder) decode(t rawTuple) (Coordinate, error) {
	for _, v := range [...]int64{t.north, t.east, t.height} {
		if v > maxRawCoordinate || v < -maxRawCoordinate {
			return Coordinate{}, &ErrCoordinateOverflow{Line: t.line, Value: strconv.FormatInt(v, 10)}
		}
	}

	c := Coordinate{
		X: d.originEast + float64(t.east)*d.xyFactor,
		Y: d.originNorth + float64(t.north)*d.xyFactor,
	}
	if t.hasHeight {
		c.Z = float64(t.height) * d.zFactor
		c.HasZ = true
	}
	return c, nil
}

// decodeAll converts every tuple of a group. Tuples that fail are dropped and
// their errors returned alongside the decoded coordinates.
func (d coordinateDecoder) decodeAll(tuples []rawTuple) ([]Coordinate, []error) {
	if len(tuples) == 0 {
		return nil, nil
	}
	coords := make([]Coordinate, 0, len(tuples))
	var errs []error
	for _, t := range tuples {
		c, err := d.decode(t)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		coords = append(coords, c)
	}
	return coords, errs
}
