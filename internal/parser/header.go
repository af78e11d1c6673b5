package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// HeaderInfo holds the file-level parameters from the .HODE group.
// SOSI: ..TRANSPAR carries KOORDSYS, ORIGO-NØ and ENHET; ..OMRÅDE the extent.
type HeaderInfo struct {
	CRS      string // EPSG identifier, e.g. "EPSG:25833"
	CoordSys string // raw KOORDSYS code
	XYFactor float64
	ZFactor  float64

	OriginNorth float64
	OriginEast  float64

	Charset Charset
	Version string // SOSI-VERSJON
	Level   string // SOSI-NIVÅ

	// Area is the declared extent from MIN-NØ / MAX-NØ, valid when HasArea is set
	Area    orb.Bound
	HasArea bool

	VerticalDatum string // VERT-DATUM

	// Attributes holds every header key, sub-keys flattened
	Attributes *Attributes
}

// defaultHeaderInfo returns the values used for fields a header omits
func defaultHeaderInfo() HeaderInfo {
	return HeaderInfo{
		XYFactor:   1.0,
		ZFactor:    1.0,
		Attributes: NewAttributes(),
	}
}

// extractHeader derives HeaderInfo from the .HODE groups preceding the
// first object group. Later groups override earlier ones key by key.
func extractHeader(groups []*rawGroup, cs Charset) (HeaderInfo, error) {
	info := defaultHeaderInfo()
	info.Charset = cs

	if len(groups) == 0 {
		return info, &ErrInvalidHeader{Field: "HODE", Reason: "missing header group"}
	}

	var xyUnit, zUnit string
	for _, g := range groups {
		for _, k := range g.attributes.Keys() {
			v, _ := g.attributes.Get(k)
			info.Attributes.Set(k, v)
		}
		if g.xyUnit != "" {
			xyUnit = g.xyUnit
		}
		if g.zUnit != "" {
			zUnit = g.zUnit
		}
	}
	attrs := info.Attributes

	code, _ := attrs.Get("KOORDSYS")
	code = firstField(code)
	if code == "" {
		return info, &ErrUnknownCoordinateSystem{}
	}
	crs, err := CoordSysToCRS(code)
	if err != nil {
		return info, err
	}
	info.CRS = crs
	info.CoordSys = code

	if xyUnit != "" {
		f, err := parseFactor("ENHET", xyUnit)
		if err != nil {
			return info, err
		}
		info.XYFactor = f
	}
	info.ZFactor = info.XYFactor
	if zUnit != "" {
		f, err := parseFactor("ENHET-H", zUnit)
		if err != nil {
			return info, err
		}
		info.ZFactor = f
	}

	if v, ok := attrs.Get("ORIGO-NØ"); ok {
		n, e, err := parsePair("ORIGO-NØ", v)
		if err != nil {
			return info, err
		}
		info.OriginNorth, info.OriginEast = n, e
	}

	minV, hasMin := attrs.Get("MIN-NØ")
	maxV, hasMax := attrs.Get("MAX-NØ")
	if hasMin && hasMax {
		minN, minE, err := parsePair("MIN-NØ", minV)
		if err != nil {
			return info, err
		}
		maxN, maxE, err := parsePair("MAX-NØ", maxV)
		if err != nil {
			return info, err
		}
		info.Area = orb.Bound{
			Min: orb.Point{math.Min(minE, maxE), math.Min(minN, maxN)},
			Max: orb.Point{math.Max(minE, maxE), math.Max(minN, maxN)},
		}
		info.HasArea = true
	}

	info.Version, _ = attrs.Get("SOSI-VERSJON")
	info.Level, _ = attrs.Get("SOSI-NIVÅ")
	info.VerticalDatum, _ = attrs.Get("VERT-DATUM")

	return info, nil
}

// parseFactor parses a unit declaration such as "0.01"
func parseFactor(field, value string) (float64, error) {
	s := firstField(value)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ErrInvalidHeader{Field: field, Value: value, Reason: "not a number"}
	}
	if f <= 0 || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, &ErrInvalidHeader{Field: field, Value: value, Reason: "must be a positive number"}
	}
	return f, nil
}

// parsePair parses "north east"
func parsePair(field, value string) (float64, float64, error) {
	fields := strings.Fields(value)
	if len(fields) < 2 {
		return 0, 0, &ErrInvalidHeader{Field: field, Value: value, Reason: "expected north and east"}
	}
	n, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, 0, &ErrInvalidHeader{Field: field, Value: value, Reason: "north is not a number"}
	}
	e, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, 0, &ErrInvalidHeader{Field: field, Value: value, Reason: "east is not a number"}
	}
	return n, e, nil
}

func firstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
