package parser

// topology.go - REF resolution
// Builds polygon rings from signed references to earlier curve groups

// curveCache holds the decoded vertices of every curve seen so far, keyed by
// local id. References in SOSI always point backwards, so one pass suffices.
type curveCache struct {
	curves map[int64][]Coordinate
}

func newCurveCache() *curveCache {
	return &curveCache{curves: make(map[int64][]Coordinate)}
}

// store caches a copy of a curve, so the caller keeps sole ownership of
// coords. A later curve with the same id replaces it.
func (c *curveCache) store(id int64, coords []Coordinate) {
	c.curves[id] = append([]Coordinate(nil), coords...)
}

// lookup returns the vertices of a cached curve
func (c *curveCache) lookup(id int64) ([]Coordinate, bool) {
	coords, ok := c.curves[id]
	return coords, ok
}

func (c *curveCache) len() int {
	return len(c.curves)
}

// segmentCoordinates returns the curve's vertices in traversal order,
// reversed when the reference is negative. The cached slice is never modified.
func (c *curveCache) segmentCoordinates(ref ringRef) ([]Coordinate, bool) {
	coords, ok := c.lookup(ref.id)
	if !ok {
		return nil, false
	}
	if !ref.reversed {
		return coords, true
	}
	reversed := make([]Coordinate, len(coords))
	for i, coord := range coords {
		reversed[len(coords)-1-i] = coord
	}
	return reversed, true
}

// resolveRings stitches each reference list into a closed ring. The first
// ring is the outer boundary; without one there is no polygon. Any missing
// curve fails the whole polygon and every missing id is reported.
func (c *curveCache) resolveRings(featureID int64, rings [][]ringRef) ([][]Coordinate, []error) {
	var errs []error
	if len(rings) == 0 || len(rings[0]) == 0 {
		return nil, nil
	}
	out := make([][]Coordinate, 0, len(rings))

	for _, refs := range rings {
		if len(refs) == 0 {
			continue
		}
		ring, missing := c.buildRing(refs)
		for _, id := range missing {
			errs = append(errs, &ErrMissingCurve{FeatureID: featureID, CurveID: id})
		}
		if len(ring) > 0 {
			out = append(out, ring)
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

// buildRing concatenates referenced curves in order
func (c *curveCache) buildRing(refs []ringRef) ([]Coordinate, []int64) {
	coords := make([]Coordinate, 0)
	var missing []int64

	for _, ref := range refs {
		seg, ok := c.segmentCoordinates(ref)
		if !ok {
			missing = append(missing, ref.id)
			continue
		}

		// Deduplicate: skip first coordinate if it matches last coordinate in ring
		if len(coords) > 0 && len(seg) > 0 && samePoint(coords[len(coords)-1], seg[0]) {
			seg = seg[1:]
		}
		coords = append(coords, seg...)
	}

	// Ensure ring closure
	if len(coords) > 0 && !isRingClosed(coords) {
		coords = append(coords, coords[0])
	}
	return coords, missing
}

func samePoint(a, b Coordinate) bool {
	return a.X == b.X && a.Y == b.Y
}

// isRingClosed checks if first and last vertex coincide
func isRingClosed(ring []Coordinate) bool {
	if len(ring) < 2 {
		return false
	}
	return samePoint(ring[0], ring[len(ring)-1])
}
