package sosi

import (
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// minExtent pads zero-width boxes. The R-tree requires non-zero dimensions
// and points have none.
const minExtent = 1e-6

// spatialIndex provides O(log n) bounding-box queries using an R-tree.
type spatialIndex struct {
	rtree *rtreego.Rtree
}

// indexedFeature wraps a feature for R-tree storage.
type indexedFeature struct {
	feature *Feature
	order   int // position in file order
	bound   orb.Bound
}

// Bounds implements rtreego.Spatial interface.
func (f *indexedFeature) Bounds() rtreego.Rect {
	return boundToRect(f.bound, 0)
}

// newSpatialIndex indexes every feature with a non-empty geometry.
func newSpatialIndex(features []*Feature) *spatialIndex {
	rtree := rtreego.NewTree(2, 25, 50)
	for i, f := range features {
		g := f.Geometry()
		if g.IsEmpty() {
			continue
		}
		rtree.Insert(&indexedFeature{feature: f, order: i, bound: g.Bound()})
	}
	return &spatialIndex{rtree: rtree}
}

// search returns the features whose extent intersects b, in file order.
// Touching extents count as intersecting.
func (s *spatialIndex) search(b orb.Bound) []*Feature {
	spatials := s.rtree.SearchIntersect(boundToRect(b, minExtent))

	hits := make([]*indexedFeature, 0, len(spatials))
	for _, spatial := range spatials {
		indexed := spatial.(*indexedFeature)
		if b.Intersects(indexed.bound) {
			hits = append(hits, indexed)
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].order < hits[j].order })

	result := make([]*Feature, len(hits))
	for i, h := range hits {
		result[i] = h.feature
	}
	return result
}

// boundToRect converts an orb.Bound to an R-tree rectangle grown by pad on
// every side.
func boundToRect(b orb.Bound, pad float64) rtreego.Rect {
	point := rtreego.Point{b.Min[0] - pad, b.Min[1] - pad}

	xLength := b.Max[0] - b.Min[0] + 2*pad
	yLength := b.Max[1] - b.Min[1] + 2*pad
	if xLength < minExtent {
		xLength = minExtent
	}
	if yLength < minExtent {
		yLength = minExtent
	}

	rect, _ := rtreego.NewRect(point, []float64{xLength, yLength})
	return rect
}

// unionBounds extends a by b, treating ok=false as "a is unset".
func unionBounds(a orb.Bound, ok bool, b orb.Bound) orb.Bound {
	if !ok {
		return b
	}
	return a.Union(b)
}
