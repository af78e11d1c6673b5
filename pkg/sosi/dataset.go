package sosi

import (
	"errors"
	"io"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/paulmach/orb"
)

// Dataset is a fully read SOSI file held in memory.
//
// A dataset contains the header metadata and every feature the reader
// returned, indexed for bounding-box queries.
//
// Access metadata via Header(), Name() and CRS().
// Access features via Features(), FeaturesInBounds() or FeaturesByObjectType().
type Dataset struct {
	name   string
	path   string
	header Header

	features     []*Feature
	spatialIndex *spatialIndex

	bounds    orb.Bound
	hasBounds bool
	warnings  int
}

// ReadAll reads a whole SOSI file into a Dataset.
//
// Example:
//
//	ds, err := sosi.ReadAll("0301_Adresser.sos", sosi.DefaultReadOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%s: %d features in %s\n", ds.Name(), ds.FeatureCount(), ds.CRS())
func ReadAll(path string, opts ReadOptions) (*Dataset, error) {
	r, err := Open(path, opts)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return readDataset(r, datasetName(path), path)
}

// ReadAllFrom reads a SOSI stream into a Dataset with the given name.
func ReadAllFrom(src io.Reader, name string, opts ReadOptions) (*Dataset, error) {
	r, err := NewReader(src, opts)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return readDataset(r, name, "")
}

func readDataset(r *Reader, name, path string) (*Dataset, error) {
	ds := &Dataset{
		name:   name,
		path:   path,
		header: r.Header(),
	}

	for {
		f, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		ds.features = append(ds.features, f)
		ds.warnings += len(f.Warnings())

		if g := f.Geometry(); !g.IsEmpty() {
			ds.bounds = unionBounds(ds.bounds, ds.hasBounds, g.Bound())
			ds.hasBounds = true
		}
	}

	ds.spatialIndex = newSpatialIndex(ds.features)
	return ds, nil
}

// datasetName derives a dataset name from a file path or zip URL.
func datasetName(p string) string {
	if i := strings.LastIndex(p, "!"); i >= 0 && strings.HasPrefix(p, "zip://") {
		p = path.Base(p[i+1:])
	} else {
		p = filepath.Base(p)
	}
	return strings.TrimSuffix(p, filepath.Ext(p))
}

// Name returns the dataset name, the file name without extension.
func (d *Dataset) Name() string {
	return d.name
}

// Path returns the path the dataset was read from, empty for streams.
func (d *Dataset) Path() string {
	return d.path
}

// Header returns the file header.
func (d *Dataset) Header() Header {
	return d.header
}

// CRS returns the EPSG identifier of every coordinate in the dataset.
func (d *Dataset) CRS() string {
	return d.header.CRS
}

// Features returns all features in file order.
func (d *Dataset) Features() []*Feature {
	return d.features
}

// FeatureCount returns the number of features in the dataset.
func (d *Dataset) FeatureCount() int {
	return len(d.features)
}

// WarningCount returns the total number of feature warnings.
func (d *Dataset) WarningCount() int {
	return d.warnings
}

// Bounds returns the coverage of the dataset.
//
// The declared OMRÅDE extent is preferred when the header has one;
// otherwise it is the union of all feature extents. The second result is
// false when neither is available.
func (d *Dataset) Bounds() (orb.Bound, bool) {
	if d.header.HasArea {
		return d.header.Area, true
	}
	return d.bounds, d.hasBounds
}

// DataBounds returns the union of all feature extents, ignoring OMRÅDE.
func (d *Dataset) DataBounds() (orb.Bound, bool) {
	return d.bounds, d.hasBounds
}

// FeaturesInBounds returns features whose extent intersects bounds, in file
// order. Features with empty geometry are never returned.
func (d *Dataset) FeaturesInBounds(bounds orb.Bound) []*Feature {
	if d.spatialIndex == nil {
		return d.featuresInBoundsLinear(bounds)
	}
	return d.spatialIndex.search(bounds)
}

// featuresInBoundsLinear performs linear search when no spatial index exists.
func (d *Dataset) featuresInBoundsLinear(bounds orb.Bound) []*Feature {
	var result []*Feature
	for _, f := range d.features {
		g := f.Geometry()
		if !g.IsEmpty() && bounds.Intersects(g.Bound()) {
			result = append(result, f)
		}
	}
	return result
}

// FeaturesByObjectType returns features with the given OBJTYPE in file order.
func (d *Dataset) FeaturesByObjectType(objectType string) []*Feature {
	var result []*Feature
	for _, f := range d.features {
		if f.ObjectType() == objectType {
			result = append(result, f)
		}
	}
	return result
}

// ObjectTypeCount is the number of features of one OBJTYPE.
type ObjectTypeCount struct {
	ObjectType string
	Count      int
}

// ObjectTypes counts features per OBJTYPE, most frequent first and then by
// name. Features without OBJTYPE are counted under "".
func (d *Dataset) ObjectTypes() []ObjectTypeCount {
	counts := make(map[string]int)
	for _, f := range d.features {
		counts[f.ObjectType()]++
	}

	result := make([]ObjectTypeCount, 0, len(counts))
	for t, n := range counts {
		result = append(result, ObjectTypeCount{ObjectType: t, Count: n})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].ObjectType < result[j].ObjectType
	})
	return result
}
