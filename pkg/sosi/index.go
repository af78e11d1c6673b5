package sosi

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BiteMyBucket/sosi/internal/ctxlog"
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// Index provides fast spatial queries over a collection of SOSI files.
//
// The index stores header metadata for each file (CRS, declared extent,
// version) without reading any features. This allows opening only the
// files that cover a region of interest.
//
// Example:
//
//	idx, err := sosi.BuildIndexFromDir(ctx, "/data/fkb", sosi.DefaultLoadOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	oslo := orb.Bound{Min: orb.Point{590000, 6640000}, Max: orb.Point{605000, 6650000}}
//	for _, e := range idx.Query(oslo, sosi.QueryOptions{CRS: "EPSG:25832"}) {
//	    fmt.Println(e.Path)
//	}
type Index struct {
	entries []IndexEntry
	rtree   *rtreego.Rtree
}

// IndexEntry contains indexed metadata for a single file.
type IndexEntry struct {
	Path    string    // Path to the .sos file, empty for datasets read from streams
	Name    string    // File name without extension
	CRS     string    // EPSG identifier
	Area    orb.Bound // Declared OMRÅDE, or the data extent for loaded datasets
	HasArea bool      // Entries without an area are never returned by Query
	Version string    // SOSI-VERSJON
	Level   string    // SOSI-NIVÅ
	Charset string
}

// indexedEntry wraps an entry for R-tree storage.
type indexedEntry struct {
	order int
	bound orb.Bound
}

// Bounds implements rtreego.Spatial interface.
func (e *indexedEntry) Bounds() rtreego.Rect {
	return boundToRect(e.bound, 0)
}

// QueryOptions controls spatial query behavior.
type QueryOptions struct {
	// CRS, if set, keeps only files in this coordinate system.
	// Bounds of files in different systems are not comparable.
	CRS string
}

// BuildIndexFromDir builds an index by scanning a directory tree for .sos
// files (any letter case) and reading their headers in parallel.
//
// Unreadable files are skipped when opts.SkipErrors is set and reported to
// the logger carried by ctx. It fails when no file could be indexed.
func BuildIndexFromDir(ctx context.Context, root string, opts LoadOptions) (*Index, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".sos") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("no SOSI files found in %s", root)
	}

	headers := make([]*Header, len(paths))
	errs := forEachPath(ctx, paths, opts, func(i int, path string) error {
		h, err := ReadHeader(path)
		if err != nil {
			return err
		}
		headers[i] = &h
		return nil
	})
	if !opts.SkipErrors && len(errs) > 0 {
		return nil, errs[0]
	}

	entries := make([]IndexEntry, 0, len(paths))
	for i, h := range headers {
		if h == nil {
			continue
		}
		entries = append(entries, IndexEntry{
			Path:    paths[i],
			Name:    datasetName(paths[i]),
			CRS:     h.CRS,
			Area:    h.Area,
			HasArea: h.HasArea,
			Version: h.Version,
			Level:   h.Level,
			Charset: h.Charset,
		})
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no SOSI files could be indexed (%d errors)", len(errs))
	}

	ctxlog.FromContext(ctx).Debug("built SOSI index",
		"root", root, "files", len(entries), "skipped", len(errs))
	return newIndex(entries), nil
}

// BuildIndex creates an index from loaded datasets. A dataset without a
// declared OMRÅDE is indexed by the extent of its features.
func BuildIndex(set *DatasetSet) *Index {
	entries := make([]IndexEntry, len(set.Datasets))
	for i, ds := range set.Datasets {
		h := ds.Header()
		area, ok := ds.Bounds()
		entries[i] = IndexEntry{
			Path:    ds.Path(),
			Name:    ds.Name(),
			CRS:     h.CRS,
			Area:    area,
			HasArea: ok,
			Version: h.Version,
			Level:   h.Level,
			Charset: h.Charset,
		}
	}
	return newIndex(entries)
}

func newIndex(entries []IndexEntry) *Index {
	rtree := rtreego.NewTree(2, 25, 50)
	for i, e := range entries {
		if e.HasArea {
			rtree.Insert(&indexedEntry{order: i, bound: e.Area})
		}
	}
	return &Index{entries: entries, rtree: rtree}
}

// Query returns entries whose area intersects bounds, sorted by name and
// then path.
func (idx *Index) Query(bounds orb.Bound, opts QueryOptions) []IndexEntry {
	spatials := idx.rtree.SearchIntersect(boundToRect(bounds, minExtent))

	var result []IndexEntry
	for _, spatial := range spatials {
		indexed := spatial.(*indexedEntry)
		if !bounds.Intersects(indexed.bound) {
			continue
		}
		entry := idx.entries[indexed.order]
		if opts.CRS != "" && entry.CRS != opts.CRS {
			continue
		}
		result = append(result, entry)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].Path < result[j].Path
	})
	return result
}

// Count returns the total number of files in the index.
func (idx *Index) Count() int {
	return len(idx.entries)
}

// Bounds returns the union of all areas in the index, or false when no
// entry has one. Entries in different CRSs are combined as-is.
func (idx *Index) Bounds() (orb.Bound, bool) {
	var (
		bounds orb.Bound
		ok     bool
	)
	for _, e := range idx.entries {
		if e.HasArea {
			bounds = unionBounds(bounds, ok, e.Area)
			ok = true
		}
	}
	return bounds, ok
}

// All returns all entries in the index in scan order.
func (idx *Index) All() []IndexEntry {
	return idx.entries
}
