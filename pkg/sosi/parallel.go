package sosi

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/BiteMyBucket/sosi/internal/ctxlog"
	"github.com/paulmach/orb"
	"golang.org/x/sync/errgroup"
)

// LoadOptions controls parallel loading behavior and error handling.
type LoadOptions struct {
	// Parallel enables concurrent loading.
	// When false, files are read one at a time in order.
	Parallel bool

	// Workers specifies the number of concurrent readers.
	// If 0, defaults to runtime.NumCPU().
	Workers int

	// SkipErrors causes loading to continue when individual files fail.
	// Failed files are skipped and errors are collected.
	// When false, the first error stops loading and is returned alone.
	SkipErrors bool

	// Progress is an optional callback called after each file, successful or
	// not, with the number of files processed so far. Calls never overlap.
	Progress func(loaded, total int)

	// ErrorLog is an optional writer receiving one line per failed file.
	ErrorLog io.Writer

	// Read configures each file's reader.
	Read ReadOptions
}

// DefaultLoadOptions returns load options with sensible defaults.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Parallel:   true,
		Workers:    runtime.NumCPU(),
		SkipErrors: true,
		Read:       DefaultReadOptions(),
	}
}

// DatasetSet is an ordered collection of loaded datasets.
type DatasetSet struct {
	Datasets []*Dataset
}

// FeatureCount returns the number of features across all datasets.
func (s *DatasetSet) FeatureCount() int {
	n := 0
	for _, ds := range s.Datasets {
		n += ds.FeatureCount()
	}
	return n
}

// FeaturesInBounds queries every dataset and concatenates the results in
// dataset order. Bounds are compared in each dataset's own CRS.
func (s *DatasetSet) FeaturesInBounds(bounds orb.Bound) []*Feature {
	var result []*Feature
	for _, ds := range s.Datasets {
		result = append(result, ds.FeaturesInBounds(bounds)...)
	}
	return result
}

// LoadParallel reads many SOSI files concurrently, each with its own reader.
//
// Datasets are returned in the order of paths, with failed files left out.
// The logger carried by ctx, if any, receives one warning per failed file.
//
// Example:
//
//	set, errs := sosi.LoadParallel(ctx, paths, sosi.LoadOptions{
//	    Parallel:   true,
//	    Workers:    8,
//	    SkipErrors: true,
//	    Progress: func(loaded, total int) {
//	        fmt.Printf("\rLoading: %d/%d", loaded, total)
//	    },
//	})
//	if len(errs) > 0 {
//	    fmt.Printf("\nSkipped %d files due to errors\n", len(errs))
//	}
func LoadParallel(ctx context.Context, paths []string, opts LoadOptions) (*DatasetSet, []error) {
	if len(paths) == 0 {
		return &DatasetSet{Datasets: []*Dataset{}}, nil
	}

	loaded := make([]*Dataset, len(paths))
	errs := forEachPath(ctx, paths, opts, func(i int, path string) error {
		ds, err := ReadAll(path, opts.Read)
		if err != nil {
			return err
		}
		loaded[i] = ds
		return nil
	})
	if !opts.SkipErrors && len(errs) > 0 {
		return nil, errs
	}

	datasets := make([]*Dataset, 0, len(paths))
	for _, ds := range loaded {
		if ds != nil {
			datasets = append(datasets, ds)
		}
	}
	return &DatasetSet{Datasets: datasets}, errs
}

// forEachPath runs work for every path on a bounded errgroup. Errors are
// returned in path order and already name their file; with SkipErrors unset
// the first one cancels the rest and is returned alone.
func forEachPath(ctx context.Context, paths []string, opts LoadOptions, work func(i int, path string) error) []error {
	log := ctxlog.FromContext(ctx)

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if !opts.Parallel {
		workers = 1
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var (
		mu       sync.Mutex
		failed   = make([]error, len(paths))
		finished int
	)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			err := work(i, path)

			mu.Lock()
			defer mu.Unlock()

			finished++
			if opts.Progress != nil {
				opts.Progress(finished, len(paths))
			}
			if err == nil {
				return nil
			}

			log.Warn("failed to load SOSI file", "path", path, "error", err)
			if opts.ErrorLog != nil {
				fmt.Fprintf(opts.ErrorLog, "Error loading file: %v\n", err)
			}
			if opts.SkipErrors {
				failed[i] = err
				return nil
			}
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return []error{err}
	}

	var errs []error
	for _, err := range failed {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
