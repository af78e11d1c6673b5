package sosi

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/BiteMyBucket/sosi/internal/ctxlog"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixturePaths = []string{
	testdataDir + "adresser.sos",
	testdataDir + "arealdekke.sos",
	testdataDir + "navn.sos",
}

func datasetNames(set *DatasetSet) []string {
	names := make([]string, len(set.Datasets))
	for i, ds := range set.Datasets {
		names[i] = ds.Name()
	}
	return names
}

func TestDefaultLoadOptions(t *testing.T) {
	opts := DefaultLoadOptions()
	assert.True(t, opts.Parallel)
	assert.True(t, opts.SkipErrors)
	assert.Positive(t, opts.Workers)
}

func TestLoadParallelKeepsOrder(t *testing.T) {
	for _, parallel := range []bool{true, false} {
		opts := DefaultLoadOptions()
		opts.Parallel = parallel
		opts.Workers = 3

		var (
			mu    sync.Mutex
			calls []int
		)
		opts.Progress = func(loaded, total int) {
			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, 3, total)
			calls = append(calls, loaded)
		}

		set, errs := LoadParallel(context.Background(), fixturePaths, opts)
		require.Empty(t, errs)
		assert.Equal(t, []string{"adresser", "arealdekke", "navn"}, datasetNames(set))
		assert.Equal(t, 3+4+2, set.FeatureCount())
		assert.Equal(t, []int{1, 2, 3}, calls)
	}
}

func TestLoadParallelEmpty(t *testing.T) {
	set, errs := LoadParallel(context.Background(), nil, DefaultLoadOptions())
	assert.Empty(t, errs)
	require.NotNil(t, set)
	assert.Empty(t, set.Datasets)
}

func TestLoadParallelSkipErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.sos")
	paths := []string{fixturePaths[0], missing, fixturePaths[2]}

	var errLog bytes.Buffer
	var logBuf bytes.Buffer
	ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&logBuf, nil)))

	opts := DefaultLoadOptions()
	opts.ErrorLog = &errLog

	set, errs := LoadParallel(ctx, paths, opts)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], os.ErrNotExist)
	assert.Equal(t, []string{"adresser", "navn"}, datasetNames(set))

	assert.Contains(t, errLog.String(), "missing.sos")
	assert.Contains(t, logBuf.String(), "failed to load SOSI file")
}

func TestLoadParallelStopOnError(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.sos")
	require.NoError(t, os.WriteFile(bad, []byte(".HODE\n..TRANSPAR\n...KOORDSYS 999\n.SLUTT\n"), 0o600))

	opts := DefaultLoadOptions()
	opts.SkipErrors = false

	set, errs := LoadParallel(context.Background(), []string{fixturePaths[0], bad}, opts)
	assert.Nil(t, set)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrFormat)
}

func TestLoadParallelRespectsReadOptions(t *testing.T) {
	opts := DefaultLoadOptions()
	opts.Read.ObjectTypeFilter = []string{"Myr"}

	set, errs := LoadParallel(context.Background(), fixturePaths[1:2], opts)
	require.Empty(t, errs)
	require.Len(t, set.Datasets, 1)
	assert.Equal(t, 1, set.FeatureCount())
}

func TestDatasetSetFeaturesInBounds(t *testing.T) {
	set, errs := LoadParallel(context.Background(), fixturePaths, DefaultLoadOptions())
	require.Empty(t, errs)

	got := set.FeaturesInBounds(orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}})
	assert.Equal(t, []int64{1, 10}, featureIDs(got))
}
