package sosi

import (
	"errors"
	"testing"
)

// testDataset returns a dataset with n vertex-less features.
func testDataset(name string, n int) *Dataset {
	features := make([]*Feature, n)
	for i := range features {
		features[i] = &Feature{}
	}
	return &Dataset{name: name, features: features}
}

func TestCacheBasic(t *testing.T) {
	cache := NewDatasetCache(1024 * 1024) // 1MB

	// Test empty cache
	stats := cache.Stats()
	if stats.DatasetCount != 0 {
		t.Errorf("Expected empty cache, got %d datasets", stats.DatasetCount)
	}

	// Test cache miss and load
	loadCount := 0
	ds, err := cache.Get("test", func() (*Dataset, error) {
		loadCount++
		return testDataset("test", 1), nil
	})
	if err != nil {
		t.Fatalf("Failed to load dataset: %v", err)
	}
	if ds.Name() != "test" {
		t.Errorf("Expected dataset name 'test', got '%s'", ds.Name())
	}
	if loadCount != 1 {
		t.Errorf("Expected loader called once, got %d times", loadCount)
	}

	// Test cache hit
	ds2, err := cache.Get("test", func() (*Dataset, error) {
		loadCount++
		return testDataset("test2", 1), nil
	})
	if err != nil {
		t.Fatalf("Failed to get cached dataset: %v", err)
	}
	if ds2.Name() != "test" {
		t.Errorf("Expected cached dataset name 'test', got '%s'", ds2.Name())
	}
	if loadCount != 1 {
		t.Errorf("Expected loader not called for cache hit, called %d times", loadCount)
	}

	if got := cache.Stats().TotalAccess; got != 2 {
		t.Errorf("Expected 2 accesses, got %d", got)
	}
}

func TestCacheLoaderError(t *testing.T) {
	cache := NewDatasetCache(0)

	boom := errors.New("boom")
	_, err := cache.Get("bad", func() (*Dataset, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected loader error, got %v", err)
	}
	if cache.Stats().DatasetCount != 0 {
		t.Errorf("Failed loads must not be cached")
	}
}

func TestCacheEviction(t *testing.T) {
	// Create small cache (10KB)
	cache := NewDatasetCache(10 * 1024)

	// Add multiple datasets until eviction occurs
	for i := 0; i < 10; i++ {
		name := string(rune('A' + i))
		_, err := cache.Get(name, func() (*Dataset, error) {
			return testDataset(name, 5), nil
		})
		if err != nil {
			t.Fatalf("Failed to add dataset %s: %v", name, err)
		}
	}

	stats := cache.Stats()
	if stats.DatasetCount >= 10 {
		t.Errorf("Expected eviction, but cache has %d datasets", stats.DatasetCount)
	}
	if stats.UsedMemory > cache.maxMemory {
		t.Errorf("Cache exceeded max memory: %d > %d", stats.UsedMemory, cache.maxMemory)
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	// Each one-feature dataset is estimated at 2KB
	cache := NewDatasetCache(3 * 2048)

	for _, name := range []string{"A", "B", "C"} {
		if err := cache.Add(name, testDataset(name, 1)); err != nil {
			t.Fatalf("Failed to add %s: %v", name, err)
		}
	}

	// Touch A so B becomes the oldest
	if _, err := cache.Get("A", func() (*Dataset, error) {
		t.Fatal("A should be cached")
		return nil, nil
	}); err != nil {
		t.Fatal(err)
	}

	if err := cache.Add("D", testDataset("D", 1)); err != nil {
		t.Fatalf("Failed to add D: %v", err)
	}

	if cache.Stats().DatasetCount != 3 {
		t.Errorf("Expected 3 datasets, got %d", cache.Stats().DatasetCount)
	}
	if _, ok := cache.datasets["B"]; ok {
		t.Error("Expected B to be evicted")
	}
	for _, name := range []string{"A", "C", "D"} {
		if _, ok := cache.datasets[name]; !ok {
			t.Errorf("Expected %s to stay cached", name)
		}
	}
}

func TestCacheTooLarge(t *testing.T) {
	cache := NewDatasetCache(1024)

	big := testDataset("big", 1)
	if err := cache.Add("big", big); err == nil {
		t.Error("Expected error adding dataset larger than cache")
	}

	ds, err := cache.Get("big", func() (*Dataset, error) { return big, nil })
	if err != nil {
		t.Fatalf("Get should return uncacheable dataset, got %v", err)
	}
	if ds != big {
		t.Error("Expected loader result")
	}
	if cache.Stats().DatasetCount != 0 {
		t.Errorf("Expected nothing cached, got %d", cache.Stats().DatasetCount)
	}
}

func TestCacheReplaceUpdatesMemory(t *testing.T) {
	cache := NewDatasetCache(0)

	if err := cache.Add("A", testDataset("A", 1)); err != nil {
		t.Fatal(err)
	}
	if err := cache.Add("A", testDataset("A", 3)); err != nil {
		t.Fatal(err)
	}

	stats := cache.Stats()
	if stats.DatasetCount != 1 {
		t.Errorf("Expected 1 dataset, got %d", stats.DatasetCount)
	}
	if want := estimateDatasetMemory(testDataset("A", 3)); stats.UsedMemory != want {
		t.Errorf("Expected %d bytes used, got %d", want, stats.UsedMemory)
	}
}

func TestCacheClear(t *testing.T) {
	cache := NewDatasetCache(1024 * 1024)

	// Add some datasets
	for i := 0; i < 5; i++ {
		name := string(rune('A' + i))
		_, err := cache.Get(name, func() (*Dataset, error) {
			return testDataset(name, 1), nil
		})
		if err != nil {
			t.Fatalf("Failed to add dataset: %v", err)
		}
	}

	if cache.Stats().DatasetCount != 5 {
		t.Errorf("Expected 5 datasets, got %d", cache.Stats().DatasetCount)
	}

	cache.Clear()

	if cache.Stats().DatasetCount != 0 {
		t.Errorf("Expected empty cache after clear, got %d datasets", cache.Stats().DatasetCount)
	}
	if cache.Stats().UsedMemory != 0 {
		t.Errorf("Expected zero memory after clear, got %d bytes", cache.Stats().UsedMemory)
	}
}

func TestCacheRemove(t *testing.T) {
	cache := NewDatasetCache(1024 * 1024)

	_, err := cache.Get("test", func() (*Dataset, error) {
		return testDataset("test", 1), nil
	})
	if err != nil {
		t.Fatalf("Failed to add dataset: %v", err)
	}

	cache.Remove("test")

	if cache.Stats().DatasetCount != 0 {
		t.Errorf("Expected 0 datasets after remove, got %d", cache.Stats().DatasetCount)
	}

	// Try to get removed dataset (should reload)
	loadCount := 0
	_, err = cache.Get("test", func() (*Dataset, error) {
		loadCount++
		return testDataset("test", 1), nil
	})
	if err != nil {
		t.Fatalf("Failed to reload dataset: %v", err)
	}
	if loadCount != 1 {
		t.Errorf("Expected loader called after remove, called %d times", loadCount)
	}
}

func TestEstimateDatasetMemory(t *testing.T) {
	if got := estimateDatasetMemory(nil); got != 0 {
		t.Errorf("Expected 0 for nil dataset, got %d", got)
	}

	ds := testDataset("x", 2)
	ds.features[0].coordinateCount = 10
	if got, want := estimateDatasetMemory(ds), int64(1024+2*1024+10*32); got != want {
		t.Errorf("Expected %d, got %d", want, got)
	}
}
