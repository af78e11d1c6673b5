package sosi

import (
	"container/list"
	"fmt"
	"sync"
	"time"
)

// DatasetCache manages loaded datasets with LRU eviction policy.
//
// The cache stores fully read datasets in memory and evicts least-recently-used
// datasets when the memory limit is exceeded. Memory estimation is approximate,
// based on feature and vertex counts.
//
// Example:
//
//	cache := sosi.NewDatasetCache(512 * 1024 * 1024) // 512MB limit
//
//	ds, err := cache.Get("0301_Bygning", func() (*sosi.Dataset, error) {
//	    return sosi.ReadAll("/data/0301_Bygning.sos", sosi.DefaultReadOptions())
//	})
type DatasetCache struct {
	maxMemory  int64 // Maximum memory in bytes, 0 for unlimited
	usedMemory int64 // Current memory usage estimate
	datasets   map[string]*cacheEntry
	lru        *list.List // LRU list (most recent at front)
	mu         sync.Mutex
}

// cacheEntry tracks a cached dataset and its metadata
type cacheEntry struct {
	name         string
	dataset      *Dataset
	memorySize   int64
	element      *list.Element // Position in LRU list
	lastAccessed time.Time
	accessCount  int
}

// NewDatasetCache creates a new cache with the specified memory limit in bytes.
// Set to 0 for unlimited cache size.
func NewDatasetCache(maxMemoryBytes int64) *DatasetCache {
	return &DatasetCache{
		maxMemory: maxMemoryBytes,
		datasets:  make(map[string]*cacheEntry),
		lru:       list.New(),
	}
}

// Get retrieves a dataset from cache or loads it using the provided loader.
//
// The loader is only called on a cache miss. A dataset larger than the
// whole cache is returned without being cached.
func (c *DatasetCache) Get(name string, loader func() (*Dataset, error)) (*Dataset, error) {
	c.mu.Lock()
	if entry, ok := c.datasets[name]; ok {
		c.touch(entry)
		c.mu.Unlock()
		return entry.dataset, nil
	}
	c.mu.Unlock()

	ds, err := loader()
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	// Too large to cache; the caller still gets the dataset.
	_ = c.Add(name, ds)
	return ds, nil
}

// Add adds a dataset to the cache, evicting least-recently-used datasets
// to make room. It fails when the dataset alone exceeds the memory limit.
func (c *DatasetCache) Add(name string, ds *Dataset) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	memSize := estimateDatasetMemory(ds)

	if entry, ok := c.datasets[name]; ok {
		c.usedMemory += memSize - entry.memorySize
		entry.dataset = ds
		entry.memorySize = memSize
		c.touch(entry)
		c.evictOver(entry)
		return nil
	}

	if c.maxMemory > 0 && memSize > c.maxMemory {
		return fmt.Errorf("dataset too large for cache (%d bytes > %d bytes max)",
			memSize, c.maxMemory)
	}

	entry := &cacheEntry{
		name:         name,
		dataset:      ds,
		memorySize:   memSize,
		lastAccessed: time.Now(),
		accessCount:  1,
	}

	// Evict until we have space
	if c.maxMemory > 0 {
		for c.usedMemory+memSize > c.maxMemory && c.lru.Len() > 0 {
			c.evictLRU()
		}
	}

	entry.element = c.lru.PushFront(entry)
	c.datasets[name] = entry
	c.usedMemory += memSize
	return nil
}

// touch records an access. Must be called with c.mu locked.
func (c *DatasetCache) touch(entry *cacheEntry) {
	entry.lastAccessed = time.Now()
	entry.accessCount++
	c.lru.MoveToFront(entry.element)
}

// evictOver evicts other entries while the cache is over its limit.
// Must be called with c.mu locked.
func (c *DatasetCache) evictOver(keep *cacheEntry) {
	if c.maxMemory <= 0 {
		return
	}
	for c.usedMemory > c.maxMemory && c.lru.Len() > 1 {
		if c.lru.Back() == keep.element {
			return
		}
		c.evictLRU()
	}
}

// evictLRU removes the least recently used dataset from cache.
// Must be called with c.mu locked.
func (c *DatasetCache) evictLRU() {
	elem := c.lru.Back()
	if elem == nil {
		return
	}

	entry := elem.Value.(*cacheEntry)
	c.lru.Remove(elem)
	delete(c.datasets, entry.name)
	c.usedMemory -= entry.memorySize
}

// Remove explicitly removes a dataset from the cache.
func (c *DatasetCache) Remove(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.datasets[name]; ok {
		c.lru.Remove(entry.element)
		delete(c.datasets, name)
		c.usedMemory -= entry.memorySize
	}
}

// Clear removes all datasets from the cache.
func (c *DatasetCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.datasets = make(map[string]*cacheEntry)
	c.lru.Init()
	c.usedMemory = 0
}

// Stats returns cache statistics.
func (c *DatasetCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	totalAccess := 0
	for _, entry := range c.datasets {
		totalAccess += entry.accessCount
	}

	return CacheStats{
		DatasetCount: len(c.datasets),
		UsedMemory:   c.usedMemory,
		MaxMemory:    c.maxMemory,
		TotalAccess:  totalAccess,
	}
}

// CacheStats holds cache performance metrics.
type CacheStats struct {
	DatasetCount int   // Number of datasets currently cached
	UsedMemory   int64 // Estimated memory usage in bytes
	MaxMemory    int64 // Maximum memory limit in bytes
	TotalAccess  int   // Total number of accesses across all cached datasets
}

// estimateDatasetMemory estimates memory usage for a dataset.
//
// This is approximate and based on:
//   - Base overhead: ~1KB per dataset
//   - Feature overhead: ~1KB per feature (attributes, index node)
//   - Vertices: 32 bytes per coordinate
func estimateDatasetMemory(ds *Dataset) int64 {
	if ds == nil {
		return 0
	}

	size := int64(1024)
	size += int64(len(ds.features)) * 1024
	for _, f := range ds.features {
		size += int64(f.CoordinateCount()) * 32
	}
	return size
}
