// Copyright 2025 Matthew Gall <me@matthewgall.dev>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"sync"
	"time"
)

// DatasetCache loads the dataset at most once per process.
// The result and the error are both remembered.
type DatasetCache struct {
	loader *Loader
	once   sync.Once

	dataset *Dataset
	err     error
	elapsed time.Duration
}

// NewDatasetCache creates a cache around a loader
func NewDatasetCache(loader *Loader) *DatasetCache {
	return &DatasetCache{loader: loader}
}

// Get returns the dataset, loading it on first use. Safe for concurrent callers.
func (c *DatasetCache) Get() (*Dataset, error) {
	c.once.Do(func() {
		start := time.Now()
		c.dataset, c.err = c.loader.Load()
		c.elapsed = time.Since(start)
	})
	return c.dataset, c.err
}

// LoadDuration returns how long the first load took
func (c *DatasetCache) LoadDuration() time.Duration {
	c.Get()
	return c.elapsed
}

// CacheEntry is one rendered chart held in memory
type CacheEntry struct {
	Data     []byte
	CachedAt time.Time
}

// ChartCache keeps rendered charts keyed by ETag. The dataset never changes
// while the process runs, so entries do not expire; the oldest is evicted
// once the cache is full.
type ChartCache struct {
	entries    map[string]*CacheEntry
	maxEntries int
	mutex      sync.RWMutex
	logger     *Logger

	hits   int
	misses int
}

// NewChartCache creates an in-memory chart cache
func NewChartCache(maxEntries int, logger *Logger) *ChartCache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &ChartCache{
		entries:    make(map[string]*CacheEntry),
		maxEntries: maxEntries,
		logger:     logger.WithComponent("cache"),
	}
}

// Get retrieves a rendered chart if present
func (c *ChartCache) Get(key string) ([]byte, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.entries[key]
	if !exists {
		c.misses++
		c.logger.Debug("Cache miss", "key", key)
		return nil, false
	}

	c.hits++
	c.logger.Debug("Cache hit", "key", key, "age", time.Since(entry.CachedAt).Round(time.Second))
	return entry.Data, true
}

// Set stores a rendered chart, evicting the oldest entry when full
func (c *ChartCache) Set(key string, data []byte) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}

	c.entries[key] = &CacheEntry{
		Data:     data,
		CachedAt: time.Now(),
	}
	c.logger.Debug("Cache set", "key", key, "size", len(data))
}

// evictOldest removes the oldest entry (must be called with lock held)
func (c *ChartCache) evictOldest() {
	var oldestKey string
	var oldest time.Time

	for key, entry := range c.entries {
		if oldestKey == "" || entry.CachedAt.Before(oldest) {
			oldestKey = key
			oldest = entry.CachedAt
		}
	}

	if oldestKey != "" {
		delete(c.entries, oldestKey)
		c.logger.Debug("Cache evicted", "key", oldestKey)
	}
}

// Clear removes all entries
func (c *ChartCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	count := len(c.entries)
	c.entries = make(map[string]*CacheEntry)
	c.logger.Info("Cleared chart cache", "count", count)
}

// Stats returns cache statistics
func (c *ChartCache) Stats() (total, hits, misses int) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.entries), c.hits, c.misses
}
