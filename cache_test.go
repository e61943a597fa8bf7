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
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetCacheLoadsOnce(t *testing.T) {
	hourPath, dayPath := writeFixtures(t)
	cache := NewDatasetCache(NewLoader(hourPath, dayPath, NewDiscardLogger()))

	var wg sync.WaitGroup
	results := make([]*Dataset, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			dataset, err := cache.Get()
			assert.NoError(t, err)
			results[i] = dataset
		}(i)
	}
	wg.Wait()

	for _, dataset := range results {
		assert.Same(t, results[0], dataset)
	}

	// Later changes on disk are not picked up
	require.NoError(t, os.Remove(hourPath))
	again, err := cache.Get()
	require.NoError(t, err)
	assert.Same(t, results[0], again)
	assert.Positive(t, cache.LoadDuration())
}

func TestDatasetCacheRemembersError(t *testing.T) {
	dir := t.TempDir()
	hourPath := filepath.Join(dir, "hour.csv")
	dayPath := writeFile(t, dir, "day.csv", fixtureDayCSV)
	cache := NewDatasetCache(NewLoader(hourPath, dayPath, NewDiscardLogger()))

	_, first := cache.Get()
	require.Error(t, first)

	// Creating the file afterwards does not retry the load
	writeFile(t, dir, "hour.csv", fixtureHourCSV)
	dataset, second := cache.Get()
	assert.Nil(t, dataset)
	assert.Equal(t, first, second)
}

func TestChartCache(t *testing.T) {
	cache := NewChartCache(2, NewDiscardLogger())

	_, ok := cache.Get("a")
	assert.False(t, ok)

	cache.Set("a", []byte("<svg>a</svg>"))
	data, ok := cache.Get("a")
	require.True(t, ok)
	assert.Equal(t, []byte("<svg>a</svg>"), data)

	total, hits, misses := cache.Stats()
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)

	cache.Clear()
	total, _, _ = cache.Stats()
	assert.Zero(t, total)
}

func TestChartCacheEvicts(t *testing.T) {
	cache := NewChartCache(1, NewDiscardLogger())

	cache.Set("a", []byte("a"))
	cache.Set("b", []byte("b"))

	_, ok := cache.Get("a")
	assert.False(t, ok)
	data, ok := cache.Get("b")
	assert.True(t, ok)
	assert.Equal(t, []byte("b"), data)

	// Overwriting an existing key does not evict
	cache.Set("b", []byte("b2"))
	total, _, _ := cache.Stats()
	assert.Equal(t, 1, total)
}
