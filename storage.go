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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// snapshotLayout is the timestamp layout used in snapshot file names
const snapshotLayout = "2006-01-02_15-04-05"

// Storage saves dashboard results as JSON snapshots in a directory
type Storage struct {
	basePath string
	logger   *Logger
}

// NewStorage creates a snapshot store, creating the directory if needed
func NewStorage(basePath string, logger *Logger) (*Storage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, &StorageError{
			Operation: "create_directory",
			Path:      basePath,
			Err:       err,
		}
	}

	logger.Debug("Storage initialized", "path", basePath)

	return &Storage{
		basePath: basePath,
		logger:   logger.WithComponent("storage"),
	}, nil
}

// SaveSnapshot writes a result and its formatted metrics, returning the file path
func (s *Storage) SaveSnapshot(result *DashboardResult) (string, error) {
	sel := result.Selection
	filename := fmt.Sprintf("summary_%d-%02d_%s.json", sel.Year, int(sel.Month), result.GeneratedAt.Format(snapshotLayout))
	path := filepath.Join(s.basePath, filename)

	s.logger.Info("Saving snapshot", "path", path)

	snapshot := SummaryResponse{
		Result:  result,
		Metrics: FormatMetrics(result),
	}
	if err := s.saveJSON(path, snapshot); err != nil {
		return "", err
	}
	return path, nil
}

// LoadLatestSnapshot loads the most recent snapshot for a year and month.
// It returns nil when none exists.
func (s *Storage) LoadLatestSnapshot(year int, month int) (*SummaryResponse, error) {
	pattern := filepath.Join(s.basePath, fmt.Sprintf("summary_%d-%02d_*.json", year, month))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, &StorageError{
			Operation: "glob_snapshots",
			Path:      pattern,
			Err:       err,
		}
	}

	if len(matches) == 0 {
		return nil, nil
	}

	// Timestamps in the file names sort chronologically
	sort.Strings(matches)
	latestFile := matches[len(matches)-1]

	s.logger.Debug("Loading snapshot", "path", latestFile)

	var snapshot SummaryResponse
	if err := s.loadJSON(latestFile, &snapshot); err != nil {
		return nil, err
	}

	return &snapshot, nil
}

// saveJSON saves data as JSON to a file
func (s *Storage) saveJSON(path string, data interface{}) error {
	file, err := os.Create(path)
	if err != nil {
		return &StorageError{
			Operation: "create_file",
			Path:      path,
			Err:       err,
		}
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(data); err != nil {
		return &StorageError{
			Operation: "encode_json",
			Path:      path,
			Err:       err,
		}
	}

	return nil
}

// loadJSON loads data from a JSON file
func (s *Storage) loadJSON(path string, target interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		return &StorageError{
			Operation: "open_file",
			Path:      path,
			Err:       err,
		}
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(target); err != nil {
		return &StorageError{
			Operation: "decode_json",
			Path:      path,
			Err:       err,
		}
	}

	return nil
}
