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
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Loader reads the hourly and daily datasets from disk
type Loader struct {
	hourPath string
	dayPath  string
	logger   *Logger
}

// NewLoader creates a loader for the two dataset files
func NewLoader(hourPath, dayPath string, logger *Logger) *Loader {
	return &Loader{
		hourPath: hourPath,
		dayPath:  dayPath,
		logger:   logger.WithComponent("loader"),
	}
}

// Load reads, validates and normalises both datasets
func (l *Loader) Load() (*Dataset, error) {
	digest := xxhash.New()

	hourly, err := l.loadTable(HourlyTable, l.hourPath, digest)
	if err != nil {
		return nil, err
	}

	daily, err := l.loadTable(DailyTable, l.dayPath, digest)
	if err != nil {
		return nil, err
	}

	return &Dataset{
		Hourly:      hourly,
		Daily:       daily,
		Fingerprint: digest.Sum64(),
		LoadedAt:    time.Now(),
	}, nil
}

// requiredColumns returns the source columns a file of the given kind must carry
func requiredColumns(kind TableKind) []string {
	columns := []string{"dteday", "season", "yr", "weathersit", "casual", "registered", "cnt"}
	if kind == HourlyTable {
		columns = append(columns, "hr")
	}
	return columns
}

// sourceTypes pins the types of the columns the dashboard relies on.
// Other columns keep gota's type detection.
func sourceTypes(kind TableKind) map[string]series.Type {
	types := map[string]series.Type{
		"dteday":     series.String,
		"season":     series.Int,
		"yr":         series.Int,
		"weathersit": series.Int,
		"casual":     series.Int,
		"registered": series.Int,
		"cnt":        series.Int,
	}
	if kind == HourlyTable {
		types["hr"] = series.Int
	}
	return types
}

// loadTable reads one file into a normalised table
func (l *Loader) loadTable(kind TableKind, path string, digest *xxhash.Digest) (*Table, error) {
	start := time.Now()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	digest.Write(data)

	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.HasHeader(true),
		dataframe.WithTypes(sourceTypes(kind)),
	)
	if df.Err != nil {
		return nil, &LoadError{
			Path: path,
			Err:  &DataFormatError{File: path, Message: df.Err.Error()},
		}
	}

	df, err = normalise(kind, path, df, l.logger)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	l.logger.LogDatasetLoaded(string(kind), path, df.Nrow(), time.Since(start))

	return newTable(kind, df), nil
}

// normalise validates the source columns, renames them, parses dates and
// replaces category codes with labels
func normalise(kind TableKind, file string, df dataframe.DataFrame, logger *Logger) (dataframe.DataFrame, error) {
	var missing []string
	present := make(map[string]bool)
	for _, name := range df.Names() {
		present[name] = true
	}
	for _, name := range requiredColumns(kind) {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return df, &DataFormatError{
			File:    file,
			Column:  strings.Join(missing, ", "),
			Message: "required column missing from header",
		}
	}

	for source, name := range columnRenames {
		if present[source] {
			df = df.Rename(name, source)
		}
	}
	if df.Err != nil {
		return df, &DataFormatError{File: file, Message: df.Err.Error()}
	}

	// Counts and codes must be clean integers
	counts := []string{ColCasualUsers, ColRegisteredUsers, ColTotalRentals}
	for _, column := range counts {
		values, err := intColumn(df, file, column)
		if err != nil {
			return df, err
		}
		for i, v := range values {
			if v < 0 {
				return df, &DataFormatError{File: file, Row: i + 2, Column: column, Value: fmt.Sprint(v), Message: "count must not be negative"}
			}
		}
	}

	years, err := intColumn(df, file, ColYear)
	if err != nil {
		return df, err
	}
	for i, y := range years {
		if y != 0 && y != 1 {
			return df, &DataFormatError{File: file, Row: i + 2, Column: ColYear, Value: fmt.Sprint(y), Message: "year code must be 0 or 1"}
		}
	}

	if kind == HourlyTable {
		hours, err := intColumn(df, file, ColHour)
		if err != nil {
			return df, err
		}
		for i, h := range hours {
			if h < 0 || h > 23 {
				return df, &DataFormatError{File: file, Row: i + 2, Column: ColHour, Value: fmt.Sprint(h), Message: "hour must be between 0 and 23"}
			}
		}
	}

	dates, err := parseDates(df, file)
	if err != nil {
		return df, err
	}
	df = df.Mutate(series.New(dates, series.String, ColDate))

	seasons, err := mapCodes(df, file, ColSeason, seasonLabels, kind, logger)
	if err != nil {
		return df, err
	}
	df = df.Mutate(series.New(seasons, series.String, ColSeason))

	weather, err := mapCodes(df, file, ColWeather, weatherLabels, kind, logger)
	if err != nil {
		return df, err
	}
	df = df.Mutate(series.New(weather, series.String, ColWeather))

	if df.Err != nil {
		return df, &DataFormatError{File: file, Message: df.Err.Error()}
	}
	return df, nil
}

// intColumn reads an integer column, reporting the first non-integer value
func intColumn(df dataframe.DataFrame, file, column string) ([]int, error) {
	col := df.Col(column)
	values := make([]int, col.Len())
	for i := 0; i < col.Len(); i++ {
		el := col.Elem(i)
		v, err := el.Int()
		if err != nil || el.IsNA() {
			return nil, &DataFormatError{
				File:    file,
				Row:     i + 2,
				Column:  column,
				Value:   el.String(),
				Message: "expected an integer",
			}
		}
		values[i] = v
	}
	return values, nil
}

// parseDates parses the date column and returns it in canonical form
func parseDates(df dataframe.DataFrame, file string) ([]string, error) {
	raw := df.Col(ColDate).Records()
	dates := make([]string, len(raw))
	for i, value := range raw {
		d, err := parseDate(strings.TrimSpace(value))
		if err != nil {
			return nil, &DataFormatError{
				File:    file,
				Row:     i + 2,
				Column:  ColDate,
				Value:   value,
				Message: "unparseable date",
			}
		}
		dates[i] = d.Format(DateLayout)
	}
	return dates, nil
}

// parseDate accepts any of the supported source date layouts
func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, value); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", value)
}

// mapCodes replaces integer category codes with their labels.
// Codes outside the mapping become UnknownLabel.
func mapCodes(df dataframe.DataFrame, file, column string, labels map[int]string, kind TableKind, logger *Logger) ([]string, error) {
	codes, err := intColumn(df, file, column)
	if err != nil {
		return nil, err
	}

	mapped := make([]string, len(codes))
	unknown := 0
	for i, code := range codes {
		label, ok := labels[code]
		if !ok {
			label = UnknownLabel
			unknown++
		}
		mapped[i] = label
	}

	if unknown > 0 {
		logger.LogUnmappedCodes(string(kind), column, unknown)
	}
	return mapped, nil
}
