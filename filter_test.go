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
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterJanuary2011(t *testing.T) {
	dataset := loadFixture(t)
	fc := NewFilterController(NewDiscardLogger(), nil)

	hourly, daily, err := fc.Apply(dataset, januarySelection())
	require.NoError(t, err)

	assert.Equal(t, 6, hourly.Len())
	assert.Equal(t, 2, daily.Len())

	records, err := hourly.HourlyRecords()
	require.NoError(t, err)
	for _, r := range records {
		assert.Equal(t, 0, r.Year)
		assert.Equal(t, time.January, r.Date.Month())
	}
}

func TestFilterInvariants(t *testing.T) {
	dataset := loadFixture(t)
	fc := NewFilterController(NewDiscardLogger(), nil)

	allHourly, err := dataset.Hourly.HourlyRecords()
	require.NoError(t, err)
	allDaily, err := dataset.Daily.DailyRecords()
	require.NoError(t, err)

	tests := []struct {
		name       string
		sel        Selection
		wantHourly int
		wantDaily  int
	}{
		{"january 2011", januarySelection(), 6, 2},
		{"january 2012", Selection{Year: 2012, Month: time.January, Start: date(2011, 1, 1), End: date(2012, 1, 1)}, 1, 1},
		{"february 2011", Selection{Year: 2011, Month: time.February, Start: date(2011, 1, 1), End: date(2012, 1, 1)}, 1, 1},
		{"single day", Selection{Year: 2011, Month: time.January, Start: date(2011, 1, 2), End: date(2011, 1, 2)}, 3, 1},
		{"range excludes month", Selection{Year: 2011, Month: time.July, Start: date(2011, 1, 1), End: date(2011, 6, 30)}, 0, 0},
		{"inverted range", Selection{Year: 2011, Month: time.January, Start: date(2011, 1, 31), End: date(2011, 1, 1)}, 0, 0},
		{"month without rows", Selection{Year: 2012, Month: time.December, Start: date(2011, 1, 1), End: date(2012, 12, 31)}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hourly, daily, err := fc.Apply(dataset, tt.sel)
			require.NoError(t, err)
			assert.Equal(t, tt.wantHourly, hourly.Len())
			assert.Equal(t, tt.wantDaily, daily.Len())

			matches := func(year int, d time.Time) bool {
				return year == tt.sel.YearCode() &&
					d.Month() == tt.sel.Month &&
					!d.Before(tt.sel.Start) && !d.After(tt.sel.End)
			}

			// Every kept row matches and every matching row is kept
			kept, err := hourly.HourlyRecords()
			require.NoError(t, err)
			for _, r := range kept {
				assert.True(t, matches(r.Year, r.Date))
			}
			expected := 0
			for _, r := range allHourly {
				if matches(r.Year, r.Date) {
					expected++
				}
			}
			assert.Equal(t, expected, len(kept))

			keptDaily, err := daily.DailyRecords()
			require.NoError(t, err)
			for _, r := range keptDaily {
				assert.True(t, matches(r.Year, r.Date))
			}
			expected = 0
			for _, r := range allDaily {
				if matches(r.Year, r.Date) {
					expected++
				}
			}
			assert.Equal(t, expected, len(keptDaily))
		})
	}
}

func TestFilterIsIdempotent(t *testing.T) {
	dataset := loadFixture(t)
	fc := NewFilterController(NewDiscardLogger(), nil)

	firstHourly, firstDaily, err := fc.Apply(dataset, januarySelection())
	require.NoError(t, err)
	secondHourly, secondDaily, err := fc.Apply(dataset, januarySelection())
	require.NoError(t, err)

	assert.Equal(t, firstHourly.Strings(ColDate), secondHourly.Strings(ColDate))
	assert.Equal(t, firstHourly.Strings(ColHour), secondHourly.Strings(ColHour))
	assert.Equal(t, firstDaily.Strings(ColDate), secondDaily.Strings(ColDate))

	// Filtering an already filtered view changes nothing
	again, err := SelectionQuery(januarySelection()).Run(firstHourly)
	require.NoError(t, err)
	assert.Equal(t, firstHourly.Strings(ColDate), again.Strings(ColDate))

	// The source tables are untouched
	assert.Equal(t, 9, dataset.Hourly.Len())
	assert.Equal(t, 5, dataset.Daily.Len())
}

func TestQueryString(t *testing.T) {
	sel := Selection{Year: 2011, Month: time.March, Start: date(2011, 3, 1), End: date(2011, 3, 31)}
	assert.Equal(t, "year == 2011 AND month == March AND 2011-03-01 <= date <= 2011-03-31", SelectionQuery(sel).String())
	assert.Equal(t, "", NewQuery().String())
}

func TestEmptyQueryKeepsEverything(t *testing.T) {
	dataset := loadFixture(t)

	all, err := NewQuery().Run(dataset.Hourly)
	require.NoError(t, err)
	assert.Equal(t, dataset.Hourly.Len(), all.Len())
}

func TestFilterRecordsMetrics(t *testing.T) {
	dataset := loadFixture(t)
	metrics := NewMetrics()
	fc := NewFilterController(NewDiscardLogger(), metrics)

	_, _, err := fc.Apply(dataset, januarySelection())
	require.NoError(t, err)

	families, err := metrics.registry.Gather()
	require.NoError(t, err)

	found := false
	for _, family := range families {
		if family.GetName() != "bikedash_filtered_rows" {
			continue
		}
		found = true
		assert.Len(t, family.GetMetric(), 2)
		for _, m := range family.GetMetric() {
			assert.Equal(t, uint64(1), m.GetHistogram().GetSampleCount())
		}
	}
	assert.True(t, found)
}

func TestDefaultSelection(t *testing.T) {
	dataset := loadFixture(t)

	sel := DefaultSelection(dataset)
	assert.Equal(t, 2011, sel.Year)
	assert.Equal(t, time.January, sel.Month)
	assert.Equal(t, date(2011, time.January, 1), sel.Start)
	assert.Equal(t, date(2012, time.January, 1), sel.End)
}

func TestParseSelection(t *testing.T) {
	defaults := januarySelection()

	tests := []struct {
		name      string
		values    url.Values
		want      Selection
		wantField string
	}{
		{
			name:   "no values keeps defaults",
			values: url.Values{},
			want:   defaults,
		},
		{
			name:   "numeric month",
			values: url.Values{"year": {"2012"}, "month": {"3"}},
			want:   Selection{Year: 2012, Month: time.March, Start: defaults.Start, End: defaults.End},
		},
		{
			name:   "month name is case-insensitive",
			values: url.Values{"month": {"september"}},
			want:   Selection{Year: 2011, Month: time.September, Start: defaults.Start, End: defaults.End},
		},
		{
			name:   "dates",
			values: url.Values{"start": {"2011-01-05"}, "end": {"2011-01-20"}},
			want:   Selection{Year: 2011, Month: time.January, Start: date(2011, 1, 5), End: date(2011, 1, 20)},
		},
		{
			name:   "inverted dates are accepted",
			values: url.Values{"start": {"2011-01-20"}, "end": {"2011-01-05"}},
			want:   Selection{Year: 2011, Month: time.January, Start: date(2011, 1, 20), End: date(2011, 1, 5)},
		},
		{name: "unsupported year", values: url.Values{"year": {"2013"}}, wantField: "year"},
		{name: "non-numeric year", values: url.Values{"year": {"last"}}, wantField: "year"},
		{name: "month out of range", values: url.Values{"month": {"13"}}, wantField: "month"},
		{name: "unknown month name", values: url.Values{"month": {"Smarch"}}, wantField: "month"},
		{name: "bad start", values: url.Values{"start": {"01/05/2011"}}, wantField: "start"},
		{name: "bad end", values: url.Values{"end": {"2011-02-30"}}, wantField: "end"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSelection(tt.values, defaults)
			if tt.wantField != "" {
				var validationErr *ValidationError
				require.True(t, errors.As(err, &validationErr))
				assert.Equal(t, tt.wantField, validationErr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectionValues(t *testing.T) {
	sel := Selection{Year: 2012, Month: time.November, Start: date(2012, 11, 3), End: date(2012, 11, 9)}

	parsed, err := ParseSelection(sel.Values(), januarySelection())
	require.NoError(t, err)
	assert.Equal(t, sel, parsed)
	assert.Equal(t, "end=2012-11-09&month=11&start=2012-11-03&year=2012", sel.Values().Encode())
}
