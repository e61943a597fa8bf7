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
	"fmt"
	"time"

	"github.com/go-gota/gota/dataframe"
)

// TableKind identifies which dataset a table came from
type TableKind string

const (
	HourlyTable TableKind = "hourly"
	DailyTable  TableKind = "daily"
)

// Table is a read-only view over a loaded dataset. Filtering returns a new Table.
type Table struct {
	kind TableKind
	df   dataframe.DataFrame
}

func newTable(kind TableKind, df dataframe.DataFrame) *Table {
	return &Table{kind: kind, df: df}
}

// Kind returns the dataset the table came from
func (t *Table) Kind() TableKind {
	return t.kind
}

// Len returns the number of rows
func (t *Table) Len() int {
	return t.df.Nrow()
}

// Columns returns the column names
func (t *Table) Columns() []string {
	return t.df.Names()
}

// frame returns the underlying dataframe. Callers must not modify it.
func (t *Table) frame() dataframe.DataFrame {
	return t.df
}

// Ints returns an integer column
func (t *Table) Ints(column string) ([]int, error) {
	values, err := t.df.Col(column).Int()
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", column, err)
	}
	return values, nil
}

// Floats returns a numeric column as float64 values
func (t *Table) Floats(column string) []float64 {
	return t.df.Col(column).Float()
}

// Strings returns a column as its string representation
func (t *Table) Strings(column string) []string {
	return t.df.Col(column).Records()
}

// Dates returns the date column parsed into calendar dates
func (t *Table) Dates() ([]time.Time, error) {
	raw := t.Strings(ColDate)
	dates := make([]time.Time, len(raw))
	for i, value := range raw {
		d, err := time.Parse(DateLayout, value)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		dates[i] = d
	}
	return dates, nil
}

// DateRange returns the earliest and latest dates in the table,
// or ErrNoData for an empty table
func (t *Table) DateRange() (first, last time.Time, err error) {
	dates, err := t.Dates()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if len(dates) == 0 {
		return time.Time{}, time.Time{}, ErrNoData
	}

	first, last = dates[0], dates[0]
	for _, d := range dates[1:] {
		if d.Before(first) {
			first = d
		}
		if d.After(last) {
			last = d
		}
	}
	return first, last, nil
}

// HourlyRecords materialises the rows of an hourly table
func (t *Table) HourlyRecords() ([]HourlyRecord, error) {
	if t.kind != HourlyTable {
		return nil, fmt.Errorf("table %s has no hour column", t.kind)
	}

	daily, err := t.DailyRecords()
	if err != nil {
		return nil, err
	}
	hours, err := t.Ints(ColHour)
	if err != nil {
		return nil, err
	}

	records := make([]HourlyRecord, len(daily))
	for i, d := range daily {
		records[i] = HourlyRecord{
			Date:             d.Date,
			Hour:             hours[i],
			Year:             d.Year,
			Season:           d.Season,
			WeatherCondition: d.WeatherCondition,
			CasualUsers:      d.CasualUsers,
			RegisteredUsers:  d.RegisteredUsers,
			TotalRentals:     d.TotalRentals,
		}
	}
	return records, nil
}

// DailyRecords materialises the rows of a table without the hour field
func (t *Table) DailyRecords() ([]DailyRecord, error) {
	dates, err := t.Dates()
	if err != nil {
		return nil, err
	}
	years, err := t.Ints(ColYear)
	if err != nil {
		return nil, err
	}
	casual, err := t.Ints(ColCasualUsers)
	if err != nil {
		return nil, err
	}
	registered, err := t.Ints(ColRegisteredUsers)
	if err != nil {
		return nil, err
	}
	total, err := t.Ints(ColTotalRentals)
	if err != nil {
		return nil, err
	}
	seasons := t.Strings(ColSeason)
	weather := t.Strings(ColWeather)

	records := make([]DailyRecord, t.Len())
	for i := range records {
		records[i] = DailyRecord{
			Date:             dates[i],
			Year:             years[i],
			Season:           seasons[i],
			WeatherCondition: weather[i],
			CasualUsers:      casual[i],
			RegisteredUsers:  registered[i],
			TotalRentals:     total[i],
		}
	}
	return records, nil
}
