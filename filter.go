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
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Predicate is a test applied to one column of every row
type Predicate struct {
	Column string
	Name   string
	test   func(el series.Element) bool
}

// YearIs matches rows whose year code corresponds to the calendar year
func YearIs(year int) Predicate {
	code := year - BaseYear
	return Predicate{
		Column: ColYear,
		Name:   fmt.Sprintf("year == %d", year),
		test: func(el series.Element) bool {
			v, err := el.Int()
			return err == nil && v == code
		},
	}
}

// MonthIs matches rows whose date falls in the month
func MonthIs(month time.Month) Predicate {
	return Predicate{
		Column: ColDate,
		Name:   fmt.Sprintf("month == %s", month),
		test: func(el series.Element) bool {
			d, err := time.Parse(DateLayout, el.String())
			return err == nil && d.Month() == month
		},
	}
}

// DateBetween matches rows whose date lies within [start, end], inclusive
func DateBetween(start, end time.Time) Predicate {
	from := start.Format(DateLayout)
	to := end.Format(DateLayout)
	return Predicate{
		Column: ColDate,
		Name:   fmt.Sprintf("%s <= date <= %s", from, to),
		test: func(el series.Element) bool {
			// Canonical dates compare correctly as strings
			d := el.String()
			return d >= from && d <= to
		},
	}
}

// Query is a conjunction of predicates
type Query struct {
	predicates []Predicate
}

// NewQuery creates an empty query that matches every row
func NewQuery() *Query {
	return &Query{}
}

// Where adds a predicate to the query
func (q *Query) Where(p Predicate) *Query {
	q.predicates = append(q.predicates, p)
	return q
}

// String describes the query for logs
func (q *Query) String() string {
	names := make([]string, len(q.predicates))
	for i, p := range q.predicates {
		names[i] = p.Name
	}
	return strings.Join(names, " AND ")
}

// Run applies the query to a table and returns the matching rows in their
// original order
func (q *Query) Run(t *Table) (*Table, error) {
	df := t.frame()
	for _, p := range q.predicates {
		if df.Nrow() == 0 {
			break
		}
		df = df.Filter(dataframe.F{
			Colname:    p.Column,
			Comparator: series.CompFunc,
			Comparando: p.test,
		})
		if df.Err != nil {
			return nil, fmt.Errorf("filter %q on %s: %w", p.Name, t.Kind(), df.Err)
		}
	}
	return newTable(t.Kind(), df), nil
}

// SelectionQuery builds the query the dashboard applies for a selection.
// An inverted date range matches nothing.
func SelectionQuery(sel Selection) *Query {
	return NewQuery().
		Where(YearIs(sel.Year)).
		Where(MonthIs(sel.Month)).
		Where(DateBetween(sel.Start, sel.End))
}

// FilterController applies the dashboard selection to both tables
type FilterController struct {
	logger  *Logger
	metrics *Metrics
}

// NewFilterController creates a filter controller. metrics may be nil.
func NewFilterController(logger *Logger, metrics *Metrics) *FilterController {
	return &FilterController{
		logger:  logger.WithComponent("filter"),
		metrics: metrics,
	}
}

// Apply returns the hourly and daily views for a selection
func (fc *FilterController) Apply(dataset *Dataset, sel Selection) (hourly, daily *Table, err error) {
	query := SelectionQuery(sel)
	fc.logger.Debug("Applying selection", "query", query.String())

	hourly, err = query.Run(dataset.Hourly)
	if err != nil {
		return nil, nil, err
	}
	daily, err = query.Run(dataset.Daily)
	if err != nil {
		return nil, nil, err
	}

	fc.logger.LogFilterApplied(string(HourlyTable), dataset.Hourly.Len(), hourly.Len())
	fc.logger.LogFilterApplied(string(DailyTable), dataset.Daily.Len(), daily.Len())
	if fc.metrics != nil {
		fc.metrics.ObserveFilteredRows(HourlyTable, hourly.Len())
		fc.metrics.ObserveFilteredRows(DailyTable, daily.Len())
	}

	return hourly, daily, nil
}

// DefaultSelection returns the selection shown before the user changes anything:
// the first year, January, and the full date range of the daily table
func DefaultSelection(dataset *Dataset) Selection {
	sel := Selection{
		Year:  SelectableYears[0],
		Month: time.January,
	}

	first, last, err := dataset.Daily.DateRange()
	if err != nil {
		// No dates to default to; cover the selected year
		first = time.Date(sel.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		last = time.Date(sel.Year, time.December, 31, 0, 0, 0, 0, time.UTC)
	}
	sel.Start = first
	sel.End = last
	return sel
}

// ParseSelection reads year, month, start and end from query values.
// Missing values keep their defaults.
func ParseSelection(values url.Values, defaults Selection) (Selection, error) {
	sel := defaults

	if raw := strings.TrimSpace(values.Get("year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil || !slices.Contains(SelectableYears, year) {
			return sel, &ValidationError{Field: "year", Value: raw, Message: "must be 2011 or 2012"}
		}
		sel.Year = year
	}

	if raw := strings.TrimSpace(values.Get("month")); raw != "" {
		month, err := parseMonth(raw)
		if err != nil {
			return sel, &ValidationError{Field: "month", Value: raw, Message: "must be 1-12 or a month name"}
		}
		sel.Month = month
	}

	if raw := strings.TrimSpace(values.Get("start")); raw != "" {
		d, err := time.Parse(DateLayout, raw)
		if err != nil {
			return sel, &ValidationError{Field: "start", Value: raw, Message: "must be a YYYY-MM-DD date"}
		}
		sel.Start = d
	}

	if raw := strings.TrimSpace(values.Get("end")); raw != "" {
		d, err := time.Parse(DateLayout, raw)
		if err != nil {
			return sel, &ValidationError{Field: "end", Value: raw, Message: "must be a YYYY-MM-DD date"}
		}
		sel.End = d
	}

	return sel, nil
}

// Values encodes the selection as query parameters
func (s Selection) Values() url.Values {
	v := url.Values{}
	v.Set("year", strconv.Itoa(s.Year))
	v.Set("month", strconv.Itoa(int(s.Month)))
	v.Set("start", s.Start.Format(DateLayout))
	v.Set("end", s.End.Format(DateLayout))
	return v
}

// parseMonth accepts a month number or an English month name
func parseMonth(raw string) (time.Month, error) {
	if n, err := strconv.Atoi(raw); err == nil {
		if n < 1 || n > 12 {
			return 0, fmt.Errorf("month %d out of range", n)
		}
		return time.Month(n), nil
	}

	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(raw, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown month %q", raw)
}
