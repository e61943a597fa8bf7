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
	"math"
	"slices"
	"sort"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Analyzer turns a selection into the aggregates the dashboard renders
type Analyzer struct {
	filter *FilterController
	logger *Logger
}

// NewAnalyzer creates a new analyzer
func NewAnalyzer(filter *FilterController, logger *Logger) *Analyzer {
	return &Analyzer{
		filter: filter,
		logger: logger.WithComponent("analyzer"),
	}
}

// Analyze filters the dataset by the selection and computes every aggregate
func (a *Analyzer) Analyze(dataset *Dataset, sel Selection) (*DashboardResult, error) {
	hourly, daily, err := a.filter.Apply(dataset, sel)
	if err != nil {
		return nil, err
	}
	return a.Summarize(hourly, daily, sel)
}

// Summarize computes the aggregates over already filtered views
func (a *Analyzer) Summarize(hourly, daily *Table, sel Selection) (*DashboardResult, error) {
	result := &DashboardResult{
		GeneratedAt: time.Now(),
		Selection:   sel,
		HourlyRows:  hourly.Len(),
		DailyRows:   daily.Len(),
	}

	// Hourly usage
	a.logger.LogAnalysisStage("hourly_usage")
	hours, err := groupMean(hourly, ColHour)
	if err != nil {
		return nil, err
	}
	for _, g := range hours {
		h, err := strconv.Atoi(g.key)
		if err != nil {
			return nil, fmt.Errorf("hour group %q: %w", g.key, err)
		}
		result.HourlyUsage = append(result.HourlyUsage, HourlyMean{Hour: h, Mean: g.mean})
	}
	sort.Slice(result.HourlyUsage, func(i, j int) bool {
		return result.HourlyUsage[i].Hour < result.HourlyUsage[j].Hour
	})

	// Seasonal usage
	a.logger.LogAnalysisStage("seasonal_usage")
	seasons, err := groupMean(daily, ColSeason)
	if err != nil {
		return nil, err
	}
	result.SeasonalUsage = orderCategories(seasons, seasonOrder)

	// User types
	a.logger.LogAnalysisStage("user_types")
	if daily.Len() > 0 {
		result.UserTypes = &UserTypeMeans{
			Casual:     stat.Mean(daily.Floats(ColCasualUsers), nil),
			Registered: stat.Mean(daily.Floats(ColRegisteredUsers), nil),
		}
	}

	// Weather impact
	a.logger.LogAnalysisStage("weather_impact")
	weather, err := groupMean(hourly, ColWeather)
	if err != nil {
		return nil, err
	}
	result.WeatherImpact = orderCategories(weather, weatherOrder)

	// Key metrics
	a.logger.LogAnalysisStage("key_metrics")
	if daily.Len() > 0 {
		totals := daily.Floats(ColTotalRentals)
		result.TotalRentals = Metric{Valid: true, Value: floats.Sum(totals)}
		result.AverageDaily = Metric{Valid: true, Value: stat.Mean(totals, nil)}
	}
	if peak, ok := PeakHour(result.HourlyUsage); ok {
		result.PeakHour = Metric{Valid: true, Value: float64(peak)}
	}

	a.logger.Info("Analysis complete",
		"year", sel.Year,
		"month", sel.Month.String(),
		"hourly_rows", result.HourlyRows,
		"daily_rows", result.DailyRows,
	)

	return result, nil
}

// PeakHour returns the hour with the highest mean. Ties go to the earliest
// hour. The input must be sorted by hour.
func PeakHour(usage []HourlyMean) (int, bool) {
	if len(usage) == 0 {
		return 0, false
	}

	peak := usage[0]
	for _, u := range usage[1:] {
		if u.Mean > peak.Mean {
			peak = u
		}
	}
	return peak.Hour, true
}

// groupValue is one group of a group-by-mean
type groupValue struct {
	key  string
	mean float64
}

// groupMean groups a table by a column and averages total rentals per group.
// An empty table yields no groups.
func groupMean(t *Table, by string) ([]groupValue, error) {
	if t.Len() == 0 {
		return nil, nil
	}

	grouped := t.frame().GroupBy(by).Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_MEAN},
		[]string{ColTotalRentals},
	)
	if grouped.Err != nil {
		return nil, fmt.Errorf("group %s by %s: %w", t.Kind(), by, grouped.Err)
	}

	keys := grouped.Col(by).Records()
	means := grouped.Col(ColTotalRentals + "_" + dataframe.Aggregation_MEAN.String()).Float()

	groups := make([]groupValue, len(keys))
	for i := range keys {
		groups[i] = groupValue{key: keys[i], mean: means[i]}
	}
	return groups, nil
}

// orderCategories sorts groups by their position in order. Labels missing
// from order sort last, alphabetically.
func orderCategories(groups []groupValue, order []string) []CategoryMean {
	rank := func(label string) int {
		if i := slices.Index(order, label); i >= 0 {
			return i
		}
		return len(order)
	}

	sort.Slice(groups, func(i, j int) bool {
		ri, rj := rank(groups[i].key), rank(groups[j].key)
		if ri != rj {
			return ri < rj
		}
		return groups[i].key < groups[j].key
	})

	var categories []CategoryMean
	for _, g := range groups {
		categories = append(categories, CategoryMean{Label: g.key, Mean: g.mean})
	}
	return categories
}

// FormatMetrics renders the key metrics for display
func FormatMetrics(result *DashboardResult) MetricDisplay {
	display := MetricDisplay{
		TotalRentals: MetricPlaceholder,
		AverageDaily: MetricPlaceholder,
		PeakHour:     MetricPlaceholder,
	}

	if result.TotalRentals.Valid {
		display.TotalRentals = FormatCount(result.TotalRentals.Value)
	}
	if result.AverageDaily.Valid {
		display.AverageDaily = fmt.Sprintf("%.0f", result.AverageDaily.Value)
	}
	if result.PeakHour.Valid {
		display.PeakHour = FormatHour(int(result.PeakHour.Value))
	}
	return display
}

// FormatCount formats a count with thousands separators
func FormatCount(value float64) string {
	return humanize.Comma(int64(math.Round(value)))
}

// FormatHour formats an hour of the day as HH:00
func FormatHour(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}
