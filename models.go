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
	"time"
)

// HourlyRecord is one (date, hour) observation from the hourly dataset
type HourlyRecord struct {
	Date             time.Time `json:"date"`
	Hour             int       `json:"hour"`
	Year             int       `json:"year"`
	Season           string    `json:"season"`
	WeatherCondition string    `json:"weather_condition"`
	CasualUsers      int       `json:"casual_users"`
	RegisteredUsers  int       `json:"registered_users"`
	TotalRentals     int       `json:"total_rentals"`
}

// DailyRecord is one date from the daily dataset
type DailyRecord struct {
	Date             time.Time `json:"date"`
	Year             int       `json:"year"`
	Season           string    `json:"season"`
	WeatherCondition string    `json:"weather_condition"`
	CasualUsers      int       `json:"casual_users"`
	RegisteredUsers  int       `json:"registered_users"`
	TotalRentals     int       `json:"total_rentals"`
}

// Dataset holds both loaded tables. It is never mutated after loading.
type Dataset struct {
	Hourly      *Table
	Daily       *Table
	Fingerprint uint64
	LoadedAt    time.Time
}

// Selection is the current state of the dashboard filter controls
type Selection struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Start time.Time  `json:"start_date"`
	End   time.Time  `json:"end_date"`
}

// YearCode returns the source encoding of the selected year
func (s Selection) YearCode() int {
	return s.Year - BaseYear
}

// HourlyMean is the average rentals for one hour of the day
type HourlyMean struct {
	Hour int     `json:"hour"`
	Mean float64 `json:"mean_total_rentals"`
}

// CategoryMean is the average rentals for one season or weather label
type CategoryMean struct {
	Label string  `json:"label"`
	Mean  float64 `json:"mean_total_rentals"`
}

// UserTypeMeans holds the average daily casual and registered users
type UserTypeMeans struct {
	Casual     float64 `json:"casual_users"`
	Registered float64 `json:"registered_users"`
}

// Metric is a scalar summary value that may be undefined over zero rows
type Metric struct {
	Valid bool    `json:"valid"`
	Value float64 `json:"value"`
}

// DashboardResult contains everything one dashboard pass renders
type DashboardResult struct {
	GeneratedAt time.Time `json:"generated_at"`
	Selection   Selection `json:"selection"`

	HourlyRows int `json:"hourly_rows"`
	DailyRows  int `json:"daily_rows"`

	// Chart aggregates; groups without rows are absent
	HourlyUsage   []HourlyMean   `json:"hourly_usage"`
	SeasonalUsage []CategoryMean `json:"seasonal_usage"`
	UserTypes     *UserTypeMeans `json:"user_types,omitempty"`
	WeatherImpact []CategoryMean `json:"weather_impact"`

	// Key metrics
	TotalRentals Metric `json:"total_rentals"`
	AverageDaily Metric `json:"average_daily_rentals"`
	PeakHour     Metric `json:"peak_hour"`
}

// MetricDisplay holds the formatted key metrics as shown on the dashboard
type MetricDisplay struct {
	TotalRentals string `json:"total_rentals"`
	AverageDaily string `json:"average_daily_rentals"`
	PeakHour     string `json:"peak_hour"`
}
