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

// BaseYear is the calendar year encoded as 0 in the source "yr" column
const BaseYear = 2011

// DateLayout is the canonical layout for dates held in loaded tables
const DateLayout = "2006-01-02"

// Column names after normalisation
const (
	ColDate            = "date"
	ColHour            = "hour"
	ColYear            = "year"
	ColSeason          = "season"
	ColWeather         = "weather_condition"
	ColCasualUsers     = "casual_users"
	ColRegisteredUsers = "registered_users"
	ColTotalRentals    = "total_rentals"
)

// columnRenames maps source column identifiers to their normalised names
var columnRenames = map[string]string{
	"cnt":        ColTotalRentals,
	"hr":         ColHour,
	"yr":         ColYear,
	"dteday":     ColDate,
	"casual":     ColCasualUsers,
	"registered": ColRegisteredUsers,
	"weathersit": ColWeather,
}

// UnknownLabel is displayed for season or weather codes outside the known set
const UnknownLabel = "Unknown"

// seasonLabels holds the season code mapping, indexed by code
var seasonLabels = map[int]string{
	1: "Spring",
	2: "Summer",
	3: "Fall",
	4: "Winter",
}

// weatherLabels holds the weather situation code mapping, indexed by code
var weatherLabels = map[int]string{
	1: "Clear",
	2: "Mist",
	3: "Light Snow/Rain",
	4: "Heavy Rain/Snow",
}

// Display order for category charts (code order, unknown last)
var (
	seasonOrder  = []string{"Spring", "Summer", "Fall", "Winter", UnknownLabel}
	weatherOrder = []string{"Clear", "Mist", "Light Snow/Rain", "Heavy Rain/Snow", UnknownLabel}
)

// SelectableYears are the years offered by the year selector
var SelectableYears = []int{2011, 2012}

// dateLayouts are the accepted layouts for the source date column
var dateLayouts = []string{
	DateLayout,
	"2006/01/02",
	"1/2/2006",
}

// Dashboard copy
const (
	DashboardTitle    = "Bike Sharing Analysis Dashboard"
	DashboardSubtitle = "Analysis of bike sharing patterns and user behavior"

	HourlyChartTitle   = "Average Hourly Bike Rentals"
	SeasonalChartTitle = "Average Daily Rentals by Season"
	UsersChartTitle    = "Average Daily Users by Type"
	WeatherChartTitle  = "Average Rentals by Weather Condition"

	CasualUsersLabel     = "Casual Users"
	RegisteredUsersLabel = "Registered Users"

	// Placeholder shown for a metric computed over zero rows
	MetricPlaceholder = "N/A"
)

// Fixed bar colours for the user type chart (hex, without '#')
const (
	CasualUsersColor     = "636EFA"
	RegisteredUsersColor = "EF553B"
)
