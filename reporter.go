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
	"io"
	"os"
)

// noDataMessage is shown in place of an empty chart or table
const noDataMessage = "No data for the current selection"

// Reporter generates markdown reports from dashboard results
type Reporter struct {
	logger *Logger
}

// NewReporter creates a new report generator
func NewReporter(logger *Logger) *Reporter {
	return &Reporter{
		logger: logger,
	}
}

// GenerateReport writes a markdown report to outputPath, or stdout when empty
func (r *Reporter) GenerateReport(result *DashboardResult, outputPath string) error {
	r.logger.Info("Generating report")

	var writer io.Writer
	if outputPath == "" {
		writer = os.Stdout
	} else {
		file, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer file.Close()
		writer = file
	}

	r.WriteReport(writer, result)

	if outputPath != "" {
		r.logger.Info("Report saved", "path", outputPath)
	}

	return nil
}

// WriteReport writes the markdown report body
func (r *Reporter) WriteReport(w io.Writer, result *DashboardResult) {
	r.writeHeader(w, result)
	r.writeMetrics(w, result)
	r.writeHourlyUsage(w, result)
	r.writeCategories(w, "🍂 "+SeasonalChartTitle, "Season", result.SeasonalUsage)
	r.writeUserTypes(w, result)
	r.writeCategories(w, "🌦️ "+WeatherChartTitle, "Weather", result.WeatherImpact)
	r.writeFooter(w)
}

// writeHeader writes the report header
func (r *Reporter) writeHeader(w io.Writer, result *DashboardResult) {
	sel := result.Selection
	fmt.Fprintf(w, "# %s\n\n", DashboardTitle)
	fmt.Fprintf(w, "%s\n\n", DashboardSubtitle)
	fmt.Fprintf(w, "**Generated:** %s\n\n", result.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "**Selection:** %s %d, %s to %s\n\n",
		sel.Month, sel.Year,
		sel.Start.Format(DateLayout),
		sel.End.Format(DateLayout),
	)
	fmt.Fprintf(w, "**Rows:** %s hourly, %s daily\n\n",
		FormatCount(float64(result.HourlyRows)),
		FormatCount(float64(result.DailyRows)),
	)
	fmt.Fprintf(w, "---\n\n")
}

// writeMetrics writes the key metrics section
func (r *Reporter) writeMetrics(w io.Writer, result *DashboardResult) {
	display := FormatMetrics(result)

	fmt.Fprintf(w, "## 📊 Key Metrics\n\n")
	fmt.Fprintf(w, "| Metric | Value |\n")
	fmt.Fprintf(w, "|--------|-------|\n")
	fmt.Fprintf(w, "| Total Rentals | %s |\n", display.TotalRentals)
	fmt.Fprintf(w, "| Average Daily Rentals | %s |\n", display.AverageDaily)
	fmt.Fprintf(w, "| Peak Hour | %s |\n\n", display.PeakHour)
}

// writeHourlyUsage writes the mean rentals per hour
func (r *Reporter) writeHourlyUsage(w io.Writer, result *DashboardResult) {
	fmt.Fprintf(w, "## 🕒 %s\n\n", HourlyChartTitle)

	if len(result.HourlyUsage) == 0 {
		fmt.Fprintf(w, "_%s._\n\n", noDataMessage)
		return
	}

	fmt.Fprintf(w, "| Hour | Average Rentals |\n")
	fmt.Fprintf(w, "|------|-----------------|\n")
	for _, u := range result.HourlyUsage {
		fmt.Fprintf(w, "| %s | %.1f |\n", FormatHour(u.Hour), u.Mean)
	}
	fmt.Fprintf(w, "\n")
}

// writeCategories writes a season or weather breakdown
func (r *Reporter) writeCategories(w io.Writer, title, column string, means []CategoryMean) {
	fmt.Fprintf(w, "## %s\n\n", title)

	if len(means) == 0 {
		fmt.Fprintf(w, "_%s._\n\n", noDataMessage)
		return
	}

	fmt.Fprintf(w, "| %s | Average Rentals |\n", column)
	fmt.Fprintf(w, "|------|-----------------|\n")
	for _, m := range means {
		fmt.Fprintf(w, "| %s | %.1f |\n", m.Label, m.Mean)
	}
	fmt.Fprintf(w, "\n")
}

// writeUserTypes writes the casual and registered user averages
func (r *Reporter) writeUserTypes(w io.Writer, result *DashboardResult) {
	fmt.Fprintf(w, "## 👥 %s\n\n", UsersChartTitle)

	if result.UserTypes == nil {
		fmt.Fprintf(w, "_%s._\n\n", noDataMessage)
		return
	}

	fmt.Fprintf(w, "| User Type | Average Count |\n")
	fmt.Fprintf(w, "|-----------|---------------|\n")
	fmt.Fprintf(w, "| %s | %.1f |\n", CasualUsersLabel, result.UserTypes.Casual)
	fmt.Fprintf(w, "| %s | %.1f |\n\n", RegisteredUsersLabel, result.UserTypes.Registered)
}

// writeFooter writes the report footer
func (r *Reporter) writeFooter(w io.Writer) {
	fmt.Fprintf(w, "---\n\n")
	fmt.Fprintf(w, "*Generated by [bikedash](https://github.com/matthewgall/bikedash) %s*\n", GetVersion())
}
