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
	"fmt"
	"html"
	"io"
	"os"
	"time"
)

// DashboardPage is everything needed to write the dashboard HTML
type DashboardPage struct {
	Result *DashboardResult

	// ChartSources maps chart names to an image URL or data URI.
	// Charts without an entry show the no data state.
	ChartSources map[string]string

	// Interactive pages carry the filter form
	Interactive bool
}

// HTMLReporter generates the HTML dashboard
type HTMLReporter struct {
	logger *Logger
}

// NewHTMLReporter creates a new HTML report generator
func NewHTMLReporter(logger *Logger) *HTMLReporter {
	return &HTMLReporter{
		logger: logger,
	}
}

// GenerateHTMLReport writes a standalone dashboard with embedded PNG charts
// to outputPath, or stdout when empty
func (r *HTMLReporter) GenerateHTMLReport(result *DashboardResult, cg *ChartGenerator, outputPath string) error {
	r.logger.Info("Generating HTML report")

	sources, err := EmbeddedChartSources(cg, result)
	if err != nil {
		return err
	}

	var writer io.Writer
	if outputPath == "" {
		writer = os.Stdout
	} else {
		file, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create HTML report file: %w", err)
		}
		defer file.Close()
		writer = file
	}

	r.WriteDashboard(writer, DashboardPage{
		Result:       result,
		ChartSources: sources,
	})

	if outputPath != "" {
		r.logger.Info("HTML report saved", "path", outputPath)
	}

	return nil
}

// EmbeddedChartSources renders every non-empty chart as a PNG data URI
func EmbeddedChartSources(cg *ChartGenerator, result *DashboardResult) (map[string]string, error) {
	sources := make(map[string]string)
	for _, name := range ChartNames {
		uri, err := cg.RenderDataURI(name, result, FormatPNG)
		if errors.Is(err, ErrNoData) {
			continue
		}
		if err != nil {
			return nil, err
		}
		sources[name] = uri
	}
	return sources, nil
}

// WriteDashboard writes the full dashboard page
func (r *HTMLReporter) WriteDashboard(w io.Writer, page DashboardPage) {
	r.writeHTMLHeader(w, page.Result)
	if page.Interactive {
		r.writeHTMLControls(w, page.Result.Selection)
	}
	r.writeHTMLChartRow(w, page, ChartHourly, HourlyChartTitle, ChartSeasonal, SeasonalChartTitle)
	r.writeHTMLChartRow(w, page, ChartUsers, UsersChartTitle, ChartWeather, WeatherChartTitle)
	r.writeHTMLMetrics(w, page.Result)
	r.writeHTMLFooter(w)
}

func (r *HTMLReporter) writeHTMLHeader(w io.Writer, result *DashboardResult) {
	fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        :root {
            --primary-color: #636EFA;
            --secondary-color: #EF553B;
            --bg-color: #F5F6FA;
            --card-bg: #FFFFFF;
            --text-color: #2A3F5F;
            --text-muted: #6B7A99;
            --border-color: #E0E6F2;
        }

        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, sans-serif;
            background: var(--bg-color);
            color: var(--text-color);
            line-height: 1.6;
            padding: 20px;
        }

        .container {
            max-width: 1300px;
            margin: 0 auto;
        }

        header {
            margin-bottom: 30px;
        }

        h1 {
            font-size: 2.2em;
            font-weight: 700;
        }

        .subtitle {
            color: var(--text-muted);
            font-size: 1.1em;
        }

        .card {
            background: var(--card-bg);
            border-radius: 12px;
            padding: 20px;
            border: 1px solid var(--border-color);
            box-shadow: 0 2px 8px rgba(0, 0, 0, 0.05);
        }

        .controls {
            display: flex;
            flex-wrap: wrap;
            gap: 20px;
            align-items: flex-end;
            margin-bottom: 30px;
        }

        .controls label {
            display: block;
            color: var(--text-muted);
            font-size: 0.9em;
        }

        .controls select, .controls input, .controls button {
            padding: 6px 10px;
            border: 1px solid var(--border-color);
            border-radius: 6px;
            font-size: 1em;
        }

        .controls button {
            background: var(--primary-color);
            color: white;
            cursor: pointer;
        }

        .row {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(420px, 1fr));
            gap: 20px;
            margin-bottom: 20px;
        }

        .chart img {
            width: 100%%;
            height: auto;
        }

        .no-data {
            display: flex;
            align-items: center;
            justify-content: center;
            min-height: 300px;
            color: var(--text-muted);
            font-style: italic;
        }

        .metric-grid {
            display: grid;
            grid-template-columns: repeat(3, 1fr);
            gap: 20px;
        }

        .metric-card {
            text-align: center;
        }

        .metric-value {
            font-size: 2em;
            font-weight: bold;
            color: var(--primary-color);
            margin: 10px 0;
        }

        .metric-label {
            color: var(--text-muted);
            font-size: 0.9em;
        }

        footer {
            text-align: center;
            padding: 30px;
            color: var(--text-muted);
            border-top: 1px solid var(--border-color);
            margin-top: 40px;
        }

        @media (max-width: 768px) {
            body {
                padding: 10px;
            }

            .metric-grid {
                grid-template-columns: 1fr;
            }
        }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>🚲 %s</h1>
            <div class="subtitle">%s</div>
        </header>
`,
		html.EscapeString(DashboardTitle),
		html.EscapeString(DashboardTitle),
		html.EscapeString(DashboardSubtitle),
	)
}

func (r *HTMLReporter) writeHTMLControls(w io.Writer, sel Selection) {
	fmt.Fprintf(w, `
        <form class="card controls" method="get" action="/">
            <div>
                <label for="year">Select Year</label>
                <select id="year" name="year">
`)
	for _, year := range SelectableYears {
		fmt.Fprintf(w, "                    <option value=\"%d\"%s>%d</option>\n", year, selectedAttr(year == sel.Year), year)
	}
	fmt.Fprintf(w, `                </select>
            </div>
            <div>
                <label for="month">Select Month</label>
                <select id="month" name="month">
`)
	for m := time.January; m <= time.December; m++ {
		fmt.Fprintf(w, "                    <option value=\"%d\"%s>%s</option>\n", int(m), selectedAttr(m == sel.Month), m)
	}
	fmt.Fprintf(w, `                </select>
            </div>
            <div>
                <label for="start">Start Date</label>
                <input type="date" id="start" name="start" value="%s">
            </div>
            <div>
                <label for="end">End Date</label>
                <input type="date" id="end" name="end" value="%s">
            </div>
            <div>
                <button type="submit">Apply</button>
            </div>
        </form>
`,
		html.EscapeString(sel.Start.Format(DateLayout)),
		html.EscapeString(sel.End.Format(DateLayout)),
	)
}

func (r *HTMLReporter) writeHTMLChartRow(w io.Writer, page DashboardPage, left, leftTitle, right, rightTitle string) {
	fmt.Fprintf(w, `
        <div class="row">
`)
	r.writeHTMLChart(w, page, left, leftTitle)
	r.writeHTMLChart(w, page, right, rightTitle)
	fmt.Fprintf(w, `        </div>
`)
}

func (r *HTMLReporter) writeHTMLChart(w io.Writer, page DashboardPage, name, title string) {
	src, ok := page.ChartSources[name]
	if !ok {
		fmt.Fprintf(w, `            <div class="card chart" id="chart-%s">
                <h3>%s</h3>
                <div class="no-data">%s</div>
            </div>
`,
			html.EscapeString(name),
			html.EscapeString(title),
			html.EscapeString(noDataMessage),
		)
		return
	}

	fmt.Fprintf(w, `            <div class="card chart" id="chart-%s">
                <img src="%s" alt="%s">
            </div>
`,
		html.EscapeString(name),
		html.EscapeString(src),
		html.EscapeString(title),
	)
}

func (r *HTMLReporter) writeHTMLMetrics(w io.Writer, result *DashboardResult) {
	display := FormatMetrics(result)

	fmt.Fprintf(w, `
        <div class="card metric-grid">
            <div class="metric-card">
                <div class="metric-label">Total Rentals</div>
                <div class="metric-value" id="metric-total">%s</div>
            </div>
            <div class="metric-card">
                <div class="metric-label">Average Daily Rentals</div>
                <div class="metric-value" id="metric-average">%s</div>
            </div>
            <div class="metric-card">
                <div class="metric-label">Peak Hour</div>
                <div class="metric-value" id="metric-peak">%s</div>
            </div>
        </div>
`,
		html.EscapeString(display.TotalRentals),
		html.EscapeString(display.AverageDaily),
		html.EscapeString(display.PeakHour),
	)
}

func (r *HTMLReporter) writeHTMLFooter(w io.Writer) {
	fmt.Fprintf(w, `
        <footer>
            <p>Generated by <a href="https://github.com/matthewgall/bikedash" style="color: var(--primary-color); text-decoration: none;">bikedash</a> %s</p>
        </footer>
    </div>
</body>
</html>
`, html.EscapeString(GetVersion()))
}

func selectedAttr(selected bool) string {
	if selected {
		return " selected"
	}
	return ""
}
