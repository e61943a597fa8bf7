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
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	charts "github.com/vicanso/go-charts/v2"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartFormat is the image format a chart is rendered to
type ChartFormat string

const (
	FormatSVG ChartFormat = "svg"
	FormatPNG ChartFormat = "png"
)

// Chart identifiers used in URLs and logs
const (
	ChartHourly   = "hourly"
	ChartSeasonal = "seasonal"
	ChartUsers    = "users"
	ChartWeather  = "weather"
)

// ChartNames lists the dashboard charts in page order
var ChartNames = []string{ChartHourly, ChartSeasonal, ChartUsers, ChartWeather}

// ErrUnknownChart is returned for a chart name outside ChartNames
var ErrUnknownChart = errors.New("unknown chart")

// Dashboard themes registered with go-charts
const (
	themeLight = "bikedash-light"
	themeDark  = "bikedash-dark"
)

var darkBackground = drawing.Color{R: 16, G: 12, B: 42, A: 255}

func init() {
	series := []drawing.Color{
		{R: 99, G: 110, B: 250, A: 255},
		{R: 239, G: 85, B: 59, A: 255},
		{R: 0, G: 204, B: 150, A: 255},
		{R: 171, G: 99, B: 250, A: 255},
	}

	charts.AddTheme(themeLight, charts.ThemeOption{
		IsDarkMode:         false,
		AxisStrokeColor:    drawing.Color{R: 110, G: 112, B: 121, A: 255},
		AxisSplitLineColor: drawing.Color{R: 224, G: 230, B: 242, A: 255},
		BackgroundColor:    drawing.Color{R: 255, G: 255, B: 255, A: 255},
		TextColor:          drawing.Color{R: 70, G: 70, B: 70, A: 255},
		SeriesColors:       series,
	})
	charts.AddTheme(themeDark, charts.ThemeOption{
		IsDarkMode:         true,
		AxisStrokeColor:    drawing.Color{R: 185, G: 184, B: 206, A: 255},
		AxisSplitLineColor: drawing.Color{R: 72, G: 71, B: 83, A: 255},
		BackgroundColor:    darkBackground,
		TextColor:          drawing.Color{R: 238, G: 238, B: 238, A: 255},
		SeriesColors:       series,
	})
}

// ChartGenerator handles chart generation
type ChartGenerator struct {
	theme   string
	width   int
	height  int
	logger  *Logger
	metrics *Metrics
}

// NewChartGenerator creates a new chart generator. metrics may be nil.
func NewChartGenerator(config *Config, logger *Logger, metrics *Metrics) *ChartGenerator {
	return &ChartGenerator{
		theme:   config.ChartTheme,
		width:   config.ChartWidth,
		height:  config.ChartHeight,
		logger:  logger.WithComponent("charts"),
		metrics: metrics,
	}
}

// Render draws one named chart from a dashboard result. An empty aggregate
// yields a ChartError wrapping ErrNoData.
func (cg *ChartGenerator) Render(name string, result *DashboardResult, format ChartFormat) ([]byte, error) {
	start := time.Now()

	var buf []byte
	var err error
	switch name {
	case ChartHourly:
		buf, err = cg.HourlyUsageChart(result.HourlyUsage, format)
	case ChartSeasonal:
		buf, err = cg.CategoryChart(SeasonalChartTitle, result.SeasonalUsage, format)
	case ChartUsers:
		buf, err = cg.UserTypeChart(result.UserTypes, format)
	case ChartWeather:
		buf, err = cg.CategoryChart(WeatherChartTitle, result.WeatherImpact, format)
	default:
		err = ErrUnknownChart
	}
	if err != nil {
		return nil, &ChartError{Chart: name, Err: err}
	}

	if cg.metrics != nil {
		cg.metrics.ObserveRender(name, format, time.Since(start))
	}
	cg.logger.LogRender(name, string(format), len(buf))
	return buf, nil
}

// ChartHasData reports whether the named chart has anything to draw
func ChartHasData(name string, result *DashboardResult) bool {
	switch name {
	case ChartHourly:
		return len(result.HourlyUsage) > 0
	case ChartSeasonal:
		return len(result.SeasonalUsage) > 0
	case ChartUsers:
		return result.UserTypes != nil
	case ChartWeather:
		return len(result.WeatherImpact) > 0
	}
	return false
}

// RenderDataURI renders a chart as a base64 data URI for embedding in HTML
func (cg *ChartGenerator) RenderDataURI(name string, result *DashboardResult, format ChartFormat) (string, error) {
	buf, err := cg.Render(name, result, format)
	if err != nil {
		return "", err
	}

	mime := "image/png"
	if format == FormatSVG {
		mime = "image/svg+xml"
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(buf)), nil
}

// HourlyUsageChart creates a line chart of mean rentals per hour of day
func (cg *ChartGenerator) HourlyUsageChart(usage []HourlyMean, format ChartFormat) ([]byte, error) {
	if len(usage) == 0 {
		return nil, ErrNoData
	}

	labels := make([]string, len(usage))
	values := make([]float64, len(usage))
	for i, u := range usage {
		labels[i] = fmt.Sprint(u.Hour)
		values[i] = u.Mean
	}

	p, err := charts.LineRender(
		[][]float64{values},
		cg.typeOption(format),
		charts.TitleTextOptionFunc(HourlyChartTitle),
		charts.XAxisDataOptionFunc(labels),
		charts.ThemeOptionFunc(cg.getTheme()),
		charts.WidthOptionFunc(cg.width),
		charts.HeightOptionFunc(cg.height),
		charts.PaddingOptionFunc(charts.Box{
			Top:    20,
			Right:  20,
			Bottom: 20,
			Left:   20,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render hourly chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart bytes: %w", err)
	}
	return buf, nil
}

// CategoryChart creates a bar chart of mean rentals per category label
func (cg *ChartGenerator) CategoryChart(title string, means []CategoryMean, format ChartFormat) ([]byte, error) {
	if len(means) == 0 {
		return nil, ErrNoData
	}

	labels := make([]string, len(means))
	values := make([]float64, len(means))
	for i, m := range means {
		labels[i] = m.Label
		values[i] = m.Mean
	}

	p, err := charts.BarRender(
		[][]float64{values},
		cg.typeOption(format),
		charts.TitleTextOptionFunc(title),
		charts.XAxisDataOptionFunc(labels),
		charts.ThemeOptionFunc(cg.getTheme()),
		charts.WidthOptionFunc(cg.width),
		charts.HeightOptionFunc(cg.height),
		charts.PaddingOptionFunc(charts.Box{
			Top:    20,
			Right:  20,
			Bottom: 20,
			Left:   20,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render %q chart: %w", title, err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart bytes: %w", err)
	}
	return buf, nil
}

// UserTypeChart creates a two-bar chart of mean casual and registered users
// with fixed bar colours
func (cg *ChartGenerator) UserTypeChart(users *UserTypeMeans, format ChartFormat) ([]byte, error) {
	if users == nil {
		return nil, ErrNoData
	}

	casual := drawing.ColorFromHex(CasualUsersColor)
	registered := drawing.ColorFromHex(RegisteredUsersColor)

	// go-chart rejects a zero-height range, so pin the axis
	top := max(users.Casual, users.Registered) * 1.1
	if top == 0 {
		top = 1
	}

	graph := chart.BarChart{
		Title:    UsersChartTitle,
		Width:    cg.width,
		Height:   cg.height,
		BarWidth: cg.width / 4,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16},
		},
		YAxis: chart.YAxis{
			Name:  "Average Count",
			Range: &chart.ContinuousRange{Min: 0, Max: top},
		},
		Bars: []chart.Value{
			{Value: users.Casual, Label: CasualUsersLabel, Style: chart.Style{FillColor: casual, StrokeColor: casual}},
			{Value: users.Registered, Label: RegisteredUsersLabel, Style: chart.Style{FillColor: registered, StrokeColor: registered}},
		},
	}

	if cg.theme == "dark" {
		text := drawing.ColorWhite
		graph.Background.FillColor = darkBackground
		graph.Canvas = chart.Style{FillColor: darkBackground}
		graph.TitleStyle = chart.Style{FontColor: text}
		graph.XAxis = chart.Style{FontColor: text, StrokeColor: text}
		graph.YAxis.Style = chart.Style{FontColor: text, StrokeColor: text}
	}

	var buf bytes.Buffer
	provider := chart.PNG
	if format == FormatSVG {
		provider = chart.SVG
	}
	if err := graph.Render(provider, &buf); err != nil {
		return nil, fmt.Errorf("failed to render user type chart: %w", err)
	}
	return buf.Bytes(), nil
}

// typeOption selects the go-charts output format
func (cg *ChartGenerator) typeOption(format ChartFormat) charts.OptionFunc {
	if format == FormatSVG {
		return charts.SVGTypeOption()
	}
	return charts.PNGTypeOption()
}

// getTheme returns the registered go-charts theme name
func (cg *ChartGenerator) getTheme() string {
	if cg.theme == "dark" {
		return themeDark
	}
	return themeLight
}
