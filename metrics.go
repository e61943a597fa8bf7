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
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "bikedash"

// Metrics holds the application metrics on a private registry
type Metrics struct {
	registry *prometheus.Registry

	// HTTP
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Charts
	RenderDuration *prometheus.HistogramVec

	// Dataset
	DatasetRows         *prometheus.GaugeVec
	DatasetLoadDuration prometheus.Gauge
	FilteredRows        *prometheus.HistogramVec
}

// NewMetrics creates and registers the metrics
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by route, method, and status",
			},
			[]string{"route", "method", "status"},
		),

		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1.0, 2.0, 5.0},
			},
			[]string{"route"},
		),

		RenderDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "chart_render_duration_seconds",
				Help:      "Chart render duration in seconds by chart and format",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1.0},
			},
			[]string{"chart", "format"},
		),

		DatasetRows: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "dataset_rows",
				Help:      "Number of rows loaded per table",
			},
			[]string{"table"},
		),

		DatasetLoadDuration: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "dataset_load_duration_seconds",
				Help:      "Time taken to load both datasets",
			},
		),

		FilteredRows: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "filtered_rows",
				Help:      "Rows remaining per table after applying a selection",
				Buckets:   []float64{0, 10, 50, 100, 250, 500, 750, 1000, 5000},
			},
			[]string{"table"},
		),
	}
}

// Handler returns the HTTP handler exposing the registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRequest records one served request
func (m *Metrics) RecordRequest(route, method string, status int, elapsed time.Duration) {
	m.RequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// ObserveRender records one chart render
func (m *Metrics) ObserveRender(chart string, format ChartFormat, elapsed time.Duration) {
	m.RenderDuration.WithLabelValues(chart, string(format)).Observe(elapsed.Seconds())
}

// RecordDataset records the size of a loaded dataset and the load time
func (m *Metrics) RecordDataset(dataset *Dataset, elapsed time.Duration) {
	m.DatasetRows.WithLabelValues(string(HourlyTable)).Set(float64(dataset.Hourly.Len()))
	m.DatasetRows.WithLabelValues(string(DailyTable)).Set(float64(dataset.Daily.Len()))
	m.DatasetLoadDuration.Set(elapsed.Seconds())
}

// ObserveFilteredRows records the size of a filtered view
func (m *Metrics) ObserveFilteredRows(table TableKind, rows int) {
	m.FilteredRows.WithLabelValues(string(table)).Observe(float64(rows))
}
