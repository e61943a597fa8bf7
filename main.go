// Copyright 2025 Matthew Gall <me@matthewgall.dev>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"
)

// chartCacheEntries bounds the rendered charts kept by the server
const chartCacheEntries = 256

func main() {
	// Define command-line flags
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	hourPath := flag.String("hour", "", "Path to the hourly dataset (overrides config)")
	dayPath := flag.String("day", "", "Path to the daily dataset (overrides config)")
	year := flag.String("year", "", "Year to analyse: 2011 or 2012 (default 2011)")
	month := flag.String("month", "", "Month to analyse: 1-12 or a month name (default January)")
	start := flag.String("start", "", "First date to include, YYYY-MM-DD (default first date in the data)")
	end := flag.String("end", "", "Last date to include, YYYY-MM-DD (default last date in the data)")
	outputPath := flag.String("output", "", "Output file for report (default: stdout)")
	htmlOutput := flag.Bool("html", false, "Generate HTML report instead of Markdown")
	saveDir := flag.String("save", "", "Directory to save a JSON snapshot of the report")
	serve := flag.Bool("serve", false, "Serve the interactive dashboard over HTTP")
	addr := flag.String("addr", "", "Listen address for -serve (overrides config)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Parse()

	// Show version and exit
	if *showVersion {
		fmt.Printf("bikedash %s\n", GetVersion())
		os.Exit(0)
	}

	// Initialize logger
	logger := NewLogger(*debug)
	logger.Info("Starting bikedash", "version", GetVersion())

	// Load configuration
	logger.Info("Loading configuration", "config_file", *configPath)
	config, err := LoadConfig(*configPath)
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Override with command-line flags
	if *hourPath != "" {
		config.HourPath = *hourPath
	}
	if *dayPath != "" {
		config.DayPath = *dayPath
	}
	if *addr != "" {
		config.ListenAddr = *addr
	}
	if *debug {
		config.Debug = true
	}

	// Recreate logger with the configured format and level
	if config.JSONLogs {
		logger = NewJSONLogger(config.Debug)
	} else if config.Debug {
		logger = NewLogger(true)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Configuration loaded successfully")

	metrics := NewMetrics()

	// Load datasets
	logger.Info("Loading datasets", "hour_path", config.HourPath, "day_path", config.DayPath)
	datasets := NewDatasetCache(NewLoader(config.HourPath, config.DayPath, logger))
	dataset, err := datasets.Get()
	if err != nil {
		logger.Error("Failed to load datasets", "error", err)
		os.Exit(1)
	}
	metrics.RecordDataset(dataset, datasets.LoadDuration())

	filter := NewFilterController(logger, metrics)
	analyzer := NewAnalyzer(filter, logger)
	charts := NewChartGenerator(config, logger, metrics)

	if *serve {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		server := NewServer(config, dataset, analyzer, charts, NewChartCache(chartCacheEntries, logger), metrics, logger)
		if err := server.Run(ctx); err != nil {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// Read the selection from flags
	values := url.Values{}
	values.Set("year", *year)
	values.Set("month", *month)
	values.Set("start", *start)
	values.Set("end", *end)

	sel, err := ParseSelection(values, DefaultSelection(dataset))
	if err != nil {
		logger.Error("Invalid selection", "error", err)
		os.Exit(1)
	}

	// Perform analysis
	logger.Info("Performing analysis")
	result, err := analyzer.Analyze(dataset, sel)
	if err != nil {
		logger.Error("Failed to perform analysis", "error", err)
		os.Exit(1)
	}

	// Save a snapshot of the results
	if *saveDir != "" {
		storage, err := NewStorage(*saveDir, logger)
		if err != nil {
			logger.Error("Failed to initialize storage", "error", err)
			os.Exit(1)
		}

		previous, err := storage.LoadLatestSnapshot(sel.Year, int(sel.Month))
		if err != nil {
			logger.Warn("Failed to load previous snapshot", "error", err)
		} else if previous != nil {
			logger.Info("Previous snapshot found",
				"generated_at", previous.Result.GeneratedAt,
				"total_rentals", previous.Metrics.TotalRentals,
			)
		}

		path, err := storage.SaveSnapshot(result)
		if err != nil {
			logger.Warn("Failed to save snapshot", "error", err)
		} else if *outputPath != "" {
			logger.UserMessage("Snapshot saved to %s", path)
		}
	}

	// Generate report (HTML or Markdown)
	if *htmlOutput {
		logger.Info("Generating HTML report")
		htmlReporter := NewHTMLReporter(logger)
		if err := htmlReporter.GenerateHTMLReport(result, charts, *outputPath); err != nil {
			logger.Error("Failed to generate HTML report", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Info("Generating Markdown report")
		reporter := NewReporter(logger)
		if err := reporter.GenerateReport(result, *outputPath); err != nil {
			logger.Error("Failed to generate report", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("Analysis completed successfully")
}
