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
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	// Input datasets
	HourPath string `yaml:"hour_path"`
	DayPath  string `yaml:"day_path"`

	// HTTP server
	ListenAddr   string        `yaml:"listen_addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`

	// Charts
	ChartTheme  string `yaml:"chart_theme"`
	ChartWidth  int    `yaml:"chart_width"`
	ChartHeight int    `yaml:"chart_height"`

	// Logging
	JSONLogs bool `yaml:"json_logs"`
	Debug    bool `yaml:"debug"`
}

// DefaultConfig returns the configuration used when no file is given
func DefaultConfig() *Config {
	return &Config{
		HourPath:     "data/hour.csv",
		DayPath:      "data/day.csv",
		ListenAddr:   ":8501",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ChartTheme:   "light",
		ChartWidth:   600,
		ChartHeight:  400,
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	// .env is optional; a missing file is not an error
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	// If no path provided, return defaults with env var overrides
	if path == "" {
		if err := config.applyEnvironmentVariables(); err != nil {
			return nil, err
		}
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		// A default config path that does not exist is fine
		if errors.Is(err, fs.ErrNotExist) && path == defaultConfigPath {
			if err := config.applyEnvironmentVariables(); err != nil {
				return nil, err
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.applyEnvironmentVariables(); err != nil {
		return nil, err
	}

	return config, nil
}

// defaultConfigPath is the value of the -config flag when none is given
const defaultConfigPath = "config.yaml"

// applyEnvironmentVariables overrides config with environment variables
func (c *Config) applyEnvironmentVariables() error {
	if val := os.Getenv("BIKESHARE_HOUR_PATH"); val != "" {
		c.HourPath = val
	}
	if val := os.Getenv("BIKESHARE_DAY_PATH"); val != "" {
		c.DayPath = val
	}
	if val := os.Getenv("BIKESHARE_LISTEN_ADDR"); val != "" {
		c.ListenAddr = val
	}
	if val := os.Getenv("BIKESHARE_CHART_THEME"); val != "" {
		c.ChartTheme = val
	}
	if val := os.Getenv("BIKESHARE_CHART_WIDTH"); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return &ConfigError{Field: "BIKESHARE_CHART_WIDTH", Message: "must be an integer"}
		}
		c.ChartWidth = n
	}
	if val := os.Getenv("BIKESHARE_CHART_HEIGHT"); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return &ConfigError{Field: "BIKESHARE_CHART_HEIGHT", Message: "must be an integer"}
		}
		c.ChartHeight = n
	}
	if val := os.Getenv("BIKESHARE_JSON_LOGS"); val == "true" || val == "1" {
		c.JSONLogs = true
	}
	if val := os.Getenv("BIKESHARE_DEBUG"); val == "true" || val == "1" {
		c.Debug = true
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errors []string

	if c.HourPath == "" {
		errors = append(errors, "hour_path is required")
	}
	if c.DayPath == "" {
		errors = append(errors, "day_path is required")
	}

	if c.ListenAddr == "" {
		errors = append(errors, "listen_addr is required")
	}

	if c.ChartTheme != "light" && c.ChartTheme != "dark" {
		errors = append(errors, "chart_theme must be 'light' or 'dark'")
	}

	if c.ChartWidth < 200 || c.ChartWidth > 4000 {
		errors = append(errors, "chart_width must be between 200 and 4000")
	}
	if c.ChartHeight < 150 || c.ChartHeight > 4000 {
		errors = append(errors, "chart_height must be between 150 and 4000")
	}

	if c.ReadTimeout < 0 || c.WriteTimeout < 0 || c.IdleTimeout < 0 {
		errors = append(errors, "server timeouts must not be negative")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}
