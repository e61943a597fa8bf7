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
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	config := DefaultConfig()
	require.NoError(t, config.Validate())
	assert.Equal(t, ":8501", config.ListenAddr)
	assert.Equal(t, "light", config.ChartTheme)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", `
hour_path: /data/hour.csv
day_path: /data/day.csv
listen_addr: "127.0.0.1:9000"
read_timeout: 5s
chart_theme: dark
chart_width: 800
json_logs: true
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/hour.csv", config.HourPath)
	assert.Equal(t, "/data/day.csv", config.DayPath)
	assert.Equal(t, "127.0.0.1:9000", config.ListenAddr)
	assert.Equal(t, 5*time.Second, config.ReadTimeout)
	assert.Equal(t, 30*time.Second, config.WriteTimeout)
	assert.Equal(t, "dark", config.ChartTheme)
	assert.Equal(t, 800, config.ChartWidth)
	assert.Equal(t, 400, config.ChartHeight)
	assert.True(t, config.JSONLogs)
	require.NoError(t, config.Validate())
}

func TestLoadConfigMissingFile(t *testing.T) {
	// An explicit path must exist
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)

	// No path means defaults
	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().HourPath, config.HourPath)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "chart_width: [not a number\n")

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	t.Setenv("BIKESHARE_HOUR_PATH", "/env/hour.csv")
	t.Setenv("BIKESHARE_DAY_PATH", "/env/day.csv")
	t.Setenv("BIKESHARE_LISTEN_ADDR", ":9999")
	t.Setenv("BIKESHARE_CHART_THEME", "dark")
	t.Setenv("BIKESHARE_CHART_WIDTH", "1024")
	t.Setenv("BIKESHARE_CHART_HEIGHT", "768")
	t.Setenv("BIKESHARE_DEBUG", "true")

	path := writeFile(t, t.TempDir(), "config.yaml", "hour_path: /file/hour.csv\n")

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/env/hour.csv", config.HourPath)
	assert.Equal(t, "/env/day.csv", config.DayPath)
	assert.Equal(t, ":9999", config.ListenAddr)
	assert.Equal(t, "dark", config.ChartTheme)
	assert.Equal(t, 1024, config.ChartWidth)
	assert.Equal(t, 768, config.ChartHeight)
	assert.True(t, config.Debug)
}

func TestLoadConfigBadEnvironmentValue(t *testing.T) {
	t.Setenv("BIKESHARE_CHART_WIDTH", "wide")

	_, err := LoadConfig("")
	require.Error(t, err)

	var configErr *ConfigError
	require.True(t, errors.As(err, &configErr))
	assert.Equal(t, "BIKESHARE_CHART_WIDTH", configErr.Field)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"missing hour path", func(c *Config) { c.HourPath = "" }, "hour_path is required"},
		{"missing day path", func(c *Config) { c.DayPath = "" }, "day_path is required"},
		{"missing listen address", func(c *Config) { c.ListenAddr = "" }, "listen_addr is required"},
		{"unknown theme", func(c *Config) { c.ChartTheme = "neon" }, "chart_theme"},
		{"tiny chart", func(c *Config) { c.ChartWidth = 10 }, "chart_width"},
		{"huge chart", func(c *Config) { c.ChartHeight = 10000 }, "chart_height"},
		{"negative timeout", func(c *Config) { c.IdleTimeout = -time.Second }, "timeouts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)

			err := config.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	// All problems are reported together
	config := DefaultConfig()
	config.HourPath = ""
	config.ChartTheme = "neon"
	err := config.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hour_path")
	assert.Contains(t, err.Error(), "chart_theme")
}
