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
	"encoding/json"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, false, true).WithComponent("loader")

	logger.LogDatasetLoaded("hourly", "/data/hour.csv", 17379, 1500*time.Microsecond)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Dataset loaded", entry["msg"])
	assert.Equal(t, "loader", entry["component"])
	assert.Equal(t, "hourly", entry["table"])
	assert.Equal(t, float64(17379), entry["rows"])
}

func TestLoggerDebugLevel(t *testing.T) {
	var quiet, verbose bytes.Buffer

	newLogger(&quiet, false, false).LogFilterApplied("daily", 731, 31)
	newLogger(&verbose, true, false).LogFilterApplied("daily", 731, 31)

	assert.Empty(t, quiet.String())
	assert.Contains(t, verbose.String(), "rows_after=31")
}

func TestLogRenderHumanizesSize(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, true, false).LogRender(ChartHourly, string(FormatSVG), 2048)

	assert.Contains(t, buf.String(), `size="2.0 kB"`)
}

func TestBuildInfo(t *testing.T) {
	info := GetBuildInfo()
	assert.Equal(t, GetVersion(), info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.LessOrEqual(t, len(info.Commit), 7)

	assert.True(t, strings.HasPrefix(GetServerHeader(), "bikedash/"))
	assert.Equal(t, "abcdef1", shortRevision("abcdef1234567890"))
	assert.Equal(t, "abc", shortRevision("abc"))
}
