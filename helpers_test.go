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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// January 2011 in the fixtures:
//
//	hourly means by hour: 0 -> 16.5, 1 -> 40, 2 -> 19 (peak 01:00)
//	hourly means by weather: Clear 28, Mist 24.5, Light Snow/Rain 40, Unknown 6
//	daily: 2 rows, total 1786, mean 893, casual 231, registered 662
const fixtureHourCSV = `instant,dteday,season,yr,mnth,hr,holiday,weekday,workingday,weathersit,temp,atemp,hum,windspeed,casual,registered,cnt
1,2011-01-01,1,0,1,0,0,6,0,1,0.24,0.2879,0.81,0,3,13,16
2,2011-01-01,1,0,1,1,0,6,0,1,0.22,0.2727,0.8,0,8,32,40
3,2011-01-01,1,0,1,2,0,6,0,2,0.22,0.2727,0.8,0,5,27,32
4,2011-01-02,1,0,1,0,0,0,0,2,0.46,0.4545,0.88,0.2985,2,15,17
5,2011-01-02,1,0,1,1,0,0,0,3,0.44,0.4394,0.94,0.2537,1,39,40
6,2011-01-02,1,0,1,2,0,0,0,9,0.42,0.4242,1,0.2836,0,6,6
7,2011-02-01,1,0,2,0,0,2,1,1,0.16,0.1818,0.55,0.1045,1,9,10
8,2011-07-01,3,0,7,5,0,5,1,1,0.66,0.6212,0.69,0.1045,4,30,34
9,2012-01-01,1,1,1,0,0,0,0,1,0.36,0.3788,0.66,0,4,20,24
`

const fixtureDayCSV = `instant,dteday,season,yr,mnth,holiday,weekday,workingday,weathersit,temp,atemp,hum,windspeed,casual,registered,cnt
1,2011-01-01,1,0,1,0,6,0,2,0.344167,0.363625,0.805833,0.160446,331,654,985
2,2011-01-02,1,0,1,0,0,0,2,0.363478,0.353739,0.696087,0.248539,131,670,801
3,2011-02-01,1,0,2,0,2,1,1,0.198333,0.200133,0.318333,0.225754,100,900,1000
4,2011-07-01,3,0,7,0,5,1,1,0.7175,0.668575,0.56875,0.144283,500,1500,2000
5,2012-01-01,1,1,1,0,0,0,1,0.37,0.375621,0.6925,0.192167,200,1800,2000
`

// writeFile writes content to name under dir and returns the path
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// writeFixtures writes the hourly and daily fixture files
func writeFixtures(t *testing.T) (hourPath, dayPath string) {
	t.Helper()
	dir := t.TempDir()
	return writeFile(t, dir, "hour.csv", fixtureHourCSV), writeFile(t, dir, "day.csv", fixtureDayCSV)
}

// loadFixture loads the fixture dataset
func loadFixture(t *testing.T) *Dataset {
	t.Helper()
	hourPath, dayPath := writeFixtures(t)
	dataset, err := NewLoader(hourPath, dayPath, NewDiscardLogger()).Load()
	require.NoError(t, err)
	return dataset
}

// date builds a calendar date
func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// januarySelection selects January 2011 over the full fixture range
func januarySelection() Selection {
	return Selection{
		Year:  2011,
		Month: time.January,
		Start: date(2011, time.January, 1),
		End:   date(2012, time.January, 1),
	}
}

// testConfig returns a valid configuration for the fixtures
func testConfig(hourPath, dayPath string) *Config {
	config := DefaultConfig()
	config.HourPath = hourPath
	config.DayPath = dayPath
	return config
}
