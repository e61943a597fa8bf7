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
	"runtime"
	"runtime/debug"
)

var (
	version = "dev"
	commit  = "unknown"
)

// BuildInfo describes the running binary
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	GoVersion string `json:"go_version"`
}

// GetVersion returns the application version
func GetVersion() string {
	if version != "dev" {
		return version
	}

	// Try to get version from build info
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "(devel)" && info.Main.Version != "" {
			return info.Main.Version
		}
		if revision := vcsRevision(info); revision != "" {
			return shortRevision(revision)
		}
	}

	if commit != "unknown" {
		return shortRevision(commit)
	}

	return "dev"
}

// GetBuildInfo returns the version, commit and Go runtime of the binary
func GetBuildInfo() BuildInfo {
	rev := commit
	if rev == "unknown" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if r := vcsRevision(info); r != "" {
				rev = r
			}
		}
	}

	return BuildInfo{
		Version:   GetVersion(),
		Commit:    shortRevision(rev),
		GoVersion: runtime.Version(),
	}
}

// GetServerHeader returns the Server header sent with HTTP responses
func GetServerHeader() string {
	return fmt.Sprintf("bikedash/%s", GetVersion())
}

func vcsRevision(info *debug.BuildInfo) string {
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" {
			return setting.Value
		}
	}
	return ""
}

func shortRevision(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}
