// Copyright 2026 The Gridshare Authors
// SPDX-License-Identifier: Apache-2.0

// Package version carries build information for the gridshare binary.
//
// Values are injected at build time via -ldflags, for example:
//
//	go build -ldflags "-X github.com/gridshare-foundation/gridshare/lib/version.GitCommit=$(git rev-parse --short HEAD)"
package version

import (
	"fmt"
	"runtime"
)

// Set via -ldflags at build time.
var (
	// Version is the semantic version, set manually for releases.
	Version = "0.1.0-dev"

	// GitCommit is the short git SHA of the build.
	GitCommit = "unknown"
)

// Info returns the version string for "gridshare version" output.
func Info() string {
	return fmt.Sprintf("%s (%s, %s, %s/%s)", Version, GitCommit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
