// ============================================================================
// gecli - Embedded-style command line framework
// ============================================================================
//
// Package:     version
// Description: Central version management for the gecli binary and library
// Author:      msto63
// Created:     2026-10-11
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version constants
const (
	// Framework version of the foundation/cli packages
	Framework = "0.3.0"

	// Demo application version
	Demo = "0.2.0"
)

// Build metadata, set with -ldflags "-X github.com/msto63/gecli/pkg/core/version.Commit=..."
var (
	Commit    = "unknown"
	BuildDate = "unknown"
)

// ComponentVersion returns the version for a given component name
func ComponentVersion(name string) string {
	switch name {
	case "demo":
		return Demo
	default:
		return Framework
	}
}

// String returns the full version line printed by "gecli version"
func String() string {
	return fmt.Sprintf("gecli %s (commit %s, built %s, %s %s/%s)",
		Framework, Commit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
