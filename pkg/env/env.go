// Package env keeps names of environment variables with special significance to
// sixtyfps.
package env

import (
	"os"
	"path/filepath"
)

// Environment variables with special significance to sixtyfps.
const (
	// List of directories searched for imported components after the ones
	// given on the command line, separated like PATH.
	SIXTYFPS_INCLUDE_PATH = "SIXTYFPS_INCLUDE_PATH"
	// When set to a non-empty value, colors are not used unless requested
	// explicitly. See https://no-color.org.
	NO_COLOR = "NO_COLOR"
)

// IncludePaths returns the non-empty entries of $SIXTYFPS_INCLUDE_PATH.
func IncludePaths() []string {
	var paths []string
	for _, p := range filepath.SplitList(os.Getenv(SIXTYFPS_INCLUDE_PATH)) {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// NoColor reports whether $NO_COLOR is set to a non-empty value.
func NoColor() bool {
	return os.Getenv(NO_COLOR) != ""
}
