// Package must wraps calls whose errors tests cannot recover from: a
// non-nil error panics, failing the test that made the call.
package must

import (
	"os"
	"path/filepath"
	"time"
)

// OK panics with err if it is not nil.
func OK(err error) {
	if err != nil {
		panic(err)
	}
}

// OK1 returns v, panicking with err if it is not nil.
func OK1[T any](v T, err error) T {
	OK(err)
	return v
}

// OK2 is like OK1, for calls with two results.
func OK2[T1, T2 any](v1 T1, v2 T2, err error) (T1, T2) {
	OK(err)
	return v1, v2
}

// Pipe returns the read and write ends of a new pipe.
func Pipe() (r, w *os.File) {
	return OK2(os.Pipe())
}

// ReadFileString returns the content of a file.
func ReadFileString(name string) string {
	return string(OK1(os.ReadFile(name)))
}

// MkdirAll creates each directory along with missing parents.
func MkdirAll(dirs ...string) {
	for _, dir := range dirs {
		OK(os.MkdirAll(dir, 0o700))
	}
}

// WriteFile writes content to a file, creating missing parent directories.
func WriteFile(name, content string) {
	MkdirAll(filepath.Dir(name))
	OK(os.WriteFile(name, []byte(content), 0o600))
}

// WriteFileAt is like WriteFile, and then sets the modification time of the
// file. Resource caches use the modification time to detect stale entries.
func WriteFileAt(name, content string, modTime time.Time) {
	WriteFile(name, content)
	OK(os.Chtimes(name, modTime, modTime))
}
