// Package sys provides terminal utilities with the same API across OSes.
package sys

import (
	"os"

	"github.com/mattn/go-isatty"
)

// DefaultWidth is used when the width of the output cannot be determined.
const DefaultWidth = 80

// WinSize queries the size of the terminal referenced by the given file. It
// returns (-1, -1) when the file is not a terminal.
func WinSize(file *os.File) (row, col int) { return winSize(file) }

// IsATTY determines whether the given file is a terminal.
func IsATTY(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Width returns the number of columns of file if it is a terminal, and
// DefaultWidth otherwise.
func Width(file *os.File) int {
	if !IsATTY(file.Fd()) {
		return DefaultWidth
	}
	if _, col := WinSize(file); col > 0 {
		return col
	}
	return DefaultWidth
}
