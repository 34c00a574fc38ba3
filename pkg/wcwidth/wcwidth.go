// Package wcwidth provides the display width of strings in a terminal.
package wcwidth

import (
	"strings"
	"sync"

	"github.com/mattn/go-runewidth"
)

var (
	overrideMutex sync.RWMutex
	overrides     = map[rune]int{}
)

// Ambiguous characters are always narrow, whatever the locale says.
var condition = &runewidth.Condition{EastAsianWidth: false}

// OfRune returns the column width of a rune. Combining marks and
// nonprinting characters have no width, and East Asian wide and fullwidth
// characters take two columns.
func OfRune(r rune) int {
	overrideMutex.RLock()
	w, ok := overrides[r]
	overrideMutex.RUnlock()
	if ok {
		return w
	}
	return condition.RuneWidth(r)
}

// Override overrides the column width of a rune to be a specific non-negative
// value. If w < 0, it removes the override.
func Override(r rune, w int) {
	if w < 0 {
		Unoverride(r)
		return
	}
	overrideMutex.Lock()
	defer overrideMutex.Unlock()
	overrides[r] = w
}

// Unoverride removes the column width override of a rune.
func Unoverride(r rune) {
	overrideMutex.Lock()
	defer overrideMutex.Unlock()
	delete(overrides, r)
}

// Of returns the column width of a string, the sum of the widths of its
// runes.
func Of(s string) int {
	w := 0
	for _, r := range s {
		w += OfRune(r)
	}
	return w
}

// Trim trims the string s so that it uses at most wmax columns.
func Trim(s string, wmax int) string {
	w := 0
	for i, r := range s {
		w += OfRune(r)
		if w > wmax {
			return s[:i]
		}
	}
	return s
}

// Force forces the string s to the given column width by trimming or
// padding with spaces.
func Force(s string, wanted int) string {
	s = Trim(s, wanted)
	return s + strings.Repeat(" ", wanted-Of(s))
}

// TrimEachLine trims each line of s so that it is no wider than the
// specified width.
func TrimEachLine(s string, width int) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = Trim(lines[i], width)
	}
	return strings.Join(lines, "\n")
}
