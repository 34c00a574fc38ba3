package env

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIncludePaths(t *testing.T) {
	sep := string(filepath.ListSeparator)
	t.Setenv(SIXTYFPS_INCLUDE_PATH, strings.Join([]string{"a", "", "b/c"}, sep))

	if diff := cmp.Diff([]string{"a", "b/c"}, IncludePaths()); diff != "" {
		t.Errorf("IncludePaths (-want +got):\n%s", diff)
	}
}

func TestIncludePaths_Unset(t *testing.T) {
	t.Setenv(SIXTYFPS_INCLUDE_PATH, "")
	if paths := IncludePaths(); paths != nil {
		t.Errorf("got %v, want nil", paths)
	}
}

func TestNoColor(t *testing.T) {
	t.Setenv(NO_COLOR, "")
	if NoColor() {
		t.Errorf("NoColor() = true with empty $NO_COLOR")
	}
	t.Setenv(NO_COLOR, "1")
	if !NoColor() {
		t.Errorf("NoColor() = false with $NO_COLOR set")
	}
}
