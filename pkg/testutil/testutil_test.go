package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/patrickelectric/sixtyfps/pkg/must"
)

var dedentTests = []struct {
	name string
	in   string
	out  string
}{
	{
		name: "no leading newline",
		in:   " \n  foo\n bar",
		out:  "\n foo\nbar",
	},
	{
		name: "leading newline and trailing newline",
		in: `
			Foo := Rectangle {
			    width: 10px;
			}
			`,
		out: "Foo := Rectangle {\n    width: 10px;\n}\n",
	},
	{
		name: "no common indentation",
		in:   "a\n  b",
		out:  "a\n  b",
	},
}

func TestDedent(t *testing.T) {
	for _, test := range dedentTests {
		t.Run(test.name, func(t *testing.T) {
			if got := Dedent(test.in); got != test.out {
				t.Errorf("Dedent(%q) -> %q, want %q", test.in, got, test.out)
			}
		})
	}
}

func TestSet(t *testing.T) {
	c := &cleanuper{}
	s := "old"
	Set(c, &s, "new")
	if s != "new" {
		t.Errorf("after Set, s = %q, want %q", s, "new")
	}
	c.runCleanups()
	if s != "old" {
		t.Errorf("after cleanup, s = %q, want %q", s, "old")
	}
}

func TestTempDir_CleanupRemovesDirRecursively(t *testing.T) {
	c := &cleanuper{}
	dir := TempDir(c)
	ApplyDir(dir, Dir{"a.60": "A := Rectangle {}", "sub": Dir{"b.60": ""}})

	if _, err := os.Stat(filepath.Join(dir, "sub", "b.60")); err != nil {
		t.Errorf("ApplyDir did not create nested file: %v", err)
	}
	if got := must.ReadFileString(filepath.Join(dir, "a.60")); got != "A := Rectangle {}" {
		t.Errorf("a.60 has content %q", got)
	}

	c.runCleanups()
	if _, err := os.Stat(dir); err == nil {
		t.Errorf("Dir %q still exists after cleanup", dir)
	}
}

type cleanuper struct{ fns []func() }

func (c *cleanuper) Cleanup(fn func()) { c.fns = append(c.fns, fn) }

func (c *cleanuper) runCleanups() {
	for i := len(c.fns) - 1; i >= 0; i-- {
		c.fns[i]()
	}
}
