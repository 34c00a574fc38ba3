//go:build unix

package prog_test

import (
	"strings"
	"testing"

	"github.com/patrickelectric/sixtyfps/pkg/diag"
	"github.com/patrickelectric/sixtyfps/pkg/env"
	"github.com/patrickelectric/sixtyfps/pkg/must"
	"github.com/patrickelectric/sixtyfps/pkg/prog/progtest"
	"github.com/patrickelectric/sixtyfps/pkg/testutil"
)

func TestCheckProgram_ColorsDiagnosticsInTerminal(t *testing.T) {
	testutil.InTempDir(t)
	testutil.ApplyDir(".", files)
	t.Setenv(env.NO_COLOR, "")
	t.Cleanup(func() { diag.SetColor(false) })

	exit, out := must.OK2(progtest.RunInTTY(program, 80, "bad.60"))
	if exit != 1 {
		t.Errorf("got exit %d, want 1", exit)
	}
	if !strings.Contains(out, "\033[31;1mUnknown property foo") {
		t.Errorf("diagnostic is not colored: %q", out)
	}
}

func TestCheckProgram_NoColorInTerminal(t *testing.T) {
	testutil.InTempDir(t)
	testutil.ApplyDir(".", files)
	t.Setenv(env.NO_COLOR, "1")
	t.Cleanup(func() { diag.SetColor(false) })

	_, out := must.OK2(progtest.RunInTTY(program, 80, "bad.60"))
	if strings.Contains(out, "\033[") {
		t.Errorf("diagnostic is colored with $NO_COLOR set: %q", out)
	}
}

func TestDumpProgram_FitsTerminalWidth(t *testing.T) {
	testutil.InTempDir(t)
	testutil.ApplyDir(".", files)

	_, out := must.OK2(progtest.RunInTTY(program, 24, "-dump", "ok.60"))
	for _, line := range strings.Split(strings.TrimRight(out, "\r\n"), "\r\n") {
		if len(line) > 24 {
			t.Errorf("line longer than the terminal: %q", line)
		}
	}
	if !strings.Contains(out, "...") {
		t.Errorf("no line was cut: %q", out)
	}
}
