package sys

import (
	"os"
	"testing"

	"github.com/patrickelectric/sixtyfps/pkg/must"
)

func TestWidth_NotATerminal(t *testing.T) {
	r, w := must.Pipe()
	defer r.Close()
	defer w.Close()

	if IsATTY(w.Fd()) {
		t.Errorf("IsATTY(pipe) -> true")
	}
	if got := Width(w); got != DefaultWidth {
		t.Errorf("Width(pipe) -> %d, want %d", got, DefaultWidth)
	}
	if row, col := WinSize(w); row != -1 || col != -1 {
		t.Errorf("WinSize(pipe) -> (%d, %d), want (-1, -1)", row, col)
	}
}

func TestIsATTY_DevNull(t *testing.T) {
	f, err := os.Open(os.DevNull)
	if err != nil {
		t.Skip(err)
	}
	defer f.Close()
	if IsATTY(f.Fd()) {
		t.Errorf("IsATTY(%s) -> true", os.DevNull)
	}
}
