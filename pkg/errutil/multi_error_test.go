package errutil

import (
	"errors"
	"io/fs"
	"testing"
)

var (
	errA = errors.New("a")
	errB = errors.New("b")
)

func TestMulti(t *testing.T) {
	if err := Multi(nil, nil); err != nil {
		t.Errorf("Multi(nil, nil) -> %v, want nil", err)
	}
	if err := Multi(nil, errA); err != errA {
		t.Errorf("Multi(nil, errA) -> %v, want errA", err)
	}
	err := Multi(Multi(errA, errB), fs.ErrNotExist)
	if got, want := err.Error(), "multiple errors: a; b; file does not exist"; got != want {
		t.Errorf("Error() -> %q, want %q", got, want)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("errors.Is does not see a flattened constituent")
	}
}
