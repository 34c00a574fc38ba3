package tt

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// recorder implements T and keeps the messages passed to Errorf.
type recorder struct{ errors []string }

func (r *recorder) Helper() {}

func (r *recorder) Errorf(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

var errNegative = errors.New("negative length")

// span mimics the kind of function tests in this module table: one value
// and an error.
func span(offset, length int) (int, error) {
	if length < 0 {
		return 0, fmt.Errorf("span at %d: %w", offset, errNegative)
	}
	return offset + length, nil
}

func bounds(offset, length int) (int, int) { return offset, offset + length }

type point struct {
	X, Y  int
	cache string
}

func newPoint(x, y int) point { return point{x, y, fmt.Sprint(x, y)} }

func joined(err error, parts ...string) string {
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return strings.Join(parts, "/")
}

// even is a Matcher for even ints.
type even struct{}

func (even) Match(v RetValue) bool {
	n, ok := v.(int)
	return ok && n%2 == 0
}

func TestTest_Passes(t *testing.T) {
	tests := []struct {
		name  string
		fn    *FnToTest
		table Table
	}{
		{"values", Fn("bounds", bounds), Table{Args(2, 3).Rets(2, 5)}},
		{"wrapped errors match with errors.Is",
			Fn("span", span), Table{Args(4, -1).Rets(0, errNegative)}},
		{"unexported fields are ignored",
			Fn("newPoint", newPoint), Table{Args(1, 2).Rets(point{X: 1, Y: 2})}},
		{"nil arguments become zero values",
			Fn("joined", joined), Table{
				Args(nil, "a", "b").Rets("a/b"),
				Args(nil).Rets(Any),
			}},
		{"matchers", Fn("span", span), Table{Args(1, 3).Rets(even{}, nil)}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var r recorder
			Test(&r, test.fn, test.table)
			if len(r.errors) > 0 {
				t.Errorf("unexpected errors: %q", r.errors)
			}
		})
	}
}

func TestTest_Fails(t *testing.T) {
	tests := []struct {
		name       string
		fn         *FnToTest
		table      Table
		wantPrefix string
	}{
		{"one return value",
			Fn("span", span), Table{Args(1, 2).Rets(4, nil)},
			"span(1, 2) returns (-Wanted +Actual):\n"},
		{"several return values",
			Fn("bounds", bounds), Table{Args(1, 2).Rets(1, 4)},
			"bounds(1, 2) returns (-Wanted +Actual):\n"},
		{"custom formats",
			Fn("bounds", bounds).ArgsFmt("offset=%d len=%d").RetsFmt("[%d, %d)"),
			Table{Args(1, 2).Rets(1, 4)},
			"bounds(offset=1 len=2) returns (-Wanted +Actual):\n"},
		{"matcher rejects",
			Fn("span", span), Table{Args(1, 2).Rets(even{}, nil)},
			"span(1, 2) returns"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var r recorder
			Test(&r, test.fn, test.table)
			if len(r.errors) != 1 {
				t.Fatalf("got %d errors, want 1: %q", len(r.errors), r.errors)
			}
			if !strings.HasPrefix(r.errors[0], test.wantPrefix) {
				t.Errorf("got message %q, want prefix %q", r.errors[0], test.wantPrefix)
			}
		})
	}
}
