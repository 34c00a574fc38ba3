// Package progtest contains utilities for testing [prog.Program]
// implementations.
package progtest

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/patrickelectric/sixtyfps/pkg/must"
	"github.com/patrickelectric/sixtyfps/pkg/prog"
)

// Case is a test case that can be used in Test.
type Case struct {
	args  []string
	stdin string
	want  result
}

type result struct {
	exitCode int
	stdout   output
	stderr   output
}

type output struct {
	content string
	partial bool
	checked bool
}

func (o output) matches(s string) bool {
	if !o.checked {
		return true
	}
	if o.partial {
		return strings.Contains(s, o.content)
	}
	return s == o.content
}

// ThatSixtyFPS returns a new Case with the specified CLI arguments.
//
// The new Case expects the program run to exit with 0, and write nothing to
// stdout or stderr.
//
// When combined with subsequent method calls, a test case reads like English.
// For example, a test for the fact that "sixtyfps -bad-flag" exits with 2 is
// written as:
//
//	ThatSixtyFPS("-bad-flag").ExitsWith(2)
func ThatSixtyFPS(args ...string) Case {
	return Case{
		args: append([]string{"sixtyfps"}, args...),
		want: result{
			stdout: output{checked: true},
			stderr: output{checked: true},
		},
	}
}

// WithStdin returns an altered Case that provides the given input to stdin
// of the program.
func (c Case) WithStdin(s string) Case {
	c.stdin = s
	return c
}

// DoesNothing returns c itself. It is useful to mark tests that otherwise
// don't have any expectations, for example:
//
//	ThatSixtyFPS("-cpuprofile", "x").DoesNothing()
func (c Case) DoesNothing() Case {
	return c
}

// ExitsWith returns an altered Case that requires the program to exit with
// the given exit code.
func (c Case) ExitsWith(code int) Case {
	c.want.exitCode = code
	return c
}

// WritesStdout returns an altered Case that requires the program to write
// exactly the given text to stdout.
func (c Case) WritesStdout(s string) Case {
	c.want.stdout = output{content: s, checked: true}
	return c
}

// WritesStdoutContaining returns an altered Case that requires the program
// to write output to stdout that contains the given text as a substring.
func (c Case) WritesStdoutContaining(s string) Case {
	c.want.stdout = output{content: s, partial: true, checked: true}
	return c
}

// WritesStderr returns an altered Case that requires the program to write
// exactly the given text to stderr.
func (c Case) WritesStderr(s string) Case {
	c.want.stderr = output{content: s, checked: true}
	return c
}

// WritesStderrContaining returns an altered Case that requires the program
// to write output to stderr that contains the given text as a substring.
func (c Case) WritesStderrContaining(s string) Case {
	c.want.stderr = output{content: s, partial: true, checked: true}
	return c
}

// AnyStderr returns an altered Case that accepts any output on stderr.
func (c Case) AnyStderr() Case {
	c.want.stderr = output{}
	return c
}

// Test runs test cases against a given program.
func Test(t *testing.T, p prog.Program, cases ...Case) {
	t.Helper()
	for _, c := range cases {
		t.Run(strings.Join(c.args, " "), func(t *testing.T) {
			t.Helper()
			r := run(p, c.args, c.stdin)
			if r.exitCode != c.want.exitCode {
				t.Errorf("got exit code %v, want %v", r.exitCode, c.want.exitCode)
			}
			if !c.want.stdout.matches(r.stdout.content) {
				t.Errorf("got stdout:\n%s\nwant %s", r.stdout.content, c.want.stdout)
			}
			if !c.want.stderr.matches(r.stderr.content) {
				t.Errorf("got stderr:\n%s\nwant %s", r.stderr.content, c.want.stderr)
			}
		})
	}
}

func (o output) String() string {
	if o.partial {
		return "containing:\n" + o.content
	}
	return ":\n" + o.content
}

// Run runs a Program with the given arguments. It returns the exit code and
// the output written to stdout and stderr.
func Run(p prog.Program, args ...string) (exit int, stdout, stderr string) {
	r := run(p, append([]string{"sixtyfps"}, args...), "")
	return r.exitCode, r.stdout.content, r.stderr.content
}

func run(p prog.Program, args []string, stdin string) result {
	r0, w0 := must.Pipe()
	// Write to stdin in a goroutine in case the program does not consume
	// all of it.
	go func() {
		w0.WriteString(stdin)
		w0.Close()
	}()
	r1, w1 := must.Pipe()
	r2, w2 := must.Pipe()

	// Read stdout and stderr concurrently, so that the program does not
	// block on a full pipe.
	stdout := readAllAsync(r1)
	stderr := readAllAsync(r2)

	exit := prog.Run([3]*os.File{r0, w1, w2}, args, p)
	r0.Close()
	w1.Close()
	w2.Close()

	return result{
		exitCode: exit,
		stdout:   output{content: <-stdout},
		stderr:   output{content: <-stderr},
	}
}

func readAllAsync(r *os.File) <-chan string {
	ch := make(chan string, 1)
	go func() {
		ch <- string(must.OK1(io.ReadAll(r)))
		r.Close()
	}()
	return ch
}
