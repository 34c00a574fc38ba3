//go:build unix

package progtest

import (
	"io"
	"os"

	"github.com/creack/pty"

	"github.com/patrickelectric/sixtyfps/pkg/prog"
)

// RunInTTY runs a Program with all of stdin, stdout and stderr connected to
// a pseudo terminal of the given width. It returns the exit code and
// everything written to the terminal. The terminal translates "\n" to
// "\r\n".
func RunInTTY(p prog.Program, cols int, args ...string) (int, string, error) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		return 0, "", err
	}
	defer ptmx.Close()
	err = pty.Setsize(ptmx, &pty.Winsize{Rows: 24, Cols: uint16(cols)})
	if err != nil {
		tty.Close()
		return 0, "", err
	}

	out := make(chan string, 1)
	go func() {
		// Reading the master fails with EIO once the slave is closed; what
		// was read until then is all the output.
		data, _ := io.ReadAll(ptmx)
		out <- string(data)
	}()
	exit := prog.Run([3]*os.File{tty, tty, tty}, append([]string{"sixtyfps"}, args...), p)
	tty.Close()
	return exit, <-out, nil
}
