package prog

import (
	"fmt"
	"os"

	"github.com/patrickelectric/sixtyfps/pkg/buildinfo"
)

// BuildInfoProgram shows the build information, with -buildinfo.
type BuildInfoProgram struct{}

func (BuildInfoProgram) Run(fds [3]*os.File, f *Flags, _ []string) error {
	if !f.BuildInfo {
		return ErrNotSuitable
	}
	if f.JSON {
		fmt.Fprintln(fds[1], buildinfo.Value.JSON())
	} else {
		fmt.Fprintln(fds[1], "Version:", buildinfo.Value.Version)
		fmt.Fprintln(fds[1], "Go version:", buildinfo.Value.GoVersion)
	}
	return nil
}

// VersionProgram shows the version, with -version.
type VersionProgram struct{}

func (VersionProgram) Run(fds [3]*os.File, f *Flags, _ []string) error {
	if !f.Version {
		return ErrNotSuitable
	}
	fmt.Fprintln(fds[1], buildinfo.Value.Version)
	return nil
}
