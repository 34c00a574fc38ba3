// Sixtyfps compiles .60 user interface documents. It checks documents and
// instantiates them with the dynamic runtime, shows their lowered component
// tree and public properties, and runs a language server for editors.
package main

import (
	"os"

	"github.com/patrickelectric/sixtyfps/pkg/lsp"
	"github.com/patrickelectric/sixtyfps/pkg/prog"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(
			prog.VersionProgram{}, prog.BuildInfoProgram{}, lsp.Program{},
			prog.DumpProgram{}, prog.PropsProgram{}, prog.CheckProgram{})))
}
