package prog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/patrickelectric/sixtyfps/pkg/compiler"
	"github.com/patrickelectric/sixtyfps/pkg/diag"
	"github.com/patrickelectric/sixtyfps/pkg/env"
	"github.com/patrickelectric/sixtyfps/pkg/interpreter"
	"github.com/patrickelectric/sixtyfps/pkg/logutil"
	"github.com/patrickelectric/sixtyfps/pkg/objtree"
	"github.com/patrickelectric/sixtyfps/pkg/sys"
)

var logger = logutil.GetLogger("[prog] ")

// CheckProgram compiles documents and shows their diagnostics. Documents
// without errors are also instantiated once. It is the default subprogram.
type CheckProgram struct{}

func (CheckProgram) Run(fds [3]*os.File, f *Flags, args []string) error {
	if len(args) == 0 {
		return BadUsage("no input files")
	}
	cfg, done, err := f.Configuration()
	if err != nil {
		return err
	}
	defer done()
	setColor(fds[2], f.Color)

	var all []*diag.Diagnostic
	failed := false
	for _, path := range args {
		doc, bd, err := compileFile(path, cfg)
		if err != nil {
			return err
		}
		all = append(all, bd.All()...)
		if bd.HasError() {
			failed = true
			continue
		}
		logger.Println("instantiating", doc.Root.ID)
		box := interpreter.NewDescription(doc.Root).Create()
		box.Destroy()
	}

	if f.JSON {
		fds[1].Write(diagnosticsToJSON(all))
		fds[1].WriteString("\n")
	} else {
		showDiagnostics(fds[2], all)
	}
	if failed {
		return Exit(1)
	}
	return nil
}

// DumpProgram shows the lowered component tree of a document, with -dump.
type DumpProgram struct{}

func (DumpProgram) Run(fds [3]*os.File, f *Flags, args []string) error {
	if !f.Dump {
		return ErrNotSuitable
	}
	doc, err := compileOne(fds, f, args)
	if err != nil {
		return err
	}
	objtree.PPrintComponent(fds[1], doc.Root, sys.Width(fds[1]))
	return nil
}

// PropsProgram shows the public properties and signals of a document, with
// -props.
type PropsProgram struct{}

func (PropsProgram) Run(fds [3]*os.File, f *Flags, args []string) error {
	if !f.Props {
		return ErrNotSuitable
	}
	doc, err := compileOne(fds, f, args)
	if err != nil {
		return err
	}
	props := interpreter.NewDescription(doc.Root).Properties()
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	if f.JSON {
		types := make(map[string]string, len(props))
		for name, t := range props {
			types[name] = t.String()
		}
		data, err := json.Marshal(types)
		if err != nil {
			return err
		}
		fds[1].Write(append(data, '\n'))
		return nil
	}
	for _, name := range names {
		fmt.Fprintf(fds[1], "%s: %s\n", name, props[name])
	}
	return nil
}

// compileOne compiles the only document given in args. Diagnostics are
// shown on stderr.
func compileOne(fds [3]*os.File, f *Flags, args []string) (*objtree.Document, error) {
	if len(args) != 1 {
		return nil, BadUsage("need exactly one input file")
	}
	cfg, done, err := f.Configuration()
	if err != nil {
		return nil, err
	}
	defer done()
	setColor(fds[2], f.Color)

	doc, bd, err := compileFile(args[0], cfg)
	if err != nil {
		return nil, err
	}
	showDiagnostics(fds[2], bd.All())
	if bd.HasError() {
		return nil, Exit(1)
	}
	return doc, nil
}

func compileFile(path string, cfg *compiler.Configuration) (*objtree.Document, *diag.BuildDiagnostics, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	logger.Println("compiling", path)
	doc, bd := compiler.CompileSource(path, string(source), cfg)
	return doc, bd, nil
}

func setColor(out *os.File, mode string) {
	switch mode {
	case "always":
		diag.SetColor(true)
	case "never":
		diag.SetColor(false)
	default:
		diag.SetColor(!env.NoColor() && sys.IsATTY(out.Fd()))
	}
}

func showDiagnostics(out *os.File, diags []*diag.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(out, d.Show(""))
	}
}

// An auxiliary struct for converting diagnostics to JSON.
type diagnosticInJSON struct {
	FileName string `json:"fileName"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

func diagnosticsToJSON(diags []*diag.Diagnostic) []byte {
	entries := make([]diagnosticInJSON, len(diags))
	for i, d := range diags {
		entries[i] = diagnosticInJSON{
			d.Context.Name, d.Context.From, d.Context.To, d.Severity.String(), d.Message}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return []byte(`[{"message":"Unable to convert the diagnostics to JSON"}]`)
	}
	return data
}
