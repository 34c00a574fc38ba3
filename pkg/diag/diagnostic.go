package diag

import (
	"fmt"
	"strings"
)

// Severity is the severity of a Diagnostic.
type Severity int

// Possible values of Severity.
const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is one message produced while compiling a document.
type Diagnostic struct {
	Severity Severity
	Message  string
	Context  Context
}

// Offset returns the byte offset where the diagnostic starts, or -1 for
// generated code.
func (d *Diagnostic) Offset() int { return d.Context.From }

// Length returns the number of bytes the diagnostic covers.
func (d *Diagnostic) Length() int { return d.Context.Len() }

// Error returns a plain text representation of the diagnostic.
func (d *Diagnostic) Error() string {
	return d.Severity.String() + ": " + d.Context.Describe() + ": " + d.Message
}

// Show shows the diagnostic with the culprit highlighted.
func (d *Diagnostic) Show(indent string) string {
	return fmt.Sprintf("%s: %s%s%s\n%s%s", title(d.Severity.String()),
		messageStart, d.Message, messageEnd,
		indent+"  ", d.Context.ShowCompact(indent+"  "))
}

type diagKey struct {
	severity Severity
	message  string
	r        Ranging
}

// FileDiagnostics collects the diagnostics of a single source file. Pushing
// the same diagnostic twice is a no-op.
type FileDiagnostics struct {
	File  *SourceFile
	Inner []*Diagnostic

	seen map[diagKey]bool
}

// NewFileDiagnostics creates an empty FileDiagnostics for the given file.
func NewFileDiagnostics(file *SourceFile) *FileDiagnostics {
	return &FileDiagnostics{File: file, seen: make(map[diagKey]bool)}
}

// Push adds a diagnostic covering r.
func (fd *FileDiagnostics) Push(sev Severity, msg string, r Ranger) {
	rg := r.Range()
	key := diagKey{sev, msg, rg}
	if fd.seen[key] {
		return
	}
	fd.seen[key] = true
	ctx := Context{Name: "<generated>", Ranging: rg}
	if fd.File != nil {
		ctx = Context{fd.File.Name, fd.File.Code, rg}
	}
	fd.Inner = append(fd.Inner, &Diagnostic{sev, msg, ctx})
}

// PushError adds an error covering r.
func (fd *FileDiagnostics) PushError(msg string, r Ranger) {
	fd.Push(SeverityError, msg, r)
}

// HasError reports whether any diagnostic is an error.
func (fd *FileDiagnostics) HasError() bool {
	for _, d := range fd.Inner {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// BuildDiagnostics collects the diagnostics of one compilation, which may
// span several files (the main file, included files and the widget
// library). It implements error.
type BuildDiagnostics struct {
	files  []*FileDiagnostics
	byFile map[*SourceFile]*FileDiagnostics
}

// NewBuildDiagnostics creates an empty BuildDiagnostics.
func NewBuildDiagnostics() *BuildDiagnostics {
	return &BuildDiagnostics{byFile: make(map[*SourceFile]*FileDiagnostics)}
}

// Add merges the diagnostics of a file. Diagnostics already recorded for the
// same file are kept and duplicates are dropped.
func (bd *BuildDiagnostics) Add(fd *FileDiagnostics) {
	dst := bd.ForFile(fd.File)
	for _, d := range fd.Inner {
		dst.Push(d.Severity, d.Message, d.Context.Ranging)
	}
}

// ForFile returns the FileDiagnostics for file, creating it when needed.
func (bd *BuildDiagnostics) ForFile(file *SourceFile) *FileDiagnostics {
	if fd, ok := bd.byFile[file]; ok {
		return fd
	}
	fd := NewFileDiagnostics(file)
	bd.byFile[file] = fd
	bd.files = append(bd.files, fd)
	return fd
}

// PushError records an error at the given span.
func (bd *BuildDiagnostics) PushError(msg string, s Span) {
	bd.ForFile(s.File).PushError(msg, s.Ranging)
}

// PushWarning records a warning at the given span.
func (bd *BuildDiagnostics) PushWarning(msg string, s Span) {
	bd.ForFile(s.File).Push(SeverityWarning, msg, s.Ranging)
}

// Files returns the per-file diagnostics, in the order the files were first
// seen.
func (bd *BuildDiagnostics) Files() []*FileDiagnostics { return bd.files }

// All returns every diagnostic.
func (bd *BuildDiagnostics) All() []*Diagnostic {
	var all []*Diagnostic
	for _, fd := range bd.files {
		all = append(all, fd.Inner...)
	}
	return all
}

// HasError reports whether any diagnostic is an error.
func (bd *BuildDiagnostics) HasError() bool {
	for _, fd := range bd.files {
		if fd.HasError() {
			return true
		}
	}
	return false
}

// IsEmpty reports whether no diagnostic has been recorded.
func (bd *BuildDiagnostics) IsEmpty() bool { return len(bd.All()) == 0 }

// Err returns bd if it contains any error, and nil otherwise.
func (bd *BuildDiagnostics) Err() error {
	if bd.HasError() {
		return bd
	}
	return nil
}

// Error joins the plain text representation of every diagnostic.
func (bd *BuildDiagnostics) Error() string {
	var sb strings.Builder
	for i, d := range bd.All() {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(d.Error())
	}
	return sb.String()
}

// Show shows every diagnostic, one per paragraph.
func (bd *BuildDiagnostics) Show(indent string) string {
	var sb strings.Builder
	for i, d := range bd.All() {
		if i > 0 {
			sb.WriteString("\n" + indent)
		}
		sb.WriteString(d.Show(indent))
	}
	return sb.String()
}

// Strings returns the plain text representation of every diagnostic.
func (bd *BuildDiagnostics) Strings() []string {
	all := bd.All()
	s := make([]string, len(all))
	for i, d := range all {
		s[i] = d.Error()
	}
	return s
}
