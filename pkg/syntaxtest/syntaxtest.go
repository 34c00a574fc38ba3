// Package syntaxtest checks that compiling a .60 file reports exactly the
// diagnostics annotated in the file.
//
// An expected diagnostic is written as a comment line containing a caret
// followed by error{regexp}:
//
//	Foo := Rectangle foo { x: 0px; }
//	//               ^error{expected LBrace}
//
// The caret points at the column of the expected diagnostic, in the line
// preceding the comment. The regular expression must match the message.
// Every annotation consumes one diagnostic, and a file passes when every
// annotation is matched and no diagnostic is left.
//
// A comment line of the form "//include_path: dir" adds dir to the include
// paths used for the compilation.
package syntaxtest

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/patrickelectric/sixtyfps/pkg/compiler"
	"github.com/patrickelectric/sixtyfps/pkg/diag"
	"github.com/patrickelectric/sixtyfps/pkg/errutil"
	"github.com/patrickelectric/sixtyfps/pkg/parse"
)

var (
	markerPattern  = regexp.MustCompile(`\n *//[^\n]*(\^)error\{([^\n]*)\}\n`)
	includePattern = regexp.MustCompile(`(?m)^ *//include_path: *(\S+) *$`)
)

// Marker is an expected diagnostic.
type Marker struct {
	Offset  int
	Pattern *regexp.Regexp
}

// Markers returns the expected diagnostics annotated in source. Markers on
// consecutive lines all refer to the line preceding the first of them.
func Markers(source string) ([]Marker, error) {
	var markers []Marker
	prevEnd, prevBase := -1, 0
	for pos := 0; pos < len(source); {
		m := markerPattern.FindStringSubmatchIndex(source[pos:])
		if m == nil {
			break
		}
		lineBegin := pos + m[0]
		column := pos + m[2] - lineBegin
		rx := source[pos+m[4] : pos+m[5]]
		pattern, err := regexp.Compile(rx)
		if err != nil {
			return nil, fmt.Errorf("invalid regexp %q: %w", rx, err)
		}
		base := max(strings.LastIndexByte(source[:lineBegin], '\n'), 0)
		if lineBegin == prevEnd {
			base = prevBase
		}
		markers = append(markers, Marker{base + column, pattern})
		// The trailing newline may start the next marker.
		pos += m[1] - 1
		prevEnd, prevBase = pos, base
	}
	return markers, nil
}

// IncludePaths returns the include paths declared in source.
func IncludePaths(source string) []string {
	var paths []string
	for _, m := range includePattern.FindAllStringSubmatch(source, -1) {
		paths = append(paths, m[1])
	}
	return paths
}

// Diagnostics parses and compiles source. When the parse fails, only the
// parse diagnostics are returned.
func Diagnostics(path, source string) []*diag.Diagnostic {
	node, fd := parse.ParseFile(&diag.SourceFile{Name: path, Code: source})
	if fd.HasError() {
		return fd.Inner
	}
	cfg := &compiler.Configuration{IncludePaths: IncludePaths(source)}
	_, bd := compiler.CompileSyntaxNode(node, fd, cfg)
	return bd.All()
}

// Check checks the diagnostics of a source file against its markers.
func Check(path, source string) error {
	markers, err := Markers(source)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	diags := Diagnostics(path, source)
	var errs []error
	for _, m := range markers {
		i := matching(diags, m)
		if i < 0 {
			errs = append(errs, fmt.Errorf("%s: error not found at offset %d: %q",
				path, m.Offset, m.Pattern))
			continue
		}
		diags = append(diags[:i], diags[i+1:]...)
	}
	for _, d := range diags {
		errs = append(errs, fmt.Errorf("%s: unexpected diagnostic at offset %d: %s",
			path, d.Offset(), d.Message))
	}
	return errutil.Multi(errs...)
}

func matching(diags []*diag.Diagnostic, m Marker) int {
	for i, d := range diags {
		if d.Offset() == m.Offset && m.Pattern.MatchString(d.Message) {
			return i
		}
	}
	return -1
}

// CheckFile checks a file on disk.
func CheckFile(path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return Check(path, string(source))
}

// CheckDir checks every .60 file in the subdirectories of dir, and returns
// the names of the files checked.
func CheckDir(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*", "*.60"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	var errs []error
	for _, file := range files {
		if err := CheckFile(file); err != nil {
			errs = append(errs, err)
		}
	}
	return files, errutil.Multi(errs...)
}
