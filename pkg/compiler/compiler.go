// Package compiler drives the compilation of .60 documents: it builds the
// type registry (the widget library and the include paths), builds the
// object tree and runs the lowering passes.
package compiler

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/patrickelectric/sixtyfps/pkg/diag"
	"github.com/patrickelectric/sixtyfps/pkg/errutil"
	"github.com/patrickelectric/sixtyfps/pkg/logutil"
	"github.com/patrickelectric/sixtyfps/pkg/objtree"
	"github.com/patrickelectric/sixtyfps/pkg/parse"
	"github.com/patrickelectric/sixtyfps/pkg/passes"
	"github.com/patrickelectric/sixtyfps/pkg/typeregister"
)

var logger = logutil.GetLogger("[compiler] ")

//go:embed widgets/*.60
var widgets embed.FS

// Configuration configures a compilation.
type Configuration struct {
	// EmbedResources embeds the images referenced by the document in the
	// compiled components, instead of keeping their paths.
	EmbedResources bool
	// IncludePaths are directories whose .60 files provide components.
	// Relative paths are relative to the directory of the compiled file.
	IncludePaths []string
	// ResourceCache loads the embedded resources. The file system is used
	// when it is nil.
	ResourceCache passes.ResourceLoader
}

// CompileSource parses and compiles a source file.
func CompileSource(path, source string, cfg *Configuration) (*objtree.Document, *diag.BuildDiagnostics) {
	node, fd := parse.ParseFile(&diag.SourceFile{Name: path, Code: source})
	return CompileSyntaxNode(node, fd, cfg)
}

// CompileSyntaxNode compiles a parsed document. The diagnostics of the parse
// are passed in fd and included in the result. The document is returned
// even if there are errors; a document without components is an error.
func CompileSyntaxNode(node *parse.Document, fd *diag.FileDiagnostics, cfg *Configuration) (*objtree.Document, *diag.BuildDiagnostics) {
	if cfg == nil {
		cfg = &Configuration{}
	}
	bd := diag.NewBuildDiagnostics()
	reg := typeregister.NewScope(typeregister.BuiltinRegister())
	addWidgetLibrary(reg, bd)
	if len(cfg.IncludePaths) > 0 {
		err := addIncludePaths(reg, bd, cfg.IncludePaths, fd.File.Name)
		for _, e := range unwrapMulti(err) {
			bd.PushWarning(e.Error(), diag.Span{File: fd.File, Ranging: diag.PointRanging(0)})
		}
	}

	doc := objtree.FromNode(node, fd, reg)
	bd.Add(fd)
	if doc.Root == nil {
		if !bd.HasError() {
			bd.PushError("The document does not contain any component",
				diag.Span{File: fd.File, Ranging: diag.PointRanging(0)})
		}
		return doc, bd
	}
	RunPasses(doc, bd, cfg)
	return doc, bd
}

// RunPasses runs the lowering passes on the root component of the
// document, and on the stateful components it uses.
func RunPasses(doc *objtree.Document, bd *diag.BuildDiagnostics, cfg *Configuration) {
	for _, c := range doc.Components {
		passes.ResolveExpressions(c, bd)
	}
	passes.Inline(doc.Root)
	components := append([]*objtree.Component{doc.Root}, passes.NestedComponents(doc.Root)...)
	each := func(name string, pass func(*objtree.Component)) {
		logger.Printf("running %s on %d components", name, len(components))
		for _, c := range components {
			pass(c)
		}
	}
	each("compile paths", func(c *objtree.Component) { passes.CompilePaths(c, bd) })
	each("unique id", passes.AssignUniqueID)
	each("lower layouts", func(c *objtree.Component) { passes.LowerLayouts(c, bd) })
	if cfg.EmbedResources {
		each("collect resources", func(c *objtree.Component) { passes.CollectResources(c, cfg.ResourceCache) })
	}
	each("lower states", func(c *objtree.Component) { passes.LowerStates(c, bd) })
	each("repeater components", passes.CreateRepeaterComponents)
	each("move declarations", passes.MoveDeclarations)
}

// AddTypeFromSource compiles the components of a library file and registers
// them in reg. Their expressions are resolved; they are lowered once inlined
// in the components that use them.
func AddTypeFromSource(reg *typeregister.TypeRegister, bd *diag.BuildDiagnostics, path, source string) {
	node, fd := parse.ParseFile(&diag.SourceFile{Name: path, Code: source})
	doc := objtree.FromNode(node, fd, reg)
	bd.Add(fd)
	for _, c := range doc.Components {
		passes.ResolveExpressions(c, bd)
		reg.AddComponent(c)
	}
}

// AddFromDirectory registers the components of every .60 file of a
// directory, in file name order.
func AddFromDirectory(reg *typeregister.TypeRegister, bd *diag.BuildDiagnostics, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".60") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		source, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		logger.Println("loading", path)
		AddTypeFromSource(reg, bd, path, string(source))
	}
	return errutil.Multi(errs...)
}

func addWidgetLibrary(reg *typeregister.TypeRegister, bd *diag.BuildDiagnostics) {
	entries, _ := widgets.ReadDir("widgets")
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	for _, name := range names {
		source, err := widgets.ReadFile("widgets/" + name)
		if err != nil {
			panic(fmt.Sprintf("widget library: %v", err))
		}
		AddTypeFromSource(reg, bd, "builtin:/"+name, string(source))
	}
}

func addIncludePaths(reg *typeregister.TypeRegister, bd *diag.BuildDiagnostics, paths []string, mainFile string) error {
	var errs []error
	for _, path := range paths {
		if !filepath.IsAbs(path) {
			path = filepath.Join(filepath.Dir(mainFile), path)
		}
		if err := AddFromDirectory(reg, bd, path); err != nil {
			errs = append(errs, fmt.Errorf("cannot load include path: %w", err))
		}
	}
	return errutil.Multi(errs...)
}

func unwrapMulti(err error) []error {
	if err == nil {
		return nil
	}
	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		return multi.Unwrap()
	}
	return []error{err}
}
