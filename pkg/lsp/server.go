package lsp

import (
	"context"
	"encoding/json"
	"net/url"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"

	"github.com/patrickelectric/sixtyfps/pkg/compiler"
	"github.com/patrickelectric/sixtyfps/pkg/diag"
	"github.com/patrickelectric/sixtyfps/pkg/objtree"
	"github.com/patrickelectric/sixtyfps/pkg/typeregister"
)

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
)

type server struct {
	cfg     *compiler.Configuration
	content map[lsp.DocumentURI]string
}

func newServer(cfg *compiler.Configuration) *server {
	return &server{cfg, make(map[lsp.DocumentURI]string)}
}

func handler(s *server) jsonrpc2.Handler {
	return routingHandler(map[string]method{
		"initialize":              s.initialize,
		"textDocument/didOpen":    s.didOpen,
		"textDocument/didChange":  s.didChange,
		"textDocument/didClose":   s.didClose,
		"textDocument/hover":      s.hover,
		"textDocument/completion": s.completion,

		// Required by the protocol.
		"initialized": noop,
		"shutdown":    noop,
		// Called by clients even when server doesn't advertise support:
		// https://microsoft.github.io/language-server-protocol/specification#workspace_didChangeWatchedFiles
		"workspace/didChangeWatchedFiles": noop,
	})
}

type method func(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (any, error)

func noop(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return nil, nil
}

func routingHandler(methods map[string]method) jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		fn, ok := methods[req.Method]
		if !ok {
			return nil, errMethodNotFound
		}
		logger.Println("request", req.Method)
		var params json.RawMessage
		if req.Params != nil {
			params = *req.Params
		}
		return fn(ctx, conn, params)
	})
}

// Handler implementations. These are all called synchronously.

func (s *server) initialize(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return &lsp.InitializeResult{
		Capabilities: lsp.ServerCapabilities{
			TextDocumentSync: &lsp.TextDocumentSyncOptionsOrKind{
				Options: &lsp.TextDocumentSyncOptions{
					OpenClose: true,
					Change:    lsp.TDSKFull,
				},
			},
			HoverProvider:      true,
			CompletionProvider: &lsp.CompletionOptions{},
		},
	}, nil
}

func (s *server) didOpen(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidOpenTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	uri, content := params.TextDocument.URI, params.TextDocument.Text
	s.content[uri] = content
	go s.publishDiagnostics(ctx, conn, uri, content)
	return nil, nil
}

func (s *server) didChange(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidChangeTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil || len(params.ContentChanges) == 0 {
		return nil, errInvalidParams
	}

	// ContentChanges includes full text since the server is only advertised to
	// support that; see the initialize method.
	uri, content := params.TextDocument.URI, params.ContentChanges[0].Text
	s.content[uri] = content
	go s.publishDiagnostics(ctx, conn, uri, content)
	return nil, nil
}

func (s *server) didClose(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidCloseTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	delete(s.content, params.TextDocument.URI)
	return nil, nil
}

// hover shows the properties of the element type under the cursor.
func (s *server) hover(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.TextDocumentPositionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	content := s.content[params.TextDocument.URI]
	from, to := wordAt(content, lspPositionToIdx(content, params.Position))
	if from == to {
		return lsp.Hover{}, nil
	}
	doc, _ := s.compile(params.TextDocument.URI, content)
	if doc == nil || doc.LocalRegistry == nil {
		return lsp.Hover{}, nil
	}
	t := doc.LocalRegistry.LookupType(content[from:to])
	props := elementProperties(t)
	if props == nil {
		return lsp.Hover{}, nil
	}

	var sb strings.Builder
	sb.WriteString(t.String())
	for _, name := range sortedNames(props) {
		sb.WriteString("\n" + name + ": " + props[name].String())
	}
	rg := lsp.Range{
		Start: lspPositionFromIdx(content, from),
		End:   lspPositionFromIdx(content, to),
	}
	return lsp.Hover{
		Contents: []lsp.MarkedString{{Language: "text", Value: sb.String()}},
		Range:    &rg,
	}, nil
}

func elementProperties(t typeregister.Type) map[string]typeregister.Type {
	switch t.Kind {
	case typeregister.Builtin:
		return t.Builtin.Properties
	case typeregister.Component:
		if c, ok := t.Component.(*objtree.Component); ok {
			return c.PublicProperties()
		}
	}
	return nil
}

func sortedNames(m map[string]typeregister.Type) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// completion offers the element types visible from the document.
func (s *server) completion(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.CompletionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	content := s.content[params.TextDocument.URI]
	dot := lspPositionToIdx(content, params.Position)
	from, _ := wordAt(content, dot)
	prefix := content[from:dot]
	doc, _ := s.compile(params.TextDocument.URI, content)
	if doc == nil || doc.LocalRegistry == nil {
		return []lsp.CompletionItem{}, nil
	}

	replace := lsp.Range{
		Start: lspPositionFromIdx(content, from),
		End:   lspPositionFromIdx(content, dot),
	}
	items := []lsp.CompletionItem{}
	for _, name := range doc.LocalRegistry.Names() {
		t := doc.LocalRegistry.LookupType(name)
		if !t.IsElement() || !strings.HasPrefix(name, prefix) {
			continue
		}
		kind := lsp.CIKClass
		if t.Kind == typeregister.Builtin {
			kind = lsp.CIKStruct
		}
		items = append(items, lsp.CompletionItem{
			Label: name,
			Kind:  kind,
			TextEdit: &lsp.TextEdit{
				Range:   replace,
				NewText: name,
			},
		})
	}
	return items, nil
}

func (s *server) compile(uri lsp.DocumentURI, content string) (*objtree.Document, *diag.BuildDiagnostics) {
	// The configuration is shared by concurrent compilations and must not
	// be modified.
	return compiler.CompileSource(uriToPath(uri), content, s.cfg)
}

func (s *server) publishDiagnostics(ctx context.Context, conn jsonrpc2.JSONRPC2, uri lsp.DocumentURI, content string) {
	conn.Notify(ctx, "textDocument/publishDiagnostics",
		lsp.PublishDiagnosticsParams{URI: uri, Diagnostics: s.diagnostics(uri, content)})
}

// diagnostics compiles a document and converts the diagnostics of the
// document itself. Diagnostics in included files are not reported.
func (s *server) diagnostics(uri lsp.DocumentURI, content string) []lsp.Diagnostic {
	_, bd := s.compile(uri, content)
	path := uriToPath(uri)
	diags := []lsp.Diagnostic{}
	for _, fd := range bd.Files() {
		if fd.File == nil || fd.File.Name != path {
			continue
		}
		for _, d := range fd.Inner {
			severity := lsp.Error
			if d.Severity == diag.SeverityWarning {
				severity = lsp.Warning
			}
			diags = append(diags, lsp.Diagnostic{
				Range:    lspRangeFromRange(content, d.Context.Ranging),
				Severity: severity,
				Source:   "sixtyfps",
				Message:  d.Message,
			})
		}
	}
	return diags
}

func uriToPath(uri lsp.DocumentURI) string {
	u, err := url.Parse(string(uri))
	if err != nil || u.Scheme != "file" {
		return string(uri)
	}
	return u.Path
}

// wordAt returns the span of the identifier around idx.
func wordAt(s string, idx int) (from, to int) {
	from, to = idx, idx
	for from > 0 && isIdent(s[from-1]) {
		from--
	}
	for to < len(s) && isIdent(s[to]) {
		to++
	}
	return from, to
}

func isIdent(b byte) bool {
	return b == '_' || b < utf8.RuneSelf && (unicode.IsLetter(rune(b)) || unicode.IsDigit(rune(b)))
}

func lspRangeFromRange(s string, r diag.Ranger) lsp.Range {
	rg := r.Range()
	if rg.From < 0 {
		// Generated code.
		return lsp.Range{}
	}
	return lsp.Range{
		Start: lspPositionFromIdx(s, rg.From),
		End:   lspPositionFromIdx(s, rg.To),
	}
}

func lspPositionToIdx(s string, pos lsp.Position) int {
	var idx int
	walkString(s, func(i int, p lsp.Position) bool {
		idx = i
		return p.Line < pos.Line || (p.Line == pos.Line && p.Character < pos.Character)
	})
	return idx
}

func lspPositionFromIdx(s string, idx int) lsp.Position {
	var pos lsp.Position
	walkString(s, func(i int, p lsp.Position) bool {
		pos = p
		return i < idx
	})
	return pos
}

// Generates (index, lspPosition) pairs in s, stopping if f returns false.
func walkString(s string, f func(i int, p lsp.Position) bool) {
	var p lsp.Position
	lastCR := false

	for i, r := range s {
		if !f(i, p) {
			return
		}
		switch {
		case r == '\r':
			p.Line++
			p.Character = 0
		case r == '\n':
			if lastCR {
				// Ignore \n if it's part of a \r\n sequence
			} else {
				p.Line++
				p.Character = 0
			}
		case r <= 0xFFFF:
			// Encoded in UTF-16 with one unit
			p.Character++
		default:
			// Encoded in UTF-16 with two units
			p.Character += 2
		}
		lastCR = r == '\r'
	}
	f(len(s), p)
}
