// Package parser provides tree-sitter-based Java source parsing for the
// documentation engine. A parsed File exposes the declarations that can carry
// Javadoc and supports attaching comment text by byte splice, so that printing
// reproduces every byte of the original input outside the spliced regions.
package parser

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
)

// Node type names in the tree-sitter Java grammar.
const (
	nodeClass        = "class_declaration"
	nodeInterface    = "interface_declaration"
	nodeMethod       = "method_declaration"
	nodeImport       = "import_declaration"
	nodeModifiers    = "modifiers"
	nodeBlockComment = "block_comment"
	nodeLineComment  = "line_comment"
	nodeError        = "ERROR"
)

// Kind distinguishes the documentable declaration kinds.
type Kind int

const (
	KindType Kind = iota
	KindMethod
)

// String returns the kind name for logging.
func (k Kind) String() string {
	if k == KindType {
		return "type"
	}
	return "method"
}

// Declaration is a documentable unit found in a source file: the top-level
// class or interface, or a method.
type Declaration struct {
	Kind      Kind
	Name      string
	Qualified string
	Public    bool
	Interface bool
	HasDoc    bool
	StartLine int // 1-based
	StartCol  int // 0-based byte column within the line
	EndLine   int
	Text      string

	startByte uint32
}

// ParseError reports syntactically invalid input.
type ParseError struct {
	Path string
	Line int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: syntax error at line %d", e.Path, e.Line)
}

// Parser wraps a tree-sitter parser configured for Java.
type Parser struct {
	inner *sitter.Parser
}

// NewParser creates a new Parser instance.
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(java.GetLanguage())
	return &Parser{inner: p}
}

// ParseFile reads and parses the file at path.
func (p *Parser) ParseFile(path string) (*File, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return p.Parse(path, source)
}

// Parse parses Java source. Input whose tree contains syntax errors yields a
// *ParseError.
func (p *Parser) Parse(path string, source []byte) (*File, error) {
	tree, err := p.inner.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	root := tree.RootNode()
	if root.HasError() {
		line := firstErrorLine(root)
		tree.Close()
		return nil, &ParseError{Path: path, Line: line}
	}

	return &File{
		Path:   path,
		source: source,
		tree:   tree,
	}, nil
}

// firstErrorLine locates the first error or missing node for diagnostics.
func firstErrorLine(root *sitter.Node) int {
	line := int(root.StartPoint().Row) + 1
	found := false
	walk(root, func(n *sitter.Node) {
		if found {
			return
		}
		if n.Type() == nodeError || n.IsMissing() {
			line = int(n.StartPoint().Row) + 1
			found = true
		}
	})
	return line
}

// File is a parsed source file. It keeps the original raw bytes for
// format-faithful printing, the syntax tree, a lazily-built line table used
// for indentation lookups, and the comment insertions recorded so far. A File
// is owned by the processing of a single batch step and discarded afterwards.
type File struct {
	Path string

	source  []byte
	tree    *sitter.Tree
	lines   []string
	inserts []insert
}

type insert struct {
	offset uint32
	text   string
}

// Close releases the underlying tree-sitter tree.
func (f *File) Close() {
	if f.tree != nil {
		f.tree.Close()
		f.tree = nil
	}
}

// Source returns the original raw bytes of the file.
func (f *File) Source() []byte {
	return f.source
}

// Changed reports whether any insertion has been recorded.
func (f *File) Changed() bool {
	return len(f.inserts) > 0
}

// Print reproduces the original input with all recorded insertions spliced in
// at their offsets. With no insertions the output is byte-identical to the
// source.
func (f *File) Print() []byte {
	if len(f.inserts) == 0 {
		return f.source
	}

	ins := make([]insert, len(f.inserts))
	copy(ins, f.inserts)
	sort.SliceStable(ins, func(i, j int) bool { return ins[i].offset < ins[j].offset })

	var out []byte
	var pos uint32
	for _, in := range ins {
		out = append(out, f.source[pos:in.offset]...)
		out = append(out, in.text...)
		pos = in.offset
	}
	out = append(out, f.source[pos:]...)
	return out
}

// Line returns the content of the given 1-based line, without its terminator.
// The line table is built once per File and never shared across files.
func (f *File) Line(n int) string {
	if f.lines == nil {
		f.lines = strings.Split(string(f.source), "\n")
	}
	if n < 1 || n > len(f.lines) {
		return ""
	}
	return strings.TrimSuffix(f.lines[n-1], "\r")
}

// InsertBefore records an insertion of text at the start of the line on which
// the declaration begins. The text must carry its own trailing newline so the
// declaration line itself stays untouched. Only in-memory state changes; no
// file I/O happens here.
func (f *File) InsertBefore(decl Declaration, text string) {
	lineStart := decl.startByte - uint32(decl.StartCol)
	f.inserts = append(f.inserts, insert{offset: lineStart, text: text})
}

// TopLevelType returns the first top-level class or interface declaration.
// The second return is false when the file declares none.
func (f *File) TopLevelType() (Declaration, bool) {
	root := f.tree.RootNode()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		t := child.Type()
		if t == nodeClass || t == nodeInterface {
			return f.declarationFrom(child, KindType, ""), true
		}
	}
	return Declaration{}, false
}

// Methods returns every method declaration in the file in tree order,
// including methods of nested types.
func (f *File) Methods() []Declaration {
	top, ok := f.TopLevelType()
	owner := ""
	if ok {
		owner = top.Name
	}

	var methods []Declaration
	walk(f.tree.RootNode(), func(n *sitter.Node) {
		if n.Type() == nodeMethod {
			methods = append(methods, f.declarationFrom(n, KindMethod, owner))
		}
	})
	return methods
}

// ContextWithoutImports concatenates every top-level child of the file except
// import declarations. This gives the generator the package clause, the type
// and its body for context while leaving out import clutter.
func (f *File) ContextWithoutImports() string {
	root := f.tree.RootNode()
	var parts []string
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() == nodeImport {
			continue
		}
		parts = append(parts, child.Content(f.source))
	}
	return strings.Join(parts, "\n")
}

func (f *File) declarationFrom(n *sitter.Node, kind Kind, owner string) Declaration {
	name := ""
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		name = nameNode.Content(f.source)
	}

	qualified := name
	if kind == KindMethod && owner != "" {
		qualified = owner + "." + name
	}

	return Declaration{
		Kind:      kind,
		Name:      name,
		Qualified: qualified,
		Public:    isPublic(n, f.source),
		Interface: n.Type() == nodeInterface,
		HasDoc:    hasDocComment(n),
		StartLine: int(n.StartPoint().Row) + 1,
		StartCol:  int(n.StartPoint().Column),
		EndLine:   int(n.EndPoint().Row) + 1,
		Text:      n.Content(f.source),
		startByte: n.StartByte(),
	}
}

// isPublic checks the declaration's modifiers node for the public keyword.
// Declarations without modifiers are package-private.
func isPublic(n *sitter.Node, source []byte) bool {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() != nodeModifiers {
			continue
		}
		for _, word := range strings.Fields(child.Content(source)) {
			if word == "public" {
				return true
			}
		}
		return false
	}
	return false
}

// hasDocComment reports whether a comment is attached immediately above the
// declaration. Tree-sitter keeps comments as sibling nodes, so the check is:
// the previous named sibling is a comment ending no more than one line above
// the declaration's first line. This flag is authoritative at scan time; a
// documented declaration is never re-documented.
func hasDocComment(n *sitter.Node) bool {
	prev := n.PrevNamedSibling()
	if prev == nil {
		return false
	}
	t := prev.Type()
	if t != nodeBlockComment && t != nodeLineComment {
		return false
	}
	gap := int(n.StartPoint().Row) - int(prev.EndPoint().Row)
	return gap >= 0 && gap <= 1
}

// walk performs a depth-first traversal of the syntax tree, calling fn for
// each node.
func walk(node *sitter.Node, fn func(*sitter.Node)) {
	if node == nil {
		return
	}
	fn(node)
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child != nil {
			walk(child, fn)
		}
	}
}
