// Package pysource gives a read-only, syntactic view over Python source files.
//
// Parsing is done with tree-sitter: it is error tolerant, so a module with a
// syntax error still exposes everything that could be parsed around it.
package pysource

import (
	"bytes"
	"context"
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Module is a parsed Python source file.
type Module struct {
	// Path is the file the module was read from. Informational only.
	Path string

	source []byte
	root   *sitter.Node
}

// SyntaxError describes the first syntax error found in a module.
type SyntaxError struct {
	File    string
	Line    int
	Column  int
	Message string
}

func (err SyntaxError) Error() string {
	if err.File == "" {
		return fmt.Sprintf("%s (line %d)", err.Message, err.Line)
	}

	return fmt.Sprintf("%s (%s, line %d)", err.Message, err.File, err.Line)
}

// Parse parses the given Python source.
// A source with syntax errors is not an error for Parse: see Module.SyntaxError.
func Parse(ctx context.Context, path string, source []byte) (*Module, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("could not parse %s: %w", path, err)
	}

	return &Module{
		Path:   path,
		source: source,
		root:   tree.RootNode(),
	}, nil
}

// ParseFile reads and parses the given Python file.
func ParseFile(ctx context.Context, path string) (*Module, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(ctx, path, source)
}

// SyntaxError returns the first syntax error of the module, or nil.
//
// Besides the nodes tree-sitter could not parse, Python 2 constructs the
// grammar still accepts are reported: print and exec statements, `except X, e`
// clauses, the `<>` operator and backtick repr.
func (module *Module) SyntaxError() *SyntaxError {
	var found *SyntaxError

	walk(module.root, func(node *sitter.Node) bool {
		if found != nil {
			return false
		}

		found = module.nodeSyntaxError(node)

		return found == nil
	})

	if found == nil && module.root.HasError() {
		// HasError() was true but no ERROR/MISSING node was reachable: report at the root.
		found = module.syntaxError(module.root, "invalid syntax")
	}

	if backtick := module.backtickSyntaxError(); backtick != nil {
		if found == nil || backtick.Line < found.Line {
			found = backtick
		}
	}

	return found
}

func (module *Module) nodeSyntaxError(node *sitter.Node) *SyntaxError {
	switch {
	case node.IsMissing():
		return module.syntaxError(node, fmt.Sprintf("expected '%s'", node.Type()))
	case node.Type() == "ERROR":
		return module.syntaxError(node, "invalid syntax")
	case node.Type() == "print_statement":
		return module.syntaxError(node, "Missing parentheses in call to 'print'")
	case node.Type() == "exec_statement":
		return module.syntaxError(node, "Missing parentheses in call to 'exec'")
	case node.Type() == "<>" && !node.IsNamed():
		return module.syntaxError(node, "invalid syntax")
	case node.Type() == "except_clause" && hasToken(node, ","):
		return module.syntaxError(node, "multiple exception types must be parenthesized")
	}

	return nil
}

// backtickSyntaxError reports the first backtick found outside of strings
// and comments.
func (module *Module) backtickSyntaxError() *SyntaxError {
	offset := bytes.IndexByte(module.source, '`')
	if offset < 0 {
		return nil
	}

	var literals [][2]uint32

	walk(module.root, func(node *sitter.Node) bool {
		switch node.Type() {
		case "string", "comment":
			literals = append(literals, [2]uint32{node.StartByte(), node.EndByte()})
			return false
		}

		return true
	})

	for ; offset < len(module.source); offset++ {
		if module.source[offset] != '`' || insideAny(uint32(offset), literals) {
			continue
		}

		return &SyntaxError{
			File:    module.Path,
			Line:    bytes.Count(module.source[:offset], []byte("\n")) + 1,
			Column:  offset - bytes.LastIndexByte(module.source[:offset], '\n'),
			Message: "invalid syntax",
		}
	}

	return nil
}

func insideAny(offset uint32, ranges [][2]uint32) bool {
	for _, r := range ranges {
		if offset >= r[0] && offset < r[1] {
			return true
		}
	}

	return false
}

func hasToken(node *sitter.Node, token string) bool {
	for i := range int(node.ChildCount()) {
		child := node.Child(i)
		if !child.IsNamed() && child.Type() == token {
			return true
		}
	}

	return false
}

func (module *Module) syntaxError(node *sitter.Node, message string) *SyntaxError {
	position := node.StartPoint()

	return &SyntaxError{
		File:    module.Path,
		Line:    int(position.Row) + 1,
		Column:  int(position.Column) + 1,
		Message: message,
	}
}

func (module *Module) text(node *sitter.Node) string {
	if node == nil {
		return ""
	}

	return node.Content(module.source)
}

// walk visits the tree depth-first. Children of a node are visited only when
// visit returns true.
func walk(node *sitter.Node, visit func(node *sitter.Node) bool) {
	if node == nil || !visit(node) {
		return
	}

	for i := range int(node.ChildCount()) {
		walk(node.Child(i), visit)
	}
}

func namedChildren(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}

	children := make([]*sitter.Node, 0, node.NamedChildCount())
	for i := range int(node.NamedChildCount()) {
		children = append(children, node.NamedChild(i))
	}

	return children
}

func line(node *sitter.Node) int {
	return int(node.StartPoint().Row) + 1
}
