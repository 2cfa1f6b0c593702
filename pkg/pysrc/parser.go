// Package pysrc parses Python source into tree-sitter syntax trees.
//
// Python is the only language the pipeline parses structurally; every other
// language is scanned as raw text. Parse failures are soft by contract:
// callers skip the file and continue.
package pysrc

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alexaandru/go-sitter-forest/python"
	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/codearcheology/archeo/pkg/safeconv"
)

// Extension is the file extension handled by this parser.
const Extension = ".py"

// Sentinel errors for parse operations.
var (
	ErrNoRootNode = errors.New("pysrc: no root node")
	ErrSyntax     = errors.New("pysrc: source has syntax errors")
	errPoolType   = errors.New("pysrc: pool returned unexpected type")
)

// Grammar node types the analyzers dispatch on.
const (
	NodeIf         = "if_statement"
	NodeElif       = "elif_clause"
	NodeWhile      = "while_statement"
	NodeFor        = "for_statement"
	NodeExcept     = "except_clause"
	NodeBoolOp     = "boolean_operator"
	NodeFunction   = "function_definition"
	nodeParseError = "ERROR"
)

// Parser parses Python files. It keeps a pool of tree-sitter parsers so
// concurrent hosts can share one Parser across runs.
type Parser struct {
	pool sync.Pool
}

// NewParser creates a Parser backed by the tree-sitter Python grammar.
func NewParser() *Parser {
	lang := sitter.NewLanguage(python.GetLanguage())

	return &Parser{
		pool: sync.Pool{
			New: func() any {
				tsParser := sitter.NewParser()
				tsParser.SetLanguage(lang)

				return tsParser
			},
		},
	}
}

// Parse parses content into a syntax tree. A tree whose root contains error
// nodes returns ErrSyntax, mirroring a parser that rejects invalid source.
// The returned Tree must be closed by the caller.
func (p *Parser) Parse(ctx context.Context, content []byte) (*Tree, error) {
	tsParser, ok := p.pool.Get().(*sitter.Parser)
	if !ok {
		return nil, errPoolType
	}

	defer p.pool.Put(tsParser)

	tsTree, err := tsParser.ParseString(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("pysrc: parse: %w", err)
	}

	root := tsTree.RootNode()
	if root.IsNull() {
		tsTree.Close()

		return nil, ErrNoRootNode
	}

	tree := &Tree{tree: tsTree, root: root, source: content}

	if tree.hasSyntaxError() {
		tree.Close()

		return nil, ErrSyntax
	}

	return tree, nil
}

// Tree is a parsed Python file. Close releases the underlying tree-sitter
// allocation; the Tree must not be used afterwards.
type Tree struct {
	tree   *sitter.Tree
	root   sitter.Node
	source []byte
}

// Root returns the module-level root node.
func (t *Tree) Root() sitter.Node {
	return t.root
}

// Close releases the tree-sitter tree.
func (t *Tree) Close() {
	if t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}

// Text returns the source text spanned by n.
func (t *Tree) Text(n sitter.Node) string {
	start := n.StartByte()
	end := n.EndByte()

	if safeconv.MustUintToInt(end) > len(t.source) || start > end {
		return ""
	}

	return string(t.source[start:end])
}

func (t *Tree) hasSyntaxError() bool {
	found := false

	Walk(t.root, func(n sitter.Node) {
		if n.Type() == nodeParseError {
			found = true
		}
	})

	return found
}

// Walk visits every named node reachable from n in depth-first order,
// parents before children. Nested constructs are always reached.
func Walk(n sitter.Node, visit func(sitter.Node)) {
	visit(n)

	for idx := range n.NamedChildCount() {
		Walk(n.NamedChild(idx), visit)
	}
}

// FunctionName returns the declared name of a function_definition node,
// or "" when the name field is absent.
func (t *Tree) FunctionName(n sitter.Node) string {
	if n.Type() != NodeFunction {
		return ""
	}

	nameNode := n.ChildByFieldName("name")
	if nameNode.IsNull() {
		return ""
	}

	return t.Text(nameNode)
}
