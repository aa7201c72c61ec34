// Package template binds the placeholders of generated SQL. It understands
// {{ expr }} expressions and {* stmt *} control flow (for, if/elif/else);
// expressions are Starlark, evaluated against the dates of a batch run.
package template

import "fmt"

// Position tracks source location for error reporting.
type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Node is a template AST node.
type Node interface {
	Pos() Position
	node()
}

type nodeBase struct {
	pos Position
}

func (n *nodeBase) Pos() Position { return n.pos }
func (n *nodeBase) node()         {}

// TextNode is literal SQL text.
type TextNode struct {
	nodeBase
	Text string
}

// ExprNode is a {{ expr }} expression without its delimiters.
type ExprNode struct {
	nodeBase
	Expr string
}

// ForBlock is {* for v in expr: *} ... {* endfor *}.
type ForBlock struct {
	nodeBase
	VarName  string
	IterExpr string
	Body     []Node
}

// IfBlock is {* if cond: *} ... [{* elif cond: *} ...] [{* else: *} ...] {* endif *}.
type IfBlock struct {
	nodeBase
	Branches []Branch
	Else     []Node
}

// Branch is one conditional arm of an IfBlock.
type Branch struct {
	Condition string
	Body      []Node
}

// Template is a parsed template.
type Template struct {
	File  string
	Nodes []Node
}

// Expressions returns every {{ }} expression in document order, including
// those nested in blocks.
func (t *Template) Expressions() []string {
	var out []string
	var walk func(nodes []Node)
	walk = func(nodes []Node) {
		for _, n := range nodes {
			switch n := n.(type) {
			case *ExprNode:
				out = append(out, n.Expr)
			case *ForBlock:
				walk(n.Body)
			case *IfBlock:
				for _, b := range n.Branches {
					walk(b.Body)
				}
				walk(n.Else)
			}
		}
	}
	walk(t.Nodes)
	return out
}
