package template

import (
	"strings"

	"go.starlark.net/starlark"

	starctx "github.com/ninjasql/ninjasql/internal/starlark"
)

// maxIterations bounds a single for loop.
const maxIterations = 100000

// Renderer evaluates a parsed template.
type Renderer struct {
	ctx *starctx.ExecutionContext
}

// NewRenderer creates a renderer for an execution context.
func NewRenderer(ctx *starctx.ExecutionContext) *Renderer {
	return &Renderer{ctx: ctx}
}

// Render renders a parsed template.
func (r *Renderer) Render(tmpl *Template) (string, error) {
	var sb strings.Builder
	if err := r.renderNodes(&sb, tmpl.File, tmpl.Nodes, nil); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// RenderString parses and renders input in one step.
func RenderString(input, file string, ctx *starctx.ExecutionContext) (string, error) {
	tmpl, err := Parse(input, file)
	if err != nil {
		return "", err
	}
	return NewRenderer(ctx).Render(tmpl)
}

func (r *Renderer) renderNodes(sb *strings.Builder, file string, nodes []Node, locals starlark.StringDict) error {
	for _, n := range nodes {
		if err := r.renderNode(sb, file, n, locals); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderNode(sb *strings.Builder, file string, n Node, locals starlark.StringDict) error {
	switch n := n.(type) {
	case *TextNode:
		sb.WriteString(n.Text)
		return nil

	case *ExprNode:
		s, err := r.ctx.EvalExprStringWithLocals(n.Expr, file, n.Pos().Line, locals)
		if err != nil {
			return WrapRenderError(n.Pos(), "expression failed", err)
		}
		sb.WriteString(s)
		return nil

	case *ForBlock:
		v, err := r.ctx.EvalExprWithLocals(n.IterExpr, file, n.Pos().Line, locals)
		if err != nil {
			return WrapRenderError(n.Pos(), "for iterator failed", err)
		}
		iterable, ok := v.(starlark.Iterable)
		if !ok {
			return WrapRenderError(n.Pos(), "for iterator is not iterable: "+v.Type(), nil)
		}
		it := iterable.Iterate()
		defer it.Done()

		inner := make(starlark.StringDict, len(locals)+1)
		for k, v := range locals {
			inner[k] = v
		}
		var item starlark.Value
		for i := 0; it.Next(&item); i++ {
			if i >= maxIterations {
				return WrapRenderError(n.Pos(), "for loop exceeds the iteration limit", nil)
			}
			inner[n.VarName] = item
			if err := r.renderNodes(sb, file, n.Body, inner); err != nil {
				return err
			}
		}
		return nil

	case *IfBlock:
		for _, b := range n.Branches {
			v, err := r.ctx.EvalExprWithLocals(b.Condition, file, n.Pos().Line, locals)
			if err != nil {
				return WrapRenderError(n.Pos(), "if condition failed", err)
			}
			if v.Truth() {
				return r.renderNodes(sb, file, b.Body, locals)
			}
		}
		return r.renderNodes(sb, file, n.Else, locals)
	}
	return nil
}
