package format

import (
	"errors"
	"fmt"

	"github.com/ninjasql/ninjasql/pkg/core"
	"github.com/ninjasql/ninjasql/pkg/dialect"
	"github.com/ninjasql/ninjasql/pkg/sqlexpr"
)

// ErrUnsupported is returned for expression or statement values the renderer
// cannot lower.
var ErrUnsupported = errors.New("unsupported SQL node")

// Options controls rendering.
type Options struct {
	// Binding overrides the dialect's default binding mode when set.
	Binding *core.BindingMode
}

// Rendered is the output of Render: SQL text and the bind arguments its
// placeholders refer to, in placeholder order.
type Rendered struct {
	SQL  string
	Args []any
}

// Inline returns options forcing inline literals.
func Inline() Options {
	m := core.BindInline
	return Options{Binding: &m}
}

// Params returns options forcing bind parameters.
func Params() Options {
	m := core.BindParams
	return Options{Binding: &m}
}

// Render lowers a statement to SQL text for the dialect.
//
// With BindParams, string and timestamp literals become placeholders and are
// returned as Args. Numbers, booleans, NULL and template tokens are always
// rendered inline.
func Render(stmt sqlexpr.Statement, d *dialect.Dialect, opts Options) (Rendered, error) {
	if d == nil {
		return Rendered{}, dialect.ErrDialectRequired
	}
	binding := d.Binding
	if opts.Binding != nil {
		binding = *opts.Binding
	}

	p := newPrinter(d, binding)
	p.formatStatement(stmt)
	if p.err != nil {
		return Rendered{}, p.err
	}
	return Rendered{SQL: p.String(), Args: *p.args}, nil
}

// SQL renders a statement with inline literals.
func SQL(stmt sqlexpr.Statement, d *dialect.Dialect) (string, error) {
	r, err := Render(stmt, d, Inline())
	if err != nil {
		return "", err
	}
	return r.SQL, nil
}

// Expr renders a single expression on one line with inline literals.
func Expr(e sqlexpr.Expr, d *dialect.Dialect) (string, error) {
	if d == nil {
		return "", dialect.ErrDialectRequired
	}
	p := newPrinter(d, core.BindInline).child()
	p.formatExpr(e)
	if p.err != nil {
		return "", p.err
	}
	return p.String(), nil
}

func (p *Printer) formatStatement(stmt sqlexpr.Statement) {
	switch s := stmt.(type) {
	case *sqlexpr.Select:
		p.formatSelect(s)
	case *sqlexpr.Insert:
		p.formatInsert(s)
	case *sqlexpr.Update:
		p.formatUpdate(s)
	case *sqlexpr.Delete:
		p.formatDelete(s)
	case *sqlexpr.CreateTable:
		p.formatCreateTable(s)
	default:
		p.fail(fmt.Errorf("%w: statement %T", ErrUnsupported, stmt))
	}
}
