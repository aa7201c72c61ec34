package format

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ninjasql/ninjasql/pkg/core"
	"github.com/ninjasql/ninjasql/pkg/sqlexpr"
)

func (p *Printer) formatExpr(e sqlexpr.Expr) {
	switch v := e.(type) {
	case sqlexpr.Column:
		p.formatColumn(v)
	case sqlexpr.Literal:
		p.formatLiteral(v)
	case sqlexpr.Token:
		p.write(p.dialect.QuoteString(v.Placeholder()))
	case sqlexpr.CurrentTimestamp:
		p.write(p.dialect.CurrentTimestamp)
	case sqlexpr.ScalarSubquery:
		p.formatScalarSubquery(v.Query)
	case sqlexpr.Star:
		p.write("*")
	case sqlexpr.Count:
		p.write("COUNT(*)")
	case sqlexpr.Aliased:
		p.formatExpr(v.Expr)
		p.space()
		p.keyword("AS")
		p.space()
		p.write(p.dialect.QuoteIdentifierIfNeeded(v.Alias))
	case sqlexpr.Equals:
		p.formatBinary(v.Left, "=", v.Right)
	case sqlexpr.NotEquals:
		p.formatBinary(v.Left, "<>", v.Right)
	case sqlexpr.LessThan:
		p.formatBinary(v.Left, "<", v.Right)
	case sqlexpr.GreaterThan:
		p.formatBinary(v.Left, ">", v.Right)
	case sqlexpr.Plus:
		p.formatBinary(v.Left, "+", v.Right)
	case sqlexpr.And:
		p.formatJunction(v.Items, "AND", "TRUE")
	case sqlexpr.Or:
		p.formatJunction(v.Items, "OR", "FALSE")
	case sqlexpr.Exists:
		p.keyword("EXISTS")
		p.space()
		p.formatSubquery(v.Query)
	case sqlexpr.NotExists:
		p.keyword("NOT EXISTS")
		p.space()
		p.formatSubquery(v.Query)
	default:
		p.fail(fmt.Errorf("%w: expression %T", ErrUnsupported, e))
	}
}

// formatOperand prints an expression, parenthesizing AND/OR groups.
func (p *Printer) formatOperand(e sqlexpr.Expr) {
	e = sqlexpr.Simplify(e)
	switch v := e.(type) {
	case sqlexpr.And:
		if len(v.Items) > 1 {
			p.write("(")
			p.formatExpr(v)
			p.write(")")
			return
		}
	case sqlexpr.Or:
		if len(v.Items) > 1 {
			p.write("(")
			p.formatExpr(v)
			p.write(")")
			return
		}
	}
	p.formatExpr(e)
}

func (p *Printer) formatBinary(left sqlexpr.Expr, op string, right sqlexpr.Expr) {
	p.formatOperand(left)
	p.write(" " + op + " ")
	p.formatOperand(right)
}

func (p *Printer) formatJunction(items []sqlexpr.Expr, op, empty string) {
	if len(items) == 0 {
		p.keyword(empty)
		return
	}
	for i, it := range items {
		if i > 0 {
			p.space()
			p.keyword(op)
			p.space()
		}
		p.formatOperand(it)
	}
}

func (p *Printer) formatColumn(c sqlexpr.Column) {
	if c.Table != "" {
		p.write(p.dialect.QuoteQualified(c.Table))
		p.write(".")
	}
	p.write(p.dialect.QuoteIdentifierIfNeeded(c.Name))
}

func (p *Printer) formatLiteral(l sqlexpr.Literal) {
	switch v := l.Value.(type) {
	case nil:
		p.keyword("NULL")
	case bool:
		if v {
			p.keyword("TRUE")
		} else {
			p.keyword("FALSE")
		}
	case int:
		p.write(strconv.Itoa(v))
	case int32:
		p.write(strconv.FormatInt(int64(v), 10))
	case int64:
		p.write(strconv.FormatInt(v, 10))
	case float64:
		p.write(strconv.FormatFloat(v, 'f', -1, 64))
	case string:
		if p.binding == core.BindParams {
			p.write(p.bind(v))
			return
		}
		p.write(p.dialect.QuoteString(v))
	case time.Time:
		if p.binding == core.BindParams {
			p.write(p.bind(v))
			return
		}
		p.write(p.dialect.FormatTimestamp(v))
	default:
		p.fail(fmt.Errorf("%w: literal of type %T", ErrUnsupported, l.Value))
	}
}

// formatSubquery prints a parenthesized subquery, spread over several lines
// unless the printer is compact.
func (p *Printer) formatSubquery(q *sqlexpr.Select) {
	if p.compact {
		p.formatScalarSubquery(q)
		return
	}
	p.write("(")
	p.writeln()
	p.indent()
	p.formatSelect(q)
	p.dedent()
	p.write(")")
}

// formatScalarSubquery prints a subquery on a single line.
func (p *Printer) formatScalarSubquery(q *sqlexpr.Select) {
	c := p.child()
	c.formatSelect(q)
	if c.err != nil {
		p.fail(c.err)
		return
	}
	p.write("(" + c.String() + ")")
}
