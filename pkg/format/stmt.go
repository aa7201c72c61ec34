package format

import (
	"errors"

	"github.com/ninjasql/ninjasql/pkg/sqlexpr"
)

func (p *Printer) formatSelect(s *sqlexpr.Select) {
	if s == nil {
		p.fail(errors.New("nil select"))
		return
	}

	p.keyword("SELECT")
	p.writeln()

	p.indent()
	p.formatList(len(s.Columns), func(i int) { p.formatExpr(s.Columns[i]) }, ",", true)
	p.writeln()
	p.dedent()

	if s.From != "" {
		p.keyword("FROM")
		p.space()
		p.write(p.dialect.QuoteQualified(s.From))
		p.writeln()
	}

	for _, j := range s.Joins {
		p.keyword("JOIN")
		p.space()
		p.write(p.dialect.QuoteQualified(j.Table))
		p.space()
		p.keyword("ON")
		p.space()
		p.formatExpr(sqlexpr.Simplify(j.On))
		p.writeln()
	}

	p.formatWhere(s.Where)

	if len(s.GroupBy) > 0 {
		p.keyword("GROUP BY")
		p.writeln()
		p.indent()
		p.formatList(len(s.GroupBy), func(i int) { p.formatExpr(s.GroupBy[i]) }, ",", true)
		p.writeln()
		p.dedent()
	}

	if s.Having != nil {
		p.keyword("HAVING")
		p.writeln()
		p.indent()
		p.formatExpr(s.Having)
		p.writeln()
		p.dedent()
	}
}

// formatWhere prints a WHERE clause with one conjunct per line.
func (p *Printer) formatWhere(where sqlexpr.Expr) {
	if where == nil {
		return
	}

	conjuncts := []sqlexpr.Expr{where}
	if and, ok := where.(sqlexpr.And); ok && len(and.Items) > 0 {
		conjuncts = and.Items
	}

	p.keyword("WHERE")
	p.writeln()
	p.indent()
	for i, c := range conjuncts {
		if i > 0 {
			p.keyword("AND")
			p.space()
		}
		p.formatOperand(sqlexpr.Simplify(c))
		p.writeln()
	}
	p.dedent()
}

func (p *Printer) formatInsert(s *sqlexpr.Insert) {
	if (s.Query == nil) == (s.Values == nil) {
		p.fail(errors.New("insert needs exactly one of a query or a values row"))
		return
	}

	p.keyword("INSERT INTO")
	p.space()
	p.write(p.dialect.QuoteQualified(s.Table))
	if len(s.Columns) > 0 {
		p.write(" (")
		p.writeln()
		p.indent()
		p.formatList(len(s.Columns), func(i int) {
			p.write(p.dialect.QuoteIdentifierIfNeeded(s.Columns[i]))
		}, ",", true)
		p.writeln()
		p.dedent()
		p.write(")")
	}
	p.writeln()

	if s.Query != nil {
		p.formatSelect(s.Query)
		return
	}

	p.keyword("VALUES")
	p.write(" (")
	p.writeln()
	p.indent()
	p.formatList(len(s.Values), func(i int) { p.formatExpr(s.Values[i]) }, ",", true)
	p.writeln()
	p.dedent()
	p.write(")")
	p.writeln()
}

func (p *Printer) formatUpdate(s *sqlexpr.Update) {
	if len(s.Set) == 0 {
		p.fail(errors.New("update without assignments"))
		return
	}

	p.keyword("UPDATE")
	p.space()
	p.write(p.dialect.QuoteQualified(s.Table))
	p.writeln()

	p.keyword("SET")
	p.writeln()
	p.indent()
	p.formatList(len(s.Set), func(i int) {
		p.write(p.dialect.QuoteIdentifierIfNeeded(s.Set[i].Column))
		p.write(" = ")
		p.formatExpr(s.Set[i].Value)
	}, ",", true)
	p.writeln()
	p.dedent()

	p.formatWhere(s.Where)
}

func (p *Printer) formatDelete(s *sqlexpr.Delete) {
	p.keyword("DELETE FROM")
	p.space()
	p.write(p.dialect.QuoteQualified(s.Table))
	p.writeln()
	p.formatWhere(s.Where)
}

func (p *Printer) formatCreateTable(s *sqlexpr.CreateTable) {
	if len(s.Columns) == 0 {
		p.fail(errors.New("create table without columns"))
		return
	}

	p.keyword("CREATE TABLE")
	p.space()
	if s.IfNotExists {
		p.keyword("IF NOT EXISTS")
		p.space()
	}
	p.write(p.dialect.QuoteQualified(s.Table))
	p.write(" (")
	p.writeln()

	p.indent()
	p.formatList(len(s.Columns), func(i int) {
		c := s.Columns[i]
		p.write(p.dialect.QuoteIdentifierIfNeeded(c.Name))
		p.space()
		p.write(p.dialect.TypeName(c.Type))
		if c.NotNull {
			p.space()
			p.keyword("NOT NULL")
		}
		if c.Default != nil {
			p.space()
			p.keyword("DEFAULT")
			p.space()
			p.formatExpr(c.Default)
		}
	}, ",", true)

	if len(s.PrimaryKey) > 0 {
		p.write(",")
		p.writeln()
		p.keyword("PRIMARY KEY")
		p.write(" (")
		p.formatList(len(s.PrimaryKey), func(i int) {
			p.write(p.dialect.QuoteIdentifierIfNeeded(s.PrimaryKey[i]))
		}, ",", false)
		p.write(")")
	}
	p.writeln()
	p.dedent()
	p.write(")")
	p.writeln()
}
