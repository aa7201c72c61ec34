package sqlexpr

import "time"

// Expr is the interface that all SQL expression types implement.
type Expr interface {
	exprNode()
}

// Column is a column reference, optionally qualified by a table name.
// Table holds the already-qualified table name (db.schema.table); it is quoted
// part by part when rendered.
type Column struct {
	Table string
	Name  string
}

// Col creates a column reference.
func Col(table, name string) Column {
	return Column{Table: table, Name: name}
}

// Literal is a constant value. Supported values are string, int, int64,
// float64, bool, time.Time and nil.
//
// Depending on the binding mode a literal is rendered inline or as a bind
// parameter.
type Literal struct {
	Value any
}

// Lit creates a literal.
func Lit(v any) Literal {
	return Literal{Value: v}
}

// Timestamp creates a timestamp literal.
func Timestamp(t time.Time) Literal {
	return Literal{Value: t}
}

// Token is an unresolved template placeholder such as {{ batch_date }}.
// Tokens are always rendered inline as quoted text so a later templating pass
// can substitute them; they are never bound as parameters.
type Token struct {
	Name string
}

// Tok creates a template placeholder token.
func Tok(name string) Token {
	return Token{Name: name}
}

// Placeholder returns the template text of the token.
func (t Token) Placeholder() string {
	return "{{ " + t.Name + " }}"
}

// CurrentTimestamp is the dialect's "now" expression.
type CurrentTimestamp struct{}

// Now returns the current timestamp expression.
func Now() CurrentTimestamp {
	return CurrentTimestamp{}
}

// ScalarSubquery is a SELECT returning a single value, used as an expression.
type ScalarSubquery struct {
	Query *Select
}

// Subquery wraps a select as a scalar expression.
func Subquery(q *Select) ScalarSubquery {
	return ScalarSubquery{Query: q}
}

// Star is the * select list item.
type Star struct{}

// Aliased gives an expression an output name in a select list.
type Aliased struct {
	Expr  Expr
	Alias string
}

// As aliases an expression.
func As(e Expr, alias string) Aliased {
	return Aliased{Expr: e, Alias: alias}
}

// Count is COUNT(*).
type Count struct{}

func (Column) exprNode()           {}
func (Literal) exprNode()          {}
func (Token) exprNode()            {}
func (CurrentTimestamp) exprNode() {}
func (ScalarSubquery) exprNode()   {}
func (Star) exprNode()             {}
func (Aliased) exprNode()          {}
func (Count) exprNode()            {}
