package sqlexpr

import "github.com/ninjasql/ninjasql/pkg/core"

// Statement is the interface implemented by top-level SQL statements.
type Statement interface {
	statementNode()
}

// Select is a SELECT query.
type Select struct {
	Columns []Expr
	From    string
	Joins   []Join
	Where   Expr
	GroupBy []Expr
	Having  Expr
}

// Join is an inner join against a table.
type Join struct {
	Table string
	On    Expr
}

// Insert is INSERT INTO table (columns) followed by a SELECT or a VALUES row.
// Exactly one of Query and Values is set.
type Insert struct {
	Table   string
	Columns []string
	Query   *Select
	Values  []Expr
}

// Update is UPDATE table SET ... WHERE ...
type Update struct {
	Table string
	Set   []Assignment
	Where Expr
}

// Assignment is one column = value pair of an UPDATE.
type Assignment struct {
	Column string
	Value  Expr
}

// Delete is DELETE FROM table WHERE ...
type Delete struct {
	Table string
	Where Expr
}

// CreateTable is CREATE TABLE [IF NOT EXISTS] table (columns, PRIMARY KEY (...)).
type CreateTable struct {
	Table       string
	IfNotExists bool
	Columns     []ColumnDef
	PrimaryKey  []string
}

// ColumnDef is a column definition of a CREATE TABLE.
type ColumnDef struct {
	Name    string
	Type    core.LogicalType
	NotNull bool
	Default Expr
}

func (*Select) statementNode()      {}
func (*Insert) statementNode()      {}
func (*Update) statementNode()      {}
func (*Delete) statementNode()      {}
func (*CreateTable) statementNode() {}

// SelectOne returns SELECT 1 FROM table WHERE where, the usual body of an
// EXISTS subquery.
func SelectOne(table string, where Expr) *Select {
	return &Select{
		Columns: []Expr{Lit(1)},
		From:    table,
		Where:   where,
	}
}
