package scd2

import (
	"slices"

	"github.com/ninjasql/ninjasql/pkg/sqlexpr"
)

// Technical columns maintained on every history table.
const (
	ColUpdatedAt     = "UPDATED_AT"
	ColBatchRunAt    = "BATCH_RUN_AT"
	ColValidFromDate = "VALID_FROM_DATE"
	ColValidToDate   = "VALID_TO_DATE"
)

// TechnicalColumns returns the history technical columns in table order.
func TechnicalColumns() []string {
	return []string{ColUpdatedAt, ColBatchRunAt, ColValidFromDate, ColValidToDate}
}

func isTechnical(name string) bool {
	return slices.Contains(TechnicalColumns(), name)
}

// TableDescriptor is an immutable description of a table: its qualified name,
// its ordered unique columns and an optional logical key.
//
// Column references are resolved once at construction.
type TableDescriptor struct {
	name       string
	columns    []string
	logicalKey []string
	refs       map[string]sqlexpr.Column
}

// NewTableDescriptor validates and builds a descriptor.
// name is the already-qualified table name.
func NewTableDescriptor(name string, columns []string, logicalKey ...string) (*TableDescriptor, error) {
	if name == "" {
		return nil, invalidDescriptor(name, "", "missing table name")
	}
	if len(columns) == 0 {
		return nil, invalidDescriptor(name, "", "no columns")
	}

	refs := make(map[string]sqlexpr.Column, len(columns))
	for _, c := range columns {
		if c == "" {
			return nil, invalidDescriptor(name, "", "empty column name")
		}
		if _, dup := refs[c]; dup {
			return nil, invalidDescriptor(name, c, "duplicate column")
		}
		refs[c] = sqlexpr.Col(name, c)
	}

	seen := make(map[string]struct{}, len(logicalKey))
	for _, k := range logicalKey {
		if _, ok := refs[k]; !ok {
			return nil, invalidDescriptor(name, k, "logical key column not in table")
		}
		if _, dup := seen[k]; dup {
			return nil, invalidDescriptor(name, k, "duplicate logical key column")
		}
		seen[k] = struct{}{}
	}

	return &TableDescriptor{
		name:       name,
		columns:    slices.Clone(columns),
		logicalKey: slices.Clone(logicalKey),
		refs:       refs,
	}, nil
}

// NewHistoryDescriptor derives the history table layout from a staging
// descriptor: the staging columns, the optional row-version column, then the
// technical columns. The logical key is carried over.
func NewHistoryDescriptor(name string, staging *TableDescriptor, rowVersionColumn string) (*TableDescriptor, error) {
	if staging == nil {
		return nil, invalidDescriptor(name, "", "missing staging descriptor")
	}
	cols := slices.Clone(staging.columns)
	if rowVersionColumn != "" {
		cols = append(cols, rowVersionColumn)
	}
	cols = append(cols, TechnicalColumns()...)
	return NewTableDescriptor(name, cols, staging.logicalKey...)
}

// Name returns the qualified table name.
func (t *TableDescriptor) Name() string { return t.name }

// Columns returns the column names in declared order.
func (t *TableDescriptor) Columns() []string { return slices.Clone(t.columns) }

// LogicalKey returns the logical key columns.
func (t *TableDescriptor) LogicalKey() []string { return slices.Clone(t.logicalKey) }

// HasColumn reports whether the table has a column with exactly this name.
func (t *TableDescriptor) HasColumn(name string) bool {
	_, ok := t.refs[name]
	return ok
}

// Column returns the reference for a column.
func (t *TableDescriptor) Column(name string) (sqlexpr.Column, bool) {
	c, ok := t.refs[name]
	return c, ok
}

// WithLogicalKey returns a copy of the descriptor with a different logical key.
func (t *TableDescriptor) WithLogicalKey(key ...string) (*TableDescriptor, error) {
	return NewTableDescriptor(t.name, t.columns, key...)
}

// col returns the reference for a column known to exist.
func (t *TableDescriptor) col(name string) sqlexpr.Column {
	if c, ok := t.refs[name]; ok {
		return c
	}
	return sqlexpr.Col(t.name, name)
}
