package scd2

import (
	"slices"
	"strings"

	"github.com/ninjasql/ninjasql/pkg/sqlexpr"
)

// Builder produces the column lists and predicates shared by the SCD2
// statements. All methods are pure functions of the two descriptors.
type Builder struct {
	staging    *TableDescriptor
	history    *TableDescriptor
	rowVersion string
}

// MetadataColumn is a computed column written by the insert statements.
type MetadataColumn struct {
	Name  string
	Value sqlexpr.Expr
}

// NewBuilder validates a staging/history pair.
//
// The staging descriptor must declare a logical key, and every staging column
// must exist by identical name in the history descriptor.
func NewBuilder(staging, history *TableDescriptor, rowVersionColumn string) (*Builder, error) {
	if staging == nil {
		return nil, invalidDescriptor("", "", "missing staging descriptor")
	}
	if history == nil {
		return nil, invalidDescriptor("", "", "missing history descriptor")
	}
	if len(staging.logicalKey) == 0 {
		return nil, invalidDescriptor(staging.name, "", "no logical key")
	}
	if strings.EqualFold(staging.name, history.name) {
		return nil, invalidDescriptor(history.name, "", "staging and history tables are the same")
	}
	for _, c := range staging.columns {
		if !history.HasColumn(c) {
			return nil, invalidDescriptor(history.name, c, "staging column missing from history table")
		}
	}
	for _, c := range TechnicalColumns() {
		if !history.HasColumn(c) {
			return nil, invalidDescriptor(history.name, c, "technical column missing from history table")
		}
	}
	if rowVersionColumn != "" {
		if !history.HasColumn(rowVersionColumn) {
			return nil, invalidDescriptor(history.name, rowVersionColumn, "row-version column missing from history table")
		}
		if staging.HasColumn(rowVersionColumn) {
			return nil, invalidDescriptor(staging.name, rowVersionColumn, "row-version column present in staging table")
		}
	}

	return &Builder{staging: staging, history: history, rowVersion: rowVersionColumn}, nil
}

// Staging returns the staging descriptor.
func (b *Builder) Staging() *TableDescriptor { return b.staging }

// History returns the history descriptor.
func (b *Builder) History() *TableDescriptor { return b.history }

// StagingColumns returns a reference to every staging column, in declared order.
func (b *Builder) StagingColumns() []sqlexpr.Column {
	out := make([]sqlexpr.Column, 0, len(b.staging.columns))
	for _, c := range b.staging.columns {
		out = append(out, b.staging.col(c))
	}
	return out
}

// BusinessColumns returns the ordered intersection of staging and history
// column names, in staging order. Logical key columns are not removed.
func (b *Builder) BusinessColumns() []string {
	var out []string
	for _, c := range b.staging.columns {
		if b.history.HasColumn(c) {
			out = append(out, c)
		}
	}
	return out
}

// ComparableColumns returns the business columns used for change detection:
// BusinessColumns without the logical key, the technical columns and the
// row-version column.
func (b *Builder) ComparableColumns() []string {
	var out []string
	for _, c := range b.BusinessColumns() {
		if slices.Contains(b.staging.logicalKey, c) || isTechnical(c) || c == b.rowVersion {
			continue
		}
		out = append(out, c)
	}
	return out
}

// KeyEqualityPredicates returns staging.k = history.k for each logical key column.
func (b *Builder) KeyEqualityPredicates() []sqlexpr.Equals {
	out := make([]sqlexpr.Equals, 0, len(b.staging.logicalKey))
	for _, k := range b.staging.logicalKey {
		out = append(out, sqlexpr.Eq(b.staging.col(k), b.history.col(k)))
	}
	return out
}

// ChangePredicates returns staging.c <> history.c for each comparable column.
func (b *Builder) ChangePredicates() []sqlexpr.NotEquals {
	cols := b.ComparableColumns()
	out := make([]sqlexpr.NotEquals, 0, len(cols))
	for _, c := range cols {
		out = append(out, sqlexpr.Ne(b.staging.col(c), b.history.col(c)))
	}
	return out
}

// KeyMatch returns the conjunction of the key equality predicates.
func (b *Builder) KeyMatch() sqlexpr.And {
	preds := b.KeyEqualityPredicates()
	items := make([]sqlexpr.Expr, len(preds))
	for i, p := range preds {
		items[i] = p
	}
	return sqlexpr.AndOf(items...)
}

// AnyChanged returns the disjunction of the change predicates.
func (b *Builder) AnyChanged() sqlexpr.Or {
	preds := b.ChangePredicates()
	items := make([]sqlexpr.Expr, len(preds))
	for i, p := range preds {
		items[i] = p
	}
	return sqlexpr.OrOf(items...)
}

// MetadataColumns returns the technical column values written on insert:
// UPDATED_AT = now, then BATCH_RUN_AT, VALID_FROM_DATE and VALID_TO_DATE as
// resolved by r.
func (b *Builder) MetadataColumns(r DateResolver) []MetadataColumn {
	return []MetadataColumn{
		{Name: ColUpdatedAt, Value: sqlexpr.Now()},
		{Name: ColBatchRunAt, Value: r.Resolve(RoleBatchDate)},
		{Name: ColValidFromDate, Value: r.Resolve(RoleValidFromDate)},
		{Name: ColValidToDate, Value: r.Resolve(RoleValidToDate)},
	}
}
