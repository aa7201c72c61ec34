package scd2

import (
	"slices"

	"github.com/ninjasql/ninjasql/pkg/core"
	"github.com/ninjasql/ninjasql/pkg/sqlexpr"
)

// StagingDDL returns CREATE TABLE IF NOT EXISTS for a staging table.
// Columns without an entry in types are created as strings.
func StagingDDL(staging *TableDescriptor, types map[string]core.LogicalType) *sqlexpr.CreateTable {
	return &sqlexpr.CreateTable{
		Table:       staging.Name(),
		IfNotExists: true,
		Columns:     columnDefs(staging, types),
	}
}

// HistoryDDL returns CREATE TABLE IF NOT EXISTS for a history table. The
// row-version column is an integer and the technical columns are timestamps.
func HistoryDDL(history *TableDescriptor, types map[string]core.LogicalType, rowVersionColumn string) *sqlexpr.CreateTable {
	all := make(map[string]core.LogicalType, len(types)+5)
	for k, v := range types {
		all[k] = v
	}
	for _, c := range TechnicalColumns() {
		all[c] = core.TypeTimestamp
	}
	if rowVersionColumn != "" {
		all[rowVersionColumn] = core.TypeInteger
	}
	return &sqlexpr.CreateTable{
		Table:       history.Name(),
		IfNotExists: true,
		Columns:     columnDefs(history, all),
	}
}

func columnDefs(t *TableDescriptor, types map[string]core.LogicalType) []sqlexpr.ColumnDef {
	defs := make([]sqlexpr.ColumnDef, 0, len(t.columns))
	for _, c := range t.columns {
		typ, ok := types[c]
		if !ok {
			typ = core.TypeString
		}
		defs = append(defs, sqlexpr.ColumnDef{
			Name:    c,
			Type:    typ,
			NotNull: slices.Contains(t.logicalKey, c),
		})
	}
	return defs
}
