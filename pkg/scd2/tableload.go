package scd2

import (
	"time"

	"github.com/ninjasql/ninjasql/pkg/core"
	"github.com/ninjasql/ninjasql/pkg/sqlexpr"
)

// DefaultControlTable is the name of the control table.
const DefaultControlTable = "tableloads"

// Control table columns.
const (
	TableLoadName              = "name"
	TableLoadBatchDate         = "BatchDate"
	TableLoadValidToDate       = "ValidToDate"
	TableLoadOffsetValidToDate = "OffsetValidToDate"
	TableLoadValidFromDate     = "ValidFromDate"
)

// TableLoad is one control table row: the batch dates for a history table.
type TableLoad struct {
	Name              string
	BatchDate         time.Time
	ValidToDate       time.Time
	OffsetValidToDate time.Time
	ValidFromDate     time.Time
}

// NewTableLoad builds the control row for a history table from a batch context.
func NewTableLoad(name string, ctx BatchContext) TableLoad {
	return TableLoad{
		Name:              name,
		BatchDate:         ctx.BatchDate,
		ValidToDate:       ctx.ValidToDate,
		OffsetValidToDate: ctx.OffsetValidToDate,
		ValidFromDate:     ctx.ValidFromDate,
	}
}

// TableLoadDDL returns CREATE TABLE IF NOT EXISTS for the control table.
func TableLoadDDL(table string) *sqlexpr.CreateTable {
	return &sqlexpr.CreateTable{
		Table:       table,
		IfNotExists: true,
		Columns: []sqlexpr.ColumnDef{
			{Name: TableLoadName, Type: core.TypeString, NotNull: true},
			{Name: TableLoadBatchDate, Type: core.TypeTimestamp},
			{Name: TableLoadValidToDate, Type: core.TypeTimestamp},
			{Name: TableLoadOffsetValidToDate, Type: core.TypeTimestamp},
			{Name: TableLoadValidFromDate, Type: core.TypeTimestamp},
		},
		PrimaryKey: []string{TableLoadName},
	}
}

// Insert returns the INSERT seeding this row.
func (tl TableLoad) Insert(table string) *sqlexpr.Insert {
	return &sqlexpr.Insert{
		Table: table,
		Columns: []string{
			TableLoadName,
			TableLoadBatchDate,
			TableLoadValidToDate,
			TableLoadOffsetValidToDate,
			TableLoadValidFromDate,
		},
		Values: []sqlexpr.Expr{
			sqlexpr.Lit(tl.Name),
			sqlexpr.Timestamp(tl.BatchDate),
			sqlexpr.Timestamp(tl.ValidToDate),
			sqlexpr.Timestamp(tl.OffsetValidToDate),
			sqlexpr.Timestamp(tl.ValidFromDate),
		},
	}
}

// Reset returns the DELETE removing any previous row for the same history
// table, so that Insert can advance it to a new batch.
func (tl TableLoad) Reset(table string) *sqlexpr.Delete {
	return &sqlexpr.Delete{
		Table: table,
		Where: sqlexpr.Eq(sqlexpr.Col(table, TableLoadName), sqlexpr.Lit(tl.Name)),
	}
}
