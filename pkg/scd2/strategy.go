package scd2

import (
	"time"

	"github.com/ninjasql/ninjasql/pkg/sqlexpr"
)

// LoadStrategy selects how batch dates reach the generated statements.
type LoadStrategy string

// Supported load strategies.
const (
	StrategyTemplated    LoadStrategy = "templated"
	StrategyControlTable LoadStrategy = "control-table"
)

// ParseLoadStrategy validates a strategy name.
func ParseLoadStrategy(s string) (LoadStrategy, error) {
	switch LoadStrategy(s) {
	case StrategyTemplated, StrategyControlTable:
		return LoadStrategy(s), nil
	default:
		return "", &InvalidLoadStrategyError{Strategy: s}
	}
}

// DateRole is one of the four dates controlling a batch run.
type DateRole string

// Date roles. The values double as template token names.
const (
	RoleBatchDate         DateRole = "batch_date"
	RoleValidFromDate     DateRole = "valid_from_date"
	RoleValidToDate       DateRole = "valid_to_date"
	RoleOffsetValidToDate DateRole = "offset_valid_to_date"
)

// DateRoles returns all roles in a stable order.
func DateRoles() []DateRole {
	return []DateRole{RoleBatchDate, RoleValidFromDate, RoleValidToDate, RoleOffsetValidToDate}
}

// controlColumn is the tableloads column holding the role's value.
func (r DateRole) controlColumn() string {
	switch r {
	case RoleBatchDate:
		return TableLoadBatchDate
	case RoleValidFromDate:
		return TableLoadValidFromDate
	case RoleValidToDate:
		return TableLoadValidToDate
	default:
		return TableLoadOffsetValidToDate
	}
}

// DateResolver turns a date role into an SQL expression.
type DateResolver interface {
	Strategy() LoadStrategy
	Resolve(role DateRole) sqlexpr.Expr
}

// TemplatedResolver resolves dates to {{ role }} placeholder tokens.
type TemplatedResolver struct{}

// Strategy returns StrategyTemplated.
func (TemplatedResolver) Strategy() LoadStrategy { return StrategyTemplated }

// Resolve returns the template token for the role.
func (TemplatedResolver) Resolve(role DateRole) sqlexpr.Expr {
	return sqlexpr.Tok(string(role))
}

// ControlTableResolver resolves dates to scalar subqueries against the
// control table row keyed by the history table name.
type ControlTableResolver struct {
	Table string // control table, DefaultControlTable when empty
	Name  string // history table name used as the row key
}

// Strategy returns StrategyControlTable.
func (ControlTableResolver) Strategy() LoadStrategy { return StrategyControlTable }

// Resolve returns (SELECT <table>.<column> FROM <table> WHERE <table>.name = '<history>').
func (r ControlTableResolver) Resolve(role DateRole) sqlexpr.Expr {
	table := r.Table
	if table == "" {
		table = DefaultControlTable
	}
	return sqlexpr.Subquery(&sqlexpr.Select{
		Columns: []sqlexpr.Expr{sqlexpr.Col(table, role.controlColumn())},
		From:    table,
		Where:   sqlexpr.Eq(sqlexpr.Col(table, TableLoadName), sqlexpr.Lit(r.Name)),
	})
}

// OpenSentinel is the conventional VALID_TO_DATE of open rows.
var OpenSentinel = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

// BatchContext holds the concrete dates of one batch run.
type BatchContext struct {
	BatchDate         time.Time
	ValidFromDate     time.Time
	ValidToDate       time.Time
	OffsetValidToDate time.Time
}

// NewBatchContext returns the conventional context for a batch date: rows
// become valid on the batch date, open rows end at OpenSentinel and closed
// rows end the day before the batch date.
func NewBatchContext(batchDate time.Time) BatchContext {
	d := truncateDay(batchDate)
	return BatchContext{
		BatchDate:         d,
		ValidFromDate:     d,
		ValidToDate:       OpenSentinel,
		OffsetValidToDate: d.AddDate(0, 0, -1),
	}
}

// Value returns the date for a role.
func (c BatchContext) Value(role DateRole) time.Time {
	switch role {
	case RoleBatchDate:
		return c.BatchDate
	case RoleValidFromDate:
		return c.ValidFromDate
	case RoleValidToDate:
		return c.ValidToDate
	default:
		return c.OffsetValidToDate
	}
}

// Values returns the dates keyed by role name.
func (c BatchContext) Values() map[string]time.Time {
	out := make(map[string]time.Time, 4)
	for _, r := range DateRoles() {
		out[string(r)] = c.Value(r)
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
