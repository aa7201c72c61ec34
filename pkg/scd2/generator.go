package scd2

import (
	"fmt"

	"github.com/ninjasql/ninjasql/pkg/core"
	"github.com/ninjasql/ninjasql/pkg/dialect"
	"github.com/ninjasql/ninjasql/pkg/format"
	"github.com/ninjasql/ninjasql/pkg/sqlexpr"
)

// Kind identifies a generated statement.
type Kind string

// Statement kinds.
const (
	KindNewInsert       Kind = "new_insert"
	KindUpdatedInsert   Kind = "updated_insert"
	KindUpdatedUpdate   Kind = "updated_update"
	KindDeletedUpdate   Kind = "deleted_update"
	KindOpenRowCheck    Kind = "open_row_check"
	KindTableLoadDDL    Kind = "tableload_ddl"
	KindTableLoadReset  Kind = "tableload_reset"
	KindTableLoadInsert Kind = "tableload_insert"
)

// SCD2Kinds returns the four SCD2 statements in execution order.
func SCD2Kinds() []Kind {
	return []Kind{KindNewInsert, KindUpdatedInsert, KindUpdatedUpdate, KindDeletedUpdate}
}

// Options configures a Generator.
type Options struct {
	Staging *TableDescriptor
	History *TableDescriptor

	// Strategy is "templated" or "control-table".
	Strategy LoadStrategy

	// Dialect renders the statements.
	Dialect *dialect.Dialect

	// Render overrides the dialect's binding mode.
	Render format.Options

	// ControlTable is the control table name, DefaultControlTable when empty.
	ControlTable string

	// RowVersionColumn names an optional history column holding the version
	// number of each row (1 for the first version of a key).
	RowVersionColumn string

	// Batch supplies the literal dates for the control-table row.
	// Required by the control-table strategy.
	Batch *BatchContext

	// OpenRowCheck adds the open_row_check diagnostic to Artifacts.
	OpenRowCheck bool
}

// Generator builds the SCD2 statements for one staging/history pair.
// A Generator is immutable and safe for concurrent use.
type Generator struct {
	builder      *Builder
	resolver     DateResolver
	dialect      *dialect.Dialect
	render       format.Options
	controlTable string
	batch        *BatchContext
	openRowCheck bool
}

// New validates the options and returns a Generator.
// All validation happens here; statement methods cannot fail.
func New(opts Options) (*Generator, error) {
	strategy, err := ParseLoadStrategy(string(opts.Strategy))
	if err != nil {
		return nil, err
	}
	if opts.Dialect == nil {
		return nil, dialect.ErrDialectRequired
	}

	b, err := NewBuilder(opts.Staging, opts.History, opts.RowVersionColumn)
	if err != nil {
		return nil, err
	}

	controlTable := opts.ControlTable
	if controlTable == "" {
		controlTable = DefaultControlTable
	}

	var resolver DateResolver = TemplatedResolver{}
	if strategy == StrategyControlTable {
		if opts.Batch == nil {
			return nil, ErrMissingBatchContext
		}
		resolver = ControlTableResolver{Table: controlTable, Name: opts.History.Name()}
	}

	return &Generator{
		builder:      b,
		resolver:     resolver,
		dialect:      opts.Dialect,
		render:       opts.Render,
		controlTable: controlTable,
		batch:        opts.Batch,
		openRowCheck: opts.OpenRowCheck,
	}, nil
}

// Builder returns the predicate/column builder.
func (g *Generator) Builder() *Builder { return g.builder }

// Resolver returns the date resolver selected for the strategy.
func (g *Generator) Resolver() DateResolver { return g.resolver }

// Strategy returns the load strategy.
func (g *Generator) Strategy() LoadStrategy { return g.resolver.Strategy() }

// Dialect returns the rendering dialect.
func (g *Generator) Dialect() *dialect.Dialect { return g.dialect }

func (g *Generator) history() *TableDescriptor { return g.builder.history }

func (g *Generator) staging() *TableDescriptor { return g.builder.staging }

// openRow is history.VALID_TO_DATE = <open sentinel>.
func (g *Generator) openRow() sqlexpr.Expr {
	return sqlexpr.Eq(g.history().col(ColValidToDate), g.resolver.Resolve(RoleValidToDate))
}

// insertColumns returns the target column list shared by both inserts.
func (g *Generator) insertColumns() []string {
	cols := g.staging().Columns()
	if g.builder.rowVersion != "" {
		cols = append(cols, g.builder.rowVersion)
	}
	for _, m := range g.builder.MetadataColumns(g.resolver) {
		cols = append(cols, m.Name)
	}
	return cols
}

// selectList returns staging columns, the row version and the metadata values.
func (g *Generator) selectList(rowVersion sqlexpr.Expr) []sqlexpr.Expr {
	var out []sqlexpr.Expr
	for _, c := range g.builder.StagingColumns() {
		out = append(out, c)
	}
	if g.builder.rowVersion != "" {
		out = append(out, rowVersion)
	}
	for _, m := range g.builder.MetadataColumns(g.resolver) {
		out = append(out, m.Value)
	}
	return out
}

// closeRow is the SET list of both update statements.
func (g *Generator) closeRow() []sqlexpr.Assignment {
	return []sqlexpr.Assignment{
		{Column: ColValidToDate, Value: g.resolver.Resolve(RoleOffsetValidToDate)},
		{Column: ColUpdatedAt, Value: sqlexpr.Now()},
	}
}

// NewInsert inserts staging rows whose logical key has no history row at all.
func (g *Generator) NewInsert() *sqlexpr.Insert {
	h, s := g.history(), g.staging()
	return &sqlexpr.Insert{
		Table:   h.Name(),
		Columns: g.insertColumns(),
		Query: &sqlexpr.Select{
			Columns: g.selectList(sqlexpr.Lit(1)),
			From:    s.Name(),
			Where:   sqlexpr.NotExists{Query: sqlexpr.SelectOne(h.Name(), g.builder.KeyMatch())},
		},
	}
}

// UpdatedInsert inserts a new open version for every key whose open history
// row differs from staging in at least one comparable column.
//
// Exactly one open row per key is assumed; see OpenRowConflicts.
func (g *Generator) UpdatedInsert() *sqlexpr.Insert {
	h, s := g.history(), g.staging()
	var version sqlexpr.Expr
	if g.builder.rowVersion != "" {
		version = sqlexpr.Add(h.col(g.builder.rowVersion), sqlexpr.Lit(1))
	}
	return &sqlexpr.Insert{
		Table:   h.Name(),
		Columns: g.insertColumns(),
		Query: &sqlexpr.Select{
			Columns: g.selectList(version),
			From:    s.Name(),
			Joins:   []sqlexpr.Join{{Table: h.Name(), On: g.builder.KeyMatch()}},
			Where:   sqlexpr.AndOf(g.builder.AnyChanged(), g.openRow()),
		},
	}
}

// UpdatedUpdate closes open history rows superseded by a changed staging row.
// Rows already stamped with the current batch date are left alone, so the
// version inserted by UpdatedInsert stays open.
func (g *Generator) UpdatedUpdate() *sqlexpr.Update {
	h, s := g.history(), g.staging()
	changed := sqlexpr.AndOf(g.builder.KeyMatch(), g.builder.AnyChanged())
	return &sqlexpr.Update{
		Table: h.Name(),
		Set:   g.closeRow(),
		Where: sqlexpr.AndOf(
			sqlexpr.Exists{Query: sqlexpr.SelectOne(s.Name(), changed)},
			g.openRow(),
			sqlexpr.Lt(h.col(ColBatchRunAt), g.resolver.Resolve(RoleBatchDate)),
		),
	}
}

// DeletedUpdate closes open history rows whose key is absent from staging.
func (g *Generator) DeletedUpdate() *sqlexpr.Update {
	h, s := g.history(), g.staging()
	return &sqlexpr.Update{
		Table: h.Name(),
		Set:   g.closeRow(),
		Where: sqlexpr.AndOf(
			sqlexpr.NotExists{Query: sqlexpr.SelectOne(s.Name(), g.builder.KeyMatch())},
			g.openRow(),
		),
	}
}

// OpenRowConflicts selects logical keys with more than one open history row.
// UpdatedInsert duplicates rows for such keys, so a non-empty result should
// stop the load.
func (g *Generator) OpenRowConflicts() *sqlexpr.Select {
	h := g.history()
	var cols, group []sqlexpr.Expr
	for _, k := range h.logicalKey {
		cols = append(cols, h.col(k))
		group = append(group, h.col(k))
	}
	cols = append(cols, sqlexpr.As(sqlexpr.Count{}, "open_rows"))
	return &sqlexpr.Select{
		Columns: cols,
		From:    h.Name(),
		Where:   g.openRow(),
		GroupBy: group,
		Having:  sqlexpr.Gt(sqlexpr.Count{}, sqlexpr.Lit(1)),
	}
}

// TableLoadDDL returns the control table DDL.
func (g *Generator) TableLoadDDL() *sqlexpr.CreateTable {
	return TableLoadDDL(g.controlTable)
}

// TableLoad returns the control row of this history table for ctx.
func (g *Generator) TableLoad(ctx BatchContext) TableLoad {
	return NewTableLoad(g.history().Name(), ctx)
}

// TableLoadInsert seeds the control row for ctx.
func (g *Generator) TableLoadInsert(ctx BatchContext) *sqlexpr.Insert {
	return g.TableLoad(ctx).Insert(g.controlTable)
}

// TableLoadReset removes the control row of this history table.
func (g *Generator) TableLoadReset() *sqlexpr.Delete {
	return NewTableLoad(g.history().Name(), BatchContext{}).Reset(g.controlTable)
}

// Statement returns the statement tree of a kind.
func (g *Generator) Statement(kind Kind) (sqlexpr.Statement, error) {
	switch kind {
	case KindNewInsert:
		return g.NewInsert(), nil
	case KindUpdatedInsert:
		return g.UpdatedInsert(), nil
	case KindUpdatedUpdate:
		return g.UpdatedUpdate(), nil
	case KindDeletedUpdate:
		return g.DeletedUpdate(), nil
	case KindOpenRowCheck:
		return g.OpenRowConflicts(), nil
	case KindTableLoadDDL:
		return g.TableLoadDDL(), nil
	case KindTableLoadReset:
		return g.TableLoadReset(), nil
	case KindTableLoadInsert:
		if g.batch == nil {
			return nil, ErrMissingBatchContext
		}
		return g.TableLoadInsert(*g.batch), nil
	default:
		return nil, fmt.Errorf("unknown statement kind %q", kind)
	}
}

// Render renders a statement with the generator's dialect and binding.
func (g *Generator) Render(stmt sqlexpr.Statement) (format.Rendered, error) {
	return format.Render(stmt, g.dialect, g.render)
}

// SQL renders the statement of a kind.
func (g *Generator) SQL(kind Kind) (format.Rendered, error) {
	stmt, err := g.Statement(kind)
	if err != nil {
		return format.Rendered{}, err
	}
	return g.Render(stmt)
}

// Binding returns the effective binding mode.
func (g *Generator) Binding() core.BindingMode {
	if g.render.Binding != nil {
		return *g.render.Binding
	}
	return g.dialect.Binding
}
