package blueprint

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/ninjasql/ninjasql/internal/config"
	"github.com/ninjasql/ninjasql/internal/dag"
	"github.com/ninjasql/ninjasql/internal/source"
	"github.com/ninjasql/ninjasql/pkg/dialect"
	"github.com/ninjasql/ninjasql/pkg/format"
	"github.com/ninjasql/ninjasql/pkg/scd2"
	"github.com/ninjasql/ninjasql/pkg/sqlexpr"
)

// Options configures a Planner.
type Options struct {
	Config *config.Config
	// Dialect overrides the dialect named by the config.
	Dialect *dialect.Dialect
	// Clock supplies today's date when no batch date is configured.
	Clock clockwork.Clock
	// Workers caps concurrent unit planning. Zero means GOMAXPROCS.
	Workers int
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Planner turns a project config into a Plan.
type Planner struct {
	cfg      *config.Config
	dialect  *dialect.Dialect
	strategy scd2.LoadStrategy
	batch    scd2.BatchContext
	render   format.Options
	workers  int
	logger   *slog.Logger
}

// NewPlanner validates the options and resolves the dialect and batch context.
func NewPlanner(opts Options) (*Planner, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("blueprint: config is required")
	}
	cfg := opts.Config

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	d := opts.Dialect
	if d == nil {
		var err error
		if d, err = dialect.Lookup(cfg.DialectName()); err != nil {
			return nil, err
		}
	}

	strategy, err := scd2.ParseLoadStrategy(cfg.SCD2.Strategy)
	if err != nil {
		return nil, err
	}

	batchDate, ok, err := cfg.BatchDate()
	if err != nil {
		return nil, err
	}
	if !ok {
		batchDate = clock.Now()
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	return &Planner{
		cfg:      cfg,
		dialect:  d,
		strategy: strategy,
		batch:    scd2.NewBatchContext(batchDate),
		render:   format.Options{Binding: cfg.BindingMode()},
		workers:  workers,
		logger:   logger,
	}, nil
}

// Dialect returns the dialect statements are rendered in.
func (p *Planner) Dialect() *dialect.Dialect { return p.dialect }

// Batch returns the batch context used for control-table rows.
func (p *Planner) Batch() scd2.BatchContext { return p.batch }

// Plan reads every source concurrently, builds its artifacts and registers
// them into a single graph. It fails on the first unit error or on a cycle.
func (p *Planner) Plan(ctx context.Context) (*Plan, error) {
	plan := &Plan{
		Graph:     dag.NewGraph(),
		Units:     make([]*Unit, len(p.cfg.Sources)),
		Batch:     p.batch,
		Dialect:   p.dialect.Name,
		Strategy:  p.strategy,
		artifacts: make(map[string]*Artifact),
	}

	var mu sync.Mutex
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(p.workers)

	for i, src := range p.cfg.Sources {
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			unit, err := p.planUnit(src)
			if err != nil {
				return fmt.Errorf("source %q: %w", src.Name, err)
			}

			for _, a := range unit.Artifacts {
				plan.Graph.AddNode(a.Name)
				for _, dep := range a.DependsOn {
					plan.Graph.AddEdge(a.Name, dep)
				}
			}

			mu.Lock()
			defer mu.Unlock()
			plan.Units[i] = unit
			for _, a := range unit.Artifacts {
				// The control-table DDL is shared by every unit.
				if _, dup := plan.artifacts[a.Name]; !dup {
					plan.artifacts[a.Name] = a
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if cyclic, path := plan.Graph.HasCycle(); cyclic {
		return nil, &dag.CyclicDependencyError{Path: path}
	}

	p.logger.Debug("planned artifacts",
		slog.Int("units", len(plan.Units)),
		slog.Int("artifacts", plan.Len()),
		slog.Int("nodes", plan.Graph.NodeCount()),
		slog.Int("edges", plan.Graph.EdgeCount()),
		slog.String("strategy", string(p.strategy)),
		slog.String("dialect", p.dialect.Name))
	return plan, nil
}

func (p *Planner) planUnit(src config.SourceConfig) (*Unit, error) {
	var sep rune
	if src.Separator != "" {
		sep = []rune(src.Separator)[0]
	}
	tbl, err := source.Read(src.Path, source.Options{
		Format:    src.Format(),
		Separator: sep,
		NoHeader:  !src.HasHeader(),
		Logger:    p.logger,
	})
	if err != nil {
		return nil, err
	}
	return p.Unit(src, tbl)
}

// Unit builds the artifacts of one source whose shape is already known.
func (p *Planner) Unit(src config.SourceConfig, tbl *source.Table) (*Unit, error) {
	stagingName, err := p.cfg.Staging.Qualify(src.Name)
	if err != nil {
		return nil, err
	}
	historyName, err := p.cfg.History.Qualify(src.Name)
	if err != nil {
		return nil, err
	}

	staging, err := scd2.NewTableDescriptor(stagingName, tbl.ColumnNames(), src.LogicalKey...)
	if err != nil {
		return nil, err
	}
	rowVersion := p.cfg.SCD2.RowVersionColumn
	history, err := scd2.NewHistoryDescriptor(historyName, staging, rowVersion)
	if err != nil {
		return nil, err
	}

	batch := p.batch
	gen, err := scd2.New(scd2.Options{
		Staging:          staging,
		History:          history,
		Strategy:         p.strategy,
		Dialect:          p.dialect,
		Render:           p.render,
		ControlTable:     p.cfg.SCD2.ControlTable,
		RowVersionColumn: rowVersion,
		Batch:            &batch,
		OpenRowCheck:     p.cfg.SCD2.OpenRowCheck,
	})
	if err != nil {
		return nil, err
	}

	unit := &Unit{Source: src, Table: tbl, Staging: staging, History: history, Generator: gen}
	types := tbl.Types()

	stagingDDL := StagingDDLName(stagingName)
	historyDDL := HistoryDDLName(historyName)
	if err := unit.add(gen, stagingDDL, KindStagingDDL, scd2.StagingDDL(staging, types)); err != nil {
		return nil, err
	}
	if err := unit.add(gen, historyDDL, KindHistoryDDL, scd2.HistoryDDL(history, types, rowVersion)); err != nil {
		return nil, err
	}

	for _, a := range gen.Artifacts() {
		deps := a.DependsOn
		if a.Kind == scd2.KindNewInsert {
			deps = append([]string{stagingDDL, historyDDL}, deps...)
		}
		if err := unit.add(gen, a.Name, a.Kind, a.Statement, deps...); err != nil {
			return nil, err
		}
	}

	p.logger.Debug("planned unit",
		slog.String("source", src.Name),
		slog.String("staging", stagingName),
		slog.String("history", historyName),
		slog.Int("artifacts", len(unit.Artifacts)))
	return unit, nil
}

func (u *Unit) add(gen *scd2.Generator, name string, kind scd2.Kind, stmt sqlexpr.Statement, deps ...string) error {
	r, err := gen.Render(stmt)
	if err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	unit := u.Source.Name
	if kind == scd2.KindTableLoadDDL {
		unit = ""
	}
	u.Artifacts = append(u.Artifacts, &Artifact{
		Name:      name,
		Kind:      kind,
		Unit:      unit,
		SQL:       r.SQL,
		Args:      r.Args,
		DependsOn: deps,
	})
	return nil
}
