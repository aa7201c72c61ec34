package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/ninjasql/ninjasql/internal/blueprint"
	"github.com/ninjasql/ninjasql/internal/cli/output"
	"github.com/ninjasql/ninjasql/internal/config"
	"github.com/ninjasql/ninjasql/internal/macro"
	starctx "github.com/ninjasql/ninjasql/internal/starlark"
	"github.com/ninjasql/ninjasql/internal/state"
	"github.com/ninjasql/ninjasql/pkg/adapter"
	"github.com/ninjasql/ninjasql/pkg/scd2"
)

type contextKey int

const (
	configKey contextKey = iota
	loggerKey
	clockKey
	reloadKey
)

// ReloadFunc loads the configuration again with the same file and flags.
type ReloadFunc func() (*config.Config, error)

// WithConfig stores cfg in ctx.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// WithClock stores clock in ctx.
func WithClock(ctx context.Context, clock clockwork.Clock) context.Context {
	return context.WithValue(ctx, clockKey, clock)
}

// WithReload stores the config reload function in ctx.
func WithReload(ctx context.Context, fn ReloadFunc) context.Context {
	return context.WithValue(ctx, reloadKey, fn)
}

// GetLogger retrieves the logger from ctx, or a discard logger.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

// errNoConfig is returned when a command runs without a loaded configuration.
var errNoConfig = errors.New("no configuration loaded")

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Clock    clockwork.Clock
	Renderer *output.Renderer
	Reload   ReloadFunc
}

// NewCommandContext collects the dependencies stored on the command's context.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, ok := ctx.Value(configKey).(*config.Config)
	if !ok || cfg == nil {
		return nil, errNoConfig
	}

	mode, err := output.ParseMode(cfg.Output)
	if err != nil {
		return nil, err
	}

	clock, ok := ctx.Value(clockKey).(clockwork.Clock)
	if !ok || clock == nil {
		clock = clockwork.NewRealClock()
	}
	reload, _ := ctx.Value(reloadKey).(ReloadFunc)
	if reload == nil {
		reload = func() (*config.Config, error) { return cfg, nil }
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   GetLogger(ctx),
		Clock:    clock,
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode),
		Reload:   reload,
	}, nil
}

// Planner creates a planner for the current configuration.
func (c *CommandContext) Planner() (*blueprint.Planner, error) {
	return blueprint.NewPlanner(blueprint.Options{
		Config: c.Cfg,
		Clock:  c.Clock,
		Logger: c.Logger,
	})
}

// Plan builds the plan, restricted to the selected artifacts and their
// prerequisites when any are given.
func (c *CommandContext) Plan(ctx context.Context, selects []string) (*blueprint.Planner, *blueprint.Plan, error) {
	planner, err := c.Planner()
	if err != nil {
		return nil, nil, err
	}
	plan, err := planner.Plan(ctx)
	if err != nil {
		return nil, nil, err
	}
	plan, err = plan.Select(splitList(selects)...)
	if err != nil {
		return nil, nil, err
	}
	return planner, plan, nil
}

// Batch returns the configured batch context, defaulting to today.
func (c *CommandContext) Batch() (scd2.BatchContext, error) {
	date, ok, err := c.Cfg.BatchDate()
	if err != nil {
		return scd2.BatchContext{}, err
	}
	if !ok {
		date = c.Clock.Now()
	}
	return scd2.NewBatchContext(date), nil
}

// TemplateContext returns the template evaluation context for batch, with
// the project's macro namespaces.
func (c *CommandContext) TemplateContext(batch scd2.BatchContext) (*starctx.ExecutionContext, error) {
	execCtx, err := starctx.NewExecutionContext(batch, starctx.TargetInfoFromConfig(c.Cfg.Target), c.Cfg.Render.Vars)
	if err != nil {
		return nil, err
	}
	if c.Cfg.Render.MacrosDir == "" {
		return execCtx, nil
	}
	macros, err := macro.LoadAndRegister(c.Cfg.Render.MacrosDir)
	if err != nil {
		return nil, err
	}
	if macros.Len() > 0 {
		c.Logger.Debug("loaded macros", slog.Any("namespaces", macros.Namespaces()))
	}
	return execCtx.WithNamespaces(macros.Globals())
}

// OpenStore opens the run history database.
func (c *CommandContext) OpenStore() (*state.SQLiteStore, error) {
	store := state.NewSQLiteStore(c.Logger, c.Clock)
	if err := store.Open(c.Cfg.StatePath); err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}
	return store, nil
}

// Connect opens an adapter for the configured target.
func (c *CommandContext) Connect(ctx context.Context) (adapter.Adapter, error) {
	if c.Cfg.Target == nil || c.Cfg.Target.Type == "" {
		return nil, fmt.Errorf("no target configured (set target.type in %s)", config.ConfigFileName)
	}
	a, err := adapter.NewAdapter(c.Cfg.Target.AdapterConfig(), c.Logger)
	if err != nil {
		return nil, err
	}
	if err := a.Connect(ctx, c.Cfg.Target.AdapterConfig()); err != nil {
		return nil, err
	}
	return a, nil
}

// splitList flattens repeated and comma-separated flag values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// formatDate renders a date value for output.
func formatDate(batch scd2.BatchContext) string {
	return batch.BatchDate.Format(starctx.DateLayout)
}
