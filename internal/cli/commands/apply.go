package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ninjasql/ninjasql/internal/blueprint"
	"github.com/ninjasql/ninjasql/internal/cli/output"
	starctx "github.com/ninjasql/ninjasql/internal/starlark"
	"github.com/ninjasql/ninjasql/internal/template"
	"github.com/ninjasql/ninjasql/internal/writer"
	"github.com/ninjasql/ninjasql/pkg/adapter"
	"github.com/ninjasql/ninjasql/pkg/scd2"
)

// NewApplyCommand creates the apply command.
func NewApplyCommand() *cobra.Command {
	var (
		selects []string
		dryRun  bool
	)
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Execute the plan against the target database",
		Long: `Connect to the configured target and execute every artifact in plan
order, batch by batch. Statements of the templated strategy are bound to the
batch context first; parameter bindings are passed to the driver.

Open-row checks (scd2.open_row_check) are run as queries: any logical key
with more than one open history row stops the load before updated_insert.

Execution stops at the first failing statement.`,
		Example: `  # Load today's batch
  ninjasql apply

  # Show what would run for one history table
  ninjasql apply --select scd2_deleted_update_PERS_STAGING.PERS_STG_customers --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApply(cmd, selects, dryRun)
		},
	}
	cmd.Flags().StringSliceVarP(&selects, "select", "s", nil, "Artifacts to apply (with their prerequisites)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List the statements without executing them")
	return cmd
}

func runApply(cmd *cobra.Command, selects []string, dryRun bool) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	_, plan, err := cc.Plan(ctx, selects)
	if err != nil {
		return err
	}
	batches, err := plan.Batches()
	if err != nil {
		return err
	}

	var execCtx *starctx.ExecutionContext
	if plan.Strategy == scd2.StrategyTemplated {
		if execCtx, err = cc.TemplateContext(plan.Batch); err != nil {
			return err
		}
	}

	out := output.ApplyOutput{DryRun: dryRun, Executed: []string{}}
	if cc.Cfg.Target != nil {
		out.Target = cc.Cfg.Target.Type
	}

	var exec func(art *blueprint.Artifact, sql string) error
	if dryRun {
		exec = func(*blueprint.Artifact, string) error { return nil }
	} else {
		a, err := cc.Connect(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()
		if a.Dialect().Name != plan.Dialect {
			cc.Logger.Warn("plan dialect differs from the target adapter",
				slog.String("plan", plan.Dialect),
				slog.String("adapter", a.Dialect().Name))
		}
		exec = func(art *blueprint.Artifact, sql string) error {
			if art.Kind == scd2.KindOpenRowCheck {
				return checkOpenRows(ctx, a, historyTable(plan, art), sql, art.Args)
			}
			return a.Exec(ctx, sql, art.Args...)
		}
	}

	r := cc.Renderer
	text := r.EffectiveMode() == output.ModeText
	for i, batch := range batches {
		for _, art := range batch {
			sql := art.SQL
			if execCtx != nil {
				if sql, err = template.RenderString(sql, art.Name, execCtx); err != nil {
					return err
				}
			}
			cc.Logger.Debug("executing artifact", slog.String("artifact", art.Name), slog.Int("batch", i))
			if err := exec(art, sql); err != nil {
				if text {
					r.StatusLine(art.Name, "failed", "")
				}
				return fmt.Errorf("apply %s: %w", art.Name, err)
			}
			out.Executed = append(out.Executed, art.Name)
			if text {
				status := "applied"
				if dryRun {
					status = "skipped"
				}
				r.StatusLine(art.Name, status, fmt.Sprintf("batch %d", i))
			}
		}
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeMarkdown:
		title := "Applied"
		if dryRun {
			title = "Dry run"
		}
		r.Println(output.FormatHeader(1, title))
		r.Println("")
		r.Println(output.FormatList(out.Executed))
	default:
		r.Success(fmt.Sprintf("%d statements in %d batches", len(out.Executed), len(batches)))
	}
	return nil
}

// checkOpenRows runs an open-row check query and fails when it returns a row.
// Every column but the trailing count is part of the logical key.
func checkOpenRows(ctx context.Context, a adapter.Adapter, table, sql string, args []any) error {
	rows, err := a.Query(ctx, sql, args...)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return err
	}
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}

	var keys []string
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return err
		}
		pairs := make([]string, 0, len(cols)-1)
		for i, c := range cols[:len(cols)-1] {
			pairs = append(pairs, c+"="+writer.FormatArg(vals[i]))
		}
		keys = append(keys, strings.Join(pairs, ","))
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if len(keys) > 0 {
		return &scd2.OpenRowConflictError{Table: table, Keys: keys}
	}
	return nil
}

func historyTable(plan *blueprint.Plan, art *blueprint.Artifact) string {
	for _, u := range plan.Units {
		if u.Source.Name == art.Unit {
			return u.History.Name()
		}
	}
	return art.Name
}
