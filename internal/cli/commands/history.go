package commands

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/ninjasql/ninjasql/internal/cli/output"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded generation runs",
		Example: `  # The last 5 runs
  ninjasql history --limit 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			store, err := cc.OpenStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := output.HistoryOutput{Runs: make([]output.RunInfo, 0, len(runs))}
			for _, run := range runs {
				out.Runs = append(out.Runs, output.RunInfo{
					ID:        run.ID,
					StartedAt: run.StartedAt.UTC().Format(time.RFC3339),
					BatchDate: run.BatchDate,
					Dialect:   run.Dialect,
					Strategy:  run.Strategy,
					Artifacts: run.ArtifactCount,
				})
			}

			r := cc.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(out)
			}
			if len(out.Runs) == 0 {
				r.Muted("No runs recorded in " + cc.Cfg.StatePath)
				return nil
			}
			rows := make([][]string, 0, len(out.Runs))
			for _, run := range out.Runs {
				rows = append(rows, []string{run.ID, run.StartedAt, run.BatchDate, run.Dialect, run.Strategy, strconv.Itoa(run.Artifacts)})
			}
			r.Table([]string{"Run", "Started", "Batch date", "Dialect", "Strategy", "Artifacts"}, rows)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show (0 for all)")
	return cmd
}
