package commands

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ninjasql/ninjasql/internal/blueprint"
	"github.com/ninjasql/ninjasql/internal/cli/output"
)

// NewPlanCommand creates the plan command.
func NewPlanCommand() *cobra.Command {
	var selects []string
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the execution batches of all artifacts",
		Long: `Build every blueprint without writing files and print the artifacts
grouped into batches. Artifacts in the same batch have no dependencies on
each other and may run in parallel; each batch only depends on earlier ones.`,
		Example: `  # Show the plan
  ninjasql plan

  # Plan for one artifact and everything it needs
  ninjasql plan --select scd2_deleted_update_PERS_STAGING.PERS_STG_customers

  # Machine-readable
  ninjasql plan --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			_, plan, err := cc.Plan(cmd.Context(), selects)
			if err != nil {
				return err
			}
			return renderPlan(cc.Renderer, plan)
		},
	}
	cmd.Flags().StringSliceVarP(&selects, "select", "s", nil, "Artifacts to plan (with their prerequisites)")
	return cmd
}

func renderPlan(r *output.Renderer, plan *blueprint.Plan) error {
	batches, err := plan.Batches()
	if err != nil {
		return err
	}
	batchDate := formatDate(plan.Batch)

	if r.EffectiveMode() == output.ModeJSON {
		out := output.PlanOutput{
			Dialect:   plan.Dialect,
			Strategy:  string(plan.Strategy),
			BatchDate: batchDate,
			Batches:   make([][]output.PlanArtifact, len(batches)),
		}
		for i, batch := range batches {
			out.Batches[i] = make([]output.PlanArtifact, 0, len(batch))
			for _, a := range batch {
				out.Batches[i] = append(out.Batches[i], output.PlanArtifact{
					Name:      a.Name,
					Kind:      string(a.Kind),
					Unit:      a.Unit,
					DependsOn: a.DependsOn,
				})
			}
		}
		return r.JSON(out)
	}

	r.Header(1, "Plan")
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println("")
		r.Println(output.FormatKeyValue("Dialect", plan.Dialect))
		r.Println(output.FormatKeyValue("Strategy", plan.Strategy))
		r.Println(output.FormatKeyValue("Batch date", batchDate))
		r.Println("")
	} else {
		r.Muted("dialect " + plan.Dialect + ", strategy " + string(plan.Strategy) + ", batch date " + batchDate)
	}

	var rows [][]string
	for i, batch := range batches {
		for _, a := range batch {
			rows = append(rows, []string{strconv.Itoa(i), a.Name, string(a.Kind), strings.Join(a.DependsOn, ", ")})
		}
	}
	r.Table([]string{"Batch", "Artifact", "Kind", "Depends on"}, rows)
	r.Printf("%d artifacts in %d batches\n", plan.Len(), len(batches))
	return nil
}
