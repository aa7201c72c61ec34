package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ninjasql/ninjasql/internal/cli/output"
	"github.com/ninjasql/ninjasql/internal/template"
)

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Bind the date placeholders of a generated statement",
		Long: `Render a templated SQL file, replacing {{ ... }} expressions with the
values of the batch context: batch_date, valid_from_date, valid_to_date and
offset_valid_to_date. Expressions are Starlark, so helpers such as
add_days(batch_date, -7) and the render.vars from the config are available.`,
		Example: `  # Bind a generated statement to today's batch
  ninjasql render --file build/004_scd2_new_insert_PERS_STG_customers.sql

  # Bind to a given batch date
  ninjasql render --file query.sql --batch-date 2024-01-31`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, file)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Templated SQL file to render")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runRender(cmd *cobra.Command, file string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(file) //nolint:gosec // path comes from the user
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}

	batch, err := cc.Batch()
	if err != nil {
		return err
	}
	execCtx, err := cc.TemplateContext(batch)
	if err != nil {
		return err
	}
	sql, err := template.RenderString(string(content), file, execCtx)
	if err != nil {
		return err
	}

	r := cc.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(output.RenderOutput{File: file, BatchDate: formatDate(batch), SQL: sql})
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Rendered SQL: "+file))
		r.Println("")
		r.SQL(sql)
	default:
		r.Println(sql)
	}
	return nil
}
