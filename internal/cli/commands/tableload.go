package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ninjasql/ninjasql/internal/cli/output"
	"github.com/ninjasql/ninjasql/internal/writer"
	"github.com/ninjasql/ninjasql/pkg/dialect"
	"github.com/ninjasql/ninjasql/pkg/format"
	"github.com/ninjasql/ninjasql/pkg/scd2"
	"github.com/ninjasql/ninjasql/pkg/sqlexpr"
)

// NewTableLoadCommand creates the tableload command.
func NewTableLoadCommand() *cobra.Command {
	var history string
	cmd := &cobra.Command{
		Use:   "tableload",
		Short: "Print the control table statements for a history table",
		Long: `Print the control table DDL and the statements that advance the control
row of one history table to the batch date. The control-table strategy reads
its dates from this row.

--history takes a source name, which is qualified with the history naming
convention, or a table name used as is.`,
		Example: `  # Control row for the customers source
  ninjasql tableload --history customers --batch-date 2024-01-31`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTableLoad(cmd, history)
		},
	}
	cmd.Flags().StringVar(&history, "history", "", "History table or source name")
	_ = cmd.MarkFlagRequired("history")
	return cmd
}

func runTableLoad(cmd *cobra.Command, history string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	cfg := cc.Cfg

	if _, ok := cfg.Source(history); ok {
		if history, err = cfg.History.Qualify(history); err != nil {
			return err
		}
	}
	d, err := dialect.Lookup(cfg.DialectName())
	if err != nil {
		return err
	}
	batch, err := cc.Batch()
	if err != nil {
		return err
	}

	control := cfg.SCD2.ControlTable
	tl := scd2.NewTableLoad(history, batch)
	opts := format.Options{Binding: cfg.BindingMode()}

	render := func(stmt sqlexpr.Statement) (format.Rendered, error) {
		out, err := format.Render(stmt, d, opts)
		if err != nil {
			return out, fmt.Errorf("tableload %s: %w", history, err)
		}
		return out, nil
	}
	ddl, err := render(scd2.TableLoadDDL(control))
	if err != nil {
		return err
	}
	reset, err := render(tl.Reset(control))
	if err != nil {
		return err
	}
	insert, err := render(tl.Insert(control))
	if err != nil {
		return err
	}

	out := output.TableLoadOutput{
		History:   history,
		BatchDate: formatDate(batch),
		DDL:       ddl.SQL,
		Reset:     reset.SQL,
		Insert:    insert.SQL,
	}
	for _, a := range append(reset.Args, insert.Args...) {
		out.Args = append(out.Args, writer.FormatArg(a))
	}

	r := cc.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Table load: "+history))
		r.Println("")
		r.Println(output.FormatKeyValue("Batch date", out.BatchDate))
		r.Println("")
		r.SQL(out.DDL + ";\n" + out.Reset + ";\n" + out.Insert + ";")
		if len(out.Args) > 0 {
			r.Println("")
			r.Println(output.FormatKeyValue("Args", out.Args))
		}
	default:
		r.Println(out.DDL + ";")
		r.Println(out.Reset + ";")
		r.Println(out.Insert + ";")
		if len(out.Args) > 0 {
			r.Muted(fmt.Sprintf("-- args: %v", out.Args))
		}
	}
	return nil
}
