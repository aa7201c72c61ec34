package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ninjasql/ninjasql/internal/cli/output"
	"github.com/ninjasql/ninjasql/pkg/adapter"
)

// NewIntrospectCommand creates the introspect command.
func NewIntrospectCommand() *cobra.Command {
	var keys []string
	cmd := &cobra.Command{
		Use:   "introspect <table>",
		Short: "Describe an existing table of the target database",
		Long: `Connect to the configured target and read the columns of an existing
table. With --key the columns are validated as a table descriptor with that
logical key, the same check generation applies to sources.`,
		Example: `  # Describe a staging table
  ninjasql introspect STAGING.STG_customers --key id`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIntrospect(cmd, args[0], splitList(keys))
		},
	}
	cmd.Flags().StringSliceVarP(&keys, "key", "k", nil, "Logical key columns")
	return cmd
}

func runIntrospect(cmd *cobra.Command, table string, keys []string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	a, err := cc.Connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	desc, meta, err := adapter.Introspect(ctx, a, table, keys...)
	if err != nil {
		return err
	}

	out := output.IntrospectOutput{
		Table:      desc.Name(),
		Schema:     meta.Schema,
		Name:       meta.Name,
		LogicalKey: desc.LogicalKey(),
	}
	for _, c := range meta.Columns {
		out.Columns = append(out.Columns, output.ColumnInfo{
			Name:     c.Name,
			Type:     c.Type,
			Nullable: c.Nullable,
			Position: c.Position,
		})
	}

	r := cc.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(out)
	}

	r.Header(1, "Table "+out.Table)
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println("")
	}
	isKey := map[string]bool{}
	for _, k := range out.LogicalKey {
		isKey[k] = true
	}
	rows := make([][]string, 0, len(out.Columns))
	for _, c := range out.Columns {
		key := ""
		if isKey[c.Name] {
			key = "key"
		}
		rows = append(rows, []string{strconv.Itoa(c.Position), c.Name, c.Type, strconv.FormatBool(c.Nullable), key})
	}
	r.Table([]string{"#", "Column", "Type", "Nullable", "Logical key"}, rows)
	return nil
}
