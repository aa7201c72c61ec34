package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ninjasql/ninjasql/internal/cli/output"
	"github.com/ninjasql/ninjasql/internal/macro"
)

// NewMacrosCommand creates the macros command.
func NewMacrosCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "macros",
		Short: "List the Starlark macros available to templates",
		Long: `List the functions of every .star file in the macros directory
(render.macros_dir, "macros" by default). A file dates.star exporting
month_start is called from a template as {{ dates.month_start(batch_date) }}.

Files are only parsed here; they run when a template is rendered.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			dir := cc.Cfg.Render.MacrosDir
			parsed, err := macro.Describe(dir)
			if err != nil {
				return err
			}

			out := output.MacrosOutput{Dir: dir, Namespaces: make([]output.MacroNamespace, 0, len(parsed))}
			for _, ns := range parsed {
				entry := output.MacroNamespace{
					Name:      ns.Name,
					File:      filepath.Base(ns.FilePath),
					Functions: make([]output.MacroFunction, 0, len(ns.Functions)),
				}
				for _, fn := range ns.Functions {
					entry.Functions = append(entry.Functions, output.MacroFunction{
						Signature: ns.Name + "." + fn.Signature(),
						Doc:       fn.Docstring,
						Line:      fn.Line,
					})
				}
				out.Namespaces = append(out.Namespaces, entry)
			}

			r := cc.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(out)
			}
			if len(out.Namespaces) == 0 {
				r.Muted(fmt.Sprintf("No macros in %s", dir))
				return nil
			}
			var rows [][]string
			for _, ns := range out.Namespaces {
				for _, fn := range ns.Functions {
					rows = append(rows, []string{fn.Signature, fmt.Sprintf("%s:%d", ns.File, fn.Line), fn.Doc})
				}
			}
			r.Header(1, "Macros")
			if r.EffectiveMode() == output.ModeMarkdown {
				r.Println("")
			}
			r.Table([]string{"Function", "Defined at", "Description"}, rows)
			return nil
		},
	}
}
