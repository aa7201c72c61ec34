package main

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ninjasql/ninjasql/internal/cli"
)

// generateCLIDocs writes index.md plus one page per command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)
	root := cli.NewRootCmd()

	if err := generateCLIIndex(root, outDir); err != nil {
		return fmt.Errorf("failed to generate index: %w", err)
	}
	for _, cmd := range visibleCommands(root) {
		if err := generateCommandPage(cmd, outDir); err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", cmd.Name(), err)
		}
		log.Printf("  Generated %s.md", cmd.Name())
	}
	return nil
}

func visibleCommands(root *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, cmd := range root.Commands() {
		if cmd.Hidden || cmd.Name() == "help" || cmd.Name() == "__complete" {
			continue
		}
		out = append(out, cmd)
	}
	return out
}

func generateCLIIndex(root *cobra.Command, outDir string) error {
	p := newPage("CLI Reference", "Command-line interface reference for ninjasql")
	p.header(1, "CLI Reference")
	p.paragraph(root.Long)

	p.header(2, "Installation")
	p.code("bash", "go install github.com/ninjasql/ninjasql/cmd/ninjasql@latest")

	p.header(2, "Commands")
	var rows [][]string
	for _, cmd := range visibleCommands(root) {
		rows = append(rows, []string{fmt.Sprintf("[%s](%s.md)", inlineCode(cmd.Name()), cmd.Name()), cmd.Short})
	}
	p.table([]string{"Command", "Description"}, rows)

	p.header(2, "Global Options")
	writeFlagsTable(p, root.PersistentFlags())

	p.header(2, "Environment Variables")
	p.paragraph("Every config key can be set as `NINJASQL_<KEY>`, with `__` separating nested keys " +
		"(`NINJASQL_SCD2__STRATEGY=control-table`). A `.env` file in the project root is loaded first. " +
		"Command-line flags take precedence over environment variables.")

	p.header(2, "Exit Codes")
	p.table([]string{"Code", "Meaning"}, [][]string{
		{inlineCode("0"), "Success"},
		{inlineCode("1"), "Error (check stderr for details)"},
	})
	return p.write(filepath.Join(outDir, "index.md"))
}

func generateCommandPage(cmd *cobra.Command, outDir string) error {
	p := newPage(cmd.Name(), cmd.Short)
	p.header(1, cmd.Name())
	if cmd.Long != "" {
		p.paragraph(cmd.Long)
	} else {
		p.paragraph(cmd.Short)
	}

	p.header(2, "Usage")
	p.code("bash", cmd.UseLine())

	if cmd.HasSubCommands() {
		p.header(2, "Subcommands")
		var rows [][]string
		for _, sub := range cmd.Commands() {
			if !sub.Hidden {
				rows = append(rows, []string{inlineCode(sub.Name()), sub.Short})
			}
		}
		p.table([]string{"Subcommand", "Description"}, rows)
	}
	if cmd.HasLocalFlags() {
		p.header(2, "Options")
		writeFlagsTable(p, cmd.LocalFlags())
	}
	if cmd.Example != "" {
		p.header(2, "Examples")
		p.code("bash", cleanExample(cmd.Example))
	}
	return p.write(filepath.Join(outDir, cmd.Name()+".md"))
}

func writeFlagsTable(p *page, flags *pflag.FlagSet) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		short := ""
		if f.Shorthand != "" {
			short = "-" + f.Shorthand
		}
		def := f.DefValue
		if f.Value.Type() == "string" && def != "" {
			def = inlineCode(def)
		}
		rows = append(rows, []string{inlineCode("--" + f.Name), short, def, f.Usage})
	})
	p.table([]string{"Option", "Short", "Default", "Description"}, rows)
}

// cleanExample removes the common leading indentation of an example.
func cleanExample(example string) string {
	lines := strings.Split(example, "\n")
	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent <= 0 {
		return strings.TrimSpace(example)
	}
	for i, line := range lines {
		if len(line) >= minIndent {
			lines[i] = line[minIndent:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
