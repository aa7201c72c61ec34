package main

import (
	"log"
	"path/filepath"
	"sort"

	starctx "github.com/ninjasql/ninjasql/internal/starlark"
	"github.com/ninjasql/ninjasql/pkg/scd2"
)

// GlobalProperty is one documented template global.
type GlobalProperty struct {
	Name        string
	Type        string
	Description string
}

var roleDescriptions = map[scd2.DateRole]string{
	scd2.RoleBatchDate:         "The batch date, `--batch-date` or `batch.date`, else today",
	scd2.RoleValidFromDate:     "First day a new row version is valid (the batch date)",
	scd2.RoleValidToDate:       "End date of open rows (`9999-12-31`)",
	scd2.RoleOffsetValidToDate: "End date written to closed rows (the day before the batch date)",
}

var helperDescriptions = map[string]GlobalProperty{
	"add_days":  {Type: "function", Description: "`add_days(date, n)` returns the date n days later"},
	"timestamp": {Type: "function", Description: "`timestamp(date)` returns `YYYY-MM-DD 00:00:00`"},
	"quote":     {Type: "function", Description: "`quote(s)` returns an SQL string literal"},
}

// getGlobalsSchema lists the globals of a template evaluation.
func getGlobalsSchema() []GlobalProperty {
	var out []GlobalProperty
	for _, role := range scd2.DateRoles() {
		out = append(out, GlobalProperty{Name: string(role), Type: "string", Description: roleDescriptions[role]})
	}
	for _, role := range scd2.DateRoles() {
		out = append(out, GlobalProperty{Name: "batch." + string(role), Type: "string", Description: "Same as " + inlineCode(string(role))})
	}
	out = append(out,
		GlobalProperty{Name: "target.type", Type: "string", Description: "Target type (duckdb, postgres, sqlite, mysql)"},
		GlobalProperty{Name: "target.schema", Type: "string", Description: "Target default schema"},
		GlobalProperty{Name: "target.database", Type: "string", Description: "Target database"},
		GlobalProperty{Name: "vars", Type: "dict", Description: "`render.vars` from the config; each var is also a top-level name"},
	)

	names := make([]string, 0, len(starctx.Helpers()))
	for name := range starctx.Helpers() {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		g := helperDescriptions[name]
		g.Name = name
		out = append(out, g)
	}
	return out
}

// generateGlobalsDocs writes globals.md.
func generateGlobalsDocs(outDir string) error {
	log.Printf("Generating globals docs to %s", outDir)

	p := newPage("Template Globals", "Names available inside {{ ... }} expressions")
	p.header(1, "Template Globals")
	p.paragraph("Statements of the templated strategy carry `{{ ... }}` placeholders. `ninjasql render` and " +
		"`ninjasql apply` evaluate each placeholder as a Starlark expression over these globals.")
	p.code("sql", "UPDATE PERS_STG_customers SET VALID_TO_DATE = '{{ offset_valid_to_date }}'\nWHERE VALID_TO_DATE = '{{ valid_to_date }}'")

	p.header(2, "Reference")
	var rows [][]string
	for _, g := range getGlobalsSchema() {
		rows = append(rows, []string{inlineCode(g.Name), g.Type, g.Description})
	}
	p.table([]string{"Name", "Type", "Description"}, rows)

	p.header(2, "Macros")
	p.paragraph("Each `<name>.star` file in `render.macros_dir` becomes the namespace `<name>`. " +
		"Macro files may call the helper functions above. `ninjasql macros` lists what is available.")
	p.code("python", "# macros/dates.star\ndef month_start(date):\n    return date[:8] + \"01\"")
	p.code("sql", "SELECT * FROM orders WHERE order_date >= '{{ dates.month_start(batch_date) }}'")

	return p.write(filepath.Join(outDir, "globals.md"))
}
