package cli

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninjasql/ninjasql/internal/cli/output"
	"github.com/ninjasql/ninjasql/internal/writer"
	"github.com/ninjasql/ninjasql/pkg/scd2"

	_ "github.com/ninjasql/ninjasql/pkg/adapters/sqlite"
	_ "github.com/ninjasql/ninjasql/pkg/dialects/sqlite"
)

const projectConfig = `dialect: sqlite
target:
  type: sqlite
  database: warehouse.db
staging:
  prefix: STG_
history:
  prefix: PERS_STG_
scd2:
  strategy: templated
batch:
  date: "2024-05-06"
render:
  vars:
    tenant: acme
sources:
  - name: customers
    path: data/customers.csv
    logical_key: [id]
`

const customersCSV = "id,name,city\n1,ann,Oslo\n2,bob,Bergen\n"

func setupProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "customers.csv"), []byte(customersCSV), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ninjasql.yaml"), []byte(projectConfig), 0o600))
	return dir
}

// run executes the CLI against the project in dir and returns stdout.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC))
	cmd := newRootCmd(clock)
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(append([]string{"--config", filepath.Join(dir, "ninjasql.yaml")}, args...))
	err := cmd.ExecuteContext(context.Background())
	if err != nil {
		t.Logf("stderr: %s", errOut.String())
	}
	return out.String(), err
}

func runJSON(t *testing.T, dir string, v any, args ...string) {
	t.Helper()
	out, err := run(t, dir, append(args, "--output", "json")...)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), v), out)
}

func TestGenerate(t *testing.T) {
	dir := setupProject(t)

	var first output.GenerateOutput
	runJSON(t, dir, &first, "generate")
	assert.Equal(t, 6, first.Artifacts)
	assert.Equal(t, filepath.Join(dir, "build"), first.OutputDir)
	require.NotNil(t, first.Diff)
	assert.Len(t, first.Diff.Added, 6)
	assert.NotEmpty(t, first.RunID)

	m, err := writer.ReadManifest(first.OutputDir)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", m.Dialect)
	assert.Equal(t, "2024-05-06", m.Batch["batch_date"])
	assert.Contains(t, m.Order, "scd2_new_insert_PERS_STG_customers")

	var second output.GenerateOutput
	runJSON(t, dir, &second, "generate")
	assert.Empty(t, second.Diff.Added)
	assert.Empty(t, second.Diff.Changed)
	assert.Equal(t, 6, second.Diff.Unchanged)
	assert.Empty(t, second.Diff.Affected)

	// The open-row check slots in before updated_insert; everything after it
	// has to be re-applied even if its SQL is the same.
	cfg := strings.Replace(projectConfig, "  strategy: templated\n", "  strategy: templated\n  open_row_check: true\n", 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ninjasql.yaml"), []byte(cfg), 0o600))
	var checked output.GenerateOutput
	runJSON(t, dir, &checked, "generate")
	assert.Equal(t, []string{"scd2_open_row_check_PERS_STG_customers"}, checked.Diff.Added)
	assert.Equal(t, []string{
		"scd2_deleted_update_PERS_STG_customers",
		"scd2_open_row_check_PERS_STG_customers",
		"scd2_updated_insert_PERS_STG_customers",
		"scd2_updated_update_PERS_STG_customers",
	}, checked.Diff.Affected)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ninjasql.yaml"), []byte(projectConfig), 0o600))

	// A new source column changes every statement that lists columns.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "customers.csv"),
		[]byte("id,name,city,email\n1,ann,Oslo,a@x\n"), 0o600))
	var third output.GenerateOutput
	runJSON(t, dir, &third, "generate")
	assert.NotEmpty(t, third.Diff.Changed)
	assert.Contains(t, third.Diff.Changed, "ddl_staging_STG_customers")

	var hist output.HistoryOutput
	runJSON(t, dir, &hist, "history")
	require.Len(t, hist.Runs, 4)
	assert.Equal(t, third.RunID, hist.Runs[0].ID)
	assert.Equal(t, 6, hist.Runs[0].Artifacts)
}

func TestGenerate_Select(t *testing.T) {
	dir := setupProject(t)

	var out output.GenerateOutput
	runJSON(t, dir, &out, "generate", "--select", "scd2_new_insert_PERS_STG_customers")
	assert.Equal(t, 3, out.Artifacts, "new_insert and both DDL prerequisites")

	_, err := run(t, dir, "generate", "--select", "nope")
	assert.ErrorContains(t, err, "unknown artifact")
}

func TestPlan(t *testing.T) {
	dir := setupProject(t)

	var plan output.PlanOutput
	runJSON(t, dir, &plan, "plan")
	assert.Equal(t, "sqlite", plan.Dialect)
	assert.Equal(t, "templated", plan.Strategy)
	assert.Equal(t, "2024-05-06", plan.BatchDate)
	require.NotEmpty(t, plan.Batches)

	var first []string
	for _, a := range plan.Batches[0] {
		first = append(first, a.Name)
	}
	assert.ElementsMatch(t, []string{"ddl_staging_STG_customers", "ddl_history_PERS_STG_customers"}, first)

	last := plan.Batches[len(plan.Batches)-1]
	require.Len(t, last, 1)
	assert.Equal(t, "scd2_deleted_update_PERS_STG_customers", last[0].Name)

	md, err := run(t, dir, "plan", "--output", "markdown")
	require.NoError(t, err)
	assert.Contains(t, md, "# Plan")
	assert.Contains(t, md, "| Batch |")
}

func TestRender(t *testing.T) {
	dir := setupProject(t)
	file := filepath.Join(dir, "q.sql")
	require.NoError(t, os.WriteFile(file,
		[]byte("SELECT '{{ batch_date }}', '{{ valid_to_date }}', '{{ offset_valid_to_date }}', '{{ tenant }}'"), 0o600))

	out, err := run(t, dir, "render", "--file", file, "--output", "text")
	require.NoError(t, err)
	assert.Equal(t, "SELECT '2024-05-06', '9999-12-31', '2024-05-05', 'acme'\n", out)

	var res output.RenderOutput
	runJSON(t, dir, &res, "render", "--file", file, "--batch-date", "2024-01-31")
	assert.Equal(t, "2024-01-31", res.BatchDate)
	assert.Contains(t, res.SQL, "'2024-01-30'")

	_, err = run(t, dir, "render")
	assert.ErrorContains(t, err, `required flag(s) "file" not set`)
}

func TestTableLoad(t *testing.T) {
	dir := setupProject(t)

	var out output.TableLoadOutput
	runJSON(t, dir, &out, "tableload", "--history", "customers")
	assert.Equal(t, "PERS_STG_customers", out.History)
	assert.Contains(t, out.DDL, "CREATE TABLE IF NOT EXISTS")
	assert.Contains(t, out.Reset, "DELETE FROM")
	assert.Contains(t, out.Insert, "PERS_STG_customers")
	assert.Contains(t, out.Insert, "2024-05-06")

	runJSON(t, dir, &out, "tableload", "--history", "other_table")
	assert.Equal(t, "other_table", out.History)
}

func TestApply(t *testing.T) {
	dir := setupProject(t)

	var dry output.ApplyOutput
	runJSON(t, dir, &dry, "apply", "--dry-run")
	assert.True(t, dry.DryRun)
	assert.Len(t, dry.Executed, 6)
	_, err := os.Stat(filepath.Join(dir, "warehouse.db"))
	assert.True(t, os.IsNotExist(err), "dry run must not connect")

	var applied output.ApplyOutput
	runJSON(t, dir, &applied, "apply")
	assert.Equal(t, "sqlite", applied.Target)
	assert.Len(t, applied.Executed, 6)

	db, err := sql.Open("sqlite", filepath.Join(dir, "warehouse.db"))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	_, err = db.Exec(`INSERT INTO STG_customers (id, name, city) VALUES (1, 'ann', 'Oslo'), (2, 'bob', 'Bergen')`)
	require.NoError(t, err)

	runJSON(t, dir, &applied, "apply")

	var open int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM PERS_STG_customers WHERE VALID_TO_DATE = '9999-12-31'`).Scan(&open))
	assert.Equal(t, 2, open)
}

func TestApply_OpenRowCheck(t *testing.T) {
	dir := setupProject(t)
	cfg := strings.Replace(projectConfig, "  strategy: templated\n", "  strategy: templated\n  open_row_check: true\n", 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ninjasql.yaml"), []byte(cfg), 0o600))

	var applied output.ApplyOutput
	runJSON(t, dir, &applied, "apply")
	assert.Contains(t, applied.Executed, "scd2_open_row_check_PERS_STG_customers")

	db, err := sql.Open("sqlite", filepath.Join(dir, "warehouse.db"))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	_, err = db.Exec(`INSERT INTO STG_customers (id, name, city) VALUES (1, 'ann', 'Oslo'), (2, 'bob', 'Bergen')`)
	require.NoError(t, err)
	runJSON(t, dir, &applied, "apply")

	// A second open row for id 1, then a change that updated_insert would fan out.
	_, err = db.Exec(`INSERT INTO PERS_STG_customers (id, name, city, UPDATED_AT, BATCH_RUN_AT, VALID_FROM_DATE, VALID_TO_DATE)
		VALUES (1, 'ann', 'Oslo', '2024-05-01 00:00:00', '2024-05-01', '2024-05-01', '9999-12-31')`)
	require.NoError(t, err)
	_, err = db.Exec(`UPDATE STG_customers SET name = 'ANN' WHERE id = 1`)
	require.NoError(t, err)

	_, err = run(t, dir, "apply")
	require.ErrorIs(t, err, scd2.ErrOpenRowConflict)
	var conflict *scd2.OpenRowConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "PERS_STG_customers", conflict.Table)
	assert.Equal(t, []string{"id=1"}, conflict.Keys)

	var changed int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM PERS_STG_customers WHERE name = 'ANN'`).Scan(&changed))
	assert.Zero(t, changed, "updated_insert must not run")
}

func TestIntrospect(t *testing.T) {
	dir := setupProject(t)
	_, err := run(t, dir, "apply", "--select", "ddl_staging_STG_customers")
	require.NoError(t, err)

	var out output.IntrospectOutput
	runJSON(t, dir, &out, "introspect", "STG_customers", "--key", "id")
	assert.Equal(t, "STG_customers", out.Table)
	assert.Equal(t, []string{"id"}, out.LogicalKey)
	require.Len(t, out.Columns, 3)
	assert.Equal(t, "name", out.Columns[1].Name)

	_, err = run(t, dir, "introspect", "STG_customers", "--key", "customer_id")
	assert.Error(t, err)
}

func TestRootErrors(t *testing.T) {
	dir := setupProject(t)

	_, err := run(t, dir, "plan", "--output", "yaml")
	assert.ErrorContains(t, err, "unknown output format")

	_, err = run(t, dir, "plan", "--strategy", "hourly")
	assert.Error(t, err)

	missing := t.TempDir()
	cmd := newRootCmd(clockwork.NewFakeClock())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", filepath.Join(missing, "nope.yaml"), "plan"})
	assert.Error(t, cmd.Execute())
}

func TestVersionAndCompletion(t *testing.T) {
	cmd := newRootCmd(clockwork.NewFakeClock())
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), fmt.Sprintf("ninjasql v%s", Version))

	cmd = newRootCmd(clockwork.NewFakeClock())
	out.Reset()
	cmd.SetOut(out)
	cmd.SetArgs([]string{"completion", "bash"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "ninjasql")
}

func TestMacros(t *testing.T) {
	dir := setupProject(t)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "macros"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "macros", "dates.star"), []byte(`
def month_start(date):
    """First day of the month."""
    return date[:8] + "01"
`), 0o600))

	var list output.MacrosOutput
	runJSON(t, dir, &list, "macros")
	require.Len(t, list.Namespaces, 1)
	assert.Equal(t, "dates.star", list.Namespaces[0].File)
	require.Len(t, list.Namespaces[0].Functions, 1)
	assert.Equal(t, "dates.month_start(date)", list.Namespaces[0].Functions[0].Signature)

	file := filepath.Join(dir, "q.sql")
	require.NoError(t, os.WriteFile(file, []byte("SELECT '{{ dates.month_start(batch_date) }}'"), 0o600))
	out, err := run(t, dir, "render", "--file", file, "--output", "text")
	require.NoError(t, err)
	assert.Equal(t, "SELECT '2024-05-01'\n", out)
}
