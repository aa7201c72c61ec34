package blueprint

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninjasql/ninjasql/internal/config"
	"github.com/ninjasql/ninjasql/internal/testutil"
	"github.com/ninjasql/ninjasql/pkg/scd2"

	_ "github.com/ninjasql/ninjasql/pkg/dialects/duckdb"
)

const (
	customersStaging = "STAGING.STG_customers"
	customersHistory = "PERS_STAGING.PERS_STG_customers"
	ordersHistory    = "PERS_STAGING.PERS_STG_orders"
)

func testConfig(t *testing.T, strategy string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	customers := filepath.Join(dir, "customers.csv")
	orders := filepath.Join(dir, "orders.json")
	require.NoError(t, os.WriteFile(customers, []byte("id,name,city\n1,Ann,Oslo\n2,Bob,Rome\n"), 0o600))
	require.NoError(t, os.WriteFile(orders, []byte(`[{"order_id": 1, "amount": 9.5}]`), 0o600))

	return &config.Config{
		Dialect: "duckdb",
		Staging: config.Naming{Schema: "STAGING", Prefix: "STG_", Role: "staging"},
		History: config.Naming{Schema: "PERS_STAGING", Prefix: "PERS_STG_", Role: "history"},
		SCD2:    config.SCD2Config{Strategy: strategy, ControlTable: "tableloads"},
		Sources: []config.SourceConfig{
			{Name: "customers", Path: customers, LogicalKey: []string{"id"}},
			{Name: "orders", Path: orders, LogicalKey: []string{"order_id"}},
		},
	}
}

func newPlanner(t *testing.T, cfg *config.Config) *Planner {
	t.Helper()
	p, err := NewPlanner(Options{
		Config: cfg,
		Clock:  clockwork.NewFakeClockAt(time.Date(2024, 5, 6, 13, 14, 0, 0, time.UTC)),
		Logger: testutil.NewTestLogger(t),
	})
	require.NoError(t, err)
	return p
}

func names(as []*Artifact) []string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = a.Name
	}
	return out
}

func indexOf(t *testing.T, order []string, name string) int {
	t.Helper()
	for i, n := range order {
		if n == name {
			return i
		}
	}
	t.Fatalf("%s not in %v", name, order)
	return -1
}

func TestPlanner_Templated(t *testing.T) {
	p := newPlanner(t, testConfig(t, "templated"))

	plan, err := p.Plan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 12, plan.Len())
	assert.Equal(t, "duckdb", plan.Dialect)
	assert.Equal(t, time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), plan.Batch.BatchDate, "batch date defaults to the clock's day")

	require.Len(t, plan.Units, 2)
	assert.Equal(t, "customers", plan.Units[0].Source.Name)
	assert.Equal(t, []string{"id", "name", "city"}, plan.Units[0].Staging.Columns())

	ordered, err := plan.Ordered()
	require.NoError(t, err)
	order := names(ordered)

	stagingDDL := StagingDDLName(customersStaging)
	historyDDL := HistoryDDLName(customersHistory)
	newInsert := scd2.ArtifactName(scd2.KindNewInsert, customersHistory)
	updatedInsert := scd2.ArtifactName(scd2.KindUpdatedInsert, customersHistory)
	updatedUpdate := scd2.ArtifactName(scd2.KindUpdatedUpdate, customersHistory)
	deletedUpdate := scd2.ArtifactName(scd2.KindDeletedUpdate, customersHistory)

	assert.Less(t, indexOf(t, order, stagingDDL), indexOf(t, order, newInsert))
	assert.Less(t, indexOf(t, order, historyDDL), indexOf(t, order, newInsert))
	assert.Less(t, indexOf(t, order, newInsert), indexOf(t, order, updatedInsert))
	assert.Less(t, indexOf(t, order, updatedInsert), indexOf(t, order, updatedUpdate))
	assert.Less(t, indexOf(t, order, updatedUpdate), indexOf(t, order, deletedUpdate))

	batches, err := plan.Batches()
	require.NoError(t, err)
	require.Len(t, batches, 5)
	assert.Len(t, batches[0], 4, "all DDL runs first")
	assert.Len(t, batches[1], 2, "both new_insert statements run together")

	a, ok := plan.Artifact(newInsert)
	require.True(t, ok)
	assert.Equal(t, scd2.KindNewInsert, a.Kind)
	assert.Equal(t, "customers", a.Unit)
	assert.ElementsMatch(t, []string{stagingDDL, historyDDL}, a.DependsOn)
	assert.Contains(t, a.SQL, "INSERT INTO")
	assert.Contains(t, a.SQL, "{{ batch_date }}")
	assert.Empty(t, a.Args)

	ddl, ok := plan.Artifact(historyDDL)
	require.True(t, ok)
	assert.Contains(t, ddl.SQL, "CREATE TABLE")
	assert.Contains(t, ddl.SQL, scd2.ColValidToDate)
}

func TestPlanner_ControlTable(t *testing.T) {
	cfg := testConfig(t, "control-table")
	cfg.Batch.Date = "2024-01-31"
	p := newPlanner(t, cfg)

	plan, err := p.Plan(context.Background())
	require.NoError(t, err)

	// Each unit adds reset and insert; the control-table DDL is shared.
	assert.Equal(t, 17, plan.Len())

	ddl, ok := plan.Artifact(scd2.ArtifactName(scd2.KindTableLoadDDL, "tableloads"))
	require.True(t, ok)
	assert.Empty(t, ddl.Unit)

	insert, ok := plan.Artifact(scd2.ArtifactName(scd2.KindTableLoadInsert, ordersHistory))
	require.True(t, ok)
	assert.Contains(t, insert.SQL, "2024-01-31")

	newInsert, ok := plan.Artifact(scd2.ArtifactName(scd2.KindNewInsert, ordersHistory))
	require.True(t, ok)
	assert.Contains(t, newInsert.DependsOn, insert.Name)
	assert.Contains(t, newInsert.SQL, "tableloads")

	batches, err := plan.Batches()
	require.NoError(t, err)
	assert.Contains(t, names(batches[0]), ddl.Name)
}

func TestPlan_Select(t *testing.T) {
	p := newPlanner(t, testConfig(t, "templated"))
	plan, err := p.Plan(context.Background())
	require.NoError(t, err)

	target := scd2.ArtifactName(scd2.KindUpdatedInsert, customersHistory)
	sub, err := plan.Select(target)
	require.NoError(t, err)

	ordered, err := sub.Ordered()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		StagingDDLName(customersStaging),
		HistoryDDLName(customersHistory),
		scd2.ArtifactName(scd2.KindNewInsert, customersHistory),
		target,
	}, names(ordered))
	require.Len(t, sub.Units, 1)
	assert.Equal(t, "customers", sub.Units[0].Source.Name)

	_, err = plan.Select("nope")
	assert.ErrorContains(t, err, "unknown artifact")

	same, err := plan.Select()
	require.NoError(t, err)
	assert.Same(t, plan, same)
}

func TestPlanner_Errors(t *testing.T) {
	t.Run("missing config", func(t *testing.T) {
		_, err := NewPlanner(Options{})
		assert.Error(t, err)
	})

	t.Run("unknown dialect", func(t *testing.T) {
		cfg := testConfig(t, "templated")
		cfg.Dialect = "nosuchdb"
		_, err := NewPlanner(Options{Config: cfg})
		assert.ErrorContains(t, err, "nosuchdb")
	})

	t.Run("bad strategy", func(t *testing.T) {
		_, err := NewPlanner(Options{Config: testConfig(t, "merge")})
		assert.ErrorIs(t, err, scd2.ErrInvalidLoadStrategy)
	})

	t.Run("logical key not in source", func(t *testing.T) {
		cfg := testConfig(t, "templated")
		cfg.Sources[0].LogicalKey = []string{"customer_id"}
		_, err := newPlanner(t, cfg).Plan(context.Background())
		require.ErrorIs(t, err, scd2.ErrInvalidTableDescriptor)
		assert.Contains(t, err.Error(), `source "customers"`)
	})

	t.Run("missing source file", func(t *testing.T) {
		cfg := testConfig(t, "templated")
		cfg.Sources[1].Path = filepath.Join(t.TempDir(), "gone.csv")
		_, err := newPlanner(t, cfg).Plan(context.Background())
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := newPlanner(t, testConfig(t, "templated")).Plan(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
