package scd2

import (
	"testing"

	"github.com/ninjasql/ninjasql/pkg/sqlexpr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func customerPair(t *testing.T, rowVersion string) (*TableDescriptor, *TableDescriptor) {
	t.Helper()
	stg, err := NewTableDescriptor("STAGING.STG_customers", []string{"id", "name", "city"}, "id")
	require.NoError(t, err)
	hist, err := NewHistoryDescriptor("PERS_STAGING.PERS_STG_customers", stg, rowVersion)
	require.NoError(t, err)
	return stg, hist
}

func TestNewBuilder_Validation(t *testing.T) {
	stg, hist := customerPair(t, "")
	unkeyed, err := NewTableDescriptor("stg", []string{"id"})
	require.NoError(t, err)
	narrowHist, err := NewTableDescriptor("hist", []string{"id", "name", "UPDATED_AT", "BATCH_RUN_AT", "VALID_FROM_DATE", "VALID_TO_DATE"})
	require.NoError(t, err)
	noTech, err := NewTableDescriptor("hist", []string{"id", "name", "city"})
	require.NoError(t, err)
	sameName, err := NewHistoryDescriptor("staging.stg_customers", stg, "")
	require.NoError(t, err)

	tests := []struct {
		name       string
		staging    *TableDescriptor
		history    *TableDescriptor
		rowVersion string
		wantColumn string
	}{
		{name: "nil staging", history: hist},
		{name: "nil history", staging: stg},
		{name: "no logical key", staging: unkeyed, history: hist},
		{name: "history is the staging table", staging: stg, history: sameName},
		{name: "staging column missing in history", staging: stg, history: narrowHist, wantColumn: "city"},
		{name: "technical column missing", staging: stg, history: noTech, wantColumn: "UPDATED_AT"},
		{name: "row version missing", staging: stg, history: hist, rowVersion: "ROW_VERSION", wantColumn: "ROW_VERSION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBuilder(tt.staging, tt.history, tt.rowVersion)
			require.ErrorIs(t, err, ErrInvalidTableDescriptor)
			var descErr *InvalidTableDescriptorError
			require.ErrorAs(t, err, &descErr)
			assert.Equal(t, tt.wantColumn, descErr.Column)
		})
	}
}

func TestBuilder_Columns(t *testing.T) {
	stg, hist := customerPair(t, "ROW_VERSION")
	b, err := NewBuilder(stg, hist, "ROW_VERSION")
	require.NoError(t, err)

	assert.Equal(t, []sqlexpr.Column{
		sqlexpr.Col("STAGING.STG_customers", "id"),
		sqlexpr.Col("STAGING.STG_customers", "name"),
		sqlexpr.Col("STAGING.STG_customers", "city"),
	}, b.StagingColumns())

	// The raw intersection keeps the key; comparisons drop it.
	assert.Equal(t, []string{"id", "name", "city"}, b.BusinessColumns())
	assert.Equal(t, []string{"name", "city"}, b.ComparableColumns())
}

func TestBuilder_BusinessColumnsIntersection(t *testing.T) {
	stg, err := NewTableDescriptor("stg", []string{"id", "only_staging", "shared"}, "id")
	require.NoError(t, err)
	hist, err := NewTableDescriptor("hist", []string{
		"shared", "id", "only_staging", "only_history",
		"UPDATED_AT", "BATCH_RUN_AT", "VALID_FROM_DATE", "VALID_TO_DATE",
	})
	require.NoError(t, err)

	b, err := NewBuilder(stg, hist, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "only_staging", "shared"}, b.BusinessColumns(), "staging order is kept")
	assert.NotContains(t, b.BusinessColumns(), "only_history")
}

func TestBuilder_Predicates(t *testing.T) {
	stg, err := NewTableDescriptor("s", []string{"k1", "k2", "v"}, "k1", "k2")
	require.NoError(t, err)
	hist, err := NewHistoryDescriptor("h", stg, "")
	require.NoError(t, err)
	b, err := NewBuilder(stg, hist, "")
	require.NoError(t, err)

	assert.Equal(t, []sqlexpr.Equals{
		sqlexpr.Eq(sqlexpr.Col("s", "k1"), sqlexpr.Col("h", "k1")),
		sqlexpr.Eq(sqlexpr.Col("s", "k2"), sqlexpr.Col("h", "k2")),
	}, b.KeyEqualityPredicates())

	assert.Equal(t, []sqlexpr.NotEquals{
		sqlexpr.Ne(sqlexpr.Col("s", "v"), sqlexpr.Col("h", "v")),
	}, b.ChangePredicates())

	assert.Len(t, b.KeyMatch().Items, 2)
	assert.Len(t, b.AnyChanged().Items, 1)
}

func TestBuilder_NoComparableColumns(t *testing.T) {
	stg, err := NewTableDescriptor("s", []string{"id"}, "id")
	require.NoError(t, err)
	hist, err := NewHistoryDescriptor("h", stg, "")
	require.NoError(t, err)
	b, err := NewBuilder(stg, hist, "")
	require.NoError(t, err)

	assert.Empty(t, b.ChangePredicates())
	assert.Empty(t, b.AnyChanged().Items)
}

func TestBuilder_MetadataColumns(t *testing.T) {
	stg, hist := customerPair(t, "")
	b, err := NewBuilder(stg, hist, "")
	require.NoError(t, err)

	t.Run("templated", func(t *testing.T) {
		assert.Equal(t, []MetadataColumn{
			{Name: "UPDATED_AT", Value: sqlexpr.Now()},
			{Name: "BATCH_RUN_AT", Value: sqlexpr.Tok("batch_date")},
			{Name: "VALID_FROM_DATE", Value: sqlexpr.Tok("valid_from_date")},
			{Name: "VALID_TO_DATE", Value: sqlexpr.Tok("valid_to_date")},
		}, b.MetadataColumns(TemplatedResolver{}))
	})

	t.Run("control table", func(t *testing.T) {
		r := ControlTableResolver{Name: hist.Name()}
		meta := b.MetadataColumns(r)
		require.Len(t, meta, 4)
		assert.Equal(t, sqlexpr.Now(), meta[0].Value)

		sub, ok := meta[1].Value.(sqlexpr.ScalarSubquery)
		require.True(t, ok)
		assert.Equal(t, "tableloads", sub.Query.From)
		assert.Equal(t, []sqlexpr.Expr{sqlexpr.Col("tableloads", "BatchDate")}, sub.Query.Columns)
		assert.Equal(t, sqlexpr.Eq(sqlexpr.Col("tableloads", "name"), sqlexpr.Lit(hist.Name())), sub.Query.Where)
	})
}
