package duckdb

import (
	"testing"
	"time"

	"github.com/ninjasql/ninjasql/pkg/core"
	"github.com/ninjasql/ninjasql/pkg/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	d := DuckDB

	require.NotNil(t, d)
	assert.Equal(t, "duckdb", d.Name)
	assert.Equal(t, "main", d.DefaultSchema)
	assert.Equal(t, core.BindInline, d.Binding)
	assert.Equal(t, "DOUBLE", d.TypeName(core.TypeDouble))
}

func TestDialectRegistration(t *testing.T) {
	d, ok := dialect.Get("DuckDB")
	require.True(t, ok, "duckdb dialect should be registered")
	assert.Equal(t, "duckdb", d.Name)
}

func TestIdentifierQuoting(t *testing.T) {
	assert.Equal(t, `"qualify"`, DuckDB.QuoteIdentifierIfNeeded("qualify"))
	assert.Equal(t, "VALID_TO_DATE", DuckDB.QuoteIdentifierIfNeeded("VALID_TO_DATE"))
	assert.Equal(t, "customers", DuckDB.NormalizeName("Customers"))
}

func TestTimestampLiteral(t *testing.T) {
	ts := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "TIMESTAMP '9999-12-31 00:00:00'", DuckDB.FormatTimestamp(ts))
}
