package duckdb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninjasql/ninjasql/pkg/adapter"
	"github.com/ninjasql/ninjasql/pkg/core"
)

func connect(t *testing.T, cfg core.AdapterConfig) *Adapter {
	t.Helper()
	adp := New(nil)
	require.NoError(t, adp.Connect(context.Background(), cfg))
	t.Cleanup(func() { _ = adp.Close() })
	return adp
}

func TestAdapter_Connect(t *testing.T) {
	t.Run("in-memory", func(t *testing.T) {
		adp := connect(t, core.AdapterConfig{})
		assert.True(t, adp.IsConnected())
	})

	t.Run("file-based", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.duckdb")
		connect(t, core.AdapterConfig{Path: path})
		_, err := os.Stat(path)
		assert.NoError(t, err, "database file was not created")
	})

	t.Run("settings", func(t *testing.T) {
		adp := connect(t, core.AdapterConfig{Params: map[string]any{
			"settings": map[string]any{"threads": "2"},
		}})
		var threads int
		require.NoError(t, adp.DB.QueryRowContext(context.Background(),
			"SELECT current_setting('threads')").Scan(&threads))
		assert.Equal(t, 2, threads)
	})

	t.Run("bad params", func(t *testing.T) {
		err := New(nil).Connect(context.Background(), core.AdapterConfig{Params: map[string]any{"bogus": 1}})
		assert.ErrorContains(t, err, "invalid duckdb params")
	})
}

func TestAdapter_NotConnected(t *testing.T) {
	adp := New(nil)
	assert.ErrorIs(t, adp.Exec(context.Background(), "SELECT 1"), adapter.ErrNotConnected)
	_, err := adp.GetTableMetadata(context.Background(), "t")
	assert.ErrorIs(t, err, adapter.ErrNotConnected)
	assert.NoError(t, adp.Close())
}

func TestAdapter_ExecAndIntrospect(t *testing.T) {
	ctx := context.Background()
	adp := connect(t, core.AdapterConfig{})

	require.NoError(t, adp.Exec(ctx, `CREATE SCHEMA "STAGING"`))
	require.NoError(t, adp.Exec(ctx, `CREATE TABLE "STAGING"."STG_customers" (id BIGINT NOT NULL, name VARCHAR, signup DATE)`))
	require.NoError(t, adp.Exec(ctx, `INSERT INTO "STAGING"."STG_customers" VALUES (?, ?, ?)`, 1, "alice", "2024-01-31"))

	meta, err := adp.GetTableMetadata(ctx, "STAGING.STG_customers")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "signup"}, meta.ColumnNames())
	assert.False(t, meta.Columns[0].Nullable)
	assert.True(t, meta.Columns[1].Nullable)

	desc, _, err := adapter.Introspect(ctx, adp, "STAGING.STG_customers", "id")
	require.NoError(t, err)
	assert.Equal(t, []string{"id"}, desc.LogicalKey())

	_, err = adp.GetTableMetadata(ctx, "missing")
	var notFound *adapter.TableNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestAdapter_Dialect(t *testing.T) {
	assert.Equal(t, "duckdb", New(nil).Dialect().Name)
	assert.Equal(t, "main", New(nil).Dialect().DefaultSchema)
}
