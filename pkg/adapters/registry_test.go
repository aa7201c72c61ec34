package adapters_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninjasql/ninjasql/pkg/adapter"
	"github.com/ninjasql/ninjasql/pkg/core"

	_ "github.com/ninjasql/ninjasql/pkg/adapters/duckdb"
	_ "github.com/ninjasql/ninjasql/pkg/adapters/mysql"
	_ "github.com/ninjasql/ninjasql/pkg/adapters/postgres"
	_ "github.com/ninjasql/ninjasql/pkg/adapters/sqlite"
)

func TestRegisteredAdapters(t *testing.T) {
	for _, name := range []string{"duckdb", "mysql", "postgres", "sqlite"} {
		t.Run(name, func(t *testing.T) {
			require.True(t, adapter.IsRegistered(name))
			a, err := adapter.NewAdapter(core.AdapterConfig{Type: name}, nil)
			require.NoError(t, err)
			assert.Equal(t, name, a.Dialect().Name, "adapter dialect matches its registered name")
		})
	}
}

func TestUnknownAdapterListsRegistered(t *testing.T) {
	_, err := adapter.NewAdapter(core.AdapterConfig{Type: "oracle"}, nil)
	var unknown *adapter.UnknownAdapterError
	require.ErrorAs(t, err, &unknown)
	assert.Subset(t, unknown.Available, []string{"duckdb", "mysql", "postgres", "sqlite"})
}
