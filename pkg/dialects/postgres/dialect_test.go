package postgres

import (
	"testing"

	"github.com/ninjasql/ninjasql/pkg/core"
	"github.com/ninjasql/ninjasql/pkg/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	d, ok := dialect.Get("postgres")
	require.True(t, ok)

	assert.Equal(t, "public", d.DefaultSchema)
	assert.Equal(t, core.BindParams, d.Binding)
	assert.Equal(t, "$2", d.FormatPlaceholder(2))
	assert.Equal(t, "TEXT", d.TypeName(core.TypeString))
}

func TestIdentifierQuoting(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"user", `"user"`},
		{"ORDER", `"ORDER"`},
		{"customer_id", "customer_id"},
		{"Customer Name", `"Customer Name"`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Postgres.QuoteIdentifierIfNeeded(tt.in))
		})
	}
}
