package mysql

import (
	"testing"
	"time"

	"github.com/ninjasql/ninjasql/pkg/core"
	"github.com/ninjasql/ninjasql/pkg/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	d, ok := dialect.Get("mysql")
	require.True(t, ok)

	assert.Equal(t, core.BindParams, d.Binding)
	assert.Equal(t, "?", d.FormatPlaceholder(4))
	assert.Equal(t, "DATETIME", d.TypeName(core.TypeTimestamp))
}

func TestIdentifierQuoting(t *testing.T) {
	assert.Equal(t, "`key`", MySQL.QuoteIdentifierIfNeeded("key"))
	assert.Equal(t, "`odd``name`", MySQL.QuoteIdentifierIfNeeded("odd`name"))
	assert.Equal(t, "stg.`rows`", MySQL.QuoteQualified("stg.rows"))
}

func TestQuoteString(t *testing.T) {
	assert.Equal(t, `'a\\b'`, MySQL.QuoteString(`a\b`))
	assert.Equal(t, `'it''s'`, MySQL.QuoteString(`it's`))
	assert.Equal(t, `TIMESTAMP '2024-01-31 00:00:00'`,
		MySQL.FormatTimestamp(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)))
}
