package format

import (
	"testing"
	"time"

	"github.com/ninjasql/ninjasql/pkg/core"
	"github.com/ninjasql/ninjasql/pkg/dialect"
	duckdbdialect "github.com/ninjasql/ninjasql/pkg/dialects/duckdb"
	postgresdialect "github.com/ninjasql/ninjasql/pkg/dialects/postgres"
	"github.com/ninjasql/ninjasql/pkg/sqlexpr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var openSentinel = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

func closeStatement() *sqlexpr.Update {
	return &sqlexpr.Update{
		Table: "hist",
		Set: []sqlexpr.Assignment{
			{Column: "VALID_TO_DATE", Value: sqlexpr.Subquery(&sqlexpr.Select{
				Columns: []sqlexpr.Expr{sqlexpr.Col("tableloads", "OffsetValidToDate")},
				From:    "tableloads",
				Where:   sqlexpr.Eq(sqlexpr.Col("tableloads", "name"), sqlexpr.Lit("hist")),
			})},
			{Column: "UPDATED_AT", Value: sqlexpr.Now()},
		},
		Where: sqlexpr.AndOf(sqlexpr.Eq(sqlexpr.Col("hist", "VALID_TO_DATE"), sqlexpr.Timestamp(openSentinel))),
	}
}

func TestFormat_Select(t *testing.T) {
	d := duckdbdialect.DuckDB
	tests := []struct {
		name     string
		stmt     *sqlexpr.Select
		expected string
	}{
		{
			name: "columns and alias",
			stmt: &sqlexpr.Select{
				Columns: []sqlexpr.Expr{sqlexpr.Col("t", "a"), sqlexpr.As(sqlexpr.Col("t", "b"), "bee")},
				From:    "s.t",
			},
			expected: `SELECT
  t.a,
  t.b AS bee
FROM s.t
`,
		},
		{
			name: "where with nested or",
			stmt: &sqlexpr.Select{
				Columns: []sqlexpr.Expr{sqlexpr.Star{}},
				From:    "t",
				Where: sqlexpr.AndOf(
					sqlexpr.Eq(sqlexpr.Col("t", "a"), sqlexpr.Lit(1)),
					sqlexpr.OrOf(
						sqlexpr.Ne(sqlexpr.Col("t", "b"), sqlexpr.Lit("x")),
						sqlexpr.Ne(sqlexpr.Col("t", "c"), sqlexpr.Lit(nil)),
					),
				),
			},
			expected: `SELECT
  *
FROM t
WHERE
  t.a = 1
  AND (t.b <> 'x' OR t.c <> NULL)
`,
		},
		{
			name: "join and group by",
			stmt: &sqlexpr.Select{
				Columns: []sqlexpr.Expr{sqlexpr.Col("h", "id"), sqlexpr.As(sqlexpr.Count{}, "open_rows")},
				From:    "h",
				Joins: []sqlexpr.Join{{
					Table: "s",
					On:    sqlexpr.AndOf(sqlexpr.Eq(sqlexpr.Col("s", "id"), sqlexpr.Col("h", "id"))),
				}},
				GroupBy: []sqlexpr.Expr{sqlexpr.Col("h", "id")},
				Having:  sqlexpr.Gt(sqlexpr.Count{}, sqlexpr.Lit(1)),
			},
			expected: `SELECT
  h.id,
  COUNT(*) AS open_rows
FROM h
JOIN s ON s.id = h.id
GROUP BY
  h.id
HAVING
  COUNT(*) > 1
`,
		},
		{
			name: "reserved words quoted",
			stmt: &sqlexpr.Select{
				Columns: []sqlexpr.Expr{sqlexpr.Col("from", "order")},
				From:    "from",
			},
			expected: `SELECT
  "from"."order"
FROM "from"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SQL(tt.stmt, d)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFormat_InsertNotExists(t *testing.T) {
	stmt := &sqlexpr.Insert{
		Table:   "hist",
		Columns: []string{"id", "name"},
		Query: &sqlexpr.Select{
			Columns: []sqlexpr.Expr{sqlexpr.Col("stg", "id"), sqlexpr.Col("stg", "name")},
			From:    "stg",
			Where: sqlexpr.NotExists{Query: sqlexpr.SelectOne("hist",
				sqlexpr.AndOf(sqlexpr.Eq(sqlexpr.Col("hist", "id"), sqlexpr.Col("stg", "id"))))},
		},
	}

	got, err := SQL(stmt, duckdbdialect.DuckDB)
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO hist (
  id,
  name
)
SELECT
  stg.id,
  stg.name
FROM stg
WHERE
  NOT EXISTS (
    SELECT
      1
    FROM hist
    WHERE
      hist.id = stg.id
  )
`, got)
}

func TestFormat_InsertValues(t *testing.T) {
	stmt := &sqlexpr.Insert{
		Table:   "tableloads",
		Columns: []string{"name", "BatchDate"},
		Values:  []sqlexpr.Expr{sqlexpr.Lit("hist"), sqlexpr.Timestamp(openSentinel)},
	}

	r, err := Render(stmt, postgresdialect.Postgres, Options{})
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO tableloads (
  name,
  BatchDate
)
VALUES (
  $1,
  $2
)
`, r.SQL)
	assert.Equal(t, []any{"hist", openSentinel}, r.Args)
}

func TestFormat_UpdateBinding(t *testing.T) {
	t.Run("inline", func(t *testing.T) {
		got, err := SQL(closeStatement(), duckdbdialect.DuckDB)
		require.NoError(t, err)
		assert.Equal(t, `UPDATE hist
SET
  VALID_TO_DATE = (SELECT tableloads.OffsetValidToDate FROM tableloads WHERE tableloads.name = 'hist'),
  UPDATED_AT = CURRENT_TIMESTAMP
WHERE
  hist.VALID_TO_DATE = TIMESTAMP '9999-12-31 00:00:00'
`, got)
	})

	t.Run("dialect default params", func(t *testing.T) {
		r, err := Render(closeStatement(), postgresdialect.Postgres, Options{})
		require.NoError(t, err)
		assert.Equal(t, `UPDATE hist
SET
  VALID_TO_DATE = (SELECT tableloads.OffsetValidToDate FROM tableloads WHERE tableloads.name = $1),
  UPDATED_AT = CURRENT_TIMESTAMP
WHERE
  hist.VALID_TO_DATE = $2
`, r.SQL)
		assert.Equal(t, []any{"hist", openSentinel}, r.Args)
	})

	t.Run("override to inline", func(t *testing.T) {
		r, err := Render(closeStatement(), postgresdialect.Postgres, Inline())
		require.NoError(t, err)
		assert.Empty(t, r.Args)
		assert.Contains(t, r.SQL, "tableloads.name = 'hist'")
	})

	t.Run("override to params", func(t *testing.T) {
		r, err := Render(closeStatement(), duckdbdialect.DuckDB, Params())
		require.NoError(t, err)
		assert.Contains(t, r.SQL, "tableloads.name = ?")
		assert.Len(t, r.Args, 2)
	})
}

func TestFormat_TokensNeverBound(t *testing.T) {
	stmt := &sqlexpr.Update{
		Table: "hist",
		Set:   []sqlexpr.Assignment{{Column: "VALID_TO_DATE", Value: sqlexpr.Tok("offset_valid_to_date")}},
		Where: sqlexpr.Lt(sqlexpr.Col("hist", "BATCH_RUN_AT"), sqlexpr.Tok("batch_date")),
	}

	r, err := Render(stmt, postgresdialect.Postgres, Params())
	require.NoError(t, err)
	assert.Empty(t, r.Args)
	assert.Equal(t, `UPDATE hist
SET
  VALID_TO_DATE = '{{ offset_valid_to_date }}'
WHERE
  hist.BATCH_RUN_AT < '{{ batch_date }}'
`, r.SQL)
}

func TestFormat_CreateTable(t *testing.T) {
	stmt := &sqlexpr.CreateTable{
		Table:       "tableloads",
		IfNotExists: true,
		Columns: []sqlexpr.ColumnDef{
			{Name: "name", Type: core.TypeString, NotNull: true},
			{Name: "BatchDate", Type: core.TypeTimestamp},
			{Name: "ROW_VERSION", Type: core.TypeInteger, Default: sqlexpr.Lit(1)},
		},
		PrimaryKey: []string{"name"},
	}

	got, err := SQL(stmt, duckdbdialect.DuckDB)
	require.NoError(t, err)
	assert.Equal(t, `CREATE TABLE IF NOT EXISTS tableloads (
  name VARCHAR NOT NULL,
  BatchDate TIMESTAMP,
  ROW_VERSION BIGINT DEFAULT 1,
  PRIMARY KEY (name)
)
`, got)
}

func TestFormat_Delete(t *testing.T) {
	stmt := &sqlexpr.Delete{
		Table: "tableloads",
		Where: sqlexpr.Eq(sqlexpr.Col("tableloads", "name"), sqlexpr.Lit("hist")),
	}

	got, err := SQL(stmt, duckdbdialect.DuckDB)
	require.NoError(t, err)
	assert.Equal(t, `DELETE FROM tableloads
WHERE
  tableloads.name = 'hist'
`, got)
}

func TestExpr(t *testing.T) {
	d := duckdbdialect.DuckDB

	tests := []struct {
		name string
		expr sqlexpr.Expr
		want string
	}{
		{"empty and", sqlexpr.AndOf(), "TRUE"},
		{"empty or", sqlexpr.OrOf(), "FALSE"},
		{"booleans", sqlexpr.Eq(sqlexpr.Lit(true), sqlexpr.Lit(false)), "TRUE = FALSE"},
		{"float", sqlexpr.Lit(1.5), "1.5"},
		{"addition", sqlexpr.Add(sqlexpr.Col("h", "ROW_VERSION"), sqlexpr.Lit(1)), "h.ROW_VERSION + 1"},
		{"escaped string", sqlexpr.Lit("it's"), "'it''s'"},
		{
			"exists inline",
			sqlexpr.AndOf(
				sqlexpr.Eq(sqlexpr.Col("a", "x"), sqlexpr.Lit(int64(1))),
				sqlexpr.Exists{Query: sqlexpr.SelectOne("h", sqlexpr.Eq(sqlexpr.Col("h", "id"), sqlexpr.Col("a", "id")))},
			),
			"a.x = 1 AND EXISTS (SELECT 1 FROM h WHERE h.id = a.id)",
		},
		{
			"nested groups",
			sqlexpr.OrOf(
				sqlexpr.AndOf(sqlexpr.Eq(sqlexpr.Col("", "a"), sqlexpr.Lit(1)), sqlexpr.Eq(sqlexpr.Col("", "b"), sqlexpr.Lit(2))),
				sqlexpr.Eq(sqlexpr.Col("", "c"), sqlexpr.Lit(3)),
			),
			"(a = 1 AND b = 2) OR c = 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Expr(tt.expr, d)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRender_Errors(t *testing.T) {
	d := duckdbdialect.DuckDB

	_, err := Render(&sqlexpr.Insert{Table: "t"}, d, Options{})
	require.Error(t, err)

	_, err = Render(&sqlexpr.Update{Table: "t"}, d, Options{})
	require.Error(t, err)

	_, err = Render(&sqlexpr.Select{Columns: []sqlexpr.Expr{sqlexpr.Lit(struct{}{})}}, d, Options{})
	require.ErrorIs(t, err, ErrUnsupported)

	_, err = Render(&sqlexpr.CreateTable{Table: "t"}, d, Options{})
	require.Error(t, err)

	_, err = Render(&sqlexpr.Select{}, nil, Options{})
	require.ErrorIs(t, err, dialect.ErrDialectRequired)
}
