package scd2

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/ninjasql/ninjasql/pkg/core"
	sqlitedialect "github.com/ninjasql/ninjasql/pkg/dialects/sqlite"
	"github.com/ninjasql/ninjasql/pkg/format"
	"github.com/ninjasql/ninjasql/pkg/sqlexpr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

const tsLayout = "2006-01-02 15:04:05"

// loadHarness runs generated statements against an in-memory SQLite database.
type loadHarness struct {
	t   *testing.T
	db  *sql.DB
	gen *Generator
}

func newLoadHarness(t *testing.T) *loadHarness {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	stg, err := NewTableDescriptor("stg_customers", []string{"id", "name", "city"}, "id")
	require.NoError(t, err)
	hist, err := NewHistoryDescriptor("hist_customers", stg, "ROW_VERSION")
	require.NoError(t, err)

	gen, err := New(Options{
		Staging:          stg,
		History:          hist,
		Strategy:         StrategyTemplated,
		Dialect:          sqlitedialect.SQLite,
		RowVersionColumn: "ROW_VERSION",
	})
	require.NoError(t, err)

	h := &loadHarness{t: t, db: db, gen: gen}
	types := map[string]core.LogicalType{"id": core.TypeInteger}
	h.exec(StagingDDL(stg, types), nil)
	h.exec(HistoryDDL(hist, types, "ROW_VERSION"), nil)
	return h
}

// exec renders a statement, binds template tokens to ctx and runs it.
func (h *loadHarness) exec(stmt sqlexpr.Statement, ctx *BatchContext) {
	h.t.Helper()
	text, err := format.SQL(stmt, sqlitedialect.SQLite)
	require.NoError(h.t, err)
	if ctx != nil {
		var pairs []string
		for _, role := range DateRoles() {
			pairs = append(pairs, "{{ "+string(role)+" }}", ctx.Value(role).Format(tsLayout))
		}
		text = strings.NewReplacer(pairs...).Replace(text)
	}
	_, err = h.db.Exec(text)
	require.NoError(h.t, err, text)
}

func (h *loadHarness) stage(rows map[int]string) {
	h.t.Helper()
	_, err := h.db.Exec("DELETE FROM stg_customers")
	require.NoError(h.t, err)
	for id, name := range rows {
		_, err := h.db.Exec("INSERT INTO stg_customers (id, name, city) VALUES (?, ?, 'Oslo')", id, name)
		require.NoError(h.t, err)
	}
}

func (h *loadHarness) load(day int) {
	h.t.Helper()
	ctx := NewBatchContext(time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC))
	h.exec(h.gen.NewInsert(), &ctx)
	h.exec(h.gen.UpdatedInsert(), &ctx)
	h.exec(h.gen.UpdatedUpdate(), &ctx)
	h.exec(h.gen.DeletedUpdate(), &ctx)
}

type historyRow struct {
	ID         int
	Name       string
	Version    int
	ValidFrom  string
	ValidTo    string
	BatchRunAt string
}

func (h *loadHarness) history() []historyRow {
	h.t.Helper()
	rows, err := h.db.Query(`SELECT id, name, ROW_VERSION, VALID_FROM_DATE, VALID_TO_DATE, BATCH_RUN_AT
		FROM hist_customers ORDER BY id, ROW_VERSION`)
	require.NoError(h.t, err)
	defer rows.Close()

	var out []historyRow
	for rows.Next() {
		var r historyRow
		require.NoError(h.t, rows.Scan(&r.ID, &r.Name, &r.Version, &r.ValidFrom, &r.ValidTo, &r.BatchRunAt))
		out = append(out, r)
	}
	require.NoError(h.t, rows.Err())
	return out
}

const open = "9999-12-31 00:00:00"

func TestLoad_FirstBatchInsertsEveryKey(t *testing.T) {
	h := newLoadHarness(t)
	h.stage(map[int]string{1: "ann", 2: "bob"})
	h.load(1)

	assert.Equal(t, []historyRow{
		{ID: 1, Name: "ann", Version: 1, ValidFrom: "2024-01-01 00:00:00", ValidTo: open, BatchRunAt: "2024-01-01 00:00:00"},
		{ID: 2, Name: "bob", Version: 1, ValidFrom: "2024-01-01 00:00:00", ValidTo: open, BatchRunAt: "2024-01-01 00:00:00"},
	}, h.history())
}

func TestLoad_NewChangedAndDeletedKeys(t *testing.T) {
	h := newLoadHarness(t)
	h.stage(map[int]string{1: "ann", 2: "bob", 3: "cid"})
	h.load(1)

	// 1 unchanged, 2 changed, 3 deleted, 4 new.
	h.stage(map[int]string{1: "ann", 2: "BOB", 4: "dan"})
	h.load(2)

	assert.Equal(t, []historyRow{
		{ID: 1, Name: "ann", Version: 1, ValidFrom: "2024-01-01 00:00:00", ValidTo: open, BatchRunAt: "2024-01-01 00:00:00"},
		{ID: 2, Name: "bob", Version: 1, ValidFrom: "2024-01-01 00:00:00", ValidTo: "2024-01-01 00:00:00", BatchRunAt: "2024-01-01 00:00:00"},
		{ID: 2, Name: "BOB", Version: 2, ValidFrom: "2024-01-02 00:00:00", ValidTo: open, BatchRunAt: "2024-01-02 00:00:00"},
		{ID: 3, Name: "cid", Version: 1, ValidFrom: "2024-01-01 00:00:00", ValidTo: "2024-01-01 00:00:00", BatchRunAt: "2024-01-01 00:00:00"},
		{ID: 4, Name: "dan", Version: 1, ValidFrom: "2024-01-02 00:00:00", ValidTo: open, BatchRunAt: "2024-01-02 00:00:00"},
	}, h.history())
}

func TestLoad_RerunningABatchIsIdempotent(t *testing.T) {
	h := newLoadHarness(t)
	h.stage(map[int]string{1: "ann", 2: "bob", 3: "cid"})
	h.load(1)
	h.stage(map[int]string{1: "ANN", 2: "bob"})
	h.load(2)
	before := h.history()

	h.load(2)
	assert.Equal(t, before, h.history())
}

func TestLoad_DeletedKeyReappears(t *testing.T) {
	h := newLoadHarness(t)
	h.stage(map[int]string{1: "ann"})
	h.load(1)
	h.stage(map[int]string{})
	h.load(2)
	h.stage(map[int]string{1: "ann"})
	h.load(3)

	// The key has a closed history row, so new_insert skips it and there is no
	// open row for updated_insert to compare against.
	rows := h.history()
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-01-01 00:00:00", rows[0].ValidTo)
}

func TestLoad_OpenRowConflicts(t *testing.T) {
	h := newLoadHarness(t)
	h.stage(map[int]string{1: "ann", 2: "bob"})
	h.load(1)

	_, err := h.db.Exec(`INSERT INTO hist_customers (id, name, city, ROW_VERSION, UPDATED_AT, BATCH_RUN_AT, VALID_FROM_DATE, VALID_TO_DATE)
		VALUES (2, 'bob', 'Oslo', 1, '2024-01-01 00:00:00', '2024-01-01 00:00:00', '2024-01-01 00:00:00', ?)`, open)
	require.NoError(t, err)

	text, err := format.SQL(h.gen.OpenRowConflicts(), sqlitedialect.SQLite)
	require.NoError(t, err)
	text = strings.ReplaceAll(text, "{{ valid_to_date }}", open)

	var id, count int
	require.NoError(t, h.db.QueryRow(text).Scan(&id, &count))
	assert.Equal(t, 2, id)
	assert.Equal(t, 2, count)
}
