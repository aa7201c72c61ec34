package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninjasql/ninjasql/internal/testutil"
	"github.com/ninjasql/ninjasql/pkg/core"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRead_CSV(t *testing.T) {
	path := writeFile(t, "customers.csv", "\ufeffid, name ,score,active,signup,last_seen,note\n"+
		"1,Ann,1.5,true,2024-01-01,2024-01-01 10:00:00,\n"+
		"2,Bob,2,false,2024-02-01,2024-02-01T11:30:00Z,x\n"+
		"3,Cy,,TRUE,,,\n")

	tbl, err := Read(path, Options{Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)

	assert.Equal(t, 3, tbl.Rows)
	assert.Equal(t, []string{"id", "name", "score", "active", "signup", "last_seen", "note"}, tbl.ColumnNames())
	assert.Equal(t, []Column{
		{Name: "id", Type: core.TypeInteger},
		{Name: "name", Type: core.TypeString},
		{Name: "score", Type: core.TypeDouble},
		{Name: "active", Type: core.TypeBoolean},
		{Name: "signup", Type: core.TypeDate},
		{Name: "last_seen", Type: core.TypeTimestamp},
		{Name: "note", Type: core.TypeString},
	}, tbl.Columns)
	assert.Equal(t, core.TypeInteger, tbl.Types()["id"])
}

func TestRead_CSVSeparatorAndNoHeader(t *testing.T) {
	path := writeFile(t, "raw.txt", "1;a\n2;b\n")

	tbl, err := Read(path, Options{Separator: ';', NoHeader: true})
	require.NoError(t, err)

	assert.Equal(t, 2, tbl.Rows)
	assert.Equal(t, []Column{
		{Name: "column_1", Type: core.TypeInteger},
		{Name: "column_2", Type: core.TypeString},
	}, tbl.Columns)
}

func TestRead_SampleSize(t *testing.T) {
	path := writeFile(t, "s.csv", "v\n1\n2\nnot-a-number\n")

	tbl, err := Read(path, Options{SampleSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Rows)
	assert.Equal(t, core.TypeInteger, tbl.Columns[0].Type)

	tbl, err = Read(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, core.TypeString, tbl.Columns[0].Type)
}

func TestRead_JSON(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "array",
			file:    "orders.json",
			content: `[{"id": 1, "amount": 2.5, "paid": true}, {"id": 2, "amount": 3, "shipped": "2024-03-01", "meta": {"a": 1}}]`,
		},
		{
			name:    "ndjson",
			file:    "orders.ndjson",
			content: "{\"id\": 1, \"amount\": 2.5, \"paid\": true}\n{\"id\": 2, \"amount\": 3, \"shipped\": \"2024-03-01\", \"meta\": {\"a\": 1}}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := Read(writeFile(t, tt.file, tt.content), Options{})
			require.NoError(t, err)

			assert.Equal(t, 2, tbl.Rows)
			assert.Equal(t, []Column{
				{Name: "id", Type: core.TypeInteger},
				{Name: "amount", Type: core.TypeDouble},
				{Name: "paid", Type: core.TypeBoolean},
				{Name: "shipped", Type: core.TypeDate},
				{Name: "meta", Type: core.TypeString},
			}, tbl.Columns)
		})
	}
}

func TestRead_NoColumns(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"empty csv", "a.csv", ""},
		{"blank header", "b.csv", "  \n1\n"},
		{"empty json array", "c.json", "[]"},
		{"empty json file", "d.json", ""},
		{"objects without keys", "e.ndjson", "{}\n{}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			_, err := Read(path, Options{})
			require.ErrorIs(t, err, ErrNoColumns)

			var nce *NoColumnsError
			require.ErrorAs(t, err, &nce)
			assert.Equal(t, path, nce.Path)
		})
	}
}

func TestRead_Errors(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.csv"), Options{})
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Read(writeFile(t, "dup.csv", "a,a\n1,2\n"), Options{})
	assert.ErrorContains(t, err, "duplicate column")

	_, err = Read(writeFile(t, "x.json", `"scalar"`), Options{})
	assert.ErrorContains(t, err, "expected an array or object")

	_, err = Read(writeFile(t, "y.csv", "a\n1\n"), Options{Format: "parquet"})
	assert.ErrorContains(t, err, "unsupported source format")
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFromPath("a/b.JSONL"))
	assert.Equal(t, FormatCSV, FormatFromPath("a/b.tsv"))
}
