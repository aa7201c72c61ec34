// Package source reads tabular source files and infers their column names
// and types. The result seeds the staging table descriptor and DDL.
package source

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ninjasql/ninjasql/pkg/core"
)

// DefaultSampleSize is the number of data rows used for type inference.
const DefaultSampleSize = 1000

// Formats understood by Read.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// ErrNoColumns is matched by NoColumnsError.
var ErrNoColumns = errors.New("source has no columns")

// NoColumnsError is returned when a source yields no column names.
type NoColumnsError struct {
	Path string
}

func (e *NoColumnsError) Error() string {
	return fmt.Sprintf("no columns found in %s", e.Path)
}

// Unwrap returns ErrNoColumns.
func (e *NoColumnsError) Unwrap() error {
	return ErrNoColumns
}

// Column is an inferred source column.
type Column struct {
	Name string
	Type core.LogicalType
}

// Table is the inferred shape of a source file.
type Table struct {
	Path    string
	Columns []Column
	// Rows is the number of data rows sampled.
	Rows int
}

// ColumnNames returns the column names in file order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Types returns a name to type map.
func (t *Table) Types() map[string]core.LogicalType {
	types := make(map[string]core.LogicalType, len(t.Columns))
	for _, c := range t.Columns {
		types[c.Name] = c.Type
	}
	return types
}

// Options controls how a source is read.
type Options struct {
	// Format is "csv" or "json". Inferred from the extension when empty.
	Format string
	// Separator is the CSV field separator. Defaults to ','.
	Separator rune
	// NoHeader treats the first CSV row as data and names columns column_1..n.
	NoHeader bool
	// SampleSize caps the rows inspected. Zero means DefaultSampleSize.
	SampleSize int
	Logger     *slog.Logger
}

// Read opens path and infers its columns.
func Read(path string, opts Options) (*Table, error) {
	f, err := os.Open(path) //nolint:gosec // source paths come from the project config
	if err != nil {
		return nil, fmt.Errorf("failed to open source: %w", err)
	}
	defer func() { _ = f.Close() }()

	if opts.SampleSize <= 0 {
		opts.SampleSize = DefaultSampleSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	format := strings.ToLower(opts.Format)
	if format == "" {
		format = FormatFromPath(path)
	}

	var t *Table
	switch format {
	case FormatCSV:
		t, err = readCSV(f, path, opts)
	case FormatJSON:
		t, err = readJSON(f, path, opts)
	default:
		return nil, fmt.Errorf("unsupported source format %q", format)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("inferred source columns",
		slog.String("path", path),
		slog.String("format", format),
		slog.Int("columns", len(t.Columns)),
		slog.Int("rows_sampled", t.Rows))
	return t, nil
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".ndjson", ".jsonl":
		return FormatJSON
	default:
		return FormatCSV
	}
}

// cleanName trims whitespace and a leading BOM from a header cell.
func cleanName(name string) string {
	return strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
}

func positionalName(i int) string {
	return fmt.Sprintf("column_%d", i+1)
}
