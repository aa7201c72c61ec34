// Package duckdb provides a DuckDB database adapter.
//
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/ninjasql/ninjasql/pkg/adapters/duckdb"
package duckdb

import (
	"log/slog"

	"github.com/ninjasql/ninjasql/pkg/adapter"
)

func init() {
	adapter.Register("duckdb", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}
