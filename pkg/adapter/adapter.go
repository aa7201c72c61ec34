// Package adapter defines database connections used to introspect existing
// tables and to apply generated statements.
//
// Concrete adapter implementations are in pkg/adapters/ subdirectories and
// register themselves on import.
package adapter

import (
	"context"
	"database/sql"

	"github.com/ninjasql/ninjasql/pkg/core"
	"github.com/ninjasql/ninjasql/pkg/dialect"
)

type (
	// Config is an alias for core.AdapterConfig.
	Config = core.AdapterConfig

	// Column is an alias for core.Column.
	Column = core.Column

	// Metadata is an alias for core.TableMetadata.
	Metadata = core.TableMetadata
)

// Rows wraps sql.Rows returned by Query.
type Rows struct {
	*sql.Rows
}

// Adapter is a database connection.
type Adapter interface {
	// Connect establishes a connection to the database using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// Exec executes a statement that doesn't return rows. args are bind
	// parameters in the dialect's placeholder style.
	Exec(ctx context.Context, sql string, args ...any) error

	// Query executes a statement that returns rows. The caller closes them.
	Query(ctx context.Context, sql string, args ...any) (*Rows, error)

	// GetTableMetadata retrieves the columns of a table.
	GetTableMetadata(ctx context.Context, table string) (*Metadata, error)

	// Dialect returns the SQL dialect statements must be rendered in.
	Dialect() *dialect.Dialect
}
