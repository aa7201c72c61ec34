// Package postgres provides a PostgreSQL database adapter.
//
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/ninjasql/ninjasql/pkg/adapters/postgres"
package postgres

import (
	"log/slog"

	"github.com/ninjasql/ninjasql/pkg/adapter"
)

func init() {
	adapter.Register("postgres", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}
