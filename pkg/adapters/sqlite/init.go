// Package sqlite provides a SQLite database adapter backed by the pure-Go
// modernc.org/sqlite driver.
//
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/ninjasql/ninjasql/pkg/adapters/sqlite"
package sqlite

import (
	"log/slog"

	"github.com/ninjasql/ninjasql/pkg/adapter"
)

func init() {
	adapter.Register("sqlite", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}
