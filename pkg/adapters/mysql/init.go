// Package mysql provides a MySQL database adapter.
//
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/ninjasql/ninjasql/pkg/adapters/mysql"
package mysql

import (
	"log/slog"

	"github.com/ninjasql/ninjasql/pkg/adapter"
)

func init() {
	adapter.Register("mysql", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}
