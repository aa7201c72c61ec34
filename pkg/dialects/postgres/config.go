// Package postgres provides the PostgreSQL SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package postgres

import "github.com/ninjasql/ninjasql/pkg/core"

// Config is the PostgreSQL dialect configuration.
// Postgres connections bind literals as $n parameters by default.
var Config = &core.DialectConfig{
	Name:          "postgres",
	DefaultSchema: "public",
	Placeholder:   core.PlaceholderDollar,
	Binding:       core.BindParams,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormLowercase, // Postgres normalizes unquoted to lowercase
	},
	CurrentTimestamp: "CURRENT_TIMESTAMP",
	TimestampLiteral: "TIMESTAMP",
	Types: map[core.LogicalType]string{
		core.TypeInteger:   "BIGINT",
		core.TypeDouble:    "DOUBLE PRECISION",
		core.TypeBoolean:   "BOOLEAN",
		core.TypeDate:      "DATE",
		core.TypeTimestamp: "TIMESTAMP",
		core.TypeString:    "TEXT",
	},
	ReservedWords: postgresReservedWords,
}
