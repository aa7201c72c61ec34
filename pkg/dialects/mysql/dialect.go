// Package mysql provides the MySQL SQL dialect definition.
package mysql

import (
	"github.com/ninjasql/ninjasql/pkg/core"
	"github.com/ninjasql/ninjasql/pkg/dialect"
)

func init() {
	dialect.Register(MySQL)
}

// Config is the MySQL dialect configuration.
var Config = &core.DialectConfig{
	Name:        "mysql",
	Placeholder: core.PlaceholderQuestion,
	Binding:     core.BindParams,
	Identifiers: core.IdentifierConfig{
		Quote:         "`",
		QuoteEnd:      "`",
		Escape:        "``",
		Normalization: core.NormCaseSensitive,
	},
	CurrentTimestamp: "CURRENT_TIMESTAMP",
	TimestampLiteral: "TIMESTAMP",
	BackslashEscapes: true,
	Types: map[core.LogicalType]string{
		core.TypeInteger:   "BIGINT",
		core.TypeDouble:    "DOUBLE",
		core.TypeBoolean:   "BOOLEAN",
		core.TypeDate:      "DATE",
		core.TypeTimestamp: "DATETIME",
		core.TypeString:    "VARCHAR(255)",
	},
	ReservedWords: []string{
		"add", "all", "alter", "and", "as", "asc", "between", "by", "case",
		"change", "check", "column", "condition", "constraint", "create", "cross",
		"current_date", "current_time", "current_timestamp", "database", "default",
		"delete", "desc", "describe", "distinct", "div", "drop", "else", "exists",
		"false", "for", "foreign", "from", "group", "having", "in", "index",
		"inner", "insert", "interval", "into", "is", "join", "key", "keys",
		"left", "like", "limit", "match", "mod", "natural", "not", "null", "on",
		"or", "order", "outer", "primary", "range", "read", "references", "rename",
		"replace", "right", "row", "rows", "schema", "select", "set", "show",
		"table", "then", "to", "true", "union", "unique", "update", "usage", "use",
		"using", "values", "when", "where", "with", "write",
	},
}

// MySQL is the MySQL dialect.
var MySQL = dialect.New(Config).Build()
