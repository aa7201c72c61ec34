// Package sqlite provides the SQLite SQL dialect definition.
package sqlite

import (
	"github.com/ninjasql/ninjasql/pkg/core"
	"github.com/ninjasql/ninjasql/pkg/dialect"
)

func init() {
	dialect.Register(SQLite)
}

// Config is the SQLite dialect configuration.
// SQLite has no TIMESTAMP literal keyword; timestamps are compared as ISO text.
var Config = &core.DialectConfig{
	Name:          "sqlite",
	DefaultSchema: "main",
	Placeholder:   core.PlaceholderQuestion,
	Binding:       core.BindInline,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormCaseInsensitive,
	},
	CurrentTimestamp: "CURRENT_TIMESTAMP",
	Types: map[core.LogicalType]string{
		core.TypeInteger:   "INTEGER",
		core.TypeDouble:    "REAL",
		core.TypeBoolean:   "INTEGER",
		core.TypeDate:      "TEXT",
		core.TypeTimestamp: "TEXT",
		core.TypeString:    "TEXT",
	},
	ReservedWords: []string{
		"abort", "action", "add", "after", "all", "alter", "and", "as", "asc",
		"between", "by", "case", "check", "collate", "column", "commit",
		"constraint", "create", "cross", "current_date", "current_time",
		"current_timestamp", "default", "delete", "desc", "distinct", "drop",
		"else", "end", "escape", "except", "exists", "foreign", "from", "full",
		"group", "having", "in", "index", "inner", "insert", "intersect", "into",
		"is", "isnull", "join", "key", "left", "like", "limit", "natural", "not",
		"notnull", "null", "of", "offset", "on", "or", "order", "outer", "primary",
		"references", "right", "row", "select", "set", "table", "then", "to",
		"transaction", "union", "unique", "update", "using", "values", "when",
		"where", "with",
	},
}

// SQLite is the SQLite dialect.
var SQLite = dialect.New(Config).Build()
