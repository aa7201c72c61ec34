// Package snowflake provides the Snowflake SQL dialect definition.
// Snowflake is a render-only target: there is no bundled adapter.
package snowflake

import (
	"github.com/ninjasql/ninjasql/pkg/core"
	"github.com/ninjasql/ninjasql/pkg/dialect"
)

func init() {
	dialect.Register(Snowflake)
}

// Config is the Snowflake dialect configuration.
var Config = &core.DialectConfig{
	Name:          "snowflake",
	DefaultSchema: "PUBLIC",
	Placeholder:   core.PlaceholderQuestion,
	Binding:       core.BindInline,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormUppercase, // Snowflake normalizes unquoted to uppercase
	},
	CurrentTimestamp: "CURRENT_TIMESTAMP()",
	TimestampLiteral: "TIMESTAMP",
	Types: map[core.LogicalType]string{
		core.TypeInteger:   "NUMBER(38,0)",
		core.TypeDouble:    "FLOAT",
		core.TypeBoolean:   "BOOLEAN",
		core.TypeDate:      "DATE",
		core.TypeTimestamp: "TIMESTAMP_NTZ",
		core.TypeString:    "VARCHAR",
	},
	ReservedWords: []string{
		"account", "all", "alter", "and", "any", "as", "between", "by", "case",
		"cast", "check", "column", "connect", "connection", "constraint", "create",
		"cross", "current", "current_date", "current_time", "current_timestamp",
		"current_user", "database", "delete", "distinct", "drop", "else", "exists",
		"false", "following", "for", "from", "full", "grant", "group", "gscluster",
		"having", "ilike", "in", "increment", "inner", "insert", "intersect", "into",
		"is", "issue", "join", "lateral", "left", "like", "localtime",
		"localtimestamp", "minus", "natural", "not", "null", "of", "on", "or",
		"order", "organization", "qualify", "regexp", "revoke", "right", "rlike",
		"row", "rows", "sample", "schema", "select", "set", "some", "start",
		"table", "tablesample", "then", "to", "trigger", "true", "try_cast",
		"union", "unique", "update", "using", "values", "view", "when", "whenever",
		"where", "with",
	},
}

// Snowflake is the Snowflake dialect.
var Snowflake = dialect.New(Config).Build()
