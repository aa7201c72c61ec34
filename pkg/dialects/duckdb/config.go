package duckdb

import "github.com/ninjasql/ninjasql/pkg/core"

// Config is the DuckDB dialect configuration.
// This is pure data - shared by the adapter and the renderer.
var Config = &core.DialectConfig{
	Name:          "duckdb",
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
	TimestampLiteral: "TIMESTAMP",
	Types: map[core.LogicalType]string{
		core.TypeInteger:   "BIGINT",
		core.TypeDouble:    "DOUBLE",
		core.TypeBoolean:   "BOOLEAN",
		core.TypeDate:      "DATE",
		core.TypeTimestamp: "TIMESTAMP",
		core.TypeString:    "VARCHAR",
	},
	ReservedWords: reservedWords,
}

// reservedWords is the subset of duckdb_keywords() with category 'reserved'
// that commonly appears as column names.
var reservedWords = []string{
	"all", "analyse", "analyze", "and", "any", "array", "as", "asc", "asymmetric",
	"both", "case", "cast", "check", "collate", "column", "constraint", "create",
	"default", "deferrable", "desc", "describe", "distinct", "do", "else", "end",
	"except", "false", "fetch", "for", "foreign", "from", "grant", "group", "having",
	"in", "initially", "intersect", "into", "lateral", "leading", "limit", "not",
	"null", "offset", "on", "only", "or", "order", "pivot", "pivot_longer",
	"pivot_wider", "placing", "primary", "qualify", "references", "returning",
	"select", "show", "some", "summarize", "symmetric", "table", "then", "to",
	"trailing", "true", "union", "unique", "unpivot", "using", "variadic", "when",
	"where", "window", "with",
}
