// Package ansi provides the base ANSI SQL dialect.
//
// This dialect serves as the fallback for targets without a dedicated dialect
// package. It quotes with double quotes, inlines literals and prefixes
// timestamp literals with TIMESTAMP.
package ansi

import (
	"github.com/ninjasql/ninjasql/pkg/core"
	"github.com/ninjasql/ninjasql/pkg/dialect"
)

func init() {
	dialect.Register(ANSI)
}

// ReservedWords are the SQL:2016 reserved words most likely to collide with column names.
var ReservedWords = []string{
	"all", "and", "any", "as", "asc", "between", "by", "case", "cast", "check",
	"column", "constraint", "create", "cross", "current_date", "current_time",
	"current_timestamp", "current_user", "default", "delete", "desc", "distinct",
	"drop", "else", "end", "except", "exists", "false", "fetch", "for", "foreign",
	"from", "full", "grant", "group", "having", "in", "inner", "insert", "intersect",
	"into", "is", "join", "key", "left", "like", "not", "null", "of", "on", "or",
	"order", "outer", "primary", "references", "right", "row", "select", "set",
	"table", "then", "to", "true", "union", "unique", "update", "user", "using",
	"values", "when", "where", "with",
}

// Config is the ANSI dialect configuration.
var Config = &core.DialectConfig{
	Name:        "ansi",
	Placeholder: core.PlaceholderQuestion,
	Binding:     core.BindInline,
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormUppercase,
	},
	CurrentTimestamp: "CURRENT_TIMESTAMP",
	TimestampLiteral: "TIMESTAMP",
	ReservedWords:    ReservedWords,
}

// ANSI is the base ANSI SQL dialect.
var ANSI = dialect.New(Config).Build()
