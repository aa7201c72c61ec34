// Package dialect provides SQL dialect configuration used when rendering statements.
//
// This package contains the public contract for dialect definitions used by the
// renderer and the adapters. Concrete dialect implementations are registered from
// pkg/dialects/*/ packages.
package dialect

import (
	"strconv"
	"strings"
	"time"

	"github.com/ninjasql/ninjasql/pkg/core"
)

// timestampLayout is the text form of timestamp literals.
const timestampLayout = "2006-01-02 15:04:05"

// Dialect represents a SQL dialect configuration.
type Dialect struct {
	Name        string
	Identifiers core.IdentifierConfig

	// Database-specific settings
	DefaultSchema    string                // Default schema name ("main" for DuckDB, "public" for Postgres)
	Placeholder      core.PlaceholderStyle // How to format query parameters
	Binding          core.BindingMode      // Default literal binding for connections of this dialect
	CurrentTimestamp string                // Expression for "now"
	TimestampLiteral string                // Keyword before timestamp literals, empty for none
	BackslashEscapes bool                  // Backslashes in string literals must be doubled

	types         map[core.LogicalType]string
	reservedWords map[string]struct{} // All keywords that need quoting as identifiers
}

// Config returns the pure data configuration for this dialect.
func (d *Dialect) Config() *core.DialectConfig {
	reserved := make([]string, 0, len(d.reservedWords))
	for w := range d.reservedWords {
		reserved = append(reserved, w)
	}

	types := make(map[core.LogicalType]string, len(d.types))
	for k, v := range d.types {
		types[k] = v
	}

	return &core.DialectConfig{
		Name:             d.Name,
		Identifiers:      d.Identifiers,
		DefaultSchema:    d.DefaultSchema,
		Placeholder:      d.Placeholder,
		Binding:          d.Binding,
		CurrentTimestamp: d.CurrentTimestamp,
		TimestampLiteral: d.TimestampLiteral,
		BackslashEscapes: d.BackslashEscapes,
		Types:            types,
		ReservedWords:    reserved,
	}
}

// WithDefaultSchema returns a copy of d with a different default schema.
// The maps are shared and must not be modified.
func (d *Dialect) WithDefaultSchema(schema string) *Dialect {
	c := *d
	c.DefaultSchema = schema
	return &c
}

// NormalizeName normalizes an identifier according to dialect rules.
func (d *Dialect) NormalizeName(name string) string {
	switch d.Identifiers.Normalization {
	case core.NormUppercase:
		return strings.ToUpper(name)
	case core.NormLowercase, core.NormCaseInsensitive:
		return strings.ToLower(name)
	default: // NormCaseSensitive
		return name
	}
}

// GetName returns the dialect name.
func (d *Dialect) GetName() string {
	return d.Name
}

// FormatPlaceholder returns a placeholder for the given parameter index (1-based).
// Returns "?" for PlaceholderQuestion style, "$1", "$2" etc. for PlaceholderDollar style.
func (d *Dialect) FormatPlaceholder(index int) string {
	switch d.Placeholder {
	case core.PlaceholderDollar:
		return "$" + strconv.Itoa(index)
	default: // PlaceholderQuestion
		return "?"
	}
}

// IsReservedWord returns true if the word needs quoting when used as an identifier.
func (d *Dialect) IsReservedWord(word string) bool {
	_, ok := d.reservedWords[strings.ToUpper(word)]
	return ok
}

// QuoteIdentifier quotes an identifier using the dialect's quote characters.
func (d *Dialect) QuoteIdentifier(name string) string {
	// Escape any existing quote end characters in the name (e.g., ] -> ]])
	escaped := strings.ReplaceAll(name, d.Identifiers.QuoteEnd, d.Identifiers.Escape)
	return d.Identifiers.Quote + escaped + d.Identifiers.QuoteEnd
}

// QuoteIdentifierIfNeeded quotes an identifier only if it's a reserved word
// or not a plain identifier.
func (d *Dialect) QuoteIdentifierIfNeeded(name string) string {
	if d.IsReservedWord(name) || !isPlainIdentifier(name) {
		return d.QuoteIdentifier(name)
	}
	return name
}

// QuoteQualified quotes each dot-separated part of a qualified name.
func (d *Dialect) QuoteQualified(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = d.QuoteIdentifierIfNeeded(p)
	}
	return strings.Join(parts, ".")
}

// QuoteString renders a single-quoted string literal.
func (d *Dialect) QuoteString(s string) string {
	if d.BackslashEscapes {
		s = strings.ReplaceAll(s, `\`, `\\`)
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// FormatTimestamp renders an inline timestamp literal.
func (d *Dialect) FormatTimestamp(t time.Time) string {
	lit := d.QuoteString(t.UTC().Format(timestampLayout))
	if d.TimestampLiteral == "" {
		return lit
	}
	return d.TimestampLiteral + " " + lit
}

// TypeName returns the dialect's name for a logical column type.
// Unknown types fall back to the string type.
func (d *Dialect) TypeName(t core.LogicalType) string {
	if name, ok := d.types[t]; ok {
		return name
	}
	if name, ok := d.types[core.TypeString]; ok {
		return name
	}
	return "VARCHAR"
}

func isPlainIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// ---------- Builder ----------

// Builder provides a fluent API for constructing dialects.
type Builder struct {
	dialect *Dialect
}

// NewDialect creates a new dialect builder with the given name and ANSI defaults.
func NewDialect(name string) *Builder {
	return &Builder{
		dialect: &Dialect{
			Name: name,
			Identifiers: core.IdentifierConfig{
				Quote:         `"`,
				QuoteEnd:      `"`,
				Escape:        `""`,
				Normalization: core.NormLowercase,
			},
			Binding:          core.BindInline,
			CurrentTimestamp: "CURRENT_TIMESTAMP",
			TimestampLiteral: "TIMESTAMP",
			types:            defaultTypes(),
			reservedWords:    make(map[string]struct{}),
		},
	}
}

// New creates a dialect builder from a DialectConfig.
// This is the preferred constructor for dialects defined as static config.
func New(cfg *core.DialectConfig) *Builder {
	b := NewDialect(cfg.Name)
	b.dialect.Identifiers = cfg.Identifiers
	b.dialect.DefaultSchema = cfg.DefaultSchema
	b.dialect.Placeholder = cfg.Placeholder
	b.dialect.Binding = cfg.Binding
	if cfg.CurrentTimestamp != "" {
		b.dialect.CurrentTimestamp = cfg.CurrentTimestamp
	}
	b.dialect.TimestampLiteral = cfg.TimestampLiteral
	b.dialect.BackslashEscapes = cfg.BackslashEscapes
	for k, v := range cfg.Types {
		b.dialect.types[k] = v
	}
	return b.WithReservedWords(cfg.ReservedWords...)
}

// Identifiers configures identifier quoting and normalization.
func (b *Builder) Identifiers(quote, quoteEnd, escape string, norm core.NormalizationStrategy) *Builder {
	b.dialect.Identifiers = core.IdentifierConfig{
		Quote:         quote,
		QuoteEnd:      quoteEnd,
		Escape:        escape,
		Normalization: norm,
	}
	return b
}

// DefaultSchema sets the default schema name.
func (b *Builder) DefaultSchema(schema string) *Builder {
	b.dialect.DefaultSchema = schema
	return b
}

// PlaceholderStyle sets the placeholder style for query parameters.
func (b *Builder) PlaceholderStyle(style core.PlaceholderStyle) *Builder {
	b.dialect.Placeholder = style
	return b
}

// Binding sets the default literal binding mode.
func (b *Builder) Binding(mode core.BindingMode) *Builder {
	b.dialect.Binding = mode
	return b
}

// TimestampLiteral sets the keyword prefixed to timestamp literals.
func (b *Builder) TimestampLiteral(keyword string) *Builder {
	b.dialect.TimestampLiteral = keyword
	return b
}

// BackslashEscapes marks backslash as an escape character in string literals.
func (b *Builder) BackslashEscapes() *Builder {
	b.dialect.BackslashEscapes = true
	return b
}

// Type overrides the dialect name of a logical type.
func (b *Builder) Type(t core.LogicalType, name string) *Builder {
	b.dialect.types[t] = name
	return b
}

// WithReservedWords adds words that must be quoted when used as identifiers.
func (b *Builder) WithReservedWords(words ...string) *Builder {
	for _, w := range words {
		b.dialect.reservedWords[strings.ToUpper(w)] = struct{}{}
	}
	return b
}

// Build returns the constructed dialect.
func (b *Builder) Build() *Dialect {
	return b.dialect
}

func defaultTypes() map[core.LogicalType]string {
	return map[core.LogicalType]string{
		core.TypeInteger:   "BIGINT",
		core.TypeDouble:    "DOUBLE PRECISION",
		core.TypeBoolean:   "BOOLEAN",
		core.TypeDate:      "DATE",
		core.TypeTimestamp: "TIMESTAMP",
		core.TypeString:    "VARCHAR",
	}
}
