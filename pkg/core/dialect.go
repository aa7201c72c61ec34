package core

// DialectConfig holds the static configuration for a SQL dialect.
// It is plain data with no rendering functions.
//
// The runtime behavior lives in pkg/dialect.Dialect, which is built from this config.
type DialectConfig struct {
	// Name is the dialect identifier (e.g., "duckdb", "postgres")
	Name string

	// Identifiers defines quoting and normalization rules
	Identifiers IdentifierConfig

	// DefaultSchema is the default schema name ("main" for DuckDB, "public" for Postgres)
	DefaultSchema string

	// Placeholder defines how query parameters are formatted
	Placeholder PlaceholderStyle

	// Binding selects whether literals are inlined or passed as bind parameters
	Binding BindingMode

	// CurrentTimestamp is the expression yielding the statement timestamp
	CurrentTimestamp string

	// TimestampLiteral is the keyword prefixed to timestamp literals ("TIMESTAMP"), empty for none
	TimestampLiteral string

	// BackslashEscapes is set when a backslash inside a string literal starts an
	// escape sequence (MySQL without NO_BACKSLASH_ESCAPES)
	BackslashEscapes bool

	// Types maps logical column types (see LogicalType) to dialect type names
	Types map[LogicalType]string

	// ReservedWords must be quoted when used as identifiers
	ReservedWords []string
}

// NormalizationStrategy defines how unquoted identifiers are normalized.
type NormalizationStrategy int

const (
	// NormLowercase normalizes unquoted identifiers to lowercase (default SQL behavior).
	NormLowercase NormalizationStrategy = iota
	// NormUppercase normalizes unquoted identifiers to uppercase (Snowflake, Oracle).
	NormUppercase
	// NormCaseSensitive preserves identifier case exactly (MySQL, ClickHouse).
	NormCaseSensitive
	// NormCaseInsensitive normalizes to lowercase for comparison (BigQuery, Hive, DuckDB).
	NormCaseInsensitive
)

// PlaceholderStyle defines how query parameters are formatted.
type PlaceholderStyle int

const (
	// PlaceholderQuestion uses ? for all parameters (DuckDB, MySQL, SQLite).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar uses $1, $2, etc. for parameters (PostgreSQL).
	PlaceholderDollar
)

// BindingMode controls how literal values reach the database.
type BindingMode int

const (
	// BindInline renders literals directly into the SQL text.
	BindInline BindingMode = iota
	// BindParams renders placeholders and returns the values as arguments.
	BindParams
)

// String returns the config spelling of the binding mode.
func (m BindingMode) String() string {
	switch m {
	case BindInline:
		return "inline"
	case BindParams:
		return "params"
	default:
		return "unknown"
	}
}

// IdentifierConfig defines how identifiers are quoted and normalized.
type IdentifierConfig struct {
	Quote         string                // Quote character: ", `, [
	QuoteEnd      string                // End quote character (usually same as Quote, ] for [)
	Escape        string                // Escape sequence: "", ``, ]]
	Normalization NormalizationStrategy // How to normalize unquoted identifiers
}

// LogicalType is a dialect-independent column type produced by source inference.
type LogicalType string

// Logical column types.
const (
	TypeInteger   LogicalType = "integer"
	TypeDouble    LogicalType = "double"
	TypeBoolean   LogicalType = "boolean"
	TypeDate      LogicalType = "date"
	TypeTimestamp LogicalType = "timestamp"
	TypeString    LogicalType = "string"
)
