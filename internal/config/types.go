// Package config loads the ninjasql project configuration: target connection,
// naming conventions for staging and history tables, the SCD2 load strategy
// and the list of sources.
package config

import (
	"strings"

	"github.com/ninjasql/ninjasql/pkg/core"
)

// Config is the project configuration.
type Config struct {
	Target  *core.TargetConfig `koanf:"target"`
	Dialect string             `koanf:"dialect"`

	Staging Naming `koanf:"staging"`
	History Naming `koanf:"history"`

	SCD2   SCD2Config   `koanf:"scd2"`
	Render RenderConfig `koanf:"render"`
	Batch  BatchConfig  `koanf:"batch"`

	Sources []SourceConfig `koanf:"sources"`

	OutputDir string `koanf:"output_dir"`
	StatePath string `koanf:"state_path"`

	Verbose bool   `koanf:"verbose"`
	Output  string `koanf:"output"`

	// Set by the loader.
	ProjectRoot    string `koanf:"-"`
	ConfigFileUsed string `koanf:"-"`
}

// SCD2Config selects the load strategy and history table options.
type SCD2Config struct {
	Strategy         string `koanf:"strategy"`
	ControlTable     string `koanf:"control_table"`
	RowVersionColumn string `koanf:"row_version_column"`
	OpenRowCheck     bool   `koanf:"open_row_check"`
}

// RenderConfig controls how literals are rendered.
type RenderConfig struct {
	// Binding is "inline", "params" or "dialect" (use the dialect default).
	Binding string `koanf:"binding"`

	// Vars are exposed to rendered templates, both as top-level names and
	// through the vars dict.
	Vars map[string]any `koanf:"vars"`

	// MacrosDir holds .star macro files, one template namespace per file.
	MacrosDir string `koanf:"macros_dir"`
}

// BatchConfig holds batch defaults.
type BatchConfig struct {
	// Date is the default batch date (YYYY-MM-DD). Empty means today.
	Date string `koanf:"date"`
}

// SourceConfig describes one tabular source file.
type SourceConfig struct {
	Name       string   `koanf:"name"`
	Path       string   `koanf:"path"`
	Type       string   `koanf:"type"` // csv or json, inferred from the extension when empty
	Separator  string   `koanf:"separator"`
	Header     *bool    `koanf:"header"`
	LogicalKey []string `koanf:"logical_key"`
}

// HasHeader reports whether a CSV source starts with a header row (default true).
func (s SourceConfig) HasHeader() bool {
	return s.Header == nil || *s.Header
}

// Format returns the source format, inferred from the file extension when unset.
func (s SourceConfig) Format() string {
	if s.Type != "" {
		return strings.ToLower(s.Type)
	}
	lower := strings.ToLower(s.Path)
	switch {
	case strings.HasSuffix(lower, ".json"), strings.HasSuffix(lower, ".ndjson"), strings.HasSuffix(lower, ".jsonl"):
		return SourceJSON
	default:
		return SourceCSV
	}
}

// Source formats.
const (
	SourceCSV  = "csv"
	SourceJSON = "json"
)

// DialectName returns the configured dialect, falling back to the target type
// and then to ANSI.
func (c *Config) DialectName() string {
	if c.Dialect != "" {
		return strings.ToLower(c.Dialect)
	}
	if c.Target != nil && c.Target.Type != "" {
		return strings.ToLower(c.Target.Type)
	}
	return "ansi"
}

// BindingMode returns the configured binding override, nil for the dialect default.
func (c *Config) BindingMode() *core.BindingMode {
	var m core.BindingMode
	switch strings.ToLower(c.Render.Binding) {
	case "inline":
		m = core.BindInline
	case "params":
		m = core.BindParams
	default:
		return nil
	}
	return &m
}

// Source returns a source by name.
func (c *Config) Source(name string) (SourceConfig, bool) {
	for _, s := range c.Sources {
		if s.Name == name {
			return s, true
		}
	}
	return SourceConfig{}, false
}
