package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ninjasql/ninjasql/pkg/scd2"
)

// BatchDateLayout is the layout of batch dates in config and flags.
const BatchDateLayout = "2006-01-02"

// Validate checks the configuration for errors that would only surface later.
func (c *Config) Validate() error {
	if _, err := scd2.ParseLoadStrategy(c.SCD2.Strategy); err != nil {
		return err
	}

	switch strings.ToLower(c.Render.Binding) {
	case "", "inline", "params", "dialect":
	default:
		return fmt.Errorf("render.binding: unknown value %q (expected inline, params or dialect)", c.Render.Binding)
	}

	if c.Batch.Date != "" {
		if _, err := time.Parse(BatchDateLayout, c.Batch.Date); err != nil {
			return fmt.Errorf("batch.date: %w", err)
		}
	}

	if c.Staging.sameTier(c.History) {
		return fmt.Errorf("history: database, schema and prefix must differ from staging")
	}

	if c.Target != nil && c.Target.Type == "" {
		return fmt.Errorf("target type is required")
	}

	seen := make(map[string]bool, len(c.Sources))
	for i, s := range c.Sources {
		if s.Name == "" {
			return fmt.Errorf("sources[%d]: %w", i, &NoTableNameGivenError{Role: "source"})
		}
		if seen[s.Name] {
			return fmt.Errorf("sources[%d]: duplicate source name %q", i, s.Name)
		}
		seen[s.Name] = true

		if s.Path == "" {
			return fmt.Errorf("source %q: path is required", s.Name)
		}
		if f := s.Format(); f != SourceCSV && f != SourceJSON {
			return fmt.Errorf("source %q: unknown type %q (expected csv or json)", s.Name, s.Type)
		}
		if len(s.LogicalKey) == 0 {
			return fmt.Errorf("source %q: logical_key is required", s.Name)
		}
		if len([]rune(s.Separator)) > 1 {
			return fmt.Errorf("source %q: separator must be a single character", s.Name)
		}
	}
	return nil
}

// BatchDate parses the configured batch date. ok is false when none is set.
func (c *Config) BatchDate() (t time.Time, ok bool, err error) {
	if c.Batch.Date == "" {
		return time.Time{}, false, nil
	}
	t, err = time.Parse(BatchDateLayout, c.Batch.Date)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("batch.date: %w", err)
	}
	return t, true, nil
}
