package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoTableNameGiven is matched by NoTableNameGivenError.
var ErrNoTableNameGiven = errors.New("no table name given")

// NoTableNameGivenError is returned when a table name is required but empty.
type NoTableNameGivenError struct {
	Role string
}

func (e *NoTableNameGivenError) Error() string {
	if e.Role == "" {
		return ErrNoTableNameGiven.Error()
	}
	return fmt.Sprintf("no table name given for %s", e.Role)
}

// Unwrap returns ErrNoTableNameGiven.
func (e *NoTableNameGivenError) Unwrap() error {
	return ErrNoTableNameGiven
}

// Naming is the naming convention for one table tier.
type Naming struct {
	Database string `koanf:"database"`
	Schema   string `koanf:"schema"`
	Prefix   string `koanf:"prefix"`

	// Role names the tier in errors ("staging", "history").
	Role string `koanf:"-"`
}

// Qualify returns [database.][schema.]prefix+base.
func (n Naming) Qualify(base string) (string, error) {
	if strings.TrimSpace(base) == "" {
		return "", &NoTableNameGivenError{Role: n.Role}
	}
	parts := make([]string, 0, 3)
	if n.Database != "" {
		parts = append(parts, n.Database)
	}
	if n.Schema != "" {
		parts = append(parts, n.Schema)
	}
	parts = append(parts, n.Prefix+base)
	return strings.Join(parts, "."), nil
}

// sameTier reports whether n and o qualify every base name identically.
func (n Naming) sameTier(o Naming) bool {
	return strings.EqualFold(n.Database, o.Database) &&
		strings.EqualFold(n.Schema, o.Schema) &&
		strings.EqualFold(n.Prefix, o.Prefix)
}

// TableName returns prefix+base without database and schema.
func (n Naming) TableName(base string) (string, error) {
	if strings.TrimSpace(base) == "" {
		return "", &NoTableNameGivenError{Role: n.Role}
	}
	return n.Prefix + base, nil
}
