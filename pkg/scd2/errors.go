package scd2

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for errors.Is matching.
var (
	ErrInvalidTableDescriptor = errors.New("invalid table descriptor")
	ErrInvalidLoadStrategy    = errors.New("invalid load strategy")
	ErrMissingBatchContext    = errors.New("control-table strategy requires a batch context")
	ErrOpenRowConflict        = errors.New("more than one open history row per key")
)

// InvalidTableDescriptorError reports a structurally invalid staging or history descriptor.
type InvalidTableDescriptorError struct {
	Table  string
	Column string
	Reason string
}

func (e *InvalidTableDescriptorError) Error() string {
	msg := fmt.Sprintf("invalid table descriptor %q: %s", e.Table, e.Reason)
	if e.Column != "" {
		msg += fmt.Sprintf(" (column %q)", e.Column)
	}
	return msg
}

// Unwrap returns ErrInvalidTableDescriptor.
func (e *InvalidTableDescriptorError) Unwrap() error {
	return ErrInvalidTableDescriptor
}

// InvalidLoadStrategyError reports a load strategy outside the supported set.
type InvalidLoadStrategyError struct {
	Strategy string
}

func (e *InvalidLoadStrategyError) Error() string {
	return fmt.Sprintf("invalid load strategy %q (expected %q or %q)", e.Strategy, StrategyTemplated, StrategyControlTable)
}

// Unwrap returns ErrInvalidLoadStrategy.
func (e *InvalidLoadStrategyError) Unwrap() error {
	return ErrInvalidLoadStrategy
}

// OpenRowConflictError reports logical keys of a history table that have
// more than one open row. Keys are rendered as col=value pairs.
type OpenRowConflictError struct {
	Table string
	Keys  []string
}

func (e *OpenRowConflictError) Error() string {
	return fmt.Sprintf("%s: %d key(s) with more than one open row: %s",
		e.Table, len(e.Keys), strings.Join(e.Keys, "; "))
}

// Unwrap returns ErrOpenRowConflict.
func (e *OpenRowConflictError) Unwrap() error {
	return ErrOpenRowConflict
}

func invalidDescriptor(table, column, reason string) error {
	return &InvalidTableDescriptorError{Table: table, Column: column, Reason: reason}
}
