// Package core defines the shared vocabulary of the ninjasql system.
//
// This package contains:
//   - Connection types (AdapterConfig, Column, TableMetadata)
//   - Dialect configuration (DialectConfig, IdentifierConfig, PlaceholderStyle, BindingMode)
//   - Configuration types (TargetConfig)
//
// The Golden Rule: pkg/core imports ONLY the standard library.
// All other packages depend on core, not the reverse.
package core
