// Package scd2 synthesizes Slowly Changing Dimension Type 2 load statements.
//
// A Generator pairs a staging TableDescriptor with a history TableDescriptor
// and produces four statements that keep the history table versioned:
//
//   - new_insert: insert business keys never seen before
//   - updated_insert: insert a new open version for keys whose attributes changed
//   - updated_update: close the superseded open version
//   - deleted_update: close open versions of keys missing from staging
//
// Dates are resolved by a DateResolver chosen once per Generator: either
// template tokens ({{ batch_date }}) bound by a later templating pass, or
// scalar subqueries against the tableloads control table.
//
// Statements are returned as pkg/sqlexpr trees and rendered for a dialect with
// pkg/format. Nothing in this package performs I/O.
package scd2
