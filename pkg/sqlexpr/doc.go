// Package sqlexpr provides dialect-independent SQL expression and statement values.
//
// Expressions are plain tagged values (Equals, And, Exists, ...) rather than
// rendered text. Code that builds statements composes these values and hands
// them to pkg/format, which lowers them to SQL for a specific dialect. Keeping
// the tree separate from its text lets callers compare predicate trees directly.
package sqlexpr
