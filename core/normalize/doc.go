// Package normalize canonicalizes header names and field values from both
// reconciliation sources so that comparison operates on a common schema.
//
// All functions are pure and idempotent: normalizing an already-normalized
// value yields the same value. Malformed input never fails; it degrades to
// the absent classification instead.
//
// # Absence
//
// A value that normalizes to the empty string, "NAN", or "NONE" is absent.
// Absent values are not compared and not counted anywhere downstream.
//
// # Configuration as data
//
// HeaderMapping and Synonyms are immutable lookup tables passed in at
// construction of the consuming component. There is no package-level mutable
// state, so concurrent runs with different configurations are safe.
package normalize
