// Package reconcile joins two record sequences on a composite key and
// reports field-level mismatches and bidirectional missing-record sets.
//
// The engine consumes one sequence of tabular-origin records (the master
// spreadsheet) and one sequence of text-origin records (extracted from the
// document) and computes three named output collections:
//
//  1. Mismatches: keys present in both sources where at least one comparison
//     field differs, carrying both sides' values per differing field.
//  2. MissingFromText: keys present only in the tabular source.
//  3. MissingFromTabular: keys present only in the text source.
//
// # Join semantics
//
// The join is an inner join on the composite key with fan-out: when a key
// occurs multiple times on a side, every record pair is compared. This keeps
// legitimate repeats (e.g. retaken items) visible and lets true duplicates
// surface as additional diffs rather than being masked by a first-match-wins
// rule. Missing sets use key presence only, irrespective of duplicates.
//
// # Comparison
//
// Comparison is exact field-value equality after normalization and synonym
// mapping, never substring or fuzzy matching. A field absent on both sides
// is vacuously equal; absent on exactly one side is a mismatch.
//
// Records are read-only snapshots and the engine holds no state across runs,
// so concurrent runs with different specs are safe.
package reconcile
