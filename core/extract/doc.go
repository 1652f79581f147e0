// Package extract recovers structured records from an unstructured text
// blob when no reliable delimiter structure exists.
//
// The extractor is driven by a PatternSet: four regular expressions that act
// as a pluggable micro-grammar over collapsed text. Block terminators split
// the stream into per-entity blocks, a key pattern identifies each block's
// entity, a line-start pattern re-segments the collapsed block into
// line-item candidates, and a positional field pattern captures each
// candidate's fields.
//
// # Fail-open extraction
//
// The extractor favors precision over recall: blocks without a key and
// candidates that do not match the line pattern vanish silently instead of
// raising parse errors, because the upstream text conversion does not
// guarantee a stable layout. The Yield counters (blocks seen/keyed, lines
// seen/matched) are the diagnostic for detecting pattern drift.
package extract
