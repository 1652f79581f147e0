// Package presence implements the degraded fallback comparison mode used
// when no key or pattern definitions are configured for the document family.
//
// Instead of joining records, it only verifies that each tabular record's
// selected values occur somewhere in the normalized text blob as literal
// substrings. It has no key concept, so it cannot detect records present
// only on the text side; its single output collection is the list of rows
// with missing values.
package presence
