// Package tabular loads the master tabular source into ordered string-keyed
// rows. It understands .xlsx workbooks (first sheet) and CSV streams and
// applies header mapping and normalization on load, so everything downstream
// operates on the canonical schema. No other package knows about sheet
// formats.
package tabular
