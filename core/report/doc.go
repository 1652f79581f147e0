// Package report turns reconciliation outputs into downloadable artifacts.
//
// Each output collection becomes a flat Artifact (ordered headers + string
// rows) which serializes to CSV or into a multi-sheet .xlsx workbook.
// Mismatch columns carry origin suffixes (_EXCEL for the tabular master,
// _PDF for the document text) so both sides of a differing field sit next
// to each other in the report.
package report
