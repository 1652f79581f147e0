package presence

import (
	"sort"
	"strings"

	"doc-reconciler/core/reconcile"
)

// MissingRow reports one record with at least one value not found in the
// text blob, listing exactly the missing fields and their expected values.
type MissingRow struct {
	// RowIndex is the record's 1-based position in the tabular source.
	RowIndex int `json:"row_index"`

	// Missing maps field names to the expected values not found in the text.
	Missing map[string]string `json:"missing"`
}

// Report aggregates a presence run over a whole tabular source.
type Report struct {
	// Rows lists records with at least one missing value, in source order.
	Rows []MissingRow `json:"rows"`

	// TotalChecked counts every non-absent value that was looked up.
	TotalChecked int `json:"total_checked"`
}

// AllFound reports whether every checked value was present in the text.
func (r *Report) AllFound() bool {
	return len(r.Rows) == 0
}

// Check verifies whether each of the record's selected field values occurs
// anywhere in the normalized text blob. A value "is found" iff it is a
// literal contiguous substring of the blob; absent fields are skipped and
// not counted. checked reports how many values were actually looked up.
func Check(record reconcile.Record, blob string, fields []string) (allFound bool, missing map[string]string, checked int) {
	missing = map[string]string{}
	for _, f := range fields {
		value, present := record.Fields[f]
		if !present {
			continue
		}
		checked++
		if !strings.Contains(blob, value) {
			missing[f] = value
		}
	}
	return len(missing) == 0, missing, checked
}

// CheckAll runs Check over every record against the blob and collects one
// row per record with missing values. Records are numbered from 1 in input
// order. fields selects which field names to verify; when empty, each
// record's own field set is checked.
func CheckAll(records []reconcile.Record, blob string, fields []string) *Report {
	report := &Report{Rows: []MissingRow{}}
	for i, record := range records {
		checkFields := fields
		if len(checkFields) == 0 {
			checkFields = fieldNames(record)
		}
		allFound, missing, checked := Check(record, blob, checkFields)
		report.TotalChecked += checked
		if !allFound {
			report.Rows = append(report.Rows, MissingRow{
				RowIndex: i + 1,
				Missing:  missing,
			})
		}
	}
	return report
}

func fieldNames(record reconcile.Record) []string {
	names := make([]string, 0, len(record.Fields))
	for f := range record.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return names
}
