package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"doc-reconciler/core/presence"
	"doc-reconciler/core/reconcile"
)

// Origin suffixes for mismatch columns, matching what report consumers
// expect from the legacy tooling: the master side came from a spreadsheet,
// the text side from a scanned PDF.
const (
	suffixTabular = "_EXCEL"
	suffixText    = "_PDF"
)

// Artifact is one flat, serializable output collection: ordered column
// headers plus one string map per reported record. It serializes to a CSV
// file or a workbook sheet without further shaping.
type Artifact struct {
	// Name is the artifact's base name, e.g. "mismatches".
	Name string `json:"name"`

	// Headers lists column names in output order.
	Headers []string `json:"headers"`

	// Rows holds one header-keyed value map per record. Missing cells
	// serialize as empty strings.
	Rows []map[string]string `json:"rows"`
}

// Keyed assembles the three named output collections of a keyed
// reconciliation run. keyFields fixes the leading column order.
func Keyed(result *reconcile.Result, keyFields []string) []Artifact {
	return []Artifact{
		mismatches(result.Mismatches, keyFields),
		missing("missing_from_text", result.MissingFromText, keyFields),
		missing("missing_from_tabular", result.MissingFromTabular, keyFields),
	}
}

// mismatches renders each mismatch as one row: key columns followed by an
// origin-suffixed column pair per differing field.
func mismatches(items []reconcile.Mismatch, keyFields []string) Artifact {
	diffFields := map[string]struct{}{}
	for _, m := range items {
		for _, d := range m.Diffs {
			diffFields[d.Field] = struct{}{}
		}
	}
	sorted := make([]string, 0, len(diffFields))
	for f := range diffFields {
		sorted = append(sorted, f)
	}
	sort.Strings(sorted)

	headers := append([]string{}, keyFields...)
	for _, f := range sorted {
		headers = append(headers, f+suffixTabular, f+suffixText)
	}

	rows := make([]map[string]string, 0, len(items))
	for _, m := range items {
		row := make(map[string]string, len(headers))
		for _, k := range keyFields {
			row[k] = m.KeyValues[k]
		}
		for _, d := range m.Diffs {
			row[d.Field+suffixTabular] = d.Tabular
			row[d.Field+suffixText] = d.Text
		}
		rows = append(rows, row)
	}

	return Artifact{Name: "mismatches", Headers: headers, Rows: rows}
}

// missing renders a one-sided missing set: key columns only.
func missing(name string, items []reconcile.MissingRecord, keyFields []string) Artifact {
	rows := make([]map[string]string, 0, len(items))
	for _, m := range items {
		row := make(map[string]string, len(keyFields))
		for _, k := range keyFields {
			row[k] = m.KeyValues[k]
		}
		rows = append(rows, row)
	}
	return Artifact{Name: name, Headers: append([]string{}, keyFields...), Rows: rows}
}

// Presence assembles the fallback mode's single collection: one row per
// record with missing values, ROW_INDEX first, then every missing field
// observed across the report.
func Presence(rep *presence.Report) Artifact {
	fields := map[string]struct{}{}
	for _, row := range rep.Rows {
		for f := range row.Missing {
			fields[f] = struct{}{}
		}
	}
	sorted := make([]string, 0, len(fields))
	for f := range fields {
		sorted = append(sorted, f)
	}
	sort.Strings(sorted)

	headers := append([]string{"ROW_INDEX"}, sorted...)
	rows := make([]map[string]string, 0, len(rep.Rows))
	for _, r := range rep.Rows {
		row := make(map[string]string, len(headers))
		row["ROW_INDEX"] = strconv.Itoa(r.RowIndex)
		for f, v := range r.Missing {
			row[f] = v
		}
		rows = append(rows, row)
	}

	return Artifact{Name: "mismatched_data", Headers: headers, Rows: rows}
}

// WriteCSV serializes an artifact: one header row, one row per record.
func WriteCSV(w io.Writer, artifact Artifact) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(artifact.Headers); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	record := make([]string, len(artifact.Headers))
	for _, row := range artifact.Rows {
		for i, h := range artifact.Headers {
			record[i] = row[h]
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
