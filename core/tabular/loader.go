package tabular

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"doc-reconciler/core/normalize"
	"doc-reconciler/core/reconcile"
)

// Row is one tabular record in sheet order: raw cell values keyed by their
// canonical header name. Headers preserves column order for reporting.
type Row struct {
	// Index is the 1-based data row number (header row excluded).
	Index int

	// Headers lists the canonical header names in column order.
	Headers []string

	// Cells maps canonical header names to raw cell values.
	Cells map[string]string
}

// LoadXLSX reads the first sheet of an .xlsx workbook into rows. The first
// sheet row is the header row; each header is normalized and resolved
// through the mapping. Empty sheets yield zero rows, not an error.
func LoadXLSX(r io.Reader, mapping normalize.HeaderMapping) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	return fromCells(raw, mapping), nil
}

// LoadCSV reads a CSV stream into rows, first record as the header row.
func LoadCSV(r io.Reader, mapping normalize.HeaderMapping) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	raw, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	return fromCells(raw, mapping), nil
}

// fromCells assembles rows from a raw cell grid. Cells beyond the header
// width are ignored; short rows leave the remaining headers unset.
func fromCells(grid [][]string, mapping normalize.HeaderMapping) []Row {
	if len(grid) == 0 {
		return []Row{}
	}

	headers := make([]string, len(grid[0]))
	for i, h := range grid[0] {
		headers[i] = mapping.Canonical(h)
	}

	rows := make([]Row, 0, len(grid)-1)
	for i, cells := range grid[1:] {
		row := Row{
			Index:   i + 1,
			Headers: headers,
			Cells:   make(map[string]string, len(headers)),
		}
		for j, h := range headers {
			if j < len(cells) {
				row.Cells[h] = cells[j]
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// Records normalizes loaded rows into tabular-origin records. Absent values
// drop out of the field map here, so downstream comparison never sees them.
func Records(rows []Row) []reconcile.Record {
	records := make([]reconcile.Record, 0, len(rows))
	for _, row := range rows {
		fields := make(map[string]string, len(row.Cells))
		for name, raw := range row.Cells {
			if value, ok := normalize.Value(raw); ok {
				fields[name] = value
			}
		}
		records = append(records, reconcile.Record{
			Origin: reconcile.OriginTabular,
			Fields: fields,
		})
	}
	return records
}
