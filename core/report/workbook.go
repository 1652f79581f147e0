package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// WriteWorkbook serializes artifacts into a single .xlsx workbook, one sheet
// per artifact with a styled header row. Empty artifacts still get a sheet
// so consumers can tell "no findings" from "collection not produced".
func WriteWorkbook(w io.Writer, artifacts []Artifact) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, artifact := range artifacts {
		sheet := sheetName(artifact.Name)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
		}

		for col, header := range artifact.Headers {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return fmt.Errorf("failed to address header cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, header); err != nil {
				return fmt.Errorf("failed to write header cell: %w", err)
			}
			if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
				return fmt.Errorf("failed to style header cell: %w", err)
			}
		}

		for rowIdx, row := range artifact.Rows {
			for col, header := range artifact.Headers {
				cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
				if err != nil {
					return fmt.Errorf("failed to address cell: %w", err)
				}
				if err := f.SetCellValue(sheet, cell, row[header]); err != nil {
					return fmt.Errorf("failed to write cell: %w", err)
				}
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// sheetName shortens an artifact name to Excel's 31-character sheet limit.
func sheetName(name string) string {
	if len(name) > 31 {
		return name[:31]
	}
	return name
}
