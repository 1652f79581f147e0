package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"doc-reconciler/core/presence"
	"doc-reconciler/core/reconcile"
)

func sampleResult() *reconcile.Result {
	return &reconcile.Result{
		Mismatches: []reconcile.Mismatch{
			{
				Key:       "7",
				KeyValues: map[string]string{"ROLL NO": "7"},
				Diffs: []reconcile.FieldDiff{
					{Field: "GRADE", Tabular: "A", Text: "B"},
				},
			},
		},
		MissingFromText: []reconcile.MissingRecord{
			{Key: "9", KeyValues: map[string]string{"ROLL NO": "9"}},
		},
		MissingFromTabular: []reconcile.MissingRecord{},
	}
}

func TestKeyed(t *testing.T) {
	artifacts := Keyed(sampleResult(), []string{"ROLL NO"})
	require.Len(t, artifacts, 3)

	mismatches := artifacts[0]
	assert.Equal(t, "mismatches", mismatches.Name)
	assert.Equal(t, []string{"ROLL NO", "GRADE_EXCEL", "GRADE_PDF"}, mismatches.Headers)
	require.Len(t, mismatches.Rows, 1)
	assert.Equal(t, map[string]string{
		"ROLL NO":     "7",
		"GRADE_EXCEL": "A",
		"GRADE_PDF":   "B",
	}, mismatches.Rows[0])

	missingFromText := artifacts[1]
	assert.Equal(t, "missing_from_text", missingFromText.Name)
	require.Len(t, missingFromText.Rows, 1)
	assert.Equal(t, "9", missingFromText.Rows[0]["ROLL NO"])

	missingFromTabular := artifacts[2]
	assert.Equal(t, "missing_from_tabular", missingFromTabular.Name)
	assert.Empty(t, missingFromTabular.Rows)
}

func TestPresence(t *testing.T) {
	artifact := Presence(&presence.Report{
		Rows: []presence.MissingRow{
			{RowIndex: 1, Missing: map[string]string{"NAME": "JOHN"}},
			{RowIndex: 3, Missing: map[string]string{"NAME": "JANE", "GRADE": "A"}},
		},
		TotalChecked: 6,
	})

	assert.Equal(t, "mismatched_data", artifact.Name)
	assert.Equal(t, []string{"ROW_INDEX", "GRADE", "NAME"}, artifact.Headers)
	require.Len(t, artifact.Rows, 2)
	assert.Equal(t, map[string]string{"ROW_INDEX": "1", "NAME": "JOHN"}, artifact.Rows[0])
	assert.Equal(t, "3", artifact.Rows[1]["ROW_INDEX"])
}

func TestWriteCSV(t *testing.T) {
	artifact := Artifact{
		Name:    "mismatches",
		Headers: []string{"ROLL NO", "GRADE_EXCEL", "GRADE_PDF"},
		Rows: []map[string]string{
			{"ROLL NO": "7", "GRADE_EXCEL": "A", "GRADE_PDF": "B"},
			{"ROLL NO": "8"}, // missing cells serialize empty
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, artifact))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ROLL NO,GRADE_EXCEL,GRADE_PDF", lines[0])
	assert.Equal(t, "7,A,B", lines[1])
	assert.Equal(t, "8,,", lines[2])
}

func TestWriteWorkbook(t *testing.T) {
	artifacts := Keyed(sampleResult(), []string{"ROLL NO"})

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, artifacts))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"mismatches", "missing_from_text", "missing_from_tabular"}, f.GetSheetList())

	rows, err := f.GetRows("mismatches")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"ROLL NO", "GRADE_EXCEL", "GRADE_PDF"}, rows[0])
	assert.Equal(t, []string{"7", "A", "B"}, rows[1])

	// Empty collections still get their sheet.
	_, err = f.GetRows("missing_from_tabular")
	assert.NoError(t, err)
}
