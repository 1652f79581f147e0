package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doc-reconciler/core/normalize"
)

func tabularRecord(fields map[string]string) Record {
	return Record{Origin: OriginTabular, Fields: fields}
}

func textRecord(fields map[string]string) Record {
	return Record{Origin: OriginText, Fields: fields}
}

func marksheetSpec() *Spec {
	return &Spec{
		KeyFields:     []string{"ROLL NO", "SUBJECT CODE"},
		CompareFields: []string{"GRADE", "RESULT"},
		Synonyms: normalize.Synonyms{
			"RESULT": {"P": "PASS", "F": "RA"},
		},
	}
}

func TestRun_MatchAfterSynonyms(t *testing.T) {
	tabular := []Record{
		tabularRecord(map[string]string{"ROLL NO": "7", "SUBJECT CODE": "CS101", "GRADE": "A", "RESULT": "P"}),
	}
	text := []Record{
		textRecord(map[string]string{"ROLL NO": "7", "SUBJECT CODE": "CS101", "GRADE": "A", "RESULT": "PASS"}),
	}

	result := Run(marksheetSpec(), tabular, text)

	assert.Empty(t, result.Mismatches)
	assert.Empty(t, result.MissingFromText)
	assert.Empty(t, result.MissingFromTabular)
	assert.Equal(t, 1, result.Summary.Matched)
	assert.Equal(t, 1, result.Summary.TotalKeys)
}

func TestRun_FieldMismatch(t *testing.T) {
	tabular := []Record{
		tabularRecord(map[string]string{"ROLL NO": "7", "SUBJECT CODE": "CS101", "GRADE": "A", "RESULT": "P"}),
	}
	text := []Record{
		textRecord(map[string]string{"ROLL NO": "7", "SUBJECT CODE": "CS101", "GRADE": "B", "RESULT": "PASS"}),
	}

	result := Run(marksheetSpec(), tabular, text)

	require.Len(t, result.Mismatches, 1)
	m := result.Mismatches[0]
	assert.Equal(t, map[string]string{"ROLL NO": "7", "SUBJECT CODE": "CS101"}, m.KeyValues)
	require.Len(t, m.Diffs, 1)
	assert.Equal(t, FieldDiff{Field: "GRADE", Tabular: "A", Text: "B"}, m.Diffs[0])
	assert.Equal(t, 1, result.Summary.Mismatched)
	assert.Zero(t, result.Summary.Matched)
}

func TestRun_MissingSets(t *testing.T) {
	tabular := []Record{
		tabularRecord(map[string]string{"ROLL NO": "7", "SUBJECT CODE": "CS101", "GRADE": "A"}),
		tabularRecord(map[string]string{"ROLL NO": "9", "SUBJECT CODE": "CS101", "GRADE": "C"}),
	}
	text := []Record{
		textRecord(map[string]string{"ROLL NO": "7", "SUBJECT CODE": "CS101", "GRADE": "A"}),
		textRecord(map[string]string{"ROLL NO": "7", "SUBJECT CODE": "MA102", "GRADE": "B"}),
	}

	result := Run(marksheetSpec(), tabular, text)

	require.Len(t, result.MissingFromText, 1)
	assert.Equal(t, map[string]string{"ROLL NO": "9", "SUBJECT CODE": "CS101"}, result.MissingFromText[0].KeyValues)

	require.Len(t, result.MissingFromTabular, 1)
	assert.Equal(t, map[string]string{"ROLL NO": "7", "SUBJECT CODE": "MA102"}, result.MissingFromTabular[0].KeyValues)

	// The key present on both sides is matched, not listed anywhere else.
	assert.Empty(t, result.Mismatches)
	assert.Equal(t, 1, result.Summary.Matched)
	assert.Equal(t, 3, result.Summary.TotalKeys)
}

// Every key must land in exactly one bucket: matched, mismatched, or one of
// the missing sets.
func TestRun_JoinTotality(t *testing.T) {
	tabular := []Record{
		tabularRecord(map[string]string{"ROLL NO": "1", "SUBJECT CODE": "CS101", "GRADE": "A"}),
		tabularRecord(map[string]string{"ROLL NO": "2", "SUBJECT CODE": "CS101", "GRADE": "B"}),
		tabularRecord(map[string]string{"ROLL NO": "3", "SUBJECT CODE": "CS101", "GRADE": "C"}),
	}
	text := []Record{
		textRecord(map[string]string{"ROLL NO": "2", "SUBJECT CODE": "CS101", "GRADE": "B"}),
		textRecord(map[string]string{"ROLL NO": "3", "SUBJECT CODE": "CS101", "GRADE": "D"}),
		textRecord(map[string]string{"ROLL NO": "4", "SUBJECT CODE": "CS101", "GRADE": "A"}),
	}

	result := Run(marksheetSpec(), tabular, text)

	s := result.Summary
	assert.Equal(t, 4, s.TotalKeys)
	assert.Equal(t, s.TotalKeys, s.Matched+s.Mismatched+s.MissingFromText+s.MissingFromTabular)
	assert.Equal(t, 1, s.Matched)            // roll 2
	assert.Equal(t, 1, s.Mismatched)         // roll 3
	assert.Equal(t, 1, s.MissingFromText)    // roll 1
	assert.Equal(t, 1, s.MissingFromTabular) // roll 4
}

func TestRun_AbsenceSymmetry(t *testing.T) {
	t.Run("AbsentBothRecords", func(t *testing.T) {
		// Both schemas carry GRADE, but roll 7 lacks it on both sides, which
		// is vacuously equal.
		tabular := []Record{
			tabularRecord(map[string]string{"ROLL NO": "7", "SUBJECT CODE": "CS101"}),
			tabularRecord(map[string]string{"ROLL NO": "8", "SUBJECT CODE": "CS101", "GRADE": "C", "RESULT": "PASS"}),
		}
		text := []Record{
			textRecord(map[string]string{"ROLL NO": "7", "SUBJECT CODE": "CS101"}),
			textRecord(map[string]string{"ROLL NO": "8", "SUBJECT CODE": "CS101", "GRADE": "C", "RESULT": "PASS"}),
		}

		result := Run(marksheetSpec(), tabular, text)
		assert.Empty(t, result.Mismatches)
		assert.Equal(t, 2, result.Summary.Matched)
	})

	t.Run("AbsentOneRecord", func(t *testing.T) {
		// Both schemas carry GRADE (roll 8's text record has it), but roll
		// 7's text record does not, so that record-level gap is a mismatch.
		tabular := []Record{
			tabularRecord(map[string]string{"ROLL NO": "7", "SUBJECT CODE": "CS101", "GRADE": "A"}),
			tabularRecord(map[string]string{"ROLL NO": "8", "SUBJECT CODE": "CS101", "GRADE": "C"}),
		}
		text := []Record{
			textRecord(map[string]string{"ROLL NO": "7", "SUBJECT CODE": "CS101"}),
			textRecord(map[string]string{"ROLL NO": "8", "SUBJECT CODE": "CS101", "GRADE": "C"}),
		}

		result := Run(marksheetSpec(), tabular, text)
		require.Len(t, result.Mismatches, 1)
		require.Len(t, result.Mismatches[0].Diffs, 1)
		assert.Equal(t, FieldDiff{Field: "GRADE", Tabular: "A", Text: ""}, result.Mismatches[0].Diffs[0])
	})
}

// Duplicate keys fan out instead of being deduplicated, so a legitimate
// repeat is checked against every counterpart and a true duplicate surfaces
// as extra diffs.
func TestRun_DuplicateKeysFanOut(t *testing.T) {
	tabular := []Record{
		tabularRecord(map[string]string{"ROLL NO": "7", "SUBJECT CODE": "CS101", "GRADE": "A"}),
	}
	text := []Record{
		textRecord(map[string]string{"ROLL NO": "7", "SUBJECT CODE": "CS101", "GRADE": "A"}),
		textRecord(map[string]string{"ROLL NO": "7", "SUBJECT CODE": "CS101", "GRADE": "C"}),
	}

	result := Run(marksheetSpec(), tabular, text)

	require.Len(t, result.Mismatches, 1)
	assert.Equal(t, []FieldDiff{{Field: "GRADE", Tabular: "A", Text: "C"}}, result.Mismatches[0].Diffs)
	// Duplicates never inflate the missing sets.
	assert.Empty(t, result.MissingFromText)
	assert.Empty(t, result.MissingFromTabular)
}

func TestRun_DropsRecordsWithAbsentKey(t *testing.T) {
	tabular := []Record{
		tabularRecord(map[string]string{"SUBJECT CODE": "CS101", "GRADE": "A"}), // no roll number
		tabularRecord(map[string]string{"ROLL NO": "7", "SUBJECT CODE": "CS101", "GRADE": "A"}),
	}
	text := []Record{
		textRecord(map[string]string{"ROLL NO": "7", "SUBJECT CODE": "CS101", "GRADE": "A"}),
	}

	result := Run(marksheetSpec(), tabular, text)

	assert.Equal(t, 1, result.Summary.DroppedTabular)
	assert.Zero(t, result.Summary.DroppedText)
	assert.Equal(t, 1, result.Summary.Matched)
}

func TestRun_EmptyInputs(t *testing.T) {
	t.Run("BothEmpty", func(t *testing.T) {
		result := Run(marksheetSpec(), nil, nil)
		assert.Empty(t, result.Mismatches)
		assert.Empty(t, result.MissingFromText)
		assert.Empty(t, result.MissingFromTabular)
		assert.Zero(t, result.Summary.TotalKeys)
	})

	t.Run("EmptyTextSide", func(t *testing.T) {
		tabular := []Record{
			tabularRecord(map[string]string{"ROLL NO": "7", "SUBJECT CODE": "CS101", "GRADE": "A"}),
		}
		result := Run(marksheetSpec(), tabular, nil)
		assert.Len(t, result.MissingFromText, 1)
		assert.Empty(t, result.Mismatches)
	})
}

func TestRun_ConfigurationGapWarning(t *testing.T) {
	spec := marksheetSpec()
	spec.CompareFields = append(spec.CompareFields, "ATTENDANCE")

	tabular := []Record{
		tabularRecord(map[string]string{"ROLL NO": "7", "SUBJECT CODE": "CS101", "GRADE": "A"}),
	}
	text := []Record{
		textRecord(map[string]string{"ROLL NO": "7", "SUBJECT CODE": "CS101", "GRADE": "A"}),
	}

	result := Run(spec, tabular, text)

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "ATTENDANCE")
	assert.Contains(t, result.Warnings[0], "either source")
	// The gap is non-fatal; the rest of the comparison proceeds.
	assert.Equal(t, 1, result.Summary.Matched)
}

// A field one source's schema never carries is a configuration gap, warned
// about once and excluded, not a per-key diff against the empty string.
func TestRun_FieldAbsentFromOneSchema(t *testing.T) {
	spec := marksheetSpec()
	spec.CompareFields = []string{"GRADE", "MARKS"}

	// Every tabular record carries MARKS; no text record does.
	tabular := []Record{
		tabularRecord(map[string]string{"ROLL NO": "7", "SUBJECT CODE": "CS101", "GRADE": "A", "MARKS": "90"}),
		tabularRecord(map[string]string{"ROLL NO": "8", "SUBJECT CODE": "CS101", "GRADE": "B", "MARKS": "85"}),
	}
	text := []Record{
		textRecord(map[string]string{"ROLL NO": "7", "SUBJECT CODE": "CS101", "GRADE": "A"}),
		textRecord(map[string]string{"ROLL NO": "8", "SUBJECT CODE": "CS101", "GRADE": "B"}),
	}

	result := Run(spec, tabular, text)

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "MARKS")
	assert.Contains(t, result.Warnings[0], "text source")
	assert.Empty(t, result.Mismatches)
	assert.Equal(t, 2, result.Summary.Matched)
}

// Key fields accidentally listed as comparison fields are ignored rather
// than compared against themselves.
func TestRun_KeyFieldsExcludedFromComparison(t *testing.T) {
	spec := marksheetSpec()
	spec.CompareFields = []string{"ROLL NO", "GRADE"}

	tabular := []Record{
		tabularRecord(map[string]string{"ROLL NO": "7", "SUBJECT CODE": "CS101", "GRADE": "A"}),
	}
	text := []Record{
		textRecord(map[string]string{"ROLL NO": "7", "SUBJECT CODE": "CS101", "GRADE": "A"}),
	}

	result := Run(spec, tabular, text)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, 1, result.Summary.Matched)
}

func TestRecord_Key(t *testing.T) {
	r := tabularRecord(map[string]string{"ROLL NO": "7", "SUBJECT CODE": "CS101"})

	key, ok := r.Key([]string{"ROLL NO", "SUBJECT CODE"})
	require.True(t, ok)
	assert.Equal(t, []string{"7", "CS101"}, key.Values())
	assert.Equal(t, "7 CS101", key.String())

	_, ok = r.Key([]string{"ROLL NO", "SEMESTER"})
	assert.False(t, ok)
}

// Normalized values carry no control bytes, so two different key tuples can
// never join into the same composite key.
func TestRecord_KeyUnambiguous(t *testing.T) {
	rawA, okA := normalize.Value("7\x1fCS101")
	rawB, okB := normalize.Value("7")
	require.True(t, okA)
	require.True(t, okB)

	a := tabularRecord(map[string]string{"ROLL NO": rawA, "SUBJECT CODE": "MA102"})
	b := tabularRecord(map[string]string{"ROLL NO": rawB, "SUBJECT CODE": "CS101"})

	keyA, ok := a.Key([]string{"ROLL NO", "SUBJECT CODE"})
	require.True(t, ok)
	keyB, ok := b.Key([]string{"ROLL NO", "SUBJECT CODE"})
	require.True(t, ok)

	assert.NotEqual(t, keyB, keyA)
}
