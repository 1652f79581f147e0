package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profileYAML = `
key_fields:
  - roll no
  - subject code
compare_fields:
  - grade
  - result
header_mapping:
  "Sub Code": subject code
synonyms:
  result:
    p: pass
    f: ra
patterns:
  terminator: "END OF STATEMENT"
  block_key: "ROLL NO (\\d+)"
  key_fields: [roll no]
  line_start: "[A-Z]{2}\\d{3} "
  line: "([A-Z]{2}\\d{3}) ([A-Z ]+?) (\\d+) ([A-Z]\\+?) (\\d+) (PASS|RA)"
  line_fields: [subject code, subject name, marks, grade, point, result]
`

func TestParseProfile(t *testing.T) {
	p, err := ParseProfile([]byte(profileYAML))
	require.NoError(t, err)

	// Every configured name is canonicalized regardless of profile casing.
	assert.Equal(t, []string{"ROLL NO", "SUBJECT CODE"}, p.KeyFields)
	assert.Equal(t, []string{"GRADE", "RESULT"}, p.CompareFields)
	assert.Equal(t, "SUBJECT CODE", p.HeaderMapping["SUB CODE"])
	assert.Equal(t, "PASS", p.Synonyms["RESULT"]["P"])
	assert.Equal(t, []string{"SUBJECT CODE", "SUBJECT NAME", "MARKS", "GRADE", "POINT", "RESULT"}, p.Patterns.LineFields)

	assert.True(t, p.Keyed())
	_, err = p.Validate()
	assert.NoError(t, err)
}

func TestParseProfile_Invalid(t *testing.T) {
	_, err := ParseProfile([]byte("key_fields: {not: a list}"))
	assert.Error(t, err)
}

func TestProfile_Keyed(t *testing.T) {
	p := &Profile{}
	assert.False(t, p.Keyed())

	_, err := p.Validate()
	assert.Error(t, err)
}

func TestProfile_ValidateBadPattern(t *testing.T) {
	p, err := ParseProfile([]byte(profileYAML))
	require.NoError(t, err)
	p.Patterns.Line = "(["

	_, err = p.Validate()
	assert.Error(t, err)
}
