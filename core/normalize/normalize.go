package normalize

import (
	"regexp"
	"strings"
)

// whitespace matches any run of whitespace or control bytes, including
// newlines and separator characters surviving upstream extraction.
var whitespace = regexp.MustCompile(`[\s\x00-\x1F\x7F]+`)

// absentTokens are normalized values that carry no data.
// They come from upstream exports that serialize empty cells as "nan" or "None".
var absentTokens = map[string]struct{}{
	"":     {},
	"NAN":  {},
	"NONE": {},
}

// Header canonicalizes a raw header name: leading/trailing whitespace is
// stripped, the result is uppercased, and internal whitespace runs (including
// newlines from multi-line spreadsheet headers) collapse to a single space.
// Header is idempotent.
func Header(raw string) string {
	return whitespace.ReplaceAllString(strings.ToUpper(strings.TrimSpace(raw)), " ")
}

// Value canonicalizes a raw field value. Whitespace and control runs collapse
// to a single space, so no control byte survives into a value. The second
// return value is false when the value is absent: empty after trimming, or
// one of the no-data tokens. Absent values are excluded from comparison
// entirely.
func Value(raw string) (string, bool) {
	v := strings.TrimSpace(whitespace.ReplaceAllString(strings.ToUpper(raw), " "))
	if _, absent := absentTokens[v]; absent {
		return "", false
	}
	return v, true
}

// Text collapses every whitespace run in a raw text blob to a single space
// and uppercases the result. Upstream text extraction reflows layout
// unpredictably, so collapsing makes pattern matching layout-independent.
func Text(raw string) string {
	return strings.ToUpper(whitespace.ReplaceAllString(strings.TrimSpace(raw), " "))
}
