package reconcile

import (
	"sort"
	"strings"
)

// Origin identifies which source a record was loaded from.
type Origin string

const (
	// OriginTabular marks records loaded from the tabular master source.
	OriginTabular Origin = "TABULAR"
	// OriginText marks records extracted from the document text source.
	OriginText Origin = "TEXT"
)

// keySeparator joins key field values into a single composite key string.
// Unit separator, which cannot collide with normalized values: normalization
// collapses every control byte to a space.
const keySeparator = "\x1f"

// Record is one logical entity's set of named fields from a single origin.
// Fields holds canonical field names mapped to canonical values; absent
// fields are simply not present in the map. Records are never mutated after
// construction.
type Record struct {
	// Origin is the source this record was loaded from.
	Origin Origin

	// Fields maps canonical field names to normalized values.
	Fields map[string]string
}

// Key builds the record's composite key from the given key field values.
// ok is false when any key field is absent; such records cannot participate
// in keyed reconciliation.
func (r Record) Key(keyFields []string) (Key, bool) {
	parts := make([]string, 0, len(keyFields))
	for _, f := range keyFields {
		v, present := r.Fields[f]
		if !present {
			return "", false
		}
		parts = append(parts, v)
	}
	return Key(strings.Join(parts, keySeparator)), true
}

// Key is the composite identity of a record: the ordered tuple of its key
// field values. Two records are the same logical entity iff their keys are
// equal after normalization.
type Key string

// Values splits the composite key back into its ordered field values.
func (k Key) Values() []string {
	return strings.Split(string(k), keySeparator)
}

// String renders the key for logs and reports, joining values with a space.
func (k Key) String() string {
	return strings.Join(k.Values(), " ")
}

// FieldDiff is one differing comparison field on a matched key, carrying
// both sides' values. An absent side is the empty string.
type FieldDiff struct {
	// Field is the canonical field name.
	Field string `json:"field"`

	// Tabular is the master-source value, after synonym mapping.
	Tabular string `json:"tabular"`

	// Text is the document-source value, after synonym mapping.
	Text string `json:"text"`
}

// Mismatch reports a key present in both sources whose comparison fields do
// not all agree.
type Mismatch struct {
	// Key is the composite key of the mismatched entity.
	Key Key `json:"key"`

	// KeyValues maps key field names to their values, for reporting.
	KeyValues map[string]string `json:"key_values"`

	// Diffs lists every differing field with both sides' values.
	Diffs []FieldDiff `json:"diffs"`
}

// MissingRecord reports a key present on exactly one side.
type MissingRecord struct {
	// Key is the composite key of the entity.
	Key Key `json:"key"`

	// KeyValues maps key field names to their values, for reporting.
	KeyValues map[string]string `json:"key_values"`
}

// Summary provides aggregate counts for a reconciliation run.
type Summary struct {
	// TotalKeys is the number of distinct composite keys across both sources.
	TotalKeys int `json:"total_keys"`

	// Matched counts keys present on both sides with all comparison fields equal.
	Matched int `json:"matched"`

	// Mismatched counts keys present on both sides with at least one differing field.
	Mismatched int `json:"mismatched"`

	// MissingFromText counts keys present only in the tabular source.
	MissingFromText int `json:"missing_from_text"`

	// MissingFromTabular counts keys present only in the text source.
	MissingFromTabular int `json:"missing_from_tabular"`

	// DroppedTabular counts tabular records excluded for an absent key field.
	DroppedTabular int `json:"dropped_tabular"`

	// DroppedText counts text records excluded for an absent key field.
	DroppedText int `json:"dropped_text"`
}

// Result is the full output of a reconciliation run.
type Result struct {
	// Mismatches lists keys present in both sources with differing fields.
	Mismatches []Mismatch `json:"mismatches"`

	// MissingFromText lists keys present only in the tabular source.
	MissingFromText []MissingRecord `json:"missing_from_text"`

	// MissingFromTabular lists keys present only in the text source.
	MissingFromTabular []MissingRecord `json:"missing_from_tabular"`

	// Summary holds aggregate counts.
	Summary Summary `json:"summary"`

	// Warnings lists non-fatal configuration gaps, e.g. a configured
	// comparison field that neither source carries after mapping.
	Warnings []string `json:"warnings,omitempty"`
}

// sortKeys returns the map's keys in deterministic order.
func sortKeys[V any](m map[Key]V) []Key {
	keys := make([]Key, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
