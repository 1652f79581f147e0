package reconcile

import (
	"fmt"
	"sort"

	"doc-reconciler/core/normalize"
)

// Spec defines the configuration for a reconciliation run.
type Spec struct {
	// KeyFields is the ordered list of canonical field names forming the
	// composite key. Key fields join records; they are never value-compared.
	KeyFields []string

	// CompareFields is the set of canonical field names participating in
	// mismatch detection. Key fields listed here are ignored.
	CompareFields []string

	// Synonyms maps raw value tokens to canonical tokens per field. Applied
	// identically to both sides before comparison.
	Synonyms normalize.Synonyms
}

// compareFields returns the effective comparison field set: the configured
// fields minus any key fields, restricted to fields observed in both sources'
// schemas. A field absent from either side's observed schema after mapping
// produces a warning and is excluded, so a schema-level gap surfaces once
// instead of as a spurious diff on every joined key. Record-level absence of
// a field both schemas carry is still a mismatch.
func (s *Spec) compareFields(tabular, text map[Key][]Record) ([]string, []string) {
	isKey := make(map[string]struct{}, len(s.KeyFields))
	for _, k := range s.KeyFields {
		isKey[k] = struct{}{}
	}

	tabularSeen := observedFields(tabular)
	textSeen := observedFields(text)

	fields := make([]string, 0, len(s.CompareFields))
	var warnings []string
	for _, f := range s.CompareFields {
		if _, key := isKey[f]; key {
			continue
		}
		_, inTabular := tabularSeen[f]
		_, inText := textSeen[f]
		switch {
		case inTabular && inText:
			fields = append(fields, f)
		case inTabular:
			warnings = append(warnings, fmt.Sprintf("comparison field %q not present in the text source after mapping; excluded from this run", f))
		case inText:
			warnings = append(warnings, fmt.Sprintf("comparison field %q not present in the tabular source after mapping; excluded from this run", f))
		default:
			warnings = append(warnings, fmt.Sprintf("comparison field %q not present in either source after mapping; excluded from this run", f))
		}
	}
	return fields, warnings
}

// observedFields collects one source's schema: every field name carried by
// at least one of its records.
func observedFields(index map[Key][]Record) map[string]struct{} {
	seen := make(map[string]struct{})
	for _, records := range index {
		for _, r := range records {
			for f := range r.Fields {
				seen[f] = struct{}{}
			}
		}
	}
	return seen
}

// Run reconciles the tabular and text record sequences under the given spec.
//
// Keys present on both sides have every comparison field value-compared
// after synonym mapping. Duplicate keys fan out: every tabular record with a
// key is compared against every text record with that key, so legitimate
// repeats are all checked and true duplicates surface as extra diffs instead
// of being masked. Missing sets are computed on key presence alone.
//
// Both inputs are treated as read-only snapshots; an empty sequence on
// either side is valid and yields a maximal missing set on the other.
func Run(spec *Spec, tabular, text []Record) *Result {
	tabularIndex, droppedTabular := index(tabular, spec.KeyFields)
	textIndex, droppedText := index(text, spec.KeyFields)

	fields, warnings := spec.compareFields(tabularIndex, textIndex)

	result := &Result{
		Mismatches:         []Mismatch{},
		MissingFromText:    []MissingRecord{},
		MissingFromTabular: []MissingRecord{},
		Warnings:           warnings,
	}
	result.Summary.DroppedTabular = droppedTabular
	result.Summary.DroppedText = droppedText

	union := make(map[Key]struct{}, len(tabularIndex)+len(textIndex))
	for k := range tabularIndex {
		union[k] = struct{}{}
	}
	for k := range textIndex {
		union[k] = struct{}{}
	}
	result.Summary.TotalKeys = len(union)

	for _, key := range sortKeys(union) {
		tabularRecords, inTabular := tabularIndex[key]
		textRecords, inText := textIndex[key]

		switch {
		case inTabular && inText:
			diffs := compareAll(spec, fields, tabularRecords, textRecords)
			if len(diffs) == 0 {
				result.Summary.Matched++
				continue
			}
			result.Summary.Mismatched++
			result.Mismatches = append(result.Mismatches, Mismatch{
				Key:       key,
				KeyValues: keyValues(spec.KeyFields, key),
				Diffs:     diffs,
			})
		case inTabular:
			result.Summary.MissingFromText++
			result.MissingFromText = append(result.MissingFromText, MissingRecord{
				Key:       key,
				KeyValues: keyValues(spec.KeyFields, key),
			})
		default:
			result.Summary.MissingFromTabular++
			result.MissingFromTabular = append(result.MissingFromTabular, MissingRecord{
				Key:       key,
				KeyValues: keyValues(spec.KeyFields, key),
			})
		}
	}

	return result
}

// index groups records by composite key. Records with an absent key field
// are counted as dropped; the caller logs them so they are not silently
// discarded.
func index(records []Record, keyFields []string) (map[Key][]Record, int) {
	byKey := make(map[Key][]Record, len(records))
	dropped := 0
	for _, r := range records {
		key, ok := r.Key(keyFields)
		if !ok {
			dropped++
			continue
		}
		byKey[key] = append(byKey[key], r)
	}
	return byKey, dropped
}

// compareAll fans out the comparison across every (tabular, text) record
// pair sharing the key and merges the per-pair diffs, deduplicated by
// (field, tabular value, text value).
func compareAll(spec *Spec, fields []string, tabularRecords, textRecords []Record) []FieldDiff {
	type diffKey struct {
		field, tabular, text string
	}
	seen := make(map[diffKey]struct{})
	var diffs []FieldDiff

	for _, tr := range tabularRecords {
		for _, xr := range textRecords {
			for _, f := range fields {
				tv, tPresent := tr.Fields[f]
				xv, xPresent := xr.Fields[f]
				if !tPresent && !xPresent {
					// Absent on both sides is vacuously equal.
					continue
				}
				tv = spec.Synonyms.Apply(f, tv)
				xv = spec.Synonyms.Apply(f, xv)
				if tPresent && xPresent && tv == xv {
					continue
				}
				dk := diffKey{field: f, tabular: tv, text: xv}
				if _, dup := seen[dk]; dup {
					continue
				}
				seen[dk] = struct{}{}
				diffs = append(diffs, FieldDiff{Field: f, Tabular: tv, Text: xv})
			}
		}
	}

	sort.Slice(diffs, func(i, j int) bool {
		if diffs[i].Field != diffs[j].Field {
			return diffs[i].Field < diffs[j].Field
		}
		return diffs[i].Tabular < diffs[j].Tabular
	})
	return diffs
}

// keyValues maps key field names back onto the key's ordered values.
func keyValues(keyFields []string, key Key) map[string]string {
	values := key.Values()
	kv := make(map[string]string, len(keyFields))
	for i, f := range keyFields {
		if i < len(values) {
			kv[f] = values[i]
		}
	}
	return kv
}
