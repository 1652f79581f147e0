package normalize

// Synonyms maps raw value tokens to canonical tokens for a designated subset
// of fields. The outer key is the canonical field name, the inner key the raw
// value as produced by Value.
//
// Synonyms must be applied to both sources before any comparison; applying
// them to only one side makes equal records look mismatched.
type Synonyms map[string]map[string]string

// Apply returns the canonical token for (field, value), or the value
// unchanged when no synonym is configured.
func (s Synonyms) Apply(field, value string) string {
	if canonical, ok := s[field][value]; ok {
		return canonical
	}
	return value
}

// HeaderMapping maps recognized raw header spellings to canonical field
// names. Spellings are matched after Header normalization, so the mapping
// does not need to enumerate casing or whitespace variants.
type HeaderMapping map[string]string

// Canonical normalizes a raw header and resolves it through the mapping.
// Unrecognized headers pass through with only normalization applied.
func (m HeaderMapping) Canonical(raw string) string {
	h := Header(raw)
	if canonical, ok := m[h]; ok {
		return canonical
	}
	return h
}
