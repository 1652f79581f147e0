package compare

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"doc-reconciler/core/extract"
	"doc-reconciler/core/normalize"
)

// Profile is the per-document-family configuration: everything the keyed
// mode needs to join and compare the two sources. All of it is data; no
// pattern requires anything beyond a regular expression.
type Profile struct {
	// KeyFields is the ordered composite key field list, canonical names.
	KeyFields []string `yaml:"key_fields"`

	// CompareFields is the comparison field set. In presence mode it selects
	// which columns to check; empty means all columns.
	CompareFields []string `yaml:"compare_fields"`

	// HeaderMapping maps raw tabular header spellings to canonical names.
	HeaderMapping map[string]string `yaml:"header_mapping"`

	// Synonyms maps raw value tokens to canonical tokens per field,
	// applied to both sources before comparison.
	Synonyms map[string]map[string]string `yaml:"synonyms"`

	// Patterns is the extraction grammar for the document family. Absent
	// patterns mean keyed mode is not available and the presence fallback
	// is used.
	Patterns *extract.PatternSet `yaml:"patterns"`
}

// LoadProfile reads and parses a profile YAML file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}
	return ParseProfile(data)
}

// ParseProfile parses profile YAML and canonicalizes every configured name
// so profiles may be written in any casing.
func ParseProfile(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	p.canonicalize()
	return &p, nil
}

// canonicalize routes all configured field names and value tokens through
// header/value normalization, so lookups hit regardless of profile casing.
func (p *Profile) canonicalize() {
	for i, f := range p.KeyFields {
		p.KeyFields[i] = normalize.Header(f)
	}
	for i, f := range p.CompareFields {
		p.CompareFields[i] = normalize.Header(f)
	}

	if p.HeaderMapping != nil {
		mapping := make(map[string]string, len(p.HeaderMapping))
		for raw, canonical := range p.HeaderMapping {
			mapping[normalize.Header(raw)] = normalize.Header(canonical)
		}
		p.HeaderMapping = mapping
	}

	if p.Synonyms != nil {
		synonyms := make(map[string]map[string]string, len(p.Synonyms))
		for field, values := range p.Synonyms {
			canonical := make(map[string]string, len(values))
			for raw, target := range values {
				rawValue, ok := normalize.Value(raw)
				if !ok {
					continue
				}
				if targetValue, ok := normalize.Value(target); ok {
					canonical[rawValue] = targetValue
				}
			}
			synonyms[normalize.Header(field)] = canonical
		}
		p.Synonyms = synonyms
	}

	if p.Patterns != nil {
		for i, f := range p.Patterns.KeyFields {
			p.Patterns.KeyFields[i] = normalize.Header(f)
		}
		for i, f := range p.Patterns.LineFields {
			p.Patterns.LineFields[i] = normalize.Header(f)
		}
	}
}

// Keyed reports whether the profile carries enough configuration for keyed
// reconciliation. Without it, runs fall back to presence checking.
func (p *Profile) Keyed() bool {
	return p.Patterns != nil && len(p.KeyFields) > 0
}

// Validate checks the profile for keyed mode and compiles its grammar.
func (p *Profile) Validate() (*extract.Grammar, error) {
	if !p.Keyed() {
		return nil, fmt.Errorf("profile has no patterns or key fields; keyed reconciliation is not configured")
	}
	if len(p.Patterns.KeyFields) == 0 {
		p.Patterns.KeyFields = p.KeyFields
	}
	grammar, err := p.Patterns.Compile()
	if err != nil {
		return nil, err
	}
	return grammar, nil
}

// headerMapping adapts the profile's mapping table for the tabular loader.
func (p *Profile) headerMapping() normalize.HeaderMapping {
	return normalize.HeaderMapping(p.HeaderMapping)
}

// synonyms adapts the profile's synonym table for the reconciler.
func (p *Profile) synonyms() normalize.Synonyms {
	return normalize.Synonyms(p.Synonyms)
}
