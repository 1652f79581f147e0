package extract

import (
	"fmt"
	"regexp"
)

// PatternSet is the configured micro-grammar for one document family. Each
// pattern is data, not code; swapping the set retargets the extractor to a
// different layout without touching extraction logic.
//
// All patterns match against collapsed, uppercased text (see normalize.Text),
// so they should be written without newlines or case variants.
type PatternSet struct {
	// Terminator is the block-terminator expression: a sentinel that appears
	// once per logical entity and ends its block.
	Terminator string `yaml:"terminator"`

	// BlockKey locates the entity key within a block. Its capture groups
	// map positionally onto KeyFields. A block without a match is skipped
	// as non-entity text (preamble, page headers).
	BlockKey string `yaml:"block_key"`

	// KeyFields names the canonical field for each BlockKey capture group.
	KeyFields []string `yaml:"key_fields"`

	// LineStart identifies the start of a new line-item inside a block.
	// The collapsed text has no line boundaries left, so the extractor
	// re-segments at every LineStart match.
	LineStart string `yaml:"line_start"`

	// Line is the positional field pattern a line-item candidate must match.
	// Its capture groups map positionally onto LineFields. Candidates that
	// do not match are dropped as non-data fragments.
	Line string `yaml:"line"`

	// LineFields names the canonical field for each Line capture group.
	LineFields []string `yaml:"line_fields"`
}

// Compile validates the set and compiles its expressions.
func (p *PatternSet) Compile() (*Grammar, error) {
	if len(p.KeyFields) == 0 {
		return nil, fmt.Errorf("pattern set: key_fields must not be empty")
	}
	if len(p.LineFields) == 0 {
		return nil, fmt.Errorf("pattern set: line_fields must not be empty")
	}

	terminator, err := regexp.Compile(p.Terminator)
	if err != nil {
		return nil, fmt.Errorf("pattern set: invalid terminator pattern: %w", err)
	}
	blockKey, err := regexp.Compile(p.BlockKey)
	if err != nil {
		return nil, fmt.Errorf("pattern set: invalid block_key pattern: %w", err)
	}
	if blockKey.NumSubexp() < len(p.KeyFields) {
		return nil, fmt.Errorf("pattern set: block_key has %d capture groups, key_fields names %d", blockKey.NumSubexp(), len(p.KeyFields))
	}
	lineStart, err := regexp.Compile(p.LineStart)
	if err != nil {
		return nil, fmt.Errorf("pattern set: invalid line_start pattern: %w", err)
	}
	line, err := regexp.Compile(p.Line)
	if err != nil {
		return nil, fmt.Errorf("pattern set: invalid line pattern: %w", err)
	}
	if line.NumSubexp() < len(p.LineFields) {
		return nil, fmt.Errorf("pattern set: line has %d capture groups, line_fields names %d", line.NumSubexp(), len(p.LineFields))
	}

	return &Grammar{
		terminator: terminator,
		blockKey:   blockKey,
		keyFields:  p.KeyFields,
		lineStart:  lineStart,
		line:       line,
		lineFields: p.LineFields,
	}, nil
}

// Grammar is a compiled PatternSet, ready for extraction.
type Grammar struct {
	terminator *regexp.Regexp
	blockKey   *regexp.Regexp
	keyFields  []string
	lineStart  *regexp.Regexp
	line       *regexp.Regexp
	lineFields []string
}
