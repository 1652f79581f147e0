package extract

import (
	"strings"

	"doc-reconciler/core/normalize"
	"doc-reconciler/core/reconcile"
)

// Yield reports extraction throughput: how much of the input survived each
// stage. It lets operators detect silent pattern drift (a layout change that
// makes data lines stop matching) without changing the fail-open default.
type Yield struct {
	// BlocksSeen is the number of terminator-delimited blocks in the input.
	BlocksSeen int `json:"blocks_seen"`

	// BlocksKeyed is the number of blocks with a matching entity key.
	BlocksKeyed int `json:"blocks_keyed"`

	// LinesSeen is the number of line-item candidates after re-segmentation.
	LinesSeen int `json:"lines_seen"`

	// LinesMatched is the number of candidates that matched the line pattern.
	LinesMatched int `json:"lines_matched"`
}

// Extractor recovers structured records from an unstructured text blob using
// a compiled grammar. It holds no mutable state; one Extractor may serve
// concurrent extractions.
type Extractor struct {
	grammar *Grammar
}

// New builds an Extractor from a compiled grammar.
func New(grammar *Grammar) *Extractor {
	return &Extractor{grammar: grammar}
}

// Extract turns one raw text stream into a sequence of text-origin records.
//
// The input is whitespace-collapsed and uppercased first, then split into
// blocks on the terminator pattern. Blocks without an entity key are skipped
// (preamble, page furniture). Within a keyed block, line-item candidates are
// re-segmented at line-start matches and each candidate must match the line
// pattern; candidates that do not are dropped as non-data fragments rather
// than reported as parse errors, since the source layout is not stable.
//
// Extraction is deterministic and never fails: empty input yields an empty
// record sequence. The extractor does not deduplicate; duplicate keys are a
// reconciler concern.
func (e *Extractor) Extract(raw string) ([]reconcile.Record, Yield) {
	var yield Yield
	records := []reconcile.Record{}

	text := normalize.Text(raw)
	if text == "" {
		return records, yield
	}

	for _, block := range e.grammar.terminator.Split(text, -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		yield.BlocksSeen++

		keyMatch := e.grammar.blockKey.FindStringSubmatch(block)
		if keyMatch == nil {
			continue
		}
		yield.BlocksKeyed++

		keyFields := capture(e.grammar.keyFields, keyMatch)

		for _, candidate := range e.segment(block) {
			yield.LinesSeen++
			lineMatch := e.grammar.line.FindStringSubmatch(candidate)
			if lineMatch == nil {
				continue
			}
			yield.LinesMatched++

			fields := capture(e.grammar.lineFields, lineMatch)
			// Block key fields win over a same-named line capture; the key
			// identifies the entity, a line can only restate it.
			for name, value := range keyFields {
				fields[name] = value
			}
			records = append(records, reconcile.Record{
				Origin: reconcile.OriginText,
				Fields: fields,
			})
		}
	}

	return records, yield
}

// segment re-splits a collapsed block into line-item candidates. Whitespace
// collapse destroyed the original line boundaries, so the block is cut at
// every line-start match; each candidate runs to the next match or the end
// of the block.
func (e *Extractor) segment(block string) []string {
	starts := e.grammar.lineStart.FindAllStringIndex(block, -1)
	if len(starts) == 0 {
		return nil
	}
	candidates := make([]string, 0, len(starts))
	for i, loc := range starts {
		end := len(block)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		candidates = append(candidates, block[loc[0]:end])
	}
	return candidates
}

// capture maps ordered capture groups onto canonical field names, routing
// every value through normalization. Absent captures are omitted.
func capture(names []string, match []string) map[string]string {
	fields := make(map[string]string, len(names))
	for i, name := range names {
		if i+1 >= len(match) {
			break
		}
		if value, ok := normalize.Value(match[i+1]); ok {
			fields[name] = value
		}
	}
	return fields
}
