package textsource

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrEmptyText signals that the upstream document-to-text conversion
// produced nothing usable. Callers surface this as a fatal input error; the
// extractor is never run on empty text.
var ErrEmptyText = errors.New("no text extracted from document")

// Read consumes the converted text stream produced by the upstream
// document-to-text collaborator. Empty or whitespace-only streams return
// ErrEmptyText.
func Read(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read text stream: %w", err)
	}
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}
	return text, nil
}
