// Package textsource is the boundary to the document-to-text converter.
// The converter itself (PDF/OCR) is an external collaborator; this package
// only consumes its output stream and rejects empty text as a fatal input
// error before any extraction is attempted.
package textsource
