// Package compare orchestrates one comparison run end to end: load the
// tabular master and the document text (concurrently, they have no data
// dependency), reconcile or presence-check them, and assemble report
// artifacts.
//
// # Modes
//
// Keyed mode needs a Profile with key fields and an extraction grammar; it
// produces mismatches plus both missing-record sets. When that configuration
// is absent, presence mode only verifies that each row's values occur
// somewhere in the document text.
//
// # Run isolation
//
// Every run gets its own UUID and holds no shared mutable state, so
// concurrent requests map 1:1 to independent runs. Report archiving and
// run-history auditing are optional collaborators and best-effort: their
// failures are logged but never fail a run that already has its report.
package compare
