package compare

import (
	"fmt"

	"doc-reconciler/core/extract"
	"doc-reconciler/core/presence"
	"doc-reconciler/core/reconcile"
	"doc-reconciler/core/report"
)

// Input error kinds. A fatal input error aborts the run before any report
// is produced.
const (
	// KindEmptyText: the document-to-text conversion produced nothing.
	KindEmptyText = "empty_text"
	// KindNoUsableRecords: the tabular source had zero records with a
	// complete key after filtering.
	KindNoUsableRecords = "no_usable_records"
	// KindBadMaster: the tabular source could not be loaded.
	KindBadMaster = "bad_master"
	// KindBadProfile: the profile is missing or invalid for the requested mode.
	KindBadProfile = "bad_profile"
)

// InputError is a fatal input error: kind plus a human-readable detail.
// No internal state or stack traces are exposed to the caller.
type InputError struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// KeyedOutput is everything a keyed run produces.
type KeyedOutput struct {
	// RunID identifies the run in logs, the archive, and the history table.
	RunID string `json:"run_id"`

	// Result holds the three output collections and summary counts.
	Result *reconcile.Result `json:"result"`

	// Yield is the extraction throughput diagnostic.
	Yield extract.Yield `json:"yield"`

	// Artifacts are the serializable report collections.
	Artifacts []report.Artifact `json:"artifacts"`

	// Archived lists object names uploaded to the report archive, if any.
	Archived []string `json:"archived,omitempty"`
}

// PresenceOutput is everything a presence (fallback) run produces.
type PresenceOutput struct {
	// RunID identifies the run in logs, the archive, and the history table.
	RunID string `json:"run_id"`

	// Report lists rows with values not found in the text.
	Report *presence.Report `json:"report"`

	// Artifact is the single mismatched_data collection.
	Artifact report.Artifact `json:"artifact"`

	// Archived lists object names uploaded to the report archive, if any.
	Archived []string `json:"archived,omitempty"`
}
