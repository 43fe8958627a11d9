// Package adapter defines the completion-event boundary.
//
// Adapters publish import completion notifications to downstream
// systems after a run finishes. Publishing is best-effort: a failed
// publish is logged by the caller, never fatal to the run.
package adapter

import "context"

// ImportCompletedEvent is the payload published when a run finishes.
type ImportCompletedEvent struct {
	ContractVersion string `json:"contract_version"`
	EventType       string `json:"event_type"` // always "import_completed"
	RunID           string `json:"run_id"`
	Input           string `json:"input"`
	Rows            int    `json:"rows"`
	Processed       int    `json:"processed"`
	Quarantined     int    `json:"quarantined"`
	DurationMs      int64  `json:"duration_ms"`
	Timestamp       string `json:"timestamp"` // ISO 8601
}

// Adapter publishes import completion events to a downstream system.
// Implementations must be safe for single-use per run.
type Adapter interface {
	// Publish sends an import completion event to the downstream system.
	// Must respect context cancellation and deadlines.
	Publish(ctx context.Context, event *ImportCompletedEvent) error

	// Close releases adapter resources.
	Close() error
}
