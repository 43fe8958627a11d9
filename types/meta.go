package types

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ImportMeta is the identity of a single import run.
// Attached to every log entry and to the completion event.
type ImportMeta struct {
	// RunID uniquely identifies the run. Generated when not supplied.
	RunID string
	// Input is the source file path.
	Input string
	// StartTime is when the run began.
	StartTime time.Time
}

// NewImportMeta builds run metadata, generating a RunID when empty.
func NewImportMeta(runID, input string) *ImportMeta {
	if runID == "" {
		runID = uuid.NewString()
	}
	return &ImportMeta{
		RunID:     runID,
		Input:     input,
		StartTime: time.Now(),
	}
}

// Validate checks run metadata invariants.
func (m *ImportMeta) Validate() error {
	if m == nil {
		return errors.New("import meta is nil")
	}
	if m.RunID == "" {
		return errors.New("run id must not be empty")
	}
	if m.Input == "" {
		return errors.New("input path must not be empty")
	}
	return nil
}
