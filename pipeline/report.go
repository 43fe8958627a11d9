package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arrecife-io/ocimport/metrics"
	"github.com/arrecife-io/ocimport/types"
	"github.com/arrecife-io/ocimport/validate"
)

// RunReport is the structured JSON report written by --report.
type RunReport struct {
	RunID       string `json:"run_id"`
	Input       string `json:"input"`
	Rows        int    `json:"rows"`
	Processed   int    `json:"processed"`
	Quarantined int    `json:"quarantined"`
	DurationMs  int64  `json:"duration_ms"`

	// ByReason counts quarantined rows per individual code. A row
	// carrying several validation codes counts once under each.
	ByReason map[string]int64 `json:"by_reason,omitempty"`

	Metrics *metrics.Snapshot `json:"metrics,omitempty"`
}

// BuildRunReport composes a RunReport from a run result and a metrics
// snapshot.
func BuildRunReport(meta *types.ImportMeta, result *Result, snap metrics.Snapshot) *RunReport {
	report := &RunReport{
		RunID:       meta.RunID,
		Input:       meta.Input,
		Rows:        result.Rows(),
		Processed:   len(result.Processed),
		Quarantined: len(result.Quarantined),
		DurationMs:  result.Duration.Milliseconds(),
		Metrics:     &snap,
	}

	if len(result.Quarantined) > 0 {
		report.ByReason = make(map[string]int64)
		for _, out := range result.Quarantined {
			for _, reason := range splitReason(out.Error) {
				report.ByReason[reason]++
			}
		}
	}

	return report
}

// splitReason breaks a quarantine reason into countable codes.
// API_ERROR reasons collapse to the bare prefix so the message text
// does not explode the map.
func splitReason(reason string) []string {
	if strings.HasPrefix(reason, APIErrorPrefix) {
		return []string{strings.TrimSuffix(APIErrorPrefix, ":")}
	}
	return strings.Split(reason, validate.CodeDelimiter)
}

// Summary renders the one-line stdout summary contract.
func Summary(result *Result) string {
	return fmt.Sprintf("processed: %d, quarantined: %d", len(result.Processed), len(result.Quarantined))
}

// WriteRunReport writes the report as JSON to the specified path.
// If path is "-", writes to stderr.
func WriteRunReport(report *RunReport, path string) error {
	if path == "" {
		return errors.New("report path must not be empty")
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	data = append(data, '\n')

	if path == "-" {
		if _, err := os.Stderr.Write(data); err != nil {
			return fmt.Errorf("failed to write report to stderr: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", path, err)
	}
	return nil
}

// writeRunReportTo writes report JSON to any writer (for testing).
func writeRunReportTo(report *RunReport, w io.Writer) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
