package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/arrecife-io/ocimport/types"
)

func TestLogger_CarriesRunContext(t *testing.T) {
	var buf bytes.Buffer
	meta := types.NewImportMeta("run-1", "orders.csv")
	logger := NewLogger(meta).WithOutput(&buf)

	logger.Info("starting import", map[string]any{"rows": 3})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.Bytes())
	}
	if entry["run_id"] != "run-1" || entry["input"] != "orders.csv" {
		t.Errorf("context fields: %v", entry)
	}
	if entry["message"] != "starting import" || entry["level"] != "info" {
		t.Errorf("entry: %v", entry)
	}
	fields, ok := entry["fields"].(map[string]any)
	if !ok || fields["rows"] != float64(3) {
		t.Errorf("fields: %v", entry["fields"])
	}
}

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(types.NewImportMeta("run-1", "orders.csv")).WithOutput(&buf)

	logger.Debug("d", nil)
	logger.Warn("w", nil)
	logger.Error("e", nil)

	lines := bytes.Count(buf.Bytes(), []byte("\n"))
	if lines != 3 {
		t.Errorf("log lines = %d, want 3", lines)
	}
}

func TestSugaredLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(types.NewImportMeta("run-1", "orders.csv")).WithOutput(&buf)

	logger.Sugar().Infof("processed %d of %d", 8, 10)

	if !bytes.Contains(buf.Bytes(), []byte("processed 8 of 10")) {
		t.Errorf("sugared output: %s", buf.Bytes())
	}
}
