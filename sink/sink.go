// Package sink persists the two pipeline output sets as CSV.
//
// Each non-empty set becomes one file: the input columns in source
// order (union of fields seen across the set), with created_id or error
// appended. Empty sets produce no file. Rows keep input order.
package sink

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"sync"

	"github.com/arrecife-io/ocimport/types"
)

// Default output file names, matching the original contract.
const (
	ProcessedFile  = "processed.csv"
	QuarantineFile = "quarantine.csv"
)

// Store abstracts the output destination (local filesystem or S3).
type Store interface {
	// Put writes one complete file. The name is a relative path like
	// "processed/processed.csv".
	Put(ctx context.Context, name string, data []byte) error

	// Close releases store resources.
	Close() error
}

// Sink renders output records to CSV and hands the bytes to a Store.
type Sink struct {
	store          Store
	processedPath  string
	quarantinePath string
}

// New creates a sink writing to the given relative paths within store.
func New(store Store, processedPath, quarantinePath string) *Sink {
	return &Sink{
		store:          store,
		processedPath:  processedPath,
		quarantinePath: quarantinePath,
	}
}

// WriteStats reports what a Write produced.
type WriteStats struct {
	ProcessedRows   int
	QuarantinedRows int
	FilesWritten    []string
}

// Write persists both sets. Writing is skipped entirely for an empty
// set; that is not an error. A write failure is batch-fatal and is
// returned classified (see errors.go).
func (s *Sink) Write(ctx context.Context, columns []string, processed, quarantined []*types.OutputRecord) (*WriteStats, error) {
	stats := &WriteStats{
		ProcessedRows:   len(processed),
		QuarantinedRows: len(quarantined),
	}

	if len(processed) > 0 {
		data, err := Render(columns, types.ColCreatedID, processed)
		if err != nil {
			return stats, err
		}
		if err := s.store.Put(ctx, s.processedPath, data); err != nil {
			return stats, WrapWriteError(err, s.processedPath)
		}
		stats.FilesWritten = append(stats.FilesWritten, s.processedPath)
	}

	if len(quarantined) > 0 {
		data, err := Render(columns, types.ColError, quarantined)
		if err != nil {
			return stats, err
		}
		if err := s.store.Put(ctx, s.quarantinePath, data); err != nil {
			return stats, WrapWriteError(err, s.quarantinePath)
		}
		stats.FilesWritten = append(stats.FilesWritten, s.quarantinePath)
	}

	return stats, nil
}

// Close releases the underlying store.
func (s *Sink) Close() error {
	return s.store.Close()
}

// Render produces CSV bytes for one output set. The header is the
// input column union in source order plus the outcome column
// (created_id or error) appended last. An empty outcomeCol renders the
// input columns only.
func Render(columns []string, outcomeCol string, records []*types.OutputRecord) ([]byte, error) {
	header := unionColumns(columns, records)
	dataCols := len(header)
	if outcomeCol != "" {
		header = append(header, outcomeCol)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(header))
	for _, out := range records {
		for i, col := range header[:dataCols] {
			v, _ := out.Record.Field(col)
			row[i] = v
		}
		if outcomeCol != "" {
			row[dataCols] = outcomeValue(outcomeCol, out)
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", out.Record.Line, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// unionColumns returns the input columns plus any extra field names
// that appear in records but not in the header, in first-seen order.
// With a fixed input header the second case is rare, but the output
// contract is the union of fields seen in the set.
func unionColumns(columns []string, records []*types.OutputRecord) []string {
	out := make([]string, len(columns))
	copy(out, columns)

	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		seen[c] = true
	}
	for _, rec := range records {
		for _, e := range rec.Record.Extra {
			if !seen[e.Name] {
				seen[e.Name] = true
				out = append(out, e.Name)
			}
		}
	}
	return out
}

func outcomeValue(outcomeCol string, out *types.OutputRecord) string {
	if outcomeCol == types.ColCreatedID {
		if out.CreatedID == nil {
			return ""
		}
		return strconv.FormatInt(*out.CreatedID, 10)
	}
	return out.Error
}

// StubStore records Put calls for testing.
type StubStore struct {
	mu     sync.Mutex
	Files  []StubFile
	PutErr error
	Closed bool
}

// StubFile is one recorded write.
type StubFile struct {
	Name string
	Data []byte
}

// NewStubStore creates an empty stub store.
func NewStubStore() *StubStore {
	return &StubStore{}
}

// Put implements Store by recording the call.
func (s *StubStore) Put(_ context.Context, name string, data []byte) error {
	if s.PutErr != nil {
		return s.PutErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Files = append(s.Files, StubFile{Name: name, Data: data})
	return nil
}

// Close implements Store.
func (s *StubStore) Close() error {
	s.Closed = true
	return nil
}

// Verify StubStore implements Store.
var _ Store = (*StubStore)(nil)
