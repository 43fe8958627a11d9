// Package metrics provides per-run metrics collection.
//
// The Collector accumulates counters during a single import run. It is
// a leaf package with no internal dependencies; all increment methods
// are nil-receiver safe so callers never need to guard.
package metrics

import (
	"strings"
	"sync"
)

// Snapshot is an immutable point-in-time view of run counters.
// Returned by Collector.Snapshot(). Safe to read concurrently after
// creation.
type Snapshot struct {
	// Rows
	RowsRead    int64 `json:"rows_read"`
	Processed   int64 `json:"processed"`
	Quarantined int64 `json:"quarantined"`

	// QuarantinedByReason counts quarantined rows keyed by full reason.
	QuarantinedByReason map[string]int64 `json:"quarantined_by_reason,omitempty"`

	// Remote calls
	RPCCalls    map[string]int64 `json:"rpc_calls,omitempty"`
	RPCFailures int64            `json:"rpc_failures"`

	// Sink
	SinkWriteSuccess int64 `json:"sink_write_success"`
	SinkWriteFailure int64 `json:"sink_write_failure"`

	// Dimensions (informational, set at construction)
	RunID string `json:"run_id,omitempty"`
	Input string `json:"input,omitempty"`
}

// Collector accumulates metrics during a single run.
// Thread-safe via sync.Mutex.
type Collector struct {
	mu sync.Mutex

	rowsRead    int64
	processed   int64
	quarantined int64

	quarantinedByReason map[string]int64

	rpcCalls    map[string]int64
	rpcFailures int64

	sinkWriteSuccess int64
	sinkWriteFailure int64

	runID string
	input string
}

// NewCollector creates a Collector with dimension labels.
func NewCollector(runID, input string) *Collector {
	return &Collector{
		quarantinedByReason: make(map[string]int64),
		rpcCalls:            make(map[string]int64),
		runID:               runID,
		input:               input,
	}
}

// IncRowRead records one input row entering the pipeline.
func (c *Collector) IncRowRead() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.rowsRead++
	c.mu.Unlock()
}

// IncProcessed records a row reaching the processed set.
func (c *Collector) IncProcessed() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.processed++
	c.mu.Unlock()
}

// IncQuarantined records a row reaching the quarantine set. Reasons
// carrying a free-text message after a colon (API_ERROR:<message>) are
// keyed on the bare prefix so message variants do not explode the map.
func (c *Collector) IncQuarantined(reason string) {
	if c == nil {
		return
	}
	key := reason
	if i := strings.Index(reason, ":"); i >= 0 {
		key = reason[:i]
	}
	c.mu.Lock()
	c.quarantined++
	c.quarantinedByReason[key]++
	c.mu.Unlock()
}

// IncRPCCall records one remote call by operation name. A non-nil err
// also counts as a failure.
func (c *Collector) IncRPCCall(op string, err error) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.rpcCalls[op]++
	if err != nil {
		c.rpcFailures++
	}
	c.mu.Unlock()
}

// IncSinkWriteSuccess records a successful output write (per file).
func (c *Collector) IncSinkWriteSuccess() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.sinkWriteSuccess++
	c.mu.Unlock()
}

// IncSinkWriteFailure records a failed output write (per file).
func (c *Collector) IncSinkWriteFailure() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.sinkWriteFailure++
	c.mu.Unlock()
}

// Snapshot returns an immutable copy of all counters.
// A nil collector returns a zero snapshot.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		RowsRead:         c.rowsRead,
		Processed:        c.processed,
		Quarantined:      c.quarantined,
		RPCFailures:      c.rpcFailures,
		SinkWriteSuccess: c.sinkWriteSuccess,
		SinkWriteFailure: c.sinkWriteFailure,
		RunID:            c.runID,
		Input:            c.input,
	}

	if len(c.quarantinedByReason) > 0 {
		snap.QuarantinedByReason = make(map[string]int64, len(c.quarantinedByReason))
		for k, v := range c.quarantinedByReason {
			snap.QuarantinedByReason[k] = v
		}
	}
	if len(c.rpcCalls) > 0 {
		snap.RPCCalls = make(map[string]int64, len(c.rpcCalls))
		for k, v := range c.rpcCalls {
			snap.RPCCalls[k] = v
		}
	}

	return snap
}
