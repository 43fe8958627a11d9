// Package pipeline drives raw records through validation, duplicate
// detection, reference resolution, and order creation.
//
// Records are processed sequentially in input order, one attempt each.
// Every record terminates in exactly one of two states, processed or
// quarantined, and one record's failure never aborts the batch.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/arrecife-io/ocimport/log"
	"github.com/arrecife-io/ocimport/metrics"
	"github.com/arrecife-io/ocimport/odoo"
	"github.com/arrecife-io/ocimport/types"
	"github.com/arrecife-io/ocimport/validate"
)

// Quarantine reasons produced by remote-facing steps. Field validation
// codes live in package validate.
const (
	ReasonDuplicate       = "DUPLICATE"
	ReasonProviderMissing = "PROVIDER_NOT_FOUND"
	ReasonProductMissing  = "PRODUCT_NOT_FOUND"

	// APIErrorPrefix prefixes quarantine reasons caused by remote call
	// failures; the underlying message follows the colon.
	APIErrorPrefix = "API_ERROR:"
)

// Result is the partitioned outcome of a run. Order within each list
// follows input order; every input record appears in exactly one list.
type Result struct {
	Processed   []*types.OutputRecord
	Quarantined []*types.OutputRecord
	Duration    time.Duration
}

// Rows returns the total number of records routed.
func (r *Result) Rows() int {
	return len(r.Processed) + len(r.Quarantined)
}

// Orchestrator routes records to their terminal state.
type Orchestrator struct {
	client    odoo.Client
	logger    *log.Logger
	collector *metrics.Collector
}

// New creates an orchestrator. The collector may be nil; all metrics
// methods are nil-safe.
func New(client odoo.Client, logger *log.Logger, collector *metrics.Collector) *Orchestrator {
	return &Orchestrator{
		client:    client,
		logger:    logger,
		collector: collector,
	}
}

// Run processes all records sequentially and returns the partitioned
// result. The context bounds the whole run; individual remote calls are
// additionally bounded by the client's per-call timeout.
func (o *Orchestrator) Run(ctx context.Context, records []*types.RawRecord) *Result {
	start := time.Now()
	result := &Result{}

	for _, rec := range records {
		o.collector.IncRowRead()
		out := o.processRecord(ctx, rec)

		if out.Processed() {
			o.collector.IncProcessed()
			result.Processed = append(result.Processed, out)
			continue
		}

		o.collector.IncQuarantined(out.Error)
		o.logger.Warn("record quarantined", map[string]any{
			"line":   rec.Line,
			"origin": rec.OCNumber,
			"reason": out.Error,
		})
		result.Quarantined = append(result.Quarantined, out)
	}

	result.Duration = time.Since(start)
	return result
}

// processRecord runs the per-record state machine:
//
//  1. field validation
//  2. duplicate check on origin (before any other lookup, so a
//     reprocessed file never double-creates an order)
//  3. partner resolution by tax id
//  4. product resolution by code
//  5. payload build and remote create
//
// Any remote call failure quarantines the record with the underlying
// message; it is never read as "not found".
func (o *Orchestrator) processRecord(ctx context.Context, rec *types.RawRecord) *types.OutputRecord {
	out := &types.OutputRecord{Record: rec}

	if codes := validate.Record(rec); len(codes) > 0 {
		out.Error = validate.Reason(codes)
		return out
	}

	origin := strings.TrimSpace(rec.OCNumber)

	exists, err := o.client.OrderExists(ctx, origin)
	o.collector.IncRPCCall("order_exists", err)
	if err != nil {
		out.Error = APIErrorPrefix + err.Error()
		return out
	}
	if exists {
		out.Error = ReasonDuplicate
		return out
	}

	partner, err := o.client.SearchPartnerByRFC(ctx, rec.SupplierRFC)
	o.collector.IncRPCCall("search_partner", err)
	if err != nil {
		out.Error = APIErrorPrefix + err.Error()
		return out
	}
	if partner == nil {
		out.Error = ReasonProviderMissing
		return out
	}

	product, err := o.client.SearchProductByCode(ctx, rec.ItemCode)
	o.collector.IncRPCCall("search_product", err)
	if err != nil {
		out.Error = APIErrorPrefix + err.Error()
		return out
	}
	if product == nil {
		out.Error = ReasonProductMissing
		return out
	}

	vals, err := BuildOrder(rec, partner, product)
	if err != nil {
		// Unreachable after validation; kept as a guard so a builder
		// bug quarantines the row instead of crashing the batch.
		out.Error = APIErrorPrefix + err.Error()
		return out
	}

	id, err := o.client.CreateOrder(ctx, vals)
	o.collector.IncRPCCall("create_order", err)
	if err != nil {
		out.Error = APIErrorPrefix + err.Error()
		return out
	}

	o.logger.Debug("order created", map[string]any{
		"line":       rec.Line,
		"origin":     origin,
		"created_id": id,
	})
	out.CreatedID = &id
	return out
}
