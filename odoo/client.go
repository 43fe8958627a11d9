// Package odoo provides the typed client for the remote business system.
//
// The remote system exposes a single generic JSON-RPC call primitive
// (model + method + args + kwargs). This package isolates that encoding
// behind one typed interface with a method per operation, so the rest of
// the pipeline never touches the generic dispatch.
package odoo

import (
	"context"

	"github.com/shopspring/decimal"
)

// Remote model and field names.
const (
	modelPartner = "res.partner"
	modelProduct = "product.product"
	modelOrder   = "purchase.order"

	fieldVAT         = "vat"
	fieldDefaultCode = "default_code"
	fieldOrigin      = "origin"
)

// Partner is a business partner (supplier) in the remote system.
type Partner struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	VAT  string `json:"vat"`
}

// Product is a product in the remote system.
type Product struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DefaultCode string `json:"default_code"`
}

// OrderLine is one line of a purchase order creation payload.
// Quantity and PriceUnit stay decimal end to end; they are serialized
// as exact JSON numbers, never converted through float64.
type OrderLine struct {
	ProductID int64
	Name      string
	Quantity  decimal.Decimal
	PriceUnit decimal.Decimal
}

// OrderVals is the purchase order creation payload.
type OrderVals struct {
	PartnerID int64
	Origin    string
	DateOrder string

	// CurrencyID and ProjectID are optional; nil omits them.
	CurrencyID *int64
	ProjectID  *int64

	Lines []OrderLine
}

// Client is the typed boundary to the remote business system.
// All lookups are idempotent and read-only; only CreateOrder mutates.
// A lookup failure is returned as an error, never as absence.
type Client interface {
	// SearchPartnerByRFC finds a partner by exact tax id match, limit 1.
	// Returns nil when no partner matches.
	SearchPartnerByRFC(ctx context.Context, rfc string) (*Partner, error)

	// SearchProductByCode finds a product by exact internal code, limit 1.
	// Returns nil when no product matches.
	SearchProductByCode(ctx context.Context, code string) (*Product, error)

	// OrderExists reports whether any purchase order carries the origin
	// reference, limit 1.
	OrderExists(ctx context.Context, origin string) (bool, error)

	// CreateOrder creates a purchase order and returns its remote id.
	CreateOrder(ctx context.Context, vals OrderVals) (int64, error)

	// Close releases client resources.
	Close() error
}
