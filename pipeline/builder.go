package pipeline

import (
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/arrecife-io/ocimport/odoo"
	"github.com/arrecife-io/ocimport/types"
)

// BuildOrder maps a validated record and its resolved references into
// the remote creation payload: one purchase order with exactly one
// line. Quantity and price are re-parsed as decimals (they already
// passed validation) so no lossy conversion happens on the way out.
//
// The builder performs no I/O. It fails only on missing references or
// unparseable numbers, both of which the orchestrator excludes before
// calling it.
func BuildOrder(rec *types.RawRecord, partner *odoo.Partner, product *odoo.Product) (odoo.OrderVals, error) {
	if partner == nil {
		return odoo.OrderVals{}, errors.New("build order: partner reference missing")
	}
	if product == nil {
		return odoo.OrderVals{}, errors.New("build order: product reference missing")
	}

	qty, err := decimal.NewFromString(strings.TrimSpace(rec.Quantity))
	if err != nil {
		return odoo.OrderVals{}, errors.New("build order: quantity is not a decimal")
	}
	price, err := decimal.NewFromString(strings.TrimSpace(rec.UnitPrice))
	if err != nil {
		return odoo.OrderVals{}, errors.New("build order: unit price is not a decimal")
	}

	vals := odoo.OrderVals{
		PartnerID: partner.ID,
		Origin:    strings.TrimSpace(rec.OCNumber),
		DateOrder: rec.OrderDate,
		Lines: []odoo.OrderLine{{
			ProductID: product.ID,
			Name:      rec.Description,
			Quantity:  qty,
			PriceUnit: price,
		}},
	}

	if id, ok := optionalID(rec.CurrencyID); ok {
		vals.CurrencyID = &id
	}
	if id, ok := optionalID(rec.ProjectID); ok {
		vals.ProjectID = &id
	}

	return vals, nil
}

// optionalID parses an optional integer column. Empty means absent;
// non-numeric values were already rejected by validation.
func optionalID(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
