// Package validate performs local, field-level validation of raw
// purchase-order records. No remote calls happen here.
//
// All rules are evaluated for every record, never short-circuited, so a
// quarantined row reports every applicable code. Money and quantity
// parsing uses base-10 decimals throughout; binary floats never enter
// the comparison.
package validate

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arrecife-io/ocimport/types"
)

// Error codes attached to quarantined records.
const (
	CodeOCEmpty       = "OC_EMPTY"
	CodeBadDate       = "BAD_DATE"
	CodeRFCEmpty      = "RFC_EMPTY"
	CodeBadQty        = "BAD_QTY"
	CodeBadPrice      = "BAD_PRICE"
	CodeTotalMismatch = "TOTAL_MISMATCH"
	CodeBadCurrency   = "BAD_CURRENCY"
	CodeBadProject    = "BAD_PROJECT"
)

// CodeDelimiter joins multiple codes into one quarantine reason.
const CodeDelimiter = ";"

// dateLayout is the required ISO calendar date format.
const dateLayout = "2006-01-02"

// totalPlaces is the rounding precision for the total cross-check.
const totalPlaces = 2

// Record checks one raw record and returns its error codes in rule
// order. An empty slice means the record is structurally valid.
func Record(r *types.RawRecord) []string {
	var codes []string

	if strings.TrimSpace(r.OCNumber) == "" {
		codes = append(codes, CodeOCEmpty)
	}

	if _, err := time.Parse(dateLayout, r.OrderDate); err != nil {
		codes = append(codes, CodeBadDate)
	}

	if strings.TrimSpace(r.SupplierRFC) == "" {
		codes = append(codes, CodeRFCEmpty)
	}

	qty, qtyErr := decimal.NewFromString(strings.TrimSpace(r.Quantity))
	if qtyErr != nil || qty.Sign() <= 0 {
		codes = append(codes, CodeBadQty)
	}

	price, priceErr := decimal.NewFromString(strings.TrimSpace(r.UnitPrice))
	if priceErr != nil || price.Sign() < 0 {
		codes = append(codes, CodeBadPrice)
	}

	// Total cross-check only applies when quantity and price parsed;
	// their own codes already cover the other cases.
	if total := strings.TrimSpace(r.Total); total != "" && qtyErr == nil && priceErr == nil {
		want := qty.Mul(price).Round(totalPlaces)
		got, err := decimal.NewFromString(total)
		if err != nil || !got.Round(totalPlaces).Equal(want) {
			codes = append(codes, CodeTotalMismatch)
		}
	}

	if v := strings.TrimSpace(r.CurrencyID); v != "" {
		if _, err := strconv.ParseInt(v, 10, 64); err != nil {
			codes = append(codes, CodeBadCurrency)
		}
	}
	if v := strings.TrimSpace(r.ProjectID); v != "" {
		if _, err := strconv.ParseInt(v, 10, 64); err != nil {
			codes = append(codes, CodeBadProject)
		}
	}

	return codes
}

// Reason joins error codes into a single quarantine reason string.
func Reason(codes []string) string {
	return strings.Join(codes, CodeDelimiter)
}
