package validate

import (
	"reflect"
	"testing"

	"github.com/arrecife-io/ocimport/types"
)

// goodRecord returns a record that passes every rule.
func goodRecord() *types.RawRecord {
	return &types.RawRecord{
		Line:        2,
		OCNumber:    "OC-100",
		SupplierRFC: "RFC1",
		ItemCode:    "P1",
		Description: "Widget",
		Quantity:    "10",
		UnitPrice:   "5.50",
		OrderDate:   "2024-01-15",
	}
}

func TestRecord_Valid(t *testing.T) {
	if codes := Record(goodRecord()); len(codes) != 0 {
		t.Fatalf("expected no codes, got %v", codes)
	}
}

func TestRecord_SingleCodes(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.RawRecord)
		want   string
	}{
		{"empty oc number", func(r *types.RawRecord) { r.OCNumber = "   " }, CodeOCEmpty},
		{"bad date format", func(r *types.RawRecord) { r.OrderDate = "15/01/2024" }, CodeBadDate},
		{"impossible date", func(r *types.RawRecord) { r.OrderDate = "2024-02-30" }, CodeBadDate},
		{"empty rfc", func(r *types.RawRecord) { r.SupplierRFC = "" }, CodeRFCEmpty},
		{"non-numeric quantity", func(r *types.RawRecord) { r.Quantity = "ten" }, CodeBadQty},
		{"zero quantity", func(r *types.RawRecord) { r.Quantity = "0" }, CodeBadQty},
		{"negative quantity", func(r *types.RawRecord) { r.Quantity = "-3" }, CodeBadQty},
		{"non-numeric price", func(r *types.RawRecord) { r.UnitPrice = "abc" }, CodeBadPrice},
		{"negative price", func(r *types.RawRecord) { r.UnitPrice = "-0.01" }, CodeBadPrice},
		{"total mismatch", func(r *types.RawRecord) { r.Total = "54.99" }, CodeTotalMismatch},
		{"unparseable total", func(r *types.RawRecord) { r.Total = "fifty" }, CodeTotalMismatch},
		{"bad currency id", func(r *types.RawRecord) { r.CurrencyID = "MXN" }, CodeBadCurrency},
		{"bad project id", func(r *types.RawRecord) { r.ProjectID = "alpha" }, CodeBadProject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := goodRecord()
			tt.mutate(r)
			got := Record(r)
			if !reflect.DeepEqual(got, []string{tt.want}) {
				t.Errorf("codes = %v, want [%s]", got, tt.want)
			}
		})
	}
}

func TestRecord_TotalMatches(t *testing.T) {
	r := goodRecord()
	r.Total = "55.00"
	if codes := Record(r); len(codes) != 0 {
		t.Fatalf("expected no codes for matching total, got %v", codes)
	}
}

func TestRecord_TotalDecimalPrecision(t *testing.T) {
	// 0.1 * 3 must compare as 0.30, not a binary float artifact.
	r := goodRecord()
	r.Quantity = "3"
	r.UnitPrice = "0.1"
	r.Total = "0.30"
	if codes := Record(r); len(codes) != 0 {
		t.Fatalf("expected no codes, got %v", codes)
	}
}

func TestRecord_TotalRounding(t *testing.T) {
	// 3 * 0.333 = 0.999 -> 1.00 at two places.
	r := goodRecord()
	r.Quantity = "3"
	r.UnitPrice = "0.333"
	r.Total = "1.00"
	if codes := Record(r); len(codes) != 0 {
		t.Fatalf("expected no codes, got %v", codes)
	}
}

func TestRecord_TotalSkippedWhenQtyInvalid(t *testing.T) {
	// Total cross-check needs both operands; BAD_QTY already covers it.
	r := goodRecord()
	r.Quantity = "zero"
	r.Total = "55.00"
	got := Record(r)
	if !reflect.DeepEqual(got, []string{CodeBadQty}) {
		t.Errorf("codes = %v, want [%s]", got, CodeBadQty)
	}
}

func TestRecord_AllRulesEvaluated(t *testing.T) {
	r := &types.RawRecord{
		OCNumber:    "",
		SupplierRFC: " ",
		Quantity:    "-1",
		UnitPrice:   "x",
		OrderDate:   "not-a-date",
	}
	want := []string{CodeOCEmpty, CodeBadDate, CodeRFCEmpty, CodeBadQty, CodeBadPrice}
	if got := Record(r); !reflect.DeepEqual(got, want) {
		t.Errorf("codes = %v, want %v", got, want)
	}
}

func TestRecord_OCEmptyAlwaysPresent(t *testing.T) {
	// An empty order number must be reported regardless of other fields.
	r := goodRecord()
	r.OCNumber = ""
	r.Quantity = "bogus"
	got := Record(r)
	found := false
	for _, c := range got {
		if c == CodeOCEmpty {
			found = true
		}
	}
	if !found {
		t.Errorf("codes = %v, want %s present", got, CodeOCEmpty)
	}
}

func TestReason(t *testing.T) {
	got := Reason([]string{CodeOCEmpty, CodeBadDate})
	if got != "OC_EMPTY;BAD_DATE" {
		t.Errorf("reason = %q, want %q", got, "OC_EMPTY;BAD_DATE")
	}
}
