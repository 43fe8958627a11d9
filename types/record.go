// Package types defines core domain types for the ocimport pipeline.
//
//nolint:revive // types is a common Go package naming convention
package types

// Source column names. The input contract uses the upstream ERP's
// Spanish column headers verbatim.
const (
	ColOCNumber    = "oc_number"
	ColSupplierRFC = "proveedor_rfc"
	ColItemCode    = "item_code"
	ColDescription = "descripcion"
	ColQuantity    = "cantidad"
	ColUnitPrice   = "precio_unitario"
	ColOrderDate   = "fecha"
	ColTotal       = "total"
	ColCurrencyID  = "currency_id"
	ColProjectID   = "project_id"
)

// Output column names appended by the pipeline.
const (
	ColCreatedID = "created_id"
	ColError     = "error"
)

// RequiredColumns are the header columns every input file must carry.
func RequiredColumns() []string {
	return []string{
		ColOCNumber,
		ColSupplierRFC,
		ColItemCode,
		ColDescription,
		ColQuantity,
		ColUnitPrice,
		ColOrderDate,
	}
}

// ExtraField is an unrecognized input column carried through to output.
// Order matches the input header so unknown columns round-trip in place.
type ExtraField struct {
	Name  string
	Value string
}

// RawRecord is one input row, exactly as read from the source table.
// Required and known-optional columns are explicit fields; everything
// else lands in Extra. Immutable after parse.
type RawRecord struct {
	// Line is the 1-indexed source line number (header is line 1).
	Line int

	OCNumber    string
	SupplierRFC string
	ItemCode    string
	Description string
	Quantity    string
	UnitPrice   string
	OrderDate   string

	// Optional columns. Empty string when absent from the header.
	Total      string
	CurrencyID string
	ProjectID  string

	// Extra holds unrecognized columns in input header order.
	Extra []ExtraField
}

// Field returns the value for a column by source header name.
// Known columns resolve to their struct fields; unknown names are
// looked up in Extra.
func (r *RawRecord) Field(name string) (string, bool) {
	switch name {
	case ColOCNumber:
		return r.OCNumber, true
	case ColSupplierRFC:
		return r.SupplierRFC, true
	case ColItemCode:
		return r.ItemCode, true
	case ColDescription:
		return r.Description, true
	case ColQuantity:
		return r.Quantity, true
	case ColUnitPrice:
		return r.UnitPrice, true
	case ColOrderDate:
		return r.OrderDate, true
	case ColTotal:
		return r.Total, true
	case ColCurrencyID:
		return r.CurrencyID, true
	case ColProjectID:
		return r.ProjectID, true
	}
	for _, e := range r.Extra {
		if e.Name == name {
			return e.Value, true
		}
	}
	return "", false
}

// OutputRecord is a terminal pipeline outcome for one input row.
// Exactly one of CreatedID or Error is set: a row either produced a
// remote purchase order or carries a quarantine reason.
type OutputRecord struct {
	Record *RawRecord

	// CreatedID is the remote purchase order id on success.
	CreatedID *int64

	// Error is the quarantine reason: one or more codes joined by ";",
	// or an API_ERROR:<message> string.
	Error string
}

// Processed reports whether the record reached the processed set.
func (o *OutputRecord) Processed() bool {
	return o.CreatedID != nil && o.Error == ""
}
