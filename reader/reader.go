// Package reader parses tabular purchase-order input into raw records.
//
// CSV is the primary format; XLSX is accepted by extension (see xlsx.go).
// The header row is mandatory and must carry every required column;
// unknown columns are preserved in order so they round-trip to output.
package reader

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/arrecife-io/ocimport/types"
)

// Common reader errors.
var (
	// ErrEmptyFile is returned when the input has no header row.
	ErrEmptyFile = fmt.Errorf("input file is empty")

	// ErrInvalidEncoding is returned when the input is not valid UTF-8.
	ErrInvalidEncoding = fmt.Errorf("input is not valid UTF-8")
)

// MissingColumnsError is returned when required header columns are
// absent. It names every missing column, not just the first.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("input missing required columns: %s", strings.Join(e.Columns, ", "))
}

// Result is a parsed input file: the header columns in source order and
// the data rows. Rows is empty (not an error) for a file with only a
// header.
type Result struct {
	Columns []string
	Records []*types.RawRecord
}

// ReadFile parses the input at path, dispatching on extension.
// Files ending in .xlsx go through the XLSX reader; everything else is
// treated as CSV.
func ReadFile(path string) (*Result, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSXFile(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ReadCSV(f)
}

// ReadCSV parses CSV input from r. The first row is the header.
func ReadCSV(r io.Reader) (*Result, error) {
	br := bufio.NewReader(r)
	if err := stripBOM(br); err != nil {
		return nil, err
	}

	cr := csv.NewReader(br)
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1 // tolerate ragged rows; missing cells read as ""

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}
	if err := checkRequired(columns); err != nil {
		return nil, err
	}

	var rows [][]string
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		rows = append(rows, row)
	}

	return buildResult(columns, rows)
}

// stripBOM discards a leading UTF-8 byte order mark and validates that
// the visible prefix is UTF-8.
func stripBOM(br *bufio.Reader) error {
	prefix, err := br.Peek(3)
	if err != nil && err != io.EOF {
		return fmt.Errorf("read input: %w", err)
	}
	if len(prefix) >= 3 && prefix[0] == 0xEF && prefix[1] == 0xBB && prefix[2] == 0xBF {
		_, _ = br.Discard(3)
	}

	sample, err := br.Peek(4096)
	if err != nil && err != io.EOF {
		return fmt.Errorf("read input: %w", err)
	}
	if len(sample) == 0 {
		return ErrEmptyFile
	}
	// A rune split by the peek window is not an encoding error; allow
	// up to utf8.UTFMax-1 dangling bytes at the end of the sample.
	for cut := 0; cut < utf8.UTFMax && cut <= len(sample); cut++ {
		if utf8.Valid(sample[:len(sample)-cut]) {
			return nil
		}
	}
	return ErrInvalidEncoding
}

// checkRequired verifies every required column is present in the header.
func checkRequired(columns []string) error {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}

	var missing []string
	for _, c := range types.RequiredColumns() {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnsError{Columns: missing}
	}
	return nil
}

// buildResult maps raw rows onto RawRecords. Fully empty rows are
// skipped; short rows read missing cells as empty strings.
func buildResult(columns []string, rows [][]string) (*Result, error) {
	result := &Result{Columns: columns}

	for i, row := range rows {
		// Header is line 1; data starts at line 2.
		line := i + 2

		if isEmptyRow(row) {
			continue
		}

		rec := &types.RawRecord{Line: line}
		for col, name := range columns {
			value := ""
			if col < len(row) {
				value = row[col]
			}
			assignField(rec, name, value)
		}
		result.Records = append(result.Records, rec)
	}

	return result, nil
}

// assignField routes a cell to its struct field, or to Extra for
// unrecognized columns.
func assignField(rec *types.RawRecord, name, value string) {
	switch name {
	case types.ColOCNumber:
		rec.OCNumber = value
	case types.ColSupplierRFC:
		rec.SupplierRFC = value
	case types.ColItemCode:
		rec.ItemCode = value
	case types.ColDescription:
		rec.Description = value
	case types.ColQuantity:
		rec.Quantity = value
	case types.ColUnitPrice:
		rec.UnitPrice = value
	case types.ColOrderDate:
		rec.OrderDate = value
	case types.ColTotal:
		rec.Total = value
	case types.ColCurrencyID:
		rec.CurrencyID = value
	case types.ColProjectID:
		rec.ProjectID = value
	default:
		rec.Extra = append(rec.Extra, types.ExtraField{Name: name, Value: value})
	}
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
