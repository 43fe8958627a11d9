package reader

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadXLSXFile parses the first sheet of an XLSX workbook under the
// same header contract as CSV input.
func ReadXLSXFile(path string) (*Result, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	columns := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		columns[i] = strings.TrimSpace(h)
	}
	if err := checkRequired(columns); err != nil {
		return nil, err
	}

	return buildResult(columns, rows[1:])
}
