// Package excel reads workbook exports and writes report workbooks.
package excel

import (
	"github.com/xuri/excelize/v2"

	"cyclelens/internal/dataset"
	"cyclelens/internal/errors"
)

// Reader parses xlsx sheets into the generic table shape.
type Reader struct{}

// NewReader creates an Excel table reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadFile parses the first sheet of the workbook at path. Returns nil for
// an empty path so optional inputs stay optional.
func (r *Reader) ReadFile(path string) (dataset.Table, error) {
	if path == "" {
		return nil, nil
	}
	return r.ReadSheet(path, "")
}

// ReadSheet parses the named sheet (first sheet when empty) into a Table.
// The first row is the header.
func (r *Reader) ReadSheet(path, sheet string) (dataset.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.ReadError(path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.ReadError(path+"!"+sheet, err)
	}
	if len(rows) == 0 {
		return dataset.Table{}, nil
	}

	header := rows[0]
	table := make(dataset.Table, 0, len(rows)-1)
	for _, record := range rows[1:] {
		row := make(dataset.Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		table = append(table, row)
	}

	return table, nil
}
