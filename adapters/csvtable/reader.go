// Package csvtable reads exported CSV tables into the generic row shape the
// join layer consumes.
package csvtable

import (
	"encoding/csv"
	"io"
	"os"

	"cyclelens/internal/dataset"
	"cyclelens/internal/errors"
)

// Reader parses CSV files with a header row.
type Reader struct{}

// NewReader creates a CSV table reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadFile parses the CSV file at path into a Table. Returns nil (not an
// error) for an empty path so optional inputs stay optional.
func (r *Reader) ReadFile(path string) (dataset.Table, error) {
	if path == "" {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.ReadError(path, err)
	}
	defer f.Close()

	return r.Read(f)
}

// Read parses CSV content from a stream. The first row is the header; short
// rows leave trailing columns absent.
func (r *Reader) Read(src io.Reader) (dataset.Table, error) {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1 // exports have ragged rows

	header, err := cr.Read()
	if err == io.EOF {
		return dataset.Table{}, nil
	}
	if err != nil {
		return nil, errors.ReadError("csv header", err)
	}

	var table dataset.Table
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.ReadError("csv row", err)
		}

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
