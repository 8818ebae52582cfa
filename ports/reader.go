package ports

import (
	"cyclelens/internal/dataset"
)

// TableReader abstracts the upstream file parsers that deliver raw tabular
// input to the core. CSV and xlsx adapters implement it; the core never
// touches files directly.
type TableReader interface {
	// ReadFile parses the table at path; an empty path yields a nil table so
	// optional inputs pass through.
	ReadFile(path string) (dataset.Table, error)
}
