package dataset

// Row is one raw input row keyed by column header.
type Row map[string]string

// Table is a parsed tabular input as delivered by an upstream reader. Values
// are untyped strings; coercion happens during the join.
type Table []Row
