package table

import (
	"fmt"
	"strings"
)

// Delimiter separates fields on a line. Values containing it are not
// supported in either direction.
const Delimiter = ","

// FormatError reports tabular input that cannot be turned into a tree.
// Row and Column are 0-based; Row counts data lines only.
type FormatError struct {
	Message string
	Row     int
	Column  int
}

func (e *FormatError) Error() string { return e.Message }

func errNoEntries() error {
	return &FormatError{Message: "no entries in CSV file", Row: -1, Column: -1}
}

func errMissingField(row, col int) error {
	return &FormatError{
		Message: fmt.Sprintf("expected key %d for row %d", col, row),
		Row:     row,
		Column:  col,
	}
}

// Table is the flattened form of a document: one column per leaf path,
// one row per record.
type Table struct {
	// Headers holds the last path segment of each column key.
	Headers []string `json:"headers" yaml:"headers"`
	// Keys holds the full /-joined path of each column.
	Keys []string   `json:"keys" yaml:"keys"`
	Rows [][]string `json:"rows" yaml:"rows"`
}

func (t *Table) TableHeaders() []string { return t.Headers }
func (t *Table) TableRows() [][]string   { return t.Rows }

// Render writes the header line followed by one line per row. Rows may
// hold fewer fields than there are headers.
func (t *Table) Render() string {
	var b strings.Builder
	b.WriteString(strings.Join(t.Headers, Delimiter))
	b.WriteByte('\n')
	for _, row := range t.Rows {
		b.WriteString(strings.Join(row, Delimiter))
		b.WriteByte('\n')
	}
	return b.String()
}
