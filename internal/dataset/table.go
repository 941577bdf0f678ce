package dataset

import "strings"

// Table is an in-memory delimited table. Every row has len(Header) cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// Column returns the index of the header named name, or -1.
func (t *Table) Column(name string) int {
	name = strings.TrimSpace(name)
	for i, h := range t.Header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

// Len is the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

func newTable(header []string, rows [][]string) *Table {
	// strip a UTF-8 BOM that spreadsheet exports like to prepend
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	t := &Table{Header: header, Rows: make([][]string, 0, len(rows))}
	for _, r := range rows {
		if len(r) < len(header) {
			padded := make([]string, len(header))
			copy(padded, r)
			r = padded
		}
		t.Rows = append(t.Rows, r)
	}
	return t
}
