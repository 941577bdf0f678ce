package dataset

import (
	"fmt"

	"chart-lyrics-go/internal/types"
)

// Deduplicate projects t onto (artistCol, titleCol) and keeps the first
// occurrence of each exact pair. t is not modified.
func Deduplicate(t *Table, artistCol, titleCol string) (*Table, error) {
	ai := t.Column(artistCol)
	if ai == -1 {
		return nil, &DataAccessError{Op: "project", Err: fmt.Errorf("%w: %q", ErrColumnNotFound, artistCol)}
	}
	ti := t.Column(titleCol)
	if ti == -1 {
		return nil, &DataAccessError{Op: "project", Err: fmt.Errorf("%w: %q", ErrColumnNotFound, titleCol)}
	}

	seen := make(map[types.ChartEntry]struct{}, len(t.Rows))
	out := &Table{Header: []string{artistCol, titleCol}}
	for _, r := range t.Rows {
		key := types.ChartEntry{Artist: r[ai], Title: r[ti]}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out.Rows = append(out.Rows, []string{key.Artist, key.Title})
	}
	return out, nil
}

// Entries reads a Deduplicate projection as chart entries, in row order.
func Entries(t *Table) []types.ChartEntry {
	out := make([]types.ChartEntry, 0, len(t.Rows))
	for _, r := range t.Rows {
		out = append(out, types.ChartEntry{Artist: r[0], Title: r[1]})
	}
	return out
}
