package dataset

import (
	"errors"
	"fmt"
)

var (
	ErrNoHeader       = errors.New("no header row")
	ErrNoSheets       = errors.New("no sheets")
	ErrColumnNotFound = errors.New("column not found")
	ErrRowTooLong     = errors.New("row longer than header")
	ErrCellTooLong    = errors.New("cell exceeds workbook limit")
)

// DataAccessError marks a structural failure reading or writing a table.
// These are not recovered by the run; they end it.
type DataAccessError struct {
	Op   string
	Path string
	Err  error
}

func (e *DataAccessError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *DataAccessError) Unwrap() error { return e.Err }
