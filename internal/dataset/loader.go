package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"chart-lyrics-go/internal/logger"
	"github.com/xuri/excelize/v2"
)

// Load reads a chart table from path. Workbooks (.xlsx, .xlsm) are read from
// their first sheet; everything else is parsed as CSV. Rows shorter than the
// header are padded with empty cells.
func Load(l *logger.Logger, path string) (*Table, error) {
	log := logger.Or(l).WithComponent("dataset.loader").WithField("path", path)
	log.Info("loading dataset")

	var (
		t   *Table
		err error
	)
	if isWorkbook(path) {
		t, err = loadWorkbook(path)
	} else {
		t, err = loadCSV(path)
	}
	if err != nil {
		log.WithError(err).Error("load failed")
		return nil, &DataAccessError{Op: "load", Path: path, Err: err}
	}

	log.WithField("rows", t.Len()).WithField("columns", len(t.Header)).Info("dataset loaded")
	return t, nil
}

func loadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}
	for i, row := range rows[1:] {
		if len(row) > len(rows[0]) {
			return nil, fmt.Errorf("%w: row %d has %d fields, header has %d", ErrRowTooLong, i+1, len(row), len(rows[0]))
		}
	}
	return newTable(rows[0], rows[1:]), nil
}

func loadWorkbook(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}
	return newTable(rows[0], rows[1:]), nil
}

func isWorkbook(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}
