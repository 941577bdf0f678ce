package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"unicode/utf8"

	"chart-lyrics-go/internal/logger"
	"chart-lyrics-go/internal/types"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Sheet1"

// Write serializes entries under header (artist, title, lyrics) to path,
// replacing whatever is there. Unset lyrics become empty cells. A workbook
// cell cannot hold more than excelize.TotalCellChars characters; such a row
// fails the write rather than being stored cut short.
func Write(l *logger.Logger, path string, header []string, entries []types.EnrichedEntry) error {
	log := logger.Or(l).WithComponent("dataset.writer").WithField("path", path)

	if len(header) != 3 {
		return &DataAccessError{Op: "write", Path: path, Err: fmt.Errorf("want 3 header columns, got %d", len(header))}
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		lyrics := ""
		if e.Lyrics != nil {
			lyrics = *e.Lyrics
		}
		rows = append(rows, []string{e.Artist, e.Title, lyrics})
	}

	var err error
	if isWorkbook(path) {
		if err := checkCellLengths(rows); err != nil {
			log.WithError(err).Error("write refused")
			return &DataAccessError{Op: "write", Path: path, Err: err}
		}
		err = writeWorkbook(path, header, rows)
	} else {
		err = writeCSV(path, header, rows)
	}
	if err != nil {
		log.WithError(err).Error("write failed")
		return &DataAccessError{Op: "write", Path: path, Err: err}
	}

	log.WithField("rows", len(rows)).Info("dataset written")
	return nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("write rows: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}
	return nil
}

func writeWorkbook(path string, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := setRow(f, 1, header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range rows {
		if err := setRow(f, i+2, r); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func checkCellLengths(rows [][]string) error {
	for i, r := range rows {
		for j, c := range r {
			if n := utf8.RuneCountInString(c); n > excelize.TotalCellChars {
				return fmt.Errorf("%w: row %d column %d has %d characters", ErrCellTooLong, i, j, n)
			}
		}
	}
	return nil
}

func setRow(f *excelize.File, row int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	vals := make([]interface{}, len(cells))
	for i, c := range cells {
		vals[i] = c
	}
	return f.SetSheetRow(sheetName, cell, &vals)
}
