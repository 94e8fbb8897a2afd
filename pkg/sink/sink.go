package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"sheetsync/pkg/sheets"
)

// SheetWriter replaces the contents of a Google Sheets tab.
type SheetWriter interface {
	ReplaceRows(ctx context.Context, loc sheets.Locator, rows [][]string) error
}

// Writer persists the rows of one run to a sink locator, header row first.
// gsheets: locators go to a Google Sheets tab, anything else is a CSV path.
type Writer struct {
	sheets SheetWriter
}

func NewWriter(sheets SheetWriter) *Writer {
	return &Writer{sheets: sheets}
}

func (w *Writer) Write(ctx context.Context, locator string, rows [][]string) error {
	if sheets.IsLocator(locator) {
		if w.sheets == nil {
			return fmt.Errorf("no Google Sheets client configured for %s", locator)
		}
		loc, err := sheets.ParseLocator(locator)
		if err != nil {
			return err
		}
		return w.sheets.ReplaceRows(ctx, loc, rows)
	}
	return WriteCSV(locator, rows)
}

// WriteCSV overwrites path with rows. The file is written next to its final
// location and renamed into place so a failed run never leaves half a file.
func WriteCSV(path string, rows [][]string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	cw := csv.NewWriter(tmp)
	if err := cw.WriteAll(rows); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
