package sheets

import (
	"fmt"
	"strings"
)

// Scheme prefixes locators that point at a Google Sheets tab:
// gsheets:<spreadsheetID>/<sheet>. The sheet part is optional for sources.
const Scheme = "gsheets:"

type Locator struct {
	SpreadsheetID string
	Sheet         string
}

func IsLocator(s string) bool {
	return strings.HasPrefix(s, Scheme)
}

func ParseLocator(s string) (Locator, error) {
	if !IsLocator(s) {
		return Locator{}, fmt.Errorf("not a Google Sheets locator: %q", s)
	}
	id, sheet, _ := strings.Cut(strings.TrimPrefix(s, Scheme), "/")
	if id == "" {
		return Locator{}, fmt.Errorf("missing spreadsheet ID in %q", s)
	}
	return Locator{SpreadsheetID: id, Sheet: sheet}, nil
}

func (l Locator) String() string {
	if l.Sheet == "" {
		return Scheme + l.SpreadsheetID
	}
	return Scheme + l.SpreadsheetID + "/" + l.Sheet
}

// a1Range quotes the tab name so names with spaces or ones that look like
// cell references (Q1) stay tab names.
func a1Range(sheet, cells string) string {
	r := "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
	if cells != "" {
		r += "!" + cells
	}
	return r
}
