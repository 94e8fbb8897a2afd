package extract

import (
	"regexp"
	"strings"

	"sheetsync/pkg/worksheet"
)

var dateFragment = regexp.MustCompile(`\d/`)

// CompositeHeader folds the header band into one name per data column.
// Position 0 is always "Date"; every other column starts as the prefix and
// collects the cleaned text of each header row, joined by "_".
//
// A blank cell in a column that has collected nothing yet inherits the text
// of the previous column in the same row. This approximates merged cells and
// will misattribute a label when a blank cell really is blank.
func CompositeHeader(ws worksheet.View, band RowBand, spec HeaderSpec) []string {
	cols := ws.Cols() - DataColStart
	if cols < 0 {
		cols = 0
	}
	header := make([]string, cols+1)
	header[0] = "Date"
	for i := 1; i <= cols; i++ {
		header[i] = spec.Prefix
	}

	patterns := make([]string, 0, len(spec.StripPatterns))
	for _, p := range spec.StripPatterns {
		if p = strings.ReplaceAll(p, " ", "_"); p != "" {
			patterns = append(patterns, p)
		}
	}

	top := max(band.HeaderTop, 0)
	end := min(band.HeaderEnd, ws.Rows())
	for r := top; r < end; r++ {
		prev := ""
		for c := 0; c < cols; c++ {
			text := cleanHeaderCell(ws.Cell(r, DataColStart+c), patterns, spec.DropMatchingCells)
			if text == "" && header[c+1] == spec.Prefix {
				text = prev
			}
			if text != "" {
				if header[c+1] != "" {
					header[c+1] += "_"
				}
				header[c+1] += text
			}
			prev = text
		}
	}
	return header
}

func cleanHeaderCell(cell worksheet.Cell, patterns []string, drop bool) string {
	text := dateFragment.ReplaceAllString(cell.String(), "")
	text = strings.ReplaceAll(text, " ", "_")

	stripped := false
	for _, p := range patterns {
		if !strings.Contains(text, p) {
			continue
		}
		if drop {
			return ""
		}
		text = strings.ReplaceAll(text, p, "")
		stripped = true
	}
	if stripped {
		text = strings.Trim(text, "_")
	}
	return text
}
