package extract

import (
	"fmt"
	"time"

	"sheetsync/pkg/worksheet"
)

// DataColStart is the first data column. Columns 0 and 1 hold the year and
// the month name or day number.
const DataColStart = 2

const dateLayout = "2006-01-02"

type HeaderSpec struct {
	Prefix        string
	StripPatterns []string
	// DropMatchingCells discards the whole header cell when a strip pattern
	// matches, instead of deleting only the matched fragment.
	DropMatchingCells bool
}

type RowBand struct {
	HeaderTop    int
	HeaderEnd    int
	FooterMargin int
}

type Job struct {
	Name       string
	Source     string
	Sink       string
	Header     HeaderSpec
	CheckDate  bool
	CursorDate time.Time
	Band       RowBand
}

type ExtractedRow struct {
	Date   time.Time
	Values []worksheet.Cell
}

// Record renders the row as sink fields: the M/D/YYYY date first, then the values.
func (r ExtractedRow) Record() []string {
	rec := make([]string, 0, len(r.Values)+1)
	rec = append(rec, FormatDate(r.Date))
	for _, v := range r.Values {
		rec = append(rec, v.String())
	}
	return rec
}

func FormatDate(d time.Time) string {
	return fmt.Sprintf("%d/%d/%d", int(d.Month()), d.Day(), d.Year())
}

type Result struct {
	Header []string
	Rows   []ExtractedRow
	Cursor time.Time
}

// Records returns the header followed by every extracted row, in sheet order.
func (r Result) Records() [][]string {
	out := make([][]string, 0, len(r.Rows)+1)
	out = append(out, r.Header)
	for _, row := range r.Rows {
		out = append(out, row.Record())
	}
	return out
}
