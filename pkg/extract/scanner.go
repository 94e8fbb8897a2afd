package extract

import (
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"sheetsync/pkg/worksheet"
)

var monthNumbers = map[string]time.Month{
	"Jan": time.January,
	"Feb": time.February,
	"Mar": time.March,
	"Apr": time.April,
	"May": time.May,
	"Jun": time.June,
	"Jul": time.July,
	"Aug": time.August,
	"Sep": time.September,
	"Oct": time.October,
	"Nov": time.November,
	"Dec": time.December,
}

// dateState is the year/month/day carried from row to row. Zero year or
// month means no month label has been seen yet.
type dateState struct {
	year  int
	month time.Month
	day   int
}

func newDateState(checkDate bool) dateState {
	if checkDate {
		return dateState{}
	}
	return dateState{day: 1}
}

// next folds one row into the state and reports whether the row carries a
// full date. Month-label rows set the month (and the year when column 0 has
// one); with checkDate they only anchor the following day rows.
func (s dateState) next(yearCell, labelCell worksheet.Cell, checkDate bool) (dateState, bool) {
	if labelCell.Kind == worksheet.Text {
		if m, ok := monthNumbers[strings.TrimSpace(labelCell.Text)]; ok {
			s.month = m
			// a zero year cell counts as blank
			if y, ok := yearCell.Int(); ok && y != 0 {
				s.year = y
			}
			return s, !checkDate
		}
	}
	if checkDate && labelCell.Kind == worksheet.Number {
		s.day = int(labelCell.Number)
		return s, true
	}
	return s, false
}

func (s dateState) anchored() bool {
	return s.year != 0 && s.month != 0
}

func (s dateState) date() (time.Time, error) {
	d := time.Date(s.year, s.month, s.day, 0, 0, 0, 0, time.UTC)
	if d.Year() != s.year || d.Month() != s.month || d.Day() != s.day {
		return time.Time{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDate, s.year, int(s.month), s.day)
	}
	return d, nil
}

type Scan struct {
	Rows []ExtractedRow
	// Last is the date of the last candidate row, emitted or not. Zero when
	// the band held no candidate rows.
	Last       time.Time
	Candidates int
	Unanchored int
	Captured   int
}

// ScanRows walks the data band [HeaderEnd, rows-FooterMargin) and returns the
// rows dated strictly after cursor, in sheet order.
func ScanRows(ws worksheet.View, band RowBand, checkDate bool, cursor time.Time) (Scan, error) {
	var scan Scan
	state := newDateState(checkDate)
	end := ws.Rows() - band.FooterMargin

	for r := band.HeaderEnd; r < end; r++ {
		var candidate bool
		state, candidate = state.next(ws.Cell(r, 0), ws.Cell(r, DataColStart-1), checkDate)
		if !candidate {
			continue
		}
		if !state.anchored() {
			log.WithField("row", r+1).Debug("Skipping row before any month label")
			scan.Unanchored++
			continue
		}
		d, err := state.date()
		if err != nil {
			return Scan{}, fmt.Errorf("row %d: %w", r+1, err)
		}
		scan.Last = d
		scan.Candidates++
		if !d.After(cursor) {
			log.WithField("row", r+1).Debugf("Skipping %s, already captured", d.Format(dateLayout))
			scan.Captured++
			continue
		}

		values := make([]worksheet.Cell, 0, max(ws.Cols()-DataColStart, 0))
		for c := DataColStart; c < ws.Cols(); c++ {
			values = append(values, ws.Cell(r, c))
		}
		scan.Rows = append(scan.Rows, ExtractedRow{Date: d, Values: values})
	}
	return scan, nil
}
