package extract

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"sheetsync/pkg/worksheet"
)

// Loader fetches and decodes the first sheet behind a source locator.
type Loader interface {
	Load(ctx context.Context, locator string) (worksheet.View, error)
}

type Extractor struct {
	loader Loader
	policy EmptyPolicy
}

func NewExtractor(loader Loader, policy EmptyPolicy) *Extractor {
	if !policy.Valid() {
		policy = KeepCursor
	}
	return &Extractor{loader: loader, policy: policy}
}

// Process loads the job's source and extracts the rows newer than its cursor.
// Nothing is written anywhere; the caller hands Result.Records to a sink and
// persists Result.Cursor.
func (e *Extractor) Process(ctx context.Context, job Job) (Result, error) {
	ws, err := e.loader.Load(ctx, job.Source)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, job.Source, err)
	}
	return Extract(ws, job, e.policy)
}

// Extract runs the header compositor and the date scanner over an already
// decoded worksheet.
func Extract(ws worksheet.View, job Job, policy EmptyPolicy) (Result, error) {
	logger := log.WithField("job", job.Name)

	if err := checkBand(ws, job.Band); err != nil {
		return Result{}, err
	}

	header := CompositeHeader(ws, job.Band, job.Header)
	scan, err := ScanRows(ws, job.Band, job.CheckDate, job.CursorDate)
	if err != nil {
		return Result{}, err
	}

	logger.WithFields(log.Fields{
		"candidates": scan.Candidates,
		"captured":   scan.Captured,
		"unanchored": scan.Unanchored,
		"new":        len(scan.Rows),
	}).Debug("Scanned data band")

	res := Result{Header: header, Rows: scan.Rows, Cursor: job.CursorDate}
	if len(scan.Rows) == 0 {
		if policy == FailEmpty {
			return Result{}, fmt.Errorf("%w: cursor %s", ErrNoNewRecords, job.CursorDate.Format(dateLayout))
		}
		logger.Info("No new records, cursor unchanged")
		return res, nil
	}
	// rows are trusted to be in date order; never move the cursor backwards
	if scan.Last.After(job.CursorDate) {
		res.Cursor = scan.Last
	}
	return res, nil
}

func checkBand(ws worksheet.View, band RowBand) error {
	if band.HeaderTop < 0 || band.HeaderEnd < 0 || band.FooterMargin < 0 {
		return fmt.Errorf("%w: negative offset in %+v", ErrMalformedBand, band)
	}
	if band.HeaderEnd > ws.Rows() {
		return fmt.Errorf("%w: header ends at row %d but sheet has %d rows", ErrMalformedBand, band.HeaderEnd, ws.Rows())
	}
	return nil
}
