package extract

import "errors"

var (
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrMalformedBand     = errors.New("row band does not fit worksheet")
	ErrNoNewRecords      = errors.New("no new records after cursor")
	ErrInvalidDate       = errors.New("invalid date")
)

// EmptyPolicy decides what a run that emits no rows returns.
type EmptyPolicy string

const (
	// KeepCursor returns the input cursor and a header-only row set.
	KeepCursor EmptyPolicy = "keep"
	// FailEmpty returns ErrNoNewRecords.
	FailEmpty EmptyPolicy = "fail"
)

func (p EmptyPolicy) Valid() bool {
	return p == KeepCursor || p == FailEmpty
}
