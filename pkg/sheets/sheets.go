package sheets

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"sheetsync/pkg/worksheet"
)

const (
	maxRetries = 15
	maxBackoff = 60 * time.Second
)

type SheetClient struct {
	service *sheets.Service
	limiter *rate.Limiter
	backoff time.Duration
}

func NewSheetClient(ctx context.Context, opts ...option.ClientOption) (*SheetClient, error) {
	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets client: %w", err)
	}
	return &SheetClient{
		service: srv,
		// the Sheets API allows 60 requests per minute per user
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
		backoff: time.Second,
	}, nil
}

// NewSheetClientFromFile authenticates with a service-account JSON file.
func NewSheetClientFromFile(ctx context.Context, jsonPath string) (*SheetClient, error) {
	return NewSheetClient(ctx, option.WithCredentialsFile(jsonPath))
}

// withRetry runs call, backing off exponentially while the API reports rate limiting.
func (s *SheetClient) withRetry(ctx context.Context, what string, call func() error) error {
	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if err = s.limiter.Wait(ctx); err != nil {
			return err
		}
		err = call()
		if err == nil {
			return nil
		}
		var gErr *googleapi.Error
		if !errors.As(err, &gErr) || (gErr.Code != 429 && gErr.Code != 403) {
			return fmt.Errorf("%s: %w", what, err)
		}
		backoff := time.Duration(math.Pow(2, float64(attempt))) * s.backoff
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
		log.Debugf("Rate limited by Google Sheets API during %s, retrying in %v...", what, backoff)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("%s after %d retries: %w", what, maxRetries, err)
}

// FirstSheet returns the title of the first tab in the spreadsheet.
func (s *SheetClient) FirstSheet(ctx context.Context, spreadsheetID string) (string, error) {
	var ss *sheets.Spreadsheet
	err := s.withRetry(ctx, "read spreadsheet metadata", func() error {
		var err error
		ss, err = s.service.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
		return err
	})
	if err != nil {
		return "", err
	}
	if len(ss.Sheets) == 0 || ss.Sheets[0].Properties == nil {
		return "", fmt.Errorf("spreadsheet %s has no sheets", spreadsheetID)
	}
	return ss.Sheets[0].Properties.Title, nil
}

// ReadSheet loads a whole tab with unformatted values so numbers stay numbers.
func (s *SheetClient) ReadSheet(ctx context.Context, loc Locator) (*worksheet.Grid, error) {
	tab := loc.Sheet
	if tab == "" {
		var err error
		if tab, err = s.FirstSheet(ctx, loc.SpreadsheetID); err != nil {
			return nil, err
		}
	}

	var resp *sheets.ValueRange
	err := s.withRetry(ctx, "read values", func() error {
		var err error
		resp, err = s.service.Spreadsheets.Values.Get(loc.SpreadsheetID, a1Range(tab, "")).
			ValueRenderOption("UNFORMATTED_VALUE").
			Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Debugf("Read %d rows from %s", len(resp.Values), loc)
	return worksheet.FromValues(resp.Values), nil
}

// EnsureSheetExists adds the tab when the spreadsheet does not have it yet.
func (s *SheetClient) EnsureSheetExists(ctx context.Context, loc Locator) error {
	var ss *sheets.Spreadsheet
	err := s.withRetry(ctx, "read spreadsheet metadata", func() error {
		var err error
		ss, err = s.service.Spreadsheets.Get(loc.SpreadsheetID).Context(ctx).Do()
		return err
	})
	if err != nil {
		return err
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == loc.Sheet {
			return nil
		}
	}
	addSheetReq := &sheets.Request{
		AddSheet: &sheets.AddSheetRequest{
			Properties: &sheets.SheetProperties{
				Title: loc.Sheet,
			},
		},
	}
	return s.withRetry(ctx, "add sheet", func() error {
		_, err := s.service.Spreadsheets.BatchUpdate(loc.SpreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{addSheetReq},
		}).Context(ctx).Do()
		return err
	})
}

// ReplaceRows clears the tab and writes rows from A1, header first.
func (s *SheetClient) ReplaceRows(ctx context.Context, loc Locator, rows [][]string) error {
	if loc.Sheet == "" {
		return fmt.Errorf("sheet name required to write %s", loc)
	}
	if err := s.EnsureSheetExists(ctx, loc); err != nil {
		return err
	}
	err := s.withRetry(ctx, "clear values", func() error {
		_, err := s.service.Spreadsheets.Values.Clear(loc.SpreadsheetID, a1Range(loc.Sheet, ""), &sheets.ClearValuesRequest{}).
			Context(ctx).Do()
		return err
	})
	if err != nil {
		return err
	}

	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		values[i] = make([]interface{}, len(row))
		for j, v := range row {
			values[i][j] = v
		}
	}
	return s.withRetry(ctx, "update values", func() error {
		_, err := s.service.Spreadsheets.Values.Update(
			loc.SpreadsheetID,
			a1Range(loc.Sheet, "A1"),
			&sheets.ValueRange{Values: values},
		).ValueInputOption("USER_ENTERED").Context(ctx).Do()
		return err
	})
}
