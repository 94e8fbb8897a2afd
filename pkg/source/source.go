package source

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"sheetsync/pkg/sheets"
	"sheetsync/pkg/worksheet"
)

// SheetReader reads a Google Sheets tab into a grid.
type SheetReader interface {
	ReadSheet(ctx context.Context, loc sheets.Locator) (*worksheet.Grid, error)
}

// Loader resolves a source locator to the first sheet it names. URLs are
// downloaded first, gsheets: locators go through the Sheets API and anything
// else is opened as a local workbook.
type Loader struct {
	downloader *Downloader
	sheets     SheetReader
}

func NewLoader(downloader *Downloader, sheets SheetReader) *Loader {
	return &Loader{downloader: downloader, sheets: sheets}
}

func (l *Loader) Load(ctx context.Context, locator string) (worksheet.View, error) {
	switch {
	case sheets.IsLocator(locator):
		if l.sheets == nil {
			return nil, fmt.Errorf("no Google Sheets client configured for %s", locator)
		}
		loc, err := sheets.ParseLocator(locator)
		if err != nil {
			return nil, err
		}
		return l.sheets.ReadSheet(ctx, loc)

	case isURL(locator):
		if l.downloader == nil {
			return nil, fmt.Errorf("downloads disabled for %s", locator)
		}
		path, err := l.downloader.Fetch(ctx, locator)
		if err != nil {
			return nil, err
		}
		log.Debugf("Downloaded %s to %s", locator, path)
		return DecodeFile(path)
	}
	return DecodeFile(locator)
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
