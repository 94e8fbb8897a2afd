package sink

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetsync/pkg/sheets"
)

type mockSheetWriter struct {
	loc  sheets.Locator
	rows [][]string
}

func (m *mockSheetWriter) ReplaceRows(ctx context.Context, loc sheets.Locator, rows [][]string) error {
	m.loc = loc
	m.rows = rows
	return nil
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "monthly.csv")
	rows := [][]string{
		{"Date", "P_Region"},
		{"1/5/2020", "North, East"},
	}
	require.NoError(t, WriteCSV(path, rows))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Date,P_Region\n1/5/2020,\"North, East\"\n", string(b))

	// second run replaces the file
	require.NoError(t, WriteCSV(path, rows[:1]))
	b, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Date,P_Region\n", string(b))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriterRoutes(t *testing.T) {
	m := &mockSheetWriter{}
	w := NewWriter(m)
	rows := [][]string{{"Date"}}

	require.NoError(t, w.Write(context.Background(), "gsheets:abc/Extract", rows))
	assert.Equal(t, sheets.Locator{SpreadsheetID: "abc", Sheet: "Extract"}, m.loc)
	assert.Equal(t, rows, m.rows)

	path := filepath.Join(t.TempDir(), "x.csv")
	require.NoError(t, w.Write(context.Background(), path, rows))
	assert.FileExists(t, path)
}

func TestWriterWithoutSheetsClient(t *testing.T) {
	err := NewWriter(nil).Write(context.Background(), "gsheets:abc/Extract", nil)
	assert.Error(t, err)
}
