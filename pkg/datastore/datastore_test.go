package datastore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetsync/pkg/extract"
)

const sampleConfig = `
empty_policy = "fail"

[[jobs]]
name = "claims"
check_date = true
last_saved_date = 2019-12-31

[jobs.file_path]
input = "https://example.com/data/claims.xlsx"
output = "out/claims.csv"

[jobs.header_properties]
prefix = "Claims"
remove_line_from_headers = ["(est.)", "Note:"]

[jobs.offset]
top = 3
header = 6
bottom = 2

[[jobs]]
last_saved_date = 2020-01-01

[jobs.file_path]
input = "gsheets:abc/Monthly"
output = "gsheets:xyz/Extract"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "jobs.toml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0644))
	return p
}

func TestLoad(t *testing.T) {
	ds, err := NewDatastore(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, extract.FailEmpty, ds.Store.EmptyPolicy)
	assert.Equal(t, ".", ds.Store.DownloadDir)
	require.Len(t, ds.Store.Jobs, 2)
	assert.Equal(t, "Monthly", ds.Store.Jobs[1].Name)

	job := ds.Store.Jobs[0].Job()
	assert.Equal(t, extract.Job{
		Name:   "claims",
		Source: "https://example.com/data/claims.xlsx",
		Sink:   "out/claims.csv",
		Header: extract.HeaderSpec{
			Prefix:        "Claims",
			StripPatterns: []string{"(est.)", "Note:"},
		},
		CheckDate:  true,
		CursorDate: time.Date(2019, 12, 31, 0, 0, 0, 0, time.UTC),
		Band:       extract.RowBand{HeaderTop: 3, HeaderEnd: 6, FooterMargin: 2},
	}, job)
}

func TestSaveRoundTripsCursor(t *testing.T) {
	p := writeConfig(t, sampleConfig)
	ds, err := NewDatastore(p)
	require.NoError(t, err)

	i := ds.Index("claims")
	require.Equal(t, 0, i)
	ds.SetCursor(i, time.Date(2020, 3, 14, 0, 0, 0, 0, time.UTC))
	require.NoError(t, ds.Save())

	again, err := NewDatastore(p)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 3, 14, 0, 0, 0, 0, time.UTC), again.Store.Jobs[0].Job().CursorDate)
	assert.Equal(t, ds.Store.Jobs[1].FilePath, again.Store.Jobs[1].FilePath)
	assert.Equal(t, ds.Store.Jobs[1].LastSavedDate, again.Store.Jobs[1].LastSavedDate)
}

func TestNewDatastoreCreatesMissingFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "jobs.toml")
	ds, err := NewDatastore(p)
	require.NoError(t, err)
	assert.Empty(t, ds.Store.Jobs)
	assert.Equal(t, extract.KeepCursor, ds.Store.EmptyPolicy)
	assert.FileExists(t, p)
}

func TestLoadRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown policy", `empty_policy = "sometimes"`},
		{"missing output", "[[jobs]]\nname = \"a\"\n[jobs.file_path]\ninput = \"a.xlsx\"\n"},
		{"not toml", "jobs = ["},
		{
			"duplicate default names",
			"[[jobs]]\n[jobs.file_path]\ninput = \"https://a.example/claims.xlsx\"\noutput = \"a.csv\"\n" +
				"[[jobs]]\n[jobs.file_path]\ninput = \"https://b.example/claims.xlsx\"\noutput = \"b.csv\"\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDatastore(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestIndexUnknown(t *testing.T) {
	ds, err := NewDatastore(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	assert.Equal(t, -1, ds.Index("nope"))
}
