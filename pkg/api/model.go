package api

import (
	"context"
	"time"

	"sheetsync/pkg/datastore"
	"sheetsync/pkg/extract"
)

const cursorLayout = "2006-01-02"

type Extractor interface {
	Process(ctx context.Context, job extract.Job) (extract.Result, error)
}

type Sink interface {
	Write(ctx context.Context, locator string, rows [][]string) error
}

type JobStatus struct {
	Name      string `json:"name"`
	Input     string `json:"input"`
	Output    string `json:"output"`
	CheckDate bool   `json:"check_date"`
	Cursor    string `json:"last_saved_date"`
}

type JobResult struct {
	Name   string `json:"name"`
	Rows   int    `json:"rows"`
	Cursor string `json:"last_saved_date"`
	Error  string `json:"error,omitempty"`
}

type RunResponse struct {
	Results []JobResult `json:"results"`
	Error   string      `json:"error,omitempty"`
}

func jobToStatus(j datastore.JobConfig) JobStatus {
	return JobStatus{
		Name:      j.Name,
		Input:     j.FilePath.Input,
		Output:    j.FilePath.Output,
		CheckDate: j.CheckDate,
		Cursor:    formatCursor(j.Job().CursorDate),
	}
}

func formatCursor(d time.Time) string {
	return d.Format(cursorLayout)
}
