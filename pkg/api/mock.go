package api

import (
	"context"

	"sheetsync/pkg/extract"
)

type mockExtractor struct {
	ProcessFunc  func(job extract.Job) (extract.Result, error)
	ProcessCalls []extract.Job
}

func (m *mockExtractor) Process(ctx context.Context, job extract.Job) (extract.Result, error) {
	m.ProcessCalls = append(m.ProcessCalls, job)
	return m.ProcessFunc(job)
}

type mockSink struct {
	WriteErr   error
	WriteFunc  func(locator string) error
	WriteCalls map[string][][]string
}

func (m *mockSink) Write(ctx context.Context, locator string, rows [][]string) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	if m.WriteFunc != nil {
		if err := m.WriteFunc(locator); err != nil {
			return err
		}
	}
	if m.WriteCalls == nil {
		m.WriteCalls = make(map[string][][]string)
	}
	m.WriteCalls[locator] = rows
	return nil
}
