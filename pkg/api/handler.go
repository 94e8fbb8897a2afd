package api

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	log "github.com/sirupsen/logrus"

	"sheetsync/pkg/datastore"
	"sheetsync/pkg/extract"
	"sheetsync/pkg/sheets"
	"sheetsync/pkg/sink"
	"sheetsync/pkg/source"
)

var ErrUnknownJob = errors.New("unknown job")

// Syncer runs configured jobs one after another and records each job's new
// cursor as soon as its rows are written. A failing job keeps its old cursor.
type Syncer struct {
	mu        sync.Mutex
	store     *datastore.Datastore
	extractor Extractor
	sink      Sink
}

func NewSyncer(store *datastore.Datastore, extractor Extractor, sink Sink) *Syncer {
	return &Syncer{store: store, extractor: extractor, sink: sink}
}

// NewSyncerFromConfig loads the job file and wires the default source and sink.
// Google Sheets locators work only when GOOGLE_APPLICATION_CREDENTIALS is set.
func NewSyncerFromConfig(ctx context.Context, configPath string) (*Syncer, error) {
	store, err := datastore.NewDatastore(configPath)
	if err != nil {
		return nil, err
	}

	var client *sheets.SheetClient
	if creds := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); creds != "" {
		if client, err = sheets.NewSheetClientFromFile(ctx, creds); err != nil {
			return nil, err
		}
	} else {
		log.Debug("GOOGLE_APPLICATION_CREDENTIALS not set, Google Sheets locators disabled")
	}

	// a nil *SheetClient must not become a non-nil interface
	var reader source.SheetReader
	var writer sink.SheetWriter
	if client != nil {
		reader, writer = client, client
	}

	loader := source.NewLoader(source.NewDownloader(nil, store.Store.DownloadDir), reader)
	extractor := extract.NewExtractor(loader, store.Store.EmptyPolicy)
	return NewSyncer(store, extractor, sink.NewWriter(writer)), nil
}

func (s *Syncer) Jobs() []JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := make([]JobStatus, 0, len(s.store.Store.Jobs))
	for _, j := range s.store.Store.Jobs {
		jobs = append(jobs, jobToStatus(j))
	}
	return jobs
}

// Run processes the named jobs, or all of them when names is empty, in
// config order. Failures are collected and returned together after every
// selected job has been tried.
func (s *Syncer) Run(ctx context.Context, names ...string) ([]JobResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var indexes []int
	if len(names) == 0 {
		for i := range s.store.Store.Jobs {
			indexes = append(indexes, i)
		}
	}
	for _, name := range names {
		i := s.store.Index(name)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrUnknownJob, name)
		}
		indexes = append(indexes, i)
	}

	var results []JobResult
	var errs []error
	for _, i := range indexes {
		res, err := s.runJob(ctx, i)
		if err != nil {
			res.Error = err.Error()
			errs = append(errs, fmt.Errorf("job %s: %w", res.Name, err))
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}

func (s *Syncer) runJob(ctx context.Context, i int) (JobResult, error) {
	job := s.store.Store.Jobs[i].Job()
	logger := log.WithField("job", job.Name)
	result := JobResult{Name: job.Name, Cursor: formatCursor(job.CursorDate)}

	logger.Infof("Processing %s since %s", job.Source, result.Cursor)
	res, err := s.extractor.Process(ctx, job)
	if err != nil {
		logger.WithError(err).Error("Extraction failed, cursor unchanged")
		return result, err
	}

	if err := s.sink.Write(ctx, job.Sink, res.Records()); err != nil {
		logger.WithError(err).Error("Failed to write output, cursor unchanged")
		return result, fmt.Errorf("write %s: %w", job.Sink, err)
	}

	prev := s.store.Store.Jobs[i].LastSavedDate
	s.store.SetCursor(i, res.Cursor)
	if err := s.store.Save(); err != nil {
		// a later job's save must not persist this cursor
		s.store.Store.Jobs[i].LastSavedDate = prev
		logger.WithError(err).Error("Failed to save job config, cursor unchanged")
		return result, fmt.Errorf("save %s: %w", s.store.Filename, err)
	}

	result.Rows = len(res.Rows)
	result.Cursor = formatCursor(res.Cursor)
	logger.Infof("Wrote %d new rows to %s, cursor now %s", result.Rows, job.Sink, result.Cursor)
	return result, nil
}

// RunSync is the one-shot batch entry point used by the CLI.
func RunSync(ctx context.Context, configPath string, names ...string) error {
	s, err := NewSyncerFromConfig(ctx, configPath)
	if err != nil {
		return err
	}
	results, err := s.Run(ctx, names...)
	log.Printf("Processed %d jobs", len(results))
	return err
}
