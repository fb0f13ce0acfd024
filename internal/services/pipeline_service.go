package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/martinuiga/french-auctions-clauding/internal/metrics"
	"github.com/martinuiga/french-auctions-clauding/internal/models"
)

// PipelineService runs one scrape: fetch the results page, download every
// file not yet ingested, parse it and store the records.
type PipelineService struct {
	store    AuctionStore
	runLog   RunLogger
	fetcher  PageFetcher
	parser   WorkbookParser
	observer RunObserver
	logger   *slog.Logger
	now      func() time.Time
}

func NewPipelineService(store AuctionStore, runLog RunLogger, fetcher PageFetcher, parser WorkbookParser, observer RunObserver, logger *slog.Logger) (*PipelineService, error) {
	if store == nil {
		return nil, errors.New("auction store is nil")
	}
	if runLog == nil {
		return nil, errors.New("run logger is nil")
	}
	if fetcher == nil {
		return nil, errors.New("page fetcher is nil")
	}
	if parser == nil {
		return nil, errors.New("workbook parser is nil")
	}
	if observer == nil {
		return nil, errors.New("run observer is nil")
	}
	if logger == nil {
		return nil, errors.New("logger is nil")
	}

	return &PipelineService{
		store:    store,
		runLog:   runLog,
		fetcher:  fetcher,
		parser:   parser,
		observer: observer,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Run performs one scrape and returns the number of records added. Every
// call that gets past its guards writes exactly one scrape log entry, also
// when a collaborator panics; the panic is returned as an error.
func (s *PipelineService) Run(ctx context.Context) (added int, err error) {
	if s == nil {
		return 0, errors.New("pipeline service is nil")
	}
	if s.store == nil || s.runLog == nil || s.fetcher == nil || s.parser == nil || s.observer == nil || s.logger == nil {
		return 0, errors.New("pipeline service is not initialised")
	}

	started := s.now()
	s.logger.Info("scrape run started")

	logged := false
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scrape run panicked: %v", r)
			added = 0
			if !logged {
				s.recordFailure(ctx, err)
			}
		}
	}()

	added, err = s.ingest(ctx)
	if err != nil {
		logged = true
		s.recordFailure(ctx, err)
		return 0, err
	}

	logErr := s.runLog.LogRun(ctx, models.ScrapeStatusSuccess, added, "")
	logged = true
	if logErr != nil {
		err = fmt.Errorf("log scrape run: %w", logErr)
		s.recordFailure(ctx, err)
		return 0, err
	}

	s.observer.ObserveRun(models.ScrapeStatusSuccess, added, s.now())
	s.logger.Info("scrape run completed",
		"records_added", added,
		"duration", s.now().Sub(started).String(),
	)

	return added, nil
}

func (s *PipelineService) ingest(ctx context.Context) (int, error) {
	processed, err := s.store.ProcessedFiles(ctx)
	if err != nil {
		return 0, fmt.Errorf("get processed files: %w", err)
	}

	page, err := s.fetcher.FetchPage(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPageFetch, err)
	}

	links, err := s.fetcher.FindDownloadLinks(page)
	if err != nil {
		return 0, fmt.Errorf("find download links: %w", err)
	}
	s.logger.Info("found download links", "count", len(links))

	var total int
	for _, link := range links {
		if _, ok := processed[link.Filename]; ok {
			s.logger.Debug("skipping processed file", "file", link.Filename)
			s.observer.ObserveFile(metrics.FileSkipped)
			continue
		}

		s.logger.Info("downloading file", "file", link.Filename, "url", link.URL)
		content, err := s.fetcher.Download(ctx, link.URL)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return 0, fmt.Errorf("download %s: %w", link.Filename, ctxErr)
			}
			s.logger.Warn("download failed, file skipped", "file", link.Filename, "reason", err)
			s.observer.ObserveFile(metrics.FileDownloadFailed)
			continue
		}

		records, err := s.parser.Parse(link.Filename, content)
		if err != nil {
			s.logger.Warn("decode failed, file skipped", "file", link.Filename, "reason", err)
			s.observer.ObserveFile(metrics.FileDecodeFailed)
			continue
		}

		inserted, err := s.store.Upsert(ctx, records)
		if err != nil {
			return 0, fmt.Errorf("store records from %s: %w", link.Filename, err)
		}
		total += inserted
		if len(records) > 0 {
			processed[link.Filename] = struct{}{}
		}

		s.observer.ObserveFile(metrics.FileIngested)
		s.logger.Info("file ingested",
			"file", link.Filename,
			"records_parsed", len(records),
			"records_added", inserted,
		)
	}

	return total, nil
}

func (s *PipelineService) recordFailure(ctx context.Context, runErr error) {
	s.logger.Error("scrape run failed", "reason", runErr)
	s.observer.ObserveRun(models.ScrapeStatusFailure, 0, s.now())

	// The entry is written even when the run was cancelled.
	if err := s.runLog.LogRun(context.WithoutCancel(ctx), models.ScrapeStatusFailure, 0, runErr.Error()); err != nil {
		s.logger.Error("log failed scrape run", "reason", err)
	}
}
