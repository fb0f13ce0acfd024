package services

import (
	"context"
	"time"

	"github.com/martinuiga/french-auctions-clauding/internal/auction"
)

type AuctionStore interface {
	ProcessedFiles(ctx context.Context) (map[string]struct{}, error)
	Upsert(ctx context.Context, records []auction.Record) (int, error)
}

type RunLogger interface {
	LogRun(ctx context.Context, status string, recordsAdded int, errorMessage string) error
}

type PageFetcher interface {
	FetchPage(ctx context.Context) (string, error)
	FindDownloadLinks(rawHTML string) ([]DownloadLink, error)
	Download(ctx context.Context, rawURL string) ([]byte, error)
}

type WorkbookParser interface {
	Parse(sourceFile string, content []byte) ([]auction.Record, error)
}

type RunObserver interface {
	ObserveRun(status string, recordsAdded int, finishedAt time.Time)
	ObserveFile(outcome string)
}
