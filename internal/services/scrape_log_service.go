package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/martinuiga/french-auctions-clauding/internal/models"

	"gorm.io/gorm"
)

var ErrInvalidRunStatus = errors.New("invalid run status")

type ScrapeLogService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewScrapeLogService(db *gorm.DB) (*ScrapeLogService, error) {
	if db == nil {
		return nil, errors.New("db is nil")
	}

	return &ScrapeLogService{db: db, now: time.Now}, nil
}

// LogRun appends one scrape run entry. status is models.ScrapeStatusSuccess
// or models.ScrapeStatusFailure; an empty errorMessage is stored as NULL.
func (s *ScrapeLogService) LogRun(ctx context.Context, status string, recordsAdded int, errorMessage string) error {
	if s == nil {
		return errors.New("scrape log service is nil")
	}
	if s.db == nil {
		return errors.New("db is nil")
	}
	if status != models.ScrapeStatusSuccess && status != models.ScrapeStatusFailure {
		return fmt.Errorf("%w: %q", ErrInvalidRunStatus, status)
	}
	if recordsAdded < 0 {
		return errors.New("records added is negative")
	}

	entry := models.ScrapeLog{
		RunAt:        s.now().UTC(),
		Status:       status,
		RecordsAdded: recordsAdded,
	}
	if errorMessage != "" {
		entry.ErrorMessage = &errorMessage
	}

	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("create scrape log: %w", err)
	}

	return nil
}

// GetRuns returns the latest runs, newest first.
func (s *ScrapeLogService) GetRuns(ctx context.Context, limit int) ([]models.ScrapeLog, error) {
	if s == nil {
		return nil, errors.New("scrape log service is nil")
	}
	if s.db == nil {
		return nil, errors.New("db is nil")
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	var runs []models.ScrapeLog
	if err := s.db.WithContext(ctx).Order("run_at desc").Limit(limit).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("get scrape logs: %w", err)
	}

	return runs, nil
}
