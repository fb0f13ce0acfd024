package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/martinuiga/french-auctions-clauding/internal/auction"
	"github.com/martinuiga/french-auctions-clauding/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInvalidMonthRange = errors.New("invalid month range")
var ErrInvalidLimit = errors.New("invalid limit")

// AuctionFilter narrows GetAuctions. Empty fields do not filter.
type AuctionFilter struct {
	From       string
	To         string
	Region     string
	Technology string
	Limit      string
}

// AuctionService is the ingestion store for auction records.
type AuctionService struct {
	db *gorm.DB
}

func NewAuctionService(db *gorm.DB) (*AuctionService, error) {
	if db == nil {
		return nil, errors.New("db is nil")
	}

	return &AuctionService{db: db}, nil
}

// ProcessedFiles returns the source files that already have stored records.
func (s *AuctionService) ProcessedFiles(ctx context.Context) (map[string]struct{}, error) {
	names, err := s.sourceFiles(ctx)
	if err != nil {
		return nil, err
	}

	processed := make(map[string]struct{}, len(names))
	for _, name := range names {
		processed[name] = struct{}{}
	}

	return processed, nil
}

// ListProcessedFiles is ProcessedFiles as a sorted list.
func (s *AuctionService) ListProcessedFiles(ctx context.Context) ([]string, error) {
	names, err := s.sourceFiles(ctx)
	if err != nil {
		return nil, err
	}

	sort.Strings(names)
	return names, nil
}

func (s *AuctionService) sourceFiles(ctx context.Context) ([]string, error) {
	if s == nil {
		return nil, errors.New("auction service is nil")
	}
	if s.db == nil {
		return nil, errors.New("db is nil")
	}

	var names []string
	err := s.db.WithContext(ctx).
		Model(&models.Auction{}).
		Where("source_file IS NOT NULL AND source_file <> ''").
		Distinct().
		Pluck("source_file", &names).Error
	if err != nil {
		return nil, fmt.Errorf("get processed files: %w", err)
	}

	return names, nil
}

// Upsert inserts records in one transaction. A record whose key is already
// stored is left untouched, and invalid records are skipped. The result is
// the number of rows actually inserted.
func (s *AuctionService) Upsert(ctx context.Context, records []auction.Record) (int, error) {
	if s == nil {
		return 0, errors.New("auction service is nil")
	}
	if s.db == nil {
		return 0, errors.New("db is nil")
	}
	if len(records) == 0 {
		return 0, nil
	}

	onConflict := clause.OnConflict{
		Columns:   conflictColumns(models.Auction{}.ConflictColumns()),
		DoNothing: true,
	}

	var inserted int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, record := range records {
			if !record.Valid() {
				continue
			}

			row := models.NewAuction(record)
			result := tx.Clauses(onConflict).Create(&row)
			if result.Error != nil {
				return fmt.Errorf("insert auction %s/%s/%s: %w",
					row.AuctionDate.Format(time.DateOnly), row.Region, row.Technology, result.Error)
			}
			inserted += int(result.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("upsert auctions: %w", err)
	}

	return inserted, nil
}

// GetAuctions lists stored records newest month first, then by region and
// technology.
func (s *AuctionService) GetAuctions(ctx context.Context, filter AuctionFilter) ([]models.Auction, error) {
	if s == nil {
		return nil, errors.New("auction service is nil")
	}
	if s.db == nil {
		return nil, errors.New("db is nil")
	}

	limit, err := parseLimit(filter.Limit)
	if err != nil {
		return nil, err
	}

	from, hasFrom, to, hasTo, err := parseMonthRange(filter.From, filter.To)
	if err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Model(&models.Auction{})
	if hasFrom {
		query = query.Where("auction_date >= ?", from)
	}
	if hasTo {
		query = query.Where("auction_date < ?", to.AddDate(0, 1, 0))
	}
	if region := strings.TrimSpace(filter.Region); region != "" {
		query = query.Where("lower(region) = lower(?)", region)
	}
	if technology := strings.TrimSpace(filter.Technology); technology != "" {
		query = query.Where("lower(technology) = lower(?)", technology)
	}

	query = query.Order("auction_date desc, region, technology")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var auctions []models.Auction
	if err := query.Find(&auctions).Error; err != nil {
		return nil, fmt.Errorf("get auctions: %w", err)
	}

	return auctions, nil
}

func conflictColumns(names []string) []clause.Column {
	columns := make([]clause.Column, 0, len(names))
	for _, name := range names {
		columns = append(columns, clause.Column{Name: name})
	}
	return columns
}

// parseMonthRange returns the first day of the from and to months.
func parseMonthRange(from string, to string) (time.Time, bool, time.Time, bool, error) {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	hasFrom := from != ""
	hasTo := to != ""

	var fromMonth, toMonth time.Time
	var err error
	if hasFrom {
		fromMonth, err = parseYearMonth(from)
		if err != nil {
			return time.Time{}, false, time.Time{}, false, err
		}
	}
	if hasTo {
		toMonth, err = parseYearMonth(to)
		if err != nil {
			return time.Time{}, false, time.Time{}, false, err
		}
	}

	if hasFrom && hasTo && fromMonth.After(toMonth) {
		return time.Time{}, false, time.Time{}, false, ErrInvalidMonthRange
	}

	return fromMonth, hasFrom, toMonth, hasTo, nil
}

func parseYearMonth(value string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(value), "-")
	if len(parts) != 2 {
		return time.Time{}, ErrInvalidMonthRange
	}

	year, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || year <= 0 {
		return time.Time{}, ErrInvalidMonthRange
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, ErrInvalidMonthRange
	}

	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), nil
}

func parseLimit(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}

	limit, err := strconv.Atoi(value)
	if err != nil || limit <= 0 {
		return 0, ErrInvalidLimit
	}

	return limit, nil
}
