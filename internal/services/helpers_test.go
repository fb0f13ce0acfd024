package services

import (
	"testing"
	"time"

	"github.com/martinuiga/french-auctions-clauding/internal/auction"
	"github.com/martinuiga/french-auctions-clauding/internal/repo"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite db: %v", err)
	}

	// Every connection to ":memory:" is a separate database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := repo.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

func amount(value string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(value))
}

func month(year int, m time.Month) time.Time {
	return time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
}

func testRecord(date time.Time, region auction.Region, technology auction.Technology, sourceFile string) auction.Record {
	return auction.NewRecord(date, region, technology, amount("100"), amount("80"), amount("50.5"), sourceFile)
}
