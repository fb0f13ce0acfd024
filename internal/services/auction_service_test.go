package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/martinuiga/french-auctions-clauding/internal/auction"
	"github.com/martinuiga/french-auctions-clauding/internal/models"

	"github.com/shopspring/decimal"
)

func TestNewAuctionServiceNilDB(t *testing.T) {
	if _, err := NewAuctionService(nil); err == nil {
		t.Fatalf("NewAuctionService nil db: expected error")
	}
}

func TestAuctionServiceUpsert(t *testing.T) {
	db := openTestDB(t)
	service, err := NewAuctionService(db)
	if err != nil {
		t.Fatalf("NewAuctionService: %v", err)
	}

	records := []auction.Record{
		testRecord(month(2024, time.January), auction.Bretagne, auction.AllTechnologies, "january.xlsx"),
		testRecord(month(2024, time.January), auction.AllRegions, auction.Wind, "january.xlsx"),
	}

	count, err := service.Upsert(context.Background(), records)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}

	var stored []models.Auction
	if err := db.Order("technology").Find(&stored).Error; err != nil {
		t.Fatalf("select auctions: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("stored rows = %d, want 2", len(stored))
	}

	row := stored[0]
	if row.ID == "" {
		t.Fatalf("ID is empty")
	}
	if row.Region != "Bretagne" || row.Technology != "All Technologies" {
		t.Fatalf("row = %s/%s, want Bretagne/All Technologies", row.Region, row.Technology)
	}
	if !row.AuctionDate.Equal(month(2024, time.January)) {
		t.Fatalf("AuctionDate = %v, want 2024-01-01", row.AuctionDate)
	}
	if !row.VolumeOfferedMWh.Valid || !row.VolumeOfferedMWh.Decimal.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("VolumeOfferedMWh = %v, want 100", row.VolumeOfferedMWh)
	}
	if !row.WeightedAvgPriceEur.Decimal.Equal(decimal.RequireFromString("50.5")) {
		t.Fatalf("WeightedAvgPriceEur = %v, want 50.5", row.WeightedAvgPriceEur)
	}
	if row.SourceFile != "january.xlsx" {
		t.Fatalf("SourceFile = %q, want %q", row.SourceFile, "january.xlsx")
	}
	if row.CreatedAt.IsZero() {
		t.Fatalf("CreatedAt is zero")
	}
}

func TestAuctionServiceUpsertIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	service, err := NewAuctionService(db)
	if err != nil {
		t.Fatalf("NewAuctionService: %v", err)
	}

	records := []auction.Record{
		testRecord(month(2024, time.March), auction.Occitanie, auction.Solar, "march.xlsx"),
		testRecord(month(2024, time.March), auction.Occitanie, auction.Wind, "march.xlsx"),
	}

	if _, err := service.Upsert(context.Background(), records); err != nil {
		t.Fatalf("first Upsert: %v", err)
	}

	changed := auction.NewRecord(month(2024, time.March), auction.Occitanie, auction.Solar,
		amount("1"), amount("1"), amount("1"), "other.xlsx")
	count, err := service.Upsert(context.Background(), append(records, changed))
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	if count != 0 {
		t.Fatalf("second count = %d, want 0", count)
	}

	var total int64
	if err := db.Model(&models.Auction{}).Count(&total).Error; err != nil {
		t.Fatalf("count auctions: %v", err)
	}
	if total != 2 {
		t.Fatalf("rows = %d, want 2", total)
	}

	var solar models.Auction
	if err := db.Where("technology = ?", "Solar").First(&solar).Error; err != nil {
		t.Fatalf("select solar: %v", err)
	}
	if solar.SourceFile != "march.xlsx" || !solar.VolumeOfferedMWh.Decimal.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("existing row was updated: %+v", solar)
	}
}

func TestAuctionServiceUpsertSkipsInvalidRecords(t *testing.T) {
	db := openTestDB(t)
	service, err := NewAuctionService(db)
	if err != nil {
		t.Fatalf("NewAuctionService: %v", err)
	}

	records := []auction.Record{
		testRecord(time.Time{}, auction.Bretagne, auction.Wind, "file.xlsx"),
		testRecord(month(2024, time.May), "", auction.Wind, "file.xlsx"),
		testRecord(month(2024, time.May), auction.Bretagne, "", "file.xlsx"),
		testRecord(month(2024, time.May), auction.Bretagne, auction.Wind, "file.xlsx"),
	}

	count, err := service.Upsert(context.Background(), records)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
}

func TestAuctionServiceUpsertEmpty(t *testing.T) {
	service, err := NewAuctionService(openTestDB(t))
	if err != nil {
		t.Fatalf("NewAuctionService: %v", err)
	}

	count, err := service.Upsert(context.Background(), nil)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if count != 0 {
		t.Fatalf("count = %d, want 0", count)
	}
}

func TestAuctionServiceProcessedFiles(t *testing.T) {
	service, err := NewAuctionService(openTestDB(t))
	if err != nil {
		t.Fatalf("NewAuctionService: %v", err)
	}

	records := []auction.Record{
		testRecord(month(2024, time.January), auction.Bretagne, auction.Wind, "b.xlsx"),
		testRecord(month(2024, time.January), auction.Normandie, auction.Wind, "b.xlsx"),
		testRecord(month(2024, time.February), auction.Bretagne, auction.Wind, "a.zip"),
	}
	if _, err := service.Upsert(context.Background(), records); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	processed, err := service.ProcessedFiles(context.Background())
	if err != nil {
		t.Fatalf("ProcessedFiles: %v", err)
	}
	if len(processed) != 2 {
		t.Fatalf("processed = %v, want 2 files", processed)
	}
	for _, name := range []string{"a.zip", "b.xlsx"} {
		if _, ok := processed[name]; !ok {
			t.Fatalf("processed missing %s", name)
		}
	}

	list, err := service.ListProcessedFiles(context.Background())
	if err != nil {
		t.Fatalf("ListProcessedFiles: %v", err)
	}
	if len(list) != 2 || list[0] != "a.zip" || list[1] != "b.xlsx" {
		t.Fatalf("ListProcessedFiles = %v, want [a.zip b.xlsx]", list)
	}
}

func TestAuctionServiceGetAuctions(t *testing.T) {
	service, err := NewAuctionService(openTestDB(t))
	if err != nil {
		t.Fatalf("NewAuctionService: %v", err)
	}

	records := []auction.Record{
		testRecord(month(2024, time.January), auction.Bretagne, auction.Wind, "jan.xlsx"),
		testRecord(month(2024, time.February), auction.Normandie, auction.Solar, "feb.xlsx"),
		testRecord(month(2024, time.February), auction.Bretagne, auction.Wind, "feb.xlsx"),
		testRecord(month(2024, time.March), auction.Bretagne, auction.Hydro, "mar.xlsx"),
	}
	if _, err := service.Upsert(context.Background(), records); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	all, err := service.GetAuctions(context.Background(), AuctionFilter{})
	if err != nil {
		t.Fatalf("GetAuctions: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("GetAuctions = %d rows, want 4", len(all))
	}
	if all[0].SourceFile != "mar.xlsx" {
		t.Fatalf("first row = %s, want newest month", all[0].SourceFile)
	}
	if all[1].Region != "Bretagne" || all[2].Region != "Normandie" {
		t.Fatalf("same month rows not ordered by region: %s, %s", all[1].Region, all[2].Region)
	}

	february, err := service.GetAuctions(context.Background(), AuctionFilter{From: "2024-02", To: "2024-02"})
	if err != nil {
		t.Fatalf("GetAuctions february: %v", err)
	}
	if len(february) != 2 {
		t.Fatalf("february rows = %d, want 2", len(february))
	}

	wind, err := service.GetAuctions(context.Background(), AuctionFilter{Region: "bretagne", Technology: "WIND", Limit: "1"})
	if err != nil {
		t.Fatalf("GetAuctions wind: %v", err)
	}
	if len(wind) != 1 || wind[0].SourceFile != "feb.xlsx" {
		t.Fatalf("wind rows = %+v, want latest Bretagne wind", wind)
	}
}

func TestAuctionServiceGetAuctionsInvalidFilter(t *testing.T) {
	service, err := NewAuctionService(openTestDB(t))
	if err != nil {
		t.Fatalf("NewAuctionService: %v", err)
	}

	tests := []struct {
		name   string
		filter AuctionFilter
		want   error
	}{
		{"reversed range", AuctionFilter{From: "2024-05", To: "2024-01"}, ErrInvalidMonthRange},
		{"bad month", AuctionFilter{From: "2024-13"}, ErrInvalidMonthRange},
		{"bad format", AuctionFilter{To: "May 2024"}, ErrInvalidMonthRange},
		{"zero limit", AuctionFilter{Limit: "0"}, ErrInvalidLimit},
		{"text limit", AuctionFilter{Limit: "all"}, ErrInvalidLimit},
	}

	for _, tt := range tests {
		if _, err := service.GetAuctions(context.Background(), tt.filter); !errors.Is(err, tt.want) {
			t.Fatalf("%s: err = %v, want %v", tt.name, err, tt.want)
		}
	}
}
