package models

import (
	"time"

	"github.com/martinuiga/french-auctions-clauding/internal/auction"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Auction is the persisted form of an auction.Record.
type Auction struct {
	ID                  string              `gorm:"type:uuid;primaryKey" json:"id"`
	AuctionDate         time.Time           `gorm:"type:date;not null;uniqueIndex:uq_auction_date_region_technology,priority:1" json:"auction_date"`
	Region              string              `gorm:"type:varchar(100);not null;uniqueIndex:uq_auction_date_region_technology,priority:2" json:"region"`
	Technology          string              `gorm:"type:varchar(50);not null;uniqueIndex:uq_auction_date_region_technology,priority:3" json:"technology"`
	VolumeOfferedMWh    decimal.NullDecimal `gorm:"column:volume_offered_mwh;type:numeric(15,2)" json:"volume_offered_mwh"`
	VolumeAllocatedMWh  decimal.NullDecimal `gorm:"column:volume_allocated_mwh;type:numeric(15,2)" json:"volume_allocated_mwh"`
	WeightedAvgPriceEur decimal.NullDecimal `gorm:"column:weighted_avg_price_eur;type:numeric(10,4)" json:"weighted_avg_price_eur"`
	SourceFile          string              `gorm:"type:varchar(255);index" json:"source_file"`
	CreatedAt           time.Time           `gorm:"not null" json:"created_at"`
}

func (Auction) TableName() string {
	return "auctions"
}

// ConflictColumns are the columns of the natural key an insert may collide on.
func (Auction) ConflictColumns() []string {
	return []string{"auction_date", "region", "technology"}
}

func (a *Auction) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// NewAuction maps a parsed record onto a row.
func NewAuction(record auction.Record) Auction {
	return Auction{
		AuctionDate:         record.AuctionDate(),
		Region:              record.Region().String(),
		Technology:          record.Technology().String(),
		VolumeOfferedMWh:    record.VolumeOffered(),
		VolumeAllocatedMWh:  record.VolumeAllocated(),
		WeightedAvgPriceEur: record.WeightedAvgPrice(),
		SourceFile:          record.SourceFile(),
	}
}
