package auction

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is one auction allocation result. Records are values: they are built
// once by NewRecord and expose their fields read-only.
type Record struct {
	auctionDate      time.Time
	region           Region
	technology       Technology
	volumeOffered    decimal.NullDecimal
	volumeAllocated  decimal.NullDecimal
	weightedAvgPrice decimal.NullDecimal
	sourceFile       string
}

// Key is the natural key of a Record.
type Key struct {
	AuctionDate time.Time
	Region      Region
	Technology  Technology
}

// NewRecord builds a Record. The auction date is truncated to a calendar day
// in UTC.
func NewRecord(
	auctionDate time.Time,
	region Region,
	technology Technology,
	volumeOffered decimal.NullDecimal,
	volumeAllocated decimal.NullDecimal,
	weightedAvgPrice decimal.NullDecimal,
	sourceFile string,
) Record {
	if !auctionDate.IsZero() {
		auctionDate = time.Date(auctionDate.Year(), auctionDate.Month(), auctionDate.Day(), 0, 0, 0, 0, time.UTC)
	}

	return Record{
		auctionDate:      auctionDate,
		region:           region,
		technology:       technology,
		volumeOffered:    volumeOffered,
		volumeAllocated:  volumeAllocated,
		weightedAvgPrice: weightedAvgPrice,
		sourceFile:       sourceFile,
	}
}

func (r Record) AuctionDate() time.Time                { return r.auctionDate }
func (r Record) Region() Region                        { return r.region }
func (r Record) Technology() Technology                { return r.technology }
func (r Record) VolumeOffered() decimal.NullDecimal    { return r.volumeOffered }
func (r Record) VolumeAllocated() decimal.NullDecimal  { return r.volumeAllocated }
func (r Record) WeightedAvgPrice() decimal.NullDecimal { return r.weightedAvgPrice }
func (r Record) SourceFile() string                    { return r.sourceFile }

// Key returns the (date, region, technology) triple identifying the record.
func (r Record) Key() Key {
	return Key{AuctionDate: r.auctionDate, Region: r.region, Technology: r.technology}
}

// Valid reports whether the record carries a complete natural key and at least
// one volume.
func (r Record) Valid() bool {
	if r.auctionDate.IsZero() || r.region == "" || r.technology == "" {
		return false
	}

	return r.volumeOffered.Valid || r.volumeAllocated.Valid
}
