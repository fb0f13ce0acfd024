package parser

import (
	"strings"
	"time"

	"github.com/martinuiga/french-auctions-clauding/internal/auction"

	"github.com/shopspring/decimal"
)

// ExtractRecord turns one data row into a candidate record. Rows without a
// recognisable region or technology label, and rows without any volume, are
// skipped.
func ExtractRecord(row []string, header Header, auctionDate time.Time, sourceFile string) (auction.Record, bool) {
	if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
		return auction.Record{}, false
	}

	label := row[0]
	region, regionOK := auction.MatchRegion(label)
	technology, technologyOK := auction.MatchTechnology(label)
	if !technologyOK && len(row) > 1 {
		technology, technologyOK = auction.MatchTechnology(row[1])
	}
	if !regionOK && !technologyOK {
		return auction.Record{}, false
	}

	offered := cellNumber(row, header, RoleVolumeOffered)
	allocated := cellNumber(row, header, RoleVolumeAllocated)
	if !offered.Valid && !allocated.Valid {
		return auction.Record{}, false
	}

	if !regionOK {
		region = auction.AllRegions
	}
	if !technologyOK {
		technology = auction.AllTechnologies
	}

	return auction.NewRecord(
		auctionDate,
		region,
		technology,
		offered,
		allocated,
		cellNumber(row, header, RolePrice),
		sourceFile,
	), true
}

func cellNumber(row []string, header Header, role ColumnRole) decimal.NullDecimal {
	index, ok := header.Column(role)
	if !ok || index >= len(row) {
		return decimal.NullDecimal{}
	}
	return ParseNumber(row[index])
}
