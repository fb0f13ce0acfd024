package parser

import "strings"

const maxHeaderScanRows = 50

// ColumnRole is the meaning of a column the row extractor consumes.
type ColumnRole int

const (
	RoleVolumeOffered ColumnRole = iota
	RoleVolumeAllocated
	RolePrice
)

func (r ColumnRole) String() string {
	switch r {
	case RoleVolumeOffered:
		return "volume_offered"
	case RoleVolumeAllocated:
		return "volume_allocated"
	case RolePrice:
		return "price"
	default:
		return "unknown"
	}
}

// Header describes the header row of a sheet.
type Header struct {
	// Row is the zero-based index of the header row.
	Row int

	// Columns maps each recognised role to its column index.
	Columns map[ColumnRole]int
}

// Column returns the column index for role.
func (h Header) Column(role ColumnRole) (int, bool) {
	index, ok := h.Columns[role]
	return index, ok
}

var volumeQualifiers = []string{"offered", "allocated", "auctionned", "sold"}

// LocateHeader returns the first row among the leading rows of a sheet whose
// labels announce volume columns. Rows past the scan window are never read.
func LocateHeader(rows [][]string) (Header, bool) {
	limit := min(len(rows), maxHeaderScanRows)

	for index := 0; index < limit; index++ {
		if !isHeaderRow(rows[index]) {
			continue
		}

		return Header{Row: index, Columns: classifyColumns(rows[index])}, true
	}

	return Header{}, false
}

func isHeaderRow(row []string) bool {
	parts := make([]string, 0, len(row))
	for _, cell := range row {
		if strings.TrimSpace(cell) == "" {
			continue
		}
		parts = append(parts, strings.ToLower(cell))
	}
	text := strings.Join(parts, " ")

	if !strings.Contains(text, "volume") {
		return false
	}
	for _, qualifier := range volumeQualifiers {
		if strings.Contains(text, qualifier) {
			return true
		}
	}
	return false
}

// classifyColumns assigns each cell at most one role. When several cells
// claim the same role the right-most one is kept.
func classifyColumns(row []string) map[ColumnRole]int {
	columns := make(map[ColumnRole]int, 3)

	for index, cell := range row {
		label := strings.ToLower(cell)
		switch {
		case strings.Contains(label, "offered") || strings.Contains(label, "auctionned"):
			columns[RoleVolumeOffered] = index
		case strings.Contains(label, "allocated") || strings.Contains(label, "sold"):
			columns[RoleVolumeAllocated] = index
		case strings.Contains(label, "price") || strings.Contains(label, "average"):
			columns[RolePrice] = index
		}
	}

	return columns
}
