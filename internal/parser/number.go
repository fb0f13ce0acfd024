package parser

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Bounds of a storable value: volumes are numeric(15,2), so at most 13
// integer digits.
const (
	maxIntegerDigits  = 13
	maxFractionDigits = 20
)

// ParseNumber converts a raw cell value into an exact decimal. Cells that are
// blank, hold a placeholder such as "-" or "n/a", cannot be read as a number,
// or hold a value too large to store come back as an invalid (absent)
// NullDecimal. It never fails.
func ParseNumber(value any) decimal.NullDecimal {
	parsed := parseNumberValue(value)
	if parsed.Valid && !storable(parsed.Decimal) {
		return decimal.NullDecimal{}
	}
	return parsed
}

func parseNumberValue(value any) decimal.NullDecimal {
	switch v := value.(type) {
	case nil:
		return decimal.NullDecimal{}
	case decimal.Decimal:
		return decimal.NewNullDecimal(v)
	case decimal.NullDecimal:
		return v
	case int:
		return decimal.NewNullDecimal(decimal.NewFromInt(int64(v)))
	case int32:
		return decimal.NewNullDecimal(decimal.NewFromInt32(v))
	case int64:
		return decimal.NewNullDecimal(decimal.NewFromInt(v))
	case uint:
		return parseNumberText(strconv.FormatUint(uint64(v), 10))
	case uint64:
		return parseNumberText(strconv.FormatUint(v, 10))
	case float32:
		return parseNumberText(strconv.FormatFloat(float64(v), 'f', -1, 32))
	case float64:
		return parseNumberText(strconv.FormatFloat(v, 'f', -1, 64))
	case string:
		return parseNumberText(v)
	case []byte:
		return parseNumberText(string(v))
	default:
		return decimal.NullDecimal{}
	}
}

var thousandsSeparators = strings.NewReplacer(
	",", "",
	" ", "",
	"\u00a0", "",
	"\u202f", "",
)

func parseNumberText(text string) decimal.NullDecimal {
	cleaned := thousandsSeparators.Replace(strings.TrimSpace(text))
	if isAbsentMarker(cleaned) {
		return decimal.NullDecimal{}
	}

	parsed, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.NullDecimal{}
	}

	return decimal.NewNullDecimal(parsed)
}

// storable checks the exponent before anything formats the value: a cell
// such as "1e2000000000" parses fine but cannot be printed in bounded time.
func storable(d decimal.Decimal) bool {
	exp := int(d.Exponent())
	if exp > maxIntegerDigits || exp < -maxFractionDigits {
		return false
	}
	return d.NumDigits()+exp <= maxIntegerDigits
}

func isAbsentMarker(text string) bool {
	switch strings.ToLower(text) {
	case "", "-", "n/a":
		return true
	}
	return false
}
