package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	dateScanRows    = 10
	dateScanColumns = 5
)

type monthName struct {
	name  string
	month time.Month
}

// Checked in this order; the first name found in the text decides the month.
var monthNames = []monthName{
	{"january", time.January},
	{"february", time.February},
	{"march", time.March},
	{"april", time.April},
	{"may", time.May},
	{"june", time.June},
	{"july", time.July},
	{"august", time.August},
	{"september", time.September},
	{"october", time.October},
	{"november", time.November},
	{"december", time.December},
	{"jan", time.January},
	{"feb", time.February},
	{"mar", time.March},
	{"apr", time.April},
	{"jun", time.June},
	{"jul", time.July},
	{"aug", time.August},
	{"sep", time.September},
	{"oct", time.October},
	{"nov", time.November},
	{"dec", time.December},
}

var yearPattern = regexp.MustCompile(`20\d{2}`)

// InferDate looks for a month name and a 21st-century year in the sheet title
// and the top-left block of the sheet. It returns the first day of that month.
func InferDate(title string, rows [][]string) (time.Time, bool) {
	return inferDateFromText(dateContext(title, rows))
}

func dateContext(title string, rows [][]string) string {
	var builder strings.Builder
	builder.WriteString(strings.ToLower(title))
	builder.WriteString(" ")

	for rowIndex := 0; rowIndex < min(len(rows), dateScanRows); rowIndex++ {
		row := rows[rowIndex]
		for colIndex := 0; colIndex < min(len(row), dateScanColumns); colIndex++ {
			cell := strings.TrimSpace(row[colIndex])
			if cell == "" {
				continue
			}
			builder.WriteString(strings.ToLower(cell))
			builder.WriteString(" ")
		}
	}

	return builder.String()
}

func inferDateFromText(text string) (time.Time, bool) {
	var month time.Month
	for _, candidate := range monthNames {
		if strings.Contains(text, candidate.name) {
			month = candidate.month
			break
		}
	}
	if month == 0 {
		return time.Time{}, false
	}

	match := yearPattern.FindString(text)
	if match == "" {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return time.Time{}, false
	}

	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), true
}
