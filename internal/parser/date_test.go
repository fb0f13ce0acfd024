package parser

import (
	"testing"
	"time"
)

func TestInferDate(t *testing.T) {
	tests := []struct {
		name  string
		title string
		rows  [][]string
		want  time.Time
	}{
		{
			name:  "title",
			title: "January 2024",
			want:  time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "cells",
			title: "Results",
			rows:  [][]string{{"EEX"}, {"", "Auction of 17 March 2023"}},
			want:  time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "abbreviation",
			title: "Sept. 2025",
			want:  time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "full names are checked before abbreviations",
			title: "Dec 2024 session",
			rows:  [][]string{{"Report for January"}},
			want:  time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "first year wins",
			title: "August",
			rows:  [][]string{{"2021 vs 2022"}},
			want:  time.Date(2021, time.August, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "year embedded in a compact date",
			title: "20251119_August_2025_83.xlsx",
			want:  time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		got, ok := InferDate(tt.title, tt.rows)
		if !ok {
			t.Fatalf("%s: InferDate: expected date", tt.name)
		}
		if !got.Equal(tt.want) {
			t.Fatalf("%s: InferDate = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestInferDateNotFound(t *testing.T) {
	tests := []struct {
		name  string
		title string
		rows  [][]string
	}{
		{"month without year", "January", nil},
		{"year without month", "Results 2024", nil},
		{"twentieth century year", "January 1999", nil},
		{"nothing", "Sheet1", [][]string{{"Region", "Volume offered"}}},
	}

	for _, tt := range tests {
		if got, ok := InferDate(tt.title, tt.rows); ok {
			t.Fatalf("%s: InferDate = %v, want not found", tt.name, got)
		}
	}
}

func TestInferDateScanWindow(t *testing.T) {
	wide := [][]string{{"a", "b", "c", "d", "e", "June 2024"}}
	if got, ok := InferDate("Sheet1", wide); ok {
		t.Fatalf("sixth column: InferDate = %v, want not found", got)
	}

	tall := make([][]string, 10)
	tall = append(tall, []string{"June 2024"})
	if got, ok := InferDate("Sheet1", tall); ok {
		t.Fatalf("eleventh row: InferDate = %v, want not found", got)
	}

	tall[9] = []string{"June 2024"}
	if _, ok := InferDate("Sheet1", tall); !ok {
		t.Fatalf("tenth row: expected date")
	}
}
