package ui

import (
	"os"
	"strings"
	"testing"

	"github.com/oboboa/nlb-api/internal/models"
)

func TestNewLayoutClamping(t *testing.T) {
	tests := []struct {
		name     string
		terminal int
		want     int
	}{
		{"narrow terminal clamps up", 40, MinViewportWidth},
		{"wide terminal clamps down", 300, MaxViewportWidth},
		{"in-range width passes through", 100, 100},
		{"zero width clamps up", 0, MinViewportWidth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLayout(tt.terminal)
			if l.ViewportWidth != tt.want {
				t.Errorf("ViewportWidth = %d, want %d", l.ViewportWidth, tt.want)
			}
			if l.InnerWidth != tt.want-2 {
				t.Errorf("InnerWidth = %d, want %d", l.InnerWidth, tt.want-2)
			}
		})
	}
}

func TestShelfColumnsFitMinViewport(t *testing.T) {
	total := 0
	for _, col := range BuildShelfColumns() {
		total += col.Width
	}
	if total > MinViewportWidth-2 {
		t.Errorf("column widths sum to %d, exceeding the narrowest viewport (%d)", total, MinViewportWidth-2)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate(short, 10) = %q", got)
	}
	if got := truncate("a very long title indeed", 10); got != "a very lo…" {
		t.Errorf("truncate = %q, want ellipsis at width 10", got)
	}
	if got := truncate("abc", 1); got != "a" {
		t.Errorf("truncate(abc, 1) = %q, want a", got)
	}
}

func TestExportResultsToMarkdown(t *testing.T) {
	t.Chdir(t.TempDir())

	results := []models.BookAvailability{
		{
			Query: models.NewBookQuery("Project Hail Mary", "Andy Weir"),
			BRNs:  []int{456},
			Copies: []models.CopyInfo{
				{Location: "Central", Status: "Not on Loan", Transaction: "Available for loan", Media: "Book"},
				{Location: "Central", Status: "On Loan", Transaction: "On Loan", Media: "Book"},
			},
		},
		{
			Query: models.NewBookQuery("Dune", "Frank Herbert"),
			Err:   "No matching physical BRNs found.",
		},
	}

	filename, err := ExportResultsToMarkdown(results)
	if err != nil {
		t.Fatalf("ExportResultsToMarkdown failed: %v", err)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("failed to read exported file: %v", err)
	}
	report := string(data)

	for _, want := range []string{
		"1/2 titles have copies available",
		"Project Hail Mary",
		"| Central | 1 | 2 |",
		"BRN=456",
		"> No matching physical BRNs found.",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("exported report is missing %q", want)
		}
	}
}
