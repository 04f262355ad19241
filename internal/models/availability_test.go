package models

import (
	"sort"
	"testing"
)

func copyAt(location string, available bool) CopyInfo {
	c := CopyInfo{Location: location, Status: "On Loan", Transaction: "On Loan", Media: "Book"}
	if available {
		c.Status = "Not on Loan"
		c.Transaction = "Available for loan"
	}
	return c
}

func TestBranchSummariesScenario(t *testing.T) {
	// Two copies at Central, one available and one on loan
	result := BookAvailability{
		Query: NewBookQuery("Project Hail Mary", "Andy Weir"),
		BRNs:  []int{456},
		Copies: []CopyInfo{
			{Location: "Central", Status: "Not on Loan", Transaction: "Available for loan", Media: "Book"},
			{Location: "Central", Status: "On Loan", Transaction: "On Loan", Media: "Book"},
		},
	}

	summaries := result.BranchSummaries()
	if len(summaries) != 1 {
		t.Fatalf("expected 1 branch, got %d", len(summaries))
	}

	central := summaries[0]
	if central.Library != "Central" {
		t.Errorf("Library = %q, want Central", central.Library)
	}
	if central.Available != 1 {
		t.Errorf("Available = %d, want 1", central.Available)
	}
	if central.Total != 2 {
		t.Errorf("Total = %d, want 2", central.Total)
	}
	if got, want := central.Label(), "Available (1/2)"; got != want {
		t.Errorf("Label() = %q, want %q", got, want)
	}
}

func TestBranchSummariesSortedAndConsistent(t *testing.T) {
	result := BookAvailability{
		Copies: []CopyInfo{
			copyAt("Woodlands", true),
			copyAt("Central", false),
			copyAt("Bedok", true),
			copyAt("Woodlands", false),
			copyAt("Central", true),
			copyAt("Bedok", true),
		},
	}

	summaries := result.BranchSummaries()

	if !sort.SliceIsSorted(summaries, func(i, j int) bool {
		return summaries[i].Library < summaries[j].Library
	}) {
		t.Error("branch summaries are not sorted by library name")
	}

	sumAvailable, sumTotal := 0, 0
	for _, s := range summaries {
		sumAvailable += s.Available
		sumTotal += s.Total
	}

	if sumAvailable != result.TotalAvailable() {
		t.Errorf("sum of branch available = %d, TotalAvailable() = %d", sumAvailable, result.TotalAvailable())
	}
	if sumTotal != len(result.Copies) {
		t.Errorf("sum of branch totals = %d, len(Copies) = %d", sumTotal, len(result.Copies))
	}
}

func TestAnyAvailable(t *testing.T) {
	none := BookAvailability{Copies: []CopyInfo{copyAt("Central", false)}}
	if none.AnyAvailable() {
		t.Error("AnyAvailable() = true with no available copies")
	}
	if none.TotalAvailable() != 0 {
		t.Errorf("TotalAvailable() = %d, want 0", none.TotalAvailable())
	}

	some := BookAvailability{Copies: []CopyInfo{copyAt("Central", false), copyAt("Bedok", true)}}
	if !some.AnyAvailable() {
		t.Error("AnyAvailable() = false with an available copy")
	}
	if some.TotalAvailable() != 1 {
		t.Errorf("TotalAvailable() = %d, want 1", some.TotalAvailable())
	}

	empty := BookAvailability{}
	if empty.AnyAvailable() {
		t.Error("AnyAvailable() = true for empty result")
	}
	if len(empty.BranchSummaries()) != 0 {
		t.Error("BranchSummaries() not empty for empty result")
	}
}

func TestNotAvailableLabel(t *testing.T) {
	s := BranchSummary{Library: "Bedok", Available: 0, Total: 3}
	if got, want := s.Label(), "NOT available (0/3)"; got != want {
		t.Errorf("Label() = %q, want %q", got, want)
	}
}
