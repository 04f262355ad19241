package models

import (
	"fmt"
	"sort"
)

// Candidate is one raw search-result entry from the GetTitles response.
// BRN may be null for records the catalogue cannot resolve.
type Candidate struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Source string `json:"source"`
	BRN    *int   `json:"brn"`
}

// BookAvailability is the full availability result for one BookQuery.
// It is built once by the fetch layer and never mutated afterwards.
type BookAvailability struct {
	Query  BookQuery  `json:"query"`
	BRNs   []int      `json:"brns,omitempty"`
	Copies []CopyInfo `json:"copies,omitempty"`
	Err    string     `json:"error,omitempty"`
}

// BranchSummary is the aggregated availability at one library branch.
type BranchSummary struct {
	Library   string     `json:"library"`
	Available int        `json:"available"`
	Total     int        `json:"total"`
	Copies    []CopyInfo `json:"copies"`
}

// Label renders the branch's availability as a short display string.
func (s BranchSummary) Label() string {
	if s.Available > 0 {
		return fmt.Sprintf("Available (%d/%d)", s.Available, s.Total)
	}
	return fmt.Sprintf("NOT available (0/%d)", s.Total)
}

// BranchSummaries groups the result's copies by branch, sorted by branch
// name. It is recomputed on every call rather than cached on the struct.
func (a BookAvailability) BranchSummaries() []BranchSummary {
	buckets := make(map[string][]CopyInfo)
	var order []string
	for _, c := range a.Copies {
		if _, seen := buckets[c.Location]; !seen {
			order = append(order, c.Location)
		}
		buckets[c.Location] = append(buckets[c.Location], c)
	}

	summaries := make([]BranchSummary, 0, len(order))
	for _, library := range order {
		copies := buckets[library]
		available := 0
		for _, c := range copies {
			if c.IsAvailable() {
				available++
			}
		}
		summaries = append(summaries, BranchSummary{
			Library:   library,
			Available: available,
			Total:     len(copies),
			Copies:    copies,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Library < summaries[j].Library
	})
	return summaries
}

// TotalAvailable counts the available copies across every branch.
func (a BookAvailability) TotalAvailable() int {
	n := 0
	for _, c := range a.Copies {
		if c.IsAvailable() {
			n++
		}
	}
	return n
}

// AnyAvailable reports whether at least one copy is available anywhere.
func (a BookAvailability) AnyAvailable() bool {
	return a.TotalAvailable() > 0
}
