// Package fetch resolves BookQuery values to live copy-level availability.
//
// It is deliberately free of any UI concern so it can be driven from the
// TUI, a plain batch run, or a test equally. Queries are processed one at
// a time and BRNs within a query one at a time; the catalogue client's
// pacing assumes a single in-flight call.
package fetch

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/oboboa/nlb-api/internal/models"
)

// Catalogue is the slice of the API client the fetch layer depends on.
type Catalogue interface {
	SearchTitles(title, author, mediaCode string, limit int) ([]models.Candidate, error)
	GetAvailability(brn, limit int) ([]models.Item, error)
}

// StatusFunc receives human-readable progress messages as a fetch moves
// through its phases. It is purely an observer; passing nil changes
// nothing but the reporting.
type StatusFunc func(msg string)

// ErrNoMatch is the terminal error string recorded when a search
// succeeds but no candidate survives filtering.
const ErrNoMatch = "No matching physical BRNs found."

// One searches for a single query, filters the candidates, and collects
// copy-level availability for every matching BRN. Failures are recorded
// on the result rather than returned: a failed search or an empty match
// set terminates the query with an error string, while a failed
// per-BRN fetch is logged and skipped so the other BRNs still
// contribute.
func One(query models.BookQuery, cat Catalogue, onStatus StatusFunc) models.BookAvailability {
	emit := func(msg string) {
		if onStatus != nil {
			onStatus(msg)
		}
	}

	result := models.BookAvailability{Query: query}

	emit(fmt.Sprintf("Searching for %s ...", query))
	candidates, err := cat.SearchTitles(query.Title, query.Author, query.MediaCode, 0)
	if err != nil {
		result.Err = fmt.Sprintf("Search failed: %v", err)
		log.Error("Search failed", "query", query.String(), "error", err)
		return result
	}

	seen := make(map[int]struct{})
	for _, cand := range candidates {
		if cand.BRN == nil {
			continue
		}
		if !query.TitleMatches(strings.TrimSpace(cand.Title)) {
			continue
		}
		if !query.AuthorMatches(strings.TrimSpace(cand.Author)) {
			continue
		}
		if !query.SourceAllowed(strings.TrimSpace(cand.Source)) {
			continue
		}
		seen[*cand.BRN] = struct{}{}
	}

	result.BRNs = sortedBRNs(seen)

	if len(result.BRNs) == 0 {
		result.Err = ErrNoMatch
		emit(fmt.Sprintf("  no matching BRNs for %s", query))
		return result
	}
	emit(fmt.Sprintf("  found %d BRN(s): %v", len(result.BRNs), result.BRNs))

	for _, brn := range result.BRNs {
		emit(fmt.Sprintf("  fetching availability for BRN %d ...", brn))
		items, err := cat.GetAvailability(brn, 0)
		if err != nil {
			log.Error("Availability fetch failed", "brn", brn, "error", err)
			continue
		}
		for _, it := range items {
			result.Copies = append(result.Copies, it.ToCopy())
		}
	}

	emit(fmt.Sprintf("  retrieved %d copy record(s) for %s", len(result.Copies), query))
	return result
}

// All fetches availability for every query in order, one result per
// query. Rate limiting lives inside the catalogue client; this function
// just iterates.
func All(queries []models.BookQuery, cat Catalogue, onStatus StatusFunc) []models.BookAvailability {
	results := make([]models.BookAvailability, 0, len(queries))
	for _, q := range queries {
		results = append(results, One(q, cat, onStatus))
	}
	return results
}

func sortedBRNs(set map[int]struct{}) []int {
	if len(set) == 0 {
		return nil
	}
	brns := make([]int, 0, len(set))
	for brn := range set {
		brns = append(brns, brn)
	}
	sort.Ints(brns)
	return brns
}
