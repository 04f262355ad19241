package models

import (
	"fmt"
	"strings"
)

// DefaultExcludedSources lists catalogue sources skipped by default.
// OverDrive entries are digital loans, not physical copies.
var DefaultExcludedSources = []string{"overdrive"}

// BookQuery describes one title to look up in the catalogue.
//
// Author can be in any order ("Andy Weir" and "Weir, Andy" both match).
// MediaCode optionally restricts the format using an NLB material-type
// code, e.g. "bks" (print books), "dvd", "aud" (audiobooks).
type BookQuery struct {
	Title          string   `json:"title"`
	Author         string   `json:"author"`
	MediaCode      string   `json:"mediaCode,omitempty"`
	ExcludeSources []string `json:"excludeSources,omitempty"`
}

// NewBookQuery creates a query with the default source exclusions.
func NewBookQuery(title, author string) BookQuery {
	return BookQuery{
		Title:          title,
		Author:         author,
		ExcludeSources: DefaultExcludedSources,
	}
}

// QueryKey identifies a query for deduplication and caching.
type QueryKey struct {
	Title  string
	Author string
}

// Key returns the case-insensitive identity of this query.
func (q BookQuery) Key() QueryKey {
	return QueryKey{
		Title:  strings.ToLower(strings.TrimSpace(q.Title)),
		Author: strings.ToLower(strings.TrimSpace(q.Author)),
	}
}

// TitleMatches reports whether the query title is a case-insensitive
// substring of the candidate title. An empty query title matches anything.
func (q BookQuery) TitleMatches(candidateTitle string) bool {
	return strings.Contains(strings.ToLower(candidateTitle), strings.ToLower(q.Title))
}

// AuthorMatches reports whether any significant word (longer than 3
// characters) of the query author appears in the candidate author string.
// The loose match tolerates "Last, First" inversion and middle initials,
// at the cost of occasional false positives.
func (q BookQuery) AuthorMatches(candidateAuthor string) bool {
	candidate := strings.ToLower(candidateAuthor)
	for _, word := range strings.Fields(strings.ToLower(q.Author)) {
		if len(word) > 3 && strings.Contains(candidate, word) {
			return true
		}
	}
	return false
}

// SourceAllowed reports whether the candidate's source survives the
// query's exclusion list. Comparison is case-insensitive.
func (q BookQuery) SourceAllowed(candidateSource string) bool {
	source := strings.ToLower(candidateSource)
	for _, excluded := range q.ExcludeSources {
		if source == strings.ToLower(excluded) {
			return false
		}
	}
	return true
}

func (q BookQuery) String() string {
	if q.MediaCode != "" {
		return fmt.Sprintf("%q by %s [%s]", q.Title, q.Author, q.MediaCode)
	}
	return fmt.Sprintf("%q by %s", q.Title, q.Author)
}
