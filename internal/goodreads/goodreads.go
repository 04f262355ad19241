// Package goodreads turns a Goodreads library CSV export into BookQuery
// values. Export yours from goodreads.com -> Import and Export ->
// Export Library; the Author column arrives as "Last, First", which the
// author matcher handles.
package goodreads

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/oboboa/nlb-api/internal/models"
)

// ShelfLabels maps Goodreads exclusive-shelf names to display labels.
var ShelfLabels = map[string]string{
	"to-read":           "To Read",
	"currently-reading": "Currently Reading",
	"read":              "Read",
}

// DefaultShelves is used when the caller does not pick any shelf.
var DefaultShelves = []string{"to-read"}

// ParseCSV reads a Goodreads export and returns one query per book on
// the selected shelves, deduplicated on the case-insensitive
// (title, author) pair. Rows missing either field are skipped.
func ParseCSV(r io.Reader, shelves []string) ([]models.BookQuery, error) {
	if len(shelves) == 0 {
		shelves = DefaultShelves
	}
	wanted := make(map[string]bool, len(shelves))
	for _, s := range shelves {
		wanted[strings.ToLower(strings.TrimSpace(s))] = true
	}

	rows, header, err := readAll(r)
	if err != nil {
		return nil, err
	}

	titleCol := header["title"]
	authorCol := header["author"]
	shelfCol := header["exclusive shelf"]
	if titleCol < 0 || authorCol < 0 {
		return nil, fmt.Errorf("not a Goodreads export: missing Title/Author columns")
	}

	var queries []models.BookQuery
	seen := make(map[models.QueryKey]bool)

	for _, row := range rows {
		shelf := strings.ToLower(strings.TrimSpace(field(row, shelfCol)))
		if !wanted[shelf] {
			continue
		}

		title := strings.TrimSpace(field(row, titleCol))
		author := strings.TrimSpace(field(row, authorCol))
		if title == "" || author == "" {
			continue
		}

		q := models.NewBookQuery(title, author)
		if seen[q.Key()] {
			continue
		}
		seen[q.Key()] = true
		queries = append(queries, q)
	}

	return queries, nil
}

// AvailableShelves returns the distinct Exclusive Shelf values present
// in the export, sorted.
func AvailableShelves(r io.Reader) ([]string, error) {
	rows, header, err := readAll(r)
	if err != nil {
		return nil, err
	}

	shelfCol := header["exclusive shelf"]
	if shelfCol < 0 {
		return nil, nil
	}

	set := make(map[string]bool)
	for _, row := range rows {
		if shelf := strings.TrimSpace(field(row, shelfCol)); shelf != "" {
			set[shelf] = true
		}
	}

	shelves := make([]string, 0, len(set))
	for shelf := range set {
		shelves = append(shelves, shelf)
	}
	sort.Strings(shelves)
	return shelves, nil
}

// readAll parses the CSV and returns the data rows plus a lowercased
// header-name -> column-index map (missing columns map to -1).
func readAll(r io.Reader) ([][]string, map[string]int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Goodreads rows are not always uniform

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("empty CSV")
	}

	header := map[string]int{
		"title":           -1,
		"author":          -1,
		"exclusive shelf": -1,
	}
	for i, name := range records[0] {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}

	return records[1:], header, nil
}

func field(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}
