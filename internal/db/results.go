package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oboboa/nlb-api/internal/models"
)

// SaveResult stores one fetched availability result, replacing any
// earlier result for the same (title, author) pair.
func (db *DB) SaveResult(result models.BookAvailability) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to serialize result: %w", err)
	}

	key := result.Query.Key()
	_, err = db.conn.Exec(insertResult,
		key.Title, key.Author, string(payload),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	return nil
}

// GetCachedResult returns the stored result for a query key if one
// exists and is younger than ttl. A ttl of zero disables expiry.
func (db *DB) GetCachedResult(key models.QueryKey, ttl time.Duration) (*models.BookAvailability, bool, error) {
	var payload, fetchedAt string
	err := db.conn.QueryRow(selectResult, key.Title, key.Author).Scan(&payload, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query cached result: %w", err)
	}

	if ttl > 0 {
		when, err := time.Parse(time.RFC3339, fetchedAt)
		if err != nil || time.Since(when) > ttl {
			return nil, false, nil
		}
	}

	var result models.BookAvailability
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, false, fmt.Errorf("failed to deserialize cached result: %w", err)
	}
	return &result, true, nil
}

// ClearResults drops every cached result.
func (db *DB) ClearResults() error {
	if _, err := db.conn.Exec(deleteResults); err != nil {
		return fmt.Errorf("failed to clear results: %w", err)
	}
	return nil
}

// SaveTitle persists a manually added title.
func (db *DB) SaveTitle(q models.BookQuery) error {
	_, err := db.conn.Exec(insertSavedTitle, q.Title, q.Author, q.MediaCode)
	if err != nil {
		return fmt.Errorf("failed to save title: %w", err)
	}
	return nil
}

// GetSavedTitles returns every manually added title in insertion order.
func (db *DB) GetSavedTitles() ([]models.BookQuery, error) {
	rows, err := db.conn.Query(selectSavedTitles)
	if err != nil {
		return nil, fmt.Errorf("failed to query saved titles: %w", err)
	}
	defer rows.Close()

	var queries []models.BookQuery
	for rows.Next() {
		var title, author, mediaCode string
		if err := rows.Scan(&title, &author, &mediaCode); err != nil {
			return nil, fmt.Errorf("failed to scan saved title: %w", err)
		}
		q := models.NewBookQuery(title, author)
		q.MediaCode = mediaCode
		queries = append(queries, q)
	}
	return queries, rows.Err()
}

// RemoveTitle removes one manually added title.
func (db *DB) RemoveTitle(title, author string) error {
	if _, err := db.conn.Exec(deleteSavedTitle, title, author); err != nil {
		return fmt.Errorf("failed to remove title: %w", err)
	}
	return nil
}

// ClearTitles removes every manually added title.
func (db *DB) ClearTitles() error {
	if _, err := db.conn.Exec(deleteSavedTitles); err != nil {
		return fmt.Errorf("failed to clear titles: %w", err)
	}
	return nil
}
