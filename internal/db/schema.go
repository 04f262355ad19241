package db

// Cached availability results, keyed by the lowercased (title, author)
// pair. The payload is the serialized BookAvailability.
const createResultsTable = `
CREATE TABLE IF NOT EXISTS availability_results (
    title_key TEXT NOT NULL,
    author_key TEXT NOT NULL,
    payload TEXT NOT NULL,
    fetched_at TEXT NOT NULL,
    PRIMARY KEY (title_key, author_key)
);
`

const insertResult = `
INSERT OR REPLACE INTO availability_results (title_key, author_key, payload, fetched_at)
VALUES (?, ?, ?, ?)
`

const selectResult = `
SELECT payload, fetched_at FROM availability_results
WHERE title_key = ? AND author_key = ?
`

const deleteResults = `
DELETE FROM availability_results
`

// Titles the user added by hand, persisted across sessions.
const createSavedTitlesTable = `
CREATE TABLE IF NOT EXISTS saved_titles (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    author TEXT NOT NULL,
    media_code TEXT NOT NULL DEFAULT '',
    added_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(title, author)
);
`

const insertSavedTitle = `
INSERT OR IGNORE INTO saved_titles (title, author, media_code)
VALUES (?, ?, ?)
`

const selectSavedTitles = `
SELECT title, author, media_code FROM saved_titles
ORDER BY id ASC
`

const deleteSavedTitle = `
DELETE FROM saved_titles WHERE title = ? AND author = ?
`

const deleteSavedTitles = `
DELETE FROM saved_titles
`
