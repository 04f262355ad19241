// Package titles holds the built-in watch list checked when nothing is
// imported or saved.
package titles

import "github.com/oboboa/nlb-api/internal/models"

// Default returns the built-in list of titles to check. Edit this to
// change what a fresh install looks up.
func Default() []models.BookQuery {
	return []models.BookQuery{
		models.NewBookQuery("Project Hail Mary", "Andy Weir"),
		models.NewBookQuery("Remarkably Bright Creatures", "Shelby Van Pelt"),
		models.NewBookQuery("The Midnight Library", "Matt Haig"),
		models.NewBookQuery("Atomic Habits", "James Clear"),
	}
}
