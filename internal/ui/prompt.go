package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/oboboa/nlb-api/internal/goodreads"
	"github.com/oboboa/nlb-api/internal/models"
)

// sanitizeInput removes null bytes and other invisible control characters from input
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r == 0 || (r < 32 && r != '\t' && r != '\n' && r != '\r') {
			return -1
		}
		return r
	}, s)
}

// PromptForTitle asks the user for a title and author to add to the
// watch list. The media code is optional.
func PromptForTitle() (models.BookQuery, error) {
	var title, author, mediaCode string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Description("Full or partial title (case-insensitive substring match)").
				Placeholder("Project Hail Mary").
				Value(&title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Author").
				Description(`Any order: "Andy Weir" and "Weir, Andy" both work`).
				Placeholder("Andy Weir").
				Value(&author).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("author cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Format").
				Options(
					huh.NewOption("Any physical item", ""),
					huh.NewOption("Print books", "bks"),
					huh.NewOption("DVDs", "dvd"),
					huh.NewOption("Audiobooks / CDs", "aud"),
				).
				Value(&mediaCode),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		return models.BookQuery{}, fmt.Errorf("prompt cancelled: %w", err)
	}

	q := models.NewBookQuery(
		strings.TrimSpace(sanitizeInput(title)),
		strings.TrimSpace(sanitizeInput(author)),
	)
	q.MediaCode = mediaCode
	return q, nil
}

// PromptForShelves asks which Goodreads shelves to import. The options
// come from the export itself; known shelves get friendly labels.
func PromptForShelves(found []string) ([]string, error) {
	options := make([]huh.Option[string], 0, len(found))
	for _, shelf := range found {
		label := shelf
		if friendly, ok := goodreads.ShelfLabels[shelf]; ok {
			label = friendly
		}
		opt := huh.NewOption(label, shelf)
		if shelf == "to-read" {
			opt = opt.Selected(true)
		}
		options = append(options, opt)
	}

	var selected []string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Shelves to include").
				Options(options...).
				Value(&selected),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("prompt cancelled: %w", err)
	}
	return selected, nil
}

// ConfirmFetch asks the user to confirm a batch fetch. Each title costs
// roughly two API calls against a ~15/min budget, so large batches take
// a while; the estimate makes that visible up front.
func ConfirmFetch(titleCount int, estimatedMinutes float64) (bool, error) {
	description := "Each title needs ~2 rate-limited API calls"
	if estimatedMinutes >= 1 {
		description = fmt.Sprintf("Each title needs ~2 rate-limited API calls (est. ~%.0f min)", estimatedMinutes)
	}

	var confirm bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Check availability for %d title(s)?", titleCount)).
				Description(description).
				Affirmative("Yes, check now").
				Negative("Cancel").
				Value(&confirm),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		return false, err
	}
	return confirm, nil
}
