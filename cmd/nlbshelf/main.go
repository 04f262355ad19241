package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	huhspinner "github.com/charmbracelet/huh/spinner"
	"github.com/joho/godotenv"

	"github.com/oboboa/nlb-api/internal/api"
	"github.com/oboboa/nlb-api/internal/config"
	"github.com/oboboa/nlb-api/internal/db"
	"github.com/oboboa/nlb-api/internal/fetch"
	"github.com/oboboa/nlb-api/internal/goodreads"
	"github.com/oboboa/nlb-api/internal/models"
	"github.com/oboboa/nlb-api/internal/titles"
	"github.com/oboboa/nlb-api/internal/ui"
)

// Batches below this size run without a confirmation prompt.
const confirmThreshold = 10

func main() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	configFlag := flag.String("config", "", "Path to config file (default ~/.config/nlbshelf/config.toml)")
	dbFlag := flag.String("db", "", "Path to SQLite database file (overrides config)")
	csvFlag := flag.String("csv", "", "Goodreads CSV export to import titles from")
	shelvesFlag := flag.String("shelves", "", "Comma-separated Goodreads shelves to import (skips the shelf prompt)")
	titleFlag := flag.String("title", "", "Check a single title (requires -author)")
	authorFlag := flag.String("author", "", "Author for -title")
	defaultsFlag := flag.Bool("defaults", false, "Include the built-in title list even when importing a CSV")
	plainFlag := flag.Bool("plain", false, "Run one batch without the interactive UI and print the results")
	exportFlag := flag.Bool("export", false, "In plain mode, also write a markdown report")
	noCacheFlag := flag.Bool("no-cache", false, "In plain mode, ignore cached results")
	flag.Parse()

	apiKey := os.Getenv("NLB_API_KEY")
	appCode := os.Getenv("NLB_APP_CODE")
	if apiKey == "" || appCode == "" {
		ui.PrintError("Missing credentials. Set NLB_API_KEY and NLB_APP_CODE in your .env file or environment.")
		os.Exit(1)
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		ui.PrintError(fmt.Sprintf("Failed to load config: %v", err))
		os.Exit(1)
	}

	dbPath := cfg.DatabasePath
	if *dbFlag != "" {
		dbPath = *dbFlag
	}

	database, err := db.New(dbPath)
	if err != nil {
		ui.PrintError(fmt.Sprintf("Failed to initialize database: %v", err))
		os.Exit(1)
	}
	defer database.Close()

	client := api.NewClientWithLogging(api.Config{
		APIKey:       apiKey,
		AppCode:      appCode,
		RequestDelay: cfg.RequestDelay,
		RetryWait:    cfg.RetryWait,
		MaxRetries:   cfg.MaxRetries,
		Timeout:      cfg.Timeout,
	}, dbPath)

	imported, err := importFromCSV(*csvFlag, *shelvesFlag, *plainFlag)
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}

	if *plainFlag {
		queries := assembleQueries(imported, database, *csvFlag, *defaultsFlag, *titleFlag, *authorFlag, cfg.ExcludeSources)
		if len(queries) == 0 {
			ui.PrintError("No titles to check. Add some with -title/-author or -csv.")
			os.Exit(1)
		}
		runPlain(queries, client, database, cfg, *noCacheFlag, *exportFlag)
		return
	}

	ui.ShowSplash()

	// Main application loop - the add-title form runs between TUI
	// sessions, so each action returns here.
	for {
		queries := assembleQueries(imported, database, *csvFlag, *defaultsFlag, *titleFlag, *authorFlag, cfg.ExcludeSources)

		var cached map[models.QueryKey]models.BookAvailability
		if err := ui.RunWithSpinner("Loading cached results...", func() {
			cached = loadCachedResults(database, queries, cfg)
		}); err != nil {
			cached = loadCachedResults(database, queries, cfg)
		}

		result, err := ui.RunShelfTUI(queries, cached, database, client, cfg.CacheTTL)
		if err != nil {
			ui.PrintError(fmt.Sprintf("Interactive mode failed: %v", err))
			os.Exit(1)
		}

		switch result.Action {
		case ui.ActionAddTitle:
			q, err := ui.PromptForTitle()
			if err != nil {
				continue // form cancelled
			}
			if err := database.SaveTitle(q); err != nil {
				ui.PrintError(fmt.Sprintf("Failed to save title: %v", err))
				continue
			}
			ui.PrintSuccess(fmt.Sprintf("Added %s", q))

		case ui.ActionClearSaved:
			if err := database.ClearTitles(); err != nil {
				ui.PrintError(fmt.Sprintf("Failed to clear titles: %v", err))
				continue
			}
			ui.PrintSuccess("Cleared manually added titles")

		default:
			return
		}
	}
}

// importFromCSV parses a Goodreads export when one is given. The shelf
// list comes from the -shelves flag or, interactively, from a prompt
// populated with the shelves present in the file.
func importFromCSV(path, shelvesFlag string, plain bool) ([]models.BookQuery, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %v", err)
	}

	var shelves []string
	if shelvesFlag != "" {
		for _, s := range strings.Split(shelvesFlag, ",") {
			if s = strings.TrimSpace(s); s != "" {
				shelves = append(shelves, s)
			}
		}
	} else if !plain {
		found, err := goodreads.AvailableShelves(strings.NewReader(string(data)))
		if err != nil {
			return nil, err
		}
		if len(found) > 0 {
			shelves, err = ui.PromptForShelves(found)
			if err != nil {
				return nil, err
			}
		}
	}

	var queries []models.BookQuery
	var parseErr error
	spinErr := huhspinner.New().
		Title("Parsing Goodreads export...").
		Action(func() {
			queries, parseErr = goodreads.ParseCSV(strings.NewReader(string(data)), shelves)
		}).
		Run()
	if spinErr != nil {
		return nil, spinErr
	}
	if parseErr != nil {
		return nil, parseErr
	}

	ui.PrintSuccess(fmt.Sprintf("%d book(s) loaded from Goodreads", len(queries)))
	return queries, nil
}

// assembleQueries merges every title source in priority order: one-off
// flag, CSV import, saved titles, then the built-in list. Duplicates on
// the case-insensitive (title, author) pair are dropped.
func assembleQueries(
	imported []models.BookQuery,
	database *db.DB,
	csvPath string,
	forceDefaults bool,
	oneOffTitle, oneOffAuthor string,
	extraExclusions []string,
) []models.BookQuery {
	var sources [][]models.BookQuery

	if oneOffTitle != "" && oneOffAuthor != "" {
		sources = append(sources, []models.BookQuery{models.NewBookQuery(oneOffTitle, oneOffAuthor)})
	}

	sources = append(sources, imported)

	if saved, err := database.GetSavedTitles(); err == nil {
		sources = append(sources, saved)
	}

	if csvPath == "" || forceDefaults {
		sources = append(sources, titles.Default())
	}

	var queries []models.BookQuery
	seen := make(map[models.QueryKey]bool)
	for _, source := range sources {
		for _, q := range source {
			if seen[q.Key()] {
				continue
			}
			seen[q.Key()] = true
			q.ExcludeSources = append(q.ExcludeSources, extraExclusions...)
			queries = append(queries, q)
		}
	}
	return queries
}

// loadCachedResults pre-populates the TUI with any still-fresh results.
func loadCachedResults(database *db.DB, queries []models.BookQuery, cfg config.Config) map[models.QueryKey]models.BookAvailability {
	cached := make(map[models.QueryKey]models.BookAvailability)
	for _, q := range queries {
		if hit, ok, _ := database.GetCachedResult(q.Key(), cfg.CacheTTL); ok {
			cached[q.Key()] = *hit
		}
	}
	return cached
}

// runPlain checks every query once and prints a text summary.
func runPlain(
	queries []models.BookQuery,
	client *api.Client,
	database *db.DB,
	cfg config.Config,
	noCache, export bool,
) {
	cached := make(map[models.QueryKey]models.BookAvailability)
	uncached := 0
	for _, q := range queries {
		if noCache {
			uncached++
			continue
		}
		if hit, ok, _ := database.GetCachedResult(q.Key(), cfg.CacheTTL); ok {
			cached[q.Key()] = *hit
		} else {
			uncached++
		}
	}

	// Large batches take minutes because of the per-call pacing, so give
	// the user a chance to back out. A failed prompt (no terminal, piped
	// output) falls through to just running the batch.
	if uncached >= confirmThreshold {
		estMinutes := float64(2*uncached) * cfg.RequestDelay.Seconds() / 60
		if ok, err := ui.ConfirmFetch(uncached, estMinutes); err == nil && !ok {
			ui.PrintProgress("Cancelled.")
			return
		}
	}

	results := make([]models.BookAvailability, 0, len(queries))
	for _, q := range queries {
		if hit, ok := cached[q.Key()]; ok {
			ui.PrintProgress(fmt.Sprintf("Using cached result for %s", q))
			results = append(results, hit)
			continue
		}

		res := fetch.One(q, client, ui.PrintProgress)
		database.SaveResult(res)
		results = append(results, res)
	}

	printResults(results)

	if export {
		filename, err := ui.ExportResultsToMarkdown(results)
		if err != nil {
			ui.PrintError(fmt.Sprintf("Export failed: %v", err))
			os.Exit(1)
		}
		ui.PrintSuccess(fmt.Sprintf("Exported to %s", filename))
	}
}

func printResults(results []models.BookAvailability) {
	available := 0
	for _, r := range results {
		if r.AnyAvailable() {
			available++
		}
	}

	fmt.Println()
	fmt.Printf("%d/%d titles have copies available right now\n\n", available, len(results))

	for _, r := range results {
		icon := "✗"
		if r.AnyAvailable() {
			icon = "✓"
		}
		fmt.Printf("%s %s — %s\n", icon, r.Query.Title, r.Query.Author)

		if r.Err != "" {
			fmt.Printf("    %s\n", r.Err)
			continue
		}

		for _, s := range r.BranchSummaries() {
			if s.Available == 0 {
				continue
			}
			fmt.Printf("    %s — %s\n", s.Library, s.Label())
		}
	}
}
