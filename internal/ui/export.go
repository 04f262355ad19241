package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/oboboa/nlb-api/internal/models"
)

// ExportResultsToMarkdown writes the current results to a markdown file
// and returns the generated filename.
func ExportResultsToMarkdown(results []models.BookAvailability) (string, error) {
	timestamp := time.Now().Format("2006-01-02")
	filename := fmt.Sprintf("nlbshelf-%s.md", timestamp)

	available := 0
	for _, r := range results {
		if r.AnyAvailable() {
			available++
		}
	}

	var sb strings.Builder
	sb.WriteString("# NLB Library Availability\n\n")
	sb.WriteString(fmt.Sprintf("**%d/%d titles have copies available right now**\n", available, len(results)))
	sb.WriteString(fmt.Sprintf("**Generated:** %s\n\n", time.Now().Format("2006-01-02 15:04:05")))

	for _, r := range results {
		icon := "❌"
		if r.AnyAvailable() {
			icon = "✅"
		}
		sb.WriteString(fmt.Sprintf("## %s %s — *%s*\n\n", icon, r.Query.Title, r.Query.Author))

		if r.Err != "" {
			sb.WriteString(fmt.Sprintf("> %s\n\n", r.Err))
			continue
		}

		summaries := r.BranchSummaries()
		if len(summaries) == 0 {
			sb.WriteString("No copy records returned.\n\n")
			continue
		}

		sb.WriteString(fmt.Sprintf("%d / %d copies available across %d branch(es)\n\n",
			r.TotalAvailable(), len(r.Copies), len(summaries)))

		sb.WriteString("| Branch | Available | Total |\n")
		sb.WriteString("|--------|-----------|-------|\n")
		for _, s := range summaries {
			sb.WriteString(fmt.Sprintf("| %s | %d | %d |\n", s.Library, s.Available, s.Total))
		}
		sb.WriteString("\n")

		if len(r.BRNs) > 0 {
			links := make([]string, 0, len(r.BRNs))
			for _, brn := range r.BRNs {
				links = append(links, fmt.Sprintf(
					"[%d](https://catalogue.nlb.gov.sg/cgi-bin/spydus.exe/ENQ/EXPNOS/BIBENQ?BRN=%d)", brn, brn))
			}
			sb.WriteString(fmt.Sprintf("BRN(s): %s\n\n", strings.Join(links, ", ")))
		}
	}

	if err := os.WriteFile(filename, []byte(sb.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write markdown file: %w", err)
	}
	return filename, nil
}
