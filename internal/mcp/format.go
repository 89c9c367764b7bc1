package mcp

import (
	"fmt"
	"strings"
	"time"

	"github.com/Aman-CERP/shelfsearch/internal/store"
)

// FormatSearchResults renders a search_catalog response as markdown.
func FormatSearchResults(out SearchOutput) string {
	if len(out.Results) == 0 {
		msg := fmt.Sprintf("No results found for \"%s\"", out.Query)
		if out.Note != "" {
			msg += "\n\n_" + out.Note + "_"
		}
		return msg
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Search Results for \"%s\"\n\n", out.Query))
	sb.WriteString(fmt.Sprintf("Found %d result", len(out.Results)))
	if len(out.Results) != 1 {
		sb.WriteString("s")
	}
	sb.WriteString(fmt.Sprintf(" (%s)\n\n", out.Tier))

	for i, r := range out.Results {
		formatRecord(&sb, i+1, r)
	}
	return sb.String()
}

func formatRecord(sb *strings.Builder, n int, r RecordOutput) {
	sb.WriteString(fmt.Sprintf("### %d. %s\n", n, r.Name))
	sb.WriteString(fmt.Sprintf("- **Kind:** %s\n", r.Kind))
	if r.Author != "" {
		sb.WriteString(fmt.Sprintf("- **Author:** %s\n", r.Author))
	}
	if r.Publisher != "" {
		sb.WriteString(fmt.Sprintf("- **Publisher:** %s\n", r.Publisher))
	}
	if r.Notes != "" {
		sb.WriteString(fmt.Sprintf("- **Notes:** %s\n", r.Notes))
	}
	sb.WriteString(fmt.Sprintf("- **ID:** `%s`\n\n", r.ID))
}

// FormatSuggestions renders a suggest_queries response as a markdown list.
func FormatSuggestions(partial string, suggestions []string) string {
	if len(suggestions) == 0 {
		return fmt.Sprintf("No suggestions for \"%s\"", partial)
	}
	var sb strings.Builder
	for _, s := range suggestions {
		sb.WriteString("- ")
		sb.WriteString(s)
		sb.WriteString("\n")
	}
	return sb.String()
}

// ToRecordOutput converts a catalog record to its tool output form.
func ToRecordOutput(r store.Record) RecordOutput {
	out := RecordOutput{
		ID:        r.ID,
		Kind:      string(r.Kind),
		Name:      r.Name,
		Author:    r.Author.OrEmpty(),
		Publisher: r.Publisher.OrEmpty(),
		Notes:     r.Notes.OrEmpty(),
	}
	if !r.UpdatedAt.IsZero() {
		out.UpdatedAt = r.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return out
}

// clampLimit returns defaultVal for non-positive limits, else limit bounded to [min, max].
func clampLimit(limit, defaultVal, min, max int) int {
	if limit <= 0 {
		return defaultVal
	}
	if limit < min {
		return min
	}
	if limit > max {
		return max
	}
	return limit
}
