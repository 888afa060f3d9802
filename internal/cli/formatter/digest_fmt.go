package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/worklog/internal/domain"
)

const digestFooter = "Categorize into worklog buckets. Check browser activity context - YouTube/t3.chat may be work-related research."

// RenderDigest renders the compact markdown digest meant to be pasted into an
// AI assistant for final categorization.
func RenderDigest(days []*domain.WorklogSummary, opts Options) string {
	opts = opts.withDefaults()
	parts := make([]string, 0, len(days))
	for _, s := range days {
		parts = append(parts, digestDay(s, opts))
	}
	return strings.Join(parts, "\n")
}

func digestDay(s *domain.WorklogSummary, opts Options) string {
	var b strings.Builder
	minSecs := opts.MinRowSeconds

	fmt.Fprintf(&b, "# ActivityWatch Data for %s\n", s.Date)
	fmt.Fprintf(&b, "**Total Active: %sh**\n", FormatHours(s.ActiveSeconds))
	if window, ok := workWindow(s, opts.Location); ok {
		fmt.Fprintf(&b, "**Window: %s**\n", window)
	}
	if len(s.ClientTime) > 0 {
		clients := make([]string, 0, len(s.ClientTime))
		for _, c := range s.ClientTime {
			clients = append(clients, fmt.Sprintf("%s (%s)", c.Label, FormatDuration(c.Seconds)))
		}
		fmt.Fprintf(&b, "**Clients: %s**\n", strings.Join(clients, ", "))
	}

	if s.IsEmpty() {
		b.WriteString("\nNo activity recorded.\n")
		return b.String()
	}

	if len(s.Entries) > 0 {
		b.WriteString("\n## Pre-classified\n")
		for _, e := range s.Entries {
			line := "- " + e.Category.Label()
			if key := entryKey(e); key != "" {
				line += " " + key
			}
			if e.TicketID != "" && e.Client != "" {
				line += " (" + e.Client + ")"
			}
			line += ": " + FormatDuration(e.Seconds)
			if e.Description != "" {
				line += " - " + e.Description
			}
			b.WriteString(line + "\n")
		}
	}

	b.WriteString("\n## Apps\n")
	for _, r := range above(s.AppTime, 2*minSecs, 10) {
		fmt.Fprintf(&b, "- %s: %s\n", r.Label, FormatDuration(r.Seconds))
	}

	if tickets := above(s.TicketTime, minSecs, 0); len(tickets) > 0 {
		b.WriteString("\n## JIRA Tickets\n")
		for _, r := range tickets {
			fmt.Fprintf(&b, "- %s: %s%s\n", r.Label, FormatDuration(r.Seconds), suffix(" - ", r.Hint, ""))
		}
	}

	var titles strings.Builder
	for i, g := range s.TitleDetails {
		if i == 8 {
			break
		}
		rows := above(g.Titles, minSecs, 4)
		if len(rows) == 0 || g.Seconds < 3*minSecs {
			continue
		}
		fmt.Fprintf(&titles, "\n**%s**\n", g.App)
		for _, r := range rows {
			fmt.Fprintf(&titles, "- [%s] %s\n", FormatDuration(r.Seconds), Truncate(r.Label, 80))
		}
	}
	if titles.Len() > 0 {
		b.WriteString("\n## Window Titles (context)\n")
		b.WriteString(titles.String())
	}

	if files := above(s.FileTime, minSecs, 12); len(files) > 0 {
		b.WriteString("\n## Files Edited\n")
		for _, r := range files {
			fmt.Fprintf(&b, "- %s: %s%s\n", CleanText(r.Label), FormatDuration(r.Seconds), suffix(" [", r.Hint, "]"))
		}
	}

	if branches := above(s.BranchTime, minSecs, 0); len(branches) > 0 {
		b.WriteString("\n## Git Branches\n")
		for _, r := range branches {
			fmt.Fprintf(&b, "- %s: %s\n", Truncate(r.Label, 70), FormatDuration(r.Seconds))
		}
	}

	if domains := above(s.DomainTime, minSecs, 10); len(domains) > 0 {
		b.WriteString("\n## Web Domains\n")
		for _, r := range domains {
			fmt.Fprintf(&b, "- %s: %s%s\n", r.Label, FormatDuration(r.Seconds), suffix(" [", r.Hint, "]"))
		}
	}

	if convos := above(s.Conversations, minSecs, 0); len(convos) > 0 {
		b.WriteString("\n## Teams\n")
		for _, r := range convos {
			fmt.Fprintf(&b, "- %s: %s\n", r.Label, FormatDuration(r.Seconds))
		}
	}

	if personal := above(s.PersonalFlags, minSecs, 5); len(personal) > 0 {
		b.WriteString("\n## Likely Personal (verify context)\n")
		for _, r := range personal {
			fmt.Fprintf(&b, "- [%s] %s\n", FormatDuration(r.Seconds), Truncate(r.Label, 50))
		}
	}

	b.WriteString("\n---\n")
	b.WriteString(digestFooter + "\n")
	return b.String()
}

func suffix(before, hint, after string) string {
	if hint == "" {
		return ""
	}
	return before + hint + after
}
