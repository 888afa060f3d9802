package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/worklog/internal/domain"
)

const shareBarWidth = 12

// RenderSummaries renders the human-readable report for each day.
func RenderSummaries(days []*domain.WorklogSummary, opts Options) string {
	opts = opts.withDefaults()
	parts := make([]string, 0, len(days))
	for _, s := range days {
		parts = append(parts, RenderSummary(s, opts))
	}
	if len(days) > 1 {
		parts = append(parts, renderRangeTotal(days))
	}
	return strings.Join(parts, "\n")
}

// RenderSummary renders one day: worklog entries first, then the raw
// detection tables used to verify them.
func RenderSummary(s *domain.WorklogSummary, opts Options) string {
	opts = opts.withDefaults()
	var b strings.Builder

	title := fmt.Sprintf("Worklog Summary - %s", s.Date)
	if day := HumanDay(s.Date, opts.Now); day != s.Date {
		title += "  " + Dim(day)
	}
	b.WriteString(Bold(title) + "\n\n")

	if s.IsEmpty() {
		b.WriteString(Dim("No activity recorded.") + "\n")
		return b.String()
	}

	stats := []string{
		"Active " + Bold(FormatSeconds(s.ActiveSeconds)),
		"Work " + Bold(FormatSeconds(s.WorkSeconds())),
	}
	if s.IdleSeconds > 0 {
		stats = append(stats, "Idle "+FormatSeconds(s.IdleSeconds))
	}
	if window, ok := workWindow(s, opts.Location); ok {
		stats = append(stats, "Window "+window)
	}
	b.WriteString(strings.Join(stats, Dim(" · ")) + "\n\n")

	b.WriteString(renderEntries(s))
	writeSection(&b, "Application Time", rowTable(above(s.AppTime, opts.MinRowSeconds, 12), "APP", ""))
	writeSection(&b, "JIRA Tickets", rowTable(above(s.TicketTime, opts.MinRowSeconds, 0), "TICKET", "DESCRIPTION"))
	writeSection(&b, "Top Activities By App", renderTitleDetails(s, opts))
	writeSection(&b, "Files", rowTable(cleanRows(above(s.FileTime, opts.MinRowSeconds, 10), 70), "FILE", "PROJECT"))
	writeSection(&b, "Git Branches", rowTable(cleanRows(above(s.BranchTime, opts.MinRowSeconds, 0), 60), "BRANCH", ""))
	writeSection(&b, "Web Domains", rowTable(above(s.DomainTime, opts.MinRowSeconds, 10), "DOMAIN", "CONTEXT"))
	writeSection(&b, "MS Teams", rowTable(cleanRows(above(s.Conversations, opts.MinRowSeconds, 0), 50), "CONVERSATION", "CLIENT"))
	writeSection(&b, "Likely Personal", rowTable(cleanRows(above(s.PersonalFlags, opts.MinRowSeconds, 5), 50), "TITLE", "KEYWORD"))
	writeSection(&b, "Active Periods", renderPeriods(s, opts))

	if n := s.Skipped.Total(); n > 0 {
		fmt.Fprintf(&b, "\n%s\n", Dim(fmt.Sprintf("%d events skipped (%d zero-length, %d malformed, %d outside the day)",
			n, s.Skipped.ZeroDuration, s.Skipped.Malformed, s.Skipped.OutOfRange)))
	}
	return b.String()
}

func writeSection(b *strings.Builder, title, body string) {
	if body == "" {
		return
	}
	b.WriteString("\n" + Header(title) + "\n")
	b.WriteString(body)
}

func renderEntries(s *domain.WorklogSummary) string {
	if len(s.Entries) == 0 {
		return ""
	}
	total := s.EntrySeconds()
	rows := make([][]string, 0, len(s.Entries))
	for _, e := range s.Entries {
		share := 0.0
		if total > 0 {
			share = float64(e.Seconds) / float64(total)
		}
		client := e.Client
		if e.TicketID == "" {
			client = ""
		}
		rows = append(rows, []string{
			CategoryBadge(e.Category),
			entryKey(e),
			client,
			Truncate(CleanText(e.Description), 40),
			FormatSeconds(e.Seconds),
			RenderShareBar(share, shareBarWidth, CategoryColor(e.Category)),
		})
	}
	aligns := []Align{AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignLeft}
	return Header("Worklog") + "\n" +
		RenderAlignedTable([]string{"CATEGORY", "TICKET/CLIENT", "CLIENT", "DESCRIPTION", "TIME", "SHARE"}, aligns, rows)
}

// rowTable renders time rows as TIME | label | hint. An empty hintHeader
// drops the hint column.
func rowTable(rows []domain.TimeRow, labelHeader, hintHeader string) string {
	if len(rows) == 0 {
		return ""
	}
	headers := []string{"TIME", labelHeader}
	if hintHeader != "" {
		headers = append(headers, hintHeader)
	}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		row := []string{FormatSeconds(r.Seconds), r.Label}
		if hintHeader != "" {
			row = append(row, Dim(r.Hint))
		}
		out = append(out, row)
	}
	return RenderAlignedTable(headers, []Align{AlignRight}, out)
}

func cleanRows(rows []domain.TimeRow, width int) []domain.TimeRow {
	out := make([]domain.TimeRow, len(rows))
	for i, r := range rows {
		r.Label = Truncate(CleanText(r.Label), width)
		out[i] = r
	}
	return out
}

func renderTitleDetails(s *domain.WorklogSummary, opts Options) string {
	var b strings.Builder
	for i, g := range s.TitleDetails {
		if i == 6 {
			break
		}
		titles := above(g.Titles, opts.MinRowSeconds, 3)
		if len(titles) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s %s\n", Bold(g.App), Dim("("+FormatSeconds(g.Seconds)+")"))
		for _, t := range titles {
			fmt.Fprintf(&b, "  %6s  %s\n", FormatSeconds(t.Seconds), Truncate(CleanText(t.Label), 70))
		}
	}
	return b.String()
}

func renderPeriods(s *domain.WorklogSummary, opts Options) string {
	if len(s.Sessions) == 0 {
		return ""
	}
	var b strings.Builder
	for i, w := range s.Sessions {
		fmt.Fprintf(&b, "  %s - %s  %s\n",
			FormatClock(w.Start, opts.Location), FormatClock(w.End, opts.Location),
			Dim(FormatSeconds(w.Seconds())))
		if i < len(s.Breaks) {
			br := s.Breaks[i]
			fmt.Fprintf(&b, "  %s\n", Dim(fmt.Sprintf("break %s - %s (%s)",
				FormatClock(br.Start, opts.Location), FormatClock(br.End, opts.Location), FormatSeconds(br.Seconds))))
		}
	}
	return b.String()
}

func renderRangeTotal(days []*domain.WorklogSummary) string {
	totals := make(map[domain.Category]int64)
	var active int64
	for _, s := range days {
		active += s.ActiveSeconds
		for _, e := range s.Entries {
			totals[e.Category] += e.Seconds
		}
	}
	var rows [][]string
	for _, c := range domain.Categories {
		if secs := totals[c]; secs > 0 {
			rows = append(rows, []string{CategoryBadge(c), FormatSeconds(secs), FormatHours(secs)})
		}
	}
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("Total for %d days", len(days))) + "\n")
	fmt.Fprintf(&b, "Active %s\n\n", Bold(FormatSeconds(active)))
	if len(rows) > 0 {
		b.WriteString(RenderAlignedTable([]string{"CATEGORY", "TIME", "HOURS"}, []Align{AlignLeft, AlignRight, AlignRight}, rows))
	}
	return b.String()
}
