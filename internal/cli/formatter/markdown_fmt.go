package formatter

import (
	"fmt"
	"io"

	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// WriteMarkdown writes each day as markdown tables suitable for pasting into
// a timesheet or ticket comment.
func WriteMarkdown(w io.Writer, days []*domain.WorklogSummary, opts Options) error {
	opts = opts.withDefaults()
	for i, s := range days {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := writeMarkdownDay(w, s, opts); err != nil {
			return err
		}
	}
	return nil
}

func writeMarkdownDay(w io.Writer, s *domain.WorklogSummary, opts Options) error {
	if _, err := fmt.Fprintf(w, "## Worklog %s\n\n", s.Date); err != nil {
		return err
	}
	if s.IsEmpty() {
		_, err := fmt.Fprintln(w, "_No activity recorded._")
		return err
	}

	window, _ := workWindow(s, opts.Location)
	if _, err := fmt.Fprintf(w, "Active %s, work %s. Window %s.\n\n",
		FormatDuration(s.ActiveSeconds), FormatDuration(s.WorkSeconds()), window); err != nil {
		return err
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	tw.AppendHeader(table.Row{"Category", "Ticket", "Client", "Description", "Time", "Hours"})
	for _, e := range s.Entries {
		tw.AppendRow(table.Row{
			e.Category.Label(),
			e.TicketID,
			e.Client,
			e.Description,
			FormatSeconds(e.Seconds),
			FormatHours(e.Seconds),
		})
	}
	tw.AppendFooter(table.Row{"Total work", "", "", "", FormatSeconds(s.WorkSeconds()), FormatHours(s.WorkSeconds())})
	tw.RenderMarkdown()

	apps := above(s.AppTime, opts.MinRowSeconds, 12)
	if len(apps) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	at := table.NewWriter()
	at.SetOutputMirror(w)
	at.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	at.AppendHeader(table.Row{"App", "Time"})
	for _, r := range apps {
		at.AppendRow(table.Row{r.Label, FormatSeconds(r.Seconds)})
	}
	at.RenderMarkdown()
	return nil
}
