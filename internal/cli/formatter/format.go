package formatter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
)

// Format selects how summaries are rendered.
type Format string

const (
	FormatTable    Format = "table"
	FormatDigest   Format = "digest"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// Formats lists the accepted --format values.
var Formats = []Format{FormatTable, FormatDigest, FormatMarkdown, FormatJSON}

// ParseFormat accepts a format name or one of its short aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "table", "human", "text":
		return FormatTable, nil
	case "digest", "ai":
		return FormatDigest, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown format %q (want table, digest, markdown or json)", s)
}

// DefaultMinRowSeconds hides table rows shorter than a minute.
const DefaultMinRowSeconds = 60

// Options tunes rendering.
type Options struct {
	// Location is used for clock times. Defaults to time.Local.
	Location *time.Location
	// Now anchors relative day names. Defaults to time.Now().
	Now time.Time
	// MinRowSeconds hides raw table rows below this duration.
	MinRowSeconds int64
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.MinRowSeconds <= 0 {
		o.MinRowSeconds = DefaultMinRowSeconds
	}
	return o
}

// Render writes days to w in the requested format.
func Render(w io.Writer, f Format, days []*domain.WorklogSummary, opts Options) error {
	opts = opts.withDefaults()
	switch f {
	case FormatTable, "":
		_, err := io.WriteString(w, RenderSummaries(days, opts))
		return err
	case FormatDigest:
		_, err := io.WriteString(w, RenderDigest(days, opts))
		return err
	case FormatMarkdown:
		return WriteMarkdown(w, days, opts)
	case FormatJSON:
		return WriteJSON(w, days)
	}
	return fmt.Errorf("unknown format %q", f)
}

// above keeps rows of at least minSecs seconds, at most limit of them when limit > 0.
func above(rows []domain.TimeRow, minSecs int64, limit int) []domain.TimeRow {
	var out []domain.TimeRow
	for _, r := range rows {
		if r.Seconds < minSecs {
			continue
		}
		out = append(out, r)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// workWindow returns the first session start and last session end.
func workWindow(s *domain.WorklogSummary, loc *time.Location) (string, bool) {
	if len(s.Sessions) == 0 {
		return "", false
	}
	first := s.Sessions[0].Start
	last := s.Sessions[len(s.Sessions)-1].End
	return FormatClock(first, loc) + " - " + FormatClock(last, loc), true
}

// entryKey is the ticket-or-client column of an entry.
func entryKey(e domain.ClassifiedEntry) string {
	if e.TicketID != "" {
		return e.TicketID
	}
	return e.Client
}
