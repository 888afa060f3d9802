package formatter

import (
	"encoding/json"
	"io"

	"github.com/alexanderramin/worklog/internal/domain"
)

// WriteJSON writes the summaries as an indented JSON array, one element per
// day, so single-day and range output share a shape.
func WriteJSON(w io.Writer, days []*domain.WorklogSummary) error {
	if days == nil {
		days = []*domain.WorklogSummary{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(days)
}
