package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// dateLayouts are tried in order; day-first forms follow the European
// convention of the tool's users.
var dateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"02/01/2006",
	"02-01-2006",
}

// parseDate reads a calendar date. The result is midnight UTC of that date;
// only its year, month and day are meaningful.
func parseDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "today":
		return civil(now), nil
	case "yesterday":
		return civil(now.AddDate(0, 0, -1)), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q (use YYYY-MM-DD, DD.MM.YYYY, DD/MM/YYYY, today or yesterday)", s)
}

func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dateValue is a pflag.Value accepting any format parseDate understands.
type dateValue struct {
	t   *time.Time
	now func() time.Time
}

var _ pflag.Value = (*dateValue)(nil)

func newDateValue(t *time.Time, now func() time.Time) *dateValue {
	return &dateValue{t: t, now: now}
}

func (v *dateValue) Set(s string) error {
	t, err := parseDate(s, v.now())
	if err != nil {
		return err
	}
	*v.t = t
	return nil
}

func (v *dateValue) String() string {
	if v.t == nil || v.t.IsZero() {
		return ""
	}
	return v.t.Format(time.DateOnly)
}

func (v *dateValue) Type() string { return "date" }
