package domain

import "time"

// Span is a merged, contiguous block of same-kind, same-label activity.
type Span struct {
	Start     time.Time
	End       time.Time
	Kind      SourceKind
	Label     string
	Intervals []NormalizedInterval
}

// Seconds is the sum of constituent interval lengths. Merge gaps are not
// counted as activity.
func (s Span) Seconds() int64 {
	var total int64
	for _, iv := range s.Intervals {
		total += iv.Seconds()
	}
	return total
}

// Titles returns the distinct interval titles in first-seen order.
func (s Span) Titles() []string {
	seen := make(map[string]bool, len(s.Intervals))
	var out []string
	for _, iv := range s.Intervals {
		if iv.Title == "" || seen[iv.Title] {
			continue
		}
		seen[iv.Title] = true
		out = append(out, iv.Title)
	}
	return out
}

// Tracks holds spans grouped by source kind, each slice sorted by start.
type Tracks map[SourceKind][]Span

// Break is an idle interval long enough to split the day into sessions.
type Break struct {
	Start   time.Time
	End     time.Time
	Seconds int64
}

// SessionWindow is a maximal working range bounded by breaks or day edges.
type SessionWindow struct {
	Start time.Time
	End   time.Time
}

// Seconds returns the session length in whole seconds.
func (w SessionWindow) Seconds() int64 {
	return int64(w.End.Sub(w.Start) / time.Second)
}

// Overlap returns the whole seconds [start, end) shares with the session.
func (w SessionWindow) Overlap(start, end time.Time) int64 {
	if start.Before(w.Start) {
		start = w.Start
	}
	if end.After(w.End) {
		end = w.End
	}
	if !end.After(start) {
		return 0
	}
	return int64(end.Sub(start) / time.Second)
}
