package analyzer

import (
	"sort"
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
)

type timeRange struct {
	start, end time.Time
}

// DetectBreaks finds idle periods of at least threshold and returns the
// work sessions between them. Idle candidates are AFK spans with status
// "afk" and gaps in the union of the active tracks. Idle time before the
// first or after the last activity is not a break.
func DetectBreaks(tracks domain.Tracks, threshold time.Duration) ([]domain.SessionWindow, []domain.Break) {
	var active []timeRange
	for _, kind := range domain.ActiveKinds {
		for _, s := range tracks[kind] {
			active = append(active, timeRange{s.Start, s.End})
		}
	}
	active = unionRanges(active)
	if len(active) == 0 {
		return nil, nil
	}

	var idle []timeRange
	for i := 1; i < len(active); i++ {
		if active[i].start.Sub(active[i-1].end) >= threshold {
			idle = append(idle, timeRange{active[i-1].end, active[i].start})
		}
	}
	for _, s := range tracks[domain.SourceAFK] {
		if s.Label == domain.StatusAFK && s.End.Sub(s.Start) >= threshold {
			idle = append(idle, timeRange{s.Start, s.End})
		}
	}
	idle = unionRanges(idle)

	working := subtractRanges(active, idle)
	if len(working) == 0 {
		return nil, nil
	}
	obsStart, obsEnd := working[0].start, working[len(working)-1].end

	var breaks []domain.Break
	for _, r := range idle {
		if r.start.Before(obsStart) || r.end.After(obsEnd) {
			continue
		}
		breaks = append(breaks, domain.Break{
			Start:   r.start,
			End:     r.end,
			Seconds: int64(r.end.Sub(r.start) / time.Second),
		})
	}

	sessions := make([]domain.SessionWindow, 0, len(breaks)+1)
	cursor := obsStart
	for _, b := range breaks {
		sessions = append(sessions, domain.SessionWindow{Start: cursor, End: b.Start})
		cursor = b.End
	}
	sessions = append(sessions, domain.SessionWindow{Start: cursor, End: obsEnd})

	return sessions, breaks
}

// unionRanges merges overlapping or touching ranges into a sorted, disjoint set.
func unionRanges(rs []timeRange) []timeRange {
	if len(rs) == 0 {
		return nil
	}
	sorted := append([]timeRange(nil), rs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].start.Before(sorted[j].start) })

	out := []timeRange{sorted[0]}
	for _, r := range sorted[1:] {
		last := &out[len(out)-1]
		if !r.start.After(last.end) {
			if r.end.After(last.end) {
				last.end = r.end
			}
			continue
		}
		out = append(out, r)
	}
	return out
}

// subtractRanges removes the disjoint sorted set cut from the disjoint sorted set base.
func subtractRanges(base, cut []timeRange) []timeRange {
	var out []timeRange
	for _, b := range base {
		cur := b
		for _, c := range cut {
			if !c.end.After(cur.start) || !c.start.Before(cur.end) {
				continue
			}
			if c.start.After(cur.start) {
				out = append(out, timeRange{cur.start, c.start})
			}
			cur.start = c.end
			if !cur.start.Before(cur.end) {
				break
			}
		}
		if cur.start.Before(cur.end) {
			out = append(out, cur)
		}
	}
	return out
}

// sessionPiece is the part of an active span that falls inside one session.
type sessionPiece struct {
	Span    domain.Span
	Session int
}

// splitBySessions clips the span's intervals to each session it touches.
// Time outside every session is idle and appears in no piece.
func splitBySessions(span domain.Span, sessions []domain.SessionWindow) []sessionPiece {
	var pieces []sessionPiece
	for i, w := range sessions {
		if !span.Start.Before(w.End) || !span.End.After(w.Start) {
			continue
		}
		var clipped []domain.NormalizedInterval
		for _, iv := range span.Intervals {
			if w.Overlap(iv.Start, iv.End) == 0 {
				continue
			}
			c := iv
			if c.Start.Before(w.Start) {
				c.Start = w.Start
			}
			if c.End.After(w.End) {
				c.End = w.End
			}
			clipped = append(clipped, c)
		}
		if len(clipped) == 0 {
			continue
		}
		pieces = append(pieces, sessionPiece{
			Span: domain.Span{
				Start:     clipped[0].Start,
				End:       maxEnd(clipped),
				Kind:      span.Kind,
				Label:     span.Label,
				Intervals: clipped,
			},
			Session: i,
		})
	}
	return pieces
}

func maxEnd(ivs []domain.NormalizedInterval) time.Time {
	end := ivs[0].End
	for _, iv := range ivs[1:] {
		if iv.End.After(end) {
			end = iv.End
		}
	}
	return end
}
