package analyzer

import (
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
)

// BuildSpans merges intervals into spans per source kind. Consecutive
// intervals with the same label join when the gap between them is at most
// mergeGap; same-label intervals that overlap an open span always join it,
// so same-label spans never overlap. Tracks are independent of each other.
func BuildSpans(intervals []domain.NormalizedInterval, mergeGap time.Duration) domain.Tracks {
	tracks := make(domain.Tracks)
	// index of the latest span per kind+label
	latest := make(map[domain.SourceKind]map[string]int)

	for _, iv := range intervals {
		spans := tracks[iv.Kind]
		byLabel := latest[iv.Kind]
		if byLabel == nil {
			byLabel = make(map[string]int)
			latest[iv.Kind] = byLabel
		}

		if idx, ok := byLabel[iv.Label]; ok {
			s := &spans[idx]
			consecutive := idx == len(spans)-1 && iv.Start.Sub(s.End) <= mergeGap
			overlapping := iv.Start.Before(s.End)
			if consecutive || overlapping {
				s.Intervals = append(s.Intervals, iv)
				if iv.End.After(s.End) {
					s.End = iv.End
				}
				continue
			}
		}

		tracks[iv.Kind] = append(spans, domain.Span{
			Start:     iv.Start,
			End:       iv.End,
			Kind:      iv.Kind,
			Label:     iv.Label,
			Intervals: []domain.NormalizedInterval{iv},
		})
		byLabel[iv.Label] = len(tracks[iv.Kind]) - 1
	}

	return tracks
}

// TrackSeconds sums the span time of one track.
func TrackSeconds(spans []domain.Span) int64 {
	var total int64
	for _, s := range spans {
		total += s.Seconds()
	}
	return total
}
