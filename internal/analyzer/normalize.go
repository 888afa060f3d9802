package analyzer

import (
	"math"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
)

// Normalize converts raw events inside day into intervals sorted by start.
// Events are never fatal: anything that cannot be represented is counted
// in the returned SkipCounts and dropped.
func Normalize(events []domain.RawEvent, day domain.Day) ([]domain.NormalizedInterval, domain.SkipCounts) {
	var skipped domain.SkipCounts
	out := make([]domain.NormalizedInterval, 0, len(events))

	for _, e := range events {
		if e.Malformed {
			skipped.Malformed++
			continue
		}
		if !day.Contains(e.Start) {
			skipped.OutOfRange++
			continue
		}
		secs := int64(math.Round(e.Duration.Seconds()))
		if secs <= 0 {
			skipped.ZeroDuration++
			continue
		}
		iv, ok := canonicalize(e)
		if !ok {
			skipped.Malformed++
			continue
		}
		iv.Start = e.Start.Truncate(time.Second)
		iv.End = iv.Start.Add(time.Duration(secs) * time.Second)
		if iv.End.After(day.End) {
			iv.End = day.End
		}
		out = append(out, iv)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Label < out[j].Label
	})
	return out, skipped
}

// canonicalize derives the label and text fields for an event, reporting
// false when the payload lacks what its kind requires.
func canonicalize(e domain.RawEvent) (domain.NormalizedInterval, bool) {
	iv := domain.NormalizedInterval{Kind: e.Kind}
	p := e.Payload

	switch e.Kind {
	case domain.SourceWindow:
		app := strings.TrimSpace(p.App)
		if app == "" {
			return iv, false
		}
		iv.Label = app
		iv.Title = strings.TrimSpace(p.Title)

	case domain.SourceBrowser:
		host, path, ok := splitURL(p.URL)
		if !ok {
			return iv, false
		}
		iv.Label = host + path
		iv.Host = host
		iv.URL = p.URL
		iv.Title = strings.TrimSpace(p.Title)

	case domain.SourceAFK:
		status := strings.ToLower(strings.TrimSpace(p.Status))
		if status != domain.StatusAFK && status != domain.StatusNotAFK {
			return iv, false
		}
		iv.Label = status

	case domain.SourceEditor:
		file := strings.TrimSpace(p.File)
		if file == "" {
			return iv, false
		}
		iv.Label = file
		iv.Project = p.Project

	default:
		return iv, false
	}
	return iv, true
}

// splitURL returns the lower-cased host and the path without query,
// fragment or trailing slash.
func splitURL(raw string) (host, path string, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", "", false
	}
	return strings.ToLower(u.Host), strings.TrimRight(u.EscapedPath(), "/"), true
}
