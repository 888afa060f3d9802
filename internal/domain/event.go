package domain

import "time"

type SourceKind string

const (
	SourceWindow  SourceKind = "window"
	SourceBrowser SourceKind = "browser"
	SourceAFK     SourceKind = "afk"
	SourceEditor  SourceKind = "editor"
)

// ActiveKinds are the tracks whose union defines "someone is working".
var ActiveKinds = []SourceKind{SourceWindow, SourceBrowser}

// IsActive reports whether the kind belongs to the active timeline.
func (k SourceKind) IsActive() bool {
	return k == SourceWindow || k == SourceBrowser
}

// AFK watcher statuses.
const (
	StatusAFK    = "afk"
	StatusNotAFK = "not-afk"
)

// Payload carries the watcher-specific fields of a raw event. Only the
// fields relevant to the event's kind are populated.
type Payload struct {
	App      string
	Title    string
	URL      string
	Status   string
	File     string
	Project  string
	Language string
}

// RawEvent is a single record as stored by the event store.
type RawEvent struct {
	Start    time.Time
	Duration time.Duration
	Kind     SourceKind
	Bucket   string
	Payload  Payload
	// Malformed is set by sources that could not read the event's
	// timestamp. Such events are only counted, never analyzed.
	Malformed bool
}

// End returns Start + Duration.
func (e RawEvent) End() time.Time {
	return e.Start.Add(e.Duration)
}

// NormalizedInterval is the uniform representation of a RawEvent.
// Label is the canonical grouping key: app name, host+path, afk status or
// file path depending on Kind.
type NormalizedInterval struct {
	Start   time.Time
	End     time.Time
	Kind    SourceKind
	Label   string
	Title   string
	URL     string
	Host    string
	Project string
}

// Seconds returns the interval length in whole seconds.
func (n NormalizedInterval) Seconds() int64 {
	return int64(n.End.Sub(n.Start) / time.Second)
}

// Text returns the searchable text of the interval (title and URL).
func (n NormalizedInterval) Text() string {
	if n.URL == "" {
		return n.Title
	}
	if n.Title == "" {
		return n.URL
	}
	return n.Title + " " + n.URL
}

// Day is a half-open [Start, End) observation window, usually one calendar day.
type Day struct {
	Start time.Time
	End   time.Time
}

// NewDay returns the calendar day containing t in t's location.
func NewDay(t time.Time) Day {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return Day{Start: start, End: start.AddDate(0, 0, 1)}
}

// Contains reports whether t falls inside the window.
func (d Day) Contains(t time.Time) bool {
	return !t.Before(d.Start) && t.Before(d.End)
}

// Date returns the ISO date of the window start.
func (d Day) Date() string {
	return d.Start.Format("2006-01-02")
}
