package testutil

import (
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
)

// TestDate is the calendar day the fixtures live on.
var TestDate = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

// TestDay returns the observation window of TestDate.
func TestDay() domain.Day {
	return domain.NewDay(TestDate)
}

// At returns hh:mm on TestDate.
func At(hour, minute int) time.Time {
	return TestDate.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

// Event options
type EventOption func(*domain.RawEvent)

func WithTitle(title string) EventOption {
	return func(e *domain.RawEvent) {
		e.Payload.Title = title
	}
}

func WithURL(url string) EventOption {
	return func(e *domain.RawEvent) {
		e.Payload.URL = url
	}
}

func WithProject(project string) EventOption {
	return func(e *domain.RawEvent) {
		e.Payload.Project = project
	}
}

func WithBucket(name string) EventOption {
	return func(e *domain.RawEvent) {
		e.Bucket = name
	}
}

func newTestEvent(kind domain.SourceKind, start time.Time, d time.Duration, p domain.Payload, opts []EventOption) domain.RawEvent {
	e := domain.RawEvent{
		Start:    start,
		Duration: d,
		Kind:     kind,
		Bucket:   "aw-watcher-" + string(kind) + "_testhost",
		Payload:  p,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

func NewTestWindowEvent(start time.Time, d time.Duration, app string, opts ...EventOption) domain.RawEvent {
	return newTestEvent(domain.SourceWindow, start, d, domain.Payload{App: app}, opts)
}

func NewTestBrowserEvent(start time.Time, d time.Duration, url string, opts ...EventOption) domain.RawEvent {
	return newTestEvent(domain.SourceBrowser, start, d, domain.Payload{URL: url}, opts)
}

func NewTestAFKEvent(start time.Time, d time.Duration, status string) domain.RawEvent {
	return newTestEvent(domain.SourceAFK, start, d, domain.Payload{Status: status}, nil)
}

func NewTestEditorEvent(start time.Time, d time.Duration, file string, opts ...EventOption) domain.RawEvent {
	return newTestEvent(domain.SourceEditor, start, d, domain.Payload{File: file}, opts)
}

// WorkdayEvents is the canonical 9:00-17:00 day: IDE work in the morning,
// a 30 minute AFK lunch and IDE work in the afternoon.
func WorkdayEvents() []domain.RawEvent {
	return []domain.RawEvent{
		NewTestWindowEvent(At(9, 0), 3*time.Hour, "rider64.exe", WithTitle("rooms - Program.cs")),
		NewTestAFKEvent(At(9, 0), 3*time.Hour, domain.StatusNotAFK),
		NewTestAFKEvent(At(12, 0), 30*time.Minute, domain.StatusAFK),
		NewTestWindowEvent(At(12, 30), 4*time.Hour+30*time.Minute, "rider64.exe", WithTitle("rooms - Startup.cs")),
		NewTestAFKEvent(At(12, 30), 4*time.Hour+30*time.Minute, domain.StatusNotAFK),
	}
}
