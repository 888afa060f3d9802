package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
)

// ErrBucketNotFound is returned when no watcher bucket matches the request.
var ErrBucketNotFound = errors.New("bucket not found")

// Bucket is one watcher's event stream as stored by the watcher server.
type Bucket struct {
	ID   int64
	Name string
	Type string
	// Kind and Host are derived from Name and Type; Kind is empty for
	// watchers the analyzer does not understand.
	Kind domain.SourceKind
	Host string
}

// EventSource reads watcher buckets and their events. Implementations are
// read-only and return events ordered by start time.
type EventSource interface {
	Buckets(ctx context.Context) ([]Bucket, error)
	// Events returns events of b that start in [start, end).
	Events(ctx context.Context, b Bucket, start, end time.Time) ([]domain.RawEvent, error)
}
