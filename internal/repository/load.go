package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
)

// SelectBuckets keeps the buckets the analyzer understands that belong to
// hostname. An empty hostname selects every host. Buckets without a host
// suffix always match.
func SelectBuckets(buckets []Bucket, hostname string) []Bucket {
	var out []Bucket
	for _, b := range buckets {
		if b.Kind == "" {
			continue
		}
		if hostname != "" && b.Host != "" && !strings.EqualFold(b.Host, hostname) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// LoadEvents reads the events of every selected bucket that start in
// [start, end) and returns them ordered by start time.
func LoadEvents(ctx context.Context, src EventSource, hostname string, start, end time.Time) ([]domain.RawEvent, error) {
	all, err := src.Buckets(ctx)
	if err != nil {
		return nil, err
	}
	buckets := SelectBuckets(all, hostname)
	if len(buckets) == 0 {
		if hostname == "" {
			return nil, fmt.Errorf("no watcher buckets: %w", ErrBucketNotFound)
		}
		return nil, fmt.Errorf("no watcher buckets for host %q: %w", hostname, ErrBucketNotFound)
	}

	var events []domain.RawEvent
	for _, b := range buckets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		evs, err := src.Events(ctx, b, start, end)
		if err != nil {
			return nil, err
		}
		events = append(events, evs...)
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Start.Before(events[j].Start) })
	return events, nil
}
