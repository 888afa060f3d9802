package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/klauspost/compress/zstd"
)

// exportFile is the layout of the watcher server's bucket export.
type exportFile struct {
	Buckets map[string]exportBucket `json:"buckets"`
}

type exportBucket struct {
	ID     string        `json:"id"`
	Type   string        `json:"type"`
	Events []exportEvent `json:"events"`
}

type exportEvent struct {
	Timestamp string          `json:"timestamp"`
	Duration  float64         `json:"duration"`
	Data      json.RawMessage `json:"data"`
}

// ExportEventSource reads an aw-buckets-export.json file, plain or
// zstd-compressed (".zst"). The file is parsed on first use and again
// whenever its size or modification time changes.
type ExportEventSource struct {
	path string

	mu      sync.Mutex
	stamp   fileStamp
	loaded  bool
	loadErr error
	buckets []Bucket
	events  map[string][]domain.RawEvent
}

type fileStamp struct {
	modTime time.Time
	size    int64
}

func (f fileStamp) same(o fileStamp) bool {
	return f.size == o.size && f.modTime.Equal(o.modTime)
}

// NewExportEventSource creates a source over the export at path.
func NewExportEventSource(path string) *ExportEventSource {
	return &ExportEventSource{path: path}
}

func (s *ExportEventSource) Buckets(ctx context.Context) ([]Bucket, error) {
	buckets, _, err := s.load()
	if err != nil {
		return nil, err
	}
	return append([]Bucket(nil), buckets...), nil
}

// Events returns the events of b starting in [start, end). Events whose
// timestamp carries no readable date are returned for every range, marked
// malformed, so each report counts them.
func (s *ExportEventSource) Events(ctx context.Context, b Bucket, start, end time.Time) ([]domain.RawEvent, error) {
	_, events, err := s.load()
	if err != nil {
		return nil, err
	}
	all, ok := events[b.Name]
	if !ok {
		return nil, fmt.Errorf("export bucket %s: %w", b.Name, ErrBucketNotFound)
	}
	var out []domain.RawEvent
	for _, e := range all {
		if e.Malformed && e.Start.IsZero() {
			e.Start = start
			out = append(out, e)
			continue
		}
		if !e.Start.Before(start) && e.Start.Before(end) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (s *ExportEventSource) load() ([]Bucket, map[string][]domain.RawEvent, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return nil, nil, fmt.Errorf("open export: %w", err)
	}
	stamp := fileStamp{modTime: info.ModTime(), size: info.Size()}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded && s.stamp.same(stamp) {
		return s.buckets, s.events, s.loadErr
	}
	s.buckets, s.events, s.loadErr = s.read()
	s.stamp = stamp
	s.loaded = true
	return s.buckets, s.events, s.loadErr
}

func (s *ExportEventSource) read() ([]Bucket, map[string][]domain.RawEvent, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, nil, fmt.Errorf("open export: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(s.path, ".zst") {
		decoder, err := zstd.NewReader(f)
		if err != nil {
			return nil, nil, fmt.Errorf("create zstd decoder: %w", err)
		}
		defer decoder.Close()
		r = decoder
	}

	var file exportFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, nil, fmt.Errorf("decoding export: %w", err)
	}

	buckets := make([]Bucket, 0, len(file.Buckets))
	byName := make(map[string][]domain.RawEvent, len(file.Buckets))
	for name, eb := range file.Buckets {
		b := classifyBucket(Bucket{Name: name, Type: eb.Type})
		buckets = append(buckets, b)

		events := make([]domain.RawEvent, 0, len(eb.Events))
		for _, ee := range eb.Events {
			events = append(events, toRawEvent(b, ee))
		}
		sort.SliceStable(events, func(i, j int) bool { return events[i].Start.Before(events[j].Start) })
		byName[name] = events
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Name < buckets[j].Name })
	for i := range buckets {
		buckets[i].ID = int64(i + 1)
	}
	return buckets, byName, nil
}

// toRawEvent marks events with an unreadable timestamp as malformed. When
// the timestamp still starts with a date the event is placed at noon UTC of
// that date, which lies inside the same calendar day in every timezone
// within twelve hours of UTC. Otherwise Start stays zero.
func toRawEvent(b Bucket, ee exportEvent) domain.RawEvent {
	e := domain.RawEvent{
		Duration: time.Duration(ee.Duration * float64(time.Second)),
		Kind:     b.Kind,
		Bucket:   b.Name,
		Payload:  decodePayload(ee.Data),
	}
	start, err := time.Parse(time.RFC3339Nano, ee.Timestamp)
	if err == nil {
		e.Start = start.UTC()
		return e
	}
	e.Malformed = true
	if len(ee.Timestamp) >= len(time.DateOnly) {
		if d, err := time.Parse(time.DateOnly, ee.Timestamp[:len(time.DateOnly)]); err == nil {
			e.Start = d.Add(12 * time.Hour)
		}
	}
	return e
}
