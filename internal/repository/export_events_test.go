package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/worklog/internal/analyzer"
	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/alexanderramin/worklog/internal/testutil"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exportJSON = `{
  "buckets": {
    "aw-watcher-web-firefox_andromeda": {
      "id": "aw-watcher-web-firefox_andromeda",
      "type": "web.tab.current",
      "events": [
        {"timestamp": "2026-03-02T10:00:05.500000+00:00", "duration": 30.5,
         "data": {"url": "https://jira.acme.com/browse/ROMSD-7", "title": "ROMSD-7 Login broken"}},
        {"timestamp": "2026-03-02T08:00:00+00:00", "duration": 60,
         "data": {"url": "https://github.com/acme/rooms/pull/12", "title": "PR"}}
      ]
    },
    "aw-watcher-afk_andromeda": {
      "id": "aw-watcher-afk_andromeda",
      "type": "afkstatus",
      "events": [
        {"timestamp": "2026-03-01T23:00:00Z", "duration": 60, "data": {"status": "afk"}}
      ]
    }
  }
}`

func writeExport(t *testing.T, name string, compress bool) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	if !compress {
		_, err = f.WriteString(exportJSON)
		require.NoError(t, err)
		return path
	}
	enc, err := zstd.NewWriter(f)
	require.NoError(t, err)
	_, err = enc.Write([]byte(exportJSON))
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	return path
}

func TestExportEventSource_Plain(t *testing.T) {
	src := NewExportEventSource(writeExport(t, "aw-buckets-export.json", false))
	ctx := context.Background()

	buckets, err := src.Buckets(ctx)
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	assert.Equal(t, "aw-watcher-afk_andromeda", buckets[0].Name)
	assert.Equal(t, domain.SourceAFK, buckets[0].Kind)
	assert.Equal(t, "andromeda", buckets[1].Host)

	day := testutil.TestDay()
	events, err := src.Events(ctx, buckets[1], day.Start, day.End)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.True(t, events[0].Start.Equal(testutil.At(8, 0)), "events come back sorted")
	assert.Equal(t, 30500*time.Millisecond, events[1].Duration)
	assert.Equal(t, "ROMSD-7 Login broken", events[1].Payload.Title)

	afk, err := src.Events(ctx, buckets[0], day.Start, day.End)
	require.NoError(t, err)
	assert.Empty(t, afk, "event from the previous day is outside the range")
}

func TestExportEventSource_Zstd(t *testing.T) {
	src := NewExportEventSource(writeExport(t, "aw-buckets-export.json.zst", true))

	events, err := LoadEvents(context.Background(), src, "andromeda", testutil.TestDay().Start, testutil.TestDay().End)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestExportEventSource_MissingFile(t *testing.T) {
	src := NewExportEventSource(filepath.Join(t.TempDir(), "missing.json"))
	_, err := src.Buckets(context.Background())
	assert.Error(t, err)
}

func TestExportEventSource_UnknownBucket(t *testing.T) {
	src := NewExportEventSource(writeExport(t, "export.json", false))
	_, err := src.Events(context.Background(), Bucket{Name: "nope"}, time.Time{}, time.Now())
	assert.ErrorIs(t, err, ErrBucketNotFound)
}

func writeFile(t *testing.T, path, content string, modTime time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	require.NoError(t, os.Chtimes(path, modTime, modTime))
}

const windowBucket = `"aw-watcher-window_andromeda": {"id": "aw-watcher-window_andromeda", "type": "currentwindow", "events": [%s]}`

func windowExport(events string) string {
	return `{"buckets": {` + fmt.Sprintf(windowBucket, events) + `}}`
}

func TestExportEventSource_ReloadsChangedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aw-buckets-export.json")
	stamp := time.Date(2026, time.March, 2, 18, 0, 0, 0, time.UTC)
	writeFile(t, path, windowExport(""), stamp)

	src := NewExportEventSource(path)
	ctx := context.Background()
	day := testutil.TestDay()

	before, err := LoadEvents(ctx, src, "", day.Start, day.End)
	require.NoError(t, err)
	assert.Empty(t, before)

	writeFile(t, path, windowExport(
		`{"timestamp": "2026-03-02T10:00:00Z", "duration": 60, "data": {"app": "code", "title": "main.go"}}`,
	), stamp.Add(time.Minute))

	after, err := LoadEvents(ctx, src, "", day.Start, day.End)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "main.go", after[0].Payload.Title)
}

func TestExportEventSource_UnchangedFileIsNotReparsed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aw-buckets-export.json")
	stamp := time.Date(2026, time.March, 2, 18, 0, 0, 0, time.UTC)
	writeFile(t, path, windowExport(""), stamp)

	src := NewExportEventSource(path)
	first, err := src.Buckets(context.Background())
	require.NoError(t, err)

	// same size and mtime: the cached parse is kept
	writeFile(t, path, strings.Replace(windowExport(""), "andromeda", "andromedb", 2), stamp)
	second, err := src.Buckets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExportEventSource_UnreadableTimestampIsDelivered(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aw-buckets-export.json")
	writeFile(t, path, windowExport(
		`{"timestamp": "2026-03-02 10:00", "duration": 60, "data": {"app": "code"}},
		 {"timestamp": "yesterday", "duration": 60, "data": {"app": "code"}},
		 {"timestamp": "2026-03-05 10:00", "duration": 60, "data": {"app": "code"}}`,
	), time.Date(2026, time.March, 2, 18, 0, 0, 0, time.UTC))

	src := NewExportEventSource(path)
	day := testutil.TestDay()
	events, err := LoadEvents(context.Background(), src, "", day.Start, day.End)
	require.NoError(t, err)
	require.Len(t, events, 2, "the dated event and the undated one")
	for _, e := range events {
		assert.True(t, e.Malformed)
		assert.True(t, day.Contains(e.Start))
	}

	ivs, skipped := analyzer.Normalize(events, day)
	assert.Empty(t, ivs)
	assert.Equal(t, domain.SkipCounts{Malformed: 2}, skipped)
}
