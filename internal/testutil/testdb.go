package testutil

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/alexanderramin/worklog/internal/db"
	"github.com/alexanderramin/worklog/internal/domain"
)

// NewTestAWDB creates an in-memory event database with the watcher schema.
// The database is closed when the test completes.
func NewTestAWDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// InsertBucket adds a bucket row and returns its id.
func InsertBucket(t *testing.T, database *sql.DB, name, bucketType string) int64 {
	t.Helper()
	res, err := database.Exec(`INSERT INTO buckets (name, type, created) VALUES (?, ?, ?)`,
		name, bucketType, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		t.Fatalf("inserting bucket %s: %v", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("reading bucket id: %v", err)
	}
	return id
}

// InsertEvent stores one event with nanosecond timestamps, as the watcher
// server does.
func InsertEvent(t *testing.T, database *sql.DB, bucketID int64, start time.Time, d time.Duration, data map[string]any) {
	t.Helper()
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("encoding event data: %v", err)
	}
	InsertRawEvent(t, database, bucketID, start, d, string(raw))
}

// InsertRawEvent stores an event whose data column is taken verbatim.
func InsertRawEvent(t *testing.T, database *sql.DB, bucketID int64, start time.Time, d time.Duration, data string) {
	t.Helper()
	_, err := database.Exec(`INSERT INTO events (bucketrow, starttime, endtime, data) VALUES (?, ?, ?, ?)`,
		bucketID, start.UnixNano(), start.Add(d).UnixNano(), data)
	if err != nil {
		t.Fatalf("inserting event: %v", err)
	}
}

// SeedWorkday stores WorkdayEvents in window and afk buckets of host
// "andromeda".
func SeedWorkday(t *testing.T, database *sql.DB) {
	t.Helper()
	win := InsertBucket(t, database, "aw-watcher-window_andromeda", "currentwindow")
	afk := InsertBucket(t, database, "aw-watcher-afk_andromeda", "afkstatus")
	for _, e := range WorkdayEvents() {
		switch e.Kind {
		case domain.SourceWindow:
			InsertEvent(t, database, win, e.Start, e.Duration, map[string]any{"app": e.Payload.App, "title": e.Payload.Title})
		case domain.SourceAFK:
			InsertEvent(t, database, afk, e.Start, e.Duration, map[string]any{"status": e.Payload.Status})
		}
	}
}
