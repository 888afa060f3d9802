package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/worklog/internal/db"
	"github.com/alexanderramin/worklog/internal/domain"
)

// SQLiteEventSource reads the watcher server's SQLite database.
type SQLiteEventSource struct {
	db db.DBTX
}

// NewSQLiteEventSource creates a new SQLiteEventSource.
func NewSQLiteEventSource(db db.DBTX) *SQLiteEventSource {
	return &SQLiteEventSource{db: db}
}

func (s *SQLiteEventSource) Buckets(ctx context.Context) ([]Bucket, error) {
	query := `SELECT id, name, type FROM buckets ORDER BY name`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing buckets: %w", err)
	}
	defer rows.Close()

	var buckets []Bucket
	for rows.Next() {
		var b Bucket
		if err := rows.Scan(&b.ID, &b.Name, &b.Type); err != nil {
			return nil, fmt.Errorf("scanning bucket row: %w", err)
		}
		buckets = append(buckets, classifyBucket(b))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating buckets: %w", err)
	}
	return buckets, nil
}

func (s *SQLiteEventSource) Events(ctx context.Context, b Bucket, start, end time.Time) ([]domain.RawEvent, error) {
	query := `SELECT starttime, endtime, data
		FROM events
		WHERE bucketrow = ? AND starttime >= ? AND starttime < ?
		ORDER BY starttime`
	rows, err := s.db.QueryContext(ctx, query, b.ID, start.UnixNano(), end.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("listing events of %s: %w", b.Name, err)
	}
	defer rows.Close()

	var events []domain.RawEvent
	for rows.Next() {
		var startNs, endNs int64
		var data []byte
		if err := rows.Scan(&startNs, &endNs, &data); err != nil {
			return nil, fmt.Errorf("scanning event row: %w", err)
		}
		events = append(events, domain.RawEvent{
			Start:    fromNanos(startNs),
			Duration: time.Duration(endNs - startNs),
			Kind:     b.Kind,
			Bucket:   b.Name,
			Payload:  decodePayload(data),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}
	return events, nil
}
