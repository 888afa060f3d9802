package service

import (
	"context"
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/alexanderramin/worklog/internal/repository"
)

// MaxRangeDays bounds a single summary request.
const MaxRangeDays = 31

// SummaryRequest asks for one summary per calendar day in [From, To].
// Only the dates matter; times of day are ignored.
type SummaryRequest struct {
	From time.Time
	To   time.Time
}

// NewDayRequest covers the single day containing d.
func NewDayRequest(d time.Time) SummaryRequest {
	return SummaryRequest{From: d, To: d}
}

type SummaryResponse struct {
	RunID string
	Days  []*domain.WorklogSummary
}

type WorklogService interface {
	Summarize(ctx context.Context, req SummaryRequest) (*SummaryResponse, error)
	Buckets(ctx context.Context) ([]repository.Bucket, error)
}
