package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/worklog/internal/analyzer"
	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/alexanderramin/worklog/internal/repository"
	"github.com/google/uuid"
)

type worklogService struct {
	source   repository.EventSource
	analyzer *analyzer.Analyzer
	hostname string
	loc      *time.Location
	observer UseCaseObserver
}

// NewWorklogService wires an event source to the analyzer. Days are
// calendar days in loc; hostname selects the watcher buckets of one machine.
func NewWorklogService(
	source repository.EventSource,
	an *analyzer.Analyzer,
	hostname string,
	loc *time.Location,
	observers ...UseCaseObserver,
) WorklogService {
	if loc == nil {
		loc = time.Local
	}
	return &worklogService{
		source:   source,
		analyzer: an,
		hostname: hostname,
		loc:      loc,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *worklogService) Summarize(ctx context.Context, req SummaryRequest) (resp *SummaryResponse, err error) {
	startedAt := time.Now().UTC()
	runID := uuid.New().String()
	fields := map[string]any{}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "summarize",
			RunID:     runID,
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	days, err := s.days(req)
	if err != nil {
		return nil, err
	}
	fields["from"] = days[0].Date()
	fields["to"] = days[len(days)-1].Date()
	fields["days"] = len(days)

	resp = &SummaryResponse{RunID: runID, Days: make([]*domain.WorklogSummary, 0, len(days))}
	var events, skipped, entries int
	for _, day := range days {
		raw, loadErr := repository.LoadEvents(ctx, s.source, s.hostname, day.Start, day.End)
		if loadErr != nil {
			err = fmt.Errorf("%w: loading events for %s: %w", ErrDataSourceUnavailable, day.Date(), loadErr)
			return nil, err
		}
		summary := s.analyzer.Analyze(raw, day)
		events += len(raw)
		skipped += summary.Skipped.Total()
		entries += len(summary.Entries)
		resp.Days = append(resp.Days, summary)
	}
	fields["events"] = events
	fields["skipped"] = skipped
	fields["entries"] = entries

	return resp, nil
}

func (s *worklogService) Buckets(ctx context.Context) (buckets []repository.Bucket, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "list-buckets",
			RunID:     uuid.New().String(),
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"count": len(buckets)},
		})
	}()

	buckets, err = s.source.Buckets(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataSourceUnavailable, err)
	}
	return buckets, nil
}

// days expands the request into calendar days in the service location.
func (s *worklogService) days(req SummaryRequest) ([]domain.Day, error) {
	if req.From.IsZero() || req.To.IsZero() {
		return nil, fmt.Errorf("%w: missing start or end date", ErrInvalidRange)
	}
	from := domain.NewDay(inLocation(req.From, s.loc))
	to := domain.NewDay(inLocation(req.To, s.loc))
	if to.Start.Before(from.Start) {
		return nil, fmt.Errorf("%w: %s is before %s", ErrInvalidRange, to.Date(), from.Date())
	}

	var days []domain.Day
	for d := from; !d.Start.After(to.Start); d = domain.NewDay(d.End) {
		if len(days) == MaxRangeDays {
			return nil, fmt.Errorf("%w: more than %d days", ErrInvalidRange, MaxRangeDays)
		}
		days = append(days, d)
	}
	return days, nil
}

// inLocation keeps the calendar date of t and moves it to loc, so a date
// parsed as UTC midnight stays the same day.
func inLocation(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, loc)
}
