// Package analyzer turns raw activity events into a classified worklog.
// The pipeline is pure: the same events and config always produce the
// same summary.
package analyzer

import (
	"github.com/alexanderramin/worklog/internal/config"
	"github.com/alexanderramin/worklog/internal/domain"
)

// Analyzer runs the normalize, span, break, extract, classify and
// aggregate stages for one observation window at a time. It holds only
// compiled configuration and is safe for concurrent use.
type Analyzer struct {
	cfg        config.Config
	matchers   *Matchers
	classifier *Classifier
}

// New compiles cfg into an Analyzer using the default rule order.
func New(cfg config.Config) (*Analyzer, error) {
	return NewWithRules(cfg, DefaultRules())
}

// NewWithRules is New with a caller-supplied rule list.
func NewWithRules(cfg config.Config, rules []Rule) (*Analyzer, error) {
	m, err := NewMatchers(cfg)
	if err != nil {
		return nil, err
	}
	return &Analyzer{
		cfg:        cfg,
		matchers:   m,
		classifier: NewClassifier(cfg, m, rules),
	}, nil
}

// classifiedPiece is one session-clipped span with its verdict.
type classifiedPiece struct {
	piece  sessionPiece
	result Classification
}

// Analyze builds the summary for events inside day. Events outside day
// are counted as skipped.
func (a *Analyzer) Analyze(events []domain.RawEvent, day domain.Day) *domain.WorklogSummary {
	intervals, skipped := Normalize(events, day)
	tracks := BuildSpans(intervals, a.cfg.MergeGap())
	sessions, breaks := DetectBreaks(tracks, a.cfg.BreakThreshold())

	summary := &domain.WorklogSummary{
		Date:     day.Date(),
		Sessions: sessions,
		Breaks:   breaks,
		Skipped:  skipped,
	}
	if summary.Sessions == nil {
		summary.Sessions = []domain.SessionWindow{}
	}
	if summary.Breaks == nil {
		summary.Breaks = []domain.Break{}
	}

	pieces := a.classifyPieces(tracks, sessions)
	acc := newEntryAccumulator(a.cfg)
	var spanSeconds int64
	for _, kind := range domain.ActiveKinds {
		spanSeconds += TrackSeconds(tracks[kind])
	}
	for _, p := range pieces {
		secs := p.piece.Span.Seconds()
		acc.add(p.result, secs)
		summary.ActiveSeconds += secs
	}
	summary.Entries = acc.result()
	summary.IdleSeconds = spanSeconds - summary.ActiveSeconds

	for _, s := range tracks[domain.SourceAFK] {
		if s.Label == domain.StatusNotAFK {
			summary.AFKActiveSeconds += s.Seconds()
		}
	}

	raw := newRawTables(a.cfg, a.matchers)
	for _, kind := range []domain.SourceKind{domain.SourceWindow, domain.SourceBrowser, domain.SourceEditor} {
		raw.addTrack(tracks[kind])
	}
	raw.fill(summary)
	return summary
}

// classifyPieces clips every active span to the sessions, extracts its
// signals and classifies it against the session's development share.
func (a *Analyzer) classifyPieces(tracks domain.Tracks, sessions []domain.SessionWindow) []classifiedPiece {
	var pieces []sessionPiece
	for _, kind := range domain.ActiveKinds {
		for _, span := range tracks[kind] {
			pieces = append(pieces, splitBySessions(span, sessions)...)
		}
	}

	devShare := a.devShares(pieces, sessions)

	out := make([]classifiedPiece, 0, len(pieces))
	for i, p := range pieces {
		ev := Summarize(ExtractSignals(p.Span, i, a.matchers))
		in := a.classifier.Input(p.Span, ev, devShare[p.Session])
		out = append(out, classifiedPiece{piece: p, result: a.classifier.Classify(in)})
	}
	return out
}

// devShares returns, per session, the share of session time spent in
// development-app windows.
func (a *Analyzer) devShares(pieces []sessionPiece, sessions []domain.SessionWindow) []float64 {
	dev := make([]int64, len(sessions))
	for _, p := range pieces {
		if p.Span.Kind == domain.SourceWindow && Has(a.matchers.DevApps, p.Span.Label) {
			dev[p.Session] += p.Span.Seconds()
		}
	}
	shares := make([]float64, len(sessions))
	for i, w := range sessions {
		if total := w.Seconds(); total > 0 {
			shares[i] = float64(dev[i]) / float64(total)
		}
	}
	return shares
}
