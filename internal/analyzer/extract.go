package analyzer

import (
	"github.com/alexanderramin/worklog/internal/domain"
)

// ExtractSignals runs the matchers over one span in fixed order: ticket
// prefixes in titles and URLs, git branches for IDE/git contexts, client
// tables, then the likely-personal list. A span without hits yields nil.
func ExtractSignals(span domain.Span, index int, m *Matchers) []domain.Signal {
	var signals []domain.Signal

	if sig, ok := extractTicket(span, index, m); ok {
		signals = append(signals, sig)
	}
	if sig, ok := extractBranch(span, index, m); ok {
		signals = append(signals, sig)
	}
	if sig, ok := extractClient(span, index, m); ok {
		signals = append(signals, sig)
	}
	if sig, ok := extractPersonal(span, index, m); ok {
		signals = append(signals, sig)
	}
	return signals
}

func extractTicket(span domain.Span, index int, m *Matchers) (domain.Signal, bool) {
	var first string
	var all []string
	for _, iv := range span.Intervals {
		match, ok := m.Tickets.Match(iv.Text())
		if !ok {
			continue
		}
		if first == "" {
			first = match.Value
		}
		all = append(all, match.All...)
	}
	if first == "" {
		return domain.Signal{}, false
	}
	return domain.Signal{
		SpanIndex:  index,
		Kind:       domain.SignalTicket,
		Value:      first,
		Tickets:    dedupe(all),
		Confidence: domain.ConfidenceMedium,
		Matcher:    m.Tickets.Name(),
	}, true
}

func extractBranch(span domain.Span, index int, m *Matchers) (domain.Signal, bool) {
	if span.Kind != domain.SourceWindow || !Has(m.BranchApps, span.Label) {
		return domain.Signal{}, false
	}
	for _, iv := range span.Intervals {
		match, ok := m.Branches.Match(iv.Title)
		if !ok {
			continue
		}
		sig := domain.Signal{
			SpanIndex:  index,
			Kind:       domain.SignalBranch,
			Branch:     match.Value,
			Confidence: domain.ConfidenceHigh,
			Matcher:    m.Branches.Name(),
		}
		if t, ok := m.Tickets.Match(match.Value); ok {
			sig.Value = t.Value
			sig.Tickets = t.All
		}
		return sig, true
	}
	return domain.Signal{}, false
}

func extractClient(span domain.Span, index int, m *Matchers) (domain.Signal, bool) {
	for _, iv := range span.Intervals {
		if match, ok := m.ClientDomains.Match(iv.Host); ok {
			return clientSignal(index, match, m.ClientDomains.Name()), true
		}
	}
	for _, iv := range span.Intervals {
		text := iv.Text()
		if iv.Host != "" {
			text = iv.Host + " " + text
		}
		if match, ok := m.ClientKeywords.Match(text); ok {
			return clientSignal(index, match, m.ClientKeywords.Name()), true
		}
	}
	return domain.Signal{}, false
}

func clientSignal(index int, match Match, matcher string) domain.Signal {
	return domain.Signal{
		SpanIndex:  index,
		Kind:       domain.SignalClient,
		Value:      match.Value,
		Confidence: match.Confidence,
		Matcher:    matcher,
	}
}

func extractPersonal(span domain.Span, index int, m *Matchers) (domain.Signal, bool) {
	for _, iv := range span.Intervals {
		text := iv.Text()
		if iv.Kind == domain.SourceWindow {
			text = iv.Label + " " + text
		}
		if match, ok := m.Personal.Match(text); ok {
			return domain.Signal{
				SpanIndex:  index,
				Kind:       domain.SignalPersonal,
				Value:      match.Value,
				Confidence: domain.ConfidenceLow,
				Matcher:    m.Personal.Name(),
			}, true
		}
	}
	return domain.Signal{}, false
}

// Evidence is the per-span digest of its signals that the classifier reads.
type Evidence struct {
	Ticket           string
	TicketConfidence domain.Confidence
	Tickets          []string
	Branch           string
	Client           string
	ClientConfidence domain.Confidence
	Personal         bool
	PersonalHint     string
}

// Summarize folds signals into Evidence. The highest-confidence ticket wins,
// so a branch-derived ticket overrides one mentioned in a title.
func Summarize(signals []domain.Signal) Evidence {
	var ev Evidence
	for _, s := range signals {
		switch s.Kind {
		case domain.SignalTicket, domain.SignalBranch:
			if s.Kind == domain.SignalBranch && ev.Branch == "" {
				ev.Branch = s.Branch
			}
			if s.Value != "" && s.Confidence > ev.TicketConfidence {
				ev.Ticket = s.Value
				ev.TicketConfidence = s.Confidence
			}
			ev.Tickets = append(ev.Tickets, s.Tickets...)
		case domain.SignalClient:
			if s.Confidence > ev.ClientConfidence {
				ev.Client = s.Value
				ev.ClientConfidence = s.Confidence
			}
		case domain.SignalPersonal:
			ev.Personal = true
			ev.PersonalHint = s.Value
		}
	}
	ev.Tickets = dedupe(ev.Tickets)
	return ev
}
