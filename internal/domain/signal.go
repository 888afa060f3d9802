package domain

type SignalKind string

const (
	SignalTicket   SignalKind = "ticket"
	SignalBranch   SignalKind = "branch"
	SignalClient   SignalKind = "client"
	SignalPersonal SignalKind = "personal"
)

type Confidence int

const (
	ConfidenceLow Confidence = iota + 1
	ConfidenceMedium
	ConfidenceHigh
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceLow:
		return "low"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceHigh:
		return "high"
	default:
		return "none"
	}
}

// Signal is a candidate ticket/client association extracted from a span.
// SpanIndex points back into the span slice the signal was extracted from;
// the signal never owns the span.
type Signal struct {
	SpanIndex  int
	Kind       SignalKind
	Value      string
	Tickets    []string
	Branch     string
	Confidence Confidence
	Matcher    string
}
