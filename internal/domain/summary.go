package domain

// ClassifiedEntry is the time attributed to one (category, ticket-or-client) bucket.
type ClassifiedEntry struct {
	Category    Category `json:"category"`
	Key         string   `json:"key,omitempty"`
	TicketID    string   `json:"ticket_id,omitempty"`
	Client      string   `json:"client,omitempty"`
	Description string   `json:"description,omitempty"`
	Seconds     int64    `json:"seconds"`
	SpanCount   int      `json:"span_count"`
}

// TimeRow is a single labelled total in one of the raw detection tables.
type TimeRow struct {
	Label   string `json:"label"`
	Seconds int64  `json:"seconds"`
	Hint    string `json:"hint,omitempty"`
	Ticket  string `json:"ticket,omitempty"`
}

// TitleGroup lists the most-observed window titles of one app.
type TitleGroup struct {
	App     string    `json:"app"`
	Seconds int64     `json:"seconds"`
	Titles  []TimeRow `json:"titles"`
}

// SkipCounts records why raw events were dropped during normalization.
type SkipCounts struct {
	ZeroDuration int `json:"zero_duration"`
	Malformed    int `json:"malformed"`
	OutOfRange   int `json:"out_of_range"`
}

// Total returns the number of skipped events.
func (s SkipCounts) Total() int {
	return s.ZeroDuration + s.Malformed + s.OutOfRange
}

// Add returns the element-wise sum of two counts.
func (s SkipCounts) Add(o SkipCounts) SkipCounts {
	return SkipCounts{
		ZeroDuration: s.ZeroDuration + o.ZeroDuration,
		Malformed:    s.Malformed + o.Malformed,
		OutOfRange:   s.OutOfRange + o.OutOfRange,
	}
}

// WorklogSummary is the root aggregate produced for one day.
type WorklogSummary struct {
	Date     string            `json:"date"`
	Sessions []SessionWindow   `json:"sessions"`
	Breaks   []Break           `json:"breaks"`
	Entries  []ClassifiedEntry `json:"entries"`

	AppTime       []TimeRow    `json:"app_time"`
	BranchTime    []TimeRow    `json:"branch_time"`
	TicketTime    []TimeRow    `json:"ticket_time"`
	DomainTime    []TimeRow    `json:"domain_time"`
	FileTime      []TimeRow    `json:"file_time"`
	ClientTime    []TimeRow    `json:"client_time"`
	Conversations []TimeRow    `json:"conversations"`
	TitleDetails  []TitleGroup `json:"title_details"`
	PersonalFlags []TimeRow    `json:"personal_flags"`

	// ActiveSeconds is the session-clipped window+browser span time that the
	// entries partition. IdleSeconds is span time that fell outside sessions.
	ActiveSeconds    int64      `json:"active_seconds"`
	IdleSeconds      int64      `json:"idle_seconds"`
	AFKActiveSeconds int64      `json:"afk_active_seconds"`
	Skipped          SkipCounts `json:"skipped"`
}

// IsEmpty reports whether no activity was observed.
func (s *WorklogSummary) IsEmpty() bool {
	return len(s.Sessions) == 0 && len(s.Entries) == 0 && len(s.AppTime) == 0
}

// EntrySeconds sums the entries, optionally restricted to one category.
func (s *WorklogSummary) EntrySeconds(categories ...Category) int64 {
	want := make(map[Category]bool, len(categories))
	for _, c := range categories {
		want[c] = true
	}
	var total int64
	for _, e := range s.Entries {
		if len(want) == 0 || want[e.Category] {
			total += e.Seconds
		}
	}
	return total
}

// WorkSeconds is the entry time excluding Personal/Excluded.
func (s *WorklogSummary) WorkSeconds() int64 {
	var total int64
	for _, e := range s.Entries {
		if e.Category.IsWork() {
			total += e.Seconds
		}
	}
	return total
}
