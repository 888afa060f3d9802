package analyzer

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/alexanderramin/worklog/internal/config"
	"github.com/alexanderramin/worklog/internal/domain"
)

const (
	titlesPerApp        = 5
	conversationMaxRune = 50
)

type entryKey struct {
	category domain.Category
	key      string
}

// entryAccumulator sums classified pieces into entries keyed by
// (category, ticket-or-client).
type entryAccumulator struct {
	cfg     config.Config
	entries map[entryKey]*domain.ClassifiedEntry
}

func newEntryAccumulator(cfg config.Config) *entryAccumulator {
	return &entryAccumulator{cfg: cfg, entries: make(map[entryKey]*domain.ClassifiedEntry)}
}

func (a *entryAccumulator) add(cl Classification, seconds int64) {
	if seconds <= 0 {
		return
	}
	key := cl.TicketID
	if key == "" {
		key = cl.Client
	}
	k := entryKey{cl.Category, key}
	e, ok := a.entries[k]
	if !ok {
		e = &domain.ClassifiedEntry{
			Category: cl.Category,
			Key:      key,
			TicketID: cl.TicketID,
			Client:   cl.Client,
		}
		if cl.TicketID != "" {
			e.Description = a.cfg.TicketDescription(cl.TicketID)
		}
		a.entries[k] = e
	}
	if e.Client == "" {
		e.Client = cl.Client
	}
	e.Seconds += seconds
	e.SpanCount++
}

// result orders entries by category, then time descending, then key.
func (a *entryAccumulator) result() []domain.ClassifiedEntry {
	out := make([]domain.ClassifiedEntry, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if ri, rj := out[i].Category.Rank(), out[j].Category.Rank(); ri != rj {
			return ri < rj
		}
		if out[i].Seconds != out[j].Seconds {
			return out[i].Seconds > out[j].Seconds
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// rowTable accumulates seconds per label for one raw detection view.
type rowTable map[string]*domain.TimeRow

func (t rowTable) add(label string, seconds int64) *domain.TimeRow {
	r, ok := t[label]
	if !ok {
		r = &domain.TimeRow{Label: label}
		t[label] = r
	}
	r.Seconds += seconds
	return r
}

func (t rowTable) rows() []domain.TimeRow {
	out := make([]domain.TimeRow, 0, len(t))
	for _, r := range t {
		out = append(out, *r)
	}
	sortRows(out)
	return out
}

func sortRows(rows []domain.TimeRow) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Seconds != rows[j].Seconds {
			return rows[i].Seconds > rows[j].Seconds
		}
		return rows[i].Label < rows[j].Label
	})
}

// rawTables builds the detection views straight from the unclipped
// intervals. They are evidence for a reader and are not reconciled with
// the classified entries.
type rawTables struct {
	cfg config.Config
	m   *Matchers

	apps, branches, tickets, domains, files, clients, conversations, personal rowTable
	titles                                                                    map[string]rowTable
}

func newRawTables(cfg config.Config, m *Matchers) *rawTables {
	return &rawTables{
		cfg:           cfg,
		m:             m,
		apps:          rowTable{},
		branches:      rowTable{},
		tickets:       rowTable{},
		domains:       rowTable{},
		files:         rowTable{},
		clients:       rowTable{},
		conversations: rowTable{},
		personal:      rowTable{},
		titles:        make(map[string]rowTable),
	}
}

func (t *rawTables) addTrack(spans []domain.Span) {
	for _, s := range spans {
		for _, iv := range s.Intervals {
			t.addInterval(iv)
		}
	}
}

func (t *rawTables) addInterval(iv domain.NormalizedInterval) {
	secs := iv.Seconds()
	if secs <= 0 {
		return
	}
	switch iv.Kind {
	case domain.SourceWindow:
		t.apps.add(iv.Label, secs)
		if iv.Title != "" {
			byTitle, ok := t.titles[iv.Label]
			if !ok {
				byTitle = rowTable{}
				t.titles[iv.Label] = byTitle
			}
			byTitle.add(iv.Title, secs)
		}
		if Has(t.m.BranchApps, iv.Label) {
			if b, ok := t.m.Branches.Match(iv.Title); ok {
				row := t.branches.add(b.Value, secs)
				if tk, ok := t.m.Tickets.Match(b.Value); ok {
					row.Ticket = tk.Value
				}
			}
		}
		if Has(t.m.MeetingApps, iv.Label) {
			if conv := conversationName(iv.Title); conv != "" {
				row := t.conversations.add(conv, secs)
				if c, ok := t.m.Contacts.Match(iv.Title); ok {
					row.Hint = c.Value
				}
			}
		}
	case domain.SourceBrowser:
		row := t.domains.add(iv.Host, secs)
		if row.Hint == "" {
			row.Hint = t.domainHint(iv)
		}
	case domain.SourceEditor:
		row := t.files.add(iv.Label, secs)
		if row.Hint == "" {
			if p, ok := t.m.Projects.Match(iv.Label); ok {
				row.Hint = p.Value
			} else {
				row.Hint = iv.Project
			}
		}
		return
	default:
		return
	}

	if tk, ok := t.m.Tickets.Match(iv.Text()); ok {
		for _, id := range tk.All {
			row := t.tickets.add(id, secs)
			row.Hint = t.cfg.TicketDescription(id)
		}
	}
	single := domain.Span{Kind: iv.Kind, Label: iv.Label, Intervals: []domain.NormalizedInterval{iv}}
	if sig, ok := extractClient(single, 0, t.m); ok {
		t.clients.add(sig.Value, secs)
	}
	if sig, ok := extractPersonal(single, 0, t.m); ok {
		label := iv.Title
		if label == "" {
			label = iv.Label
		}
		row := t.personal.add(label, secs)
		row.Hint = sig.Value
	}
}

// domainHint labels a host with its environment, falling back to a
// context hint over the full URL.
func (t *rawTables) domainHint(iv domain.NormalizedInterval) string {
	if e, ok := t.m.Environments.Match(iv.Host); ok {
		return e.Value
	}
	if h, ok := t.m.ContextHints.Match(iv.Host + " " + iv.URL); ok {
		return h.Value
	}
	return ""
}

func (t *rawTables) titleDetails() []domain.TitleGroup {
	out := make([]domain.TitleGroup, 0, len(t.titles))
	for app, byTitle := range t.titles {
		rows := byTitle.rows()
		if len(rows) > titlesPerApp {
			rows = rows[:titlesPerApp]
		}
		out = append(out, domain.TitleGroup{App: app, Seconds: t.apps[app].Seconds, Titles: rows})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Seconds != out[j].Seconds {
			return out[i].Seconds > out[j].Seconds
		}
		return out[i].App < out[j].App
	})
	return out
}

func (t *rawTables) fill(s *domain.WorklogSummary) {
	s.AppTime = t.apps.rows()
	s.BranchTime = t.branches.rows()
	s.TicketTime = t.tickets.rows()
	s.DomainTime = t.domains.rows()
	s.FileTime = t.files.rows()
	s.ClientTime = t.clients.rows()
	s.Conversations = t.conversations.rows()
	s.PersonalFlags = t.personal.rows()
	s.TitleDetails = t.titleDetails()
}

// conversationName reduces a meeting-app title such as
// "Alice Smith | Microsoft Teams" to its leading part.
func conversationName(title string) string {
	name, _, _ := strings.Cut(title, "|")
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > conversationMaxRune {
		name = strings.TrimSpace(string([]rune(name)[:conversationMaxRune]))
	}
	return name
}
