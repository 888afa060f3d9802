package analyzer

import (
	"testing"
	"time"

	"github.com/alexanderramin/worklog/internal/config"
	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/stretchr/testify/require"
)

// testConfig is the stock config plus a small site table: ROMSD is the bug
// tracker, ITEM the feature backlog and Acme the only client.
func testConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.TicketPrefixes = []config.TicketPrefix{
		{Prefix: "ROMSD", Family: domain.FamilyBug, Description: "Service desk"},
		{Prefix: "ITEM", Family: domain.FamilyFeature, Description: "Backlog item"},
	}
	cfg.KnownTickets = map[string]string{"ITEM-42": "Login page"}
	cfg.ClientDomains = map[string]string{"acme.com": "Acme"}
	cfg.Clients = map[string]string{"acme": "Acme"}
	cfg.Contacts = map[string]string{"jane doe": "Acme"}
	cfg.Environments = map[string]string{"staging": "Acme staging"}
	cfg.Projects = map[string]string{"rooms": "Rooms"}
	return cfg
}

func newTestAnalyzer(t *testing.T, cfg config.Config) *Analyzer {
	t.Helper()
	a, err := New(cfg)
	require.NoError(t, err)
	return a
}

func newTestMatchers(t *testing.T, cfg config.Config) *Matchers {
	t.Helper()
	m, err := NewMatchers(cfg)
	require.NoError(t, err)
	return m
}

func interval(kind domain.SourceKind, label string, start time.Time, d time.Duration) domain.NormalizedInterval {
	return domain.NormalizedInterval{Start: start, End: start.Add(d), Kind: kind, Label: label}
}

func entryFor(s *domain.WorklogSummary, cat domain.Category, key string) (domain.ClassifiedEntry, bool) {
	for _, e := range s.Entries {
		if e.Category == cat && e.Key == key {
			return e, true
		}
	}
	return domain.ClassifiedEntry{}, false
}
