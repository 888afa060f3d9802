package analyzer

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/alexanderramin/worklog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mixedDayEvents() []domain.RawEvent {
	return []domain.RawEvent{
		testutil.NewTestWindowEvent(testutil.At(8, 30), 45*time.Minute, "rider64.exe", testutil.WithTitle("rooms - LoginController.cs")),
		testutil.NewTestWindowEvent(testutil.At(9, 15), 10*time.Minute, "GitExtensions.exe", testutil.WithTitle("Commit to feature/ITEM-42-login")),
		testutil.NewTestWindowEvent(testutil.At(9, 25), 35*time.Minute, "ms-teams.exe", testutil.WithTitle("Jane Doe | Microsoft Teams")),
		testutil.NewTestWindowEvent(testutil.At(10, 0), 40*time.Minute, "firefox.exe", testutil.WithTitle("ROMSD-1234 crash - Mozilla Firefox")),
		testutil.NewTestBrowserEvent(testutil.At(10, 0), 40*time.Minute, "https://jira.acme.com/browse/ROMSD-1234", testutil.WithTitle("ROMSD-1234 crash")),
		testutil.NewTestBrowserEvent(testutil.At(11, 30), 20*time.Minute, "https://staging.acme.com/admin", testutil.WithTitle("Admin")),
		testutil.NewTestAFKEvent(testutil.At(11, 50), 40*time.Minute, domain.StatusAFK),
		testutil.NewTestWindowEvent(testutil.At(12, 30), time.Hour, "OUTLOOK.EXE", testutil.WithTitle("Inbox")),
		testutil.NewTestEditorEvent(testutil.At(8, 30), 40*time.Minute, "/src/rooms/LoginController.cs"),
		testutil.NewTestWindowEvent(testutil.At(13, 30), 0, "rider64.exe"),
		testutil.NewTestWindowEvent(testutil.At(13, 30), time.Minute, ""),
	}
}

func TestAnalyze_EntriesPartitionActiveTime(t *testing.T) {
	a := newTestAnalyzer(t, testConfig())
	s := a.Analyze(mixedDayEvents(), testutil.TestDay())

	var spanTotal int64
	ivs, _ := Normalize(mixedDayEvents(), testutil.TestDay())
	for _, iv := range ivs {
		if iv.Kind.IsActive() {
			spanTotal += iv.Seconds()
		}
	}

	assert.Equal(t, s.ActiveSeconds, s.EntrySeconds())
	assert.Equal(t, spanTotal, s.ActiveSeconds+s.IdleSeconds)
	assert.Equal(t, s.EntrySeconds(), s.WorkSeconds()+s.EntrySeconds(domain.CategoryPersonal))
}

func TestAnalyze_Deterministic(t *testing.T) {
	a := newTestAnalyzer(t, testConfig())

	first, err := json.Marshal(a.Analyze(mixedDayEvents(), testutil.TestDay()))
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := json.Marshal(a.Analyze(mixedDayEvents(), testutil.TestDay()))
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}

func TestAnalyze_MixedDay(t *testing.T) {
	a := newTestAnalyzer(t, testConfig())
	s := a.Analyze(mixedDayEvents(), testutil.TestDay())

	assert.Equal(t, "2026-03-02", s.Date)
	assert.Equal(t, domain.SkipCounts{ZeroDuration: 1, Malformed: 1}, s.Skipped)

	// a 50 minute gap without activity, then the AFK lunch
	require.Len(t, s.Breaks, 2)
	assert.True(t, s.Breaks[0].Start.Equal(testutil.At(10, 40)))
	assert.True(t, s.Breaks[1].Start.Equal(testutil.At(11, 50)))
	assert.True(t, s.Breaks[1].End.Equal(testutil.At(12, 30)))
	require.Len(t, s.Sessions, 3)

	dev, ok := entryFor(s, domain.CategoryDevelopment, "")
	require.True(t, ok)
	assert.Equal(t, int64(45*60), dev.Seconds)

	feature, ok := entryFor(s, domain.CategoryDevelopment, "ITEM-42")
	require.True(t, ok)
	assert.Equal(t, int64(10*60), feature.Seconds)
	assert.Equal(t, "Login page", feature.Description)

	meeting, ok := entryFor(s, domain.CategoryMeeting, "Acme")
	require.True(t, ok)
	assert.Equal(t, int64(35*60), meeting.Seconds)

	bug, ok := entryFor(s, domain.CategoryBug, "ROMSD-1234")
	require.True(t, ok)
	assert.Equal(t, int64(2*40*60), bug.Seconds, "window and browser tracks both count")
	assert.Equal(t, "Acme", bug.Client)
	assert.Equal(t, "Service desk", bug.Description)
	assert.Equal(t, 2, bug.SpanCount)

	support, ok := entryFor(s, domain.CategorySupport, "Acme")
	require.True(t, ok)
	assert.Equal(t, int64(20*60), support.Seconds)

	admin, ok := entryFor(s, domain.CategoryAdministrative, "")
	require.True(t, ok)
	assert.Equal(t, int64(60*60), admin.Seconds)

	for i := 1; i < len(s.Entries); i++ {
		assert.LessOrEqual(t, s.Entries[i-1].Category.Rank(), s.Entries[i].Category.Rank())
	}
}

func TestAnalyze_RawTables(t *testing.T) {
	a := newTestAnalyzer(t, testConfig())
	s := a.Analyze(mixedDayEvents(), testutil.TestDay())

	require.NotEmpty(t, s.AppTime)
	assert.Equal(t, domain.TimeRow{Label: "OUTLOOK.EXE", Seconds: 3600}, s.AppTime[0])

	require.Len(t, s.BranchTime, 1)
	assert.Equal(t, "feature/ITEM-42-login", s.BranchTime[0].Label)
	assert.Equal(t, "ITEM-42", s.BranchTime[0].Ticket)

	tickets := make(map[string]int64)
	for _, r := range s.TicketTime {
		tickets[r.Label] = r.Seconds
	}
	assert.Equal(t, int64(2*40*60), tickets["ROMSD-1234"])
	assert.Equal(t, int64(10*60), tickets["ITEM-42"])

	require.Len(t, s.DomainTime, 2)
	assert.Equal(t, "jira.acme.com", s.DomainTime[0].Label)
	assert.Equal(t, "staging.acme.com", s.DomainTime[1].Label)
	assert.Equal(t, "Acme staging", s.DomainTime[1].Hint)

	require.Len(t, s.FileTime, 1)
	assert.Equal(t, "Rooms", s.FileTime[0].Hint)

	require.Len(t, s.Conversations, 1)
	assert.Equal(t, domain.TimeRow{Label: "Jane Doe", Seconds: 35 * 60, Hint: "Acme"}, s.Conversations[0])

	require.NotEmpty(t, s.TitleDetails)
	assert.Equal(t, "OUTLOOK.EXE", s.TitleDetails[0].App)
	assert.Equal(t, "Inbox", s.TitleDetails[0].Titles[0].Label)
}

func TestAnalyze_BugTicketBeatsClientKeyword(t *testing.T) {
	a := newTestAnalyzer(t, testConfig())
	events := []domain.RawEvent{
		testutil.NewTestWindowEvent(testutil.At(10, 0), 30*time.Minute, "chrome.exe",
			testutil.WithTitle("ROMSD-1234 acme portal outage")),
	}

	s := a.Analyze(events, testutil.TestDay())
	require.Len(t, s.Entries, 1)
	assert.Equal(t, domain.CategoryBug, s.Entries[0].Category)
	assert.Equal(t, "ROMSD-1234", s.Entries[0].TicketID)
	assert.Equal(t, "Acme", s.Entries[0].Client)
}

func TestAnalyze_BugTicketOnPullRequestPage(t *testing.T) {
	a := newTestAnalyzer(t, testConfig())
	events := []domain.RawEvent{
		testutil.NewTestBrowserEvent(testutil.At(10, 0), 20*time.Minute, "https://git.example.org/rooms/pull/77",
			testutil.WithTitle("ROMSD-1234 fix null ref - Pull Request")),
		testutil.NewTestBrowserEvent(testutil.At(10, 20), 10*time.Minute, "https://git.example.org/rooms/pull/78",
			testutil.WithTitle("Bump dependencies - Pull Request")),
	}

	s := a.Analyze(events, testutil.TestDay())
	require.Len(t, s.Entries, 2)

	bug, ok := entryFor(s, domain.CategoryBug, "ROMSD-1234")
	require.True(t, ok)
	assert.Equal(t, int64(20*60), bug.Seconds)

	review, ok := entryFor(s, domain.CategoryCodeReview, "")
	require.True(t, ok)
	assert.Equal(t, int64(10*60), review.Seconds)
}

func personalDay(devMinutes, personalMinutes int) []domain.RawEvent {
	start := testutil.At(10, 0)
	dev := time.Duration(devMinutes) * time.Minute
	return []domain.RawEvent{
		testutil.NewTestWindowEvent(start, dev, "rider64.exe", testutil.WithTitle("rooms")),
		testutil.NewTestBrowserEvent(start.Add(dev), time.Duration(personalMinutes)*time.Minute,
			"https://www.youtube.com/watch", testutil.WithTitle("Lo-fi beats")),
	}
}

func TestAnalyze_PersonalInHeavyCodingSessionCountsAsWork(t *testing.T) {
	cfg := testConfig()
	cfg.Thresholds.DevShare = 0.5
	a := newTestAnalyzer(t, cfg)

	s := a.Analyze(personalDay(60, 10), testutil.TestDay())
	assert.Zero(t, s.EntrySeconds(domain.CategoryPersonal))
	assert.Equal(t, int64(70*60), s.EntrySeconds(domain.CategoryDevelopment))
	require.Len(t, s.PersonalFlags, 1, "raw detection still flags it")
	assert.Equal(t, "youtube", s.PersonalFlags[0].Hint)
}

func TestAnalyze_PersonalInLightSessionExcluded(t *testing.T) {
	cfg := testConfig()
	cfg.Thresholds.DevShare = 0.5
	a := newTestAnalyzer(t, cfg)

	s := a.Analyze(personalDay(10, 60), testutil.TestDay())
	assert.Equal(t, int64(60*60), s.EntrySeconds(domain.CategoryPersonal))
	assert.Equal(t, int64(10*60), s.WorkSeconds())
}

func TestAnalyze_DevShareDisabledByDefault(t *testing.T) {
	a := newTestAnalyzer(t, testConfig())

	s := a.Analyze(personalDay(60, 10), testutil.TestDay())
	assert.Equal(t, int64(10*60), s.EntrySeconds(domain.CategoryPersonal))
}

func TestAnalyze_LunchBreak(t *testing.T) {
	a := newTestAnalyzer(t, testConfig())
	s := a.Analyze(testutil.WorkdayEvents(), testutil.TestDay())

	require.Len(t, s.Breaks, 1)
	assert.True(t, s.Breaks[0].Start.Equal(testutil.At(12, 0)))
	assert.True(t, s.Breaks[0].End.Equal(testutil.At(12, 30)))
	assert.Equal(t, int64(30*60), s.Breaks[0].Seconds)
	assert.Len(t, s.Sessions, 2)

	assert.Equal(t, int64(27000), s.ActiveSeconds)
	assert.Equal(t, int64(27000), s.AFKActiveSeconds)
	assert.Equal(t, int64(27000), s.EntrySeconds(domain.CategoryDevelopment))
}

func TestAnalyze_SessionsAndBreaksCoverObservedDay(t *testing.T) {
	a := newTestAnalyzer(t, testConfig())
	s := a.Analyze(mixedDayEvents(), testutil.TestDay())

	var covered int64
	for _, w := range s.Sessions {
		covered += w.Seconds()
	}
	for _, b := range s.Breaks {
		covered += b.Seconds
	}
	observed := s.Sessions[len(s.Sessions)-1].End.Sub(s.Sessions[0].Start)
	assert.Equal(t, int64(observed/time.Second), covered)
	assert.True(t, s.Sessions[0].Start.Equal(testutil.At(8, 30)), "leading idle is not a break")
}

func TestAnalyze_AFKInsideWindowSpanIsIdle(t *testing.T) {
	a := newTestAnalyzer(t, testConfig())
	events := []domain.RawEvent{
		testutil.NewTestWindowEvent(testutil.At(9, 0), 8*time.Hour, "rider64.exe"),
		testutil.NewTestAFKEvent(testutil.At(12, 0), 30*time.Minute, domain.StatusAFK),
	}

	s := a.Analyze(events, testutil.TestDay())
	assert.Equal(t, int64(27000), s.ActiveSeconds)
	assert.Equal(t, int64(1800), s.IdleSeconds)
	assert.Equal(t, s.ActiveSeconds, s.EntrySeconds())
}

func TestAnalyze_ZeroDurationEventDropped(t *testing.T) {
	a := newTestAnalyzer(t, testConfig())
	base := a.Analyze(testutil.WorkdayEvents(), testutil.TestDay())

	events := append(testutil.WorkdayEvents(),
		testutil.NewTestWindowEvent(testutil.At(10, 0), 0, "slack.exe", testutil.WithTitle("general")))
	s := a.Analyze(events, testutil.TestDay())

	assert.Equal(t, 1, s.Skipped.ZeroDuration)
	assert.Equal(t, 1, s.Skipped.Total())
	assert.Equal(t, base.ActiveSeconds, s.ActiveSeconds)
	assert.Equal(t, base.Entries, s.Entries)
	assert.Equal(t, base.AppTime, s.AppTime)
}

func TestAnalyze_NoEvents(t *testing.T) {
	a := newTestAnalyzer(t, testConfig())
	s := a.Analyze(nil, testutil.TestDay())

	assert.True(t, s.IsEmpty())
	assert.NotNil(t, s.Sessions)
	assert.NotNil(t, s.Breaks)
	assert.NotNil(t, s.Entries)
	assert.Empty(t, s.Entries)
	assert.Zero(t, s.ActiveSeconds)
}

func TestAnalyze_MissingTablesDegrade(t *testing.T) {
	cfg := testConfig()
	cfg.KnownTickets = nil
	cfg.TicketPrefixes[1].Description = ""
	a := newTestAnalyzer(t, cfg)

	events := []domain.RawEvent{
		testutil.NewTestWindowEvent(testutil.At(9, 0), 10*time.Minute, "GitExtensions.exe", testutil.WithTitle("Commit to feature/ITEM-42-login")),
	}
	s := a.Analyze(events, testutil.TestDay())
	require.Len(t, s.Entries, 1)
	assert.Equal(t, "ITEM-42", s.Entries[0].TicketID)
	assert.Empty(t, s.Entries[0].Description)
}
