package analyzer

import (
	"testing"
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/alexanderramin/worklog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_SortsAndLabels(t *testing.T) {
	events := []domain.RawEvent{
		testutil.NewTestBrowserEvent(testutil.At(10, 0), time.Minute, "https://Jira.Acme.com/browse/ROMSD-1/?focus=1#c",
			testutil.WithTitle(" ROMSD-1 crash ")),
		testutil.NewTestWindowEvent(testutil.At(9, 0), time.Minute, "rider64.exe"),
		testutil.NewTestAFKEvent(testutil.At(9, 30), time.Minute, "Not-AFK"),
		testutil.NewTestEditorEvent(testutil.At(9, 45), time.Minute, "/src/rooms/main.go", testutil.WithProject("rooms")),
	}

	out, skipped := Normalize(events, testutil.TestDay())
	require.Len(t, out, 4)
	assert.Zero(t, skipped.Total())

	assert.Equal(t, "rider64.exe", out[0].Label)
	assert.Equal(t, domain.StatusNotAFK, out[1].Label)
	assert.Equal(t, "/src/rooms/main.go", out[2].Label)
	assert.Equal(t, "rooms", out[2].Project)

	browser := out[3]
	assert.Equal(t, "jira.acme.com/browse/ROMSD-1", browser.Label)
	assert.Equal(t, "jira.acme.com", browser.Host)
	assert.Equal(t, "ROMSD-1 crash", browser.Title)
	assert.Equal(t, int64(60), browser.Seconds())
}

func TestNormalize_SkipsAndCounts(t *testing.T) {
	day := testutil.TestDay()
	events := []domain.RawEvent{
		testutil.NewTestWindowEvent(testutil.At(9, 0), 0, "code"),
		testutil.NewTestWindowEvent(testutil.At(9, 0), 400*time.Millisecond, "code"),
		testutil.NewTestWindowEvent(testutil.At(9, 0), -time.Second, "code"),
		testutil.NewTestWindowEvent(testutil.At(9, 0), time.Minute, ""),
		testutil.NewTestBrowserEvent(testutil.At(9, 0), time.Minute, "not a url"),
		testutil.NewTestAFKEvent(testutil.At(9, 0), time.Minute, "sleeping"),
		testutil.NewTestWindowEvent(day.Start.Add(-time.Second), time.Minute, "code"),
		testutil.NewTestWindowEvent(day.End, time.Minute, "code"),
		testutil.NewTestWindowEvent(testutil.At(9, 0), time.Minute, "code"),
	}

	out, skipped := Normalize(events, day)
	require.Len(t, out, 1)
	assert.Equal(t, domain.SkipCounts{ZeroDuration: 3, Malformed: 3, OutOfRange: 2}, skipped)
	assert.Equal(t, 8, skipped.Total())
}

func TestNormalize_CountsUnreadableTimestamps(t *testing.T) {
	day := testutil.TestDay()
	bad := testutil.NewTestWindowEvent(testutil.At(10, 0), time.Minute, "code")
	bad.Malformed = true

	out, skipped := Normalize([]domain.RawEvent{bad}, day)
	assert.Empty(t, out)
	assert.Equal(t, domain.SkipCounts{Malformed: 1}, skipped)
}

func TestNormalize_ClipsAtDayEnd(t *testing.T) {
	day := testutil.TestDay()
	events := []domain.RawEvent{
		testutil.NewTestWindowEvent(day.End.Add(-30*time.Second), 5*time.Minute, "code"),
	}

	out, _ := Normalize(events, day)
	require.Len(t, out, 1)
	assert.True(t, out[0].End.Equal(day.End))
	assert.Equal(t, int64(30), out[0].Seconds())
}

func TestNormalize_RoundsToWholeSeconds(t *testing.T) {
	events := []domain.RawEvent{
		testutil.NewTestWindowEvent(testutil.At(9, 0).Add(700*time.Millisecond), 1500*time.Millisecond, "code"),
	}

	out, _ := Normalize(events, testutil.TestDay())
	require.Len(t, out, 1)
	assert.True(t, out[0].Start.Equal(testutil.At(9, 0)))
	assert.Equal(t, int64(2), out[0].Seconds())
}
