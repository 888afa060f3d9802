package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/worklog/internal/analyzer"
	"github.com/alexanderramin/worklog/internal/config"
	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/alexanderramin/worklog/internal/repository"
	"github.com/alexanderramin/worklog/internal/service"
	"github.com/alexanderramin/worklog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp wires an App to an in-memory event database holding the
// canonical workday. The clock is pinned to the evening of that day.
func testApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestAWDB(t)
	testutil.SeedWorkday(t, database)

	cfg := config.DefaultConfig()
	cfg.Timezone = "UTC"
	an, err := analyzer.New(cfg)
	require.NoError(t, err)

	env := &Env{
		Worklog: service.NewWorklogService(repository.NewSQLiteEventSource(database), an, "andromeda", time.UTC),
		Config:  cfg,
		Source:  "memory",
	}
	return &App{
		Open: func(Options) (*Env, error) { return env, nil },
		Now:  func() time.Time { return testutil.At(18, 0) },
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func decodeDays(t *testing.T, out string) []domain.WorklogSummary {
	t.Helper()
	var days []domain.WorklogSummary
	require.NoError(t, json.Unmarshal([]byte(out), &days), out)
	return days
}

func TestReport_DefaultsToToday(t *testing.T) {
	out, err := executeCmd(t, testApp(t))
	require.NoError(t, err)

	assert.Contains(t, out, "Worklog Summary - 2026-03-02")
	assert.Contains(t, out, "Development")
	assert.Contains(t, out, "rider64.exe")
}

func TestReport_PositionalDateFormats(t *testing.T) {
	for _, arg := range []string{"2026-03-02", "02.03.2026", "02/03/2026", "02-03-2026", "today"} {
		t.Run(arg, func(t *testing.T) {
			out, err := executeCmd(t, testApp(t), arg, "--format", "json")
			require.NoError(t, err)

			days := decodeDays(t, out)
			require.Len(t, days, 1)
			assert.Equal(t, "2026-03-02", days[0].Date)
			assert.Equal(t, int64(27000), days[0].EntrySeconds())
		})
	}
}

func TestReport_Yesterday(t *testing.T) {
	out, err := executeCmd(t, testApp(t), "yesterday", "-f", "json")
	require.NoError(t, err)

	days := decodeDays(t, out)
	require.Len(t, days, 1)
	assert.Equal(t, "2026-03-01", days[0].Date)
	assert.Empty(t, days[0].Entries)
}

func TestReport_AIFlagSelectsDigest(t *testing.T) {
	out, err := executeCmd(t, testApp(t), "2026-03-02", "--ai")
	require.NoError(t, err)

	assert.Contains(t, out, "# ActivityWatch Data for 2026-03-02")
	assert.Contains(t, out, "**Total Active: 7.5h**")
	assert.Contains(t, out, "**Window: 09:00 - 17:00**")
}

func TestReport_Markdown(t *testing.T) {
	out, err := executeCmd(t, testApp(t), "2026-03-02", "--format", "md")
	require.NoError(t, err)

	assert.Contains(t, out, "## Worklog 2026-03-02")
	assert.Contains(t, out, "| Development |")
}

func TestReport_Range(t *testing.T) {
	out, err := executeCmd(t, testApp(t), "--from", "01.03.2026", "--to", "2026-03-03", "-f", "json")
	require.NoError(t, err)

	days := decodeDays(t, out)
	require.Len(t, days, 3)
	assert.Equal(t, "2026-03-01", days[0].Date)
	assert.Equal(t, "2026-03-03", days[2].Date)
}

func TestReport_FromOnlyRunsToToday(t *testing.T) {
	out, err := executeCmd(t, testApp(t), "--from", "yesterday", "-f", "json")
	require.NoError(t, err)

	days := decodeDays(t, out)
	require.Len(t, days, 2)
	assert.Equal(t, "2026-03-02", days[1].Date)
}

func TestReport_InvertedRange(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "--from", "2026-03-05", "--to", "2026-03-01")
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrInvalidRange))
}

func TestReport_DateAndRangeConflict(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "2026-03-02", "--from", "2026-03-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not both")
}

func TestReport_InvalidInput(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "next tuesday")
	assert.Error(t, err)

	_, err = executeCmd(t, testApp(t), "--from", "2026-13-45")
	assert.Error(t, err)

	_, err = executeCmd(t, testApp(t), "--format", "yaml")
	assert.Error(t, err)
}

func TestReport_OpenErrorIsReturned(t *testing.T) {
	app := &App{Open: func(Options) (*Env, error) { return nil, errors.New("no database") }}
	_, err := executeCmd(t, app, "2026-03-02")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no database")
}

func TestReport_GlobalFlagsReachOpener(t *testing.T) {
	var got Options
	app := &App{Open: func(o Options) (*Env, error) {
		got = o
		return nil, errors.New("stop")
	}}
	_, _ = executeCmd(t, app, "--db", "/tmp/aw.db", "--host", "andromeda", "--config", "/tmp/c.toml", "-v", "today")

	assert.Equal(t, Options{ConfigPath: "/tmp/c.toml", Database: "/tmp/aw.db", Hostname: "andromeda", Verbose: true}, got)
}

func TestBucketsCmd(t *testing.T) {
	out, err := executeCmd(t, testApp(t), "buckets")
	require.NoError(t, err)

	assert.Contains(t, out, "aw-watcher-window_andromeda")
	assert.Contains(t, out, "aw-watcher-afk_andromeda")
	assert.Contains(t, out, "currentwindow")
	assert.Contains(t, out, "andromeda")
}
