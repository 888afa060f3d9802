package cli

import (
	"sync"
	"time"

	"github.com/alexanderramin/worklog/internal/config"
	"github.com/alexanderramin/worklog/internal/service"
	"github.com/spf13/cobra"
)

// Options are the global flags shared by every command.
type Options struct {
	ConfigPath string
	Database   string
	Export     string
	Hostname   string
	Verbose    bool
}

// Env is an opened data source with the service built on top of it.
type Env struct {
	Worklog service.WorklogService
	Config  config.Config
	// Source is the database or export file backing Worklog.
	Source string
	Close  func() error
}

// Opener builds an Env from the resolved global flags.
type Opener func(opts Options) (*Env, error)

// App holds what the commands need from the outside world.
type App struct {
	Open Opener
	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool
	Now           func() time.Time

	opts    Options
	once    sync.Once
	env     *Env
	openErr error
}

// NewRootCmd creates the top-level "worklog" command. Without a subcommand
// it reports on a single day or a date range.
func NewRootCmd(app *App) *cobra.Command {
	if app.Now == nil {
		app.Now = time.Now
	}
	if app.IsInteractive == nil {
		app.IsInteractive = func() bool { return false }
	}
	if app.Open == nil {
		app.Open = OpenEnv
	}

	root := newReportCmd(app)
	root.Use = "worklog [date]"
	root.Short = "Summarize ActivityWatch data into worklog entries"
	root.Long = `Summarize ActivityWatch data into categorized worklog entries.

Dates may be given as 2026-03-02, 02.03.2026, 02/03/2026, 02-03-2026,
today or yesterday. Without a date, worklog asks for one on a terminal
and reports on today otherwise.`
	root.SilenceUsage = true

	pf := root.PersistentFlags()
	pf.StringVar(&app.opts.ConfigPath, "config", "", "Path to config.toml or legacy config.json")
	pf.StringVar(&app.opts.Database, "db", "", "Path to the ActivityWatch SQLite database")
	pf.StringVar(&app.opts.Export, "export", "", "Path to an aw-buckets-export.json(.zst) file")
	pf.StringVar(&app.opts.Hostname, "host", "", "Only read watcher buckets of this hostname")
	pf.BoolVarP(&app.opts.Verbose, "verbose", "v", false, "Log use case timings to stderr")

	root.AddCommand(
		newBucketsCmd(app),
		newWatchCmd(app),
	)

	return root
}

// environment opens the data source once per process.
func (a *App) environment() (*Env, error) {
	a.once.Do(func() {
		a.env, a.openErr = a.Open(a.opts)
	})
	return a.env, a.openErr
}

func (a *App) close() error {
	if a.env == nil || a.env.Close == nil {
		return nil
	}
	return a.env.Close()
}
