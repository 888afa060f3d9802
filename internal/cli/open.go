package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/alexanderramin/worklog/internal/analyzer"
	"github.com/alexanderramin/worklog/internal/config"
	"github.com/alexanderramin/worklog/internal/db"
	"github.com/alexanderramin/worklog/internal/repository"
	"github.com/alexanderramin/worklog/internal/service"
)

// OpenEnv loads the configuration, applies flag overrides and opens either
// the export file or the ActivityWatch database. Every failure wraps
// service.ErrDataSourceUnavailable.
func OpenEnv(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("%w: loading config: %w", service.ErrDataSourceUnavailable, err)
	}
	applyFlags(&cfg, opts)

	an, err := analyzer.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: building analyzer: %w", service.ErrDataSourceUnavailable, err)
	}

	var observers []service.UseCaseObserver
	if opts.Verbose || cfg.LogCalls {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	env := &Env{Config: cfg, Close: func() error { return nil }}
	var source repository.EventSource
	switch {
	case cfg.Export != "":
		env.Source = cfg.Export
		source = repository.NewExportEventSource(cfg.Export)
	default:
		path := cfg.Database
		if path == "" {
			path = defaultDatabasePath()
		}
		database, err := db.OpenDB(path)
		if err != nil {
			return nil, fmt.Errorf("%w: opening database: %w", service.ErrDataSourceUnavailable, err)
		}
		env.Source = path
		env.Close = database.Close
		source = repository.NewSQLiteEventSource(database)
	}

	env.Worklog = service.NewWorklogService(source, an, cfg.Hostname, cfg.Location(), observers...)
	return env, nil
}

// applyFlags lets command-line flags win over file and environment settings.
// An explicit --db or --export clears the other source.
func applyFlags(cfg *config.Config, opts Options) {
	if opts.Database != "" {
		cfg.Database = opts.Database
		cfg.Export = ""
	}
	if opts.Export != "" {
		cfg.Export = opts.Export
		cfg.Database = ""
	}
	if opts.Hostname != "" {
		cfg.Hostname = opts.Hostname
	}
}

// defaultDatabasePath is where aw-server stores its database on this OS.
func defaultDatabasePath() string {
	const file = "peewee-sqlite.v2.db"
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "windows":
		base := os.Getenv("LOCALAPPDATA")
		if base == "" {
			base = filepath.Join(home, "AppData", "Local")
		}
		return filepath.Join(base, "activitywatch", "activitywatch", "aw-server", file)
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "activitywatch", "aw-server", file)
	default:
		base := os.Getenv("XDG_DATA_HOME")
		if strings.TrimSpace(base) == "" {
			base = filepath.Join(home, ".local", "share")
		}
		return filepath.Join(base, "activitywatch", "aw-server", file)
	}
}
