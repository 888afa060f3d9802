package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/worklog/internal/cli/formatter"
	"github.com/alexanderramin/worklog/internal/service"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

const defaultWatchDebounce = 2 * time.Second

func newWatchCmd(app *App) *cobra.Command {
	var format string
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-render today's summary whenever the data source changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := formatter.ParseFormat(format)
			if err != nil {
				return err
			}
			env, err := app.environment()
			if err != nil {
				return err
			}
			defer app.close()

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("starting file watcher: %w", err)
			}
			defer watcher.Close()

			// SQLite writes land in -wal and -journal siblings, so watch the directory.
			if err := watcher.Add(filepath.Dir(env.Source)); err != nil {
				return fmt.Errorf("watching %s: %w", env.Source, err)
			}

			out := cmd.OutOrStdout()
			clearScreen := app.IsInteractive()
			render := func(ctx context.Context) error {
				return renderToday(ctx, out, env, app.Now(), f, clearScreen)
			}
			if err := render(cmd.Context()); err != nil {
				return err
			}
			return watchLoop(cmd.Context(), watcher.Events, watcher.Errors, filepath.Base(env.Source), debounce, render)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(formatter.FormatTable), "Output format: table, digest, markdown or json")
	cmd.Flags().DurationVar(&debounce, "debounce", defaultWatchDebounce, "Quiet period before re-rendering after a change")
	return cmd
}

func renderToday(ctx context.Context, w io.Writer, env *Env, now time.Time, f formatter.Format, clearScreen bool) error {
	resp, err := env.Worklog.Summarize(ctx, service.NewDayRequest(civil(now.In(env.Config.Location()))))
	if err != nil {
		return err
	}
	if clearScreen {
		fmt.Fprint(w, "\033[H\033[2J")
	}
	return formatter.Render(w, f, resp.Days, formatter.Options{
		Location:      env.Config.Location(),
		Now:           now,
		MinRowSeconds: int64(env.Config.Thresholds.MinRowSeconds),
	})
}

// watchLoop calls render once per burst of writes to files whose name starts
// with base. It returns when ctx ends or the event channel closes.
func watchLoop(
	ctx context.Context,
	events <-chan fsnotify.Event,
	errs <-chan error,
	base string,
	debounce time.Duration,
	render func(context.Context) error,
) error {
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !strings.HasPrefix(filepath.Base(ev.Name), base) || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			timer.Reset(debounce)
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			return fmt.Errorf("watching data source: %w", err)
		case <-timer.C:
			if err := render(ctx); err != nil {
				return err
			}
		}
	}
}
