package cli

import (
	"bytes"
	"fmt"
	"time"

	"github.com/alexanderramin/worklog/internal/cli/formatter"
	"github.com/alexanderramin/worklog/internal/service"
	"github.com/spf13/cobra"
)

type reportFlags struct {
	format string
	ai     bool
	from   time.Time
	to     time.Time
	pager  bool
	minRow int
}

func newReportCmd(app *App) *cobra.Command {
	var f reportFlags

	cmd := &cobra.Command{
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := formatter.ParseFormat(f.format)
			if err != nil {
				return err
			}
			if f.ai {
				format = formatter.FormatDigest
			}

			req, err := reportRequest(app, cmd, args, f)
			if err != nil {
				return err
			}

			env, err := app.environment()
			if err != nil {
				return err
			}
			defer app.close()

			stop := func() {}
			if app.IsInteractive() && format == formatter.FormatTable {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Reading ActivityWatch data...")
			}
			resp, err := env.Worklog.Summarize(cmd.Context(), req)
			stop()
			if err != nil {
				return err
			}

			opts := formatter.Options{
				Location:      env.Config.Location(),
				Now:           app.Now(),
				MinRowSeconds: int64(env.Config.Thresholds.MinRowSeconds),
			}
			if f.minRow > 0 {
				opts.MinRowSeconds = int64(f.minRow)
			}

			if f.pager && app.IsInteractive() {
				var buf bytes.Buffer
				if err := formatter.Render(&buf, format, resp.Days, opts); err != nil {
					return err
				}
				return runPager(pagerTitle(resp), buf.String())
			}
			return formatter.Render(cmd.OutOrStdout(), format, resp.Days, opts)
		},
	}

	cmd.Flags().StringVarP(&f.format, "format", "f", string(formatter.FormatTable), "Output format: table, digest, markdown or json")
	cmd.Flags().BoolVar(&f.ai, "ai", false, "Shorthand for --format digest")
	cmd.Flags().Var(newDateValue(&f.from, app.nowFunc), "from", "First day of a date range")
	cmd.Flags().Var(newDateValue(&f.to, app.nowFunc), "to", "Last day of a date range (default: today)")
	cmd.Flags().BoolVar(&f.pager, "pager", false, "Show output in a scrollable pager")
	cmd.Flags().IntVar(&f.minRow, "min-seconds", 0, "Hide table rows shorter than this many seconds")

	return cmd
}

// nowFunc defers to App.Now so tests can pin the clock after construction.
func (a *App) nowFunc() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

// reportRequest resolves which days to summarize from the positional date,
// the range flags, an interactive prompt or today.
func reportRequest(app *App, cmd *cobra.Command, args []string, f reportFlags) (service.SummaryRequest, error) {
	ranged := cmd.Flags().Changed("from") || cmd.Flags().Changed("to")
	if ranged && len(args) > 0 {
		return service.SummaryRequest{}, fmt.Errorf("give either a date or --from/--to, not both")
	}

	if ranged {
		from, to := f.from, f.to
		if to.IsZero() {
			to = civil(app.Now())
		}
		if from.IsZero() {
			from = to
		}
		return service.SummaryRequest{From: from, To: to}, nil
	}

	if len(args) == 1 {
		day, err := parseDate(args[0], app.Now())
		if err != nil {
			return service.SummaryRequest{}, err
		}
		return service.NewDayRequest(day), nil
	}

	if app.IsInteractive() {
		day, err := promptDate(app.Now)
		if err != nil {
			return service.SummaryRequest{}, err
		}
		return service.NewDayRequest(day), nil
	}
	return service.NewDayRequest(civil(app.Now())), nil
}

func pagerTitle(resp *service.SummaryResponse) string {
	switch len(resp.Days) {
	case 0:
		return "worklog"
	case 1:
		return "worklog " + resp.Days[0].Date
	default:
		return fmt.Sprintf("worklog %s to %s", resp.Days[0].Date, resp.Days[len(resp.Days)-1].Date)
	}
}
