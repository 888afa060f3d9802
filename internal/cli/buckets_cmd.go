package cli

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/worklog/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newBucketsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "buckets",
		Short: "List the watcher buckets found in the data source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.environment()
			if err != nil {
				return err
			}
			defer app.close()

			buckets, err := env.Worklog.Buckets(cmd.Context())
			if err != nil {
				return err
			}
			if len(buckets) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No buckets found in "+env.Source))
				return nil
			}

			rows := make([][]string, 0, len(buckets))
			for _, b := range buckets {
				kind := string(b.Kind)
				if kind == "" {
					kind = formatter.Dim("ignored")
				}
				rows = append(rows, []string{strconv.FormatInt(b.ID, 10), b.Name, b.Type, kind, b.Host})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderAlignedTable(
				[]string{"ID", "NAME", "TYPE", "KIND", "HOST"},
				[]formatter.Align{formatter.AlignRight},
				rows,
			))
			return nil
		},
	}
}
