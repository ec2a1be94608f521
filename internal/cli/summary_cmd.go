package cli

import (
	"fmt"

	"github.com/alexanderramin/weekplot/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newSummaryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print weekly and per-day category shares",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.newPipeline()
			if err != nil {
				return err
			}
			report, err := p.build(cmd.Context(), cmd.ErrOrStderr(), app.cfg.Input)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.FormatWeekly(report.Weekly, p.registry))
			fmt.Fprintln(out)
			fmt.Fprint(out, formatter.FormatDays(report.Days, p.registry))
			return nil
		},
	}

	addInputFlags(cmd)
	return cmd
}
