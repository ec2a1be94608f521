package cli

import (
	"fmt"

	"github.com/alexanderramin/weekplot/internal/cli/formatter"
	"github.com/alexanderramin/weekplot/internal/service"
	"github.com/spf13/cobra"
)

func newRenderCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Build the report and export it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.cfg
			formats, err := cfg.ExportFormats()
			if err != nil {
				return err
			}

			p, err := app.newPipeline()
			if err != nil {
				return err
			}
			report, err := p.build(cmd.Context(), cmd.ErrOrStderr(), cfg.Input)
			if err != nil {
				return err
			}

			res, err := p.svc.Export(cmd.Context(), report, service.ExportRequest{
				Dir:        cfg.OutputDir,
				Name:       cfg.Name,
				Formats:    formats,
				Standalone: cfg.Standalone,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.FormatArtifacts(res.Artifacts))
			fmt.Fprintf(out, "%s %d records, %d categories, %d rejected %s\n",
				formatter.Bold("Rendered"), len(report.Records), len(report.Weekly.Categories),
				len(report.Rejections), formatter.TruncID(report.RunID))
			return nil
		},
	}

	addInputFlags(cmd)
	addOutputFlags(cmd)
	return cmd
}
