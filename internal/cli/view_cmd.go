package cli

import (
	"context"
	"errors"

	"github.com/alexanderramin/weekplot/internal/highlight"
	"github.com/alexanderramin/weekplot/internal/service"
	"github.com/spf13/cobra"
)

// ErrNotTerminal is returned by view when stdout is not a terminal.
var ErrNotTerminal = errors.New("view needs an interactive terminal; use summary or render instead")

func newViewCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse the weekly timeline in the terminal",
		Long: "Browse the weekly timeline in the terminal. Cycling through categories\n" +
			"highlights one series and dims the rest; the export key writes the report\n" +
			"with the current highlight applied.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsTerminal == nil || !app.IsTerminal() {
				return ErrNotTerminal
			}

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

			exportFn := func(ctx context.Context, state highlight.State) (int, error) {
				res, err := p.svc.Export(ctx, report, service.ExportRequest{
					Dir:       cfg.OutputDir,
					Name:      cfg.Name,
					Formats:   formats,
					Highlight: state,
				})
				if err != nil {
					return 0, err
				}
				return len(res.Artifacts), nil
			}

			return app.RunProgram(cmd.Context(), newViewerModel(report, p.registry, exportFn))
		},
	}

	addInputFlags(cmd)
	addOutputFlags(cmd)
	return cmd
}
