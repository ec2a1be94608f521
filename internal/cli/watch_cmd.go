package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderramin/weekplot/internal/logging"
	"github.com/alexanderramin/weekplot/internal/service"
	"github.com/alexanderramin/weekplot/internal/watch"
	"github.com/spf13/cobra"
)

func newWatchCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-render the report whenever the schedule changes",
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

			out := cmd.OutOrStdout()
			w := &watch.Watcher{
				Path:       cfg.Input,
				Debounce:   cfg.Watch.Debounce,
				Logger:     logging.Component("watch"),
				InitialRun: true,
				Handler: func(ctx context.Context, path string) error {
					report, err := p.build(ctx, cmd.ErrOrStderr(), path)
					if err != nil {
						return err
					}
					res, err := p.svc.Export(ctx, report, service.ExportRequest{
						Dir:        cfg.OutputDir,
						Name:       cfg.Name,
						Formats:    formats,
						Standalone: cfg.Standalone,
					})
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%s rendered %d files from %d records\n",
						time.Now().Format("15:04:05"), len(res.Artifacts), len(report.Records))
					return nil
				},
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return w.Run(ctx)
		},
	}

	addInputFlags(cmd)
	addOutputFlags(cmd)
	cmd.Flags().Duration("debounce", 0, "Quiet period before a rebuild")
	return cmd
}
