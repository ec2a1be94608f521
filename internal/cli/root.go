package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/weekplot/internal/cli/formatter"
	"github.com/alexanderramin/weekplot/internal/config"
	"github.com/alexanderramin/weekplot/internal/export"
	"github.com/alexanderramin/weekplot/internal/importer"
	"github.com/alexanderramin/weekplot/internal/logging"
	"github.com/alexanderramin/weekplot/internal/schedule"
	"github.com/alexanderramin/weekplot/internal/service"
	"github.com/alexanderramin/weekplot/internal/style"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// ErrValidationFailed is returned when rejected rows abort a build.
var ErrValidationFailed = errors.New("schedule validation failed")

// flagKeys maps command flags to config keys. Flags only override the
// config file and environment when set explicitly.
var flagKeys = map[string]string{
	"input":      "input",
	"out":        "output_dir",
	"name":       "name",
	"formats":    "formats",
	"policy":     "policy",
	"palette":    "palette",
	"standalone": "standalone",
	"raster":     "raster.backend",
	"scale":      "raster.scale",
	"debounce":   "watch.debounce",
	"log-level":  "logging.level",
	"log-format": "logging.format",
}

// App holds the process-level hooks used by CLI commands.
type App struct {
	// IsTerminal reports whether stdout is an interactive terminal.
	IsTerminal func() bool
	// RunProgram runs a terminal UI model until it quits.
	RunProgram func(ctx context.Context, m tea.Model) error

	cfg *config.Config
}

// NewApp returns an App wired to the real terminal.
func NewApp() *App {
	return &App{
		IsTerminal: func() bool {
			fd := os.Stdout.Fd()
			return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
		},
		RunProgram: func(ctx context.Context, m tea.Model) error {
			_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}
}

// NewRootCmd creates the top-level "weekplot" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "weekplot",
		Short:         "Render a weekly schedule as a composite report",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.loadConfig(cmd, configFile)
		},
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ./weekplot.yaml)")
	root.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "", "Log format (auto, json, console)")

	root.AddCommand(
		newRenderCmd(app),
		newSummaryCmd(app),
		newWatchCmd(app),
		newViewCmd(app),
	)

	return root
}

func (a *App) loadConfig(cmd *cobra.Command, path string) error {
	loader := config.NewLoader()
	if path != "" {
		loader.SetConfigFile(path)
	}
	if err := loader.BindFlags(cmd.Flags(), flagKeys); err != nil {
		return err
	}

	cfg, err := loader.Load()
	if err != nil {
		return err
	}
	if skip, _ := cmd.Flags().GetBool("skip-invalid"); skip {
		cfg.Policy = string(schedule.PolicySkip)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	})
	if used := loader.ConfigFileUsed(); used != "" {
		logging.Logger.Debug().Str("file", used).Msg("loaded config")
	}

	a.cfg = cfg
	return nil
}

// pipeline is a report service plus the color registry it draws with.
type pipeline struct {
	svc      service.ReportService
	registry *style.Registry
}

func (a *App) newPipeline() (*pipeline, error) {
	cfg := a.cfg

	palette, err := style.LoadPalette(cfg.Palette)
	if err != nil {
		return nil, err
	}
	registry := palette.Registry()

	raster, err := export.NewRasterizer(cfg.Raster.Backend, cfg.Raster.Scale)
	if err != nil {
		return nil, err
	}
	if br, ok := raster.(*export.BrowserRasterizer); ok {
		br.Bin = cfg.Raster.BrowserBin
		br.ControlURL = cfg.Raster.ControlURL
	}

	policy, err := cfg.RejectionPolicy()
	if err != nil {
		return nil, err
	}

	svc, err := service.NewReportService(service.Options{
		Policy:                policy,
		DayAliases:            cfg.Days.Aliases,
		KeepCanonicalDayOrder: !cfg.Layout.ReverseTimelineDays,
		Registry:              registry,
		Exporter:              export.NewExporter(raster),
	}, service.NewLogUseCaseObserver(logging.Component("service")))
	if err != nil {
		return nil, err
	}
	return &pipeline{svc: svc, registry: registry}, nil
}

// build runs the report build and prints the rejection report to errOut.
func (p *pipeline) build(ctx context.Context, errOut io.Writer, input string) (*service.Report, error) {
	report, err := p.svc.Build(ctx, importer.NewCSVSource(input))

	var rejected *schedule.RejectedRowsError
	if errors.As(err, &rejected) {
		fmt.Fprint(errOut, formatter.FormatRejections(rejected.Rejections))
		return nil, fmt.Errorf("%w: %d rejected rows (rerun with --skip-invalid to render the valid rows)",
			ErrValidationFailed, rejected.Count())
	}
	if err != nil {
		return nil, err
	}

	if len(report.Rejections) > 0 {
		fmt.Fprint(errOut, formatter.FormatRejections(report.Rejections))
	}
	return report, nil
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("input", "i", "", "Schedule CSV file")
	cmd.Flags().String("policy", "", "Rejected row policy (abort, skip)")
	cmd.Flags().Bool("skip-invalid", false, "Render the valid rows when some rows are rejected")
	cmd.Flags().String("palette", "", "YAML color override file")
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("out", "o", "", "Output directory")
	cmd.Flags().String("name", "", "Base name of the exported files")
	cmd.Flags().StringSlice("formats", nil, "Export formats (svg, html, png)")
	cmd.Flags().Bool("standalone", false, "Also export every panel on its own canvas")
	cmd.Flags().String("raster", "", "PNG backend (native, browser)")
	cmd.Flags().Float64("scale", 0, "PNG scale factor")
}
