package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/weekplot/internal/aggregate"
	"github.com/alexanderramin/weekplot/internal/domain"
	"github.com/alexanderramin/weekplot/internal/export"
	"github.com/alexanderramin/weekplot/internal/importer"
	"github.com/alexanderramin/weekplot/internal/layout"
	"github.com/alexanderramin/weekplot/internal/logging"
	"github.com/alexanderramin/weekplot/internal/panel"
	"github.com/alexanderramin/weekplot/internal/render"
	"github.com/alexanderramin/weekplot/internal/schedule"
	"github.com/alexanderramin/weekplot/internal/style"
	"github.com/google/uuid"
)

// Options configures a report service.
type Options struct {
	Policy     schedule.Policy
	DayAliases map[string]string
	// KeepCanonicalDayOrder draws Monday on the bottom timeline row. By
	// default Monday is on top.
	KeepCanonicalDayOrder bool
	// Registry defaults to the built-in color table.
	Registry *style.Registry
	// Plan defaults to layout.DefaultPlan().
	Plan *layout.Plan
	// Exporter defaults to one using the native PNG backend.
	Exporter *export.Exporter
}

type reportService struct {
	opts     Options
	registry *style.Registry
	engine   *layout.Engine
	exporter *export.Exporter
	observer UseCaseObserver
}

func NewReportService(opts Options, observers ...UseCaseObserver) (ReportService, error) {
	plan := layout.DefaultPlan()
	if opts.Plan != nil {
		plan = *opts.Plan
	}
	engine, err := layout.NewEngine(plan)
	if err != nil {
		return nil, fmt.Errorf("invalid layout plan: %w", err)
	}

	registry := opts.Registry
	if registry == nil {
		registry = style.NewRegistry(nil)
	}
	exporter := opts.Exporter
	if exporter == nil {
		exporter = export.NewExporter(&export.NativeRasterizer{})
	}

	return &reportService{
		opts:     opts,
		registry: registry,
		engine:   engine,
		exporter: exporter,
		observer: useCaseObserverOrNoop(observers),
	}, nil
}

func (s *reportService) Build(ctx context.Context, src importer.ScheduleSource) (report *Report, err error) {
	startedAt := time.Now()
	runID := uuid.NewString()
	fields := map[string]any{}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "report.build",
			RunID:     runID,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
			StartedAt: startedAt,
		})
	}()

	raws, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading schedule: %w", err)
	}

	result := schedule.Normalize(raws, schedule.Options{DayAliases: s.opts.DayAliases})
	fields["records"] = len(result.Records)
	fields["rejected"] = result.Rejected()

	log := logging.FromContext(ctx)
	for _, r := range result.Rejections {
		log.Warn().Int("row", r.Row).Str("field", r.Field).Str("value", r.Value).Msg(r.Reason)
	}

	if err := result.Err(s.opts.Policy); err != nil {
		return nil, err
	}

	declared := s.registry.Declared()
	weekly := aggregate.WeeklyByCategory(result.Records, declared)
	days := aggregate.PerDay(result.Records, declared)
	fields["categories"] = len(weekly.Categories)

	timeline, _ := panel.Timeline(weekly, s.registry, domain.DisplayOrder(!s.opts.KeepCanonicalDayOrder))
	summary, _ := panel.Summary(weekly, s.registry)
	grid, _ := panel.ProportionGrid(days, s.registry)

	canvas, err := s.engine.Compose(timeline, summary, grid)
	if err != nil {
		return nil, fmt.Errorf("composing report: %w", err)
	}

	return &Report{
		RunID:      runID,
		Records:    result.Records,
		Rejections: result.Rejections,
		Weekly:     weekly,
		Days:       days,
		Timeline:   timeline,
		Summary:    summary,
		Grid:       grid,
		Canvas:     canvas,
	}, nil
}

func (s *reportService) Export(ctx context.Context, report *Report, req ExportRequest) (res *ExportResult, err error) {
	if report == nil || report.Canvas == nil {
		return nil, errors.New("report has not been built")
	}

	startedAt := time.Now()
	fields := map[string]any{"formats": formatNames(req.Formats), "standalone": req.Standalone}
	defer func() {
		if res != nil {
			fields["files"] = len(res.Artifacts)
		}
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "report.export",
			RunID:     report.RunID,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
			StartedAt: startedAt,
		})
	}()

	name := domain.CoalesceStr(req.Name, "weekplot")
	opts := []render.Option{render.WithHighlight(req.Highlight)}

	artifacts, err := s.exporter.Export(ctx, report.Canvas, name, req.Dir, req.Formats, opts...)
	if err != nil {
		return nil, err
	}

	if req.Standalone {
		for _, spec := range report.Panels() {
			w, h := layout.StandaloneSize(spec.Kind)
			canvas, err := layout.Single(spec, w, h)
			if err != nil {
				return nil, fmt.Errorf("placing standalone %s panel: %w", spec.Kind, err)
			}
			more, err := s.exporter.Export(ctx, canvas, name+"-"+string(spec.Kind), req.Dir, req.Formats, opts...)
			if err != nil {
				return nil, err
			}
			artifacts = append(artifacts, more...)
		}
	}

	return &ExportResult{Artifacts: artifacts}, nil
}

func formatNames(formats []domain.Format) []string {
	out := make([]string, len(formats))
	for i, f := range formats {
		out[i] = string(f)
	}
	return out
}
