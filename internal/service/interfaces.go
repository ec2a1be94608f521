package service

import (
	"context"

	"github.com/alexanderramin/weekplot/internal/aggregate"
	"github.com/alexanderramin/weekplot/internal/domain"
	"github.com/alexanderramin/weekplot/internal/export"
	"github.com/alexanderramin/weekplot/internal/highlight"
	"github.com/alexanderramin/weekplot/internal/importer"
	"github.com/alexanderramin/weekplot/internal/layout"
	"github.com/alexanderramin/weekplot/internal/panel"
	"github.com/alexanderramin/weekplot/internal/schedule"
)

// ReportService builds and exports the weekly schedule report.
type ReportService interface {
	// Build loads, validates and aggregates a schedule and composes the
	// report canvas. Under the abort policy any rejected row fails the
	// build with a *schedule.RejectedRowsError before anything is drawn.
	Build(ctx context.Context, src importer.ScheduleSource) (*Report, error)

	// Export writes a built report to disk.
	Export(ctx context.Context, report *Report, req ExportRequest) (*ExportResult, error)
}

// Report is the outcome of one build. It is read-only once returned.
type Report struct {
	RunID      string
	Records    []schedule.Record
	Rejections []*schedule.ValidationError
	Weekly     *aggregate.Weekly
	Days       []aggregate.Day
	Timeline   panel.Spec
	Summary    panel.Spec
	Grid       panel.Spec
	Canvas     *layout.Canvas
}

// Panels returns the panel specs in composite declaration order.
func (r *Report) Panels() []panel.Spec {
	return []panel.Spec{r.Timeline, r.Summary, r.Grid}
}

// ExportRequest names the output of an export.
type ExportRequest struct {
	Dir     string
	Name    string
	Formats []domain.Format
	// Standalone also writes every panel on its own canvas as
	// <name>-<kind>.<format>.
	Standalone bool
	Highlight  highlight.State
}

// ExportResult lists the written files, composite first.
type ExportResult struct {
	Artifacts []export.Artifact
}
