package panel

import (
	"fmt"
	"slices"

	"github.com/alexanderramin/weekplot/internal/aggregate"
	"github.com/alexanderramin/weekplot/internal/domain"
	"github.com/alexanderramin/weekplot/internal/schedule"
	"github.com/alexanderramin/weekplot/internal/style"
)

const (
	// RowSpacing is the native distance between two day rows of the
	// timeline.
	RowSpacing = 10.0
	// BarThickness is the native height of a timeline bar.
	BarThickness = 5.0
	// RingHole is the inner radius of a proportion ring as a fraction of
	// the outer radius.
	RingHole = 0.4
)

const (
	TimelineTitle = "Activities by day of the week"
	SummaryTitle  = "Share of each category in the whole week"
	GridTitle     = "Share of each category in scheduled time per day"
)

// Colors resolves a category color. *style.Registry satisfies it.
type Colors interface {
	Color(category string) style.Color
}

// Timeline builds the stacked interval panel. Each day gets the row at its
// position in displayOrder times RowSpacing.
func Timeline(weekly *aggregate.Weekly, colors Colors, displayOrder []domain.Day) (Spec, []string) {
	rows := make(map[domain.Day]float64, len(displayOrder))
	yTicks := make([]Tick, 0, len(displayOrder))
	for i, d := range displayOrder {
		y := float64(i) * RowSpacing
		rows[d] = y
		yTicks = append(yTicks, Tick{Value: y, Label: d.String()})
	}

	xTicks := make([]Tick, 0, 7)
	for h := 0; h <= 24; h += 4 {
		xTicks = append(xTicks, Tick{Value: float64(h), Label: fmt.Sprintf("%d", h)})
	}

	spec := Spec{
		Kind:         domain.PanelTimeline,
		Title:        TimelineTitle,
		XTitle:       "Time of day (hours)",
		YTitle:       "Day of the week",
		XRange:       Range{Min: 0, Max: schedule.HoursPerDay},
		YRange:       Range{Min: -RowSpacing / 2, Max: float64(len(displayOrder)-1)*RowSpacing + RowSpacing/2},
		XTicks:       xTicks,
		YTicks:       yTicks,
		BarThickness: BarThickness,
	}

	for _, ct := range weekly.Categories {
		series := Series{Category: ct.Category, Color: colors.Color(ct.Category)}
		for _, r := range ct.Intervals {
			series.Points = append(series.Points, Point{
				X:     r.Start,
				Y:     rows[r.Day],
				Width: r.Duration(),
				Hover: fmt.Sprintf("Category: %s / Start: %s / Duration: %.2fh",
					ct.Category, schedule.FormatTimeOfDay(r.Start), r.Duration()),
			})
		}
		spec.Series = append(spec.Series, series)
		spec.Categories = append(spec.Categories, ct.Category)
	}
	return spec, slices.Clone(spec.Categories)
}

// Summary builds the categorical bar panel: one bar per category, height is
// the weekly percentage.
func Summary(weekly *aggregate.Weekly, colors Colors) (Spec, []string) {
	spec := Spec{
		Kind:   domain.PanelCategoricalBar,
		Title:  SummaryTitle,
		XTitle: "Category",
		YTitle: "Percent",
		XRange: Range{Min: -0.5, Max: float64(len(weekly.Categories)) - 0.5},
		YRange: Range{Min: 0, Max: 100},
	}
	for v := 0; v <= 100; v += 20 {
		spec.YTicks = append(spec.YTicks, Tick{Value: float64(v), Label: fmt.Sprintf("%d", v)})
	}

	for i, ct := range weekly.Categories {
		x := float64(i)
		spec.XTicks = append(spec.XTicks, Tick{Value: x, Label: ct.Category})
		spec.Series = append(spec.Series, Series{
			Category: ct.Category,
			Color:    colors.Color(ct.Category),
			Points: []Point{{
				X:     x,
				Y:     ct.Percent,
				Width: 1,
				Label: fmt.Sprintf("%.1f%%", ct.Percent),
				Hover: fmt.Sprintf("Category: %s / Hours: %.2fh / Share: %.1f%%", ct.Category, ct.Hours, ct.Percent),
			}},
		})
		spec.Categories = append(spec.Categories, ct.Category)
	}
	return spec, slices.Clone(spec.Categories)
}

// ProportionGrid builds one ring per day in the order given, which is the
// canonical order for aggregate.PerDay output. A day without data becomes a
// single placeholder segment covering the whole ring; placeholders are not
// reported as categories.
func ProportionGrid(days []aggregate.Day, colors Colors) (Spec, []string) {
	spec := Spec{
		Kind:  domain.PanelProportionRing,
		Title: GridTitle,
	}

	seen := make(map[string]bool)
	for _, d := range days {
		ring := Ring{Day: d.Day, Title: d.Day.String(), Hole: RingHole}
		if d.NoData {
			ring.Segments = []Segment{{
				Label:       style.NoDataLabel,
				Percent:     100,
				Color:       style.NoDataColor,
				Hover:       style.NoDataLabel,
				Placeholder: true,
			}}
			spec.Rings = append(spec.Rings, ring)
			continue
		}

		for _, s := range d.Shares {
			ring.Segments = append(ring.Segments, Segment{
				Category: s.Category,
				Label:    s.Category,
				Percent:  s.Percent,
				Color:    colors.Color(s.Category),
				Hover:    fmt.Sprintf("Category: %s / Share: %.1f%%", s.Category, s.Percent),
			})
			if !seen[s.Category] {
				seen[s.Category] = true
				spec.Categories = append(spec.Categories, s.Category)
			}
		}
		spec.Rings = append(spec.Rings, ring)
	}
	return spec, slices.Clone(spec.Categories)
}
