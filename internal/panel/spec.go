// Package panel builds the per-panel chart specifications that the layout
// engine composes into a report canvas.
//
// A Spec is a description, not a drawing: it carries native data ranges,
// series of points, ring segments and the categories it references. Once a
// builder returns, nothing downstream writes to it.
package panel

import (
	"github.com/alexanderramin/weekplot/internal/domain"
	"github.com/alexanderramin/weekplot/internal/style"
)

// Range is a closed native data interval.
type Range struct {
	Min float64
	Max float64
}

// Span is Max - Min.
func (r Range) Span() float64 {
	return r.Max - r.Min
}

// Tick is a labelled axis position in native units.
type Tick struct {
	Value float64
	Label string
}

// Point is one mark of a series. For timeline bars X is the start, Width the
// duration and Y the row; for category bars X is the slot index and Y the
// value.
type Point struct {
	X     float64
	Y     float64
	Width float64
	Label string
	Hover string
}

// Series is the ordered marks of one category.
type Series struct {
	Category string
	Color    style.Color
	Points   []Point
}

// Segment is one slice of a proportion ring.
type Segment struct {
	Category    string
	Label       string
	Percent     float64
	Color       style.Color
	Hover       string
	Placeholder bool
}

// Ring is the composition of one day.
type Ring struct {
	Day      domain.Day
	Title    string
	Hole     float64
	Segments []Segment
}

// Spec is an immutable panel description.
type Spec struct {
	Kind         domain.PanelKind
	Title        string
	XTitle       string
	YTitle       string
	XRange       Range
	YRange       Range
	XTicks       []Tick
	YTicks       []Tick
	BarThickness float64
	Series       []Series
	Rings        []Ring
	Categories   []string
}

// SeriesColor returns the color a panel uses for category, looking at series
// first and ring segments second.
func (s *Spec) SeriesColor(category string) (style.Color, bool) {
	for _, sr := range s.Series {
		if sr.Category == category {
			return sr.Color, true
		}
	}
	for _, r := range s.Rings {
		for _, seg := range r.Segments {
			if seg.Category == category && !seg.Placeholder {
				return seg.Color, true
			}
		}
	}
	return "", false
}
