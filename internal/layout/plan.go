package layout

import (
	"fmt"

	"github.com/alexanderramin/weekplot/internal/domain"
)

// Rect is a fractional rectangle inside the unit square. Y is measured from
// the bottom of the canvas.
type Rect struct {
	X0, X1 float64
	Y0, Y1 float64
}

func (r Rect) Width() float64  { return r.X1 - r.X0 }
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// CenterX is the horizontal midpoint.
func (r Rect) CenterX() float64 { return (r.X0 + r.X1) / 2 }

// Valid reports whether r has positive area inside [0,1]².
func (r Rect) Valid() bool {
	return r.X0 >= 0 && r.X1 <= 1 && r.Y0 >= 0 && r.Y1 <= 1 && r.X0 < r.X1 && r.Y0 < r.Y1
}

// Overlaps reports whether the interiors of r and o intersect. Shared edges
// do not count.
func (r Rect) Overlaps(o Rect) bool {
	return r.X0 < o.X1 && o.X0 < r.X1 && r.Y0 < o.Y1 && o.Y0 < r.Y1
}

// Band partitions a rectangle into equal-width slots separated by a fixed
// gap. All slots share the band's vertical extent.
type Band struct {
	Rect  Rect
	Slots int
	Gap   float64
}

// SlotRects returns the slot rectangles left to right.
func (b Band) SlotRects() []Rect {
	if b.Slots <= 0 {
		return nil
	}
	w := (b.Rect.Width() - float64(b.Slots-1)*b.Gap) / float64(b.Slots)
	out := make([]Rect, b.Slots)
	for i := range out {
		x0 := b.Rect.X0 + float64(i)*(w+b.Gap)
		out[i] = Rect{X0: x0, X1: x0 + w, Y0: b.Rect.Y0, Y1: b.Rect.Y1}
	}
	return out
}

// PanelSlot declares where one panel role goes.
type PanelSlot struct {
	Role domain.PanelKind
	Rect Rect
	// Band is set for roles with sub-panels.
	Band *Band
}

// TitleStyle positions titles relative to the rectangles they belong to.
type TitleStyle struct {
	PanelOffset   float64
	PanelFontSize float64
	SubOffset     float64
	SubFontSize   float64
}

// Plan is the declared canvas layout. Slots are listed in panel declaration
// order, which is also the legend walk order.
type Plan struct {
	Width        int
	Height       int
	Slots        []PanelSlot
	Titles       TitleStyle
	LegendAnchor Point
	LegendSize   float64
}

// Point is a fractional canvas position.
type Point struct {
	X, Y float64
}

// RingCount is the fixed number of proportion sub-panels.
const RingCount = domain.DaysInWeek

const (
	CompositeWidth  = 1920
	CompositeHeight = 1080
)

var defaultTitles = TitleStyle{
	PanelOffset:   0.03,
	PanelFontSize: 24,
	SubOffset:     0.015,
	SubFontSize:   14,
}

// DefaultPlan is the composite report layout: timeline top left, weekly
// summary top right, one band of seven day rings along the bottom.
func DefaultPlan() Plan {
	return Plan{
		Width:  CompositeWidth,
		Height: CompositeHeight,
		Slots: []PanelSlot{
			{Role: domain.PanelTimeline, Rect: Rect{X0: 0.05, X1: 0.62, Y0: 0.45, Y1: 0.92}},
			{Role: domain.PanelCategoricalBar, Rect: Rect{X0: 0.70, X1: 0.98, Y0: 0.45, Y1: 0.92}},
			{
				Role: domain.PanelProportionRing,
				Rect: Rect{X0: 0.02, X1: 0.98, Y0: 0.05, Y1: 0.33},
				Band: &Band{Rect: Rect{X0: 0.02, X1: 0.98, Y0: 0.05, Y1: 0.33}, Slots: RingCount, Gap: 0.02},
			},
		},
		Titles:       defaultTitles,
		LegendAnchor: Point{X: 0.05, Y: 0.975},
		LegendSize:   14,
	}
}

// standaloneSizes are the canvas sizes of single-panel exports.
var standaloneSizes = map[domain.PanelKind][2]int{
	domain.PanelTimeline:       {1200, 600},
	domain.PanelCategoricalBar: {1000, 600},
	domain.PanelProportionRing: {1600, 400},
}

// StandaloneSize returns the canvas size used when kind is exported alone.
func StandaloneSize(kind domain.PanelKind) (width, height int) {
	s, ok := standaloneSizes[kind]
	if !ok {
		return CompositeWidth, CompositeHeight
	}
	return s[0], s[1]
}

// StandalonePlan places one panel of kind on its own canvas.
func StandalonePlan(kind domain.PanelKind, width, height int) Plan {
	slot := PanelSlot{Role: kind, Rect: Rect{X0: 0.08, X1: 0.95, Y0: 0.14, Y1: 0.80}}
	if kind == domain.PanelProportionRing {
		slot.Rect = Rect{X0: 0.02, X1: 0.98, Y0: 0.05, Y1: 0.72}
		slot.Band = &Band{Rect: slot.Rect, Slots: RingCount, Gap: 0.02}
	}
	return Plan{
		Width:        width,
		Height:       height,
		Slots:        []PanelSlot{slot},
		Titles:       TitleStyle{PanelOffset: 0.08, PanelFontSize: 24, SubOffset: 0.03, SubFontSize: 14},
		LegendAnchor: Point{X: 0.08, Y: 0.95},
		LegendSize:   14,
	}
}

// validate checks the structural rules of a plan.
func (p Plan) validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return &LayoutError{Reason: fmt.Sprintf("canvas size must be positive, got %dx%d", p.Width, p.Height)}
	}
	if len(p.Slots) == 0 {
		return &LayoutError{Reason: "plan declares no panels"}
	}

	seen := make(map[domain.PanelKind]bool)
	for i, s := range p.Slots {
		if seen[s.Role] {
			return &LayoutError{Role: s.Role, Reason: "role declared twice"}
		}
		seen[s.Role] = true
		if !s.Rect.Valid() {
			return &LayoutError{Role: s.Role, Reason: fmt.Sprintf("rectangle %+v outside the unit square or empty", s.Rect)}
		}
		if s.Role == domain.PanelProportionRing && (s.Band == nil || s.Band.Slots != RingCount) {
			return &LayoutError{Role: s.Role, Reason: fmt.Sprintf("proportion band must declare %d slots", RingCount)}
		}
		if s.Band != nil {
			if s.Band.Slots <= 0 || s.Band.Gap < 0 {
				return &LayoutError{Role: s.Role, Reason: "band needs a positive slot count and a non-negative gap"}
			}
			for _, r := range s.Band.SlotRects() {
				if !r.Valid() {
					return &LayoutError{Role: s.Role, Reason: "band gap leaves no room for slots"}
				}
			}
		}
		for _, o := range p.Slots[:i] {
			if s.Rect.Overlaps(o.Rect) {
				return &LayoutError{Role: s.Role, Reason: fmt.Sprintf("rectangle overlaps %s", o.Role)}
			}
		}
	}
	return nil
}
