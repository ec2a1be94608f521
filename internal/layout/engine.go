// Package layout composes independently built panels into one report canvas.
//
// The engine owns placement only. Every rectangle and every title position
// comes from one slot list derived from the Plan, so panel placement and
// annotation placement cannot disagree. Panel specs are read, never written.
package layout

import (
	"fmt"

	"github.com/alexanderramin/weekplot/internal/domain"
	"github.com/alexanderramin/weekplot/internal/panel"
	"github.com/alexanderramin/weekplot/internal/style"
)

// PanelTitle is the sub-index of a panel's own title annotation. Sub-panel
// titles use their zero-based sub-panel index.
const PanelTitle = -1

// Placed is a panel with its assigned rectangle. Slots holds the sub-panel
// rectangles of banded roles.
type Placed struct {
	Role  domain.PanelKind
	Rect  Rect
	Slots []Rect
	Spec  panel.Spec
}

// LegendEntry is one category of the shared legend.
type LegendEntry struct {
	Category string
	Color    style.Color
}

// Annotation is a text label at a fixed fractional position.
type Annotation struct {
	Role     domain.PanelKind
	SubIndex int
	Text     string
	X, Y     float64
	FontSize float64
}

// Canvas is the composed report.
type Canvas struct {
	Width        int
	Height       int
	Panels       []Placed
	Legend       []LegendEntry
	LegendAnchor Point
	LegendSize   float64
	Annotations  []Annotation
}

// Panel returns the placed panel of role.
func (c *Canvas) Panel(role domain.PanelKind) (*Placed, bool) {
	for i := range c.Panels {
		if c.Panels[i].Role == role {
			return &c.Panels[i], true
		}
	}
	return nil, false
}

// LegendCategories returns the legend categories in order.
func (c *Canvas) LegendCategories() []string {
	out := make([]string, len(c.Legend))
	for i, e := range c.Legend {
		out[i] = e.Category
	}
	return out
}

type slotKey struct {
	role domain.PanelKind
	sub  int
}

type titleSlot struct {
	key      slotKey
	at       Point
	fontSize float64
}

// Engine composes canvases for one validated plan. It is immutable and safe
// for concurrent use.
type Engine struct {
	plan   Plan
	subs   map[domain.PanelKind][]Rect
	titles []titleSlot
}

// NewEngine validates plan and derives the slot list.
func NewEngine(plan Plan) (*Engine, error) {
	if err := plan.validate(); err != nil {
		return nil, err
	}

	e := &Engine{plan: plan, subs: make(map[domain.PanelKind][]Rect)}
	for _, s := range plan.Slots {
		e.titles = append(e.titles, titleSlot{
			key:      slotKey{role: s.Role, sub: PanelTitle},
			at:       Point{X: s.Rect.CenterX(), Y: s.Rect.Y1 + plan.Titles.PanelOffset},
			fontSize: plan.Titles.PanelFontSize,
		})
		if s.Band == nil {
			continue
		}
		subs := s.Band.SlotRects()
		e.subs[s.Role] = subs
		for i, r := range subs {
			e.titles = append(e.titles, titleSlot{
				key:      slotKey{role: s.Role, sub: i},
				at:       Point{X: r.CenterX(), Y: r.Y1 + plan.Titles.SubOffset},
				fontSize: plan.Titles.SubFontSize,
			})
		}
	}

	if len(e.subs) > 0 {
		// Banded panel titles sit above their sub-panel titles.
		for i, t := range e.titles {
			if t.key.sub == PanelTitle && e.subs[t.key.role] != nil {
				e.titles[i].at.Y += plan.Titles.SubOffset + plan.Titles.PanelOffset
			}
		}
	}
	return e, nil
}

// Plan returns the plan the engine was built from.
func (e *Engine) Plan() Plan {
	return e.plan
}

// Compose places one panel per declared role. Panels may be passed in any
// order; a missing, duplicate or undeclared role, or a sub-panel count that
// differs from the declared band, is a *LayoutError.
func (e *Engine) Compose(panels ...panel.Spec) (*Canvas, error) {
	byRole := make(map[domain.PanelKind]int, len(panels))
	declared := make(map[domain.PanelKind]bool, len(e.plan.Slots))
	for _, s := range e.plan.Slots {
		declared[s.Role] = true
	}
	for i, p := range panels {
		if !declared[p.Kind] {
			return nil, &LayoutError{Role: p.Kind, Reason: "no slot declared for this panel kind"}
		}
		if _, dup := byRole[p.Kind]; dup {
			return nil, &LayoutError{Role: p.Kind, Reason: "panel supplied twice"}
		}
		byRole[p.Kind] = i
	}

	c := &Canvas{
		Width:        e.plan.Width,
		Height:       e.plan.Height,
		LegendAnchor: e.plan.LegendAnchor,
		LegendSize:   e.plan.LegendSize,
	}
	for _, s := range e.plan.Slots {
		idx, ok := byRole[s.Role]
		if !ok {
			return nil, &LayoutError{Role: s.Role, Reason: "panel missing"}
		}
		spec := panels[idx]

		var slots []Rect
		if subs, banded := e.subs[s.Role]; banded {
			if len(spec.Rings) != len(subs) {
				return nil, &LayoutError{
					Role:   s.Role,
					Reason: fmt.Sprintf("expected %d sub-panels, got %d", len(subs), len(spec.Rings)),
				}
			}
			slots = make([]Rect, len(subs))
			copy(slots, subs)
		}
		c.Panels = append(c.Panels, Placed{Role: s.Role, Rect: s.Rect, Slots: slots, Spec: spec})
	}

	c.Legend = buildLegend(c.Panels)
	c.Annotations = e.annotate(c.Panels)
	return c, nil
}

// buildLegend walks panels in declaration order and keeps the first
// occurrence of every category with the color of the panel that declared it.
func buildLegend(placed []Placed) []LegendEntry {
	seen := make(map[string]bool)
	var out []LegendEntry
	for i := range placed {
		spec := &placed[i].Spec
		for _, cat := range spec.Categories {
			if seen[cat] {
				continue
			}
			seen[cat] = true
			color, ok := spec.SeriesColor(cat)
			if !ok {
				color = style.FallbackColor
			}
			out = append(out, LegendEntry{Category: cat, Color: color})
		}
	}
	return out
}

// annotate resolves title text for every declared title slot. Panel titles
// come from Spec.Title; sub-panel titles come from the spec's rings in
// construction order.
func (e *Engine) annotate(placed []Placed) []Annotation {
	specs := make(map[domain.PanelKind]*panel.Spec, len(placed))
	for i := range placed {
		specs[placed[i].Role] = &placed[i].Spec
	}

	var out []Annotation
	for _, t := range e.titles {
		spec := specs[t.key.role]
		text := spec.Title
		if t.key.sub != PanelTitle {
			text = spec.Rings[t.key.sub].Title
		}
		if text == "" {
			continue
		}
		out = append(out, Annotation{
			Role:     t.key.role,
			SubIndex: t.key.sub,
			Text:     text,
			X:        t.at.X,
			Y:        t.at.Y,
			FontSize: t.fontSize,
		})
	}
	return out
}

// Single places spec alone on a width×height canvas.
func Single(spec panel.Spec, width, height int) (*Canvas, error) {
	e, err := NewEngine(StandalonePlan(spec.Kind, width, height))
	if err != nil {
		return nil, err
	}
	return e.Compose(spec)
}
