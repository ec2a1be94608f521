// Package render turns a composed canvas into pixel-space drawing
// primitives. Every exporter draws the same Scene, so SVG, HTML and PNG
// outputs agree on geometry and color.
package render

import (
	"github.com/alexanderramin/weekplot/internal/domain"
	"github.com/alexanderramin/weekplot/internal/style"
)

// Kind is the primitive type of an Element.
type Kind int

const (
	KindRect Kind = iota
	KindSector
	KindLine
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindRect:
		return "rect"
	case KindSector:
		return "sector"
	case KindLine:
		return "line"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Anchor is the horizontal alignment of text.
type Anchor string

const (
	AnchorStart  Anchor = "start"
	AnchorMiddle Anchor = "middle"
	AnchorEnd    Anchor = "end"
)

// Element is one drawing primitive in pixel coordinates with Y pointing down.
//
// Rect uses X, Y, W, H. Sector uses CX, CY, R0 (inner), R1 (outer) and the
// angles A0..A1 in radians, clockwise from twelve o'clock; a sector never
// spans more than half a turn. Line uses X, Y to X2, Y2. Text uses X, Y as
// the baseline anchor point.
type Element struct {
	Kind Kind

	X, Y, W, H     float64
	X2, Y2         float64
	CX, CY, R0, R1 float64
	A0, A1         float64

	Text     string
	FontSize float64
	Bold     bool
	Anchor   Anchor

	Fill        style.Color
	Stroke      style.Color
	StrokeWidth float64
	Opacity     float64

	// Category tags marks that belong to a category. Series marks the
	// element as part of a highlightable series.
	Category string
	Series   bool
	Role     domain.PanelKind
	Hover    string
}

// Scene is the full drawing of one canvas.
type Scene struct {
	Width      int
	Height     int
	Background style.Color
	Elements   []Element
}

// Categories returns the distinct series categories in first-drawn order.
func (s *Scene) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range s.Elements {
		if !e.Series || e.Category == "" || seen[e.Category] {
			continue
		}
		seen[e.Category] = true
		out = append(out, e.Category)
	}
	return out
}
