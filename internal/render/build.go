package render

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/alexanderramin/weekplot/internal/domain"
	"github.com/alexanderramin/weekplot/internal/highlight"
	"github.com/alexanderramin/weekplot/internal/layout"
	"github.com/alexanderramin/weekplot/internal/panel"
	"github.com/alexanderramin/weekplot/internal/style"
)

const (
	background style.Color = "#ffffff"
	titleColor style.Color = "#000000"
	textColor  style.Color = "#333333"
	axisColor  style.Color = "#333333"
	ringStroke style.Color = "#ffffff"
	emptyRing  style.Color = "#999999"

	tickFontSize  = 12.0
	axisFontSize  = 14.0
	labelFontSize = 11.0
	barFill       = 0.7
	ringFill      = 0.45
	minRingLabel  = 5.0
)

// Option adjusts how a scene is built.
type Option func(*options)

type options struct {
	highlight highlight.State
}

// WithHighlight applies a selection to the timeline series.
func WithHighlight(s highlight.State) Option {
	return func(o *options) {
		o.highlight = s
	}
}

// Build draws canvas. The result depends only on its inputs.
func Build(c *layout.Canvas, opts ...Option) Scene {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	b := &builder{
		w:     float64(c.Width),
		h:     float64(c.Height),
		opts:  o,
		scene: Scene{Width: c.Width, Height: c.Height, Background: background},
	}
	for i := range c.Panels {
		p := &c.Panels[i]
		switch p.Role {
		case domain.PanelTimeline:
			b.timeline(p)
		case domain.PanelCategoricalBar:
			b.summary(p)
		case domain.PanelProportionRing:
			b.rings(p)
		}
	}
	b.legend(c)
	b.annotations(c)
	return b.scene
}

type builder struct {
	w, h  float64
	opts  options
	scene Scene
}

func (b *builder) add(e Element) {
	if e.Opacity == 0 {
		e.Opacity = 1
	}
	b.scene.Elements = append(b.scene.Elements, e)
}

// box converts a fractional rectangle to pixel edges.
type box struct {
	left, right, top, bottom float64
}

func (b *builder) box(r layout.Rect) box {
	return box{
		left:   r.X0 * b.w,
		right:  r.X1 * b.w,
		top:    (1 - r.Y1) * b.h,
		bottom: (1 - r.Y0) * b.h,
	}
}

func (bx box) width() float64  { return bx.right - bx.left }
func (bx box) height() float64 { return bx.bottom - bx.top }

func (bx box) mapX(rng panel.Range, v float64) float64 {
	return bx.left + (v-rng.Min)/rng.Span()*bx.width()
}

func (bx box) mapY(rng panel.Range, v float64) float64 {
	return bx.bottom - (v-rng.Min)/rng.Span()*bx.height()
}

func (b *builder) axes(role domain.PanelKind, bx box, spec *panel.Spec, xLabelSize float64) {
	b.add(Element{Kind: KindLine, Role: role, X: bx.left, Y: bx.bottom, X2: bx.right, Y2: bx.bottom, Stroke: axisColor, StrokeWidth: 1})
	b.add(Element{Kind: KindLine, Role: role, X: bx.left, Y: bx.top, X2: bx.left, Y2: bx.bottom, Stroke: axisColor, StrokeWidth: 1})

	for _, t := range spec.XTicks {
		x := bx.mapX(spec.XRange, t.Value)
		b.add(Element{Kind: KindLine, Role: role, X: x, Y: bx.bottom, X2: x, Y2: bx.bottom + 5, Stroke: axisColor, StrokeWidth: 1})
		b.add(Element{Kind: KindText, Role: role, X: x, Y: bx.bottom + 6 + xLabelSize, Text: t.Label, FontSize: xLabelSize, Anchor: AnchorMiddle, Fill: textColor})
	}
	for _, t := range spec.YTicks {
		y := bx.mapY(spec.YRange, t.Value)
		b.add(Element{Kind: KindLine, Role: role, X: bx.left - 5, Y: y, X2: bx.left, Y2: y, Stroke: axisColor, StrokeWidth: 1})
		b.add(Element{Kind: KindText, Role: role, X: bx.left - 8, Y: y + 4, Text: t.Label, FontSize: tickFontSize, Anchor: AnchorEnd, Fill: textColor})
	}

	if spec.XTitle != "" {
		b.add(Element{Kind: KindText, Role: role, X: (bx.left + bx.right) / 2, Y: bx.bottom + 40, Text: spec.XTitle, FontSize: axisFontSize, Anchor: AnchorMiddle, Fill: textColor})
	}
	if spec.YTitle != "" {
		b.add(Element{Kind: KindText, Role: role, X: bx.left, Y: bx.top - 8, Text: spec.YTitle, FontSize: axisFontSize, Anchor: AnchorStart, Fill: textColor})
	}
}

func (b *builder) timeline(p *layout.Placed) {
	spec := &p.Spec
	bx := b.box(p.Rect)
	b.axes(p.Role, bx, spec, tickFontSize)

	thickness := spec.BarThickness / spec.YRange.Span() * bx.height()
	for _, s := range spec.Series {
		opacity := b.opts.highlight.Opacity(s.Category)
		for _, pt := range s.Points {
			x0 := bx.mapX(spec.XRange, pt.X)
			x1 := bx.mapX(spec.XRange, pt.X+pt.Width)
			yc := bx.mapY(spec.YRange, pt.Y)
			b.add(Element{
				Kind:     KindRect,
				Role:     p.Role,
				X:        x0,
				Y:        yc - thickness/2,
				W:        x1 - x0,
				H:        thickness,
				Fill:     s.Color,
				Opacity:  opacity,
				Category: s.Category,
				Series:   true,
				Hover:    pt.Hover,
			})
		}
	}
}

func (b *builder) summary(p *layout.Placed) {
	spec := &p.Spec
	bx := b.box(p.Rect)

	b.axes(p.Role, bx, spec, labelFontSize)

	slot := bx.width() / spec.XRange.Span()
	for _, s := range spec.Series {
		for _, pt := range s.Points {
			xc := bx.mapX(spec.XRange, pt.X)
			w := slot * barFill * pt.Width
			top := bx.mapY(spec.YRange, pt.Y)
			b.add(Element{
				Kind:     KindRect,
				Role:     p.Role,
				X:        xc - w/2,
				Y:        top,
				W:        w,
				H:        bx.bottom - top,
				Fill:     s.Color,
				Category: s.Category,
				Hover:    pt.Hover,
			})
			if pt.Label != "" {
				b.add(Element{Kind: KindText, Role: p.Role, X: xc, Y: top - 4, Text: pt.Label, FontSize: tickFontSize, Anchor: AnchorMiddle, Fill: textColor, Category: s.Category})
			}
		}
	}
}

func (b *builder) rings(p *layout.Placed) {
	for i, ring := range p.Spec.Rings {
		bx := b.box(p.Slots[i])
		cx := (bx.left + bx.right) / 2
		cy := (bx.top + bx.bottom) / 2
		r1 := ringFill * math.Min(bx.width(), bx.height())
		r0 := ring.Hole * r1

		a := 0.0
		for j, seg := range ring.Segments {
			sweep := seg.Percent / 100 * 2 * math.Pi
			end := a + sweep
			if j == len(ring.Segments)-1 {
				end = 2 * math.Pi
			}
			stroke := ringStroke
			if seg.Placeholder {
				stroke = emptyRing
			}
			b.sector(Element{
				Kind:        KindSector,
				Role:        p.Role,
				CX:          cx,
				CY:          cy,
				R0:          r0,
				R1:          r1,
				Fill:        seg.Color,
				Stroke:      stroke,
				StrokeWidth: 1,
				Category:    seg.Category,
				Hover:       seg.Hover,
			}, a, end)

			switch {
			case seg.Placeholder:
				b.add(Element{Kind: KindText, Role: p.Role, X: cx, Y: cy + 4, Text: seg.Label, FontSize: labelFontSize, Anchor: AnchorMiddle, Fill: emptyRing})
			case seg.Percent >= minRingLabel:
				mid := (a + end) / 2
				r := (r0 + r1) / 2
				b.add(Element{
					Kind:     KindText,
					Role:     p.Role,
					X:        cx + r*math.Sin(mid),
					Y:        cy - r*math.Cos(mid) + 4,
					Text:     fmt.Sprintf("%.0f%%", seg.Percent),
					FontSize: labelFontSize,
					Anchor:   AnchorMiddle,
					Fill:     background,
					Category: seg.Category,
				})
			}
			a = end
		}
	}
}

// sector emits the annular sector a0..a1 split into pieces of at most half
// a turn.
func (b *builder) sector(e Element, a0, a1 float64) {
	for a0 < a1 {
		next := math.Min(a1, a0+math.Pi)
		piece := e
		piece.A0, piece.A1 = a0, next
		b.add(piece)
		a0 = next
	}
}

// legend lays entries out left to right from the anchor and wraps to a new
// row before an entry would cross the right margin, which mirrors the left
// one.
func (b *builder) legend(c *layout.Canvas) {
	size := c.LegendSize
	left := c.LegendAnchor.X * b.w
	right := b.w - left
	x := left
	y := (1 - c.LegendAnchor.Y) * b.h
	for _, e := range c.Legend {
		if x > left && x+legendEntryWidth(e.Category, size) > right {
			x = left
			y += size * legendRowSpacing
		}
		b.add(Element{Kind: KindRect, X: x, Y: y - size/2, W: size, H: size, Fill: e.Color, Category: e.Category})
		b.add(Element{Kind: KindText, X: x + size + 6, Y: y + size/2 - 2, Text: e.Category, FontSize: size, Anchor: AnchorStart, Fill: textColor, Category: e.Category})
		x += legendEntryWidth(e.Category, size) + legendGap
	}
}

const (
	legendGap        = 24.0
	legendRowSpacing = 1.8
)

// legendEntryWidth is the width of one swatch plus its label.
func legendEntryWidth(category string, size float64) float64 {
	return size + 6 + TextWidth(category, size)
}

func (b *builder) annotations(c *layout.Canvas) {
	for _, a := range c.Annotations {
		panelTitle := a.SubIndex == layout.PanelTitle
		fill := textColor
		if panelTitle {
			fill = titleColor
		}
		b.add(Element{
			Kind:     KindText,
			Role:     a.Role,
			X:        a.X * b.w,
			Y:        (1 - a.Y) * b.h,
			Text:     a.Text,
			FontSize: a.FontSize,
			Bold:     panelTitle,
			Anchor:   AnchorMiddle,
			Fill:     fill,
		})
	}
}

// TextWidth estimates the rendered width of s: the average glyph is about
// 0.6 of the font size.
func TextWidth(s string, fontSize float64) float64 {
	return float64(utf8.RuneCountInString(s)) * fontSize * 0.6
}
