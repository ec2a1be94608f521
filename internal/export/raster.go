package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/alexanderramin/weekplot/internal/domain"
	"github.com/alexanderramin/weekplot/internal/render"
	"github.com/alexanderramin/weekplot/internal/style"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Rasterizer turns a scene into PNG bytes.
type Rasterizer interface {
	Rasterize(ctx context.Context, scene render.Scene) ([]byte, error)
}

// Raster backend names accepted by NewRasterizer.
const (
	BackendNative  = "native"
	BackendBrowser = "browser"
)

// NewRasterizer returns the backend registered under name.
func NewRasterizer(name string, scale float64) (Rasterizer, error) {
	switch name {
	case "", BackendNative:
		return &NativeRasterizer{Scale: scale}, nil
	case BackendBrowser:
		return &BrowserRasterizer{Scale: scale}, nil
	default:
		return nil, fmt.Errorf("unknown raster backend %q (expected native or browser)", name)
	}
}

// arcSteps is the number of segments used per half turn of a ring arc.
const arcSteps = 48

// NativeRasterizer draws scenes in pure Go. Text uses a fixed bitmap face, so
// font sizes are approximated.
type NativeRasterizer struct {
	Scale float64
}

func (n *NativeRasterizer) scale() float64 {
	return domain.Float64WithDefault(1, n.Scale)
}

// Rasterize implements Rasterizer.
func (n *NativeRasterizer) Rasterize(ctx context.Context, scene render.Scene) ([]byte, error) {
	img, err := n.Image(ctx, scene)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Image draws scene into a new RGBA image.
func (n *NativeRasterizer) Image(ctx context.Context, scene render.Scene) (*image.RGBA, error) {
	s := n.scale()
	w := int(math.Round(float64(scene.Width) * s))
	h := int(math.Round(float64(scene.Height) * s))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("empty scene %dx%d", scene.Width, scene.Height)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(rgba(scene.Background, 1)), image.Point{}, draw.Src)

	for i, e := range scene.Elements {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		switch e.Kind {
		case render.KindRect:
			x, y := e.X*s, e.Y*s
			fillPath(img, e.Fill, e.Opacity, x, y, x+e.W*s, y+e.H*s, func(p pen) {
				rectPath(p, x, y, e.W*s, e.H*s)
			})
		case render.KindSector:
			cx, cy, r := e.CX*s, e.CY*s, e.R1*s
			fillPath(img, e.Fill, e.Opacity, cx-r, cy-r, cx+r, cy+r, func(p pen) {
				sectorPathRaster(p, e, s)
			})
		case render.KindLine:
			width := math.Max(e.StrokeWidth*s, 1)
			x1, y1, x2, y2 := e.X*s, e.Y*s, e.X2*s, e.Y2*s
			fillPath(img, e.Stroke, e.Opacity,
				math.Min(x1, x2)-width, math.Min(y1, y2)-width, math.Max(x1, x2)+width, math.Max(y1, y2)+width,
				func(p pen) { linePath(p, x1, y1, x2, y2, width) })
		case render.KindText:
			drawText(img, e, s)
		}
	}
	return img, nil
}

func rgba(c style.Color, opacity float64) color.NRGBA {
	r, g, b := c.RGB()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(clamp01(opacity) * 255))}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// pen draws into a rasterizer that covers only part of the image.
type pen struct {
	z      *vector.Rasterizer
	ox, oy float64
}

func (p pen) moveTo(x, y float64) { p.z.MoveTo(float32(x-p.ox), float32(y-p.oy)) }
func (p pen) lineTo(x, y float64) { p.z.LineTo(float32(x-p.ox), float32(y-p.oy)) }

// fillPath fills the path drawn by fn inside the given pixel bounds.
func fillPath(dst *image.RGBA, c style.Color, opacity float64, minX, minY, maxX, maxY float64, fn func(p pen)) {
	if c == "" {
		return
	}
	r := image.Rect(
		int(math.Floor(minX))-1, int(math.Floor(minY))-1,
		int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1,
	).Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	z := vector.NewRasterizer(r.Dx(), r.Dy())
	z.DrawOp = draw.Over
	fn(pen{z: z, ox: float64(r.Min.X), oy: float64(r.Min.Y)})
	z.Draw(dst, r, image.NewUniform(rgba(c, opacity)), image.Point{})
}

func rectPath(p pen, x, y, w, h float64) {
	p.moveTo(x, y)
	p.lineTo(x+w, y)
	p.lineTo(x+w, y+h)
	p.lineTo(x, y+h)
	p.z.ClosePath()
}

func linePath(p pen, x1, y1, x2, y2, width float64) {
	dx, dy := x2-x1, y2-y1
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	nx, ny := -dy/length*width/2, dx/length*width/2
	p.moveTo(x1+nx, y1+ny)
	p.lineTo(x2+nx, y2+ny)
	p.lineTo(x2-nx, y2-ny)
	p.lineTo(x1-nx, y1-ny)
	p.z.ClosePath()
}

func sectorPathRaster(p pen, e render.Element, s float64) {
	cx, cy := e.CX*s, e.CY*s
	r0, r1 := e.R0*s, e.R1*s
	steps := int(math.Ceil((e.A1 - e.A0) / math.Pi * arcSteps))
	if steps < 1 {
		steps = 1
	}
	at := func(a, r float64) (float64, float64) {
		return cx + r*math.Sin(a), cy - r*math.Cos(a)
	}
	angle := func(i int) float64 {
		return e.A0 + (e.A1-e.A0)*float64(i)/float64(steps)
	}

	p.moveTo(at(e.A0, r1))
	for i := 1; i <= steps; i++ {
		p.lineTo(at(angle(i), r1))
	}
	if r0 <= 0 {
		p.lineTo(cx, cy)
	} else {
		for i := steps; i >= 0; i-- {
			p.lineTo(at(angle(i), r0))
		}
	}
	p.z.ClosePath()
}

func drawText(dst *image.RGBA, e render.Element, s float64) {
	if e.Text == "" {
		return
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(rgba(e.Fill, e.Opacity)),
		Face: basicfont.Face7x13,
	}
	width := float64(d.MeasureString(e.Text).Round())
	x := e.X * s
	switch e.Anchor {
	case render.AnchorMiddle:
		x -= width / 2
	case render.AnchorEnd:
		x -= width
	}
	d.Dot = fixed.P(int(math.Round(x)), int(math.Round(e.Y*s)))
	d.DrawString(e.Text)
	if e.Bold {
		d.Dot = fixed.P(int(math.Round(x))+1, int(math.Round(e.Y*s)))
		d.DrawString(e.Text)
	}
}
