package export

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/alexanderramin/weekplot/internal/render"
)

const (
	bodyFont  = "Roboto, sans-serif"
	titleFont = "Roboto Slab, serif"
)

// SVG renders scene as a standalone SVG document. Output is byte-identical
// for equal scenes.
func SVG(scene render.Scene) []byte {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	writeSVGBody(&buf, scene)
	return buf.Bytes()
}

// writeSVGBody writes the <svg> element without the XML declaration so it
// can be inlined into HTML.
func writeSVGBody(buf *bytes.Buffer, scene render.Scene) {
	fmt.Fprintf(buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="%s">`+"\n",
		scene.Width, scene.Height, scene.Width, scene.Height, bodyFont)
	fmt.Fprintf(buf, `<rect width="100%%" height="100%%" fill="%s"/>`+"\n", scene.Background)

	for _, e := range scene.Elements {
		switch e.Kind {
		case render.KindRect:
			fmt.Fprintf(buf, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s"%s>`,
				num(e.X), num(e.Y), num(e.W), num(e.H), e.Fill, common(e))
			closeWithHover(buf, "rect", e.Hover)
		case render.KindSector:
			fmt.Fprintf(buf, `<path d="%s" fill="%s"%s>`, sectorPath(e), e.Fill, common(e))
			closeWithHover(buf, "path", e.Hover)
		case render.KindLine:
			fmt.Fprintf(buf, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s"/>`+"\n",
				num(e.X), num(e.Y), num(e.X2), num(e.Y2), e.Stroke, num(e.StrokeWidth))
		case render.KindText:
			font := ""
			if e.Bold {
				font = fmt.Sprintf(` font-family="%s" font-weight="bold"`, titleFont)
			}
			fmt.Fprintf(buf, `<text x="%s" y="%s" font-size="%s" text-anchor="%s" fill="%s"%s%s>%s</text>`+"\n",
				num(e.X), num(e.Y), num(e.FontSize), e.Anchor, e.Fill, font, categoryAttr(e), escapeXML(e.Text))
		}
	}
	buf.WriteString("</svg>\n")
}

// common renders the optional attributes shared by filled shapes.
func common(e render.Element) string {
	var b strings.Builder
	if e.Stroke != "" {
		fmt.Fprintf(&b, ` stroke="%s" stroke-width="%s"`, e.Stroke, num(e.StrokeWidth))
	}
	if e.Series {
		fmt.Fprintf(&b, ` class="series" opacity="%s"`, num(e.Opacity))
	} else if e.Opacity != 1 {
		fmt.Fprintf(&b, ` opacity="%s"`, num(e.Opacity))
	}
	b.WriteString(categoryAttr(e))
	return b.String()
}

func categoryAttr(e render.Element) string {
	if e.Category == "" {
		return ""
	}
	return fmt.Sprintf(` data-category="%s"`, escapeXML(e.Category))
}

func closeWithHover(buf *bytes.Buffer, tag, hover string) {
	if hover == "" {
		buf.WriteString("</" + tag + ">\n")
		return
	}
	fmt.Fprintf(buf, "<title>%s</title></%s>\n", escapeXML(hover), tag)
}

// sectorPath draws an annular sector of at most half a turn. Angles run
// clockwise from twelve o'clock.
func sectorPath(e render.Element) string {
	at := func(a, r float64) string {
		return num(e.CX+r*math.Sin(a)) + " " + num(e.CY-r*math.Cos(a))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "M %s A %s %s 0 0 1 %s", at(e.A0, e.R1), num(e.R1), num(e.R1), at(e.A1, e.R1))
	if e.R0 <= 0 {
		fmt.Fprintf(&b, " L %s %s Z", num(e.CX), num(e.CY))
		return b.String()
	}
	fmt.Fprintf(&b, " L %s A %s %s 0 0 0 %s Z", at(e.A1, e.R0), num(e.R0), num(e.R0), at(e.A0, e.R0))
	return b.String()
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		return "0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// escapeXML escapes the XML special characters of s.
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
