// Package style maps categories to colors.
package style

import (
	"fmt"
	"strings"
)

// Color is a lowercase "#rrggbb" hex string.
type Color string

const (
	// FallbackColor is returned for categories without a registered color.
	FallbackColor Color = "#d3d3d3"
	// NoDataColor fills the placeholder segment of an empty day.
	NoDataColor Color = "#ffffff"
	// NoDataLabel labels the placeholder segment of an empty day.
	NoDataLabel = "No data"
)

type entry struct {
	category string
	color    Color
}

// defaultTable is the built-in palette. Each category appears once; the
// English names share the color of the matching Polish category.
var defaultTable = []entry{
	{"Sen", "#00008b"},
	{"Odpoczynek i rozrywka", "#008000"},
	{"Transport", "#808080"},
	{"Studia", "#ffa500"},
	{"Obowiązki", "#8b4513"},
	{"Praca", "#8b008b"},
	{"Siłownia", "#ff0000"},
	{"Sleep", "#00008b"},
	{"Rest", "#008000"},
	{"Study", "#ffa500"},
	{"Chores", "#8b4513"},
	{"Work", "#8b008b"},
	{"Gym", "#ff0000"},
}

// Registry resolves category colors. It is read-only after construction and
// safe for concurrent use.
type Registry struct {
	colors   map[string]Color
	declared []string
}

// NewRegistry builds a registry from the default table. Entries in
// overrides take precedence; override categories missing from the default
// table are declared after it in lexicographic order.
func NewRegistry(overrides map[string]Color) *Registry {
	return NewRegistryWithOrder(overrides, nil)
}

// NewRegistryWithOrder is NewRegistry with an explicit declared order placed
// ahead of the default table.
func NewRegistryWithOrder(overrides map[string]Color, order []string) *Registry {
	r := &Registry{colors: make(map[string]Color, len(defaultTable)+len(overrides))}
	for _, e := range defaultTable {
		r.colors[e.category] = e.color
	}
	for name, c := range overrides {
		r.colors[name] = c
	}

	seen := make(map[string]bool)
	declare := func(category string) {
		if seen[category] {
			return
		}
		seen[category] = true
		r.declared = append(r.declared, category)
	}
	for _, name := range order {
		declare(name)
	}
	for _, e := range defaultTable {
		declare(e.category)
	}
	for _, name := range sortedKeys(overrides) {
		declare(name)
	}
	return r
}

// Color returns the registered color of a category or FallbackColor.
func (r *Registry) Color(category string) Color {
	if c, ok := r.colors[category]; ok {
		return c
	}
	return FallbackColor
}

// Known reports whether the category has a registered color.
func (r *Registry) Known(category string) bool {
	_, ok := r.colors[category]
	return ok
}

// Declared returns the declared category order.
func (r *Registry) Declared() []string {
	out := make([]string, len(r.declared))
	copy(out, r.declared)
	return out
}

// ParseColor accepts "#rgb", "#rrggbb" or a CSS color name and returns the
// normalized form.
func ParseColor(s string) (Color, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return "", fmt.Errorf("empty color")
	}
	if named, ok := namedColors[v]; ok {
		return named, nil
	}
	if !strings.HasPrefix(v, "#") {
		return "", fmt.Errorf("unknown color %q", s)
	}

	hex := v[1:]
	for _, r := range hex {
		if !isHexDigit(r) {
			return "", fmt.Errorf("invalid hex color %q", s)
		}
	}
	switch len(hex) {
	case 6:
		return Color("#" + hex), nil
	case 3:
		return Color("#" + string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})), nil
	default:
		return "", fmt.Errorf("invalid hex color %q", s)
	}
}

// RGB splits the color into its channels. Malformed values yield black.
func (c Color) RGB() (r, g, b uint8) {
	s := string(c)
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0
	}
	return hexByte(s[1:3]), hexByte(s[3:5]), hexByte(s[5:7])
}

func hexByte(s string) uint8 {
	var v uint8
	for i := 0; i < 2; i++ {
		v <<= 4
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			v |= c - '0'
		case c >= 'a' && c <= 'f':
			v |= c - 'a' + 10
		case c >= 'A' && c <= 'F':
			v |= c - 'A' + 10
		}
	}
	return v
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f')
}

var namedColors = map[string]Color{
	"black":       "#000000",
	"white":       "#ffffff",
	"gray":        "#808080",
	"grey":        "#808080",
	"lightgray":   "#d3d3d3",
	"lightgrey":   "#d3d3d3",
	"darkgray":    "#a9a9a9",
	"red":         "#ff0000",
	"darkred":     "#8b0000",
	"green":       "#008000",
	"darkgreen":   "#006400",
	"blue":        "#0000ff",
	"darkblue":    "#00008b",
	"navy":        "#000080",
	"orange":      "#ffa500",
	"darkorange":  "#ff8c00",
	"saddlebrown": "#8b4513",
	"brown":       "#a52a2a",
	"darkmagenta": "#8b008b",
	"magenta":     "#ff00ff",
	"purple":      "#800080",
	"teal":        "#008080",
	"gold":        "#ffd700",
	"yellow":      "#ffff00",
	"pink":        "#ffc0cb",
	"olive":       "#808000",
	"cyan":        "#00ffff",
}
