package domain

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Day is a day of the week. Monday is the first day of the canonical order.
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// DaysInWeek is the fixed size of the day enumeration.
const DaysInWeek = 7

var canonicalDays = [DaysInWeek]Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var dayNames = [DaysInWeek]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// String returns the English day name.
func (d Day) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return dayNames[d]
}

// Short returns the three-letter abbreviation.
func (d Day) Short() string {
	return d.String()[:3]
}

// Valid reports whether d is one of the seven canonical days.
func (d Day) Valid() bool {
	return d >= Monday && d <= Sunday
}

// Index is the position of d in the canonical order.
func (d Day) Index() int {
	return int(d)
}

// CanonicalOrder returns the days Monday..Sunday. The result is a fresh copy.
func CanonicalOrder() []Day {
	out := make([]Day, DaysInWeek)
	copy(out, canonicalDays[:])
	return out
}

// DisplayOrder derives the display order from the canonical order. When
// reversed is true the sequence runs Sunday..Monday.
func DisplayOrder(reversed bool) []Day {
	out := CanonicalOrder()
	if !reversed {
		return out
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// ParseDay resolves a day name. English names and three-letter
// abbreviations match case-insensitively; aliases map any other spelling
// (for example localized names) to a canonical English name. Aliases are
// tried in sorted order, so the first of two case-insensitive duplicates wins.
func ParseDay(s string, aliases map[string]string) (Day, error) {
	name := strings.TrimSpace(s)
	if name == "" {
		return 0, fmt.Errorf("day is required")
	}

	for _, alias := range slices.Sorted(maps.Keys(aliases)) {
		if strings.EqualFold(alias, name) {
			name = aliases[alias]
			break
		}
	}

	for _, d := range canonicalDays {
		if strings.EqualFold(d.String(), name) || strings.EqualFold(d.Short(), name) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unrecognized day %q", s)
}

// PanelKind identifies the kind of a panel specification.
type PanelKind string

const (
	PanelTimeline       PanelKind = "timeline"
	PanelCategoricalBar PanelKind = "categorical-bar"
	PanelProportionRing PanelKind = "proportion-ring"
)

// Format is an export target format.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatHTML Format = "html"
	FormatPNG  Format = "png"
)

// ValidFormats is the canonical set of accepted export formats.
var ValidFormats = map[string]bool{
	"svg": true, "html": true, "png": true,
}

// ParseFormats turns a list of format names into Formats, rejecting
// unknown names and dropping duplicates while keeping the first-seen order.
func ParseFormats(names []string) ([]Format, error) {
	seen := make(map[Format]bool)
	var out []Format
	for _, n := range names {
		clean := strings.ToLower(strings.TrimSpace(n))
		if clean == "" {
			continue
		}
		if !ValidFormats[clean] {
			return nil, fmt.Errorf("invalid format %q (expected svg, html or png)", n)
		}
		f := Format(clean)
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("at least one export format is required")
	}
	return out, nil
}
