// Package highlight maps click events on the timeline to per-series opacity.
package highlight

const (
	// SelectedOpacity is the opacity of the selected series, and of every
	// series when nothing is selected.
	SelectedOpacity = 1.0
	// DimmedOpacity is the opacity of unselected series.
	DimmedOpacity = 0.2
)

// State is the current selection. The zero value selects nothing.
type State struct {
	category string
	active   bool
}

// Selected returns a state with category selected.
func Selected(category string) State {
	if category == "" {
		return State{}
	}
	return State{category: category, active: true}
}

// Category returns the selected category and whether one is selected.
func (s State) Category() (string, bool) {
	return s.category, s.active
}

// ClickEvent is a click on a mark. Category is empty when the clicked mark
// carries no category.
type ClickEvent struct {
	Category string
}

// Transition applies an event. A nil event (a click outside any mark)
// clears the selection; an event without a category leaves the state
// unchanged.
func Transition(s State, ev *ClickEvent) State {
	if ev == nil {
		return State{}
	}
	if ev.Category == "" {
		return s
	}
	return Selected(ev.Category)
}

// Opacity returns the opacity of one series.
func (s State) Opacity(category string) float64 {
	if !s.active || category == s.category {
		return SelectedOpacity
	}
	return DimmedOpacity
}

// Opacities returns the opacity of every series in order.
func (s State) Opacities(series []string) []float64 {
	out := make([]float64, len(series))
	for i, c := range series {
		out[i] = s.Opacity(c)
	}
	return out
}
