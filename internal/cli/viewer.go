package cli

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/alexanderramin/weekplot/internal/cli/formatter"
	"github.com/alexanderramin/weekplot/internal/highlight"
	"github.com/alexanderramin/weekplot/internal/layout"
	"github.com/alexanderramin/weekplot/internal/panel"
	"github.com/alexanderramin/weekplot/internal/service"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	cellsPerHour  = 2
	timelineCells = 24 * cellsPerHour
	dayLabelWidth = 10
)

type viewerKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Clear  key.Binding
	Export key.Binding
	Quit   key.Binding
}

func defaultViewerKeys() viewerKeyMap {
	return viewerKeyMap{
		Next:   key.NewBinding(key.WithKeys("tab", "right", "l", "n"), key.WithHelp("tab", "next category")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "left", "h", "p"), key.WithHelp("shift+tab", "previous")),
		Clear:  key.NewBinding(key.WithKeys("esc", "c"), key.WithHelp("esc", "clear")),
		Export: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k viewerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Clear, k.Export, k.Quit}
}

// exportFunc writes the report with a highlight applied and returns the
// number of files written.
type exportFunc func(ctx context.Context, state highlight.State) (int, error)

// exportDoneMsg reports the outcome of an export started from the viewer.
type exportDoneMsg struct {
	files int
	err   error
}

// viewerModel is the terminal timeline. Moving through the legend sends a
// click on that category to the highlight controller; clearing sends a click
// outside every mark.
type viewerModel struct {
	report *service.Report
	legend []layout.LegendEntry
	colors formatter.Colors
	export exportFunc
	keys   viewerKeyMap

	cursor int
	state  highlight.State
	status string
}

func newViewerModel(report *service.Report, colors formatter.Colors, export exportFunc) viewerModel {
	return viewerModel{
		report: report,
		legend: report.Canvas.Legend,
		colors: colors,
		export: export,
		keys:   defaultViewerKeys(),
		cursor: -1,
	}
}

func (m viewerModel) Init() tea.Cmd {
	return nil
}

func (m viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case exportDoneMsg:
		if msg.err != nil {
			m.status = formatter.StyleRed.Render("export failed: " + msg.err.Error())
		} else {
			m.status = formatter.StyleGreen.Render(fmt.Sprintf("exported %d files", msg.files))
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			return m.selectAt(m.cursor + 1), nil
		case key.Matches(msg, m.keys.Prev):
			if m.cursor <= 0 {
				return m.selectAt(len(m.legend) - 1), nil
			}
			return m.selectAt(m.cursor - 1), nil
		case key.Matches(msg, m.keys.Clear):
			m.cursor = -1
			m.state = highlight.Transition(m.state, nil)
			return m, nil
		case key.Matches(msg, m.keys.Export):
			if m.export == nil {
				return m, nil
			}
			m.status = formatter.StyleYellow.Render("exporting...")
			export, state := m.export, m.state
			return m, func() tea.Msg {
				n, err := export(context.Background(), state)
				return exportDoneMsg{files: n, err: err}
			}
		}
	}
	return m, nil
}

func (m viewerModel) selectAt(i int) viewerModel {
	if len(m.legend) == 0 {
		return m
	}
	m.cursor = (i%len(m.legend) + len(m.legend)) % len(m.legend)
	m.state = highlight.Transition(m.state, &highlight.ClickEvent{Category: m.legend[m.cursor].Category})
	return m
}

func (m viewerModel) View() string {
	var b strings.Builder
	b.WriteString(formatter.Header(m.report.Timeline.Title))
	b.WriteString("\n")
	b.WriteString(renderTimeline(&m.report.Timeline, m.state))
	b.WriteString("\n")
	b.WriteString(formatter.RenderBox("Legend", m.renderLegend()+"\n"+m.renderSelection()))
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	b.WriteString(m.renderHints())
	return b.String()
}

// renderTimeline draws one row per Y tick, highest first, with one cell per
// half hour.
func renderTimeline(spec *panel.Spec, state highlight.State) string {
	ticks := make([]panel.Tick, len(spec.YTicks))
	copy(ticks, spec.YTicks)
	sort.SliceStable(ticks, func(i, j int) bool { return ticks[i].Value > ticks[j].Value })

	var b strings.Builder
	for _, tick := range ticks {
		cells := make([]string, timelineCells)
		for _, s := range spec.Series {
			mark := formatter.StyleDim.Render("░")
			if state.Opacity(s.Category) == highlight.SelectedOpacity {
				mark = formatter.CategoryStyle(s.Color).Render("█")
			}
			for _, p := range s.Points {
				if p.Y != tick.Value {
					continue
				}
				from, to := cellSpan(p.X, p.Width)
				for c := from; c < to; c++ {
					if cells[c] == "" {
						cells[c] = mark
					}
				}
			}
		}

		b.WriteString(fmt.Sprintf("%-*s", dayLabelWidth, tick.Label))
		for _, c := range cells {
			if c == "" {
				c = formatter.Dim("·")
			}
			b.WriteString(c)
		}
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat(" ", dayLabelWidth))
	b.WriteString(formatter.Dim(hourAxis()))
	b.WriteString("\n")
	return b.String()
}

// cellSpan maps an interval to half-hour cells. Intervals shorter than a
// cell still occupy one.
func cellSpan(start, width float64) (from, to int) {
	from = int(math.Round(start * cellsPerHour))
	to = int(math.Round((start + width) * cellsPerHour))
	if to <= from {
		to = from + 1
	}
	from = max(0, min(from, timelineCells-1))
	to = max(from+1, min(to, timelineCells))
	return from, to
}

func hourAxis() string {
	axis := []rune(strings.Repeat(" ", timelineCells+1))
	for h := 0; h <= 24; h += 4 {
		label := fmt.Sprintf("%d", h)
		pos := min(h*cellsPerHour, len(axis)-len(label))
		copy(axis[pos:], []rune(label))
	}
	return strings.TrimRight(string(axis), " ")
}

func (m viewerModel) renderLegend() string {
	lines := make([]string, 0, len(m.legend))
	for i, e := range m.legend {
		prefix := "  "
		if i == m.cursor {
			prefix = formatter.Bold("▸ ")
		}
		label := formatter.Swatch(e.Category, e.Color)
		if m.state.Opacity(e.Category) != highlight.SelectedOpacity {
			label = formatter.Dim("■ " + e.Category)
		}
		lines = append(lines, prefix+label)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m viewerModel) renderSelection() string {
	category, ok := m.state.Category()
	if !ok {
		return formatter.Dim("No category highlighted")
	}
	for _, c := range m.report.Weekly.Categories {
		if c.Category == category {
			return fmt.Sprintf("%s  %s, %.1f%% of the week",
				formatter.Swatch(category, m.colors.Color(category)), formatter.FormatHours(c.Hours), c.Percent)
		}
	}
	return formatter.Swatch(category, m.colors.Color(category))
}

func (m viewerModel) renderHints() string {
	bindings := m.keys.ShortHelp()
	hints := make([]string, 0, len(bindings))
	for _, k := range bindings {
		h := k.Help()
		hints = append(hints, formatter.Dim(h.Key+": "+h.Desc))
	}
	return strings.Join(hints, "  ")
}
