package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/weekplot/internal/aggregate"
	"github.com/alexanderramin/weekplot/internal/export"
	"github.com/alexanderramin/weekplot/internal/schedule"
	"github.com/alexanderramin/weekplot/internal/style"
)

const shareBarWidth = 20

// FormatWeekly renders the weekly category table: hours and share of the
// whole week per category.
func FormatWeekly(w *aggregate.Weekly, colors Colors) string {
	var b strings.Builder
	b.WriteString(Header("Share of the week"))
	b.WriteString("\n")

	rows := make([][]string, 0, len(w.Categories))
	for _, c := range w.Categories {
		color := colors.Color(c.Category)
		rows = append(rows, []string{
			Swatch(c.Category, color),
			FormatHours(c.Hours),
			RenderShare(c.Percent, shareBarWidth, color),
		})
	}
	b.WriteString(RenderTable([]string{"CATEGORY", "HOURS", "SHARE"}, rows, 1))

	b.WriteString(Dim(fmt.Sprintf("%s scheduled of %s (%.1f%%)",
		FormatHours(w.ScheduledHours), FormatHours(w.TotalPeriod), w.ScheduledPercent())))
	b.WriteString("\n")
	return b.String()
}

// FormatDays renders one row per day with its scheduled time and largest
// category.
func FormatDays(days []aggregate.Day, colors Colors) string {
	var b strings.Builder
	b.WriteString(Header("Scheduled time per day"))
	b.WriteString("\n")

	rows := make([][]string, 0, len(days))
	for _, d := range days {
		if d.NoData {
			rows = append(rows, []string{d.Day.String(), FormatHours(0), Dim(style.NoDataLabel), ""})
			continue
		}
		top := d.Shares[0]
		for _, s := range d.Shares[1:] {
			if s.Hours > top.Hours {
				top = s
			}
		}
		rows = append(rows, []string{
			d.Day.String(),
			FormatHours(d.ScheduledHours),
			Swatch(top.Category, colors.Color(top.Category)),
			fmt.Sprintf("%.1f%%", top.Percent),
		})
	}
	b.WriteString(RenderTable([]string{"DAY", "SCHEDULED", "LARGEST", "SHARE"}, rows, 1, 3))
	return b.String()
}

// FormatRejections renders the rejected-row report. It returns "" when
// nothing was rejected.
func FormatRejections(rejections []*schedule.ValidationError) string {
	if len(rejections) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(StyleRed.Render(strings.ToUpper(fmt.Sprintf("Rejected rows (%d)", len(rejections)))))
	b.WriteString("\n")

	rows := make([][]string, 0, len(rejections))
	for _, r := range rejections {
		value := ""
		if r.Value != "" {
			value = strconv.Quote(r.Value)
		}
		rows = append(rows, []string{strconv.Itoa(r.Row), r.Field, value, r.Reason})
	}
	b.WriteString(RenderTable([]string{"ROW", "FIELD", "VALUE", "REASON"}, rows, 0))
	return b.String()
}

// FormatArtifacts lists the written export files.
func FormatArtifacts(artifacts []export.Artifact) string {
	rows := make([][]string, 0, len(artifacts))
	for _, a := range artifacts {
		rows = append(rows, []string{string(a.Format), a.Path, FormatBytes(a.Bytes)})
	}
	return RenderTable([]string{"FORMAT", "FILE", "SIZE"}, rows, 2)
}
