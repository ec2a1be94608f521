// Package aggregate groups normalized schedule records by category and day.
//
// Both aggregations are total preserving: the per-category hours of a scope
// sum to the scheduled hours of the records in that scope. Output order never
// depends on map iteration; categories are ordered by a declared list first
// and lexicographically after that.
package aggregate

import (
	"sort"

	"github.com/alexanderramin/weekplot/internal/domain"
	"github.com/alexanderramin/weekplot/internal/schedule"
)

// TotalWeekHours is the denominator of the weekly percentage.
const TotalWeekHours = domain.DaysInWeek * schedule.HoursPerDay

// CategoryTotal is the weekly aggregate of one category.
type CategoryTotal struct {
	Category  string
	Hours     float64
	PerDay    [domain.DaysInWeek]float64
	Percent   float64
	Intervals []schedule.Record
}

// Weekly is the per-category aggregation over the whole week.
type Weekly struct {
	TotalPeriod    float64
	ScheduledHours float64
	Categories     []CategoryTotal
}

// ScheduledPercent is the share of the week covered by any record.
func (w *Weekly) ScheduledPercent() float64 {
	if w.TotalPeriod == 0 {
		return 0
	}
	return w.ScheduledHours / w.TotalPeriod * 100
}

// CategoryNames returns the ordered category names.
func (w *Weekly) CategoryNames() []string {
	names := make([]string, len(w.Categories))
	for i, c := range w.Categories {
		names[i] = c.Category
	}
	return names
}

// Share is one category's part of a single day.
type Share struct {
	Category string
	Hours    float64
	Percent  float64
}

// Day is the per-category aggregation of one day. The percentage base is the
// day's scheduled hours, not 24h. A day without records has NoData set and
// no shares.
type Day struct {
	Day            domain.Day
	ScheduledHours float64
	Shares         []Share
	NoData         bool
}

// WeeklyByCategory sums durations per category and divides by
// TotalWeekHours.
func WeeklyByCategory(records []schedule.Record, order []string) *Weekly {
	byCat := make(map[string]*CategoryTotal)
	total := 0.0

	for _, r := range records {
		ct, ok := byCat[r.Category]
		if !ok {
			ct = &CategoryTotal{Category: r.Category}
			byCat[r.Category] = ct
		}
		d := r.Duration()
		ct.Hours += d
		ct.PerDay[r.Day.Index()] += d
		ct.Intervals = append(ct.Intervals, r)
		total += d
	}

	w := &Weekly{
		TotalPeriod:    TotalWeekHours,
		ScheduledHours: total,
	}
	for _, name := range OrderCategories(keys(byCat), order) {
		ct := byCat[name]
		ct.Percent = ct.Hours / TotalWeekHours * 100
		w.Categories = append(w.Categories, *ct)
	}
	return w
}

// PerDay groups records by day, then by category within the day. The result
// always has seven entries in canonical order.
func PerDay(records []schedule.Record, order []string) []Day {
	byDay := make([]map[string]float64, domain.DaysInWeek)
	for _, r := range records {
		i := r.Day.Index()
		if byDay[i] == nil {
			byDay[i] = make(map[string]float64)
		}
		byDay[i][r.Category] += r.Duration()
	}

	days := make([]Day, 0, domain.DaysInWeek)
	for _, d := range domain.CanonicalOrder() {
		hours := byDay[d.Index()]
		if len(hours) == 0 {
			days = append(days, Day{Day: d, NoData: true})
			continue
		}

		names := OrderCategories(keys(hours), order)
		total := 0.0
		for _, name := range names {
			total += hours[name]
		}

		agg := Day{Day: d, ScheduledHours: total}
		for _, name := range names {
			agg.Shares = append(agg.Shares, Share{
				Category: name,
				Hours:    hours[name],
				Percent:  hours[name] / total * 100,
			})
		}
		days = append(days, agg)
	}
	return days
}

// OrderCategories orders names by their position in declared; names not in
// declared follow in lexicographic order.
func OrderCategories(names []string, declared []string) []string {
	rank := make(map[string]int, len(declared))
	for i, d := range declared {
		if _, dup := rank[d]; !dup {
			rank[d] = i
		}
	}

	out := make([]string, len(names))
	copy(out, names)
	sort.SliceStable(out, func(i, j int) bool {
		ri, iok := rank[out[i]]
		rj, jok := rank[out[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return out[i] < out[j]
		}
	})
	return out
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
