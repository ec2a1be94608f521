package aggregate

import (
	"math/rand"
	"testing"

	"github.com/alexanderramin/weekplot/internal/domain"
	"github.com/alexanderramin/weekplot/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(day domain.Day, category string, start, end float64) schedule.Record {
	return schedule.Record{Day: day, Category: category, Start: start, End: end}
}

func mondayThirds() []schedule.Record {
	return []schedule.Record{
		rec(domain.Monday, "Sleep", 0, 8),
		rec(domain.Monday, "Work", 8, 16),
		rec(domain.Monday, "Rest", 16, 24),
	}
}

func TestPerDay_MondayThirds(t *testing.T) {
	days := PerDay(mondayThirds(), nil)
	require.Len(t, days, domain.DaysInWeek)

	monday := days[0]
	assert.Equal(t, domain.Monday, monday.Day)
	assert.False(t, monday.NoData)
	require.Len(t, monday.Shares, 3)
	for _, s := range monday.Shares {
		assert.InDelta(t, 100.0/3, s.Percent, 1e-9, s.Category)
	}
}

func TestPerDay_PercentOfScheduledTimeNotFullDay(t *testing.T) {
	records := []schedule.Record{
		rec(domain.Tuesday, "Work", 8, 14),
		rec(domain.Tuesday, "Gym", 18, 22),
	}
	days := PerDay(records, []string{"Work", "Gym"})

	tuesday := days[domain.Tuesday.Index()]
	assert.InDelta(t, 10.0, tuesday.ScheduledHours, 1e-9)
	require.Len(t, tuesday.Shares, 2)
	assert.Equal(t, "Work", tuesday.Shares[0].Category)
	assert.InDelta(t, 60.0, tuesday.Shares[0].Percent, 1e-9)
	assert.InDelta(t, 40.0, tuesday.Shares[1].Percent, 1e-9)
}

func TestPerDay_EmptyDayIsSentinel(t *testing.T) {
	days := PerDay(mondayThirds(), nil)
	for _, d := range days[1:] {
		assert.True(t, d.NoData, d.Day.String())
		assert.Empty(t, d.Shares)
		assert.Zero(t, d.ScheduledHours)
	}
}

func TestWeeklyByCategory_PercentOfWeek(t *testing.T) {
	w := WeeklyByCategory(mondayThirds(), nil)

	assert.InDelta(t, 168.0, w.TotalPeriod, 1e-9)
	assert.InDelta(t, 24.0, w.ScheduledHours, 1e-9)
	require.Len(t, w.Categories, 3)

	sum := 0.0
	for _, c := range w.Categories {
		assert.InDelta(t, 8.0/168*100, c.Percent, 1e-9)
		assert.InDelta(t, 8.0, c.PerDay[domain.Monday.Index()], 1e-9)
		sum += c.Percent
	}
	assert.InDelta(t, 24.0/168*100, sum, 1e-9)
	assert.InDelta(t, w.ScheduledPercent(), sum, 1e-9)
}

func TestWeeklyByCategory_DeclaredOrderThenLexicographic(t *testing.T) {
	records := []schedule.Record{
		rec(domain.Monday, "Zeta", 0, 1),
		rec(domain.Monday, "Alpha", 1, 2),
		rec(domain.Monday, "Work", 2, 3),
		rec(domain.Monday, "Sleep", 3, 4),
	}
	w := WeeklyByCategory(records, []string{"Sleep", "Work"})
	assert.Equal(t, []string{"Sleep", "Work", "Alpha", "Zeta"}, w.CategoryNames())
}

func TestWeeklyByCategory_KeepsIntervalsInInputOrder(t *testing.T) {
	records := []schedule.Record{
		rec(domain.Friday, "Work", 13, 17),
		rec(domain.Monday, "Work", 8, 12),
	}
	w := WeeklyByCategory(records, nil)
	require.Len(t, w.Categories, 1)
	require.Len(t, w.Categories[0].Intervals, 2)
	assert.Equal(t, domain.Friday, w.Categories[0].Intervals[0].Day)
}

func TestAggregations_TotalPreserving(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	categories := []string{"Sleep", "Work", "Rest", "Gym", "Study"}

	for iter := 0; iter < 50; iter++ {
		var records []schedule.Record
		total := 0.0
		perDayTotal := make([]float64, domain.DaysInWeek)
		for i := 0; i < 1+rng.Intn(30); i++ {
			start := float64(rng.Intn(23*4)) / 4
			end := start + float64(1+rng.Intn(int((24-start)*4)))/4
			if end > 24 {
				end = 24
			}
			r := rec(domain.Day(rng.Intn(7)), categories[rng.Intn(len(categories))], start, end)
			records = append(records, r)
			total += r.Duration()
			perDayTotal[r.Day.Index()] += r.Duration()
		}

		w := WeeklyByCategory(records, nil)
		sumHours := 0.0
		for _, c := range w.Categories {
			sumHours += c.Hours
		}
		assert.InDelta(t, total, sumHours, 1e-6)
		assert.InDelta(t, total, w.ScheduledHours, 1e-6)

		for _, d := range PerDay(records, nil) {
			if d.NoData {
				assert.Zero(t, perDayTotal[d.Day.Index()])
				continue
			}
			pct, hours := 0.0, 0.0
			for _, s := range d.Shares {
				pct += s.Percent
				hours += s.Hours
			}
			assert.InDelta(t, 100.0, pct, 1e-6, "day %s", d.Day)
			assert.InDelta(t, perDayTotal[d.Day.Index()], hours, 1e-6)
		}
	}
}

func TestOrderCategories_Deterministic(t *testing.T) {
	in := []string{"b", "c", "a"}
	first := OrderCategories(in, []string{"c"})
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, OrderCategories(in, []string{"c"}))
	}
	assert.Equal(t, []string{"c", "a", "b"}, first)
	assert.Equal(t, []string{"b", "c", "a"}, in, "input slice must not be reordered")
}

func TestPerDay_RepeatedBuildsAreBitIdentical(t *testing.T) {
	var records []schedule.Record
	start := 0.0
	for i, name := range []string{"Sleep", "Work", "Rest", "Gym", "Study", "Chores", "Transport", "Reading", "Music"} {
		d := float64(61+7*i) / 60
		records = append(records, rec(domain.Monday, name, start, start+d))
		start += d
	}

	first := PerDay(records, nil)
	for i := 0; i < 500; i++ {
		got := PerDay(records, nil)
		require.Equal(t, first[0].ScheduledHours, got[0].ScheduledHours, "run %d", i)
		require.Equal(t, first, got, "run %d", i)
	}
}
