package testutil

import (
	"fmt"
	"sync/atomic"

	"github.com/alexanderramin/weekplot/internal/domain"
	"github.com/alexanderramin/weekplot/internal/importer"
	"github.com/alexanderramin/weekplot/internal/schedule"
)

var testRowCounter atomic.Int64

// Record options
type RecordOption func(*schedule.Record)

func WithRow(n int) RecordOption {
	return func(r *schedule.Record) {
		r.Row = n
	}
}

func WithDay(d domain.Day) RecordOption {
	return func(r *schedule.Record) {
		r.Day = d
	}
}

// NewTestRecord builds a normalized record on Monday unless WithDay is given.
func NewTestRecord(category string, start, end float64, opts ...RecordOption) schedule.Record {
	r := schedule.Record{
		Row:      int(testRowCounter.Add(1)),
		Day:      domain.Monday,
		Category: category,
		Start:    start,
		End:      end,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// MondayThirds is Monday split evenly between Sleep, Work and Rest.
func MondayThirds() []schedule.Record {
	return []schedule.Record{
		NewTestRecord("Sleep", 0, 8, WithRow(1)),
		NewTestRecord("Work", 8, 16, WithRow(2)),
		NewTestRecord("Rest", 16, 24, WithRow(3)),
	}
}

// SampleWeek covers every day except Sunday with a mix of categories,
// including one category missing from the default palette.
func SampleWeek() []schedule.Record {
	var out []schedule.Record
	row := 0
	add := func(d domain.Day, category string, start, end float64) {
		row++
		out = append(out, NewTestRecord(category, start, end, WithDay(d), WithRow(row)))
	}
	for _, d := range domain.CanonicalOrder()[:5] {
		add(d, "Sleep", 0, 7)
		add(d, "Transport", 7.5, 8.5)
		add(d, "Work", 8.5, 16.5)
		add(d, "Rest", 18, 22)
	}
	add(domain.Tuesday, "Gym", 17, 18)
	add(domain.Thursday, "Gym", 17, 18)
	add(domain.Saturday, "Sleep", 0, 9)
	add(domain.Saturday, "Chores", 10, 12)
	add(domain.Saturday, "Knitting", 14, 16.25)
	return out
}

// RawRows renders records back to raw rows with HH:MM times.
func RawRows(records []schedule.Record) []importer.RawRecord {
	out := make([]importer.RawRecord, len(records))
	for i, r := range records {
		out[i] = importer.RawRecord{
			Row:      i + 1,
			Day:      r.Day.String(),
			Category: r.Category,
			Start:    schedule.FormatTimeOfDay(r.Start),
			End:      schedule.FormatTimeOfDay(r.End),
		}
	}
	return out
}

// CSV renders raw rows as a schedule table with padded headers and cells,
// the way exported spreadsheets usually arrive.
func CSV(rows []importer.RawRecord) string {
	s := fmt.Sprintf(" %s , %s , %s , %s \n",
		importer.ColumnDay, importer.ColumnStartTime, importer.ColumnEndTime, importer.ColumnCategory)
	for _, r := range rows {
		s += fmt.Sprintf("%s, %s, %s, %s\n", r.Day, r.Start, r.End, r.Category)
	}
	return s
}
