// Package schedule turns raw schedule rows into validated interval records.
package schedule

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/weekplot/internal/domain"
	"github.com/alexanderramin/weekplot/internal/importer"
)

// HoursPerDay is the upper bound of a time of day.
const HoursPerDay = 24.0

// Policy decides what a build does with rejected rows.
type Policy string

const (
	// PolicyAbort fails the whole build when any row is rejected.
	PolicyAbort Policy = "abort"
	// PolicySkip proceeds with the valid subset.
	PolicySkip Policy = "skip"
)

// ParsePolicy validates a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyAbort:
		return PolicyAbort, nil
	case PolicySkip:
		return PolicySkip, nil
	default:
		return "", fmt.Errorf("invalid rejection policy %q (expected abort or skip)", s)
	}
}

// Record is one validated schedule interval. Start and End are fractional
// hours with 0 <= Start < End <= 24.
type Record struct {
	Row      int
	Day      domain.Day
	Category string
	Start    float64
	End      float64
}

// Duration is End - Start, always positive for a normalized record.
func (r Record) Duration() float64 {
	return r.End - r.Start
}

// Options configures normalization.
type Options struct {
	// DayAliases maps additional day spellings to English day names.
	DayAliases map[string]string
}

// Result holds the normalized records and the rejected rows, both in input
// order.
type Result struct {
	Records    []Record
	Rejections []*ValidationError
}

// Rejected is the number of rejected rows.
func (r *Result) Rejected() int {
	return len(r.Rejections)
}

// Err applies the rejection policy. It returns a *RejectedRowsError under
// PolicyAbort when any row was rejected, and ErrNoRecords when nothing
// valid is left.
func (r *Result) Err(policy Policy) error {
	if policy != PolicySkip && len(r.Rejections) > 0 {
		return &RejectedRowsError{Rejections: r.Rejections}
	}
	if len(r.Records) == 0 {
		return ErrNoRecords
	}
	return nil
}

// Normalize validates raw rows. Every row lands either in Records or in
// Rejections; nothing is dropped or reordered.
func Normalize(raws []importer.RawRecord, opts Options) *Result {
	res := &Result{}
	for _, raw := range raws {
		rec, verr := normalizeRow(raw, opts)
		if verr != nil {
			res.Rejections = append(res.Rejections, verr)
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res
}

// normalizeRow reports the first failing field of a row.
func normalizeRow(raw importer.RawRecord, opts Options) (Record, *ValidationError) {
	reject := func(field, value, reason string) (Record, *ValidationError) {
		return Record{}, &ValidationError{Row: raw.Row, Field: field, Value: value, Reason: reason}
	}

	dayStr := strings.TrimSpace(raw.Day)
	category := strings.TrimSpace(raw.Category)
	startStr := strings.TrimSpace(raw.Start)
	endStr := strings.TrimSpace(raw.End)

	day, err := domain.ParseDay(dayStr, opts.DayAliases)
	if err != nil {
		return reject(importer.ColumnDay, dayStr, "not a recognized day")
	}
	if category == "" {
		return reject(importer.ColumnCategory, "", "category is required")
	}

	start, err := ParseTimeOfDay(startStr)
	if err != nil {
		return reject(importer.ColumnStartTime, startStr, err.Error())
	}
	end, err := ParseTimeOfDay(endStr)
	if err != nil {
		return reject(importer.ColumnEndTime, endStr, err.Error())
	}
	if start >= end {
		return reject(importer.ColumnEndTime, endStr, fmt.Sprintf("end must be after start %s", startStr))
	}

	return Record{
		Row:      raw.Row,
		Day:      day,
		Category: category,
		Start:    start,
		End:      end,
	}, nil
}

// ParseTimeOfDay parses "HH:MM" (24-hour clock) into fractional hours.
// "24:00" is accepted as the end of the day.
func ParseTimeOfDay(s string) (float64, error) {
	hourStr, minStr, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("expected HH:MM")
	}

	hour, err := parseUint(hourStr)
	if err != nil {
		return 0, fmt.Errorf("invalid hour: expected HH:MM")
	}
	minute, err := parseUint(minStr)
	if err != nil || len(minStr) != 2 {
		return 0, fmt.Errorf("invalid minute: expected HH:MM")
	}

	if minute > 59 {
		return 0, fmt.Errorf("minute out of range: %d", minute)
	}
	if hour > 24 || (hour == 24 && minute != 0) {
		return 0, fmt.Errorf("time out of range: %s", s)
	}

	return float64(hour) + float64(minute)/60, nil
}

// FormatTimeOfDay renders fractional hours as "HH:MM".
func FormatTimeOfDay(h float64) string {
	total := int(h*60 + 0.5)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func parseUint(s string) (int, error) {
	if s == "" || len(s) > 2 {
		return 0, fmt.Errorf("expected one or two digits")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("expected digits")
		}
	}
	return strconv.Atoi(s)
}
