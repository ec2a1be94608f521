package schedule

import (
	"errors"
	"testing"

	"github.com/alexanderramin/weekplot/internal/domain"
	"github.com/alexanderramin/weekplot/internal/importer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func raw(row int, day, category, start, end string) importer.RawRecord {
	return importer.RawRecord{Row: row, Day: day, Category: category, Start: start, End: end}
}

func TestNormalize_TrimsAndParses(t *testing.T) {
	res := Normalize([]importer.RawRecord{
		raw(1, " Monday ", "  Sleep ", " 00:00", "08:30 "),
	}, Options{})

	require.Empty(t, res.Rejections)
	require.Len(t, res.Records, 1)

	rec := res.Records[0]
	assert.Equal(t, domain.Monday, rec.Day)
	assert.Equal(t, "Sleep", rec.Category)
	assert.InDelta(t, 0.0, rec.Start, 1e-9)
	assert.InDelta(t, 8.5, rec.End, 1e-9)
	assert.InDelta(t, 8.5, rec.Duration(), 1e-9)
}

func TestNormalize_StartAfterEndRejected(t *testing.T) {
	res := Normalize([]importer.RawRecord{raw(1, "Mon", "Work", "16:00", "08:00")}, Options{})

	assert.Empty(t, res.Records, "must never be silently reordered")
	require.Len(t, res.Rejections, 1)
	assert.Equal(t, importer.ColumnEndTime, res.Rejections[0].Field)
	assert.Equal(t, 1, res.Rejections[0].Row)
}

func TestNormalize_RejectionReasons(t *testing.T) {
	cases := []struct {
		name  string
		row   importer.RawRecord
		field string
	}{
		{"unknown day", raw(1, "Someday", "Work", "08:00", "09:00"), importer.ColumnDay},
		{"empty category", raw(2, "Mon", "   ", "08:00", "09:00"), importer.ColumnCategory},
		{"no colon", raw(3, "Mon", "Work", "0800", "09:00"), importer.ColumnStartTime},
		{"fractional minute", raw(4, "Mon", "Work", "08:00", "09:3.5"), importer.ColumnEndTime},
		{"negative hour", raw(5, "Mon", "Work", "-1:00", "09:00"), importer.ColumnStartTime},
		{"minute out of range", raw(6, "Mon", "Work", "08:60", "09:00"), importer.ColumnStartTime},
		{"past midnight", raw(7, "Mon", "Work", "23:00", "24:30"), importer.ColumnEndTime},
		{"zero length", raw(8, "Mon", "Work", "09:00", "09:00"), importer.ColumnEndTime},
		{"single digit minute", raw(9, "Mon", "Work", "8:5", "09:00"), importer.ColumnStartTime},
		{"three digit minute", raw(10, "Mon", "Work", "08:00", "09:000"), importer.ColumnEndTime},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Normalize([]importer.RawRecord{tc.row}, Options{})
			require.Len(t, res.Rejections, 1)
			assert.Equal(t, tc.field, res.Rejections[0].Field)
			assert.Equal(t, tc.row.Row, res.Rejections[0].Row)
			assert.NotEmpty(t, res.Rejections[0].Reason)
		})
	}
}

func TestNormalize_EndOfDayAccepted(t *testing.T) {
	res := Normalize([]importer.RawRecord{raw(1, "Sun", "Rest", "16:00", "24:00")}, Options{})
	require.Len(t, res.Records, 1)
	assert.InDelta(t, 24.0, res.Records[0].End, 1e-9)
}

func TestNormalize_DayAliases(t *testing.T) {
	opts := Options{DayAliases: map[string]string{"Środa": "Wednesday"}}
	res := Normalize([]importer.RawRecord{raw(1, "środa", "Studia", "10:00", "12:00")}, opts)
	require.Len(t, res.Records, 1)
	assert.Equal(t, domain.Wednesday, res.Records[0].Day)
}

func TestNormalize_ValidRecordsKeepInvariants(t *testing.T) {
	rows := []importer.RawRecord{
		raw(1, "Mon", "Sleep", "00:00", "07:45"),
		raw(2, "Tue", "Work", "9:05", "17:10"),
		raw(3, "Bad", "Work", "9:05", "17:10"),
		raw(4, "Sun", "Gym", "23:59", "24:00"),
	}
	res := Normalize(rows, Options{})

	assert.Equal(t, 1, res.Rejected())
	for _, rec := range res.Records {
		assert.True(t, rec.Day.Valid())
		assert.Greater(t, rec.Duration(), 0.0)
		assert.GreaterOrEqual(t, rec.Start, 0.0)
		assert.LessOrEqual(t, rec.End, HoursPerDay)
	}
}

func TestResult_ErrPolicy(t *testing.T) {
	res := Normalize([]importer.RawRecord{
		raw(1, "Mon", "Work", "08:00", "16:00"),
		raw(2, "Mon", "Work", "16:00", "08:00"),
		raw(3, "Xyz", "Work", "08:00", "16:00"),
	}, Options{})

	err := res.Err(PolicyAbort)
	require.Error(t, err)

	var rejected *RejectedRowsError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, 2, rejected.Count())
	assert.Contains(t, err.Error(), "2 rejected rows")

	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "aggregate must unwrap to row errors")
	assert.Equal(t, 2, verr.Row)

	assert.NoError(t, res.Err(PolicySkip))
}

func TestResult_ErrNoRecords(t *testing.T) {
	res := Normalize([]importer.RawRecord{raw(1, "Xyz", "Work", "08:00", "16:00")}, Options{})
	assert.ErrorIs(t, res.Err(PolicySkip), ErrNoRecords)

	res = Normalize(nil, Options{})
	assert.ErrorIs(t, res.Err(PolicyAbort), ErrNoRecords)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyAbort, p)

	p, err = ParsePolicy(" SKIP ")
	require.NoError(t, err)
	assert.Equal(t, PolicySkip, p)

	_, err = ParsePolicy("ignore")
	assert.Error(t, err)
}

func TestFormatTimeOfDay(t *testing.T) {
	assert.Equal(t, "08:30", FormatTimeOfDay(8.5))
	assert.Equal(t, "24:00", FormatTimeOfDay(24))
	assert.Equal(t, "09:05", FormatTimeOfDay(9+5.0/60))
}
