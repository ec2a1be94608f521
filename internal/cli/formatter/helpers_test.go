package formatter

import (
	"testing"

	"github.com/alexanderramin/weekplot/internal/aggregate"
	"github.com/alexanderramin/weekplot/internal/domain"
	"github.com/alexanderramin/weekplot/internal/export"
	"github.com/alexanderramin/weekplot/internal/style"
	"github.com/alexanderramin/weekplot/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestFormatHours(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0m"},
		{-1, "0m"},
		{0.25, "15m"},
		{7, "7h"},
		{7.5, "7h 30m"},
		{2.0 / 3, "40m"},
		{168, "168h"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatHours(tt.in))
		})
	}
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.5 KiB", FormatBytes(1536))
	assert.Equal(t, "2.0 MiB", FormatBytes(2*1024*1024))
}

func TestTruncID(t *testing.T) {
	assert.Equal(t, "0123abcd", stripANSI(TruncID("0123abcd-ffff-4000")))
	assert.Equal(t, "short", stripANSI(TruncID("short")))
}

func TestHeader(t *testing.T) {
	assert.Equal(t, "ŚRODA\n─────", stripANSI(Header("środa")))
}

func TestSwatch(t *testing.T) {
	assert.Equal(t, "■ Work", stripANSI(Swatch("Work", "#8b008b")))
}

func TestRenderBox(t *testing.T) {
	out := stripANSI(RenderBox("summary", "hello"))
	assert.Contains(t, out, "SUMMARY")
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "╭")
}

func TestRenderTable_Alignment(t *testing.T) {
	out := stripANSI(RenderTable([]string{"A", "N"}, [][]string{{"x", "1"}, {"long", "100"}}, 1))
	assert.Equal(t, "A       N\n────  ───\nx       1\nlong  100\n", out)
}

func TestRenderTable_NoHeaders(t *testing.T) {
	assert.Empty(t, RenderTable(nil, [][]string{{"x"}}))
}

func TestFormatDays_LargestShare(t *testing.T) {
	reg := style.NewRegistry(nil)
	days := aggregate.PerDay(testutil.SampleWeek(), reg.Declared())
	out := stripANSI(FormatDays(days, reg))

	assert.Contains(t, out, "Saturday")
	assert.Contains(t, out, "■ Sleep")
	assert.Contains(t, out, "No data")
}

func TestFormatRejections_Empty(t *testing.T) {
	assert.Empty(t, FormatRejections(nil))
}

func TestFormatArtifacts(t *testing.T) {
	out := stripANSI(FormatArtifacts([]export.Artifact{
		{Format: domain.FormatSVG, Path: "report/weekplot.svg", Bytes: 2048},
		{Format: domain.FormatPNG, Path: "report/weekplot.png", Bytes: 100},
	}))
	assert.Contains(t, out, "svg     report/weekplot.svg  2.0 KiB")
	assert.Contains(t, out, "png     report/weekplot.png    100 B")
}
