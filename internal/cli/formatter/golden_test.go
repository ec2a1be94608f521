package formatter

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/alexanderramin/weekplot/internal/aggregate"
	"github.com/alexanderramin/weekplot/internal/schedule"
	"github.com/alexanderramin/weekplot/internal/style"
	"github.com/alexanderramin/weekplot/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ansiPattern matches ANSI escape sequences for stripping before golden comparison.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// stripANSI removes ANSI escape codes from a string so golden files
// are terminal-independent.
func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// goldenTest compares got against a golden file in testdata/<name>.golden.
// Set GOLDEN_UPDATE=1 to regenerate golden files.
func goldenTest(t *testing.T, name, got string) {
	t.Helper()

	goldenDir := filepath.Join("testdata")
	goldenPath := filepath.Join(goldenDir, name+".golden")

	stripped := stripANSI(got)

	if os.Getenv("GOLDEN_UPDATE") == "1" {
		require.NoError(t, os.MkdirAll(goldenDir, 0755))
		require.NoError(t, os.WriteFile(goldenPath, []byte(stripped), 0644))
		t.Logf("updated golden file: %s", goldenPath)
		return
	}

	expected, err := os.ReadFile(goldenPath)
	if os.IsNotExist(err) {
		t.Fatalf("golden file %s does not exist; run with GOLDEN_UPDATE=1 to create it", goldenPath)
	}
	require.NoError(t, err)

	assert.Equal(t, string(expected), stripped,
		"output does not match golden file %s; run with GOLDEN_UPDATE=1 to update", goldenPath)
}

func TestFormatWeekly_Golden_MondayThirds(t *testing.T) {
	reg := style.NewRegistry(nil)
	weekly := aggregate.WeeklyByCategory(testutil.MondayThirds(), reg.Declared())
	goldenTest(t, "weekly_monday_thirds", FormatWeekly(weekly, reg))
}

func TestFormatDays_Golden_MondayThirds(t *testing.T) {
	reg := style.NewRegistry(nil)
	days := aggregate.PerDay(testutil.MondayThirds(), reg.Declared())
	goldenTest(t, "days_monday_thirds", FormatDays(days, reg))
}

func TestFormatRejections_Golden(t *testing.T) {
	rejs := []*schedule.ValidationError{
		{Row: 4, Field: "Day", Value: "Funday", Reason: "not a recognized day"},
		{Row: 12, Field: "EndTime", Value: "09:00", Reason: "end must be after start 10:00"},
		{Row: 13, Field: "Category", Reason: "category is required"},
	}
	goldenTest(t, "rejections", FormatRejections(rejs))
}
