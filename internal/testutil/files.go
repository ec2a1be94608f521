package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content to name inside a per-test temp directory and
// returns the full path. The directory is removed when the test completes.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// WriteScheduleCSV writes SampleWeek as a CSV schedule file.
func WriteScheduleCSV(t *testing.T) string {
	t.Helper()
	return WriteFile(t, "plan.csv", CSV(RawRows(SampleWeek())))
}
