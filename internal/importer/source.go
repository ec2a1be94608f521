package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Column names of the schedule table. Header cells are trimmed and matched
// case-insensitively.
const (
	ColumnDay       = "Day"
	ColumnCategory  = "Category"
	ColumnStartTime = "StartTime"
	ColumnEndTime   = "EndTime"
)

var requiredColumns = []string{ColumnDay, ColumnCategory, ColumnStartTime, ColumnEndTime}

// ErrEmptyTable is returned when the table has no header row.
var ErrEmptyTable = errors.New("schedule table is empty")

// RawRecord is one untyped row of the schedule table. Cell values are kept
// exactly as read; Row is the 1-based data row number (header excluded).
type RawRecord struct {
	Row      int
	Day      string
	Category string
	Start    string
	End      string
}

// ScheduleSource produces raw schedule rows.
type ScheduleSource interface {
	Load(ctx context.Context) ([]RawRecord, error)
}

// CSVSource reads the schedule table from a CSV file on disk.
type CSVSource struct {
	Path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

func (s *CSVSource) Load(ctx context.Context) ([]RawRecord, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("opening schedule file: %w", err)
	}
	defer f.Close()

	records, err := ReadCSV(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.Path, err)
	}
	return records, nil
}

// ReadCSV parses a schedule table from r.
func ReadCSV(ctx context.Context, r io.Reader) ([]RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyTable
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	columns, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var records []RawRecord
	row := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cells, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row %d: %w", row+1, err)
		}
		row++

		if isBlank(cells) {
			continue
		}

		records = append(records, RawRecord{
			Row:      row,
			Day:      cell(cells, columns[ColumnDay]),
			Category: cell(cells, columns[ColumnCategory]),
			Start:    cell(cells, columns[ColumnStartTime]),
			End:      cell(cells, columns[ColumnEndTime]),
		})
	}

	return records, nil
}

// StaticSource serves rows that are already in memory.
type StaticSource []RawRecord

func (s StaticSource) Load(ctx context.Context) ([]RawRecord, error) {
	out := make([]RawRecord, len(s))
	copy(out, s)
	return out, nil
}

func mapColumns(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}

	columns := make(map[string]int, len(requiredColumns))
	var missing []string
	for _, name := range requiredColumns {
		i, ok := index[strings.ToLower(name)]
		if !ok {
			missing = append(missing, name)
			continue
		}
		columns[name] = i
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing column(s) %s; available columns: %v", strings.Join(missing, ", "), header)
	}
	return columns, nil
}

func cell(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return cells[i]
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
