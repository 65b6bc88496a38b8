package records

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ImportXLSX reads a registrar transcript export workbook into course
// records. The first sheet must carry a header row of
// Code, Credits, Grade, Season, Year, Status; malformed rows are skipped
// with a warning rather than failing the whole import.
func ImportXLSX(path string) ([]CourseRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening transcript workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("transcript workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	cols := headerIndex(rows[0])
	for _, required := range []string{"code", "credits", "status"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("transcript missing %q column", required)
		}
	}

	var recs []CourseRecord
	for i, row := range rows[1:] {
		rec, err := parseRow(cols, row)
		if err != nil {
			slog.Warn("skipping transcript row", "row", i+2, "error", err)
			continue
		}
		recs = append(recs, rec)
	}

	slog.Info("transcript imported", "path", path, "records", len(recs))
	return recs, nil
}

func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

func parseRow(cols map[string]int, row []string) (CourseRecord, error) {
	cell := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rec := CourseRecord{
		Code:   cell("code"),
		Grade:  cell("grade"),
		SlotID: cell("slot_id"),
	}
	if rec.Code == "" {
		return CourseRecord{}, fmt.Errorf("empty course code")
	}

	credits, err := strconv.Atoi(cell("credits"))
	if err != nil || credits <= 0 {
		return CourseRecord{}, fmt.Errorf("invalid credits %q", cell("credits"))
	}
	rec.Credits = credits

	switch Status(strings.ToLower(cell("status"))) {
	case StatusCompleted:
		rec.Status = StatusCompleted
	case StatusInProgress:
		rec.Status = StatusInProgress
	case StatusPlanned:
		rec.Status = StatusPlanned
	default:
		return CourseRecord{}, fmt.Errorf("unknown status %q", cell("status"))
	}

	if y := cell("year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			return CourseRecord{}, fmt.Errorf("invalid year %q", y)
		}
		rec.Semester.Year = year
	}
	rec.Semester.Season = Season(cell("season"))
	if rec.SlotID == "" {
		rec.SlotID = rec.Semester.String()
	}

	return rec, nil
}
