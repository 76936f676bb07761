package segment

import (
	"fmt"
	"strings"
	"time"

	"github.com/austcse/carnival-backend/types"
)

// rangeSeparator splits "<start> - <end>" date ranges. Titles use the same
// separator, but dates never contain a bare hyphen with spaces otherwise.
const rangeSeparator = " - "

var dateLayouts = []string{
	"January 02, 2006",
	"January 2, 2006",
	"Jan 02, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2006-01-02",
}

func parseDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// ParseSchedule converts a catalog date ("August 21, 2025" or
// "August 21, 2025 - August 23, 2025") into a Schedule. A range whose start
// omits the year ("August 21 - August 23, 2025") borrows it from the end.
func ParseSchedule(raw string, loc *time.Location) (*types.Schedule, error) {
	if loc == nil {
		loc = time.UTC
	}

	startRaw, endRaw, isRange := strings.Cut(raw, rangeSeparator)
	if !isRange {
		start, err := parseDate(raw, loc)
		if err != nil {
			return nil, err
		}
		return &types.Schedule{Start: start}, nil
	}

	end, err := parseDate(endRaw, loc)
	if err != nil {
		return nil, fmt.Errorf("range end: %w", err)
	}

	start, err := parseDate(startRaw, loc)
	if err != nil {
		start, err = parseDate(fmt.Sprintf("%s, %d", strings.TrimSpace(startRaw), end.Year()), loc)
		if err != nil {
			return nil, fmt.Errorf("range start: %w", err)
		}
	}

	if end.Before(start) {
		return nil, fmt.Errorf("range %q ends before it starts", raw)
	}
	return &types.Schedule{Start: start, End: &end}, nil
}

// startOfDay truncates t to midnight in loc.
func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
