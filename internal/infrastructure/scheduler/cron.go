package scheduler

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// CronExpression is a parsed 5-field cron expression:
// minute hour day-of-month month day-of-week.
// Examples:
//   - "*/5 * * * *"  - every 5 minutes
//   - "0 2 * * *"    - every day at 02:00
//   - "30 6 * 9-10 1-5" - weekdays at 06:30 during the admission peak
type CronExpression struct {
	raw      string
	minutes  []int // 0-59
	hours    []int // 0-23
	days     []int // 1-31
	months   []int // 1-12
	weekdays []int // 0-6 (0 = Sunday)
}

// ParseCronExpression parses expr.
// Each field supports *, */n, n, n-m, n-m/s and comma lists of those.
func ParseCronExpression(expr string) (*CronExpression, error) {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return nil, fmt.Errorf("invalid cron expression %q: expected 5 fields, got %d", expr, len(fields))
	}

	specs := []struct {
		name     string
		min, max int
		dest     *[]int
	}{
		{"minute", 0, 59, nil},
		{"hour", 0, 23, nil},
		{"day", 1, 31, nil},
		{"month", 1, 12, nil},
		{"weekday", 0, 6, nil},
	}

	ce := &CronExpression{raw: expr}
	specs[0].dest = &ce.minutes
	specs[1].dest = &ce.hours
	specs[2].dest = &ce.days
	specs[3].dest = &ce.months
	specs[4].dest = &ce.weekdays

	for i, f := range specs {
		values, err := parseField(fields[i], f.min, f.max)
		if err != nil {
			return nil, fmt.Errorf("invalid %s field: %w", f.name, err)
		}
		*f.dest = values
	}
	return ce, nil
}

// parseField expands one field into its sorted, de-duplicated values.
func parseField(field string, min, max int) ([]int, error) {
	seen := make(map[int]struct{})
	for _, part := range strings.Split(field, ",") {
		if err := parsePart(strings.TrimSpace(part), min, max, seen); err != nil {
			return nil, err
		}
	}
	if len(seen) == 0 {
		return nil, fmt.Errorf("no value in %q", field)
	}

	result := make([]int, 0, len(seen))
	for v := range seen {
		result = append(result, v)
	}
	sort.Ints(result)
	return result, nil
}

func parsePart(part string, min, max int, into map[int]struct{}) error {
	rangePart, step := part, 1
	if before, after, ok := strings.Cut(part, "/"); ok {
		s, err := strconv.Atoi(after)
		if err != nil || s <= 0 {
			return fmt.Errorf("invalid step value: %s", after)
		}
		rangePart, step = before, s
	}

	start, end := min, max
	switch {
	case rangePart == "*":
	case strings.Contains(rangePart, "-"):
		lo, hi, _ := strings.Cut(rangePart, "-")
		var err error
		if start, err = strconv.Atoi(lo); err != nil {
			return fmt.Errorf("invalid range start: %s", lo)
		}
		if end, err = strconv.Atoi(hi); err != nil {
			return fmt.Errorf("invalid range end: %s", hi)
		}
	default:
		v, err := strconv.Atoi(rangePart)
		if err != nil {
			return fmt.Errorf("invalid value: %s", rangePart)
		}
		start = v
		if step == 1 {
			end = v
		}
	}

	if start < min || end > max || start > end {
		return fmt.Errorf("value out of range [%d-%d]: %s", min, max, part)
	}
	for v := start; v <= end; v += step {
		into[v] = struct{}{}
	}
	return nil
}

func (ce *CronExpression) String() string {
	return ce.raw
}

// Next returns the first matching minute strictly after the given time, or
// the zero time when none exists within a year.
func (ce *CronExpression) Next(after time.Time) time.Time {
	t := after.Truncate(time.Minute).Add(time.Minute)

	const maxIterations = 366 * 24 * 60
	for i := 0; i < maxIterations; i++ {
		if ce.matches(t) {
			return t
		}
		t = t.Add(time.Minute)
	}
	return time.Time{}
}

func (ce *CronExpression) matches(t time.Time) bool {
	return contains(ce.minutes, t.Minute()) &&
		contains(ce.hours, t.Hour()) &&
		contains(ce.days, t.Day()) &&
		contains(ce.months, int(t.Month())) &&
		contains(ce.weekdays, int(t.Weekday()))
}

func contains(sorted []int, val int) bool {
	i := sort.SearchInts(sorted, val)
	return i < len(sorted) && sorted[i] == val
}
