package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateMode selects how ambiguous statement dates are interpreted.
type DateMode string

const (
	DateAuto       DateMode = "auto"
	DateDayFirst   DateMode = "dayfirst"
	DateMonthFirst DateMode = "monthfirst"
	DateYearFirst  DateMode = "yearfirst"
)

// ParseDateMode normalizes a user-supplied mode string.
func ParseDateMode(s string) (DateMode, error) {
	switch DateMode(strings.ToLower(strings.TrimSpace(s))) {
	case DateAuto, "":
		return DateAuto, nil
	case DateDayFirst:
		return DateDayFirst, nil
	case DateMonthFirst:
		return DateMonthFirst, nil
	case DateYearFirst:
		return DateYearFirst, nil
	}
	return "", fmt.Errorf("unknown date mode %q", s)
}

// NormalizeDate parses a raw statement date into YYYY-MM-DD. In auto mode a
// leading 4-digit run means year-first, anything else day-first. On failure
// the raw string is returned unchanged with ok=false: source data is kept,
// never silently dropped, and the operator sees the fallback in the preview.
func NormalizeDate(raw string, mode DateMode) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return raw, false
	}

	if mode == DateAuto || mode == "" {
		if leadingDigits(s) >= 4 {
			mode = DateYearFirst
		} else {
			mode = DateDayFirst
		}
	}

	parts := splitDateFields(s)
	if len(parts) < 3 {
		return raw, false
	}

	var year, month, day int
	var err error
	switch mode {
	case DateYearFirst:
		year, month, day, err = atoi3(parts[0], parts[1], parts[2])
	case DateDayFirst:
		day, month, year, err = atoi3(parts[0], parts[1], parts[2])
	case DateMonthFirst:
		month, day, year, err = atoi3(parts[0], parts[1], parts[2])
	default:
		return raw, false
	}
	if err != nil {
		return raw, false
	}
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return raw, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// reject overflowed dates like Feb 30
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return raw, false
	}
	return t.Format("2006-01-02"), true
}

// DaysApart returns the absolute day distance between two ISO dates.
func DaysApart(a, b string) (int, error) {
	da, err := time.Parse("2006-01-02", a)
	if err != nil {
		return 0, err
	}
	db, err := time.Parse("2006-01-02", b)
	if err != nil {
		return 0, err
	}
	d := da.Sub(db)
	if d < 0 {
		d = -d
	}
	return int(d.Hours() / 24), nil
}

func leadingDigits(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n++
	}
	return n
}

// splitDateFields breaks a date string on any non-digit runs, dropping a
// trailing time component if present.
func splitDateFields(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r < '0' || r > '9'
	})
	if len(fields) > 3 {
		fields = fields[:3]
	}
	return fields
}

func atoi3(a, b, c string) (int, int, int, error) {
	x, err := strconv.Atoi(a)
	if err != nil {
		return 0, 0, 0, err
	}
	y, err := strconv.Atoi(b)
	if err != nil {
		return 0, 0, 0, err
	}
	z, err := strconv.Atoi(c)
	if err != nil {
		return 0, 0, 0, err
	}
	return x, y, z, nil
}
