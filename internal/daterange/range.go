package daterange

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DateLayout is the layout used for day-granular input and labels
	DateLayout = "2006-01-02"
	// MonthLayout is the layout accepted for month input
	MonthLayout = "2006-01"

	week = 7 * 24 * time.Hour
)

// ErrInvalidFormat is returned when a month, date or week argument cannot be parsed
var ErrInvalidFormat = errors.New("invalid format")

// ErrUsage is returned when week flags are combined in an unsupported way
var ErrUsage = errors.New("invalid usage")

// Range is a half-open interval [Start, End) with a human readable label
type Range struct {
	Start time.Time
	End   time.Time
	Label string
}

// Contains reports whether t falls inside [Start, End)
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Days returns the number of whole days spanned by the range
func (r Range) Days() int {
	return int(r.End.Sub(r.Start) / (24 * time.Hour))
}

// LastDay returns the final calendar day included in the range
func (r Range) LastDay() time.Time {
	return r.End.AddDate(0, 0, -1)
}

// String returns the range as "start to last-day"
func (r Range) String() string {
	return fmt.Sprintf("%s to %s", r.Start.Format(DateLayout), r.LastDay().Format(DateLayout))
}

// Month parses "YYYY-MM" and returns the calendar month it names.
// End is the first day of the following month, rolling the year over in December.
func Month(raw string) (Range, error) {
	raw = strings.TrimSpace(raw)
	parts := strings.Split(raw, "-")
	if len(parts) != 2 {
		return Range{}, fmt.Errorf("%w: month %q, use YYYY-MM (e.g., 2026-01)", ErrInvalidFormat, raw)
	}

	year, yerr := strconv.Atoi(parts[0])
	month, merr := strconv.Atoi(parts[1])
	if yerr != nil || merr != nil || month < 1 || month > 12 || year < 1 {
		return Range{}, fmt.Errorf("%w: month %q, use YYYY-MM (e.g., 2026-01)", ErrInvalidFormat, raw)
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	// AddDate normalizes December + 1 into January of the next year
	end := start.AddDate(0, 1, 0)

	return Range{
		Start: start,
		End:   end,
		Label: start.Format("January 2006"),
	}, nil
}

// WeekOf parses "YYYY-MM-DD" and returns the Monday-to-Monday week containing that date
func WeekOf(raw string) (Range, error) {
	raw = strings.TrimSpace(raw)
	date, err := time.Parse(DateLayout, raw)
	if err != nil {
		return Range{}, fmt.Errorf("%w: date %q, use YYYY-MM-DD", ErrInvalidFormat, raw)
	}
	return weekStarting(MondayOf(date)), nil
}

// ISOWeek returns ISO 8601 week number `week` of `year`.
// Week 1 is the week containing January 4, so it starts on the Monday on or before that day.
func ISOWeek(weekNum, year int) (Range, error) {
	if year < 1 || year > 9999 {
		return Range{}, fmt.Errorf("%w: year %d out of range", ErrInvalidFormat, year)
	}
	if weekNum < 1 || weekNum > WeeksInYear(year) {
		return Range{}, fmt.Errorf("%w: week %d, year %d has %d ISO weeks", ErrInvalidFormat, weekNum, year, WeeksInYear(year))
	}

	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	start := MondayOf(jan4).AddDate(0, 0, (weekNum-1)*7)

	r := weekStarting(start)
	r.Label = fmt.Sprintf("%s (ISO week %d, %d)", r.Label, weekNum, year)
	return r, nil
}

// WeeksInYear returns 52 or 53, the number of ISO weeks in year.
// December 28 always falls in the last ISO week of its year.
func WeeksInYear(year int) int {
	_, w := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return w
}

// LastWeek returns the Monday-to-Monday week before the one containing clock.Now()
func LastWeek(clock Clock) Range {
	thisMonday := MondayOf(clock.Now().UTC())
	return weekStarting(thisMonday.AddDate(0, 0, -7))
}

// MondayOf truncates t to midnight UTC and walks back to the Monday of its week
func MondayOf(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)

	// time.Weekday has Sunday = 0; shift so Monday = 0 and Sunday = 6
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func weekStarting(monday time.Time) Range {
	r := Range{Start: monday, End: monday.Add(week)}
	r.Label = r.String()
	return r
}
