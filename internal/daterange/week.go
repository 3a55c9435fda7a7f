package daterange

import (
	"fmt"
	"strconv"
	"strings"
)

// WeekInput captures the raw --week / --year flags of the weekly report
type WeekInput struct {
	Week    string // either YYYY-MM-DD or an ISO week number
	Year    int
	YearSet bool
}

// ResolveWeek turns the weekly flags into a single range.
//
//	--week YYYY-MM-DD        week containing that date
//	--week N --year Y        ISO week N of year Y (both required together)
//	(nothing)                last week relative to clock
func ResolveWeek(in WeekInput, clock Clock) (Range, error) {
	raw := strings.TrimSpace(in.Week)

	if raw == "" {
		if in.YearSet {
			return Range{}, fmt.Errorf("%w: --year requires --week", ErrUsage)
		}
		return LastWeek(clock), nil
	}

	if n, err := strconv.Atoi(raw); err == nil {
		if !in.YearSet {
			return Range{}, fmt.Errorf("%w: --week %d requires --year", ErrUsage, n)
		}
		return ISOWeek(n, in.Year)
	}

	if in.YearSet {
		return Range{}, fmt.Errorf("%w: --year cannot be combined with a --week date", ErrUsage)
	}
	return WeekOf(raw)
}
