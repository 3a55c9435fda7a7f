package activity

import (
	"github.com/montanaflynn/stats"
)

// CycleStats describes how long closed items stayed open, in days
type CycleStats struct {
	Samples int
	Mean    float64
	Median  float64
	Max     float64
}

// CycleTime computes open-to-close durations for the closed items with a known creation time.
// ok is false when no item qualifies.
func CycleTime(items []Item) (CycleStats, bool) {
	var days stats.Float64Data
	for _, item := range items {
		if item.ClosedAt == nil || item.CreatedAt.IsZero() {
			continue
		}
		open := item.ClosedAt.Sub(item.CreatedAt)
		if open < 0 {
			continue
		}
		days = append(days, open.Hours()/24)
	}

	if len(days) == 0 {
		return CycleStats{}, false
	}

	mean, err := days.Mean()
	if err != nil {
		return CycleStats{}, false
	}
	median, err := days.Median()
	if err != nil {
		return CycleStats{}, false
	}
	maxDays, err := days.Max()
	if err != nil {
		return CycleStats{}, false
	}

	return CycleStats{
		Samples: len(days),
		Mean:    mean,
		Median:  median,
		Max:     maxDays,
	}, true
}
