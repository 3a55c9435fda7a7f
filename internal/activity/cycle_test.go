package activity

import (
	"math"
	"testing"
	"time"
)

func TestCycleTime(t *testing.T) {
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	items := []Item{
		{CreatedAt: base, ClosedAt: ptrTime(base.AddDate(0, 0, 1))},
		{CreatedAt: base, ClosedAt: ptrTime(base.AddDate(0, 0, 3))},
		{CreatedAt: base, ClosedAt: ptrTime(base.AddDate(0, 0, 8))},
		{CreatedAt: base}, // still open
		// creation time unknown
		{ClosedAt: ptrTime(base.AddDate(0, 0, 2))},
	}

	got, ok := CycleTime(items)
	if !ok {
		t.Fatal("expected cycle stats")
	}

	if got.Samples != 3 {
		t.Errorf("expected 3 samples, got %d", got.Samples)
	}
	if math.Abs(got.Mean-4) > 1e-9 {
		t.Errorf("expected mean 4, got %v", got.Mean)
	}
	if math.Abs(got.Median-3) > 1e-9 {
		t.Errorf("expected median 3, got %v", got.Median)
	}
	if math.Abs(got.Max-8) > 1e-9 {
		t.Errorf("expected max 8, got %v", got.Max)
	}
}

func TestCycleTime_NoClosedItems(t *testing.T) {
	if _, ok := CycleTime([]Item{{CreatedAt: time.Now()}}); ok {
		t.Error("expected ok=false without closed items")
	}
}
