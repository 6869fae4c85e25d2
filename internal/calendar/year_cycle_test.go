package calendar

import (
	"errors"
	"testing"
	"time"
)

func TestResolveCycle(t *testing.T) {
	tests := []struct {
		date time.Time
		want Cycle
	}{
		{Date(2024, time.March, 31), CycleB},
		{Date(2024, time.November, 30), CycleB},
		{Date(2024, time.December, 1), CycleC},
		{Date(2025, time.November, 29), CycleC},
		{Date(2025, time.November, 30), CycleA},
		{Date(2026, time.June, 1), CycleA},
	}

	for _, tt := range tests {
		got, err := ResolveCycle(tt.date)
		if err != nil {
			t.Fatalf("ResolveCycle(%s) error = %v", FormatDate(tt.date), err)
		}
		if got != tt.want {
			t.Errorf("ResolveCycle(%s) = %q, want %q", FormatDate(tt.date), got, tt.want)
		}
	}
}

func TestResolveCycle_PeriodThree(t *testing.T) {
	for year := 1900; year <= 2100; year++ {
		d := Date(year, time.June, 1)
		a, err := ResolveCycle(d)
		if err != nil {
			t.Fatalf("ResolveCycle(%s) error = %v", FormatDate(d), err)
		}
		b, err := ResolveCycle(d.AddDate(3, 0, 0))
		if err != nil {
			t.Fatalf("ResolveCycle(%s) error = %v", FormatDate(d.AddDate(3, 0, 0)), err)
		}
		if a != b {
			t.Errorf("ResolveCycle(%s) = %q, three years later = %q", FormatDate(d), a, b)
		}
		next, _ := ResolveCycle(d.AddDate(1, 0, 0))
		if a == next {
			t.Errorf("ResolveCycle(%s) = %q repeats the following year", FormatDate(d), a)
		}
	}
}

func TestEffectiveYear(t *testing.T) {
	tests := []struct {
		date time.Time
		want int
	}{
		{Date(2024, time.November, 30), 2024},
		{Date(2024, time.December, 1), 2025},
		{Date(2024, time.December, 31), 2025},
	}

	for _, tt := range tests {
		got, err := EffectiveYear(tt.date)
		if err != nil {
			t.Fatalf("EffectiveYear(%s) error = %v", FormatDate(tt.date), err)
		}
		if got != tt.want {
			t.Errorf("EffectiveYear(%s) = %d, want %d", FormatDate(tt.date), got, tt.want)
		}
	}
}

func TestResolveCycle_UnsupportedYear(t *testing.T) {
	got, err := ResolveCycle(Date(0, time.June, 1))
	if !errors.Is(err, ErrUnsupportedYear) {
		t.Fatalf("ResolveCycle(0000-06-01) error = %v, want ErrUnsupportedYear", err)
	}
	if got != CycleUnknown {
		t.Errorf("ResolveCycle(0000-06-01) = %q, want %q", got, CycleUnknown)
	}
}
