package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/rickar/cal/v2/ca"
	"github.com/rickar/cal/v2/us"
)

func TestFirstSundayOfAdvent(t *testing.T) {
	tests := []struct {
		year int
		want time.Time
	}{
		{2022, Date(2022, time.November, 27)}, // Christmas on Sunday
		{2023, Date(2023, time.December, 3)},  // Christmas on Monday
		{2024, Date(2024, time.December, 1)},
		{2025, Date(2025, time.November, 30)},
	}

	for _, tt := range tests {
		got := FirstSundayOfAdvent(tt.year)
		if !got.Equal(tt.want) {
			t.Errorf("FirstSundayOfAdvent(%d) = %s, want %s", tt.year, FormatDate(got), FormatDate(tt.want))
		}
	}
}

func TestFirstSundayOfAdvent_FourSundaysBeforeChristmas(t *testing.T) {
	for year := 1900; year <= 2100; year++ {
		fsa := FirstSundayOfAdvent(year)
		if fsa.Weekday() != time.Sunday {
			t.Fatalf("FirstSundayOfAdvent(%d) = %s is a %s", year, FormatDate(fsa), fsa.Weekday())
		}
		if fsa.Before(Date(year, time.November, 27)) || fsa.After(Date(year, time.December, 3)) {
			t.Fatalf("FirstSundayOfAdvent(%d) = %s, outside November 27 - December 3", year, FormatDate(fsa))
		}
		fourth := AdventSunday(4, year)
		if fourth.Before(addDays(Christmas(year), -7)) || !fourth.Before(Christmas(year)) {
			t.Fatalf("Fourth Sunday of Advent %d = %s is not the Sunday before Christmas", year, FormatDate(fourth))
		}
	}
}

func TestSundayInWindow(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		want       time.Time
	}{
		{
			name:  "sunday in window",
			start: Date(2024, time.December, 26),
			end:   Date(2024, time.December, 31),
			want:  Date(2024, time.December, 29),
		},
		{
			name:  "window starts on sunday",
			start: Date(2024, time.December, 1),
			end:   Date(2024, time.December, 7),
			want:  Date(2024, time.December, 1),
		},
		{
			name:  "no sunday falls back to window end",
			start: Date(2024, time.December, 2),
			end:   Date(2024, time.December, 7),
			want:  Date(2024, time.December, 7),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sundayInWindow(tt.start, tt.end)
			if !got.Equal(tt.want) {
				t.Errorf("sundayInWindow() = %s, want %s", FormatDate(got), FormatDate(tt.want))
			}
		})
	}
}

func TestFindWeekdayBetween_NoMatch(t *testing.T) {
	_, ok := findWeekdayBetween(Date(2024, time.December, 2), Date(2024, time.December, 7), time.Sunday)
	if ok {
		t.Error("findWeekdayBetween() found a Sunday in Monday-Saturday window")
	}
}

func TestChristmasSundays(t *testing.T) {
	tests := []struct {
		name string
		got  OptionalDate
		want OptionalDate
	}{
		{"ChristmasOne(2024)", Some(ChristmasOne(2024)), Some(Date(2024, time.December, 29))},
		// Christmas 2022 is a Sunday, so the Dec 26-31 window is Sunday-free.
		{"ChristmasOne(2022)", Some(ChristmasOne(2022)), Some(Date(2022, time.December, 31))},
		{"ChristmasTwo(2022)", ChristmasTwo(2022), Some(Date(2023, time.January, 7))},
		{"ChristmasTwo(2024)", ChristmasTwo(2024), None()},
		{"ChristmasBackOne(2023)", Some(ChristmasBackOne(2023)), Some(Date(2022, time.December, 25))},
		{"ChristmasBackTwo(2023)", ChristmasBackTwo(2023), Some(Date(2023, time.January, 1))},
		{"ChristmasBackTwo(2025)", ChristmasBackTwo(2025), Some(Date(2025, time.January, 5))},
		{"ChristmasBackTwo(2019)", ChristmasBackTwo(2019), None()},
		{"EpiphanyOne(2025)", Some(EpiphanyOne(2025)), Some(Date(2025, time.January, 5))},
		{"ChristTheKing(2024)", Some(ChristTheKing(2024)), Some(Date(2024, time.November, 24))},
	}

	for _, tt := range tests {
		if tt.got.String() != tt.want.String() {
			t.Errorf("%s = %s, want %s", tt.name, tt.got, tt.want)
		}
	}
}

func TestMemorialDay(t *testing.T) {
	if got, want := MemorialDay(2021), Date(2021, time.May, 31); !got.Equal(want) {
		t.Errorf("MemorialDay(2021) = %s, want %s", FormatDate(got), FormatDate(want))
	}
}

func TestCivilHolidays_AgreeWithRickar(t *testing.T) {
	sameDay := func(a, b time.Time) bool {
		return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
	}

	for year := 2000; year <= 2100; year++ {
		if want, _ := us.MemorialDay.Calc(year); !sameDay(MemorialDay(year), want) {
			t.Errorf("MemorialDay(%d) = %s, us.MemorialDay = %s", year, FormatDate(MemorialDay(year)), FormatDate(want))
		}
		if want, _ := us.ThanksgivingDay.Calc(year); !sameDay(ThanksgivingUSA(year), want) {
			t.Errorf("ThanksgivingUSA(%d) = %s, us.ThanksgivingDay = %s", year, FormatDate(ThanksgivingUSA(year)), FormatDate(want))
		}
		if want, _ := ca.ThanksgivingDay.Calc(year); !sameDay(ThanksgivingCanada(year), want) {
			t.Errorf("ThanksgivingCanada(%d) = %s, ca.ThanksgivingDay = %s", year, FormatDate(ThanksgivingCanada(year)), FormatDate(want))
		}
	}
}

func TestCheckYear(t *testing.T) {
	tests := []struct {
		year    int
		wantErr bool
	}{
		{0, true},
		{MinYear, false},
		{2024, false},
		{MaxYear, false},
		{MaxYear + 1, true},
	}

	for _, tt := range tests {
		err := checkYear(tt.year)
		if (err != nil) != tt.wantErr {
			t.Errorf("checkYear(%d) error = %v, wantErr %v", tt.year, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrUnsupportedYear) {
			t.Errorf("checkYear(%d) error = %v, want ErrUnsupportedYear", tt.year, err)
		}
	}
}

func TestNormalize(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	in := time.Date(2024, time.March, 31, 23, 30, 0, 0, loc)
	got := Normalize(in)
	if !got.Equal(Date(2024, time.March, 31)) {
		t.Errorf("Normalize(%v) = %v, want 2024-03-31 00:00 UTC", in, got)
	}
}
