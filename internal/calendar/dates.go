package calendar

import (
	"errors"
	"fmt"
	"time"
)

// Supported year range. time.Date accepts more, but four-digit years are
// all the date formats used by callers can carry.
const (
	MinYear = 1
	MaxYear = 9999
)

// ErrUnsupportedYear is returned for dates outside MinYear..MaxYear.
var ErrUnsupportedYear = errors.New("unsupported year")

// Date returns the calendar date y-m-d at midnight UTC.
// Out-of-range days and months are normalized the way time.Date does.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Normalize drops the clock and location from t, keeping its calendar date.
func Normalize(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// checkYear reports ErrUnsupportedYear for years the engine does not handle.
func checkYear(year int) error {
	if year < MinYear || year > MaxYear {
		return fmt.Errorf("%w: %d", ErrUnsupportedYear, year)
	}
	return nil
}

// addDays returns t shifted by n days.
func addDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// onOrAfter reports whether t is the same day as or later than start.
func onOrAfter(t, start time.Time) bool {
	return !t.Before(start)
}

// within reports whether t lies in the half-open interval [start, end).
func within(t, start, end time.Time) bool {
	return onOrAfter(t, start) && t.Before(end)
}

// DayName returns the day of week name (Sunday, Monday, etc.)
func DayName(date time.Time) string {
	return date.Weekday().String()
}

// findWeekdayBetween finds the first given weekday in the inclusive window
// [start, end]. ok is false when the window holds no such day.
func findWeekdayBetween(start, end time.Time, weekday time.Weekday) (day time.Time, ok bool) {
	for current := start; !current.After(end); current = addDays(current, 1) {
		if current.Weekday() == weekday {
			return current, true
		}
	}
	return time.Time{}, false
}

// sundayInWindow returns the first Sunday in [start, end], or end when the
// window contains none.
func sundayInWindow(start, end time.Time) time.Time {
	if sunday, ok := findWeekdayBetween(start, end, time.Sunday); ok {
		return sunday
	}
	return end
}

// nthWeekdayOfMonth returns the nth (1-based) weekday of month in year.
func nthWeekdayOfMonth(year int, month time.Month, weekday time.Weekday, n int) time.Time {
	first := Date(year, month, 1)
	shift := (int(weekday) - int(first.Weekday()) + 7) % 7
	return addDays(first, shift+7*(n-1))
}

// nearestWeekday scans outward from center, checking center+i before
// center-i, and returns the first day falling on weekday.
func nearestWeekday(center time.Time, weekday time.Weekday) time.Time {
	for i := 0; i < 7; i++ {
		if later := addDays(center, i); later.Weekday() == weekday {
			return later
		}
		if earlier := addDays(center, -i); earlier.Weekday() == weekday {
			return earlier
		}
	}
	// unreachable: seven consecutive days cover every weekday
	return center
}

// ParseDateString parses a date string in YYYY-MM-DD format
func ParseDateString(dateStr string) (time.Time, error) {
	return time.Parse("2006-01-02", dateStr)
}

// FormatDate formats a date as YYYY-MM-DD
func FormatDate(date time.Time) string {
	return date.Format("2006-01-02")
}
