package calendar

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRange is returned when a range ends before it starts.
var ErrInvalidRange = errors.New("end date is before start date")

// Result field names reported in Result.Unavailable.
const (
	FieldCycle    = "cycle"
	FieldSeason   = "season"
	FieldWeek     = "week"
	FieldHolyDays = "holy_days"
)

// Result is the complete liturgical description of one date.
type Result struct {
	Date     time.Time `json:"date"`
	Cycle    Cycle     `json:"cycle"`
	Season   Season    `json:"season"`
	Week     *string   `json:"week"`
	Weekday  string    `json:"weekday"`
	HolyDays []string  `json:"holy_days"`

	// Unavailable names the fields that failed to compute.
	Unavailable []string `json:"unavailable,omitempty"`
}

// Available reports whether every field was computed.
func (r Result) Available() bool {
	return len(r.Unavailable) == 0
}

// WeekLabel returns the week label or "" when there is none.
func (r Result) WeekLabel() string {
	if r.Week == nil {
		return ""
	}
	return *r.Week
}

// BuildResult describes date. Each field is computed independently: a
// failure in one is logged and marks only that field unavailable, so the
// result is always complete.
func (e *Engine) BuildResult(date time.Time) Result {
	date = Normalize(date)
	result := Result{
		Date:    date,
		Cycle:   CycleUnknown,
		Season:  SeasonUnavailable,
		Weekday: DayName(date),
	}

	if cycle, ok := isolate(e, date, FieldCycle, func() (Cycle, error) {
		return e.ResolveCycle(date)
	}); ok {
		result.Cycle = cycle
	} else {
		result.Unavailable = append(result.Unavailable, FieldCycle)
	}

	if season, ok := isolate(e, date, FieldSeason, func() (Season, error) {
		return e.ClassifySeason(date)
	}); ok {
		result.Season = season
	} else {
		result.Unavailable = append(result.Unavailable, FieldSeason)
	}

	if week, ok := isolate(e, date, FieldWeek, func() (*string, error) {
		label, found, err := e.ResolveWeek(date)
		if err != nil || !found {
			return nil, err
		}
		return &label, nil
	}); ok {
		result.Week = week
	} else {
		result.Unavailable = append(result.Unavailable, FieldWeek)
	}

	if names, ok := isolate(e, date, FieldHolyDays, func() ([]string, error) {
		return e.MatchHolyDays(date)
	}); ok {
		result.HolyDays = names
	} else {
		result.Unavailable = append(result.Unavailable, FieldHolyDays)
	}

	return result
}

// BuildRange describes every date from start through end inclusive.
func (e *Engine) BuildRange(start, end time.Time) ([]Result, error) {
	start, end = Normalize(start), Normalize(end)
	if end.Before(start) {
		return nil, ErrInvalidRange
	}
	results := make([]Result, 0, RangeDays(start, end))
	for d := start; !d.After(end); d = addDays(d, 1) {
		results = append(results, e.BuildResult(d))
	}
	return results, nil
}

// RangeDays returns the number of days from start through end inclusive.
func RangeDays(start, end time.Time) int {
	return int(Normalize(end).Sub(Normalize(start)).Hours()/24) + 1
}

// isolate runs fn, converting a panic into an error. Failures are logged
// at warn level and reported as ok == false.
func isolate[T any](e *Engine, date time.Time, field string, fn func() (T, error)) (value T, ok bool) {
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		value, err = fn()
	}()
	if err != nil {
		e.logger.Warn("calendar field unavailable",
			"date", FormatDate(date),
			"field", field,
			"error", err,
		)
		var zero T
		return zero, false
	}
	return value, true
}
