package calendar

import "time"

// Cycle is the year of the three-year Sunday lectionary.
type Cycle string

// Lectionary cycle values.
const (
	CycleA Cycle = "Year A"
	CycleB Cycle = "Year B"
	CycleC Cycle = "Year C"

	// CycleUnknown marks a cycle that could not be computed.
	CycleUnknown Cycle = "Unknown"
)

var cycles = [3]Cycle{CycleA, CycleB, CycleC}

// EffectiveYear returns the year the liturgical year containing date is
// named for. The liturgical year begins on the First Sunday of Advent, so
// from that Sunday on a date counts toward the following calendar year.
//
// Examples:
//   - November 30, 2024: 2024
//   - December 1, 2024 (First Sunday of Advent): 2025
func EffectiveYear(date time.Time) (int, error) {
	date = Normalize(date)
	year := date.Year()
	if err := checkYear(year); err != nil {
		return 0, err
	}
	if onOrAfter(date, FirstSundayOfAdvent(year)) {
		return year + 1, nil
	}
	return year, nil
}

// CycleForYear returns the cycle of the liturgical year named effective.
// Year A falls on effective years one past a multiple of three.
func CycleForYear(effective int) Cycle {
	return cycles[((effective+2)%3+3)%3]
}

// ResolveCycle returns the lectionary cycle for date.
func ResolveCycle(date time.Time) (Cycle, error) {
	effective, err := EffectiveYear(date)
	if err != nil {
		return CycleUnknown, err
	}
	return CycleForYear(effective), nil
}

// ResolveCycle returns the lectionary cycle for date.
func (e *Engine) ResolveCycle(date time.Time) (Cycle, error) {
	return ResolveCycle(date)
}
