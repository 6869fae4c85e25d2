package calendar

import "time"

// Christmas returns December 25 of year.
func Christmas(year int) time.Time {
	return Date(year, time.December, 25)
}

// Epiphany returns January 6 of year.
func Epiphany(year int) time.Time {
	return Date(year, time.January, 6)
}

// yearChangeCutover is the first day on which Christmas-season arithmetic
// looks ahead to the next calendar year's Epiphany.
func yearChangeCutover(year int) time.Time {
	return Date(year, time.December, 1)
}

// FirstSundayOfAdvent calculates the first Sunday of Advent, the fourth
// Sunday before Christmas.
//
// When Christmas falls on a Sunday Advent begins exactly four weeks
// earlier; otherwise it begins three weeks before the Sunday preceding
// Christmas. The result always lies between November 27 and December 3.
func FirstSundayOfAdvent(year int) time.Time {
	christmas := Christmas(year)
	if christmas.Weekday() == time.Sunday {
		return addDays(christmas, -28)
	}
	precedingSunday := addDays(christmas, -int(christmas.Weekday()))
	return addDays(precedingSunday, -21)
}

// AdventSunday returns the nth (1-4) Sunday of Advent.
func AdventSunday(n, year int) time.Time {
	return addDays(FirstSundayOfAdvent(year), 7*(n-1))
}

// ChristmasOne is the first Sunday after Christmas Day, December 26-31.
func ChristmasOne(year int) time.Time {
	return sundayInWindow(Date(year, time.December, 26), Date(year, time.December, 31))
}

// ChristmasTwo is the Sunday after Christmas One. It is absent when it
// would fall on or after the following year's Epiphany One.
func ChristmasTwo(year int) OptionalDate {
	return suppressedFrom(addDays(ChristmasOne(year), 7), EpiphanyOne(year+1))
}

// ChristmasBackOne is Christmas One as seen from January of year: the
// first Sunday from December 25 to 31 of the previous year.
func ChristmasBackOne(year int) time.Time {
	return sundayInWindow(Date(year-1, time.December, 25), Date(year-1, time.December, 31))
}

// ChristmasBackTwo is the Sunday after ChristmasBackOne, absent when it
// falls on or after Epiphany of year.
func ChristmasBackTwo(year int) OptionalDate {
	return suppressedFrom(addDays(ChristmasBackOne(year), 7), Epiphany(year))
}

// EpiphanyOne is the first Sunday from January 2 to 8.
func EpiphanyOne(year int) time.Time {
	return sundayInWindow(Date(year, time.January, 2), Date(year, time.January, 8))
}

// ordinaryWindowStart is the first day of the week window in which
// Ordinary Sunday n falls. Windows are consecutive weeks starting May 8.
func ordinaryWindowStart(n, year int) time.Time {
	return Date(year, time.May, 8+7*(n-1))
}

// ordinaryWindowSunday returns the Sunday in the seven-day window of
// Ordinary Sunday n, ignoring Trinity.
func ordinaryWindowSunday(n, year int) time.Time {
	start := ordinaryWindowStart(n, year)
	return sundayInWindow(start, addDays(start, 6))
}

// ChristTheKing is the Sunday from November 20 to 26, the last Sunday
// before Advent.
func ChristTheKing(year int) time.Time {
	return sundayInWindow(Date(year, time.November, 20), Date(year, time.November, 26))
}

// MemorialDay is the Monday closest to May 28.
func MemorialDay(year int) time.Time {
	return nearestWeekday(Date(year, time.May, 28), time.Monday)
}

// ThanksgivingUSA is the fourth Thursday of November.
func ThanksgivingUSA(year int) time.Time {
	return nthWeekdayOfMonth(year, time.November, time.Thursday, 4)
}

// ThanksgivingCanada is the second Monday of October.
func ThanksgivingCanada(year int) time.Time {
	return nthWeekdayOfMonth(year, time.October, time.Monday, 2)
}
