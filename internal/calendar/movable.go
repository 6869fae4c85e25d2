package calendar

import "time"

// Feast names an Easter-relative observance.
type Feast string

// Movable feasts, in liturgical order.
const (
	FeastEpiphanyFour         Feast = "Epiphany Four"
	FeastEpiphanyFive         Feast = "Epiphany Five"
	FeastEpiphanySix          Feast = "Epiphany Six"
	FeastEpiphanySeven        Feast = "Epiphany Seven"
	FeastEpiphanyEight        Feast = "Epiphany Eight"
	FeastEpiphanyPenultimate  Feast = "Epiphany Penultimate"
	FeastEpiphanyUltimate     Feast = "Epiphany Ultimate"
	FeastAshWednesday         Feast = "Ash Wednesday"
	FeastLentOne              Feast = "Lent One"
	FeastLentTwo              Feast = "Lent Two"
	FeastLentThree            Feast = "Lent Three"
	FeastLentFour             Feast = "Lent Four"
	FeastLentFive             Feast = "Lent Five"
	FeastPalmSunday           Feast = "Palm Sunday"
	FeastHolyThursday         Feast = "Holy Thursday"
	FeastGoodFriday           Feast = "Good Friday"
	FeastEasterVigil          Feast = "Easter Vigil"
	FeastEaster               Feast = "Easter"
	FeastEasterTwo            Feast = "Easter Two"
	FeastEasterThree          Feast = "Easter Three"
	FeastEasterFour           Feast = "Easter Four"
	FeastEasterFive           Feast = "Easter Five"
	FeastEasterSix            Feast = "Easter Six"
	FeastAscension            Feast = "Ascension"
	FeastSundayAfterAscension Feast = "Sunday after Ascension"
	FeastPentecost            Feast = "Pentecost"
	FeastTrinity              Feast = "Trinity Sunday"
)

// conditionalEpiphanyFrom is the first Epiphany Sunday that can be cut off
// by an early Lent.
const conditionalEpiphanyFrom = 4

// lastConditionalOrdinary is the last Ordinary Sunday whose window can
// fall on or before Trinity Sunday.
const lastConditionalOrdinary = 9

// OrdinarySundays is the number of numbered Ordinary Sundays before
// Christ the King.
const OrdinarySundays = 28

// movableFeast describes one Easter-relative feast. Fixed-offset feasts set
// days; conditional Epiphany Sundays set epiphany instead.
type movableFeast struct {
	feast    Feast
	days     int
	epiphany int
}

var movableFeasts = []movableFeast{
	{feast: FeastEpiphanyFour, epiphany: 4},
	{feast: FeastEpiphanyFive, epiphany: 5},
	{feast: FeastEpiphanySix, epiphany: 6},
	{feast: FeastEpiphanySeven, epiphany: 7},
	{feast: FeastEpiphanyEight, epiphany: 8},
	{feast: FeastEpiphanyPenultimate, days: -56},
	{feast: FeastEpiphanyUltimate, days: -49},
	{feast: FeastAshWednesday, days: -46},
	{feast: FeastLentOne, days: -42},
	{feast: FeastLentTwo, days: -35},
	{feast: FeastLentThree, days: -28},
	{feast: FeastLentFour, days: -21},
	{feast: FeastLentFive, days: -14},
	{feast: FeastPalmSunday, days: -7},
	{feast: FeastHolyThursday, days: -3},
	{feast: FeastGoodFriday, days: -2},
	{feast: FeastEasterVigil, days: -1},
	{feast: FeastEaster, days: 0},
	{feast: FeastEasterTwo, days: 7},
	{feast: FeastEasterThree, days: 14},
	{feast: FeastEasterFour, days: 21},
	{feast: FeastEasterFive, days: 28},
	{feast: FeastEasterSix, days: 35},
	{feast: FeastAscension, days: 40},
	{feast: FeastSundayAfterAscension, days: 42},
	{feast: FeastPentecost, days: 49},
	{feast: FeastTrinity, days: 56},
}

// MovableFeasts returns every movable feast in liturgical order.
func MovableFeasts() []Feast {
	feasts := make([]Feast, len(movableFeasts))
	for i, m := range movableFeasts {
		feasts[i] = m.feast
	}
	return feasts
}

// Year holds the anchors of one calendar year. All movable feasts of the
// year derive from its Easter date.
type Year struct {
	number int
	easter time.Time
}

// newYear builds the anchors for year using easter.
func newYear(year int, easter EasterFunc) (Year, error) {
	if err := checkYear(year); err != nil {
		return Year{}, err
	}
	return Year{number: year, easter: Normalize(easter(year))}, nil
}

// Number returns the calendar year.
func (y Year) Number() int { return y.number }

// Easter returns Easter Sunday.
func (y Year) Easter() time.Time { return y.easter }

// fromEaster returns Easter shifted by days.
func (y Year) fromEaster(days int) time.Time { return addDays(y.easter, days) }

// AshWednesday is 46 days before Easter (40 days of Lent plus six Sundays).
func (y Year) AshWednesday() time.Time { return y.fromEaster(-46) }

// PalmSunday is one week before Easter.
func (y Year) PalmSunday() time.Time { return y.fromEaster(-7) }

// Pentecost is seven weeks after Easter.
func (y Year) Pentecost() time.Time { return y.fromEaster(49) }

// Trinity is the Sunday after Pentecost.
func (y Year) Trinity() time.Time { return y.fromEaster(56) }

// EpiphanyPenultimate is the second to last Sunday before Lent.
func (y Year) EpiphanyPenultimate() time.Time { return y.fromEaster(-56) }

// EpiphanySunday returns the nth Sunday reckoned from Epiphany One.
// From the fourth on, a Sunday on or after Epiphany Penultimate does not
// occur because Lent has cut the season short.
func (y Year) EpiphanySunday(n int) OptionalDate {
	sunday := addDays(EpiphanyOne(y.number), 7*(n-1))
	if n < conditionalEpiphanyFrom {
		return Some(sunday)
	}
	return suppressedFrom(sunday, y.EpiphanyPenultimate())
}

// OrdinarySunday returns numbered Ordinary Sunday n (1-28). The early
// Sundays are absent when their window falls on or before Trinity Sunday.
func (y Year) OrdinarySunday(n int) OptionalDate {
	sunday := ordinaryWindowSunday(n, y.number)
	if n <= lastConditionalOrdinary && !sunday.After(y.Trinity()) {
		return None()
	}
	return Some(sunday)
}

// MovableFeast returns the date of feast in this year. It is None for
// conditional feasts that do not occur and for unknown feasts.
func (y Year) MovableFeast(feast Feast) OptionalDate {
	for _, m := range movableFeasts {
		if m.feast != feast {
			continue
		}
		if m.epiphany > 0 {
			return y.EpiphanySunday(m.epiphany)
		}
		return Some(y.fromEaster(m.days))
	}
	return None()
}

// FeastDate pairs a movable feast with its date in one year.
type FeastDate struct {
	Feast Feast        `json:"feast"`
	Date  OptionalDate `json:"date"`
}

// MovableFeastDates returns every movable feast of the year in order.
func (y Year) MovableFeastDates() []FeastDate {
	anchors := make([]FeastDate, 0, len(movableFeasts))
	for _, m := range movableFeasts {
		anchors = append(anchors, FeastDate{Feast: m.feast, Date: y.MovableFeast(m.feast)})
	}
	return anchors
}
