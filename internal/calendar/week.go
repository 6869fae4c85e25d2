package calendar

import (
	"fmt"
	"time"
)

// WeekAnchor labels the liturgical week starting on Date.
type WeekAnchor struct {
	Date  OptionalDate `json:"date"`
	Label string       `json:"label"`
}

// scanToAnchor steps back from date to the nearest Sunday, stopping early
// on Christmas, Ash Wednesday or Epiphany of the day's own calendar year.
// A Sunday is returned unchanged.
func (e *Engine) scanToAnchor(date time.Time) (time.Time, error) {
	current := Normalize(date)
	for current.Weekday() != time.Sunday {
		y, err := e.Year(current.Year())
		if err != nil {
			return time.Time{}, err
		}
		if current.Equal(Christmas(y.Number())) ||
			current.Equal(y.AshWednesday()) ||
			current.Equal(Epiphany(y.Number())) {
			break
		}
		current = addDays(current, -1)
	}
	return current, nil
}

// lookupWeek returns the label of the first anchor falling on date.
func lookupWeek(table []WeekAnchor, date time.Time) (string, bool) {
	for _, anchor := range table {
		if anchor.Date.Equal(date) {
			return anchor.Label, true
		}
	}
	return "", false
}

// WeekTable returns the week anchors of season in calendar year y.
func WeekTable(y Year, season Season) []WeekAnchor {
	year := y.Number()
	switch season {
	case SeasonAdvent:
		return []WeekAnchor{
			{Some(AdventSunday(1, year)), "First Sunday of Advent"},
			{Some(AdventSunday(2, year)), "Second Sunday of Advent"},
			{Some(AdventSunday(3, year)), "Third Sunday of Advent"},
			{Some(AdventSunday(4, year)), "Fourth Sunday of Advent"},
		}
	case SeasonChristmas:
		return []WeekAnchor{
			{Some(Christmas(year)), "Christmas"},
			{Some(ChristmasOne(year)), "Christmas One"},
			{ChristmasTwo(year), "Christmas Two"},
			{Some(ChristmasBackOne(year)), "Christmas One"},
			{ChristmasBackTwo(year), "Christmas Two"},
		}
	case SeasonEpiphany:
		table := []WeekAnchor{{Some(Epiphany(year)), "Epiphany"}}
		for n := 1; n <= 8; n++ {
			table = append(table, WeekAnchor{y.EpiphanySunday(n), "Epiphany " + spelledNumber(n)})
		}
		return append(table,
			WeekAnchor{y.MovableFeast(FeastEpiphanyPenultimate), string(FeastEpiphanyPenultimate)},
			WeekAnchor{y.MovableFeast(FeastEpiphanyUltimate), string(FeastEpiphanyUltimate)},
		)
	case SeasonLent:
		return feastAnchors(y,
			FeastAshWednesday, FeastLentOne, FeastLentTwo, FeastLentThree, FeastLentFour, FeastLentFive)
	case SeasonHolyWeek:
		return feastAnchors(y, FeastPalmSunday, FeastHolyThursday, FeastGoodFriday)
	case SeasonEaster:
		table := feastAnchors(y, FeastEasterVigil)
		table = append(table, WeekAnchor{Some(y.Easter()), "Easter One"})
		return append(table, feastAnchors(y,
			FeastEasterTwo, FeastEasterThree, FeastEasterFour, FeastEasterFive, FeastEasterSix,
			FeastAscension, FeastSundayAfterAscension, FeastPentecost)...)
	case SeasonOrdinary:
		table := feastAnchors(y, FeastTrinity)
		for n := 1; n <= OrdinarySundays; n++ {
			table = append(table, WeekAnchor{y.OrdinarySunday(n), "Ordinary " + spelledNumber(n)})
		}
		return append(table, WeekAnchor{Some(ChristTheKing(year)), "Christ the King"})
	default:
		return nil
	}
}

// feastAnchors builds anchors labelled with the feast names themselves.
func feastAnchors(y Year, feasts ...Feast) []WeekAnchor {
	table := make([]WeekAnchor, len(feasts))
	for i, f := range feasts {
		table[i] = WeekAnchor{y.MovableFeast(f), string(f)}
	}
	return table
}

// ResolveWeek returns the week label of date. ok is false when the
// anchor the date belongs to has no entry in its season's table.
func (e *Engine) ResolveWeek(date time.Time) (label string, ok bool, err error) {
	date = Normalize(date)
	season, err := e.ClassifySeason(date)
	if err != nil {
		return "", false, err
	}
	anchor, err := e.scanToAnchor(date)
	if err != nil {
		return "", false, fmt.Errorf("scan to week anchor: %w", err)
	}
	y, err := e.Year(date.Year())
	if err != nil {
		return "", false, err
	}
	label, ok = lookupWeek(WeekTable(y, season), anchor)
	return label, ok, nil
}

var numberWords = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine", "Ten",
	"Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen", "Seventeen",
	"Eighteen", "Nineteen",
}

var tensWords = []string{"", "", "Twenty", "Thirty", "Forty", "Fifty"}

// spelledNumber spells 1-59 in words, "Twenty One" style.
func spelledNumber(n int) string {
	if n < len(numberWords) {
		return numberWords[n]
	}
	tens, ones := n/10, n%10
	if ones == 0 {
		return tensWords[tens]
	}
	return tensWords[tens] + " " + numberWords[ones]
}
