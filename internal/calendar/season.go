package calendar

import "time"

// Season is a liturgical season.
type Season string

const (
	SeasonAdvent    Season = "Advent"
	SeasonChristmas Season = "Christmas"
	SeasonEpiphany  Season = "Epiphany"
	SeasonLent      Season = "Lent"
	SeasonHolyWeek  Season = "Holy Week"
	SeasonEaster    Season = "Easter"
	SeasonOrdinary  Season = "Ordinary"

	// SeasonUnassigned marks a date no season rule claimed.
	SeasonUnassigned Season = "Unassigned"

	// SeasonUnavailable marks a season that could not be computed.
	SeasonUnavailable Season = "Unavailable"
)

// Seasons returns the seven liturgical seasons in precedence order.
func Seasons() []Season {
	seasons := make([]Season, len(seasonRules))
	for i, rule := range seasonRules {
		seasons[i] = rule.season
	}
	return seasons
}

// seasonRule claims dates for a season. y is the date's calendar year.
type seasonRule struct {
	season   Season
	contains func(y Year, date time.Time) bool
}

// seasonRules are evaluated top-down; the first match wins. Holy Week sits
// inside the Lent window and must stay ahead of it.
var seasonRules = []seasonRule{
	{SeasonEaster, func(y Year, d time.Time) bool {
		return within(d, y.Easter(), y.Trinity())
	}},
	{SeasonHolyWeek, func(y Year, d time.Time) bool {
		return within(d, y.PalmSunday(), y.Easter())
	}},
	{SeasonLent, func(y Year, d time.Time) bool {
		return within(d, y.AshWednesday(), y.Easter())
	}},
	{SeasonAdvent, func(y Year, d time.Time) bool {
		return within(d, FirstSundayOfAdvent(y.Number()), Christmas(y.Number()))
	}},
	{SeasonChristmas, isChristmastide},
	{SeasonEpiphany, func(y Year, d time.Time) bool {
		return within(d, Epiphany(y.Number()), y.AshWednesday())
	}},
	{SeasonOrdinary, func(y Year, d time.Time) bool {
		return within(d, y.Trinity(), FirstSundayOfAdvent(y.Number()))
	}},
}

// isChristmastide reports whether d lies between a Christmas and the
// following Epiphany. From December 1 the season ends in the next calendar
// year; before Epiphany in January it started in the previous one.
func isChristmastide(y Year, d time.Time) bool {
	year := y.Number()
	endYear := year
	if onOrAfter(d, yearChangeCutover(year)) {
		endYear = year + 1
	}
	startYear := year
	if d.Before(Epiphany(year)) {
		startYear = year - 1
	}
	return within(d, Christmas(startYear), Epiphany(endYear))
}

// classify runs the decision table against d.
func classify(y Year, d time.Time) Season {
	for _, rule := range seasonRules {
		if rule.contains(y, d) {
			return rule.season
		}
	}
	return SeasonUnassigned
}

// matchingSeasons returns every season whose rule contains d, ignoring
// precedence.
func matchingSeasons(y Year, d time.Time) []Season {
	var matched []Season
	for _, rule := range seasonRules {
		if rule.contains(y, d) {
			matched = append(matched, rule.season)
		}
	}
	return matched
}

// ClassifySeason returns the liturgical season of date.
func (e *Engine) ClassifySeason(date time.Time) (Season, error) {
	date = Normalize(date)
	y, err := e.Year(date.Year())
	if err != nil {
		return SeasonUnavailable, err
	}
	return classify(y, date), nil
}
