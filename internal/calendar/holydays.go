package calendar

import "time"

// HolyDay is a named observance on a date.
type HolyDay struct {
	Date time.Time `json:"date"`
	Name string    `json:"name"`
}

// Holy day names.
const (
	HolyDayNativity = "The Nativity of our Lord Jesus Christ"
	HolyDayEpiphany = "Epiphany"
)

// holyDayRule computes one catalog entry for a year.
type holyDayRule struct {
	name string
	date func(y Year) time.Time
}

// on returns a rule for a fixed month and day.
func on(month time.Month, day int) func(Year) time.Time {
	return func(y Year) time.Time { return Date(y.Number(), month, day) }
}

// yearly adapts a func of the calendar year to a rule.
func yearly(fn func(year int) time.Time) func(Year) time.Time {
	return func(y Year) time.Time { return fn(y.Number()) }
}

// holyDayCatalog lists observances in reporting order.
var holyDayCatalog = []holyDayRule{
	{"The Circumcision and Holy Name", on(time.January, 1)},
	{"Confession of Peter the Apostle", on(time.January, 18)},
	{"Conversion of Paul the Apostle", on(time.January, 25)},
	{"The Presentation of Christ", on(time.February, 2)},
	{"Matthias the Apostle", on(time.February, 24)},
	{"Joseph, the Guardian of Jesus", stJoseph},
	{"The Annunciation", annunciation},
	{"Mark the Evangelist", on(time.April, 25)},
	{"Philip and James the Apostles", on(time.May, 1)},
	{"The Visitation", on(time.May, 31)},
	{"Barnabas the Apostle", on(time.June, 11)},
	{"The Nativity of John the Baptist", on(time.June, 24)},
	{"Peter and Paul the Apostles", on(time.June, 29)},
	{"Canada Day", on(time.July, 1)},
	{"Independence Day", on(time.July, 4)},
	{"Mary Magdalene", on(time.July, 22)},
	{"James the Elder and the Apostle", on(time.July, 25)},
	{"The Transfiguration", on(time.August, 6)},
	{"The Virgin Mary", on(time.August, 15)},
	{"Bartholomew the Apostle", on(time.August, 24)},
	{"Holy Cross Day", on(time.September, 14)},
	{"Matthew the Apostle and Evangelist", on(time.September, 21)},
	{"Holy Michael and All Angels", on(time.September, 29)},
	{"Luke the Evangelist and Companion of Paul", on(time.October, 18)},
	{"James of Jerusalem", on(time.July, 26)},
	{"Simon and Jude the Apostles", on(time.October, 28)},
	{"All Saints' Day", on(time.November, 1)},
	{"Stephen, Deacon and Martyr", on(time.December, 26)},
	{"The Holy Innocents", on(time.December, 28)},
	{HolyDayEpiphany, yearly(Epiphany)},
	{HolyDayNativity, yearly(Christmas)},
	{"Memorial Day", yearly(MemorialDay)},
	{"Thanksgiving Day (USA)", yearly(ThanksgivingUSA)},
	{"Thanksgiving Day (Canada)", yearly(ThanksgivingCanada)},
	{"Remembrance Day", on(time.November, 11)},
	{"Andrew the Apostle", on(time.November, 30)},
	{"Thomas the Apostle", on(time.December, 21)},
	{"John the Apostle and Evangelist", on(time.December, 27)},
}

// stJoseph is March 19, moved back a day when it falls on Palm Sunday.
func stJoseph(y Year) time.Time {
	joseph := Date(y.Number(), time.March, 19)
	if joseph.Equal(y.PalmSunday()) {
		return addDays(joseph, -1)
	}
	return joseph
}

// annunciation is March 25. When Easter is early enough for that day to
// land in Holy Week or Easter Week it moves to the Monday after the
// Second Sunday of Easter; a Sunday Annunciation moves to Monday.
func annunciation(y Year) time.Time {
	day := Date(y.Number(), time.March, 25)
	if !y.Easter().After(Date(y.Number(), time.April, 2)) {
		return addDays(y.Easter(), 8)
	}
	if day.Weekday() == time.Sunday {
		return addDays(day, 1)
	}
	return day
}

// holyDays builds the catalog for a year.
func holyDays(y Year) []HolyDay {
	days := make([]HolyDay, len(holyDayCatalog))
	for i, rule := range holyDayCatalog {
		days[i] = HolyDay{Date: rule.date(y), Name: rule.name}
	}
	return days
}

// HolyDays returns every catalog observance in year, in catalog order.
func (e *Engine) HolyDays(year int) ([]HolyDay, error) {
	y, err := e.Year(year)
	if err != nil {
		return nil, err
	}
	return holyDays(y), nil
}

// MatchHolyDays returns the names of every observance falling on date.
// The result is empty, not nil, when nothing matches.
func (e *Engine) MatchHolyDays(date time.Time) ([]string, error) {
	date = Normalize(date)
	days, err := e.HolyDays(date.Year())
	if err != nil {
		return nil, err
	}
	names := []string{}
	for _, day := range days {
		if day.Date.Equal(date) {
			names = append(names, day.Name)
		}
	}
	return names, nil
}
