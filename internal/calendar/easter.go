// Package calendar provides liturgical calendar calculations.
package calendar

import (
	"fmt"
	"time"

	"github.com/rickar/cal/v2"
)

// EasterFunc returns the date of Easter Sunday for a year.
// Implementations must be pure and return a date at midnight UTC.
type EasterFunc func(year int) time.Time

// Easter source names accepted by EasterSource.
const (
	EasterSourceComputus = "computus"
	EasterSourceRickar   = "rickar"
)

// EasterSunday calculates the date of Easter Sunday for a given year
// using the computus algorithm for the Gregorian calendar.
//
// The algorithm is based on the method described by J.M. Oudin (1940)
// and is valid for all years in the Gregorian calendar.
func EasterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return Date(year, time.Month(month), day)
}

// rickarEaster is an Easter-offset holiday with zero offset, i.e. Easter Day itself.
var rickarEaster = &cal.Holiday{
	Name: "Easter Sunday",
	Func: cal.CalcEasterOffset,
}

// RickarEaster returns Easter Sunday as computed by github.com/rickar/cal.
func RickarEaster(year int) time.Time {
	actual, _ := rickarEaster.Calc(year)
	return Normalize(actual)
}

// EasterSource returns the EasterFunc registered under name.
func EasterSource(name string) (EasterFunc, error) {
	switch name {
	case "", EasterSourceComputus:
		return EasterSunday, nil
	case EasterSourceRickar:
		return RickarEaster, nil
	default:
		return nil, fmt.Errorf("unknown easter source %q", name)
	}
}
