package calendar

import (
	"encoding/json"
	"time"
)

// OptionalDate is either a date or explicitly absent. Feasts that do not
// occur in a given year are None rather than a zero time.
type OptionalDate struct {
	date time.Time
	ok   bool
}

// Some wraps a present date.
func Some(t time.Time) OptionalDate {
	return OptionalDate{date: Normalize(t), ok: true}
}

// None is the absent date.
func None() OptionalDate {
	return OptionalDate{}
}

// Get returns the date and whether it is present.
func (o OptionalDate) Get() (time.Time, bool) {
	return o.date, o.ok
}

// IsSome reports whether a date is present.
func (o OptionalDate) IsSome() bool {
	return o.ok
}

// Equal reports whether the date is present and falls on t.
func (o OptionalDate) Equal(t time.Time) bool {
	return o.ok && o.date.Equal(t)
}

// String returns YYYY-MM-DD, or "none" when absent.
func (o OptionalDate) String() string {
	if !o.ok {
		return "none"
	}
	return FormatDate(o.date)
}

// MarshalJSON encodes a present date as "YYYY-MM-DD" and an absent one as null.
func (o OptionalDate) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	return json.Marshal(FormatDate(o.date))
}

// suppressedFrom returns Some(t) unless t is on or after limit.
func suppressedFrom(t, limit time.Time) OptionalDate {
	if onOrAfter(t, limit) {
		return None()
	}
	return Some(t)
}
