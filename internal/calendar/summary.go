package calendar

// YearSummary lists the anchors and movable feasts of one calendar year.
type YearSummary struct {
	Year                int          `json:"year"`
	Easter              OptionalDate `json:"easter"`
	FirstSundayOfAdvent OptionalDate `json:"first_sunday_of_advent"`

	// AdventCycle is the cycle of the liturgical year that begins on
	// FirstSundayOfAdvent.
	AdventCycle Cycle       `json:"advent_cycle"`
	Feasts      []FeastDate `json:"feasts"`
}

// YearSummary builds the summary for year.
func (e *Engine) YearSummary(year int) (YearSummary, error) {
	y, err := e.Year(year)
	if err != nil {
		return YearSummary{}, err
	}
	return YearSummary{
		Year:                year,
		Easter:              Some(y.Easter()),
		FirstSundayOfAdvent: Some(FirstSundayOfAdvent(year)),
		AdventCycle:         CycleForYear(year + 1),
		Feasts:              y.MovableFeastDates(),
	}, nil
}
