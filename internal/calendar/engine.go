package calendar

import (
	"io"
	"log/slog"
	"time"
)

// Engine classifies dates in the liturgical calendar. An Engine is
// immutable after construction and safe for concurrent use.
type Engine struct {
	easter EasterFunc
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithEaster replaces the Easter calculator.
func WithEaster(fn EasterFunc) Option {
	return func(e *Engine) {
		if fn != nil {
			e.easter = fn
		}
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an engine using the Gregorian computus unless told otherwise.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		easter: EasterSunday,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Year returns the anchors for a calendar year.
func (e *Engine) Year(year int) (Year, error) {
	return newYear(year, e.easter)
}

// Easter returns Easter Sunday of year.
func (e *Engine) Easter(year int) (time.Time, error) {
	y, err := e.Year(year)
	if err != nil {
		return time.Time{}, err
	}
	return y.Easter(), nil
}

// MovableFeast returns the date of a movable feast in year.
func (e *Engine) MovableFeast(feast Feast, year int) (OptionalDate, error) {
	y, err := e.Year(year)
	if err != nil {
		return None(), err
	}
	return y.MovableFeast(feast), nil
}
