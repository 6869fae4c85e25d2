// Package export renders calendar results as CSV, JSON or YAML.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zapponejosh/church-calendar/internal/calendar"
)

// Format is an output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// CSVHeader is the header row written by WriteCSV.
var CSVHeader = []string{"Date", "Week", "Season", "Holy Day", "Day", "Year"}

// holyDaySeparator joins several holy days into one CSV cell.
const holyDaySeparator = "; "

// ParseFormat accepts csv, json, yaml or yml, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatYAML:
		return "application/yaml"
	default:
		return "application/json"
	}
}

// Extension returns the file extension for the format, without a dot.
func (f Format) Extension() string {
	return string(f)
}

// Row is the flat presentation of one calendar result.
type Row struct {
	Date        string   `json:"date" yaml:"date"`
	Week        *string  `json:"week" yaml:"week"`
	Season      string   `json:"season" yaml:"season"`
	HolyDays    []string `json:"holy_days" yaml:"holy_days"`
	Day         string   `json:"day" yaml:"day"`
	Year        string   `json:"year" yaml:"year"`
	Unavailable []string `json:"unavailable,omitempty" yaml:"unavailable,omitempty"`
}

// NewRow converts a calendar result.
func NewRow(r calendar.Result) Row {
	row := Row{
		Date:        calendar.FormatDate(r.Date),
		Week:        r.Week,
		Season:      string(r.Season),
		HolyDays:    r.HolyDays,
		Day:         r.Weekday,
		Year:        string(r.Cycle),
		Unavailable: r.Unavailable,
	}
	if row.HolyDays == nil {
		row.HolyDays = []string{}
	}
	return row
}

// NewRows converts a slice of calendar results.
func NewRows(results []calendar.Result) []Row {
	rows := make([]Row, len(results))
	for i, r := range results {
		rows[i] = NewRow(r)
	}
	return rows
}

// WeekLabel returns the week or "" when there is none.
func (r Row) WeekLabel() string {
	if r.Week == nil {
		return ""
	}
	return *r.Week
}

// HolyDayCell joins the holy days into one cell.
func (r Row) HolyDayCell() string {
	return strings.Join(r.HolyDays, holyDaySeparator)
}

// Record returns the row as CSV fields in CSVHeader order.
func (r Row) Record() []string {
	return []string{r.Date, r.WeekLabel(), r.Season, r.HolyDayCell(), r.Day, r.Year}
}

// Write encodes rows in format f.
func Write(w io.Writer, f Format, rows []Row) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatJSON:
		return WriteJSON(w, rows)
	case FormatYAML:
		return WriteYAML(w, rows)
	default:
		return fmt.Errorf("unsupported export format %q", f)
	}
}

// WriteCSV writes a header row followed by one record per row.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row.Record()); err != nil {
			return fmt.Errorf("write csv row %s: %w", row.Date, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteJSON writes rows as an indented JSON array.
func WriteJSON(w io.Writer, rows []Row) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// WriteYAML writes rows as a YAML sequence.
func WriteYAML(w io.Writer, rows []Row) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close yaml encoder: %w", err)
	}
	return nil
}
