// Command coverage classifies every date in a span of years and reports
// dates the calendar could not place: no season, no week, or a field
// that failed to compute.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/zapponejosh/church-calendar/internal/calendar"
	"github.com/zapponejosh/church-calendar/internal/logger"
)

// Problem kinds reported for a date.
const (
	problemUnassigned  = "no season"
	problemNoWeek      = "no week"
	problemUnavailable = "unavailable field"
)

// DateResult holds the result for a single date
type DateResult struct {
	Date        string   `json:"date"`
	Season      string   `json:"season"`
	Week        string   `json:"week,omitempty"`
	Cycle       string   `json:"cycle"`
	Problems    []string `json:"problems,omitempty"`
	Unavailable []string `json:"unavailable,omitempty"`
}

// OK reports whether the date was fully placed.
func (r DateResult) OK() bool {
	return len(r.Problems) == 0
}

// SeasonStats tracks statistics for each season
type SeasonStats struct {
	Season      string   `json:"season"`
	TotalDays   int      `json:"total_days"`
	Sundays     int      `json:"sundays"`
	WeekDays    int      `json:"days_with_week"`
	FailedDays  int      `json:"failed_days"`
	FailedDates []string `json:"failed_dates,omitempty"`
}

// YearStats tracks statistics for each calendar year
type YearStats struct {
	Year       int `json:"year"`
	TotalDays  int `json:"total_days"`
	FailedDays int `json:"failed_days"`
}

// Analysis holds the analyzed results
type Analysis struct {
	TotalDays   int
	TotalFailed int
	ByProblem   map[string]int
	BySeason    map[string]*SeasonStats
	ByYear      map[int]*YearStats
	AllFailures []DateResult
}

func main() {
	startYear := flag.Int("start", 2024, "Start year")
	years := flag.Int("years", 4, "Number of years to check")
	source := flag.String("easter", calendar.EasterSourceComputus, "Easter source (computus, rickar)")
	verbose := flag.Bool("v", false, "Verbose output (show each date)")
	outputFile := flag.String("o", "", "Output results to JSON file")
	flag.Parse()

	if *years < 1 {
		fmt.Println("Error: -years must be at least 1")
		os.Exit(2)
	}
	endYear := *startYear + *years - 1

	easter, err := calendar.EasterSource(*source)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(2)
	}
	engine := calendar.NewEngine(
		calendar.WithEaster(easter),
		calendar.WithLogger(logger.New(os.Stderr, "error", "text")),
	)

	fmt.Println("================================================================")
	fmt.Println("Church Calendar - Full Coverage Check")
	fmt.Println("================================================================")
	fmt.Printf("Easter:      %s\n", *source)
	fmt.Printf("Date Range:  %d-01-01 to %d-12-31\n", *startYear, endYear)
	fmt.Printf("Total Years: %d\n", *years)
	fmt.Println()

	results, err := checkAllDates(engine, *startYear, endYear, *verbose)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(2)
	}

	analysis := analyzeResults(results)

	printSummary(analysis, *startYear, endYear)
	printSeasons(analysis)
	printFailuresBySeason(analysis)

	if *outputFile != "" {
		saveResults(*outputFile, analysis)
	}

	if analysis.TotalFailed > 0 {
		os.Exit(1)
	}
}

func checkAllDates(engine *calendar.Engine, startYear, endYear int, verbose bool) ([]DateResult, error) {
	start := calendar.Date(startYear, time.January, 1)
	end := calendar.Date(endYear, time.December, 31)

	fmt.Printf("Checking %d days...\n\n", calendar.RangeDays(start, end))

	built, err := engine.BuildRange(start, end)
	if err != nil {
		return nil, err
	}

	results := make([]DateResult, len(built))
	for i, r := range built {
		results[i] = checkDate(r)
		if verbose {
			status := "✓"
			if !results[i].OK() {
				status = "✗"
			}
			fmt.Printf("  %s %s: %s / %s [%s]\n",
				status, results[i].Date, results[i].Season, results[i].Week, results[i].Cycle)
			if !results[i].OK() {
				fmt.Printf("      Problems: %s\n", strings.Join(results[i].Problems, ", "))
			}
		}
	}

	fmt.Println()
	return results, nil
}

// checkDate turns an aggregated result into a coverage verdict. Sundays
// always have a week; other days may legitimately have none.
func checkDate(r calendar.Result) DateResult {
	result := DateResult{
		Date:        calendar.FormatDate(r.Date),
		Season:      string(r.Season),
		Week:        r.WeekLabel(),
		Cycle:       string(r.Cycle),
		Unavailable: r.Unavailable,
	}

	if r.Season == calendar.SeasonUnassigned {
		result.Problems = append(result.Problems, problemUnassigned)
	}
	if r.Week == nil && r.Date.Weekday() == time.Sunday && !unavailable(r, calendar.FieldWeek) {
		result.Problems = append(result.Problems, problemNoWeek)
	}
	if len(r.Unavailable) > 0 {
		result.Problems = append(result.Problems, problemUnavailable)
	}
	return result
}

func unavailable(r calendar.Result, field string) bool {
	for _, f := range r.Unavailable {
		if f == field {
			return true
		}
	}
	return false
}

func analyzeResults(results []DateResult) *Analysis {
	analysis := &Analysis{
		ByProblem: make(map[string]int),
		BySeason:  make(map[string]*SeasonStats),
		ByYear:    make(map[int]*YearStats),
	}

	for _, r := range results {
		analysis.TotalDays++

		date, _ := calendar.ParseDateString(r.Date)
		year := date.Year()

		if _, ok := analysis.ByYear[year]; !ok {
			analysis.ByYear[year] = &YearStats{Year: year}
		}
		analysis.ByYear[year].TotalDays++

		if _, ok := analysis.BySeason[r.Season]; !ok {
			analysis.BySeason[r.Season] = &SeasonStats{Season: r.Season}
		}
		stats := analysis.BySeason[r.Season]
		stats.TotalDays++
		if date.Weekday() == time.Sunday {
			stats.Sundays++
		}
		if r.Week != "" {
			stats.WeekDays++
		}

		if r.OK() {
			continue
		}
		analysis.TotalFailed++
		analysis.ByYear[year].FailedDays++
		stats.FailedDays++
		stats.FailedDates = append(stats.FailedDates, r.Date)
		analysis.AllFailures = append(analysis.AllFailures, r)
		for _, p := range r.Problems {
			analysis.ByProblem[p]++
		}
	}

	return analysis
}

func printSummary(analysis *Analysis, startYear, endYear int) {
	fmt.Println("================================================================")
	fmt.Println("SUMMARY")
	fmt.Println("================================================================")
	fmt.Printf("Total Days Checked: %d\n", analysis.TotalDays)
	fmt.Printf("Placed:             %d (%.1f%%)\n", analysis.TotalDays-analysis.TotalFailed,
		percent(analysis.TotalDays-analysis.TotalFailed, analysis.TotalDays))
	fmt.Printf("Failed:             %d (%.1f%%)\n", analysis.TotalFailed,
		percent(analysis.TotalFailed, analysis.TotalDays))
	for _, p := range []string{problemUnassigned, problemNoWeek, problemUnavailable} {
		if n := analysis.ByProblem[p]; n > 0 {
			fmt.Printf("  %-18s %d\n", p+":", n)
		}
	}
	fmt.Println()

	fmt.Println("By Year:")
	for year := startYear; year <= endYear; year++ {
		if stats, ok := analysis.ByYear[year]; ok {
			status := "✓"
			if stats.FailedDays > 0 {
				status = "✗"
			}
			fmt.Printf("  %s %d: %d/%d days placed\n",
				status, year, stats.TotalDays-stats.FailedDays, stats.TotalDays)
		}
	}
	fmt.Println()
}

func printSeasons(analysis *Analysis) {
	fmt.Println("================================================================")
	fmt.Println("BY SEASON")
	fmt.Println("================================================================")

	seasons := make([]string, 0, len(analysis.BySeason))
	for _, s := range calendar.Seasons() {
		if _, ok := analysis.BySeason[string(s)]; ok {
			seasons = append(seasons, string(s))
		}
	}
	for name := range analysis.BySeason {
		if !containsString(seasons, name) {
			seasons = append(seasons, name)
		}
	}

	for _, name := range seasons {
		s := analysis.BySeason[name]
		fmt.Printf("  %-12s %6d days  %4d Sundays  %6d with week\n", name, s.TotalDays, s.Sundays, s.WeekDays)
	}
	fmt.Println()
}

func printFailuresBySeason(analysis *Analysis) {
	if analysis.TotalFailed == 0 {
		fmt.Println("No failures! 🎉")
		return
	}

	fmt.Println("================================================================")
	fmt.Println("FAILURES BY SEASON")
	fmt.Println("================================================================")

	// Sort seasons by failure count
	var seasons []*SeasonStats
	for _, stats := range analysis.BySeason {
		if stats.FailedDays > 0 {
			seasons = append(seasons, stats)
		}
	}
	sort.Slice(seasons, func(i, j int) bool {
		return seasons[i].FailedDays > seasons[j].FailedDays
	})

	for _, stats := range seasons {
		fmt.Printf("\n%s: %d failures\n", stats.Season, stats.FailedDays)
		// Show up to 5 example dates
		for i, date := range stats.FailedDates {
			if i >= 5 {
				fmt.Printf("  ... and %d more\n", len(stats.FailedDates)-5)
				break
			}
			fmt.Printf("  - %s\n", date)
		}
	}
	fmt.Println()
}

func saveResults(filename string, analysis *Analysis) {
	output := struct {
		GeneratedAt string                  `json:"generated_at"`
		Summary     map[string]any          `json:"summary"`
		BySeason    map[string]*SeasonStats `json:"by_season"`
		Failures    []DateResult            `json:"failures"`
	}{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Summary: map[string]any{
			"total_days":   analysis.TotalDays,
			"total_failed": analysis.TotalFailed,
			"by_problem":   analysis.ByProblem,
		},
		BySeason: analysis.BySeason,
		Failures: analysis.AllFailures,
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		fmt.Printf("Error marshaling results: %v\n", err)
		return
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		fmt.Printf("Error writing file: %v\n", err)
		return
	}

	fmt.Printf("Results saved to: %s\n", filename)
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
