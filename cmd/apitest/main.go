package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// =============================================================================
// Response Types - Match the actual API response structure
// =============================================================================

type APIResponse struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// DayResponse is the response for /calendar/date/{date} and /calendar/today
type DayResponse struct {
	Date        string   `json:"date"`
	Week        *string  `json:"week"`
	Season      string   `json:"season"`
	HolyDays    []string `json:"holy_days"`
	Day         string   `json:"day"`
	Year        string   `json:"year"`
	Unavailable []string `json:"unavailable,omitempty"`
}

func (d DayResponse) week() string {
	if d.Week == nil {
		return "-"
	}
	return *d.Week
}

// RangeResponse is the response for /calendar/range
type RangeResponse struct {
	Start string        `json:"start"`
	End   string        `json:"end"`
	Count int           `json:"count"`
	Days  []DayResponse `json:"days"`
}

// HolyDaysResponse is the response for /years/{year}/holy-days
type HolyDaysResponse struct {
	Year     int `json:"year"`
	HolyDays []struct {
		Date string `json:"date"`
		Name string `json:"name"`
	} `json:"holy_days"`
}

// HealthResponse is the response for /health
type HealthResponse struct {
	Status string `json:"status"`
}

// IssuedKey is the response for POST /admin/keys
type IssuedKey struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	adminKey     string
	client       *http.Client
	verbose      bool
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL, adminKey string, verbose bool) *TestRunner {
	return &TestRunner{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		adminKey: adminKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Println("==============================================")
	fmt.Println("Church Calendar API Test Suite")
	fmt.Println("==============================================")
	fmt.Printf("Base URL: %s\n", tr.baseURL)
	fmt.Println()

	// Run test groups
	tr.testHealth()
	tr.testToday()
	tr.testSpecificDates()
	tr.testDateRange()
	tr.testYears()
	tr.testEdgeCases()
	tr.testKeysAndExport()

	// Print summary
	tr.printSummary()
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	resp, err := tr.get("/health")
	if err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	var health HealthResponse
	if err := tr.parseDataAs(resp, &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	if health.Status == "healthy" {
		tr.recordSuccess("Health check passed")
	} else {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", health.Status))
	}
}

func (tr *TestRunner) testToday() {
	tr.printSection("Today")

	for _, path := range []string{"/api/v1/calendar/today", "/api/v1/calendar/today?tz=America/New_York"} {
		resp, err := tr.get(path)
		if err != nil {
			tr.recordError(path, err.Error())
			continue
		}

		var day DayResponse
		if err := tr.parseDataAs(resp, &day); err != nil {
			tr.recordError(path, err.Error())
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%s: %s %s / %s [%s]", path, day.Date, day.Season, day.week(), day.Year))
	}
}

func (tr *TestRunner) testSpecificDates() {
	tr.printSection("Specific Date Tests")

	testCases := []struct {
		date           string
		expectedSeason string
		expectedWeek   string
		description    string
	}{
		// Advent 2024 (Year C)
		{"2024-12-01", "Advent", "First Sunday of Advent", "First Sunday of Advent 2024"},
		{"2024-12-03", "Advent", "First Sunday of Advent", "Advent weekday"},

		// Christmas Season
		{"2024-12-25", "Christmas", "Christmas", "Christmas Day 2024"},
		{"2025-01-05", "Christmas", "Christmas Two", "Last day of Christmas Season"},

		// Epiphany
		{"2025-01-07", "Epiphany", "Epiphany", "Day after Epiphany"},

		// Lent 2024
		{"2024-02-15", "Lent", "Ash Wednesday", "Thursday after Ash Wednesday"},

		// Holy Week & Easter 2024
		{"2024-03-28", "Holy Week", "Palm Sunday", "Maundy Thursday"},
		{"2024-04-01", "Easter", "Easter One", "Easter Monday"},
		{"2024-05-27", "Ordinary", "Trinity Sunday", "Monday after Trinity"},

		// Ordinary Time
		{"2024-06-02", "Ordinary", "Ordinary Four", "Ordinary Four 2024"},
		{"2024-11-24", "Ordinary", "Christ the King", "Christ the King 2024"},
	}

	for _, tc := range testCases {
		resp, err := tr.get(fmt.Sprintf("/api/v1/calendar/date/%s", tc.date))
		if err != nil {
			tr.recordError(tc.date, err.Error())
			continue
		}

		var day DayResponse
		if err := tr.parseDataAs(resp, &day); err != nil {
			tr.recordError(tc.date, err.Error())
			continue
		}

		if day.Season == tc.expectedSeason && day.week() == tc.expectedWeek {
			tr.recordSuccess(fmt.Sprintf("%s: %s / %s (%s)",
				tc.date, day.Season, day.week(), tc.description))
		} else {
			tr.recordError(tc.date, fmt.Sprintf("Expected '%s / %s', got '%s / %s'",
				tc.expectedSeason, tc.expectedWeek, day.Season, day.week()))
		}

		if tr.verbose {
			tr.printDayDetail(day)
		}
	}
}

func (tr *TestRunner) testDateRange() {
	tr.printSection("Date Range Tests")

	// Test a week range
	resp, err := tr.get("/api/v1/calendar/range?start=2025-12-21&end=2025-12-27")
	if err != nil {
		tr.recordError("Range (week)", err.Error())
		return
	}

	var rangeData RangeResponse
	if err := tr.parseDataAs(resp, &rangeData); err != nil {
		tr.recordError("Range (week)", err.Error())
		return
	}

	if rangeData.Count == 7 {
		tr.recordSuccess(fmt.Sprintf("Week range returned %d days", rangeData.Count))
	} else {
		tr.recordError("Range (week)", fmt.Sprintf("Expected 7 days, got %d", rangeData.Count))
	}

	// Test range limit
	resp2, _ := tr.getRaw("/api/v1/calendar/range?start=2020-01-01&end=2025-12-31", "")
	if resp2 != nil && resp2.StatusCode == 400 {
		tr.recordSuccess("Range limit enforced (multi-year range rejected)")
	} else {
		tr.recordError("Range limit", "Should reject ranges over MAX_RANGE_DAYS")
	}

	// Test invalid range (end before start)
	resp3, _ := tr.getRaw("/api/v1/calendar/range?start=2025-12-31&end=2025-01-01", "")
	if resp3 != nil && resp3.StatusCode == 400 {
		tr.recordSuccess("Invalid range rejected (end before start)")
	} else {
		tr.recordError("Invalid range", "Should reject end < start")
	}
}

func (tr *TestRunner) testYears() {
	tr.printSection("Year Tests")

	resp, err := tr.get("/api/v1/years/2024/holy-days")
	if err != nil {
		tr.recordError("Holy days", err.Error())
	} else {
		var data HolyDaysResponse
		if err := tr.parseDataAs(resp, &data); err != nil {
			tr.recordError("Holy days", err.Error())
		} else if len(data.HolyDays) == 38 {
			tr.recordSuccess("Holy days 2024: 38 entries")
		} else {
			tr.recordError("Holy days", fmt.Sprintf("Expected 38 entries, got %d", len(data.HolyDays)))
		}
	}

	if _, err := tr.get("/api/v1/years/2024/feasts"); err != nil {
		tr.recordError("Feasts", err.Error())
	} else {
		tr.recordSuccess("Feasts 2024 returned")
	}

	resp2, _ := tr.getRaw("/api/v1/years/0/feasts", "")
	if resp2 != nil && resp2.StatusCode == 400 {
		tr.recordSuccess("Year 0 rejected")
	} else {
		tr.recordError("Year 0", "Should return 400")
	}
}

func (tr *TestRunner) testEdgeCases() {
	tr.printSection("Edge Cases")

	// Invalid date format
	resp, _ := tr.getRaw("/api/v1/calendar/date/invalid", "")
	if resp != nil && resp.StatusCode == 400 {
		tr.recordSuccess("Invalid date format rejected")
	} else {
		tr.recordError("Invalid date", "Should return 400")
	}

	// Invalid date format (wrong separator)
	resp2, _ := tr.getRaw("/api/v1/calendar/date/2025/12/25", "")
	if resp2 != nil && resp2.StatusCode != 200 {
		tr.recordSuccess("Wrong date format rejected")
	} else {
		tr.recordError("Wrong format", "Should reject 2025/12/25")
	}

	// Missing parameters for range
	resp3, _ := tr.getRaw("/api/v1/calendar/range?start=2025-01-01", "")
	if resp3 != nil && resp3.StatusCode == 400 {
		tr.recordSuccess("Missing end parameter rejected")
	} else {
		tr.recordError("Missing param", "Should reject missing end")
	}

	// Leap year date
	if _, err := tr.get("/api/v1/calendar/date/2024-02-29"); err != nil {
		tr.recordError("Leap year", err.Error())
	} else {
		tr.recordSuccess("Leap year date (2024-02-29) handled")
	}

	// Far future date
	if _, err := tr.get("/api/v1/calendar/date/2300-06-15"); err != nil {
		tr.recordError("Future date", err.Error())
	} else {
		tr.recordSuccess("Far future date (2300) handled")
	}

	// Export without a key
	resp4, _ := tr.getRaw("/api/v1/calendar/export?start=2025-12-01&end=2025-12-31", "")
	if resp4 != nil && resp4.StatusCode == 401 {
		tr.recordSuccess("Export without API key rejected")
	} else {
		tr.recordError("Export auth", "Should return 401 without X-API-Key")
	}
}

func (tr *TestRunner) testKeysAndExport() {
	tr.printSection("API Keys and Export")

	if tr.adminKey == "" {
		fmt.Println("  (skipped: pass -admin-key to exercise admin routes)")
		return
	}

	body, _ := json.Marshal(map[string]string{"name": "apitest"})
	req, _ := http.NewRequest("POST", tr.baseURL+"/api/v1/admin/keys", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", tr.adminKey)
	resp, err := tr.decode(tr.client.Do(req))
	if err != nil {
		tr.recordError("Create key", err.Error())
		return
	}

	var issued IssuedKey
	if err := tr.parseDataAs(resp, &issued); err != nil || issued.Key == "" {
		tr.recordError("Create key", "No key in response")
		return
	}
	tr.recordSuccess(fmt.Sprintf("Created key %s", issued.ID))

	httpResp, err := tr.getRaw("/api/v1/calendar/export?start=2025-12-01&end=2025-12-31", issued.Key)
	if err != nil {
		tr.recordError("Export", err.Error())
	} else {
		records, err := csv.NewReader(httpResp.Body).ReadAll()
		httpResp.Body.Close()
		if err == nil && httpResp.StatusCode == 200 && len(records) == 32 {
			tr.recordSuccess("CSV export returned header plus 31 rows")
		} else {
			tr.recordError("Export", fmt.Sprintf("HTTP %d, %d records, err=%v", httpResp.StatusCode, len(records), err))
		}
	}

	req, _ = http.NewRequest("DELETE", tr.baseURL+"/api/v1/admin/keys/"+issued.ID, nil)
	req.Header.Set("X-API-Key", tr.adminKey)
	if _, err := tr.decode(tr.client.Do(req)); err != nil {
		tr.recordError("Revoke key", err.Error())
		return
	}
	tr.recordSuccess("Revoked key")

	resp2, _ := tr.getRaw("/api/v1/calendar/export?start=2025-12-01&end=2025-12-31", issued.Key)
	if resp2 != nil && resp2.StatusCode == 401 {
		tr.recordSuccess("Revoked key rejected")
	} else {
		tr.recordError("Revoked key", "Should return 401")
	}
}

// =============================================================================
// Helper Methods
// =============================================================================

func (tr *TestRunner) get(path string) (*APIResponse, error) {
	return tr.decode(tr.getRaw(path, ""))
}

func (tr *TestRunner) decode(resp *http.Response, err error) (*APIResponse, error) {
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	if !apiResp.Success {
		errMsg := "unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
		}
		return nil, fmt.Errorf("API error: %s", errMsg)
	}

	return &apiResp, nil
}

func (tr *TestRunner) getRaw(path, apiKey string) (*http.Response, error) {
	req, err := http.NewRequest("GET", tr.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	return tr.client.Do(req)
}

func (tr *TestRunner) parseDataAs(resp *APIResponse, target any) error {
	// Re-marshal and unmarshal to convert map to struct
	dataBytes, err := json.Marshal(resp.Data)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}
	return json.Unmarshal(dataBytes, target)
}

func (tr *TestRunner) printSection(name string) {
	fmt.Println()
	fmt.Printf("--- %s ---\n", name)
	fmt.Println()
}

func (tr *TestRunner) printDayDetail(d DayResponse) {
	fmt.Printf("    %s, %s\n", d.Day, d.Year)
	if len(d.HolyDays) > 0 {
		fmt.Printf("    Holy days: %s\n", strings.Join(d.HolyDays, "; "))
	}
	if len(d.Unavailable) > 0 {
		fmt.Printf("    Unavailable: %s\n", strings.Join(d.Unavailable, ", "))
	}
	fmt.Println()
}

func (tr *TestRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Printf("  ✓ %s\n", msg)
}

func (tr *TestRunner) recordError(context, msg string) {
	tr.errorCount++
	errStr := fmt.Sprintf("%s: %s", context, msg)
	tr.errors = append(tr.errors, errStr)
	fmt.Printf("  ✗ %s\n", errStr)
}

func (tr *TestRunner) printSummary() {
	fmt.Println()
	fmt.Println("==============================================")
	fmt.Println("Summary")
	fmt.Println("==============================================")
	fmt.Printf("  Passed: %d\n", tr.successCount)
	fmt.Printf("  Failed: %d\n", tr.errorCount)
	fmt.Println()

	if tr.errorCount > 0 {
		fmt.Println("Failures:")
		for _, err := range tr.errors {
			fmt.Printf("  • %s\n", err)
		}
		fmt.Println()
	}

	if tr.errorCount == 0 {
		fmt.Println("All tests passed! ✓")
	} else {
		fmt.Printf("Tests completed with %d failure(s)\n", tr.errorCount)
	}
}

// =============================================================================
// Main
// =============================================================================

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	adminKey := flag.String("admin-key", os.Getenv("ADMIN_API_KEY"), "Admin API key for key management tests")
	verbose := flag.Bool("v", false, "Verbose output (show day details)")
	flag.Parse()

	// Check if server is reachable
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	runner := NewTestRunner(*baseURL, *adminKey, *verbose)
	runner.Run()

	// Exit with error code if tests failed
	if runner.errorCount > 0 {
		os.Exit(1)
	}
}
