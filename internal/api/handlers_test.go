package api

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"

	"github.com/zapponejosh/church-calendar/internal/calendar"
	"github.com/zapponejosh/church-calendar/internal/config"
	"github.com/zapponejosh/church-calendar/internal/database"
	"github.com/zapponejosh/church-calendar/internal/export"
)

// =============================================================================
// TEST SETUP HELPERS
// =============================================================================

// testEnv sets up a complete test environment with database, config, and handlers
type testEnv struct {
	db       *database.DB
	cfg      *config.Config
	handlers *Handlers
	router   http.Handler
	adminKey string
}

// fixedNow is the clock used by the today endpoint in tests.
var fixedNow = time.Date(2024, time.March, 31, 10, 0, 0, 0, time.UTC)

// setupTest creates a fresh test environment
func setupTest(t *testing.T) *testEnv {
	t.Helper()

	dbCfg := database.Config{
		Path:            ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError, // Quiet during tests
	}))

	db, err := database.Open(dbCfg, logger)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	adminKey := "admin-test-key-32-characters-minimum-length"
	cfg := &config.Config{
		Port:         8080,
		Env:          config.EnvDevelopment,
		DatabasePath: ":memory:",
		AdminAPIKey:  adminKey,
		LogLevel:     "error",
		LogFormat:    "text",
		EasterSource: calendar.EasterSourceComputus,
		MaxRangeDays: 31,
	}

	handlers := NewHandlers(db, calendar.NewEngine(calendar.WithLogger(logger)), cfg, logger)
	handlers.now = func() time.Time { return fixedNow }

	return &testEnv{
		db:       db,
		cfg:      cfg,
		handlers: handlers,
		router:   SetupRoutes(handlers, cfg, logger),
		adminKey: adminKey,
	}
}

// issueKey creates a key in the store and returns its secret.
func (env *testEnv) issueKey(t *testing.T, name string) *database.IssuedAPIKey {
	t.Helper()
	issued, err := env.db.CreateAPIKey(context.Background(), name)
	if err != nil {
		t.Fatalf("create test api key: %v", err)
	}
	return issued
}

// do routes a request through the full router.
func (env *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	return rr
}

// makeRequest is a helper to make HTTP requests with optional API key
func makeRequest(method, path string, body any, apiKey string) *http.Request {
	var bodyReader io.Reader
	if body != nil {
		jsonData, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(jsonData)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")

	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	return req
}

// parseResponse parses JSON response
func parseResponse(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v, body: %s", err, rr.Body.String())
	}
}

// envelope decodes the standard response with typed data.
type envelope[T any] struct {
	Success bool       `json:"success"`
	Data    T          `json:"data"`
	Error   *ErrorInfo `json:"error"`
}

// =============================================================================
// MIDDLEWARE TESTS
// =============================================================================

func TestAuthMiddleware_ValidKey(t *testing.T) {
	env := setupTest(t)
	issued := env.issueKey(t, "auth test")

	handler := AuthMiddleware(env.db, slog.Default())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, ok := APIKeyFromContext(r.Context())
			if !ok {
				t.Error("API key not found in context")
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			if key.PublicID != issued.PublicID {
				t.Errorf("PublicID = %q, want %q", key.PublicID, issued.PublicID)
			}
			w.WriteHeader(http.StatusOK)
		}),
	)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, makeRequest("GET", "/test", nil, issued.Key))

	if rr.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	env := setupTest(t)
	revoked := env.issueKey(t, "revoked")
	if err := env.db.RevokeAPIKey(context.Background(), revoked.PublicID); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	tests := []struct {
		name string
		key  string
	}{
		{"missing key", ""},
		{"unknown key", "cc_invalid123456789"},
		{"revoked key", revoked.Key},
		{"admin key is not a store key", env.adminKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := AuthMiddleware(env.db, slog.Default())(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusOK)
				}),
			)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, makeRequest("GET", "/test", nil, tt.key))

			if rr.Code != http.StatusUnauthorized {
				t.Errorf("Status = %d, want %d", rr.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestAdminOnlyMiddleware(t *testing.T) {
	env := setupTest(t)
	storeKey := env.issueKey(t, "not admin")

	tests := []struct {
		name     string
		adminKey string
		key      string
		want     int
	}{
		{"valid admin key", env.adminKey, env.adminKey, http.StatusOK},
		{"store key", env.adminKey, storeKey.Key, http.StatusUnauthorized},
		{"missing key", env.adminKey, "", http.StatusUnauthorized},
		{"admin disabled", "", "anything", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *env.cfg
			cfg.AdminAPIKey = tt.adminKey
			handler := AdminOnlyMiddleware(&cfg, slog.Default())(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusOK)
				}),
			)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, makeRequest("GET", "/admin/test", nil, tt.key))

			if rr.Code != tt.want {
				t.Errorf("Status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	env := setupTest(t)

	rr := env.do(makeRequest("GET", "/health", nil, ""))
	if _, err := uuid.Parse(rr.Header().Get("X-Request-ID")); err != nil {
		t.Errorf("X-Request-ID = %q is not a UUID", rr.Header().Get("X-Request-ID"))
	}

	sent := uuid.NewString()
	req := makeRequest("GET", "/health", nil, "")
	req.Header.Set("X-Request-ID", sent)
	if got := env.do(req).Header().Get("X-Request-ID"); got != sent {
		t.Errorf("X-Request-ID = %q, want client value %q", got, sent)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := RecoveryMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}),
	)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, makeRequest("GET", "/panic", nil, ""))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	env := setupTest(t)

	rr := env.do(makeRequest("OPTIONS", "/api/v1/calendar/today", nil, ""))
	if rr.Code != http.StatusNoContent {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusNoContent)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing Access-Control-Allow-Origin")
	}
}

// =============================================================================
// CALENDAR ENDPOINT TESTS
// =============================================================================

func TestHealthCheck(t *testing.T) {
	env := setupTest(t)

	rr := env.do(makeRequest("GET", "/health", nil, ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp envelope[map[string]string]
	parseResponse(t, rr, &resp)
	if resp.Data["status"] != "healthy" {
		t.Errorf("status = %q, want healthy", resp.Data["status"])
	}
}

func TestGetToday(t *testing.T) {
	env := setupTest(t)

	rr := env.do(makeRequest("GET", "/api/v1/calendar/today", nil, ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d, body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp envelope[export.Row]
	parseResponse(t, rr, &resp)
	if resp.Data.Date != "2024-03-31" || resp.Data.Season != "Easter" {
		t.Errorf("today = %+v, want 2024-03-31 in Easter", resp.Data)
	}
}

func TestGetToday_TimeZone(t *testing.T) {
	env := setupTest(t)
	// 10:00 UTC on March 31 is still March 30 in Pago Pago (UTC-11).
	rr := env.do(makeRequest("GET", "/api/v1/calendar/today?tz=Pacific/Pago_Pago", nil, ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d, body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp envelope[export.Row]
	parseResponse(t, rr, &resp)
	if resp.Data.Date != "2024-03-30" || resp.Data.Season != "Holy Week" {
		t.Errorf("today = %+v, want 2024-03-30 in Holy Week", resp.Data)
	}

	rr = env.do(makeRequest("GET", "/api/v1/calendar/today?tz=Nowhere/Special", nil, ""))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("unknown tz Status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestGetDate(t *testing.T) {
	env := setupTest(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantWeek   string
	}{
		{"christmas", "/api/v1/calendar/date/2024-12-25", http.StatusOK, "Christmas"},
		{"advent sunday", "/api/v1/calendar/date/2024-12-01", http.StatusOK, "First Sunday of Advent"},
		{"trailing slash", "/api/v1/calendar/date/2024-12-01/", http.StatusOK, "First Sunday of Advent"},
		{"invalid", "/api/v1/calendar/date/12-25-2024", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(makeRequest("GET", tt.path, nil, ""))
			if rr.Code != tt.wantStatus {
				t.Fatalf("Status = %d, want %d, body: %s", rr.Code, tt.wantStatus, rr.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var resp envelope[export.Row]
			parseResponse(t, rr, &resp)
			if resp.Data.WeekLabel() != tt.wantWeek {
				t.Errorf("week = %q, want %q", resp.Data.WeekLabel(), tt.wantWeek)
			}
		})
	}
}

func TestGetDate_HolyDays(t *testing.T) {
	env := setupTest(t)

	rr := env.do(makeRequest("GET", "/api/v1/calendar/date/2024-12-25", nil, ""))
	var resp envelope[export.Row]
	parseResponse(t, rr, &resp)

	if len(resp.Data.HolyDays) != 1 || resp.Data.HolyDays[0] != calendar.HolyDayNativity {
		t.Errorf("holy_days = %v, want [%q]", resp.Data.HolyDays, calendar.HolyDayNativity)
	}
	if resp.Data.Year != "Year C" || resp.Data.Day != "Wednesday" {
		t.Errorf("row = %+v", resp.Data)
	}
}

func TestGetRange(t *testing.T) {
	env := setupTest(t)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCount  int
	}{
		{"holy week", "start=2024-03-24&end=2024-03-30", http.StatusOK, 7},
		{"single day", "start=2024-03-24&end=2024-03-24", http.StatusOK, 1},
		{"missing end", "start=2024-03-24", http.StatusBadRequest, 0},
		{"bad start", "start=yesterday&end=2024-03-24", http.StatusBadRequest, 0},
		{"reversed", "start=2024-03-30&end=2024-03-24", http.StatusBadRequest, 0},
		{"too long", "start=2024-01-01&end=2024-12-31", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(makeRequest("GET", "/api/v1/calendar/range?"+tt.query, nil, ""))
			if rr.Code != tt.wantStatus {
				t.Fatalf("Status = %d, want %d, body: %s", rr.Code, tt.wantStatus, rr.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var resp envelope[RangeResponse]
			parseResponse(t, rr, &resp)
			if resp.Data.Count != tt.wantCount || len(resp.Data.Days) != tt.wantCount {
				t.Errorf("count = %d (%d days), want %d", resp.Data.Count, len(resp.Data.Days), tt.wantCount)
			}
			for _, day := range resp.Data.Days {
				if day.Season != "Holy Week" {
					t.Errorf("%s season = %q, want Holy Week", day.Date, day.Season)
				}
			}
		})
	}
}

func TestExport(t *testing.T) {
	env := setupTest(t)
	issued := env.issueKey(t, "exporter")

	rr := env.do(makeRequest("GET", "/api/v1/calendar/export?start=2024-12-24&end=2024-12-26", nil, issued.Key))
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d, body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "church-calendar_2024-12-24_2024-12-26.csv") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	records, err := csv.NewReader(rr.Body).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 4 || strings.Join(records[0], ",") != "Date,Week,Season,Holy Day,Day,Year" {
		t.Errorf("records = %v", records)
	}
}

func TestExport_Formats(t *testing.T) {
	env := setupTest(t)
	issued := env.issueKey(t, "exporter")

	tests := []struct {
		format      string
		wantStatus  int
		contentType string
	}{
		{"json", http.StatusOK, "application/json"},
		{"yaml", http.StatusOK, "application/yaml"},
		{"xml", http.StatusBadRequest, "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			path := "/api/v1/calendar/export?start=2024-12-24&end=2024-12-26&format=" + tt.format
			rr := env.do(makeRequest("GET", path, nil, issued.Key))
			if rr.Code != tt.wantStatus {
				t.Fatalf("Status = %d, want %d, body: %s", rr.Code, tt.wantStatus, rr.Body.String())
			}
			if ct := rr.Header().Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", ct, tt.contentType)
			}
		})
	}
}

func TestExport_RequiresKey(t *testing.T) {
	env := setupTest(t)

	rr := env.do(makeRequest("GET", "/api/v1/calendar/export?start=2024-12-24&end=2024-12-26", nil, ""))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestGetHolyDays(t *testing.T) {
	env := setupTest(t)

	rr := env.do(makeRequest("GET", "/api/v1/years/2024/holy-days", nil, ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp envelope[YearHolyDays]
	parseResponse(t, rr, &resp)
	if resp.Data.Year != 2024 || len(resp.Data.HolyDays) != 38 {
		t.Fatalf("year = %d, %d holy days", resp.Data.Year, len(resp.Data.HolyDays))
	}
	if resp.Data.HolyDays[0].Date != "2024-01-01" {
		t.Errorf("first holy day = %+v", resp.Data.HolyDays[0])
	}

	for _, path := range []string{"/api/v1/years/abc/holy-days", "/api/v1/years/0/holy-days"} {
		if rr := env.do(makeRequest("GET", path, nil, "")); rr.Code != http.StatusBadRequest {
			t.Errorf("GET %s Status = %d, want %d", path, rr.Code, http.StatusBadRequest)
		}
	}
}

func TestGetFeasts(t *testing.T) {
	env := setupTest(t)

	rr := env.do(makeRequest("GET", "/api/v1/years/2024/feasts", nil, ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp envelope[struct {
		Easter      *string `json:"easter"`
		AdventCycle string  `json:"advent_cycle"`
		Feasts      []struct {
			Feast string  `json:"feast"`
			Date  *string `json:"date"`
		} `json:"feasts"`
	}]
	parseResponse(t, rr, &resp)

	if resp.Data.Easter == nil || *resp.Data.Easter != "2024-03-31" {
		t.Errorf("easter = %v, want 2024-03-31", resp.Data.Easter)
	}
	if resp.Data.AdventCycle != "Year C" {
		t.Errorf("advent_cycle = %q, want Year C", resp.Data.AdventCycle)
	}
	for _, f := range resp.Data.Feasts {
		if f.Feast == "Epiphany Five" && f.Date != nil {
			t.Errorf("Epiphany Five 2024 = %s, want null", *f.Date)
		}
	}
}

func TestNotFound(t *testing.T) {
	env := setupTest(t)

	rr := env.do(makeRequest("GET", "/api/v1/readings/today", nil, ""))
	if rr.Code != http.StatusNotFound {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusNotFound)
	}
	var resp Response
	parseResponse(t, rr, &resp)
	if resp.Success || resp.Error == nil || resp.Error.Code != "NOT_FOUND" {
		t.Errorf("response = %+v", resp)
	}
}

// =============================================================================
// ADMIN ENDPOINT TESTS
// =============================================================================

func TestAdminKeys_Lifecycle(t *testing.T) {
	env := setupTest(t)

	// Create
	rr := env.do(makeRequest("POST", "/api/v1/admin/keys", map[string]string{"name": "parish site"}, env.adminKey))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create Status = %d, want %d, body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	var created envelope[database.IssuedAPIKey]
	parseResponse(t, rr, &created)
	if created.Data.Key == "" || created.Data.PublicID == "" {
		t.Fatalf("created key = %+v", created.Data)
	}

	// The new key can export
	rr = env.do(makeRequest("GET", "/api/v1/calendar/export?start=2024-12-24&end=2024-12-24", nil, created.Data.Key))
	if rr.Code != http.StatusOK {
		t.Errorf("export with new key Status = %d, want %d", rr.Code, http.StatusOK)
	}

	// List
	rr = env.do(makeRequest("GET", "/api/v1/admin/keys", nil, env.adminKey))
	var listed envelope[[]database.APIKey]
	parseResponse(t, rr, &listed)
	if len(listed.Data) != 1 || listed.Data[0].Name != "parish site" {
		t.Errorf("listed = %+v", listed.Data)
	}
	if strings.Contains(rr.Body.String(), created.Data.Key) {
		t.Error("list response leaks the key secret")
	}

	// Revoke
	rr = env.do(makeRequest("DELETE", "/api/v1/admin/keys/"+created.Data.PublicID, nil, env.adminKey))
	if rr.Code != http.StatusOK {
		t.Errorf("revoke Status = %d, want %d", rr.Code, http.StatusOK)
	}
	rr = env.do(makeRequest("DELETE", "/api/v1/admin/keys/"+created.Data.PublicID, nil, env.adminKey))
	if rr.Code != http.StatusNotFound {
		t.Errorf("second revoke Status = %d, want %d", rr.Code, http.StatusNotFound)
	}

	// The revoked key can no longer export
	rr = env.do(makeRequest("GET", "/api/v1/calendar/export?start=2024-12-24&end=2024-12-24", nil, created.Data.Key))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("export with revoked key Status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestCreateAPIKey_Validation(t *testing.T) {
	env := setupTest(t)

	tests := []struct {
		name string
		body any
	}{
		{"empty name", map[string]string{"name": ""}},
		{"missing name", map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(makeRequest("POST", "/api/v1/admin/keys", tt.body, env.adminKey))
			if rr.Code != http.StatusBadRequest {
				t.Errorf("Status = %d, want %d", rr.Code, http.StatusBadRequest)
			}
		})
	}

	req := httptest.NewRequest("POST", "/api/v1/admin/keys", strings.NewReader("{not json"))
	req.Header.Set("X-API-Key", env.adminKey)
	if rr := env.do(req); rr.Code != http.StatusBadRequest {
		t.Errorf("invalid JSON Status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestAdminKeys_RequireAdmin(t *testing.T) {
	env := setupTest(t)

	rr := env.do(makeRequest("GET", "/api/v1/admin/keys", nil, "wrong"))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}
