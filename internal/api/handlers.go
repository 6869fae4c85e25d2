package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/church-calendar/internal/calendar"
	"github.com/zapponejosh/church-calendar/internal/config"
	"github.com/zapponejosh/church-calendar/internal/database"
	"github.com/zapponejosh/church-calendar/internal/export"
)

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	db     *database.DB
	engine *calendar.Engine
	cfg    *config.Config
	logger *slog.Logger
	now    func() time.Time
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *database.DB, engine *calendar.Engine, cfg *config.Config, logger *slog.Logger) *Handlers {
	return &Handlers{
		db:     db,
		engine: engine,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// HolyDayView is the JSON form of a holy day.
type HolyDayView struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// YearHolyDays is the response for GET /api/v1/years/{year}/holy-days.
type YearHolyDays struct {
	Year     int           `json:"year"`
	HolyDays []HolyDayView `json:"holy_days"`
}

// RangeResponse is the response for GET /api/v1/calendar/range.
type RangeResponse struct {
	Start string       `json:"start"`
	End   string       `json:"end"`
	Count int          `json:"count"`
	Days  []export.Row `json:"days"`
}

// CreateAPIKeyRequest is the body of POST /api/v1/admin/keys.
type CreateAPIKeyRequest struct {
	Name string `json:"name"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Health(r.Context()); err != nil {
		h.logger.Warn("health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", "HEALTH_CHECK_FAILED")
		return
	}

	WriteSuccess(w, map[string]string{
		"status": "healthy",
	})
}

// GetToday handles GET /api/v1/calendar/today?tz=Area/City
//
// The date is taken in the requested IANA zone, defaulting to the server's.
func (h *Handlers) GetToday(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	if tz := r.URL.Query().Get("tz"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			WriteBadRequest(w, fmt.Sprintf("Unknown time zone: %s", tz))
			return
		}
		now = now.In(loc)
	}

	WriteSuccess(w, export.NewRow(h.engine.BuildResult(now)))
}

// GetDate handles GET /api/v1/calendar/date/{date}
func (h *Handlers) GetDate(w http.ResponseWriter, r *http.Request) {
	dateStr := chi.URLParam(r, "date")
	date, err := calendar.ParseDateString(dateStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid date format: %s. Use YYYY-MM-DD", dateStr))
		return
	}

	WriteSuccess(w, export.NewRow(h.engine.BuildResult(date)))
}

// GetRange handles GET /api/v1/calendar/range?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *Handlers) GetRange(w http.ResponseWriter, r *http.Request) {
	start, end, ok := h.parseRange(w, r)
	if !ok {
		return
	}

	results, err := h.engine.BuildRange(start, end)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	rows := export.NewRows(results)
	WriteSuccess(w, RangeResponse{
		Start: calendar.FormatDate(start),
		End:   calendar.FormatDate(end),
		Count: len(rows),
		Days:  rows,
	})
}

// Export handles GET /api/v1/calendar/export?start=&end=&format=csv|json|yaml
//
// The body is a file download rather than the JSON envelope.
func (h *Handlers) Export(w http.ResponseWriter, r *http.Request) {
	format := export.FormatCSV
	if f := r.URL.Query().Get("format"); f != "" {
		var err error
		if format, err = export.ParseFormat(f); err != nil {
			WriteBadRequest(w, err.Error())
			return
		}
	}

	start, end, ok := h.parseRange(w, r)
	if !ok {
		return
	}

	results, err := h.engine.BuildRange(start, end)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	filename := fmt.Sprintf("church-calendar_%s_%s.%s",
		calendar.FormatDate(start), calendar.FormatDate(end), format.Extension())
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := export.Write(w, format, export.NewRows(results)); err != nil {
		// Headers are already sent; all that is left is to log.
		h.logger.Error("export failed",
			slog.String("format", string(format)),
			slog.Any("error", err),
		)
		return
	}

	if key, ok := APIKeyFromContext(r.Context()); ok {
		h.logger.Info("calendar exported",
			slog.String("key_id", key.PublicID),
			slog.String("format", string(format)),
			slog.Int("days", len(results)),
		)
	}
}

// GetHolyDays handles GET /api/v1/years/{year}/holy-days
func (h *Handlers) GetHolyDays(w http.ResponseWriter, r *http.Request) {
	year, ok := parseYear(w, r)
	if !ok {
		return
	}

	days, err := h.engine.HolyDays(year)
	if err != nil {
		h.writeCalendarError(w, err)
		return
	}

	views := make([]HolyDayView, len(days))
	for i, d := range days {
		views[i] = HolyDayView{Date: calendar.FormatDate(d.Date), Name: d.Name}
	}
	WriteSuccess(w, YearHolyDays{Year: year, HolyDays: views})
}

// GetFeasts handles GET /api/v1/years/{year}/feasts
func (h *Handlers) GetFeasts(w http.ResponseWriter, r *http.Request) {
	year, ok := parseYear(w, r)
	if !ok {
		return
	}

	summary, err := h.engine.YearSummary(year)
	if err != nil {
		h.writeCalendarError(w, err)
		return
	}
	WriteSuccess(w, summary)
}

// CreateAPIKey handles POST /api/v1/admin/keys
func (h *Handlers) CreateAPIKey(w http.ResponseWriter, r *http.Request) {
	var req CreateAPIKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body")
		return
	}

	issued, err := h.db.CreateAPIKey(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, database.ErrInvalidName) {
			WriteBadRequest(w, "Name is required")
			return
		}
		h.logger.Error("failed to create api key", slog.Any("error", err))
		WriteInternalError(w, "Failed to create API key")
		return
	}

	WriteCreated(w, issued)
}

// ListAPIKeys handles GET /api/v1/admin/keys
func (h *Handlers) ListAPIKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := h.db.ListAPIKeys(r.Context())
	if err != nil {
		h.logger.Error("failed to list api keys", slog.Any("error", err))
		WriteInternalError(w, "Failed to list API keys")
		return
	}
	WriteSuccess(w, keys)
}

// RevokeAPIKey handles DELETE /api/v1/admin/keys/{keyID}
func (h *Handlers) RevokeAPIKey(w http.ResponseWriter, r *http.Request) {
	keyID := chi.URLParam(r, "keyID")

	if err := h.db.RevokeAPIKey(r.Context(), keyID); err != nil {
		if database.IsNotFound(err) {
			WriteNotFound(w, "API key not found or already revoked")
			return
		}
		h.logger.Error("failed to revoke api key",
			slog.String("key_id", keyID),
			slog.Any("error", err),
		)
		WriteInternalError(w, "Failed to revoke API key")
		return
	}

	WriteSuccess(w, map[string]string{
		"id":     keyID,
		"status": "revoked",
	})
}

// parseRange reads and checks the start and end query parameters,
// writing a 400 response and returning ok == false on failure.
func (h *Handlers) parseRange(w http.ResponseWriter, r *http.Request) (start, end time.Time, ok bool) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" || endStr == "" {
		WriteBadRequest(w, "Both start and end date parameters are required")
		return start, end, false
	}

	start, err := calendar.ParseDateString(startStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid start date format: %s. Use YYYY-MM-DD", startStr))
		return start, end, false
	}

	end, err = calendar.ParseDateString(endStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid end date format: %s. Use YYYY-MM-DD", endStr))
		return start, end, false
	}

	if start.After(end) {
		WriteBadRequest(w, "Start date must be before or equal to end date")
		return start, end, false
	}

	if days := calendar.RangeDays(start, end); days > h.cfg.MaxRangeDays {
		WriteBadRequest(w, fmt.Sprintf("Date range too large: %d days (maximum %d)", days, h.cfg.MaxRangeDays))
		return start, end, false
	}

	return start, end, true
}

// parseYear reads the {year} path parameter.
func parseYear(w http.ResponseWriter, r *http.Request) (int, bool) {
	yearStr := chi.URLParam(r, "year")
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid year: %s", yearStr))
		return 0, false
	}
	return year, true
}

// writeCalendarError maps calendar errors to HTTP responses.
func (h *Handlers) writeCalendarError(w http.ResponseWriter, err error) {
	if errors.Is(err, calendar.ErrUnsupportedYear) {
		WriteBadRequest(w, fmt.Sprintf("Year must be between %d and %d", calendar.MinYear, calendar.MaxYear))
		return
	}
	h.logger.Error("calendar computation failed", slog.Any("error", err))
	WriteInternalError(w, "Failed to compute calendar")
}
