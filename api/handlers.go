/*
handlers.go - HTTP API handlers for the P/L dashboard

PURPOSE:
  Exposes the P/L pipeline and its master data via REST API. Handles HTTP
  request/response and JSON serialization; every number crunch is
  delegated to the pl package.

ENDPOINTS:
  Dashboard:
    GET    /api/dashboard?year=&month=          Full month (records, totals, profit, revenue)
    GET    /api/dashboard/revenue?year=&month=  Revenue analysis series only

  Holidays:
    GET    /api/holidays?year=&month=  List holiday master entries
    POST   /api/holidays               Create or replace an entry
    DELETE /api/holidays/{date}        Delete an entry

  Rates:
    GET    /api/rates/{year}/{month}   Monthly unit prices
    PUT    /api/rates/{year}/{month}   Replace monthly unit prices

  Import:
    POST   /api/import                 Import a JSON dataset

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: store/sqlite or store/memory (also the pipeline's pl.Source)
  - Pipeline: The calculation engine, one Run per request
  - Log: Structured logger

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed dates, months, bodies and datasets
  - 404: Missing master data (monthly rates)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/warp/pl-engine/factory"
	"github.com/warp/pl-engine/generic"
	"github.com/warp/pl-engine/pl"
)

const maxImportBytes = 10 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Store is what the handlers need from persistence. *sqlite.Store and
// *memory.Memory both satisfy it.
type Store interface {
	pl.Source
	GetMonthlyRates(ctx context.Context, year int, month time.Month) (pl.MonthlyRates, error)
	SaveMonthlyRates(ctx context.Context, r pl.MonthlyRates) error
	ListHolidays(ctx context.Context, p generic.Period) ([]pl.HolidayEntry, error)
	SaveHoliday(ctx context.Context, h pl.HolidayEntry) error
	DeleteHoliday(ctx context.Context, date generic.TimePoint) error
	ImportDataset(ctx context.Context, ds *factory.Dataset) (factory.ImportResult, error)
	Reset(ctx context.Context) error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    Store
	Pipeline *pl.Pipeline
	Log      logrus.FieldLogger

	// Track currently loaded scenario
	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a new handler with the given store and logger.
func NewHandler(store Store, log logrus.FieldLogger) *Handler {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Handler{
		Store:    store,
		Pipeline: pl.NewPipeline(log.WithField("component", "pipeline")),
		Log:      log,
	}
}

// =============================================================================
// DASHBOARD HANDLERS
// =============================================================================

// GetDashboard runs the pipeline for one month.
// GET /api/dashboard?year=2025&month=3
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonthFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year/month", err)
		return
	}

	in, err := h.Store.LoadMonth(r.Context(), year, month)
	if err != nil {
		h.fail(w, r, "Failed to load month", err)
		return
	}
	res, err := h.Pipeline.Run(in)
	if err != nil {
		h.fail(w, r, "Failed to calculate dashboard", err)
		return
	}

	writeJSON(w, http.StatusOK, toDashboardResponse(year, int(month), in.Rates, res))
}

// GetRevenue returns the revenue analysis series for one month.
// GET /api/dashboard/revenue?year=2025&month=3
func (h *Handler) GetRevenue(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonthFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year/month", err)
		return
	}

	res, err := h.Pipeline.RunMonth(r.Context(), h.Store, year, month)
	if err != nil {
		h.fail(w, r, "Failed to calculate revenue analysis", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"year":    year,
		"month":   int(month),
		"revenue": toRevenueDTOs(res.Revenue),
	})
}

// =============================================================================
// HOLIDAY ENDPOINTS
// =============================================================================

// ListHolidays returns the holiday master for a month.
// GET /api/holidays?year=2025&month=5
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonthFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year/month", err)
		return
	}

	period := generic.MonthPeriod(year, month)
	holidays, err := h.Store.ListHolidays(r.Context(), period)
	if err != nil {
		h.fail(w, r, "Failed to get holidays", err)
		return
	}

	cal := pl.NewCalendar(holidays)
	dtos := make([]HolidayDTO, 0, len(holidays))
	for _, hol := range cal.HolidaysIn(period) {
		dtos = append(dtos, HolidayDTO{
			Date:    hol.Date.String(),
			Type:    string(hol.Type),
			Name:    hol.Name,
			DayKind: cal.Classify(hol.Date),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"holidays": dtos})
}

// CreateHoliday creates or replaces a holiday master entry.
// POST /api/holidays
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.Date == "" || req.Type == "" {
		writeError(w, http.StatusBadRequest, "Date and type are required", nil)
		return
	}

	date, err := generic.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	entry := pl.HolidayEntry{Date: date, Type: pl.ParseHolidayType(req.Type), Name: req.Name}
	if err := h.Store.SaveHoliday(r.Context(), entry); err != nil {
		h.fail(w, r, "Failed to create holiday", err)
		return
	}

	writeJSON(w, http.StatusCreated, HolidayDTO{
		Date:    entry.Date.String(),
		Type:    string(entry.Type),
		Name:    entry.Name,
		DayKind: pl.NewCalendar([]pl.HolidayEntry{entry}).Classify(entry.Date),
	})
}

// DeleteHoliday deletes a holiday.
// DELETE /api/holidays/{date}
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	date, err := generic.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	if err := h.Store.DeleteHoliday(r.Context(), date); err != nil {
		h.fail(w, r, "Failed to delete holiday", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// =============================================================================
// RATE ENDPOINTS
// =============================================================================

// GetRates returns the unit prices for a month.
// GET /api/rates/{year}/{month}
func (h *Handler) GetRates(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonthFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year/month", err)
		return
	}

	rates, err := h.Store.GetMonthlyRates(r.Context(), year, month)
	if err != nil {
		h.fail(w, r, fmt.Sprintf("No rates for %04d-%02d", year, month), err)
		return
	}

	writeJSON(w, http.StatusOK, toRatesDTO(rates))
}

// PutRates replaces the unit prices for a month. The path wins over any
// year/month in the body.
// PUT /api/rates/{year}/{month}
func (h *Handler) PutRates(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonthFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year/month", err)
		return
	}

	var req RatesDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rates := pl.MonthlyRates{
		Year:            year,
		Month:           month,
		InsideUnitRate:  req.InsideUnitRate.Decimal,
		OutsideUnitRate: req.OutsideUnitRate.Decimal,
		DirectRate:      req.DirectRate.Decimal,
		DispatchRate:    req.DispatchRate.Decimal,
		IndirectRate:    req.IndirectRate.Decimal,
	}
	if err := h.Store.SaveMonthlyRates(r.Context(), rates); err != nil {
		h.fail(w, r, "Failed to save rates", err)
		return
	}

	writeJSON(w, http.StatusOK, toRatesDTO(rates))
}

// =============================================================================
// IMPORT
// =============================================================================

// ImportDataset stores a JSON dataset (see factory.DatasetJSON).
// POST /api/import
func (h *Handler) ImportDataset(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body", err)
		return
	}

	ds, err := factory.ParseDataset(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid dataset", err)
		return
	}

	res, err := h.Store.ImportDataset(r.Context(), ds)
	if err != nil {
		h.fail(w, r, "Failed to import dataset", err)
		return
	}

	h.Log.WithFields(logrus.Fields{
		"production": res.Production,
		"expenses":   res.Expenses,
		"holidays":   res.Holidays,
		"models":     res.Models,
	}).Info("dataset imported")

	writeJSON(w, http.StatusCreated, ImportResponse{Status: "imported", Imported: res})
}

// ResetDatabase clears all data (dev only).
// POST /api/scenarios/reset
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		h.fail(w, r, "Failed to reset database", err)
		return
	}
	h.mu.Lock()
	h.currentScenario = ""
	h.mu.Unlock()

	h.Log.Warn("database reset")
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// fail maps err to a status and logs server-side failures.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.Log.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).WithError(err).Error(message)
	}
	writeError(w, status, message, err)
}

func statusFor(err error) int {
	switch {
	case generic.IsClientError(err):
		return http.StatusBadRequest
	case generic.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// yearMonthFromQuery reads ?year=&month=, defaulting each to the current one.
func yearMonthFromQuery(r *http.Request) (int, time.Month, error) {
	today := generic.Today()
	return parseYearMonth(r.URL.Query().Get("year"), r.URL.Query().Get("month"), today.Year(), today.Month())
}

func yearMonthFromPath(r *http.Request) (int, time.Month, error) {
	return parseYearMonth(chi.URLParam(r, "year"), chi.URLParam(r, "month"), 0, 0)
}

func parseYearMonth(yearStr, monthStr string, defYear int, defMonth time.Month) (int, time.Month, error) {
	year, month := defYear, defMonth
	if yearStr != "" {
		y, err := strconv.Atoi(yearStr)
		if err != nil || y < 1 || y > 9999 {
			return 0, 0, fmt.Errorf("%w: year %q", generic.ErrInvalidPeriod, yearStr)
		}
		year = y
	}
	if monthStr != "" {
		m, err := strconv.Atoi(monthStr)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: month %q", generic.ErrInvalidPeriod, monthStr)
		}
		month = time.Month(m)
	}
	if year == 0 || month < time.January || month > time.December {
		return 0, 0, fmt.Errorf("%w: year %d month %d", generic.ErrInvalidPeriod, year, int(month))
	}
	return year, month, nil
}
