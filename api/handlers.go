/*
handlers.go - HTTP API handlers for the reconciliation engine

PURPOSE:
  Exposes the reconciliation and aggregation engine via REST API. Handles
  HTTP request/response, JSON serialization, and delegates to engine logic.

ENDPOINTS:
  Sales:
    GET    /api/sales/unified          Canonical event stream (filterable)

  Reports:
    GET    /api/reports/monthly        Twelve KPI rows + yearly total
    GET    /api/reports/yearly         Yearly total row only
    GET    /api/reports/destinations   Revenue grouped by destination
    GET    /api/reports/pacing         Goal pacing for a month

  Stock:
    GET    /api/stock/snapshot         Inventory at end of a given day

  Goals:
    GET    /api/goals/{year}/{month}   Stored goal row
    PUT    /api/goals/{year}/{month}   Upsert goal row

  Misc:
    GET    /api/platforms              Destination master list
    GET    /api/years                  Years with any activity

  Scenarios:
    GET    /api/scenarios              List demo scenarios
    POST   /api/scenarios/load         Load a demo scenario

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Load a fresh Dataset from the source, compute
  4. Serialize response
  5. Handle errors

  Every report recomputes from the raw collections - there is no derived
  state to invalidate, so edits through the CRUD layer show up on the next
  request automatically.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.
  The user_id query parameter scopes goals per user but is not verified.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/warp/resale-engine/engine"
)

// DefaultUserID scopes goal rows when the client sends no user_id.
const DefaultUserID = "default"

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Source engine.Source
	Seeder Seeder // optional; nil disables scenario loading

	// DefaultFormula applies when the request carries no ?formula=.
	DefaultFormula engine.ProfitFormula

	// now is injectable for pacing tests.
	now func() time.Time

	currentScenario string
}

// NewHandler creates a new handler over the given source. seeder may be nil
// when demo scenarios are not wanted.
func NewHandler(src engine.Source, seeder Seeder) *Handler {
	return &Handler{
		Source:         src,
		Seeder:         seeder,
		DefaultFormula: engine.ProfitFormulaGross,
		now:            time.Now,
	}
}

// =============================================================================
// REQUEST PARSING
// =============================================================================

func (h *Handler) formulaFrom(r *http.Request) engine.ProfitFormula {
	switch r.URL.Query().Get("formula") {
	case "deposit", string(engine.ProfitFormulaDeposit):
		return engine.ProfitFormulaDeposit
	case string(engine.ProfitFormulaGross):
		return engine.ProfitFormulaGross
	default:
		return h.DefaultFormula
	}
}

func salesTypeFrom(r *http.Request) engine.SalesTypeFilter {
	switch r.URL.Query().Get("sales_type") {
	case "toB":
		return engine.FilterToB
	case "toC":
		return engine.FilterToC
	default:
		return engine.FilterAll
	}
}

func userIDFrom(r *http.Request) string {
	if id := r.URL.Query().Get("user_id"); id != "" {
		return id
	}
	return DefaultUserID
}

// yearFrom parses ?year=, defaulting to the current year.
func (h *Handler) yearFrom(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return h.now().Year(), nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if err := engine.ValidatePeriod(year, 0); err != nil {
		return 0, err
	}
	return year, nil
}

// =============================================================================
// SALES
// =============================================================================

// ListUnifiedSales returns the canonical event stream.
// GET /api/sales/unified?year=&month=&formula=&sales_type=
func (h *Handler) ListUnifiedSales(w http.ResponseWriter, r *http.Request) {
	year, err := h.yearFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}
	month := 0
	if raw := r.URL.Query().Get("month"); raw != "" {
		month, err = strconv.Atoi(raw)
		if err != nil || month < 0 || month > 12 {
			writeError(w, http.StatusBadRequest, "Invalid month", err)
			return
		}
	}

	d, err := engine.LoadDataset(r.Context(), h.Source)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load data", err)
		return
	}

	events := d.BuildUnifiedSales(engine.NormalizeOptions{Formula: h.formulaFrom(r)})
	events = engine.FilterEventsByMonth(events, year, month)
	writeJSON(w, http.StatusOK, toSaleDTOs(events))
}

// =============================================================================
// REPORTS
// =============================================================================

// MonthlyReport returns the twelve KPI rows plus the yearly total.
// GET /api/reports/monthly?year=&formula=&sales_type=
func (h *Handler) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	year, err := h.yearFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}

	d, err := engine.LoadDataset(r.Context(), h.Source)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load data", err)
		return
	}

	events := d.BuildUnifiedSales(engine.NormalizeOptions{Formula: h.formulaFrom(r)})
	opts := engine.AggregateOptions{SalesType: salesTypeFrom(r)}

	months := engine.ComputeMonthlyAggregates(d, events, year, opts)
	yearly := engine.ComputeYearlyTotal(d, events, year, opts)

	report := MonthlyReportDTO{Year: year, Yearly: toMonthlyRowDTO(yearly)}
	report.Months = make([]MonthlyRowDTO, len(months))
	for i, m := range months {
		report.Months[i] = toMonthlyRowDTO(m)
	}
	writeJSON(w, http.StatusOK, report)
}

// YearlyReport returns the yearly total row only.
// GET /api/reports/yearly?year=&formula=&sales_type=
func (h *Handler) YearlyReport(w http.ResponseWriter, r *http.Request) {
	year, err := h.yearFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}

	d, err := engine.LoadDataset(r.Context(), h.Source)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load data", err)
		return
	}

	events := d.BuildUnifiedSales(engine.NormalizeOptions{Formula: h.formulaFrom(r)})
	yearly := engine.ComputeYearlyTotal(d, events, year, engine.AggregateOptions{SalesType: salesTypeFrom(r)})
	writeJSON(w, http.StatusOK, toMonthlyRowDTO(yearly))
}

// DestinationReport returns revenue grouped by sale destination.
// GET /api/reports/destinations?year=&month=&formula=
func (h *Handler) DestinationReport(w http.ResponseWriter, r *http.Request) {
	year, err := h.yearFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}
	month := 0
	if raw := r.URL.Query().Get("month"); raw != "" {
		month, err = strconv.Atoi(raw)
		if err != nil || month < 0 || month > 12 {
			writeError(w, http.StatusBadRequest, "Invalid month", err)
			return
		}
	}

	d, err := engine.LoadDataset(r.Context(), h.Source)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load data", err)
		return
	}

	events := d.BuildUnifiedSales(engine.NormalizeOptions{Formula: h.formulaFrom(r)})
	events = engine.FilterEventsByMonth(events, year, month)
	writeJSON(w, http.StatusOK, toDestinationDTOs(engine.ComputeDestinationSummary(events)))
}

// PacingReport compares a month's actuals against its stored goal.
// GET /api/reports/pacing?year=&month=&user_id=
func (h *Handler) PacingReport(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	year := now.Year()
	month := int(now.Month())
	var err error
	if raw := r.URL.Query().Get("year"); raw != "" {
		if year, err = strconv.Atoi(raw); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid year", err)
			return
		}
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		if month, err = strconv.Atoi(raw); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid month", err)
			return
		}
	}
	if err := engine.ValidatePeriod(year, month); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}

	d, err := engine.LoadDataset(r.Context(), h.Source)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load data", err)
		return
	}

	events := d.BuildUnifiedSales(engine.NormalizeOptions{Formula: h.formulaFrom(r)})
	months := engine.ComputeMonthlyAggregates(d, events, year, engine.AggregateOptions{})

	var actual engine.MonthlyAggregate
	if month >= 1 && month <= 12 {
		actual = months[month-1]
	} else {
		actual = engine.ComputeYearlyTotal(d, events, year, engine.AggregateOptions{})
	}

	goal, err := h.Source.GetGoal(r.Context(), userIDFrom(r), year, month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load goal", err)
		return
	}

	row := engine.ComputeGoalPacing(actual, goal, now)
	writeJSON(w, http.StatusOK, toPacingDTO(row))
}

// =============================================================================
// STOCK
// =============================================================================

// StockSnapshot returns the reconstructed inventory at end of a day.
// GET /api/stock/snapshot?date=YYYY-MM-DD
func (h *Handler) StockSnapshot(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = h.now().UTC().Format("2006-01-02")
	}

	d, err := engine.LoadDataset(r.Context(), h.Source)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load data", err)
		return
	}

	snap, ok := d.Snapshot(date)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid date", nil)
		return
	}
	writeJSON(w, http.StatusOK, StockSnapshotDTO{
		AsOf:  engine.NormalizeDate(date),
		Count: snap.Count,
		Value: f64(snap.Value),
	})
}

// =============================================================================
// GOALS
// =============================================================================

func periodParams(r *http.Request) (year, month int, err error) {
	year, err = strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		return 0, 0, err
	}
	month, err = strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		return 0, 0, err
	}
	return year, month, engine.ValidatePeriod(year, month)
}

// GetGoal returns the stored goal for a month.
// GET /api/goals/{year}/{month}?user_id=
func (h *Handler) GetGoal(w http.ResponseWriter, r *http.Request) {
	year, month, err := periodParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}

	goal, err := h.Source.GetGoal(r.Context(), userIDFrom(r), year, month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load goal", err)
		return
	}
	if goal == nil {
		writeError(w, http.StatusNotFound, "Goal not found", engine.ErrGoalNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toGoalDTO(*goal))
}

// PutGoal inserts or replaces the goal for a month.
// PUT /api/goals/{year}/{month}?user_id=
func (h *Handler) PutGoal(w http.ResponseWriter, r *http.Request) {
	year, month, err := periodParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}

	var dto GoalDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	goal := toGoal(dto)
	goal.UserID = userIDFrom(r)
	goal.Year = year
	goal.Month = month

	if err := h.Source.UpsertGoal(r.Context(), goal); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save goal", err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalDTO(goal))
}

// =============================================================================
// MISC
// =============================================================================

// ListPlatforms returns the destination master list.
// GET /api/platforms
func (h *Handler) ListPlatforms(w http.ResponseWriter, r *http.Request) {
	platforms, err := h.Source.ListPlatforms(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list platforms", err)
		return
	}

	dtos := make([]PlatformDTO, len(platforms))
	for i, p := range platforms {
		dtos[i] = PlatformDTO{ID: p.ID, Name: p.Name, SalesType: string(p.SalesType)}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListYears returns the years that have any recorded activity.
// GET /api/years
func (h *Handler) ListYears(w http.ResponseWriter, r *http.Request) {
	d, err := engine.LoadDataset(r.Context(), h.Source)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load data", err)
		return
	}

	events := d.BuildUnifiedSales(engine.NormalizeOptions{})
	writeJSON(w, http.StatusOK, engine.AvailableYears(events, d.SingleItems, h.now()))
}

// =============================================================================
// RESPONSE HELPERS
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
