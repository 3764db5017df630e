/*
handlers.go - HTTP handler implementations

PURPOSE:

	Implements all HTTP endpoints. Handlers follow a consistent pattern:
	1. Parse request (body, URL params)
	2. Call engine / store
	3. Serialize response

ERROR HANDLING:

	Errors are returned as JSON with appropriate HTTP status:
	- 400: Malformed body, invalid rule boundaries
	- 404: Entry not found
	- 500: Store failures
	Row-level calculation problems are NOT HTTP errors: a row with a
	missing end time comes back 200 with its error field set, because the
	sheet as a whole is still valid.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kranwerk/timesheet-engine/calendar"
	"github.com/kranwerk/timesheet-engine/engine"
	"github.com/kranwerk/timesheet-engine/export"
	"github.com/kranwerk/timesheet-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store *sqlite.Store
	Cal   *calendar.Calendar

	// Active rule boundaries for the stored sheet. Adjustable between
	// batches via PUT /api/rules; each evaluation takes a copy, so a
	// batch always runs under one immutable rule set.
	mu    sync.RWMutex
	rules engine.Rules
}

// NewHandler creates a new handler with the given store and calendar,
// starting from the default rule boundaries.
func NewHandler(store *sqlite.Store, cal *calendar.Calendar) *Handler {
	return &Handler{
		Store: store,
		Cal:   cal,
		rules: engine.DefaultRules(),
	}
}

func (h *Handler) currentRules() engine.Rules {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rules
}

// =============================================================================
// STATELESS EVALUATION
// =============================================================================

// EvaluateSheet evaluates a batch of raw rows without touching the
// session store. The UI uses this for live recalculation as cells
// change.
func (h *Handler) EvaluateSheet(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rules := h.currentRules()
	if req.Rules != nil {
		parsed, err := parseRules(*req.Rules)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid rules", err)
			return
		}
		rules = parsed
	}

	entries := make([]engine.Entry, len(req.Rows))
	for i, row := range req.Rows {
		entries[i] = rowToEntry(row)
	}

	results, totals := engine.EvaluateBatch(entries, rules, h.Cal)
	writeJSON(w, http.StatusOK, sheetDTO(results, totals, nil))
}

// =============================================================================
// SESSION ENTRIES
// =============================================================================

// ListEntries returns the raw session rows as typed.
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Store.ListEntries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list entries", err)
		return
	}

	dtos := make([]EntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toEntryDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateEntry appends a raw row to the session. Values are stored
// verbatim; nothing is validated here so the leniency policy stays in
// one place (the engine).
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req RowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	entry := rowToStored(req)
	id, err := h.Store.SaveEntry(r.Context(), entry)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save entry", err)
		return
	}
	entry.ID = id
	writeJSON(w, http.StatusCreated, toEntryDTO(entry))
}

// UpdateEntry overwrites a session row.
func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid entry ID", err)
		return
	}

	var req RowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	entry := rowToStored(req)
	entry.ID = id
	if err := h.Store.UpdateEntry(r.Context(), entry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "Entry not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update entry", err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTO(entry))
}

// DeleteEntry removes a session row.
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid entry ID", err)
		return
	}

	if err := h.Store.DeleteEntry(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "Entry not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete entry", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// ResetSession clears every session row.
func (h *Handler) ResetSession(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset session", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reset": true})
}

// =============================================================================
// EVALUATED SHEET
// =============================================================================

// GetSheet evaluates the stored session under the active rules.
func (h *Handler) GetSheet(w http.ResponseWriter, r *http.Request) {
	results, totals, ids, err := h.evaluateSession(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to evaluate sheet", err)
		return
	}
	writeJSON(w, http.StatusOK, sheetDTO(results, totals, ids))
}

// ExportSheet streams the evaluated session as a CSV download.
func (h *Handler) ExportSheet(w http.ResponseWriter, r *http.Request) {
	results, totals, _, err := h.evaluateSession(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to evaluate sheet", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="timesheet-%s.csv"`, time.Now().Format("2006-01-02")))
	if err := export.WriteCSV(w, results, totals); err != nil {
		// Headers are gone already; nothing useful left to send.
		return
	}
}

func (h *Handler) evaluateSession(r *http.Request) ([]engine.Result, engine.Totals, []int64, error) {
	stored, err := h.Store.ListEntries(r.Context())
	if err != nil {
		return nil, engine.Totals{}, nil, err
	}

	entries := make([]engine.Entry, len(stored))
	ids := make([]int64, len(stored))
	for i, e := range stored {
		entries[i] = storedToEntry(e)
		ids[i] = e.ID
	}

	results, totals := engine.EvaluateBatch(entries, h.currentRules(), h.Cal)
	return results, totals, ids, nil
}

// =============================================================================
// RULES
// =============================================================================

// GetRules returns the active window boundaries.
func (h *Handler) GetRules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toRulesDTO(h.currentRules()))
}

// UpdateRules replaces the active window boundaries. Takes effect for
// the next evaluation; a batch already in flight keeps its copy.
func (h *Handler) UpdateRules(w http.ResponseWriter, r *http.Request) {
	var req RulesDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rules, err := parseRules(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rules", err)
		return
	}

	h.mu.Lock()
	h.rules = rules
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, toRulesDTO(rules))
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// ListHolidays enumerates the public holidays generated for a year.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}

	days := h.Cal.Holidays(year)
	dtos := make([]HolidayDTO, len(days))
	for i, d := range days {
		dtos[i] = HolidayDTO{Date: d.Date.Format("2006-01-02"), Name: d.Name}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"jurisdiction": h.Cal.Jurisdiction(),
		"year":         year,
		"holidays":     dtos,
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func rowToEntry(r RowRequest) engine.Entry {
	return engine.Entry{
		Date:    r.Date,
		Start:   r.Start,
		End:     r.End,
		Meal:    r.Meal,
		Wait:    r.Wait,
		Comment: r.Comment,
	}
}

// rowToStored flattens a loose row to its stored text form. Strings are
// kept verbatim; numeric durations are rendered as hours:minutes, the
// notation the normalizer reads back. Formatting a numeric 1.5 as "1.5"
// would shift it into the string domain, where "." separates hours from
// minutes, and the stored row would evaluate differently from the
// stateless one.
func rowToStored(r RowRequest) sqlite.Entry {
	return sqlite.Entry{
		Date:    looseString(r.Date),
		Start:   looseString(r.Start),
		End:     looseString(r.End),
		Meal:    durationString(r.Meal),
		Wait:    durationString(r.Wait),
		Comment: r.Comment,
	}
}

func storedToEntry(e sqlite.Entry) engine.Entry {
	return engine.Entry{
		Date:    emptyAsNil(e.Date),
		Start:   emptyAsNil(e.Start),
		End:     emptyAsNil(e.End),
		Meal:    emptyAsNil(e.Meal),
		Wait:    emptyAsNil(e.Wait),
		Comment: e.Comment,
	}
}

func looseString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

func durationString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return engine.FormatDuration(engine.NormalizeDuration(val))
	}
}

func emptyAsNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func sheetDTO(results []engine.Result, totals engine.Totals, ids []int64) SheetDTO {
	rows := make([]RowDTO, len(results))
	for i, res := range results {
		rows[i] = toRowDTO(res)
		if ids != nil {
			rows[i].ID = ids[i]
		}
	}
	return SheetDTO{Rows: rows, Totals: toTotalsDTO(totals)}
}

func parseRules(dto RulesDTO) (engine.Rules, error) {
	rules := engine.DefaultRules()
	fields := []struct {
		name string
		raw  string
		dst  *engine.ClockTime
	}{
		{"ordinary_start", dto.OrdinaryStart, &rules.OrdinaryStart},
		{"ordinary_end", dto.OrdinaryEnd, &rules.OrdinaryEnd},
		{"evening_end", dto.EveningEnd, &rules.EveningEnd},
	}
	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		ct, ok := engine.NormalizeClock(f.raw)
		if !ok {
			return engine.Rules{}, fmt.Errorf("unparsable %s %q", f.name, f.raw)
		}
		*f.dst = ct
	}
	if err := rules.Validate(); err != nil {
		return engine.Rules{}, err
	}
	return rules, nil
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]any{"error": message}
	if err != nil {
		response["detail"] = err.Error()
	}
	writeJSON(w, status, response)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
