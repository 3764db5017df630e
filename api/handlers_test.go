package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kranwerk/timesheet-engine/api"
	"github.com/kranwerk/timesheet-engine/calendar"
	"github.com/kranwerk/timesheet-engine/store/sqlite"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cal, err := calendar.New("NO")
	require.NoError(t, err)

	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	srv := httptest.NewServer(api.NewRouter(api.NewHandler(store, cal)))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any, out any) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

// =============================================================================
// STATELESS EVALUATION
// =============================================================================

func TestEvaluateSheet(t *testing.T) {
	srv := newTestServer(t)

	var sheet api.SheetDTO
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/sheets/evaluate", map[string]any{
		"rows": []map[string]any{
			{"date": "2025-06-10", "start": "0730", "end": "1500", "meal": "0100", "wait": "0000"},
			{"date": "2025-06-14", "start": "0700", "end": "1900"},
			{"date": "2025-06-11", "start": "0800"}, // end missing
		},
	}, &sheet)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, sheet.Rows, 3)

	assert.Equal(t, 7.5, sheet.Rows[0].OrdinaryHours)
	assert.Equal(t, 6.5, sheet.Rows[0].BillableHours)
	assert.Equal(t, "ORDINARY", sheet.Rows[0].Class)

	assert.Equal(t, 12.0, sheet.Rows[1].WeekendOTHours)
	assert.Equal(t, "WEEKEND", sheet.Rows[1].Class)

	assert.NotEmpty(t, sheet.Rows[2].Error, "row with missing end should carry an error")
	assert.Zero(t, sheet.Rows[2].TotalHours)

	assert.Equal(t, 3, sheet.Totals.Rows)
	assert.Equal(t, 1, sheet.Totals.Errored)
	assert.Equal(t, 19.5, sheet.Totals.TotalHours)
	assert.Equal(t, 18.5, sheet.Totals.BillableHours)
}

func TestEvaluateSheet_RuleOverride(t *testing.T) {
	srv := newTestServer(t)

	// Shrink the ordinary window to 08:00-16:00; the 07:30 start now
	// begins with half an hour of night time.
	var sheet api.SheetDTO
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/sheets/evaluate", map[string]any{
		"rules": map[string]any{"ordinary_start": "0800", "ordinary_end": "1600", "evening_end": "2100"},
		"rows": []map[string]any{
			{"date": "2025-06-10", "start": "0730", "end": "1600"},
		},
	}, &sheet)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, sheet.Rows, 1)
	assert.Equal(t, 8.0, sheet.Rows[0].OrdinaryHours)
	assert.Equal(t, 0.5, sheet.Rows[0].NightOTHours)
}

func TestEvaluateSheet_BadRules(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/sheets/evaluate", map[string]any{
		"rules": map[string]any{"ordinary_start": "1600", "ordinary_end": "0800"},
		"rows":  []map[string]any{},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// SESSION ENTRIES AND SHEET
// =============================================================================

func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t)

	// Add two rows.
	var created api.EntryDTO
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/entries", map[string]any{
		"date": "2025-06-10", "start": "0730", "end": "1500", "meal": "0100",
	}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotZero(t, created.ID)

	doJSON(t, http.MethodPost, srv.URL+"/api/entries", map[string]any{
		"date": "2025-05-17", "start": "0800", "end": "1600",
	}, nil)

	// Evaluated sheet.
	var sheet api.SheetDTO
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/sheet", nil, &sheet)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, created.ID, sheet.Rows[0].ID)
	assert.Equal(t, "PUBLIC_HOLIDAY", sheet.Rows[1].Class)
	assert.Equal(t, 8.0, sheet.Rows[1].HolidayOTHours)

	// Update the first row to a shorter shift.
	resp = doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/entries/%d", srv.URL, created.ID), map[string]any{
		"date": "2025-06-10", "start": "0730", "end": "1200",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/sheet", nil, &sheet)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 4.5, sheet.Rows[0].TotalHours)

	// Delete and reset.
	resp = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/entries/%d", srv.URL, created.ID), nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/reset", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var entries []api.EntryDTO
	doJSON(t, http.MethodGet, srv.URL+"/api/entries", nil, &entries)
	assert.Empty(t, entries)
}

func TestStoredNumericDurationsMatchStateless(t *testing.T) {
	srv := newTestServer(t)

	// A row with JSON-number meal and wait must evaluate identically
	// whether it goes through the stateless endpoint or the session
	// store: 1.5 means an hour and a half in both paths.
	row := map[string]any{
		"date": "2025-06-10", "start": "0730", "end": "1500",
		"meal": 1.5, "wait": 0.5,
	}

	var stateless api.SheetDTO
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/sheets/evaluate", map[string]any{
		"rows": []map[string]any{row},
	}, &stateless)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, stateless.Rows, 1)
	require.Equal(t, 1.5, stateless.Rows[0].MealHours)
	require.Equal(t, 5.5, stateless.Rows[0].BillableHours)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/entries", row, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var stored api.SheetDTO
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/sheet", nil, &stored)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, stored.Rows, 1)

	assert.Equal(t, stateless.Rows[0].MealHours, stored.Rows[0].MealHours)
	assert.Equal(t, stateless.Rows[0].WaitHours, stored.Rows[0].WaitHours)
	assert.Equal(t, stateless.Rows[0].BillableHours, stored.Rows[0].BillableHours)
}

func TestEntryNotFound(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodDelete, srv.URL+"/api/entries/999", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, http.MethodPut, srv.URL+"/api/entries/999", map[string]any{"date": "2025-06-10"}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// =============================================================================
// RULES
// =============================================================================

func TestRulesRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	var rules api.RulesDTO
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/rules", nil, &rules)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "07:30", rules.OrdinaryStart)
	assert.Equal(t, "15:00", rules.OrdinaryEnd)
	assert.Equal(t, "21:00", rules.EveningEnd)

	// Boundaries accept the same loose notations as sheet cells.
	resp = doJSON(t, http.MethodPut, srv.URL+"/api/rules", map[string]any{
		"ordinary_start": "8", "ordinary_end": "16.00", "evening_end": "2200",
	}, &rules)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "08:00", rules.OrdinaryStart)
	assert.Equal(t, "16:00", rules.OrdinaryEnd)
	assert.Equal(t, "22:00", rules.EveningEnd)

	resp = doJSON(t, http.MethodPut, srv.URL+"/api/rules", map[string]any{
		"ordinary_start": "half past", "ordinary_end": "16:00",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// HOLIDAYS AND EXPORT
// =============================================================================

func TestListHolidays(t *testing.T) {
	srv := newTestServer(t)

	var payload struct {
		Jurisdiction string           `json:"jurisdiction"`
		Year         int              `json:"year"`
		Holidays     []api.HolidayDTO `json:"holidays"`
	}
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/holidays/2026", nil, &payload)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "NO", payload.Jurisdiction)
	assert.Len(t, payload.Holidays, 13)

	dates := make([]string, len(payload.Holidays))
	for i, hd := range payload.Holidays {
		dates[i] = hd.Date
	}
	assert.Contains(t, dates, "2026-04-05") // Easter Sunday 2026
	assert.Contains(t, dates, "2026-05-17")

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/holidays/abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExportSheet(t *testing.T) {
	srv := newTestServer(t)

	doJSON(t, http.MethodPost, srv.URL+"/api/entries", map[string]any{
		"date": "2025-06-10", "start": "0730", "end": "1500", "comment": "site A",
	}, nil)

	resp, err := http.Get(srv.URL + "/api/sheet/export")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

	var body bytes.Buffer
	_, err = body.ReadFrom(resp.Body)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(body.String()), "\n")
	require.Len(t, lines, 3) // header, one row, totals
	assert.Contains(t, lines[0], "billable_hours")
	assert.Contains(t, lines[1], "site A")
	assert.Contains(t, lines[2], "TOTAL")
}
