/*
scenarios_test.go - Unit tests for demo scenarios

PURPOSE:
	Tests that each scenario loads through the API and produces a
	dashboard for its month:
	- Records, daily totals and revenue points are present
	- Holidays are classified
	- Loss-making records surface as issues
	- Exported scenarios import back unchanged

Storage-touching tests run on both the SQLite and the memory store.

These tests double as integration tests for store, pipeline and DTOs.
*/
package api

import (
	"net/http"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/pl-engine/factory"
	"github.com/warp/pl-engine/pl"
	"github.com/warp/pl-engine/store/memory"
	"github.com/warp/pl-engine/store/sqlite"
)

type testServer struct {
	handler *Handler
	router  http.Handler
	hook    *test.Hook
}

var (
	_ Store = (*sqlite.Store)(nil)
	_ Store = (*memory.Memory)(nil)
)

func setupTestServer(t *testing.T) *testServer {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return newTestServer(store)
}

func setupMemoryServer(t *testing.T) *testServer {
	return newTestServer(memory.New())
}

func newTestServer(store Store) *testServer {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	h := NewHandler(store, log)
	return &testServer{
		handler: h,
		router:  NewRouter(h, []string{"http://localhost:5173"}),
		hook:    hook,
	}
}

// backends runs fn once per store implementation.
func backends(t *testing.T, fn func(t *testing.T, ts *testServer)) {
	t.Run("sqlite", func(t *testing.T) { fn(t, setupTestServer(t)) })
	t.Run("memory", func(t *testing.T) { fn(t, setupMemoryServer(t)) })
}

func TestScenario_AllScenariosLoadWithoutError(t *testing.T) {
	for _, s := range factory.Scenarios() {
		t.Run(s.ID, func(t *testing.T) {
			backends(t, func(t *testing.T, ts *testServer) {
				// WHEN: The scenario is loaded
				rec := ts.do(t, http.MethodPost, "/api/scenarios/load", `{"scenario_id": "`+s.ID+`"}`)
				require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

				// THEN: Its month has a full dashboard
				var dash dashboardBody
				rec = ts.do(t, http.MethodGet, monthQuery("/api/dashboard", s.Year, s.Month), "")
				require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
				decodeBody(t, rec, &dash)

				assert.Equal(t, s.Year, dash.Year)
				assert.Equal(t, s.Month, dash.Month)
				assert.NotEmpty(t, dash.Records)
				assert.Len(t, dash.Revenue, daysIn(s.Year, s.Month))
				assert.Equal(t, len(dash.Records), dash.Summary.TotalRecords)
			})
		})
	}
}

func TestScenario_CurrentTracksLoads(t *testing.T) {
	ts := setupTestServer(t)

	// GIVEN: Nothing loaded
	rec := ts.do(t, http.MethodGet, "/api/scenarios/current", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "null", rec.Body.String())

	// WHEN: A scenario is loaded
	rec = ts.do(t, http.MethodPost, "/api/scenarios/load", `{"scenario_id": "holiday-month"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// THEN: It is reported as current, and a reset clears it
	var current ScenarioDTO
	rec = ts.do(t, http.MethodGet, "/api/scenarios/current", "")
	decodeBody(t, rec, &current)
	assert.Equal(t, "holiday-month", current.ID)

	rec = ts.do(t, http.MethodPost, "/api/scenarios/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ts.do(t, http.MethodGet, "/api/scenarios/current", "")
	assert.JSONEq(t, "null", rec.Body.String())

	var found bool
	for _, e := range ts.hook.AllEntries() {
		if e.Message == "scenario loaded" {
			found = true
			assert.Equal(t, "holiday-month", e.Data["scenario"])
		}
	}
	assert.True(t, found, "scenario load is logged")
}

func TestScenario_UnknownScenario(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/scenarios/load", `{"scenario_id": "nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/scenarios/load", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScenario_HolidayMonthClassifiesDays(t *testing.T) {
	ts := setupTestServer(t)
	rec := ts.do(t, http.MethodPost, "/api/scenarios/load", `{"scenario_id": "holiday-month"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var dash dashboardBody
	rec = ts.do(t, http.MethodGet, "/api/dashboard?year=2025&month=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &dash)

	kinds := map[string]string{}
	codes := map[string]int{}
	for _, d := range dash.DailyTotals {
		kinds[d.Date] = d.DayKind
		codes[d.Date] = d.DayCode
	}
	assert.Equal(t, "statutory_holiday", kinds["2025-05-03"])
	assert.Equal(t, -1, codes["2025-05-03"])
	assert.Equal(t, "scheduled_holiday", kinds["2025-05-10"])
	assert.Equal(t, -2, codes["2025-05-10"])
	assert.Equal(t, "weekday", kinds["2025-05-02"], "collective leave counts as a weekday")
}

func TestScenario_LossMonthReportsIssues(t *testing.T) {
	backends(t, func(t *testing.T, ts *testServer) {
		rec := ts.do(t, http.MethodPost, "/api/scenarios/load", `{"scenario_id": "loss-month"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var dash dashboardBody
		rec = ts.do(t, http.MethodGet, "/api/dashboard?year=2025&month=8", "")
		require.Equal(t, http.StatusOK, rec.Code)
		decodeBody(t, rec, &dash)

		assert.NotEmpty(t, dash.Issues)
		assert.Greater(t, dash.Summary.LossRecords, 0)

		// THEN: Mountain Day is a statutory holiday without production
		for _, d := range dash.DailyTotals {
			if d.Date == "2025-08-11" {
				assert.Equal(t, "statutory_holiday", d.DayKind)
			}
		}
		for _, r := range dash.Records {
			assert.NotEqual(t, "2025-08-11", r.Date)
		}
	})
}

func TestScenario_ExportRoundTripsThroughImport(t *testing.T) {
	backends(t, func(t *testing.T, ts *testServer) {
		// GIVEN: The exported loss-month dataset
		rec := ts.do(t, http.MethodGet, "/api/scenarios/loss-month/export", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		exported := rec.Body.String()
		ds, err := factory.ParseDataset([]byte(exported))
		require.NoError(t, err)
		assert.Len(t, ds.Production, 20)

		// WHEN: It is posted back to the import endpoint
		rec = ts.do(t, http.MethodPost, "/api/import", exported)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		// THEN: The month reads the same as a scenario load
		var dash dashboardBody
		rec = ts.do(t, http.MethodGet, "/api/dashboard?year=2025&month=8", "")
		require.Equal(t, http.StatusOK, rec.Code)
		decodeBody(t, rec, &dash)
		assert.Len(t, dash.Records, 20)

		var list struct {
			Holidays []HolidayDTO `json:"holidays"`
		}
		rec = ts.do(t, http.MethodGet, "/api/holidays?year=2025&month=8", "")
		require.Equal(t, http.StatusOK, rec.Code)
		decodeBody(t, rec, &list)
		require.Len(t, list.Holidays, 1)
		assert.Equal(t, "2025-08-11", list.Holidays[0].Date)
		assert.Equal(t, pl.StatutoryHoliday, list.Holidays[0].DayKind)
	})
}

func TestScenario_ExportUnknownScenario(t *testing.T) {
	ts := setupMemoryServer(t)

	rec := ts.do(t, http.MethodGet, "/api/scenarios/nope/export", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
