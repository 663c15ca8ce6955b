/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Loads the datasets built by factory/scenarios.go into the database so the
	dashboard has something to show. Each scenario covers one month.

AVAILABLE SCENARIOS:

	standard-month: Working days only, two lines, catalog-matched models
	holiday-month:  Statutory and scheduled holidays with holiday hours
	loss-month:     Unmatched models and a few loss-making records

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Build the dataset via factory
 3. Import it in one transaction

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "holiday-month"}

	GET /api/scenarios/holiday-month/export
	returns the dataset as POST /api/import accepts it

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - factory/scenarios.go: Scenario definitions
  - handlers.go: ResetDatabase handler
*/
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/warp/pl-engine/factory"
)

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, factory.Scenarios())
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	for _, s := range factory.Scenarios() {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}

	writeJSON(w, http.StatusOK, ScenarioDTO{
		ID:          current,
		Name:        current,
		Description: "Currently loaded scenario",
	})
}

// LoadScenario resets the database and imports a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ds, err := factory.BuildScenario(req.ScenarioID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown scenario", err)
		return
	}

	ctx := r.Context()

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Store.Reset(ctx); err != nil {
		h.fail(w, r, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	res, err := h.Store.ImportDataset(ctx, ds)
	if err != nil {
		h.fail(w, r, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	h.Log.WithField("scenario", req.ScenarioID).
		WithField("production", res.Production).
		Info("scenario loaded")

	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "loaded",
		"scenario": req.ScenarioID,
		"imported": res,
	})
}

// ExportScenario returns a scenario's dataset in import format.
// GET /api/scenarios/{id}/export
func (h *Handler) ExportScenario(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ds, err := factory.BuildScenario(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Unknown scenario", err)
		return
	}
	writeJSON(w, http.StatusOK, ds.ToJSON())
}
