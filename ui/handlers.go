package ui

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sanjaybasu/medicaid-frailty-bias/domain/core"
	"github.com/sanjaybasu/medicaid-frailty-bias/domain/policy"
	apperrors "github.com/sanjaybasu/medicaid-frailty-bias/internal/errors"
)

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// stateSummary is the list-view projection of a definition.
type stateSummary struct {
	StateCode       core.StateCode `json:"state_code"`
	StateName       string         `json:"state_name"`
	StringencyScore float64        `json:"stringency_score"`
	ADLThreshold    int            `json:"adl_threshold"`
	RequiresCert    bool           `json:"requires_physician_cert"`
	ExParte         string         `json:"ex_parte"`
	ConditionCount  int            `json:"condition_count"`
}

func (a *App) handleListStates(w http.ResponseWriter, r *http.Request) {
	defs := a.store.All()
	out := make([]stateSummary, 0, len(defs))
	for _, d := range defs {
		out = append(out, stateSummary{
			StateCode:       d.StateCode,
			StateName:       d.StateName,
			StringencyScore: policy.Stringency(d),
			ADLThreshold:    d.ADLThreshold,
			RequiresCert:    d.RequiresPhysicianCert,
			ExParte:         string(d.ExParte),
			ConditionCount:  len(d.RecognizedConditions),
		})
	}
	a.writeJSON(w, http.StatusOK, out)
}

func (a *App) handleGetState(w http.ResponseWriter, r *http.Request) {
	defn, err := a.store.Get(chi.URLParam(r, "code"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"definition":       defn,
		"stringency_score": policy.Stringency(defn),
	})
}

func (a *App) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if a.repo == nil {
		a.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "results store not configured"})
		return
	}
	runs, err := a.repo.ListRuns(r.Context(), 50)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, runs)
}

func (a *App) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if a.repo == nil {
		a.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "results store not configured"})
		return
	}
	runID, err := core.ParseRunID(chi.URLParam(r, "id"))
	if err != nil {
		a.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	m, err := a.repo.GetManifest(r.Context(), runID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, m)
}

func (a *App) handleGetAggregates(w http.ResponseWriter, r *http.Request) {
	if a.repo == nil {
		a.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "results store not configured"})
		return
	}
	runID, err := core.ParseRunID(chi.URLParam(r, "id"))
	if err != nil {
		a.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if state := r.URL.Query().Get("state"); state != "" {
		code, err := core.ParseStateCode(state)
		if err != nil {
			a.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		rows, err := a.repo.GetAggregatesByState(r.Context(), runID, code)
		if err != nil {
			a.writeError(w, err)
			return
		}
		a.writeJSON(w, http.StatusOK, rows)
		return
	}

	rows, err := a.repo.GetAggregates(r.Context(), runID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, rows)
}

func (a *App) handleGetDecompositions(w http.ResponseWriter, r *http.Request) {
	if a.repo == nil {
		a.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "results store not configured"})
		return
	}
	runID, err := core.ParseRunID(chi.URLParam(r, "id"))
	if err != nil {
		a.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	rows, err := a.repo.GetDecompositions(r.Context(), runID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, rows)
}

func (a *App) handleGetCounterfactuals(w http.ResponseWriter, r *http.Request) {
	if a.repo == nil {
		a.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "results store not configured"})
		return
	}
	runID, err := core.ParseRunID(chi.URLParam(r, "id"))
	if err != nil {
		a.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	rows, err := a.repo.GetCounterfactuals(r.Context(), runID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, rows)
}

func (a *App) handleGetComparisons(w http.ResponseWriter, r *http.Request) {
	if a.repo == nil {
		a.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "results store not configured"})
		return
	}
	runID, err := core.ParseRunID(chi.URLParam(r, "id"))
	if err != nil {
		a.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	rows, err := a.repo.GetComparisons(r.Context(), runID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, rows)
}

func (a *App) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.log.Error("failed to encode response: %v", err)
	}
}

func (a *App) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperrors.GetCode(err) {
	case apperrors.CodeStateNotFound, apperrors.CodeNotFound:
		status = http.StatusNotFound
	case apperrors.CodeInvalidInput, apperrors.CodeInvalidCohort:
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		a.log.Error("request failed: %v", err)
	}
	a.writeJSON(w, status, map[string]string{"error": err.Error()})
}
