package ui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sanjaybasu/medicaid-frailty-bias/domain/core"
	"github.com/sanjaybasu/medicaid-frailty-bias/domain/policy"
	"github.com/sanjaybasu/medicaid-frailty-bias/domain/run"
	"github.com/sanjaybasu/medicaid-frailty-bias/internal"
	"github.com/sanjaybasu/medicaid-frailty-bias/internal/decompose"
	apperrors "github.com/sanjaybasu/medicaid-frailty-bias/internal/errors"
	"github.com/sanjaybasu/medicaid-frailty-bias/internal/improved"
	"github.com/sanjaybasu/medicaid-frailty-bias/internal/microsim"
)

// fakeRepo serves one run from memory.
type fakeRepo struct {
	manifest   run.Manifest
	aggregates []microsim.AggregateResult
}

func (f *fakeRepo) SaveManifest(ctx context.Context, m run.Manifest) error { return nil }

func (f *fakeRepo) GetManifest(ctx context.Context, runID core.RunID) (*run.Manifest, error) {
	if runID != f.manifest.RunID {
		return nil, apperrors.NotFound("run")
	}
	m := f.manifest
	return &m, nil
}

func (f *fakeRepo) ListRuns(ctx context.Context, limit int) ([]run.Manifest, error) {
	return []run.Manifest{f.manifest}, nil
}

func (f *fakeRepo) SaveAggregates(ctx context.Context, runID core.RunID, rows []microsim.AggregateResult) error {
	return nil
}

func (f *fakeRepo) GetAggregates(ctx context.Context, runID core.RunID) ([]microsim.AggregateResult, error) {
	if runID != f.manifest.RunID {
		return nil, apperrors.NotFound("run")
	}
	return f.aggregates, nil
}

func (f *fakeRepo) GetAggregatesByState(ctx context.Context, runID core.RunID, state core.StateCode) ([]microsim.AggregateResult, error) {
	out := []microsim.AggregateResult{}
	for _, r := range f.aggregates {
		if r.State == state {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) SaveDecompositions(ctx context.Context, runID core.RunID, rows []decompose.Result) error {
	return nil
}

func (f *fakeRepo) GetDecompositions(ctx context.Context, runID core.RunID) ([]decompose.Result, error) {
	return nil, nil
}

func (f *fakeRepo) SaveCounterfactuals(ctx context.Context, runID core.RunID, rows []decompose.CounterfactualResult) error {
	return nil
}

func (f *fakeRepo) GetCounterfactuals(ctx context.Context, runID core.RunID) ([]decompose.CounterfactualResult, error) {
	return nil, nil
}

func (f *fakeRepo) SaveComparisons(ctx context.Context, runID core.RunID, rows []improved.Comparison) error {
	return nil
}

func (f *fakeRepo) GetComparisons(ctx context.Context, runID core.RunID) ([]improved.Comparison, error) {
	return nil, nil
}

func testApp(repo *fakeRepo) *App {
	if repo == nil {
		return NewApp(policy.NewCatalogStore(), nil, internal.DefaultLogger)
	}
	return NewApp(policy.NewCatalogStore(), repo, internal.DefaultLogger)
}

func get(t *testing.T, app *App, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, testApp(nil), "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestListStates(t *testing.T) {
	rec := get(t, testApp(nil), "/api/states")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var states []stateSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &states); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if len(states) < 10 {
		t.Errorf("got %d states, want the full catalog", len(states))
	}
	for _, s := range states {
		if s.StringencyScore < 0 || s.StringencyScore > 10 {
			t.Errorf("%s stringency = %v outside [0, 10]", s.StateCode, s.StringencyScore)
		}
	}
}

func TestGetState(t *testing.T) {
	rec := get(t, testApp(nil), "/api/states/ga")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for a lowercase code", rec.Code)
	}

	var body struct {
		Definition      policy.Definition `json:"definition"`
		StringencyScore float64           `json:"stringency_score"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if body.Definition.StateCode != "GA" {
		t.Errorf("state code = %s, want GA", body.Definition.StateCode)
	}
}

func TestGetState_Unknown(t *testing.T) {
	rec := get(t, testApp(nil), "/api/states/ZZ")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestRunEndpoints_NoRepository(t *testing.T) {
	app := testApp(nil)
	for _, path := range []string{"/api/runs", "/api/runs/abc", "/api/runs/abc/aggregates"} {
		if rec := get(t, app, path); rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s status = %d, want 503", path, rec.Code)
		}
	}
}

func TestGetRun(t *testing.T) {
	repo := &fakeRepo{
		manifest: run.NewManifest(42, 500, 3000, []core.StateCode{"GA"},
			map[string]float64{"white": 0.72}, map[string]float64{"white": 0.81},
			"deadbeef", 100, "0.3.0"),
		aggregates: []microsim.AggregateResult{
			{State: "GA", Race: "white", N: 100, SimulatedExemptPct: 24.7},
			{State: "AR", Race: "white", N: 100, SimulatedExemptPct: 31.0},
		},
	}
	app := testApp(repo)
	runID := repo.manifest.RunID.String()

	rec := get(t, app, "/api/runs/"+runID)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var m run.Manifest
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if m.RunID != repo.manifest.RunID || m.Seed != 42 {
		t.Errorf("manifest = %+v", m)
	}

	if rec := get(t, app, "/api/runs/unknown-run"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown run status = %d, want 404", rec.Code)
	}
}

func TestGetAggregates_StateFilter(t *testing.T) {
	repo := &fakeRepo{
		manifest: run.NewManifest(42, 500, 3000, nil,
			map[string]float64{}, map[string]float64{}, "deadbeef", 100, "0.3.0"),
		aggregates: []microsim.AggregateResult{
			{State: "GA", Race: "white"},
			{State: "AR", Race: "white"},
		},
	}
	app := testApp(repo)
	runID := repo.manifest.RunID.String()

	rec := get(t, app, "/api/runs/"+runID+"/aggregates?state=ga")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var rows []microsim.AggregateResult
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if len(rows) != 1 || rows[0].State != "GA" {
		t.Errorf("filtered rows = %+v", rows)
	}

	if rec := get(t, app, "/api/runs/"+runID+"/aggregates?state=bogus"); rec.Code != http.StatusBadRequest {
		t.Errorf("bad state filter status = %d, want 400", rec.Code)
	}
}
