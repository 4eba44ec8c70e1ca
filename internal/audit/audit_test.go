package audit

import (
	"context"
	"reflect"
	"testing"

	"github.com/sanjaybasu/medicaid-frailty-bias/domain/policy"
	"github.com/sanjaybasu/medicaid-frailty-bias/internal"
	"github.com/sanjaybasu/medicaid-frailty-bias/internal/config"
	"github.com/sanjaybasu/medicaid-frailty-bias/internal/testkit"
)

func testConfig() config.SimulationConfig {
	return config.SimulationConfig{Seed: 42, NSim: 20, SamplePerRace: 200, MaxParallel: 4}
}

func TestAuditorRun(t *testing.T) {
	store := policy.NewCatalogStore()
	c := testkit.SyntheticCohort(2000, 42)

	rep, err := New(store, testConfig(), internal.DefaultLogger).Run(context.Background(), c)
	if err != nil {
		t.Fatalf("audit run failed: %v", err)
	}

	nStates := len(store.States())

	if rep.Manifest.RunID.String() == "" {
		t.Error("manifest missing a run ID")
	}
	if rep.Manifest.CohortSize != 2000 || rep.Manifest.Seed != 42 {
		t.Errorf("manifest = %+v", rep.Manifest)
	}
	if len(rep.Manifest.States) != nStates {
		t.Errorf("manifest covers %d states, want %d", len(rep.Manifest.States), nStates)
	}
	if rep.Manifest.ParameterHash.IsEmpty() || rep.Manifest.CohortHash.IsEmpty() {
		t.Error("manifest missing provenance hashes")
	}

	// Four race groups in the synthetic cohort, one row per (state, race).
	if want := nStates * 4; len(rep.Aggregates) != want {
		t.Errorf("got %d aggregate rows, want %d", len(rep.Aggregates), want)
	}
	for i := 1; i < len(rep.Aggregates); i++ {
		prev, cur := rep.Aggregates[i-1], rep.Aggregates[i]
		if cur.State < prev.State || (cur.State == prev.State && cur.Race < prev.Race) {
			t.Fatalf("aggregates unsorted at %d: %s/%s after %s/%s",
				i, cur.State, cur.Race, prev.State, prev.Race)
		}
	}

	if len(rep.Decompositions) != decompositionStates {
		t.Errorf("got %d decompositions, want %d", len(rep.Decompositions), decompositionStates)
	}
	if len(rep.Underidentification) != decompositionStates {
		t.Errorf("got %d under-identification rows, want %d",
			len(rep.Underidentification), decompositionStates)
	}

	// Every state except the reference, sorted by reducible gap descending.
	if want := nStates - 1; len(rep.Counterfactuals) != want {
		t.Errorf("got %d counterfactuals, want %d", len(rep.Counterfactuals), want)
	}
	for i, cf := range rep.Counterfactuals {
		if cf.State.String() == ReferenceState {
			t.Error("reference state compared against itself")
		}
		if cf.ReferenceState.String() != ReferenceState {
			t.Errorf("counterfactual reference = %s, want %s", cf.ReferenceState, ReferenceState)
		}
		if i > 0 && cf.ReducibleGapPP > rep.Counterfactuals[i-1].ReducibleGapPP {
			t.Fatal("counterfactuals not sorted by reducible gap")
		}
	}

	if len(rep.Comparisons) != nStates {
		t.Errorf("got %d comparisons, want %d", len(rep.Comparisons), nStates)
	}
	for i := 1; i < len(rep.Comparisons); i++ {
		if rep.Comparisons[i].SensitivityGainPP > rep.Comparisons[i-1].SensitivityGainPP {
			t.Fatal("comparisons not sorted by sensitivity gain")
		}
	}

	if len(rep.Coverage) != nStates {
		t.Errorf("got %d coverage rows, want %d", len(rep.Coverage), nStates)
	}
	if len(rep.Sensitivity) != 5 {
		t.Errorf("got %d sensitivity scenarios, want 5", len(rep.Sensitivity))
	}
}

func TestAuditorRun_Deterministic(t *testing.T) {
	store := policy.NewCatalogStore()
	c := testkit.SyntheticCohort(1000, 42)
	cfg := config.SimulationConfig{Seed: 42, NSim: 10, SamplePerRace: 100, MaxParallel: 2}

	first, err := New(store, cfg, internal.DefaultLogger).Run(context.Background(), c)
	if err != nil {
		t.Fatal(err)
	}
	second, err := New(store, cfg, internal.DefaultLogger).Run(context.Background(), c)
	if err != nil {
		t.Fatal(err)
	}

	// Run IDs and timestamps differ; every result table must not.
	if !reflect.DeepEqual(first.Aggregates, second.Aggregates) {
		t.Error("aggregates differ between identically seeded runs")
	}
	if !reflect.DeepEqual(first.Decompositions, second.Decompositions) {
		t.Error("decompositions differ between identically seeded runs")
	}
	if !reflect.DeepEqual(first.Comparisons, second.Comparisons) {
		t.Error("comparisons differ between identically seeded runs")
	}
	if first.Manifest.CohortHash != second.Manifest.CohortHash ||
		first.Manifest.ParameterHash != second.Manifest.ParameterHash {
		t.Error("provenance hashes differ for identical inputs")
	}
}

func TestAuditorRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(policy.NewCatalogStore(), testConfig(), internal.DefaultLogger).
		Run(ctx, testkit.SyntheticCohort(100, 1))
	if err == nil {
		t.Fatal("expected an error from a cancelled context")
	}
}
