package decompose

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func TestResultJSON_NaNBecomesNull(t *testing.T) {
	r := Result{
		State:                   "AR",
		ObservedGapPP:           -0.2,
		AlgorithmPctOfTotal:     math.NaN(),
		VisibilityPctOfTotal:    math.NaN(),
		DocumentationPctOfTotal: math.NaN(),
	}

	out, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, `"algorithm_pct_of_total":null`) {
		t.Errorf("NaN field not encoded as null: %s", s)
	}
	if !strings.Contains(s, `"observed_gap_pp":-0.2`) {
		t.Errorf("finite field mangled: %s", s)
	}
}

func TestResultJSON_FiniteValuesPassThrough(t *testing.T) {
	r := Result{State: "GA", ObservedGapPP: 9.4, AlgorithmPctOfTotal: 3.2,
		VisibilityPctOfTotal: 44.7, DocumentationPctOfTotal: 50.0}

	out, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(out), `"visibility_pct_of_total":44.7`) {
		t.Errorf("finite percent lost: %s", out)
	}
}

func TestCounterfactualJSON_NaNBecomesNull(t *testing.T) {
	r := CounterfactualResult{State: "GA", ActualGapPP: -1.0, PctGapReducible: math.NaN(), ReferenceState: "CA"}

	out, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(out), `"pct_gap_reducible":null`) {
		t.Errorf("NaN field not encoded as null: %s", out)
	}
}
