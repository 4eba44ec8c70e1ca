package decompose

import (
	"math"
	"testing"

	"github.com/sanjaybasu/medicaid-frailty-bias/domain/cohort"
	"github.com/sanjaybasu/medicaid-frailty-bias/domain/policy"
	"github.com/sanjaybasu/medicaid-frailty-bias/internal/microsim"
)

func strictDefinition() policy.Definition {
	return policy.Definition{
		StateCode:             "GA",
		ADLThreshold:          2,
		RequiresPhysicianCert: true,
		ExParte:               policy.ExParteActive,
		ClaimsLag:             policy.ClaimsLagMedium,
		RecognizedConditions: []string{
			"F20-F29", "G30-G31", "M05-M06", "I60-I69",
		},
	}
}

func referenceDefinition() policy.Definition {
	return policy.Definition{
		StateCode:    "CA",
		ADLThreshold: 1,
		ExParte:      policy.ExParteActive,
		ClaimsLag:    policy.ClaimsLagMedium,
		RecognizedConditions: []string{
			"F20-F29", "F30-F39", "G10-G99", "M00-M99",
			"I00-I99", "C00-D49", "E00-E90", "Z59", "Z60",
		},
	}
}

// allEligibleCohort: every individual clears the strict rule, so any
// simulated gap comes purely from the stochastic stages.
func allEligibleCohort(perGroup int) cohort.Cohort {
	c := make(cohort.Cohort, 0, 2*perGroup)
	for _, race := range []cohort.Race{cohort.RaceWhite, cohort.RaceBlack} {
		for i := 0; i < perGroup; i++ {
			c = append(c, cohort.Individual{
				Race:          race,
				Weight:        1,
				Ambulatory:    true,
				SelfCare:      true,
				AnyDisability: true,
			})
		}
	}
	return c
}

func TestDecompose_EqualParamsYieldZeroChannels(t *testing.T) {
	// With identical detection and certification tables across races, the
	// equalized passes replay the observed pass exactly, so both stochastic
	// channels are zero and the whole gap is attributed to the algorithm.
	p := microsim.DefaultParams()
	p.Detect = map[cohort.Race]float64{
		cohort.RaceWhite: 0.70, cohort.RaceBlack: 0.70, cohort.RaceOther: 0.70,
	}
	p.Cert = map[cohort.Race]float64{
		cohort.RaceWhite: 0.75, cohort.RaceBlack: 0.75, cohort.RaceOther: 0.75,
	}

	res, err := Decompose(allEligibleCohort(300), strictDefinition(),
		Options{NSim: 100, SamplePerRace: 300, Seed: 42}, p)
	if err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}

	if res.VisibilityChannelPP != 0 {
		t.Errorf("visibility channel = %v, want exactly 0", res.VisibilityChannelPP)
	}
	if res.DocumentationChannelPP != 0 {
		t.Errorf("documentation channel = %v, want exactly 0", res.DocumentationChannelPP)
	}
	if res.AlgorithmGapPP != res.ObservedGapPP {
		t.Errorf("algorithm gap %v != observed gap %v under equalized params",
			res.AlgorithmGapPP, res.ObservedGapPP)
	}
}

func TestDecompose_DefaultParamsChannels(t *testing.T) {
	// Fully eligible cohort under active documentation with cert.
	// Observed gap: 0.72*0.81 - 0.58*0.64 = 21.2pp.
	// Equalizing detection leaves 0.72*(0.81-0.64) = 12.24pp.
	// Equalizing certification leaves (0.72-0.58)*0.81 = 11.34pp.
	res, err := Decompose(allEligibleCohort(500), strictDefinition(),
		Options{NSim: 500, SamplePerRace: 500, Seed: 42}, microsim.DefaultParams())
	if err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}

	checks := []struct {
		name string
		got  float64
		want float64
		tol  float64
	}{
		{"observed gap", res.ObservedGapPP, 21.2, 3.0},
		{"visibility channel", res.VisibilityChannelPP, 8.96, 3.0},
		{"documentation channel", res.DocumentationChannelPP, 9.86, 3.0},
		{"algorithm gap", res.AlgorithmGapPP, 0.0, 2.0},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > c.tol {
			t.Errorf("%s = %v, want %v +-%v", c.name, c.got, c.want, c.tol)
		}
	}

	if math.IsNaN(res.VisibilityPctOfTotal) || math.IsNaN(res.DocumentationPctOfTotal) {
		t.Error("percent-of-total fields are NaN despite a positive observed gap")
	}
}

func TestDecompose_MissingGroupFails(t *testing.T) {
	whiteOnly := cohort.Cohort{
		{Race: cohort.RaceWhite, Weight: 1, Ambulatory: true, SelfCare: true},
	}
	_, err := Decompose(whiteOnly, strictDefinition(),
		Options{NSim: 10, SamplePerRace: 10, Seed: 1}, microsim.DefaultParams())
	if err == nil {
		t.Fatal("expected an error for a cohort without both white and black groups")
	}
}

func TestCounterfactual(t *testing.T) {
	// The reference rule drops the certification requirement, so the gap
	// shrinks from detect*cert differentials to detect differentials only:
	// 21.2pp down to 14.0pp, roughly a third reducible.
	res, err := Counterfactual(allEligibleCohort(500), strictDefinition(), referenceDefinition(),
		Options{NSim: 500, SamplePerRace: 500, Seed: 42}, microsim.DefaultParams())
	if err != nil {
		t.Fatalf("Counterfactual failed: %v", err)
	}

	if res.State != "GA" || res.ReferenceState != "CA" {
		t.Errorf("state labels = %s/%s, want GA/CA", res.State, res.ReferenceState)
	}
	if math.Abs(res.ActualGapPP-21.2) > 3.0 {
		t.Errorf("actual gap = %v, want about 21.2", res.ActualGapPP)
	}
	if math.Abs(res.CounterfactualGapPP-14.0) > 3.0 {
		t.Errorf("counterfactual gap = %v, want about 14.0", res.CounterfactualGapPP)
	}
	if res.ReducibleGapPP <= 0 {
		t.Errorf("reducible gap = %v, want positive", res.ReducibleGapPP)
	}
	if math.IsNaN(res.PctGapReducible) || res.PctGapReducible <= 0 || res.PctGapReducible > 100 {
		t.Errorf("pct reducible = %v, want in (0, 100]", res.PctGapReducible)
	}
}

func TestDecomposeUnderidentification(t *testing.T) {
	// Half the cohort clears the strict rule outright; the other half has a
	// single ADL limitation plus the survey disability flag, reachable only
	// under the improved rule. Every improvement step should recover ground.
	c := make(cohort.Cohort, 0, 800)
	for _, race := range []cohort.Race{cohort.RaceWhite, cohort.RaceBlack} {
		for i := 0; i < 200; i++ {
			c = append(c, cohort.Individual{
				Race: race, Weight: 1,
				Ambulatory: true, SelfCare: true, AnyDisability: true,
			})
			c = append(c, cohort.Individual{
				Race: race, Weight: 1,
				Cognitive: true, AnyDisability: true,
			})
		}
	}

	defn := strictDefinition()
	improved := referenceDefinition()
	improved.StateCode = defn.StateCode
	improvedDetect := microsim.Override{
		cohort.RaceWhite: 0.824, cohort.RaceBlack: 0.740,
		cohort.RaceHispanic: 0.758, cohort.RaceAsian: 0.806, cohort.RaceOther: 0.776,
	}

	res, err := DecomposeUnderidentification(c, defn, improved, improvedDetect,
		Options{NSim: 300, SamplePerRace: 400, Seed: 42}, microsim.DefaultParams())
	if err != nil {
		t.Fatalf("DecomposeUnderidentification failed: %v", err)
	}

	if res.TrueDisabilityPct != 100.0 {
		t.Errorf("true disability = %v, want 100", res.TrueDisabilityPct)
	}
	if res.TotalUnderidentificationPP <= 0 {
		t.Errorf("total underidentification = %v, want positive", res.TotalUnderidentificationPP)
	}
	for _, ch := range []struct {
		name string
		v    float64
	}{
		{"design", res.DesignChannelPP},
		{"visibility", res.VisibilityChannelPP},
		{"documentation", res.DocumentationChannelPP},
	} {
		if ch.v < 0 {
			t.Errorf("%s channel = %v, want >= 0", ch.name, ch.v)
		}
	}
	if res.ImprovedIdentifiedPct <= res.StatusQuoIdentifiedPct {
		t.Errorf("improved identified %v did not exceed status quo %v",
			res.ImprovedIdentifiedPct, res.StatusQuoIdentifiedPct)
	}
	if res.ResidualUnderidPP < 0 {
		t.Errorf("residual = %v, want >= 0", res.ResidualUnderidPP)
	}
}
