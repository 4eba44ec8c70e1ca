package microsim

import (
	"testing"

	"github.com/sanjaybasu/medicaid-frailty-bias/domain/cohort"
	"github.com/sanjaybasu/medicaid-frailty-bias/domain/policy"
)

// scriptedRand returns a fixed sequence of draws and counts consumption.
type scriptedRand struct {
	draws []float64
	calls int
}

func (r *scriptedRand) Float64() float64 {
	if r.calls >= len(r.draws) {
		panic("scriptedRand exhausted")
	}
	v := r.draws[r.calls]
	r.calls++
	return v
}

func eligibleIndividual() cohort.Individual {
	return cohort.Individual{
		Race:       cohort.RaceWhite,
		Ambulatory: true,
		SelfCare:   true,
	}
}

func TestSimulateOne_IneligibleConsumesNoDraws(t *testing.T) {
	defn := strictDefinition()
	rng := &scriptedRand{draws: nil} // any draw would panic

	ind := cohort.Individual{Hearing: true} // ADL count 0
	if SimulateOne(ind, defn, rng, DefaultParams(), nil, nil) {
		t.Error("ineligible individual simulated as exempt")
	}
	if rng.calls != 0 {
		t.Errorf("ineligible individual consumed %d draws, want 0", rng.calls)
	}
}

func TestSimulateOne_DetectionFailureStopsPipeline(t *testing.T) {
	defn := strictDefinition()
	defn.ExParte = policy.ExParteActive
	defn.RequiresPhysicianCert = true

	// White base detect 0.72, no bonuses. A draw of 0.9 fails detection and
	// the cert draw must never happen.
	rng := &scriptedRand{draws: []float64{0.9}}
	if SimulateOne(eligibleIndividual(), defn, rng, DefaultParams(), nil, nil) {
		t.Error("undetected individual simulated as exempt")
	}
	if rng.calls != 1 {
		t.Errorf("detection failure consumed %d draws, want 1", rng.calls)
	}
}

func TestSimulateOne_ActiveCertPath(t *testing.T) {
	defn := strictDefinition()
	defn.ExParte = policy.ExParteActive
	defn.RequiresPhysicianCert = true

	// Detection passes (0.1 < 0.72), cert fails (0.9 >= 0.81).
	rng := &scriptedRand{draws: []float64{0.1, 0.9}}
	if SimulateOne(eligibleIndividual(), defn, rng, DefaultParams(), nil, nil) {
		t.Error("failed cert should not be exempt")
	}

	// Detection passes, cert passes (0.5 < 0.81).
	rng = &scriptedRand{draws: []float64{0.1, 0.5}}
	if !SimulateOne(eligibleIndividual(), defn, rng, DefaultParams(), nil, nil) {
		t.Error("passed cert should be exempt")
	}
}

func TestSimulateOne_PartialExParteSplit(t *testing.T) {
	defn := strictDefinition()
	defn.ExParte = policy.ExPartePartial
	defn.RequiresPhysicianCert = true

	// Auto-detected half: split draw below 0.5, no cert draw.
	rng := &scriptedRand{draws: []float64{0.1, 0.4}}
	if !SimulateOne(eligibleIndividual(), defn, rng, DefaultParams(), nil, nil) {
		t.Error("auto-detected individual should be exempt without a cert draw")
	}
	if rng.calls != 2 {
		t.Errorf("auto-detected path consumed %d draws, want 2", rng.calls)
	}

	// Cert half: split draw at or above 0.5, cert draw decides.
	rng = &scriptedRand{draws: []float64{0.1, 0.6, 0.9}}
	if SimulateOne(eligibleIndividual(), defn, rng, DefaultParams(), nil, nil) {
		t.Error("cert-half individual with failed cert should not be exempt")
	}
	if rng.calls != 3 {
		t.Errorf("cert path consumed %d draws, want 3", rng.calls)
	}
}

func TestSimulateOne_NoCertMeansVisibleIsExempt(t *testing.T) {
	defn := strictDefinition()
	defn.ExParte = policy.ExParteFull

	rng := &scriptedRand{draws: []float64{0.2}}
	if !SimulateOne(eligibleIndividual(), defn, rng, DefaultParams(), nil, nil) {
		t.Error("visible individual with no cert requirement should be exempt")
	}
	if rng.calls != 1 {
		t.Errorf("no-cert path consumed %d draws, want 1", rng.calls)
	}
}

func TestSimulateOne_DetectionBonusesAndCeiling(t *testing.T) {
	p := DefaultParams()
	defn := strictDefinition()
	defn.ExParte = policy.ExParteFull // +0.12
	defn.UsesHIE = true               // +0.04
	defn.UsesMDSData = true           // +0.03
	defn.ClaimsLag = policy.ClaimsLagShort // +0.03

	// White: 0.72 + 0.22 = 0.94, under the 0.98 ceiling. A draw of 0.93
	// passes, 0.95 fails.
	rng := &scriptedRand{draws: []float64{0.93}}
	if !SimulateOne(eligibleIndividual(), defn, rng, p, nil, nil) {
		t.Error("draw below the bonused detection probability should pass")
	}
	rng = &scriptedRand{draws: []float64{0.95}}
	if SimulateOne(eligibleIndividual(), defn, rng, p, nil, nil) {
		t.Error("draw above the bonused detection probability should fail")
	}

	// With an override near the ceiling, bonuses cannot push past 0.98.
	override := Override{cohort.RaceWhite: 0.97}
	rng = &scriptedRand{draws: []float64{0.985}}
	if SimulateOne(eligibleIndividual(), defn, rng, p, override, nil) {
		t.Error("draw above the detection ceiling should fail")
	}
}

func TestSimulateOne_UnmappedRaceFallsBackToOther(t *testing.T) {
	p := DefaultParams()
	defn := strictDefinition()
	defn.ExParte = policy.ExParteFull

	ind := eligibleIndividual()
	ind.Race = cohort.RaceAIAN // not in the base table

	// "other" detect is 0.64, plus full ex parte 0.12 = 0.76.
	rng := &scriptedRand{draws: []float64{0.75}}
	if !SimulateOne(ind, defn, rng, p, nil, nil) {
		t.Error("unmapped race should use the other-category probability")
	}
	rng = &scriptedRand{draws: []float64{0.77}}
	if SimulateOne(ind, defn, rng, p, nil, nil) {
		t.Error("draw above the other-category probability should fail")
	}
}

func TestValidate_RejectsBadProbabilities(t *testing.T) {
	p := DefaultParams()
	p.Detect[cohort.RaceWhite] = 1.2
	if err := p.Validate(); err == nil {
		t.Error("probability above 1 should fail validation")
	}

	if err := ValidateOverride("detect_override", Override{cohort.RaceBlack: -0.1}); err == nil {
		t.Error("negative override probability should fail validation")
	}
}
