package decompose

import (
	"math"

	"github.com/sanjaybasu/medicaid-frailty-bias/domain/cohort"
	"github.com/sanjaybasu/medicaid-frailty-bias/domain/core"
	"github.com/sanjaybasu/medicaid-frailty-bias/domain/policy"
	apperrors "github.com/sanjaybasu/medicaid-frailty-bias/internal/errors"
	"github.com/sanjaybasu/medicaid-frailty-bias/internal/microsim"
)

// CounterfactualResult compares a state's Black-White gap under its own
// rule against the gap under a reference state's rule applied to the same
// population. ReducibleGapPP is the policy-modifiable portion.
type CounterfactualResult struct {
	State                core.StateCode `json:"state" db:"state"`
	ActualGapPP          float64        `json:"actual_gap_pp" db:"actual_gap_pp"`
	CounterfactualGapPP  float64        `json:"counterfactual_gap_pp" db:"counterfactual_gap_pp"`
	ReducibleGapPP       float64        `json:"reducible_gap_pp" db:"reducible_gap_pp"`
	PctGapReducible      float64        `json:"pct_gap_reducible" db:"pct_gap_reducible"`
	ReferenceState       core.StateCode `json:"reference_state" db:"reference_state"`
}

// Counterfactual measures how much of a state's gap would close if it adopted
// the reference rule. Stochastic parameters stay fixed; only the policy
// definition is swapped, so the delta isolates rule design from data
// infrastructure differences encoded in the definitions themselves.
func Counterfactual(c cohort.Cohort, defn, reference policy.Definition, opts Options, p microsim.Params) (CounterfactualResult, error) {
	opts = opts.withDefaults()

	actual, err := microsim.Run(c, defn, opts.microsim(), p, nil, nil)
	if err != nil {
		return CounterfactualResult{}, err
	}
	cf, err := microsim.Run(c, reference, opts.microsim(), p, nil, nil)
	if err != nil {
		return CounterfactualResult{}, err
	}

	actualGap, ok1 := microsim.GapPP(actual)
	cfGap, ok2 := microsim.GapPP(cf)
	if !ok1 || !ok2 {
		return CounterfactualResult{}, apperrors.InvalidCohort("cohort lacks both white and black groups")
	}

	res := CounterfactualResult{
		State:               defn.StateCode,
		ActualGapPP:         round2(actualGap),
		CounterfactualGapPP: round2(cfGap),
		ReducibleGapPP:      round2(actualGap - cfGap),
		ReferenceState:      reference.StateCode,
	}
	if actualGap > 0 {
		res.PctGapReducible = round1((actualGap - cfGap) / actualGap * 100)
	} else {
		res.PctGapReducible = math.NaN()
	}
	return res, nil
}
