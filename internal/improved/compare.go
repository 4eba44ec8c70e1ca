package improved

import (
	"math"

	"github.com/sanjaybasu/medicaid-frailty-bias/domain/cohort"
	"github.com/sanjaybasu/medicaid-frailty-bias/domain/core"
	"github.com/sanjaybasu/medicaid-frailty-bias/domain/policy"
	"github.com/sanjaybasu/medicaid-frailty-bias/internal/microsim"
)

// Comparison is the head-to-head result for one state: the status-quo rule
// versus the improved rule on the same population and seed. "Sensitivity" is
// the share of the cohort the algorithm identifies as exempt. Gap fields are
// NaN when a race group is missing.
type Comparison struct {
	State                 core.StateCode `json:"state" db:"state"`
	StringencyScore       float64        `json:"stringency_score" db:"stringency_score"`
	SQOverallSensitivity  float64        `json:"sq_overall_sensitivity" db:"sq_overall_sensitivity"`
	ImpOverallSensitivity float64        `json:"imp_overall_sensitivity" db:"imp_overall_sensitivity"`
	SensitivityGainPP     float64        `json:"sensitivity_gain_pp" db:"sensitivity_gain_pp"`
	SQClinicalEligiblePct float64        `json:"sq_clinical_eligible_pct" db:"sq_clinical_eligible_pct"`
	ImpClinicalEligiblePct float64       `json:"imp_clinical_eligible_pct" db:"imp_clinical_eligible_pct"`
	SQGapPP               float64        `json:"sq_bw_gap_pp" db:"sq_bw_gap_pp"`
	ImpGapPP              float64        `json:"imp_bw_gap_pp" db:"imp_bw_gap_pp"`
	GapReductionPP        float64        `json:"gap_reduction_pp" db:"gap_reduction_pp"`
	GapReductionPct       float64        `json:"gap_reduction_pct" db:"gap_reduction_pct"`
	SQBlackSensitivity    float64        `json:"sq_black_sensitivity" db:"sq_black_sensitivity"`
	SQWhiteSensitivity    float64        `json:"sq_white_sensitivity" db:"sq_white_sensitivity"`
	ImpBlackSensitivity   float64        `json:"imp_black_sensitivity" db:"imp_black_sensitivity"`
	ImpWhiteSensitivity   float64        `json:"imp_white_sensitivity" db:"imp_white_sensitivity"`
	BlackSensitivityGain  float64        `json:"black_sensitivity_gain" db:"black_sensitivity_gain"`
	WhiteSensitivityGain  float64        `json:"white_sensitivity_gain" db:"white_sensitivity_gain"`
}

// Options for comparison runs.
type Options struct {
	NSim          int
	SamplePerRace int
	Seed          int64
}

func (o Options) withDefaults() Options {
	if o.NSim <= 0 {
		o.NSim = 300
	}
	if o.SamplePerRace <= 0 {
		o.SamplePerRace = 3000
	}
	return o
}

func (o Options) microsim() microsim.Options {
	return microsim.Options{NSim: o.NSim, SamplePerRace: o.SamplePerRace, Seed: o.Seed}
}

// Compare runs both rules on the cohort and tabulates the deltas. The
// status-quo pass uses the base probability tables; the improved pass swaps
// in the gap-closure detection override, with certification irrelevant since
// the improved rule drops the requirement.
func Compare(c cohort.Cohort, defn policy.Definition, opts Options, p microsim.Params) (Comparison, error) {
	opts = opts.withDefaults()

	sq, err := microsim.Run(c, defn, opts.microsim(), p, nil, nil)
	if err != nil {
		return Comparison{}, err
	}
	imp, err := microsim.Run(c, Synthesize(defn), opts.microsim(), p, ImprovedDetection(p.Detect), nil)
	if err != nil {
		return Comparison{}, err
	}

	cmp := Comparison{
		State:                  defn.StateCode,
		StringencyScore:        policy.Stringency(defn),
		SQOverallSensitivity:   round2(microsim.MeanExemptPct(sq)),
		ImpOverallSensitivity:  round2(microsim.MeanExemptPct(imp)),
		SQClinicalEligiblePct:  round2(microsim.MeanEligiblePct(sq)),
		ImpClinicalEligiblePct: round2(microsim.MeanEligiblePct(imp)),
		SQGapPP:                math.NaN(),
		ImpGapPP:               math.NaN(),
		GapReductionPP:         math.NaN(),
		GapReductionPct:        math.NaN(),
		SQBlackSensitivity:     math.NaN(),
		SQWhiteSensitivity:     math.NaN(),
		ImpBlackSensitivity:    math.NaN(),
		ImpWhiteSensitivity:    math.NaN(),
		BlackSensitivityGain:   math.NaN(),
		WhiteSensitivityGain:   math.NaN(),
	}
	cmp.SensitivityGainPP = round2(cmp.ImpOverallSensitivity - cmp.SQOverallSensitivity)

	sqBlack, sqWhite := raceSensitivity(sq)
	impBlack, impWhite := raceSensitivity(imp)
	if !math.IsNaN(sqBlack) {
		cmp.SQBlackSensitivity = round2(sqBlack)
	}
	if !math.IsNaN(sqWhite) {
		cmp.SQWhiteSensitivity = round2(sqWhite)
	}
	if !math.IsNaN(impBlack) {
		cmp.ImpBlackSensitivity = round2(impBlack)
	}
	if !math.IsNaN(impWhite) {
		cmp.ImpWhiteSensitivity = round2(impWhite)
	}
	if !math.IsNaN(sqBlack) && !math.IsNaN(impBlack) {
		cmp.BlackSensitivityGain = round2(impBlack - sqBlack)
	}
	if !math.IsNaN(sqWhite) && !math.IsNaN(impWhite) {
		cmp.WhiteSensitivityGain = round2(impWhite - sqWhite)
	}

	if sqGap, ok := microsim.GapPP(sq); ok {
		cmp.SQGapPP = round2(sqGap)
		if impGap, ok := microsim.GapPP(imp); ok {
			cmp.ImpGapPP = round2(impGap)
			cmp.GapReductionPP = round2(sqGap - impGap)
			if sqGap > 0 {
				cmp.GapReductionPct = round1((sqGap - impGap) / sqGap * 100)
			}
		}
	}

	return cmp, nil
}

func raceSensitivity(results []microsim.AggregateResult) (black, white float64) {
	black, white = math.NaN(), math.NaN()
	for _, r := range results {
		switch r.Race {
		case cohort.RaceBlack:
			black = r.SimulatedExemptPct
		case cohort.RaceWhite:
			white = r.SimulatedExemptPct
		}
	}
	return black, white
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
