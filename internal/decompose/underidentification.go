package decompose

import (
	"math"

	"github.com/sanjaybasu/medicaid-frailty-bias/domain/cohort"
	"github.com/sanjaybasu/medicaid-frailty-bias/domain/core"
	"github.com/sanjaybasu/medicaid-frailty-bias/domain/policy"
	"github.com/sanjaybasu/medicaid-frailty-bias/internal/microsim"
)

// UnderidentificationResult decomposes the gap between true disability
// prevalence and algorithm-identified prevalence for all Black and White
// enrollees combined, not the between-race gap. Channel contributions are a
// stepwise approximation: each step adopts one more piece of the improved
// rule, and interaction effects land in whichever step activates them first.
type UnderidentificationResult struct {
	State                      core.StateCode `json:"state" db:"state"`
	TrueDisabilityPct          float64        `json:"true_disability_pct" db:"true_disability_pct"`
	StatusQuoIdentifiedPct     float64        `json:"sq_identified_pct" db:"sq_identified_pct"`
	TotalUnderidentificationPP float64        `json:"total_underidentification_pp" db:"total_underidentification_pp"`
	DesignChannelPP            float64        `json:"design_channel_pp" db:"design_channel_pp"`
	VisibilityChannelPP        float64        `json:"visibility_channel_pp" db:"visibility_channel_pp"`
	DocumentationChannelPP     float64        `json:"documentation_channel_pp" db:"documentation_channel_pp"`
	ImprovedIdentifiedPct      float64        `json:"improved_identified_pct" db:"improved_identified_pct"`
	ResidualUnderidPP          float64        `json:"residual_underid_pp" db:"residual_underid_pp"`
}

// DecomposeUnderidentification measures how much of the shortfall between
// true prevalence and identified prevalence each improvement step recovers.
// The caller supplies the fully improved definition and the gap-closure
// detection override that goes with it:
//
//	step 1 (design): improved condition list and ADL threshold, status-quo
//	  detection probabilities, certification requirement kept
//	step 2 (visibility): also switch to the improved detection probabilities
//	step 3 (documentation): also drop the certification requirement
//
// Channels are clamped at zero since a step can only recover identification,
// never worsen it, and Monte Carlo noise can produce small negative deltas.
func DecomposeUnderidentification(c cohort.Cohort, defn, improved policy.Definition, improvedDetect microsim.Override, opts Options, p microsim.Params) (UnderidentificationResult, error) {
	opts = opts.withDefaults()

	bw := c.Subset(cohort.RaceWhite, cohort.RaceBlack)
	trueDis := bw.AnyDisabilityPct()

	mean := func(d policy.Definition, detect microsim.Override) (float64, error) {
		results, err := microsim.Run(bw, d, opts.microsim(), p, detect, nil)
		if err != nil {
			return 0, err
		}
		return microsim.MeanExemptPct(results), nil
	}

	sqExempt, err := mean(defn, nil)
	if err != nil {
		return UnderidentificationResult{}, err
	}

	designDefn := improved.Clone()
	designDefn.RequiresPhysicianCert = defn.RequiresPhysicianCert
	designExempt, err := mean(designDefn, nil)
	if err != nil {
		return UnderidentificationResult{}, err
	}

	detectExempt, err := mean(designDefn, improvedDetect)
	if err != nil {
		return UnderidentificationResult{}, err
	}

	improvedExempt, err := mean(improved, improvedDetect)
	if err != nil {
		return UnderidentificationResult{}, err
	}

	totalUnderid := trueDis - sqExempt
	design := designExempt - sqExempt
	visibility := detectExempt - designExempt
	doc := improvedExempt - detectExempt

	return UnderidentificationResult{
		State:                      defn.StateCode,
		TrueDisabilityPct:          round2(trueDis),
		StatusQuoIdentifiedPct:     round2(sqExempt),
		TotalUnderidentificationPP: round2(totalUnderid),
		DesignChannelPP:            round2(math.Max(0, design)),
		VisibilityChannelPP:        round2(math.Max(0, visibility)),
		DocumentationChannelPP:     round2(math.Max(0, doc)),
		ImprovedIdentifiedPct:      round2(improvedExempt),
		ResidualUnderidPP:          round2(math.Max(0, trueDis-improvedExempt)),
	}, nil
}
