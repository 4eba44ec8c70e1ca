package improved

import (
	"sort"

	"github.com/sanjaybasu/medicaid-frailty-bias/domain/core"
)

// DisenrollRate is the benchmark share of non-exempt enrollees who lose
// coverage under a work requirement, from the Arkansas 2018-2019 experience
// (Sommers et al. NEJM 2019).
const DisenrollRate = 0.067

// CoverageImpact projects the population-level effect of one state adopting
// the improved rule.
type CoverageImpact struct {
	State                  core.StateCode `json:"state" db:"state"`
	ExpansionPop           int            `json:"expansion_pop" db:"expansion_pop"`
	SQIdentified           int            `json:"sq_identified" db:"sq_identified"`
	ImpIdentified          int            `json:"imp_identified" db:"imp_identified"`
	AdditionalIdentified   int            `json:"additional_identified" db:"additional_identified"`
	CoverageLossesAverted  int            `json:"coverage_losses_averted" db:"coverage_losses_averted"`
	SensitivityGainPP      float64        `json:"sensitivity_gain_pp" db:"sensitivity_gain_pp"`
	GapReductionPP         float64        `json:"gap_reduction_pp" db:"gap_reduction_pp"`
}

// ProjectCoverage scales per-state sensitivity gains to expansion-population
// headcounts. States missing from the population map project as zero rather
// than erroring; the comparison rows still carry their rate results. Output
// is sorted by additional identified, descending.
func ProjectCoverage(comparisons []Comparison, populations map[core.StateCode]float64) []CoverageImpact {
	out := make([]CoverageImpact, 0, len(comparisons))
	for _, cmp := range comparisons {
		pop := populations[cmp.State]
		sqIdentified := pop * cmp.SQOverallSensitivity / 100
		impIdentified := pop * cmp.ImpOverallSensitivity / 100
		additional := impIdentified - sqIdentified

		out = append(out, CoverageImpact{
			State:                 cmp.State,
			ExpansionPop:          int(pop),
			SQIdentified:          int(sqIdentified),
			ImpIdentified:         int(impIdentified),
			AdditionalIdentified:  int(additional),
			CoverageLossesAverted: int(additional * DisenrollRate),
			SensitivityGainPP:     cmp.SensitivityGainPP,
			GapReductionPP:        cmp.GapReductionPP,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].AdditionalIdentified > out[j].AdditionalIdentified
	})
	return out
}
