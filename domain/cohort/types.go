package cohort

import (
	"math"

	"github.com/sanjaybasu/medicaid-frailty-bias/domain/core"
)

// Race is a survey race/ethnicity category. Categories outside the
// parameterized set fall back to RaceOther's probability parameters during
// simulation; they are still reported under their own label.
type Race string

const (
	RaceWhite    Race = "white"
	RaceBlack    Race = "black"
	RaceHispanic Race = "hispanic"
	RaceAsian    Race = "asian"
	RaceAIAN     Race = "aian"
	RaceNHPI     Race = "nhpi"
	RaceOther    Race = "other"
)

// Individual is one ACS-style survey respondent: a race/ethnicity label, a
// population weight, and binary disability-domain indicators. Immutable input
// data; the simulator never mutates it.
type Individual struct {
	State  core.StateCode `json:"state,omitempty"`
	Race   Race           `json:"race_eth"`
	Weight float64        `json:"weight"`

	Ambulatory        bool `json:"ambulatory"`         // ACS DPHY
	Cognitive         bool `json:"cognitive"`          // ACS DREM
	SelfCare          bool `json:"self_care"`          // ACS DDRS
	IndependentLiving bool `json:"independent_living"` // ACS DOUT
	Hearing           bool `json:"hearing"`            // ACS DEAR
	Vision            bool `json:"vision"`             // ACS DEYE
	AnyDisability     bool `json:"any_disability"`     // ACS DIS
}

// EffectiveWeight returns the population weight with missing or out-of-range
// values normalized to 1.0. A zero, negative, NaN, or infinite weight would
// silently drop the individual from weighted aggregates, which is worse than
// counting them once.
func (ind Individual) EffectiveWeight() float64 {
	w := ind.Weight
	if w <= 0 || math.IsNaN(w) || math.IsInf(w, 0) {
		return 1.0
	}
	return w
}

// ADLCount sums the ADL-proximate disability indicators. Exactly these four
// domains feed the threshold check: ambulatory, self-care, independent
// living, and cognitive.
func (ind Individual) ADLCount() int {
	n := 0
	if ind.Ambulatory {
		n++
	}
	if ind.SelfCare {
		n++
	}
	if ind.IndependentLiving {
		n++
	}
	if ind.Cognitive {
		n++
	}
	return n
}

// Cohort is an immutable collection of individuals.
type Cohort []Individual

// ByRace partitions the cohort into race groups, preserving input order
// within each group.
func (c Cohort) ByRace() map[Race][]Individual {
	groups := make(map[Race][]Individual)
	for _, ind := range c {
		groups[ind.Race] = append(groups[ind.Race], ind)
	}
	return groups
}

// Races returns the distinct race labels present, unordered.
func (c Cohort) Races() []Race {
	seen := make(map[Race]struct{})
	var out []Race
	for _, ind := range c {
		if _, ok := seen[ind.Race]; !ok {
			seen[ind.Race] = struct{}{}
			out = append(out, ind.Race)
		}
	}
	return out
}

// Subset returns only individuals whose race is in the given set.
func (c Cohort) Subset(races ...Race) Cohort {
	want := make(map[Race]struct{}, len(races))
	for _, r := range races {
		want[r] = struct{}{}
	}
	var out Cohort
	for _, ind := range c {
		if _, ok := want[ind.Race]; ok {
			out = append(out, ind)
		}
	}
	return out
}

// AnyDisabilityPct is the unweighted share of the cohort reporting any
// disability, in percent. Used as the true-prevalence baseline for the
// under-identification decomposition.
func (c Cohort) AnyDisabilityPct() float64 {
	if len(c) == 0 {
		return 0
	}
	n := 0
	for _, ind := range c {
		if ind.AnyDisability {
			n++
		}
	}
	return float64(n) / float64(len(c)) * 100
}
