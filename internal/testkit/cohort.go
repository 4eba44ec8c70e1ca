// Package testkit generates synthetic ACS-structured cohorts for tests and
// for demonstration runs when no survey extract is available. Rates are
// calibrated to published ACS tabulations (KFF/BRFSS), not drawn from real
// microdata.
package testkit

import (
	"math/rand"

	"github.com/sanjaybasu/medicaid-frailty-bias/domain/cohort"
	"github.com/sanjaybasu/medicaid-frailty-bias/domain/core"
)

// rates holds per-domain disability prevalence for one race group.
type rates struct {
	any, ambulatory, cognitive, selfCare, independentLiving, hearing, vision float64
}

var disabilityRates = map[cohort.Race]rates{
	cohort.RaceWhite:    {any: 0.28, ambulatory: 0.18, cognitive: 0.12, selfCare: 0.08, independentLiving: 0.10, hearing: 0.06, vision: 0.05},
	cohort.RaceBlack:    {any: 0.34, ambulatory: 0.22, cognitive: 0.15, selfCare: 0.11, independentLiving: 0.13, hearing: 0.07, vision: 0.06},
	cohort.RaceHispanic: {any: 0.25, ambulatory: 0.16, cognitive: 0.11, selfCare: 0.07, independentLiving: 0.09, hearing: 0.05, vision: 0.04},
	cohort.RaceOther:    {any: 0.26, ambulatory: 0.17, cognitive: 0.12, selfCare: 0.08, independentLiving: 0.10, hearing: 0.06, vision: 0.05},
}

// raceDist is sampled cumulatively in this order.
var raceDist = []struct {
	race cohort.Race
	p    float64
}{
	{cohort.RaceWhite, 0.40},
	{cohort.RaceBlack, 0.25},
	{cohort.RaceHispanic, 0.25},
	{cohort.RaceOther, 0.10},
}

var syntheticStates = []core.StateCode{"GA", "AR", "IN", "NC", "CA", "NY"}

// SyntheticCohort generates n individuals with the given seed. Identical
// inputs produce identical cohorts.
func SyntheticCohort(n int, seed int64) cohort.Cohort {
	rng := rand.New(rand.NewSource(seed))
	c := make(cohort.Cohort, 0, n)
	for i := 0; i < n; i++ {
		race := sampleRace(rng)
		r := disabilityRates[race]
		c = append(c, cohort.Individual{
			State:             syntheticStates[rng.Intn(len(syntheticStates))],
			Race:              race,
			Weight:            float64(100 + rng.Intn(2900)),
			Ambulatory:        rng.Float64() < r.ambulatory,
			Cognitive:         rng.Float64() < r.cognitive,
			SelfCare:          rng.Float64() < r.selfCare,
			IndependentLiving: rng.Float64() < r.independentLiving,
			Hearing:           rng.Float64() < r.hearing,
			Vision:            rng.Float64() < r.vision,
			AnyDisability:     rng.Float64() < r.any,
		})
	}
	return c
}

func sampleRace(rng *rand.Rand) cohort.Race {
	u := rng.Float64()
	cum := 0.0
	for _, d := range raceDist {
		cum += d.p
		if u < cum {
			return d.race
		}
	}
	return raceDist[len(raceDist)-1].race
}

// BalancedCohort generates a two-group cohort of equal white and black
// halves with unit weights, useful when a test needs exact group sizes
// rather than realistic composition.
func BalancedCohort(perGroup int, seed int64) cohort.Cohort {
	rng := rand.New(rand.NewSource(seed))
	c := make(cohort.Cohort, 0, 2*perGroup)
	for _, race := range []cohort.Race{cohort.RaceWhite, cohort.RaceBlack} {
		r := disabilityRates[race]
		for i := 0; i < perGroup; i++ {
			c = append(c, cohort.Individual{
				Race:              race,
				Weight:            1,
				Ambulatory:        rng.Float64() < r.ambulatory,
				Cognitive:         rng.Float64() < r.cognitive,
				SelfCare:          rng.Float64() < r.selfCare,
				IndependentLiving: rng.Float64() < r.independentLiving,
				Hearing:           rng.Float64() < r.hearing,
				Vision:            rng.Float64() < r.vision,
				AnyDisability:     rng.Float64() < r.any,
			})
		}
	}
	return c
}
