package microsim

import (
	"math"

	"github.com/sanjaybasu/medicaid-frailty-bias/domain/cohort"
	"github.com/sanjaybasu/medicaid-frailty-bias/domain/policy"
)

// Rand is the minimal source of uniform draws the simulator consumes. It is
// satisfied by *math/rand.Rand; tests substitute counting or scripted
// implementations.
type Rand interface {
	Float64() float64
}

// SimulateOne performs a single Monte Carlo draw: the exemption decision for
// one individual under one state's algorithm.
//
// The decision is a three-stage pipeline:
//
//	NOT_ELIGIBLE -> false                       (deterministic, no draws)
//	ELIGIBLE -> CLAIMS_CHECK -> NOT_VISIBLE -> false
//	                         -> VISIBLE -> DOC_CHECK -> CERT_FAILED -> false
//	                                                 -> EXEMPT -> true
//
// The detection draw always precedes any certification draw; the gap
// decomposition depends on which draws are spent in which branch, so the
// ordering and the PARTIAL 50/50 split must not change.
func SimulateOne(ind cohort.Individual, defn policy.Definition, rng Rand,
	p Params, detectOverride, certOverride Override) bool {

	// Stage 1: clinical eligibility, deterministic from survey data. An
	// ineligible individual consumes no randomness.
	if !IsClinicallyEligible(ind, defn) {
		return false
	}

	// Stage 2: claims visibility. Ex parte integration, HIE, MDS, and a
	// short claims lag each raise the detection probability.
	pDetect := p.detectBase(ind.Race, detectOverride) + p.ExParteBonus[defn.ExParte]
	if defn.UsesHIE {
		pDetect += p.HIEBonus
	}
	if defn.UsesMDSData {
		pDetect += p.MDSBonus
	}
	if defn.ClaimsLag == policy.ClaimsLagShort {
		pDetect += p.ShortLagBonus
	}
	pDetect = math.Min(pDetect, p.DetectCeiling)

	if rng.Float64() >= pDetect {
		return false
	}

	// Stage 3: documentation barrier.
	switch {
	case defn.RequiresPhysicianCert && defn.ExParte == policy.ExParteActive:
		return rng.Float64() < p.certProb(ind.Race, certOverride)
	case defn.RequiresPhysicianCert && defn.ExParte == policy.ExPartePartial:
		// Partial ex parte: cert needed only if auto-detection fails;
		// modeled as 50% auto-detected, 50% requiring cert.
		if rng.Float64() < 0.5 {
			return true
		}
		return rng.Float64() < p.certProb(ind.Race, certOverride)
	default:
		// Full ex parte or no cert required: visible means exempt.
		return true
	}
}
