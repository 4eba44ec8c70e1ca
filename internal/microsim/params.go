package microsim

import (
	"github.com/sanjaybasu/medicaid-frailty-bias/domain/cohort"
	"github.com/sanjaybasu/medicaid-frailty-bias/domain/policy"
	"github.com/sanjaybasu/medicaid-frailty-bias/internal/errors"
)

// Override substitutes a per-race probability table for one simulation pass.
// A nil Override leaves the base table in effect.
type Override map[cohort.Race]float64

// Fallback probabilities when neither the active table nor its "other" entry
// covers a race category.
const (
	fallbackDetect = 0.64
	fallbackCert   = 0.70
)

// Params carries every probability the simulator consumes. Always passed
// explicitly; there is no ambient parameter state, so tests and
// decomposition passes can substitute overrides without leakage.
type Params struct {
	// Base claims detection probability given a qualifying condition exists.
	// Source: AHRQ NHQDR 2023, diagnosis documentation completeness by race.
	Detect map[cohort.Race]float64

	// Physician certification success probability where cert is required.
	// Source: Sommers et al. NEJM 2019 (AR); MACPAC primary care access 2023.
	Cert map[cohort.Race]float64

	// Additive detection bonus by ex parte determination mode.
	ExParteBonus map[policy.ExParteMode]float64

	// Additive detection bonuses for data-integration features.
	HIEBonus      float64
	MDSBonus      float64
	ShortLagBonus float64

	// Detection probability is capped here; one of the two documented clamps.
	DetectCeiling float64

	// Uncertainty ranges (±1 SD) for sensitivity analysis.
	DetectSD float64
	CertSD   float64
}

// DefaultParams returns the literature-derived simulation parameters.
func DefaultParams() Params {
	return Params{
		Detect: map[cohort.Race]float64{
			cohort.RaceWhite:    0.72, // 72% of eligible conditions appear in claims
			cohort.RaceBlack:    0.58, // ~20% relative underdetection vs. white
			cohort.RaceHispanic: 0.61,
			cohort.RaceAsian:    0.69,
			cohort.RaceOther:    0.64,
		},
		Cert: map[cohort.Race]float64{
			cohort.RaceWhite:    0.81,
			cohort.RaceBlack:    0.64, // ~21% relative gap
			cohort.RaceHispanic: 0.67,
			cohort.RaceAsian:    0.76,
			cohort.RaceOther:    0.70,
		},
		ExParteBonus: map[policy.ExParteMode]float64{
			policy.ExParteFull:    0.12, // fully passive detection: +12pp
			policy.ExPartePartial: 0.06,
			policy.ExParteActive:  0.00,
		},
		HIEBonus:      0.04,
		MDSBonus:      0.03,
		ShortLagBonus: 0.03,
		DetectCeiling: 0.98,
		DetectSD:      0.06,
		CertSD:        0.05,
	}
}

// Validate rejects any probability outside [0, 1]. A bad probability is a
// configuration bug and must surface before any draws are made, never be
// clamped mid-simulation.
func (p Params) Validate() error {
	for race, v := range p.Detect {
		if v < 0 || v > 1 {
			return errors.InvalidProbability("detect", string(race), v)
		}
	}
	for race, v := range p.Cert {
		if v < 0 || v > 1 {
			return errors.InvalidProbability("cert", string(race), v)
		}
	}
	for mode, v := range p.ExParteBonus {
		if v < 0 || v > 1 {
			return errors.InvalidProbability("ex_parte_bonus", string(mode), v)
		}
	}
	if p.DetectCeiling <= 0 || p.DetectCeiling > 1 {
		return errors.InvalidProbability("detect", "ceiling", p.DetectCeiling)
	}
	return nil
}

// ValidateOverride checks an override table the same way.
func ValidateOverride(table string, o Override) error {
	for race, v := range o {
		if v < 0 || v > 1 {
			return errors.InvalidProbability(table, string(race), v)
		}
	}
	return nil
}

// detectBase resolves the base detection probability for a race, preferring
// the override table when present, then the table's "other" entry for
// unmapped races. The fallback to "other" mirrors real operational handling
// of unmapped categories.
func (p Params) detectBase(race cohort.Race, override Override) float64 {
	table := p.Detect
	if override != nil {
		table = map[cohort.Race]float64(override)
	}
	if v, ok := table[race]; ok {
		return v
	}
	if v, ok := table[cohort.RaceOther]; ok {
		return v
	}
	return fallbackDetect
}

// certProb resolves the certification success probability for a race, with
// the same override and fallback behavior as detectBase.
func (p Params) certProb(race cohort.Race, override Override) float64 {
	table := p.Cert
	if override != nil {
		table = map[cohort.Race]float64(override)
	}
	if v, ok := table[race]; ok {
		return v
	}
	if v, ok := table[cohort.RaceOther]; ok {
		return v
	}
	return fallbackCert
}

// EqualizedDetect returns an override setting every race's detection
// probability to the reference (white) rate, nullifying the visibility
// channel.
func (p Params) EqualizedDetect() Override {
	ref := p.Detect[cohort.RaceWhite]
	o := make(Override, len(p.Detect))
	for race := range p.Detect {
		o[race] = ref
	}
	return o
}

// EqualizedCert returns an override setting every race's certification
// probability to the reference (white) rate, nullifying the documentation
// channel.
func (p Params) EqualizedCert() Override {
	ref := p.Cert[cohort.RaceWhite]
	o := make(Override, len(p.Cert))
	for race := range p.Cert {
		o[race] = ref
	}
	return o
}

// DetectTable flattens the detect map to string keys for provenance records.
func (p Params) DetectTable() map[string]float64 {
	out := make(map[string]float64, len(p.Detect))
	for race, v := range p.Detect {
		out[string(race)] = v
	}
	return out
}

// CertTable flattens the cert map to string keys for provenance records.
func (p Params) CertTable() map[string]float64 {
	out := make(map[string]float64, len(p.Cert))
	for race, v := range p.Cert {
		out[string(race)] = v
	}
	return out
}
