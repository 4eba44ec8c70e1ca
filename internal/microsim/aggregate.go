package microsim

import (
	"math/rand"
	"sort"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/sanjaybasu/medicaid-frailty-bias/domain/cohort"
	"github.com/sanjaybasu/medicaid-frailty-bias/domain/core"
	"github.com/sanjaybasu/medicaid-frailty-bias/domain/policy"
)

// AggregateResult is one (state, race) row of a Monte Carlo run. The
// confidence interval is over simulation randomness, not sampling
// uncertainty. Regenerated on every run, never mutated in place.
type AggregateResult struct {
	State                 core.StateCode `json:"state" db:"state"`
	Race                  cohort.Race    `json:"race_eth" db:"race_eth"`
	N                     int            `json:"n_individuals" db:"n_individuals"`
	ClinicallyEligiblePct float64        `json:"clinically_eligible_pct" db:"clinically_eligible_pct"`
	SimulatedExemptPct    float64        `json:"simulated_exempt_pct" db:"simulated_exempt_pct"`
	CILower               float64        `json:"simulated_exempt_ci_lower" db:"simulated_exempt_ci_lower"`
	CIUpper               float64        `json:"simulated_exempt_ci_upper" db:"simulated_exempt_ci_upper"`
	StringencyScore       float64        `json:"stringency_score" db:"stringency_score"`
}

// Options configures one Monte Carlo aggregation pass.
type Options struct {
	NSim          int   // draws per individual
	SamplePerRace int   // max individuals per race group
	Seed          int64 // root seed; all streams derive from it
}

func (o Options) withDefaults() Options {
	if o.NSim <= 0 {
		o.NSim = 500
	}
	if o.SamplePerRace <= 0 {
		o.SamplePerRace = 5000
	}
	return o
}

// Run executes the Monte Carlo for one state algorithm over a cohort,
// returning one row per race group present, sorted by race.
//
// Per race group: a deterministic subsample of up to SamplePerRace
// individuals; clinical eligibility tested once per individual (it is
// deterministic), with ineligible individuals contributing all-false draws
// and no random consumption; per-draw population-weighted exempt fractions;
// mean and 2.5/97.5 percentiles across draws.
//
// Race groups run in parallel. Each group's sampling and simulation streams
// are seeded from (Seed, state, race), so identical inputs and seed
// reproduce identical output regardless of scheduling.
func Run(c cohort.Cohort, defn policy.Definition, opts Options, p Params,
	detectOverride, certOverride Override) ([]AggregateResult, error) {

	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateOverride("detect_override", detectOverride); err != nil {
		return nil, err
	}
	if err := ValidateOverride("cert_override", certOverride); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	groups := c.ByRace()
	races := make([]cohort.Race, 0, len(groups))
	for race := range groups {
		races = append(races, race)
	}
	sort.Slice(races, func(i, j int) bool { return races[i] < races[j] })

	stringency := policy.Stringency(defn)
	results := make([]AggregateResult, len(races))

	var g errgroup.Group
	for i, race := range races {
		g.Go(func() error {
			sample := sampleGroup(groups[race], opts.SamplePerRace,
				core.DeriveSeed(opts.Seed, defn.StateCode.String(), string(race), "sample"))

			row, err := simulateGroup(sample, defn, opts,
				core.DeriveSeed(opts.Seed, defn.StateCode.String(), string(race), "sim"),
				p, detectOverride, certOverride)
			if err != nil {
				return err
			}
			row.State = defn.StateCode
			row.Race = race
			row.StringencyScore = stringency
			results[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// sampleGroup deterministically subsamples a race group: a seeded shuffle of
// indices, first n taken. Groups at or under the cap pass through unchanged.
func sampleGroup(group []cohort.Individual, n int, seed int64) []cohort.Individual {
	if len(group) <= n {
		return group
	}
	rng := rand.New(rand.NewSource(seed))
	idx := rng.Perm(len(group))
	sample := make([]cohort.Individual, n)
	for i := 0; i < n; i++ {
		sample[i] = group[idx[i]]
	}
	return sample
}

func simulateGroup(sample []cohort.Individual, defn policy.Definition,
	opts Options, seed int64, p Params,
	detectOverride, certOverride Override) (AggregateResult, error) {

	rng := rand.New(rand.NewSource(seed))

	weights := make([]float64, len(sample))
	// draws[j][i] is 1 when individual i is exempt in simulation j.
	draws := make([][]float64, opts.NSim)
	for j := range draws {
		draws[j] = make([]float64, len(sample))
	}

	eligible := 0
	for i, ind := range sample {
		weights[i] = ind.EffectiveWeight()
		// Eligibility is deterministic; skip the whole draw loop so
		// ineligible individuals consume no randomness.
		if !IsClinicallyEligible(ind, defn) {
			continue
		}
		eligible++
		for j := 0; j < opts.NSim; j++ {
			if SimulateOne(ind, defn, rng, p, detectOverride, certOverride) {
				draws[j][i] = 1
			}
		}
	}

	// Population-weighted exempt fraction per simulation draw.
	fractions := make([]float64, opts.NSim)
	for j := range draws {
		fractions[j] = stat.Mean(draws[j], weights)
	}

	mean, err := stats.Mean(fractions)
	if err != nil {
		return AggregateResult{}, err
	}
	lower, err := stats.Percentile(fractions, 2.5)
	if err != nil {
		return AggregateResult{}, err
	}
	upper, err := stats.Percentile(fractions, 97.5)
	if err != nil {
		return AggregateResult{}, err
	}

	eligiblePct := 0.0
	if len(sample) > 0 {
		eligiblePct = float64(eligible) / float64(len(sample)) * 100
	}

	return AggregateResult{
		N:                     len(sample),
		ClinicallyEligiblePct: eligiblePct,
		SimulatedExemptPct:    mean * 100,
		CILower:               lower * 100,
		CIUpper:               upper * 100,
	}, nil
}

// GapPP returns the white minus black simulated exemption gap in percentage
// points from a result set, and whether both groups were present.
func GapPP(results []AggregateResult) (float64, bool) {
	var white, black *AggregateResult
	for i := range results {
		switch results[i].Race {
		case cohort.RaceWhite:
			white = &results[i]
		case cohort.RaceBlack:
			black = &results[i]
		}
	}
	if white == nil || black == nil {
		return 0, false
	}
	return white.SimulatedExemptPct - black.SimulatedExemptPct, true
}

// MeanExemptPct averages the simulated exemption rate across race groups
// (unweighted), the overall-sensitivity measure used by the improved
// algorithm comparison.
func MeanExemptPct(results []AggregateResult) float64 {
	if len(results) == 0 {
		return 0
	}
	vals := make([]float64, len(results))
	for i, r := range results {
		vals[i] = r.SimulatedExemptPct
	}
	return stat.Mean(vals, nil)
}

// MeanEligiblePct averages the clinical eligibility rate across race groups.
func MeanEligiblePct(results []AggregateResult) float64 {
	if len(results) == 0 {
		return 0
	}
	vals := make([]float64, len(results))
	for i, r := range results {
		vals[i] = r.ClinicallyEligiblePct
	}
	return stat.Mean(vals, nil)
}
