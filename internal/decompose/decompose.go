// Package decompose attributes racial exemption gaps to mechanism channels
// by selectively equalizing mechanism-specific parameters across race groups
// and re-measuring the gap.
package decompose

import (
	"math"

	"github.com/sanjaybasu/medicaid-frailty-bias/domain/cohort"
	"github.com/sanjaybasu/medicaid-frailty-bias/domain/core"
	"github.com/sanjaybasu/medicaid-frailty-bias/domain/policy"
	apperrors "github.com/sanjaybasu/medicaid-frailty-bias/internal/errors"
	"github.com/sanjaybasu/medicaid-frailty-bias/internal/microsim"
)

// Result holds the channel decomposition of a state's Black-White simulated
// exemption gap, in percentage points. The percent-of-total fields are NaN
// whenever the observed gap is not positive; callers must handle that rather
// than read a silent zero.
type Result struct {
	State                  core.StateCode `json:"state" db:"state"`
	ObservedGapPP          float64        `json:"observed_gap_pp" db:"observed_gap_pp"`
	AlgorithmGapPP         float64        `json:"algorithm_gap_pp" db:"algorithm_gap_pp"`
	VisibilityChannelPP    float64        `json:"visibility_channel_pp" db:"visibility_channel_pp"`
	DocumentationChannelPP float64        `json:"documentation_channel_pp" db:"documentation_channel_pp"`
	AlgorithmPctOfTotal    float64        `json:"algorithm_pct_of_total" db:"algorithm_pct_of_total"`
	VisibilityPctOfTotal   float64        `json:"visibility_pct_of_total" db:"visibility_pct_of_total"`
	DocumentationPctOfTotal float64       `json:"documentation_pct_of_total" db:"documentation_pct_of_total"`
}

// Options for decomposition passes; smaller than full aggregation runs since
// four Monte Carlo passes are needed per state.
type Options struct {
	NSim          int
	SamplePerRace int
	Seed          int64
}

func (o Options) withDefaults() Options {
	if o.NSim <= 0 {
		o.NSim = 200
	}
	if o.SamplePerRace <= 0 {
		o.SamplePerRace = 2000
	}
	return o
}

func (o Options) microsim() microsim.Options {
	return microsim.Options{NSim: o.NSim, SamplePerRace: o.SamplePerRace, Seed: o.Seed}
}

// Decompose splits the simulated Black-White gap into three channels by
// toggling parameters across four Monte Carlo passes:
//
//	(a) observed: all race differentials active
//	(b) detection equalized: visibility channel nullified
//	(c) certification equalized: documentation channel nullified
//	(d) both equalized: residual gap attributable purely to differential
//	    clinical eligibility under the rule (the algorithm channel)
//
// observed ≈ algorithm + visibility + documentation is the target identity;
// Monte Carlo noise and channel interaction keep it approximate.
func Decompose(c cohort.Cohort, defn policy.Definition, opts Options, p microsim.Params) (Result, error) {
	opts = opts.withDefaults()

	gap := func(detect, cert microsim.Override) (float64, error) {
		results, err := microsim.Run(c, defn, opts.microsim(), p, detect, cert)
		if err != nil {
			return 0, err
		}
		g, ok := microsim.GapPP(results)
		if !ok {
			return math.NaN(), nil
		}
		return g, nil
	}

	observed, err := gap(nil, nil)
	if err != nil {
		return Result{}, err
	}
	if math.IsNaN(observed) {
		return Result{}, apperrors.InvalidCohort("cohort lacks both white and black groups")
	}
	noVisibility, err := gap(p.EqualizedDetect(), nil)
	if err != nil {
		return Result{}, err
	}
	noCert, err := gap(nil, p.EqualizedCert())
	if err != nil {
		return Result{}, err
	}
	algorithmOnly, err := gap(p.EqualizedDetect(), p.EqualizedCert())
	if err != nil {
		return Result{}, err
	}

	res := Result{
		State:                  defn.StateCode,
		ObservedGapPP:          round2(observed),
		AlgorithmGapPP:         round2(algorithmOnly),
		VisibilityChannelPP:    round2(observed - noVisibility),
		DocumentationChannelPP: round2(observed - noCert),
	}

	if observed > 0 {
		res.AlgorithmPctOfTotal = round1(algorithmOnly / observed * 100)
		res.VisibilityPctOfTotal = round1((observed - noVisibility) / observed * 100)
		res.DocumentationPctOfTotal = round1((observed - noCert) / observed * 100)
	} else {
		res.AlgorithmPctOfTotal = math.NaN()
		res.VisibilityPctOfTotal = math.NaN()
		res.DocumentationPctOfTotal = math.NaN()
	}

	return res, nil
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
