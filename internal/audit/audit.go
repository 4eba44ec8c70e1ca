// Package audit orchestrates the full bias analysis: per-state Monte Carlo
// aggregation, racial gap decomposition, counterfactual rule adoption, and
// the status quo versus improved rule comparison, bundled with a provenance
// manifest.
package audit

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/sanjaybasu/medicaid-frailty-bias/domain/cohort"
	"github.com/sanjaybasu/medicaid-frailty-bias/domain/core"
	"github.com/sanjaybasu/medicaid-frailty-bias/domain/policy"
	"github.com/sanjaybasu/medicaid-frailty-bias/domain/run"
	"github.com/sanjaybasu/medicaid-frailty-bias/internal"
	"github.com/sanjaybasu/medicaid-frailty-bias/internal/config"
	"github.com/sanjaybasu/medicaid-frailty-bias/internal/decompose"
	"github.com/sanjaybasu/medicaid-frailty-bias/internal/improved"
	"github.com/sanjaybasu/medicaid-frailty-bias/internal/microsim"
)

// CodeVersion is stamped into run manifests.
const CodeVersion = "0.3.0"

// ReferenceState is the counterfactual reference rule, the least stringent
// definition in the catalog.
const ReferenceState = "CA"

// Decomposition passes are expensive (four Monte Carlo runs per state), so
// only the first states in catalog order get the full channel treatment.
const decompositionStates = 8

// Report is everything one audit run produces.
type Report struct {
	Manifest            run.Manifest                          `json:"manifest"`
	Aggregates          []microsim.AggregateResult            `json:"aggregates"`
	Decompositions      []decompose.Result                    `json:"decompositions"`
	Counterfactuals     []decompose.CounterfactualResult      `json:"counterfactuals"`
	Underidentification []decompose.UnderidentificationResult `json:"underidentification"`
	Comparisons         []improved.Comparison                 `json:"comparisons"`
	Coverage            []improved.CoverageImpact             `json:"coverage"`
	Sensitivity         []improved.ScenarioResult             `json:"sensitivity"`
}

// Auditor runs the full analysis over a policy store.
type Auditor struct {
	store  *policy.Store
	params microsim.Params
	cfg    config.SimulationConfig
	log    *internal.Logger
}

// New wires an auditor with the default literature-derived parameters.
func New(store *policy.Store, cfg config.SimulationConfig, log *internal.Logger) *Auditor {
	return &Auditor{
		store:  store,
		params: microsim.DefaultParams(),
		cfg:    cfg,
		log:    log,
	}
}

// Run executes the complete audit over the cohort. States run concurrently
// up to MaxParallel; determinism is unaffected because every random stream
// is derived from (seed, state, race), never from scheduling order.
func (a *Auditor) Run(ctx context.Context, c cohort.Cohort) (*Report, error) {
	states := a.store.States()
	manifest := run.NewManifest(
		a.cfg.Seed, a.cfg.NSim, a.cfg.SamplePerRace, states,
		a.params.DetectTable(), a.params.CertTable(),
		c.Fingerprint(), len(c), CodeVersion,
	)
	a.log.Info("audit run %s: %d states, n_sim=%d, sample=%d, seed=%d",
		manifest.RunID, len(states), a.cfg.NSim, a.cfg.SamplePerRace, a.cfg.Seed)

	report := &Report{Manifest: manifest}

	aggregates, err := a.aggregateAll(ctx, c, states)
	if err != nil {
		return nil, err
	}
	report.Aggregates = aggregates

	if err := a.decomposeAll(ctx, c, states, report); err != nil {
		return nil, err
	}

	if err := a.counterfactualAll(ctx, c, states, report); err != nil {
		return nil, err
	}

	if err := a.improvedAll(ctx, c, states, report); err != nil {
		return nil, err
	}

	a.log.Info("audit run %s complete: %d aggregate rows, %d decompositions, %d counterfactuals",
		manifest.RunID, len(report.Aggregates), len(report.Decompositions), len(report.Counterfactuals))
	return report, nil
}

func (a *Auditor) aggregateAll(ctx context.Context, c cohort.Cohort, states []core.StateCode) ([]microsim.AggregateResult, error) {
	sem := semaphore.NewWeighted(a.cfg.MaxParallel)
	var (
		mu      sync.Mutex
		rows    []microsim.AggregateResult
		wg      sync.WaitGroup
		firstErr error
	)

	for _, code := range states {
		defn, err := a.store.Get(code.String())
		if err != nil {
			return nil, err
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		wg.Add(1)
		go func() {
			defer sem.Release(1)
			defer wg.Done()

			results, err := microsim.Run(c, defn, a.microsimOptions(), a.params, nil, nil)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			rows = append(rows, results...)
			a.log.Debug("aggregated %s: %d race groups", defn.StateCode, len(results))
		}()
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].State != rows[j].State {
			return rows[i].State < rows[j].State
		}
		return rows[i].Race < rows[j].Race
	})
	return rows, nil
}

func (a *Auditor) decomposeAll(ctx context.Context, c cohort.Cohort, states []core.StateCode, report *Report) error {
	opts := a.decomposeOptions()
	for _, code := range states[:min(decompositionStates, len(states))] {
		if err := ctx.Err(); err != nil {
			return err
		}
		defn, err := a.store.Get(code.String())
		if err != nil {
			return err
		}

		res, err := decompose.Decompose(c, defn, opts, a.params)
		if err != nil {
			return err
		}
		report.Decompositions = append(report.Decompositions, res)

		imp := improved.Synthesize(defn)
		underid, err := decompose.DecomposeUnderidentification(
			c, defn, imp, improved.ImprovedDetection(a.params.Detect), opts, a.params)
		if err != nil {
			return err
		}
		report.Underidentification = append(report.Underidentification, underid)
		a.log.Debug("decomposed %s: observed gap %.2fpp", defn.StateCode, res.ObservedGapPP)
	}
	return nil
}

func (a *Auditor) counterfactualAll(ctx context.Context, c cohort.Cohort, states []core.StateCode, report *Report) error {
	reference, err := a.store.Get(ReferenceState)
	if err != nil {
		return err
	}

	opts := a.decomposeOptions()
	for _, code := range states {
		if code.String() == ReferenceState {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		defn, err := a.store.Get(code.String())
		if err != nil {
			return err
		}
		res, err := decompose.Counterfactual(c, defn, reference, opts, a.params)
		if err != nil {
			return err
		}
		report.Counterfactuals = append(report.Counterfactuals, res)
	}

	sort.Slice(report.Counterfactuals, func(i, j int) bool {
		return report.Counterfactuals[i].ReducibleGapPP > report.Counterfactuals[j].ReducibleGapPP
	})
	return nil
}

func (a *Auditor) improvedAll(ctx context.Context, c cohort.Cohort, states []core.StateCode, report *Report) error {
	opts := improved.Options{NSim: a.cfg.NSim, SamplePerRace: a.cfg.SamplePerRace, Seed: a.cfg.Seed}

	for _, code := range states {
		if err := ctx.Err(); err != nil {
			return err
		}
		defn, err := a.store.Get(code.String())
		if err != nil {
			return err
		}
		cmp, err := improved.Compare(c, defn, opts, a.params)
		if err != nil {
			return err
		}
		report.Comparisons = append(report.Comparisons, cmp)
	}

	sort.Slice(report.Comparisons, func(i, j int) bool {
		return report.Comparisons[i].SensitivityGainPP > report.Comparisons[j].SensitivityGainPP
	})
	report.Coverage = improved.ProjectCoverage(report.Comparisons, policy.ExpansionPopulations)

	sensDefns := make([]policy.Definition, 0, decompositionStates)
	for _, code := range states[:min(decompositionStates, len(states))] {
		defn, err := a.store.Get(code.String())
		if err != nil {
			return err
		}
		sensDefns = append(sensDefns, defn)
	}
	sensOpts := improved.Options{
		NSim:          min(a.cfg.NSim, 200),
		SamplePerRace: min(a.cfg.SamplePerRace, 2000),
		Seed:          a.cfg.Seed,
	}
	scenarios, err := improved.SensitivityAnalysis(c, sensDefns, sensOpts, a.params)
	if err != nil {
		return err
	}
	report.Sensitivity = scenarios
	return nil
}

func (a *Auditor) microsimOptions() microsim.Options {
	return microsim.Options{NSim: a.cfg.NSim, SamplePerRace: a.cfg.SamplePerRace, Seed: a.cfg.Seed}
}

// decomposition and counterfactual passes run several Monte Carlo sweeps per
// state, so they use trimmed draw counts.
func (a *Auditor) decomposeOptions() decompose.Options {
	return decompose.Options{
		NSim:          min(a.cfg.NSim, 200),
		SamplePerRace: min(a.cfg.SamplePerRace, 1000),
		Seed:          a.cfg.Seed,
	}
}
