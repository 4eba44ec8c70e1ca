package ports

import (
	"context"

	"github.com/sanjaybasu/medicaid-frailty-bias/domain/core"
	"github.com/sanjaybasu/medicaid-frailty-bias/domain/run"
	"github.com/sanjaybasu/medicaid-frailty-bias/internal/decompose"
	"github.com/sanjaybasu/medicaid-frailty-bias/internal/improved"
	"github.com/sanjaybasu/medicaid-frailty-bias/internal/microsim"
)

// ResultsRepository defines the interface for persisting and querying audit
// runs. The manifest must be saved before any result rows so every row can
// reference its provenance.
type ResultsRepository interface {
	SaveManifest(ctx context.Context, m run.Manifest) error
	GetManifest(ctx context.Context, runID core.RunID) (*run.Manifest, error)
	ListRuns(ctx context.Context, limit int) ([]run.Manifest, error)

	SaveAggregates(ctx context.Context, runID core.RunID, rows []microsim.AggregateResult) error
	GetAggregates(ctx context.Context, runID core.RunID) ([]microsim.AggregateResult, error)
	GetAggregatesByState(ctx context.Context, runID core.RunID, state core.StateCode) ([]microsim.AggregateResult, error)

	SaveDecompositions(ctx context.Context, runID core.RunID, rows []decompose.Result) error
	GetDecompositions(ctx context.Context, runID core.RunID) ([]decompose.Result, error)

	SaveCounterfactuals(ctx context.Context, runID core.RunID, rows []decompose.CounterfactualResult) error
	GetCounterfactuals(ctx context.Context, runID core.RunID) ([]decompose.CounterfactualResult, error)

	SaveComparisons(ctx context.Context, runID core.RunID, rows []improved.Comparison) error
	GetComparisons(ctx context.Context, runID core.RunID) ([]improved.Comparison, error)
}
