package migration

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/sanjaybasu/medicaid-frailty-bias/internal/errors"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles results-store schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{version: "1.0.0"}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all migrations in dependency order: the runs table first,
// since every result table carries its run_id.
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createRunsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create runs table")
	}
	if err := r.createAggregateResultsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create aggregate_results table")
	}
	if err := r.createDecompositionResultsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create decomposition_results table")
	}
	if err := r.createCounterfactualResultsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create counterfactual_results table")
	}
	if err := r.createComparisonResultsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create comparison_results table")
	}
	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}
	return nil
}

func (r *MigrationRunner) createRunsTable(ctx context.Context, db *sqlx.DB) error {
	query := `CREATE TABLE IF NOT EXISTS runs (
		run_id VARCHAR(36) PRIMARY KEY,
		seed BIGINT NOT NULL,
		n_sim INTEGER NOT NULL,
		sample_per_race INTEGER NOT NULL,
		states JSONB NOT NULL,
		detect_table JSONB NOT NULL,
		cert_table JSONB NOT NULL,
		parameter_hash VARCHAR(64) NOT NULL,
		cohort_hash VARCHAR(64) NOT NULL,
		cohort_size INTEGER NOT NULL,
		code_version VARCHAR(32) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	)`
	_, err := db.ExecContext(ctx, query)
	return err
}

func (r *MigrationRunner) createAggregateResultsTable(ctx context.Context, db *sqlx.DB) error {
	query := `CREATE TABLE IF NOT EXISTS aggregate_results (
		id SERIAL PRIMARY KEY,
		run_id VARCHAR(36) NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
		state VARCHAR(2) NOT NULL,
		race_eth VARCHAR(16) NOT NULL,
		n_individuals INTEGER NOT NULL,
		clinically_eligible_pct DOUBLE PRECISION NOT NULL,
		simulated_exempt_pct DOUBLE PRECISION NOT NULL,
		simulated_exempt_ci_lower DOUBLE PRECISION NOT NULL,
		simulated_exempt_ci_upper DOUBLE PRECISION NOT NULL,
		stringency_score DOUBLE PRECISION NOT NULL,
		UNIQUE (run_id, state, race_eth)
	)`
	_, err := db.ExecContext(ctx, query)
	return err
}

func (r *MigrationRunner) createDecompositionResultsTable(ctx context.Context, db *sqlx.DB) error {
	query := `CREATE TABLE IF NOT EXISTS decomposition_results (
		id SERIAL PRIMARY KEY,
		run_id VARCHAR(36) NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
		state VARCHAR(2) NOT NULL,
		observed_gap_pp DOUBLE PRECISION NOT NULL,
		algorithm_gap_pp DOUBLE PRECISION NOT NULL,
		visibility_channel_pp DOUBLE PRECISION NOT NULL,
		documentation_channel_pp DOUBLE PRECISION NOT NULL,
		algorithm_pct_of_total DOUBLE PRECISION,
		visibility_pct_of_total DOUBLE PRECISION,
		documentation_pct_of_total DOUBLE PRECISION,
		UNIQUE (run_id, state)
	)`
	_, err := db.ExecContext(ctx, query)
	return err
}

func (r *MigrationRunner) createCounterfactualResultsTable(ctx context.Context, db *sqlx.DB) error {
	query := `CREATE TABLE IF NOT EXISTS counterfactual_results (
		id SERIAL PRIMARY KEY,
		run_id VARCHAR(36) NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
		state VARCHAR(2) NOT NULL,
		actual_gap_pp DOUBLE PRECISION NOT NULL,
		counterfactual_gap_pp DOUBLE PRECISION NOT NULL,
		reducible_gap_pp DOUBLE PRECISION NOT NULL,
		pct_gap_reducible DOUBLE PRECISION,
		reference_state VARCHAR(2) NOT NULL,
		UNIQUE (run_id, state)
	)`
	_, err := db.ExecContext(ctx, query)
	return err
}

func (r *MigrationRunner) createComparisonResultsTable(ctx context.Context, db *sqlx.DB) error {
	query := `CREATE TABLE IF NOT EXISTS comparison_results (
		id SERIAL PRIMARY KEY,
		run_id VARCHAR(36) NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
		state VARCHAR(2) NOT NULL,
		stringency_score DOUBLE PRECISION NOT NULL,
		sq_overall_sensitivity DOUBLE PRECISION NOT NULL,
		imp_overall_sensitivity DOUBLE PRECISION NOT NULL,
		sensitivity_gain_pp DOUBLE PRECISION NOT NULL,
		sq_bw_gap_pp DOUBLE PRECISION,
		imp_bw_gap_pp DOUBLE PRECISION,
		gap_reduction_pp DOUBLE PRECISION,
		UNIQUE (run_id, state)
	)`
	_, err := db.ExecContext(ctx, query)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_aggregate_results_run_id ON aggregate_results(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_aggregate_results_state ON aggregate_results(state)`,
		`CREATE INDEX IF NOT EXISTS idx_decomposition_results_run_id ON decomposition_results(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_counterfactual_results_run_id ON counterfactual_results(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_comparison_results_run_id ON comparison_results(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC)`,
	}
	for _, idx := range indexes {
		if _, err := db.ExecContext(ctx, idx); err != nil {
			return err
		}
	}
	return nil
}
