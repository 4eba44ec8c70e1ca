package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"math"

	"github.com/jmoiron/sqlx"

	"github.com/sanjaybasu/medicaid-frailty-bias/domain/core"
	"github.com/sanjaybasu/medicaid-frailty-bias/domain/run"
	"github.com/sanjaybasu/medicaid-frailty-bias/internal/decompose"
	apperrors "github.com/sanjaybasu/medicaid-frailty-bias/internal/errors"
	"github.com/sanjaybasu/medicaid-frailty-bias/internal/improved"
	"github.com/sanjaybasu/medicaid-frailty-bias/internal/microsim"
	"github.com/sanjaybasu/medicaid-frailty-bias/ports"
)

// resultsRepository implements the ResultsRepository interface
type resultsRepository struct {
	db *sqlx.DB
}

// NewResultsRepository creates a new results repository
func NewResultsRepository(db *sqlx.DB) ports.ResultsRepository {
	return &resultsRepository{db: db}
}

// SaveManifest inserts the run provenance record.
func (r *resultsRepository) SaveManifest(ctx context.Context, m run.Manifest) error {
	statesJSON, err := json.Marshal(m.States)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal states")
	}
	detectJSON, err := json.Marshal(m.DetectTable)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal detect table")
	}
	certJSON, err := json.Marshal(m.CertTable)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal cert table")
	}

	query := `INSERT INTO runs (
		run_id, seed, n_sim, sample_per_race, states, detect_table, cert_table,
		parameter_hash, cohort_hash, cohort_size, code_version, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = r.db.ExecContext(ctx, query,
		m.RunID.String(), m.Seed, m.NSim, m.SamplePerRace, statesJSON, detectJSON, certJSON,
		m.ParameterHash.String(), m.CohortHash.String(), m.CohortSize, m.CodeVersion, m.CreatedAt.Time(),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to save run manifest")
	}
	return nil
}

// GetManifest retrieves a run manifest by ID.
func (r *resultsRepository) GetManifest(ctx context.Context, runID core.RunID) (*run.Manifest, error) {
	query := `SELECT run_id, seed, n_sim, sample_per_race, states, detect_table, cert_table,
		parameter_hash, cohort_hash, cohort_size, code_version, created_at
	FROM runs WHERE run_id = $1`

	m, err := scanManifest(r.db.QueryRowContext(ctx, query, runID.String()))
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("run")
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get run manifest")
	}
	return m, nil
}

// ListRuns returns the most recent run manifests, newest first.
func (r *resultsRepository) ListRuns(ctx context.Context, limit int) ([]run.Manifest, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT run_id, seed, n_sim, sample_per_race, states, detect_table, cert_table,
		parameter_hash, cohort_hash, cohort_size, code_version, created_at
	FROM runs ORDER BY created_at DESC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list runs")
	}
	defer rows.Close()

	var out []run.Manifest
	for rows.Next() {
		m, err := scanManifest(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan run manifest")
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanManifest(row rowScanner) (*run.Manifest, error) {
	var (
		m          run.Manifest
		runID      string
		statesJSON []byte
		detectJSON []byte
		certJSON   []byte
		paramHash  string
		cohortHash string
		createdAt  sql.NullTime
	)
	err := row.Scan(&runID, &m.Seed, &m.NSim, &m.SamplePerRace, &statesJSON, &detectJSON, &certJSON,
		&paramHash, &cohortHash, &m.CohortSize, &m.CodeVersion, &createdAt)
	if err != nil {
		return nil, err
	}
	m.RunID = core.RunID(runID)
	m.ParameterHash = core.ParameterHash(paramHash)
	m.CohortHash = core.CohortHash(cohortHash)
	if createdAt.Valid {
		m.CreatedAt = core.NewTimestamp(createdAt.Time)
	}
	if err := json.Unmarshal(statesJSON, &m.States); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(detectJSON, &m.DetectTable); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(certJSON, &m.CertTable); err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveAggregates bulk-inserts aggregate rows for a run.
func (r *resultsRepository) SaveAggregates(ctx context.Context, runID core.RunID, results []microsim.AggregateResult) error {
	query := `INSERT INTO aggregate_results (
		run_id, state, race_eth, n_individuals, clinically_eligible_pct,
		simulated_exempt_pct, simulated_exempt_ci_lower, simulated_exempt_ci_upper, stringency_score
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	for _, row := range results {
		if _, err := tx.ExecContext(ctx, query,
			runID.String(), row.State.String(), string(row.Race), row.N,
			row.ClinicallyEligiblePct, row.SimulatedExemptPct, row.CILower, row.CIUpper,
			row.StringencyScore,
		); err != nil {
			return apperrors.Wrap(err, "failed to save aggregate result")
		}
	}
	return tx.Commit()
}

// GetAggregates retrieves all aggregate rows for a run.
func (r *resultsRepository) GetAggregates(ctx context.Context, runID core.RunID) ([]microsim.AggregateResult, error) {
	query := `SELECT state, race_eth, n_individuals, clinically_eligible_pct,
		simulated_exempt_pct, simulated_exempt_ci_lower, simulated_exempt_ci_upper, stringency_score
	FROM aggregate_results WHERE run_id = $1 ORDER BY state, race_eth`

	var out []microsim.AggregateResult
	if err := r.db.SelectContext(ctx, &out, query, runID.String()); err != nil {
		return nil, apperrors.Wrap(err, "failed to get aggregate results")
	}
	return out, nil
}

// GetAggregatesByState retrieves one state's aggregate rows for a run.
func (r *resultsRepository) GetAggregatesByState(ctx context.Context, runID core.RunID, state core.StateCode) ([]microsim.AggregateResult, error) {
	query := `SELECT state, race_eth, n_individuals, clinically_eligible_pct,
		simulated_exempt_pct, simulated_exempt_ci_lower, simulated_exempt_ci_upper, stringency_score
	FROM aggregate_results WHERE run_id = $1 AND state = $2 ORDER BY race_eth`

	var out []microsim.AggregateResult
	if err := r.db.SelectContext(ctx, &out, query, runID.String(), state.String()); err != nil {
		return nil, apperrors.Wrap(err, "failed to get aggregate results by state")
	}
	return out, nil
}

// SaveDecompositions bulk-inserts decomposition rows. NaN percent-of-total
// values persist as NULL.
func (r *resultsRepository) SaveDecompositions(ctx context.Context, runID core.RunID, results []decompose.Result) error {
	query := `INSERT INTO decomposition_results (
		run_id, state, observed_gap_pp, algorithm_gap_pp, visibility_channel_pp,
		documentation_channel_pp, algorithm_pct_of_total, visibility_pct_of_total,
		documentation_pct_of_total
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	for _, row := range results {
		if _, err := tx.ExecContext(ctx, query,
			runID.String(), row.State.String(), row.ObservedGapPP, row.AlgorithmGapPP,
			row.VisibilityChannelPP, row.DocumentationChannelPP,
			nullableFloat(row.AlgorithmPctOfTotal), nullableFloat(row.VisibilityPctOfTotal),
			nullableFloat(row.DocumentationPctOfTotal),
		); err != nil {
			return apperrors.Wrap(err, "failed to save decomposition result")
		}
	}
	return tx.Commit()
}

// GetDecompositions retrieves decomposition rows for a run. NULL
// percent-of-total columns come back as NaN.
func (r *resultsRepository) GetDecompositions(ctx context.Context, runID core.RunID) ([]decompose.Result, error) {
	query := `SELECT state, observed_gap_pp, algorithm_gap_pp, visibility_channel_pp,
		documentation_channel_pp, algorithm_pct_of_total, visibility_pct_of_total,
		documentation_pct_of_total
	FROM decomposition_results WHERE run_id = $1 ORDER BY state`

	rows, err := r.db.QueryContext(ctx, query, runID.String())
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get decomposition results")
	}
	defer rows.Close()

	var out []decompose.Result
	for rows.Next() {
		var (
			res   decompose.Result
			state string
			algorithmPct, visibilityPct, documentationPct sql.NullFloat64
		)
		if err := rows.Scan(&state, &res.ObservedGapPP, &res.AlgorithmGapPP,
			&res.VisibilityChannelPP, &res.DocumentationChannelPP,
			&algorithmPct, &visibilityPct, &documentationPct); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan decomposition result")
		}
		res.State = core.StateCode(state)
		res.AlgorithmPctOfTotal = floatOrNaN(algorithmPct)
		res.VisibilityPctOfTotal = floatOrNaN(visibilityPct)
		res.DocumentationPctOfTotal = floatOrNaN(documentationPct)
		out = append(out, res)
	}
	return out, rows.Err()
}

// SaveCounterfactuals bulk-inserts counterfactual rows.
func (r *resultsRepository) SaveCounterfactuals(ctx context.Context, runID core.RunID, results []decompose.CounterfactualResult) error {
	query := `INSERT INTO counterfactual_results (
		run_id, state, actual_gap_pp, counterfactual_gap_pp, reducible_gap_pp,
		pct_gap_reducible, reference_state
	) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	for _, row := range results {
		if _, err := tx.ExecContext(ctx, query,
			runID.String(), row.State.String(), row.ActualGapPP, row.CounterfactualGapPP,
			row.ReducibleGapPP, nullableFloat(row.PctGapReducible), row.ReferenceState.String(),
		); err != nil {
			return apperrors.Wrap(err, "failed to save counterfactual result")
		}
	}
	return tx.Commit()
}

// GetCounterfactuals retrieves counterfactual rows for a run, largest
// reducible gap first.
func (r *resultsRepository) GetCounterfactuals(ctx context.Context, runID core.RunID) ([]decompose.CounterfactualResult, error) {
	query := `SELECT state, actual_gap_pp, counterfactual_gap_pp, reducible_gap_pp,
		pct_gap_reducible, reference_state
	FROM counterfactual_results WHERE run_id = $1 ORDER BY reducible_gap_pp DESC`

	rows, err := r.db.QueryContext(ctx, query, runID.String())
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get counterfactual results")
	}
	defer rows.Close()

	var out []decompose.CounterfactualResult
	for rows.Next() {
		var (
			res        decompose.CounterfactualResult
			state, ref string
			pct        sql.NullFloat64
		)
		if err := rows.Scan(&state, &res.ActualGapPP, &res.CounterfactualGapPP,
			&res.ReducibleGapPP, &pct, &ref); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan counterfactual result")
		}
		res.State = core.StateCode(state)
		res.ReferenceState = core.StateCode(ref)
		res.PctGapReducible = floatOrNaN(pct)
		out = append(out, res)
	}
	return out, rows.Err()
}

// SaveComparisons bulk-inserts status quo versus improved comparison rows.
func (r *resultsRepository) SaveComparisons(ctx context.Context, runID core.RunID, results []improved.Comparison) error {
	query := `INSERT INTO comparison_results (
		run_id, state, stringency_score, sq_overall_sensitivity, imp_overall_sensitivity,
		sensitivity_gain_pp, sq_bw_gap_pp, imp_bw_gap_pp, gap_reduction_pp
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	for _, row := range results {
		if _, err := tx.ExecContext(ctx, query,
			runID.String(), row.State.String(), row.StringencyScore,
			row.SQOverallSensitivity, row.ImpOverallSensitivity, row.SensitivityGainPP,
			nullableFloat(row.SQGapPP), nullableFloat(row.ImpGapPP), nullableFloat(row.GapReductionPP),
		); err != nil {
			return apperrors.Wrap(err, "failed to save comparison result")
		}
	}
	return tx.Commit()
}

// GetComparisons retrieves comparison rows for a run, largest sensitivity
// gain first. Only persisted columns round-trip; the race-specific fields
// come back as NaN.
func (r *resultsRepository) GetComparisons(ctx context.Context, runID core.RunID) ([]improved.Comparison, error) {
	query := `SELECT state, stringency_score, sq_overall_sensitivity, imp_overall_sensitivity,
		sensitivity_gain_pp, sq_bw_gap_pp, imp_bw_gap_pp, gap_reduction_pp
	FROM comparison_results WHERE run_id = $1 ORDER BY sensitivity_gain_pp DESC`

	rows, err := r.db.QueryContext(ctx, query, runID.String())
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get comparison results")
	}
	defer rows.Close()

	var out []improved.Comparison
	for rows.Next() {
		var (
			cmp                      improved.Comparison
			state                    string
			sqGap, impGap, reduction sql.NullFloat64
		)
		if err := rows.Scan(&state, &cmp.StringencyScore, &cmp.SQOverallSensitivity,
			&cmp.ImpOverallSensitivity, &cmp.SensitivityGainPP,
			&sqGap, &impGap, &reduction); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan comparison result")
		}
		cmp.State = core.StateCode(state)
		cmp.SQGapPP = floatOrNaN(sqGap)
		cmp.ImpGapPP = floatOrNaN(impGap)
		cmp.GapReductionPP = floatOrNaN(reduction)
		cmp.GapReductionPct = math.NaN()
		cmp.SQBlackSensitivity = math.NaN()
		cmp.SQWhiteSensitivity = math.NaN()
		cmp.ImpBlackSensitivity = math.NaN()
		cmp.ImpWhiteSensitivity = math.NaN()
		cmp.BlackSensitivityGain = math.NaN()
		cmp.WhiteSensitivityGain = math.NaN()
		out = append(out, cmp)
	}
	return out, rows.Err()
}

// nullableFloat maps NaN to SQL NULL; NaN is not representable in Postgres
// JSON output and means "not computed" here.
func nullableFloat(v float64) sql.NullFloat64 {
	if math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func floatOrNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
