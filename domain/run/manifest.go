package run

import (
	"github.com/sanjaybasu/medicaid-frailty-bias/domain/core"
)

// Manifest is the parameter-provenance record for one audit run: everything
// needed to reproduce the run bit-for-bit. It must exist before any result
// rows are persisted.
type Manifest struct {
	RunID          core.RunID         `json:"run_id" db:"run_id"`
	Seed           int64              `json:"seed" db:"seed"`
	NSim           int                `json:"n_sim" db:"n_sim"`
	SamplePerRace  int                `json:"sample_per_race" db:"sample_per_race"`
	States         []core.StateCode   `json:"states"`
	DetectTable    map[string]float64 `json:"detect_table"`
	CertTable      map[string]float64 `json:"cert_table"`
	ParameterHash  core.ParameterHash `json:"parameter_hash" db:"parameter_hash"`
	CohortHash     core.CohortHash    `json:"cohort_hash" db:"cohort_hash"`
	CohortSize     int                `json:"cohort_size" db:"cohort_size"`
	CodeVersion    string             `json:"code_version" db:"code_version"`
	CreatedAt      core.Timestamp     `json:"created_at" db:"created_at"`
}

// NewManifest assembles a manifest, fingerprinting the probability tables so
// two runs with the same ID but different parameters cannot be confused.
func NewManifest(seed int64, nSim, samplePerRace int, states []core.StateCode,
	detect, cert map[string]float64, cohortHash core.CohortHash, cohortSize int,
	codeVersion string) Manifest {

	return Manifest{
		RunID:         core.RunID(core.NewID()),
		Seed:          seed,
		NSim:          nSim,
		SamplePerRace: samplePerRace,
		States:        states,
		DetectTable:   detect,
		CertTable:     cert,
		ParameterHash: core.ComputeParameterHash(map[string]map[string]float64{
			"detect": detect,
			"cert":   cert,
		}),
		CohortHash:  cohortHash,
		CohortSize:  cohortSize,
		CodeVersion: codeVersion,
		CreatedAt:   core.Now(),
	}
}
