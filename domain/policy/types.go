package policy

import (
	"github.com/sanjaybasu/medicaid-frailty-bias/domain/core"
)

// ExParteMode describes how a state uses passive administrative data to
// determine medical frailty.
type ExParteMode string

const (
	// ExParteFull is fully passive; no enrollee action required.
	ExParteFull ExParteMode = "full_ex_parte"
	// ExPartePartial uses data but requires some documentation.
	ExPartePartial ExParteMode = "partial_ex_parte"
	// ExParteActive requires the enrollee to self-attest or submit documents.
	ExParteActive ExParteMode = "active_documentation"
)

// ClaimsLag buckets the approximate lag in claims/MMIS data used for
// determination.
type ClaimsLag string

const (
	ClaimsLagShort   ClaimsLag = "0-3 months"
	ClaimsLagMedium  ClaimsLag = "3-6 months"
	ClaimsLagLong    ClaimsLag = "6-12 months"
	ClaimsLagUnknown ClaimsLag = "unknown"
)

// Definition is the structured representation of a state's medically frail
// exemption criteria for work requirement purposes. Constructed once at load
// time from the static catalog and immutable thereafter; derived variants are
// deep copies (see Clone).
type Definition struct {
	StateCode core.StateCode `json:"state_code" db:"state_code"`
	StateName string         `json:"state_name" db:"state_name"`

	// State-specific expansions or restrictions
	ADLThreshold         int      `json:"adl_threshold" db:"adl_threshold"` // minimum ADLs impaired to qualify (1-6)
	RequiresPriorAuth    bool     `json:"requires_prior_auth" db:"requires_prior_auth"`
	RequiresPhysicianCert bool    `json:"requires_physician_cert" db:"requires_physician_cert"`
	RecognizedConditions []string `json:"recognized_conditions"` // ICD-10 families

	// Administrative implementation
	ExParte               ExParteMode `json:"ex_parte" db:"ex_parte"`
	PrimaryDataSource     string      `json:"primary_data_source" db:"primary_data_source"`
	ClaimsLag             ClaimsLag   `json:"claims_lag" db:"claims_lag"`
	UsesEHRData           bool        `json:"uses_ehr_data" db:"uses_ehr_data"`
	UsesHIE               bool        `json:"uses_hie" db:"uses_hie"`
	UsesMDSData           bool        `json:"uses_mds_data" db:"uses_mds_data"`
	UsesClaimsFrailtyIndex bool       `json:"uses_claims_frailty_index" db:"uses_claims_frailty_index"`

	// Exemption outcomes where available from waiver evaluations; zero means
	// unavailable (Montana has no Black estimate, for example).
	EstimatedExemptPct         float64 `json:"estimated_exempt_pct,omitempty"`
	EstimatedBlackExemptPct    float64 `json:"estimated_black_exempt_pct,omitempty"`
	EstimatedWhiteExemptPct    float64 `json:"estimated_white_exempt_pct,omitempty"`
	EstimatedHispanicExemptPct float64 `json:"estimated_hispanic_exempt_pct,omitempty"`

	// Source metadata
	SourceDocument string `json:"source_document,omitempty"`
	EffectiveDate  string `json:"effective_date,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// Clone returns a deep copy of the definition. The recognized condition list
// is copied, never aliased: a derived definition that shared the slice with
// its base would corrupt both when either is modified.
func (d Definition) Clone() Definition {
	out := d
	out.RecognizedConditions = make([]string, len(d.RecognizedConditions))
	copy(out.RecognizedConditions, d.RecognizedConditions)
	return out
}
