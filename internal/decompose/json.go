package decompose

import (
	"encoding/json"
	"math"
)

// NaN is not representable in JSON; not-computed fields serialize as null.

func (r Result) MarshalJSON() ([]byte, error) {
	type alias Result
	return json.Marshal(struct {
		alias
		AlgorithmPctOfTotal     *float64 `json:"algorithm_pct_of_total"`
		VisibilityPctOfTotal    *float64 `json:"visibility_pct_of_total"`
		DocumentationPctOfTotal *float64 `json:"documentation_pct_of_total"`
	}{
		alias:                   alias(r),
		AlgorithmPctOfTotal:     nullable(r.AlgorithmPctOfTotal),
		VisibilityPctOfTotal:    nullable(r.VisibilityPctOfTotal),
		DocumentationPctOfTotal: nullable(r.DocumentationPctOfTotal),
	})
}

func (r CounterfactualResult) MarshalJSON() ([]byte, error) {
	type alias CounterfactualResult
	return json.Marshal(struct {
		alias
		PctGapReducible *float64 `json:"pct_gap_reducible"`
	}{
		alias:           alias(r),
		PctGapReducible: nullable(r.PctGapReducible),
	})
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
