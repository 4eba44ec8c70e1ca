package improved

import (
	"encoding/json"
	"math"
)

// Gap and race-specific fields are NaN when a race group is missing; they
// serialize as null since JSON cannot carry NaN.
func (c Comparison) MarshalJSON() ([]byte, error) {
	type alias Comparison
	return json.Marshal(struct {
		alias
		SQGapPP              *float64 `json:"sq_bw_gap_pp"`
		ImpGapPP             *float64 `json:"imp_bw_gap_pp"`
		GapReductionPP       *float64 `json:"gap_reduction_pp"`
		GapReductionPct      *float64 `json:"gap_reduction_pct"`
		SQBlackSensitivity   *float64 `json:"sq_black_sensitivity"`
		SQWhiteSensitivity   *float64 `json:"sq_white_sensitivity"`
		ImpBlackSensitivity  *float64 `json:"imp_black_sensitivity"`
		ImpWhiteSensitivity  *float64 `json:"imp_white_sensitivity"`
		BlackSensitivityGain *float64 `json:"black_sensitivity_gain"`
		WhiteSensitivityGain *float64 `json:"white_sensitivity_gain"`
	}{
		alias:                alias(c),
		SQGapPP:              nullable(c.SQGapPP),
		ImpGapPP:             nullable(c.ImpGapPP),
		GapReductionPP:       nullable(c.GapReductionPP),
		GapReductionPct:      nullable(c.GapReductionPct),
		SQBlackSensitivity:   nullable(c.SQBlackSensitivity),
		SQWhiteSensitivity:   nullable(c.SQWhiteSensitivity),
		ImpBlackSensitivity:  nullable(c.ImpBlackSensitivity),
		ImpWhiteSensitivity:  nullable(c.ImpWhiteSensitivity),
		BlackSensitivityGain: nullable(c.BlackSensitivityGain),
		WhiteSensitivityGain: nullable(c.WhiteSensitivityGain),
	})
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
