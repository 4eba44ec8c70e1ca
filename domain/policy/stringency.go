package policy

import "math"

// Stringency computes a composite policy stringency score
// (0 = most restrictive, 10 = most inclusive) from a definition.
//
// Dimensions, applied in order from a 5.0 baseline:
//  1. ADL threshold penalty
//  2. Physician cert requirement
//  3. Prior auth requirement
//  4. Ex parte determination type
//  5. Claims lag
//  6. HIE/EHR/MDS integration
//  7. Number of recognized ICD-10 families
//  8. Use of an unaudited claims-based frailty index
//
// The result is clamped to [0, 10] and rounded to one decimal. Pure function,
// no side effects.
func Stringency(d Definition) float64 {
	score := 5.0

	// ADL threshold penalty; threshold of 1 carries no penalty.
	switch {
	case d.ADLThreshold >= 3:
		score -= 2.0
	case d.ADLThreshold == 2:
		score -= 1.0
	}

	// Documentation burden
	if d.RequiresPhysicianCert {
		score -= 1.0
	}
	if d.RequiresPriorAuth {
		score -= 0.5
	}

	// Ex parte determination
	switch d.ExParte {
	case ExParteFull:
		score += 1.5
	case ExParteActive:
		score -= 1.5
	}

	// Claims lag
	switch d.ClaimsLag {
	case ClaimsLagShort:
		score += 1.0
	case ClaimsLagLong:
		score -= 0.5
	}

	// Data integration
	if d.UsesHIE {
		score += 0.5
	}
	if d.UsesEHRData {
		score += 0.5
	}
	if d.UsesMDSData {
		score += 0.5
	}

	// ICD-10 breadth, normalized to [0, 1]
	breadth := math.Min(float64(len(d.RecognizedConditions))/12.0, 1.0)
	score += breadth

	// CFI penalized when there is no HIE to audit it against
	if d.UsesClaimsFrailtyIndex && !d.UsesHIE {
		score -= 0.5
	}

	clamped := math.Max(0.0, math.Min(10.0, score))
	return math.Round(clamped*10) / 10
}
