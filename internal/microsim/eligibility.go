package microsim

import (
	"strings"

	"github.com/sanjaybasu/medicaid-frailty-bias/domain/cohort"
	"github.com/sanjaybasu/medicaid-frailty-bias/domain/policy"
)

// Disability-domain to ICD-10 family prefix mapping. A state "covers" a
// domain if its recognized condition list contains at least one family
// matching one of these prefixes. Conservative mapping: a domain is assigned
// to a family only where there is a direct clinical correspondence.
var domainPrefixes = map[string][]string{
	"ambulatory": {
		"M",      // Musculoskeletal (most common cause of ambulatory limitation)
		"G",      // Neurological (MS, Parkinson's, SCI)
		"S", "T", // Injury sequelae (traumatic)
	},
	"cognitive": {
		"F2",         // Schizophrenia spectrum
		"F3",         // Mood disorders (often with cognitive sx)
		"F4",         // Anxiety (can impair concentration/memory)
		"G30", "G31", // Dementia/Alzheimer's
		"F7", "F8", // Intellectual/developmental disability
	},
	"self_care": {
		"M",   // MSK (arthritis limiting fine motor)
		"G",   // Neurological
		"I6",  // Stroke sequelae
		"Z74", // Dependence on care providers
	},
	"independent_living": {
		"Z74", // Dependence on care providers
		"F",   // Mental/behavioral (broad)
		"G",   // Neurological
		"M",   // MSK
		"I",   // Cardiovascular (CHF, severe)
	},
	"hearing": {
		"H6", "H7", "H8", "H9", // Ear/hearing disorders
	},
	"vision": {
		"H0", "H1", "H2", "H3", "H4", "H5", // Eye disorders
		"E10", "E11", // Diabetic retinopathy
	},
}

// broadQualificationFamilies is the minimum number of recognized ICD-10
// families at which an any-disability flag alone qualifies: states with lists
// this broad (CA, NY) cover nearly all conditions.
const broadQualificationFamilies = 10

// conditionCovered reports whether any prefix for a disability domain is
// covered by the state's recognized condition list. The match is
// bidirectional: a family matches if it starts with the prefix, or if the
// prefix starts with the family once any trailing wildcard dashes are
// stripped. Single-letter family codes therefore match any domain prefix
// beginning with that letter; this mirrors the operational rule even though
// it can be surprisingly permissive.
func conditionCovered(domain string, recognized []string) bool {
	for _, prefix := range domainPrefixes[domain] {
		for _, family := range recognized {
			if strings.HasPrefix(family, prefix) ||
				strings.HasPrefix(prefix, strings.TrimRight(family, "-")) {
				return true
			}
		}
	}
	return false
}

// IsClinicallyEligible determines whether an individual's disability profile
// qualifies under the state's frailty criteria. Purely health-status based:
// no claims visibility or documentation process is involved.
//
// Both must hold:
//  1. ADL-proximate domain count >= the state's ADL threshold
//  2. at least one positive disability domain maps to a covered ICD-10
//     family, or the any-disability broad qualification applies
func IsClinicallyEligible(ind cohort.Individual, defn policy.Definition) bool {
	if ind.ADLCount() < defn.ADLThreshold {
		return false
	}

	flags := []struct {
		domain string
		set    bool
	}{
		{"ambulatory", ind.Ambulatory},
		{"cognitive", ind.Cognitive},
		{"self_care", ind.SelfCare},
		{"independent_living", ind.IndependentLiving},
		{"hearing", ind.Hearing},
		{"vision", ind.Vision},
	}
	for _, f := range flags {
		if f.set && conditionCovered(f.domain, defn.RecognizedConditions) {
			return true
		}
	}

	// Any-disability qualifies under very broad definitions even when no
	// domain-specific prefix matches.
	if ind.AnyDisability && len(defn.RecognizedConditions) >= broadQualificationFamilies {
		return true
	}

	return false
}
