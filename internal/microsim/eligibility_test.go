package microsim

import (
	"testing"

	"github.com/sanjaybasu/medicaid-frailty-bias/domain/cohort"
	"github.com/sanjaybasu/medicaid-frailty-bias/domain/policy"
)

func strictDefinition() policy.Definition {
	return policy.Definition{
		StateCode:    "GA",
		ADLThreshold: 2,
		RecognizedConditions: []string{
			"F20-F29", "G30-G31", "M05-M06", "I60-I69",
		},
	}
}

func broadDefinition() policy.Definition {
	return policy.Definition{
		StateCode:    "CA",
		ADLThreshold: 1,
		RecognizedConditions: []string{
			"F20-F29", "F30-F39", "F40-F48", "F10-F19", "C00-D49",
			"G10-G99", "M00-M99", "I00-I99", "J00-J99", "N00-N99",
			"E00-E90", "Z59", "Z60",
		},
	}
}

func TestIsClinicallyEligible_ADLThreshold(t *testing.T) {
	defn := strictDefinition()

	one := cohort.Individual{Ambulatory: true}
	if IsClinicallyEligible(one, defn) {
		t.Error("one ADL domain qualified under a threshold of 2")
	}

	two := cohort.Individual{Ambulatory: true, SelfCare: true}
	if !IsClinicallyEligible(two, defn) {
		t.Error("two ADL domains should qualify under a threshold of 2")
	}
}

func TestIsClinicallyEligible_SensoryDomainsDoNotCountTowardADL(t *testing.T) {
	defn := strictDefinition()
	ind := cohort.Individual{Hearing: true, Vision: true, Ambulatory: true}
	if IsClinicallyEligible(ind, defn) {
		t.Error("hearing and vision counted toward the ADL threshold")
	}
}

func TestIsClinicallyEligible_ConditionCoverageRequired(t *testing.T) {
	// Hearing-only condition list: ambulatory disability cannot map to it.
	defn := policy.Definition{
		ADLThreshold:         1,
		RecognizedConditions: []string{"H60-H95"},
	}
	ind := cohort.Individual{Ambulatory: true, SelfCare: true}
	if IsClinicallyEligible(ind, defn) {
		t.Error("ambulatory disability matched a hearing-only condition list")
	}

	deaf := cohort.Individual{Ambulatory: true, Hearing: true}
	if !IsClinicallyEligible(deaf, defn) {
		t.Error("hearing disability should match an ear-disorder family")
	}
}

func TestIsClinicallyEligible_BroadQualification(t *testing.T) {
	// Ten families, none of which maps to the ambulatory domain: the
	// any-disability flag alone must carry qualification.
	broad := policy.Definition{
		ADLThreshold: 1,
		RecognizedConditions: []string{
			"C00", "C15", "C30", "C50", "C76",
			"D10", "D37", "D55", "D70", "D80",
		},
	}
	ind := cohort.Individual{AnyDisability: true, Ambulatory: true}
	if !IsClinicallyEligible(ind, broad) {
		t.Error("any-disability should qualify under a ten-family list")
	}

	withoutAny := cohort.Individual{Ambulatory: true}
	if IsClinicallyEligible(withoutAny, broad) {
		t.Error("no domain match and no any-disability flag should not qualify")
	}

	narrow := strictDefinition()
	narrow.ADLThreshold = 1
	narrow.RecognizedConditions = []string{"H60-H95"} // no match for ambulatory
	onlyAny := cohort.Individual{AnyDisability: true, Ambulatory: true}
	if IsClinicallyEligible(onlyAny, narrow) {
		t.Error("any-disability qualified under a single-family list")
	}
}

func TestConditionCovered_BidirectionalPrefix(t *testing.T) {
	tests := []struct {
		name       string
		domain     string
		recognized []string
		want       bool
	}{
		{"family starts with prefix", "cognitive", []string{"F20-F29"}, true},
		{"prefix starts with family", "ambulatory", []string{"M"}, true},
		{"trailing dash stripped", "ambulatory", []string{"M-"}, true},
		{"single letter family is permissive", "cognitive", []string{"F"}, true},
		{"no overlap", "vision", []string{"F20-F29"}, false},
		{"diabetic retinopathy", "vision", []string{"E10-E14"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := conditionCovered(tt.domain, tt.recognized); got != tt.want {
				t.Errorf("conditionCovered(%s, %v) = %v, want %v",
					tt.domain, tt.recognized, got, tt.want)
			}
		})
	}
}
