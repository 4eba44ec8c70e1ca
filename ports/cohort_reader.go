package ports

import "github.com/sanjaybasu/medicaid-frailty-bias/domain/cohort"

// CohortReader loads a survey cohort from a file. Implementations decide
// which formats they accept by extension.
type CohortReader interface {
	Read(path string) (cohort.Cohort, error)
}
