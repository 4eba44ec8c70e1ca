package cohort

import (
	"strconv"
	"strings"

	"github.com/sanjaybasu/medicaid-frailty-bias/domain/core"
)

// Fingerprint hashes the cohort's full content for run provenance. Order
// matters; two cohorts with the same individuals in a different order hash
// differently, which is intended since sampling is order-sensitive.
func (c Cohort) Fingerprint() core.CohortHash {
	var b strings.Builder
	for _, ind := range c {
		b.WriteString(ind.State.String())
		b.WriteByte('|')
		b.WriteString(string(ind.Race))
		b.WriteByte('|')
		b.WriteString(strconv.FormatFloat(ind.Weight, 'g', -1, 64))
		for _, flag := range []bool{
			ind.Ambulatory, ind.Cognitive, ind.SelfCare,
			ind.IndependentLiving, ind.Hearing, ind.Vision, ind.AnyDisability,
		} {
			if flag {
				b.WriteByte('1')
			} else {
				b.WriteByte('0')
			}
		}
		b.WriteByte('\n')
	}
	return core.NewCohortHash([]byte(b.String()))
}
