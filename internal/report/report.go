// Package report renders an audit run into a markdown summary and an HTML
// page for distribution.
package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/sanjaybasu/medicaid-frailty-bias/internal/audit"
)

// Markdown renders the full report body.
func Markdown(rep *audit.Report) string {
	var b strings.Builder

	b.WriteString("# Medically Frail Exemption Algorithm Audit\n\n")
	fmt.Fprintf(&b, "Run `%s` | seed %d | %d simulations | %d per race group | cohort n=%d\n\n",
		rep.Manifest.RunID, rep.Manifest.Seed, rep.Manifest.NSim,
		rep.Manifest.SamplePerRace, rep.Manifest.CohortSize)
	fmt.Fprintf(&b, "Parameter hash `%s` | cohort hash `%s` | code %s\n\n",
		short(rep.Manifest.ParameterHash.String()), short(rep.Manifest.CohortHash.String()),
		rep.Manifest.CodeVersion)

	b.WriteString("## Simulated Exemption Rates by State and Race\n\n")
	b.WriteString("| State | Race | N | Clinically Eligible % | Simulated Exempt % | 95% CI | Stringency |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")
	for _, r := range rep.Aggregates {
		fmt.Fprintf(&b, "| %s | %s | %d | %.1f | %.1f | %.1f-%.1f | %.1f |\n",
			r.State, r.Race, r.N, r.ClinicallyEligiblePct, r.SimulatedExemptPct,
			r.CILower, r.CIUpper, r.StringencyScore)
	}
	b.WriteString("\n")

	if len(rep.Decompositions) > 0 {
		b.WriteString("## Black-White Gap Decomposition\n\n")
		b.WriteString("Channel shares are percent of the observed gap; blank where the observed gap is not positive.\n\n")
		b.WriteString("| State | Observed Gap (pp) | Algorithm | Visibility | Documentation |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for _, d := range rep.Decompositions {
			fmt.Fprintf(&b, "| %s | %.2f | %s | %s | %s |\n",
				d.State, d.ObservedGapPP,
				pct(d.AlgorithmPctOfTotal), pct(d.VisibilityPctOfTotal), pct(d.DocumentationPctOfTotal))
		}
		b.WriteString("\n")
	}

	if len(rep.Counterfactuals) > 0 {
		b.WriteString("## Counterfactual: Adopt the Reference Rule\n\n")
		b.WriteString("| State | Actual Gap (pp) | Counterfactual Gap (pp) | Reducible (pp) | % Reducible | Reference |\n")
		b.WriteString("|---|---|---|---|---|---|\n")
		for _, c := range rep.Counterfactuals {
			fmt.Fprintf(&b, "| %s | %.2f | %.2f | %.2f | %s | %s |\n",
				c.State, c.ActualGapPP, c.CounterfactualGapPP, c.ReducibleGapPP,
				pct(c.PctGapReducible), c.ReferenceState)
		}
		b.WriteString("\n")
	}

	if len(rep.Comparisons) > 0 {
		b.WriteString("## Status Quo vs Improved Algorithm\n\n")
		b.WriteString("| State | SQ Sensitivity % | Improved Sensitivity % | Gain (pp) | SQ Gap (pp) | Improved Gap (pp) | Gap Reduction (pp) |\n")
		b.WriteString("|---|---|---|---|---|---|---|\n")
		for _, c := range rep.Comparisons {
			fmt.Fprintf(&b, "| %s | %.2f | %.2f | %.2f | %s | %s | %s |\n",
				c.State, c.SQOverallSensitivity, c.ImpOverallSensitivity, c.SensitivityGainPP,
				pp(c.SQGapPP), pp(c.ImpGapPP), pp(c.GapReductionPP))
		}
		b.WriteString("\n")
	}

	if len(rep.Coverage) > 0 {
		b.WriteString("## Projected Coverage Impact\n\n")
		b.WriteString("| State | Expansion Pop | Additional Identified | Coverage Losses Averted |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, c := range rep.Coverage {
			fmt.Fprintf(&b, "| %s | %d | %d | %d |\n",
				c.State, c.ExpansionPop, c.AdditionalIdentified, c.CoverageLossesAverted)
		}
		b.WriteString("\n")
	}

	if len(rep.Underidentification) > 0 {
		b.WriteString("## Under-Identification Channels\n\n")
		b.WriteString("| State | True Disability % | Identified % | Total Gap (pp) | Design | Visibility | Documentation |\n")
		b.WriteString("|---|---|---|---|---|---|---|\n")
		for _, u := range rep.Underidentification {
			fmt.Fprintf(&b, "| %s | %.1f | %.1f | %.2f | %.2f | %.2f | %.2f |\n",
				u.State, u.TrueDisabilityPct, u.StatusQuoIdentifiedPct,
				u.TotalUnderidentificationPP, u.DesignChannelPP,
				u.VisibilityChannelPP, u.DocumentationChannelPP)
		}
		b.WriteString("\n")
	}

	if len(rep.Sensitivity) > 0 {
		b.WriteString("## Parameter Sensitivity\n\n")
		b.WriteString("| Scenario | Mean Gain (pp) | Min | Max | All Positive |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for _, s := range rep.Sensitivity {
			fmt.Fprintf(&b, "| %s | %.2f | %.2f | %.2f | %t |\n",
				s.Scenario, s.MeanSensitivityGainPP, s.MinGainPP, s.MaxGainPP, s.AllPositive)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// HTML renders the markdown report as a complete HTML page.
func HTML(rep *audit.Report) []byte {
	md := []byte(Markdown(rep))
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: "Frailty Algorithm Audit",
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.Render(p.Parse(md), renderer)
}

// WriteFiles writes report.md and report.html into dir, creating it if
// needed.
func WriteFiles(rep *audit.Report, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "report.md"), []byte(Markdown(rep)), 0o644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "report.html"), HTML(rep), 0o644)
}

func short(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

func pct(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return fmt.Sprintf("%.1f%%", v)
}

func pp(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return fmt.Sprintf("%.2f", v)
}
