package validate

import (
	"fmt"
	"strings"

	"github.com/mbellot/veracite/model"
)

const reportRule = "================================================================================"

// FormatReport renders a grounding report as human-readable plain text,
// suitable for logs and operator review.
func FormatReport(report *model.GroundingReport) string {
	var b strings.Builder

	b.WriteString(reportRule + "\n")
	b.WriteString("CITATION VALIDATION REPORT\n")
	b.WriteString(reportRule + "\n\n")

	fmt.Fprintf(&b, "Valid citations:    %d/%d\n", report.ValidCount, report.Total)
	fmt.Fprintf(&b, "Invalid citations:  %d\n", len(report.InvalidSpans))
	fmt.Fprintf(&b, "Warnings:           %d\n", len(report.Warnings))
	fmt.Fprintf(&b, "Hallucination rate: %.1f%%\n", report.HallucinationRate*100)

	if len(report.InvalidSpans) > 0 {
		b.WriteString("\nINVALID CITATIONS (HALLUCINATIONS):\n")
		for i, span := range report.InvalidSpans {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, span)
		}
	}

	if len(report.Warnings) > 0 {
		b.WriteString("\nWARNINGS:\n")
		for _, warning := range report.Warnings {
			fmt.Fprintf(&b, "  - %s\n", warning)
		}
	}

	b.WriteString("\n" + reportRule)

	return b.String()
}
