// Package recommend synthesizes prioritized advisory strings from the
// aggregated findings of a finished analysis.
package recommend

import (
	"fmt"

	"github.com/codearcheology/archeo/pkg/classify"
	"github.com/codearcheology/archeo/pkg/report"
)

// Thresholds for the individual checks. The check order is fixed and
// determines recommendation order.
const (
	complexityThreshold    = 8
	businessLogicThreshold = 5
	languageThreshold      = 5
	smellThreshold         = 20
)

// Advisory strings. The fallback is emitted only when no other check fires.
const (
	msgRefactor      = "High code complexity detected. Consider refactoring complex functions into smaller, more manageable pieces."
	msgSecurityCI    = "Implement security scanning in your CI/CD pipeline."
	msgServiceLayer  = "Significant business logic detected. Consider extracting into dedicated service layer or APIs."
	msgConsolidate   = "Multiple programming languages detected. Consider consolidating or creating clear service boundaries."
	msgModernization = "Legacy languages detected. Plan modernization strategy to avoid technical debt."
	msgFallback      = "Codebase appears well-maintained. Continue monitoring complexity and security."
)

// Synthesize computes the ordered recommendation list for rep. It is a pure
// function of the aggregates: identical inputs always yield the identical
// sequence.
func Synthesize(rep *report.Report) []string {
	var recommendations []string

	if rep.ComplexityScore > complexityThreshold {
		recommendations = append(recommendations, msgRefactor)
	}

	if len(rep.SecurityIssues) > 0 {
		high := rep.HighSeverityCount()
		if high > 0 {
			recommendations = append(recommendations,
				fmt.Sprintf("URGENT: %d high-severity security issues found. Address immediately.", high))
		}

		recommendations = append(recommendations, msgSecurityCI)
	}

	if len(rep.BusinessLogic) > businessLogicThreshold {
		recommendations = append(recommendations, msgServiceLayer)
	}

	if len(rep.Languages) > languageThreshold {
		recommendations = append(recommendations, msgConsolidate)
	}

	if count := len(rep.CodeSmells); count > smellThreshold {
		recommendations = append(recommendations,
			fmt.Sprintf("%d code quality issues found. Implement linting and code review processes.", count))
	}

	if hasLegacyLanguage(rep) {
		recommendations = append(recommendations, msgModernization)
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations, msgFallback)
	}

	return recommendations
}

func hasLegacyLanguage(rep *report.Report) bool {
	_, cobol := rep.Languages[classify.LanguageCOBOL]
	_, fortran := rep.Languages[classify.LanguageFortran]

	return cobol || fortran
}
