// Package smells flags maintainability issues in Python source, read as raw
// lines: overlong lines, debt markers, and magic numbers.
package smells

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/codearcheology/archeo/pkg/classify"
	"github.com/codearcheology/archeo/pkg/pysrc"
	"github.com/codearcheology/archeo/pkg/report"
	"github.com/codearcheology/archeo/pkg/textutil"
)

// maxLineLength is the longest acceptable raw line, excluding the terminator.
const maxLineLength = 120

// debtMarkers are matched case-sensitively against the trimmed line.
var debtMarkers = []string{"TODO", "FIXME"}

// magicNumberRe matches two or more consecutive digits. It is deliberately
// over-inclusive: digits inside strings, comments not starting with '#',
// and version literals all match. Kept for report parity.
var magicNumberRe = regexp.MustCompile(`\b\d{2,}\b`)

const commentPrefix = "#"

// Detector is the smell-scanning stage.
type Detector struct {
	log *slog.Logger
}

// NewDetector creates the smell stage. A nil logger uses slog.Default.
func NewDetector(log *slog.Logger) *Detector {
	if log == nil {
		log = slog.Default()
	}

	return &Detector{log: log}
}

// Run scans every Python file under root. Unreadable files are skipped.
func (d *Detector) Run(root string, rep *report.Report) error {
	err := classify.Walk(root, func(relPath, absPath string) error {
		if !strings.HasSuffix(relPath, pysrc.Extension) {
			return nil
		}

		content, readErr := os.ReadFile(absPath)
		if readErr != nil {
			d.log.Warn("could not scan file", "file", relPath, "error", readErr)

			return nil
		}

		ScanLines(relPath, string(content), rep)

		return nil
	})
	if err != nil {
		return fmt.Errorf("smells walk: %w", err)
	}

	return nil
}

// ScanLines applies the three per-line checks independently; a single line
// can produce up to three smells. Line numbers are 1-based.
func ScanLines(relPath, content string, rep *report.Report) {
	for i, line := range textutil.SplitLines(content) {
		lineNo := i + 1
		trimmed := strings.TrimSpace(line)

		if len(line) > maxLineLength {
			rep.AddSmell(report.CodeSmell{
				Kind:        report.SmellLongLine,
				File:        relPath,
				Line:        lineNo,
				Description: fmt.Sprintf("Line too long (%d characters)", len(line)),
				Suggestion:  "Break line into multiple lines",
			})
		}

		if containsDebtMarker(trimmed) {
			rep.AddSmell(report.CodeSmell{
				Kind:        report.SmellTechnicalDebt,
				File:        relPath,
				Line:        lineNo,
				Description: "TODO/FIXME comment found",
				Suggestion:  "Address pending work item",
			})
		}

		if magicNumberRe.MatchString(trimmed) && !strings.HasPrefix(trimmed, commentPrefix) {
			rep.AddSmell(report.CodeSmell{
				Kind:        report.SmellMagicNumber,
				File:        relPath,
				Line:        lineNo,
				Description: "Magic number found",
				Suggestion:  "Replace with named constant",
			})
		}
	}
}

func containsDebtMarker(trimmed string) bool {
	for _, marker := range debtMarkers {
		if strings.Contains(trimmed, marker) {
			return true
		}
	}

	return false
}
