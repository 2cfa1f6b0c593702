// Package security scans raw source lines for common risk patterns.
//
// This is a textual pass over five languages; it never consults a syntax
// tree. Findings are heuristic: a line that merely looks like a risky
// construct is reported, and that is acceptable as long as it is
// deterministic.
package security

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/codearcheology/archeo/pkg/classify"
	"github.com/codearcheology/archeo/pkg/report"
	"github.com/codearcheology/archeo/pkg/textutil"
)

// scannedExtensions are the languages scanned textually for risk patterns.
var scannedExtensions = map[string]bool{
	".py":   true,
	".js":   true,
	".php":  true,
	".java": true,
	".go":   true,
}

type pattern struct {
	re          *regexp.Regexp
	kind        report.IssueKind
	severity    report.Severity
	description string
}

// patterns are tested in order against every line. A line may match several
// patterns and yields one finding per match; nothing is deduplicated.
var patterns = []pattern{
	{
		re:          regexp.MustCompile(`(?i)(password|pwd|pass)\s*=\s*["'][^"']+["']`),
		kind:        report.IssueHardcodedPassword,
		severity:    report.SeverityMedium,
		description: "Potential hardcoded password found",
	},
	{
		re:          regexp.MustCompile(`(?i)(SELECT|INSERT|UPDATE|DELETE).*\+.*["']`),
		kind:        report.IssueSQLInjection,
		severity:    report.SeverityHigh,
		description: "Potential sql injection found",
	},
	{
		re:          regexp.MustCompile(`(?i)(secret|token|key)\s*=\s*["'][^"']{8,}["']`),
		kind:        report.IssueHardcodedSecret,
		severity:    report.SeverityMedium,
		description: "Potential hardcoded secret found",
	},
	{
		re:          regexp.MustCompile(`(?i)\beval\s*\(`),
		kind:        report.IssueUnsafeEval,
		severity:    report.SeverityMedium,
		description: "Potential unsafe eval found",
	},
	{
		re:          regexp.MustCompile(`(?i)(os\.system|subprocess\.call|exec).*\+`),
		kind:        report.IssueShellInjection,
		severity:    report.SeverityHigh,
		description: "Potential shell injection found",
	},
}

// Detector is the security-scanning stage.
type Detector struct {
	log *slog.Logger
}

// NewDetector creates the security stage. A nil logger uses slog.Default.
func NewDetector(log *slog.Logger) *Detector {
	if log == nil {
		log = slog.Default()
	}

	return &Detector{log: log}
}

// Run scans every eligible file under root line by line, appending issues
// to rep in traversal-then-line order. Unreadable files are skipped.
func (d *Detector) Run(root string, rep *report.Report) error {
	err := classify.Walk(root, func(relPath, absPath string) error {
		if !scannedExtensions[strings.ToLower(filepath.Ext(relPath))] {
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
		return fmt.Errorf("security walk: %w", err)
	}

	return nil
}

// ScanLines tests every line of content against all risk patterns and
// appends one issue per match to rep. Line numbers are 1-based.
func ScanLines(relPath, content string, rep *report.Report) {
	for i, line := range textutil.SplitLines(content) {
		for _, p := range patterns {
			if p.re.MatchString(line) {
				rep.AddIssue(report.SecurityIssue{
					Kind:        p.kind,
					Severity:    p.severity,
					File:        relPath,
					Line:        i + 1,
					Description: p.description,
				})
			}
		}
	}
}
