// Package report defines the analysis report accumulator and its findings.
//
// A Report is owned exclusively by one pipeline run: stages append findings
// and increase counters, nothing is removed or rewritten once added, and the
// value is immutable after the pipeline returns it.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// Severity classifies how urgent a security issue is.
type Severity string

// Severity levels.
const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
)

// IssueKind identifies a security issue category.
type IssueKind string

// Security issue kinds.
const (
	IssueHardcodedPassword IssueKind = "Hardcoded Password"
	IssueSQLInjection      IssueKind = "Sql Injection"
	IssueHardcodedSecret   IssueKind = "Hardcoded Secret"
	IssueUnsafeEval        IssueKind = "Unsafe Eval"
	IssueShellInjection    IssueKind = "Shell Injection"
)

// SmellKind identifies a maintainability smell category.
type SmellKind string

// Code smell kinds.
const (
	SmellHighComplexity SmellKind = "High Complexity"
	SmellLongLine       SmellKind = "Long Line"
	SmellTechnicalDebt  SmellKind = "Technical Debt"
	SmellMagicNumber    SmellKind = "Magic Number"
)

// LogicKind identifies a business-logic finding category.
type LogicKind string

// Business-logic finding kinds.
const (
	LogicBusinessFunction LogicKind = "Business Function"
	LogicValidation       LogicKind = "Validation Logic"
)

// SecurityIssue is a single pattern match in one line of one file.
// File is always relative to the scan root; Line is 1-based.
type SecurityIssue struct {
	Kind        IssueKind `json:"type"        yaml:"type"`
	Severity    Severity  `json:"severity"    yaml:"severity"`
	File        string    `json:"file"        yaml:"file"`
	Line        int       `json:"line"        yaml:"line"`
	Description string    `json:"description" yaml:"description"`
}

// CodeSmell is a single maintainability finding with a remediation hint.
type CodeSmell struct {
	Kind        SmellKind `json:"type"        yaml:"type"`
	File        string    `json:"file"        yaml:"file"`
	Line        int       `json:"line"        yaml:"line"`
	Description string    `json:"description" yaml:"description"`
	Suggestion  string    `json:"suggestion"  yaml:"suggestion"`
}

// BusinessLogicFinding flags a function whose name suggests domain logic.
type BusinessLogicFinding struct {
	Kind        LogicKind `json:"type"        yaml:"type"`
	File        string    `json:"file"        yaml:"file"`
	Function    string    `json:"function"    yaml:"function"`
	Description string    `json:"description" yaml:"description"`
	Value       string    `json:"value"       yaml:"value"`
}

// Report is the single mutable accumulator for one analysis run.
type Report struct {
	ProjectName     string                 `json:"project_name"     yaml:"project_name"`
	TotalFiles      int                    `json:"total_files"      yaml:"total_files"`
	TotalLines      int                    `json:"total_lines"      yaml:"total_lines"`
	Languages       map[string]int         `json:"languages"        yaml:"languages"`
	ComplexityScore float64                `json:"complexity_score" yaml:"complexity_score"`
	SecurityIssues  []SecurityIssue        `json:"security_issues"  yaml:"security_issues"`
	CodeSmells      []CodeSmell            `json:"code_smells"      yaml:"code_smells"`
	BusinessLogic   []BusinessLogicFinding `json:"business_logic"   yaml:"business_logic"`
	Recommendations []string               `json:"recommendations"  yaml:"recommendations"`
	GeneratedAt     time.Time              `json:"generated_at"     yaml:"generated_at"`
}

// New creates an empty report for the named project. Finding sequences are
// initialized non-nil so empty reports serialize as [] rather than null.
func New(projectName string) *Report {
	return &Report{
		ProjectName:     projectName,
		Languages:       make(map[string]int),
		SecurityIssues:  []SecurityIssue{},
		CodeSmells:      []CodeSmell{},
		BusinessLogic:   []BusinessLogicFinding{},
		Recommendations: []string{},
		GeneratedAt:     time.Now(),
	}
}

// AddIssue appends a security issue in discovery order.
func (r *Report) AddIssue(issue SecurityIssue) {
	r.SecurityIssues = append(r.SecurityIssues, issue)
}

// AddSmell appends a code smell in discovery order.
func (r *Report) AddSmell(smell CodeSmell) {
	r.CodeSmells = append(r.CodeSmells, smell)
}

// AddLogic appends a business-logic finding in discovery order.
func (r *Report) AddLogic(finding BusinessLogicFinding) {
	r.BusinessLogic = append(r.BusinessLogic, finding)
}

// HighSeverityCount returns the number of High-severity security issues.
func (r *Report) HighSeverityCount() int {
	count := 0

	for _, issue := range r.SecurityIssues {
		if issue.Severity == SeverityHigh {
			count++
		}
	}

	return count
}

// EncodeJSON writes the report as indented JSON.
func (r *Report) EncodeJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(r)
	if err != nil {
		return fmt.Errorf("encode report json: %w", err)
	}

	return nil
}

// EncodeYAML writes the report as YAML.
func (r *Report) EncodeYAML(w io.Writer) error {
	encoder := yaml.NewEncoder(w)

	err := encoder.Encode(r)
	if err != nil {
		return fmt.Errorf("encode report yaml: %w", err)
	}

	err = encoder.Close()
	if err != nil {
		return fmt.Errorf("close yaml encoder: %w", err)
	}

	return nil
}
