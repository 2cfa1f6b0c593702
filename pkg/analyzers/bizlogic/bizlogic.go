// Package bizlogic flags functions whose names suggest business rules or
// validation routines, by keyword matching over the Python syntax tree.
package bizlogic

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/codearcheology/archeo/pkg/classify"
	"github.com/codearcheology/archeo/pkg/pysrc"
	"github.com/codearcheology/archeo/pkg/report"
)

// businessKeywords are tested in order against the lower-cased function
// name; the first match wins and stops the scan for that function.
var businessKeywords = []string{
	"calculate", "compute", "process", "validate", "verify",
	"payment", "invoice", "order", "customer", "account",
	"price", "discount", "tax", "billing", "shipping",
	"user", "login", "authenticate", "authorize", "permission",
}

// validationKeywords trigger an additional, independent Validation Logic
// finding for the same function.
var validationKeywords = []string{"validate", "check", "verify"}

// Extractor is the business-logic stage.
type Extractor struct {
	parser *pysrc.Parser
	log    *slog.Logger
}

// NewExtractor creates the business-logic stage. A nil logger uses slog.Default.
func NewExtractor(parser *pysrc.Parser, log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.Default()
	}

	return &Extractor{parser: parser, log: log}
}

// Run inspects every function definition (including nested ones) in every
// Python file under root. Unreadable or unparseable files are skipped.
func (e *Extractor) Run(ctx context.Context, root string, rep *report.Report) error {
	err := classify.Walk(root, func(relPath, absPath string) error {
		if !strings.HasSuffix(relPath, pysrc.Extension) {
			return nil
		}

		content, readErr := os.ReadFile(absPath)
		if readErr != nil {
			e.log.Warn("could not extract from file", "file", relPath, "error", readErr)

			return nil
		}

		tree, parseErr := e.parser.Parse(ctx, content)
		if parseErr != nil {
			e.log.Warn("could not extract from file", "file", relPath, "error", parseErr)

			return nil
		}

		defer tree.Close()

		pysrc.Walk(tree.Root(), func(n sitter.Node) {
			if n.Type() != pysrc.NodeFunction {
				return
			}

			name := tree.FunctionName(n)
			if name == "" {
				return
			}

			ExtractFunction(relPath, name, rep)
		})

		return nil
	})
	if err != nil {
		return fmt.Errorf("bizlogic walk: %w", err)
	}

	return nil
}

// ExtractFunction applies the keyword heuristics to one function name. A
// function can yield zero, one, or two findings: the business and validation
// checks are independent, not mutually exclusive.
func ExtractFunction(relPath, funcName string, rep *report.Report) {
	lowered := strings.ToLower(funcName)

	for _, keyword := range businessKeywords {
		if strings.Contains(lowered, keyword) {
			rep.AddLogic(report.BusinessLogicFinding{
				Kind:        report.LogicBusinessFunction,
				File:        relPath,
				Function:    funcName,
				Description: fmt.Sprintf("Function appears to handle %s-related logic", keyword),
				Value:       "Potential API endpoint or business rule",
			})

			break
		}
	}

	for _, keyword := range validationKeywords {
		if strings.Contains(lowered, keyword) {
			rep.AddLogic(report.BusinessLogicFinding{
				Kind:        report.LogicValidation,
				File:        relPath,
				Function:    funcName,
				Description: "Input validation or business rule validation",
				Value:       "Could be extracted into reusable validation service",
			})

			break
		}
	}
}
