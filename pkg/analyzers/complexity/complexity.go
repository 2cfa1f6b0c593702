// Package complexity scores Python files with a file-scoped structural
// complexity metric derived from their syntax trees.
package complexity

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/codearcheology/archeo/pkg/classify"
	"github.com/codearcheology/archeo/pkg/pysrc"
	"github.com/codearcheology/archeo/pkg/report"
)

const (
	// baseComplexity is the single straight-line path every file starts with.
	baseComplexity = 1

	// smellThreshold is the per-file score above which a High Complexity
	// smell is emitted. Strictly greater-than.
	smellThreshold = 10

	roundFactor = 100
)

// Analyzer is the complexity-scoring stage.
type Analyzer struct {
	parser *pysrc.Parser
	log    *slog.Logger
}

// NewAnalyzer creates the complexity stage. A nil logger uses slog.Default.
func NewAnalyzer(parser *pysrc.Parser, log *slog.Logger) *Analyzer {
	if log == nil {
		log = slog.Default()
	}

	return &Analyzer{parser: parser, log: log}
}

// Run scores every Python file under root and sets the project-level
// average on rep. Files that cannot be read or parsed are skipped with a
// warning and contribute nothing.
func (a *Analyzer) Run(ctx context.Context, root string, rep *report.Report) error {
	total := 0
	analyzed := 0

	err := classify.Walk(root, func(relPath, absPath string) error {
		if !strings.HasSuffix(relPath, pysrc.Extension) {
			return nil
		}

		content, readErr := os.ReadFile(absPath)
		if readErr != nil {
			a.log.Warn("could not analyze file", "file", relPath, "error", readErr)

			return nil
		}

		tree, parseErr := a.parser.Parse(ctx, content)
		if parseErr != nil {
			a.log.Warn("could not analyze file", "file", relPath, "error", parseErr)

			return nil
		}

		defer tree.Close()

		score := Score(tree)
		total += score
		analyzed++

		if score > smellThreshold {
			rep.AddSmell(report.CodeSmell{
				Kind:        report.SmellHighComplexity,
				File:        relPath,
				Line:        1,
				Description: fmt.Sprintf("File has cyclomatic complexity of %d", score),
				Suggestion:  "Consider breaking down complex functions",
			})
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("complexity walk: %w", err)
	}

	if analyzed > 0 {
		rep.ComplexityScore = round2(float64(total) / float64(analyzed))
	}

	return nil
}

// Score computes the structural complexity of one parsed file: 1 for the
// base path, 1 per conditional branch (if, elif, while, for), 1 per except
// clause, and 1 per short-circuit boolean operator. All function bodies in
// the file are summed together; this is not a per-function cyclomatic
// complexity.
func Score(tree *pysrc.Tree) int {
	score := baseComplexity

	pysrc.Walk(tree.Root(), func(n sitter.Node) {
		switch n.Type() {
		case pysrc.NodeIf, pysrc.NodeElif, pysrc.NodeWhile, pysrc.NodeFor:
			score++
		case pysrc.NodeExcept:
			score++
		case pysrc.NodeBoolOp:
			score++
		}
	})

	return score
}

func round2(v float64) float64 {
	return math.Round(v*roundFactor) / roundFactor
}
