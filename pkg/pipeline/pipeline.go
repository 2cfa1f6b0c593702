// Package pipeline wires the analysis stages into a single run over one
// source tree. Stages execute sequentially and share a mutable report
// accumulator; a later stage may read what an earlier stage wrote (the
// recommendation stage reads everything).
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/codearcheology/archeo/pkg/analyzers/bizlogic"
	"github.com/codearcheology/archeo/pkg/analyzers/complexity"
	"github.com/codearcheology/archeo/pkg/analyzers/recommend"
	"github.com/codearcheology/archeo/pkg/analyzers/security"
	"github.com/codearcheology/archeo/pkg/analyzers/smells"
	"github.com/codearcheology/archeo/pkg/classify"
	"github.com/codearcheology/archeo/pkg/pysrc"
	"github.com/codearcheology/archeo/pkg/report"
)

// ErrNotDirectory is returned when the analysis root exists but is not a
// directory.
var ErrNotDirectory = errors.New("analysis root is not a directory")

// Pipeline runs the fixed stage sequence over a source tree.
type Pipeline struct {
	parser *pysrc.Parser
	log    *slog.Logger
}

// New creates a pipeline. All Python-parsing stages share one parser pool.
func New(log *slog.Logger) *Pipeline {
	return &Pipeline{
		parser: pysrc.NewParser(),
		log:    log,
	}
}

// Analyze runs every stage over the tree rooted at root and returns the
// finished report. The root must exist and be a directory; anything below
// that bar is a per-file matter and only degrades the findings.
func (p *Pipeline) Analyze(ctx context.Context, root string) (*report.Report, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve analysis root: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat analysis root: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, abs)
	}

	// Stat succeeds on a directory whose entries cannot be listed; every
	// stage would then walk an empty tree and the run would "succeed".
	// An unreadable root is fatal, not an empty project.
	_, err = os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read analysis root: %w", err)
	}

	rep := report.New(filepath.Base(abs))

	p.log.Info("analysis started", "root", abs, "project", rep.ProjectName)

	err = classify.NewScanner(p.log).Run(abs, rep)
	if err != nil {
		return nil, fmt.Errorf("classify stage: %w", err)
	}

	err = complexity.NewAnalyzer(p.parser, p.log).Run(ctx, abs, rep)
	if err != nil {
		return nil, fmt.Errorf("complexity stage: %w", err)
	}

	err = security.NewDetector(p.log).Run(abs, rep)
	if err != nil {
		return nil, fmt.Errorf("security stage: %w", err)
	}

	err = smells.NewDetector(p.log).Run(abs, rep)
	if err != nil {
		return nil, fmt.Errorf("smells stage: %w", err)
	}

	err = bizlogic.NewExtractor(p.parser, p.log).Run(ctx, abs, rep)
	if err != nil {
		return nil, fmt.Errorf("business logic stage: %w", err)
	}

	rep.Recommendations = recommend.Synthesize(rep)

	p.log.Info("analysis finished",
		"files", rep.TotalFiles,
		"lines", rep.TotalLines,
		"security_issues", len(rep.SecurityIssues),
		"code_smells", len(rep.CodeSmells),
		"business_logic", len(rep.BusinessLogic))

	return rep, nil
}
