package complexity_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codearcheology/archeo/pkg/analyzers/complexity"
	"github.com/codearcheology/archeo/pkg/pysrc"
	"github.com/codearcheology/archeo/pkg/report"
)

func scoreOf(t *testing.T, source string) int {
	t.Helper()

	parser := pysrc.NewParser()

	tree, err := parser.Parse(context.Background(), []byte(source))
	require.NoError(t, err)

	defer tree.Close()

	return complexity.Score(tree)
}

func TestScore_StraightLine(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, scoreOf(t, "x = 1\ny = 2\n"))
}

func TestScore_NestedIfsWithBooleanOperands(t *testing.T) {
	t.Parallel()

	// 1 base + 4 ifs + 4 boolean operators = 9, under the smell threshold.
	source := `def deep(a, b, c, d, e, f, g, h):
    if a and b:
        if c and d:
            if e and f:
                if g and h:
                    return 1
    return 0
`
	assert.Equal(t, 9, scoreOf(t, source))
}

func TestScore_ElifCountsAsBranch(t *testing.T) {
	t.Parallel()

	source := `def pick(x):
    if x == 1:
        return "a"
    elif x == 2:
        return "b"
    else:
        return "c"
`
	// 1 base + if + elif; else is not a branch.
	assert.Equal(t, 3, scoreOf(t, source))
}

func TestScore_LoopsAndExceptClauses(t *testing.T) {
	t.Parallel()

	source := `def run(items):
    for item in items:
        while item:
            item -= 1
    try:
        open("x")
    except OSError:
        pass
    except ValueError:
        pass
`
	// 1 base + for + while + 2 except clauses.
	assert.Equal(t, 5, scoreOf(t, source))
}

func TestScore_BooleanChainAddsOperandsMinusOne(t *testing.T) {
	t.Parallel()

	// a and b and c: two operator nodes, matching operandCount - 1.
	assert.Equal(t, 3, scoreOf(t, "result = a and b and c\n"))
}

func TestAnalyzer_Run_AverageAndSmell(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	simple := "x = 1\n"

	complexSource := `def tangle(a, b, c, d, e, f):
    if a and b:
        if c and d:
            if e and f:
                for i in range(10):
                    while i:
                        if i == 2:
                            i -= 1
    return 0
`
	require.NoError(t, os.WriteFile(filepath.Join(root, "simple.py"), []byte(simple), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "tangle.py"), []byte(complexSource), 0o644))

	rep := report.New("p")
	analyzer := complexity.NewAnalyzer(pysrc.NewParser(), nil)
	require.NoError(t, analyzer.Run(context.Background(), root, rep))

	// tangle.py: 1 base + 4 ifs + for + while + 3 boolean operators = 10.
	// simple.py: 1. Average = 5.5.
	assert.InDelta(t, 5.5, rep.ComplexityScore, 0.0001)

	// 10 is not strictly greater than the threshold: no smell.
	assert.Empty(t, rep.CodeSmells)
}

func TestAnalyzer_Run_HighComplexitySmell(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	source := `def tangle(a, b, c, d, e, f, g, h):
    if a and b:
        if c and d:
            if e and f:
                if g and h:
                    for i in range(10):
                        while i:
                            i -= 1
    return 0
`
	require.NoError(t, os.WriteFile(filepath.Join(root, "tangle.py"), []byte(source), 0o644))

	rep := report.New("p")
	analyzer := complexity.NewAnalyzer(pysrc.NewParser(), nil)
	require.NoError(t, analyzer.Run(context.Background(), root, rep))

	// 1 base + 4 ifs + for + while + 4 boolean operators = 11 > 10.
	require.Len(t, rep.CodeSmells, 1)
	smell := rep.CodeSmells[0]
	assert.Equal(t, report.SmellHighComplexity, smell.Kind)
	assert.Equal(t, "tangle.py", smell.File)
	assert.Equal(t, 1, smell.Line)
	assert.Equal(t, "File has cyclomatic complexity of 11", smell.Description)
	assert.InDelta(t, 11.0, rep.ComplexityScore, 0.0001)
}

func TestAnalyzer_Run_ParseFailureIsSoft(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "broken.py"), []byte("def broken(:\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "ok.py"), []byte("if x:\n    pass\n"), 0o644))

	rep := report.New("p")
	analyzer := complexity.NewAnalyzer(pysrc.NewParser(), nil)
	require.NoError(t, analyzer.Run(context.Background(), root, rep))

	// Only ok.py contributes: 1 base + 1 if.
	assert.InDelta(t, 2.0, rep.ComplexityScore, 0.0001)
}

func TestAnalyzer_Run_NoFiles(t *testing.T) {
	t.Parallel()

	rep := report.New("p")
	analyzer := complexity.NewAnalyzer(pysrc.NewParser(), nil)
	require.NoError(t, analyzer.Run(context.Background(), t.TempDir(), rep))

	assert.Zero(t, rep.ComplexityScore)
}
