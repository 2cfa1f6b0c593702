package classify_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codearcheology/archeo/pkg/classify"
	"github.com/codearcheology/archeo/pkg/report"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()

	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLanguage(t *testing.T) {
	t.Parallel()

	lang, ok := classify.Language("src/app.py")
	assert.True(t, ok)
	assert.Equal(t, "Python", lang)

	lang, ok = classify.Language("legacy/PAYROLL.CBL")
	assert.True(t, ok)
	assert.Equal(t, "COBOL", lang)

	_, ok = classify.Language("README.md")
	assert.False(t, ok)

	_, ok = classify.Language("Makefile")
	assert.False(t, ok)
}

func TestExcluded_SubstringSemantics(t *testing.T) {
	t.Parallel()

	assert.True(t, classify.Excluded("node_modules/left-pad/index.js"))
	assert.True(t, classify.Excluded(".git/config"))
	assert.True(t, classify.Excluded("src/vendor/lib.py"))

	// Substring match, not path-segment match: a name that merely contains
	// a marker is excluded too.
	assert.True(t, classify.Excluded("rebuild/main.py"))
	assert.True(t, classify.Excluded("district.py"))

	assert.False(t, classify.Excluded("src/app.py"))
}

func TestWalk_DeterministicOrder(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "b.py", "x = 1\n")
	writeFile(t, root, "a/z.py", "y = 2\n")
	writeFile(t, root, "a/c.py", "z = 3\n")

	var got []string

	require.NoError(t, classify.Walk(root, func(rel, _ string) error {
		got = append(got, rel)

		return nil
	}))

	assert.Equal(t, []string{"a/c.py", "a/z.py", "b.py"}, got)
}

func TestWalk_UnreadableRootIsError(t *testing.T) {
	t.Parallel()

	if os.Geteuid() == 0 {
		t.Skip("permission bits do not bind for root")
	}

	root := filepath.Join(t.TempDir(), "sealed")
	require.NoError(t, os.MkdirAll(root, 0o755))
	writeFile(t, root, "a.py", "x = 1\n")

	require.NoError(t, os.Chmod(root, 0o000))
	t.Cleanup(func() { _ = os.Chmod(root, 0o755) })

	err := classify.Walk(root, func(_, _ string) error { return nil })

	require.Error(t, err)
	assert.ErrorContains(t, err, "read walk root")
}

func TestWalk_UnreadableSubtreeIsSkipped(t *testing.T) {
	t.Parallel()

	if os.Geteuid() == 0 {
		t.Skip("permission bits do not bind for root")
	}

	root := t.TempDir()
	writeFile(t, root, "a.py", "x = 1\n")
	writeFile(t, root, "sealed/b.py", "y = 2\n")

	require.NoError(t, os.Chmod(filepath.Join(root, "sealed"), 0o000))
	t.Cleanup(func() { _ = os.Chmod(filepath.Join(root, "sealed"), 0o755) })

	var visited []string

	err := classify.Walk(root, func(rel, _ string) error {
		visited = append(visited, rel)

		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"a.py"}, visited)
}

func TestWalk_PrunesExcludedDirectories(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "node_modules/pkg/index.js", "var a = 1;\n")
	writeFile(t, root, "src/app.py", "x = 1\n")

	var got []string

	require.NoError(t, classify.Walk(root, func(rel, _ string) error {
		got = append(got, rel)

		return nil
	}))

	assert.Equal(t, []string{"src/app.py"}, got)
}

func TestScanner_Run(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "app.py", "import os\n\nx = 1\n")
	writeFile(t, root, "web/index.js", "var a = 1;\n")
	writeFile(t, root, "web/style.css", "body {}\n\n")
	writeFile(t, root, "README.md", "ignored\n")

	rep := report.New("p")
	require.NoError(t, classify.NewScanner(nil).Run(root, rep))

	assert.Equal(t, 3, rep.TotalFiles)
	assert.Equal(t, 4, rep.TotalLines)
	assert.Equal(t, map[string]int{"Python": 1, "JavaScript": 1, "CSS": 1}, rep.Languages)
}

func TestScanner_Run_EmptyTree(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "notes.txt", "unrecognized\n")

	rep := report.New("p")
	require.NoError(t, classify.NewScanner(nil).Run(root, rep))

	assert.Zero(t, rep.TotalFiles)
	assert.Zero(t, rep.TotalLines)
	assert.Empty(t, rep.Languages)
}

func TestScanner_Run_BinaryContributesZeroLines(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "blob.py"), []byte{0x00, 0x01, 0x02}, 0o644))

	rep := report.New("p")
	require.NoError(t, classify.NewScanner(nil).Run(root, rep))

	// Counted as a file, zero line contribution.
	assert.Equal(t, 1, rep.TotalFiles)
	assert.Zero(t, rep.TotalLines)
	assert.Equal(t, 1, rep.Languages["Python"])
}

func TestScanner_TotalFilesMatchesHistogram(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "a.py", "x = 1\n")
	writeFile(t, root, "b.go", "package main\n")
	writeFile(t, root, "c.rb", "puts 1\n")

	rep := report.New("p")
	require.NoError(t, classify.NewScanner(nil).Run(root, rep))

	sum := 0
	for _, n := range rep.Languages {
		sum += n
	}

	assert.Equal(t, rep.TotalFiles, sum)
}
