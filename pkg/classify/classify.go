// Package classify discovers files under a scan root, maps them to languages
// by extension, and counts non-blank lines.
package classify

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/codearcheology/archeo/pkg/report"
	"github.com/codearcheology/archeo/pkg/textutil"
)

// languageByExt is the closed vocabulary of recognized extensions. Files
// outside this table are invisible to the report: not counted, not scanned.
var languageByExt = map[string]string{
	".py":   "Python",
	".js":   "JavaScript",
	".ts":   "TypeScript",
	".go":   "Go",
	".java": "Java",
	".c":    "C",
	".cpp":  "C++",
	".cs":   "C#",
	".php":  "PHP",
	".rb":   "Ruby",
	".rs":   "Rust",
	".sql":  "SQL",
	".html": "HTML",
	".css":  "CSS",
	".sh":   "Shell",
	".yaml": "YAML",
	".yml":  "YAML",
	".json": "JSON",
	".xml":  "XML",
	".cob":  "COBOL",
	".cbl":  "COBOL",
	".for":  "Fortran",
}

// Legacy language markers that trigger the modernization recommendation.
const (
	LanguageCOBOL   = "COBOL"
	LanguageFortran = "Fortran"
	LanguagePython  = "Python"
)

// exclusionMarkers are matched as substrings of the whole relative path, not
// as path segments. A file or directory whose name merely contains a marker
// is therefore also excluded. Known limitation, kept for report parity.
var exclusionMarkers = []string{
	"node_modules", ".git", "__pycache__", ".pytest_cache",
	"venv", ".venv", "vendor", "target", "build", "dist",
	".idea", ".vscode", ".DS_Store",
}

// Language returns the report language for a path's extension.
func Language(path string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	lang, ok := languageByExt[ext]

	return lang, ok
}

// Excluded reports whether a root-relative path contains any exclusion marker.
func Excluded(relPath string) bool {
	slashed := filepath.ToSlash(relPath)

	for _, marker := range exclusionMarkers {
		if strings.Contains(slashed, marker) {
			return true
		}
	}

	return false
}

// Walk enumerates regular files under root in deterministic lexical order,
// invoking visit with the slash-separated root-relative path and the absolute
// path. Excluded paths are never visited; excluded directories are pruned.
func Walk(root string, visit func(relPath, absPath string) error) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			// The root itself failing to read means the walk saw nothing;
			// that must surface. Unreadable subtrees below it are a soft
			// failure: skip and continue.
			if path == root {
				return fmt.Errorf("read walk root: %w", err)
			}

			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}

		rel = filepath.ToSlash(rel)

		if entry.IsDir() {
			if Excluded(rel) {
				return filepath.SkipDir
			}

			return nil
		}

		if !entry.Type().IsRegular() || Excluded(rel) {
			return nil
		}

		return visit(rel, path)
	})
}

// Scanner is the file-discovery stage: it fills in total file and line
// counts and the language histogram.
type Scanner struct {
	log *slog.Logger
}

// NewScanner creates the discovery stage. A nil logger uses slog.Default.
func NewScanner(log *slog.Logger) *Scanner {
	if log == nil {
		log = slog.Default()
	}

	return &Scanner{log: log}
}

// Run walks the tree and accumulates counts into rep. Per-file read or
// decode failures contribute zero lines; the file itself is still counted.
func (s *Scanner) Run(root string, rep *report.Report) error {
	return Walk(root, func(relPath, absPath string) error {
		lang, ok := Language(relPath)
		if !ok {
			return nil
		}

		rep.Languages[lang]++
		rep.TotalFiles++

		content, err := os.ReadFile(absPath)
		if err != nil {
			s.log.Warn("could not read file", "file", relPath, "error", err)

			return nil
		}

		if textutil.IsBinary(content) {
			return nil
		}

		rep.TotalLines += textutil.CountNonBlank(content)

		return nil
	})
}
