// Package render turns a finished analysis report into human-facing output:
// a colored terminal summary and an HTML chart page.
package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/codearcheology/archeo/pkg/report"
)

const maxListedFindings = 25

// Terminal writes a report summary suitable for an interactive console.
type Terminal struct {
	// NoColor disables ANSI sequences regardless of terminal detection.
	NoColor bool
}

// Write renders the full terminal summary of rep to w.
func (t *Terminal) Write(w io.Writer, rep *report.Report) error {
	if t.NoColor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	}

	heading := color.New(color.FgCyan, color.Bold)

	_, err := heading.Fprintf(w, "=== %s ===\n\n", rep.ProjectName)
	if err != nil {
		return fmt.Errorf("render summary: %w", err)
	}

	fmt.Fprintf(w, "Files: %s  Lines: %s  Complexity: %.2f\n\n",
		humanize.Comma(int64(rep.TotalFiles)),
		humanize.Comma(int64(rep.TotalLines)),
		rep.ComplexityScore)

	writeLanguageTable(w, rep)
	writeSecurityTable(w, rep)
	writeSmellTable(w, rep)
	writeLogicTable(w, rep)
	writeRecommendations(w, rep)

	return nil
}

func newTable(w io.Writer, title string) table.Writer {
	fmt.Fprintln(w, title)

	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false

	return tbl
}

func writeLanguageTable(w io.Writer, rep *report.Report) {
	if len(rep.Languages) == 0 {
		return
	}

	names := make([]string, 0, len(rep.Languages))
	for name := range rep.Languages {
		names = append(names, name)
	}

	// Largest first, name as tie breaker so output is stable.
	sort.Slice(names, func(i, j int) bool {
		if rep.Languages[names[i]] != rep.Languages[names[j]] {
			return rep.Languages[names[i]] > rep.Languages[names[j]]
		}

		return names[i] < names[j]
	})

	tbl := newTable(w, "Languages")
	tbl.AppendHeader(table.Row{"Language", "Files"})

	for _, name := range names {
		tbl.AppendRow(table.Row{name, rep.Languages[name]})
	}

	tbl.Render()
	fmt.Fprintln(w)
}

func writeSecurityTable(w io.Writer, rep *report.Report) {
	if len(rep.SecurityIssues) == 0 {
		return
	}

	tbl := newTable(w, fmt.Sprintf("Security Issues (%d)", len(rep.SecurityIssues)))
	tbl.AppendHeader(table.Row{"Severity", "Type", "Location", "Description"})

	severityColor := map[report.Severity]*color.Color{
		report.SeverityHigh:   color.New(color.FgRed, color.Bold),
		report.SeverityMedium: color.New(color.FgYellow),
	}

	for i, issue := range rep.SecurityIssues {
		if i == maxListedFindings {
			tbl.AppendFooter(table.Row{fmt.Sprintf("... and %d more", len(rep.SecurityIssues)-i)})

			break
		}

		severity := string(issue.Severity)
		if c, ok := severityColor[issue.Severity]; ok {
			severity = c.Sprint(severity)
		}

		tbl.AppendRow(table.Row{
			severity,
			issue.Kind,
			fmt.Sprintf("%s:%d", issue.File, issue.Line),
			issue.Description,
		})
	}

	tbl.Render()
	fmt.Fprintln(w)
}

func writeSmellTable(w io.Writer, rep *report.Report) {
	if len(rep.CodeSmells) == 0 {
		return
	}

	tbl := newTable(w, fmt.Sprintf("Code Smells (%d)", len(rep.CodeSmells)))
	tbl.AppendHeader(table.Row{"Type", "Location", "Suggestion"})

	for i, smell := range rep.CodeSmells {
		if i == maxListedFindings {
			tbl.AppendFooter(table.Row{fmt.Sprintf("... and %d more", len(rep.CodeSmells)-i)})

			break
		}

		tbl.AppendRow(table.Row{
			smell.Kind,
			fmt.Sprintf("%s:%d", smell.File, smell.Line),
			smell.Suggestion,
		})
	}

	tbl.Render()
	fmt.Fprintln(w)
}

func writeLogicTable(w io.Writer, rep *report.Report) {
	if len(rep.BusinessLogic) == 0 {
		return
	}

	tbl := newTable(w, fmt.Sprintf("Business Logic (%d)", len(rep.BusinessLogic)))
	tbl.AppendHeader(table.Row{"Type", "Function", "File"})

	for i, finding := range rep.BusinessLogic {
		if i == maxListedFindings {
			tbl.AppendFooter(table.Row{fmt.Sprintf("... and %d more", len(rep.BusinessLogic)-i)})

			break
		}

		tbl.AppendRow(table.Row{finding.Kind, finding.Function, finding.File})
	}

	tbl.Render()
	fmt.Fprintln(w)
}

func writeRecommendations(w io.Writer, rep *report.Report) {
	if len(rep.Recommendations) == 0 {
		return
	}

	fmt.Fprintln(w, "Recommendations")

	bullet := color.New(color.FgGreen)

	for _, rec := range rep.Recommendations {
		bullet.Fprint(w, "  - ")
		fmt.Fprintln(w, rec)
	}
}
