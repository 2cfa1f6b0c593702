// Package commands implements the archeo CLI subcommands.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/codearcheology/archeo/pkg/pipeline"
	"github.com/codearcheology/archeo/pkg/render"
	"github.com/codearcheology/archeo/pkg/report"
)

// Output format constants.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// AnalyzeCommand holds the flags for the analyze command.
type AnalyzeCommand struct {
	output  string
	format  string
	plot    string
	noColor bool
	verbose bool
}

// NewAnalyzeCommand creates and configures the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	cmd := &AnalyzeCommand{}

	cobraCmd := &cobra.Command{
		Use:   "analyze <path>",
		Short: "Analyze a source tree and emit a report",
		Long:  "Walk the given directory, run every analysis pass, and write the combined report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.Run(cobraCmd, args[0])
		},
	}

	cobraCmd.Flags().StringVarP(&cmd.output, "output", "o", "", "Output file (default: stdout)")
	cobraCmd.Flags().StringVarP(&cmd.format, "format", "f", FormatText, "Output format: text, json, or yaml")
	cobraCmd.Flags().StringVar(&cmd.plot, "plot", "", "Write an HTML chart page to the given file")
	cobraCmd.Flags().BoolVar(&cmd.noColor, "no-color", false, "Disable colored output")
	cobraCmd.Flags().BoolVarP(&cmd.verbose, "verbose", "v", false, "Verbose logging")

	return cobraCmd
}

// Run executes the analyze command against the given root path.
func (c *AnalyzeCommand) Run(cobraCmd *cobra.Command, root string) error {
	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	rep, err := pipeline.New(logger).Analyze(cobraCmd.Context(), root)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	writer, closeWriter, err := c.outputWriter()
	if err != nil {
		return err
	}
	defer closeWriter()

	err = c.writeReport(writer, rep)
	if err != nil {
		return err
	}

	if c.plot != "" {
		return c.writePlot(rep)
	}

	return nil
}

func (c *AnalyzeCommand) writeReport(w io.Writer, rep *report.Report) error {
	switch c.format {
	case FormatJSON:
		return rep.EncodeJSON(w)
	case FormatYAML:
		return rep.EncodeYAML(w)
	case FormatText:
		term := &render.Terminal{NoColor: c.noColor || c.output != ""}

		return term.Write(w, rep)
	default:
		return fmt.Errorf("unknown format %q: want text, json, or yaml", c.format)
	}
}

func (c *AnalyzeCommand) writePlot(rep *report.Report) error {
	f, err := os.Create(c.plot)
	if err != nil {
		return fmt.Errorf("create plot file: %w", err)
	}

	renderErr := render.WritePlot(f, rep)
	closeErr := f.Close()

	if renderErr != nil {
		return renderErr
	}

	return closeErr
}

func (c *AnalyzeCommand) outputWriter() (io.Writer, func(), error) {
	if c.output == "" {
		return os.Stdout, func() {}, nil
	}

	file, err := os.Create(c.output)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}

	return file, func() { _ = file.Close() }, nil
}
