package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pzaremba/flowxmi/pkg/flow"
	"github.com/pzaremba/flowxmi/pkg/pipeline"
	"github.com/pzaremba/flowxmi/pkg/render"
)

// validPreviewFormats is the set of supported preview output formats.
var validPreviewFormats = map[string]bool{"svg": true, "png": true, "pdf": true, "dot": true}

// previewOpts holds the command-line flags for the preview command.
type previewOpts struct {
	output   string // output file path; derived from input when empty
	format   string // output format: svg, png, pdf, dot
	detailed bool   // include node IDs and lanes in labels
	strategy string // branch-suggestion strategy passed to the pipeline
}

// previewCommand creates the preview command for rendering a Graphviz view
// of the repaired graph without producing XMI.
func (c *CLI) previewCommand() *cobra.Command {
	opts := previewOpts{format: "svg", strategy: pipeline.StrategyKeyword}

	cmd := &cobra.Command{
		Use:   "preview [file]",
		Short: "Render a Graphviz preview of the repaired flow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validPreviewFormats[opts.format] {
				return fmt.Errorf("invalid format: %s (must be 'svg', 'png', 'pdf', or 'dot')", opts.format)
			}
			return c.runPreview(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input name with format extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), png, pdf, dot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include node IDs and swimlanes in labels")
	cmd.Flags().StringVar(&opts.strategy, "strategy", opts.strategy, "branch suggestion strategy: keyword (default), none")

	return cmd
}

func (c *CLI) runPreview(cmd *cobra.Command, input string, opts *previewOpts) error {
	doc, err := flow.ImportDocument(input)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(nil, nil, c.Logger)
	defer runner.Close()

	result, err := runner.Convert(cmd.Context(), doc, pipeline.Options{
		Strategy: opts.strategy,
		Logger:   c.Logger,
	})
	if err != nil {
		return err
	}

	dot := render.ToDOT(result.Graph, render.Options{Detailed: opts.detailed})

	var data []byte
	switch opts.format {
	case "dot":
		data = []byte(dot)
	case "svg":
		data, err = render.RenderSVG(dot)
	case "pdf":
		var svg []byte
		if svg, err = render.RenderSVG(dot); err == nil {
			data, err = render.ToPDF(svg)
		}
	case "png":
		var svg []byte
		if svg, err = render.RenderSVG(dot); err == nil {
			data, err = render.ToPNG(svg, 2.0)
		}
	}
	if err != nil {
		return err
	}

	outputPath := opts.output
	if outputPath == "" {
		outputPath = strings.TrimSuffix(input, filepath.Ext(input)) + "." + opts.format
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return err
	}

	printSuccess("Wrote %s", outputPath)
	printDiagnostics(result.Diagnostics)
	return nil
}
