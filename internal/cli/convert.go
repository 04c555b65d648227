package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pzaremba/flowxmi/pkg/errors"
	"github.com/pzaremba/flowxmi/pkg/flow"
	"github.com/pzaremba/flowxmi/pkg/layout"
	"github.com/pzaremba/flowxmi/pkg/pipeline"
)

// convertOpts holds the command-line flags for the convert command.
type convertOpts struct {
	output      string // output file path; derived from input when empty
	diagramName string // diagram name recorded in the XMI
	author      string // diagram author recorded in the XMI
	version     string // diagram version recorded in the XMI
	strategy    string // branch-suggestion strategy: "keyword" or "none"
	layoutFile  string // TOML layout configuration file
	redisURL    string // shared conversion cache
	noCache     bool   // disable caching entirely
	refresh     bool   // recompute and overwrite the cached result
	quiet       bool   // suppress diagnostic listing
}

// convertCommand creates the convert command, the main entry point of the
// tool: flow document in, Enterprise Architect XMI out.
func (c *CLI) convertCommand() *cobra.Command {
	opts := convertOpts{strategy: pipeline.StrategyKeyword}

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert a flow document to Enterprise Architect XMI",
		Long: `Convert reads a flow document (JSON), repairs structural defects,
computes diagram geometry, and writes an XMI 2.1 file that imports into
Enterprise Architect. Structural warnings are listed after conversion.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input name with .xml)")
	cmd.Flags().StringVar(&opts.diagramName, "name", "", "diagram name (default: document title)")
	cmd.Flags().StringVar(&opts.author, "author", "", "diagram author")
	cmd.Flags().StringVar(&opts.version, "diagram-version", "", "diagram version")
	cmd.Flags().StringVar(&opts.strategy, "strategy", opts.strategy, "branch suggestion strategy: keyword (default), none")
	cmd.Flags().StringVar(&opts.layoutFile, "layout", "", "layout configuration file (TOML)")
	cmd.Flags().StringVar(&opts.redisURL, "redis", "", "Redis URL for a shared conversion cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the conversion cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if a cached result exists")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress the diagnostic listing")

	return cmd
}

func (c *CLI) runConvert(cmd *cobra.Command, input string, opts *convertOpts) error {
	doc, err := flow.ImportDocument(input)
	if err != nil {
		return err
	}

	popts, err := c.pipelineOptions(doc, opts)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(cmd, opts.noCache, opts.redisURL)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	sp := newSpinnerWithContext(cmd.Context(), "Converting "+filepath.Base(input))
	sp.Start()

	result, err := runner.Execute(cmd.Context(), doc, popts)
	sp.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Converted %d nodes, %d edges", result.Stats.NodeCount, result.Stats.EdgeCount))

	outputPath := opts.output
	if outputPath == "" {
		outputPath = strings.TrimSuffix(input, filepath.Ext(input)) + ".xml"
	}
	if err := errors.ValidateOutputPath(outputPath); err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, result.Document, 0644); err != nil {
		return err
	}

	printSuccess("Wrote %s", outputPath)
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, len(result.Diagnostics), result.CacheInfo.ConversionHit)

	if !opts.quiet {
		printDiagnostics(result.Diagnostics)
	}
	if len(result.Diagnostics) > 0 && !opts.quiet {
		printNextStep("Inspect interactively", appName+" diagnostics "+input)
	}
	return nil
}

// pipelineOptions maps CLI flags onto pipeline options. The document title
// wins over the default diagram name but loses to an explicit --name.
func (c *CLI) pipelineOptions(doc *flow.Document, opts *convertOpts) (pipeline.Options, error) {
	popts := pipeline.Options{
		DiagramName: opts.diagramName,
		Author:      opts.author,
		Version:     opts.version,
		Strategy:    opts.strategy,
		Refresh:     opts.refresh,
		Logger:      c.Logger,
	}
	if popts.DiagramName == "" && doc.Title != "" {
		popts.DiagramName = doc.Title
	}
	if popts.DiagramName != "" {
		if err := errors.ValidateDiagramName(popts.DiagramName); err != nil {
			return popts, err
		}
	}
	if opts.layoutFile != "" {
		cfg, err := layout.LoadConfig(opts.layoutFile)
		if err != nil {
			return popts, err
		}
		popts.Layout = cfg
	}
	return popts, nil
}
