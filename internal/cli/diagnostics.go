package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pzaremba/flowxmi/pkg/flow"
	"github.com/pzaremba/flowxmi/pkg/pipeline"
)

// diagnosticsCommand creates the diagnostics command for browsing the
// structural warnings of a conversion interactively.
func (c *CLI) diagnosticsCommand() *cobra.Command {
	var strategy string

	cmd := &cobra.Command{
		Use:   "diagnostics [file]",
		Short: "Browse conversion warnings interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDiagnostics(cmd, args[0], strategy)
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", pipeline.StrategyKeyword, "branch suggestion strategy: keyword (default), none")

	return cmd
}

func (c *CLI) runDiagnostics(cmd *cobra.Command, input, strategy string) error {
	doc, err := flow.ImportDocument(input)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(nil, nil, c.Logger)
	defer runner.Close()

	result, err := runner.Convert(cmd.Context(), doc, pipeline.Options{
		Strategy: strategy,
		Logger:   c.Logger,
	})
	if err != nil {
		return err
	}

	title := doc.Title
	if title == "" {
		title = input
	}

	model := NewWarningListModel(title, result.Diagnostics)
	_, err = tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
	return err
}
