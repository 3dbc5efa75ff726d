package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Yates-Labs/recap/internal/config"
	"github.com/Yates-Labs/recap/internal/orchestrator"
)

var pageCmd = &cobra.Command{
	Use:   "page [page-id]",
	Short: "Summarize a single page by ID",
	Long: `Run the summary workflow for one page, regardless of where it sits in the
database ordering. The page is skipped if it already has a summary heading.

Examples:
  recap page 1a2b3c4d5e6f47089a0b1c2d3e4f5a6b`,
	Args: cobra.ExactArgs(1),
	RunE: runPage,
}

func init() {
	rootCmd.AddCommand(pageCmd)
}

func runPage(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	s, err := openSession(config.Config.ValidateDatabase)
	if err != nil {
		return err
	}
	defer s.close()

	orch, err := s.newOrchestrator(ctx)
	if err != nil {
		return err
	}

	res := orch.ProcessPage(ctx, args[0])
	outputReport(cmd.OutOrStdout(), []orchestrator.Result{res})

	if res.Outcome.Failed() {
		return fmt.Errorf("page %s: %s: %w", res.PageID, res.Outcome, res.Err)
	}
	return nil
}
