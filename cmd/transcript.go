package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Yates-Labs/recap/internal/config"
	"github.com/Yates-Labs/recap/internal/document"
)

var transcriptMax int

var transcriptCmd = &cobra.Command{
	Use:   "transcript [page-id]",
	Short: "Print the transcript text of a page",
	Long: `Print the paragraph text of a page, one paragraph per line, the same text the
summarizer sees. Use --max to cut it to a number of characters (0 = no limit).

Examples:
  recap transcript 1a2b3c4d5e6f47089a0b1c2d3e4f5a6b
  recap transcript 1a2b3c4d5e6f47089a0b1c2d3e4f5a6b --max 60000 > transcript.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscript,
}

func init() {
	rootCmd.AddCommand(transcriptCmd)
	transcriptCmd.Flags().IntVar(&transcriptMax, "max", 0, "Maximum number of characters to print (0 = all)")
}

func runTranscript(cmd *cobra.Command, args []string) error {
	s, err := openSession(config.Config.ValidateStore)
	if err != nil {
		return err
	}
	defer s.close()

	blocks, err := document.ListAll(cmd.Context(), s.notion, args[0])
	if err != nil {
		return fmt.Errorf("failed to read page: %w", err)
	}

	transcript := document.ExtractTranscript(blocks)
	if transcript.Empty() {
		return fmt.Errorf("page %s has no transcript paragraphs", args[0])
	}

	fmt.Fprintln(cmd.OutOrStdout(), transcript.PromptText(transcriptMax))
	return nil
}
