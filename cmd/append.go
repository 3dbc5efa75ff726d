package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Yates-Labs/recap/internal/config"
	"github.com/Yates-Labs/recap/internal/render"
)

const defaultAppendHeading = "英文逐字稿中文翻譯"

var appendHeading string

var appendCmd = &cobra.Command{
	Use:   "append [page-id] [file]",
	Short: "Append a text file to a page as a headed section",
	Long: `Append the contents of a UTF-8 text file to the end of a page under a level-2
heading. Blank lines separate paragraphs; long paragraphs are split into
chunks of at most chunk_size characters. Existing content is not touched.

Examples:
  recap append 1a2b3c4d5e6f47089a0b1c2d3e4f5a6b translation.txt
  recap append 1a2b3c4d5e6f47089a0b1c2d3e4f5a6b notes.txt --heading "補充筆記"`,
	Args: cobra.ExactArgs(2),
	RunE: runAppend,
}

func init() {
	rootCmd.AddCommand(appendCmd)
	appendCmd.Flags().StringVar(&appendHeading, "heading", defaultAppendHeading, "Heading text for the appended section")
}

func runAppend(cmd *cobra.Command, args []string) error {
	pageID, path := args[0], args[1]

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return fmt.Errorf("%s is empty", path)
	}

	s, err := openSession(config.Config.ValidateStore)
	if err != nil {
		return err
	}
	defer s.close()

	blocks := render.AssembleSection(appendHeading, text, s.cfg.ChunkSize)
	if err := s.notion.AppendChildren(cmd.Context(), pageID, blocks); err != nil {
		return fmt.Errorf("failed to append section: %w", err)
	}

	s.log.Info("section appended", "page_id", pageID, "heading", appendHeading, "blocks", len(blocks))
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Appended %d blocks to %s\n", len(blocks), pageID)
	return nil
}
