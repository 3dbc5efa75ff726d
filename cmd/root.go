package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "recap",
	Short: "Recap - transcript summaries for a Notion video database",
	Long: `Recap keeps a Notion database of YouTube videos summarized.

It reads each page's transcript paragraphs, asks a summarizer for a highlight
list and a closing paragraph, and rewrites the page as a "內容摘要" section
followed by the re-chunked transcript. Pages that already carry a summary
heading are left alone, so runs can be repeated safely.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file (default: ./recap.yaml if present)")
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
