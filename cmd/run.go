package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Yates-Labs/recap/internal/config"
	"github.com/Yates-Labs/recap/internal/orchestrator"
)

var (
	runLimit   int
	exportFile string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Summarize the most recently edited pages of the database",
	Long: `Scan recently edited pages of the configured database and summarize them.

Up to limit*3 candidates are examined, newest first, until limit pages have
been rewritten. Pages that already have a summary, have no transcript, or get
an empty summary are skipped untouched.

Required environment variables:
  NOTION_API_KEY                 - Notion integration token
  YTSUMMARY_NOTION_DATABASE_ID   - database holding the video pages

Examples:
  recap run
  recap run --limit 5
  recap run --limit 3 --export report.json`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().IntVar(&runLimit, "limit", 1, "Number of pages to summarize")
	runCmd.Flags().StringVar(&exportFile, "export", "", "Export the run report to JSON file: --export <filename>")
}

func runRun(cmd *cobra.Command, args []string) error {
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

	report, err := orch.Run(ctx, runLimit)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(report.Results) == 0 {
		fmt.Fprintln(out, "No candidate pages found in database")
		return nil
	}

	outputReport(out, report.Results)
	fmt.Fprintln(out)
	fmt.Fprintln(out, summaryStyle.Render(fmt.Sprintf("Total: %d candidates, %d processed, %d done",
		report.Candidates, len(report.Results), report.Done())))

	if exportFile != "" {
		return handleExport(out, report, exportFile)
	}
	return nil
}

func handleExport(out io.Writer, report *orchestrator.Report, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	if err := report.Export(file, "json"); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Fprintf(out, "✓ Exported %d results to %s\n", len(report.Results), filename)
	return nil
}

// LipGloss purple/pink palette
var (
	headerColor  = lipgloss.Color("#F780FF") // Bright pink/magenta
	idColor      = lipgloss.Color("#BD93F9") // Purple
	numberColor  = lipgloss.Color("#FF79C6") // Pink
	textColor    = lipgloss.Color("#E9E9F4") // Light purple/white
	borderColor  = lipgloss.Color("#6272A4") // Muted purple
	summaryColor = lipgloss.Color("#8BE9FD") // Cyan accent
	doneColor    = lipgloss.Color("#50FA7B") // Green
	errorColor   = lipgloss.Color("#FF5555") // Red

	summaryStyle = lipgloss.NewStyle().Foreground(summaryColor).Italic(true)
	borderStyle  = lipgloss.NewStyle().Foreground(borderColor)
)

// Column widths
const (
	idWidth      = 36
	titleWidth   = 28
	outcomeWidth = 27
	countWidth   = 10
)

func outcomeColor(o orchestrator.Outcome) lipgloss.Color {
	switch {
	case o == orchestrator.OutcomeDone:
		return doneColor
	case o.Failed():
		return errorColor
	default:
		return textColor
	}
}

// outputReport prints one table row per processed page.
func outputReport(out io.Writer, results []orchestrator.Result) {
	headerStyle := lipgloss.NewStyle().
		Foreground(headerColor).
		Bold(true).
		Padding(0, 1)

	headers := []string{
		headerStyle.Width(idWidth).Render("PAGE"),
		headerStyle.Width(titleWidth).Render("TITLE"),
		headerStyle.Width(outcomeWidth).Render("OUTCOME"),
		headerStyle.Width(countWidth).Render("ARCHIVED"),
		headerStyle.Width(countWidth).Render("APPENDED"),
	}
	fmt.Fprintln(out, strings.Join(headers, borderStyle.Render("│")))

	separatorParts := []string{
		strings.Repeat("─", idWidth),
		strings.Repeat("─", titleWidth),
		strings.Repeat("─", outcomeWidth),
		strings.Repeat("─", countWidth),
		strings.Repeat("─", countWidth),
	}
	fmt.Fprintln(out, borderStyle.Render(strings.Join(separatorParts, "┼")))

	idStyle := lipgloss.NewStyle().Foreground(idColor).Padding(0, 1).Width(idWidth)
	titleStyle := lipgloss.NewStyle().Foreground(textColor).Padding(0, 1).Width(titleWidth).MaxHeight(1)
	numStyle := lipgloss.NewStyle().Foreground(numberColor).Padding(0, 1).Width(countWidth).Align(lipgloss.Right)

	for _, res := range results {
		outcomeStyle := lipgloss.NewStyle().
			Foreground(outcomeColor(res.Outcome)).
			Padding(0, 1).
			Width(outcomeWidth)

		archived := fmt.Sprintf("%d", res.Archived)
		if res.ArchiveFailures > 0 {
			archived = fmt.Sprintf("%d (!%d)", res.Archived, res.ArchiveFailures)
		}

		cells := []string{
			idStyle.Render(res.PageID),
			titleStyle.Render(res.Title),
			outcomeStyle.Render(string(res.Outcome)),
			numStyle.Render(archived),
			numStyle.Render(fmt.Sprintf("%d", res.Appended)),
		}
		fmt.Fprintln(out, strings.Join(cells, borderStyle.Render("│")))

		if res.Err != nil {
			errStyle := lipgloss.NewStyle().Foreground(errorColor).PaddingLeft(2)
			fmt.Fprintln(out, errStyle.Render("↳ "+res.Err.Error()))
		}
	}
}
