package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Yates-Labs/recap/internal/config"
	"github.com/Yates-Labs/recap/internal/feed"
	"github.com/Yates-Labs/recap/internal/transcript"
)

const feedTimeout = 30 * time.Second

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Create pages for videos channels published today",
	Long: `Poll every channel listed in the channels file (JSON list of {"name", "rss"}),
pick each channel's newest long-form video, and if it was published today in
the configured time zone, create a database page holding its transcript.

Required environment variables:
  NOTION_API_KEY                 - Notion integration token
  YTSUMMARY_NOTION_DATABASE_ID   - database receiving the pages
  TRANSCRIPT_API_KEY             - TranscriptAPI key (or ~/.openclaw/openclaw.json)

Examples:
  recap ingest
  RECAP_CHANNELS=/etc/recap/channels.json recap ingest`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	s, err := openSession(config.Config.ValidateDatabase)
	if err != nil {
		return err
	}
	defer s.close()

	channels, err := feed.LoadChannels(s.cfg.ChannelsPath)
	if err != nil {
		return err
	}

	loc, err := time.LoadLocation(s.cfg.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", s.cfg.Timezone, err)
	}

	if s.cfg.TranscriptAPIKey == "" {
		s.log.Warn("no transcript API key configured; every video will be skipped")
	}

	ingestor, err := feed.NewIngestor(
		feed.NewFetcher(feedTimeout),
		transcript.NewClient("", s.cfg.TranscriptAPIKey),
		s.notion,
		feed.IngestConfig{
			DatabaseID: s.cfg.DatabaseID,
			ChunkSize:  s.cfg.ChunkSize,
			Location:   loc,
		},
		s.log,
	)
	if err != nil {
		return err
	}

	report := ingestor.Run(cmd.Context(), channels)

	out := cmd.OutOrStdout()
	outputIngest(out, report)
	fmt.Fprintln(out)
	fmt.Fprintln(out, summaryStyle.Render(fmt.Sprintf("Total: %d channels, %d pages created",
		len(report.Results), report.Created())))
	return nil
}

// outputIngest prints one table row per channel.
func outputIngest(out io.Writer, report feed.IngestReport) {
	const (
		channelWidth = 20
		videoWidth   = 40
		resultWidth  = 24
	)

	headerStyle := lipgloss.NewStyle().
		Foreground(headerColor).
		Bold(true).
		Padding(0, 1)

	headers := []string{
		headerStyle.Width(channelWidth).Render("CHANNEL"),
		headerStyle.Width(videoWidth).Render("VIDEO"),
		headerStyle.Width(resultWidth).Render("OUTCOME"),
	}
	fmt.Fprintln(out, strings.Join(headers, borderStyle.Render("│")))
	fmt.Fprintln(out, borderStyle.Render(strings.Join([]string{
		strings.Repeat("─", channelWidth),
		strings.Repeat("─", videoWidth),
		strings.Repeat("─", resultWidth),
	}, "┼")))

	channelStyle := lipgloss.NewStyle().Foreground(idColor).Padding(0, 1).Width(channelWidth).MaxHeight(1)
	videoStyle := lipgloss.NewStyle().Foreground(textColor).Padding(0, 1).Width(videoWidth).MaxHeight(1)

	for _, res := range report.Results {
		color := textColor
		switch res.Outcome {
		case feed.OutcomeCreated:
			color = doneColor
		case feed.OutcomeFailed:
			color = errorColor
		}
		resultStyle := lipgloss.NewStyle().Foreground(color).Padding(0, 1).Width(resultWidth)

		fmt.Fprintln(out, strings.Join([]string{
			channelStyle.Render(res.Channel),
			videoStyle.Render(res.Video),
			resultStyle.Render(string(res.Outcome)),
		}, borderStyle.Render("│")))

		if res.Err != nil {
			errStyle := lipgloss.NewStyle().Foreground(errorColor).PaddingLeft(2)
			fmt.Fprintln(out, errStyle.Render("↳ "+res.Err.Error()))
		}
	}
}
