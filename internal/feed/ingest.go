package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Yates-Labs/recap/internal/document"
	"github.com/Yates-Labs/recap/internal/logger"
	"github.com/Yates-Labs/recap/internal/render"
	"github.com/Yates-Labs/recap/internal/transcript"
)

var ErrInvalidConfig = errors.New("invalid ingest configuration")

// Source yields the newest video of a feed.
type Source interface {
	LatestVideo(ctx context.Context, rssURL string) (*Video, error)
}

// TranscriptFetcher returns the captions of a video.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoURL string) (transcript.Transcript, error)
}

// PageCreator creates a database page for a video with the given body blocks.
type PageCreator interface {
	CreateVideoPage(ctx context.Context, databaseID string, v document.VideoPage, children []document.Block) (string, error)
}

// Outcome is the terminal state of one channel in an ingest run.
type Outcome string

const (
	OutcomeCreated             Outcome = "created"
	OutcomeSkippedNoVideo      Outcome = "skipped_no_video"
	OutcomeSkippedNotToday     Outcome = "skipped_not_today"
	OutcomeSkippedNoTranscript Outcome = "skipped_no_transcript"
	OutcomeFailed              Outcome = "failed"
)

// ChannelResult records what happened to one channel.
type ChannelResult struct {
	Channel  string  `json:"channel"`
	Video    string  `json:"video,omitempty"`
	VideoURL string  `json:"video_url,omitempty"`
	PageID   string  `json:"page_id,omitempty"`
	Outcome  Outcome `json:"outcome"`
	Err      error   `json:"-"`
}

// IngestReport collects per-channel results in channel order.
type IngestReport struct {
	Results []ChannelResult `json:"results"`
}

// Created counts channels that produced a page.
func (r IngestReport) Created() int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == OutcomeCreated {
			n++
		}
	}
	return n
}

// IngestConfig holds the ingest settings.
type IngestConfig struct {
	DatabaseID string
	ChunkSize  int
	// Location decides what "today" means for publication dates
	Location *time.Location
}

// Ingestor creates pages for the videos channels published today.
type Ingestor struct {
	feeds       Source
	transcripts TranscriptFetcher
	pages       PageCreator
	cfg         IngestConfig
	log         *logger.Logger

	now func() time.Time
}

func NewIngestor(feeds Source, transcripts TranscriptFetcher, pages PageCreator, cfg IngestConfig, log *logger.Logger) (*Ingestor, error) {
	if feeds == nil || transcripts == nil || pages == nil {
		return nil, fmt.Errorf("%w: feed source, transcript fetcher and page creator are required", ErrInvalidConfig)
	}
	if cfg.DatabaseID == "" {
		return nil, fmt.Errorf("%w: missing database ID", ErrInvalidConfig)
	}
	cfg.ChunkSize = render.ClampChunkSize(cfg.ChunkSize)
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}

	return &Ingestor{
		feeds:       feeds,
		transcripts: transcripts,
		pages:       pages,
		cfg:         cfg,
		log:         log,
		now:         time.Now,
	}, nil
}

// Run processes channels in order. Per-channel failures are recorded and never stop the run.
func (i *Ingestor) Run(ctx context.Context, channels []Channel) IngestReport {
	var report IngestReport
	for _, ch := range channels {
		if ctx.Err() != nil {
			report.Results = append(report.Results, ChannelResult{Channel: ch.Name, Outcome: OutcomeFailed, Err: ctx.Err()})
			continue
		}
		report.Results = append(report.Results, i.ingestChannel(ctx, ch))
	}
	return report
}

func (i *Ingestor) ingestChannel(ctx context.Context, ch Channel) ChannelResult {
	log := i.log.With("channel", ch.Name)
	res := ChannelResult{Channel: ch.Name}

	video, err := i.feeds.LatestVideo(ctx, ch.RSS)
	if err != nil {
		log.Error("failed to read feed", "rss", ch.RSS, "error", err)
		res.Outcome, res.Err = OutcomeFailed, err
		return res
	}
	if video == nil {
		log.Warn("feed has no videos", "rss", ch.RSS)
		res.Outcome = OutcomeSkippedNoVideo
		return res
	}
	res.Video, res.VideoURL = video.Title, video.Link

	if !PublishedOn(video.Published, i.now(), i.cfg.Location) {
		log.Info("latest video was not published today, skipping",
			"video", video.Title, "published", video.Published, "timezone", i.cfg.Location.String())
		res.Outcome = OutcomeSkippedNotToday
		return res
	}

	tr, err := i.transcripts.Fetch(ctx, video.Link)
	if errors.Is(err, transcript.ErrNoTranscript) {
		log.Info("no usable transcript, skipping", "video", video.Title, "reason", err)
		res.Outcome = OutcomeSkippedNoTranscript
		return res
	}
	if err != nil {
		log.Error("failed to fetch transcript", "video", video.Title, "error", err)
		res.Outcome, res.Err = OutcomeFailed, err
		return res
	}

	var children []document.Block
	for _, chunk := range render.Segment(tr.Text, i.cfg.ChunkSize) {
		children = append(children, document.Paragraph(document.Plain(chunk)))
	}

	page := document.VideoPage{
		Channel:     ch.Name,
		Title:       video.Title,
		URL:         video.Link,
		PublishedAt: video.Published,
	}
	pageID, err := i.pages.CreateVideoPage(ctx, i.cfg.DatabaseID, page, children)
	res.PageID = pageID
	if err != nil {
		log.Error("failed to create page", "video", video.Title, "page_id", pageID, "error", err)
		res.Outcome, res.Err = OutcomeFailed, err
		return res
	}

	log.Info("page created", "video", video.Title, "video_id", VideoID(video.Link),
		"page_id", pageID, "transcript_chars", len([]rune(tr.Text)), "language", tr.Language, "chinese", tr.IsChinese())
	res.Outcome = OutcomeCreated
	return res
}
