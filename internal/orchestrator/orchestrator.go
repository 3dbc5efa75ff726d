// Package orchestrator drives summary replacement for pages in the document store: it reads a
// page, asks the summarizer for a summary of its transcript, and rewrites the page as a summary
// section followed by the re-chunked transcript.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Yates-Labs/recap/internal/document"
	"github.com/Yates-Labs/recap/internal/logger"
	"github.com/Yates-Labs/recap/internal/render"
	"github.com/Yates-Labs/recap/internal/summarizer"
)

var ErrInvalidConfig = errors.New("invalid orchestrator configuration")

// untitled stands in for pages whose title property is empty.
const untitled = "(untitled)"

// DocumentStore reads and rewrites a page's child blocks.
type DocumentStore interface {
	document.ChildLister
	ArchiveBlock(ctx context.Context, blockID string) error
	AppendChildren(ctx context.Context, blockID string, blocks []document.Block) error
}

// PageSource finds pages to process.
type PageSource interface {
	RecentPages(ctx context.Context, databaseID string, limit int) ([]document.Page, error)
	Page(ctx context.Context, pageID string) (document.Page, error)
}

// Config holds the replacement settings.
type Config struct {
	DatabaseID         string
	ChunkSize          int
	MaxTranscriptChars int
	// Divider inserts a divider between the summary and the transcript
	Divider bool
	// Denylist replaces summarizer.DefaultDenylist when non-empty
	Denylist []string
}

// DefaultConfig returns the standard settings for databaseID.
func DefaultConfig(databaseID string) Config {
	return Config{
		DatabaseID:         databaseID,
		ChunkSize:          render.DefaultChunkSize,
		MaxTranscriptChars: document.MaxTranscriptChars,
		Divider:            true,
	}
}

// Orchestrator runs the per-page replacement workflow. It processes one page at a time.
type Orchestrator struct {
	store DocumentStore
	pages PageSource
	sum   summarizer.Summarizer
	cfg   Config
	log   *logger.Logger
}

// New validates the collaborators and configuration. Non-positive sizes fall back to defaults
// and the chunk size is capped at render.DefaultChunkSize.
func New(store DocumentStore, pages PageSource, sum summarizer.Summarizer, cfg Config, log *logger.Logger) (*Orchestrator, error) {
	if store == nil || pages == nil || sum == nil {
		return nil, fmt.Errorf("%w: document store, page source and summarizer are required", ErrInvalidConfig)
	}
	if strings.TrimSpace(cfg.DatabaseID) == "" {
		return nil, fmt.Errorf("%w: missing database ID", ErrInvalidConfig)
	}
	cfg.ChunkSize = render.ClampChunkSize(cfg.ChunkSize)
	if cfg.MaxTranscriptChars <= 0 {
		cfg.MaxTranscriptChars = document.MaxTranscriptChars
	}
	if log == nil {
		log = logger.Nop()
	}

	return &Orchestrator{
		store: store,
		pages: pages,
		sum:   sum,
		cfg:   cfg,
		log:   log,
	}, nil
}

// Run processes up to limit*3 recently edited pages of the configured database, stopping once
// limit pages are done. Only a failure to list candidates is returned as an error.
func (o *Orchestrator) Run(ctx context.Context, limit int) (*Report, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidConfig, limit)
	}

	candidates, err := o.pages.RecentPages(ctx, o.cfg.DatabaseID, limit*3)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidate pages: %w", err)
	}
	o.log.Info("candidate pages listed", "count", len(candidates), "limit", limit)

	report := &Report{Limit: limit, Candidates: len(candidates)}
	for _, page := range candidates {
		if report.Done() >= limit {
			break
		}
		if err := ctx.Err(); err != nil {
			o.log.Warn("run cancelled", "error", err)
			break
		}
		report.Results = append(report.Results, o.ProcessDocument(ctx, page))
	}

	o.log.Info("run finished", "done", report.Done(), "processed", len(report.Results))
	return report, nil
}

// ProcessPage runs the workflow for a single page identified by ID.
func (o *Orchestrator) ProcessPage(ctx context.Context, pageID string) Result {
	page, err := o.pages.Page(ctx, pageID)
	if err != nil {
		o.log.Error("failed to retrieve page", "page_id", pageID, "error", err)
		return Result{PageID: pageID, Outcome: OutcomeFailed, Err: err}
	}
	if page.ID == "" {
		page.ID = pageID
	}
	return o.ProcessDocument(ctx, page)
}

// ProcessDocument runs the replacement workflow for one page. Nothing is mutated unless a
// non-empty cleaned summary was produced and the page still lacks a summary heading.
func (o *Orchestrator) ProcessDocument(ctx context.Context, page document.Page) Result {
	log := o.log.With("page_id", page.ID)
	res := Result{PageID: page.ID, Title: page.Title}

	title := page.Title
	if title == "" {
		title = untitled
	}
	log.Info("processing page", "title", title)

	blocks, err := document.ListAll(ctx, o.store, page.ID)
	if err != nil {
		log.Error("failed to read page blocks", "error", err)
		return res.fail(err)
	}
	if document.AlreadyProcessed(blocks) {
		log.Info("page already has a summary, skipping")
		return res.with(OutcomeSkippedAlready)
	}

	transcript := document.ExtractTranscript(blocks)
	if transcript.Empty() {
		log.Info("no transcript paragraphs found, skipping")
		return res.with(OutcomeSkippedNoTranscript)
	}

	prompt := summarizer.BuildPrompt(title, transcript.PromptText(o.cfg.MaxTranscriptChars))
	summary, attempts, err := o.acquireSummary(ctx, log, prompt)
	res.Attempts = attempts
	if err != nil {
		log.Error("summarizer failed after retry", "attempts", attempts, "error", err)
		res.Err = err
		return res.with(OutcomeFailedAfterRetry)
	}
	if strings.TrimSpace(summary) == "" {
		log.Warn("summarizer returned an empty summary, skipping")
		return res.with(OutcomeSkippedEmptySummary)
	}

	cleaned := summarizer.Clean(summary, o.cfg.Denylist)
	if cleaned == "" {
		log.Warn("summary is empty after clean-up, skipping")
		return res.with(OutcomeSkippedEmptyAfterClean)
	}

	rebuilt := o.buildDocument(cleaned, transcript)

	// Re-read right before mutating: summarization is slow and the page may have changed.
	current, err := document.ListAll(ctx, o.store, page.ID)
	if err != nil {
		log.Error("failed to re-read page blocks", "error", err)
		return res.fail(err)
	}
	if document.AlreadyProcessed(current) {
		log.Info("page gained a summary while summarizing, skipping")
		return res.with(OutcomeSkippedAlready)
	}

	for _, b := range current {
		if err := o.store.ArchiveBlock(ctx, b.ID); err != nil {
			log.Warn("failed to archive block", "block_id", b.ID, "error", err)
			res.ArchiveFailures++
			continue
		}
		res.Archived++
	}

	if err := o.store.AppendChildren(ctx, page.ID, rebuilt); err != nil {
		log.Error("failed to append rebuilt content; archived blocks are not restored",
			"archived", res.Archived, "blocks", len(rebuilt), "error", err)
		return res.fail(err)
	}
	res.Appended = len(rebuilt)

	log.Info("page rewritten", "archived", res.Archived, "archive_failures", res.ArchiveFailures, "appended", res.Appended)
	return res.with(OutcomeDone)
}

// acquireSummary calls the summarizer, retrying a failed attempt once.
func (o *Orchestrator) acquireSummary(ctx context.Context, log *logger.Logger, prompt string) (string, int, error) {
	var lastErr error
	attempts := 0
	for attempts < summarizer.MaxSummaryAttempts {
		attempts++
		summary, err := o.sum.Run(ctx, prompt)
		if err == nil {
			return summary, attempts, nil
		}
		lastErr = err
		log.Warn("summarizer attempt failed", "attempt", attempts, "error", err)
		if ctx.Err() != nil {
			break
		}
	}
	return "", attempts, lastErr
}

// buildDocument lays out the new page body: summary section, optional divider, then the full
// transcript re-chunked.
func (o *Orchestrator) buildDocument(summary string, transcript document.Transcript) []document.Block {
	highlights, closing := render.Classify(summary)
	return render.Assemble(render.AssembleInput{
		Heading:    document.SummaryHeading,
		Highlights: highlights,
		Closing:    closing,
		Divider:    o.cfg.Divider,
		Chunks:     render.Segment(transcript.Full(), o.cfg.ChunkSize),
	})
}
