package cmd

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Yates-Labs/recap/internal/config"
	"github.com/Yates-Labs/recap/internal/logger"
	"github.com/Yates-Labs/recap/internal/notion"
	"github.com/Yates-Labs/recap/internal/orchestrator"
	"github.com/Yates-Labs/recap/internal/summarizer"
)

// session bundles what every command needs: settings, a run-scoped logger and the store client.
type session struct {
	cfg    *config.Config
	log    *logger.Logger
	notion *notion.Client
}

// openSession loads configuration, validates it with validate and wires the shared clients.
func openSession(validate func(config.Config) error) (*session, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if err := validate(*cfg); err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, err
	}
	log = log.With("run_id", uuid.NewString())

	client := notion.NewClient(cfg.NotionAPIKey,
		notion.WithVersion(cfg.NotionVersion),
		notion.WithTimeout(cfg.NotionTimeout),
	)

	return &session{cfg: cfg, log: log, notion: client}, nil
}

func (s *session) close() {
	s.log.Sync()
}

// newOrchestrator wires the configured summarizer backend into a replacement orchestrator.
func (s *session) newOrchestrator(ctx context.Context) (*orchestrator.Orchestrator, error) {
	sum, err := summarizer.New(ctx, s.summarizerOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to create summarizer: %w", err)
	}

	return orchestrator.New(s.notion, s.notion, sum, orchestrator.Config{
		DatabaseID:         s.cfg.DatabaseID,
		ChunkSize:          s.cfg.ChunkSize,
		MaxTranscriptChars: s.cfg.MaxTranscriptChars,
		Divider:            s.cfg.Divider,
		Denylist:           s.cfg.Denylist,
	}, s.log)
}

func (s *session) summarizerOptions() summarizer.Options {
	opts := summarizer.Options{
		Provider:    s.cfg.Summarizer,
		Interpreter: s.cfg.SummarizerPython,
		Script:      s.cfg.SummarizerScript,
		Timeout:     s.cfg.SummarizerTimeout,
	}
	switch s.cfg.Summarizer {
	case summarizer.ProviderOpenAI:
		opts.APIKey, opts.Model = s.cfg.OpenAIAPIKey, s.cfg.OpenAIModel
	case summarizer.ProviderGemini:
		opts.APIKey, opts.Model = s.cfg.GeminiAPIKey, s.cfg.GeminiModel
	}
	return opts
}
