package summarizer

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// GeminiSummarizer implements Summarizer using Gemini text generation.
type GeminiSummarizer struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiSummarizer creates a Gemini-backed summarizer.
// Returns an error if the API key or model is missing.
func NewGeminiSummarizer(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiSummarizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: missing API key (set GEMINI_API_KEY)", ErrInvalidConfig)
	}
	if model == "" {
		return nil, fmt.Errorf("%w: missing model name", ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create genai client: %w", ErrInvalidConfig, err)
	}

	return &GeminiSummarizer{
		client:  client,
		model:   model,
		timeout: timeout,
	}, nil
}

// Run sends the prompt to Gemini and returns the generated text.
func (g *GeminiSummarizer) Run(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("%w: prompt cannot be empty", ErrInvalidConfig)
	}

	ctx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSummarizerFailed, err)
	}
	return resp.Text(), nil
}
